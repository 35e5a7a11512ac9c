package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/apierror"
	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/domain/events"
	"github.com/gatherly/server/internal/domain/registrations"
	"github.com/gatherly/server/internal/metrics"
)

type RegistrationsHandler struct {
	service *registrations.Service
	env     string
}

func NewRegistrationsHandler(service *registrations.Service, env string) *RegistrationsHandler {
	return &RegistrationsHandler{service: service, env: env}
}

func (h *RegistrationsHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	if err := h.service.Register(r.Context(), *actor, r.PathValue("id")); err != nil {
		if errors.Is(err, registrations.ErrAlreadyRegistered) {
			metrics.EventRegistrationsTotal.WithLabelValues("duplicate").Inc()
		}
		h.writeError(w, r, err)
		return
	}
	metrics.EventRegistrationsTotal.WithLabelValues("created").Inc()
	writeMessage(w, http.StatusOK, "User registered to event successfully")
}

func (h *RegistrationsHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	if err := h.service.Unregister(r.Context(), *actor, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	metrics.EventRegistrationsTotal.WithLabelValues("removed").Inc()
	writeMessage(w, http.StatusOK, "User unregistered successfully")
}

type registeredEventResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	City        *string `json:"city"`
	Address     *string `json:"address"`
}

func (h *RegistrationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	list, err := h.service.ListMine(r.Context(), *actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	responses := make([]registeredEventResponse, 0, len(list))
	for _, event := range list {
		responses = append(responses, registeredEventResponse{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			Date:        event.Date.Format(time.RFC3339),
			City:        event.City,
			Address:     event.Address,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *RegistrationsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registrations.ErrAlreadyRegistered):
		apierror.Write(w, r, http.StatusBadRequest, "User already registered", err, h.env)
	case errors.Is(err, registrations.ErrNotRegistered):
		apierror.Write(w, r, http.StatusBadRequest, "User not registered", err, h.env)
	case errors.Is(err, events.ErrNotFound):
		apierror.Write(w, r, http.StatusNotFound, "Event not found", err, h.env)
	default:
		apierror.Write(w, r, http.StatusInternalServerError, "", err, h.env)
	}
}
