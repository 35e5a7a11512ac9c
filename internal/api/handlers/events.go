package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/apierror"
	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/domain/events"
)

type EventsHandler struct {
	service *events.Service
	env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{service: service, env: env}
}

type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	City        *string   `json:"city"`
	Address     *string   `json:"address"`
	Date        time.Time `json:"date"`
	Price       float64   `json:"price"`
	State       string    `json:"state"`
	MaxCapacity *int      `json:"maxCapacity"`
	Image       *string   `json:"image"`
	OrganizerID string    `json:"organizerId"`
}

func toEventResponse(e *events.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		City:        e.City,
		Address:     e.Address,
		Date:        e.Date,
		Price:       e.Price,
		State:       e.State,
		MaxCapacity: e.MaxCapacity,
		Image:       e.Image,
		OrganizerID: e.OrganizerID,
	}
}

func toEventResponses(list []events.Event) []eventResponse {
	responses := make([]eventResponse, 0, len(list))
	for i := range list {
		responses = append(responses, toEventResponse(&list[i]))
	}
	return responses
}

func (h *EventsHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPublished(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(list))
}

// ListMine returns the caller's own events. An organizer with zero events
// gets a 404, a quirk the API has always had and clients depend on.
func (h *EventsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	list, err := h.service.ListMine(r.Context(), *actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(list) == 0 {
		apierror.Write(w, r, http.StatusNotFound, "No events found for this organizer", nil, h.env)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(list))
}

func (h *EventsHandler) Show(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	event, err := h.service.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)

	var input events.CreateInput
	if !decodeJSON(w, r, &input, h.env) {
		return
	}

	event, err := h.service.Create(r.Context(), *actor, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)

	var input events.UpdateInput
	if !decodeJSON(w, r, &input, h.env) {
		return
	}

	event, err := h.service.Update(r.Context(), *actor, r.PathValue("id"), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	if err := h.service.Delete(r.Context(), *actor, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventsHandler) Search(w http.ResponseWriter, r *http.Request) {
	filters, err := events.ParseSearchFilters(r.URL.Query())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	list, err := h.service.Search(r.Context(), filters)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(list))
}

func (h *EventsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation events.ValidationError
	switch {
	case errors.As(err, &validation):
		apierror.Write(w, r, http.StatusBadRequest, validation.Message, err, h.env)
	case errors.Is(err, events.ErrForbidden):
		apierror.Write(w, r, http.StatusForbidden, "Forbidden", err, h.env)
	case errors.Is(err, events.ErrNotFound):
		apierror.Write(w, r, http.StatusNotFound, "Event not found", err, h.env)
	default:
		apierror.Write(w, r, http.StatusInternalServerError, "", err, h.env)
	}
}
