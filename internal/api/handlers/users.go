package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/apierror"
	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/domain/users"
	"github.com/go-playground/validator/v10"
)

type UsersHandler struct {
	service  *users.Service
	validate *validator.Validate
	env      string
}

func NewUsersHandler(service *users.Service, env string) *UsersHandler {
	return &UsersHandler{
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		env:      env,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u *users.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Roles:     u.Roles.Strings(),
		CreatedAt: u.CreatedAt,
	}
}

func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var params users.RegisterParams
	if !decodeJSON(w, r, &params, h.env) {
		return
	}
	if err := h.validate.Struct(params); err != nil {
		apierror.Write(w, r, http.StatusBadRequest, "Missing data", err, h.env)
		return
	}

	if err := h.service.Register(r.Context(), params); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusCreated, "User registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req, h.env) {
		return
	}
	if err := h.validate.Struct(req); err != nil {
		apierror.Write(w, r, http.StatusBadRequest, "Email and password are required", err, h.env)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	user, err := h.service.Profile(r.Context(), actor.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	list, err := h.service.List(r.Context(), *actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	responses := make([]userResponse, 0, len(list))
	for i := range list {
		responses = append(responses, toUserResponse(&list[i]))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (h *UsersHandler) Show(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	user, err := h.service.Get(r.Context(), *actor, r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)

	var params users.AdminCreateParams
	if !decodeJSON(w, r, &params, h.env) {
		return
	}

	user, err := h.service.AdminCreate(r.Context(), *actor, params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.Actor(r)
	if err := h.service.Delete(r.Context(), *actor, r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UsersHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validation users.ValidationError
	switch {
	case errors.As(err, &validation):
		apierror.Write(w, r, http.StatusBadRequest, validation.Message, err, h.env)
	case errors.Is(err, users.ErrInvalidCredentials):
		apierror.Write(w, r, http.StatusUnauthorized, "Invalid credentials", err, h.env)
	case errors.Is(err, users.ErrForbidden):
		apierror.Write(w, r, http.StatusForbidden, "Forbidden", err, h.env)
	case errors.Is(err, users.ErrNotFound):
		apierror.Write(w, r, http.StatusNotFound, "User not found", err, h.env)
	default:
		apierror.Write(w, r, http.StatusInternalServerError, "", err, h.env)
	}
}
