package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotbook/internal/users/service"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
	"slotbook/pkg/session"
)

type UserHandler struct {
	service  service.UserService
	sessions *session.Manager
	log      *logger.Logger
}

func NewUserHandler(service service.UserService, sessions *session.Manager, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service:  service,
		sessions: sessions,
		log:      log,
	}
}

// Create registers a user and starts a session for the new identity.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var u model.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.Register(r.Context(), &u); err != nil {
		httputil.WriteError(w, err)
		return
	}

	token, err := h.sessions.Issue(u.ID)
	if err != nil {
		h.log.Error("Failed to issue session token", "user_id", u.ID, "error", err)
		httputil.WriteError(w, apperrors.Internal("Failed to create session", err))
		return
	}
	h.sessions.SetCookie(w, token)

	httputil.WriteCreated(w, u)
}

func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	username := ps.ByName("username")
	if username == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Username parameter is required",
		})
		return
	}

	u, err := h.service.GetByUsername(r.Context(), username)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, u)
}

// UpdateProfile mutates the acting user's bio and avatar. The identity
// comes from the session cookie, never from the request body.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.sessions.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var update model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.UpdateProfile(r.Context(), userID, &update); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users", h.Create)
	router.GET("/api/v1/users/:username", h.GetByUsername)
	router.PUT("/api/v1/profile", h.UpdateProfile)
}
