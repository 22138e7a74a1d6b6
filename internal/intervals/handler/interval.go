package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotbook/internal/intervals/service"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
	"slotbook/pkg/session"
)

type IntervalHandler struct {
	service  service.IntervalService
	sessions *session.Manager
	log      *logger.Logger
}

func NewIntervalHandler(service service.IntervalService, sessions *session.Manager, log *logger.Logger) *IntervalHandler {
	return &IntervalHandler{
		service:  service,
		sessions: sessions,
		log:      log,
	}
}

// Replace sets the acting user's weekly availability from the onboarding
// form submission.
func (h *IntervalHandler) Replace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.sessions.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var sub model.IntervalSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	if err := h.service.ReplaceWeekly(r.Context(), userID, &sub); err != nil {
		httputil.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// List returns the acting user's configured weekly windows.
func (h *IntervalHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := h.sessions.FromRequest(r)
	if err != nil {
		httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	intervals, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, intervals)
}

func (h *IntervalHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/intervals", h.Replace)
	router.GET("/api/v1/intervals", h.List)
}
