package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"slotbook/internal/availability/service"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
)

const dateLayout = "2006-01-02"

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// Day returns the possible and still-available hours for one date.
func (h *AvailabilityHandler) Day(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	username := ps.ByName("username")

	raw := r.URL.Query().Get("date")
	if raw == "" {
		httputil.WriteError(w, apperrors.InvalidInput("Date is required"))
		return
	}

	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Date must be in YYYY-MM-DD format"))
		return
	}

	availability, err := h.service.GetDayAvailability(r.Context(), username, date)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, availability)
}

// MonthBlocks returns the blocked weekdays and fully booked dates for a
// month, feeding the visitor's calendar view.
func (h *AvailabilityHandler) MonthBlocks(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	username := ps.ByName("username")

	rawYear := r.URL.Query().Get("year")
	rawMonth := r.URL.Query().Get("month")
	if rawYear == "" || rawMonth == "" {
		httputil.WriteError(w, apperrors.InvalidInput("Year and month are required"))
		return
	}

	year, err := strconv.Atoi(rawYear)
	if err != nil || year < 1 {
		httputil.WriteError(w, apperrors.InvalidInput("Year must be a positive number"))
		return
	}

	month, err := strconv.Atoi(rawMonth)
	if err != nil || month < 1 || month > 12 {
		httputil.WriteError(w, apperrors.InvalidInput("Month must be between 1 and 12"))
		return
	}

	blocks, err := h.service.GetMonthBlocks(r.Context(), username, year, time.Month(month))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, blocks)
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/users/:username/availability", h.Day)
	router.GET("/api/v1/users/:username/blocked-dates", h.MonthBlocks)
}
