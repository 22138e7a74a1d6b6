package service

import (
	"context"
	"errors"
	"time"

	intervalserrors "slotbook/internal/intervals/errors"
	intervalrepo "slotbook/internal/intervals/repository"
	userserrors "slotbook/internal/users/errors"
	userrepo "slotbook/internal/users/repository"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"
	"slotbook/pkg/timeslot"
)

// BookingReader is the slice of the booking store the resolver needs.
type BookingReader interface {
	FindByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]*model.Booking, error)
	CountByDay(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error)
}

// DayAvailability lists a host's bookable hours on one calendar day.
// PossibleTimes is the full window regardless of bookings; AvailableTimes
// drops booked and already-elapsed hours.
type DayAvailability struct {
	PossibleTimes  []int `json:"possible_times"`
	AvailableTimes []int `json:"available_times"`
}

// MonthBlocks describes which parts of a month cannot be booked.
// BlockedWeekDays are the weekdays with no recurring window at all;
// BlockedDates are the days of the month whose window is fully booked.
type MonthBlocks struct {
	BlockedWeekDays []int `json:"blocked_week_days"`
	BlockedDates    []int `json:"blocked_dates"`
}

type AvailabilityService interface {
	GetDayAvailability(ctx context.Context, username string, date time.Time) (*DayAvailability, error)
	GetMonthBlocks(ctx context.Context, username string, year int, month time.Month) (*MonthBlocks, error)
}

type availabilityService struct {
	users     userrepo.UserRepository
	intervals intervalrepo.IntervalRepository
	bookings  BookingReader
	cfg       *config.Config
	now       func() time.Time
}

func NewAvailabilityService(
	users userrepo.UserRepository,
	intervals intervalrepo.IntervalRepository,
	bookings BookingReader,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		users:     users,
		intervals: intervals,
		bookings:  bookings,
		cfg:       cfg,
		now:       time.Now,
	}
}

// GetDayAvailability resolves the bookable hours for one day. A day that
// is entirely in the past or a weekday without a configured window yields
// empty lists, not an error.
func (s *availabilityService) GetDayAvailability(ctx context.Context, username string, date time.Time) (*DayAvailability, error) {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	empty := &DayAvailability{PossibleTimes: []int{}, AvailableTimes: []int{}}

	now := s.now().UTC()
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)
	if !dayEnd.After(now) {
		return empty, nil
	}

	interval, err := s.intervals.FindByUserAndWeekDay(ctx, user.ID, int(dayStart.Weekday()))
	if err != nil {
		if errors.Is(err, intervalserrors.ErrNotFound) {
			return empty, nil
		}
		s.cfg.Log.Error("Failed to load interval", "username", username, "error", err)
		return nil, apperrors.Internal("Failed to resolve availability", err)
	}

	possible := timeslot.Hours(interval.TimeStartInMinutes, interval.TimeEndInMinutes)
	if len(possible) == 0 {
		return empty, nil
	}

	windowStart := dayStart.Add(time.Duration(interval.TimeStartInMinutes) * time.Minute)
	windowEnd := dayStart.Add(time.Duration(interval.TimeEndInMinutes) * time.Minute)
	booked, err := s.bookings.FindByUserInRange(ctx, user.ID, windowStart, windowEnd)
	if err != nil {
		s.cfg.Log.Error("Failed to load bookings", "username", username, "error", err)
		return nil, apperrors.Internal("Failed to resolve availability", err)
	}

	taken := make(map[int]bool, len(booked))
	for _, b := range booked {
		taken[b.Date.UTC().Hour()] = true
	}

	available := make([]int, 0, len(possible))
	for _, hour := range possible {
		if taken[hour] {
			continue
		}
		if !dayStart.Add(time.Duration(hour) * time.Hour).After(now) {
			continue
		}
		available = append(available, hour)
	}

	return &DayAvailability{
		PossibleTimes:  possible,
		AvailableTimes: available,
	}, nil
}

// GetMonthBlocks resolves the calendar view for a month: weekdays that
// never open plus individual dates whose window is already full.
func (s *availabilityService) GetMonthBlocks(ctx context.Context, username string, year int, month time.Month) (*MonthBlocks, error) {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	intervals, err := s.intervals.FindByUser(ctx, user.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to load intervals", "username", username, "error", err)
		return nil, apperrors.Internal("Failed to resolve blocked dates", err)
	}

	capacityByWeekDay := make(map[int]int, len(intervals))
	for _, iv := range intervals {
		capacityByWeekDay[iv.WeekDay] = timeslot.HourCapacity(iv.TimeStartInMinutes, iv.TimeEndInMinutes)
	}

	blockedWeekDays := make([]int, 0, 7)
	for weekDay := 0; weekDay < 7; weekDay++ {
		if capacityByWeekDay[weekDay] == 0 {
			blockedWeekDays = append(blockedWeekDays, weekDay)
		}
	}

	counts, err := s.bookings.CountByDay(ctx, user.ID, year, month)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "username", username, "error", err)
		return nil, apperrors.Internal("Failed to resolve blocked dates", err)
	}

	blockedDates := []int{}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()
	for day := 1; day <= daysInMonth; day++ {
		weekDay := int(monthStart.AddDate(0, 0, day-1).Weekday())
		capacity := capacityByWeekDay[weekDay]
		if capacity == 0 {
			// Already covered by the blocked weekday.
			continue
		}
		if counts[day] >= capacity {
			blockedDates = append(blockedDates, day)
		}
	}

	return &MonthBlocks{
		BlockedWeekDays: blockedWeekDays,
		BlockedDates:    blockedDates,
	}, nil
}

func (s *availabilityService) resolveUser(ctx context.Context, username string) (*model.User, error) {
	username = sanitizer.NormalizeUsername(username)
	if username == "" {
		return nil, apperrors.InvalidInput("Username cannot be empty")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", username)
		}
		s.cfg.Log.Error("Failed to resolve user", "username", username, "error", err)
		return nil, apperrors.Internal("Failed to resolve user", err)
	}
	return user, nil
}
