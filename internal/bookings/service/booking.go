package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"slotbook/internal/bookings/events"
	"slotbook/internal/bookings/repository"
	"slotbook/internal/bookings/validator"
	intervalserrors "slotbook/internal/intervals/errors"
	intervalrepo "slotbook/internal/intervals/repository"
	userserrors "slotbook/internal/users/errors"
	userrepo "slotbook/internal/users/repository"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/metrics"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"
	"slotbook/pkg/timeslot"
)

const slotLockTTL = 10 * time.Second

type BookingService interface {
	Create(ctx context.Context, username string, req *model.BookingRequest) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	users     userrepo.UserRepository
	intervals intervalrepo.IntervalRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	users userrepo.UserRepository,
	intervals intervalrepo.IntervalRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		users:     users,
		intervals: intervals,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create confirms one hourly slot for the host addressed by username.
// The slot must start exactly on the hour, lie in the future and fall
// inside the host's recurring window for that weekday. An advisory lock
// plus an in-transaction re-check keeps two concurrent requests from
// both taking the same slot.
func (s *bookingService) Create(ctx context.Context, username string, req *model.BookingRequest) (*model.Booking, error) {
	user, err := s.resolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	slot := req.Date.UTC()
	if !slot.Equal(slot.Truncate(time.Hour)) {
		return nil, apperrors.Validation("Bookings must start exactly on the hour", map[string]any{
			"date": req.Date,
		})
	}
	if !slot.After(s.now().UTC()) {
		return nil, apperrors.Validation("Booking date must be in the future", map[string]any{
			"date": req.Date,
		})
	}

	if err := s.checkWithinWindow(ctx, user.ID, slot); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		UserID:       user.ID,
		Name:         sanitizer.NormalizeName(req.Name),
		Email:        sanitizer.NormalizeEmail(req.Email),
		Observations: sanitizer.NormalizeFreeText(req.Observations),
		Date:         slot,
	}
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "username", username, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	lockID, err := s.acquireSlotLock(ctx, user.ID, slot)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySlotFree(sessCtx, user.ID, slot); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Code == apperrors.CodeConflict {
			metrics.BookingConflicts.Inc()
			s.cfg.Log.Info("Booking rejected, slot taken", "user_id", user.ID, "slot", slot)
			return nil, err
		}
		s.cfg.Log.Error("Failed to create booking", "user_id", user.ID, "error", err)
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", user.ID,
		"slot", slot,
	)

	if err := s.publisher.PublishBookingCreated(ctx, booking); err != nil {
		// Event delivery is best effort; the booking itself stands.
		s.cfg.Log.Warn("Failed to publish booking event", "booking_id", booking.ID, "error", err)
	}

	return booking, nil
}

func (s *bookingService) resolveUser(ctx context.Context, username string) (*model.User, error) {
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

func (s *bookingService) checkWithinWindow(ctx context.Context, userID string, slot time.Time) error {
	interval, err := s.intervals.FindByUserAndWeekDay(ctx, userID, int(slot.Weekday()))
	if err != nil {
		if errors.Is(err, intervalserrors.ErrNotFound) {
			return apperrors.Validation("Host is not available on this day", map[string]any{
				"week_day": int(slot.Weekday()),
			})
		}
		return apperrors.Internal("Failed to check availability window", err)
	}

	minutes := slot.Hour() * timeslot.MinutesPerHour
	if minutes < interval.TimeStartInMinutes || minutes >= interval.TimeEndInMinutes {
		return apperrors.Validation("Requested time is outside the host's availability window", map[string]any{
			"window_start": timeslot.FormatMinutes(interval.TimeStartInMinutes),
			"window_end":   timeslot.FormatMinutes(interval.TimeEndInMinutes),
		})
	}
	return nil
}

// verifySlotFree re-checks the slot inside the transaction so the final
// answer is consistent with concurrent writes.
func (s *bookingService) verifySlotFree(ctx context.Context, userID string, slot time.Time) error {
	existing, err := s.repo.FindByUserInRange(ctx, userID, slot, slot.Add(time.Hour))
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if len(existing) > 0 {
		return apperrors.Conflict("This time slot is already booked")
	}
	return nil
}

func (s *bookingService) acquireSlotLock(ctx context.Context, userID string, slot time.Time) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s_%d", userID, slot.Unix())

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: s.now().Add(slotLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			metrics.BookingConflicts.Inc()
			return "", apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lockID, nil
}

func (s *bookingService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}
