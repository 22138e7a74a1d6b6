package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"slotbook/internal/intervals/repository"
	"slotbook/internal/intervals/validator"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
)

type IntervalService interface {
	ReplaceWeekly(ctx context.Context, userID string, sub *model.IntervalSubmission) error
	ListForUser(ctx context.Context, userID string) ([]*model.TimeInterval, error)
}

type intervalService struct {
	repo      repository.IntervalRepository
	validator *validator.IntervalValidator
	cfg       *config.Config
}

func NewIntervalService(
	repo repository.IntervalRepository,
	validator *validator.IntervalValidator,
	cfg *config.Config,
) IntervalService {
	return &intervalService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// ReplaceWeekly swaps the user's recurring availability in bulk.
// Disabled entries are accepted from the submission and dropped; the
// remaining windows must be hour aligned, non-empty and cover each
// weekday at most once.
func (s *intervalService) ReplaceWeekly(ctx context.Context, userID string, sub *model.IntervalSubmission) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.validator.ValidateSubmission(sub); err != nil {
		s.cfg.Log.Warn("Interval submission validation failed", "user_id", userID, "error", err)
		return apperrors.Validation("Interval validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	intervals, err := s.buildIntervals(userID, sub)
	if err != nil {
		return err
	}
	if len(intervals) == 0 {
		return apperrors.Validation("At least one interval must be enabled", nil)
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		return s.repo.ReplaceForUser(sessCtx, userID, intervals)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to replace weekly intervals", "user_id", userID, "error", err)
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.Internal("Failed to save intervals", err)
	}

	s.cfg.Log.Info("Weekly intervals replaced",
		"user_id", userID,
		"count", len(intervals),
	)
	return nil
}

func (s *intervalService) ListForUser(ctx context.Context, userID string) ([]*model.TimeInterval, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	intervals, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list intervals", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve intervals", err)
	}
	return intervals, nil
}

func (s *intervalService) buildIntervals(userID string, sub *model.IntervalSubmission) ([]*model.TimeInterval, error) {
	seen := make(map[int]bool)
	var intervals []*model.TimeInterval

	for _, input := range sub.Intervals {
		if !input.Enabled {
			continue
		}

		if seen[input.WeekDay] {
			return nil, apperrors.Validation("Each weekday can have at most one interval", map[string]any{
				"week_day": input.WeekDay,
			})
		}
		seen[input.WeekDay] = true

		iv := &model.TimeInterval{
			UserID:             userID,
			WeekDay:            input.WeekDay,
			TimeStartInMinutes: input.TimeStartInMinutes,
			TimeEndInMinutes:   input.TimeEndInMinutes,
		}
		if err := s.validator.Validate(iv); err != nil {
			return nil, apperrors.Validation(
				fmt.Sprintf("Invalid interval for week day %d", input.WeekDay),
				map[string]any{"error": err.Error()},
			)
		}
		intervals = append(intervals, iv)
	}

	return intervals, nil
}
