package service

import (
	"context"
	"testing"

	"slotbook/internal/intervals/validator"
	"slotbook/pkg/config"
	mongotx "slotbook/pkg/db/mongo"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

type mockIntervalRepository struct {
	replaceForUserFunc func(ctx context.Context, userID string, intervals []*model.TimeInterval) error
	findByUserFunc     func(ctx context.Context, userID string) ([]*model.TimeInterval, error)
}

func (m *mockIntervalRepository) ReplaceForUser(ctx context.Context, userID string, intervals []*model.TimeInterval) error {
	if m.replaceForUserFunc != nil {
		return m.replaceForUserFunc(ctx, userID, intervals)
	}
	return nil
}
func (m *mockIntervalRepository) FindByUser(ctx context.Context, userID string) ([]*model.TimeInterval, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return []*model.TimeInterval{}, nil
}
func (m *mockIntervalRepository) FindByUserAndWeekDay(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error) {
	return nil, nil
}
func (m *mockIntervalRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockIntervalRepository) IntervalService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{Log: log}
	return NewIntervalService(repo, validator.NewIntervalValidator(log), cfg)
}

func workWeekSubmission() *model.IntervalSubmission {
	intervals := make([]model.IntervalInput, 0, 7)
	for weekDay := 0; weekDay < 7; weekDay++ {
		intervals = append(intervals, model.IntervalInput{
			WeekDay:            weekDay,
			TimeStartInMinutes: 480,
			TimeEndInMinutes:   1080,
			Enabled:            weekDay >= 1 && weekDay <= 5,
		})
	}
	return &model.IntervalSubmission{Intervals: intervals}
}

func TestReplaceWeekly_KeepsOnlyEnabledDays(t *testing.T) {
	var stored []*model.TimeInterval
	repo := &mockIntervalRepository{
		replaceForUserFunc: func(ctx context.Context, userID string, intervals []*model.TimeInterval) error {
			stored = intervals
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.ReplaceWeekly(context.Background(), "507f1f77bcf86cd799439011", workWeekSubmission()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stored) != 5 {
		t.Fatalf("expected 5 stored intervals, got %d", len(stored))
	}
	for i, iv := range stored {
		if iv.WeekDay != i+1 {
			t.Errorf("interval %d: expected week day %d, got %d", i, i+1, iv.WeekDay)
		}
	}
}

func TestReplaceWeekly_RejectsAllDisabled(t *testing.T) {
	svc := newTestService(&mockIntervalRepository{})

	sub := workWeekSubmission()
	for i := range sub.Intervals {
		sub.Intervals[i].Enabled = false
	}

	err := svc.ReplaceWeekly(context.Background(), "507f1f77bcf86cd799439011", sub)
	assertValidationError(t, err)
}

func TestReplaceWeekly_RejectsDuplicateWeekDay(t *testing.T) {
	svc := newTestService(&mockIntervalRepository{})

	sub := &model.IntervalSubmission{
		Intervals: []model.IntervalInput{
			{WeekDay: 1, TimeStartInMinutes: 480, TimeEndInMinutes: 1080, Enabled: true},
			{WeekDay: 1, TimeStartInMinutes: 600, TimeEndInMinutes: 720, Enabled: true},
		},
	}

	err := svc.ReplaceWeekly(context.Background(), "507f1f77bcf86cd799439011", sub)
	assertValidationError(t, err)
}

func TestReplaceWeekly_RejectsSubHourWindow(t *testing.T) {
	svc := newTestService(&mockIntervalRepository{})

	sub := &model.IntervalSubmission{
		Intervals: []model.IntervalInput{
			{WeekDay: 1, TimeStartInMinutes: 480, TimeEndInMinutes: 510, Enabled: true},
		},
	}

	err := svc.ReplaceWeekly(context.Background(), "507f1f77bcf86cd799439011", sub)
	assertValidationError(t, err)
}

func TestReplaceWeekly_RejectsInvertedWindow(t *testing.T) {
	svc := newTestService(&mockIntervalRepository{})

	sub := &model.IntervalSubmission{
		Intervals: []model.IntervalInput{
			{WeekDay: 1, TimeStartInMinutes: 1080, TimeEndInMinutes: 480, Enabled: true},
		},
	}

	err := svc.ReplaceWeekly(context.Background(), "507f1f77bcf86cd799439011", sub)
	assertValidationError(t, err)
}

func TestReplaceWeekly_RejectsEmptySubmission(t *testing.T) {
	svc := newTestService(&mockIntervalRepository{})

	err := svc.ReplaceWeekly(context.Background(), "507f1f77bcf86cd799439011", &model.IntervalSubmission{})
	assertValidationError(t, err)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}
