package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	intervalserrors "slotbook/internal/intervals/errors"
	userserrors "slotbook/internal/users/errors"
	"slotbook/pkg/config"
	mongotx "slotbook/pkg/db/mongo"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

type mockUserRepository struct {
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *model.User) error { return nil }
func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, userserrors.ErrNotFound
}
func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return &model.User{ID: "user-1", Username: username}, nil
}
func (m *mockUserRepository) UpdateProfile(ctx context.Context, id string, bio string, avatarURL string) error {
	return nil
}
func (m *mockUserRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type mockIntervalRepository struct {
	findByUserFunc           func(ctx context.Context, userID string) ([]*model.TimeInterval, error)
	findByUserAndWeekDayFunc func(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error)
}

func (m *mockIntervalRepository) ReplaceForUser(ctx context.Context, userID string, intervals []*model.TimeInterval) error {
	return nil
}
func (m *mockIntervalRepository) FindByUser(ctx context.Context, userID string) ([]*model.TimeInterval, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return []*model.TimeInterval{}, nil
}
func (m *mockIntervalRepository) FindByUserAndWeekDay(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error) {
	if m.findByUserAndWeekDayFunc != nil {
		return m.findByUserAndWeekDayFunc(ctx, userID, weekDay)
	}
	return nil, fmt.Errorf("%w: none configured", intervalserrors.ErrNotFound)
}
func (m *mockIntervalRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return nil
}

type mockBookingReader struct {
	findByUserInRangeFunc func(ctx context.Context, userID string, from, to time.Time) ([]*model.Booking, error)
	countByDayFunc        func(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error)
}

func (m *mockBookingReader) FindByUserInRange(ctx context.Context, userID string, from, to time.Time) ([]*model.Booking, error) {
	if m.findByUserInRangeFunc != nil {
		return m.findByUserInRangeFunc(ctx, userID, from, to)
	}
	return []*model.Booking{}, nil
}
func (m *mockBookingReader) CountByDay(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error) {
	if m.countByDayFunc != nil {
		return m.countByDayFunc(ctx, userID, year, month)
	}
	return map[int]int{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func newTestService(users *mockUserRepository, intervals *mockIntervalRepository, bookings *mockBookingReader, now time.Time) *availabilityService {
	return &availabilityService{
		users:     users,
		intervals: intervals,
		bookings:  bookings,
		cfg:       testConfig(),
		now:       func() time.Time { return now },
	}
}

// now is fixed at Tuesday 2026-03-10 12:30 UTC for all day tests.
var fixedNow = time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC)

func workWeekInterval(weekDay int) *model.TimeInterval {
	return &model.TimeInterval{
		UserID:             "user-1",
		WeekDay:            weekDay,
		TimeStartInMinutes: 480,
		TimeEndInMinutes:   1080,
	}
}

func TestGetDayAvailability_FullWindow(t *testing.T) {
	intervals := &mockIntervalRepository{
		findByUserAndWeekDayFunc: func(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error) {
			return workWeekInterval(weekDay), nil
		},
	}
	svc := newTestService(&mockUserRepository{}, intervals, &mockBookingReader{}, fixedNow)

	// Wednesday, fully in the future.
	got, err := svc.GetDayAvailability(context.Background(), "john-doe", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{8, 9, 10, 11, 12, 13, 14, 15, 16, 17}
	assertHours(t, "possible_times", got.PossibleTimes, want)
	assertHours(t, "available_times", got.AvailableTimes, want)
}

func TestGetDayAvailability_PastDateIsEmpty(t *testing.T) {
	intervals := &mockIntervalRepository{
		findByUserAndWeekDayFunc: func(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error) {
			t.Fatal("interval lookup should not run for a past date")
			return nil, nil
		},
	}
	svc := newTestService(&mockUserRepository{}, intervals, &mockBookingReader{}, fixedNow)

	got, err := svc.GetDayAvailability(context.Background(), "john-doe", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertHours(t, "possible_times", got.PossibleTimes, []int{})
	assertHours(t, "available_times", got.AvailableTimes, []int{})
}

func TestGetDayAvailability_NoWindowIsEmpty(t *testing.T) {
	svc := newTestService(&mockUserRepository{}, &mockIntervalRepository{}, &mockBookingReader{}, fixedNow)

	got, err := svc.GetDayAvailability(context.Background(), "john-doe", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.PossibleTimes) != 0 || len(got.AvailableTimes) != 0 {
		t.Fatalf("expected empty availability, got %+v", got)
	}
}

func TestGetDayAvailability_BookedHourExcluded(t *testing.T) {
	intervals := &mockIntervalRepository{
		findByUserAndWeekDayFunc: func(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error) {
			return workWeekInterval(weekDay), nil
		},
	}
	bookings := &mockBookingReader{
		findByUserInRangeFunc: func(ctx context.Context, userID string, from, to time.Time) ([]*model.Booking, error) {
			return []*model.Booking{
				{UserID: userID, Date: time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC)},
			}, nil
		},
	}
	svc := newTestService(&mockUserRepository{}, intervals, bookings, fixedNow)

	got, err := svc.GetDayAvailability(context.Background(), "john-doe", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertHours(t, "possible_times", got.PossibleTimes, []int{8, 9, 10, 11, 12, 13, 14, 15, 16, 17})
	assertHours(t, "available_times", got.AvailableTimes, []int{8, 9, 11, 12, 13, 14, 15, 16, 17})
}

func TestGetDayAvailability_ElapsedHoursExcludedToday(t *testing.T) {
	intervals := &mockIntervalRepository{
		findByUserAndWeekDayFunc: func(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error) {
			return workWeekInterval(weekDay), nil
		},
	}
	svc := newTestService(&mockUserRepository{}, intervals, &mockBookingReader{}, fixedNow)

	// Same day as now (12:30): hours up to and including 12 are gone.
	got, err := svc.GetDayAvailability(context.Background(), "john-doe", time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertHours(t, "possible_times", got.PossibleTimes, []int{8, 9, 10, 11, 12, 13, 14, 15, 16, 17})
	assertHours(t, "available_times", got.AvailableTimes, []int{13, 14, 15, 16, 17})
}

func TestGetDayAvailability_UnknownUser(t *testing.T) {
	users := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, username)
		},
	}
	svc := newTestService(users, &mockIntervalRepository{}, &mockBookingReader{}, fixedNow)

	_, err := svc.GetDayAvailability(context.Background(), "nobody", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error for unknown user")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %s", apperrors.CodeNotFound, appErr.Code)
	}
}

// Lookups must normalize the handle the same way registration does, so
// "John-Doe" in the URL finds the user stored as "john-doe".
func TestGetDayAvailability_NormalizesUsername(t *testing.T) {
	var lookedUp string
	users := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			lookedUp = username
			return &model.User{ID: "user-1", Username: username}, nil
		},
	}
	intervals := &mockIntervalRepository{
		findByUserAndWeekDayFunc: func(ctx context.Context, userID string, weekDay int) (*model.TimeInterval, error) {
			return workWeekInterval(weekDay), nil
		},
	}
	svc := newTestService(users, intervals, &mockBookingReader{}, fixedNow)

	_, err := svc.GetDayAvailability(context.Background(), "John-Doe", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lookedUp != "john-doe" {
		t.Errorf("expected normalized lookup john-doe, got %q", lookedUp)
	}
}

func TestGetMonthBlocks_WeekDayComplement(t *testing.T) {
	intervals := &mockIntervalRepository{
		findByUserFunc: func(ctx context.Context, userID string) ([]*model.TimeInterval, error) {
			ivs := make([]*model.TimeInterval, 0, 5)
			for weekDay := 1; weekDay <= 5; weekDay++ {
				ivs = append(ivs, workWeekInterval(weekDay))
			}
			return ivs, nil
		},
	}
	svc := newTestService(&mockUserRepository{}, intervals, &mockBookingReader{}, fixedNow)

	got, err := svc.GetMonthBlocks(context.Background(), "john-doe", 2026, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertHours(t, "blocked_week_days", got.BlockedWeekDays, []int{0, 6})
	assertHours(t, "blocked_dates", got.BlockedDates, []int{})
}

func TestGetMonthBlocks_FullyBookedDate(t *testing.T) {
	intervals := &mockIntervalRepository{
		findByUserFunc: func(ctx context.Context, userID string) ([]*model.TimeInterval, error) {
			// Mondays only, 08:00-10:00: two bookable hours.
			return []*model.TimeInterval{
				{UserID: userID, WeekDay: 1, TimeStartInMinutes: 480, TimeEndInMinutes: 600},
			}, nil
		},
	}
	bookings := &mockBookingReader{
		countByDayFunc: func(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error) {
			// March 2026 Mondays fall on 2, 9, 16, 23, 30.
			return map[int]int{
				2: 2, // full
				9: 1, // one slot left
			}, nil
		},
	}
	svc := newTestService(&mockUserRepository{}, intervals, bookings, fixedNow)

	got, err := svc.GetMonthBlocks(context.Background(), "john-doe", 2026, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertHours(t, "blocked_week_days", got.BlockedWeekDays, []int{0, 2, 3, 4, 5, 6})
	assertHours(t, "blocked_dates", got.BlockedDates, []int{2})
}

func TestGetMonthBlocks_NoIntervalsBlocksEveryWeekDay(t *testing.T) {
	bookings := &mockBookingReader{
		countByDayFunc: func(ctx context.Context, userID string, year int, month time.Month) (map[int]int, error) {
			return map[int]int{15: 3}, nil
		},
	}
	svc := newTestService(&mockUserRepository{}, &mockIntervalRepository{}, bookings, fixedNow)

	got, err := svc.GetMonthBlocks(context.Background(), "john-doe", 2026, time.March)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertHours(t, "blocked_week_days", got.BlockedWeekDays, []int{0, 1, 2, 3, 4, 5, 6})
	// Days with no window at all never show up as individually blocked.
	assertHours(t, "blocked_dates", got.BlockedDates, []int{})
}

func assertHours(t *testing.T, name string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %v, got %v", name, want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: expected %v, got %v", name, want, got)
		}
	}
}
