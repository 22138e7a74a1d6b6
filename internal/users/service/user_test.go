package service

import (
	"context"
	"fmt"
	"testing"

	userserrors "slotbook/internal/users/errors"
	"slotbook/internal/users/validator"
	"slotbook/pkg/config"
	mongotx "slotbook/pkg/db/mongo"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

type mockUserRepository struct {
	createFunc         func(ctx context.Context, u *model.User) error
	findByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	updateProfileFunc  func(ctx context.Context, id string, bio string, avatarURL string) error
}

func (m *mockUserRepository) Create(ctx context.Context, u *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	u.ID = "507f1f77bcf86cd799439011"
	return nil
}
func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, id)
}
func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, username)
}
func (m *mockUserRepository) UpdateProfile(ctx context.Context, id string, bio string, avatarURL string) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, id, bio, avatarURL)
	}
	return nil
}
func (m *mockUserRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockUserRepository) UserService {
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{Log: log}
	return NewUserService(repo, validator.NewUserValidator(log), cfg)
}

func TestRegister_Success(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	u := &model.User{
		Username: "John Doe",
		Name:     "John Doe",
	}
	if err := svc.Register(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if u.Username != "john-doe" {
		t.Errorf("expected normalized username john-doe, got %q", u.Username)
	}
	if u.ID == "" {
		t.Error("expected user ID to be set")
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	repo := &mockUserRepository{
		findByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "existing", Username: username}, nil
		},
	}
	svc := newTestService(repo)

	err := svc.Register(context.Background(), &model.User{Username: "john-doe", Name: "John"})
	if err == nil {
		t.Fatal("expected conflict error")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeConflict {
		t.Fatalf("expected %s, got %v", apperrors.CodeConflict, err)
	}
}

func TestRegister_InvalidUsername(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	// Sanitization strips everything, leaving an empty handle.
	err := svc.Register(context.Background(), &model.User{Username: "!!!", Name: "John"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	svc := newTestService(&mockUserRepository{})

	_, err := svc.GetByUsername(context.Background(), "nobody")
	if err == nil {
		t.Fatal("expected not found error")
	}

	appErr, ok := err.(*apperrors.AppError)
	if !ok || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestUpdateProfile_SanitizesBio(t *testing.T) {
	var gotBio string
	repo := &mockUserRepository{
		updateProfileFunc: func(ctx context.Context, id string, bio string, avatarURL string) error {
			gotBio = bio
			return nil
		},
	}
	svc := newTestService(repo)

	update := &model.ProfileUpdate{Bio: "  hello   world  \n  second line  "}
	if err := svc.UpdateProfile(context.Background(), "507f1f77bcf86cd799439011", update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotBio != "hello world\nsecond line" {
		t.Errorf("unexpected bio after sanitization: %q", gotBio)
	}
}
