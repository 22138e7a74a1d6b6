package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	userserrors "slotbook/internal/users/errors"
	"slotbook/internal/users/repository"
	"slotbook/internal/users/validator"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/metrics"
	"slotbook/pkg/model"
	"slotbook/pkg/sanitizer"
)

type UserService interface {
	Register(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, update *model.ProfileUpdate) error
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	validator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *userService) Register(ctx context.Context, u *model.User) error {
	s.sanitize(u)

	if err := s.validator.Validate(u); err != nil {
		s.cfg.Log.Warn("User validation failed",
			"username", u.Username,
			"error", err,
		)
		return apperrors.Validation("User validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	// The duplicate check and the insert run in one transaction so two
	// registrations for the same username cannot both pass the check.
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		_, err := s.repo.FindByUsername(sessCtx, u.Username)
		if err == nil {
			return apperrors.Conflict("Username already taken")
		}
		if !errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.Internal("Failed to check username availability", err)
		}
		return s.repo.Create(sessCtx, u)
	})
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok && appErr.Code == apperrors.CodeConflict {
			s.cfg.Log.Info("Registration rejected, username taken", "username", u.Username)
			return err
		}
		s.cfg.Log.Error("Failed to register user",
			"username", u.Username,
			"error", err,
		)
		return err
	}

	metrics.UserRegistrations.Inc()
	s.cfg.Log.Info("User registered successfully",
		"id", u.ID,
		"username", u.Username,
	)
	return nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username = sanitizer.NormalizeUsername(username)
	if username == "" {
		return nil, apperrors.InvalidInput("Username cannot be empty")
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", username)
		}
		s.cfg.Log.Error("Failed to get user by username",
			"username", username,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, update *model.ProfileUpdate) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	update.Bio = sanitizer.NormalizeFreeText(update.Bio)
	update.AvatarURL = sanitizer.SanitizeURL(update.AvatarURL)

	if err := s.validator.ValidateProfileUpdate(update); err != nil {
		s.cfg.Log.Warn("Profile update validation failed", "user_id", userID, "error", err)
		return apperrors.Validation("Profile validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.UpdateProfile(ctx, userID, update.Bio, update.AvatarURL); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("User", userID)
		}
		if errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to update profile", "user_id", userID, "error", err)
		return apperrors.Internal("Failed to update profile", err)
	}

	s.cfg.Log.Info("Profile updated successfully", "user_id", userID)
	return nil
}

func (s *userService) sanitize(u *model.User) {
	u.Name = sanitizer.NormalizeName(u.Name)
	u.Username = sanitizer.NormalizeUsername(u.Username)
	u.Bio = sanitizer.NormalizeFreeText(u.Bio)
	u.AvatarURL = sanitizer.SanitizeURL(u.AvatarURL)
}
