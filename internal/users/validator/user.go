package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

var reUsername = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	v := validator.New()

	if err := v.RegisterValidation("username", validateUsername); err != nil {
		log.Fatal("Failed to register 'username' validator", "error", err)
	}

	return &UserValidator{
		validate: v,
		logger:   log,
	}
}

func validateUsername(fl validator.FieldLevel) bool {
	return reUsername.MatchString(fl.Field().String())
}

func (v *UserValidator) Validate(u *model.User) error {
	return v.translate(v.validate.Struct(u))
}

func (v *UserValidator) ValidateProfileUpdate(p *model.ProfileUpdate) error {
	return v.translate(v.validate.Struct(p))
}

func (v *UserValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fe := range validationErrs {
		message := fe.Error()

		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fe.Field())
		case "min":
			message = fmt.Sprintf("%s must have at least %s characters", fe.Field(), fe.Param())
		case "max":
			message = fmt.Sprintf("%s must have at most %s characters", fe.Field(), fe.Param())
		case "username":
			message = "username can only contain lowercase letters, digits and hyphens"
		case "url":
			message = fmt.Sprintf("%s must be a valid URL", fe.Field())
		}

		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: message,
		})
	}
	return out
}
