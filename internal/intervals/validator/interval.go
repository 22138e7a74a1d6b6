package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"
	"slotbook/pkg/timeslot"
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

type IntervalValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewIntervalValidator(log *logger.Logger) *IntervalValidator {
	v := validator.New()

	if err := v.RegisterValidation("hour_aligned", validateHourAligned); err != nil {
		log.Fatal("Failed to register 'hour_aligned' validator", "error", err)
	}

	return &IntervalValidator{
		validate: v,
		logger:   log,
	}
}

// Windows must start and end on whole hours; slots are hourly and a
// partial trailing hour would otherwise be silently dropped.
func validateHourAligned(fl validator.FieldLevel) bool {
	return timeslot.IsHourAligned(int(fl.Field().Int()))
}

func (v *IntervalValidator) ValidateSubmission(sub *model.IntervalSubmission) error {
	return v.translate(v.validate.Struct(sub))
}

func (v *IntervalValidator) Validate(iv *model.TimeInterval) error {
	return v.translate(v.validate.Struct(iv))
}

func (v *IntervalValidator) translate(err error) error {
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
		case "min", "max":
			message = fmt.Sprintf("%s is out of range", fe.Field())
		case "hour_aligned":
			message = fmt.Sprintf("%s must fall on a whole hour", fe.Field())
		case "gtfield":
			message = "the interval end must be after its start"
		}

		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: message,
		})
	}
	return out
}
