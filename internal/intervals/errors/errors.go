package errors

import "errors"

var (
	ErrNotFound = errors.New("time interval not found")

	ErrInvalidID = errors.New("invalid interval ID format")
)
