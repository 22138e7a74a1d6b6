// Package timeslot holds the pure clock-time arithmetic the scheduling
// logic is built on. Times of day are expressed as minutes since midnight
// and bookable slots as whole hours.
package timeslot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat reports a clock string that is not a valid "HH:MM" time.
var ErrFormat = errors.New("invalid clock time format")

const MinutesPerHour = 60

// ToMinutes parses a "HH:MM" clock string into minutes since midnight.
// Both fields must be two digits; hour 00-23, minute 00-59.
func ToMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, clock)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, clock)
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, clock)
	}

	return hour*MinutesPerHour + minute, nil
}

// FormatMinutes renders minutes since midnight as a "HH:MM" clock string.
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/MinutesPerHour, minutes%MinutesPerHour)
}

// IsHourAligned reports whether the offset falls exactly on a whole hour.
func IsHourAligned(minutes int) bool {
	return minutes%MinutesPerHour == 0
}

// Hours returns the whole-hour slot sequence [start/60, end/60) for a
// window expressed in minutes since midnight. Empty when end <= start.
func Hours(startMinutes, endMinutes int) []int {
	startHour := startMinutes / MinutesPerHour
	endHour := endMinutes / MinutesPerHour
	if endHour <= startHour {
		return nil
	}

	hours := make([]int, 0, endHour-startHour)
	for h := startHour; h < endHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// HourCapacity returns how many whole-hour slots a window provides.
func HourCapacity(startMinutes, endMinutes int) int {
	if endMinutes <= startMinutes {
		return 0
	}
	return (endMinutes - startMinutes) / MinutesPerHour
}
