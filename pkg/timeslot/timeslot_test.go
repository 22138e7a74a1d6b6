package timeslot

import (
	"errors"
	"testing"
)

func TestToMinutes(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		want    int
		wantErr bool
	}{
		{name: "start of business day", clock: "08:00", want: 480},
		{name: "half hour", clock: "18:30", want: 1110},
		{name: "midnight", clock: "00:00", want: 0},
		{name: "last minute of day", clock: "23:59", want: 1439},
		{name: "missing leading zeros", clock: "8:0", wantErr: true},
		{name: "hour out of range", clock: "25:00", wantErr: true},
		{name: "minute out of range", clock: "10:60", wantErr: true},
		{name: "negative hour", clock: "-1:30", wantErr: true},
		{name: "non numeric", clock: "ab:cd", wantErr: true},
		{name: "no separator", clock: "0800", wantErr: true},
		{name: "empty", clock: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMinutes(tt.clock)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ToMinutes(%q): expected error, got %d", tt.clock, got)
				}
				if !errors.Is(err, ErrFormat) {
					t.Fatalf("ToMinutes(%q): expected ErrFormat, got %v", tt.clock, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToMinutes(%q): unexpected error: %v", tt.clock, err)
			}
			if got != tt.want {
				t.Errorf("ToMinutes(%q) = %d, want %d", tt.clock, got, tt.want)
			}
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	if got := FormatMinutes(480); got != "08:00" {
		t.Errorf("FormatMinutes(480) = %q, want %q", got, "08:00")
	}
	if got := FormatMinutes(1110); got != "18:30" {
		t.Errorf("FormatMinutes(1110) = %q, want %q", got, "18:30")
	}
}

func TestHours(t *testing.T) {
	hours := Hours(480, 1080) // 08:00-18:00
	if len(hours) != 10 {
		t.Fatalf("expected 10 hourly slots, got %d", len(hours))
	}
	if hours[0] != 8 || hours[9] != 17 {
		t.Errorf("expected slots [8..17], got first=%d last=%d", hours[0], hours[len(hours)-1])
	}

	if got := Hours(600, 600); got != nil {
		t.Errorf("empty window should yield no slots, got %v", got)
	}
	if got := Hours(600, 540); got != nil {
		t.Errorf("inverted window should yield no slots, got %v", got)
	}
}

func TestHourCapacity(t *testing.T) {
	if got := HourCapacity(480, 1080); got != 10 {
		t.Errorf("HourCapacity(480, 1080) = %d, want 10", got)
	}
	if got := HourCapacity(1080, 480); got != 0 {
		t.Errorf("inverted window capacity = %d, want 0", got)
	}
}

func TestIsHourAligned(t *testing.T) {
	if !IsHourAligned(480) {
		t.Error("480 minutes should be hour aligned")
	}
	if IsHourAligned(490) {
		t.Error("490 minutes should not be hour aligned")
	}
}
