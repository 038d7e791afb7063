package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// HourSplits is the number of slots per hour rendered by the grid.
	HourSplits = 4
	// SlotMinutes is the slot quantum.
	SlotMinutes = 60 / HourSplits
	// SlotDuration is SlotMinutes as a time.Duration.
	SlotDuration = SlotMinutes * time.Minute

	minutesPerDay = 24 * 60
)

// ClockTime is a timezone-agnostic wall clock time expressed in minutes since
// midnight. 24:00 is a valid end-of-day bound.
type ClockTime int

// ParseClockTime accepts "HH:MM" and "HH:MM:SS" (seconds must be zero).
// A trailing UTC offset such as "+00" is ignored.
func ParseClockTime(s string) (ClockTime, error) {
	raw := strings.TrimSpace(s)
	if i := strings.IndexAny(raw, "+-Z"); i > 0 {
		raw = raw[:i]
	}

	parts := strings.Split(raw, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, InvalidInput("clock time %q must be HH:MM", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, InvalidInput("clock time %q has an invalid hour", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, InvalidInput("clock time %q has an invalid minute", s)
	}
	if len(parts) == 3 {
		sec, err := strconv.Atoi(parts[2])
		if err != nil || sec != 0 {
			return 0, InvalidInput("clock time %q must not carry seconds", s)
		}
	}

	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, InvalidInput("clock time %q is out of range", s)
	}

	return ClockTime(h*60 + m), nil
}

func (c ClockTime) Hours() int   { return int(c) / 60 }
func (c ClockTime) Minutes() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hours(), c.Minutes())
}

// Duration is the offset of c from midnight.
func (c ClockTime) Duration() time.Duration {
	return time.Duration(c) * time.Minute
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClockTime(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) aligned() bool {
	return int(c)%SlotMinutes == 0
}
