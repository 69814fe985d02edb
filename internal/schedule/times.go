// Package schedule holds wall-clock slot arithmetic. Slots carry their times as
// "HH:MM" strings; everything here works on minutes since midnight.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidClock     = errors.New("time must be in HH:MM format")
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrSlotDuration     = errors.New("slot duration must be positive")
)

const clockLayout = "15:04"

// Range is a wall-clock interval [Start, End) within one day.
type Range struct {
	Start string
	End   string
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ValidateRange checks both clock values and requires end strictly after start.
func ValidateRange(start, end string) error {
	s, err := ParseClock(start)
	if err != nil {
		return err
	}
	e, err := ParseClock(end)
	if err != nil {
		return err
	}
	if e <= s {
		return ErrInvalidTimeRange
	}
	return nil
}

// Split cuts [start, end) into consecutive slots of duration minutes each.
// A tail shorter than the duration is dropped.
func Split(start, end string, durationMins int) ([]Range, error) {
	if durationMins <= 0 {
		return nil, ErrSlotDuration
	}
	s, err := ParseClock(start)
	if err != nil {
		return nil, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return nil, err
	}
	if e <= s {
		return nil, ErrInvalidTimeRange
	}

	var out []Range
	for cur := s; cur+durationMins <= e; cur += durationMins {
		out = append(out, Range{
			Start: FormatClock(cur),
			End:   FormatClock(cur + durationMins),
		})
	}
	return out, nil
}
