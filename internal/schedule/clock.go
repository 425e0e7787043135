// Package schedule holds the pure time arithmetic behind the booking engine:
// minutes-since-midnight conversion, half-open interval overlap, slot grid
// generation, and availability marking. Nothing here touches the store.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM 24h format")
	ErrMinutesOutOfRange = errors.New("minutes value is outside a single day")
)

// ToMinutes parses an HH:MM 24h clock time into minutes since midnight.
func ToMinutes(hhmm string) (int, error) {
	hh, mm, ok := strings.Cut(hhmm, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}

	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}
	mins, err := strconv.Atoi(mm)
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, hhmm)
	}

	return hours*60 + mins, nil
}

// FormatMinutes renders minutes since midnight as zero-padded HH:MM.
func FormatMinutes(mins int) (string, error) {
	if mins < 0 || mins >= minutesPerDay {
		return "", fmt.Errorf("%w: %d", ErrMinutesOutOfRange, mins)
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60), nil
}

// AddClock returns hhmm advanced by mins, wrapping past midnight, so
// "23:50" + 20 yields "00:10".
func AddClock(hhmm string, mins int) (string, error) {
	start, err := ToMinutes(hhmm)
	if err != nil {
		return "", err
	}
	end := (start + mins) % minutesPerDay
	if end < 0 {
		end += minutesPerDay
	}
	return FormatMinutes(end)
}

// Overlaps is the half-open interval test [aStart,aEnd) vs [bStart,bEnd).
// It is the single source of truth for booking conflicts: back-to-back
// intervals, where one ends exactly when the other starts, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
