package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidSlot        = errors.New("invalid slot time")
	ErrInvalidInterval    = errors.New("slot interval must be positive")
	ErrInvalidWindow      = errors.New("invalid availability window")
	ErrNoSlots            = errors.New("at least one slot is required")
	ErrDuplicateSlot      = errors.New("slot selected more than once")
	ErrSlotsNotContiguous = errors.New("selected slots are not contiguous")
)

// ParseSlot converts an HH:MM slot key into minutes after midnight.
func ParseSlot(s string) (int, error) {
	return parseClock(s, false)
}

// FormatSlot renders minutes after midnight as an HH:MM slot key.
func FormatSlot(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWindowEnd is ParseSlot that also accepts "24:00" as the end of day.
func ParseWindowEnd(s string) (int, error) {
	return parseClock(s, true)
}

// parseClock accepts "24:00" only when allowMidnightEnd is set, so a window can close at midnight.
func parseClock(s string, allowMidnightEnd bool) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	if m < 0 || m > 59 || h < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	total := h*60 + m
	if total > minutesPerDay || (total == minutesPerDay && !allowMidnightEnd) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return total, nil
}

// GenerateSlots walks the availability window in interval steps. A slot is
// only produced when it fits entirely inside the window.
func GenerateSlots(from, until string, interval int) ([]string, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	start, err := parseClock(from, false)
	if err != nil {
		return nil, fmt.Errorf("%w: from: %v", ErrInvalidWindow, err)
	}
	end, err := parseClock(until, true)
	if err != nil {
		return nil, fmt.Errorf("%w: until: %v", ErrInvalidWindow, err)
	}
	if end <= start {
		return nil, fmt.Errorf("%w: %s-%s", ErrInvalidWindow, from, until)
	}

	slots := make([]string, 0, (end-start)/interval)
	for t := start; t+interval <= end; t += interval {
		slots = append(slots, FormatSlot(t))
	}
	return slots, nil
}

// NormalizeSlots sorts the selection and checks that consecutive slots are
// exactly one interval apart, which also guarantees
// last-first == (count-1)*interval.
func NormalizeSlots(slots []string, interval int) ([]string, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if len(slots) == 0 {
		return nil, ErrNoSlots
	}

	minutes := make([]int, len(slots))
	for i, s := range slots {
		m, err := ParseSlot(s)
		if err != nil {
			return nil, err
		}
		minutes[i] = m
	}
	sort.Ints(minutes)

	out := make([]string, len(minutes))
	for i, m := range minutes {
		if i > 0 {
			switch step := m - minutes[i-1]; {
			case step == 0:
				return nil, fmt.Errorf("%w: %s", ErrDuplicateSlot, FormatSlot(m))
			case step != interval:
				return nil, ErrSlotsNotContiguous
			}
		}
		out[i] = FormatSlot(m)
	}

	if minutes[len(minutes)-1]-minutes[0] != (len(minutes)-1)*interval {
		return nil, ErrSlotsNotContiguous
	}
	return out, nil
}

// ValidateContiguous reports whether the selection forms one contiguous block.
func ValidateContiguous(slots []string, interval int) error {
	_, err := NormalizeSlots(slots, interval)
	return err
}
