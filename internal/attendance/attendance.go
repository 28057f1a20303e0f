package attendance

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusExcused Status = "excused"
)

var (
	ErrInvalidStatus   = errors.New("invalid attendance status")
	ErrPackageFinished = errors.New("lesson package finished")
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPresent, StatusAbsent, StatusExcused:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// Finished reports whether every session of the package has been attended.
func Finished(attended, packageSize int) bool {
	return packageSize > 0 && attended >= packageSize
}

// Apply moves one session from one status to another and returns the new
// attended counter. Any status may move to any other. Entering present
// counts a session, leaving present gives it back.
func Apply(attended, packageSize int, from, to Status) (int, error) {
	if !from.Valid() {
		return attended, fmt.Errorf("%w: %q", ErrInvalidStatus, from)
	}
	if !to.Valid() {
		return attended, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from == to {
		return attended, nil
	}

	switch {
	case to == StatusPresent:
		if Finished(attended, packageSize) {
			return attended, ErrPackageFinished
		}
		return attended + 1, nil
	case from == StatusPresent && attended > 0:
		return attended - 1, nil
	}
	return attended, nil
}

// Remaining is the number of sessions left in the package.
func Remaining(attended, packageSize int) int {
	if attended >= packageSize {
		return 0
	}
	return packageSize - attended
}
