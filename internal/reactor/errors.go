package reactor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a configuration value outside its range.
	ErrInvalidConfig = errors.New("reactor: invalid configuration")

	// ErrEmptyWorld indicates a run was requested on a world with no room.
	ErrEmptyWorld = errors.New("reactor: world has no area")

	// ErrCanceled indicates the run was interrupted by its context.
	ErrCanceled = errors.New("reactor: simulation canceled by context")
)

// SimError is an error raised at a specific step of a run.
type SimError struct {
	Time    float64
	Step    int
	Message string
	Wrapped error
}

func (e *SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e *SimError) Unwrap() error {
	return e.Wrapped
}
