package art

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes a render can end in. Degenerate
// geometry is not among them: it is clamped where it is sampled.
var (
	ErrInput   = errors.New("invalid weather input")
	ErrRender  = errors.New("render failed")
	ErrPersist = errors.New("persist failed")
)

// InputError reports a missing or non-finite sample value.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s is %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInput) hold for every InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInput
}

// StageError ties a failure to the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
