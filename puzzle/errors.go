package puzzle

import "fmt"

// ErrRetryExhausted indicates that an assembly stage ran out of attempts
// without producing a valid result. It is an expected steady-state outcome,
// not a crash: callers typically log it and move on to the next slot.
type ErrRetryExhausted struct {
	Stage    string
	Attempts int
}

func (e *ErrRetryExhausted) Error() string {
	return fmt.Sprintf("%s assembly exhausted after %d attempts", e.Stage, e.Attempts)
}
