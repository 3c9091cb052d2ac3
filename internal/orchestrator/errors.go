package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput rejects blank requests before any state change.
	ErrEmptyInput = errors.New("orchestrator: message is empty")
	// ErrBusy rejects a request while another run is in flight.
	ErrBusy = errors.New("orchestrator: a request is already being processed")
)

// RoundError reports the round a run stopped at. Run is the status as it was
// when the round failed.
type RoundError struct {
	Round     int
	RoundName string
	Run       Status
	Err       error
}

func (e *RoundError) Error() string {
	if e.Round == 0 {
		return fmt.Sprintf("orchestrator: %v", e.Err)
	}
	return fmt.Sprintf("orchestrator: round %d (%s) failed: %v", e.Round, e.RoundName, e.Err)
}

func (e *RoundError) Unwrap() error { return e.Err }
