package automation

import (
	"fmt"

	"github.com/tripsmith/travel-booking-aggregator/internal/domain"
)

// SessionError is returned by session operations. Op is the operation that
// was attempted and State the state the session was in at that time.
type SessionError struct {
	Op     string
	State  State
	Reason Reason
	Err    error
}

func (e *SessionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("automation %s in state %s: %s: %v", e.Op, e.State, e.Reason, e.Err)
	}
	return fmt.Sprintf("automation %s in state %s: %v", e.Op, e.State, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

func illegal(op string, state State) *SessionError {
	return &SessionError{Op: op, State: state, Err: domain.ErrIllegalTransition}
}
