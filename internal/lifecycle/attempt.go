package lifecycle

import (
	"fmt"
	"sync/atomic"
)

var attemptSeq atomic.Uint64

// Attempt tracks one intent through the pipeline. It is owned
// exclusively by the Run call that created it; concurrent attempts
// never share one.
type Attempt struct {
	ID           string
	Intent       Intent
	State        State
	UnsignedCbor string
	WitnessCbor  string
	TxHash       string
	Failure      *Failure
}

func newAttempt(intent Intent) *Attempt {
	return &Attempt{
		ID:     fmt.Sprintf("%s-%d", intent.Kind(), attemptSeq.Add(1)),
		Intent: intent,
		State:  StateIdle,
	}
}

// Transition moves the attempt to the next state, enforcing the
// pipeline order and terminal-state absorption.
func (a *Attempt) Transition(to State) error {
	if !validTransition(a.State, to) {
		return fmt.Errorf("invalid transition %s -> %s", a.State, to)
	}
	a.State = to
	return nil
}

func (a *Attempt) fail(kind ErrorKind, message string) *Failure {
	failure := &Failure{
		Kind:    kind,
		State:   a.State,
		Message: message,
	}
	a.Failure = failure
	a.State = StateFailed
	return failure
}
