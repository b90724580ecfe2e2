package events

import "time"

// LifecycleEvent is one state transition of a transaction attempt.
// Observers (the CLI printer, tests, an optional NATS mirror) receive
// every transition; AttemptID lets them demux concurrent attempts.
type LifecycleEvent struct {
	AttemptID string    `json:"attempt_id"`
	Intent    string    `json:"intent"` // "mint", "update", "burn"
	TokenName string    `json:"token_name"`
	State     string    `json:"state"`
	Message   string    `json:"message"`
	TxHash    string    `json:"tx_hash,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Terminal reports whether no further events will follow for this attempt.
func (e LifecycleEvent) Terminal() bool {
	return e.State == "success" || e.State == "failed"
}

// Emitter publishes lifecycle events. Emit must not block on slow
// observers; the lifecycle treats event delivery as best-effort.
type Emitter interface {
	Emit(event LifecycleEvent)
	Close()
}
