package events

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/fystack/cip68-minter/pkg/common/logger"
)

// NATSEmitter mirrors lifecycle events onto a NATS subject so external
// observers (dashboards, audit logs) can follow attempts without being
// wired into the process.
type NATSEmitter struct {
	conn          *nats.Conn
	subjectPrefix string
}

func NewNATSEmitter(conn *nats.Conn, subjectPrefix string) *NATSEmitter {
	return &NATSEmitter{
		conn:          conn,
		subjectPrefix: subjectPrefix,
	}
}

func (e *NATSEmitter) Emit(event LifecycleEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Marshal lifecycle event failed", "err", err)
		return
	}
	// All intents publish to the same subject tree: <prefix>.<intent>
	subject := e.subjectPrefix + "." + event.Intent
	if err := e.conn.Publish(subject, data); err != nil {
		logger.Warn("Publish lifecycle event failed", "subject", subject, "err", err)
	}
}

func (e *NATSEmitter) Close() {
	if e.conn != nil {
		e.conn.Close()
	}
}

// MultiEmitter fans one event out to several emitters.
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(event LifecycleEvent) {
	for _, e := range m {
		e.Emit(event)
	}
}

func (m MultiEmitter) Close() {
	for _, e := range m {
		e.Close()
	}
}
