package infra

import (
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fystack/cip68-minter/pkg/common/logger"
)

// GetNATSConnection dials NATS with reconnect-forever semantics. The
// connection is optional infrastructure: callers that get an error here
// should degrade to in-process events only.
func GetNATSConnection(url string) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.MaxReconnects(-1), // retry forever
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectHandler(func(nc *nats.Conn) {
			logger.Warn("Disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error("NATS error", "err", err)
		}),
	}

	return nats.Connect(url, opts...)
}
