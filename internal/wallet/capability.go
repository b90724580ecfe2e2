// Package wallet owns the lifecycle of a connected CIP-30 wallet
// capability: discovery, connect/disconnect, best-effort reconnect, and
// transaction signing.
package wallet

import (
	"context"
	"errors"
)

var (
	ErrProviderNotFound   = errors.New("wallet provider not found")
	ErrProviderRejected   = errors.New("wallet provider rejected connection")
	ErrNoAddressAvailable = errors.New("wallet has no address available")
	ErrNotConnected       = errors.New("wallet not connected")
	ErrSigningRejected    = errors.New("transaction signing rejected")
)

// Capability is the enabled wallet session object, the four CIP-30
// operations this client depends on. Addresses come back in the
// provider's native encoding (hex CBOR); nothing here assumes bech32.
type Capability interface {
	GetUsedAddresses(ctx context.Context) ([]string, error)
	GetUnusedAddresses(ctx context.Context) ([]string, error)
	GetChangeAddress(ctx context.Context) (string, error)

	// SignTx is interactive: it suspends until the user approves or
	// rejects in the wallet, with no timeout imposed here.
	SignTx(ctx context.Context, txCbor string, partialSign bool) (string, error)
}

// Provider is one wallet the host environment has registered. Unknown
// providers are a discovery-time absence, never a runtime type error.
type Provider interface {
	ID() string
	Name() string
	Available(ctx context.Context) bool
	Enable(ctx context.Context) (Capability, error)
}

// Identity describes a connected (or connectable) wallet.
type Identity struct {
	ProviderID  string `json:"provider_id"`
	DisplayName string `json:"display_name"`
	Address     string `json:"address,omitempty"`
	Available   bool   `json:"available"`
}
