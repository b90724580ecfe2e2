package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/fystack/cip68-minter/pkg/common/logger"
	"github.com/fystack/cip68-minter/pkg/infra"
)

// lastProviderKey is the durable key remembering which provider the
// user connected last, for silent reconnect on the next start.
const lastProviderKey = "wallet/last_provider"

// Session holds at most one active wallet identity. All methods are
// safe for concurrent use; the zero of everything means "disconnected".
type Session struct {
	providers []Provider
	kv        infra.KVStore

	mu         sync.RWMutex
	active     *Identity
	capability Capability
}

func NewSession(providers []Provider, kv infra.KVStore) *Session {
	return &Session{
		providers: providers,
		kv:        kv,
	}
}

// ListAvailable returns the identities of providers that answer the
// availability probe. Pure: no session state changes, may be empty.
func (s *Session) ListAvailable(ctx context.Context) []Identity {
	out := make([]Identity, 0, len(s.providers))
	for _, p := range s.providers {
		if !p.Available(ctx) {
			continue
		}
		out = append(out, Identity{
			ProviderID:  p.ID(),
			DisplayName: p.Name(),
			Available:   true,
		})
	}
	return out
}

// Connect enables the given provider, resolves an address, and makes
// the identity active. The provider id is persisted so a later start
// can reconnect silently.
func (s *Session) Connect(ctx context.Context, providerID string) (*Identity, error) {
	var provider Provider
	for _, p := range s.providers {
		if p.ID() == providerID {
			provider = p
			break
		}
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}

	capability, err := provider.Enable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderRejected, providerID, err)
	}

	address, err := s.ResolveAddress(ctx, capability)
	if err != nil {
		return nil, err
	}

	identity := &Identity{
		ProviderID:  provider.ID(),
		DisplayName: provider.Name(),
		Address:     address,
		Available:   true,
	}

	s.mu.Lock()
	s.active = identity
	s.capability = capability
	s.mu.Unlock()

	if s.kv != nil {
		if err := s.kv.Set(lastProviderKey, providerID); err != nil {
			logger.Warn("Persist last provider failed", "provider", providerID, "err", err)
		}
	}

	logger.Info("Wallet connected", "provider", providerID, "address", address)
	return identity, nil
}

// Reconnect attempts a silent connect using the persisted provider id.
// Failures are swallowed: a failed auto-reconnect must never surface an
// error to the user.
func (s *Session) Reconnect(ctx context.Context) (*Identity, bool) {
	if s.kv == nil {
		return nil, false
	}
	providerID, err := s.kv.Get(lastProviderKey)
	if err != nil || providerID == "" {
		return nil, false
	}

	identity, err := s.Connect(ctx, providerID)
	if err != nil {
		logger.Debug("Silent reconnect failed", "provider", providerID, "err", err)
		return nil, false
	}
	return identity, true
}

// Disconnect clears all session state and the durable key. Idempotent.
func (s *Session) Disconnect() {
	s.mu.Lock()
	s.active = nil
	s.capability = nil
	s.mu.Unlock()

	if s.kv != nil {
		if err := s.kv.Delete(lastProviderKey); err != nil {
			logger.Warn("Clear last provider failed", "err", err)
		}
	}
}

// Connected reports whether a session is active.
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capability != nil
}

// Active returns the current identity, or nil when disconnected.
func (s *Session) Active() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	cp := *s.active
	return &cp
}

// ResolveAddress picks the wallet's address: first used address, then
// first unused, then the change address. Each source's failure only
// moves resolution to the next one.
func (s *Session) ResolveAddress(ctx context.Context, capability Capability) (string, error) {
	used, err := capability.GetUsedAddresses(ctx)
	if err == nil && len(used) > 0 && used[0] != "" {
		return used[0], nil
	}

	unused, err := capability.GetUnusedAddresses(ctx)
	if err == nil && len(unused) > 0 && unused[0] != "" {
		return unused[0], nil
	}

	change, err := capability.GetChangeAddress(ctx)
	if err == nil && change != "" {
		return change, nil
	}

	return "", ErrNoAddressAvailable
}

// SignTx delegates to the connected capability. This is the single
// interactive suspension point of the whole client: the user may sit on
// the wallet prompt indefinitely or reject it.
func (s *Session) SignTx(ctx context.Context, txCbor string, partialSign bool) (string, error) {
	s.mu.RLock()
	capability := s.capability
	s.mu.RUnlock()

	if capability == nil {
		return "", ErrNotConnected
	}

	witness, err := capability.SignTx(ctx, txCbor, partialSign)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningRejected, err)
	}
	return witness, nil
}
