package main

import (
	"context"
	"fmt"

	"github.com/fystack/cip68-minter/internal/gateway"
	"github.com/fystack/cip68-minter/internal/lifecycle"
	"github.com/fystack/cip68-minter/internal/metadata"
	"github.com/fystack/cip68-minter/internal/refresher"
	"github.com/fystack/cip68-minter/internal/wallet"
	"github.com/fystack/cip68-minter/pkg/common/config"
	"github.com/fystack/cip68-minter/pkg/common/logger"
	"github.com/fystack/cip68-minter/pkg/events"
	"github.com/fystack/cip68-minter/pkg/infra"
	"github.com/fystack/cip68-minter/pkg/kvstore"
	"github.com/fystack/cip68-minter/pkg/ratelimiter"
)

// app wires every component for one process: kvstore, wallet session,
// gateway, caches, event bus, lifecycle, refresher.
type app struct {
	cfg       *config.Config
	kv        infra.KVStore
	session   *wallet.Session
	gateway   *gateway.Client
	cache     *metadata.Cache
	records   *lifecycle.RecordStore
	bus       *events.Bus
	emitter   events.Emitter
	lifecycle *lifecycle.Lifecycle
	refresher *refresher.Refresher
}

func newApp(cfg *config.Config) (*app, error) {
	kv, err := kvstore.NewFromConfig(cfg.KVStore)
	if err != nil {
		return nil, fmt.Errorf("open kvstore: %w", err)
	}

	providers := make([]wallet.Provider, 0, len(cfg.Wallet.Providers))
	for _, p := range cfg.Wallet.Providers {
		providers = append(providers, wallet.NewBridgeProvider(p.ID, p.Name, p.URL, p.Timeout))
	}
	session := wallet.NewSession(providers, kv)

	rl := ratelimiter.NewRateLimiter(cfg.Gateway.RateLimit.RPS, cfg.Gateway.RateLimit.Burst)
	var auth *gateway.AuthConfig
	if cfg.Gateway.Auth.Key != "" {
		auth = &gateway.AuthConfig{
			Type:  gateway.AuthType(cfg.Gateway.Auth.Type),
			Key:   cfg.Gateway.Auth.Key,
			Value: cfg.Gateway.Auth.Value,
		}
	}
	gw := gateway.NewClient(cfg.Gateway.BaseURL, auth, cfg.Gateway.Timeout, rl)

	cache := metadata.NewCache(gw)
	records := lifecycle.NewRecordStore(kv)

	bus := events.NewBus()
	var emitter events.Emitter = bus
	if cfg.NATS.Enabled {
		conn, err := infra.GetNATSConnection(cfg.NATS.URL)
		if err != nil {
			logger.Warn("NATS unavailable, events stay in-process", "err", err)
		} else {
			emitter = events.MultiEmitter{bus, events.NewNATSEmitter(conn, cfg.NATS.SubjectPrefix)}
		}
	}

	ref := refresher.New(refresher.Options{
		Session:       session,
		Balances:      gw,
		Cache:         cache,
		Interval:      cfg.Refresher.Interval,
		RetryAttempts: cfg.Refresher.RetryAttempts,
		RetryInterval: cfg.Refresher.RetryInterval,
	})

	lc := lifecycle.New(lifecycle.Options{
		Session:     session,
		Backend:     gw,
		Cache:       cache,
		Records:     records,
		Emitter:     emitter,
		SettleDelay: cfg.Lifecycle.SettleDelay,
		Refresh:     ref.Poke,
	})

	return &app{
		cfg:       cfg,
		kv:        kv,
		session:   session,
		gateway:   gw,
		cache:     cache,
		records:   records,
		bus:       bus,
		emitter:   emitter,
		lifecycle: lc,
		refresher: ref,
	}, nil
}

func (a *app) Close() {
	a.emitter.Close()
	if err := a.kv.Close(); err != nil {
		logger.Warn("Close kvstore failed", "err", err)
	}
}

// connectWallet restores the saved session or, when a provider id is
// given, connects explicitly.
func (a *app) connectWallet(ctx context.Context, providerID string) (*wallet.Identity, error) {
	if providerID != "" {
		return a.session.Connect(ctx, providerID)
	}
	if identity, ok := a.session.Reconnect(ctx); ok {
		return identity, nil
	}
	return nil, fmt.Errorf("no wallet connected; pass --wallet or connect one first")
}
