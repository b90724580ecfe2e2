// Package refresher polls the connected wallet's balances on a fixed
// interval, reclassifies them, and warms the metadata cache. It runs
// independently of any transaction attempt and must be stopped with its
// owning context so it never acts on a stale address after disconnect.
package refresher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fystack/cip68-minter/internal/cip68"
	"github.com/fystack/cip68-minter/internal/gateway"
	"github.com/fystack/cip68-minter/internal/metadata"
	"github.com/fystack/cip68-minter/internal/wallet"
	"github.com/fystack/cip68-minter/pkg/common/logger"
	"github.com/fystack/cip68-minter/pkg/retry"
)

// BalanceSource is the external balance query; *gateway.Client
// satisfies it.
type BalanceSource interface {
	WalletInfo(ctx context.Context, address string) (*gateway.WalletInfoResponse, error)
}

type Options struct {
	Session  *wallet.Session
	Balances BalanceSource
	Cache    *metadata.Cache

	Interval      time.Duration
	RetryAttempts int
	RetryInterval time.Duration
}

type Refresher struct {
	opts Options

	pokes    chan struct{}
	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once

	mu     sync.RWMutex
	assets []cip68.ClassifiedAsset
}

func New(opts Options) *Refresher {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = retry.DefaultMaxAttempts
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = retry.DefaultInterval
	}
	return &Refresher{
		opts:  opts,
		pokes: make(chan struct{}, 1),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start launches the poll loop. It returns immediately and is a no-op
// when the loop is already running.
func (r *Refresher) Start(ctx context.Context) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.loop(ctx)
}

// Stop tears the loop down and waits for it to exit. Safe to call more
// than once, and before Start.
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	if r.started.Load() {
		<-r.done
	}
}

// Poke requests an out-of-band refresh, coalescing with any pending
// one. Used by the lifecycle after the post-transaction settle delay.
func (r *Refresher) Poke() {
	select {
	case r.pokes <- struct{}{}:
	default:
	}
}

// Assets returns the latest classification snapshot.
func (r *Refresher) Assets() []cip68.ClassifiedAsset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]cip68.ClassifiedAsset, len(r.assets))
	copy(out, r.assets)
	return out
}

func (r *Refresher) loop(ctx context.Context) {
	defer close(r.done)

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		case <-r.pokes:
		}

		if err := r.RefreshNow(ctx); err != nil {
			logger.Warn("Balance refresh failed", "err", err)
		}
	}
}

// RefreshNow fetches, classifies and prefetches once. Disconnected
// sessions are a no-op, not an error.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	identity := r.opts.Session.Active()
	if identity == nil {
		return nil
	}

	var info *gateway.WalletInfoResponse
	err := retry.Constant(func() error {
		var err error
		info, err = r.opts.Balances.WalletInfo(ctx, identity.Address)
		return err
	}, r.opts.RetryInterval, r.opts.RetryAttempts)
	if err != nil {
		return err
	}

	classified := cip68.Classify(info.Assets)

	r.mu.Lock()
	r.assets = classified
	r.mu.Unlock()

	logger.Debug("Balances refreshed",
		"address", identity.Address,
		"units", len(info.Assets),
		"cip68", len(classified),
	)

	if r.opts.Cache != nil {
		r.opts.Cache.PrefetchAll(ctx, classified)
	}
	return nil
}
