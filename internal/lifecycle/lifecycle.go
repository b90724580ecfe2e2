// Package lifecycle drives a mint/update/burn intent through the
// build → sign → submit pipeline against the backend gateway and the
// connected wallet, reporting every transition on an event bus.
package lifecycle

import (
	"context"
	"time"

	"github.com/fystack/cip68-minter/internal/gateway"
	"github.com/fystack/cip68-minter/internal/wallet"
	"github.com/fystack/cip68-minter/pkg/common/logger"
	"github.com/fystack/cip68-minter/pkg/events"
)

// Backend is the slice of the gateway the lifecycle needs.
// *gateway.Client satisfies it; tests inject fakes.
type Backend interface {
	BuildMint(ctx context.Context, walletAddress, tokenName, description string) (*gateway.BuildResponse, error)
	BuildUpdate(ctx context.Context, walletAddress, policyID, tokenName, newDescription string) (*gateway.BuildResponse, error)
	BuildBurn(ctx context.Context, walletAddress, policyID, tokenName, seedRef string) (*gateway.BuildResponse, error)
	Submit(ctx context.Context, txCbor, witnessSetCbor string) (*gateway.SubmitResponse, error)
	NormalizeAddress(ctx context.Context, address string) string
}

// Invalidator is what a successful mutating intent evicts; the
// metadata cache implements it.
type Invalidator interface {
	InvalidateAll()
}

// Lifecycle executes intents. It holds no per-attempt state: every Run
// call owns its attempt, and nothing serializes concurrent runs.
type Lifecycle struct {
	session *wallet.Session
	backend Backend
	cache   Invalidator
	records *RecordStore
	emitter events.Emitter

	// settleDelay is how long to wait after a mutating tx before
	// asking for fresh chain state, tolerating propagation lag.
	settleDelay time.Duration
	refresh     func()
}

type Options struct {
	Session     *wallet.Session
	Backend     Backend
	Cache       Invalidator
	Records     *RecordStore
	Emitter     events.Emitter
	SettleDelay time.Duration
	// Refresh is scheduled settleDelay after a successful update or
	// burn; typically the balance refresher's poke.
	Refresh func()
}

func New(opts Options) *Lifecycle {
	return &Lifecycle{
		session:     opts.Session,
		backend:     opts.Backend,
		cache:       opts.Cache,
		records:     opts.Records,
		emitter:     opts.Emitter,
		settleDelay: opts.SettleDelay,
		refresh:     opts.Refresh,
	}
}

// Run executes one intent to a terminal state. The returned attempt is
// terminal either way; the error is the attempt's Failure when it
// failed. No step is ever retried: the caller re-initiates with a new
// attempt if desired.
func (l *Lifecycle) Run(ctx context.Context, intent Intent) (*Attempt, error) {
	attempt := newAttempt(intent)

	// Preconditions: a connected session with a resolvable address.
	if err := intent.Validate(); err != nil {
		return attempt, l.failed(attempt, PreconditionError, err.Error())
	}
	identity := l.session.Active()
	if identity == nil || identity.Address == "" {
		return attempt, l.failed(attempt, PreconditionError, "wallet not connected")
	}

	l.transition(attempt, StateBuilding)

	build, err := l.build(ctx, intent, identity.Address)
	if err != nil {
		return attempt, l.failed(attempt, BuildError, err.Error())
	}
	if !build.Success {
		return attempt, l.failed(attempt, BuildError, build.Message)
	}
	attempt.UnsignedCbor = build.TxCbor

	l.transition(attempt, StateSigning)

	// Update spends a script input built by the backend, so the wallet
	// must partial-sign and return only its witness set.
	partial := intent.Kind() == IntentUpdate
	witness, err := l.session.SignTx(ctx, attempt.UnsignedCbor, partial)
	if err != nil {
		return attempt, l.failed(attempt, SigningError, err.Error())
	}
	attempt.WitnessCbor = witness

	l.transition(attempt, StateSubmitting)

	submit, err := l.backend.Submit(ctx, attempt.UnsignedCbor, attempt.WitnessCbor)
	if err != nil {
		return attempt, l.failed(attempt, SubmitError, err.Error())
	}
	if !submit.Success {
		return attempt, l.failed(attempt, SubmitError, submit.Message)
	}
	attempt.TxHash = submit.TxHash

	l.succeed(attempt, build)
	return attempt, nil
}

func (l *Lifecycle) build(ctx context.Context, intent Intent, address string) (*gateway.BuildResponse, error) {
	switch i := intent.(type) {
	case MintIntent:
		return l.backend.BuildMint(ctx, address, i.TokenName, i.Description)
	case UpdateIntent:
		// The builder wants bech32; fall back to the raw provider
		// address when conversion fails.
		bech32 := l.backend.NormalizeAddress(ctx, address)
		return l.backend.BuildUpdate(ctx, bech32, i.PolicyID, i.TokenName, i.NewDescription)
	case BurnIntent:
		bech32 := l.backend.NormalizeAddress(ctx, address)
		return l.backend.BuildBurn(ctx, bech32, i.PolicyID, i.TokenName, i.SeedRef)
	default:
		return nil, &Failure{Kind: PreconditionError, Message: "unknown intent kind"}
	}
}

func (l *Lifecycle) transition(attempt *Attempt, to State) {
	if err := attempt.Transition(to); err != nil {
		// Run's straight-line flow cannot produce this.
		logger.Error("Lifecycle transition rejected", "attempt", attempt.ID, "err", err)
		return
	}
	l.emit(attempt, progressMessage(attempt.Intent.Kind(), to))
}

func (l *Lifecycle) failed(attempt *Attempt, kind ErrorKind, message string) error {
	failure := attempt.fail(kind, message)
	logger.Warn("Attempt failed",
		"attempt", attempt.ID,
		"kind", string(kind),
		"state", string(failure.State),
		"message", message,
	)
	l.emit(attempt, message)
	return failure
}

func (l *Lifecycle) succeed(attempt *Attempt, build *gateway.BuildResponse) {
	if err := attempt.Transition(StateSuccess); err != nil {
		logger.Error("Lifecycle transition rejected", "attempt", attempt.ID, "err", err)
		return
	}
	intent := attempt.Intent

	switch i := intent.(type) {
	case MintIntent:
		if l.records != nil {
			record := MintRecord{
				TokenName: i.TokenName,
				PolicyID:  build.PolicyID,
				TxHash:    attempt.TxHash,
				Timestamp: time.Now().UTC(),
			}
			if err := l.records.Put(record); err != nil {
				logger.Warn("Persist mint record failed", "token", i.TokenName, "err", err)
			}
		}
		// The new pair shows up in balances only after propagation.
		if l.refresh != nil {
			time.AfterFunc(l.settleDelay, l.refresh)
		}
	case UpdateIntent:
		l.afterMutation()
	case BurnIntent:
		if l.records != nil {
			if err := l.records.Delete(i.TokenName); err != nil {
				logger.Warn("Delete mint record failed", "token", i.TokenName, "err", err)
			}
		}
		l.afterMutation()
	}

	logger.Info("Attempt succeeded", "attempt", attempt.ID, "tx_hash", attempt.TxHash)
	l.emit(attempt, successMessage(intent.Kind(), intent.Token()))
}

// afterMutation evicts cached metadata now and pokes the refresher once
// the ledger has had settleDelay to propagate.
func (l *Lifecycle) afterMutation() {
	if l.cache != nil {
		l.cache.InvalidateAll()
	}
	if l.refresh != nil {
		time.AfterFunc(l.settleDelay, l.refresh)
	}
}

func (l *Lifecycle) emit(attempt *Attempt, message string) {
	if l.emitter == nil {
		return
	}
	event := events.LifecycleEvent{
		AttemptID: attempt.ID,
		Intent:    string(attempt.Intent.Kind()),
		TokenName: attempt.Intent.Token(),
		State:     string(attempt.State),
		Message:   message,
		TxHash:    attempt.TxHash,
		Timestamp: time.Now().UTC(),
	}
	if attempt.Failure != nil {
		event.ErrorKind = string(attempt.Failure.Kind)
	}
	l.emitter.Emit(event)
}
