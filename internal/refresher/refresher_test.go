package refresher

import (
	"context"
	"encoding/hex"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/cip68-minter/internal/cip68"
	"github.com/fystack/cip68-minter/internal/gateway"
	"github.com/fystack/cip68-minter/internal/metadata"
	"github.com/fystack/cip68-minter/internal/wallet"
	"github.com/fystack/cip68-minter/pkg/infra"
	"github.com/fystack/cip68-minter/pkg/kvstore"
)

type fakeBalances struct {
	mu    sync.Mutex
	resp  *gateway.WalletInfoResponse
	errs  int // fail this many calls before succeeding
	calls int
}

func (f *fakeBalances) WalletInfo(context.Context, string) (*gateway.WalletInfoResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.errs > 0 {
		f.errs--
		return nil, errors.New("gateway unavailable")
	}
	return f.resp, nil
}

func (f *fakeBalances) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeMetadataReader struct{}

func (fakeMetadataReader) Metadata(_ context.Context, tokenName string) (*gateway.MetadataResponse, error) {
	return &gateway.MetadataResponse{
		Success:  true,
		Metadata: map[string]string{"description": "meta of " + tokenName},
		Version:  1,
	}, nil
}

type fakeCapability struct{}

func (fakeCapability) GetUsedAddresses(context.Context) ([]string, error) {
	return []string{"addr1xyz"}, nil
}
func (fakeCapability) GetUnusedAddresses(context.Context) ([]string, error) { return nil, nil }
func (fakeCapability) GetChangeAddress(context.Context) (string, error)    { return "", nil }
func (fakeCapability) SignTx(context.Context, string, bool) (string, error) {
	return "", errors.New("not used here")
}

type fakeProvider struct{}

func (fakeProvider) ID() string                     { return "fake" }
func (fakeProvider) Name() string                   { return "Fake Wallet" }
func (fakeProvider) Available(context.Context) bool { return true }
func (fakeProvider) Enable(context.Context) (wallet.Capability, error) {
	return fakeCapability{}, nil
}

func connectedSession(t *testing.T) *wallet.Session {
	t.Helper()
	session := wallet.NewSession([]wallet.Provider{fakeProvider{}}, kvstore.NewMemoryStore(infra.JSON))
	_, err := session.Connect(context.Background(), "fake")
	require.NoError(t, err)
	return session
}

func balanceOf(names ...string) *gateway.WalletInfoResponse {
	assets := make([]cip68.AssetUnit, 0, len(names))
	for _, n := range names {
		assets = append(assets, cip68.AssetUnit{
			PolicyID:  cip68.PlatformPolicyID,
			AssetName: cip68.UserPrefix + hex.EncodeToString([]byte(n)),
			Quantity:  decimal.NewFromInt(1),
		})
	}
	return &gateway.WalletInfoResponse{Success: true, Address: "addr1xyz", Assets: assets}
}

func TestRefreshNowClassifiesAndWarmsCache(t *testing.T) {
	balances := &fakeBalances{resp: balanceOf("Alpha", "Bravo")}
	cache := metadata.NewCache(fakeMetadataReader{})

	r := New(Options{
		Session:  connectedSession(t),
		Balances: balances,
		Cache:    cache,
	})

	require.NoError(t, r.RefreshNow(context.Background()))

	assets := r.Assets()
	require.Len(t, assets, 2)
	assert.Equal(t, "Alpha", assets[0].TokenName)
	assert.Equal(t, cip68.RoleUser, assets[0].Role)

	assert.True(t, cache.Cached(cip68.PlatformPolicyID, "Alpha"))
	assert.True(t, cache.Cached(cip68.PlatformPolicyID, "Bravo"))
}

func TestRefreshNowDisconnectedIsNoop(t *testing.T) {
	balances := &fakeBalances{resp: balanceOf("Alpha")}
	session := wallet.NewSession(nil, kvstore.NewMemoryStore(infra.JSON))

	r := New(Options{Session: session, Balances: balances})

	require.NoError(t, r.RefreshNow(context.Background()))
	assert.Zero(t, balances.callCount())
	assert.Empty(t, r.Assets())
}

func TestRefreshNowRetriesTransientErrors(t *testing.T) {
	balances := &fakeBalances{resp: balanceOf("Alpha"), errs: 2}

	r := New(Options{
		Session:       connectedSession(t),
		Balances:      balances,
		RetryAttempts: 3,
		RetryInterval: time.Millisecond,
	})

	require.NoError(t, r.RefreshNow(context.Background()))
	assert.Equal(t, 3, balances.callCount())
	assert.Len(t, r.Assets(), 1)
}

func TestRefreshNowGivesUpAfterAttempts(t *testing.T) {
	balances := &fakeBalances{errs: 10}

	r := New(Options{
		Session:       connectedSession(t),
		Balances:      balances,
		RetryAttempts: 2,
		RetryInterval: time.Millisecond,
	})

	err := r.RefreshNow(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, balances.callCount())
	assert.Empty(t, r.Assets(), "failed refresh keeps the previous snapshot")
}

func TestPokeTriggersRefresh(t *testing.T) {
	balances := &fakeBalances{resp: balanceOf("Alpha")}

	r := New(Options{
		Session:  connectedSession(t),
		Balances: balances,
		Interval: time.Hour, // only pokes drive this test
	})

	r.Start(context.Background())
	defer r.Stop()

	r.Poke()
	require.Eventually(t, func() bool {
		return balances.callCount() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestStopTerminatesLoop(t *testing.T) {
	r := New(Options{
		Session:  connectedSession(t),
		Balances: &fakeBalances{resp: balanceOf()},
		Interval: time.Hour,
	})

	r.Start(context.Background())

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestStopWithoutStartReturns(t *testing.T) {
	r := New(Options{
		Session:  connectedSession(t),
		Balances: &fakeBalances{resp: balanceOf()},
	})

	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a running loop")
	}
}

func TestStopTwice(t *testing.T) {
	r := New(Options{
		Session:  connectedSession(t),
		Balances: &fakeBalances{resp: balanceOf()},
		Interval: time.Hour,
	})

	r.Start(context.Background())
	r.Stop()
	r.Stop() // must not panic
}

func TestAssetsReturnsCopy(t *testing.T) {
	balances := &fakeBalances{resp: balanceOf("Alpha")}
	r := New(Options{Session: connectedSession(t), Balances: balances})
	require.NoError(t, r.RefreshNow(context.Background()))

	snapshot := r.Assets()
	snapshot[0].TokenName = "mutated"
	assert.Equal(t, "Alpha", r.Assets()[0].TokenName)
}
