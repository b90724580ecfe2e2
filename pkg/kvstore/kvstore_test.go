package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/cip68-minter/pkg/common/config"
	"github.com/fystack/cip68-minter/pkg/infra"
)

type testRecord struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// both implementations must behave identically for the basic contract
func stores(t *testing.T) map[string]infra.KVStore {
	t.Helper()

	badgerStore, err := NewBadgerStore(t.TempDir(), "cip68", infra.JSON)
	require.NoError(t, err)
	t.Cleanup(func() { badgerStore.Close() })

	return map[string]infra.KVStore{
		"memory": NewMemoryStore(infra.JSON),
		"badger": badgerStore,
	}
}

func TestSetGet(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("wallet/last_provider", "nami"))

			got, err := store.Get("wallet/last_provider")
			require.NoError(t, err)
			assert.Equal(t, "nami", got)
		})
	}
}

func TestGetMissingKey(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get("nothing")
			assert.ErrorIs(t, err, infra.ErrKeyNotFound)
		})
	}
}

func TestEmptyKeyRejected(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, store.Set("", "x"), infra.ErrKeyEmpty)
			_, err := store.Get("")
			assert.ErrorIs(t, err, infra.ErrKeyEmpty)
			assert.ErrorIs(t, store.Delete(""), infra.ErrKeyEmpty)
		})
	}
}

func TestSetAnyGetAnyRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			in := testRecord{Name: "DemoNFT", Count: 3}
			require.NoError(t, store.SetAny("nft/DemoNFT", in))

			var out testRecord
			found, err := store.GetAny("nft/DemoNFT", &out)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, in, out)

			found, err = store.GetAny("nft/Missing", &out)
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("k", "v"))
			require.NoError(t, store.Delete("k"))

			_, err := store.Get("k")
			assert.ErrorIs(t, err, infra.ErrKeyNotFound)

			// deleting a missing key is not an error
			assert.NoError(t, store.Delete("k"))
		})
	}
}

func TestListByPrefix(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set("nft/Alpha", "1"))
			require.NoError(t, store.Set("nft/Bravo", "2"))
			require.NoError(t, store.Set("wallet/last_provider", "nami"))

			pairs, err := store.List("nft/")
			require.NoError(t, err)
			assert.Len(t, pairs, 2)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	memStore, err := NewFromConfig(config.KVStoreCfg{Type: config.KVStoreTypeMemory})
	require.NoError(t, err)
	assert.Equal(t, "memory", memStore.GetName())

	badgerStore, err := NewFromConfig(config.KVStoreCfg{
		Type: config.KVStoreTypeBadger,
		Badger: config.BadgerKVCfg{
			Directory: t.TempDir(),
			Prefix:    "cip68",
		},
	})
	require.NoError(t, err)
	defer badgerStore.Close()
	assert.Equal(t, "badger", badgerStore.GetName())

	_, err = NewFromConfig(config.KVStoreCfg{Type: "etcd"})
	assert.Error(t, err)
}
