package kvstore

import (
	"fmt"

	"github.com/fystack/cip68-minter/pkg/common/config"
	"github.com/fystack/cip68-minter/pkg/infra"
)

// NewFromConfig constructs an infra.KVStore based on kvstore configuration.
func NewFromConfig(cfg config.KVStoreCfg) (infra.KVStore, error) {
	switch cfg.Type {
	case config.KVStoreTypeBadger:
		return NewBadgerStore(cfg.Badger.Directory, cfg.Badger.Prefix, infra.JSON)
	case config.KVStoreTypeMemory:
		return NewMemoryStore(infra.JSON), nil
	default:
		return nil, fmt.Errorf("unsupported kvstore type: %s", cfg.Type)
	}
}
