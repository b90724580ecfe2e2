// Package metadata caches per-token descriptive metadata so the UI can
// render NFT lists without hammering the read service. The cache is a
// convenience, not a system of record: it is wholly evicted after every
// mutating transaction.
package metadata

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fystack/cip68-minter/internal/cip68"
	"github.com/fystack/cip68-minter/internal/gateway"
	"github.com/fystack/cip68-minter/pkg/common/logger"
)

const (
	// placeholderDescription stands in when the datum has no
	// description field.
	placeholderDescription = "No description"
	// unavailableDescription is the transient value for a failed
	// fetch. It is never cached, so the next Get retries.
	unavailableDescription = "N/A"
)

// Entry is the last-known metadata of one (policyID, tokenName).
type Entry struct {
	PolicyID    string `json:"policy_id"`
	TokenName   string `json:"token_name"`
	Description string `json:"description"`
	Version     int    `json:"version"`
}

// Reader is the external metadata-read service. The backend resolves
// the reference token from the token name alone.
type Reader interface {
	Metadata(ctx context.Context, tokenName string) (*gateway.MetadataResponse, error)
}

// Cache is keyed by (policyID, tokenName). Concurrent Gets for the
// same key are tolerated: values are idempotent snapshots, so last
// writer wins.
type Cache struct {
	reader Reader

	mu      sync.RWMutex
	entries map[string]Entry
}

func NewCache(reader Reader) *Cache {
	return &Cache{
		reader:  reader,
		entries: make(map[string]Entry),
	}
}

func cacheKey(policyID, tokenName string) string {
	return policyID + "-" + tokenName
}

// Get returns the cached entry or fetches it. A failed remote call
// yields a transient {"N/A", 0} entry that is not cached, so a later
// retry is not blocked.
func (c *Cache) Get(ctx context.Context, policyID, tokenName string) Entry {
	key := cacheKey(policyID, tokenName)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return entry
	}

	resp, err := c.reader.Metadata(ctx, tokenName)
	if err != nil || !resp.Success || resp.Metadata == nil {
		if err != nil {
			logger.Warn("Metadata fetch failed", "token", tokenName, "err", err)
		}
		return Entry{
			PolicyID:    policyID,
			TokenName:   tokenName,
			Description: unavailableDescription,
			Version:     0,
		}
	}

	entry = Entry{
		PolicyID:    policyID,
		TokenName:   tokenName,
		Description: resp.Metadata["description"],
		Version:     resp.Version,
	}
	if entry.Description == "" {
		entry.Description = placeholderDescription
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return entry
}

// Cached reports whether a key is present without fetching.
func (c *Cache) Cached(policyID, tokenName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[cacheKey(policyID, tokenName)]
	return ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// InvalidateAll evicts every entry. Called after any successful
// mutating transaction so the next read re-derives from chain state.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()
}

// PrefetchAll warms the cache for every distinct uncached user token.
// Purely an optimization: duplicate concurrent fetches for one key
// cannot corrupt the cache.
func (c *Cache) PrefetchAll(ctx context.Context, assets []cip68.ClassifiedAsset) {
	seen := make(map[string]bool)
	g, ctx := errgroup.WithContext(ctx)

	for _, asset := range cip68.UserTokens(assets) {
		key := cacheKey(asset.PolicyID, asset.TokenName)
		if seen[key] || c.Cached(asset.PolicyID, asset.TokenName) {
			continue
		}
		seen[key] = true

		policyID, tokenName := asset.PolicyID, asset.TokenName
		g.Go(func() error {
			c.Get(ctx, policyID, tokenName)
			return nil
		})
	}

	_ = g.Wait()
}
