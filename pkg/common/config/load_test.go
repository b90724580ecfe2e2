package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: development
gateway:
  base_url: http://localhost:3000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 10, cfg.Gateway.RateLimit.RPS)
	assert.Equal(t, 20, cfg.Gateway.RateLimit.Burst)
	assert.Equal(t, KVStoreTypeBadger, cfg.KVStore.Type)
	assert.Equal(t, "data/kv", cfg.KVStore.Badger.Directory)
	assert.Equal(t, "cip68", cfg.KVStore.Badger.Prefix)
	assert.Equal(t, "cip68.lifecycle", cfg.NATS.SubjectPrefix)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Refresher.Interval)
	assert.Equal(t, 2*time.Second, cfg.Lifecycle.SettleDelay)
}

func TestLoadFileValuesWin(t *testing.T) {
	path := writeConfig(t, `
environment: production
gateway:
  base_url: https://gateway.example.com
  timeout: 5s
  rate_limit:
    rps: 2
    burst: 4
kvstore:
  type: memory
refresher:
  interval: 10s
lifecycle:
  settle_delay: 500ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 2, cfg.Gateway.RateLimit.RPS)
	assert.Equal(t, KVStoreTypeMemory, cfg.KVStore.Type)
	assert.Equal(t, 10*time.Second, cfg.Refresher.Interval)
	assert.Equal(t, 500*time.Millisecond, cfg.Lifecycle.SettleDelay)
}

func TestLoadProviderFixups(t *testing.T) {
	path := writeConfig(t, `
environment: development
gateway:
  base_url: http://localhost:3000
wallet:
  providers:
    - id: nami
      url: http://localhost:4000
    - id: eternl
      name: Eternl
      url: http://localhost:4001
      timeout: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Wallet.Providers, 2)

	// missing name defaults to the id, missing timeout to the gateway's
	assert.Equal(t, "nami", cfg.Wallet.Providers[0].Name)
	assert.Equal(t, cfg.Gateway.Timeout, cfg.Wallet.Providers[0].Timeout)

	assert.Equal(t, "Eternl", cfg.Wallet.Providers[1].Name)
	assert.Equal(t, 3*time.Second, cfg.Wallet.Providers[1].Timeout)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing gateway url",
			content: `
environment: development
`,
		},
		{
			name: "bad environment",
			content: `
environment: staging
gateway:
  base_url: http://localhost:3000
`,
		},
		{
			name: "bad kvstore type",
			content: `
environment: development
gateway:
  base_url: http://localhost:3000
kvstore:
  type: etcd
`,
		},
		{
			name: "provider without url",
			content: `
environment: development
gateway:
  base_url: http://localhost:3000
wallet:
  providers:
    - id: nami
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
