package config

import "time"

type KVStoreType string

const (
	KVStoreTypeBadger KVStoreType = "badger"
	KVStoreTypeMemory KVStoreType = "memory"
)

type Config struct {
	Environment string       `yaml:"environment" validate:"required,oneof=production development"`
	Gateway     GatewayCfg   `yaml:"gateway" validate:"required"`
	Wallet      WalletCfg    `yaml:"wallet"`
	KVStore     KVStoreCfg   `yaml:"kvstore" validate:"required"`
	NATS        NATSCfg      `yaml:"nats"`
	Refresher   RefresherCfg `yaml:"refresher"`
	Lifecycle   LifecycleCfg `yaml:"lifecycle"`
}

// GatewayCfg points at the transaction-building backend. The gateway
// builds, submits, and answers balance/metadata queries; this client
// never talks to the chain directly.
type GatewayCfg struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout"`
	Auth      AuthCfg       `yaml:"auth"`
	RateLimit RateLimitCfg  `yaml:"rate_limit"`
}

type AuthType string

const (
	AuthTypeHeader AuthType = "header"
	AuthTypeQuery  AuthType = "query"
)

type AuthCfg struct {
	Type  AuthType `yaml:"type" validate:"omitempty,oneof=header query"`
	Key   string   `yaml:"key"`
	Value string   `yaml:"value"`
}

type RateLimitCfg struct {
	RPS   int `yaml:"rps"`
	Burst int `yaml:"burst"`
}

type WalletCfg struct {
	Providers []ProviderCfg `yaml:"providers" validate:"dive"`
}

// ProviderCfg describes one CIP-30 bridge endpoint the host environment
// exposes. Availability is probed at runtime, not configured.
type ProviderCfg struct {
	ID      string        `yaml:"id" validate:"required"`
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout"`
}

type KVStoreCfg struct {
	Type   KVStoreType `yaml:"type" validate:"required,oneof=badger memory"`
	Badger BadgerKVCfg `yaml:"badger"`
}

type BadgerKVCfg struct {
	Directory string `yaml:"directory"`
	Prefix    string `yaml:"prefix"`
}

type NATSCfg struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type RefresherCfg struct {
	Interval      time.Duration `yaml:"interval"`
	RetryAttempts int           `yaml:"retry_attempts"`
	RetryInterval time.Duration `yaml:"retry_interval"`
}

type LifecycleCfg struct {
	// SettleDelay is how long to wait after a mutating transaction
	// lands before re-reading chain state, tolerating propagation lag.
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// Defaults returns the config every load starts from; file values are
// merged on top.
func Defaults() Config {
	return Config{
		Environment: "development",
		Gateway: GatewayCfg{
			Timeout: 15 * time.Second,
			RateLimit: RateLimitCfg{
				RPS:   10,
				Burst: 20,
			},
		},
		KVStore: KVStoreCfg{
			Type: KVStoreTypeBadger,
			Badger: BadgerKVCfg{
				Directory: "data/kv",
				Prefix:    "cip68",
			},
		},
		NATS: NATSCfg{
			SubjectPrefix: "cip68.lifecycle",
		},
		Refresher: RefresherCfg{
			Interval:      30 * time.Second,
			RetryAttempts: 3,
			RetryInterval: 2 * time.Second,
		},
		Lifecycle: LifecycleCfg{
			SettleDelay: 2 * time.Second,
		},
	}
}
