package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/imdario/mergo"
)

var validate = validator.New()

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// apply defaults
	defaults := Defaults()
	if err := mergo.Merge(&cfg, defaults); err != nil {
		return nil, fmt.Errorf("merge defaults failed: %w", err)
	}

	for i, p := range cfg.Wallet.Providers {
		if p.Timeout <= 0 {
			p.Timeout = cfg.Gateway.Timeout
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		cfg.Wallet.Providers[i] = p
	}

	// validate
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("struct validation failed: %w", err)
	}

	return &cfg, nil
}
