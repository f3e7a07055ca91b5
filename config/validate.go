// Copyright (c) 2026 The libprizepool developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/wallet"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if _, err := wallet.GetNetwork(cfg.Network); err != nil {
		return ErrInvalidNetwork
	}

	if _, err := identity.Parse(cfg.Program); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProgram, err)
	}

	if cfg.Mint != "" {
		if _, err := identity.Parse(cfg.Mint); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidMint, err)
		}
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return ErrInvalidLogFormat
	}

	if cfg.MaxRound == 0 || cfg.MaxRound > 10000 {
		return ErrInvalidMaxRound
	}

	return nil
}
