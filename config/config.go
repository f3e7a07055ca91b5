// Copyright (c) 2026 The libprizepool developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads and saves the prizepool configuration file.
//
// The file lives at {datadir}/config and holds one "key = value" pair per
// line. Lines starting with '#' and blank lines are ignored, as are unknown
// keys. Values may contain '='; only the first one separates key and value.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultProgram is the program identity used when none is configured.
const DefaultProgram = "ceca764e710bfba110cd5204cbacec693e941ac44c836c7a62e9753831e7e4b6"

// Config holds the settings shared by every prizepool command.
type Config struct {
	DataDir     string // ledger, wallet and config location
	Network     string // mainnet, devnet or localnet
	Program     string // program identity (hex) that derived addresses are bound to
	Mint        string // default token mint (hex); optional
	LogLevel    string
	LogFormat   string // text or json
	LogFile     string // empty logs to stderr
	MetricsFile string // Prometheus textfile written after each command; optional
	MaxRound    uint64 // basis points of the treasury a planned round may pay

	// MaxRoundFixed caps a planned round in token units; 0 disables the cap.
	MaxRoundFixed uint64

	// MinHolding is the balance a player's account needs to win; 0 disables it.
	MinHolding uint64
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:   DefaultDataDir(),
		Network:   "mainnet",
		Program:   DefaultProgram,
		LogLevel:  "info",
		LogFormat: "text",
		MaxRound:  2500,
	}
}

// DefaultDataDir returns ~/.prizepool, or .prizepool in the working directory
// when the home directory cannot be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".prizepool"
	}
	return filepath.Join(home, ".prizepool")
}

// ConfigPath returns the config file path inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads path on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %w", ErrInvalidConfigLine, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Prizepool Configuration\n")
	for _, kv := range [][2]string{
		{"datadir", cfg.DataDir},
		{"network", cfg.Network},
		{"program", cfg.Program},
		{"mint", cfg.Mint},
		{"loglevel", cfg.LogLevel},
		{"logformat", cfg.LogFormat},
		{"logfile", cfg.LogFile},
		{"metricsfile", cfg.MetricsFile},
		{"maxround", strconv.FormatUint(cfg.MaxRound, 10)},
		{"maxroundfixed", strconv.FormatUint(cfg.MaxRoundFixed, 10)},
		{"minholding", strconv.FormatUint(cfg.MinHolding, 10)},
	} {
		fmt.Fprintf(&b, "%s = %s\n", kv[0], kv[1])
	}

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// parseKeyValue splits "key = value" on the first '='.
func parseKeyValue(line string) (string, string, error) {
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", ErrInvalidConfigLine
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", ErrInvalidConfigLine
	}
	return strings.ToLower(key), strings.TrimSpace(value), nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "network":
		c.Network = value
	case "program":
		c.Program = value
	case "mint":
		c.Mint = value
	case "loglevel":
		c.LogLevel = value
	case "logformat":
		c.LogFormat = value
	case "logfile":
		c.LogFile = value
	case "metricsfile":
		c.MetricsFile = value
	case "maxround", "maxroundfixed", "minholding":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "maxround":
			c.MaxRound = n
		case "maxroundfixed":
			c.MaxRoundFixed = n
		default:
			c.MinHolding = n
		}
	}
	return nil
}
