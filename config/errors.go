// Copyright (c) 2026 The libprizepool developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"devnet\", or \"localnet\")")

	// ErrInvalidProgram indicates the program identity is not 64 hex characters.
	ErrInvalidProgram = errors.New("config: invalid program identity")

	// ErrInvalidMint indicates the default mint is set but malformed.
	ErrInvalidMint = errors.New("config: invalid mint identity")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrInvalidLogFormat indicates the log format is not recognized.
	ErrInvalidLogFormat = errors.New("config: invalid log format (must be \"text\" or \"json\")")

	// ErrInvalidMaxRound indicates the round cap is outside 1..10000 basis points.
	ErrInvalidMaxRound = errors.New("config: invalid maxround (must be 1..10000 basis points)")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
