package player

import "errors"

var (
	// ErrAlreadyRegistered indicates the wallet already has a player record.
	ErrAlreadyRegistered = errors.New("player: wallet already registered")

	// ErrInvalidUsername indicates the username is empty, too long, or uses
	// characters outside [A-Za-z0-9_].
	ErrInvalidUsername = errors.New("player: invalid username")

	// ErrNotFound indicates no player record exists for the wallet.
	ErrNotFound = errors.New("player: not found")

	// ErrOverflow indicates a stat counter would exceed its maximum value.
	ErrOverflow = errors.New("player: stat overflow")
)
