package ledger

import "errors"

var (
	// ErrPoolNotFound indicates no pool exists for the token mint.
	ErrPoolNotFound = errors.New("ledger: pool not found")

	// ErrAccountNotFound indicates no account exists at the address.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrPlayerNotFound indicates no player record exists for the wallet.
	ErrPlayerNotFound = errors.New("ledger: player not found")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("ledger: store is closed")

	// ErrReadOnly indicates a write was attempted inside View.
	ErrReadOnly = errors.New("ledger: write in read-only transaction")

	// ErrSequenceGap indicates a receipt does not follow the previous one.
	ErrSequenceGap = errors.New("ledger: receipt sequence gap")
)
