package token

import "errors"

var (
	// ErrAccountExists indicates an account is already open at the address.
	ErrAccountExists = errors.New("token: account already exists")

	// ErrAccountNotFound indicates a source or destination account is missing.
	ErrAccountNotFound = errors.New("token: account not found")

	// ErrMintMismatch indicates the two accounts hold different mints.
	ErrMintMismatch = errors.New("token: mint mismatch")

	// ErrOwnerMismatch indicates the authority does not own the source account.
	ErrOwnerMismatch = errors.New("token: authority does not own source account")

	// ErrInsufficientFunds indicates the source balance is below the amount.
	ErrInsufficientFunds = errors.New("token: insufficient funds")

	// ErrOverflow indicates a balance would exceed the maximum representable value.
	ErrOverflow = errors.New("token: balance overflow")

	// ErrNilAuthority indicates no authority was supplied for a transfer.
	ErrNilAuthority = errors.New("token: authority is nil")
)
