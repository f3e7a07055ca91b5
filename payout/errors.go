package payout

import "errors"

var (
	// ErrNotEnoughPlayers indicates fewer active players than MinPlayers.
	ErrNotEnoughPlayers = errors.New("payout: not enough players for rewards")

	// ErrEmptyPool indicates there is nothing to distribute this round.
	ErrEmptyPool = errors.New("payout: pool is empty")

	// ErrInvalidPolicy indicates a policy value is out of range.
	ErrInvalidPolicy = errors.New("payout: invalid policy")

	// ErrPlanMismatch indicates a batch differs from the one Plan would produce.
	ErrPlanMismatch = errors.New("payout: batch does not match plan")
)
