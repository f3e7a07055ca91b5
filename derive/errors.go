package derive

import "errors"

var (
	// ErrOnCurve indicates the derived bytes form a valid curve point, so a
	// private key for them could exist. Such addresses are never used.
	ErrOnCurve = errors.New("derive: address is on the curve")

	// ErrNoValidNonce indicates no nonce in 0..255 produced an off-curve address.
	ErrNoValidNonce = errors.New("derive: no valid nonce found")

	// ErrSeedTooLong indicates a single seed exceeds MaxSeedLen.
	ErrSeedTooLong = errors.New("derive: seed exceeds maximum length")

	// ErrTooManySeeds indicates more than MaxSeeds seeds were supplied.
	ErrTooManySeeds = errors.New("derive: too many seeds")
)
