// Package derive computes keyless signing identities.
//
// Derivation formula:
//
//	address = SHA256(seed_0 || ... || seed_n || nonce || program || "DerivedAuthority")
//
// An address is only accepted when it is NOT the x-coordinate of a secp256k1
// point. Nobody can hold a private key for such an address; the only way to
// "sign" for it is to present the seeds and nonce that reproduce it, which the
// token ledger checks on every transfer.
package derive

import (
	"crypto/sha256"
	"fmt"

	"github.com/madurogg/libprizepool-go/identity"
)

const (
	// Marker is appended to every derivation preimage.
	Marker = "DerivedAuthority"

	// MaxSeeds is the maximum number of seeds per derivation.
	MaxSeeds = 16

	// MaxSeedLen is the maximum length of a single seed in bytes.
	MaxSeedLen = 32

	// SeedTreasury is the namespace tag for pool treasury authorities.
	SeedTreasury = "treasury"

	// SeedPrizePool is the namespace tag for pool record addresses.
	SeedPrizePool = "prize_pool"

	// SeedAssociated is the namespace tag for associated token accounts.
	SeedAssociated = "associated"
)

// CreateAddress derives the address for (program, seeds, nonce).
// Returns ErrOnCurve when the result could be controlled by a private key.
func CreateAddress(program identity.Identity, seeds [][]byte, nonce uint8) (identity.Identity, error) {
	if err := checkSeeds(seeds); err != nil {
		return identity.Zero, err
	}

	h := sha256.New()
	for _, s := range seeds {
		h.Write(s)
	}
	h.Write([]byte{nonce})
	h.Write(program[:])
	h.Write([]byte(Marker))

	var addr identity.Identity
	copy(addr[:], h.Sum(nil))
	if addr.OnCurve() {
		return identity.Zero, ErrOnCurve
	}
	return addr, nil
}

// FindAddress scans nonces from 255 down to 0 and returns the first off-curve
// address together with the nonce that produced it. Callers persist the nonce
// and use CreateAddress (via Signer) from then on.
func FindAddress(program identity.Identity, seeds [][]byte) (identity.Identity, uint8, error) {
	if err := checkSeeds(seeds); err != nil {
		return identity.Zero, 0, err
	}
	for n := 255; n >= 0; n-- {
		addr, err := CreateAddress(program, seeds, uint8(n))
		if err == nil {
			return addr, uint8(n), nil
		}
	}
	return identity.Zero, 0, ErrNoValidNonce
}

// TreasurySeeds returns the seeds of the treasury authority for a token mint.
func TreasurySeeds(mint identity.Identity) [][]byte {
	return [][]byte{[]byte(SeedTreasury), mint.Bytes()}
}

// PoolSeeds returns the seeds of the pool record address for a token mint.
func PoolSeeds(mint identity.Identity) [][]byte {
	return [][]byte{[]byte(SeedPrizePool), mint.Bytes()}
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return fmt.Errorf("%w: %d > %d", ErrTooManySeeds, len(seeds), MaxSeeds)
	}
	for i, s := range seeds {
		if len(s) > MaxSeedLen {
			return fmt.Errorf("%w: seed %d is %d bytes", ErrSeedTooLong, i, len(s))
		}
	}
	return nil
}
