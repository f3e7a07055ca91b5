package derive

import (
	"github.com/madurogg/libprizepool-go/identity"
)

// Signer authorizes a transfer on behalf of a derived address. It carries the
// inputs, not the address: the address is recomputed on every Resolve.
type Signer struct {
	Seeds [][]byte
	Nonce uint8
}

// TreasurySigner returns the signer for the treasury of mint, using the nonce
// stored on the pool record.
func TreasurySigner(mint identity.Identity, nonce uint8) Signer {
	return Signer{Seeds: TreasurySeeds(mint), Nonce: nonce}
}

// Resolve recomputes the signing identity for program. A nonce that does not
// match the one used at creation yields ErrOnCurve or a different identity.
func (s Signer) Resolve(program identity.Identity) (identity.Identity, error) {
	return CreateAddress(program, s.Seeds, s.Nonce)
}
