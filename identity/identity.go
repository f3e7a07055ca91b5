// Package identity defines the 32-byte identities that own pools, accounts,
// and player records, and the signed requests used to prove control of one.
//
// A key-held identity is the x-coordinate of a compressed secp256k1 public key.
// Derived identities (see package derive) are deliberately chosen so that the
// same 32 bytes are NOT the x-coordinate of any curve point, which means no
// private key for them can exist.
package identity

import (
	"encoding/hex"
	"fmt"
	"strings"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
)

// Size is the length of an Identity in bytes.
const Size = 32

// Identity identifies a key holder or a derived authority.
type Identity [Size]byte

// Zero is the all-zero identity. It never owns anything.
var Zero Identity

// FromPublicKey returns the identity controlled by pub.
func FromPublicKey(pub *ec.PublicKey) (Identity, error) {
	if pub == nil {
		return Zero, fmt.Errorf("%w: public key", ErrNilParam)
	}
	compressed := pub.Compressed()
	if len(compressed) != Size+1 {
		return Zero, fmt.Errorf("%w: compressed key is %d bytes", ErrInvalidPublicKey, len(compressed))
	}
	var id Identity
	copy(id[:], compressed[1:])
	return id, nil
}

// FromBytes copies b into an Identity. b must be exactly 32 bytes.
func FromBytes(b []byte) (Identity, error) {
	if len(b) != Size {
		return Zero, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentity, Size, len(b))
	}
	var id Identity
	copy(id[:], b)
	return id, nil
}

// Parse decodes a hex-encoded identity.
func Parse(s string) (Identity, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	return FromBytes(b)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Identity {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the hex encoding of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns an abbreviated form for log lines, e.g. "0a1b…e9f0".
func (id Identity) Short() string {
	s := id.String()
	return s[:4] + "…" + s[len(s)-4:]
}

// Bytes returns a copy of the identity bytes.
func (id Identity) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, id[:])
	return b
}

// IsZero reports whether id is the zero identity.
func (id Identity) IsZero() bool {
	return id == Zero
}

// OnCurve reports whether id is the x-coordinate of a secp256k1 point, i.e.
// whether a private key controlling it could exist.
func (id Identity) OnCurve() bool {
	buf := make([]byte, Size+1)
	buf[0] = 0x02
	copy(buf[1:], id[:])
	_, err := ec.PublicKeyFromBytes(buf)
	return err == nil
}

// MarshalText implements encoding.TextMarshaler.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
