package identity

import (
	"encoding/binary"
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// SignedRequest binds an operation and its payload to the key that sent it.
// The engine never sees a SignedRequest; callers verify it first and pass on
// only the resulting Identity.
type SignedRequest struct {
	Op        string // operation name, e.g. "distribute"
	Payload   []byte // canonical operation arguments
	Nonce     uint64 // caller-chosen, distinguishes otherwise identical requests
	PubKey    []byte // 33-byte compressed public key
	Signature []byte // DER-encoded ECDSA signature over Digest()
}

// Digest returns SHA256(op || 0x00 || nonce(8, big-endian) || payload).
func (r *SignedRequest) Digest() []byte {
	buf := make([]byte, 0, len(r.Op)+1+8+len(r.Payload))
	buf = append(buf, r.Op...)
	buf = append(buf, 0x00)
	buf = binary.BigEndian.AppendUint64(buf, r.Nonce)
	buf = append(buf, r.Payload...)
	return bsvhash.Sha256(buf)
}

// Sign creates a SignedRequest for op/payload using priv.
func Sign(priv *ec.PrivateKey, op string, payload []byte, nonce uint64) (*SignedRequest, error) {
	if priv == nil {
		return nil, fmt.Errorf("%w: private key", ErrNilParam)
	}
	req := &SignedRequest{
		Op:      op,
		Payload: payload,
		Nonce:   nonce,
		PubKey:  priv.PubKey().Compressed(),
	}
	sig, err := priv.Sign(req.Digest())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	req.Signature = sig.Serialize()
	return req, nil
}

// Verify checks the request signature and returns the identity that signed it.
func Verify(req *SignedRequest) (Identity, error) {
	if req == nil {
		return Zero, fmt.Errorf("%w: request", ErrNilParam)
	}
	pub, err := ec.PublicKeyFromBytes(req.PubKey)
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}
	sig, err := ec.ParseSignature(req.Signature)
	if err != nil {
		return Zero, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if !sig.Verify(req.Digest(), pub) {
		return Zero, ErrInvalidSignature
	}
	return FromPublicKey(pub)
}
