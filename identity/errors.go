package identity

import "errors"

var (
	// ErrInvalidIdentity indicates the identity is not 32 bytes of valid hex.
	ErrInvalidIdentity = errors.New("identity: invalid identity")

	// ErrInvalidSignature indicates a request signature failed verification.
	ErrInvalidSignature = errors.New("identity: invalid signature")

	// ErrInvalidPublicKey indicates the request carries a malformed public key.
	ErrInvalidPublicKey = errors.New("identity: invalid public key")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("identity: required parameter is nil")
)
