package wallet

import "errors"

var (
	// ErrInvalidMnemonic indicates the mnemonic fails BIP39 validation.
	ErrInvalidMnemonic = errors.New("wallet: invalid BIP39 mnemonic")

	// ErrInvalidEntropy indicates entropy bits is not 128 or 256.
	ErrInvalidEntropy = errors.New("wallet: entropy bits must be 128 or 256")

	// ErrInvalidSeed indicates the seed is empty.
	ErrInvalidSeed = errors.New("wallet: invalid seed")

	// ErrDecryptionFailed indicates a wrong password or corrupted seed file.
	ErrDecryptionFailed = errors.New("wallet: seed decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates the decrypted seed failed its checksum.
	ErrChecksumMismatch = errors.New("wallet: seed checksum mismatch")

	// ErrInvalidNetwork indicates an unknown network name.
	ErrInvalidNetwork = errors.New("wallet: invalid network name")

	// ErrDerivationFailed indicates BIP32 key derivation failed.
	ErrDerivationFailed = errors.New("wallet: key derivation failed")

	// ErrIndexOutOfRange indicates an operator index at or above the hardened boundary.
	ErrIndexOutOfRange = errors.New("wallet: operator index exceeds maximum (2^31-1)")

	// ErrOperatorNotFound indicates the named operator does not exist.
	ErrOperatorNotFound = errors.New("wallet: operator not found")

	// ErrOperatorExists indicates the operator name is already taken.
	ErrOperatorExists = errors.New("wallet: operator already exists")

	// ErrSeedNotFound indicates no encrypted seed file exists yet.
	ErrSeedNotFound = errors.New("wallet: seed file not found")
)
