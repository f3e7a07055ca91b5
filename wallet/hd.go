package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"

	"github.com/madurogg/libprizepool-go/identity"
)

const (
	// BIP44 path constants.
	PurposeBIP44 = 44
	CoinType     = 501
	ChainIndex   = 0
	AddressIndex = 0

	// Hardened is the BIP32 hardened child offset.
	Hardened = 0x80000000

	// MaxOperatorIndex is the largest account index that can be hardened.
	MaxOperatorIndex = Hardened - 1
)

// Wallet derives operator keys from a BIP39 seed.
type Wallet struct {
	masterKey *bip32.ExtendedKey
	network   *Network
}

// KeyPair is a derived operator key and the identity it signs as.
type KeyPair struct {
	PrivateKey *ec.PrivateKey    `json:"-"`
	PublicKey  *ec.PublicKey     `json:"public_key"`
	Identity   identity.Identity `json:"identity"`
	Path       string            `json:"path"`
}

// NewWallet creates a wallet from seed. A nil network means MainNet.
func NewWallet(seed []byte, network *Network) (*Wallet, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	if network == nil {
		network = &MainNet
	}
	masterKey, err := bip32.NewMaster(seed, network.chainParams())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Wallet{masterKey: masterKey, network: network}, nil
}

// Network returns the wallet's network.
func (w *Wallet) Network() *Network {
	return w.network
}

// DeriveOperatorKey derives the operator key at m/44'/501'/index'/0/0.
func (w *Wallet) DeriveOperatorKey(index uint32) (*KeyPair, error) {
	if index > MaxOperatorIndex {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}

	path := []struct {
		child uint32
		level string
	}{
		{PurposeBIP44 + Hardened, "purpose"},
		{CoinType + Hardened, "coin type"},
		{index + Hardened, "account"},
		{ChainIndex, "chain"},
		{AddressIndex, "address"},
	}

	key := w.masterKey
	for _, step := range path {
		next, err := key.Child(step.child)
		if err != nil {
			return nil, fmt.Errorf("%w: %s derivation: %w", ErrDerivationFailed, step.level, err)
		}
		key = next
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: extract EC private key: %w", ErrDerivationFailed, err)
	}
	pub := priv.PubKey()
	id, err := identity.FromPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &KeyPair{
		PrivateKey: priv,
		PublicKey:  pub,
		Identity:   id,
		Path:       fmt.Sprintf("m/%d'/%d'/%d'/%d/%d", PurposeBIP44, CoinType, index, ChainIndex, AddressIndex),
	}, nil
}
