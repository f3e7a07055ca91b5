package token

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madurogg/libprizepool-go/derive"
	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
)

func testID(seed byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = seed
	}
	return id
}

var (
	program = testID(0xF0)
	mint    = testID(0x11)
	alice   = testID(0xA1)
	bob     = testID(0xB0)
)

// setup opens accounts for alice and bob, funding alice with 1000.
func setup(t *testing.T) (ledger.Store, identity.Identity, identity.Identity) {
	t.Helper()
	store := ledger.NewMemStore()
	aliceAcct, err := AssociatedAddress(program, alice, mint)
	require.NoError(t, err)
	bobAcct, err := AssociatedAddress(program, bob, mint)
	require.NoError(t, err)

	require.NoError(t, store.Update(func(tx ledger.Tx) error {
		if _, err := OpenAccount(tx, aliceAcct, mint, alice); err != nil {
			return err
		}
		if _, err := OpenAccount(tx, bobAcct, mint, bob); err != nil {
			return err
		}
		return MintTo(tx, aliceAcct, 1000)
	}))
	return store, aliceAcct, bobAcct
}

func balances(t *testing.T, store ledger.Store, addrs ...identity.Identity) []uint64 {
	t.Helper()
	out := make([]uint64, len(addrs))
	require.NoError(t, store.View(func(tx ledger.Tx) error {
		for i, a := range addrs {
			b, err := Balance(tx, a)
			if err != nil {
				return err
			}
			out[i] = b
		}
		return nil
	}))
	return out
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

func TestAssociatedAddress(t *testing.T) {
	a1, err := AssociatedAddress(program, alice, mint)
	require.NoError(t, err)
	a2, err := AssociatedAddress(program, alice, mint)
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.False(t, a1.OnCurve())

	b, err := AssociatedAddress(program, bob, mint)
	require.NoError(t, err)
	assert.NotEqual(t, a1, b)

	other, err := AssociatedAddress(program, alice, testID(0x22))
	require.NoError(t, err)
	assert.NotEqual(t, a1, other)
}

func TestOpenAccount_Duplicate(t *testing.T) {
	store, aliceAcct, _ := setup(t)
	err := store.Update(func(tx ledger.Tx) error {
		_, err := OpenAccount(tx, aliceAcct, mint, alice)
		return err
	})
	assert.ErrorIs(t, err, ErrAccountExists)
	assert.Equal(t, []uint64{1000}, balances(t, store, aliceAcct))
}

func TestMintTo_Overflow(t *testing.T) {
	store, aliceAcct, _ := setup(t)
	err := store.Update(func(tx ledger.Tx) error {
		return MintTo(tx, aliceAcct, math.MaxUint64)
	})
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, []uint64{1000}, balances(t, store, aliceAcct))
}

func TestBalance_Missing(t *testing.T) {
	store := ledger.NewMemStore()
	err := store.View(func(tx ledger.Tx) error {
		_, err := Balance(tx, testID(1))
		return err
	})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

// ---------------------------------------------------------------------------
// Transfer
// ---------------------------------------------------------------------------

func TestTransfer_Success(t *testing.T) {
	store, aliceAcct, bobAcct := setup(t)
	require.NoError(t, store.Update(func(tx ledger.Tx) error {
		return Transfer(tx, program, aliceAcct, bobAcct, 400, Caller(alice))
	}))
	assert.Equal(t, []uint64{600, 400}, balances(t, store, aliceAcct, bobAcct))
}

func TestTransfer_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(tx ledger.Tx) error
		from    func(a, b identity.Identity) identity.Identity
		to      func(a, b identity.Identity) identity.Identity
		amount  uint64
		auth    Authority
		wantErr error
	}{
		{
			name:    "wrong owner",
			from:    func(a, _ identity.Identity) identity.Identity { return a },
			to:      func(_, b identity.Identity) identity.Identity { return b },
			amount:  1,
			auth:    Caller(bob),
			wantErr: ErrOwnerMismatch,
		},
		{
			name:    "insufficient funds",
			from:    func(a, _ identity.Identity) identity.Identity { return a },
			to:      func(_, b identity.Identity) identity.Identity { return b },
			amount:  1001,
			auth:    Caller(alice),
			wantErr: ErrInsufficientFunds,
		},
		{
			name:    "missing destination",
			from:    func(a, _ identity.Identity) identity.Identity { return a },
			to:      func(_, _ identity.Identity) identity.Identity { return testID(0x99) },
			amount:  1,
			auth:    Caller(alice),
			wantErr: ErrAccountNotFound,
		},
		{
			name:    "nil authority",
			from:    func(a, _ identity.Identity) identity.Identity { return a },
			to:      func(_, b identity.Identity) identity.Identity { return b },
			amount:  1,
			auth:    nil,
			wantErr: ErrNilAuthority,
		},
		{
			name: "destination overflow",
			prepare: func(tx ledger.Tx) error {
				bobAcct, _ := AssociatedAddress(program, bob, mint)
				return MintTo(tx, bobAcct, math.MaxUint64)
			},
			from:    func(a, _ identity.Identity) identity.Identity { return a },
			to:      func(_, b identity.Identity) identity.Identity { return b },
			amount:  1,
			auth:    Caller(alice),
			wantErr: ErrOverflow,
		},
		{
			name: "mint mismatch",
			prepare: func(tx ledger.Tx) error {
				_, err := OpenAccount(tx, testID(0x55), testID(0x22), bob)
				return err
			},
			from:    func(a, _ identity.Identity) identity.Identity { return a },
			to:      func(_, _ identity.Identity) identity.Identity { return testID(0x55) },
			amount:  1,
			auth:    Caller(alice),
			wantErr: ErrMintMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, aliceAcct, bobAcct := setup(t)
			if tt.prepare != nil {
				require.NoError(t, store.Update(tt.prepare))
			}
			before := balances(t, store, aliceAcct, bobAcct)

			err := store.Update(func(tx ledger.Tx) error {
				return Transfer(tx, program, tt.from(aliceAcct, bobAcct), tt.to(aliceAcct, bobAcct), tt.amount, tt.auth)
			})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, balances(t, store, aliceAcct, bobAcct))
		})
	}
}

func TestTransfer_DerivedSigner(t *testing.T) {
	store, _, bobAcct := setup(t)
	vault, nonce, err := derive.FindAddress(program, derive.TreasurySeeds(mint))
	require.NoError(t, err)

	require.NoError(t, store.Update(func(tx ledger.Tx) error {
		if _, err := OpenAccount(tx, vault, mint, vault); err != nil {
			return err
		}
		return MintTo(tx, vault, 50)
	}))

	// The right seeds and nonce sign for the vault.
	require.NoError(t, store.Update(func(tx ledger.Tx) error {
		return Transfer(tx, program, vault, bobAcct, 20, derive.TreasurySigner(mint, nonce))
	}))
	assert.Equal(t, []uint64{30, 20}, balances(t, store, vault, bobAcct))

	// Any other nonce fails closed.
	err = store.Update(func(tx ledger.Tx) error {
		return Transfer(tx, program, vault, bobAcct, 20, derive.TreasurySigner(mint, nonce-1))
	})
	assert.ErrorIs(t, err, ErrOwnerMismatch)

	// So does the right nonce under a different program.
	err = store.Update(func(tx ledger.Tx) error {
		return Transfer(tx, testID(0x01), vault, bobAcct, 20, derive.TreasurySigner(mint, nonce))
	})
	assert.ErrorIs(t, err, ErrOwnerMismatch)
	assert.Equal(t, []uint64{30, 20}, balances(t, store, vault, bobAcct))
}

func TestTransfer_RollbackWithCaller(t *testing.T) {
	store, aliceAcct, bobAcct := setup(t)
	boom := errors.New("later step failed")
	err := store.Update(func(tx ledger.Tx) error {
		if err := Transfer(tx, program, aliceAcct, bobAcct, 300, Caller(alice)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []uint64{1000, 0}, balances(t, store, aliceAcct, bobAcct))
}
