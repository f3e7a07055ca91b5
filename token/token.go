// Package token implements the account ledger that pools pay out of.
//
// Every account belongs to one mint and has one owner. Only the owner can debit
// it, and an owner proves itself through an Authority: either a verified human
// caller or a derive.Signer whose seeds and nonce reproduce the owner address.
package token

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/madurogg/libprizepool-go/derive"
	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
)

// Authority proves ownership of a source account for one program.
type Authority interface {
	Resolve(program identity.Identity) (identity.Identity, error)
}

// Caller is an Authority for an identity whose signature has already been
// verified by the transport.
type Caller identity.Identity

// Resolve returns the caller identity unchanged.
func (c Caller) Resolve(identity.Identity) (identity.Identity, error) {
	return identity.Identity(c), nil
}

var (
	_ Authority = Caller{}
	_ Authority = derive.Signer{}
)

// AssociatedAddress returns the canonical account address of owner for mint.
func AssociatedAddress(program, owner, mint identity.Identity) (identity.Identity, error) {
	addr, _, err := derive.FindAddress(program, [][]byte{
		[]byte(derive.SeedAssociated), owner.Bytes(), mint.Bytes(),
	})
	if err != nil {
		return identity.Zero, fmt.Errorf("token: associated address: %w", err)
	}
	return addr, nil
}

// OpenAccount creates an empty account at address.
func OpenAccount(tx ledger.Tx, address, mint, owner identity.Identity) (*ledger.Account, error) {
	if _, err := tx.GetAccount(address); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountExists, address.Short())
	} else if !errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, err
	}
	acct := &ledger.Account{Address: address, Mint: mint, Owner: owner}
	if err := tx.PutAccount(acct); err != nil {
		return nil, err
	}
	return acct, nil
}

// Balance returns the amount held at address.
func Balance(tx ledger.Tx, address identity.Identity) (uint64, error) {
	acct, err := getAccount(tx, address)
	if err != nil {
		return 0, err
	}
	return acct.Amount, nil
}

// MintTo creates new supply in the account at address.
func MintTo(tx ledger.Tx, address identity.Identity, amount uint64) error {
	acct, err := getAccount(tx, address)
	if err != nil {
		return err
	}
	sum, carry := bits.Add64(acct.Amount, amount, 0)
	if carry != 0 {
		return fmt.Errorf("%w: %s", ErrOverflow, address.Short())
	}
	acct.Amount = sum
	return tx.PutAccount(acct)
}

// Transfer moves amount from one account to another. Both writes happen in tx,
// so they commit or roll back together with the rest of the caller's work.
// A zero amount is allowed and changes nothing.
func Transfer(tx ledger.Tx, program, from, to identity.Identity, amount uint64, auth Authority) error {
	if auth == nil {
		return ErrNilAuthority
	}
	src, err := getAccount(tx, from)
	if err != nil {
		return err
	}
	dst, err := getAccount(tx, to)
	if err != nil {
		return err
	}
	if src.Mint != dst.Mint {
		return fmt.Errorf("%w: %s != %s", ErrMintMismatch, src.Mint.Short(), dst.Mint.Short())
	}

	signer, err := auth.Resolve(program)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOwnerMismatch, err)
	}
	if signer != src.Owner {
		return fmt.Errorf("%w: %s", ErrOwnerMismatch, signer.Short())
	}

	if src.Amount < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, src.Amount, amount)
	}
	if from == to {
		return nil
	}
	sum, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return fmt.Errorf("%w: %s", ErrOverflow, to.Short())
	}

	src.Amount -= amount
	dst.Amount = sum
	if err := tx.PutAccount(src); err != nil {
		return err
	}
	return tx.PutAccount(dst)
}

func getAccount(tx ledger.Tx, address identity.Identity) (*ledger.Account, error) {
	acct, err := tx.GetAccount(address)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address.Short())
	}
	return acct, err
}
