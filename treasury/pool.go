package treasury

import (
	"context"
	"errors"
	"fmt"

	"github.com/madurogg/libprizepool-go/derive"
	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/token"
)

// CreatePool creates the pool for mint with caller as its authority, and opens
// the treasury account at the derived address. The treasury account is owned by
// that same derived address.
func (e *Engine) CreatePool(ctx context.Context, caller, mint identity.Identity) (*ledger.Pool, error) {
	if caller.IsZero() {
		return nil, fmt.Errorf("%w: zero caller", ErrInvalidAuthority)
	}
	vault, bump, err := derive.FindAddress(e.program, derive.TreasurySeeds(mint))
	if err != nil {
		return nil, fmt.Errorf("treasury: derive authority: %w", err)
	}

	var created *ledger.Pool
	err = e.run(ctx, OpCreatePool, func(tx ledger.Tx) error {
		if _, err := tx.GetPool(mint); err == nil {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, mint.Short())
		} else if !errors.Is(err, ledger.ErrPoolNotFound) {
			return err
		}

		if _, err := token.OpenAccount(tx, vault, mint, vault); err != nil {
			if errors.Is(err, token.ErrAccountExists) {
				return fmt.Errorf("%w: treasury account %s", ErrAlreadyExists, vault.Short())
			}
			return err
		}

		created = &ledger.Pool{
			Authority: caller,
			TokenMint: mint,
			Treasury:  vault,
			Bump:      bump,
			CreatedAt: e.now().Unix(),
		}
		return tx.PutPool(created)
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("pool created",
		"mint", mint.String(),
		"authority", caller.String(),
		"treasury", vault.String(),
		"bump", bump,
	)
	return created, nil
}

// Deposit moves amount from the caller's account into the treasury. Anyone may
// deposit; no pool counters change.
func (e *Engine) Deposit(ctx context.Context, caller, mint, from identity.Identity, amount uint64) error {
	err := e.run(ctx, OpDeposit, func(tx ledger.Tx) error {
		if amount == 0 {
			return ErrZeroAmount
		}
		pool, err := loadPool(tx, mint)
		if err != nil {
			return err
		}
		if err := token.Transfer(tx, e.program, from, pool.Treasury, amount, token.Caller(caller)); err != nil {
			return fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info("deposit", "mint", mint.Short(), "from", from.Short(), "amount", amount)
	return nil
}

// Pool returns the current pool record for mint.
func (e *Engine) Pool(ctx context.Context, mint identity.Identity) (*ledger.Pool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var pool *ledger.Pool
	err := e.store.View(func(tx ledger.Tx) error {
		var err error
		pool, err = loadPool(tx, mint)
		return err
	})
	return pool, err
}

// TreasuryBalance returns the amount held by the treasury of mint.
func (e *Engine) TreasuryBalance(ctx context.Context, mint identity.Identity) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var balance uint64
	err := e.store.View(func(tx ledger.Tx) error {
		pool, err := loadPool(tx, mint)
		if err != nil {
			return err
		}
		balance, err = token.Balance(tx, pool.Treasury)
		return err
	})
	return balance, err
}

// History returns up to limit distribution receipts for mint, newest first.
func (e *Engine) History(ctx context.Context, mint identity.Identity, limit int) ([]*ledger.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var receipts []*ledger.Receipt
	err := e.store.View(func(tx ledger.Tx) error {
		if _, err := loadPool(tx, mint); err != nil {
			return err
		}
		var err error
		receipts, err = tx.ListReceipts(mint, limit)
		return err
	})
	return receipts, err
}

// TreasuryAddress returns the derived treasury address and nonce for mint
// without touching the store.
func (e *Engine) TreasuryAddress(mint identity.Identity) (identity.Identity, uint8, error) {
	return derive.FindAddress(e.program, derive.TreasurySeeds(mint))
}

// PoolAddress returns the derived address that names the pool record of mint.
func (e *Engine) PoolAddress(mint identity.Identity) (identity.Identity, error) {
	addr, _, err := derive.FindAddress(e.program, derive.PoolSeeds(mint))
	return addr, err
}
