package treasury

import (
	"context"
	"fmt"

	"github.com/madurogg/libprizepool-go/derive"
	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/token"
)

// Withdraw moves amount from the treasury of mint to destination. Only the
// authority may withdraw; no pool counters change.
func (e *Engine) Withdraw(ctx context.Context, caller, mint identity.Identity, amount uint64, destination identity.Identity) error {
	err := e.run(ctx, OpWithdraw, func(tx ledger.Tx) error {
		pool, err := loadPool(tx, mint)
		if err != nil {
			return err
		}
		if err := requireAuthority(pool, caller); err != nil {
			return err
		}
		signer := derive.TreasurySigner(mint, pool.Bump)
		if err := token.Transfer(tx, e.program, pool.Treasury, destination, amount, signer); err != nil {
			return fmt.Errorf("%w: %w", ErrTransferFailed, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.log.Info("withdrawal", "mint", mint.Short(), "destination", destination.Short(), "amount", amount)
	return nil
}

// TransferAuthority replaces the pool authority immediately. The old authority
// loses all privileges when this returns. Any pending proposal is cleared.
func (e *Engine) TransferAuthority(ctx context.Context, caller, mint, newAuthority identity.Identity) error {
	return e.setAuthority(ctx, OpTransferAuthority, caller, mint, func(pool *ledger.Pool) error {
		if newAuthority.IsZero() {
			return fmt.Errorf("%w: zero identity", ErrInvalidAuthority)
		}
		pool.Authority = newAuthority
		pool.PendingAuthority = identity.Zero
		return nil
	})
}

// ProposeAuthority records candidate as the pending authority. Nothing changes
// until the candidate calls AcceptAuthority. Proposing the zero identity
// cancels an outstanding proposal.
func (e *Engine) ProposeAuthority(ctx context.Context, caller, mint, candidate identity.Identity) error {
	return e.setAuthority(ctx, OpProposeAuthority, caller, mint, func(pool *ledger.Pool) error {
		pool.PendingAuthority = candidate
		return nil
	})
}

// AcceptAuthority completes a handoff started by ProposeAuthority. The caller
// must be the pending authority.
func (e *Engine) AcceptAuthority(ctx context.Context, caller, mint identity.Identity) error {
	return e.run(ctx, OpAcceptAuthority, func(tx ledger.Tx) error {
		pool, err := loadPool(tx, mint)
		if err != nil {
			return err
		}
		if pool.PendingAuthority.IsZero() {
			return fmt.Errorf("%w: %s", ErrNoPendingAuthority, mint.Short())
		}
		if caller != pool.PendingAuthority {
			return fmt.Errorf("%w: %s is not the pending authority", ErrUnauthorized, caller.Short())
		}
		prev := pool.Authority
		pool.Authority = caller
		pool.PendingAuthority = identity.Zero
		if err := tx.PutPool(pool); err != nil {
			return err
		}
		e.log.Info("authority accepted", "mint", mint.Short(), "from", prev.Short(), "to", caller.Short())
		return nil
	})
}

func (e *Engine) setAuthority(ctx context.Context, op string, caller, mint identity.Identity, apply func(*ledger.Pool) error) error {
	return e.run(ctx, op, func(tx ledger.Tx) error {
		pool, err := loadPool(tx, mint)
		if err != nil {
			return err
		}
		if err := requireAuthority(pool, caller); err != nil {
			return err
		}
		if err := apply(pool); err != nil {
			return err
		}
		if err := tx.PutPool(pool); err != nil {
			return err
		}
		e.log.Info("authority updated", "op", op, "mint", mint.Short(),
			"authority", pool.Authority.Short(), "pending", pool.PendingAuthority.Short())
		return nil
	})
}
