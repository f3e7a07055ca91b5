package treasury

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/google/uuid"

	"github.com/madurogg/libprizepool-go/derive"
	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/token"
)

// Distribute pays amounts[i] from the treasury of mint to recipients[i].
//
// Preconditions are checked in order: caller is the authority, the batch holds
// at most MaxBatch entries, and both lists have the same length. Zero amounts
// are skipped; a nonzero amount to the treasury itself is rejected, since the
// transfer would move nothing while the counters advanced. The pool counters advance only when every transfer succeeds, and
// the returned receipt is stored in the same transaction.
func (e *Engine) Distribute(ctx context.Context, caller, mint identity.Identity, amounts []uint64, recipients []identity.Identity) (*ledger.Receipt, error) {
	var receipt *ledger.Receipt
	err := e.run(ctx, OpDistribute, func(tx ledger.Tx) error {
		pool, err := loadPool(tx, mint)
		if err != nil {
			return err
		}
		if err := requireAuthority(pool, caller); err != nil {
			return err
		}
		if len(amounts) > e.maxRecipients {
			return fmt.Errorf("%w: %d entries, max %d", ErrTooManyRecipients, len(amounts), e.maxRecipients)
		}
		if len(amounts) != len(recipients) {
			return fmt.Errorf("%w: %d amounts, %d recipients", ErrRecipientMismatch, len(amounts), len(recipients))
		}

		signer := derive.TreasurySigner(mint, pool.Bump)
		payouts := make([]ledger.Payout, len(amounts))
		var total uint64
		for i, amount := range amounts {
			payouts[i] = ledger.Payout{Index: i, Recipient: recipients[i], Amount: amount}
			if amount == 0 {
				continue
			}
			if recipients[i] == pool.Treasury {
				return fmt.Errorf("%w: entry %d", ErrTreasuryRecipient, i)
			}
			if err := token.Transfer(tx, e.program, pool.Treasury, recipients[i], amount, signer); err != nil {
				return fmt.Errorf("%w: entry %d: %w", ErrTransferFailed, i, err)
			}
			var carry uint64
			total, carry = bits.Add64(total, amount, 0)
			if carry != 0 {
				return fmt.Errorf("%w: batch total", ErrOverflow)
			}
		}

		if err := advanceCounters(pool, total, e.now().Unix()); err != nil {
			return err
		}
		if err := tx.PutPool(pool); err != nil {
			return err
		}

		receipt = &ledger.Receipt{
			ID:        uuid.New(),
			TokenMint: mint,
			Sequence:  pool.DistributionCount,
			Authority: caller,
			Payouts:   payouts,
			Total:     total,
			Timestamp: pool.LastDistribution,
		}
		return tx.AppendReceipt(receipt)
	})
	if err != nil {
		return nil, err
	}

	e.observer.Distributed(mint, receipt.Total)
	e.log.Info("distribution complete",
		"mint", mint.Short(),
		"receipt", receipt.ID.String(),
		"sequence", receipt.Sequence,
		"recipients", len(recipients),
		"total", receipt.Total,
	)
	return receipt, nil
}

// advanceCounters applies a successful distribution to pool. It changes
// nothing when either counter would overflow.
func advanceCounters(pool *ledger.Pool, total uint64, now int64) error {
	distributed, carry := bits.Add64(pool.TotalDistributed, total, 0)
	if carry != 0 {
		return fmt.Errorf("%w: total distributed", ErrOverflow)
	}
	count, carry := bits.Add64(pool.DistributionCount, 1, 0)
	if carry != 0 {
		return fmt.Errorf("%w: distribution count", ErrOverflow)
	}
	pool.TotalDistributed = distributed
	pool.DistributionCount = count
	pool.LastDistribution = now
	return nil
}
