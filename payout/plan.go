// Package payout turns a leaderboard into a distribution batch.
//
// A round pays at most Policy.MaxRoundBasisPoints of the treasury. The round
// is split across the top players by a tier table chosen from the number of
// active players. Rewards are floored, so the remainder stays in the pool.
package payout

import (
	"fmt"
	"math/bits"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/treasury"
)

const (
	// DefaultMaxRoundBasisPoints caps a round at 25% of the treasury.
	DefaultMaxRoundBasisPoints = 2500

	// DefaultDustThreshold is the smallest reward worth a transfer.
	DefaultDustThreshold = 1000

	// MinPlayers is the default number of active players needed for rewards.
	MinPlayers = 2

	basisPoints = 10000
)

// Tier is the reward split for a range of player counts.
type Tier struct {
	MaxPlayers int      // inclusive upper bound; 0 means unbounded
	Percents   []uint64 // per rank, summing to 100
}

// Tiers is ordered by MaxPlayers. The last entry catches every larger game.
var Tiers = []Tier{
	{MaxPlayers: 10, Percents: []uint64{50, 30, 20}},
	{MaxPlayers: 25, Percents: []uint64{35, 25, 18, 12, 10}},
	{MaxPlayers: 0, Percents: []uint64{25, 18, 14, 10, 8, 7, 6, 5, 4, 3}},
}

// DefaultPolicy returns the standard round policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxRoundBasisPoints: DefaultMaxRoundBasisPoints,
		DustThreshold:       DefaultDustThreshold,
		MinPlayers:          MinPlayers,
	}
}

// TierFor returns the reward split for n active players.
func TierFor(n int) Tier {
	for _, t := range Tiers {
		if t.MaxPlayers == 0 || n <= t.MaxPlayers {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}

// Validate checks the policy ranges.
func (p Policy) Validate() error {
	if p.MaxRoundBasisPoints == 0 || p.MaxRoundBasisPoints > basisPoints {
		return fmt.Errorf("%w: round basis points %d", ErrInvalidPolicy, p.MaxRoundBasisPoints)
	}
	if p.MinPlayers < 1 {
		return fmt.Errorf("%w: min players %d", ErrInvalidPolicy, p.MinPlayers)
	}
	return nil
}

// Plan builds the batch for one round. leaderboard is ranked best first and
// counts every active player, including those without an account.
//
// Players without an account, players holding less than the policy minimum,
// and rewards below the dust threshold keep their slot with a zero amount,
// which Distribute skips. Their share stays in the treasury.
func Plan(balance uint64, leaderboard []Standing, policy Policy) (*Batch, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if len(leaderboard) < policy.MinPlayers {
		return nil, fmt.Errorf("%w: %d < %d", ErrNotEnoughPlayers, len(leaderboard), policy.MinPlayers)
	}
	round := mulDiv(balance, policy.MaxRoundBasisPoints, basisPoints)
	if policy.MaxRoundFixed > 0 {
		round = min(round, policy.MaxRoundFixed)
	}
	if round == 0 {
		return nil, ErrEmptyPool
	}

	tier := TierFor(len(leaderboard))
	n := min(len(tier.Percents), len(leaderboard))
	batch := &Batch{
		Amounts:    make([]uint64, n),
		Recipients: make([]identity.Identity, n),
		Round:      round,
		Percents:   tier.Percents[:n],
	}
	for i := 0; i < n; i++ {
		s := leaderboard[i]
		batch.Recipients[i] = s.Account
		if s.Account.IsZero() || s.Holding < policy.MinHolding {
			continue
		}
		amount := mulDiv(round, tier.Percents[i], 100)
		if amount < policy.DustThreshold {
			continue
		}
		batch.Amounts[i] = amount
	}
	return batch, nil
}

// ValidateBatch applies the engine's shape checks before a batch is submitted.
func ValidateBatch(b *Batch) error {
	if len(b.Amounts) > treasury.MaxRecipients {
		return fmt.Errorf("%w: %d entries, max %d", treasury.ErrTooManyRecipients, len(b.Amounts), treasury.MaxRecipients)
	}
	if len(b.Amounts) != len(b.Recipients) {
		return fmt.Errorf("%w: %d amounts, %d recipients", treasury.ErrRecipientMismatch, len(b.Amounts), len(b.Recipients))
	}
	return nil
}

// Verify checks that b is exactly the batch Plan produces for the inputs.
func Verify(b *Batch, balance uint64, leaderboard []Standing, policy Policy) error {
	if err := ValidateBatch(b); err != nil {
		return err
	}
	expected, err := Plan(balance, leaderboard, policy)
	if err != nil {
		return err
	}
	if len(b.Amounts) != len(expected.Amounts) {
		return fmt.Errorf("%w: %d entries, expected %d", ErrPlanMismatch, len(b.Amounts), len(expected.Amounts))
	}
	for i := range b.Amounts {
		if b.Recipients[i] != expected.Recipients[i] {
			return fmt.Errorf("%w: entry %d recipient", ErrPlanMismatch, i)
		}
		if b.Amounts[i] != expected.Amounts[i] {
			return fmt.Errorf("%w: entry %d amount %d != expected %d", ErrPlanMismatch, i, b.Amounts[i], expected.Amounts[i])
		}
	}
	return nil
}

// mulDiv returns floor(a*b/d) without intermediate overflow. b must not
// exceed d, so the quotient fits in 64 bits.
func mulDiv(a, b, d uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, d)
	return q
}
