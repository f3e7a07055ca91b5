package payout

import (
	"github.com/madurogg/libprizepool-go/identity"
)

// Standing is one leaderboard position. Account is the token account that
// receives the reward; zero means the player has no account yet. Holding is
// the balance of Account, checked against Policy.MinHolding.
type Standing struct {
	Username string            `json:"username"`
	Wallet   identity.Identity `json:"wallet"`
	Account  identity.Identity `json:"account"`
	Score    uint64            `json:"score"`
	Holding  uint64            `json:"holding"`
}

// Policy bounds one reward round.
type Policy struct {
	MaxRoundBasisPoints uint64 // share of the treasury paid per round, 1..10000
	MaxRoundFixed       uint64 // absolute cap on a round; 0 = no cap
	MinHolding          uint64 // smallest Holding that may win; 0 = everyone
	DustThreshold       uint64 // rewards below this are not paid
	MinPlayers          int    // fewer active players pays nothing
}

// Batch is a distribution ready for treasury.Engine.Distribute. Amounts and
// Recipients are positionally paired.
type Batch struct {
	Amounts    []uint64
	Recipients []identity.Identity
	Round      uint64 // amount budgeted for the round
	Percents   []uint64
}

// Total returns the sum of Amounts. For a planned batch it never exceeds Round.
func (b *Batch) Total() uint64 {
	var total uint64
	for _, a := range b.Amounts {
		total += a
	}
	return total
}
