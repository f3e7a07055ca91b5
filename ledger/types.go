package ledger

import (
	"github.com/google/uuid"

	"github.com/madurogg/libprizepool-go/identity"
)

// Pool is the metadata and running counters of one prize pool.
// There is exactly one Pool per token mint.
type Pool struct {
	Authority         identity.Identity // may call Distribute, Withdraw, TransferAuthority
	PendingAuthority  identity.Identity // proposed successor; zero when none
	TokenMint         identity.Identity // immutable
	Treasury          identity.Identity // treasury account address (= derived authority)
	TotalDistributed  uint64            // lifetime amount paid by Distribute
	DistributionCount uint64            // number of successful Distribute calls
	LastDistribution  int64             // unix seconds; 0 = never
	Bump              uint8             // treasury derivation nonce, fixed at creation
	CreatedAt         int64             // unix seconds
}

// Account is a value-holding account for one mint.
type Account struct {
	Address identity.Identity
	Mint    identity.Identity
	Owner   identity.Identity // the only identity that may debit the account
	Amount  uint64
}

// Player is the optional per-wallet game record.
type Player struct {
	Wallet       identity.Identity
	Username     string
	Score        uint64
	Kills        uint64
	GamesPlayed  uint64
	TotalRewards uint64
	RegisteredAt int64 // unix seconds
}

// Payout is one slot of a distribution batch. Amount 0 means the slot was skipped.
type Payout struct {
	Index     int
	Recipient identity.Identity
	Amount    uint64
}

// Receipt records one successful distribution.
type Receipt struct {
	ID        uuid.UUID
	TokenMint identity.Identity
	Sequence  uint64 // equals Pool.DistributionCount after the call
	Authority identity.Identity
	Payouts   []Payout
	Total     uint64
	Timestamp int64 // unix seconds
}

func (r *Receipt) clone() *Receipt {
	c := *r
	c.Payouts = append([]Payout(nil), r.Payouts...)
	return &c
}
