package ledger

import (
	"github.com/madurogg/libprizepool-go/identity"
)

// Store is the durable home of pools, accounts, players, and receipts.
//
// Update runs fn in a read-write transaction. Only one Update runs at a time,
// and nothing fn writes becomes visible unless fn returns nil. This is the
// serialization point every privileged operation relies on.
type Store interface {
	// View runs fn in a read-only transaction.
	View(fn func(tx Tx) error) error

	// Update runs fn in an exclusive read-write transaction.
	Update(fn func(tx Tx) error) error

	// Close releases the store.
	Close() error
}

// Tx is the record access available inside a transaction. Getters return
// copies; changes are made by calling the matching Put.
type Tx interface {
	// GetPool returns the pool for mint or ErrPoolNotFound.
	GetPool(mint identity.Identity) (*Pool, error)

	// PutPool creates or replaces a pool.
	PutPool(pool *Pool) error

	// GetAccount returns the account at addr or ErrAccountNotFound.
	GetAccount(addr identity.Identity) (*Account, error)

	// PutAccount creates or replaces an account.
	PutAccount(acct *Account) error

	// GetPlayer returns the player record for wallet or ErrPlayerNotFound.
	GetPlayer(wallet identity.Identity) (*Player, error)

	// PutPlayer creates or replaces a player record.
	PutPlayer(player *Player) error

	// ListPlayers returns all player records in wallet order.
	ListPlayers() ([]*Player, error)

	// AppendReceipt stores a receipt. Its Sequence must be one greater than
	// the last stored receipt for the same mint.
	AppendReceipt(r *Receipt) error

	// ListReceipts returns up to limit receipts for mint, newest first.
	// limit <= 0 returns all.
	ListReceipts(mint identity.Identity, limit int) ([]*Receipt, error)
}
