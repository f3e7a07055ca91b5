// Package player keeps per-wallet game records and ranks them for payouts.
package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"time"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/payout"
	"github.com/madurogg/libprizepool-go/token"
	"github.com/madurogg/libprizepool-go/treasury"
)

// MaxUsernameLen is the longest accepted username.
const MaxUsernameLen = 15

// Stats is the result of one finished game.
type Stats struct {
	Score uint64
	Kills uint64
}

// Registry reads and writes player records.
type Registry struct {
	store ledger.Store
	now   func() time.Time
}

// NewRegistry returns a registry over store. now may be nil.
func NewRegistry(store ledger.Store, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{store: store, now: now}
}

// ValidateUsername checks length and character set.
func ValidateUsername(name string) error {
	if len(name) == 0 || len(name) > MaxUsernameLen {
		return fmt.Errorf("%w: length %d", ErrInvalidUsername, len(name))
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return fmt.Errorf("%w: character %q", ErrInvalidUsername, c)
		}
	}
	return nil
}

// Register creates the record for wallet. Each wallet registers once.
func (r *Registry) Register(ctx context.Context, wallet identity.Identity, username string) (*ledger.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	p := &ledger.Player{
		Wallet:       wallet,
		Username:     username,
		RegisteredAt: r.now().Unix(),
	}
	err := r.store.Update(func(tx ledger.Tx) error {
		if _, err := tx.GetPlayer(wallet); err == nil {
			return fmt.Errorf("%w: %s", ErrAlreadyRegistered, wallet.Short())
		} else if !errors.Is(err, ledger.ErrPlayerNotFound) {
			return err
		}
		return tx.PutPlayer(p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the record for wallet.
func (r *Registry) Get(ctx context.Context, wallet identity.Identity) (*ledger.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var p *ledger.Player
	err := r.store.View(func(tx ledger.Tx) error {
		var err error
		p, err = getPlayer(tx, wallet)
		return err
	})
	return p, err
}

// UpdateStats adds one finished game to wallet's record. Only the authority of
// the pool for mint may report results.
func (r *Registry) UpdateStats(ctx context.Context, caller, mint, wallet identity.Identity, s Stats) (*ledger.Player, error) {
	var updated *ledger.Player
	err := r.authorized(ctx, caller, mint, func(tx ledger.Tx) error {
		p, err := getPlayer(tx, wallet)
		if err != nil {
			return err
		}
		score, err := add(p.Score, s.Score, "score")
		if err != nil {
			return err
		}
		kills, err := add(p.Kills, s.Kills, "kills")
		if err != nil {
			return err
		}
		games, err := add(p.GamesPlayed, 1, "games played")
		if err != nil {
			return err
		}
		p.Score, p.Kills, p.GamesPlayed = score, kills, games
		updated = p
		return tx.PutPlayer(p)
	})
	return updated, err
}

// CreditRewards adds amount to wallet's lifetime rewards after a payout.
// Same authorization as UpdateStats.
func (r *Registry) CreditRewards(ctx context.Context, caller, mint, wallet identity.Identity, amount uint64) error {
	return r.authorized(ctx, caller, mint, func(tx ledger.Tx) error {
		p, err := getPlayer(tx, wallet)
		if err != nil {
			return err
		}
		if p.TotalRewards, err = add(p.TotalRewards, amount, "total rewards"); err != nil {
			return err
		}
		return tx.PutPlayer(p)
	})
}

// Leaderboard returns up to limit players by score, highest first. Ties keep
// wallet order. limit <= 0 returns all.
func (r *Registry) Leaderboard(ctx context.Context, limit int) ([]*ledger.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var players []*ledger.Player
	err := r.store.View(func(tx ledger.Tx) error {
		var err error
		players, err = tx.ListPlayers()
		return err
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Score != players[j].Score {
			return players[i].Score > players[j].Score
		}
		return bytes.Compare(players[i].Wallet[:], players[j].Wallet[:]) < 0
	})
	if limit > 0 && len(players) > limit {
		players = players[:limit]
	}
	return players, nil
}

// Standings converts the leaderboard into payout input. A player whose
// associated token account for mint is not open gets a zero Account;
// otherwise Holding is that account's balance.
func (r *Registry) Standings(ctx context.Context, program, mint identity.Identity, limit int) ([]payout.Standing, error) {
	players, err := r.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]payout.Standing, len(players))
	err = r.store.View(func(tx ledger.Tx) error {
		for i, p := range players {
			out[i] = payout.Standing{Username: p.Username, Wallet: p.Wallet, Score: p.Score}
			addr, err := token.AssociatedAddress(program, p.Wallet, mint)
			if err != nil {
				return err
			}
			if acct, err := tx.GetAccount(addr); err == nil {
				out[i].Account = addr
				out[i].Holding = acct.Amount
			} else if !errors.Is(err, ledger.ErrAccountNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Registry) authorized(ctx context.Context, caller, mint identity.Identity, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.Update(func(tx ledger.Tx) error {
		pool, err := tx.GetPool(mint)
		if errors.Is(err, ledger.ErrPoolNotFound) {
			return fmt.Errorf("%w: %s", treasury.ErrPoolNotFound, mint.Short())
		} else if err != nil {
			return err
		}
		if caller != pool.Authority {
			return fmt.Errorf("%w: %s", treasury.ErrUnauthorized, caller.Short())
		}
		return fn(tx)
	})
}

func getPlayer(tx ledger.Tx, wallet identity.Identity) (*ledger.Player, error) {
	p, err := tx.GetPlayer(wallet)
	if errors.Is(err, ledger.ErrPlayerNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, wallet.Short())
	}
	return p, err
}

func add(a, b uint64, field string) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, field)
	}
	return sum, nil
}
