package ledger

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"github.com/madurogg/libprizepool-go/identity"
)

// MemStore is an in-memory Store for testing.
//
// Update stages writes on a copy of the current state and swaps it in only
// when fn succeeds, which gives the same all-or-nothing behavior as BoltStore.
type MemStore struct {
	mu     sync.RWMutex
	state  *memState
	closed bool
}

type memState struct {
	pools    map[identity.Identity]Pool
	accounts map[identity.Identity]Account
	players  map[identity.Identity]Player
	receipts map[identity.Identity][]*Receipt
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{state: newMemState()}
}

func newMemState() *memState {
	return &memState{
		pools:    make(map[identity.Identity]Pool),
		accounts: make(map[identity.Identity]Account),
		players:  make(map[identity.Identity]Player),
		receipts: make(map[identity.Identity][]*Receipt),
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.pools {
		c.pools[k] = v
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.players {
		c.players[k] = v
	}
	for k, v := range s.receipts {
		// Receipts are immutable once appended; sharing the pointers is safe.
		c.receipts[k] = append([]*Receipt(nil), v...)
	}
	return c
}

// View runs fn against the committed state.
func (s *MemStore) View(fn func(tx Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return fn(&memTx{state: s.state})
}

// Update runs fn against a staged copy and commits it if fn returns nil.
func (s *MemStore) Update(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	staged := s.state.clone()
	if err := fn(&memTx{state: staged, writable: true}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// Close marks the store closed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type memTx struct {
	state    *memState
	writable bool
}

func (t *memTx) GetPool(mint identity.Identity) (*Pool, error) {
	p, ok := t.state.pools[mint]
	if !ok {
		return nil, ErrPoolNotFound
	}
	return &p, nil
}

func (t *memTx) PutPool(pool *Pool) error {
	if pool == nil {
		return fmt.Errorf("%w: pool", ErrNilParam)
	}
	if !t.writable {
		return ErrReadOnly
	}
	t.state.pools[pool.TokenMint] = *pool
	return nil
}

func (t *memTx) GetAccount(addr identity.Identity) (*Account, error) {
	a, ok := t.state.accounts[addr]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

func (t *memTx) PutAccount(acct *Account) error {
	if acct == nil {
		return fmt.Errorf("%w: account", ErrNilParam)
	}
	if !t.writable {
		return ErrReadOnly
	}
	t.state.accounts[acct.Address] = *acct
	return nil
}

func (t *memTx) GetPlayer(wallet identity.Identity) (*Player, error) {
	p, ok := t.state.players[wallet]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return &p, nil
}

func (t *memTx) PutPlayer(player *Player) error {
	if player == nil {
		return fmt.Errorf("%w: player", ErrNilParam)
	}
	if !t.writable {
		return ErrReadOnly
	}
	t.state.players[player.Wallet] = *player
	return nil
}

func (t *memTx) ListPlayers() ([]*Player, error) {
	result := make([]*Player, 0, len(t.state.players))
	for _, p := range t.state.players {
		p := p
		result = append(result, &p)
	}
	sort.Slice(result, func(i, j int) bool {
		return bytes.Compare(result[i].Wallet[:], result[j].Wallet[:]) < 0
	})
	return result, nil
}

func (t *memTx) AppendReceipt(r *Receipt) error {
	if r == nil {
		return fmt.Errorf("%w: receipt", ErrNilParam)
	}
	if !t.writable {
		return ErrReadOnly
	}
	existing := t.state.receipts[r.TokenMint]
	var last uint64
	if n := len(existing); n > 0 {
		last = existing[n-1].Sequence
	}
	if r.Sequence != last+1 {
		return fmt.Errorf("%w: have %d, got %d", ErrSequenceGap, last, r.Sequence)
	}
	t.state.receipts[r.TokenMint] = append(existing, r.clone())
	return nil
}

func (t *memTx) ListReceipts(mint identity.Identity, limit int) ([]*Receipt, error) {
	existing := t.state.receipts[mint]
	n := len(existing)
	if limit <= 0 || limit > n {
		limit = n
	}
	result := make([]*Receipt, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		result = append(result, existing[i].clone())
	}
	return result, nil
}
