// Package treasury is the prize pool engine.
//
// One Pool exists per token mint. Its treasury account is owned by a derived
// authority that no private key controls, so value leaves the treasury only
// through Distribute and Withdraw, and only when the caller is the pool
// authority.
//
// Every operation runs inside a single ledger.Store.Update. A distribution
// batch therefore commits whole or not at all: if any transfer or counter
// update fails, every earlier transfer of the same call is rolled back.
package treasury

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
)

// MaxRecipients is the hard cap on distribution batch size.
const MaxRecipients = 10

// Operation names reported to the Observer.
const (
	OpCreatePool        = "create_pool"
	OpDeposit           = "deposit"
	OpDistribute        = "distribute"
	OpWithdraw          = "withdraw"
	OpTransferAuthority = "transfer_authority"
	OpProposeAuthority  = "propose_authority"
	OpAcceptAuthority   = "accept_authority"
)

// Observer receives the outcome of every state-changing operation.
type Observer interface {
	OperationDone(op string, elapsed time.Duration, err error)
	Distributed(mint identity.Identity, total uint64)
}

type nopObserver struct{}

func (nopObserver) OperationDone(string, time.Duration, error) {}
func (nopObserver) Distributed(identity.Identity, uint64)       {}

// Engine executes pool operations against a ledger store.
type Engine struct {
	store         ledger.Store
	program       identity.Identity
	now           func() time.Time
	log           *slog.Logger
	observer      Observer
	maxRecipients int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver registers an observer for operation outcomes.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithMaxRecipients lowers the distribution batch cap. Values outside
// 1..MaxRecipients are ignored.
func WithMaxRecipients(n int) Option {
	return func(e *Engine) {
		if n >= 1 && n <= MaxRecipients {
			e.maxRecipients = n
		}
	}
}

// New creates an engine for program over store.
func New(store ledger.Store, program identity.Identity, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("treasury: %w: store", ledger.ErrNilParam)
	}
	e := &Engine{
		store:         store,
		program:       program,
		now:           time.Now,
		log:           slog.New(slog.DiscardHandler),
		observer:      nopObserver{},
		maxRecipients: MaxRecipients,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Program returns the program identity the engine derives addresses under.
func (e *Engine) Program() identity.Identity { return e.program }

// MaxBatch returns the effective distribution batch cap.
func (e *Engine) MaxBatch() int { return e.maxRecipients }

// run executes fn in one store transaction and reports the outcome.
func (e *Engine) run(ctx context.Context, op string, fn func(tx ledger.Tx) error) error {
	start := time.Now()
	err := ctx.Err()
	if err == nil {
		err = e.store.Update(fn)
	}
	e.observer.OperationDone(op, time.Since(start), err)
	if err != nil {
		e.log.Warn("operation failed", "op", op, "kind", KindOf(err).String(), "error", err)
	}
	return err
}

// loadPool maps the ledger's not-found error onto the engine's.
func loadPool(tx ledger.Tx, mint identity.Identity) (*ledger.Pool, error) {
	pool, err := tx.GetPool(mint)
	if errors.Is(err, ledger.ErrPoolNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, mint.Short())
	}
	return pool, err
}

func requireAuthority(pool *ledger.Pool, caller identity.Identity) error {
	if caller != pool.Authority {
		return fmt.Errorf("%w: %s", ErrUnauthorized, caller.Short())
	}
	return nil
}
