package treasury

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madurogg/libprizepool-go/identity"
	"github.com/madurogg/libprizepool-go/ledger"
	"github.com/madurogg/libprizepool-go/token"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testID(seed byte) identity.Identity {
	var id identity.Identity
	for i := range id {
		id[i] = seed
	}
	return id
}

var (
	program   = testID(0xF0)
	mint      = testID(0x11)
	authA     = testID(0xA0)
	authB     = testID(0xB0)
	authC     = testID(0xC0)
	funder    = testID(0xD0)
	recipient = []identity.Identity{testID(0x01), testID(0x02), testID(0x03)}
)

type recordingObserver struct {
	mu          sync.Mutex
	ops         []string
	errs        []error
	distributed uint64
}

func (o *recordingObserver) OperationDone(op string, _ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, op)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) Distributed(_ identity.Identity, total uint64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.distributed += total
}

type fixture struct {
	store      ledger.Store
	engine     *Engine
	observer   *recordingObserver
	funderAcct identity.Identity
	accounts   []identity.Identity // recipient token accounts
}

// newFixture creates a pool for mint owned by authA, opens a funder account with
// 1_000_000 units, and opens token accounts for the recipients.
func newFixture(t *testing.T, store ledger.Store, opts ...Option) *fixture {
	t.Helper()
	obs := &recordingObserver{}
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithObserver(obs)}, opts...)
	engine, err := New(store, program, opts...)
	require.NoError(t, err)

	f := &fixture{store: store, engine: engine, observer: obs}
	f.funderAcct = f.openAccount(t, funder)
	require.NoError(t, store.Update(func(tx ledger.Tx) error {
		return token.MintTo(tx, f.funderAcct, 1_000_000)
	}))
	for _, r := range recipient {
		f.accounts = append(f.accounts, f.openAccount(t, r))
	}

	_, err = engine.CreatePool(context.Background(), authA, mint)
	require.NoError(t, err)
	return f
}

func (f *fixture) openAccount(t *testing.T, owner identity.Identity) identity.Identity {
	t.Helper()
	addr, err := token.AssociatedAddress(program, owner, mint)
	require.NoError(t, err)
	require.NoError(t, f.store.Update(func(tx ledger.Tx) error {
		_, err := token.OpenAccount(tx, addr, mint, owner)
		return err
	}))
	return addr
}

func (f *fixture) fund(t *testing.T, amount uint64) {
	t.Helper()
	require.NoError(t, f.engine.Deposit(context.Background(), funder, mint, f.funderAcct, amount))
}

func (f *fixture) balance(t *testing.T, addr identity.Identity) uint64 {
	t.Helper()
	var b uint64
	require.NoError(t, f.store.View(func(tx ledger.Tx) error {
		var err error
		b, err = token.Balance(tx, addr)
		return err
	}))
	return b
}

func (f *fixture) pool(t *testing.T) *ledger.Pool {
	t.Helper()
	p, err := f.engine.Pool(context.Background(), mint)
	require.NoError(t, err)
	return p
}

func (f *fixture) treasury(t *testing.T) uint64 {
	t.Helper()
	b, err := f.engine.TreasuryBalance(context.Background(), mint)
	require.NoError(t, err)
	return b
}

// ---------------------------------------------------------------------------
// CreatePool
// ---------------------------------------------------------------------------

func TestCreatePool(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	p := f.pool(t)

	assert.Equal(t, authA, p.Authority)
	assert.Equal(t, mint, p.TokenMint)
	assert.Zero(t, p.TotalDistributed)
	assert.Zero(t, p.DistributionCount)
	assert.Zero(t, p.LastDistribution)
	assert.Equal(t, fixedNow.Unix(), p.CreatedAt)
	assert.True(t, p.PendingAuthority.IsZero())

	vault, bump, err := f.engine.TreasuryAddress(mint)
	require.NoError(t, err)
	assert.Equal(t, vault, p.Treasury)
	assert.Equal(t, bump, p.Bump)
	assert.False(t, vault.OnCurve())

	// The treasury account is owned by the derived address itself.
	require.NoError(t, f.store.View(func(tx ledger.Tx) error {
		acct, err := tx.GetAccount(vault)
		require.NoError(t, err)
		assert.Equal(t, vault, acct.Owner)
		assert.Equal(t, mint, acct.Mint)
		return nil
	}))
	assert.Zero(t, f.treasury(t))
}

func TestCreatePool_Twice(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 500)
	before := f.pool(t)

	_, err := f.engine.CreatePool(context.Background(), authB, mint)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, KindState, KindOf(err))

	assert.Equal(t, before, f.pool(t))
	assert.Equal(t, uint64(500), f.treasury(t))
}

func TestCreatePool_ZeroCaller(t *testing.T) {
	engine, err := New(ledger.NewMemStore(), program)
	require.NoError(t, err)
	_, err = engine.CreatePool(context.Background(), identity.Zero, mint)
	assert.ErrorIs(t, err, ErrInvalidAuthority)
}

func TestNew_NilStore(t *testing.T) {
	_, err := New(nil, program)
	assert.ErrorIs(t, err, ledger.ErrNilParam)
}

func TestPool_NotFound(t *testing.T) {
	engine, err := New(ledger.NewMemStore(), program)
	require.NoError(t, err)
	_, err = engine.Pool(context.Background(), mint)
	assert.ErrorIs(t, err, ErrPoolNotFound)

	err = engine.Deposit(context.Background(), funder, mint, testID(9), 10)
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestPoolAddress_DistinctFromTreasury(t *testing.T) {
	engine, err := New(ledger.NewMemStore(), program)
	require.NoError(t, err)
	poolAddr, err := engine.PoolAddress(mint)
	require.NoError(t, err)
	vault, _, err := engine.TreasuryAddress(mint)
	require.NoError(t, err)
	assert.NotEqual(t, poolAddr, vault)
}

// ---------------------------------------------------------------------------
// Deposit
// ---------------------------------------------------------------------------

func TestDeposit(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)
	assert.Equal(t, uint64(1000), f.treasury(t))
	assert.Equal(t, uint64(999_000), f.balance(t, f.funderAcct))

	p := f.pool(t)
	assert.Zero(t, p.TotalDistributed)
	assert.Zero(t, p.DistributionCount)
}

func TestDeposit_ZeroAmount(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 10)

	err := f.engine.Deposit(context.Background(), funder, mint, f.funderAcct, 0)
	assert.ErrorIs(t, err, ErrZeroAmount)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, uint64(10), f.treasury(t))
}

func TestDeposit_NotOwner(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	err := f.engine.Deposit(context.Background(), authB, mint, f.funderAcct, 10)
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.ErrorIs(t, err, token.ErrOwnerMismatch)
	assert.True(t, Retryable(err))
	assert.Zero(t, f.treasury(t))
}

// ---------------------------------------------------------------------------
// Distribute
// ---------------------------------------------------------------------------

func TestDistribute_Scenario(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)

	receipt, err := f.engine.Distribute(context.Background(), authA, mint,
		[]uint64{100, 0, 50}, f.accounts)
	require.NoError(t, err)

	assert.Equal(t, uint64(100), f.balance(t, f.accounts[0]))
	assert.Equal(t, uint64(0), f.balance(t, f.accounts[1]))
	assert.Equal(t, uint64(50), f.balance(t, f.accounts[2]))
	assert.Equal(t, uint64(850), f.treasury(t))

	p := f.pool(t)
	assert.Equal(t, uint64(150), p.TotalDistributed)
	assert.Equal(t, uint64(1), p.DistributionCount)
	assert.Equal(t, fixedNow.Unix(), p.LastDistribution)

	assert.Equal(t, uint64(150), receipt.Total)
	assert.Equal(t, uint64(1), receipt.Sequence)
	assert.Equal(t, authA, receipt.Authority)
	require.Len(t, receipt.Payouts, 3)
	assert.Equal(t, uint64(0), receipt.Payouts[1].Amount)
	assert.Equal(t, uint64(150), f.observer.distributed)

	history, err := f.engine.History(context.Background(), mint, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, receipt.ID, history[0].ID)
}

func TestDistribute_CountersAdvanceBySum(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 100_000)

	batches := [][]uint64{
		{1, 2, 3},
		{0, 0, 0},
		{500, 0, 7},
		{},
	}
	var wantTotal uint64
	for i, amounts := range batches {
		recips := f.accounts[:len(amounts)]
		_, err := f.engine.Distribute(context.Background(), authA, mint, amounts, recips)
		require.NoError(t, err)
		for _, a := range amounts {
			wantTotal += a
		}
		p := f.pool(t)
		assert.Equal(t, uint64(i+1), p.DistributionCount)
		assert.Equal(t, wantTotal, p.TotalDistributed)
	}

	history, err := f.engine.History(context.Background(), mint, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, uint64(4), history[0].Sequence)
	assert.Equal(t, uint64(3), history[1].Sequence)
}

func TestDistribute_PreconditionErrors(t *testing.T) {
	eleven := make([]uint64, 11)
	elevenRecips := make([]identity.Identity, 11)

	tests := []struct {
		name       string
		caller     identity.Identity
		amounts    []uint64
		recipients func(f *fixture) []identity.Identity
		wantErr    error
		wantKind   Kind
	}{
		{
			name:       "unauthorized",
			caller:     authB,
			amounts:    []uint64{100, 0, 50},
			recipients: func(f *fixture) []identity.Identity { return f.accounts },
			wantErr:    ErrUnauthorized,
			wantKind:   KindAuthorization,
		},
		{
			name:       "unauthorized wins over batch shape",
			caller:     authB,
			amounts:    eleven,
			recipients: func(*fixture) []identity.Identity { return nil },
			wantErr:    ErrUnauthorized,
			wantKind:   KindAuthorization,
		},
		{
			name:       "too many recipients",
			caller:     authA,
			amounts:    eleven,
			recipients: func(*fixture) []identity.Identity { return elevenRecips },
			wantErr:    ErrTooManyRecipients,
			wantKind:   KindValidation,
		},
		{
			name:       "too many wins over mismatch",
			caller:     authA,
			amounts:    eleven,
			recipients: func(*fixture) []identity.Identity { return nil },
			wantErr:    ErrTooManyRecipients,
			wantKind:   KindValidation,
		},
		{
			name:       "mismatch",
			caller:     authA,
			amounts:    []uint64{1, 2},
			recipients: func(f *fixture) []identity.Identity { return f.accounts },
			wantErr:    ErrRecipientMismatch,
			wantKind:   KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, ledger.NewMemStore())
			f.fund(t, 1000)
			before := f.pool(t)

			_, err := f.engine.Distribute(context.Background(), tt.caller, mint, tt.amounts, tt.recipients(f))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, KindOf(err))
			assert.False(t, Retryable(err))

			assert.Equal(t, before, f.pool(t))
			assert.Equal(t, uint64(1000), f.treasury(t))
			history, err := f.engine.History(context.Background(), mint, 0)
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestDistribute_MaxRecipientsOption(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore(), WithMaxRecipients(2))
	f.fund(t, 1000)
	assert.Equal(t, 2, f.engine.MaxBatch())

	_, err := f.engine.Distribute(context.Background(), authA, mint, []uint64{1, 1, 1}, f.accounts)
	assert.ErrorIs(t, err, ErrTooManyRecipients)
	assert.Contains(t, err.Error(), "3 entries, max 2")

	// Raising the cap above the hard limit is ignored.
	g := newFixture(t, ledger.NewMemStore(), WithMaxRecipients(50))
	assert.Equal(t, MaxRecipients, g.engine.MaxBatch())
}

func TestDistribute_TreasuryAsRecipient(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)
	before := f.pool(t)
	treasuryAddr := before.Treasury

	_, err := f.engine.Distribute(context.Background(), authA, mint,
		[]uint64{100, 50}, []identity.Identity{f.accounts[0], treasuryAddr})
	require.ErrorIs(t, err, ErrTreasuryRecipient)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.False(t, Retryable(err))

	assert.Equal(t, before, f.pool(t))
	assert.Equal(t, uint64(1000), f.treasury(t))
	assert.Zero(t, f.balance(t, f.accounts[0]))

	// A zero slot naming the treasury is skipped like any other zero slot.
	receipt, err := f.engine.Distribute(context.Background(), authA, mint,
		[]uint64{100, 0}, []identity.Identity{f.accounts[0], treasuryAddr})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), receipt.Total)
	assert.Equal(t, uint64(900), f.treasury(t))
}

func TestDistribute_ExactlyTen(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)
	amounts := make([]uint64, 10)
	recips := make([]identity.Identity, 10)
	for i := range recips {
		recips[i] = f.accounts[i%len(f.accounts)]
		amounts[i] = 10
	}
	_, err := f.engine.Distribute(context.Background(), authA, mint, amounts, recips)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), f.pool(t).TotalDistributed)
	assert.Equal(t, uint64(40), f.balance(t, f.accounts[0]))
}

func TestDistribute_MidBatchFailureRollsBack(t *testing.T) {
	run := func(t *testing.T, store ledger.Store) {
		f := newFixture(t, store)
		f.fund(t, 120)

		// The second transfer exceeds what is left after the first.
		_, err := f.engine.Distribute(context.Background(), authA, mint, []uint64{100, 50, 0}, f.accounts)
		assert.ErrorIs(t, err, ErrTransferFailed)
		assert.ErrorIs(t, err, token.ErrInsufficientFunds)
		assert.True(t, Retryable(err))

		assert.Equal(t, uint64(0), f.balance(t, f.accounts[0]))
		assert.Equal(t, uint64(120), f.treasury(t))
		p := f.pool(t)
		assert.Zero(t, p.TotalDistributed)
		assert.Zero(t, p.DistributionCount)
		assert.Zero(t, f.observer.distributed)
	}

	t.Run("mem", func(t *testing.T) { run(t, ledger.NewMemStore()) })
	t.Run("bolt", func(t *testing.T) {
		s, err := ledger.OpenBoltStore(filepath.Join(t.TempDir(), "ledger.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		run(t, s)
	})
}

func TestDistribute_UnknownRecipientRollsBack(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)

	recips := []identity.Identity{f.accounts[0], testID(0x77)}
	_, err := f.engine.Distribute(context.Background(), authA, mint, []uint64{10, 10}, recips)
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.ErrorIs(t, err, token.ErrAccountNotFound)
	assert.Equal(t, uint64(0), f.balance(t, f.accounts[0]))
	assert.Equal(t, uint64(1000), f.treasury(t))
}

func TestDistribute_CounterOverflow(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)

	require.NoError(t, f.store.Update(func(tx ledger.Tx) error {
		p, err := tx.GetPool(mint)
		if err != nil {
			return err
		}
		p.TotalDistributed = math.MaxUint64 - 10
		return tx.PutPool(p)
	}))
	before := f.pool(t)

	_, err := f.engine.Distribute(context.Background(), authA, mint, []uint64{100}, f.accounts[:1])
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, KindArithmetic, KindOf(err))
	assert.False(t, Retryable(err))

	assert.Equal(t, before, f.pool(t))
	assert.Equal(t, uint64(0), f.balance(t, f.accounts[0]))
	assert.Equal(t, uint64(1000), f.treasury(t))
}

func TestDistribute_CountOverflow(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)
	require.NoError(t, f.store.Update(func(tx ledger.Tx) error {
		p, err := tx.GetPool(mint)
		if err != nil {
			return err
		}
		p.DistributionCount = math.MaxUint64
		return tx.PutPool(p)
	}))

	_, err := f.engine.Distribute(context.Background(), authA, mint, []uint64{1}, f.accounts[:1])
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, uint64(1000), f.treasury(t))
}

func TestDistribute_CanceledContext(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.engine.Distribute(ctx, authA, mint, []uint64{1}, f.accounts[:1])
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Equal(t, uint64(1000), f.treasury(t))
}

func TestDistribute_Concurrent(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 10_000)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.Distribute(context.Background(), authA, mint, []uint64{1, 2, 3}, f.accounts)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p := f.pool(t)
	assert.Equal(t, uint64(20), p.DistributionCount)
	assert.Equal(t, uint64(120), p.TotalDistributed)
	assert.Equal(t, uint64(10_000-120), f.treasury(t))

	history, err := f.engine.History(context.Background(), mint, 0)
	require.NoError(t, err)
	assert.Len(t, history, 20)
}

// ---------------------------------------------------------------------------
// Withdraw
// ---------------------------------------------------------------------------

func TestWithdraw(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)

	require.NoError(t, f.engine.Withdraw(context.Background(), authA, mint, 300, f.accounts[0]))
	assert.Equal(t, uint64(700), f.treasury(t))
	assert.Equal(t, uint64(300), f.balance(t, f.accounts[0]))

	p := f.pool(t)
	assert.Zero(t, p.TotalDistributed)
	assert.Zero(t, p.DistributionCount)
}

func TestWithdraw_Errors(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)

	err := f.engine.Withdraw(context.Background(), authB, mint, 300, f.accounts[0])
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.engine.Withdraw(context.Background(), authA, mint, 2000, f.accounts[0])
	assert.ErrorIs(t, err, ErrTransferFailed)
	assert.ErrorIs(t, err, token.ErrInsufficientFunds)

	assert.Equal(t, uint64(1000), f.treasury(t))
}

// ---------------------------------------------------------------------------
// Authority
// ---------------------------------------------------------------------------

func TestTransferAuthority_Scenario(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 1000)
	ctx := context.Background()

	require.NoError(t, f.engine.TransferAuthority(ctx, authA, mint, authC))
	assert.Equal(t, authC, f.pool(t).Authority)

	_, err := f.engine.Distribute(ctx, authA, mint, []uint64{10}, f.accounts[:1])
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.engine.Withdraw(ctx, authA, mint, 10, f.accounts[0])
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = f.engine.TransferAuthority(ctx, authA, mint, authA)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.engine.Distribute(ctx, authC, mint, []uint64{10}, f.accounts[:1])
	require.NoError(t, err)
	assert.Equal(t, uint64(10), f.balance(t, f.accounts[0]))
}

func TestTransferAuthority_ZeroRejected(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	err := f.engine.TransferAuthority(context.Background(), authA, mint, identity.Zero)
	assert.ErrorIs(t, err, ErrInvalidAuthority)
	assert.Equal(t, authA, f.pool(t).Authority)
}

func TestProposeAccept(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	ctx := context.Background()

	err := f.engine.AcceptAuthority(ctx, authC, mint)
	assert.ErrorIs(t, err, ErrNoPendingAuthority)

	err = f.engine.ProposeAuthority(ctx, authB, mint, authC)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.engine.ProposeAuthority(ctx, authA, mint, authC))
	p := f.pool(t)
	assert.Equal(t, authA, p.Authority)
	assert.Equal(t, authC, p.PendingAuthority)

	// Only the proposed identity can accept.
	err = f.engine.AcceptAuthority(ctx, authB, mint)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.engine.AcceptAuthority(ctx, authC, mint))
	p = f.pool(t)
	assert.Equal(t, authC, p.Authority)
	assert.True(t, p.PendingAuthority.IsZero())

	err = f.engine.AcceptAuthority(ctx, authC, mint)
	assert.ErrorIs(t, err, ErrNoPendingAuthority)
}

func TestProposeCancel(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	ctx := context.Background()

	require.NoError(t, f.engine.ProposeAuthority(ctx, authA, mint, authC))
	require.NoError(t, f.engine.ProposeAuthority(ctx, authA, mint, identity.Zero))
	err := f.engine.AcceptAuthority(ctx, authC, mint)
	assert.ErrorIs(t, err, ErrNoPendingAuthority)

	// A direct transfer clears any outstanding proposal.
	require.NoError(t, f.engine.ProposeAuthority(ctx, authA, mint, authC))
	require.NoError(t, f.engine.TransferAuthority(ctx, authA, mint, authB))
	err = f.engine.AcceptAuthority(ctx, authC, mint)
	assert.ErrorIs(t, err, ErrNoPendingAuthority)
	assert.Equal(t, authB, f.pool(t).Authority)
}

// ---------------------------------------------------------------------------
// Classification and observation
// ---------------------------------------------------------------------------

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, KindUnknown},
		{errors.New("other"), KindUnknown},
		{ErrUnauthorized, KindAuthorization},
		{ErrTooManyRecipients, KindValidation},
		{ErrRecipientMismatch, KindValidation},
		{ErrZeroAmount, KindValidation},
		{ErrTreasuryRecipient, KindValidation},
		{ErrOverflow, KindArithmetic},
		{ErrTransferFailed, KindTransfer},
		{ErrAlreadyExists, KindState},
		{ErrPoolNotFound, KindState},
		{ErrNoPendingAuthority, KindState},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
	assert.Equal(t, "arithmetic", KindArithmetic.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestObserver_SeesEveryOperation(t *testing.T) {
	f := newFixture(t, ledger.NewMemStore())
	f.fund(t, 100)
	_, _ = f.engine.Distribute(context.Background(), authB, mint, []uint64{1}, f.accounts[:1])

	f.observer.mu.Lock()
	defer f.observer.mu.Unlock()
	assert.Equal(t, []string{OpCreatePool, OpDeposit, OpDistribute}, f.observer.ops)
	assert.NoError(t, f.observer.errs[0])
	assert.NoError(t, f.observer.errs[1])
	assert.ErrorIs(t, f.observer.errs[2], ErrUnauthorized)
}
