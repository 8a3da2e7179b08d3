package engine

import (
	"context"
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/liqlock-go/lockprogram"
)

const startPoint = uint64(1_700_000_000)

func newTestEngine(t *testing.T) (*Engine, *MemoryLedger, *SimulatedAMM) {
	t.Helper()

	ledger := NewMemoryLedger(startPoint)
	sim := NewSimulatedAMM(ledger)

	eng, err := New(ledger, sim, sim)
	require.NoError(t, err)
	return eng, ledger, sim
}

func initConfig(t *testing.T, eng *Engine, admin, pool solana.PublicKey) *lockprogram.Config {
	t.Helper()

	cfg, err := eng.InitializeConfig(context.Background(), admin, pool, 100, solana.NewWallet().PublicKey())
	require.NoError(t, err)
	return cfg
}

func lockFor(t *testing.T, eng *Engine, user, pool solana.PublicKey, amount int64, months uint8) (*lockprogram.LockAccount, solana.PublicKey, solana.PublicKey) {
	t.Helper()

	nftMint := solana.NewWallet().PublicKey()
	vestingID := solana.NewWallet().PublicKey()
	lock, err := eng.LockLiquidity(context.Background(), LockParams{
		Owner:           user,
		Pool:            pool,
		PositionNftMint: nftMint,
		VestingID:       vestingID,
		MaxAmountA:      big.NewInt(amount),
		MaxAmountB:      big.NewInt(amount),
		DurationMonths:  months,
	})
	require.NoError(t, err)

	lockAddress, err := lockprogram.DeriveLockAccountAddress(user, nftMint)
	require.NoError(t, err)
	return lock, lockAddress, nftMint
}

func TestInitializeConfigOnce(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	ctx := context.Background()

	admin := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()

	cfg, err := eng.InitializeConfig(ctx, admin, pool, 100, solana.NewWallet().PublicKey())
	require.NoError(t, err)
	require.Equal(t, pool, cfg.PoolID)
	require.Equal(t, uint16(100), cfg.FeeBps)

	// the singleton refuses a second initialization from anyone
	_, err = eng.InitializeConfig(ctx, admin, pool, 100, solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, ErrAlreadyInitialized)
	_, err = eng.InitializeConfig(ctx, solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), 0, solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, ErrAlreadyInitialized)

	got, err := eng.Config()
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestInitializeConfigRejectsExcessiveFee(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, err := eng.InitializeConfig(context.Background(),
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), 10_001, solana.NewWallet().PublicKey())
	require.ErrorIs(t, err, ErrInvalidFee)

	// nothing persisted, so a correct retry succeeds
	_, err = eng.InitializeConfig(context.Background(),
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), 10_000, solana.NewWallet().PublicKey())
	require.NoError(t, err)
}

func TestLockLiquidity(t *testing.T) {
	eng, ledger, sim := newTestEngine(t)

	admin := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, admin, pool)

	lock, lockAddress, nftMint := lockFor(t, eng, user, pool, 100, 3)

	require.Equal(t, user, lock.User)
	require.Equal(t, lockprogram.LockStatusLocked, lock.Status)
	require.Equal(t, uint8(3), lock.DurationMonths)
	require.Equal(t, startPoint, lock.LockStart)
	require.Zero(t, lock.LockedLiquidity.BigInt().Cmp(big.NewInt(100)))
	require.Zero(t, lock.UnlockedLiquidity.BigInt().Sign())

	// single period schedule: 1-unit cliff a month before the end, the
	// remainder in one period landing exactly at the three month mark
	require.Equal(t, startPoint+2*SecondsPerMonth, lock.Schedule.CliffPoint)
	require.Equal(t, SecondsPerMonth, lock.Schedule.PeriodFrequency)
	require.Equal(t, uint16(1), lock.Schedule.NumberOfPeriods)
	require.Zero(t, lock.Schedule.CliffUnlockLiquidity.BigInt().Cmp(big.NewInt(1)))
	require.Zero(t, lock.Schedule.LiquidityPerPeriod.BigInt().Cmp(big.NewInt(99)))

	// the record is persisted and the NFT sits with the escrow authority
	data, ok := ledger.GetAccount(lockAddress)
	require.True(t, ok)
	obj, err := lockprogram.ParseAnyAccount(data)
	require.NoError(t, err)
	require.Equal(t, lock, obj)

	owner, ok := sim.PositionOwner(nftMint)
	require.True(t, ok)
	require.Equal(t, eng.EscrowAuthority(), owner)
}

func TestLockLiquidityRequiresConfig(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, err := eng.LockLiquidity(context.Background(), LockParams{
		Owner:           solana.NewWallet().PublicKey(),
		Pool:            solana.NewWallet().PublicKey(),
		PositionNftMint: solana.NewWallet().PublicKey(),
		VestingID:       solana.NewWallet().PublicKey(),
		MaxAmountA:      big.NewInt(100),
		MaxAmountB:      big.NewInt(100),
		DurationMonths:  3,
	})
	require.ErrorIs(t, err, ErrPolicyViolation)
}

func TestLockLiquidityRejectsForeignPool(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	pool := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	_, err := eng.LockLiquidity(context.Background(), LockParams{
		Owner:           solana.NewWallet().PublicKey(),
		Pool:            solana.NewWallet().PublicKey(),
		PositionNftMint: solana.NewWallet().PublicKey(),
		VestingID:       solana.NewWallet().PublicKey(),
		MaxAmountA:      big.NewInt(100),
		MaxAmountB:      big.NewInt(100),
		DurationMonths:  3,
	})
	require.ErrorIs(t, err, ErrPolicyViolation)
}

func TestLockLiquidityTooSmall(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	for _, tc := range []struct {
		name   string
		amount int64
		months uint8
	}{
		{"one unit", 1, 3},
		{"zero duration", 100, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			nftMint := solana.NewWallet().PublicKey()
			_, err := eng.LockLiquidity(ctx, LockParams{
				Owner:           user,
				Pool:            pool,
				PositionNftMint: nftMint,
				VestingID:       solana.NewWallet().PublicKey(),
				MaxAmountA:      big.NewInt(tc.amount),
				MaxAmountB:      big.NewInt(tc.amount),
				DurationMonths:  tc.months,
			})
			require.ErrorIs(t, err, ErrLiquidityTooSmall)

			lockAddress, err := lockprogram.DeriveLockAccountAddress(user, nftMint)
			require.NoError(t, err)
			_, ok := ledger.GetAccount(lockAddress)
			require.False(t, ok)
		})
	}
}

func TestLockLiquidityDuplicateVestingID(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	vestingID := solana.NewWallet().PublicKey()
	_, err := eng.LockLiquidity(ctx, LockParams{
		Owner:           user,
		Pool:            pool,
		PositionNftMint: solana.NewWallet().PublicKey(),
		VestingID:       vestingID,
		MaxAmountA:      big.NewInt(100),
		MaxAmountB:      big.NewInt(100),
		DurationMonths:  1,
	})
	require.NoError(t, err)

	nftMint := solana.NewWallet().PublicKey()
	_, err = eng.LockLiquidity(ctx, LockParams{
		Owner:           user,
		Pool:            pool,
		PositionNftMint: nftMint,
		VestingID:       vestingID,
		MaxAmountA:      big.NewInt(100),
		MaxAmountB:      big.NewInt(100),
		DurationMonths:  1,
	})
	require.ErrorIs(t, err, ErrDuplicateVestingID)

	// the failed lock left no record behind
	lockAddress, err := lockprogram.DeriveLockAccountAddress(user, nftMint)
	require.NoError(t, err)
	_, ok := ledger.GetAccount(lockAddress)
	require.False(t, ok)
}

func TestLockLiquidityInsufficientFunds(t *testing.T) {
	eng, _, sim := newTestEngine(t)

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	sim.SetBalance(user, big.NewInt(10), big.NewInt(10))

	_, err := eng.LockLiquidity(context.Background(), LockParams{
		Owner:           user,
		Pool:            pool,
		PositionNftMint: solana.NewWallet().PublicKey(),
		VestingID:       solana.NewWallet().PublicKey(),
		MaxAmountA:      big.NewInt(100),
		MaxAmountB:      big.NewInt(100),
		DurationMonths:  3,
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestUnlockBeforeCliff(t *testing.T) {
	eng, ledger, sim := newTestEngine(t)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	lock, lockAddress, nftMint := lockFor(t, eng, user, pool, 100, 3)

	before, _ := ledger.GetAccount(lockAddress)

	// a second short of the cliff still vests nothing
	ledger.Advance(2*SecondsPerMonth - 1)
	_, err := eng.UnlockLiquidity(ctx, user, lockAddress, nil)
	require.ErrorIs(t, err, ErrNothingVested)

	// the failed unlock changed nothing
	after, ok := ledger.GetAccount(lockAddress)
	require.True(t, ok)
	require.Equal(t, before, after)
	owner, _ := sim.PositionOwner(nftMint)
	require.Equal(t, eng.EscrowAuthority(), owner)
	require.Zero(t, sim.ReleasedTo(user).Sign())
	require.Equal(t, lockprogram.LockStatusLocked, lock.Status)
}

func TestUnlockFullAfterDuration(t *testing.T) {
	eng, ledger, sim := newTestEngine(t)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	_, lockAddress, nftMint := lockFor(t, eng, user, pool, 100, 3)

	ledger.Advance(3 * SecondsPerMonth)
	res, err := eng.UnlockLiquidity(ctx, user, lockAddress, nil)
	require.NoError(t, err)
	require.Zero(t, res.Released.Cmp(big.NewInt(100)))
	require.Equal(t, lockprogram.LockStatusFullyUnlocked, res.Lock.Status)
	require.Zero(t, res.Lock.OutstandingLiquidity().Sign())

	// record closed, custody handed back, funds with the user
	_, ok := ledger.GetAccount(lockAddress)
	require.False(t, ok)
	owner, _ := sim.PositionOwner(nftMint)
	require.Equal(t, user, owner)
	require.Zero(t, sim.ReleasedTo(user).Cmp(big.NewInt(100)))

	// a closed lock cannot be unlocked again
	_, err = eng.UnlockLiquidity(ctx, user, lockAddress, nil)
	require.ErrorIs(t, err, ErrLockNotFound)
}

func TestUnlockPartialThenFull(t *testing.T) {
	eng, ledger, sim := newTestEngine(t)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	_, lockAddress, nftMint := lockFor(t, eng, user, pool, 100, 3)

	// at the cliff only the 1-unit cliff tranche is eligible
	ledger.Advance(2 * SecondsPerMonth)
	res, err := eng.UnlockLiquidity(ctx, user, lockAddress, nil)
	require.NoError(t, err)
	require.Zero(t, res.Released.Cmp(big.NewInt(1)))
	require.Equal(t, lockprogram.LockStatusPartiallyUnlocked, res.Lock.Status)
	require.Zero(t, res.Lock.OutstandingLiquidity().Cmp(big.NewInt(99)))

	// custody stays with the escrow until the lock drains completely
	owner, _ := sim.PositionOwner(nftMint)
	require.Equal(t, eng.EscrowAuthority(), owner)

	// immediately repeating the call with no elapsed time releases nothing
	_, err = eng.UnlockLiquidity(ctx, user, lockAddress, nil)
	require.ErrorIs(t, err, ErrNothingVested)

	// the period tranche lands a month later
	ledger.Advance(SecondsPerMonth)
	res, err = eng.UnlockLiquidity(ctx, user, lockAddress, nil)
	require.NoError(t, err)
	require.Zero(t, res.Released.Cmp(big.NewInt(99)))
	require.Equal(t, lockprogram.LockStatusFullyUnlocked, res.Lock.Status)

	_, ok := ledger.GetAccount(lockAddress)
	require.False(t, ok)
	owner, _ = sim.PositionOwner(nftMint)
	require.Equal(t, user, owner)
	require.Zero(t, sim.ReleasedTo(user).Cmp(big.NewInt(100)))
}

func TestUnlockRequestedAmountCapsRelease(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	_, lockAddress, _ := lockFor(t, eng, user, pool, 100, 1)

	ledger.Advance(SecondsPerMonth)
	res, err := eng.UnlockLiquidity(ctx, user, lockAddress, big.NewInt(40))
	require.NoError(t, err)
	require.Zero(t, res.Released.Cmp(big.NewInt(40)))
	require.Equal(t, lockprogram.LockStatusPartiallyUnlocked, res.Lock.Status)

	// asking for more than remains releases only the remainder
	res, err = eng.UnlockLiquidity(ctx, user, lockAddress, big.NewInt(1_000_000))
	require.NoError(t, err)
	require.Zero(t, res.Released.Cmp(big.NewInt(60)))
	require.Equal(t, lockprogram.LockStatusFullyUnlocked, res.Lock.Status)
}

func TestUnlockUnauthorized(t *testing.T) {
	eng, ledger, _ := newTestEngine(t)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	_, lockAddress, _ := lockFor(t, eng, user, pool, 100, 1)
	ledger.Advance(SecondsPerMonth)

	_, err := eng.UnlockLiquidity(ctx, solana.NewWallet().PublicKey(), lockAddress, nil)
	require.ErrorIs(t, err, ErrUnauthorized)

	// the owner still gets everything afterwards
	res, err := eng.UnlockLiquidity(ctx, user, lockAddress, nil)
	require.NoError(t, err)
	require.Zero(t, res.Released.Cmp(big.NewInt(100)))
}

func TestUnlockUnknownLock(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	_, err := eng.UnlockLiquidity(context.Background(),
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), nil)
	require.ErrorIs(t, err, ErrLockNotFound)
}

// overReportingAMM claims to have released more than asked for.
type overReportingAMM struct {
	*SimulatedAMM
}

func (a *overReportingAMM) ReleaseLiquidity(ctx context.Context, position solana.PublicKey, amount *big.Int, recipient solana.PublicKey) (*big.Int, error) {
	released, err := a.SimulatedAMM.ReleaseLiquidity(ctx, position, amount, recipient)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(released, big.NewInt(1_000)), nil
}

func TestUnlockRejectsOverReportingAMM(t *testing.T) {
	ledger := NewMemoryLedger(startPoint)
	sim := NewSimulatedAMM(ledger)
	eng, err := New(ledger, &overReportingAMM{sim}, sim)
	require.NoError(t, err)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	_, lockAddress, _ := lockFor(t, eng, user, pool, 100, 1)
	before, _ := ledger.GetAccount(lockAddress)

	ledger.Advance(SecondsPerMonth)
	_, err = eng.UnlockLiquidity(ctx, user, lockAddress, nil)
	require.ErrorIs(t, err, ErrExternalInvariantViolation)

	// the record is untouched after the aborted instruction
	after, ok := ledger.GetAccount(lockAddress)
	require.True(t, ok)
	require.Equal(t, before, after)
}

type failingAMM struct {
	*SimulatedAMM
	failAdd bool
}

func (a *failingAMM) AddLiquidity(ctx context.Context, position solana.PublicKey, maxAmountA, maxAmountB *big.Int) (*big.Int, error) {
	if a.failAdd {
		return nil, context.DeadlineExceeded
	}
	return a.SimulatedAMM.AddLiquidity(ctx, position, maxAmountA, maxAmountB)
}

func TestLockForwardsOpaqueAMMFailure(t *testing.T) {
	ledger := NewMemoryLedger(startPoint)
	sim := NewSimulatedAMM(ledger)
	eng, err := New(ledger, &failingAMM{SimulatedAMM: sim, failAdd: true}, sim)
	require.NoError(t, err)

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	nftMint := solana.NewWallet().PublicKey()
	_, err = eng.LockLiquidity(context.Background(), LockParams{
		Owner:           user,
		Pool:            pool,
		PositionNftMint: nftMint,
		VestingID:       solana.NewWallet().PublicKey(),
		MaxAmountA:      big.NewInt(100),
		MaxAmountB:      big.NewInt(100),
		DurationMonths:  3,
	})
	require.ErrorIs(t, err, ErrExternalProgramError)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	lockAddress, err := lockprogram.DeriveLockAccountAddress(user, nftMint)
	require.NoError(t, err)
	_, ok := ledger.GetAccount(lockAddress)
	require.False(t, ok)
}

func TestMultipleLocksPerUser(t *testing.T) {
	eng, ledger, sim := newTestEngine(t)
	ctx := context.Background()

	pool := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	initConfig(t, eng, solana.NewWallet().PublicKey(), pool)

	_, lockA, _ := lockFor(t, eng, user, pool, 100, 1)
	_, lockB, nftB := lockFor(t, eng, user, pool, 500, 3)
	require.NotEqual(t, lockA, lockB)

	// draining the first lock leaves the second untouched
	ledger.Advance(SecondsPerMonth)
	res, err := eng.UnlockLiquidity(ctx, user, lockA, nil)
	require.NoError(t, err)
	require.Zero(t, res.Released.Cmp(big.NewInt(100)))

	_, err = eng.UnlockLiquidity(ctx, user, lockB, nil)
	require.ErrorIs(t, err, ErrNothingVested)
	owner, _ := sim.PositionOwner(nftB)
	require.Equal(t, eng.EscrowAuthority(), owner)
}
