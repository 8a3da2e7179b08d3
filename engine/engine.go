package engine

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/liqlock-go/lockprogram"
	"github.com/krazyTry/liqlock-go/u128"
)

// Engine is the escrow/vesting state machine. Each handler validates, calls
// into the AMM, and stages its record writes; the ledger commit happens only
// after every step succeeded, so a failing instruction leaves no trace.
type Engine struct {
	ledger    Ledger
	amm       AMM
	custodian PositionCustodian
	strategy  ScheduleStrategy

	escrowAuthority solana.PublicKey
	configAddress   solana.PublicKey
}

type Option func(*Engine)

// WithScheduleStrategy overrides the default single-period schedule.
func WithScheduleStrategy(s ScheduleStrategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

func New(ledger Ledger, amm AMM, custodian PositionCustodian, opts ...Option) (*Engine, error) {
	escrowAuthority, err := lockprogram.DeriveEscrowAuthority()
	if err != nil {
		return nil, err
	}
	configAddress, err := lockprogram.DeriveConfigAddress()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		ledger:          ledger,
		amm:             amm,
		custodian:       custodian,
		strategy:        SinglePeriodStrategy{},
		escrowAuthority: escrowAuthority,
		configAddress:   configAddress,
	}
	for _, fn := range opts {
		fn(e)
	}
	return e, nil
}

// EscrowAuthority returns the program-controlled custody address.
func (e *Engine) EscrowAuthority() solana.PublicKey {
	return e.escrowAuthority
}

// InitializeConfig creates the Config singleton. It fails once the singleton
// address holds data, regardless of arguments.
func (e *Engine) InitializeConfig(
	ctx context.Context,
	admin solana.PublicKey,
	pool solana.PublicKey,
	feeBps uint16,
	rewardMint solana.PublicKey,
) (*lockprogram.Config, error) {
	if _, exists := e.ledger.GetAccount(e.configAddress); exists {
		return nil, fmt.Errorf("%w: config at %s", ErrAlreadyInitialized, e.configAddress)
	}
	if feeBps > lockprogram.MaxFeeBps {
		return nil, fmt.Errorf("%w: %d bps", ErrInvalidFee, feeBps)
	}

	cfg := &lockprogram.Config{
		PoolID:     pool,
		Admin:      admin,
		FeeBps:     feeBps,
		RewardMint: rewardMint,
	}
	data, err := lockprogram.EncodeAccount(cfg)
	if err != nil {
		return nil, err
	}

	var ws WriteSet
	ws.Set(e.configAddress, data)
	e.ledger.Commit(&ws)
	return cfg, nil
}

// Config reads the current policy singleton.
func (e *Engine) Config() (*lockprogram.Config, error) {
	data, ok := e.ledger.GetAccount(e.configAddress)
	if !ok {
		return nil, fmt.Errorf("%w: config not initialized", ErrPolicyViolation)
	}
	obj, err := lockprogram.ParseAnyAccount(data)
	if err != nil {
		return nil, err
	}
	cfg, ok := obj.(*lockprogram.Config)
	if !ok {
		return nil, fmt.Errorf("account at %s is not a Config", e.configAddress)
	}
	return cfg, nil
}

// LockParams are the inputs of lock_liquidity. PositionNftMint and VestingID
// are fresh one-time identities supplied by the caller per instruction.
type LockParams struct {
	Owner           solana.PublicKey
	Pool            solana.PublicKey
	PositionNftMint solana.PublicKey
	VestingID       solana.PublicKey
	MaxAmountA      *big.Int
	MaxAmountB      *big.Int
	DurationMonths  uint8
}

// LockLiquidity opens a position on the configured pool, deposits liquidity,
// registers the vesting schedule with the AMM, moves the position NFT into
// escrow custody and persists the LockAccount.
func (e *Engine) LockLiquidity(ctx context.Context, params LockParams) (*lockprogram.LockAccount, error) {
	cfg, err := e.Config()
	if err != nil {
		return nil, err
	}
	if !params.Pool.Equals(cfg.PoolID) {
		return nil, fmt.Errorf("%w: pool %s is not the configured pool %s", ErrPolicyViolation, params.Pool, cfg.PoolID)
	}

	lockAddress, err := lockprogram.DeriveLockAccountAddress(params.Owner, params.PositionNftMint)
	if err != nil {
		return nil, err
	}
	if _, exists := e.ledger.GetAccount(lockAddress); exists {
		return nil, fmt.Errorf("%w: lock at %s", ErrAlreadyInitialized, lockAddress)
	}

	position, err := e.amm.OpenPosition(ctx, params.Owner, params.Pool, params.PositionNftMint)
	if err != nil {
		return nil, external(err)
	}

	liquidityDelta, err := e.amm.AddLiquidity(ctx, position, params.MaxAmountA, params.MaxAmountB)
	if err != nil {
		return nil, external(err)
	}
	if liquidityDelta.Sign() == 0 {
		return nil, fmt.Errorf("%w: deposit credited no liquidity", ErrZeroLiquidity)
	}

	now := e.ledger.CurrentPoint()
	schedule, err := e.strategy.Build(now, params.DurationMonths, liquidityDelta)
	if err != nil {
		return nil, err
	}
	if err = schedule.Validate(liquidityDelta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLiquidityTooSmall, err)
	}

	if err = e.amm.RegisterVesting(ctx, position, params.VestingID, schedule); err != nil {
		return nil, external(err)
	}

	if err = e.custodian.TransferPosition(params.PositionNftMint, params.Owner, e.escrowAuthority); err != nil {
		return nil, external(err)
	}

	lock := &lockprogram.LockAccount{
		User:              params.Owner,
		PositionNftMint:   params.PositionNftMint,
		Position:          position,
		VestingAccount:    params.VestingID,
		LockStart:         now,
		DurationMonths:    params.DurationMonths,
		Status:            lockprogram.LockStatusLocked,
		LockedLiquidity:   u128.GenUint128FromBig(liquidityDelta),
		UnlockedLiquidity: u128.GenUint128(0),
		Schedule:          schedule,
	}
	if err = lock.CheckInvariants(); err != nil {
		return nil, err
	}
	data, err := lockprogram.EncodeAccount(lock)
	if err != nil {
		return nil, err
	}

	var ws WriteSet
	ws.Set(lockAddress, data)
	e.ledger.Commit(&ws)
	return lock, nil
}

// UnlockResult reports what one unlock_liquidity call released.
type UnlockResult struct {
	Released *big.Int
	Lock     *lockprogram.LockAccount
}

// UnlockLiquidity releases currently-vested liquidity back to the lock's
// owner. A zero (or nil) requested amount releases everything eligible. When
// the lock fully unlocks, custody of the position NFT returns to the owner
// and the record is closed.
func (e *Engine) UnlockLiquidity(
	ctx context.Context,
	caller solana.PublicKey,
	lockAddress solana.PublicKey,
	requested *big.Int,
) (*UnlockResult, error) {
	data, ok := e.ledger.GetAccount(lockAddress)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLockNotFound, lockAddress)
	}
	obj, err := lockprogram.ParseAnyAccount(data)
	if err != nil {
		return nil, err
	}
	lock, ok := obj.(*lockprogram.LockAccount)
	if !ok {
		return nil, fmt.Errorf("account at %s is not a LockAccount", lockAddress)
	}

	if !caller.Equals(lock.User) {
		return nil, fmt.Errorf("%w: caller %s does not own lock %s", ErrUnauthorized, caller, lockAddress)
	}

	outstanding := lock.OutstandingLiquidity()
	if outstanding.Sign() == 0 {
		return nil, fmt.Errorf("%w: lock already fully unlocked", ErrNothingVested)
	}

	// 0 is the release-everything-vested sentinel; a concrete request is
	// capped at the outstanding amount so the AMM can never be asked for more.
	amount := big.NewInt(0)
	if requested != nil && requested.Sign() > 0 {
		amount = new(big.Int).Set(requested)
		if amount.Cmp(outstanding) > 0 {
			amount = outstanding
		}
	}

	released, err := e.amm.ReleaseLiquidity(ctx, lock.Position, amount, lock.User)
	if err != nil {
		return nil, external(err)
	}
	if released == nil || released.Sign() == 0 {
		return nil, fmt.Errorf("%w: no liquidity eligible yet", ErrNothingVested)
	}
	if released.Cmp(outstanding) > 0 {
		return nil, fmt.Errorf("%w: released %s exceeds outstanding %s", ErrExternalInvariantViolation, released, outstanding)
	}

	unlocked := new(big.Int).Add(lock.UnlockedLiquidity.BigInt(), released)
	lock.UnlockedLiquidity = u128.GenUint128FromBig(unlocked)

	var ws WriteSet
	if unlocked.Cmp(lock.LockedLiquidity.BigInt()) == 0 {
		if err = e.custodian.TransferPosition(lock.PositionNftMint, e.escrowAuthority, lock.User); err != nil {
			return nil, external(err)
		}
		lock.Status = lockprogram.LockStatusFullyUnlocked
		// rent returns to the owner once custody is back
		ws.Close(lockAddress)
	} else {
		lock.Status = lockprogram.LockStatusPartiallyUnlocked
		updated, err := lockprogram.EncodeAccount(lock)
		if err != nil {
			return nil, err
		}
		ws.Set(lockAddress, updated)
	}

	if err = lock.CheckInvariants(); err != nil {
		return nil, err
	}

	e.ledger.Commit(&ws)
	return &UnlockResult{Released: released, Lock: lock}, nil
}
