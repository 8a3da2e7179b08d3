package engine

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/liqlock-go/damm.v2/cp_amm"
	"github.com/krazyTry/liqlock-go/lockprogram"
	"github.com/krazyTry/liqlock-go/u128"
)

// SimulatedAMM is an in-process implementation of the AMM capability and the
// position custodian, backed by the cp-amm vesting arithmetic. It gives the
// engine a deterministic counterparty for tests and dry runs; position
// addresses come from the real cp-amm derivation so the bookkeeping matches
// what the chain would produce.
type SimulatedAMM struct {
	mu    sync.Mutex
	clock Clock

	positions  map[solana.PublicKey]*simPosition
	vestingIDs map[solana.PublicKey]solana.PublicKey
	nftOwners  map[solana.PublicKey]solana.PublicKey
	balances   map[solana.PublicKey]*simBalance
	released   map[solana.PublicKey]*big.Int
}

type simPosition struct {
	pool    solana.PublicKey
	nftMint solana.PublicKey
	vesting *cp_amm.Vesting
}

type simBalance struct {
	amountA *big.Int
	amountB *big.Int
}

func NewSimulatedAMM(clock Clock) *SimulatedAMM {
	return &SimulatedAMM{
		clock:      clock,
		positions:  make(map[solana.PublicKey]*simPosition),
		vestingIDs: make(map[solana.PublicKey]solana.PublicKey),
		nftOwners:  make(map[solana.PublicKey]solana.PublicKey),
		balances:   make(map[solana.PublicKey]*simBalance),
		released:   make(map[solana.PublicKey]*big.Int),
	}
}

// SetBalance constrains an owner's deposit funds. Owners without a balance
// entry are treated as fully funded.
func (s *SimulatedAMM) SetBalance(owner solana.PublicKey, amountA, amountB *big.Int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[owner] = &simBalance{
		amountA: new(big.Int).Set(amountA),
		amountB: new(big.Int).Set(amountB),
	}
}

func (s *SimulatedAMM) OpenPosition(ctx context.Context, owner, pool, positionNftMint solana.PublicKey) (solana.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, err := cp_amm.DerivePositionAddress(positionNftMint)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if _, exists := s.positions[position]; exists {
		return solana.PublicKey{}, fmt.Errorf("position %s already exists", position)
	}

	s.positions[position] = &simPosition{pool: pool, nftMint: positionNftMint}
	s.nftOwners[positionNftMint] = owner
	return position, nil
}

func (s *SimulatedAMM) AddLiquidity(ctx context.Context, position solana.PublicKey, maxAmountA, maxAmountB *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.positions[position]
	if !ok {
		return nil, fmt.Errorf("unknown position %s", position)
	}

	owner := s.nftOwners[pos.nftMint]
	if bal, constrained := s.balances[owner]; constrained {
		if bal.amountA.Cmp(maxAmountA) < 0 || bal.amountB.Cmp(maxAmountB) < 0 {
			return nil, fmt.Errorf("%w: owner %s cannot cover deposit", ErrInsufficientFunds, owner)
		}
		bal.amountA.Sub(bal.amountA, maxAmountA)
		bal.amountB.Sub(bal.amountB, maxAmountB)
	}

	// both sides deposit in full, the smaller one bounds the credited units
	delta := new(big.Int).Set(maxAmountA)
	if maxAmountB.Cmp(delta) < 0 {
		delta.Set(maxAmountB)
	}
	return delta, nil
}

func (s *SimulatedAMM) RegisterVesting(ctx context.Context, position, vestingID solana.PublicKey, schedule lockprogram.VestingSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.positions[position]
	if !ok {
		return fmt.Errorf("unknown position %s", position)
	}
	if _, used := s.vestingIDs[vestingID]; used {
		return fmt.Errorf("%w: vesting %s already registered", ErrDuplicateVestingID, vestingID)
	}
	if pos.vesting != nil {
		return fmt.Errorf("position %s already has a vesting", position)
	}

	s.vestingIDs[vestingID] = position
	pos.vesting = &cp_amm.Vesting{
		Position:               position,
		CliffPoint:             schedule.CliffPoint,
		PeriodFrequency:        schedule.PeriodFrequency,
		CliffUnlockLiquidity:   schedule.CliffUnlockLiquidity,
		LiquidityPerPeriod:     schedule.LiquidityPerPeriod,
		TotalReleasedLiquidity: u128.GenUint128(0),
		NumberOfPeriod:         schedule.NumberOfPeriods,
	}
	return nil
}

func (s *SimulatedAMM) ReleaseLiquidity(ctx context.Context, position solana.PublicKey, amount *big.Int, recipient solana.PublicKey) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.positions[position]
	if !ok {
		return nil, fmt.Errorf("unknown position %s", position)
	}
	if pos.vesting == nil {
		return nil, fmt.Errorf("position %s has no vesting", position)
	}

	currentPoint := new(big.Int).SetUint64(s.clock.CurrentPoint())
	eligible := cp_amm.GetAvailableVestingLiquidity(pos.vesting, currentPoint)
	if eligible.Sign() == 0 {
		return nil, fmt.Errorf("%w: nothing eligible at point %s", ErrNothingVested, currentPoint)
	}

	released := new(big.Int).Set(eligible)
	if amount != nil && amount.Sign() > 0 && amount.Cmp(released) < 0 {
		released.Set(amount)
	}

	totalReleased := new(big.Int).Add(pos.vesting.TotalReleasedLiquidity.BigInt(), released)
	pos.vesting.TotalReleasedLiquidity = u128.GenUint128FromBig(totalReleased)

	if prev, ok := s.released[recipient]; ok {
		prev.Add(prev, released)
	} else {
		s.released[recipient] = new(big.Int).Set(released)
	}
	return released, nil
}

// Vesting returns the vesting record of a position, for inspection.
func (s *SimulatedAMM) Vesting(position solana.PublicKey) (*cp_amm.Vesting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.positions[position]
	if !ok || pos.vesting == nil {
		return nil, false
	}
	v := *pos.vesting
	return &v, true
}

// ReleasedTo returns the cumulative liquidity released to a recipient.
func (s *SimulatedAMM) ReleasedTo(recipient solana.PublicKey) *big.Int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if total, ok := s.released[recipient]; ok {
		return new(big.Int).Set(total)
	}
	return big.NewInt(0)
}

func (s *SimulatedAMM) PositionOwner(positionNftMint solana.PublicKey) (solana.PublicKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.nftOwners[positionNftMint]
	return owner, ok
}

func (s *SimulatedAMM) TransferPosition(positionNftMint, from, to solana.PublicKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.nftOwners[positionNftMint]
	if !ok {
		return fmt.Errorf("unknown position nft %s", positionNftMint)
	}
	if !owner.Equals(from) {
		return fmt.Errorf("position nft %s is held by %s, not %s", positionNftMint, owner, from)
	}
	s.nftOwners[positionNftMint] = to
	return nil
}
