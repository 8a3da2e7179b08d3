package lockprogram

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// LockStatus is the lifecycle state of a LockAccount.
type LockStatus uint8

const (
	// LockStatusLocked means no liquidity has been released yet
	LockStatusLocked LockStatus = iota
	// LockStatusPartiallyUnlocked means some, but not all, liquidity has been released
	LockStatusPartiallyUnlocked
	// LockStatusFullyUnlocked means all liquidity was released and custody returned
	LockStatusFullyUnlocked
)

func (s LockStatus) String() string {
	switch s {
	case LockStatusLocked:
		return "Locked"
	case LockStatusPartiallyUnlocked:
		return "PartiallyUnlocked"
	case LockStatusFullyUnlocked:
		return "FullyUnlocked"
	default:
		return fmt.Sprintf("LockStatus(%d)", uint8(s))
	}
}

// VestingSchedule is the cliff + periodic unlock schedule registered with the
// AMM's vesting primitive and mirrored inside the LockAccount.
type VestingSchedule struct {
	CliffPoint           uint64
	PeriodFrequency      uint64
	CliffUnlockLiquidity binary.Uint128
	LiquidityPerPeriod   binary.Uint128
	NumberOfPeriods      uint16
}

// TotalLiquidity returns cliff_unlock_liquidity + liquidity_per_period * number_of_periods.
func (s *VestingSchedule) TotalLiquidity() *big.Int {
	total := new(big.Int).Mul(
		s.LiquidityPerPeriod.BigInt(),
		big.NewInt(int64(s.NumberOfPeriods)),
	)
	return total.Add(total, s.CliffUnlockLiquidity.BigInt())
}

// EndPoint returns the point at which the whole schedule has elapsed.
func (s *VestingSchedule) EndPoint() uint64 {
	return s.CliffPoint + s.PeriodFrequency*uint64(s.NumberOfPeriods)
}

// Validate checks the construction invariant against the locked amount.
// The sum must hold exactly; truncated schedules are construction errors.
func (s *VestingSchedule) Validate(lockedLiquidity *big.Int) error {
	if s.TotalLiquidity().Cmp(lockedLiquidity) != 0 {
		return fmt.Errorf("schedule sum %s != locked liquidity %s", s.TotalLiquidity(), lockedLiquidity)
	}
	if s.CliffUnlockLiquidity.BigInt().Sign() == 0 && s.LiquidityPerPeriod.BigInt().Sign() == 0 {
		return fmt.Errorf("schedule unlocks nothing")
	}
	return nil
}

// Config is the global policy singleton, created once by the admin.
type Config struct {
	PoolID     solana.PublicKey
	Admin      solana.PublicKey
	FeeBps     uint16
	RewardMint solana.PublicKey
}

// LockAccount is the per-lock escrow record, keyed by (user, position NFT mint).
type LockAccount struct {
	User              solana.PublicKey
	PositionNftMint   solana.PublicKey
	Position          solana.PublicKey
	VestingAccount    solana.PublicKey
	LockStart         uint64
	DurationMonths    uint8
	Status            LockStatus
	LockedLiquidity   binary.Uint128
	UnlockedLiquidity binary.Uint128
	Schedule          VestingSchedule
}

// OutstandingLiquidity returns locked - unlocked.
func (l *LockAccount) OutstandingLiquidity() *big.Int {
	return new(big.Int).Sub(l.LockedLiquidity.BigInt(), l.UnlockedLiquidity.BigInt())
}

// CheckInvariants verifies the record-level invariants that must hold after
// every mutation.
func (l *LockAccount) CheckInvariants() error {
	if err := l.Schedule.Validate(l.LockedLiquidity.BigInt()); err != nil {
		return err
	}
	unlocked := l.UnlockedLiquidity.BigInt()
	if unlocked.Sign() < 0 || unlocked.Cmp(l.LockedLiquidity.BigInt()) > 0 {
		return fmt.Errorf("unlocked liquidity %s outside [0, %s]", unlocked, l.LockedLiquidity.BigInt())
	}
	return nil
}

func accountDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("account:" + name))
	return hash[:8]
}

var (
	configDiscriminator      = accountDiscriminator(AccountKeyConfig)
	lockAccountDiscriminator = accountDiscriminator(AccountKeyLockAccount)
)

// EncodeAccount serializes an account with its 8-byte discriminator prefix.
func EncodeAccount(obj any) ([]byte, error) {
	var disc []byte
	switch obj.(type) {
	case *Config:
		disc = configDiscriminator
	case *LockAccount:
		disc = lockAccountDiscriminator
	default:
		return nil, fmt.Errorf("unknown account type %T", obj)
	}
	body, err := binary.MarshalBorsh(obj)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, disc...), body...), nil
}

// ParseAnyAccount decodes a program account from its raw data, dispatching on
// the 8-byte anchor discriminator.
func ParseAnyAccount(data []byte) (any, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("account data too short: %d", len(data))
	}

	disc, body := data[:8], data[8:]
	switch {
	case bytes.Equal(disc, configDiscriminator):
		obj := new(Config)
		if err := binary.NewBorshDecoder(body).Decode(obj); err != nil {
			return nil, err
		}
		return obj, nil
	case bytes.Equal(disc, lockAccountDiscriminator):
		obj := new(LockAccount)
		if err := binary.NewBorshDecoder(body).Decode(obj); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unknown account discriminator %x", disc)
	}
}
