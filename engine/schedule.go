package engine

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/liqlock-go/lockprogram"
	"github.com/krazyTry/liqlock-go/u128"
)

// SecondsPerMonth is the fixed approximate month length the schedules use.
const SecondsPerMonth = uint64(30 * 24 * 3600)

// ScheduleStrategy turns (current point, duration, credited liquidity) into a
// vesting schedule. Every strategy must satisfy the exact-sum invariant
// cliff + per_period*periods == liquidity, or fail with ErrLiquidityTooSmall.
type ScheduleStrategy interface {
	Build(now uint64, durationMonths uint8, liquidity *big.Int) (lockprogram.VestingSchedule, error)
}

// SinglePeriodStrategy reserves a nominal 1-unit cliff one month before the
// end of the duration and releases the remainder in a single period, so the
// full amount is vested exactly when the requested duration elapses.
type SinglePeriodStrategy struct{}

func (SinglePeriodStrategy) Build(now uint64, durationMonths uint8, liquidity *big.Int) (lockprogram.VestingSchedule, error) {
	if durationMonths == 0 {
		return lockprogram.VestingSchedule{}, fmt.Errorf("%w: zero duration", ErrLiquidityTooSmall)
	}
	// the 1-unit cliff keeps the schedule strictly positive
	if liquidity.Cmp(big.NewInt(1)) <= 0 {
		return lockprogram.VestingSchedule{}, fmt.Errorf("%w: %s units cannot cover the cliff", ErrLiquidityTooSmall, liquidity)
	}

	perPeriod := new(big.Int).Sub(liquidity, big.NewInt(1))
	schedule := lockprogram.VestingSchedule{
		CliffPoint:           now + uint64(durationMonths-1)*SecondsPerMonth,
		PeriodFrequency:      SecondsPerMonth,
		CliffUnlockLiquidity: u128.GenUint128(1),
		LiquidityPerPeriod:   u128.GenUint128FromBig(perPeriod),
		NumberOfPeriods:      1,
	}
	if err := schedule.Validate(liquidity); err != nil {
		return lockprogram.VestingSchedule{}, fmt.Errorf("%w: %v", ErrLiquidityTooSmall, err)
	}
	return schedule, nil
}

// MonthlyStrategy spreads the liquidity over monthly unlocks: a cliff one
// month in, then equal releases each following month until the duration ends.
type MonthlyStrategy struct{}

func (MonthlyStrategy) Build(now uint64, durationMonths uint8, liquidity *big.Int) (lockprogram.VestingSchedule, error) {
	if durationMonths == 0 {
		return lockprogram.VestingSchedule{}, fmt.Errorf("%w: zero duration", ErrLiquidityTooSmall)
	}

	periods := uint64(durationMonths) - 1
	perPeriod := new(big.Int).Div(liquidity, big.NewInt(int64(durationMonths)))
	cliff := new(big.Int).Sub(liquidity, new(big.Int).Mul(perPeriod, new(big.Int).SetUint64(periods)))

	if cliff.Sign() <= 0 || (periods > 0 && perPeriod.Sign() <= 0) {
		return lockprogram.VestingSchedule{}, fmt.Errorf("%w: %s units over %d months", ErrLiquidityTooSmall, liquidity, durationMonths)
	}

	schedule := lockprogram.VestingSchedule{
		CliffPoint:           now + SecondsPerMonth,
		PeriodFrequency:      SecondsPerMonth,
		CliffUnlockLiquidity: u128.GenUint128FromBig(cliff),
		LiquidityPerPeriod:   u128.GenUint128FromBig(perPeriod),
		NumberOfPeriods:      uint16(periods),
	}
	if err := schedule.Validate(liquidity); err != nil {
		return lockprogram.VestingSchedule{}, fmt.Errorf("%w: %v", ErrLiquidityTooSmall, err)
	}
	return schedule, nil
}
