package lockprogram

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/liqlock-go/u128"
)

func sampleSchedule() VestingSchedule {
	return VestingSchedule{
		CliffPoint:           1_700_000_000,
		PeriodFrequency:      2_592_000,
		CliffUnlockLiquidity: u128.GenUint128(1),
		LiquidityPerPeriod:   u128.GenUint128(99),
		NumberOfPeriods:      1,
	}
}

func TestScheduleValidate(t *testing.T) {
	schedule := sampleSchedule()
	require.NoError(t, schedule.Validate(big.NewInt(100)))
	require.Error(t, schedule.Validate(big.NewInt(99)))
	require.Error(t, schedule.Validate(big.NewInt(101)))

	empty := VestingSchedule{}
	require.Error(t, empty.Validate(big.NewInt(0)))
}

func TestScheduleEndPoint(t *testing.T) {
	schedule := sampleSchedule()
	require.Equal(t, uint64(1_702_592_000), schedule.EndPoint())
	require.Zero(t, schedule.TotalLiquidity().Cmp(big.NewInt(100)))
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := &Config{
		PoolID:     solana.NewWallet().PublicKey(),
		Admin:      solana.NewWallet().PublicKey(),
		FeeBps:     250,
		RewardMint: solana.NewWallet().PublicKey(),
	}

	data, err := EncodeAccount(cfg)
	require.NoError(t, err)
	require.Equal(t, configDiscriminator, data[:8])

	obj, err := ParseAnyAccount(data)
	require.NoError(t, err)
	require.Equal(t, cfg, obj)
}

func TestLockAccountRoundTrip(t *testing.T) {
	lock := &LockAccount{
		User:              solana.NewWallet().PublicKey(),
		PositionNftMint:   solana.NewWallet().PublicKey(),
		Position:          solana.NewWallet().PublicKey(),
		VestingAccount:    solana.NewWallet().PublicKey(),
		LockStart:         1_700_000_000,
		DurationMonths:    2,
		Status:            LockStatusPartiallyUnlocked,
		LockedLiquidity:   u128.GenUint128(100),
		UnlockedLiquidity: u128.GenUint128(1),
		Schedule:          sampleSchedule(),
	}
	require.NoError(t, lock.CheckInvariants())
	require.Zero(t, lock.OutstandingLiquidity().Cmp(big.NewInt(99)))

	data, err := EncodeAccount(lock)
	require.NoError(t, err)

	obj, err := ParseAnyAccount(data)
	require.NoError(t, err)
	require.Equal(t, lock, obj)
}

func TestLockAccountInvariants(t *testing.T) {
	lock := &LockAccount{
		LockedLiquidity:   u128.GenUint128(100),
		UnlockedLiquidity: u128.GenUint128(101),
		Schedule:          sampleSchedule(),
	}
	// unlocked must never exceed locked
	require.Error(t, lock.CheckInvariants())

	lock.UnlockedLiquidity = u128.GenUint128(100)
	require.NoError(t, lock.CheckInvariants())
}

func TestParseAnyAccountRejectsGarbage(t *testing.T) {
	_, err := ParseAnyAccount([]byte{1, 2, 3})
	require.Error(t, err)

	_, err = ParseAnyAccount(make([]byte, 64))
	require.Error(t, err)
}
