package cp_amm

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/liqlock-go/u128"
)

func testVesting() *Vesting {
	return &Vesting{
		CliffPoint:             1_000,
		PeriodFrequency:        100,
		CliffUnlockLiquidity:   u128.GenUint128(10),
		LiquidityPerPeriod:     u128.GenUint128(30),
		TotalReleasedLiquidity: u128.GenUint128(0),
		NumberOfPeriod:         3,
	}
}

func TestGetAvailableVestingLiquidity(t *testing.T) {
	for _, tc := range []struct {
		name         string
		currentPoint int64
		released     uint64
		want         int64
	}{
		{"before cliff", 999, 0, 0},
		{"at cliff", 1_000, 0, 10},
		{"mid period", 1_050, 0, 10},
		{"after first period", 1_100, 0, 40},
		{"after all periods", 1_300, 0, 100},
		{"far past end", 10_000, 0, 100},
		{"partially released", 1_300, 40, 60},
		{"fully released", 1_300, 100, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			vesting := testVesting()
			vesting.TotalReleasedLiquidity = u128.GenUint128(tc.released)

			got := GetAvailableVestingLiquidity(vesting, big.NewInt(tc.currentPoint))
			require.Zero(t, got.Cmp(big.NewInt(tc.want)), "available = %s", got)
		})
	}
}

func TestGetAvailableVestingLiquidityCliffOnly(t *testing.T) {
	vesting := testVesting()
	vesting.PeriodFrequency = 0
	vesting.NumberOfPeriod = 0

	require.Zero(t, GetAvailableVestingLiquidity(vesting, big.NewInt(999)).Sign())
	require.Zero(t, GetAvailableVestingLiquidity(vesting, big.NewInt(1_000)).Cmp(big.NewInt(10)))
}

func TestIsVestingComplete(t *testing.T) {
	vesting := testVesting()

	require.False(t, IsVestingComplete(vesting, big.NewInt(1_299)))
	require.True(t, IsVestingComplete(vesting, big.NewInt(1_300)))
}

func TestCanUnlockPosition(t *testing.T) {
	position := &Position{}
	vesting := testVesting()

	err := CanUnlockPosition(position, []*Vesting{vesting}, big.NewInt(1_100))
	require.ErrorIs(t, err, ErrPositionVesting)

	err = CanUnlockPosition(position, []*Vesting{vesting}, big.NewInt(1_300))
	require.NoError(t, err)

	position.PermanentLockedLiquidity = u128.GenUint128(1)
	err = CanUnlockPosition(position, []*Vesting{vesting}, big.NewInt(1_300))
	require.ErrorIs(t, err, ErrPositionPermanentLocked)
}

func TestDerivePositionAddresses(t *testing.T) {
	nftMint := solana.NewWallet().PublicKey()

	position, err := DerivePositionAddress(nftMint)
	require.NoError(t, err)
	nftAccount, err := DerivePositionNftAccount(nftMint)
	require.NoError(t, err)
	vesting, err := DeriveVestingAddress(position)
	require.NoError(t, err)

	require.NotEqual(t, position, nftAccount)
	require.NotEqual(t, position, vesting)
	require.False(t, solana.IsOnCurve(position.Bytes()))
	require.False(t, solana.IsOnCurve(vesting.Bytes()))
}

func TestDeriveTokenVaultAddress(t *testing.T) {
	pool := solana.NewWallet().PublicKey()
	mintA := solana.NewWallet().PublicKey()
	mintB := solana.NewWallet().PublicKey()

	vaultA, err := DeriveTokenVaultAddress(mintA, pool)
	require.NoError(t, err)
	vaultB, err := DeriveTokenVaultAddress(mintB, pool)
	require.NoError(t, err)

	require.NotEqual(t, vaultA, vaultB)
	require.False(t, solana.IsOnCurve(vaultA.Bytes()))

	again, err := DeriveTokenVaultAddress(mintA, pool)
	require.NoError(t, err)
	require.Equal(t, vaultA, again)
}
