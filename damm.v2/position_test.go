package dammV2

import (
	"math/big"
	"testing"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/krazyTry/liqlock-go/damm.v2/cp_amm"
	"github.com/krazyTry/liqlock-go/u128"
)

func testVesting(cliffPoint uint64, periodFrequency uint64, numberOfPeriod uint16) *Vesting {
	return &Vesting{
		Vesting: solana.NewWallet().PublicKey(),
		VestingState: &cp_amm.Vesting{
			CliffPoint:           cliffPoint,
			PeriodFrequency:      periodFrequency,
			CliffUnlockLiquidity: u128.GenUint128(100),
			NumberOfPeriod:       numberOfPeriod,
		},
	}
}

func TestCanUnlockPosition(t *testing.T) {
	position := &Position{
		Position:      solana.NewWallet().PublicKey(),
		PositionState: &cp_amm.Position{},
	}

	t.Run("no vestings", func(t *testing.T) {
		require.NoError(t, canUnlockPosition(position, nil, big.NewInt(1000)))
	})

	t.Run("vesting elapsed", func(t *testing.T) {
		vestings := []*Vesting{testVesting(500, 100, 2)}
		require.NoError(t, canUnlockPosition(position, vestings, big.NewInt(700)))
	})

	t.Run("vesting still running", func(t *testing.T) {
		vestings := []*Vesting{testVesting(500, 100, 2)}
		err := canUnlockPosition(position, vestings, big.NewInt(699))
		require.ErrorIs(t, err, cp_amm.ErrPositionVesting)
	})

	t.Run("one of several still running", func(t *testing.T) {
		vestings := []*Vesting{
			testVesting(100, 0, 0),
			testVesting(500, 100, 2),
		}
		err := canUnlockPosition(position, vestings, big.NewInt(600))
		require.ErrorIs(t, err, cp_amm.ErrPositionVesting)
	})

	t.Run("permanent lock", func(t *testing.T) {
		locked := &Position{
			Position: solana.NewWallet().PublicKey(),
			PositionState: &cp_amm.Position{
				PermanentLockedLiquidity: binary.Uint128{Lo: 1},
			},
		}
		err := canUnlockPosition(locked, nil, big.NewInt(1000))
		require.ErrorIs(t, err, cp_amm.ErrPositionPermanentLocked)
	})
}
