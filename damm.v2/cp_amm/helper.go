package cp_amm

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

func DerivePoolAuthorityPDA() (solana.PublicKey, error) {
	seeds := [][]byte{[]byte("pool_authority")}
	address, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return address, nil
}

// Derives the event authority PDA
func DeriveEventAuthorityPDA() (solana.PublicKey, error) {
	seeds := [][]byte{[]byte("__event_authority")}
	address, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return address, nil
}

func DerivePositionAddress(positionNft solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{[]byte("position"), positionNft.Bytes()}

	pda, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pda, nil
}

func DerivePositionNftAccount(positionNftMint solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{
		[]byte("position_nft_account"),
		positionNftMint.Bytes(),
	}
	pda, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pda, nil
}

func DeriveVestingAddress(position solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{[]byte("vesting"), position.Bytes()}

	pda, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pda, nil
}

func DeriveTokenVaultAddress(tokenMint, pool solana.PublicKey) (solana.PublicKey, error) {
	seeds := [][]byte{[]byte("token_vault"), tokenMint.Bytes(), pool.Bytes()}

	pda, _, err := solana.FindProgramAddress(seeds, ProgramID)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pda, nil
}

func GetTokenProgram(tokenType uint8) solana.PublicKey {
	if TokenType(tokenType) == TokenTypeSPL {
		return solana.TokenProgramID
	}
	return solana.Token2022ProgramID
}

// IsVestingComplete reports whether the schedule's final period has elapsed.
func IsVestingComplete(vesting *Vesting, currentPoint *big.Int) bool {
	// endPoint = cliffPoint + periodFrequency * numberOfPeriods
	endPoint := new(big.Int).Mul(
		new(big.Int).SetUint64(vesting.PeriodFrequency),
		big.NewInt(int64(vesting.NumberOfPeriod)),
	)
	endPoint.Add(endPoint, new(big.Int).SetUint64(vesting.CliffPoint))

	return currentPoint.Cmp(endPoint) >= 0
}

// GetAvailableVestingLiquidity returns the liquidity the schedule entitles at
// currentPoint that has not yet been released.
func GetAvailableVestingLiquidity(vesting *Vesting, currentPoint *big.Int) *big.Int {
	if currentPoint.Cmp(new(big.Int).SetUint64(vesting.CliffPoint)) < 0 {
		return big.NewInt(0)
	}

	if vesting.PeriodFrequency == 0 {
		return new(big.Int).Sub(
			vesting.CliffUnlockLiquidity.BigInt(),
			vesting.TotalReleasedLiquidity.BigInt(),
		)
	}

	passedPeriod := new(big.Int).Div(
		new(big.Int).Sub(currentPoint, new(big.Int).SetUint64(vesting.CliffPoint)),
		new(big.Int).SetUint64(vesting.PeriodFrequency),
	)

	if numberOfPeriod := big.NewInt(int64(vesting.NumberOfPeriod)); passedPeriod.Cmp(numberOfPeriod) > 0 {
		passedPeriod = numberOfPeriod
	}

	// total unlocked liquidity: cliff + (periods * per_period)
	unlockedLiquidity := new(big.Int).Add(
		vesting.CliffUnlockLiquidity.BigInt(),
		new(big.Int).Mul(passedPeriod, vesting.LiquidityPerPeriod.BigInt()),
	)

	return new(big.Int).Sub(unlockedLiquidity, vesting.TotalReleasedLiquidity.BigInt())
}

// IsPermanentLockedPosition reports whether any liquidity is locked forever.
func IsPermanentLockedPosition(positionState *Position) bool {
	return positionState.PermanentLockedLiquidity.BigInt().Sign() > 0
}

// CanUnlockPosition reports whether every vesting attached to the position has
// fully elapsed, so its liquidity can be withdrawn.
func CanUnlockPosition(positionState *Position, vestings []*Vesting, currentPoint *big.Int) error {
	if IsPermanentLockedPosition(positionState) {
		return ErrPositionPermanentLocked
	}
	for _, vesting := range vestings {
		if !IsVestingComplete(vesting, currentPoint) {
			return ErrPositionVesting
		}
	}
	return nil
}
