package dammV2

import (
	"github.com/gagliardetto/solana-go"
	"github.com/krazyTry/liqlock-go/damm.v2/cp_amm"
)

type Pool struct {
	*cp_amm.Pool
	Address solana.PublicKey
}

type Position struct {
	Position      solana.PublicKey
	PositionState *cp_amm.Position
}

type Vesting struct {
	Vesting      solana.PublicKey
	VestingState *cp_amm.Vesting
}

// PositionAccounts is the bundle of cp-amm addresses tied to one position
// NFT, derived without any RPC lookups.
type PositionAccounts struct {
	PositionNftMint    solana.PublicKey
	Position           solana.PublicKey
	PositionNftAccount solana.PublicKey
}

// DerivePositionAccounts recomputes the cp-amm addresses for a position NFT.
func DerivePositionAccounts(positionNftMint solana.PublicKey) (*PositionAccounts, error) {
	position, err := cp_amm.DerivePositionAddress(positionNftMint)
	if err != nil {
		return nil, err
	}
	positionNftAccount, err := cp_amm.DerivePositionNftAccount(positionNftMint)
	if err != nil {
		return nil, err
	}
	return &PositionAccounts{
		PositionNftMint:    positionNftMint,
		Position:           position,
		PositionNftAccount: positionNftAccount,
	}, nil
}
