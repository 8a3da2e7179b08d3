package locking

import (
	"context"
	"fmt"
	"math/big"

	dammV2 "github.com/krazyTry/liqlock-go/damm.v2"
	"github.com/krazyTry/liqlock-go/damm.v2/cp_amm"
	"github.com/krazyTry/liqlock-go/lockprogram"
	solanago "github.com/krazyTry/liqlock-go/solana"
	"github.com/krazyTry/liqlock-go/u128"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// LockLiquidityInstruction builds the instruction sequence that opens a fresh
// position, funds it with liquidityDelta, registers the vesting schedule and
// parks the position NFT with the escrow authority. positionNftMint and
// vesting must be fresh keypairs that also sign the transaction.
func LockLiquidityInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	user solana.PublicKey,
	poolState *dammV2.Pool,
	positionNftMint solana.PublicKey,
	vesting solana.PublicKey,
	liquidityDelta *big.Int,
	durationMonths uint8,
) ([]solana.Instruction, error) {
	if liquidityDelta.Cmp(big.NewInt(1)) <= 0 {
		return nil, fmt.Errorf("liquidityDelta must be greater than 1")
	}
	if durationMonths == 0 {
		return nil, fmt.Errorf("durationMonths must be greater than 0")
	}

	lockAccount, err := lockprogram.DeriveLockAccountAddress(user, positionNftMint)
	if err != nil {
		return nil, err
	}

	positionAccounts, err := dammV2.DerivePositionAccounts(positionNftMint)
	if err != nil {
		return nil, err
	}

	// the position NFT lives in a token-2022 account owned by the escrow PDA
	escrowNftAccount, err := solanago.FindAssociatedToken2022Address(escrowAuthority, positionNftMint)
	if err != nil {
		return nil, err
	}

	baseMint := poolState.TokenAMint
	quoteMint := poolState.TokenBMint

	var instructions []solana.Instruction

	baseTokenAccount, err := solanago.PrepareTokenATA(ctx, rpcClient, user, baseMint, user, &instructions)
	if err != nil {
		return nil, err
	}

	quoteTokenAccount, err := solanago.PrepareTokenATA(ctx, rpcClient, user, quoteMint, user, &instructions)
	if err != nil {
		return nil, err
	}

	lockIx, err := lockprogram.NewLockLiquidityInstruction(
		lockprogram.LockLiquidityArgs{
			LiquidityDelta: u128.GenUint128FromString(liquidityDelta.String()),
			DurationMonths: durationMonths,
		},
		lockprogram.LockLiquidityAccounts{
			Config:             configAddress,
			EscrowAuthority:    escrowAuthority,
			LockAccount:        lockAccount,
			UserTokenA:         baseTokenAccount,
			UserTokenB:         quoteTokenAccount,
			PositionNftMint:    positionNftMint,
			PositionNftAccount: positionAccounts.PositionNftAccount,
			EscrowNftAccount:   escrowNftAccount,
			Pool:               poolState.Address,
			Position:           positionAccounts.Position,
			Vesting:            vesting,
			PoolAuthority:      dammV2.PoolAuthority(),
			TokenAVault:        poolState.TokenAVault,
			TokenBVault:        poolState.TokenBVault,
			TokenAMint:         baseMint,
			TokenBMint:         quoteMint,
			EventAuthority:     dammV2.EventAuthority(),
			TokenProgram:       solana.Token2022ProgramID,
			AssociatedToken:    solana.SPLAssociatedTokenAccountProgramID,
			SystemProgram:      solana.SystemProgramID,
			DammProgram:        cp_amm.ProgramID,
			TokenAProgram:      cp_amm.GetTokenProgram(poolState.TokenAFlag),
			TokenBProgram:      cp_amm.GetTokenProgram(poolState.TokenBFlag),
			User:               user,
		},
	)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, lockIx)

	return instructions, nil
}

// LockLiquidity locks liquidityDelta into a fresh escrowed position for the
// user. It generates the position NFT mint and vesting keypairs, returns the
// NFT mint so the caller can derive the lock record later.
func (l *Locking) LockLiquidity(
	ctx context.Context,
	wsClient *ws.Client,
	user *solana.Wallet,
	poolState *dammV2.Pool,
	liquidityDelta *big.Int,
	durationMonths uint8,
) (solana.PublicKey, string, error) {
	positionNftMint := solana.NewWallet()
	vesting := solana.NewWallet()

	instructions, err := LockLiquidityInstruction(
		ctx,
		l.rpcClient,
		user.PublicKey(),
		poolState,
		positionNftMint.PublicKey(),
		vesting.PublicKey(),
		liquidityDelta,
		durationMonths,
	)
	if err != nil {
		return solana.PublicKey{}, "", err
	}

	sig, err := solanago.SendTransaction(ctx,
		l.rpcClient,
		wsClient,
		instructions,
		user.PublicKey(),
		func(key solana.PublicKey) *solana.PrivateKey {
			switch {
			case key.Equals(user.PublicKey()):
				return &user.PrivateKey
			case key.Equals(positionNftMint.PublicKey()):
				return &positionNftMint.PrivateKey
			case key.Equals(vesting.PublicKey()):
				return &vesting.PrivateKey
			default:
				return nil
			}
		},
	)
	if err != nil {
		return solana.PublicKey{}, "", err
	}
	return positionNftMint.PublicKey(), sig.String(), nil
}
