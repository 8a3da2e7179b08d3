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

// UnlockQuote reports how much liquidity the lock's schedule has vested and
// not yet released, at the pool's current activation point.
func (l *Locking) UnlockQuote(
	ctx context.Context,
	poolState *dammV2.Pool,
	lockState *lockprogram.LockAccount,
) (*big.Int, error) {
	currentPoint, err := solanago.CurrentPoint(ctx, l.rpcClient, poolState.ActivationType)
	if err != nil {
		return nil, err
	}

	vestings, err := dammV2.GetVestingsByPosition(ctx, l.rpcClient, lockState.Position)
	if err != nil {
		return nil, err
	}

	available := big.NewInt(0)
	for _, v := range vestings {
		available.Add(available, cp_amm.GetAvailableVestingLiquidity(v.VestingState, currentPoint))
	}

	// the on-chain record caps what the program will actually pay out
	if outstanding := lockState.OutstandingLiquidity(); available.Cmp(outstanding) > 0 {
		available = outstanding
	}
	return available, nil
}

// UnlockLiquidityInstruction builds the instruction sequence that releases
// vested liquidity back to the user. A nil or zero liquidityDelta releases
// everything currently vested.
func UnlockLiquidityInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	user solana.PublicKey,
	poolState *dammV2.Pool,
	lockState *lockprogram.LockAccount,
	liquidityDelta *big.Int,
) ([]solana.Instruction, error) {
	lockAccount, err := lockprogram.DeriveLockAccountAddress(lockState.User, lockState.PositionNftMint)
	if err != nil {
		return nil, err
	}

	escrowNftAccount, err := solanago.FindAssociatedToken2022Address(escrowAuthority, lockState.PositionNftMint)
	if err != nil {
		return nil, err
	}

	userNftAccount, err := solanago.FindAssociatedToken2022Address(user, lockState.PositionNftMint)
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

	vestings, err := dammV2.GetVestingsByPosition(ctx, rpcClient, lockState.Position)
	if err != nil {
		return nil, err
	}

	var vestingAccounts []*solana.AccountMeta
	for _, v := range vestings {
		vestingAccounts = append(vestingAccounts, solana.NewAccountMeta(v.Vesting, true, false))
	}

	delta := u128.GenUint128(0)
	if liquidityDelta != nil {
		delta = u128.GenUint128FromString(liquidityDelta.String())
	}

	unlockIx, err := lockprogram.NewUnlockLiquidityInstruction(
		lockprogram.UnlockLiquidityArgs{
			LiquidityDelta: delta,
		},
		lockprogram.UnlockLiquidityAccounts{
			LockAccount:      lockAccount,
			PositionNftMint:  lockState.PositionNftMint,
			EscrowAuthority:  escrowAuthority,
			UserTokenA:       baseTokenAccount,
			UserTokenB:       quoteTokenAccount,
			EscrowNftAccount: escrowNftAccount,
			UserNftAccount:   userNftAccount,
			Pool:             poolState.Address,
			Position:         lockState.Position,
			TokenAVault:      poolState.TokenAVault,
			TokenBVault:      poolState.TokenBVault,
			TokenAMint:       baseMint,
			TokenBMint:       quoteMint,
			EventAuthority:   dammV2.EventAuthority(),
			TokenProgram:     cp_amm.GetTokenProgram(poolState.TokenAFlag),
			Token2022Program: solana.Token2022ProgramID,
			AssociatedToken:  solana.SPLAssociatedTokenAccountProgramID,
			SystemProgram:    solana.SystemProgramID,
			DammProgram:      cp_amm.ProgramID,
			User:             user,
			VestingAccounts:  vestingAccounts,
		},
	)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, unlockIx)

	return instructions, nil
}

// UnlockLiquidity releases vested liquidity from the user's lock identified
// by positionNftMint. A nil or zero liquidityDelta releases everything
// currently vested.
func (l *Locking) UnlockLiquidity(
	ctx context.Context,
	wsClient *ws.Client,
	user *solana.Wallet,
	poolState *dammV2.Pool,
	positionNftMint solana.PublicKey,
	liquidityDelta *big.Int,
) (string, error) {
	lockState, err := l.GetLockAccount(ctx, user.PublicKey(), positionNftMint)
	if err != nil {
		return "", err
	}
	if lockState == nil {
		return "", fmt.Errorf("no matching lock_account")
	}

	instructions, err := UnlockLiquidityInstruction(
		ctx,
		l.rpcClient,
		user.PublicKey(),
		poolState,
		lockState,
		liquidityDelta,
	)
	if err != nil {
		return "", err
	}

	sig, err := solanago.SendTransaction(ctx,
		l.rpcClient,
		wsClient,
		instructions,
		user.PublicKey(),
		func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(user.PublicKey()) {
				return &user.PrivateKey
			}
			return nil
		},
	)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}
