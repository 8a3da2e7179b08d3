package dammV2

import (
	"context"
	"fmt"
	"math/big"

	"github.com/krazyTry/liqlock-go/damm.v2/cp_amm"
	solanago "github.com/krazyTry/liqlock-go/solana"
	"github.com/krazyTry/liqlock-go/u128"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// CreatePositionInstruction builds the cp-amm create_position instruction for
// a fresh position NFT mint. The mint must sign the transaction.
func CreatePositionInstruction(
	owner solana.PublicKey,
	payer solana.PublicKey,
	poolAddress solana.PublicKey,
	positionNftMint solana.PublicKey,
) ([]solana.Instruction, error) {
	positionAccounts, err := DerivePositionAccounts(positionNftMint)
	if err != nil {
		return nil, err
	}

	positionIx, err := cp_amm.NewCreatePositionInstruction(
		owner,
		positionNftMint,
		positionAccounts.PositionNftAccount,
		poolAddress,
		positionAccounts.Position,
		poolAuthority,
		payer,
		solana.Token2022ProgramID,
		solana.SystemProgramID,
		eventAuthority,
		cp_amm.ProgramID,
	)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{positionIx}, nil
}

// CreatePosition opens a position on the pool, held directly by the owner.
func (m *DammV2) CreatePosition(
	ctx context.Context,
	wsClient *ws.Client,
	owner *solana.Wallet,
	poolAddress solana.PublicKey,
) (solana.PublicKey, string, error) {
	positionNftMint := solana.NewWallet()

	instructions, err := CreatePositionInstruction(
		owner.PublicKey(),
		owner.PublicKey(),
		poolAddress,
		positionNftMint.PublicKey(),
	)
	if err != nil {
		return solana.PublicKey{}, "", err
	}

	sig, err := solanago.SendTransaction(ctx,
		m.rpcClient,
		wsClient,
		instructions,
		owner.PublicKey(),
		func(key solana.PublicKey) *solana.PrivateKey {
			switch {
			case key.Equals(owner.PublicKey()):
				return &owner.PrivateKey
			case key.Equals(positionNftMint.PublicKey()):
				return &positionNftMint.PrivateKey
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

// AddPositionLiquidityInstruction builds the cp-amm add_liquidity instruction
// for a position the owner holds directly.
func AddPositionLiquidityInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	owner solana.PublicKey,
	poolState *Pool,
	positionNftMint solana.PublicKey,
	liquidityDelta *big.Int,
	tokenAAmountThreshold uint64,
	tokenBAmountThreshold uint64,
) ([]solana.Instruction, error) {
	if liquidityDelta.Sign() <= 0 {
		return nil, fmt.Errorf("liquidityDelta must be greater than 0")
	}

	positionAccounts, err := DerivePositionAccounts(positionNftMint)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction

	tokenAAccount, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenAMint, owner, &instructions)
	if err != nil {
		return nil, err
	}

	tokenBAccount, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenBMint, owner, &instructions)
	if err != nil {
		return nil, err
	}

	if poolState.TokenAMint.Equals(solana.WrappedSol) {
		// wrap SOL by transferring lamports into the WSOL ATA
		wrapSOLIx := system.NewTransferInstruction(
			tokenAAmountThreshold,
			owner,
			tokenAAccount,
		).Build()

		// sync the WSOL account to update its balance
		syncNativeIx := token.NewSyncNativeInstruction(
			tokenAAccount,
		).Build()

		instructions = append(instructions, wrapSOLIx, syncNativeIx)
	}

	if poolState.TokenBMint.Equals(solana.WrappedSol) {
		// wrap SOL by transferring lamports into the WSOL ATA
		wrapSOLIx := system.NewTransferInstruction(
			tokenBAmountThreshold,
			owner,
			tokenBAccount,
		).Build()

		// sync the WSOL account to update its balance
		syncNativeIx := token.NewSyncNativeInstruction(
			tokenBAccount,
		).Build()

		instructions = append(instructions, wrapSOLIx, syncNativeIx)
	}

	liquidityIx, err := cp_amm.NewAddLiquidityInstruction(
		cp_amm.AddLiquidityParameters{
			LiquidityDelta:        u128.GenUint128FromString(liquidityDelta.String()),
			TokenAAmountThreshold: tokenAAmountThreshold,
			TokenBAmountThreshold: tokenBAmountThreshold,
		},
		poolState.Address,
		positionAccounts.Position,
		tokenAAccount,
		tokenBAccount,
		poolState.TokenAVault,
		poolState.TokenBVault,
		poolState.TokenAMint,
		poolState.TokenBMint,
		positionAccounts.PositionNftAccount,
		owner,
		cp_amm.GetTokenProgram(poolState.TokenAFlag),
		cp_amm.GetTokenProgram(poolState.TokenBFlag),
		eventAuthority,
		cp_amm.ProgramID,
	)
	if err != nil {
		return nil, err
	}
	return append(instructions, liquidityIx), nil
}

// LockPositionInstruction builds the cp-amm lock_position instruction,
// registering a vesting schedule against a position the owner holds directly.
// vesting must be a fresh keypair that also signs.
func LockPositionInstruction(
	poolAddress solana.PublicKey,
	positionNftMint solana.PublicKey,
	vesting solana.PublicKey,
	owner solana.PublicKey,
	params cp_amm.VestingParameters,
) ([]solana.Instruction, error) {
	positionAccounts, err := DerivePositionAccounts(positionNftMint)
	if err != nil {
		return nil, err
	}

	lockIx, err := cp_amm.NewLockPositionInstruction(
		params,
		poolAddress,
		positionAccounts.Position,
		vesting,
		positionAccounts.PositionNftAccount,
		owner,
		owner,
		solana.SystemProgramID,
		eventAuthority,
		cp_amm.ProgramID,
	)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{lockIx}, nil
}

// AddPositionLiquidity deposits liquidity into an owner-held position.
func (m *DammV2) AddPositionLiquidity(
	ctx context.Context,
	wsClient *ws.Client,
	owner *solana.Wallet,
	poolState *Pool,
	positionNftMint solana.PublicKey,
	liquidityDelta *big.Int,
	tokenAAmountThreshold uint64,
	tokenBAmountThreshold uint64,
) (string, error) {
	instructions, err := AddPositionLiquidityInstruction(
		ctx,
		m.rpcClient,
		owner.PublicKey(),
		poolState,
		positionNftMint,
		liquidityDelta,
		tokenAAmountThreshold,
		tokenBAmountThreshold,
	)
	if err != nil {
		return "", err
	}

	sig, err := solanago.SendTransaction(ctx,
		m.rpcClient,
		wsClient,
		instructions,
		owner.PublicKey(),
		func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(owner.PublicKey()) {
				return &owner.PrivateKey
			}
			return nil
		},
	)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// LockPosition registers a vesting schedule against an owner-held position.
func (m *DammV2) LockPosition(
	ctx context.Context,
	wsClient *ws.Client,
	owner *solana.Wallet,
	poolAddress solana.PublicKey,
	positionNftMint solana.PublicKey,
	params cp_amm.VestingParameters,
) (string, error) {
	vesting := solana.NewWallet()

	instructions, err := LockPositionInstruction(
		poolAddress,
		positionNftMint,
		vesting.PublicKey(),
		owner.PublicKey(),
		params,
	)
	if err != nil {
		return "", err
	}

	sig, err := solanago.SendTransaction(ctx,
		m.rpcClient,
		wsClient,
		instructions,
		owner.PublicKey(),
		func(key solana.PublicKey) *solana.PrivateKey {
			switch {
			case key.Equals(owner.PublicKey()):
				return &owner.PrivateKey
			case key.Equals(vesting.PublicKey()):
				return &vesting.PrivateKey
			default:
				return nil
			}
		},
	)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// canUnlockPosition checks the position against its attached vestings,
// unwrapping the package's wrapper types into cp-amm state first.
func canUnlockPosition(positionState *Position, vestings []*Vesting, currentPoint *big.Int) error {
	states := make([]*cp_amm.Vesting, len(vestings))
	for i, v := range vestings {
		states[i] = v.VestingState
	}
	return cp_amm.CanUnlockPosition(positionState.PositionState, states, currentPoint)
}

// RemovePositionLiquidityInstruction builds the instruction sequence that
// withdraws liquidityDelta from an owner-held position. Elapsed vestings are
// refreshed first so their liquidity counts as withdrawable.
func RemovePositionLiquidityInstruction(
	ctx context.Context,
	rpcClient *rpc.Client,
	owner solana.PublicKey,
	poolState *Pool,
	positionState *Position,
	positionNftMint solana.PublicKey,
	liquidityDelta *big.Int,
	vestings []*Vesting,
) ([]solana.Instruction, error) {
	currentPoint, err := solanago.CurrentPoint(ctx, rpcClient, poolState.ActivationType)
	if err != nil {
		return nil, err
	}
	if err = canUnlockPosition(positionState, vestings, currentPoint); err != nil {
		return nil, err
	}

	positionAccounts, err := DerivePositionAccounts(positionNftMint)
	if err != nil {
		return nil, err
	}

	var instructions []solana.Instruction

	tokenAAccount, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenAMint, owner, &instructions)
	if err != nil {
		return nil, err
	}

	tokenBAccount, err := solanago.PrepareTokenATA(ctx, rpcClient, owner, poolState.TokenBMint, owner, &instructions)
	if err != nil {
		return nil, err
	}

	if len(vestings) > 0 {
		var vestingAccounts []*solana.AccountMeta
		for _, v := range vestings {
			vestingAccounts = append(vestingAccounts, solana.NewAccountMeta(v.Vesting, true, false))
		}

		refreshVestingIx, err := cp_amm.NewRefreshVestingInstruction(
			poolState.Address,
			positionAccounts.Position,
			positionAccounts.PositionNftAccount,
			owner,
			vestingAccounts,
		)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, refreshVestingIx)
	}

	var removeIx solana.Instruction
	if liquidityDelta == nil {
		removeIx, err = cp_amm.NewRemoveAllLiquidityInstruction(
			0,
			0,
			poolAuthority,
			poolState.Address,
			positionAccounts.Position,
			tokenAAccount,
			tokenBAccount,
			poolState.TokenAVault,
			poolState.TokenBVault,
			poolState.TokenAMint,
			poolState.TokenBMint,
			positionAccounts.PositionNftAccount,
			owner,
			cp_amm.GetTokenProgram(poolState.TokenAFlag),
			cp_amm.GetTokenProgram(poolState.TokenBFlag),
			eventAuthority,
			cp_amm.ProgramID,
		)
	} else {
		removeIx, err = cp_amm.NewRemoveLiquidityInstruction(
			cp_amm.RemoveLiquidityParameters{
				LiquidityDelta:        u128.GenUint128FromString(liquidityDelta.String()),
				TokenAAmountThreshold: 0,
				TokenBAmountThreshold: 0,
			},
			poolAuthority,
			poolState.Address,
			positionAccounts.Position,
			tokenAAccount,
			tokenBAccount,
			poolState.TokenAVault,
			poolState.TokenBVault,
			poolState.TokenAMint,
			poolState.TokenBMint,
			positionAccounts.PositionNftAccount,
			owner,
			cp_amm.GetTokenProgram(poolState.TokenAFlag),
			cp_amm.GetTokenProgram(poolState.TokenBFlag),
			eventAuthority,
			cp_amm.ProgramID,
		)
	}
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, removeIx)

	if poolState.TokenAMint.Equals(solana.WrappedSol) {
		unwrapIx := token.NewCloseAccountInstruction(
			tokenAAccount,
			owner,
			owner,
			nil,
		).Build()
		instructions = append(instructions, unwrapIx)
	}

	if poolState.TokenBMint.Equals(solana.WrappedSol) {
		unwrapIx := token.NewCloseAccountInstruction(
			tokenBAccount,
			owner,
			owner,
			nil,
		).Build()
		instructions = append(instructions, unwrapIx)
	}

	return instructions, nil
}

// ClosePositionInstruction builds the cp-amm close_position instruction. The
// position must hold no liquidity.
func ClosePositionInstruction(
	owner solana.PublicKey,
	poolAddress solana.PublicKey,
	positionNftMint solana.PublicKey,
) ([]solana.Instruction, error) {
	positionAccounts, err := DerivePositionAccounts(positionNftMint)
	if err != nil {
		return nil, err
	}

	closeIx, err := cp_amm.NewClosePositionInstruction(
		positionNftMint,
		positionAccounts.PositionNftAccount,
		poolAddress,
		positionAccounts.Position,
		poolAuthority,
		owner,
		owner,
		solana.Token2022ProgramID,
		eventAuthority,
		cp_amm.ProgramID,
	)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{closeIx}, nil
}

// WithdrawPosition drains and closes a position the owner holds directly,
// the usual followup once a full unlock returned custody: refresh elapsed
// vestings, remove all liquidity, close the position.
func (m *DammV2) WithdrawPosition(
	ctx context.Context,
	wsClient *ws.Client,
	owner *solana.Wallet,
	poolState *Pool,
	positionNftMint solana.PublicKey,
) (string, error) {
	positionAccounts, err := DerivePositionAccounts(positionNftMint)
	if err != nil {
		return "", err
	}

	positionState, err := m.GetPosition(ctx, positionAccounts.Position)
	if err != nil {
		return "", err
	}
	if positionState == nil {
		return "", fmt.Errorf("no matching position")
	}

	vestings, err := m.GetVestingsByPosition(ctx, positionAccounts.Position)
	if err != nil {
		return "", err
	}

	instructions, err := RemovePositionLiquidityInstruction(
		ctx,
		m.rpcClient,
		owner.PublicKey(),
		poolState,
		positionState,
		positionNftMint,
		nil,
		vestings,
	)
	if err != nil {
		return "", err
	}

	closeInstructions, err := ClosePositionInstruction(
		owner.PublicKey(),
		poolState.Address,
		positionNftMint,
	)
	if err != nil {
		return "", err
	}
	instructions = append(instructions, closeInstructions...)

	sig, err := solanago.SendTransaction(ctx,
		m.rpcClient,
		wsClient,
		instructions,
		owner.PublicKey(),
		func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(owner.PublicKey()) {
				return &owner.PrivateKey
			}
			return nil
		},
	)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}
