package cp_amm

import (
	"crypto/sha256"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// AddLiquidityParameters are the borsh args of cp-amm add_liquidity.
type AddLiquidityParameters struct {
	LiquidityDelta        binary.Uint128
	TokenAAmountThreshold uint64
	TokenBAmountThreshold uint64
}

// RemoveLiquidityParameters are the borsh args of cp-amm remove_liquidity.
type RemoveLiquidityParameters struct {
	LiquidityDelta        binary.Uint128
	TokenAAmountThreshold uint64
	TokenBAmountThreshold uint64
}

// VestingParameters are the borsh args of cp-amm lock_position.
type VestingParameters struct {
	CliffPoint           *uint64 `bin:"optional"`
	PeriodFrequency      uint64
	CliffUnlockLiquidity binary.Uint128
	LiquidityPerPeriod   binary.Uint128
	NumberOfPeriod       uint16
}

func instructionDiscriminator(name string) []byte {
	hash := sha256.Sum256([]byte("global:" + name))
	return hash[:8]
}

func encodeInstruction(name string, args any) ([]byte, error) {
	data := instructionDiscriminator(name)
	if args == nil {
		return data, nil
	}
	body, err := binary.MarshalBorsh(args)
	if err != nil {
		return nil, err
	}
	return append(data, body...), nil
}

func NewCreatePositionInstruction(
	owner solana.PublicKey,
	positionNftMint solana.PublicKey,
	positionNftAccount solana.PublicKey,
	pool solana.PublicKey,
	position solana.PublicKey,
	poolAuthority solana.PublicKey,
	payer solana.PublicKey,
	tokenProgram solana.PublicKey,
	systemProgram solana.PublicKey,
	eventAuthority solana.PublicKey,
	program solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeInstruction("create_position", nil)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(program, solana.AccountMetaSlice{
		solana.NewAccountMeta(owner, false, false),
		solana.NewAccountMeta(positionNftMint, true, true),
		solana.NewAccountMeta(positionNftAccount, true, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(position, true, false),
		solana.NewAccountMeta(poolAuthority, false, false),
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(tokenProgram, false, false),
		solana.NewAccountMeta(systemProgram, false, false),
		solana.NewAccountMeta(eventAuthority, false, false),
		solana.NewAccountMeta(program, false, false),
	}, data), nil
}

func NewAddLiquidityInstruction(
	params AddLiquidityParameters,
	pool solana.PublicKey,
	position solana.PublicKey,
	tokenAAccount solana.PublicKey,
	tokenBAccount solana.PublicKey,
	tokenAVault solana.PublicKey,
	tokenBVault solana.PublicKey,
	tokenAMint solana.PublicKey,
	tokenBMint solana.PublicKey,
	positionNftAccount solana.PublicKey,
	owner solana.PublicKey,
	tokenAProgram solana.PublicKey,
	tokenBProgram solana.PublicKey,
	eventAuthority solana.PublicKey,
	program solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeInstruction("add_liquidity", params)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(program, solana.AccountMetaSlice{
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(position, true, false),
		solana.NewAccountMeta(tokenAAccount, true, false),
		solana.NewAccountMeta(tokenBAccount, true, false),
		solana.NewAccountMeta(tokenAVault, true, false),
		solana.NewAccountMeta(tokenBVault, true, false),
		solana.NewAccountMeta(tokenAMint, false, false),
		solana.NewAccountMeta(tokenBMint, false, false),
		solana.NewAccountMeta(positionNftAccount, false, false),
		solana.NewAccountMeta(owner, false, true),
		solana.NewAccountMeta(tokenAProgram, false, false),
		solana.NewAccountMeta(tokenBProgram, false, false),
		solana.NewAccountMeta(eventAuthority, false, false),
		solana.NewAccountMeta(program, false, false),
	}, data), nil
}

func NewRemoveLiquidityInstruction(
	params RemoveLiquidityParameters,
	poolAuthority solana.PublicKey,
	pool solana.PublicKey,
	position solana.PublicKey,
	tokenAAccount solana.PublicKey,
	tokenBAccount solana.PublicKey,
	tokenAVault solana.PublicKey,
	tokenBVault solana.PublicKey,
	tokenAMint solana.PublicKey,
	tokenBMint solana.PublicKey,
	positionNftAccount solana.PublicKey,
	owner solana.PublicKey,
	tokenAProgram solana.PublicKey,
	tokenBProgram solana.PublicKey,
	eventAuthority solana.PublicKey,
	program solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeInstruction("remove_liquidity", params)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(program, removeLiquidityMetas(
		poolAuthority, pool, position,
		tokenAAccount, tokenBAccount, tokenAVault, tokenBVault,
		tokenAMint, tokenBMint, positionNftAccount, owner,
		tokenAProgram, tokenBProgram, eventAuthority, program,
	), data), nil
}

func NewRemoveAllLiquidityInstruction(
	tokenAAmountThreshold uint64,
	tokenBAmountThreshold uint64,
	poolAuthority solana.PublicKey,
	pool solana.PublicKey,
	position solana.PublicKey,
	tokenAAccount solana.PublicKey,
	tokenBAccount solana.PublicKey,
	tokenAVault solana.PublicKey,
	tokenBVault solana.PublicKey,
	tokenAMint solana.PublicKey,
	tokenBMint solana.PublicKey,
	positionNftAccount solana.PublicKey,
	owner solana.PublicKey,
	tokenAProgram solana.PublicKey,
	tokenBProgram solana.PublicKey,
	eventAuthority solana.PublicKey,
	program solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeInstruction("remove_all_liquidity", struct {
		TokenAAmountThreshold uint64
		TokenBAmountThreshold uint64
	}{tokenAAmountThreshold, tokenBAmountThreshold})
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(program, removeLiquidityMetas(
		poolAuthority, pool, position,
		tokenAAccount, tokenBAccount, tokenAVault, tokenBVault,
		tokenAMint, tokenBMint, positionNftAccount, owner,
		tokenAProgram, tokenBProgram, eventAuthority, program,
	), data), nil
}

func removeLiquidityMetas(
	poolAuthority, pool, position,
	tokenAAccount, tokenBAccount, tokenAVault, tokenBVault,
	tokenAMint, tokenBMint, positionNftAccount, owner,
	tokenAProgram, tokenBProgram, eventAuthority, program solana.PublicKey,
) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.NewAccountMeta(poolAuthority, false, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(position, true, false),
		solana.NewAccountMeta(tokenAAccount, true, false),
		solana.NewAccountMeta(tokenBAccount, true, false),
		solana.NewAccountMeta(tokenAVault, true, false),
		solana.NewAccountMeta(tokenBVault, true, false),
		solana.NewAccountMeta(tokenAMint, false, false),
		solana.NewAccountMeta(tokenBMint, false, false),
		solana.NewAccountMeta(positionNftAccount, false, false),
		solana.NewAccountMeta(owner, false, true),
		solana.NewAccountMeta(tokenAProgram, false, false),
		solana.NewAccountMeta(tokenBProgram, false, false),
		solana.NewAccountMeta(eventAuthority, false, false),
		solana.NewAccountMeta(program, false, false),
	}
}

func NewLockPositionInstruction(
	params VestingParameters,
	pool solana.PublicKey,
	position solana.PublicKey,
	vesting solana.PublicKey,
	positionNftAccount solana.PublicKey,
	owner solana.PublicKey,
	payer solana.PublicKey,
	systemProgram solana.PublicKey,
	eventAuthority solana.PublicKey,
	program solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeInstruction("lock_position", params)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(program, solana.AccountMetaSlice{
		solana.NewAccountMeta(pool, false, false),
		solana.NewAccountMeta(position, true, false),
		solana.NewAccountMeta(vesting, true, true),
		solana.NewAccountMeta(positionNftAccount, false, false),
		solana.NewAccountMeta(owner, false, true),
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(systemProgram, false, false),
		solana.NewAccountMeta(eventAuthority, false, false),
		solana.NewAccountMeta(program, false, false),
	}, data), nil
}

func NewRefreshVestingInstruction(
	pool solana.PublicKey,
	position solana.PublicKey,
	positionNftAccount solana.PublicKey,
	owner solana.PublicKey,
	vestingAccounts []*solana.AccountMeta,
) (solana.Instruction, error) {
	data, err := encodeInstruction("refresh_vesting", nil)
	if err != nil {
		return nil, err
	}
	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(pool, false, false),
		solana.NewAccountMeta(position, true, false),
		solana.NewAccountMeta(positionNftAccount, false, false),
		solana.NewAccountMeta(owner, false, false),
	}
	metas = append(metas, vestingAccounts...)
	return solana.NewInstruction(ProgramID, metas, data), nil
}

func NewClosePositionInstruction(
	positionNftMint solana.PublicKey,
	positionNftAccount solana.PublicKey,
	pool solana.PublicKey,
	position solana.PublicKey,
	poolAuthority solana.PublicKey,
	rentReceiver solana.PublicKey,
	owner solana.PublicKey,
	tokenProgram solana.PublicKey,
	eventAuthority solana.PublicKey,
	program solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeInstruction("close_position", nil)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(program, solana.AccountMetaSlice{
		solana.NewAccountMeta(positionNftMint, true, false),
		solana.NewAccountMeta(positionNftAccount, true, false),
		solana.NewAccountMeta(pool, true, false),
		solana.NewAccountMeta(position, true, false),
		solana.NewAccountMeta(poolAuthority, true, false),
		solana.NewAccountMeta(rentReceiver, true, false),
		solana.NewAccountMeta(owner, false, true),
		solana.NewAccountMeta(tokenProgram, false, false),
		solana.NewAccountMeta(eventAuthority, false, false),
		solana.NewAccountMeta(program, false, false),
	}, data), nil
}
