package lockprogram

import (
	"crypto/sha256"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// InitializeConfigArgs are the borsh args of initialize_config.
type InitializeConfigArgs struct {
	PoolID     solana.PublicKey
	FeeBps     uint16
	RewardMint solana.PublicKey
}

// LockLiquidityArgs are the borsh args of lock_liquidity.
type LockLiquidityArgs struct {
	LiquidityDelta binary.Uint128
	DurationMonths uint8
}

// UnlockLiquidityArgs are the borsh args of unlock_liquidity.
// A zero LiquidityDelta means "release everything currently vested".
type UnlockLiquidityArgs struct {
	LiquidityDelta binary.Uint128
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

func NewInitializeConfigInstruction(
	args InitializeConfigArgs,
	config solana.PublicKey,
	admin solana.PublicKey,
	systemProgram solana.PublicKey,
) (solana.Instruction, error) {
	data, err := encodeInstruction("initialize_config", args)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(config, true, false),
		solana.NewAccountMeta(admin, true, true),
		solana.NewAccountMeta(systemProgram, false, false),
	}, data), nil
}

// LockLiquidityAccounts is the account bundle of lock_liquidity, in
// instruction order.
type LockLiquidityAccounts struct {
	Config             solana.PublicKey
	EscrowAuthority    solana.PublicKey
	LockAccount        solana.PublicKey
	UserTokenA         solana.PublicKey
	UserTokenB         solana.PublicKey
	PositionNftMint    solana.PublicKey // fresh signer
	PositionNftAccount solana.PublicKey
	EscrowNftAccount   solana.PublicKey
	Pool               solana.PublicKey
	Position           solana.PublicKey
	Vesting            solana.PublicKey // fresh signer
	PoolAuthority      solana.PublicKey
	TokenAVault        solana.PublicKey
	TokenBVault        solana.PublicKey
	TokenAMint         solana.PublicKey
	TokenBMint         solana.PublicKey
	EventAuthority     solana.PublicKey
	TokenProgram       solana.PublicKey
	AssociatedToken    solana.PublicKey
	SystemProgram      solana.PublicKey
	DammProgram        solana.PublicKey
	TokenAProgram      solana.PublicKey
	TokenBProgram      solana.PublicKey
	User               solana.PublicKey // signer, payer
}

func NewLockLiquidityInstruction(
	args LockLiquidityArgs,
	accounts LockLiquidityAccounts,
) (solana.Instruction, error) {
	data, err := encodeInstruction("lock_liquidity", args)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{
		solana.NewAccountMeta(accounts.Config, false, false),
		solana.NewAccountMeta(accounts.EscrowAuthority, false, false),
		solana.NewAccountMeta(accounts.LockAccount, true, false),
		solana.NewAccountMeta(accounts.UserTokenA, true, false),
		solana.NewAccountMeta(accounts.UserTokenB, true, false),
		solana.NewAccountMeta(accounts.PositionNftMint, true, true),
		solana.NewAccountMeta(accounts.PositionNftAccount, true, false),
		solana.NewAccountMeta(accounts.EscrowNftAccount, true, false),
		solana.NewAccountMeta(accounts.Pool, true, false),
		solana.NewAccountMeta(accounts.Position, true, false),
		solana.NewAccountMeta(accounts.Vesting, true, true),
		solana.NewAccountMeta(accounts.PoolAuthority, false, false),
		solana.NewAccountMeta(accounts.TokenAVault, true, false),
		solana.NewAccountMeta(accounts.TokenBVault, true, false),
		solana.NewAccountMeta(accounts.TokenAMint, false, false),
		solana.NewAccountMeta(accounts.TokenBMint, false, false),
		solana.NewAccountMeta(accounts.EventAuthority, false, false),
		solana.NewAccountMeta(accounts.TokenProgram, false, false),
		solana.NewAccountMeta(accounts.AssociatedToken, false, false),
		solana.NewAccountMeta(accounts.SystemProgram, false, false),
		solana.NewAccountMeta(accounts.DammProgram, false, false),
		solana.NewAccountMeta(accounts.TokenAProgram, false, false),
		solana.NewAccountMeta(accounts.TokenBProgram, false, false),
		solana.NewAccountMeta(accounts.User, true, true),
	}, data), nil
}

// UnlockLiquidityAccounts is the account bundle of unlock_liquidity, in
// instruction order. VestingAccounts carries the position's vesting records
// so the AMM refreshes eligibility before releasing.
type UnlockLiquidityAccounts struct {
	LockAccount      solana.PublicKey
	PositionNftMint  solana.PublicKey
	EscrowAuthority  solana.PublicKey
	UserTokenA       solana.PublicKey
	UserTokenB       solana.PublicKey
	EscrowNftAccount solana.PublicKey
	UserNftAccount   solana.PublicKey
	Pool             solana.PublicKey
	Position         solana.PublicKey
	TokenAVault      solana.PublicKey
	TokenBVault      solana.PublicKey
	TokenAMint       solana.PublicKey
	TokenBMint       solana.PublicKey
	EventAuthority   solana.PublicKey
	TokenProgram     solana.PublicKey
	Token2022Program solana.PublicKey
	AssociatedToken  solana.PublicKey
	SystemProgram    solana.PublicKey
	DammProgram      solana.PublicKey
	User             solana.PublicKey // signer
	VestingAccounts  []*solana.AccountMeta
}

func NewUnlockLiquidityInstruction(
	args UnlockLiquidityArgs,
	accounts UnlockLiquidityAccounts,
) (solana.Instruction, error) {
	data, err := encodeInstruction("unlock_liquidity", args)
	if err != nil {
		return nil, err
	}
	metas := solana.AccountMetaSlice{
		solana.NewAccountMeta(accounts.LockAccount, true, false),
		solana.NewAccountMeta(accounts.PositionNftMint, false, false),
		solana.NewAccountMeta(accounts.EscrowAuthority, false, false),
		solana.NewAccountMeta(accounts.UserTokenA, true, false),
		solana.NewAccountMeta(accounts.UserTokenB, true, false),
		solana.NewAccountMeta(accounts.EscrowNftAccount, true, false),
		solana.NewAccountMeta(accounts.UserNftAccount, true, false),
		solana.NewAccountMeta(accounts.Pool, true, false),
		solana.NewAccountMeta(accounts.Position, true, false),
		solana.NewAccountMeta(accounts.TokenAVault, true, false),
		solana.NewAccountMeta(accounts.TokenBVault, true, false),
		solana.NewAccountMeta(accounts.TokenAMint, false, false),
		solana.NewAccountMeta(accounts.TokenBMint, false, false),
		solana.NewAccountMeta(accounts.EventAuthority, false, false),
		solana.NewAccountMeta(accounts.TokenProgram, false, false),
		solana.NewAccountMeta(accounts.Token2022Program, false, false),
		solana.NewAccountMeta(accounts.AssociatedToken, false, false),
		solana.NewAccountMeta(accounts.SystemProgram, false, false),
		solana.NewAccountMeta(accounts.DammProgram, false, false),
		solana.NewAccountMeta(accounts.User, true, true),
	}
	metas = append(metas, accounts.VestingAccounts...)
	return solana.NewInstruction(ProgramID, metas, data), nil
}
