package cp_amm

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// ProgramID is the Meteora DAMM v2 (cp-amm) program address.
var ProgramID = solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")

// Account key constants for the cp-amm account types this module reads
var (
	// AccountKeyPool is the account key for liquidity pool accounts
	AccountKeyPool = "Pool"
	// AccountKeyPosition is the account key for position accounts
	AccountKeyPosition = "Position"
	// AccountKeyVesting is the account key for vesting accounts
	AccountKeyVesting = "Vesting"
)

var (
	// BASIS_POINT_MAX represents the maximum basis points (10,000 = 100%)
	BASIS_POINT_MAX = decimal.NewFromInt(10_000)

	// MAX_FEE_BASIS_POINTS is the maximum fee in basis points
	MAX_FEE_BASIS_POINTS uint16 = 10000

	// U64_MAX is the unconstrained threshold for add/remove liquidity calls
	U64_MAX = ^uint64(0)
)

// TokenType represents the type of token program backing a mint
type TokenType uint8

const (
	// TokenTypeSPL represents standard SPL tokens
	TokenTypeSPL TokenType = iota
	// TokenTypeToken2022 represents Token-2022 program tokens
	TokenTypeToken2022
)

// ActivationType represents the unit the pool's clock runs in
type ActivationType uint8

const (
	// ActivationTypeSlot represents activation based on slot number
	ActivationTypeSlot ActivationType = iota
	// ActivationTypeTimestamp represents activation based on timestamp
	ActivationTypeTimestamp
)
