package lockprogram

import "github.com/gagliardetto/solana-go"

// ProgramID is the liquidity locking program address.
var ProgramID = solana.MustPublicKeyFromBase58("DtnLiyCepzKfNiyFHBHEqabhrNe65tx8FPxLWQeh6JeC")

// PDA seeds of the program's persistent records.
var (
	// SeedConfig derives the Config singleton: ["config"]
	SeedConfig = []byte("config")
	// SeedLock derives a LockAccount: ["lock", user, position_nft_mint]
	SeedLock = []byte("lock")
	// SeedEscrowAuthority derives the escrow signer PDA: ["escrow_authority"]
	SeedEscrowAuthority = []byte("escrow_authority")
)

// Account key constants used for discriminators and program account filters
var (
	// AccountKeyConfig is the account key for the Config singleton
	AccountKeyConfig = "Config"
	// AccountKeyLockAccount is the account key for per-lock records
	AccountKeyLockAccount = "LockAccount"
)
