package engine

import (
	"context"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/krazyTry/liqlock-go/lockprogram"
)

// AMM is the capability interface over the external market maker. The engine
// never mirrors AMM-side state locally; every response is treated as
// untrusted input and checked against the engine's own bookkeeping.
type AMM interface {
	// OpenPosition mints positionNftMint as a fresh position on pool and
	// returns the position's address.
	OpenPosition(ctx context.Context, owner, pool, positionNftMint solana.PublicKey) (solana.PublicKey, error)

	// AddLiquidity deposits up to the given token amounts into the position
	// and returns the liquidity units actually credited.
	AddLiquidity(ctx context.Context, position solana.PublicKey, maxAmountA, maxAmountB *big.Int) (*big.Int, error)

	// RegisterVesting locks the position's liquidity behind the schedule.
	// vestingID must be a fresh identity; reuse fails.
	RegisterVesting(ctx context.Context, position, vestingID solana.PublicKey, schedule lockprogram.VestingSchedule) error

	// ReleaseLiquidity releases up to amount of currently-vested liquidity
	// to the recipient's token accounts and returns the amount released.
	// A zero amount means "everything currently vested".
	ReleaseLiquidity(ctx context.Context, position solana.PublicKey, amount *big.Int, recipient solana.PublicKey) (*big.Int, error)
}

// PositionCustodian moves custody of the position's non-fungible
// representation between the owner and the escrow authority.
type PositionCustodian interface {
	PositionOwner(positionNftMint solana.PublicKey) (solana.PublicKey, bool)
	TransferPosition(positionNftMint, from, to solana.PublicKey) error
}
