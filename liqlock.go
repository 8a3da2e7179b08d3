package liqlock

import (
	dammV2 "github.com/krazyTry/liqlock-go/damm.v2"
	"github.com/krazyTry/liqlock-go/locking"
)

// NewLockingClient creates a client for the liquidity lock program.
//
// Example:
//
// lockClient := NewLockingClient(rpcClient, locking.WithAdmin(adminWallet))
//
// lockClient.InitializeConfig(ctx, wsClient, poolAddress, 100, rewardMint)
//
// lockClient.LockLiquidity(ctx, wsClient, userWallet, poolState, liquidityDelta, 3)
var NewLockingClient = locking.NewLocking

// NewDammV2Client creates a read-only client for the DAMM V2 pools the lock
// program escrows positions in.
//
// Example:
//
// dammV2Client := NewDammV2Client(rpcClient)
//
// dammV2Client.GetPool(ctx, poolAddress)
var NewDammV2Client = dammV2.NewDammV2
