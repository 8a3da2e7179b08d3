package dammV2

import (
	"github.com/krazyTry/liqlock-go/damm.v2/cp_amm"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	poolAuthority  solana.PublicKey
	eventAuthority solana.PublicKey
)

// Init performs initialization.
// It completes the generation of poolAuthority, eventAuthority in the damm v2 pool.
func init() {
	var err error
	poolAuthority, err = cp_amm.DerivePoolAuthorityPDA()
	if err != nil {
		panic(err)
	}

	eventAuthority, err = cp_amm.DeriveEventAuthorityPDA()
	if err != nil {
		panic(err)
	}
}

// PoolAuthority returns the cp-amm pool authority PDA.
func PoolAuthority() solana.PublicKey { return poolAuthority }

// EventAuthority returns the cp-amm event authority PDA.
func EventAuthority() solana.PublicKey { return eventAuthority }

// DammV2 reads the external AMM's pool, position and vesting state. It owns
// no persistent state of its own; the cp-amm program remains the source of
// truth for everything it reports.
type DammV2 struct {
	rpcClient *rpc.Client
}

func NewDammV2(rpcClient *rpc.Client) *DammV2 {
	return &DammV2{rpcClient: rpcClient}
}
