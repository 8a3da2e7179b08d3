// Package locking is the client surface of the liquidity lock program. It
// assembles instructions against the on-chain program, resolves the PDAs the
// program expects, and reads back Config and LockAccount state.
package locking

import (
	"github.com/krazyTry/liqlock-go/lockprogram"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	configAddress   solana.PublicKey
	escrowAuthority solana.PublicKey
)

// Init performs initialization.
// It completes the generation of configAddress, escrowAuthority of the lock program.
func init() {
	var err error
	configAddress, err = lockprogram.DeriveConfigAddress()
	if err != nil {
		panic(err)
	}

	escrowAuthority, err = lockprogram.DeriveEscrowAuthority()
	if err != nil {
		panic(err)
	}
}

// ConfigAddress returns the program's config singleton PDA.
func ConfigAddress() solana.PublicKey { return configAddress }

// EscrowAuthority returns the program's escrow signer PDA.
func EscrowAuthority() solana.PublicKey { return escrowAuthority }

type Locking struct {
	rpcClient *rpc.Client
	admin     *solana.Wallet
}

func NewLocking(
	rpcClient *rpc.Client,
	opts ...Option,
) *Locking {
	o := &Locking{
		rpcClient: rpcClient,
	}
	for _, fn := range opts {
		fn(o)
	}
	return o
}

type Option func(*Locking)

// WithAdmin sets the wallet used to sign initialize_config.
func WithAdmin(admin *solana.Wallet) Option {
	return func(l *Locking) {
		l.admin = admin
	}
}
