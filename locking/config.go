package locking

import (
	"context"
	"fmt"

	"github.com/krazyTry/liqlock-go/lockprogram"
	solanago "github.com/krazyTry/liqlock-go/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// InitializeConfigInstruction builds the initialize_config instruction that
// creates the Config singleton. It fails on chain if the singleton already
// exists.
func InitializeConfigInstruction(
	admin solana.PublicKey,
	poolAddress solana.PublicKey,
	feeBps uint16,
	rewardMint solana.PublicKey,
) (solana.Instruction, error) {
	if err := lockprogram.ValidateFeeBps(feeBps); err != nil {
		return nil, err
	}

	return lockprogram.NewInitializeConfigInstruction(
		lockprogram.InitializeConfigArgs{
			PoolID:     poolAddress,
			FeeBps:     feeBps,
			RewardMint: rewardMint,
		},
		configAddress,
		admin,
		solana.SystemProgramID,
	)
}

// InitializeConfig creates the Config singleton, signed by the admin wallet.
func (l *Locking) InitializeConfig(
	ctx context.Context,
	wsClient *ws.Client,
	poolAddress solana.PublicKey,
	feeBps uint16,
	rewardMint solana.PublicKey,
) (string, error) {
	if l.admin == nil {
		return "", fmt.Errorf("admin wallet not set")
	}

	configIx, err := InitializeConfigInstruction(l.admin.PublicKey(), poolAddress, feeBps, rewardMint)
	if err != nil {
		return "", err
	}

	sig, err := solanago.SendTransaction(ctx,
		l.rpcClient,
		wsClient,
		[]solana.Instruction{configIx},
		l.admin.PublicKey(),
		func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(l.admin.PublicKey()) {
				return &l.admin.PrivateKey
			}
			return nil
		},
	)
	if err != nil {
		return "", err
	}
	return sig.String(), nil
}

// GetConfig reads the Config singleton. It returns nil when the program has
// not been initialized yet.
func (l *Locking) GetConfig(ctx context.Context) (*lockprogram.Config, error) {
	return GetConfig(ctx, l.rpcClient)
}

// GetConfig reads the Config singleton. It returns nil when the program has
// not been initialized yet.
func GetConfig(ctx context.Context, rpcClient *rpc.Client) (*lockprogram.Config, error) {
	out, err := solanago.GetAccountInfo(ctx, rpcClient, configAddress)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	obj, err := lockprogram.ParseAnyAccount(out.GetBinary())
	if err != nil {
		return nil, err
	}

	config, ok := obj.(*lockprogram.Config)
	if !ok {
		return nil, fmt.Errorf("obj.(*lockprogram.Config) fail")
	}
	return config, nil
}
