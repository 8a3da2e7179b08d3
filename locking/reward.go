package locking

import (
	"context"
	"fmt"
	"math/big"

	"github.com/krazyTry/liqlock-go/lockprogram"
	solanago "github.com/krazyTry/liqlock-go/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
)

// IsPositionEscrowed reports whether the position NFT sits in the escrow
// authority's token account, i.e. the lock still holds custody.
func IsPositionEscrowed(ctx context.Context, rpcClient *rpc.Client, positionNftMint solana.PublicKey) (bool, error) {
	escrowNftAccount, err := solanago.FindAssociatedToken2022Address(escrowAuthority, positionNftMint)
	if err != nil {
		return false, err
	}

	out, err := solanago.GetAccountInfo(ctx, rpcClient, escrowNftAccount)
	if err != nil {
		if err == rpc.ErrNotFound {
			return false, nil
		}
		return false, err
	}

	account, err := new(solanago.AccountLayout).Decode(out.GetBinary())
	if err != nil {
		return false, err
	}
	return account.Owner.Equals(escrowAuthority) && account.Holds(positionNftMint), nil
}

// GetRewardBalance reads the owner's balance of the configured reward mint.
// Owners without a reward token account hold zero.
func (l *Locking) GetRewardBalance(ctx context.Context, cfg *lockprogram.Config, owner solana.PublicKey) (uint64, error) {
	rewardAccount, _, err := solana.FindAssociatedTokenAddress(owner, cfg.RewardMint)
	if err != nil {
		return 0, err
	}

	out, err := solanago.GetAccountInfo(ctx, l.rpcClient, rewardAccount)
	if err != nil {
		if err == rpc.ErrNotFound {
			return 0, nil
		}
		return 0, err
	}

	account, err := new(solanago.AccountLayout).Decode(out.GetBinary())
	if err != nil {
		return 0, err
	}
	return account.Amount, nil
}

// SendReward transfers reward tokens from the admin to a user, for incentive
// payouts tied to the configured reward mint.
func (l *Locking) SendReward(
	ctx context.Context,
	wsClient *ws.Client,
	cfg *lockprogram.Config,
	receiver solana.PublicKey,
	amount *big.Int,
) (string, error) {
	if l.admin == nil {
		return "", fmt.Errorf("admin wallet not set")
	}

	mints, err := solanago.GetMultipleToken(ctx, l.rpcClient, cfg.RewardMint)
	if err != nil {
		return "", err
	}
	if len(mints) == 0 || mints[0] == nil {
		return "", fmt.Errorf("reward mint %v not found", cfg.RewardMint)
	}

	instructions, err := solanago.TransferInstruction(
		ctx,
		l.rpcClient,
		l.admin.PublicKey(),
		l.admin.PublicKey(),
		receiver,
		cfg.RewardMint,
		mints[0].Decimals,
		amount,
	)
	if err != nil {
		return "", err
	}

	sig, err := solanago.SendTransaction(ctx,
		l.rpcClient,
		wsClient,
		instructions,
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
