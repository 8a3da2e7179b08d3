package locking

import (
	"context"
	"fmt"

	"github.com/krazyTry/liqlock-go/lockprogram"
	solanago "github.com/krazyTry/liqlock-go/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// LockRecord pairs a lock record with its on-chain address.
type LockRecord struct {
	Address solana.PublicKey
	*lockprogram.LockAccount
}

// GetLockAccount reads the lock record for (user, positionNftMint). It
// returns nil when no record exists, including after a full unlock closed it.
func (l *Locking) GetLockAccount(ctx context.Context, user, positionNftMint solana.PublicKey) (*lockprogram.LockAccount, error) {
	return GetLockAccount(ctx, l.rpcClient, user, positionNftMint)
}

// GetLockAccount reads the lock record for (user, positionNftMint). It
// returns nil when no record exists, including after a full unlock closed it.
func GetLockAccount(
	ctx context.Context,
	rpcClient *rpc.Client,
	user solana.PublicKey,
	positionNftMint solana.PublicKey,
) (*lockprogram.LockAccount, error) {
	lockAddress, err := lockprogram.DeriveLockAccountAddress(user, positionNftMint)
	if err != nil {
		return nil, err
	}

	out, err := solanago.GetAccountInfo(ctx, rpcClient, lockAddress)
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

	lockState, ok := obj.(*lockprogram.LockAccount)
	if !ok {
		return nil, fmt.Errorf("obj.(*lockprogram.LockAccount) fail")
	}
	return lockState, nil
}

// GetLockAccountsByUser retrieves every lock record owned by the user.
func (l *Locking) GetLockAccountsByUser(ctx context.Context, user solana.PublicKey) ([]*LockRecord, error) {
	return GetLockAccountsByUser(ctx, l.rpcClient, user)
}

// GetLockAccountsByUser retrieves every lock record owned by the user.
func GetLockAccountsByUser(
	ctx context.Context,
	rpcClient *rpc.Client,
	user solana.PublicKey,
) ([]*LockRecord, error) {
	opt := solanago.GenProgramAccountFilter(
		lockprogram.AccountKeyLockAccount,
		&solanago.Filter{
			Owner:  user,
			Offset: 8,
		},
	)

	outs, err := rpcClient.GetProgramAccountsWithOpts(ctx, lockprogram.ProgramID, opt)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	var list []*LockRecord
	for _, out := range outs {
		obj, err := lockprogram.ParseAnyAccount(out.Account.Data.GetBinary())
		if err != nil {
			return nil, err
		}
		lockState, ok := obj.(*lockprogram.LockAccount)
		if !ok {
			return nil, fmt.Errorf("obj.(*lockprogram.LockAccount) fail")
		}

		list = append(list, &LockRecord{
			Address:     out.Pubkey,
			LockAccount: lockState,
		})
	}

	return list, nil
}
