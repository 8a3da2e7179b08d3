package dammV2

import (
	"context"
	"fmt"

	"github.com/krazyTry/liqlock-go/damm.v2/cp_amm"
	solanago "github.com/krazyTry/liqlock-go/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// GetPool fetches and decodes a cp-amm pool account.
func (m *DammV2) GetPool(ctx context.Context, poolAddress solana.PublicKey) (*Pool, error) {
	out, err := solanago.GetAccountInfo(ctx, m.rpcClient, poolAddress)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	obj, err := cp_amm.ParseAnyAccount(out.GetBinary())
	if err != nil {
		return nil, err
	}

	pool, ok := obj.(*cp_amm.Pool)
	if !ok {
		return nil, fmt.Errorf("obj.(*cp_amm.Pool) fail")
	}

	return &Pool{Pool: pool, Address: poolAddress}, nil
}

// GetPosition fetches and decodes a cp-amm position account.
func (m *DammV2) GetPosition(ctx context.Context, positionAddress solana.PublicKey) (*Position, error) {
	out, err := solanago.GetAccountInfo(ctx, m.rpcClient, positionAddress)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	obj, err := cp_amm.ParseAnyAccount(out.GetBinary())
	if err != nil {
		return nil, err
	}

	position, ok := obj.(*cp_amm.Position)
	if !ok {
		return nil, fmt.Errorf("obj.(*cp_amm.Position) fail")
	}

	return &Position{Position: positionAddress, PositionState: position}, nil
}
