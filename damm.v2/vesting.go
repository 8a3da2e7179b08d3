package dammV2

import (
	"context"
	"fmt"
	"math/big"

	"github.com/krazyTry/liqlock-go/damm.v2/cp_amm"
	solanago "github.com/krazyTry/liqlock-go/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// GetVestingsByPosition retrieves all vesting accounts registered against a
// position.
func (m *DammV2) GetVestingsByPosition(ctx context.Context, position solana.PublicKey) ([]*Vesting, error) {
	return GetVestingsByPosition(ctx, m.rpcClient, position)
}

// GetVestingsByPosition retrieves all vesting accounts registered against a
// position.
func GetVestingsByPosition(
	ctx context.Context,
	rpcClient *rpc.Client,
	position solana.PublicKey,
) ([]*Vesting, error) {
	opt := solanago.GenProgramAccountFilter(
		cp_amm.AccountKeyVesting,
		&solanago.Filter{
			Owner:  position,
			Offset: 8,
		},
	)

	outs, err := rpcClient.GetProgramAccountsWithOpts(ctx, cp_amm.ProgramID, opt)
	if err != nil {
		if err == rpc.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}

	var list []*Vesting
	for _, out := range outs {
		obj, err := cp_amm.ParseAnyAccount(out.Account.Data.GetBinary())
		if err != nil {
			return nil, err
		}
		vesting, ok := obj.(*cp_amm.Vesting)
		if !ok {
			return nil, fmt.Errorf("obj.(*cp_amm.Vesting) fail")
		}

		list = append(list, &Vesting{
			Vesting:      out.Pubkey,
			VestingState: vesting,
		})
	}

	return list, nil
}

// AvailableVestedLiquidity sums what the position's vesting schedules
// currently entitle and have not yet released.
func (m *DammV2) AvailableVestedLiquidity(ctx context.Context, position solana.PublicKey, currentPoint *big.Int) (*big.Int, error) {
	vestings, err := m.GetVestingsByPosition(ctx, position)
	if err != nil {
		return nil, err
	}

	total := big.NewInt(0)
	for _, v := range vestings {
		total.Add(total, cp_amm.GetAvailableVestingLiquidity(v.VestingState, currentPoint))
	}
	return total, nil
}
