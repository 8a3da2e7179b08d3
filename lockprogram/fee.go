package lockprogram

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxFeeBps is the largest accepted program fee (100%).
const MaxFeeBps uint16 = 10000

// ValidateFeeBps rejects fees above 10000 basis points.
func ValidateFeeBps(feeBps uint16) error {
	if feeBps > MaxFeeBps {
		return fmt.Errorf("fee %d bps exceeds %d", feeBps, MaxFeeBps)
	}
	return nil
}

// ApplyFeeBps splits amount into the net amount and the program fee taken at
// feeBps. The fee rounds down, so the user side never loses to rounding.
func ApplyFeeBps(amount *big.Int, feeBps uint16) (net *big.Int, fee *big.Int) {
	feeDec := decimal.NewFromBigInt(amount, 0).
		Mul(decimal.NewFromInt(int64(feeBps))).
		Div(decimal.NewFromInt(int64(MaxFeeBps))).
		Floor()

	fee = feeDec.BigInt()
	net = new(big.Int).Sub(amount, fee)
	return net, fee
}
