package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
)

type Uint128 binary.Uint128

func (u *Uint128) Scan(s fmt.ScanState, ch rune) error {
	i := new(big.Int)
	if err := i.Scan(s, ch); err != nil {
		return err
	} else if i.Sign() < 0 {
		return errors.New("value cannot be negative")
	} else if i.BitLen() > 128 {
		return errors.New("value overflows Uint128")
	}
	u.Lo = i.Uint64()
	u.Hi = i.Rsh(i, 64).Uint64()
	return nil
}

// GenUint128FromString parses a decimal string into a Uint128. The value
// carries no endianness metadata so it compares equal to decoded fields.
func GenUint128FromString(num string) binary.Uint128 {
	var u Uint128
	if _, err := fmt.Sscan(num, &u); err != nil {
		panic(err)
	}
	return binary.Uint128(u)
}

// GenUint128FromBig converts a non-negative big.Int into a Uint128.
func GenUint128FromBig(v *big.Int) binary.Uint128 {
	return GenUint128FromString(v.String())
}

// GenUint128 converts a uint64 into a Uint128.
func GenUint128(v uint64) binary.Uint128 {
	return binary.Uint128{Lo: v}
}
