package u128

import (
	"math/big"
	"testing"

	binary "github.com/gagliardetto/binary"
	"github.com/stretchr/testify/require"
)

func TestGenUint128(t *testing.T) {
	require.Equal(t, binary.Uint128{Lo: 42}, GenUint128(42))
	require.Equal(t, binary.Uint128{}, GenUint128(0))
}

func TestGenUint128FromString(t *testing.T) {
	require.Equal(t, binary.Uint128{Lo: 99}, GenUint128FromString("99"))

	// one above math.MaxUint64, so the high word carries
	require.Equal(t, binary.Uint128{Lo: 0, Hi: 1}, GenUint128FromString("18446744073709551616"))

	require.Panics(t, func() { GenUint128FromString("-1") })
	require.Panics(t, func() { GenUint128FromString("340282366920938463463374607431768211456") })
}

func TestGenUint128FromBig(t *testing.T) {
	v := new(big.Int).SetUint64(123456789)
	require.Equal(t, binary.Uint128{Lo: 123456789}, GenUint128FromBig(v))
	require.Equal(t, "123456789", GenUint128FromBig(v).BigInt().String())
}

// Constructed values must deep-equal decoded ones, so records built in memory
// compare equal to records round-tripped through borsh.
func TestGenUint128MatchesDecoded(t *testing.T) {
	want := GenUint128(7_000_000)

	raw, err := binary.MarshalBorsh(want)
	require.NoError(t, err)

	var got binary.Uint128
	require.NoError(t, binary.NewBorshDecoder(raw).Decode(&got))
	require.Equal(t, want, got)
}
