package types_test

import (
	"encoding/json"
	"math/big"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

func TestU512(t *testing.T) {
	max512 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 512), big.NewInt(1))
	max256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

	t.Run("bounds", func(t *testing.T) {
		_, err := types.NewU512FromBigInt(max512)
		require.NoError(t, err)

		_, err = types.NewU512FromBigInt(new(big.Int).Add(max512, big.NewInt(1)))
		require.ErrorIs(t, err, types.ErrOverflow)

		_, err = types.NewU512FromBigInt(big.NewInt(-1))
		require.ErrorIs(t, err, types.ErrOverflow)
	})

	t.Run("add overflows at 512 bits", func(t *testing.T) {
		top, err := types.NewU512FromBigInt(max512)
		require.NoError(t, err)
		_, err = top.Add(types.NewU512(1))
		require.ErrorIs(t, err, types.ErrOverflow)
	})

	t.Run("sub below zero fails", func(t *testing.T) {
		_, err := types.NewU512(1).Sub(types.NewU512(2))
		require.ErrorIs(t, err, types.ErrOverflow)
	})

	t.Run("narrowing to 256 bits", func(t *testing.T) {
		fits, err := types.NewU512FromBigInt(max256)
		require.NoError(t, err)
		u, err := fits.ToUint()
		require.NoError(t, err)
		require.Equal(t, max256.String(), u.String())

		wide, err := types.NewU512FromBigInt(new(big.Int).Add(max256, big.NewInt(1)))
		require.NoError(t, err)
		_, err = wide.ToUint()
		require.ErrorIs(t, err, types.ErrOverflow)
	})

	t.Run("zero value behaves as zero", func(t *testing.T) {
		var z types.U512
		require.True(t, z.IsZero())
		require.True(t, z.LT(types.NewU512(1)))
		require.Equal(t, "0", z.String())
	})

	t.Run("json uses decimal strings", func(t *testing.T) {
		v := types.U512FromUint(sdkmath.NewUint(90_000_000_000))
		bz, err := json.Marshal(v)
		require.NoError(t, err)
		require.Equal(t, `"90000000000"`, string(bz))

		var out types.U512
		require.NoError(t, json.Unmarshal(bz, &out))
		require.True(t, v.Equal(out))
	})
}
