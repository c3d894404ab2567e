package types_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casperpad/kunft-marketplace-contract/types"
)

func TestAddress(t *testing.T) {
	var h types.Hash
	h[0], h[31] = 0xab, 0x01

	account := types.AccountAddress(h)
	contract := types.ContractAddress(h)

	t.Run("variant is part of equality", func(t *testing.T) {
		require.False(t, account.Equal(contract))
		require.True(t, account.Equal(types.AccountAddress(h)))
		require.True(t, contract.IsContract())
		require.True(t, account.IsAccount())
	})

	t.Run("string round trip", func(t *testing.T) {
		for _, addr := range []types.Address{account, contract} {
			parsed, err := types.ParseAddress(addr.String())
			require.NoError(t, err)
			require.Equal(t, addr, parsed)
		}
		require.True(t, strings.HasPrefix(account.String(), "account-hash-ab"))
		require.True(t, strings.HasPrefix(contract.String(), "contract-package-ab"))
	})

	t.Run("invalid formats", func(t *testing.T) {
		for _, s := range []string{"", "hash-00", "account-hash-zz", "account-hash-" + strings.Repeat("00", 31)} {
			_, err := types.ParseAddress(s)
			require.ErrorIs(t, err, types.ErrInvalidAddress, s)
		}
	})

	t.Run("usable as json map key", func(t *testing.T) {
		in := map[types.Address]int{account: 1, contract: 2}
		bz, err := json.Marshal(in)
		require.NoError(t, err)

		var out map[types.Address]int
		require.NoError(t, json.Unmarshal(bz, &out))
		require.Equal(t, in, out)
	})
}

func TestContractHash(t *testing.T) {
	c, err := types.ParseContractHash("hash-" + strings.Repeat("0f", 32))
	require.NoError(t, err)

	bare, err := types.ParseContractHash(strings.Repeat("0f", 32))
	require.NoError(t, err)
	require.Equal(t, c, bare)
	require.Equal(t, "hash-"+strings.Repeat("0f", 32), c.String())
}

func TestURef(t *testing.T) {
	var u types.URef
	u.Addr[3] = 7
	u.Access = types.AccessReadAddWrite
	require.True(t, strings.HasSuffix(u.String(), "-007"))

	parsed, err := types.ParseURef(u.String())
	require.NoError(t, err)
	require.Equal(t, u, parsed)

	deposit := u.WithAccess(types.AccessAdd)
	require.True(t, deposit.Can(types.AccessAdd))
	require.False(t, deposit.Can(types.AccessWrite))
	require.Equal(t, u.Addr, deposit.Addr)

	// attenuation never grants rights the handle does not hold
	require.False(t, deposit.WithAccess(types.AccessReadAddWrite).Can(types.AccessWrite))
}
