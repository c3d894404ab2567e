package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"go.uber.org/zap"

	"github.com/casperpad/kunft-marketplace-contract/store"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

var (
	sampleSelf      = types.ContractAddress(types.Hash{0xaa})
	sampleFeeWallet = types.AccountAddress(types.Hash{0xfe})
)

func newRunner() *Runner {
	return NewRunner(zap.NewNop(), store.NewOrderStore(dbm.NewMemDB()), Config{
		Fee:       100,
		FeeWallet: sampleFeeWallet,
		Self:      sampleSelf,
	})
}

func TestRunner_Run(t *testing.T) {
	sc, err := Load("testdata/marketplace.yaml")
	require.NoError(t, err)

	report, err := newRunner().Run(context.Background(), sc)
	require.NoError(t, err)
	require.Len(t, report.Steps, len(sc.Steps))

	assert.Equal(t, uint32(3), report.Steps[2].Code)
	assert.Equal(t, "marketplace", report.Steps[2].Codespace)
	assert.Equal(t, uint32(2), report.Steps[5].Code)
	assert.Equal(t, uint32(0), report.Steps[6].Code)

	assert.Equal(t, "buyer", report.Owners["punks"][0])
	assert.Equal(t, "vault", report.Owners["punks"][1])

	assert.Equal(t, "1000975000000", report.Balances["seller"].String())
	assert.Equal(t, "999000000000", report.Balances["buyer"].String())
	assert.Equal(t, "25000000", report.Balances["treasury"].String())
	assert.Equal(t, "0", report.Escrow.String())

	usdt := report.Tokens["usdt"]
	assert.Equal(t, "87750000000", usdt["seller"].String())
	assert.Equal(t, "2250000000", usdt["treasury"].String())
	assert.Equal(t, "10000000000", usdt["bidder"].String())
	assert.NotContains(t, usdt, "marketplace")
}

func TestRunner_Run_unexpected(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unexpected failure",
			yaml: `
accounts: {seller: "0"}
collections: [punks]
steps:
  - {op: mint, collection: punks, token_id: 0, to: seller}
  - {op: create_sell_order, caller: seller, collection: punks, token_id: 0, price: "1"}
`,
			wantErr: "step 1 (create_sell_order)",
		}, {
			name: "expected failure did not happen",
			yaml: `
accounts: {seller: "0"}
collections: [punks]
steps:
  - {op: mint, collection: punks, token_id: 0, to: seller, expect_error: NotExistToken}
`,
			wantErr: "expected NotExistToken, step succeeded",
		}, {
			name: "wrong failure",
			yaml: `
accounts: {seller: "0"}
collections: [punks]
steps:
  - {op: cancel_sell_order, caller: seller, collection: punks, token_id: 0, expect_error: NotOrderCreator}
`,
			wantErr: "expected NotOrderCreator",
		}, {
			name: "unknown op",
			yaml: `
steps:
  - {op: burn}
`,
			wantErr: `unknown op "burn"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = newRunner().Run(context.Background(), sc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRunner_Run_defaults(t *testing.T) {
	sc, err := Parse([]byte(`
accounts: {seller: "0", buyer: "10000"}
collections: [punks]
steps:
  - {op: mint, collection: punks, token_id: 3, to: seller}
  - {op: approve, caller: seller, collection: punks, token_id: 3}
  - {op: create_sell_order, caller: seller, collection: punks, token_id: 3, price: "10000"}
  - {op: buy_sell_order, caller: buyer, collection: punks, token_id: 3, amount: "10000"}
`))
	require.NoError(t, err)

	report, err := newRunner().Run(context.Background(), sc)
	require.NoError(t, err)
	assert.Equal(t, "9900", report.Balances["seller"].String())
	assert.Equal(t, "100", report.Balances[feeWalletName].String())
	assert.Equal(t, "buyer", report.Owners["punks"][3])
}

func TestRunner_Run_reusedStore(t *testing.T) {
	r := newRunner()
	sc, err := Parse([]byte("steps: []"))
	require.NoError(t, err)

	_, err = r.Run(context.Background(), sc)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), sc)
	require.ErrorContains(t, err, "fresh database")
}

func TestParse(t *testing.T) {
	_, err := Parse([]byte(`
steps:
  - {op: mint, expect_error: Exploded}
`))
	require.ErrorContains(t, err, `unknown error kind "Exploded"`)

	_, err = Parse([]byte("steps: {"))
	require.Error(t, err)
}
