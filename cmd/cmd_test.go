package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casperpad/kunft-marketplace-contract/scenario"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

func Test_formatAmount(t *testing.T) {
	tests := []struct {
		motes uint64
		want  string
	}{
		{motes: 0, want: "0.000000000"},
		{motes: 25_000_000, want: "0.025000000"},
		{motes: 1_000_975_000_000, want: "1000.975000000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAmount(types.NewU512(tt.motes)))
		})
	}
}

func Test_buildLogger(t *testing.T) {
	_, err := buildLogger("loud", "")
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "marketplace.log")
	logger, err := buildLogger("debug", file)
	require.NoError(t, err)
	logger.Debug("hello")
	_ = logger.Sync()

	bz, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(bz), `"msg":"hello"`)
}

func Test_printReport(t *testing.T) {
	report := &scenario.Report{
		RunID: uuid.New(),
		Steps: []scenario.StepResult{
			{Index: 0, Op: "mint"},
			{Index: 1, Op: "create_sell_order", Codespace: "marketplace", Code: 3, Log: "token is not approved to the marketplace"},
		},
		Balances: map[string]types.U512{"seller": types.NewU512(975_000_000), "buyer": types.ZeroU512()},
		Tokens:   map[string]map[string]sdkmath.Uint{"usdt": {"bidder": sdkmath.NewUint(10)}},
		Owners:   map[string]map[uint64]string{"punks": {0: "buyer"}},
		Escrow:   types.ZeroU512(),
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "step 1 create_sell_order failed: marketplace/3")
	assert.NotContains(t, out, "step 0")
	assert.Contains(t, out, "seller  | 0.975000000")
	assert.Regexp(t, `bidder \|\s+10`, out)
	assert.Contains(t, out, "#0")
	assert.Contains(t, out, "Escrow: 0.000000000 CSPR")
}
