package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig_defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	CfgFile = ""
	t.Cleanup(viper.Reset)

	InitConfig()

	cfg := Config{}
	require.NoError(t, viper.Unmarshal(&cfg))
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "goleveldb", cfg.DB.Backend)
	assert.Equal(t, 250, cfg.Marketplace.Fee)
	assert.Equal(t, ":8000", cfg.Server.Address)
	assert.Contains(t, CfgFile, ".kunft-marketplace/config.yaml")

	m, err := cfg.Marketplace.ParseMarketplace()
	require.NoError(t, err)
	assert.True(t, m.FeeWallet.IsAccount())
	assert.True(t, m.Self.IsContract())
}

func TestMarketplaceConfig_ParseMarketplace(t *testing.T) {
	account := "account-hash-" + "11111111111111111111111111111111" + "11111111111111111111111111111111"
	contract := "contract-package-" + "22222222222222222222222222222222" + "22222222222222222222222222222222"

	tests := []struct {
		name    string
		config  MarketplaceConfig
		wantErr string
	}{
		{
			name:   "valid",
			config: MarketplaceConfig{Fee: 10, FeeWallet: account, PackageHash: contract},
		}, {
			name:   "highest fee",
			config: MarketplaceConfig{Fee: 255, FeeWallet: account, PackageHash: contract},
		}, {
			name:    "fee above range",
			config:  MarketplaceConfig{Fee: 300, FeeWallet: account, PackageHash: contract},
			wantErr: "marketplace.fee: 300",
		}, {
			name:    "negative fee",
			config:  MarketplaceConfig{Fee: -1, FeeWallet: account, PackageHash: contract},
			wantErr: "marketplace.fee: -1",
		}, {
			name:    "bad fee wallet",
			config:  MarketplaceConfig{FeeWallet: "treasury", PackageHash: contract},
			wantErr: "marketplace.fee_wallet",
		}, {
			name:    "package is an account",
			config:  MarketplaceConfig{FeeWallet: account, PackageHash: account},
			wantErr: "not a contract package",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.config.ParseMarketplace()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMarketplaceConfig_feeFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("marketplace:\n  fee: 300\n")))

	cfg := Config{}
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, 300, cfg.Marketplace.Fee)

	_, err := cfg.Marketplace.ParseMarketplace()
	require.ErrorContains(t, err, "marketplace.fee: 300 is outside 0-255")
}
