package config

import (
	"fmt"
	"log"
	"math"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/casperpad/kunft-marketplace-contract/fee"
	"github.com/casperpad/kunft-marketplace-contract/types"
)

type Config struct {
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	DB          DBConfig          `mapstructure:"db"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Server      ServerConfig      `mapstructure:"server"`
}

type DBConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
	Name    string `mapstructure:"name"`
}

type MarketplaceConfig struct {
	Fee         int    `mapstructure:"fee"`
	FeeWallet   string `mapstructure:"fee_wallet"`
	PackageHash string `mapstructure:"package_hash"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

const (
	defaultLogLevel  = "info"
	defaultDBBackend = "goleveldb"
	defaultDBName    = "marketplace"
	defaultFee       = 250
	defaultAddress   = ":8000"

	// placeholders written by init, replaced by the operator
	defaultFeeWallet   = "account-hash-0000000000000000000000000000000000000000000000000000000000000001"
	defaultPackageHash = "contract-package-0000000000000000000000000000000000000000000000000000000000000002"
)

// Parsed marketplace settings.
type Marketplace struct {
	Fee       fee.Rate
	FeeWallet types.Address
	Self      types.Address
}

// ParseMarketplace checks the fee range, that the configured identities parse and that the
// package is a contract.
func (c MarketplaceConfig) ParseMarketplace() (Marketplace, error) {
	if c.Fee < 0 || c.Fee > math.MaxUint8 {
		return Marketplace{}, fmt.Errorf("marketplace.fee: %d is outside 0-%d", c.Fee, math.MaxUint8)
	}
	wallet, err := types.ParseAddress(c.FeeWallet)
	if err != nil {
		return Marketplace{}, fmt.Errorf("marketplace.fee_wallet: %w", err)
	}
	self, err := types.ParseAddress(c.PackageHash)
	if err != nil {
		return Marketplace{}, fmt.Errorf("marketplace.package_hash: %w", err)
	}
	if !self.IsContract() {
		return Marketplace{}, fmt.Errorf("marketplace.package_hash: %s is not a contract package", self)
	}
	return Marketplace{Fee: fee.Rate(c.Fee), FeeWallet: wallet, Self: self}, nil
}

func InitConfig() {
	// Find home directory.
	home, err := homedir.Dir()
	if err != nil {
		log.Fatalf("failed to get home directory: %v", err)
	}
	defaultHomeDir := home + "/.kunft-marketplace"

	viper.SetDefault("log_level", defaultLogLevel)
	viper.SetDefault("log_file", "")

	viper.SetDefault("db.backend", defaultDBBackend)
	viper.SetDefault("db.dir", defaultHomeDir+"/data")
	viper.SetDefault("db.name", defaultDBName)

	viper.SetDefault("marketplace.fee", defaultFee)
	viper.SetDefault("marketplace.fee_wallet", defaultFeeWallet)
	viper.SetDefault("marketplace.package_hash", defaultPackageHash)

	viper.SetDefault("server.address", defaultAddress)

	viper.SetConfigType("yaml")
	if CfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(CfgFile)
	} else {
		CfgFile = defaultHomeDir + "/config.yaml"
		viper.AddConfigPath(defaultHomeDir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}
}

var CfgFile string
