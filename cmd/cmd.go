package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/casperpad/kunft-marketplace-contract/api"
	"github.com/casperpad/kunft-marketplace-contract/api/handlers"
	"github.com/casperpad/kunft-marketplace-contract/cmd/version"
	"github.com/casperpad/kunft-marketplace-contract/config"
	"github.com/casperpad/kunft-marketplace-contract/scenario"
	"github.com/casperpad/kunft-marketplace-contract/store"
	"github.com/casperpad/kunft-marketplace-contract/types"
	utils "github.com/casperpad/kunft-marketplace-contract/utils/viper"
)

// csprDecimals is the number of decimals of the native currency.
const csprDecimals = 9

var RootCmd = &cobra.Command{
	Use:   "kunft-marketplace",
	Short: "Escrowing NFT marketplace",
	Long:  `Escrowing NFT marketplace: runs order scenarios against an in-memory ledger and serves the resulting order book.`,
	Run: func(cmd *cobra.Command, args []string) {
		// If no arguments are provided, print usage information
		if len(args) == 0 {
			if err := cmd.Usage(); err != nil {
				log.Fatalf("Error printing usage: %v", err)
			}
		}
	},
}

// initFlags maps init flags to the config keys they set.
var initFlags = map[string]string{
	"fee":          "marketplace.fee",
	"fee-wallet":   "marketplace.fee_wallet",
	"package-hash": "marketplace.package_hash",
	"db-backend":   "db.backend",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the marketplace config",
	Long:  `Initialize the marketplace by generating a config file with default values.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Config{}
		if err := viper.Unmarshal(&cfg); err != nil {
			log.Fatalf("failed to unmarshal config: %v", err)
		}

		// if the db dir doesn't exist, create it
		if _, err := os.Stat(cfg.DB.Dir); os.IsNotExist(err) {
			if err := os.MkdirAll(cfg.DB.Dir, 0o755); err != nil {
				log.Fatalf("failed to create db directory: %v", err)
			}
		}

		for flag, key := range initFlags {
			if !cmd.Flags().Changed(flag) {
				continue
			}
			value, err := cmd.Flags().GetString(flag)
			if err != nil {
				log.Fatalf("failed to read flag %s: %v", flag, err)
			}
			if err := utils.UpdateViperConfig(key, value, config.CfgFile); err != nil {
				log.Fatalf("failed to set %s: %v", key, err)
			}
		}

		if err := viper.WriteConfigAs(config.CfgFile); err != nil {
			log.Fatalf("failed to write config file: %v", err)
		}

		fmt.Printf("Config file created: %s\n", config.CfgFile)
		fmt.Println()
		fmt.Println("Edit the config file to set the fee wallet and the marketplace package hash.")
	},
}

var runCmd = &cobra.Command{
	Use:   "run [scenario.yaml]",
	Short: "Run a marketplace scenario",
	Long:  `Replay a scenario of mints, approvals and marketplace calls against an in-memory ledger and print the resulting balances.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig()
		defer logger.Sync() // nolint: errcheck

		market, err := cfg.Marketplace.ParseMarketplace()
		if err != nil {
			log.Fatalf("invalid marketplace config: %v", err)
		}

		sc, err := scenario.Load(args[0])
		if err != nil {
			log.Fatalf("failed to load scenario: %v", err)
		}

		orderStore, err := store.Open(cfg.DB.Backend, cfg.DB.Dir, cfg.DB.Name)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		defer orderStore.Close() // nolint: errcheck

		runner := scenario.NewRunner(logger, orderStore, scenario.Config{
			Fee:       market.Fee,
			FeeWallet: market.FeeWallet,
			Self:      market.Self,
		})

		report, err := runner.Run(cmd.Context(), sc)
		if report != nil {
			printReport(os.Stdout, report)
		}
		if err != nil {
			log.Fatalf("scenario failed: %v", err)
		}
	},
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the query server",
	Long:  `Start the HTTP server that answers sell order, bid, escrow and fee lookups from the store.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig()
		defer logger.Sync() // nolint: errcheck

		orderStore, err := store.Open(cfg.DB.Backend, cfg.DB.Dir, cfg.DB.Name)
		if err != nil {
			log.Fatalf("failed to open store: %v", err)
		}
		defer orderStore.Close() // nolint: errcheck

		server := api.NewServer(
			handlers.NewOrderHandler(orderStore),
			handlers.NewEscrowHandler(orderStore),
			cfg.Server.Address,
			logger,
		)
		server.Start()
	},
}

func loadConfig() (config.Config, *zap.Logger) {
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	cfg := config.Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	logger, err := buildLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return cfg, logger
}

// buildLogger logs JSON to stdout, and also to a rotated file when logFile is set.
func buildLogger(logLevel, logFile string) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.Set(logLevel); err != nil {
		return nil, fmt.Errorf("failed to set log level: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := zapcore.Lock(os.Stdout)
	if logFile != "" {
		sink = zapcore.NewMultiWriteSyncer(sink, zapcore.AddSync(&lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}))
	}

	logger := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		sink,
		level,
	))

	return logger, nil
}

func printReport(w io.Writer, report *scenario.Report) {
	fmt.Fprintf(w, "Run %s\n\n", report.RunID)

	for _, step := range report.Steps {
		if step.Code == 0 {
			continue
		}
		fmt.Fprintf(w, "step %d %s failed: %s/%d %s\n", step.Index, step.Op, step.Codespace, step.Code, step.Log)
	}
	fmt.Fprintln(w)

	balances := make(map[string]string, len(report.Balances))
	for name, balance := range report.Balances {
		balances[name] = formatAmount(balance)
	}
	printTable(w, "Account", "CSPR", balances)

	for _, token := range sortedKeys(report.Tokens) {
		holders := make(map[string]string, len(report.Tokens[token]))
		for name, balance := range report.Tokens[token] {
			holders[name] = balance.String()
		}
		printTable(w, "Holder", token, holders)
	}

	for _, collection := range sortedKeys(report.Owners) {
		owners := make(map[string]string, len(report.Owners[collection]))
		for id, owner := range report.Owners[collection] {
			owners[fmt.Sprintf("#%d", id)] = owner
		}
		printTable(w, collection, "Owner", owners)
	}

	fmt.Fprintf(w, "Escrow: %s CSPR\n", formatAmount(report.Escrow))
}

func printTable(w io.Writer, keyHeader, valueHeader string, rows map[string]string) {
	maxKey, maxVal := len(keyHeader), len(valueHeader)
	for k, v := range rows {
		if len(k) > maxKey {
			maxKey = len(k)
		}
		if len(v) > maxVal {
			maxVal = len(v)
		}
	}

	dividerKey, dividerVal := "", ""
	for i := 0; i < maxKey; i++ {
		dividerKey += "-"
	}
	for i := 0; i < maxVal; i++ {
		dividerVal += "-"
	}

	fmt.Fprintf(w, "%-*s | %*s\n", maxKey, keyHeader, maxVal, valueHeader)
	fmt.Fprintf(w, "%s | %s\n", dividerKey, dividerVal)
	for _, k := range sortedKeys(rows) {
		fmt.Fprintf(w, "%-*s | %*s\n", maxKey, k, maxVal, rows[k])
	}
	fmt.Fprintln(w)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatAmount renders motes as CSPR.
func formatAmount(motes types.U512) string {
	return decimal.NewFromBigInt(motes.BigInt(), -csprDecimals).StringFixed(csprDecimals)
}

func init() {
	RootCmd.CompletionOptions.DisableDefaultCmd = true
	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(startCmd)

	RootCmd.AddCommand(version.Cmd())

	cobra.OnInitialize(config.InitConfig)

	RootCmd.PersistentFlags().StringVar(&config.CfgFile, "config", "", "config file")

	initCmd.Flags().String("fee", "", "fee rate in basis points of 10000 (0-255)")
	initCmd.Flags().String("fee-wallet", "", "account or contract receiving fees")
	initCmd.Flags().String("package-hash", "", "contract package of the marketplace")
	initCmd.Flags().String("db-backend", "", "tm-db backend: goleveldb or memdb")
}
