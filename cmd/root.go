package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Mohsinsiddi/w3lottery/internal/config"
	"github.com/ethereum/go-ethereum/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3lottery/cmd.Version=1.2.3" .
var Version = "1.0.0"

var (
	cfgDir      string
	cfg         *config.Config
	verbose     bool
	networkFlag string
	rpcFlag     string
	envFile     = ".env"
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3lottery",
	Short: "Deploy and drive the Lottery contract",
	Long: `w3lottery — deploy and test harness for the Lottery contract.

  Derives accounts from a BIP-39 mnemonic, deploys the Lottery contract to an
  EVM test network and lets you enter, pick a winner and inspect players.

The mnemonic is read from $MNEMONIC (a .env file in the working directory is
loaded first) or from the OS keychain (w3lottery wallet import).

Global flags --network and --rpc override the configured network and endpoint
for a single invocation. Persist with: w3lottery config set network <name>`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(verbose)

		// Load config (skip for commands that don't need it).
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := loadEnvFile(envFile); err != nil {
			return err
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging routes go-ethereum's logger to stderr: warnings only by
// default, everything from debug up with --verbose.
func setupLogging(verbose bool) {
	level := log.LevelWarn
	if verbose {
		level = log.LevelDebug
	}
	color := term.IsTerminal(int(os.Stderr.Fd()))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, color)))
}

// loadEnvFile loads KEY=VALUE pairs from path into the environment. A missing
// file is fine; variables already set are not overridden.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	log.Debug("Loaded environment file", "path", path)
	return nil
}

func init() {
	// W3LOTTERY_CONFIG_DIR env var overrides --config flag.
	if envDir := os.Getenv("W3LOTTERY_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.w3lottery)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVarP(&networkFlag, "network", "n", "", "network to use (default: config network)")
	rootCmd.PersistentFlags().StringVar(&rpcFlag, "rpc", "", "RPC endpoint to use instead of the configured ones")

	// Register all sub-commands.
	rootCmd.AddCommand(
		deployCmd,
		compileCmd,
		inspectCmd,
		enterCmd,
		pickWinnerCmd,
		playersCmd,
		managerCmd,
		accountsCmd,
		walletCmd,
		deploymentsCmd,
		networkCmd,
		configCmd,
		convertCmd,
		selectorCmd,
	)
}
