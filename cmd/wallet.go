package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/Mohsinsiddi/w3lottery/internal/wallet"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var walletGenerateSave bool

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the deployer mnemonic",
}

// ── wallet import ─────────────────────────────────────────────────────────────

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a mnemonic in the OS keychain",
	Long: `Store the BIP-39 mnemonic used to derive deployer and player accounts.

The phrase is read without echo from the terminal (or from stdin when piped)
and kept in the OS keychain. $MNEMONIC, when set, still takes precedence.

Examples:
  w3lottery wallet import
  echo "$PHRASE" | w3lottery wallet import`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase, err := readMnemonic()
		if err != nil {
			return err
		}
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		phrase, err = wallet.StoreMnemonic(ks, phrase)
		if err != nil {
			return err
		}
		printWalletSummary(phrase)
		fmt.Println(ui.Success("Mnemonic stored in the keychain"))
		return nil
	},
}

// ── wallet generate ───────────────────────────────────────────────────────────

var walletGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new 12-word mnemonic",
	Long: `Generate a brand-new BIP-39 mnemonic.

The phrase is displayed ONCE. Copy it and store it in a password manager — if
you lose it, every account derived from it is gone forever.

Examples:
  w3lottery wallet generate
  w3lottery wallet generate --save`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		phrase, err := wallet.NewMnemonic()
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("New Mnemonic", [][2]string{{"Phrase", ui.Val(phrase)}}))
		printWalletSummary(phrase)

		if !walletGenerateSave {
			fmt.Println(ui.Hint("Keep it with: w3lottery wallet import (or MNEMONIC=... in .env)"))
			return nil
		}
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		if _, err := wallet.StoreMnemonic(ks, phrase); err != nil {
			return err
		}
		fmt.Println(ui.Success("Mnemonic stored in the keychain"))
		return nil
	},
}

// ── wallet show ───────────────────────────────────────────────────────────────

var walletShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show where the mnemonic comes from and the active account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := "keychain"
		if os.Getenv(wallet.MnemonicEnv) != "" {
			source = "$" + wallet.MnemonicEnv
		}
		w, err := loadWallet()
		if err != nil {
			return err
		}
		addr, err := w.Account(cfg.AccountIndex)
		if err != nil {
			return err
		}
		fmt.Println(ui.KeyValueBlock("Wallet", [][2]string{
			{"Mnemonic", source},
			{"Path", w.Path(cfg.AccountIndex).String()},
			{"Account", ui.Addr(addr.Hex())},
		}))
		return nil
	},
}

// ── wallet forget ─────────────────────────────────────────────────────────────

var walletForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the mnemonic from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ConfirmDanger("Remove the stored mnemonic? Accounts stay on chain, but you need the phrase to use them again.") {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		ks, err := openKeystore()
		if err != nil {
			return err
		}
		if err := wallet.ForgetMnemonic(ks); err != nil {
			return err
		}
		fmt.Println(ui.Success("Mnemonic removed from the keychain"))
		if os.Getenv(wallet.MnemonicEnv) != "" {
			fmt.Println(ui.Warn("$" + wallet.MnemonicEnv + " is still set and will keep being used"))
		}
		return nil
	},
}

// readMnemonic reads the phrase hidden from a terminal, or a line from stdin.
func readMnemonic() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return promptPassword("Mnemonic")
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading mnemonic from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printWalletSummary(phrase string) {
	w, err := wallet.NewHDWallet(phrase, "")
	if err != nil {
		return
	}
	addr, err := w.Account(cfg.AccountIndex)
	if err != nil {
		return
	}
	fmt.Println(ui.Info(fmt.Sprintf("Account %d: %s", cfg.AccountIndex, ui.Addr(addr.Hex()))))
}

func init() {
	walletGenerateCmd.Flags().BoolVar(&walletGenerateSave, "save", false, "store the new mnemonic in the keychain")
	walletCmd.AddCommand(walletImportCmd, walletGenerateCmd, walletShowCmd, walletForgetCmd)
}
