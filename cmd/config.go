package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/w3lottery/internal/config"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := cfg.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting and save it.

Keys: ` + strings.Join(config.Keys, ", ") + `

Examples:
  w3lottery config set network holesky
  w3lottery config set rpc_url http://127.0.0.1:8545
  w3lottery config set rpc_url ""                 # back to the network's endpoints
  w3lottery config set rpc_algorithm failover
  w3lottery config set account_index 2
  w3lottery config set gas_limit 1500000`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		v, _ := cfg.Get(args[0])
		fmt.Println(ui.Success(fmt.Sprintf("%s = %q", strings.ToLower(args[0]), v)))
		return nil
	},
}

var configAddRPCCmd = &cobra.Command{
	Use:   "add-rpc <network> <url>",
	Short: "Add an RPC endpoint for a network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		network, url := strings.ToLower(args[0]), args[1]
		if err := cfg.AddRPC(network, url); err != nil {
			// Already exists — not fatal.
			fmt.Println(ui.Warn(err.Error()))
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Added RPC %s for %s", url, ui.ChainName(network))))
		if cfg.RPCURL != "" {
			fmt.Println(ui.Hint("rpc_url is set and takes precedence — clear it with: w3lottery config set rpc_url \"\""))
		}
		return nil
	},
}

var configRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <network> <url>",
	Short: "Remove an RPC endpoint from a network",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		network, url := strings.ToLower(args[0]), args[1]
		if err := cfg.RemoveRPC(network, url); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed RPC %s from %s", url, ui.ChainName(network))))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd, configAddRPCCmd, configRemoveRPCCmd)
}
