package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/spf13/cobra"
)

var (
	accountsCount    int
	accountsBalances bool
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts derived from the mnemonic",
	Long: `List the first accounts of the HD wallet (m/44'/60'/0'/0/i). The account
used by deploy, enter and pick-winner is marked.

Examples:
  w3lottery accounts
  w3lottery accounts --count 5 --balances`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if accountsCount < 1 {
			return fmt.Errorf("--count must be at least 1")
		}
		w, err := loadWallet()
		if err != nil {
			return err
		}
		addrs, err := w.Accounts(accountsCount)
		if err != nil {
			return err
		}

		cols := []ui.Column{
			{Title: "", Width: 2},
			{Title: "#", Width: 4},
			{Title: "Path", Width: 20},
			{Title: "Address", Width: 44},
		}
		var client *chain.Client
		if accountsBalances {
			c, _, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()
			client = c
			cols = append(cols, ui.Column{Title: "Balance (ETH)", Width: 24})
		}

		t := ui.NewTable(cols)
		for i, a := range addrs {
			mark := ""
			if uint32(i) == cfg.AccountIndex {
				mark = "●"
			}
			row := ui.Row{mark, fmt.Sprintf("%d", i), w.Path(uint32(i)).String(), ui.Addr(a.Hex())}
			if client != nil {
				bal, err := chain.Balance(cmd.Context(), client, a)
				if err != nil {
					row = append(row, ui.Meta("error"))
				} else {
					row = append(row, ui.Val(chain.WeiToETH(bal)))
				}
			}
			t.AddRow(row)
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("● account_index = %d (change with: w3lottery config set account_index <n>)", cfg.AccountIndex)))
		return nil
	},
}

func init() {
	accountsCmd.Flags().IntVarP(&accountsCount, "count", "c", 10, "number of accounts to list")
	accountsCmd.Flags().BoolVarP(&accountsBalances, "balances", "b", false, "also show balances on the active network")
}
