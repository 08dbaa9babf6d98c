package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/config"
	"github.com/Mohsinsiddi/w3lottery/internal/lottery"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/spf13/cobra"
)

var (
	lotteryAddress string
	playAccount    uint32
	enterValue     string
	enterUnit      string
)

// ── enter ─────────────────────────────────────────────────────────────────────

var enterCmd = &cobra.Command{
	Use:   "enter",
	Short: "Enter the lottery",
	Long: `Enter the lottery by sending at least 0.01 ETH from one of your accounts.

Examples:
  w3lottery enter --value 0.02
  w3lottery enter --value 20000000 --unit gwei --account 3
  w3lottery enter --value 0.05 --address 0x1234...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := chain.ToWei(enterValue, enterUnit)
		if err != nil {
			return err
		}
		if value.Cmp(lottery.MinimumEntry) < 0 {
			fmt.Println(ui.Warn(fmt.Sprintf("%s ETH is below the %s ETH minimum — the contract will reject it",
				chain.WeiToETH(value), chain.WeiToETH(lottery.MinimumEntry))))
		}

		w, err := loadWallet()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		client, network, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		l, err := openLottery(client, network, lotteryAddress)
		if err != nil {
			return err
		}
		opts, err := w.Transactor(ctx, accountIndex(cmd, playAccount), client.ChainIDValue())
		if err != nil {
			return err
		}
		opts.Value = value

		txCtx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
		defer cancel()

		spin := ui.NewSpinner(fmt.Sprintf("Entering with %s ETH...", chain.WeiToETH(value)))
		spin.Start()
		receipt, err := l.Enter(txCtx, opts)
		spin.Stop()
		if err != nil {
			if chain.IsRevert(err) {
				return fmt.Errorf("entry rejected (%s) — send at least %s ETH", chain.RevertReason(err), chain.WeiToETH(lottery.MinimumEntry))
			}
			return err
		}

		fmt.Println(ui.Success(fmt.Sprintf("%s entered with %s ETH", ui.Addr(opts.From.Hex()), chain.WeiToETH(value))))
		fmt.Println(ui.KeyValueBlock("Transaction", txPairs(network, receipt)))
		if players, err := l.GetPlayers(ctx, opts.From); err == nil {
			fmt.Println(ui.Meta(fmt.Sprintf("%d player(s) in the pot", len(players))))
		}
		return nil
	},
}

// ── pick-winner ───────────────────────────────────────────────────────────────

var pickWinnerCmd = &cobra.Command{
	Use:   "pick-winner",
	Short: "Pay the pot to a random player (manager only)",
	Long: `Pick a winner and send them the whole pot. Only the account that deployed
the contract may call this, and at least one player must have entered.

Examples:
  w3lottery pick-winner
  w3lottery pick-winner --account 1 --address 0x1234...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := loadWallet()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		client, network, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		l, err := openLottery(client, network, lotteryAddress)
		if err != nil {
			return err
		}
		opts, err := w.Transactor(ctx, accountIndex(cmd, playAccount), client.ChainIDValue())
		if err != nil {
			return err
		}

		manager, err := l.Manager(ctx)
		if err != nil {
			return err
		}
		if manager != opts.From {
			return fmt.Errorf("only the manager %s can pick a winner (you are %s) — use --account", manager.Hex(), opts.From.Hex())
		}
		players, err := l.GetPlayers(ctx, opts.From)
		if err != nil {
			return err
		}
		if len(players) == 0 {
			return errors.New("no players have entered yet")
		}

		txCtx, cancel := context.WithTimeout(ctx, config.TxConfirmTimeout)
		defer cancel()

		spin := ui.NewSpinner(fmt.Sprintf("Picking a winner among %d player(s)...", len(players)))
		spin.Start()
		receipt, err := l.PickWinner(txCtx, opts)
		spin.Stop()
		if err != nil {
			if chain.IsRevert(err) {
				return fmt.Errorf("pickWinner rejected: %s", chain.RevertReason(err))
			}
			return err
		}

		pairs := txPairs(network, receipt)
		winner, pot, err := l.Winner(ctx, receipt, opts.From, players)
		switch {
		case err == nil:
			fmt.Println(ui.Success(fmt.Sprintf("Winner: %s takes %s ETH", ui.Addr(winner.Hex()), chain.WeiToETH(pot))))
		case pot != nil:
			fmt.Println(ui.Success(fmt.Sprintf("Pot of %s ETH paid out", chain.WeiToETH(pot))))
			fmt.Println(ui.Warn("Could not tell which player won: " + err.Error()))
		default:
			fmt.Println(ui.Success("Winner picked"))
		}
		fmt.Println(ui.KeyValueBlock("Transaction", pairs))
		return nil
	},
}

// ── players ───────────────────────────────────────────────────────────────────

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the current players and the pot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, network, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		l, err := openLottery(client, network, lotteryAddress)
		if err != nil {
			return err
		}
		manager, err := l.Manager(ctx)
		if err != nil {
			return err
		}
		players, err := l.GetPlayers(ctx, manager)
		if err != nil {
			return err
		}
		pot, err := l.Balance(ctx)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock(lottery.Name, [][2]string{
			{"Contract", ui.Addr(l.Address().Hex())},
			{"Network", ui.ChainName(network.DisplayName)},
			{"Manager", ui.Addr(manager.Hex())},
			{"Pot", ui.Val(chain.WeiToETH(pot) + " ETH")},
			{"Players", fmt.Sprintf("%d", len(players))},
		}))
		if len(players) == 0 {
			fmt.Println(ui.Hint("No players yet. Join with: w3lottery enter --value 0.02"))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "#", Width: 4},
			{Title: "Player", Width: 44},
		})
		for i, p := range players {
			t.AddRow(ui.Row{fmt.Sprintf("%d", i), ui.Addr(p.Hex())})
		}
		fmt.Println(t.Render())
		return nil
	},
}

// ── manager ───────────────────────────────────────────────────────────────────

var managerCmd = &cobra.Command{
	Use:   "manager",
	Short: "Show the contract manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client, network, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		l, err := openLottery(client, network, lotteryAddress)
		if err != nil {
			return err
		}
		manager, err := l.Manager(ctx)
		if err != nil {
			return err
		}
		fmt.Println(ui.Addr(manager.Hex()))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{enterCmd, pickWinnerCmd, playersCmd, managerCmd} {
		c.Flags().StringVar(&lotteryAddress, "address", "", "contract address (default: latest deployment on the network)")
	}
	for _, c := range []*cobra.Command{enterCmd, pickWinnerCmd} {
		c.Flags().Uint32Var(&playAccount, "account", 0, "account index to send from (default: config account_index)")
	}
	enterCmd.Flags().StringVar(&enterValue, "value", "0.01", "amount to send")
	enterCmd.Flags().StringVar(&enterUnit, "unit", "ether", "unit of --value (wei, gwei, ether)")
}
