package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/contract"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/spf13/cobra"
)

var (
	deploymentsInteractive bool
	deploymentsAll         bool
	deploymentsRemoveYes   bool
)

var deploymentsCmd = &cobra.Command{
	Use:   "deployments",
	Short: "List recorded deployments",
	Long: `List the contracts deployed with w3lottery, newest first. Only the active
network is shown unless --all is given.

Examples:
  w3lottery deployments
  w3lottery deployments --all
  w3lottery deployments -i          # browse, open in explorer, copy address`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newDeploymentRegistry()
		if err != nil {
			return err
		}
		network := ""
		if !deploymentsAll {
			n, err := activeNetwork()
			if err != nil {
				return err
			}
			network = n.Name
		}

		entries := filterDeployments(reg.All(), network)
		if len(entries) == 0 {
			fmt.Println(ui.Info("No deployments recorded yet."))
			fmt.Println(ui.Hint("Deploy one with: w3lottery deploy"))
			return nil
		}

		t := deploymentsTable(entries)
		if deploymentsInteractive {
			return ui.RunDeploymentList("Deployments", t, deploymentRows(entries))
		}
		fmt.Println(t.Render())
		fmt.Println(ui.Meta(fmt.Sprintf("%d deployment(s)", len(entries))))
		return nil
	},
}

var deploymentsRemoveCmd = &cobra.Command{
	Use:   "remove <address>",
	Short: "Forget a recorded deployment on the active network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := activeNetwork()
		if err != nil {
			return err
		}
		if !deploymentsRemoveYes && !ui.Confirm(fmt.Sprintf("Forget %s on %s?", args[0], n.Name)) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}
		reg, err := newDeploymentRegistry()
		if err != nil {
			return err
		}
		if err := reg.Remove(n.Name, args[0]); err != nil {
			return err
		}
		if err := reg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Removed %s on %s", ui.Addr(args[0]), n.Name)))
		return nil
	},
}

// filterDeployments keeps entries on network; "" keeps everything.
func filterDeployments(entries []*contract.Entry, network string) []*contract.Entry {
	if network == "" {
		return entries
	}
	out := make([]*contract.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.EqualFold(e.Network, network) {
			out = append(out, e)
		}
	}
	return out
}

func deploymentsTable(entries []*contract.Entry) *ui.Table {
	t := ui.NewTable([]ui.Column{
		{Title: "#", Width: 3},
		{Title: "Name", Width: 10},
		{Title: "Network", Width: 10},
		{Title: "Address", Width: 44},
		{Title: "Block", Width: 10},
		{Title: "Deployed", Width: 16},
	})
	for i, e := range entries {
		t.AddRow(ui.Row{
			fmt.Sprintf("%d", i+1),
			ui.Val(e.Name),
			ui.ChainName(e.Network),
			ui.Addr(e.Address),
			fmt.Sprintf("%d", e.Block),
			formatDeployedAt(e.DeployedAt),
		})
	}
	return t
}

func deploymentRows(entries []*contract.Entry) []ui.DeploymentRow {
	reg := chain.NewRegistry()
	rows := make([]ui.DeploymentRow, len(entries))
	for i, e := range entries {
		rows[i] = ui.DeploymentRow{Address: e.Address}
		if n, err := reg.GetByName(e.Network); err == nil {
			rows[i].ExplorerURL = n.AddressURL(e.Address)
		}
	}
	return rows
}

// formatDeployedAt renders an RFC 3339 timestamp in local time, or the raw
// value when it does not parse.
func formatDeployedAt(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04")
}

func init() {
	deploymentsCmd.Flags().BoolVarP(&deploymentsInteractive, "interactive", "i", false, "browse deployments interactively")
	deploymentsCmd.Flags().BoolVarP(&deploymentsAll, "all", "a", false, "show deployments on every network")
	deploymentsRemoveCmd.Flags().BoolVarP(&deploymentsRemoveYes, "yes", "y", false, "skip the confirmation prompt")
	deploymentsCmd.AddCommand(deploymentsRemoveCmd)
}
