package cmd

import (
	"fmt"
	"time"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/rpc"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage networks",
}

var networkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the supported networks",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chain.NewRegistry()
		t := ui.NewTable([]ui.Column{
			{Title: "", Width: 2},
			{Title: "Name", Width: 12},
			{Title: "Display", Width: 16},
			{Title: "Chain ID", Width: 10},
			{Title: "RPCs", Width: 5},
			{Title: "Explorer", Width: 30},
		})

		for _, n := range reg.All() {
			mark := ""
			if n.Name == cfg.Network {
				mark = "●"
			}
			explorer := n.Explorer
			if explorer == "" {
				explorer = "—"
			}
			t.AddRow(ui.Row{
				mark,
				ui.ChainName(n.Name),
				n.DisplayName,
				fmt.Sprintf("%d", n.ChainID),
				fmt.Sprintf("%d", len(cfg.Endpoints(n.Name, n.RPC))),
				ui.Meta(explorer),
			})
		}

		fmt.Println(t.Render())
		fmt.Printf("%s\n", ui.Meta(fmt.Sprintf("%d networks total, ● = active", len(reg.All()))))
		return nil
	},
}

var networkUseCmd = &cobra.Command{
	Use:   "use <network>",
	Short: "Set the default network",
	Long: `Set the network deploy, enter and the other commands use by default.

Examples:
  w3lottery network use sepolia
  w3lottery network use localhost`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := chain.NewRegistry().GetByName(args[0])
		if err != nil {
			return fmt.Errorf("unknown network %q — run `w3lottery network list` to see all networks", args[0])
		}

		cfg.Network = n.Name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default network set to %s", ui.ChainName(n.Name))))
		return nil
	},
}

var networkPingCmd = &cobra.Command{
	Use:   "ping [network]",
	Short: "Benchmark the RPC endpoints of a network",
	Long: `Ping every configured endpoint of a network in parallel and show latency,
head block and the endpoint the configured rpc_algorithm would pick.

Examples:
  w3lottery network ping
  w3lottery network ping holesky`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			networkFlag = args[0]
		}
		n, err := activeNetwork()
		if err != nil {
			return err
		}
		urls := endpointsFor(n)
		if len(urls) == 0 {
			return fmt.Errorf("no RPC endpoints for %s — add one with: w3lottery config add-rpc %s <url>", n.Name, n.Name)
		}

		spin := ui.NewSpinner(fmt.Sprintf("Pinging %d endpoint(s) on %s...", len(urls), n.DisplayName))
		spin.Start()
		results := rpc.Benchmark(cmd.Context(), urls)
		spin.Stop()

		best := ""
		if winner, err := rpc.NewPicker(rpc.Algorithm(cfg.RPCAlgorithm), cfg.RPCCursor(n.Name)).Pick(rpc.ResultsToEndpoints(results)); err == nil {
			best = winner.URL
		}

		t := ui.NewTable([]ui.Column{
			{Title: "", Width: 2},
			{Title: "Endpoint", Width: 48},
			{Title: "Latency", Width: 10},
			{Title: "Block", Width: 12},
			{Title: "Status", Width: 30},
		})
		for _, r := range results {
			mark := ""
			if r.URL == best {
				mark = "★"
			}
			if r.Err != nil {
				t.AddRow(ui.Row{mark, r.URL, "—", "—", ui.StyleError.Render(truncate(r.Err.Error(), 30))})
				continue
			}
			t.AddRow(ui.Row{
				mark,
				r.URL,
				r.Latency.Round(time.Millisecond).String(),
				fmt.Sprintf("%d", r.BlockNumber),
				ui.StyleSuccess.Render("ok"),
			})
		}
		fmt.Println(t.Render())
		if best == "" {
			return rpc.ErrNoHealthyRPC
		}
		fmt.Println(ui.Meta(fmt.Sprintf("★ = picked by %s", cfg.RPCAlgorithm)))
		return nil
	},
}

var networkCheckCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Check whether a single RPC endpoint is usable",
	Long: `Ping one endpoint and report its latency and head block.

Examples:
  w3lottery network check http://127.0.0.1:8545
  w3lottery network check https://ethereum-holesky-rpc.publicnode.com`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spin := ui.NewSpinner("Pinging " + args[0] + "...")
		spin.Start()
		ep, err := rpc.HealthCheck(cmd.Context(), args[0], 0)
		if err != nil {
			spin.Stop()
			return fmt.Errorf("%s is not reachable: %w", args[0], err)
		}
		spin.StopWithMsg(ui.Success("Endpoint is healthy"))
		fmt.Println(ui.KeyValueBlock("Endpoint", [][2]string{
			{"URL", ep.URL},
			{"Latency", ep.Latency.Round(time.Millisecond).String()},
			{"Block", fmt.Sprintf("%d", ep.BlockNumber)},
		}))
		return nil
	},
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func init() {
	networkCmd.AddCommand(networkListCmd, networkUseCmd, networkPingCmd, networkCheckCmd)
}
