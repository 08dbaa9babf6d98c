package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/config"
	"github.com/Mohsinsiddi/w3lottery/internal/contract"
	"github.com/Mohsinsiddi/w3lottery/internal/lottery"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/Mohsinsiddi/w3lottery/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

const pickerAccounts = 10

var (
	deployAccount  uint32
	deployPick     bool
	deployArtifact string
	deployGas      uint64
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the Lottery contract",
	Long: `Deploy the Lottery contract from an account derived from your mnemonic.

The deployer is m/44'/60'/0'/0/<account_index> (default index 1). The built-in
Lottery bytecode is used unless --artifact (or the "artifact" config key)
points at a compiled artifact (solc, Hardhat or Foundry JSON).

The deployment is recorded locally so enter, pick-winner and players can find
the contract without --address.

Examples:
  w3lottery deploy
  w3lottery deploy --network holesky --account 2
  w3lottery deploy --pick
  w3lottery deploy --artifact build/Lottery.json --gas 1500000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := loadWallet()
		if err != nil {
			return err
		}

		index := accountIndex(cmd, deployAccount)
		if deployPick {
			picked, ok, err := pickAccount(w)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println(ui.Meta("Cancelled."))
				return nil
			}
			index = picked
		}

		artifact, source, err := loadDeployArtifact()
		if err != nil {
			return err
		}
		if err := lottery.CheckABI(artifact.ABI); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}

		gasLimit := cfg.GasLimit
		if cmd.Flags().Changed("gas") {
			gasLimit = deployGas
		}

		reg, err := newDeploymentRegistry()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		client, network, err := connect(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		_, err = runDeploy(ctx, os.Stdout, deployRequest{
			Backend:  client,
			ChainID:  client.ChainIDValue(),
			Network:  network,
			RPC:      client.URL(),
			Wallet:   w,
			Account:  index,
			Artifact: artifact,
			Source:   source,
			GasLimit: gasLimit,
			Registry: reg,
		})
		return err
	},
}

// deployRequest is a fully resolved deployment.
type deployRequest struct {
	Backend  lottery.Backend
	ChainID  *big.Int
	Network  *chain.Network
	RPC      string
	Wallet   *wallet.HDWallet
	Account  uint32
	Artifact *contract.Artifact
	Source   string
	GasLimit uint64
	Registry *contract.Registry
}

// runDeploy publishes the artifact from the requested account, prints the ABI
// and the contract address to out and records the deployment.
func runDeploy(ctx context.Context, out io.Writer, req deployRequest) (*contract.Entry, error) {
	from, err := req.Wallet.Account(req.Account)
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(out, ui.Info("Attempting to deploy from account "+ui.Addr(from.Hex())))
	printDeployEstimate(ctx, out, req, from)

	opts, err := req.Wallet.Transactor(ctx, req.Account, req.ChainID)
	if err != nil {
		return nil, err
	}
	opts.GasLimit = req.GasLimit

	deployCtx, cancel := context.WithTimeout(ctx, config.TxDeployTimeout)
	defer cancel()

	spin := ui.NewSpinner("Deploying and waiting for confirmation...")
	spin.Start()
	l, receipt, err := lottery.Deploy(deployCtx, opts, req.Backend, req.Artifact)
	spin.Stop()
	if err != nil {
		if chain.IsRevert(err) {
			return nil, fmt.Errorf("deployment rejected: %s", chain.RevertReason(err))
		}
		return nil, err
	}

	var abiLine bytes.Buffer
	if err := json.Compact(&abiLine, req.Artifact.ABI); err != nil {
		return nil, fmt.Errorf("compacting ABI: %w", err)
	}
	fmt.Fprintln(out, abiLine.String())
	fmt.Fprintln(out, ui.Success("Contract deployed to "+ui.Addr(l.Address().Hex())))
	fmt.Fprintln(out, ui.KeyValueBlock("Deployment", txPairs(req.Network, receipt)))

	name := req.Artifact.ContractName
	if name == "" {
		name = lottery.Name
	}
	entry := &contract.Entry{
		Name:       name,
		Network:    req.Network.Name,
		ChainID:    req.ChainID.Int64(),
		Address:    l.Address().Hex(),
		Deployer:   from.Hex(),
		TxHash:     receipt.TxHash.Hex(),
		Block:      receipt.BlockNumber.Uint64(),
		GasUsed:    receipt.GasUsed,
		DeployedAt: time.Now().UTC().Format(time.RFC3339),
		ABI:        req.Artifact.ABI,
	}
	req.Registry.Add(entry)
	if err := req.Registry.Save(); err != nil {
		fmt.Fprintln(out, ui.Warn(fmt.Sprintf("Deployed, but could not record it: %v", err)))
		return entry, nil
	}
	fmt.Fprintln(out, ui.Hint("Join it with: w3lottery enter --value 0.02"))
	return entry, nil
}

// loadDeployArtifact returns the artifact to deploy and a short label for it.
func loadDeployArtifact() (*contract.Artifact, string, error) {
	path := deployArtifact
	if path == "" {
		path = cfg.Artifact
	}
	if path == "" {
		a, err := lottery.DefaultArtifact()
		return a, "built-in", err
	}
	a, err := contract.LoadArtifact(path)
	return a, path, err
}

// printDeployEstimate shows what the deployment will cost. Failures only
// skip the estimate; the deployment itself reports real errors.
func printDeployEstimate(ctx context.Context, out io.Writer, req deployRequest, from common.Address) {
	pairs := [][2]string{{"Network", ui.ChainName(req.Network.DisplayName)}}
	if req.RPC != "" {
		pairs = append(pairs, [2]string{"RPC", ui.Meta(req.RPC)})
	}
	pairs = append(pairs,
		[2]string{"Artifact", req.Source},
		[2]string{"Gas limit", strconv.FormatUint(req.GasLimit, 10)},
	)

	info, err := chain.GetGasInfo(ctx, req.Backend)
	if err != nil {
		fmt.Fprintln(out, ui.KeyValueBlock("Deploy", pairs))
		return
	}
	gwei, _ := info.GasPriceDisplay()
	maxCost := info.MaxCost(req.GasLimit)
	pairs = append(pairs,
		[2]string{"Gas price", fmt.Sprintf("%.4f gwei", gwei)},
		[2]string{"Max cost", ui.Val(chain.WeiToETH(maxCost) + " ETH")},
	)

	bal, err := chain.Balance(ctx, req.Backend, from)
	if err == nil {
		pairs = append(pairs, [2]string{"Balance", chain.WeiToETH(bal) + " ETH"})
	}
	fmt.Fprintln(out, ui.KeyValueBlock("Deploy", pairs))

	if bal != nil && bal.Cmp(maxCost) < 0 {
		fmt.Fprintln(out, ui.Warn("Balance may not cover the worst-case deployment cost"))
		if req.Network.FaucetURL != "" {
			fmt.Fprintln(out, ui.Hint("Fund the account at "+req.Network.FaucetURL))
		}
	}
}

// pickAccount lets the user choose a deployer among the first accounts,
// starting on the configured one.
func pickAccount(w *wallet.HDWallet) (uint32, bool, error) {
	addrs, err := w.Accounts(pickerAccounts)
	if err != nil {
		return 0, false, err
	}
	items := make([]ui.PickerItem, len(addrs))
	for i, a := range addrs {
		items[i] = ui.PickerItem{Label: fmt.Sprintf("Account %d", i), SubLabel: a.Hex()}
	}
	i, err := ui.PickItem("Select deployer account", items, int(cfg.AccountIndex))
	if err != nil || i < 0 {
		return 0, false, err
	}
	return uint32(i), true, nil
}

func init() {
	deployCmd.Flags().Uint32Var(&deployAccount, "account", 0, "account index to deploy from (default: config account_index)")
	deployCmd.Flags().BoolVar(&deployPick, "pick", false, "choose the deployer interactively")
	deployCmd.Flags().StringVar(&deployArtifact, "artifact", "", "compiled artifact to deploy instead of the built-in contract")
	deployCmd.Flags().Uint64Var(&deployGas, "gas", 0, "gas limit (default: config gas_limit)")
	deployCmd.MarkFlagsMutuallyExclusive("account", "pick")
}
