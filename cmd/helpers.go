package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"runtime"
	"strings"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/config"
	"github.com/Mohsinsiddi/w3lottery/internal/contract"
	"github.com/Mohsinsiddi/w3lottery/internal/lottery"
	"github.com/Mohsinsiddi/w3lottery/internal/rpc"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/Mohsinsiddi/w3lottery/internal/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// keyringEnv selects the keystore backend: "file" forces the encrypted file
// keyring in the config dir, anything else uses the OS keychain.
const keyringEnv = "W3LOTTERY_KEYRING"

// ── network ──────────────────────────────────────────────────────────────────

// activeNetwork resolves --network, falling back to the configured network.
func activeNetwork() (*chain.Network, error) {
	name := cfg.Network
	if networkFlag != "" {
		name = networkFlag
	}
	n, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("unknown network %q — run `w3lottery network list` to see all networks", name)
	}
	return n, nil
}

// endpointsFor lists the RPC candidates for n: --rpc alone when given,
// otherwise the configured endpoints.
func endpointsFor(n *chain.Network) []string {
	if rpcFlag != "" {
		return []string{rpcFlag}
	}
	return cfg.Endpoints(n.Name, n.RPC)
}

// connect picks an endpoint for the active network and dials it.
func connect(ctx context.Context) (*chain.Client, *chain.Network, error) {
	n, err := activeNetwork()
	if err != nil {
		return nil, nil, err
	}

	spin := ui.NewSpinner(fmt.Sprintf("Connecting to %s...", n.DisplayName))
	spin.Start()
	sel, err := rpc.SelectBest(ctx, endpointsFor(n), cfg.RPCAlgorithm, cfg.RPCCursor(n.Name))
	if err != nil {
		spin.Stop()
		return nil, nil, fmt.Errorf("selecting RPC for %s: %w", n.Name, err)
	}
	rememberCursor(n, sel)
	url := sel.URL

	dialCtx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()
	client, err := chain.Dial(dialCtx, url)
	spin.Stop()
	if err != nil {
		return nil, nil, err
	}

	if got := client.ChainIDValue(); n.ChainID != 0 && got.Cmp(big.NewInt(n.ChainID)) != 0 {
		msg := fmt.Sprintf("%s reports chain id %s, expected %d for %s", url, got, n.ChainID, n.Name)
		if other, err := chain.NewRegistry().GetByChainID(got.Int64()); err == nil {
			msg += fmt.Sprintf(" (looks like %s)", other.Name)
		}
		fmt.Println(ui.Warn(msg))
	}
	return client, n, nil
}

// rememberCursor saves the round-robin position so the next run moves on to
// the following endpoint.
func rememberCursor(n *chain.Network, sel rpc.Selection) {
	if !cfg.SetRPCCursor(n.Name, sel.Cursor) {
		return
	}
	if err := cfg.Save(); err != nil {
		log.Warn("Could not save RPC cursor", "network", n.Name, "err", err)
	}
}

// ── wallet ───────────────────────────────────────────────────────────────────

// openKeystore returns the keystore holding the mnemonic. Headless Linux has
// no secret service, so the file keyring is used there.
func openKeystore() (*wallet.Keystore, error) {
	useFile := os.Getenv(keyringEnv) == "file" ||
		(runtime.GOOS == "linux" && os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "")
	if useFile {
		return wallet.NewFileKeystore(cfg.KeyringDir(), promptPassword)
	}
	return wallet.DefaultKeystore(), nil
}

// loadWallet resolves the mnemonic ($MNEMONIC, then the keystore) and opens
// the HD wallet.
func loadWallet() (*wallet.HDWallet, error) {
	var ks wallet.KeystoreBackend
	if os.Getenv(wallet.MnemonicEnv) == "" {
		k, err := openKeystore()
		if err != nil {
			return nil, err
		}
		ks = k
	}
	mnemonic, err := wallet.ResolveMnemonic(ks)
	if err != nil {
		return nil, err
	}
	return wallet.NewHDWallet(mnemonic, "")
}

// accountIndex returns the --account flag when set, else the configured index.
func accountIndex(cmd *cobra.Command, flagValue uint32) uint32 {
	if cmd.Flags().Changed("account") {
		return flagValue
	}
	return cfg.AccountIndex
}

// promptPassword reads a secret from the terminal without echo.
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt+": ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(b), nil
}

// ── deployments ──────────────────────────────────────────────────────────────

func newDeploymentRegistry() (*contract.Registry, error) {
	reg := contract.NewRegistry(cfg.DeploymentsPath())
	if err := reg.Load(); err != nil {
		return nil, err
	}
	return reg, nil
}

// resolveLotteryAddress returns --address when given, otherwise the latest
// Lottery recorded for network.
func resolveLotteryAddress(reg *contract.Registry, address, network string) (common.Address, error) {
	if address != "" {
		if !common.IsHexAddress(address) {
			return common.Address{}, fmt.Errorf("invalid contract address %q", address)
		}
		return common.HexToAddress(address), nil
	}
	e, err := reg.LatestMatching(network, isLotteryEntry)
	if errors.Is(err, contract.ErrDeploymentNotFound) {
		return common.Address{}, fmt.Errorf("no %s deployment recorded on %s — run `w3lottery deploy` or pass --address", lottery.Name, network)
	}
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(e.Address), nil
}

// isLotteryEntry accepts deployments of the built-in contract and of any
// artifact exposing the Lottery interface, whatever its contract name.
func isLotteryEntry(e *contract.Entry) bool {
	return strings.EqualFold(e.Name, lottery.Name) || lottery.CheckABI(e.ABI) == nil
}

// openLottery binds the Lottery selected by address (or the registry) on the
// connected network.
func openLottery(client *chain.Client, n *chain.Network, address string) (*lottery.Lottery, error) {
	reg, err := newDeploymentRegistry()
	if err != nil {
		return nil, err
	}
	addr, err := resolveLotteryAddress(reg, address, n.Name)
	if err != nil {
		return nil, err
	}
	return lottery.New(addr, client), nil
}

// txPairs renders the common receipt fields.
func txPairs(n *chain.Network, r *types.Receipt) [][2]string {
	pairs := [][2]string{
		{"Tx", ui.Val(r.TxHash.Hex())},
		{"Block", r.BlockNumber.String()},
		{"Gas used", fmt.Sprintf("%d", r.GasUsed)},
	}
	if url := n.TxURL(r.TxHash.Hex()); url != "" {
		pairs = append(pairs, [2]string{"Explorer", ui.Meta(url)})
	}
	return pairs
}
