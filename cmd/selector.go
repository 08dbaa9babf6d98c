package cmd

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/Mohsinsiddi/w3lottery/internal/evmasm"
	"github.com/Mohsinsiddi/w3lottery/internal/lottery"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/spf13/cobra"
)

var selectorCmd = &cobra.Command{
	Use:   "selector [signature]",
	Short: "Compute a 4-byte function selector",
	Long: `Compute a 4-byte function selector from a signature. Parameter names are
dropped. Without an argument the selectors of the Lottery ABI are listed.

Examples:
  w3lottery selector                              # Lottery dispatch table
  w3lottery selector "enter()"                    # → 0xe97dcb62
  w3lottery selector "players(uint256 index)"     # → 0xf71d96cb`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return printLotterySelectors()
		}

		sig := normalizeSignature(args[0])
		sel := evmasm.Selector(sig)
		fmt.Println(ui.KeyValueBlock("Function Selector", [][2]string{
			{"Signature", sig},
			{"Selector", ui.Val("0x" + hex.EncodeToString(sel[:]))},
		}))
		return nil
	},
}

func printLotterySelectors() error {
	parsed, err := abi.JSON(strings.NewReader(lottery.ABI))
	if err != nil {
		return err
	}
	names := make([]string, 0, len(parsed.Methods))
	for name := range parsed.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	t := ui.NewTable([]ui.Column{
		{Title: "Selector", Width: 12},
		{Title: "Signature", Width: 24},
		{Title: "Mutability", Width: 12},
	})
	for _, name := range names {
		m := parsed.Methods[name]
		t.AddRow(ui.Row{ui.Val("0x" + hex.EncodeToString(m.ID)), m.Sig, ui.Meta(m.StateMutability)})
	}
	fmt.Println(t.Render())
	return nil
}

// normalizeSignature removes parameter names, keeping only types.
// "players(uint256 index)" → "players(uint256)"
func normalizeSignature(sig string) string {
	sig = strings.TrimSpace(sig)
	parenIdx := strings.Index(sig, "(")
	if parenIdx < 0 || !strings.HasSuffix(sig, ")") {
		return sig
	}

	name := strings.TrimSpace(sig[:parenIdx])
	paramStr := sig[parenIdx+1 : len(sig)-1]

	if strings.TrimSpace(paramStr) == "" {
		return name + "()"
	}

	params := strings.Split(paramStr, ",")
	var types []string
	for _, p := range params {
		// Take only the first word (the type), skip the name.
		parts := strings.Fields(p)
		if len(parts) > 0 {
			types = append(types, parts[0])
		}
	}

	return name + "(" + strings.Join(types, ",") + ")"
}
