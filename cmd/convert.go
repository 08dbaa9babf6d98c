package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/ui"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <amount> [unit]",
	Short: "Convert between ETH, Gwei, Wei and hex",
	Long: `Convert an amount between Ethereum denominations. The conversion is exact:
amounts finer than 1 wei are rejected. Without a unit the amount is ether,
or hex wei when it starts with 0x.

Units: wei, kwei, mwei, gwei, szabo, finney, ether (eth)

Examples:
  w3lottery convert 0.01              # the minimum entry, in wei
  w3lottery convert 50 gwei
  w3lottery convert 10000000000000000 wei
  w3lottery convert 0x2386f26fc10000`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit := "ether"
		if len(args) > 1 {
			unit = args[1]
		}
		wei, err := parseAmount(args[0], unit, len(args) > 1)
		if err != nil {
			return err
		}

		fmt.Println(ui.KeyValueBlock("Unit Conversion", [][2]string{
			{"Input", ui.Val(args[0] + " " + strings.ToLower(unit))},
			{"ETH", ui.Val(formatUnits(wei, 18) + " ETH")},
			{"Gwei", ui.Val(formatUnits(wei, 9) + " gwei")},
			{"Wei", ui.Val(wei.String() + " wei")},
			{"Hex", ui.Val("0x" + wei.Text(16))},
		}))
		return nil
	},
}

// parseAmount converts amount to wei. Hex input is always wei and is only
// auto-detected when no unit was given.
func parseAmount(amount, unit string, unitGiven bool) (*big.Int, error) {
	lower := strings.ToLower(amount)
	if strings.HasPrefix(lower, "0x") {
		if unitGiven && strings.ToLower(unit) != "wei" {
			return nil, fmt.Errorf("hex amounts are in wei — drop the unit or use wei")
		}
		n, ok := new(big.Int).SetString(lower[2:], 16)
		if !ok || n.Sign() < 0 {
			return nil, fmt.Errorf("invalid hex value: %s", amount)
		}
		return n, nil
	}
	return chain.ToWei(amount, unit)
}

// formatUnits renders wei divided by 10^decimals with trailing zeros trimmed.
func formatUnits(wei *big.Int, decimals int64) string {
	if decimals == 18 {
		return chain.WeiToETH(wei)
	}
	div := new(big.Int).Exp(big.NewInt(10), big.NewInt(decimals), nil)
	s := new(big.Rat).SetFrac(wei, div).FloatString(int(decimals))
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func init() {
	// No flags needed — pure positional args.
}
