package chain

import (
	"fmt"
	"math/big"
	"strings"
)

// Denominations understood by ToWei.
var unitExponent = map[string]int64{
	"wei":    0,
	"kwei":   3,
	"mwei":   6,
	"gwei":   9,
	"szabo":  12,
	"finney": 15,
	"ether":  18,
	"eth":    18,
}

// ToWei converts a decimal amount in unit into wei. The conversion is exact;
// amounts with more fractional digits than the unit allows are rejected.
func ToWei(amount, unit string) (*big.Int, error) {
	exp, ok := unitExponent[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return nil, fmt.Errorf("unknown unit %q — use wei, gwei or ether", unit)
	}
	amount = strings.TrimSpace(amount)
	r, ok := new(big.Rat).SetString(amount)
	if !ok || strings.ContainsAny(amount, "/eExX") {
		return nil, fmt.Errorf("invalid amount: %q", amount)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative: %s", amount)
	}
	r.Mul(r, new(big.Rat).SetInt(pow10(exp)))
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %s %s has more precision than 1 wei", amount, unit)
	}
	return new(big.Int).Set(r.Num()), nil
}

// MustEther is ToWei(amount, "ether") for constants; it panics on bad input.
func MustEther(amount string) *big.Int {
	v, err := ToWei(amount, "ether")
	if err != nil {
		panic(err)
	}
	return v
}

// WeiToETH formats wei as a decimal ether string with trailing zeros trimmed.
func WeiToETH(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)
	q, m := new(big.Int).QuoRem(abs, pow10(18), new(big.Int))

	s := q.String()
	if m.Sign() != 0 {
		digits := m.String()
		frac := strings.Repeat("0", 18-len(digits)) + digits
		s += "." + strings.TrimRight(frac, "0")
	}
	if neg {
		s = "-" + s
	}
	return s
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}
