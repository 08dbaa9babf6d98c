package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

// GasReader is the subset of a backend needed to price transactions.
type GasReader interface {
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// GasInfo holds current gas pricing data for a chain.
type GasInfo struct {
	GasPrice     *big.Int // legacy eth_gasPrice (Wei)
	BaseFee      *big.Int // EIP-1559 base fee (Wei), nil on legacy chains
	TipCap       *big.Int // suggested priority fee (Wei), nil on legacy chains
	GasPriceGwei float64
	BaseFeeGwei  float64
}

// GasPriceDisplay returns the best gas price for display (Gwei) and whether
// the chain supports EIP-1559.
func (g *GasInfo) GasPriceDisplay() (gwei float64, isEIP1559 bool) {
	if g.BaseFee != nil && g.BaseFeeGwei > 0 {
		return g.BaseFeeGwei, true
	}
	return g.GasPriceGwei, false
}

// MaxFeePerGas is the fee cap bind uses for dynamic-fee transactions
// (2*baseFee + tip), or the legacy gas price.
func (g *GasInfo) MaxFeePerGas() *big.Int {
	if g.BaseFee == nil {
		return new(big.Int).Set(g.GasPrice)
	}
	fee := new(big.Int).Mul(g.BaseFee, big.NewInt(2))
	if g.TipCap != nil {
		fee.Add(fee, g.TipCap)
	}
	return fee
}

// MaxCost is the most a transaction with gasLimit can cost, excluding value.
func (g *GasInfo) MaxCost(gasLimit uint64) *big.Int {
	return new(big.Int).Mul(g.MaxFeePerGas(), new(big.Int).SetUint64(gasLimit))
}

// GetGasInfo reads the gas price and, when the latest header carries one,
// the EIP-1559 base fee and suggested tip.
func GetGasInfo(ctx context.Context, b GasReader) (*GasInfo, error) {
	gp, err := b.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading gas price: %w", err)
	}
	info := &GasInfo{
		GasPrice:     gp,
		GasPriceGwei: WeiToGwei(gp),
	}

	head, err := b.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("reading latest header: %w", err)
	}
	if head.BaseFee == nil {
		return info, nil
	}
	tip, err := b.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading tip cap: %w", err)
	}
	info.BaseFee = head.BaseFee
	info.BaseFeeGwei = WeiToGwei(head.BaseFee)
	info.TipCap = tip
	return info, nil
}

// WeiToGwei converts a Wei value to Gwei as float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetFloat64(1e9),
	).Float64()
	return f
}
