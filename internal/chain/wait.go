package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// ErrReverted is returned when a mined transaction has status 0.
var ErrReverted = errors.New("transaction reverted")

// WaitMined blocks until tx is included or timeout expires. A receipt with a
// failed status is returned together with an error wrapping ErrReverted.
func WaitMined(ctx context.Context, b bind.DeployBackend, tx *types.Transaction, timeout time.Duration) (*types.Receipt, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.Debug("Waiting for transaction", "hash", tx.Hash(), "timeout", timeout)
	receipt, err := bind.WaitMined(ctx, b, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("transaction %s not mined within %s", tx.Hash().Hex(), timeout)
		}
		return nil, fmt.Errorf("waiting for %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w (hash: %s)", ErrReverted, tx.Hash().Hex())
	}
	log.Debug("Transaction mined", "hash", tx.Hash(), "block", receipt.BlockNumber, "gas", receipt.GasUsed)
	return receipt, nil
}
