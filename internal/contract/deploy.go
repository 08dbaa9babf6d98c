package contract

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// Backend is what deployment and bound calls need from a chain connection.
// Both *ethclient.Client and the simulated backend client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Deployment is the outcome of a successful deployment.
type Deployment struct {
	Address  common.Address
	Tx       *types.Transaction
	Receipt  *types.Receipt
	Contract *bind.BoundContract
}

// Deploy publishes a's bytecode (with constructor params), waits up to
// timeout for inclusion and returns the bound instance.
func Deploy(ctx context.Context, opts *bind.TransactOpts, backend Backend, a *Artifact, timeout time.Duration, params ...interface{}) (*Deployment, error) {
	parsed, err := a.ParsedABI()
	if err != nil {
		return nil, err
	}

	log.Debug("Deploying contract", "name", a.name(), "from", opts.From, "gas", opts.GasLimit, "size", len(a.Bytecode))
	addr, tx, bound, err := bind.DeployContract(opts, parsed, a.Bytecode, backend, params...)
	if err != nil {
		return nil, fmt.Errorf("submitting %s deployment: %w", a.name(), err)
	}

	receipt, err := chain.WaitMined(ctx, backend, tx, timeout)
	if err != nil {
		return nil, fmt.Errorf("deploying %s: %w", a.name(), err)
	}
	if receipt.ContractAddress != (common.Address{}) {
		addr = receipt.ContractAddress
	}

	code, err := backend.CodeAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("reading code at %s: %w", addr.Hex(), err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("deploying %s: no code at %s after inclusion", a.name(), addr.Hex())
	}

	log.Info("Contract deployed", "name", a.name(), "address", addr, "tx", tx.Hash(), "gasUsed", receipt.GasUsed)
	return &Deployment{Address: addr, Tx: tx, Receipt: receipt, Contract: bound}, nil
}
