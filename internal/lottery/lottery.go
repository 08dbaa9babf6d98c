package lottery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/contract"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// Backend is the chain connection a Lottery needs.
type Backend interface {
	contract.Backend
	chain.BalanceReader
}

var parsedABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(ABI))
	if err != nil {
		panic(fmt.Sprintf("lottery: invalid ABI: %v", err))
	}
	return parsed
}()

// Lottery is a deployed Lottery contract.
type Lottery struct {
	address  common.Address
	backend  Backend
	contract *bind.BoundContract
}

// New binds the Lottery at address.
func New(address common.Address, backend Backend) *Lottery {
	return &Lottery{
		address:  address,
		backend:  backend,
		contract: bind.NewBoundContract(address, parsedABI, backend, backend, backend),
	}
}

// ErrNotLottery is returned for artifacts lacking the Lottery interface.
var ErrNotLottery = errors.New("artifact is not a Lottery contract")

// CheckABI verifies that raw exposes the methods the binding calls:
// enter(), pickWinner(), getPlayers() returning address[] and manager().
func CheckABI(raw []byte) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: no ABI", ErrNotLottery)
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotLottery, err)
	}
	for _, name := range []string{"enter", "pickWinner", "getPlayers", "manager"} {
		m, ok := parsed.Methods[name]
		if !ok {
			return fmt.Errorf("%w: missing %s()", ErrNotLottery, name)
		}
		if len(m.Inputs) != 0 {
			return fmt.Errorf("%w: %s takes arguments", ErrNotLottery, m.Sig)
		}
	}
	out := parsed.Methods["getPlayers"].Outputs
	if len(out) != 1 || out[0].Type.String() != "address[]" {
		return fmt.Errorf("%w: getPlayers() must return address[]", ErrNotLottery)
	}
	return nil
}

// Deploy publishes artifact (DefaultArtifact when nil) and waits for it to be
// mined. ctx bounds the whole operation. Artifacts without the Lottery
// interface are rejected before anything is sent.
func Deploy(ctx context.Context, opts *bind.TransactOpts, backend Backend, artifact *contract.Artifact) (*Lottery, *types.Receipt, error) {
	if artifact == nil {
		var err error
		if artifact, err = DefaultArtifact(); err != nil {
			return nil, nil, err
		}
	}
	if err := CheckABI(artifact.ABI); err != nil {
		return nil, nil, err
	}
	d, err := contract.Deploy(ctx, withContext(ctx, opts), backend, artifact, 0)
	if err != nil {
		return nil, nil, err
	}
	return New(d.Address, backend), d.Receipt, nil
}

// Address returns the contract address.
func (l *Lottery) Address() common.Address { return l.address }

// Enter joins the lottery from opts.From paying opts.Value.
func (l *Lottery) Enter(ctx context.Context, opts *bind.TransactOpts) (*types.Receipt, error) {
	return l.transact(ctx, opts, "enter")
}

// PickWinner pays the whole pot to a pseudo-random player and resets the
// player list. Only the manager may call it.
func (l *Lottery) PickWinner(ctx context.Context, opts *bind.TransactOpts) (*types.Receipt, error) {
	return l.transact(ctx, opts, "pickWinner")
}

// GetPlayers returns the current players in entry order.
func (l *Lottery) GetPlayers(ctx context.Context, from common.Address) ([]common.Address, error) {
	var out []interface{}
	if err := l.contract.Call(&bind.CallOpts{Context: ctx, From: from}, &out, "getPlayers"); err != nil {
		return nil, fmt.Errorf("calling getPlayers: %w", err)
	}
	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}

// Manager returns the account that deployed the contract.
func (l *Lottery) Manager(ctx context.Context) (common.Address, error) {
	var out []interface{}
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "manager"); err != nil {
		return common.Address{}, fmt.Errorf("calling manager: %w", err)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Player returns players[i]. The call fails when i is out of range.
func (l *Lottery) Player(ctx context.Context, i uint64) (common.Address, error) {
	var out []interface{}
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, "players", new(big.Int).SetUint64(i)); err != nil {
		return common.Address{}, fmt.Errorf("calling players(%d): %w", i, err)
	}
	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// Balance returns the pot held by the contract, in wei.
func (l *Lottery) Balance(ctx context.Context) (*big.Int, error) {
	return chain.Balance(ctx, l.backend, l.address)
}

// ErrWinnerNotFound is returned by Winner when no player's balance moved by
// the paid-out pot.
var ErrWinnerNotFound = errors.New("winner not found among players")

// Winner works out who received the pot paid by a pickWinner receipt by
// comparing player balances on either side of its block. players is the list
// read before the payout; caller's gas is added back to its delta. It returns
// the winner and the pot.
func (l *Lottery) Winner(ctx context.Context, receipt *types.Receipt, caller common.Address, players []common.Address) (common.Address, *big.Int, error) {
	block := receipt.BlockNumber
	prev := new(big.Int).Sub(block, big.NewInt(1))

	pot, err := l.backend.BalanceAt(ctx, l.address, prev)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("reading pot at block %s: %w", prev, err)
	}
	fee := new(big.Int).SetUint64(receipt.GasUsed)
	if receipt.EffectiveGasPrice != nil {
		fee.Mul(fee, receipt.EffectiveGasPrice)
	} else {
		fee.SetUint64(0)
	}

	seen := make(map[common.Address]bool, len(players))
	for _, p := range players {
		if seen[p] {
			continue
		}
		seen[p] = true

		before, err := l.backend.BalanceAt(ctx, p, prev)
		if err != nil {
			return common.Address{}, pot, fmt.Errorf("reading balance of %s: %w", p.Hex(), err)
		}
		after, err := l.backend.BalanceAt(ctx, p, block)
		if err != nil {
			return common.Address{}, pot, fmt.Errorf("reading balance of %s: %w", p.Hex(), err)
		}
		delta := new(big.Int).Sub(after, before)
		if p == caller {
			delta.Add(delta, fee)
		}
		if delta.Cmp(pot) == 0 {
			return p, pot, nil
		}
	}
	return common.Address{}, pot, ErrWinnerNotFound
}

func (l *Lottery) transact(ctx context.Context, opts *bind.TransactOpts, method string) (*types.Receipt, error) {
	log.Debug("Sending lottery transaction", "method", method, "from", opts.From, "value", opts.Value)
	tx, err := l.contract.Transact(withContext(ctx, opts), method)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	receipt, err := chain.WaitMined(ctx, l.backend, tx, 0)
	if err != nil {
		return receipt, fmt.Errorf("%s: %w", method, err)
	}
	return receipt, nil
}

func withContext(ctx context.Context, opts *bind.TransactOpts) *bind.TransactOpts {
	o := *opts
	o.Context = ctx
	return &o
}
