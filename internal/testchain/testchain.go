// Package testchain runs an in-memory Ethereum chain for tests. Every
// submitted transaction is mined immediately in its own block.
package testchain

import (
	"context"
	"math/big"
	"testing"

	"github.com/Mohsinsiddi/w3lottery/internal/wallet"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

// DevMnemonic is the well-known development mnemonic. Never fund it on a
// public network.
const DevMnemonic = "test test test test test test test test test test test junk"

const (
	defaultAccounts = 10
	defaultGasLimit = 30_000_000
)

// DefaultBalance is what every account starts with: 1000 ETH.
var DefaultBalance = new(uint256.Int).Mul(uint256.NewInt(1000), uint256.NewInt(params.Ether)).ToBig()

type settings struct {
	accounts int
	balance  *big.Int
	gasLimit uint64
}

// Option configures New.
type Option func(*settings)

// WithAccounts sets the number of funded accounts.
func WithAccounts(n int) Option { return func(s *settings) { s.accounts = n } }

// WithBalance sets the starting balance of every account.
func WithBalance(wei *big.Int) Option { return func(s *settings) { s.balance = wei } }

// WithBlockGasLimit sets the block gas limit.
func WithBlockGasLimit(limit uint64) Option { return func(s *settings) { s.gasLimit = limit } }

// Env is a running simulated chain with funded accounts.
type Env struct {
	t        testing.TB
	backend  *simulated.Backend
	client   *autoMiner
	wallet   *wallet.HDWallet
	Accounts []common.Address
	ChainID  *big.Int
}

// New starts a chain and closes it when the test ends.
func New(t testing.TB, opts ...Option) *Env {
	t.Helper()
	s := settings{accounts: defaultAccounts, balance: DefaultBalance, gasLimit: defaultGasLimit}
	for _, o := range opts {
		o(&s)
	}

	w, err := wallet.NewHDWallet(DevMnemonic, "")
	require.NoError(t, err)
	accounts, err := w.Accounts(s.accounts)
	require.NoError(t, err)

	alloc := make(types.GenesisAlloc, len(accounts))
	for _, a := range accounts {
		alloc[a] = types.Account{Balance: new(big.Int).Set(s.balance)}
	}
	backend := simulated.NewBackend(alloc, simulated.WithBlockGasLimit(s.gasLimit))
	t.Cleanup(func() { _ = backend.Close() })

	client := &autoMiner{Client: backend.Client(), backend: backend}
	chainID, err := client.ChainID(context.Background())
	require.NoError(t, err)

	return &Env{
		t:        t,
		backend:  backend,
		client:   client,
		wallet:   w,
		Accounts: accounts,
		ChainID:  chainID,
	}
}

// Client returns an automining client for the chain.
func (e *Env) Client() simulated.Client { return e.client }

// Transactor returns signing options for account i sending value wei.
func (e *Env) Transactor(i int, value *big.Int) *bind.TransactOpts {
	e.t.Helper()
	opts, err := e.wallet.Transactor(context.Background(), uint32(i), e.ChainID)
	require.NoError(e.t, err)
	opts.Value = value
	return opts
}

// Balance returns the latest balance of addr.
func (e *Env) Balance(addr common.Address) *big.Int {
	e.t.Helper()
	bal, err := e.client.BalanceAt(context.Background(), addr, nil)
	require.NoError(e.t, err)
	return bal
}

// Commit seals a block with whatever is pending.
func (e *Env) Commit() common.Hash {
	return e.backend.Commit()
}

// autoMiner commits a block after every accepted transaction.
type autoMiner struct {
	simulated.Client
	backend *simulated.Backend
}

func (a *autoMiner) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := a.Client.SendTransaction(ctx, tx); err != nil {
		return err
	}
	a.backend.Commit()
	return nil
}
