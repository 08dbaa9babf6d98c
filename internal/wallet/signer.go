package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer signs transactions for one derived account.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner wraps a private key.
func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// Signer returns the signer for account i of the wallet.
func (w *HDWallet) Signer(i uint32) (*Signer, error) {
	key, err := w.PrivateKey(i)
	if err != nil {
		return nil, err
	}
	return NewSigner(key), nil
}

// Address returns the account address.
func (s *Signer) Address() common.Address {
	return s.address
}

// SignTx signs tx for chainID.
func (s *Signer) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}
	return signed, nil
}

// Transactor returns bind options that sign with this account on chainID.
// ctx is attached to the options and bounds every RPC the binding makes.
func (s *Signer) Transactor(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(s.key, chainID)
	if err != nil {
		return nil, fmt.Errorf("building transactor: %w", err)
	}
	opts.Context = ctx
	return opts, nil
}

// Transactor returns bind options signing with account i on chainID.
func (w *HDWallet) Transactor(ctx context.Context, i uint32, chainID *big.Int) (*bind.TransactOpts, error) {
	s, err := w.Signer(i)
	if err != nil {
		return nil, err
	}
	return s.Transactor(ctx, chainID)
}
