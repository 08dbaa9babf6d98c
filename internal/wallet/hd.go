package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic is returned for phrases that fail the BIP-39 checksum.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// HDWallet derives Ethereum accounts from a BIP-39 mnemonic along the
// standard path m/44'/60'/0'/0/i.
type HDWallet struct {
	master *hdkeychain.ExtendedKey
	base   accounts.DerivationPath
}

// NewHDWallet validates mnemonic and computes the master key.
func NewHDWallet(mnemonic, passphrase string) (*HDWallet, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if mnemonic == "" || !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	// The network only picks the xprv version bytes, which are never serialised here.
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("deriving master key: %w", err)
	}
	return &HDWallet{master: master, base: accounts.DefaultBaseDerivationPath}, nil
}

// Path returns the derivation path of account i.
func (w *HDWallet) Path(i uint32) accounts.DerivationPath {
	p := make(accounts.DerivationPath, len(w.base))
	copy(p, w.base)
	p[len(p)-1] += i
	return p
}

// PrivateKey derives the private key of account i.
func (w *HDWallet) PrivateKey(i uint32) (*ecdsa.PrivateKey, error) {
	k := w.master
	for _, idx := range w.Path(i) {
		next, err := k.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("deriving %s: %w", w.Path(i), err)
		}
		k = next
	}
	priv, err := k.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("deriving %s: %w", w.Path(i), err)
	}
	return crypto.ToECDSA(priv.Serialize())
}

// Account returns the address of account i.
func (w *HDWallet) Account(i uint32) (common.Address, error) {
	key, err := w.PrivateKey(i)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

// Accounts returns the addresses of accounts 0..n-1.
func (w *HDWallet) Accounts(n int) ([]common.Address, error) {
	out := make([]common.Address, 0, n)
	for i := 0; i < n; i++ {
		addr, err := w.Account(uint32(i))
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
	}
	return out, nil
}

// NewMnemonic generates a fresh 12-word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}
