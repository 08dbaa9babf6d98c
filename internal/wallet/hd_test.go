package wallet

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tyler-smith/go-bip39"
)

// ---------------------------------------------------------------------------
// NewHDWallet
// ---------------------------------------------------------------------------

func TestNewHDWalletRejectsGarbage(t *testing.T) {
	_, err := NewHDWallet("not a real mnemonic at all", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestNewHDWalletRejectsEmpty(t *testing.T) {
	_, err := NewHDWallet("   ", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestNewHDWalletBadChecksum(t *testing.T) {
	// All-zero entropy needs "about" as its checksum word.
	_, err := NewHDWallet("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon", "")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestNewHDWalletNormalisesWhitespace(t *testing.T) {
	messy := "  test  test test\ttest test test test test test test test\njunk "
	w, err := NewHDWallet(messy, "")
	require.NoError(t, err)

	addr, err := w.Account(0)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(testAddr0), addr)
}

// ---------------------------------------------------------------------------
// Derivation vectors (Hardhat / Anvil defaults)
// ---------------------------------------------------------------------------

func TestDeriveKnownPrivateKey(t *testing.T) {
	w, err := NewHDWallet(testMnemonic, "")
	require.NoError(t, err)

	key, err := w.PrivateKey(0)
	require.NoError(t, err)
	assert.Equal(t, testPrivKeyHex, hex.EncodeToString(crypto.FromECDSA(key)))
}

func TestDeriveKnownAccounts(t *testing.T) {
	w, err := NewHDWallet(testMnemonic, "")
	require.NoError(t, err)

	accs, err := w.Accounts(3)
	require.NoError(t, err)
	require.Len(t, accs, 3)
	assert.Equal(t, common.HexToAddress(testAddr0), accs[0])
	assert.Equal(t, common.HexToAddress(testAddr1), accs[1])
	assert.Equal(t, common.HexToAddress(testAddr2), accs[2])
}

func TestDerivePassphraseChangesAccounts(t *testing.T) {
	plain, err := NewHDWallet(testMnemonic, "")
	require.NoError(t, err)
	salted, err := NewHDWallet(testMnemonic, "extra")
	require.NoError(t, err)

	a, err := plain.Account(0)
	require.NoError(t, err)
	b, err := salted.Account(0)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDeriveIsDeterministic(t *testing.T) {
	w, err := NewHDWallet(testMnemonic, "")
	require.NoError(t, err)
	a, err := w.Account(7)
	require.NoError(t, err)
	b, err := w.Account(7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPathFormat(t *testing.T) {
	w, err := NewHDWallet(testMnemonic, "")
	require.NoError(t, err)
	assert.Equal(t, "m/44'/60'/0'/0/0", w.Path(0).String())
	assert.Equal(t, "m/44'/60'/0'/0/5", w.Path(5).String())
}

func TestPathDoesNotMutateBase(t *testing.T) {
	w, err := NewHDWallet(testMnemonic, "")
	require.NoError(t, err)
	_ = w.Path(9)
	assert.Equal(t, "m/44'/60'/0'/0/1", w.Path(1).String())
}

// ---------------------------------------------------------------------------
// NewMnemonic
// ---------------------------------------------------------------------------

func TestNewMnemonicIsValid(t *testing.T) {
	m, err := NewMnemonic()
	require.NoError(t, err)
	assert.Len(t, strings.Fields(m), 12)
	assert.True(t, bip39.IsMnemonicValid(m))

	_, err = NewHDWallet(m, "")
	assert.NoError(t, err)
}
