package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKeystore returns a file-backed Keystore isolated to a temp directory.
// Using the FileBackend avoids OS keychain prompts in CI.
func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	ks, err := NewFileKeystore(t.TempDir(), func(string) (string, error) { return "testpass", nil })
	require.NoError(t, err)
	return ks
}

// nullKeystore has ring=nil — every call fails with "keystore not available".
func nullKeystore() *Keystore { return &Keystore{ring: nil} }

// ---------------------------------------------------------------------------
// Keystore (file backend)
// ---------------------------------------------------------------------------

func TestKeystoreStoreAndRetrieve(t *testing.T) {
	ks := testKeystore(t)
	ref, err := ks.Store("mnemonic", testMnemonic)
	require.NoError(t, err)
	assert.Equal(t, MnemonicRef, ref)

	got, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, got)
}

func TestKeystoreRetrieveMissing(t *testing.T) {
	ks := testKeystore(t)
	_, err := ks.Retrieve("w3lottery.ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keychain retrieve")
}

func TestKeystoreDelete(t *testing.T) {
	ks := testKeystore(t)
	ref, err := ks.Store("gone", "secret")
	require.NoError(t, err)
	require.NoError(t, ks.Delete(ref))

	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}

func TestNullKeystore(t *testing.T) {
	ks := nullKeystore()
	_, err := ks.Store("x", "y")
	assert.Error(t, err)
	_, err = ks.Retrieve("x")
	assert.Error(t, err)
	assert.NoError(t, ks.Delete("x"))
}

// ---------------------------------------------------------------------------
// InMemoryKeystore
// ---------------------------------------------------------------------------

func TestInMemoryKeystoreStoreAndRetrieve(t *testing.T) {
	iks := NewInMemoryKeystore()
	ref, err := iks.Store("mykey", "0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, "w3lottery.mykey", ref)

	val, err := iks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", val)
}

func TestInMemoryKeystoreRetrieveNotFound(t *testing.T) {
	_, err := NewInMemoryKeystore().Retrieve("w3lottery.ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestInMemoryKeystoreOverwrite(t *testing.T) {
	iks := NewInMemoryKeystore()
	iks.Store("k", "first")  //nolint:errcheck
	iks.Store("k", "second") //nolint:errcheck

	val, err := iks.Retrieve("w3lottery.k")
	require.NoError(t, err)
	assert.Equal(t, "second", val, "second store should overwrite first")
}

func TestInMemoryKeystoreDeleteNonExistent(t *testing.T) {
	assert.NoError(t, NewInMemoryKeystore().Delete("w3lottery.ghost"))
}

// ---------------------------------------------------------------------------
// ResolveMnemonic
// ---------------------------------------------------------------------------

func TestResolveMnemonicPrefersEnv(t *testing.T) {
	t.Setenv(MnemonicEnv, "  "+testMnemonic+"  ")
	iks := NewInMemoryKeystore()
	iks.Store("mnemonic", "something else entirely") //nolint:errcheck

	got, err := ResolveMnemonic(iks)
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, got)
}

func TestResolveMnemonicFallsBackToKeystore(t *testing.T) {
	t.Setenv(MnemonicEnv, "")
	iks := NewInMemoryKeystore()
	iks.Store("mnemonic", testMnemonic) //nolint:errcheck

	got, err := ResolveMnemonic(iks)
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, got)
}

func TestResolveMnemonicMissing(t *testing.T) {
	t.Setenv(MnemonicEnv, "")
	_, err := ResolveMnemonic(NewInMemoryKeystore())
	require.ErrorIs(t, err, ErrNoMnemonic)
	assert.Contains(t, err.Error(), "wallet import")
}

func TestResolveMnemonicNilKeystore(t *testing.T) {
	t.Setenv(MnemonicEnv, "")
	_, err := ResolveMnemonic(nil)
	assert.ErrorIs(t, err, ErrNoMnemonic)
}

// ---------------------------------------------------------------------------
// StoreMnemonic / ForgetMnemonic
// ---------------------------------------------------------------------------

func TestStoreMnemonicNormalises(t *testing.T) {
	ks := NewInMemoryKeystore()
	got, err := StoreMnemonic(ks, "  "+testMnemonic+"\n")
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, got)

	t.Setenv(MnemonicEnv, "")
	resolved, err := ResolveMnemonic(ks)
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, resolved)
}

func TestStoreMnemonicRejectsInvalid(t *testing.T) {
	ks := NewInMemoryKeystore()
	_, err := StoreMnemonic(ks, "not a real mnemonic")
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
	_, err = ks.Retrieve(MnemonicRef)
	assert.Error(t, err)
}

func TestForgetMnemonic(t *testing.T) {
	ks := testKeystore(t)
	_, err := StoreMnemonic(ks, testMnemonic)
	require.NoError(t, err)

	require.NoError(t, ForgetMnemonic(ks))
	_, err = ks.Retrieve(MnemonicRef)
	assert.Error(t, err)
}
