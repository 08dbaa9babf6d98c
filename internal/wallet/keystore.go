package wallet

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
)

const (
	keychainService = "w3lottery"
	mnemonicName    = "mnemonic"
)

// MnemonicRef is the keychain reference the deployer mnemonic is stored under.
const MnemonicRef = keychainService + "." + mnemonicName

// MnemonicEnv is the environment variable read before the keychain.
const MnemonicEnv = "MNEMONIC"

// ErrNoMnemonic is returned when neither the environment nor the keychain
// provides a mnemonic.
var ErrNoMnemonic = errors.New("no mnemonic configured")

// KeystoreBackend stores secrets by name.
type KeystoreBackend interface {
	Store(name, secret string) (string, error)
	Retrieve(ref string) (string, error)
	Delete(ref string) error
}

// Keystore wraps OS keychain access.
type Keystore struct {
	ring keyring.Keyring
}

// DefaultKeystore returns a keystore backed by the OS keychain.
func DefaultKeystore() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		ring, _ = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
	}

	return &Keystore{ring: ring}
}

// NewFileKeystore returns a keystore using the encrypted file backend in dir.
func NewFileKeystore(dir string, password func(string) (string, error)) (*Keystore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      keychainService,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          dir,
		FilePasswordFunc: password,
	})
	if err != nil {
		return nil, fmt.Errorf("opening file keystore: %w", err)
	}
	return &Keystore{ring: ring}, nil
}

// Store saves a secret under name and returns its reference.
func (k *Keystore) Store(name, secret string) (string, error) {
	if k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	ref := keychainService + "." + name
	err := k.ring.Set(keyring.Item{
		Key:   ref,
		Data:  []byte(secret),
		Label: "w3lottery " + name,
	})
	if err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

// Retrieve fetches a secret by its reference.
func (k *Keystore) Retrieve(ref string) (string, error) {
	if k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	item, err := k.ring.Get(ref)
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored secret.
func (k *Keystore) Delete(ref string) error {
	if k.ring == nil {
		return nil
	}
	return k.ring.Remove(ref)
}

// InMemoryKeystore keeps secrets in a map (for tests).
type InMemoryKeystore struct {
	data map[string]string
}

// NewInMemoryKeystore creates an in-memory keystore.
func NewInMemoryKeystore() *InMemoryKeystore {
	return &InMemoryKeystore{data: make(map[string]string)}
}

func (k *InMemoryKeystore) Store(name, secret string) (string, error) {
	ref := keychainService + "." + name
	k.data[ref] = secret
	return ref, nil
}

func (k *InMemoryKeystore) Retrieve(ref string) (string, error) {
	v, ok := k.data[ref]
	if !ok {
		return "", fmt.Errorf("key not found: %s", ref)
	}
	return v, nil
}

func (k *InMemoryKeystore) Delete(ref string) error {
	delete(k.data, ref)
	return nil
}

// ResolveMnemonic returns the mnemonic from the environment, falling back to
// the keystore. ks may be nil.
func ResolveMnemonic(ks KeystoreBackend) (string, error) {
	if m := strings.TrimSpace(os.Getenv(MnemonicEnv)); m != "" {
		return m, nil
	}
	if ks != nil {
		if m, err := ks.Retrieve(MnemonicRef); err == nil && strings.TrimSpace(m) != "" {
			return strings.TrimSpace(m), nil
		}
	}
	return "", fmt.Errorf("%w: set %s (or add it to .env) or run `w3lottery wallet import`", ErrNoMnemonic, MnemonicEnv)
}

// StoreMnemonic validates mnemonic and saves it under MnemonicRef. The
// normalised phrase is returned.
func StoreMnemonic(ks KeystoreBackend, mnemonic string) (string, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if _, err := NewHDWallet(mnemonic, ""); err != nil {
		return "", err
	}
	if _, err := ks.Store(mnemonicName, mnemonic); err != nil {
		return "", err
	}
	return mnemonic, nil
}

// ForgetMnemonic removes the stored mnemonic.
func ForgetMnemonic(ks KeystoreBackend) error {
	if err := ks.Delete(MnemonicRef); err != nil {
		return fmt.Errorf("removing mnemonic: %w", err)
	}
	return nil
}
