package contract_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohsinsiddi/w3lottery/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*contract.Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deployments.json")
	return contract.NewRegistry(path), path
}

func TestNewRegistryEmpty(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Load())
	assert.Empty(t, reg.All())
}

func TestRegistryLatestReturnsNewest(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Add(&contract.Entry{Name: "Lottery", Network: "sepolia", Address: "0xOLD", DeployedAt: "2026-01-01T00:00:00Z"})
	reg.Add(&contract.Entry{Name: "Lottery", Network: "sepolia", Address: "0xNEW", DeployedAt: "2026-01-02T00:00:00Z"})

	got, err := reg.LatestMatching("Sepolia", func(*contract.Entry) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, "0xNEW", got.Address)
}

func TestRegistryLatestOtherNetwork(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Add(&contract.Entry{Name: "Lottery", Network: "sepolia", Address: "0xaaa"})

	_, err := reg.LatestMatching("holesky", func(*contract.Entry) bool { return true })
	assert.ErrorIs(t, err, contract.ErrDeploymentNotFound)
}

func TestRegistryLatestMatchingSkipsRejected(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Add(&contract.Entry{Name: "Lottery", Network: "sepolia", Address: "0xaaa"})
	reg.Add(&contract.Entry{Name: "Token", Network: "sepolia", Address: "0xbbb"})

	got, err := reg.LatestMatching("sepolia", func(e *contract.Entry) bool { return e.Name == "Lottery" })
	require.NoError(t, err)
	assert.Equal(t, "0xaaa", got.Address)
}

func TestRegistrySaveAndLoad(t *testing.T) {
	reg, path := newTestRegistry(t)
	reg.Add(&contract.Entry{
		Name:     "Lottery",
		Network:  "sepolia",
		ChainID:  11155111,
		Address:  "0x1234567890123456789012345678901234567890",
		Deployer: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		TxHash:   "0xabc",
		Block:    42,
		GasUsed:  250_000,
		ABI:      []byte(`[{"type":"function","name":"enter"}]`),
	})
	require.NoError(t, reg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded := contract.NewRegistry(path)
	require.NoError(t, reloaded.Load())
	got, err := reloaded.LatestMatching("sepolia", func(e *contract.Entry) bool { return e.Name == "Lottery" })
	require.NoError(t, err)
	assert.Equal(t, uint64(42), got.Block)
	assert.Equal(t, int64(11155111), got.ChainID)
	assert.JSONEq(t, `[{"type":"function","name":"enter"}]`, string(got.ABI))
}

func TestRegistrySaveEmptyWritesArray(t *testing.T) {
	reg, path := newTestRegistry(t)
	require.NoError(t, reg.Save())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestRegistryLoadCorrupt(t *testing.T) {
	reg, path := newTestRegistry(t)
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o600))
	assert.Error(t, reg.Load())
}

func TestRegistryAllNewestFirst(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Add(&contract.Entry{Name: "a", DeployedAt: "2026-01-01T00:00:00Z"})
	reg.Add(&contract.Entry{Name: "c", DeployedAt: "2026-03-01T00:00:00Z"})
	reg.Add(&contract.Entry{Name: "b", DeployedAt: "2026-02-01T00:00:00Z"})

	all := reg.All()
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Name)
	assert.Equal(t, "b", all[1].Name)
	assert.Equal(t, "a", all[2].Name)
}

func TestRegistryRemove(t *testing.T) {
	reg, _ := newTestRegistry(t)
	reg.Add(&contract.Entry{Name: "Lottery", Network: "sepolia", Address: "0xAAA"})
	reg.Add(&contract.Entry{Name: "Lottery", Network: "sepolia", Address: "0xBBB"})

	require.NoError(t, reg.Remove("sepolia", "0xaaa"))
	all := reg.All()
	require.Len(t, all, 1)
	assert.Equal(t, "0xBBB", all[0].Address)

	assert.ErrorIs(t, reg.Remove("sepolia", "0xaaa"), contract.ErrDeploymentNotFound)
}
