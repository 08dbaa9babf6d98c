package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGetByName(t *testing.T) {
	r := NewRegistry()
	n, err := r.GetByName("sepolia")
	require.NoError(t, err)
	assert.Equal(t, int64(11155111), n.ChainID)
	assert.Contains(t, n.RPC, "sepolia.infura.io")
}

func TestRegistryGetByNameCaseInsensitive(t *testing.T) {
	n, err := NewRegistry().GetByName("Sepolia")
	require.NoError(t, err)
	assert.Equal(t, "sepolia", n.Name)
}

func TestRegistryGetByNameUnknown(t *testing.T) {
	_, err := NewRegistry().GetByName("atlantis")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestRegistryGetByChainID(t *testing.T) {
	n, err := NewRegistry().GetByChainID(17000)
	require.NoError(t, err)
	assert.Equal(t, "holesky", n.Name)

	_, err = NewRegistry().GetByChainID(-1)
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestRegistryAllSorted(t *testing.T) {
	all := NewRegistry().All()
	require.NotEmpty(t, all)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	r := NewRegistry()
	all := r.All()
	all[0].Name = "mutated"
	_, err := r.GetByName("mutated")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestNetworkExplorerLinks(t *testing.T) {
	n, err := NewRegistry().GetByName("sepolia")
	require.NoError(t, err)
	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xabc", n.TxURL("0xabc"))
	assert.Equal(t, "https://sepolia.etherscan.io/address/0xdef", n.AddressURL("0xdef"))

	local, err := NewRegistry().GetByName("localhost")
	require.NoError(t, err)
	assert.Empty(t, local.TxURL("0xabc"))
	assert.Empty(t, local.AddressURL("0xabc"))
}
