package chain

import (
	"errors"
	"sort"
	"strings"
)

// ErrNetworkNotFound is returned when a network is not in the registry.
var ErrNetworkNotFound = errors.New("network not found")

// Network holds the metadata needed to deploy to and inspect a chain.
type Network struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	ChainID     int64  `json:"chain_id"`
	RPC         string `json:"rpc"`
	Explorer    string `json:"explorer,omitempty"`
	FaucetURL   string `json:"faucet_url,omitempty"`
}

// Registry is the network registry.
type Registry struct {
	networks []Network
	byName   map[string]*Network
	byID     map[int64]*Network
}

// NewRegistry returns the registry of built-in networks.
func NewRegistry() *Registry {
	nets := allNetworks()
	r := &Registry{
		networks: nets,
		byName:   make(map[string]*Network, len(nets)),
		byID:     make(map[int64]*Network, len(nets)),
	}
	for i := range r.networks {
		n := &r.networks[i]
		r.byName[n.Name] = n
		r.byID[n.ChainID] = n
	}
	return r
}

// All returns every network sorted by name.
func (r *Registry) All() []Network {
	out := make([]Network, len(r.networks))
	copy(out, r.networks)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GetByName finds a network by its slug (e.g. "sepolia").
func (r *Registry) GetByName(name string) (*Network, error) {
	n, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// GetByChainID finds a network by its numeric chain ID.
func (r *Registry) GetByChainID(id int64) (*Network, error) {
	n, ok := r.byID[id]
	if !ok {
		return nil, ErrNetworkNotFound
	}
	return n, nil
}

// TxURL returns an explorer link for a transaction hash, or "" when the
// network has no explorer.
func (n *Network) TxURL(hash string) string {
	if n.Explorer == "" {
		return ""
	}
	return n.Explorer + "/tx/" + hash
}

// AddressURL returns an explorer link for an address, or "".
func (n *Network) AddressURL(addr string) string {
	if n.Explorer == "" {
		return ""
	}
	return n.Explorer + "/address/" + addr
}

func allNetworks() []Network {
	return []Network{
		{
			Name:        "sepolia",
			DisplayName: "Sepolia",
			ChainID:     11155111,
			RPC:         "https://sepolia.infura.io/v3/c7bd921a0d7046218fec64ab1205a40c",
			Explorer:    "https://sepolia.etherscan.io",
			FaucetURL:   "https://sepoliafaucet.com",
		},
		{
			Name:        "holesky",
			DisplayName: "Holesky",
			ChainID:     17000,
			RPC:         "https://ethereum-holesky-rpc.publicnode.com",
			Explorer:    "https://holesky.etherscan.io",
			FaucetURL:   "https://holesky-faucet.pk910.de",
		},
		{
			Name:        "localhost",
			DisplayName: "Local dev node",
			ChainID:     1337,
			RPC:         "http://127.0.0.1:8545",
		},
	}
}
