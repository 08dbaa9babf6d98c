package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrDeploymentNotFound is returned when no deployment matches a lookup.
var ErrDeploymentNotFound = errors.New("deployment not found")

// Entry records one deployment.
type Entry struct {
	Name       string          `json:"name"`
	Network    string          `json:"network"`
	ChainID    int64           `json:"chain_id"`
	Address    string          `json:"address"`
	Deployer   string          `json:"deployer"`
	TxHash     string          `json:"tx_hash"`
	Block      uint64          `json:"block"`
	GasUsed    uint64          `json:"gas_used"`
	DeployedAt string          `json:"deployed_at"` // RFC 3339
	ABI        json.RawMessage `json:"abi,omitempty"`
}

// Registry stores deployments in a JSON file. Entries keep insertion order;
// the last entry for a name@network is the current one.
type Registry struct {
	path    string
	entries []*Entry
}

// NewRegistry creates a Registry backed by a JSON file.
func NewRegistry(path string) *Registry {
	return &Registry{path: path}
}

// Load reads stored deployments from disk. A missing file is not an error.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing %s: %w", r.path, err)
	}
	r.entries = entries
	return nil
}

// Save writes all deployments to disk.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return err
	}
	entries := r.entries
	if entries == nil {
		entries = []*Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o600)
}

// Add appends a deployment.
func (r *Registry) Add(e *Entry) {
	r.entries = append(r.entries, e)
}

// LatestMatching returns the most recent deployment on network accepted by match.
func (r *Registry) LatestMatching(network string, match func(*Entry) bool) (*Entry, error) {
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		if strings.EqualFold(e.Network, network) && match(e) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w on %s", ErrDeploymentNotFound, network)
}

// All returns every deployment, newest first.
func (r *Registry) All() []*Entry {
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DeployedAt > out[j].DeployedAt })
	return out
}

// Remove deletes every deployment at address on network.
func (r *Registry) Remove(network, address string) error {
	kept := r.entries[:0]
	removed := 0
	for _, e := range r.entries {
		if strings.EqualFold(e.Network, network) && strings.EqualFold(e.Address, address) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	if removed == 0 {
		return fmt.Errorf("%w: %s on %s", ErrDeploymentNotFound, address, network)
	}
	return nil
}
