package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	defaultNetwork      = "sepolia"
	defaultAccountIndex = 1
	defaultRPCAlgorithm = "fastest"

	configFile      = "config.json"
	deploymentsFile = "deployments.json"
	keyringDir      = "keyring"
)

// Keys lists the settings accepted by Set and Get, in display order.
var Keys = []string{"network", "rpc_url", "rpc_algorithm", "account_index", "gas_limit", "artifact"}

// RPCAlgorithms are the accepted rpc_algorithm values.
var RPCAlgorithms = []string{"fastest", "round-robin", "failover"}

// Load reads config from dir (or creates defaults). dir defaults to ~/.w3lottery.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".w3lottery")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	if cfg.CustomRPCs == nil {
		cfg.CustomRPCs = make(map[string][]string)
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = GasLimitDeploy
	}
	if cfg.RPCAlgorithm == "" {
		cfg.RPCAlgorithm = defaultRPCAlgorithm
	}

	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// Set updates one setting from its string form.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(key) {
	case "network":
		if value == "" {
			return fmt.Errorf("network cannot be empty")
		}
		c.Network = strings.ToLower(value)
	case "rpc_url", "rpc":
		if value != "" && !strings.HasPrefix(value, "http") && !strings.HasPrefix(value, "ws") {
			return fmt.Errorf("invalid RPC URL %q — expected http(s):// or ws(s)://", value)
		}
		c.RPCURL = value
	case "rpc_algorithm", "algorithm":
		value = strings.ToLower(value)
		if !slices.Contains(RPCAlgorithms, value) {
			return fmt.Errorf("unknown RPC algorithm %q — choose: %s", value, strings.Join(RPCAlgorithms, ", "))
		}
		c.RPCAlgorithm = value
	case "account_index", "account":
		n, err := strconv.ParseUint(value, 10, 31)
		if err != nil {
			return fmt.Errorf("invalid account index %q: %w", value, err)
		}
		c.AccountIndex = uint32(n)
	case "gas_limit", "gas":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil || n < 21_000 {
			return fmt.Errorf("invalid gas limit %q — must be an integer ≥ 21000", value)
		}
		c.GasLimit = n
	case "artifact":
		c.Artifact = value
	default:
		return fmt.Errorf("unknown config key %q — valid keys: %s", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns one setting in string form.
func (c *Config) Get(key string) (string, error) {
	switch strings.ToLower(key) {
	case "network":
		return c.Network, nil
	case "rpc_url", "rpc":
		return c.RPCURL, nil
	case "rpc_algorithm", "algorithm":
		return c.RPCAlgorithm, nil
	case "account_index", "account":
		return strconv.FormatUint(uint64(c.AccountIndex), 10), nil
	case "gas_limit", "gas":
		return strconv.FormatUint(c.GasLimit, 10), nil
	case "artifact":
		return c.Artifact, nil
	}
	return "", fmt.Errorf("unknown config key %q — valid keys: %s", key, strings.Join(Keys, ", "))
}

// AddRPC adds a custom RPC URL for a network.
func (c *Config) AddRPC(network, url string) error {
	if c.CustomRPCs == nil {
		c.CustomRPCs = make(map[string][]string)
	}
	if slices.Contains(c.CustomRPCs[network], url) {
		return fmt.Errorf("RPC %s already exists for network %s", url, network)
	}
	c.CustomRPCs[network] = append(c.CustomRPCs[network], url)
	return nil
}

// RemoveRPC removes a custom RPC URL for a network.
func (c *Config) RemoveRPC(network, url string) error {
	rpcs := c.CustomRPCs[network]
	idx := slices.Index(rpcs, url)
	if idx == -1 {
		return fmt.Errorf("RPC %s not found for network %s", url, network)
	}
	c.CustomRPCs[network] = slices.Delete(rpcs, idx, idx+1)
	return nil
}

// GetRPCs returns custom RPCs for a network.
func (c *Config) GetRPCs(network string) []string {
	return c.CustomRPCs[network]
}

// Endpoints lists the candidate endpoints for network. An explicit rpc_url
// is used alone; otherwise the custom RPCs come first, followed by fallback
// (the network's built-in endpoint). Duplicates and empties are dropped.
func (c *Config) Endpoints(network, fallback string) []string {
	if c.RPCURL != "" {
		return []string{c.RPCURL}
	}
	urls := make([]string, 0, len(c.CustomRPCs[network])+1)
	for _, u := range append(slices.Clone(c.CustomRPCs[network]), fallback) {
		if u != "" && !slices.Contains(urls, u) {
			urls = append(urls, u)
		}
	}
	return urls
}

// RPCCursor is the round-robin position saved for network.
func (c *Config) RPCCursor(network string) uint32 {
	return c.RPCCursors[network]
}

// SetRPCCursor records the next round-robin position for network. It reports
// whether the value changed.
func (c *Config) SetRPCCursor(network string, cursor uint32) bool {
	if c.RPCCursors[network] == cursor {
		return false
	}
	if c.RPCCursors == nil {
		c.RPCCursors = make(map[string]uint32)
	}
	c.RPCCursors[network] = cursor
	return true
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// DeploymentsPath is the deployment registry file.
func (c *Config) DeploymentsPath() string {
	return filepath.Join(c.configDir, deploymentsFile)
}

// KeyringDir is where the file keyring backend keeps its data.
func (c *Config) KeyringDir() string {
	return filepath.Join(c.configDir, keyringDir)
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		Network:      defaultNetwork,
		AccountIndex: defaultAccountIndex,
		GasLimit:     GasLimitDeploy,
		RPCAlgorithm: defaultRPCAlgorithm,
		CustomRPCs:   make(map[string][]string),
		configDir:    dir,
	}
}
