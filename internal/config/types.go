package config

// Config holds all w3lottery configuration.
type Config struct {
	Network      string              `json:"network"`
	RPCURL       string              `json:"rpc_url,omitempty"`     // overrides the network's RPC
	AccountIndex uint32              `json:"account_index"`         // m/44'/60'/0'/0/<index>
	GasLimit     uint64              `json:"gas_limit"`             // deployment gas limit
	Artifact     string              `json:"artifact,omitempty"`    // compiled artifact deployed instead of the built-in contract
	RPCAlgorithm string              `json:"rpc_algorithm"`         // fastest | round-robin | failover
	CustomRPCs   map[string][]string `json:"custom_rpcs,omitempty"` // extra endpoints per network
	RPCCursors   map[string]uint32   `json:"rpc_cursors,omitempty"` // next round-robin position per network

	// internal: config dir path used for Save()
	configDir string
}
