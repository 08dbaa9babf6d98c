package contract

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact is a compiled contract: its ABI and deployment bytecode.
type Artifact struct {
	ContractName     string
	ABI              json.RawMessage
	Bytecode         []byte // init code
	DeployedBytecode []byte // runtime code, may be empty
}

// ParsedABI parses the artifact ABI.
func (a *Artifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsing %s ABI: %w", a.name(), err)
	}
	return parsed, nil
}

func (a *Artifact) name() string {
	if a.ContractName == "" {
		return "contract"
	}
	return a.ContractName
}

// LoadArtifact loads a compiled contract from a JSON file in one of these shapes:
//   - solc standard JSON: {"abi":[...],"evm":{"bytecode":{"object":"6080..."}}}
//   - Hardhat:            {"abi":[...],"bytecode":"0x6080...","contractName":"..."}
//   - Foundry:            {"abi":[...],"bytecode":{"object":"0x6080..."}}
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read artifact file: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("artifact file is empty: %s", path)
	}

	a, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if a.ContractName == "" {
		a.ContractName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return a, nil
}

// ParseArtifact parses artifact JSON (see LoadArtifact for accepted shapes).
func ParseArtifact(data []byte) (*Artifact, error) {
	var raw struct {
		ContractName     string          `json:"contractName"`
		ABI              json.RawMessage `json:"abi"`
		Bytecode         json.RawMessage `json:"bytecode"`
		DeployedBytecode json.RawMessage `json:"deployedBytecode"`
		EVM              *struct {
			Bytecode         json.RawMessage `json:"bytecode"`
			DeployedBytecode json.RawMessage `json:"deployedBytecode"`
		} `json:"evm"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		data = bytes.TrimSpace(data)
		if len(data) > 0 && data[0] == '[' {
			return nil, fmt.Errorf("file is a raw ABI array — deployment needs an artifact with bytecode")
		}
		return nil, fmt.Errorf("invalid artifact JSON: %w", err)
	}

	if len(raw.ABI) < 2 || raw.ABI[0] != '[' {
		return nil, fmt.Errorf("artifact has no valid \"abi\" array")
	}
	if err := validateABI(raw.ABI); err != nil {
		return nil, err
	}

	bcRaw, dbcRaw := raw.Bytecode, raw.DeployedBytecode
	if raw.EVM != nil {
		bcRaw, dbcRaw = raw.EVM.Bytecode, raw.EVM.DeployedBytecode
	}
	if len(bcRaw) == 0 {
		return nil, fmt.Errorf("artifact has no bytecode — cannot deploy an interface or abstract contract")
	}

	bc, err := decodeBytecode(bcRaw)
	if err != nil {
		return nil, fmt.Errorf("extracting bytecode: %w", err)
	}
	if len(bc) == 0 {
		return nil, fmt.Errorf("artifact bytecode is empty — cannot deploy an interface or abstract contract")
	}

	var dbc []byte
	if len(dbcRaw) > 0 {
		if dbc, err = decodeBytecode(dbcRaw); err != nil {
			return nil, fmt.Errorf("extracting deployed bytecode: %w", err)
		}
	}

	return &Artifact{
		ContractName:     raw.ContractName,
		ABI:              raw.ABI,
		Bytecode:         bc,
		DeployedBytecode: dbc,
	}, nil
}

// WriteArtifact writes a in the solc standard-JSON shape so that it can be
// loaded back with LoadArtifact or consumed by web3 tooling.
func WriteArtifact(path string, a *Artifact) error {
	type bytecode struct {
		Object string `json:"object"`
	}
	out := struct {
		ContractName string          `json:"contractName,omitempty"`
		ABI          json.RawMessage `json:"abi"`
		EVM          struct {
			Bytecode         bytecode `json:"bytecode"`
			DeployedBytecode bytecode `json:"deployedBytecode"`
		} `json:"evm"`
	}{ContractName: a.ContractName, ABI: a.ABI}
	out.EVM.Bytecode.Object = hex.EncodeToString(a.Bytecode)
	out.EVM.DeployedBytecode.Object = hex.EncodeToString(a.DeployedBytecode)

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// decodeBytecode handles both a plain hex string and {"object": "..."}.
// Unlinked library placeholders (__$...$__) are rejected.
func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("bytecode field is neither a hex string nor a {\"object\":\"0x...\"} object")
		}
		str = obj.Object
	}
	str = strings.TrimPrefix(strings.TrimSpace(str), "0x")
	if strings.Contains(str, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library references")
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode hex: %w", err)
	}
	return b, nil
}

// validateABI checks that the ABI parses and declares something callable.
func validateABI(raw json.RawMessage) error {
	var entries []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("invalid ABI JSON: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("ABI is empty (no functions or events found)")
	}
	for _, e := range entries {
		switch e.Type {
		case "function", "event", "constructor", "":
			return nil
		}
	}
	return fmt.Errorf("ABI has %d entries but none are functions or events", len(entries))
}
