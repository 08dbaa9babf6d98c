// Package lottery builds the Lottery contract and binds its methods.
//
// The contract keeps Solidity's storage layout so that it reads the same as
// the canonical source:
//
//	contract Lottery {
//	    address public manager;    // slot 0
//	    address[] public players;  // slot 1 (length), keccak256(1)+i (items)
//	    ...
//	}
package lottery

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sync"

	"github.com/Mohsinsiddi/w3lottery/internal/chain"
	"github.com/Mohsinsiddi/w3lottery/internal/contract"
	"github.com/Mohsinsiddi/w3lottery/internal/evmasm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Name is the contract name recorded in artifacts and the deployment registry.
const Name = "Lottery"

// ABI is the contract interface.
const ABI = `[
  {"inputs":[],"stateMutability":"nonpayable","type":"constructor"},
  {"inputs":[],"name":"enter","outputs":[],"stateMutability":"payable","type":"function"},
  {"inputs":[],"name":"getPlayers","outputs":[{"internalType":"address[]","name":"","type":"address[]"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"manager","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"pickWinner","outputs":[],"stateMutability":"nonpayable","type":"function"},
  {"inputs":[{"internalType":"uint256","name":"","type":"uint256"}],"name":"players","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

// Storage slots.
const (
	ManagerSlot = 0
	PlayersSlot = 1
)

// MinimumEntry is the smallest accepted entry: 0.01 ether.
var MinimumEntry = chain.MustEther("0.01")

var playersBase = new(uint256.Int).SetBytes(
	crypto.Keccak256(common.LeftPadBytes([]byte{PlayersSlot}, 32)),
)

// PlayerSlot returns the storage slot holding players[i].
func PlayerSlot(i uint64) common.Hash {
	slot := new(uint256.Int).AddUint64(playersBase, i)
	return common.Hash(slot.Bytes32())
}

var defaultArtifact = sync.OnceValues(func() (*contract.Artifact, error) {
	return Build(MinimumEntry)
})

// DefaultArtifact returns the contract built with MinimumEntry. The result is
// shared and must not be modified.
func DefaultArtifact() (*contract.Artifact, error) {
	return defaultArtifact()
}

// Build assembles the contract with the given minimum entry (in wei).
func Build(minEntry *big.Int) (*contract.Artifact, error) {
	if minEntry == nil || minEntry.Sign() < 0 {
		return nil, fmt.Errorf("minimum entry must be a non-negative amount")
	}
	runtime, err := runtimeProgram(minEntry).Assemble()
	if err != nil {
		return nil, fmt.Errorf("assembling runtime: %w", err)
	}
	initCode, err := constructorProgram(runtime).Assemble()
	if err != nil {
		return nil, fmt.Errorf("assembling constructor: %w", err)
	}
	return &contract.Artifact{
		ContractName:     Name,
		ABI:              json.RawMessage(ABI),
		Bytecode:         initCode,
		DeployedBytecode: runtime,
	}, nil
}

// constructorProgram stores msg.sender as manager and returns runtime.
func constructorProgram(runtime []byte) *evmasm.Program {
	return evmasm.New().
		Op(vm.CALLVALUE).JumpI("fail").
		Op(vm.CALLER).PushUint(ManagerSlot).Op(vm.SSTORE).
		PushN(2, uint64(len(runtime))).Op(vm.DUP1).
		PushLabel("runtime").PushUint(0).Op(vm.CODECOPY).
		PushUint(0).Op(vm.RETURN).
		Label("fail").PushUint(0).Op(vm.DUP1, vm.REVERT).
		Mark("runtime").Append(runtime)
}

func runtimeProgram(minEntry *big.Int) *evmasm.Program {
	p := evmasm.New()

	// Dispatch on the first four calldata bytes.
	p.PushUint(4).Op(vm.CALLDATASIZE, vm.LT).JumpI("fail")
	p.PushUint(0).Op(vm.CALLDATALOAD).PushUint(0xe0).Op(vm.SHR)
	for _, m := range []struct{ sig, label string }{
		{"enter()", "enter"},
		{"pickWinner()", "pickWinner"},
		{"getPlayers()", "getPlayers"},
		{"manager()", "manager"},
		{"players(uint256)", "players"},
	} {
		sel := evmasm.Selector(m.sig)
		p.Op(vm.DUP1).Push(sel[:]).Op(vm.EQ).JumpI(m.label)
	}
	p.Label("fail").PushUint(0).Op(vm.DUP1, vm.REVERT)

	// enter(): players.push(msg.sender) when msg.value >= minEntry.
	p.Label("enter").Op(vm.POP)
	p.PushBig(minEntry).Op(vm.CALLVALUE, vm.LT).JumpI("fail")
	p.PushUint(PlayersSlot).Op(vm.SLOAD)
	p.Op(vm.DUP1).Push(playersBase.Bytes()).Op(vm.ADD)
	p.Op(vm.CALLER, vm.SWAP1, vm.SSTORE)
	p.PushUint(1).Op(vm.ADD).PushUint(PlayersSlot).Op(vm.SSTORE)
	p.Op(vm.STOP)

	// pickWinner(): manager only, at least one player.
	p.Label("pickWinner").Op(vm.POP)
	p.Op(vm.CALLVALUE).JumpI("fail")
	p.PushUint(ManagerSlot).Op(vm.SLOAD, vm.CALLER, vm.EQ, vm.ISZERO).JumpI("fail")
	p.PushUint(PlayersSlot).Op(vm.SLOAD)
	p.Op(vm.DUP1, vm.ISZERO).JumpI("fail")
	// index = keccak256(timestamp, number, len) % len
	p.Op(vm.TIMESTAMP).PushUint(0x00).Op(vm.MSTORE)
	p.Op(vm.NUMBER).PushUint(0x20).Op(vm.MSTORE)
	p.Op(vm.DUP1).PushUint(0x40).Op(vm.MSTORE)
	p.PushUint(0x60).PushUint(0).Op(vm.KECCAK256, vm.MOD)
	p.Push(playersBase.Bytes()).Op(vm.ADD, vm.SLOAD)
	// winner.transfer(address(this).balance)
	p.PushUint(0).PushUint(0).PushUint(0).PushUint(0)
	p.Op(vm.SELFBALANCE, vm.DUP6).PushUint(0).Op(vm.CALL, vm.ISZERO).JumpI("fail")
	p.Op(vm.POP)
	// players = new address[](0)
	p.PushUint(0).PushUint(PlayersSlot).Op(vm.SSTORE)
	p.Op(vm.STOP)

	// getPlayers(): abi.encode(players)
	p.Label("getPlayers").Op(vm.POP)
	p.Op(vm.CALLVALUE).JumpI("fail")
	p.PushUint(0x20).PushUint(0).Op(vm.MSTORE)
	p.PushUint(PlayersSlot).Op(vm.SLOAD)
	p.Op(vm.DUP1).PushUint(0x20).Op(vm.MSTORE)
	p.PushUint(0)
	p.Label("loop")
	p.Op(vm.DUP2, vm.DUP2, vm.LT, vm.ISZERO).JumpI("done")
	p.Op(vm.DUP1).Push(playersBase.Bytes()).Op(vm.ADD, vm.SLOAD)
	p.Op(vm.DUP2).PushUint(0x20).Op(vm.MUL).PushUint(0x40).Op(vm.ADD, vm.MSTORE)
	p.PushUint(1).Op(vm.ADD).Jump("loop")
	p.Label("done").Op(vm.POP)
	p.PushUint(0x20).Op(vm.MUL).PushUint(0x40).Op(vm.ADD)
	p.PushUint(0).Op(vm.RETURN)

	// manager()
	p.Label("manager").Op(vm.POP)
	p.Op(vm.CALLVALUE).JumpI("fail")
	p.PushUint(ManagerSlot).Op(vm.SLOAD).PushUint(0).Op(vm.MSTORE)
	p.PushUint(0x20).PushUint(0).Op(vm.RETURN)

	// players(uint256): argument required, bounds checked
	p.Label("players").Op(vm.POP)
	p.Op(vm.CALLVALUE).JumpI("fail")
	p.PushUint(0x24).Op(vm.CALLDATASIZE, vm.LT).JumpI("fail")
	p.PushUint(4).Op(vm.CALLDATALOAD)
	p.Op(vm.DUP1).PushUint(PlayersSlot).Op(vm.SLOAD, vm.GT, vm.ISZERO).JumpI("fail")
	p.Push(playersBase.Bytes()).Op(vm.ADD, vm.SLOAD)
	p.PushUint(0).Op(vm.MSTORE)
	p.PushUint(0x20).PushUint(0).Op(vm.RETURN)

	return p
}
