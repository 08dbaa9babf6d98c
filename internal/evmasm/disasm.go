package evmasm

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core/vm"
)

// Instruction is one decoded opcode.
type Instruction struct {
	Offset    int
	Op        vm.OpCode
	Immediate []byte // PUSHn data; truncated if the code ends early
}

// String renders the instruction as "0012: PUSH2 0x01ab".
func (in Instruction) String() string {
	if len(in.Immediate) == 0 {
		return fmt.Sprintf("%04x: %s", in.Offset, in.Op)
	}
	return fmt.Sprintf("%04x: %s 0x%s", in.Offset, in.Op, hex.EncodeToString(in.Immediate))
}

// Disassemble decodes code into instructions.
func Disassemble(code []byte) []Instruction {
	var out []Instruction
	for pc := 0; pc < len(code); {
		op := vm.OpCode(code[pc])
		in := Instruction{Offset: pc, Op: op}
		pc++
		if n := pushSize(op); n > 0 {
			end := pc + n
			if end > len(code) {
				end = len(code)
			}
			in.Immediate = code[pc:end]
			pc = end
		}
		out = append(out, in)
	}
	return out
}

// Listing renders code one instruction per line.
func Listing(code []byte) string {
	var sb strings.Builder
	for _, in := range Disassemble(code) {
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func pushSize(op vm.OpCode) int {
	if op >= vm.PUSH1 && op <= vm.PUSH32 {
		return int(op-vm.PUSH1) + 1
	}
	return 0
}
