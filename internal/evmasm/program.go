// Package evmasm is a tiny label-resolving assembler for EVM bytecode.
package evmasm

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/vm"
	"golang.org/x/crypto/sha3"
)

// labelWidth is the immediate size used for every label reference (PUSH2).
const labelWidth = 2

// Errors returned by Assemble.
var (
	ErrUndefinedLabel = errors.New("undefined label")
	ErrDuplicateLabel = errors.New("duplicate label")
	ErrPushTooWide    = errors.New("push immediate wider than 32 bytes")
	ErrCodeTooLarge   = errors.New("label offset does not fit in 2 bytes")
)

type fixup struct {
	pos   int // offset of the first immediate byte
	label string
}

// Program accumulates instructions. Methods are chainable; the first error is
// remembered and reported by Assemble.
type Program struct {
	code   []byte
	labels map[string]int
	fixups []fixup
	err    error
}

// New returns an empty program.
func New() *Program {
	return &Program{labels: make(map[string]int)}
}

// Op appends raw opcodes.
func (p *Program) Op(ops ...vm.OpCode) *Program {
	for _, op := range ops {
		p.code = append(p.code, byte(op))
	}
	return p
}

// Push appends the smallest PUSHn carrying b. An empty slice emits PUSH1 0.
func (p *Program) Push(b []byte) *Program {
	if len(b) == 0 {
		b = []byte{0}
	}
	if len(b) > 32 {
		p.fail(fmt.Errorf("%w: %d bytes", ErrPushTooWide, len(b)))
		return p
	}
	p.code = append(p.code, byte(vm.PUSH1)+byte(len(b)-1))
	p.code = append(p.code, b...)
	return p
}

// PushN appends PUSHn with v left-padded to exactly n bytes.
func (p *Program) PushN(n int, v uint64) *Program {
	if n < 1 || n > 32 {
		p.fail(fmt.Errorf("%w: %d bytes", ErrPushTooWide, n))
		return p
	}
	imm := make([]byte, n)
	for i := n - 1; i >= 0 && v > 0; i-- {
		imm[i] = byte(v)
		v >>= 8
	}
	if v != 0 {
		p.fail(fmt.Errorf("value does not fit in PUSH%d", n))
		return p
	}
	p.code = append(p.code, byte(vm.PUSH1)+byte(n-1))
	p.code = append(p.code, imm...)
	return p
}

// PushUint appends the smallest push for v.
func (p *Program) PushUint(v uint64) *Program {
	return p.PushBig(new(big.Int).SetUint64(v))
}

// PushBig appends the smallest push for a non-negative v.
func (p *Program) PushBig(v *big.Int) *Program {
	if v.Sign() < 0 {
		p.fail(fmt.Errorf("negative push value %s", v))
		return p
	}
	return p.Push(v.Bytes())
}

// PushLabel appends a PUSH2 whose immediate is patched with the label offset.
func (p *Program) PushLabel(name string) *Program {
	p.code = append(p.code, byte(vm.PUSH1)+labelWidth-1)
	p.fixups = append(p.fixups, fixup{pos: len(p.code), label: name})
	p.code = append(p.code, make([]byte, labelWidth)...)
	return p
}

// Label defines name at the current offset and emits a JUMPDEST.
func (p *Program) Label(name string) *Program {
	p.Mark(name)
	return p.Op(vm.JUMPDEST)
}

// Mark defines name at the current offset without emitting code. Useful for
// data sections such as the runtime code appended to a constructor.
func (p *Program) Mark(name string) *Program {
	if _, ok := p.labels[name]; ok {
		p.fail(fmt.Errorf("%w: %s", ErrDuplicateLabel, name))
		return p
	}
	p.labels[name] = len(p.code)
	return p
}

// Jump appends an unconditional jump to name.
func (p *Program) Jump(name string) *Program {
	return p.PushLabel(name).Op(vm.JUMP)
}

// JumpI appends a jump to name taken when the top of the stack is non-zero.
func (p *Program) JumpI(name string) *Program {
	return p.PushLabel(name).Op(vm.JUMPI)
}

// Append copies raw bytes into the program.
func (p *Program) Append(code []byte) *Program {
	p.code = append(p.code, code...)
	return p
}

// Len is the current code size in bytes.
func (p *Program) Len() int { return len(p.code) }

// Assemble resolves labels and returns the final bytecode.
func (p *Program) Assemble() ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	out := make([]byte, len(p.code))
	copy(out, p.code)
	for _, f := range p.fixups {
		off, ok := p.labels[f.label]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedLabel, f.label)
		}
		if off > 0xffff {
			return nil, fmt.Errorf("%w: %s at %d", ErrCodeTooLarge, f.label, off)
		}
		out[f.pos] = byte(off >> 8)
		out[f.pos+1] = byte(off)
	}
	return out, nil
}

func (p *Program) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// Selector returns the 4-byte method id for a canonical signature such as
// "enter()" or "players(uint256)".
func Selector(signature string) [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	var sel [4]byte
	copy(sel[:], h.Sum(nil))
	return sel
}
