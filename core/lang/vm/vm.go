// Package vm is the minimal register machine the literal front end emits
// code for. A Program is built once by a code generator and can be
// executed over a register file holding encoded records; real backends
// translate the same instructions into their own execution plans.
package vm

import "fmt"

// Opcode identifies an instruction.
type Opcode int

const (
	// OpHalt stops execution.
	OpHalt Opcode = iota
	// OpFieldStr decodes string field P2 of the record in register P1
	// into register P3.
	OpFieldStr
	// OpFieldInt decodes int32 field P2 of the record in register P1
	// into register P3.
	OpFieldInt
)

// String returns the opcode mnemonic.
func (op Opcode) String() string {
	switch op {
	case OpHalt:
		return "Halt"
	case OpFieldStr:
		return "FieldStr"
	case OpFieldInt:
		return "FieldInt"
	default:
		return fmt.Sprintf("Opcode(%d)", int(op))
	}
}

// Instr is a single instruction. Operand meaning depends on the opcode.
type Instr struct {
	Op      Opcode
	P1      int
	P2      int
	P3      int
	Comment string
}

// Program is an instruction sequence plus the register count it needs.
type Program struct {
	Code   []Instr
	NumReg int
}

// NewProgram creates an empty program.
func NewProgram() *Program {
	return &Program{}
}

// AllocReg allocates a new register and returns its index.
func (p *Program) AllocReg() int {
	reg := p.NumReg
	p.NumReg++
	return reg
}

// AddOp appends an instruction and returns its address.
func (p *Program) AddOp(op Opcode, p1, p2, p3 int) int {
	p.Code = append(p.Code, Instr{Op: op, P1: p1, P2: p2, P3: p3})
	return len(p.Code) - 1
}

// SetComment attaches a listing comment to the instruction at addr.
func (p *Program) SetComment(addr int, comment string) {
	p.Code[addr].Comment = comment
}

// Listing renders the program one instruction per line, for debugging.
func (p *Program) Listing() string {
	out := ""
	for i, in := range p.Code {
		out += fmt.Sprintf("%3d  %-9s %3d %3d %3d", i, in.Op, in.P1, in.P2, in.P3)
		if in.Comment != "" {
			out += "  ; " + in.Comment
		}
		out += "\n"
	}
	return out
}

// Exec interprets the program over the given register file. Registers
// holding input records must be populated by the caller before the call.
func Exec(p *Program, regs []Value) error {
	if len(regs) < p.NumReg {
		return fmt.Errorf("register file too small: have %d, need %d", len(regs), p.NumReg)
	}
	for addr, in := range p.Code {
		switch in.Op {
		case OpHalt:
			return nil
		case OpFieldStr, OpFieldInt:
			src := regs[in.P1]
			if src.Kind != KindRecord {
				return fmt.Errorf("instr %d: register %d holds %s, not a record", addr, in.P1, src.Kind)
			}
			v, err := DecodeField(src.Rec, in.P2)
			if err != nil {
				return fmt.Errorf("instr %d: %w", addr, err)
			}
			want := KindString
			if in.Op == OpFieldInt {
				want = KindInt32
			}
			if v.Kind != want {
				return fmt.Errorf("instr %d: field %d is %s, want %s", addr, in.P2, v.Kind, want)
			}
			regs[in.P3] = v
		default:
			return fmt.Errorf("instr %d: unknown opcode %d", addr, int(in.Op))
		}
	}
	return nil
}
