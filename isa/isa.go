// Package isa is the single source of truth for the Intcode instruction
// set: the twelve opcodes, their arity, and the default addressing mode
// of each operand. Both the assembler and the interpreter consume this
// table rather than hard-coding opcode numbers of their own.
package isa

// Mode is the addressing mode of a single operand.
type Mode int

const (
	// Position treats the operand as an address: M[p] on read, p on write.
	Position Mode = iota
	// Immediate treats the operand as a literal value.
	Immediate
	// Relative treats the operand as base-relative: M[base+p] on read,
	// base+p on write.
	Relative
	// RelativeImmediate arises only by promotion: mode digit 2 applied to
	// an operand whose default mode is Immediate (a write target).
	RelativeImmediate
)

func (m Mode) String() string {
	switch m {
	case Position:
		return "position"
	case Immediate:
		return "immediate"
	case Relative:
		return "relative"
	case RelativeImmediate:
		return "relative-immediate"
	default:
		return "unknown"
	}
}

// Instruction describes one opcode: its mnemonic, numeric opcode, arity,
// and the mode each operand defaults to when the instruction word carries
// no mode digit for that position.
type Instruction struct {
	Mnemonic     string
	Opcode       int64
	Arity        int
	DefaultModes [3]Mode
}

const (
	Add  int64 = 1
	Mul  int64 = 2
	In   int64 = 3
	Out  int64 = 4
	Jmp  int64 = 5
	Jmpf int64 = 6
	Less int64 = 7
	Eq   int64 = 8
	Arb  int64 = 9
	Mov  int64 = 10
	Grt  int64 = 11
	Hlt  int64 = 99
)

var table = []Instruction{
	{"add", Add, 3, [3]Mode{Position, Position, Immediate}},
	{"mul", Mul, 3, [3]Mode{Position, Position, Immediate}},
	{"in", In, 1, [3]Mode{Immediate}},
	{"out", Out, 1, [3]Mode{Position}},
	{"jmp", Jmp, 2, [3]Mode{Position, Position}},
	{"jmpf", Jmpf, 2, [3]Mode{Position, Position}},
	{"less", Less, 3, [3]Mode{Position, Position, Immediate}},
	{"eq", Eq, 3, [3]Mode{Position, Position, Immediate}},
	{"arb", Arb, 1, [3]Mode{Position}},
	{"mov", Mov, 2, [3]Mode{Position, Immediate}},
	{"grt", Grt, 3, [3]Mode{Position, Position, Immediate}},
	{"hlt", Hlt, 0, [3]Mode{}},
}

var (
	byOpcode   = make(map[int64]Instruction, len(table))
	byMnemonic = make(map[string]Instruction, len(table))
)

func init() {
	for _, in := range table {
		byOpcode[in.Opcode] = in
		byMnemonic[in.Mnemonic] = in
	}
}

// ByOpcode looks up an instruction by its numeric opcode.
func ByOpcode(opcode int64) (Instruction, bool) {
	in, ok := byOpcode[opcode]
	return in, ok
}

// ByMnemonic looks up an instruction by its lowercase mnemonic.
func ByMnemonic(mnemonic string) (Instruction, bool) {
	in, ok := byMnemonic[mnemonic]
	return in, ok
}
