package asm

import (
	"strconv"
	"strings"

	"intasm/isa"
)

// reservedTag is the one identifier user source may not declare: the
// assembler defines it itself, pointing one past the last emitted
// token, once emission finishes.
const reservedTag = "data"

// Assembler holds the state accumulated while emitting one source unit:
// the output tokens built so far, every tag definition and use site
// seen, and the running address of the next token to be emitted.
type Assembler struct {
	output         []string
	tagDefinitions map[string]CodePosition
	tagUses        map[string][]CodePosition
	currentAddress int
	errors         []CompileError
}

// Compile assembles src into a stream of integer tokens. Compilation
// always makes maximum progress: every diagnosable problem is recorded
// and compilation continues, so a single call can report every error in
// the source at once. Output is returned only when errs is empty.
func Compile(src string) (tokens []string, errs []CompileError) {
	a := &Assembler{
		tagDefinitions: make(map[string]CodePosition),
		tagUses:        make(map[string][]CodePosition),
	}

	for _, line := range SplitSource(src) {
		a.emitLine(line)
	}

	return a.resolve()
}

// emitLine implements one pass of the code emitter (spec component C6)
// over a single already-split source line.
func (a *Assembler) emitLine(line Line) {
	head, operand0, hasOperand0 := splitHead(line.Tokens[0])
	mnemonic, tag, hasTag := splitTag(head)

	if hasTag {
		pos := CodePosition{Line: line.Num, Column: 0, Address: a.currentAddress}
		switch {
		case tag == reservedTag:
			a.errors = append(a.errors, CompileError{Kind: ReservedTag, Pos: pos, Tag: tag})
		case a.tagAlreadyDefined(tag):
			a.errors = append(a.errors, CompileError{
				Kind: DuplicateTag, Pos: pos, Tag: tag, Prior: a.tagDefinitions[tag],
			})
		default:
			a.tagDefinitions[tag] = pos
		}
	}

	instr, ok := isa.ByMnemonic(strings.ToLower(mnemonic))
	if !ok {
		a.errors = append(a.errors, CompileError{
			Kind:     UnknownInstruction,
			Pos:      CodePosition{Line: line.Num, Column: 0, Address: a.currentAddress},
			Mnemonic: mnemonic,
		})
		return
	}

	operands := make([]string, 0, instr.Arity)
	if hasOperand0 {
		operands = append(operands, operand0)
	}
	for _, tok := range line.Tokens[1:] {
		if tok != "" {
			operands = append(operands, tok)
		}
	}
	// Drop empty operand tokens left over from the head shift.
	filtered := operands[:0]
	for _, op := range operands {
		if op != "" {
			filtered = append(filtered, op)
		}
	}
	operands = filtered

	if instr.Arity != 0 && len(operands) != instr.Arity {
		a.errors = append(a.errors, CompileError{
			Kind:     WrongArgumentsCount,
			Pos:      CodePosition{Line: line.Num, Column: 0, Address: a.currentAddress},
			Expected: instr.Arity,
			Found:    len(operands),
		})
	}

	modes := make([]isa.Mode, 0, instr.Arity)
	payloads := make([]string, 0, instr.Arity)
	for i := 0; i < instr.Arity; i++ {
		a.currentAddress++

		// A missing operand slot was already reported once above as
		// WrongArgumentsCount; don't also run it through ParseArgument,
		// which would add a spurious ArgumentParse("empty argument")
		// error on top for every slot the line was short.
		if i >= len(operands) {
			continue
		}

		mode, payload, isTag, err := ParseArgument(operands[i])
		if err != nil {
			a.errors = append(a.errors, CompileError{
				Kind:    ArgumentParse,
				Pos:     CodePosition{Line: line.Num, Column: i + 2, Address: a.currentAddress},
				Message: err.Error(),
			})
			continue
		}

		modes = append(modes, mode)
		payloads = append(payloads, payload)
		if isTag {
			a.tagUses[payload] = append(a.tagUses[payload], CodePosition{
				Line: line.Num, Column: i + 2, Address: a.currentAddress,
			})
		}
	}

	a.output = append(a.output, encodeOpcode(instr, modes))
	a.currentAddress++
	a.output = append(a.output, payloads...)
}

func (a *Assembler) tagAlreadyDefined(tag string) bool {
	_, ok := a.tagDefinitions[tag]
	return ok
}

// encodeOpcode builds the opcode token: operand 0's mode is the
// least-significant mode digit. Positional mode is silent until an
// explicit (non-positional) digit has appeared; after that point every
// remaining digit, including positional 0s, is written out. The opcode
// is zero-padded to two digits only when at least one explicit digit
// was emitted.
func encodeOpcode(instr isa.Instruction, modes []isa.Mode) string {
	reversed := make([]isa.Mode, len(modes))
	for i, m := range modes {
		reversed[len(modes)-1-i] = m
	}

	var prefix strings.Builder
	explicitSeen := false
	for _, m := range reversed {
		digit, explicit := modeDigit(m)
		if explicit {
			explicitSeen = true
		}
		if explicitSeen {
			prefix.WriteByte(digit)
		}
	}

	opcodeStr := strconv.FormatInt(instr.Opcode, 10)
	if explicitSeen && len(opcodeStr) < 2 {
		opcodeStr = "0" + opcodeStr
	}

	return "\n" + prefix.String() + opcodeStr
}

func modeDigit(m isa.Mode) (digit byte, explicit bool) {
	switch m {
	case isa.Position:
		return '0', false
	case isa.Immediate:
		return '1', true
	case isa.Relative:
		return '2', true
	default:
		return '0', false
	}
}
