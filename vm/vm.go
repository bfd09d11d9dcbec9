// Package vm implements the Intcode interpreter core: the
// fetch-decode-execute loop, sparse memory, and the address-mode
// semantics shared with the isa package's instruction table.
package vm

import (
	"context"
	"errors"
	"fmt"

	"intasm/isa"
)

var (
	errUnknownOpcode     = errors.New("unknown opcode")
	errUnknownModeDigit  = errors.New("unknown mode digit")
	errNegativeStoreAddr = errors.New("negative store address")
	errNegativeIndex     = errors.New("read from negative index")
	errIO                = errors.New("input-output error")
	errHaltInExec        = errors.New("hlt reached inside execute step")
)

// InputFunc supplies one integer to the VM when its queued input is
// exhausted. It stands in for the host's standard-input handle.
type InputFunc func() (int64, error)

// OutputFunc receives one integer each time the program executes OUT. It
// stands in for the host's standard-output handle.
type OutputFunc func(int64) error

// VM is the Intcode virtual machine. Its memory is exclusively owned for
// the duration of Run; New copies the initial image into that memory, so
// the caller's program slice is never modified.
type VM struct {
	ip     int64
	base   int64
	mem    *Memory
	input  []int64
	cursor int
	output []int64

	inputHandle  InputFunc
	outputHandle OutputFunc

	errcode error
}

// New builds a VM over program, with queued input consumed before either
// handle is invoked. Either handle may be nil; a nil inputHandle that is
// reached after the queue is drained is a fatal I/O error, and a nil
// outputHandle is simply skipped (only the output log is kept).
func New(program []int64, input []int64, in InputFunc, out OutputFunc) *VM {
	return &VM{
		mem:          NewMemory(program),
		input:        input,
		inputHandle:  in,
		outputHandle: out,
	}
}

// Output returns the values emitted by OUT so far, in instruction order.
func (vm *VM) Output() []int64 {
	return vm.output
}

// Memory exposes the VM's memory for tests and debug tooling that want
// to inspect state after a run.
func (vm *VM) Memory() *Memory {
	return vm.mem
}

// Mode mirrors isa.Mode so callers of this package don't need to import
// isa for modes they only ever see as vm.Position etc.
type Mode = isa.Mode

const (
	Position          = isa.Position
	Immediate         = isa.Immediate
	Relative          = isa.Relative
	RelativeImmediate = isa.RelativeImmediate
)

// Run executes instructions until HLT, a fatal error, or ctx is
// cancelled. The returned slice is the same one available via Output.
func (vm *VM) Run(ctx context.Context) ([]int64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return vm.output, err
		}

		halted, err := vm.step()
		if err != nil {
			vm.errcode = err
			return vm.output, err
		}
		if halted {
			return vm.output, nil
		}
	}
}

// step performs one fetch-decode-execute cycle.
func (vm *VM) step() (halted bool, err error) {
	word, err := vm.mem.Read(vm.ip)
	if err != nil {
		return false, fmt.Errorf("%w at instruction %d", err, vm.ip)
	}
	vm.ip++

	opcode := word % 100
	instr, ok := isa.ByOpcode(opcode)
	if !ok {
		return false, fmt.Errorf("%w: %d at instruction %d", errUnknownOpcode, opcode, vm.ip-1)
	}

	if instr.Opcode == isa.Hlt {
		return true, nil
	}

	modes := instr.DefaultModes
	digits := word / 100
	for i := 0; i < instr.Arity && digits != 0; i++ {
		switch digits % 10 {
		case 0:
			modes[i] = Position
		case 1:
			modes[i] = Immediate
		case 2:
			if modes[i] == Immediate {
				modes[i] = RelativeImmediate
			} else {
				modes[i] = Relative
			}
		default:
			return false, fmt.Errorf("%w: %d at instruction %d", errUnknownModeDigit, digits%10, vm.ip-1)
		}
		digits /= 10
	}

	var args [3]int64
	for i := 0; i < instr.Arity; i++ {
		raw, err := vm.mem.Read(vm.ip)
		if err != nil {
			return false, fmt.Errorf("%w at instruction %d", err, vm.ip)
		}
		vm.ip++

		switch modes[i] {
		case Position:
			args[i], err = vm.mem.Read(raw)
		case Immediate:
			args[i] = raw
		case Relative:
			args[i], err = vm.mem.Read(vm.base + raw)
		case RelativeImmediate:
			args[i] = vm.base + raw
		}
		if err != nil {
			return false, fmt.Errorf("%w at instruction %d", err, vm.ip-1)
		}
	}

	return false, vm.execute(instr, args)
}

// execute performs the side effects of one already-decoded instruction.
// For instructions with a write target, the store address is the
// already-resolved operand in write position (args[k]) — the raw cell
// passes through unchanged at the default Immediate mode, which for a
// write operand means "store address", not "literal value".
func (vm *VM) execute(instr isa.Instruction, args [3]int64) error {
	store := func(addr, value int64) error {
		if addr < 0 {
			return fmt.Errorf("%w: %d", errNegativeStoreAddr, addr)
		}
		return vm.mem.Write(addr, value)
	}

	switch instr.Opcode {
	case isa.Add:
		return store(args[2], args[0]+args[1])
	case isa.Mul:
		return store(args[2], args[0]*args[1])
	case isa.In:
		v, err := vm.nextInput()
		if err != nil {
			return err
		}
		return store(args[0], v)
	case isa.Out:
		if vm.outputHandle != nil {
			if err := vm.outputHandle(args[0]); err != nil {
				return fmt.Errorf("%w: %v", errIO, err)
			}
		}
		vm.output = append(vm.output, args[0])
		return nil
	case isa.Jmp:
		if args[0] != 0 {
			vm.ip = args[1]
		}
		return nil
	case isa.Jmpf:
		if args[0] == 0 {
			vm.ip = args[1]
		}
		return nil
	case isa.Less:
		if args[0] < args[1] {
			return store(args[2], 1)
		}
		return store(args[2], 0)
	case isa.Eq:
		if args[0] == args[1] {
			return store(args[2], 1)
		}
		return store(args[2], 0)
	case isa.Arb:
		vm.base += args[0]
		return nil
	case isa.Mov:
		return store(args[1], args[0])
	case isa.Grt:
		if args[0] > args[1] {
			return store(args[2], 1)
		}
		return store(args[2], 0)
	case isa.Hlt:
		return errHaltInExec
	default:
		return fmt.Errorf("%w: %d", errUnknownOpcode, instr.Opcode)
	}
}

// nextInput consumes the queued input first, falling back to the host
// input handle once the queue is drained.
func (vm *VM) nextInput() (int64, error) {
	if vm.cursor < len(vm.input) {
		v := vm.input[vm.cursor]
		vm.cursor++
		return v, nil
	}
	if vm.inputHandle == nil {
		return 0, fmt.Errorf("%w: no input handle and input queue exhausted", errIO)
	}
	v, err := vm.inputHandle()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errIO, err)
	}
	return v, nil
}
