package vm

import "fmt"

// Memory is a sparse, total map from non-negative index to a signed
// 64-bit cell. Indices covered by the initial program image hit a dense
// backing slice; indices beyond it default to 0 until first written and
// are then recorded in an overflow map. No merging between the two
// stores is ever observable from Read/Write.
type Memory struct {
	dense    []int64
	overflow map[int64]int64
}

// NewMemory clones program into the dense backing store.
func NewMemory(program []int64) *Memory {
	dense := make([]int64, len(program))
	copy(dense, program)
	return &Memory{dense: dense, overflow: make(map[int64]int64)}
}

// Read returns the value at i, or 0 if i was never written and lies
// beyond the initial image. A negative i is an error, not a panic: the
// caller (the interpreter's fetch/decode loop) is expected to surface
// it as a fatal the same way it does for every other decode failure.
func (m *Memory) Read(i int64) (int64, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: %d", errNegativeIndex, i)
	}
	if i < int64(len(m.dense)) {
		return m.dense[i], nil
	}
	return m.overflow[i], nil
}

// Write stores v at i, growing the logical domain as needed.
func (m *Memory) Write(i int64, v int64) error {
	if i < 0 {
		return fmt.Errorf("%w: %d", errNegativeIndex, i)
	}
	if i < int64(len(m.dense)) {
		m.dense[i] = v
		return nil
	}
	m.overflow[i] = v
	return nil
}

// Len reports the length of the initial program image, i.e. the size of
// the dense region.
func (m *Memory) Len() int {
	return len(m.dense)
}
