package vm

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var errMalformedInput = errors.New("malformed input file")

// commaNormalize collapses the separators the assembler's output may use
// in place of a plain comma: a literal ",\n" pair, bare newlines, and
// runs of whitespace all mean "next token" to the interpreter.
var commaNormalize = regexp.MustCompile(`,?\s+`)

// ParseProgram reads an Intcode program image from text, the ASCII
// comma-separated decimal format the assembler emits. Embedded newlines
// and surrounding whitespace are normalised to plain commas before
// splitting, so both the pretty-printed and single-line output forms of
// the assembler parse identically.
func ParseProgram(text string) ([]int64, error) {
	normalized := commaNormalize.ReplaceAllString(strings.TrimSpace(text), ",")
	if normalized == "" {
		return nil, nil
	}

	fields := strings.Split(normalized, ",")
	program := make([]int64, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		v, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", errMalformedInput, f, err)
		}
		program = append(program, v)
	}
	return program, nil
}
