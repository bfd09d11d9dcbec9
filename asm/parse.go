package asm

import (
	"errors"

	"intasm/isa"
)

var errEmptyArgument = errors.New("empty argument")

// ParseArgument classifies a single non-empty operand token into its
// addressing mode, payload (the decimal or tag text to emit), and
// whether the payload is a symbolic tag use rather than a literal
// number.
//
// "$n" is Immediate, "#n" is Position, and a bare token defaults to
// Relative — the assembler's default mode, unlike raw Intcode's
// convention of defaulting to Position. A bare token is a tag use
// unless every character is a digit or '-'.
func ParseArgument(tok string) (mode isa.Mode, payload string, isTag bool, err error) {
	if tok == "" {
		return 0, "", false, errEmptyArgument
	}

	switch tok[0] {
	case '$':
		return isa.Immediate, tok[1:], false, nil
	case '#':
		return isa.Position, tok[1:], false, nil
	default:
		isTag = !isNumberRune(rune(tok[0]))
		if !isTag {
			for _, r := range tok[1:] {
				if !isNumberRune(r) {
					isTag = true
					break
				}
			}
		}
		return isa.Relative, tok, isTag, nil
	}
}

func isNumberRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '-'
}
