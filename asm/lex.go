// Package asm implements the Intcode assembler: the lexer/splitter, the
// per-operand argument parser, the code emitter, and the tag resolver
// that together translate line-oriented assembly source into a
// comma-separated stream of signed integers.
package asm

import (
	"regexp"
	"strings"
)

// tagOwnLineCollapse implements spec's "tag-on-own-line" rule: a colon
// followed by any run of spaces, newlines, and carriage returns
// collapses to a single colon, so `tag:\n\tinstr` reads identically to
// `tag: instr`.
var tagOwnLineCollapse = regexp.MustCompile(` *:( *\n*\r*)*`)

// Line is one source line after splitting, trimming, and collapsing
// tag-only lines into the instruction that follows them.
type Line struct {
	Num    int
	Tokens []string
}

// SplitSource normalizes raw assembly source into a list of per-line
// comma-split token lists, ready for the emitter to consume one line at
// a time. Every token is trimmed of whitespace and '\r' first; lines whose
// first token is then empty (blank lines, including a CRLF blank line's
// lone '\r') are dropped entirely (they never reach the emitter, so they
// can't produce tag definitions or addresses).
func SplitSource(src string) []Line {
	collapsed := tagOwnLineCollapse.ReplaceAllString(src, ":")

	var lines []Line
	for i, raw := range strings.Split(collapsed, "\n") {
		tokens := make([]string, 0, 4)
		for _, tok := range strings.Split(raw, ",") {
			tokens = append(tokens, strings.Trim(strings.TrimSpace(tok), "\r"))
		}

		if len(tokens) == 0 || tokens[0] == "" || strings.HasPrefix(tokens[0], "\r") {
			continue
		}

		lines = append(lines, Line{Num: i + 1, Tokens: tokens})
	}
	return lines
}

// splitHead separates the first token of a line into its mnemonic (and
// optional leading "tag:") and, when a space is present, shifts the text
// after the space into the operand-0 slot.
func splitHead(first string) (head string, operand0 string, hasOperand0 bool) {
	idx := strings.Index(first, " ")
	if idx < 0 {
		return first, "", false
	}
	return first[:idx], first[idx+1:], true
}

// splitTag separates a line head into (mnemonic, optional tag).
func splitTag(head string) (mnemonic string, tag string, hasTag bool) {
	parts := strings.SplitN(head, ":", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0]), true
	}
	return strings.TrimSpace(parts[0]), "", false
}
