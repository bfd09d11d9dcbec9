package asm

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, src string) []string {
	t.Helper()
	tokens, errs := Compile(src)
	require.Empty(t, errs, "unexpected compile errors: %v", errs)
	return tokens
}

// Scenario 4: a jmp to a tag defined later in the source must resolve to
// the address the tagged instruction's opcode was emitted at.
func TestForwardTagReferenceResolvesToOpcodeAddress(t *testing.T) {
	src := "jmp $1, target\nadd $5, $6, #0\ntarget: hlt"
	tokens := mustCompile(t, src)

	// jmp's operands occupy token indices 1 and 2; operand 2 ("target")
	// must resolve to the address of hlt's opcode token.
	hltAddr := -1
	for i, tok := range tokens {
		if strings.TrimLeft(tok, "\n") == "99" {
			hltAddr = i
		}
	}
	require.NotEqual(t, -1, hltAddr, "hlt opcode not found in output")
	assert.Equal(t, strconv.Itoa(hltAddr), tokens[2])
}

// Scenario 5: duplicate tag declarations report a DuplicateTag error
// pointing at the second declaration and carrying the first's position.
// foo is never used as an operand, so resolve also reports it as unused.
func TestDuplicateTagCarriesPriorPosition(t *testing.T) {
	src := "foo: hlt\nfoo: hlt"
	_, errs := Compile(src)

	require.Len(t, errs, 2)
	assert.Equal(t, DuplicateTag, errs[0].Kind)
	assert.Equal(t, "foo", errs[0].Tag)
	assert.Equal(t, 1, errs[0].Prior.Line)
	assert.Equal(t, 2, errs[0].Pos.Line)
	assert.Equal(t, UnusedTag, errs[1].Kind)
}

// Scenario 6: declaring the reserved tag is an error; using it
// undeclared resolves to one past the last emitted token.
func TestReservedDataTagDeclarationIsAnError(t *testing.T) {
	_, errs := Compile("data: hlt")
	require.Len(t, errs, 1)
	assert.Equal(t, ReservedTag, errs[0].Kind)
	assert.Equal(t, "data", errs[0].Tag)
}

func TestUndeclaredDataTagResolvesPastEndOfOutput(t *testing.T) {
	tokens := mustCompile(t, "mov $0, data")
	// mov has arity 2: opcode, operand0, operand1. data resolves to
	// len(output) as it stood before the reserved definition was
	// inserted, i.e. the token count itself.
	assert.Equal(t, strconv.Itoa(len(tokens)), tokens[2])
}

func TestUndefinedTagProducesOneErrorPerUse(t *testing.T) {
	_, errs := Compile("jmp $1, missing\njmp $1, missing")
	require.Len(t, errs, 2)
	assert.Equal(t, UndefinedTag, errs[0].Kind)
	assert.Equal(t, UndefinedTag, errs[1].Kind)
}

func TestUnusedTagIsReportedAsError(t *testing.T) {
	_, errs := Compile("foo: hlt")
	require.Len(t, errs, 1)
	assert.Equal(t, UnusedTag, errs[0].Kind)
	assert.Equal(t, "foo", errs[0].Tag)
}

func TestCompileNeverShortCircuitsAndNeverEmitsOutputOnError(t *testing.T) {
	src := "bogus $1\nfoo: hlt\nfoo: hlt\njmp $1, nowhere"
	tokens, errs := Compile(src)

	assert.Nil(t, tokens)
	// UnknownInstruction, DuplicateTag, UndefinedTag all present: the
	// first error never stopped later lines from being processed.
	var kinds []ErrorKind
	for _, e := range errs {
		kinds = append(kinds, e.Kind)
	}
	assert.Contains(t, kinds, UnknownInstruction)
	assert.Contains(t, kinds, DuplicateTag)
	assert.Contains(t, kinds, UndefinedTag)
}

func TestBareNumericOperandDefaultsToRelativeMode(t *testing.T) {
	mode, payload, isTag, err := ParseArgument("7")
	require.NoError(t, err)
	assert.Equal(t, "relative", mode.String())
	assert.False(t, isTag)
	assert.Equal(t, "7", payload)
}

func TestBareIdentifierOperandIsATagUse(t *testing.T) {
	mode, payload, isTag, err := ParseArgument("loophead")
	require.NoError(t, err)
	assert.Equal(t, "relative", mode.String())
	assert.True(t, isTag)
	assert.Equal(t, "loophead", payload)
}

func TestImmediateAndPositionSigils(t *testing.T) {
	mode, payload, _, err := ParseArgument("$42")
	require.NoError(t, err)
	assert.Equal(t, "immediate", mode.String())
	assert.Equal(t, "42", payload)

	mode, payload, _, err = ParseArgument("#42")
	require.NoError(t, err)
	assert.Equal(t, "position", mode.String())
	assert.Equal(t, "42", payload)
}

func TestTagOnOwnLineCollapsesToInlineForm(t *testing.T) {
	// The tag is used once so the program compiles without an UnusedTag error.
	withNewline := mustCompile(t, "target:\n  hlt\njmp $1, target")
	inline := mustCompile(t, "target: hlt\njmp $1, target")
	assert.Equal(t, inline, withNewline)
}

func TestJoinDefaultCollapsesEmbeddedNewlines(t *testing.T) {
	tokens := mustCompile(t, "add $1, $2, #0")
	joined := Join(tokens, false)
	assert.NotContains(t, joined, "\n")
}

func TestJoinPrettyKeepsOneInstructionPerLine(t *testing.T) {
	tokens := mustCompile(t, "add $1, $2, #0\nhlt")
	joined := Join(tokens, true)
	assert.Contains(t, joined, "\n")
	assert.False(t, strings.HasPrefix(joined, "\n"), "leading whitespace must be trimmed")
}

func TestWrongArgumentsCountIsReported(t *testing.T) {
	_, errs := Compile("add $1, $2")
	require.Len(t, errs, 1)
	assert.Equal(t, WrongArgumentsCount, errs[0].Kind)
	assert.Equal(t, 3, errs[0].Expected)
	assert.Equal(t, 2, errs[0].Found)
}

func TestArgumentParseErrorMessageIsNotDoubled(t *testing.T) {
	_, _, _, err := ParseArgument("")
	require.EqualError(t, err, "empty argument")

	ce := CompileError{Kind: ArgumentParse, Message: err.Error()}
	assert.Equal(t, "0:0: argument parsing failed: empty argument", ce.Error())
}
