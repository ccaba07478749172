/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdxjjb/rat24s/internal/codegen"
	"github.com/pdxjjb/rat24s/internal/config"
	"github.com/pdxjjb/rat24s/internal/lexer"
)

func parse(t *testing.T, src string) (*Parser, error) {
	t.Helper()
	cfg := config.Default()
	lx := lexer.NewString(src, cfg)
	p := New(lx, cfg, &MemorySink{}, true)
	err := p.Parse()
	return p, err
}

func opcodes(ins []codegen.Instruction) []string {
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.String()
	}
	return out
}

// Scenario 1: simple assignment (spec.md §8.1).
func TestSimpleAssignment(t *testing.T) {
	p, err := parse(t, "$ $ integer a, b, c; $ a = b + c; $")
	require.NoError(t, err)
	require.Equal(t, []string{"PUSHM 5001", "PUSHM 5002", "A", "POPM 5000"}, opcodes(p.Instructions()))

	syms := p.Symbols().Values()
	require.Len(t, syms, 3)
	require.Equal(t, "a", syms[0].Name)
	require.Equal(t, 5000, syms[0].Address)
	require.Equal(t, "b", syms[1].Name)
	require.Equal(t, 5001, syms[1].Address)
	require.Equal(t, "c", syms[2].Name)
	require.Equal(t, 5002, syms[2].Address)
}

// Scenario 2: if without else (spec.md §8.2).
func TestIfWithoutElse(t *testing.T) {
	p, err := parse(t, "$ $ integer a,b,c; $ if (a < b) a = c; endif $")
	require.NoError(t, err)
	ins := p.Instructions()
	require.Equal(t, []string{
		"PUSHM 5000", "PUSHM 5001", "LES", "JUMP0 7", "PUSHM 5002", "POPM 5000", "LABEL",
	}, opcodes(ins))
	require.Equal(t, 7, ins[6].Address)
	require.Equal(t, 7, ins[3].Operand.Value)
}

// Scenario 3: if with else (spec.md §8.3).
func TestIfWithElse(t *testing.T) {
	p, err := parse(t, "$ $ integer a,b,c; $ if (a == b) c = 0; else a = 85; endif $")
	require.NoError(t, err)
	ins := p.Instructions()
	require.Equal(t, []string{
		"PUSHM 5000", "PUSHM 5001", "EQU", "JUMP0 8", "PUSHI 0", "POPM 5002",
		"JUMP 10", "PUSHI 85", "POPM 5000", "LABEL",
	}, opcodes(ins))
	require.Equal(t, 8, ins[3].Operand.Value)
	require.Equal(t, 10, ins[6].Operand.Value)
}

// Scenario 4: while (spec.md §8.4).
func TestWhile(t *testing.T) {
	p, err := parse(t, "$ $ integer i; $ while (i < 10) i = i + 1; endwhile $")
	require.NoError(t, err)
	ins := p.Instructions()
	require.Equal(t, []string{
		"LABEL", "PUSHM 5000", "PUSHI 10", "LES", "JUMP0 11",
		"PUSHM 5000", "PUSHI 1", "A", "POPM 5000", "JUMP 1",
	}, opcodes(ins))
	require.Equal(t, 11, ins[4].Operand.Value)
	require.Equal(t, 1, ins[9].Operand.Value)
	require.True(t, p.code.JumpStackEmpty())
}

// Scenario 5: type mismatch (spec.md §8.5).
func TestTypeMismatch(t *testing.T) {
	_, err := parse(t, "$ $ integer a; boolean b; $ a = b; $")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Data types do not match")
}

// Scenario 6: real rejected (spec.md §8.6).
func TestRealRejected(t *testing.T) {
	_, err := parse(t, "$ $ real x; $ x = 1; $")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Real data type is not allowed")
}

func TestEmptyInputIsError(t *testing.T) {
	_, err := parse(t, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "The input is empty")
}

func TestMissingDollarSeparatorIsSyntaxError(t *testing.T) {
	_, err := parse(t, "$ integer a; $ a = 1; $")
	require.Error(t, err)
}

func TestDuplicateIdentifierInDeclaration(t *testing.T) {
	_, err := parse(t, "$ $ integer a; integer a; $ a = 1; $")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Duplicate identifier")
}

func TestUndeclaredIdentifierInExpression(t *testing.T) {
	_, err := parse(t, "$ $ integer a; $ a = b; $")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Identifier not found")
}

func TestUndeclaredIdentifierOnLHS(t *testing.T) {
	_, err := parse(t, "$ $ $ a = 1; $")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Identifier not found")
}

// Nested if inside while exercises jump-stack LIFO ordering across two
// distinct back-patch protocols at once (spec.md §8 boundary behavior).
func TestNestedIfInsideWhile(t *testing.T) {
	p, err := parse(t, "$ $ integer a,b; $ while (a < b) if (a == b) a = 1; endif endwhile $")
	require.NoError(t, err)
	require.True(t, p.code.JumpStackEmpty())
	ins := p.Instructions()
	labelCount := 0
	for _, in := range ins {
		if in.Opcode == codegen.LABEL {
			labelCount++
		}
	}
	require.Equal(t, 2, labelCount) // while-top LABEL and if-endif LABEL
}

func TestGreaterOrEqualSpelling(t *testing.T) {
	p, err := parse(t, "$ $ integer a,b; $ if (a => b) a = 1; endif $")
	require.NoError(t, err)
	ins := p.Instructions()
	require.Contains(t, opcodes(ins), "GEQ")
}

func TestBooleanLiteralAssignment(t *testing.T) {
	p, err := parse(t, "$ $ boolean b; $ b = true; $")
	require.NoError(t, err)
	require.Equal(t, []string{"PUSHI 1", "POPM 5000"}, opcodes(p.Instructions()))
}

func TestNegativeIntegerLiteral(t *testing.T) {
	p, err := parse(t, "$ $ integer a; $ a = -5; $")
	require.NoError(t, err)
	require.Equal(t, []string{"PUSHI -5", "POPM 5000"}, opcodes(p.Instructions()))
}

func TestNegatedIdentifierIsSyntaxError(t *testing.T) {
	_, err := parse(t, "$ $ integer a, b; $ a = -b; $")
	require.Error(t, err)
}

func TestFunctionDefinitionDoesNotEmitCode(t *testing.T) {
	p, err := parse(t, "$ function f (x integer) integer y; { return x; } $ integer a; $ a = 1; $")
	require.NoError(t, err)
	require.Equal(t, []string{"PUSHI 1", "POPM 5000"}, opcodes(p.Instructions()))
}

func TestParenthesizedExpression(t *testing.T) {
	p, err := parse(t, "$ $ integer a, b, c; $ a = (b + c) * 2; $")
	require.NoError(t, err)
	require.Equal(t, []string{"PUSHM 5001", "PUSHM 5002", "A", "PUSHI 2", "M", "POPM 5000"}, opcodes(p.Instructions()))
}
