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

// Package semck implements the two stateless semantic queries of
// spec.md §4.5: determining a token's data type and validating that an
// arithmetic operation's operands are both integers.
package semck

import (
	"fmt"

	"github.com/pdxjjb/rat24s/internal/symtab"
	"github.com/pdxjjb/rat24s/internal/token"
)

// Checker resolves data types against a symbol table. It holds no state
// of its own beyond the table it was built from (the symtab.Table is the
// single source of truth).
type Checker struct {
	Symbols *symtab.Table
}

// New returns a Checker backed by syms.
func New(syms *symtab.Table) *Checker {
	return &Checker{Symbols: syms}
}

// DetermineDataType resolves the type a token contributes to an
// expression: an identifier's declared type, INTEGER for an integer
// literal, or BOOLEAN for a true/false literal.
func (c *Checker) DetermineDataType(t token.Token) (symtab.Type, error) {
	switch t.Kind {
	case token.Identifier:
		typ, err := c.Symbols.Type(t.Lexeme)
		if err != nil {
			return 0, fmt.Errorf("identifier not found: %s", t.Lexeme)
		}
		return typ, nil
	case token.Integer:
		return symtab.Integer, nil
	case token.Real:
		return symtab.RealType, nil
	case token.Boolean:
		return symtab.Boolean, nil
	default:
		return 0, fmt.Errorf("cannot determine data type of %s", t)
	}
}

// ValidateArithmeticOperation requires that both lhs and rhs resolve to
// INTEGER; REAL and BOOLEAN operands are rejected (spec.md §4.5: the
// stack VM has no real-number opcodes, and Rat24S has no boolean
// arithmetic).
func (c *Checker) ValidateArithmeticOperation(lhs, rhs token.Token) error {
	lt, err := c.DetermineDataType(lhs)
	if err != nil {
		return err
	}
	rt, err := c.DetermineDataType(rhs)
	if err != nil {
		return err
	}
	if lt != symtab.Integer || rt != symtab.Integer {
		return fmt.Errorf("cannot perform arithmetic on non-integer operands (%s, %s)", lt, rt)
	}
	return nil
}
