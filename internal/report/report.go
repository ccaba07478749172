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

// Package report renders the three fixed-width tables spec.md §6 defines
// as the driver's external interface: the lexical token table, the
// assembly listing, and the symbol-table appendix.
package report

import (
	"fmt"
	"io"

	"github.com/pdxjjb/rat24s/internal/codegen"
	"github.com/pdxjjb/rat24s/internal/symtab"
	"github.com/pdxjjb/rat24s/internal/token"
)

// Tokens writes the token table: a header, a rule of dashes, then one
// row per token with the kind left-aligned in a column of width 20.
func Tokens(w io.Writer, tokens []token.Token) {
	fmt.Fprintf(w, "%-20s%s\n", "token", "lexeme")
	fmt.Fprintln(w, "-------------------------------")
	for _, t := range tokens {
		fmt.Fprintf(w, "%-20s%s\n", t.Kind.String(), t.Lexeme)
	}
}

// Assembly writes the raw instruction stream, one "OPCODE[ operand]" per
// line with no address prefix, per §6's generator output contract.
func Assembly(w io.Writer, instructions []codegen.Instruction) {
	for _, ins := range instructions {
		fmt.Fprintln(w, ins.String())
	}
}

// AssemblyListing writes the same instructions with their 1-based
// address prefixed, for human-facing -a output.
func AssemblyListing(w io.Writer, instructions []codegen.Instruction) {
	for _, ins := range instructions {
		fmt.Fprintf(w, "%d %s\n", ins.Address, ins.String())
	}
}

// SymbolTable writes the three-column appendix: Identifier (15),
// Address (10), Type (15), insertion order.
func SymbolTable(w io.Writer, entries []symtab.Entry) {
	fmt.Fprintf(w, "%-15s%-10s%-15s\n", "Identifier", "Address", "Type")
	for _, e := range entries {
		fmt.Fprintf(w, "%-15s%-10d%-15s\n", e.Name, e.Address, e.Type.String())
	}
}
