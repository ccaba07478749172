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

// Package diag implements the error taxonomy and status reporting from
// spec.md §7: lexical-unknown (surfaced as a parser mismatch, not its own
// error type), syntax errors, and semantic errors, plus the colored
// status lines from §6.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// SyntaxError carries the "expected X, found Y" shape spec.md §7 requires,
// plus whatever fixed message (e.g. "Statement is missing") applies when
// there is no single expected lexeme to name.
type SyntaxError struct {
	Message  string
	Expected string
	Found    string
	Line     int
}

func (e *SyntaxError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return fmt.Sprintf("line %d: expected %s, found %s", e.Line, e.Expected, e.Found)
}

// SemanticError carries one of the fixed semantic messages from §7:
// duplicate declaration, undeclared use, type mismatch, non-integer
// arithmetic, or a disallowed real declaration/literal.
type SemanticError struct {
	Message string
	Line    int
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Reporter renders the four top-level status lines: syntax-ok,
// compilation-succeeded, compilation-failed, and a single error line.
// Color is applied only when the destination is a terminal; every
// message still has a plain-text form so color is never load-bearing.
type Reporter struct {
	w        io.Writer
	colorize bool
}

// NewReporter returns a Reporter writing to w. enableColor should be true
// only when w is known to be an interactive terminal (the CLI decides
// this with github.com/mattn/go-isatty).
func NewReporter(w io.Writer, enableColor bool) *Reporter {
	return &Reporter{w: w, colorize: enableColor}
}

func (r *Reporter) paint(c *color.Color, s string) string {
	if !r.colorize {
		return s
	}
	return c.Sprint(s)
}

// SyntaxOK prints "Syntax is correct".
func (r *Reporter) SyntaxOK() {
	fmt.Fprintln(r.w, r.paint(color.New(color.FgGreen), "Syntax is correct"))
}

// CompilationSucceeded prints "Compilation successful".
func (r *Reporter) CompilationSucceeded() {
	fmt.Fprintln(r.w, r.paint(color.New(color.FgGreen, color.Bold), "Compilation successful"))
}

// CompilationFailed prints "Compilation failed".
func (r *Reporter) CompilationFailed() {
	fmt.Fprintln(r.w, r.paint(color.New(color.FgRed, color.Bold), "Compilation failed"))
}

// Error prints "Error: <message>" for err, which should be a
// *SyntaxError, *SemanticError, or any other error the pipeline surfaced.
func (r *Reporter) Error(err error) {
	fmt.Fprintln(r.w, r.paint(color.New(color.FgRed), "Error: "+err.Error()))
}
