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

// Package lexer turns Rat24S source into a token stream, per spec.md §4.2.
//
// The driver loop classifies the next character, skips whitespace and
// bracketed [* ... *] comments, and delegates number and identifier
// recognition to internal/fsm. Operators and separators are dispatched
// against the fixed tables in internal/config.
package lexer

import (
	"io"

	"github.com/pdxjjb/rat24s/internal/config"
	"github.com/pdxjjb/rat24s/internal/fsm"
	"github.com/pdxjjb/rat24s/internal/pbr"
	"github.com/pdxjjb/rat24s/internal/token"
)

// Lexer is a pull-based tokenizer: call Next repeatedly until it returns a
// token whose Kind is token.EOF.
type Lexer struct {
	r      pbr.Reader
	cfg    *config.Config
	line   int
	closed bool
}

// NewFile opens path and returns a Lexer over its contents, with the
// reader scoped to the Lexer's own Close.
func NewFile(path string, cfg *config.Config) (*Lexer, error) {
	r, err := pbr.NewFile(path)
	if err != nil {
		return nil, err
	}
	return &Lexer{r: r, cfg: cfg, line: 1}, nil
}

// NewString returns a Lexer over an in-memory source string, used by the
// lexer's and parser's unit tests.
func NewString(body string, cfg *config.Config) *Lexer {
	return &Lexer{r: pbr.NewString(body), cfg: cfg, line: 1}
}

// Close releases the underlying reader. Safe to call more than once.
func (lx *Lexer) Close() error {
	if lx.closed {
		return nil
	}
	lx.closed = true
	return lx.r.Close()
}

func isWhitespace(b byte) bool { return b == ' ' || b == '\n' || b == '\t' }

// stopForFSM derives the FSM stop-character set from cfg rather than
// hand-coding it: whitespace, every configured separator, the first
// character of every configured operator, and '[' (a bracketed comment
// can immediately follow an identifier or number with no intervening
// whitespace). This mirrors the original source's __get_stop_signs,
// which unions the same sets, so an identifier or number is never
// swallowed into the FSM trap state by a following operator character
// (spec.md examples only happen to space their operators; real source
// doesn't have to), and a --config override that changes the operator
// table changes lexeme boundaries along with it.
func stopForFSM(cfg *config.Config) func(byte) bool {
	return func(b byte) bool {
		return isWhitespace(b) || cfg.IsSeparator(b) || cfg.IsOperatorStart(b) || b == '['
	}
}

// Next returns the next token, or a token.EOF-kind token once the input is
// exhausted; it keeps returning EOF on every subsequent call (spec.md §8:
// "next_token() returns tokens strictly in source order; after the last
// token it returns null and stays null").
func (lx *Lexer) Next() token.Token {
	for {
		b, err := lx.r.ReadByte()
		if err != nil {
			return token.Token{Lexeme: "", Kind: token.EOF, Line: lx.line}
		}

		switch {
		case b == '\n':
			lx.line++
			continue
		case isWhitespace(b):
			continue
		case b == '[':
			if lx.peekIs('*') {
				lx.skipComment()
				continue
			}
			return lx.separatorOrUnknown(b)
		case isDigitOrDot(b):
			return lx.lexNumber(b)
		case isLetter(b):
			return lx.lexIdentifier(b)
		case lx.cfg.IsSeparator(b):
			return token.Token{Lexeme: string(b), Kind: token.Separator, Line: lx.line}
		default:
			return lx.lexOperatorOrUnknown(b)
		}
	}
}

// peekIs reads one byte and reports whether it equals want, pushing it
// back regardless so the caller's own dispatch is unaffected.
func (lx *Lexer) peekIs(want byte) bool {
	b, err := lx.r.ReadByte()
	if err != nil {
		return false
	}
	lx.r.Unread(b)
	return b == want
}

// skipComment discards everything up to and including the closing *]
// delimiter. An unterminated comment silently swallows the rest of the
// input, matching spec.md §4.2 rule 1.
func (lx *Lexer) skipComment() {
	// consume the '*' we peeked
	lx.r.ReadByte()
	prevStar := false
	for {
		b, err := lx.r.ReadByte()
		if err != nil {
			return // unterminated: swallow to EOF
		}
		if b == '\n' {
			lx.line++
		}
		if prevStar && b == ']' {
			return
		}
		prevStar = b == '*'
	}
}

func isDigitOrDot(b byte) bool { return (b >= '0' && b <= '9') || b == '.' }
func isLetter(b byte) bool     { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func (lx *Lexer) lexNumber(first byte) token.Token {
	res := fsm.Trace(fsm.Number, first, lx.r, stopForFSM(lx.cfg))
	if !res.Accepted {
		return token.Token{Lexeme: res.Lexeme, Kind: token.Unknown, Line: lx.line}
	}
	isInt, isReal := fsm.NumberKind(res.AcceptedState)
	switch {
	case isInt:
		return token.Token{Lexeme: res.Lexeme, Kind: token.Integer, Line: lx.line}
	case isReal:
		return token.Token{Lexeme: res.Lexeme, Kind: token.Real, Line: lx.line}
	default:
		return token.Token{Lexeme: res.Lexeme, Kind: token.Unknown, Line: lx.line}
	}
}

func (lx *Lexer) lexIdentifier(first byte) token.Token {
	res := fsm.Trace(fsm.Ident, first, lx.r, stopForFSM(lx.cfg))
	if !res.Accepted {
		return token.Token{Lexeme: res.Lexeme, Kind: token.Unknown, Line: lx.line}
	}
	if lx.cfg.IsReserved(res.Lexeme) {
		return token.Token{Lexeme: res.Lexeme, Kind: token.Keyword, Line: lx.line}
	}
	return token.Token{Lexeme: res.Lexeme, Kind: token.Identifier, Line: lx.line}
}

// lexOperatorOrUnknown handles a byte that is neither whitespace, digit,
// letter, nor a known separator: it may be the start of a one- or
// two-character operator, or the start of a bad run of characters
// (spec.md §4.2 rule 6).
func (lx *Lexer) lexOperatorOrUnknown(first byte) token.Token {
	second, err := lx.r.ReadByte()
	if err == nil {
		if op, two, ok := lx.cfg.MatchOperator(first, second); ok {
			if two {
				return token.Token{Lexeme: op.Text, Kind: token.Operator, Line: lx.line}
			}
			lx.r.Unread(second)
			return token.Token{Lexeme: op.Text, Kind: token.Operator, Line: lx.line}
		}
		lx.r.Unread(second)
	}
	return lx.badRun(first)
}

func (lx *Lexer) separatorOrUnknown(first byte) token.Token {
	return lx.badRun(first)
}

// badRun consumes an unrecognized character and every following character
// up to the next stop character, via the identifier FSM's trap state,
// producing a single UNKNOWN token spanning the run (spec.md §4.2 rule 7).
func (lx *Lexer) badRun(first byte) token.Token {
	res := fsm.Trace(fsm.Ident, first, lx.r, stopForFSM(lx.cfg))
	return token.Token{Lexeme: res.Lexeme, Kind: token.Unknown, Line: lx.line}
}

var _ io.Closer = (*Lexer)(nil)
