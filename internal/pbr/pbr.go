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

// Package pbr implements a one-character pushback byte reader.
//
// A single pushback slot is enough for Rat24S: the lexer only ever needs to
// return the stop character that terminated a lexeme back to the stream
// (see spec.md §4.1 and §9, "single-character pushback is sufficient").
package pbr

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Reader is a byte source with one-character pushback and scoped close.
type Reader interface {
	io.ByteReader
	io.Closer
	Unread(b byte)
}

type reader struct {
	br     io.ByteReader
	closer io.Closer // the underlying file, when there is one
	pb     byte
	have   bool
}

// NewFile opens path and returns a Reader over its contents. The caller
// must call Close, typically via defer, to release the file handle on
// every exit path including lexer failure.
func NewFile(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &reader{br: bufio.NewReader(f), closer: f}, nil
}

// NewString returns a Reader over an in-memory string, for tests and for
// lexing source embedded in a larger file.
func NewString(body string) Reader {
	return &reader{br: strings.NewReader(body)}
}

func (r *reader) ReadByte() (byte, error) {
	if r.have {
		r.have = false
		b := r.pb
		r.pb = 0
		return b, nil
	}
	return r.br.ReadByte()
}

func (r *reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	if c, ok := r.br.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Unread pushes b back onto the stream. It is idempotent with respect to
// the next ReadByte: pushing back a second byte without an intervening
// read is a programming error and panics.
func (r *reader) Unread(b byte) {
	if r.have {
		panic("pbr: too many pushbacks")
	}
	r.pb = b
	r.have = true
}
