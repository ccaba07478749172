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

// Package fsm implements the table-driven DFA engine described in
// spec.md §3/§4.1: a read-only transition table plus a Trace operation
// that consumes a byte stream until a stop character or EOF is reached.
//
// Table-driven DFAs make the lexical rules explicit, auditable, and
// testable independently of the lexer driver that calls them.
package fsm

import "github.com/pdxjjb/rat24s/internal/pbr"

// State indexes a row of a Descriptor's transition table.
type State int

// Symbol indexes a column of a Descriptor's transition table.
type Symbol int

// Descriptor is a read-only DFA: alphabet, states, and a transition table
// shared across lexer instances (spec.md §9: "FSM tables are static data;
// expose them as read-only descriptors").
type Descriptor struct {
	Initial    State
	Trap       State
	Accepting  map[State]bool
	Transition [][]State // Transition[state][symbol] -> next state
	// Classify maps a byte to an alphabet symbol. The second return value
	// is false for any byte outside the alphabet, which the engine treats
	// as an unconditional transition to Trap.
	Classify func(b byte) (Symbol, bool)
}

// Result is the outcome of tracing the descriptor over a byte stream.
type Result struct {
	Accepted      bool
	AcceptedState State
	Lexeme        string
}

// Trace runs d over r starting with first, accumulating bytes into the
// lexeme until it reaches a stop character or EOF. Entering the trap state
// does not end the trace: the remaining bytes up to the stop character are
// still consumed, so a rejected lexeme spans the whole bad run. The
// terminating stop character, if any, is pushed back onto r.
func Trace(d Descriptor, first byte, r pbr.Reader, isStop func(byte) bool) Result {
	state := d.Initial
	buf := []byte{first}
	state = d.step(state, first)

	for {
		b, err := r.ReadByte()
		if err != nil {
			// EOF: nothing to push back.
			break
		}
		if isStop(b) {
			r.Unread(b)
			break
		}
		state = d.step(state, b)
		buf = append(buf, b)
	}

	return Result{
		Accepted:      d.Accepting[state],
		AcceptedState: state,
		Lexeme:        string(buf),
	}
}

func (d Descriptor) step(state State, b byte) State {
	sym, ok := d.Classify(b)
	if !ok {
		return d.Trap
	}
	row := d.Transition[state]
	if int(sym) < 0 || int(sym) >= len(row) {
		return d.Trap
	}
	return row[sym]
}
