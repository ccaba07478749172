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

package fsm

// Ident is the identifier DFA from spec.md §3: 6 states, A initial,
// B through E accepting, F the trap. States B/C/D/E all accept (an
// identifier is complete after any valid character) but are kept distinct
// rather than collapsed into one, tracking the class of the most recently
// consumed character (letter, digit, or underscore) so the transition
// table stays an honest record of the grammar (letter (letter|digit|_)*)
// instead of a single self-loop that would hide it.
const (
	identA State = iota
	identB
	identC
	identD
	identE
	identF
)

const (
	symLetter Symbol = iota
	symDigit2
	symUnderscore
)

var Ident = Descriptor{
	Initial: identA,
	Trap:    identF,
	Accepting: map[State]bool{
		identB: true,
		identC: true,
		identD: true,
		identE: true,
	},
	Transition: [][]State{
		identA: {identB, identF, identF}, // must start with a letter
		identB: {identC, identD, identE},
		identC: {identC, identD, identE},
		identD: {identC, identD, identE},
		identE: {identC, identD, identE},
		identF: {identF, identF, identF},
	},
	Classify: func(b byte) (Symbol, bool) {
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
			return symLetter, true
		case b >= '0' && b <= '9':
			return symDigit2, true
		case b == '_':
			return symUnderscore, true
		}
		return 0, false
	},
}
