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

// Number is the integer/real DFA from spec.md §3: 5 states, A initial,
// B accepts an integer, D accepts a real, C is the post-decimal-point
// state awaiting its first fractional digit, E is the trap.
const (
	numA State = iota
	numB
	numC
	numD
	numE
)

const (
	symDigit Symbol = iota
	symDot
)

// Number classifies digits and the decimal point; every other byte is
// outside the alphabet and forces a transition to the trap state.
var Number = Descriptor{
	Initial: numA,
	Trap:    numE,
	Accepting: map[State]bool{
		numB: true, // integer
		numD: true, // real
	},
	Transition: [][]State{
		numA: {numB, numC}, // digit -> B (int so far); dot -> C (awaiting fraction)
		numB: {numB, numC}, // digit -> B; dot -> C
		numC: {numD, numE}, // digit -> D (real); dot -> E (second dot, trap)
		numD: {numD, numE}, // digit -> D; dot -> E (second dot, trap)
		numE: {numE, numE}, // trap is sticky
	},
	Classify: func(b byte) (Symbol, bool) {
		switch {
		case b >= '0' && b <= '9':
			return symDigit, true
		case b == '.':
			return symDot, true
		}
		return 0, false
	},
}

// NumberKind reports which of INTEGER or REAL an accepted trace produced.
func NumberKind(state State) (isInteger, isReal bool) {
	return state == numB, state == numD
}
