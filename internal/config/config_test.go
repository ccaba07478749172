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

package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultReservedWords(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.IsReserved("while"))
	require.True(t, cfg.IsReserved("endwhile"))
	require.False(t, cfg.IsReserved("whilex"))
	require.Equal(t, 5000, cfg.SymbolBase)
}

func TestMatchOperatorTwoCharBeforeOneChar(t *testing.T) {
	cfg := Default()
	op, two, ok := cfg.MatchOperator('=', '=')
	require.True(t, ok)
	require.True(t, two)
	require.Equal(t, "EQU", op.Name)

	op, two, ok = cfg.MatchOperator('=', 'x')
	require.True(t, ok)
	require.False(t, two)
	require.Equal(t, "ASSIGN", op.Name)
}

func TestGeqSpelling(t *testing.T) {
	cfg := Default()
	op, two, ok := cfg.MatchOperator('=', '>')
	require.True(t, ok)
	require.True(t, two)
	require.Equal(t, "GEQ", op.Name)

	// Conventional >= spelling is NOT accepted as a two-character operator
	// (spec.md §9 Open Question); '>' alone still lexes as GRT.
	op, two, ok = cfg.MatchOperator('>', '=')
	require.True(t, ok)
	require.False(t, two)
	require.Equal(t, "GRT", op.Name)
}

func TestSeparators(t *testing.T) {
	cfg := Default()
	for _, b := range []byte("(){},;$") {
		require.True(t, cfg.IsSeparator(b), "expected %q to be a separator", b)
	}
	require.False(t, cfg.IsSeparator('%'))
}

func TestIsOperatorStart(t *testing.T) {
	cfg := Default()
	for _, b := range []byte("+-*/=<>!") {
		require.True(t, cfg.IsOperatorStart(b), "expected %q to start an operator", b)
	}
	require.False(t, cfg.IsOperatorStart('%'))
}
