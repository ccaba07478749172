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

package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressesAreContiguousFromOne(t *testing.T) {
	var tbl Table
	a1 := tbl.Emit(PUSHI, Imm(1))
	a2 := tbl.Emit(PUSHI, Imm(2))
	a3 := tbl.Emit(ADD, NoOperand)
	require.Equal(t, 1, a1)
	require.Equal(t, 2, a2)
	require.Equal(t, 3, a3)
}

func TestBackPatchSetsOperandNotPosition(t *testing.T) {
	var tbl Table
	tbl.Emit(PUSHM, Imm(5000))
	tbl.Emit(PUSHM, Imm(5001))
	tbl.Emit(LES, NoOperand)
	jumpAddr := tbl.Emit(JUMP0, Imm(0)) // placeholder
	tbl.PushJump(jumpAddr)
	tbl.Emit(PUSHM, Imm(5002))
	tbl.Emit(POPM, Imm(5000))
	labelAddr := tbl.Emit(LABEL, NoOperand)

	require.NoError(t, tbl.BackPatch(labelAddr))
	require.True(t, tbl.JumpStackEmpty())

	ins := tbl.Instructions()
	require.Equal(t, jumpAddr, ins[3].Address)
	require.Equal(t, JUMP0, ins[3].Opcode)
	require.Equal(t, labelAddr, ins[3].Operand.Value)
}

func TestBackPatchEmptyStackErrors(t *testing.T) {
	var tbl Table
	err := tbl.BackPatch(1)
	require.Error(t, err)
}

func TestIfWithElseBackPatch(t *testing.T) {
	// Mirrors spec.md §8 scenario 3: if (a == b) c = 0; else a = 85; endif
	var tbl Table
	tbl.Emit(PUSHM, Imm(5000))
	tbl.Emit(PUSHM, Imm(5001))
	tbl.Emit(EQU, NoOperand)
	cond := tbl.Emit(JUMP0, Imm(0))
	tbl.PushJump(cond)

	tbl.Emit(PUSHI, Imm(0))
	tbl.Emit(POPM, Imm(5002))
	elseJump := tbl.Emit(JUMP, Imm(0))
	// condition's JUMP0 resolves to just after the else-skip JUMP.
	require.NoError(t, tbl.BackPatch(tbl.NextAddress()))
	tbl.PushJump(elseJump)

	tbl.Emit(PUSHI, Imm(85))
	tbl.Emit(POPM, Imm(5000))
	end := tbl.Emit(LABEL, NoOperand)
	require.NoError(t, tbl.BackPatch(end))
	require.True(t, tbl.JumpStackEmpty())

	ins := tbl.Instructions()
	require.Equal(t, 8, ins[3].Operand.Value)  // JUMP0 -> instruction 8 (PUSHI 85)
	require.Equal(t, 10, ins[6].Operand.Value) // JUMP -> instruction 10 (LABEL)
}

func TestWhileLoopBackPatch(t *testing.T) {
	// Mirrors spec.md §8 scenario 4.
	var tbl Table
	top := tbl.Emit(LABEL, NoOperand)
	tbl.Emit(PUSHM, Imm(5000))
	tbl.Emit(PUSHI, Imm(10))
	tbl.Emit(LES, NoOperand)
	cond := tbl.Emit(JUMP0, Imm(0))
	tbl.PushJump(cond)

	tbl.Emit(PUSHM, Imm(5000))
	tbl.Emit(PUSHI, Imm(1))
	tbl.Emit(ADD, NoOperand)
	tbl.Emit(POPM, Imm(5000))
	jumpBack := tbl.Emit(JUMP, Imm(top))

	require.NoError(t, tbl.BackPatch(jumpBack+1))
	require.True(t, tbl.JumpStackEmpty())

	ins := tbl.Instructions()
	require.Equal(t, jumpBack+1, ins[4].Operand.Value)
	require.Equal(t, top, ins[9].Operand.Value)
}
