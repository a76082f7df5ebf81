/*
 * hubbard_test.go, part of gopot.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package hubbard

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/radial"
)

func testCell(Te *testing.T) *cell.UnitCell {
	uc, err := cell.NewUnitCell([3][3]float64{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}})
	if err != nil {
		Te.Fatal(err)
	}
	g := radial.NewExponentialGrid(20, 1e-4, 1)
	d := uc.AddAtomType(&cell.AtomType{Label: "Ni", Zn: 28, Grid: g, Hubbard: &cell.HubbardChannel{L: 2, U: 0.3, J: 0.05}})
	o := uc.AddAtomType(&cell.AtomType{Label: "O", Zn: 8, Grid: g})
	uc.AddAtom(d.ID, [3]float64{0, 0, 0})
	uc.AddAtom(o.ID, [3]float64{0.5, 0.5, 0.5})
	if err := uc.Initialize(); err != nil {
		Te.Fatal(err)
	}
	return uc
}

func TestLayout(Te *testing.T) {
	uc := testCell(Te)
	for nmag, nc := range map[int]int{0: 1, 1: 2, 3: 4} {
		m := NewMatrix(uc, nmag)
		if m.NumComponents() != nc || len(m.Local(0)) != nc {
			Te.Errorf("nmag=%d: %d components, expected %d", nmag, len(m.Local(0)), nc)
		}
		if r, _ := m.Local(0)[0].Dims(); r != 5 {
			Te.Error("wrong block size", r)
		}
		if m.Local(1) != nil {
			Te.Error("atom without Hubbard channel got a block")
		}
	}
}

func TestDudarev(Te *testing.T) {
	uc := testCell(Te)
	ueff := 0.25
	occ := NewMatrix(uc, 1)
	pot := NewMatrix(uc, 1)
	//full up shell, half-filled down shell
	for i := 0; i < 5; i++ {
		occ.Local(0)[0].Set(i, i, 1)
		occ.Local(0)[1].Set(i, i, 0.5)
	}
	e, err := Dudarev{}.Generate(uc, occ, pot)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if cmplx.Abs(pot.Local(0)[0].At(i, i)-complex(-ueff/2, 0)) > 1e-14 {
			Te.Error("wrong up potential", pot.Local(0)[0].At(i, i))
		}
		if cmplx.Abs(pot.Local(0)[1].At(i, i)) > 1e-14 {
			Te.Error("wrong down potential", pot.Local(0)[1].At(i, i))
		}
	}
	//only the down shell contributes: Ueff/2 * 5 * (0.5 - 0.25)
	if math.Abs(e-ueff/2*5*0.25) > 1e-14 {
		Te.Error("wrong energy", e)
	}
	//the non-magnetic case with the total occupation gives the same per spin.
	occ0 := NewMatrix(uc, 0)
	pot0 := NewMatrix(uc, 0)
	for i := 0; i < 5; i++ {
		occ0.Local(0)[0].Set(i, i, 1)
	}
	e0, err := Dudarev{}.Generate(uc, occ0, pot0)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(e0-ueff/2*2*5*0.25) > 1e-14 || cmplx.Abs(pot0.Local(0)[0].At(0, 0)) > 1e-14 {
		Te.Error("wrong non-magnetic result", e0, pot0.Local(0)[0].At(0, 0))
	}
	if _, err := (Dudarev{}).Generate(uc, occ, pot0); err == nil {
		Te.Error("mismatched matrices accepted")
	}
}
