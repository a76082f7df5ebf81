/*
 * cell_test.go, part of gopot.
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

package cell

import (
	"math"
	"testing"

	"github.com/rmera/gopot/comm"
	"github.com/rmera/gopot/radial"
)

func testCell(Te *testing.T) *UnitCell {
	uc, err := NewUnitCell([3][3]float64{{5, 0, 0}, {0, 6, 0}, {1, 0, 7}})
	if err != nil {
		Te.Fatal(err)
	}
	t := uc.AddAtomType(&AtomType{Label: "X", Zn: 3, Grid: radial.NewExponentialGrid(200, 1e-5, 1.5), IndexR: []RadialIndex{{0, 0}, {1, 0}, {2, 0}}})
	if _, err := uc.AddAtom(t.ID, [3]float64{0, 0, 0}); err != nil {
		Te.Fatal(err)
	}
	if _, err := uc.AddAtom(t.ID, [3]float64{0.5, 0.5, 0.5}); err != nil {
		Te.Fatal(err)
	}
	return uc
}

func TestUnitCell(Te *testing.T) {
	uc := testCell(Te)
	if uc.Initialized() {
		Te.Error("cell initialized before Initialize")
	}
	if err := uc.Initialize(); err != nil {
		Te.Fatal(err)
	}
	if math.Abs(uc.Omega()-210) > 1e-10 {
		Te.Error("wrong volume", uc.Omega())
	}
	a, b := uc.Lattice(), uc.Reciprocal()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d := a[i][0]*b[j][0] + a[i][1]*b[j][1] + a[i][2]*b[j][2]
			exp := 0.0
			if i == j {
				exp = 2 * math.Pi
			}
			if math.Abs(d-exp) > 1e-12 {
				Te.Errorf("a%d.b%d=%v", i, j, d)
			}
		}
	}
	if uc.Types[0].MTBasisSize() != 9 || uc.Types[0].MTRadius != 1.5 {
		Te.Error("wrong basis size or radius", uc.Types[0].MTBasisSize(), uc.Types[0].MTRadius)
	}
	if len(uc.Classes) != 2 || uc.Atoms[1].SymmetryClass() != uc.Classes[1] {
		Te.Error("wrong default symmetry classes")
	}
	uc.SetSymmetryClasses([][]int{{0, 1}})
	if err := uc.Initialize(); err != nil {
		Te.Fatal(err)
	}
	if len(uc.Classes) != 1 || uc.Atoms[1].SymmetryClass() != uc.Classes[0] {
		Te.Error("symmetry classes not applied")
	}
	uc.SetSymmetryClasses([][]int{{0}})
	if err := uc.Initialize(); err == nil {
		Te.Error("atom without class accepted")
	}
	if _, err := uc.AddAtom(5, [3]float64{}); err == nil {
		Te.Error("atom of an undefined type accepted")
	}
}

func TestGvec(Te *testing.T) {
	uc, err := NewUnitCell([3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}})
	if err != nil {
		Te.Fatal(err)
	}
	b := 2 * math.Pi / 4
	gv := NewGvec(uc, 1.01*b, comm.Self())
	if gv.Num() != 7 {
		Te.Fatal("expected 7 vectors, got", gv.Num())
	}
	if gv.Length(0) != 0 {
		Te.Error("G=0 is not the first vector")
	}
	for ig := 1; ig < gv.Num(); ig++ {
		if math.Abs(gv.Length(ig)-b) > 1e-12 {
			Te.Error("wrong length", ig, gv.Length(ig))
		}
	}
	gv = NewGvec(uc, 5*b, comm.Self())
	seen := map[[3]int]bool{}
	idx := map[int]bool{}
	for ig := 0; ig < gv.Num(); ig++ {
		if ig > 0 && gv.Length(ig) < gv.Length(ig-1)-1e-10 {
			Te.Fatal("vectors not sorted by length at", ig)
		}
		seen[gv.Miller(ig)] = true
		if idx[gv.FFTIndex(ig)] {
			Te.Fatal("two vectors at the same box position")
		}
		idx[gv.FFTIndex(ig)] = true
	}
	for ig := 0; ig < gv.Num(); ig++ {
		m := gv.Miller(ig)
		if !seen[[3]int{-m[0], -m[1], -m[2]}] {
			Te.Error("missing -G for", m)
		}
	}
	uc.SetLattice([3][3]float64{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}})
	if !gv.Stale() {
		Te.Error("lattice change not noticed")
	}
	gv.Update()
	if math.Abs(gv.Length(1)-2*math.Pi/5) > 1e-12 {
		Te.Error("wrong length after update", gv.Length(1))
	}
}
