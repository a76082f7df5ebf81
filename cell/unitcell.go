/*
 * unitcell.go, part of gopot.
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

/*Package cell contains the geometry the potential is built for: the unit cell, the atom types with their
radial grids and basis definitions, the atoms, the symmetry classes and the set of reciprocal
lattice vectors.

Symmetry detection is not done here. By default every atom is its own class, and callers
that know the symmetry can group atoms with SetSymmetryClasses.*/
package cell

import (
	"fmt"
	"math"
)

//UnitCell is a periodic cell with its atoms.
type UnitCell struct {
	lattice     [3][3]float64 //rows are the lattice vectors
	recip       [3][3]float64 //rows are the reciprocal vectors
	omega       float64
	Types       []*AtomType
	Atoms       []*Atom
	Classes     []*SymmetryClass
	groups      [][]int
	initialized bool
	version     int
}

//NewUnitCell returns an empty cell with the given lattice vectors (one per row, in bohr).
func NewUnitCell(lattice [3][3]float64) (*UnitCell, error) {
	U := &UnitCell{}
	if err := U.SetLattice(lattice); err != nil {
		return nil, errDecorate(err, "NewUnitCell")
	}
	return U, nil
}

//SetLattice changes the lattice vectors. The version of the cell is increased, so
//owners of tables that depend on the geometry can notice the change.
func (U *UnitCell) SetLattice(lattice [3][3]float64) error {
	a := lattice
	cross := func(u, v [3]float64) [3]float64 {
		return [3]float64{u[1]*v[2] - u[2]*v[1], u[2]*v[0] - u[0]*v[2], u[0]*v[1] - u[1]*v[0]}
	}
	c12 := cross(a[1], a[2])
	vol := a[0][0]*c12[0] + a[0][1]*c12[1] + a[0][2]*c12[2]
	if math.Abs(vol) < 1e-10 {
		return Error{"degenerate lattice vectors", []string{"SetLattice"}, true}
	}
	c20 := cross(a[2], a[0])
	c01 := cross(a[0], a[1])
	f := 2 * math.Pi / vol
	for i := 0; i < 3; i++ {
		U.recip[0][i] = f * c12[i]
		U.recip[1][i] = f * c20[i]
		U.recip[2][i] = f * c01[i]
	}
	U.lattice = lattice
	U.omega = math.Abs(vol)
	U.version++
	return nil
}

//Lattice returns the lattice vectors, one per row.
func (U *UnitCell) Lattice() [3][3]float64 { return U.lattice }

//Reciprocal returns the reciprocal lattice vectors, one per row, with a_i.b_j = 2 pi delta_ij.
func (U *UnitCell) Reciprocal() [3][3]float64 { return U.recip }

//Omega returns the volume of the cell.
func (U *UnitCell) Omega() float64 { return U.omega }

//Version returns a counter increased at every geometry change.
func (U *UnitCell) Version() int { return U.version }

//AddAtomType adds a type to the cell and returns it.
func (U *UnitCell) AddAtomType(t *AtomType) *AtomType {
	t.ID = len(U.Types)
	U.Types = append(U.Types, t)
	U.initialized = false
	return t
}

//AddAtom adds an atom of type typeID at the fractional position pos.
func (U *UnitCell) AddAtom(typeID int, pos [3]float64) (*Atom, error) {
	if typeID < 0 || typeID >= len(U.Types) {
		return nil, Error{fmt.Sprintf("atom type %d not defined", typeID), []string{"AddAtom"}, true}
	}
	a := &Atom{ID: len(U.Atoms), Type: U.Types[typeID], Position: pos}
	U.Atoms = append(U.Atoms, a)
	U.initialized = false
	return a, nil
}

//SetSymmetryClasses groups atoms in symmetry classes. Each group must contain atoms of only one type,
//and every atom must belong to exactly one group. It takes effect at the next Initialize.
func (U *UnitCell) SetSymmetryClasses(groups [][]int) {
	U.groups = groups
	U.initialized = false
}

//Initialize validates the cell, builds the basis indexes of the types and the symmetry classes.
func (U *UnitCell) Initialize() error {
	if len(U.Atoms) == 0 {
		return Error{"no atoms in the unit cell", []string{"Initialize"}, true}
	}
	for _, t := range U.Types {
		if err := t.init(); err != nil {
			return errDecorate(err, "Initialize")
		}
	}
	groups := U.groups
	if groups == nil {
		groups = make([][]int, len(U.Atoms))
		for i := range groups {
			groups[i] = []int{i}
		}
	}
	seen := make([]bool, len(U.Atoms))
	U.Classes = U.Classes[:0]
	for ic, g := range groups {
		if len(g) == 0 {
			return Error{fmt.Sprintf("symmetry class %d is empty", ic), []string{"Initialize"}, true}
		}
		c := &SymmetryClass{ID: ic, Type: U.Atoms[g[0]].Type, Atoms: append([]int(nil), g...)}
		for _, ia := range g {
			if ia < 0 || ia >= len(U.Atoms) || seen[ia] {
				return Error{fmt.Sprintf("atom %d missing or repeated in the symmetry classes", ia), []string{"Initialize"}, true}
			}
			if U.Atoms[ia].Type != c.Type {
				return Error{fmt.Sprintf("symmetry class %d mixes atom types", ic), []string{"Initialize"}, true}
			}
			seen[ia] = true
			U.Atoms[ia].class = c
		}
		U.Classes = append(U.Classes, c)
	}
	for ia, s := range seen {
		if !s {
			return Error{fmt.Sprintf("atom %d has no symmetry class", ia), []string{"Initialize"}, true}
		}
	}
	U.initialized = true
	return nil
}

//Initialized returns true if Initialize has been called successfully after the last change.
func (U *UnitCell) Initialized() bool { return U.initialized }

//NumAtoms returns the number of atoms.
func (U *UnitCell) NumAtoms() int { return len(U.Atoms) }

//Cart converts fractional coordinates to cartesian ones.
func (U *UnitCell) Cart(frac [3]float64) [3]float64 {
	var r [3]float64
	for i := 0; i < 3; i++ {
		for x := 0; x < 3; x++ {
			r[x] += frac[i] * U.lattice[i][x]
		}
	}
	return r
}

//MaxMTBasisSize returns the largest basis size among the types.
func (U *UnitCell) MaxMTBasisSize() int {
	n := 0
	for _, t := range U.Types {
		if t.MTBasisSize() > n {
			n = t.MTBasisSize()
		}
	}
	return n
}

//LmaxBasis returns the largest angular momentum of the radial functions of all types.
func (U *UnitCell) LmaxBasis() int {
	l := 0
	for _, t := range U.Types {
		if t.LmaxBasis() > l {
			l = t.LmaxBasis()
		}
	}
	return l
}

//HubbardOffsets returns the offset of the Hubbard orbitals of each atom in the
//list of all the Hubbard orbitals of the cell, and the total number of them.
func (U *UnitCell) HubbardOffsets() ([]int, int) {
	offs := make([]int, len(U.Atoms))
	n := 0
	for ia, a := range U.Atoms {
		offs[ia] = n
		n += a.Type.NumHubbardOrbitals()
	}
	return offs, n
}
