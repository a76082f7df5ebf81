/*
 * atom.go, part of gopot.
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
	"github.com/rmera/gopot/radint"
	"gonum.org/v1/gonum/mat"
)

//Atom is one atom of the unit cell.
type Atom struct {
	ID       int
	Type     *AtomType
	Position [3]float64 //fractional coordinates
	class    *SymmetryClass
	veff     *mat.Dense
	beff     []*mat.Dense
	hrad     *radint.Table
	brad     []*radint.Table
}

//SymmetryClass returns the class of the atom.
func (A *Atom) SymmetryClass() *SymmetryClass { return A.class }

//SetNonsphericalPotential stores copies of the full lm expansion of the potential and of the
//magnetic field components inside the sphere of the atom.
func (A *Atom) SetNonsphericalPotential(veff *mat.Dense, beff []*mat.Dense) {
	A.veff = mat.DenseCopyOf(veff)
	A.beff = A.beff[:0]
	for _, b := range beff {
		A.beff = append(A.beff, mat.DenseCopyOf(b))
	}
}

//NonsphericalPotential returns the potential and the magnetic field last set.
//They must not be modified.
func (A *Atom) NonsphericalPotential() (*mat.Dense, []*mat.Dense) {
	return A.veff, A.beff
}

//SetRadialIntegrals hands the radial integral tables over to the atom.
func (A *Atom) SetRadialIntegrals(h *radint.Table, b []*radint.Table) {
	A.hrad = h
	A.brad = b
}

//HRadialIntegrals returns the radial integrals of the potential, or nil if they were never set.
func (A *Atom) HRadialIntegrals() *radint.Table { return A.hrad }

//BRadialIntegrals returns the radial integrals of the j-th magnetic component.
func (A *Atom) BRadialIntegrals(j int) *radint.Table {
	if j >= len(A.brad) {
		return nil
	}
	return A.brad[j]
}

//SymmetryClass groups atoms of one type that are equivalent by symmetry, and so share
//radial functions and the spherical part of the potential.
type SymmetryClass struct {
	ID    int
	Type  *AtomType
	Atoms []int
	//RadialFunctions has one column per radial function of the type, one row per grid point.
	RadialFunctions *mat.Dense
	//HSpherical contains the matrix elements of the spherical Hamiltonian between radial functions.
	HSpherical *mat.Dense
	spherical  []float64
}

//SetSphericalPotential stores a copy of the spherical potential of the class.
func (S *SymmetryClass) SetSphericalPotential(v []float64) {
	S.spherical = append(S.spherical[:0], v...)
}

//SphericalPotential returns the spherical potential of the class.
func (S *SymmetryClass) SphericalPotential() []float64 { return S.spherical }
