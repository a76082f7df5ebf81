/*
 * hubbard.go, part of gopot.
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

/*Package hubbard contains the on-site (Hubbard) correction: the per-atom occupation and potential
matrices, and the simplified rotationally-invariant solver of Dudarev et al.*/
package hubbard

import (
	"fmt"

	"github.com/rmera/gopot/cell"
	"gonum.org/v1/gonum/mat"
)

//NumComponents returns the number of spin components of the matrices for the given
//number of magnetic dimensions: 1 (total), 2 (up-up, down-down) or 4 (up-up, down-down, up-down, down-up).
func NumComponents(numMagDims int) int {
	switch numMagDims {
	case 0:
		return 1
	case 1:
		return 2
	}
	return 4
}

//Matrix holds one square complex matrix per spin component for every atom of the cell with a
//Hubbard channel. The matrices have 2l+1 rows, l being the angular momentum of the channel.
type Matrix struct {
	nmag  int
	local [][]*mat.CDense
}

//NewMatrix returns zero matrices for the atoms of uc.
func NewMatrix(uc *cell.UnitCell, numMagDims int) *Matrix {
	M := &Matrix{nmag: numMagDims, local: make([][]*mat.CDense, uc.NumAtoms())}
	nc := NumComponents(numMagDims)
	for ia, a := range uc.Atoms {
		nb := a.Type.NumHubbardOrbitals()
		if nb == 0 {
			continue
		}
		M.local[ia] = make([]*mat.CDense, nc)
		for s := range M.local[ia] {
			M.local[ia][s] = mat.NewCDense(nb, nb, nil)
		}
	}
	return M
}

//NumMagDims returns the number of magnetic dimensions the matrix was built for.
func (M *Matrix) NumMagDims() int { return M.nmag }

//NumComponents returns the number of spin components.
func (M *Matrix) NumComponents() int { return NumComponents(M.nmag) }

//NumAtoms returns the number of atoms.
func (M *Matrix) NumAtoms() int { return len(M.local) }

//Local returns the components for atom ia, or nil if the atom has no Hubbard channel.
func (M *Matrix) Local(ia int) []*mat.CDense { return M.local[ia] }

//Zero sets all the matrices to zero.
func (M *Matrix) Zero() {
	for _, l := range M.local {
		for _, m := range l {
			m.Zero()
		}
	}
}

//Dudarev is the simplified on-site correction with Ueff = U - J.
type Dudarev struct{}

//Generate fills pot with the Hubbard potential corresponding to the occupations occ, and returns the
//correction energy. Both matrices must have the same layout.
func (Dudarev) Generate(uc *cell.UnitCell, occ, pot *Matrix) (float64, error) {
	if occ.nmag != pot.nmag || occ.NumAtoms() != uc.NumAtoms() || pot.NumAtoms() != uc.NumAtoms() {
		return 0, fmt.Errorf("hubbard: occupation and potential matrices do not match the cell")
	}
	energy := 0.0
	for ia, a := range uc.Atoms {
		n := occ.Local(ia)
		v := pot.Local(ia)
		if n == nil || v == nil {
			continue
		}
		ueff := a.Type.Hubbard.U - a.Type.Hubbard.J
		nb, _ := n[0].Dims()
		//occupations per spin: the total is split evenly when there is no magnetism.
		spinScale := 1.0
		if occ.nmag == 0 {
			spinScale = 0.5
		}
		trn, trnn := 0.0, 0.0
		for s := 0; s < len(n); s++ {
			diag := s < 2
			for i := 0; i < nb; i++ {
				for j := 0; j < nb; j++ {
					x := complex(-ueff*spinScale, 0) * n[s].At(i, j)
					if diag && i == j {
						x += complex(0.5*ueff, 0)
					}
					v[s].Set(i, j, x)
				}
			}
		}
		for s := 0; s < len(n) && s < 2; s++ {
			for i := 0; i < nb; i++ {
				trn += spinScale * real(n[s].At(i, i))
				for j := 0; j < nb; j++ {
					trnn += spinScale * spinScale * real(n[s].At(i, j)*n[s].At(j, i))
				}
			}
		}
		if len(n) == 4 {
			for i := 0; i < nb; i++ {
				for j := 0; j < nb; j++ {
					trnn += real(n[2].At(i, j)*n[3].At(j, i)) + real(n[3].At(i, j)*n[2].At(j, i))
				}
			}
		}
		nspin := 1.0
		if occ.nmag == 0 {
			//both spins contribute the same
			nspin = 2
		}
		energy += 0.5 * ueff * nspin * (trn - trnn)
	}
	return energy, nil
}
