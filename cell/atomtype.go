/*
 * atomtype.go, part of gopot.
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
	"fmt"
	"math"

	"github.com/rmera/gopot/radial"
	"gonum.org/v1/gonum/mat"
)

//RadialIndex identifies one radial function of an atom type: its angular momentum and
//its order among the functions with that angular momentum.
type RadialIndex struct {
	L     int
	Order int
}

//BasisIndex identifies one basis function (a radial function times a real spherical harmonic).
type BasisIndex struct {
	L, M  int
	Idxrf int //index of the radial function
	LM    int
}

//Augmentation gives the augmentation charges of an atom type, in the pseudopotential mode.
type Augmentation interface {
	//QG returns the Fourier integral, over all space, of the augmentation charge for the basis
	//functions xi1, xi2, at the reciprocal vector g, given in cartesian coordinates.
	QG(xi1, xi2 int, g [3]float64) complex128
	//Q0 returns the total augmentation charge for the basis functions xi1, xi2.
	Q0(xi1, xi2 int) float64
}

//GaussianAugmentation is an augmentation charge with a gaussian shape,
//Q_ij(r) = Q_ij (beta/pi)^(3/2) exp(-beta r^2).
type GaussianAugmentation struct {
	Q    *mat.Dense //nbf x nbf
	Beta float64
}

//QG returns Q_ij exp(-|g|^2/(4 beta)).
func (G GaussianAugmentation) QG(xi1, xi2 int, g [3]float64) complex128 {
	g2 := g[0]*g[0] + g[1]*g[1] + g[2]*g[2]
	return complex(G.Q.At(xi1, xi2)*math.Exp(-g2/(4*G.Beta)), 0)
}

//Q0 returns Q_ij.
func (G GaussianAugmentation) Q0(xi1, xi2 int) float64 {
	return G.Q.At(xi1, xi2)
}

//HubbardChannel is the orbital channel of an atom type carrying a Hubbard correction.
type HubbardChannel struct {
	L int
	U float64
	J float64
}

//AtomType contains the data shared by all the atoms of a species.
type AtomType struct {
	ID       int
	Label    string
	Zn       int     //nuclear charge
	Zv       float64 //valence charge, for the pseudopotential mode
	MTRadius float64
	Grid     *radial.Grid
	//IndexR lists the radial functions of the type (augmented basis, or beta projectors).
	IndexR []RadialIndex
	//LocalFormFactor returns the Fourier integral over all space of the local ionic
	//potential, as a function of |G|. Pseudopotential mode only.
	LocalFormFactor func(g float64) float64
	//Aug is nil for types without augmentation charge.
	Aug Augmentation
	//DIon contains the bare non-local coefficients, nbf x nbf. Can be nil.
	DIon    *mat.Dense
	Hubbard *HubbardChannel
	indexb  []BasisIndex
}

//init validates the type and builds the basis index.
func (T *AtomType) init() error {
	if T.Grid == nil {
		return Error{fmt.Sprintf("atom type %s has no radial grid", T.Label), []string{"AtomType.init"}, true}
	}
	if T.MTRadius <= 0 {
		T.MTRadius = T.Grid.Last()
	}
	if math.Abs(T.Grid.Last()-T.MTRadius) > 1e-10*T.MTRadius {
		return Error{fmt.Sprintf("atom type %s: the grid ends at %v, not at the sphere radius %v", T.Label, T.Grid.Last(), T.MTRadius), []string{"AtomType.init"}, true}
	}
	T.indexb = T.indexb[:0]
	for i, ri := range T.IndexR {
		for m := -ri.L; m <= ri.L; m++ {
			T.indexb = append(T.indexb, BasisIndex{L: ri.L, M: m, Idxrf: i, LM: ri.L*ri.L + ri.L + m})
		}
	}
	nbf := len(T.indexb)
	if T.DIon != nil {
		if r, c := T.DIon.Dims(); r != nbf || c != nbf {
			return Error{fmt.Sprintf("atom type %s: DIon is %dx%d, expected %dx%d", T.Label, r, c, nbf, nbf), []string{"AtomType.init"}, true}
		}
	}
	return nil
}

//MTBasisSize returns the number of basis functions of the type.
func (T *AtomType) MTBasisSize() int { return len(T.indexb) }

//IndexB returns the basis functions of the type.
func (T *AtomType) IndexB() []BasisIndex { return T.indexb }

//NumRadialFunctions returns the number of radial functions.
func (T *AtomType) NumRadialFunctions() int { return len(T.IndexR) }

//NumMTPoints returns the number of points of the radial grid.
func (T *AtomType) NumMTPoints() int { return T.Grid.Len() }

//LmaxBasis returns the largest angular momentum among the radial functions, or -1 if there are none.
func (T *AtomType) LmaxBasis() int {
	l := -1
	for _, ri := range T.IndexR {
		if ri.L > l {
			l = ri.L
		}
	}
	return l
}

//RadialL returns the angular momenta of the radial functions.
func (T *AtomType) RadialL() []int {
	ret := make([]int, len(T.IndexR))
	for i, ri := range T.IndexR {
		ret[i] = ri.L
	}
	return ret
}

//NumHubbardOrbitals returns 2l+1 for types with a Hubbard channel and 0 otherwise.
func (T *AtomType) NumHubbardOrbitals() int {
	if T.Hubbard == nil {
		return 0
	}
	return 2*T.Hubbard.L + 1
}
