/*
 * interfaces.go, part of gopot.
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

package pot

import (
	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/field"
	"github.com/rmera/gopot/hubbard"
)

//Density is the electron density a potential is generated from. The fields must be built on
//the same reciprocal vectors and FFT box as the potential (see Potential.NewDensity).
//It is only read.
type Density interface {
	//Rho returns the charge density. Its PW and RG views must be fresh, and, in the augmented
	//mode, its MT view too.
	Rho() *field.Field
	//Magnetization returns the component i (0: z, 1: x, 2: y) of the magnetization density.
	Magnetization(i int) *field.Field
	//RhoCore returns the frozen-core density on the FFT box, or nil.
	RhoCore() []float64
	//OccupationMatrix returns the occupations of the Hubbard orbitals, or nil.
	OccupationMatrix() *hubbard.Matrix
}

//Source populates the effective potential and magnetic field of p, all views included.
//The default Source solves the Poisson equation and adds the exchange-correlation
//potential. A Source set with WithSource replaces it.
type Source interface {
	Populate(p *Potential, d Density) error
}

//Symmetrizer averages the potential and the magnetic field over the point group of the crystal.
//It works on the PW views.
type Symmetrizer interface {
	Symmetrize(veff *field.Field, beff []*field.Field) error
}

//HubbardSolver generates the Hubbard potential from the occupation matrices, and returns the
//correction energy. hubbard.Dudarev is one.
type HubbardSolver interface {
	Generate(uc *cell.UnitCell, occ, pot *hubbard.Matrix) (float64, error)
}

//OnSiteCorrection adds on-site (PAW-like) contributions to the D matrices of p,
//after they have been generated from the potential.
type OnSiteCorrection interface {
	Generate(p *Potential, d Density) error
}

//FixedDensity is a Density given by fields set by the caller.
type FixedDensity struct {
	rho  *field.Field
	mag  [3]*field.Field
	core []float64
	occ  *hubbard.Matrix
}

//NewDensity returns a zero density with the layout expected by p.
func (p *Potential) NewDensity() *FixedDensity {
	lmmax := 0
	if p.o.Mode == Augmented {
		lmmax = p.lmmaxRho
	}
	d := &FixedDensity{rho: field.New(p.gv, p.fft, p.comm, lmmax)}
	for j := 0; j < p.o.NumMagDims; j++ {
		d.mag[j] = field.New(p.gv, p.fft, p.comm, lmmax)
	}
	return d
}

func (d *FixedDensity) Rho() *field.Field { return d.rho }
func (d *FixedDensity) Magnetization(i int) *field.Field { return d.mag[i] }
func (d *FixedDensity) RhoCore() []float64 { return d.core }
func (d *FixedDensity) OccupationMatrix() *hubbard.Matrix { return d.occ }

//SetRhoCore sets the frozen-core density.
func (d *FixedDensity) SetRhoCore(core []float64) { d.core = core }

//SetOccupationMatrix sets the occupation matrices of the Hubbard orbitals.
func (d *FixedDensity) SetOccupationMatrix(occ *hubbard.Matrix) { d.occ = occ }
