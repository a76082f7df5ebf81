/*
 * atomic.go, part of gopot.
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
	"github.com/rmera/gopot/radint"
	"github.com/rmera/gopot/sf"
	"gonum.org/v1/gonum/mat"
)

//UpdateAtomicPotential hands the potential inside the spheres over to the atoms: the spherical
//part to each symmetry class, taken from its first atom, and the full expansion, with the
//magnetic field, to each atom. The MT views must be synchronized (Generate does that).
func (p *Potential) UpdateAtomicPotential() error {
	if !p.veff.HasMT() {
		return Error{"no MT view in the pseudopotential mode", []string{"UpdateAtomicPotential"}, false}
	}
	for _, c := range p.uc.Classes {
		mt := p.veff.MT(c.Atoms[0])
		_, nr := mt.Dims()
		v := make([]float64, nr)
		for ir := range v {
			v[ir] = sf.Y00 * mt.At(0, ir)
		}
		c.SetSphericalPotential(v)
	}
	nmag := p.o.NumMagDims
	for ia, a := range p.uc.Atoms {
		beff := make([]*mat.Dense, nmag)
		for j := range beff {
			beff[j] = p.beff[j].MT(ia)
		}
		a.SetNonsphericalPotential(p.veff.MT(ia), beff)
	}
	return nil
}

//GenerateRadialIntegrals computes the radial integrals of the potential and the magnetic field of
//every atom with radial functions, and stores them in the atoms. It must be called by all the ranks,
//after UpdateAtomicPotential.
func (p *Potential) GenerateRadialIntegrals() error {
	for ia, a := range p.uc.Atoms {
		c := a.SymmetryClass()
		if c == nil || c.RadialFunctions == nil {
			continue
		}
		veff, beff := a.NonsphericalPotential()
		if veff == nil {
			return Error{"UpdateAtomicPotential was not called", []string{"GenerateRadialIntegrals"}, true}
		}
		in := radint.Input{
			Grid:            a.Type.Grid,
			RadialFunctions: c.RadialFunctions,
			L:               a.Type.RadialL(),
			HSpherical:      c.HSpherical,
			Veff:            veff,
			Beff:            beff,
		}
		res, err := radint.Generate(in, p.comm, p.o.Threads)
		if err != nil {
			p.log.Error("radial integrals failed", "atom", ia, "error", err)
			return errDecorate(err, "GenerateRadialIntegrals")
		}
		a.SetRadialIntegrals(res.H, res.B)
	}
	return nil
}
