/*
 * local.go, part of gopot.
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
	"math"
	"math/cmplx"
)

//zval returns the ionic charge of the atom ia: the valence charge of its type,
//or the nuclear charge if no valence charge is set.
func (p *Potential) zval(ia int) float64 {
	t := p.uc.Atoms[ia].Type
	if t.Zv > 0 {
		return t.Zv
	}
	return float64(t.Zn)
}

//generateLocalPotential builds the local ionic potential from the form factors of the types,
//V(G) = 1/Omega sum_a f_a(|G|) exp(-iG.tau_a).
func (p *Potential) generateLocalPotential() {
	pw := p.local.MutPW()
	off := p.gv.Offset()
	omega := p.uc.Omega()
	ff := make([]float64, len(p.uc.Types))
	for ig := range pw {
		g := p.gv.Length(off + ig)
		for it, t := range p.uc.Types {
			ff[it] = 0
			if t.LocalFormFactor != nil {
				ff[it] = t.LocalFormFactor(g)
			}
		}
		var s complex128
		for ia := range p.uc.Atoms {
			s += complex(ff[p.typeIndex(ia)], 0) * p.gv.Phase(off+ig, ia)
		}
		pw[ig] = s / complex(omega, 0)
	}
	p.local.FFTTransform(+1)
}

//ewaldEnergy returns the electrostatic energy of the ions, in a compensating background,
//by the Ewald summation.
func (p *Potential) ewaldEnergy() float64 {
	omega := p.uc.Omega()
	gmax := p.gv.Gmax()
	alpha := gmax * gmax / 100
	natoms := p.uc.NumAtoms()
	z := make([]float64, natoms)
	ztot, z2 := 0.0, 0.0
	for ia := range z {
		z[ia] = p.zval(ia)
		ztot += z[ia]
		z2 += z[ia] * z[ia]
	}

	//reciprocal space, over the local G vectors.
	off := p.gv.Offset()
	rec := []float64{0}
	for ig := 0; ig < p.gv.Count(); ig++ {
		g := p.gv.Length(off + ig)
		if g < gZero {
			continue
		}
		var s complex128
		for ia := range z {
			s += complex(z[ia], 0) * cmplx.Conj(p.gv.Phase(off+ig, ia))
		}
		a := cmplx.Abs(s)
		rec[0] += a * a * math.Exp(-g*g/(4*alpha)) / (g * g)
	}
	p.comm.AllReduce(rec)
	e := 2 * math.Pi / omega * rec[0]

	//real space, replicated on all ranks.
	sa := math.Sqrt(alpha)
	rcut := 6 / sa
	lat := p.uc.Lattice()
	recip := p.uc.Reciprocal()
	var nmax [3]int
	for i := range nmax {
		b := recip[i]
		nmax[i] = int(math.Ceil(rcut*math.Sqrt(b[0]*b[0]+b[1]*b[1]+b[2]*b[2])/(2*math.Pi))) + 1
	}
	ereal := 0.0
	for ia, a := range p.uc.Atoms {
		ra := p.uc.Cart(a.Position)
		for ja, b := range p.uc.Atoms {
			rb := p.uc.Cart(b.Position)
			for n0 := -nmax[0]; n0 <= nmax[0]; n0++ {
				for n1 := -nmax[1]; n1 <= nmax[1]; n1++ {
					for n2 := -nmax[2]; n2 <= nmax[2]; n2++ {
						d := 0.0
						for x := 0; x < 3; x++ {
							t := ra[x] - rb[x] + float64(n0)*lat[0][x] + float64(n1)*lat[1][x] + float64(n2)*lat[2][x]
							d += t * t
						}
						d = math.Sqrt(d)
						if d < 1e-8 || d > rcut {
							continue
						}
						ereal += z[ia] * z[ja] * math.Erfc(sa*d) / d
					}
				}
			}
		}
	}
	e += 0.5 * ereal
	e -= math.Sqrt(alpha/math.Pi) * z2
	e -= math.Pi * ztot * ztot / (2 * omega * alpha)
	return e
}
