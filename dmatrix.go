/*
 * dmatrix.go, part of gopot.
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
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

//generateDMatrix computes the screened non-local coefficients of every atom with augmentation
//charge, D_ij = Re sum_G V*(G) Q_ij(G) exp(-iG.tau), for the potential and each component of
//the magnetic field. The bare coefficients of the type are added to the scalar part.
func (p *Potential) generateDMatrix() {
	nmag := p.o.NumMagDims
	v := make([][]complex128, nmag+1)
	v[0] = p.veff.PW()
	for j := 0; j < nmag; j++ {
		v[j+1] = p.beff[j].PW()
	}
	off := p.gv.Offset()
	for ia, a := range p.uc.Atoms {
		t := a.Type
		nbf := t.MTBasisSize()
		if nbf == 0 {
			continue
		}
		d := p.dmtrx[ia]
		for _, m := range d {
			m.Zero()
		}
		if t.Aug != nil {
			nb2 := nbf * nbf
			buf := make([]float64, (nmag+1)*nb2)
			for ig := 0; ig < p.gv.Count(); ig++ {
				gc := p.gv.Cart(off + ig)
				ph := p.gv.Phase(off+ig, ia)
				for i := 0; i < nbf; i++ {
					for j := 0; j <= i; j++ {
						q := t.Aug.QG(i, j, gc) * ph
						for s := range v {
							buf[s*nb2+i*nbf+j] += real(cmplx.Conj(v[s][ig]) * q)
						}
					}
				}
			}
			p.comm.AllReduce(buf)
			for s, m := range d {
				for i := 0; i < nbf; i++ {
					for j := 0; j <= i; j++ {
						m.Set(i, j, buf[s*nb2+i*nbf+j])
						m.Set(j, i, buf[s*nb2+i*nbf+j])
					}
				}
			}
		}
		if t.DIon != nil {
			d[0].Add(d[0], t.DIon)
		}
	}
	if p.o.Verbosity >= 3 && p.comm.Rank() == 0 {
		for ia, d := range p.dmtrx {
			if p.uc.Atoms[ia].Type.MTBasisSize() == 0 {
				continue
			}
			p.log.Debug("D matrix", "atom", ia, "D", mat.Formatted(d[0], mat.Squeeze()))
		}
	}
}
