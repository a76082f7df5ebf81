/*
 * relativity.go, part of gopot.
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

import "github.com/rmera/gopot/field"

//speedOfLight in atomic units.
const speedOfLight = 137.035999084

//relBuffers tells which plane-wave buffers a treatment of relativity needs.
type relBuffers struct {
	veff, rmInv, rm2Inv bool
}

func buffersFor(r Relativity) relBuffers {
	switch r {
	case IORA:
		return relBuffers{veff: true, rmInv: true, rm2Inv: true}
	case ZORA:
		return relBuffers{veff: true, rmInv: true}
	default:
		return relBuffers{veff: true}
	}
}

//generatePWCoeffs fills the plane-wave buffers of the augmented basis, on all the G vectors:
//the potential, and, as needed, alpha^2/2 / M and 1/M^2, with M = 1 - alpha^2/2 V.
func (p *Potential) generatePWCoeffs() {
	if p.veff.Stale()&field.RG != 0 {
		p.veff.FFTTransform(+1)
	}
	rg := p.veff.RG()
	box := make([]complex128, p.fft.Size())
	sqAlphaHalf := 0.5 / (speedOfLight * speedOfLight)
	norm := complex(1/float64(len(box)), 0)
	transform := func(f func(v float64) float64, dst []complex128) {
		for i, v := range rg {
			box[i] = complex(f(v), 0)
		}
		p.fft.Transform(box, -1)
		for ig := range dst {
			dst[ig] = box[p.gv.FFTIndex(ig)] * norm
		}
	}
	transform(func(v float64) float64 { return v }, p.veffPW)
	if p.rmInvPW != nil {
		transform(func(v float64) float64 { return sqAlphaHalf / (1 - sqAlphaHalf*v) }, p.rmInvPW)
	}
	if p.rm2InvPW != nil {
		transform(func(v float64) float64 {
			m := 1 - sqAlphaHalf*v
			return 1 / (m * m)
		}, p.rm2InvPW)
	}
}
