/*
 * functionals.go, part of gopot.
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

package xc

import "math"

//Slater is the local density exchange.
type Slater struct {
	threshold float64
}

func (S *Slater) Label() string { return "XC_LDA_X" }
func (S *Slater) IsGGA() bool { return false }
func (S *Slater) IsVdW() bool { return false }
func (S *Slater) SetDensThreshold(t float64) { S.threshold = t }
func (S *Slater) UpdateUnitCell([3][3]float64) {}

//slater returns the energy density per volume and its derivative for an unpolarized density.
func slater(rho float64) (e, v float64) {
	c := math.Cbrt(3 / math.Pi)
	r13 := math.Cbrt(rho)
	return -0.75 * c * rho * r13, -c * r13
}

func (S *Slater) Evaluate(in *Input, out *Output) error {
	if err := checkOutput(in, out, false); err != nil {
		return err
	}
	for i := 0; i < in.Len(); i++ {
		if !in.Polarized() {
			rho := in.Up[i]
			if rho < S.threshold {
				continue
			}
			e, v := slater(rho)
			out.VUp[i] += v
			out.Eps[i] += e / rho
			continue
		}
		up, dn := math.Max(in.Up[i], 0), math.Max(in.Dn[i], 0)
		rho := up + dn
		if rho < S.threshold {
			continue
		}
		//spin scaling: E[up,dn] = (E[2up] + E[2dn])/2
		eu, vu := slater(2 * up)
		ed, vd := slater(2 * dn)
		out.VUp[i] += vu
		out.VDn[i] += vd
		out.Eps[i] += 0.5 * (eu + ed) / rho
	}
	return nil
}

//PBEx is the exchange part of the PBE functional.
type PBEx struct {
	threshold float64
}

const (
	pbeKappa = 0.804
	pbeMu    = 0.2195149727645171
)

func (P *PBEx) Label() string { return "XC_GGA_X_PBE" }
func (P *PBEx) IsGGA() bool { return true }
func (P *PBEx) IsVdW() bool { return false }
func (P *PBEx) SetDensThreshold(t float64) { P.threshold = t }
func (P *PBEx) UpdateUnitCell([3][3]float64) {}

//pbex returns the energy density per volume of an unpolarized density, and its derivatives
//with respect to rho and to sigma.
func pbex(rho, sigma float64) (e, vrho, vsigma float64) {
	a := -0.75 * math.Cbrt(3/math.Pi)
	c := 1 / (4 * math.Pow(3*math.Pi*math.Pi, 2.0/3))
	r13 := math.Cbrt(rho)
	r43 := rho * r13
	p := c * sigma / (r43 * r43)
	d := 1 + pbeMu*p/pbeKappa
	F := 1 + pbeKappa - pbeKappa/d
	Fp := pbeMu / (d * d)
	e = a * r43 * F
	vrho = a * r13 * (4.0/3*F - 8.0/3*p*Fp)
	vsigma = a * c * Fp / r43
	return e, vrho, vsigma
}

func (P *PBEx) Evaluate(in *Input, out *Output) error {
	if err := checkOutput(in, out, true); err != nil {
		return err
	}
	for i := 0; i < in.Len(); i++ {
		if !in.Polarized() {
			rho := in.Up[i]
			if rho < P.threshold {
				continue
			}
			e, vr, vs := pbex(rho, in.SigmaUU[i])
			out.VUp[i] += vr
			out.VSigmaUU[i] += vs
			out.Eps[i] += e / rho
			continue
		}
		up, dn := math.Max(in.Up[i], 0), math.Max(in.Dn[i], 0)
		rho := up + dn
		if rho < P.threshold {
			continue
		}
		e := 0.0
		if 2*up >= P.threshold {
			eu, vu, su := pbex(2*up, 4*in.SigmaUU[i])
			e += 0.5 * eu
			out.VUp[i] += vu
			out.VSigmaUU[i] += 2 * su
		}
		if 2*dn >= P.threshold {
			ed, vd, sd := pbex(2*dn, 4*in.SigmaDD[i])
			e += 0.5 * ed
			out.VDn[i] += vd
			out.VSigmaDD[i] += 2 * sd
		}
		out.Eps[i] += e / rho
	}
	return nil
}
