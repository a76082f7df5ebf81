/*
 * sbessel.go, part of gopot.
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

package sf

import "math"

//SphericalBesselJ computes the spherical Bessel functions j_0(x)...j_lmax(x)
//for x >= 0, and puts them in dst (allocated if needed), which is returned.
//Upward recurrence is used when lmax <= x, where it is stable, and Miller's
//downward recurrence, normalized with j_0 or j_1, otherwise.
func SphericalBesselJ(lmax int, x float64, dst []float64) []float64 {
	if len(dst) < lmax+1 {
		dst = make([]float64, lmax+1)
	}
	dst = dst[:lmax+1]
	if x < 0 {
		panic("sf.SphericalBesselJ: negative argument")
	}
	if x < 1e-4 {
		//series, the first 3 terms are more than enough here.
		x2 := x * x
		pw := 1.0
		df := 1.0 //(2l+1)!!
		for l := 0; l <= lmax; l++ {
			df *= float64(2*l + 1)
			fl := float64(l)
			dst[l] = pw / df * (1 - x2/(2*(2*fl+3)) + x2*x2/(8*(2*fl+3)*(2*fl+5)))
			pw *= x
		}
		return dst
	}
	sx, cx := math.Sin(x), math.Cos(x)
	j0 := sx / x
	j1 := sx/(x*x) - cx/x
	dst[0] = j0
	if lmax == 0 {
		return dst
	}
	dst[1] = j1
	if float64(lmax) <= x {
		for l := 1; l < lmax; l++ {
			dst[l+1] = float64(2*l+1)/x*dst[l] - dst[l-1]
		}
		return dst
	}
	//downward
	lstart := lmax
	if int(x) > lstart {
		lstart = int(x)
	}
	lstart += 20 + int(math.Sqrt(float64(40*(lstart+1))))
	const big = 1e200
	jp1 := 0.0
	jc := 1e-200
	for l := lstart; l > 0; l-- {
		jm1 := float64(2*l+1)/x*jc - jp1
		jp1 = jc
		jc = jm1
		if l-1 <= lmax {
			dst[l-1] = jc
		}
		if math.Abs(jc) > big {
			jc /= big
			jp1 /= big
			for k := l - 1; k <= lmax; k++ {
				dst[k] /= big
			}
		}
	}
	var scale float64
	if math.Abs(j0) > math.Abs(j1) {
		scale = j0 / dst[0]
	} else {
		scale = j1 / dst[1]
	}
	for l := range dst {
		dst[l] *= scale
	}
	return dst
}
