/*
 * gamma.go, part of gopot.
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

//GammaFactorR returns Gamma(l+n+5/2)/Gamma(l+3/2)/R^l, the normalization of the
//pseudo-charge density of order n in a sphere of radius R.
//The ratio of Gammas is the product of (2l+3)/2, (2l+5)/2 ... (2l+2n+3)/2, which
//together with R^l overflows double precision for large l. The product is split in two:
//factors go into f1 until it reaches R^l, and into f2 afterwards, so the result
//is computed as (f1/R^l)*f2 with both terms of moderate size.
func GammaFactorR(l, n int, R float64) float64 {
	Rl := math.Pow(R, float64(l))
	f1, f2 := 1.0, 1.0
	for k := 2*l + 3; k <= 2*l+2*n+3; k += 2 {
		if f1 < Rl {
			f1 *= float64(k) / 2
		} else {
			f2 *= float64(k) / 2
		}
	}
	return (f1 / Rl) * f2
}

//DoubleFactorial returns n!! for n >= -1.
func DoubleFactorial(n int) float64 {
	r := 1.0
	for ; n > 1; n -= 2 {
		r *= float64(n)
	}
	return r
}
