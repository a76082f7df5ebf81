/*
 * ylm.go, part of gopot.
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

const (
	//FourPi is 4*pi.
	FourPi = 4 * math.Pi
	//Y00 is the l=0 spherical harmonic, 1/sqrt(4*pi).
	Y00 = 0.28209479177387814
)

//Lmmax returns the number of (l,m) pairs with l <= lmax.
func Lmmax(lmax int) int {
	if lmax < 0 {
		return 0
	}
	return (lmax + 1) * (lmax + 1)
}

//Lmax returns the maximum l for a given number of (l,m) pairs.
//It panics if lmmax is not a perfect square.
func Lmax(lmmax int) int {
	l := int(math.Sqrt(float64(lmmax))+0.5) - 1
	if Lmmax(l) != lmmax {
		panic("sf.Lmax: lmmax is not a perfect square")
	}
	return l
}

//LM returns the composite index of (l,m).
func LM(l, m int) int {
	return l*l + l + m
}

//LByLm returns a slice with the l of each composite lm index up to lmax.
func LByLm(lmax int) []int {
	ret := make([]int, Lmmax(lmax))
	for l := 0; l <= lmax; l++ {
		for m := -l; m <= l; m++ {
			ret[LM(l, m)] = l
		}
	}
	return ret
}

//RealYlm computes the real spherical harmonics up to lmax at the direction
//given by the polar angle theta and the azimuth phi. The result is put in dst,
//which is allocated if it is too short, and returned.
func RealYlm(lmax int, theta, phi float64, dst []float64) []float64 {
	lmmax := Lmmax(lmax)
	if len(dst) < lmmax {
		dst = make([]float64, lmmax)
	}
	x := math.Cos(theta)
	s := math.Sin(theta)
	//pmm holds the normalized associated Legendre function for l=m
	pmm := 1 / math.Sqrt(FourPi)
	for m := 0; m <= lmax; m++ {
		if m > 0 {
			pmm *= -math.Sqrt(float64(2*m+1)/float64(2*m)) * s
		}
		c, sn := 1.0, 0.0
		if m > 0 {
			c = math.Sqrt2 * math.Cos(float64(m)*phi)
			sn = math.Sqrt2 * math.Sin(float64(m)*phi)
		}
		put := func(l int, p float64) {
			if m == 0 {
				dst[LM(l, 0)] = p
				return
			}
			dst[LM(l, m)] = p * c
			dst[LM(l, -m)] = p * sn
		}
		put(m, pmm)
		if m == lmax {
			break
		}
		p1 := math.Sqrt(float64(2*m+3)) * x * pmm
		put(m+1, p1)
		p2 := pmm
		for l := m + 2; l <= lmax; l++ {
			fl := float64(l)
			fm := float64(m)
			a := math.Sqrt((4*fl*fl - 1) / (fl*fl - fm*fm))
			b := math.Sqrt(((fl-1)*(fl-1) - fm*fm) / (4*(fl-1)*(fl-1) - 1))
			p := a * (x*p1 - b*p2)
			put(l, p)
			p2 = p1
			p1 = p
		}
	}
	return dst
}

//RealYlmCart is like RealYlm but takes a cartesian vector. For the zero vector
//only the l=0 harmonic is set, all the others are zero.
func RealYlmCart(lmax int, v [3]float64, dst []float64) []float64 {
	lmmax := Lmmax(lmax)
	if len(dst) < lmmax {
		dst = make([]float64, lmmax)
	}
	r := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if r < 1e-12 {
		for i := range dst[:lmmax] {
			dst[i] = 0
		}
		dst[0] = Y00
		return dst
	}
	theta := math.Acos(math.Max(-1, math.Min(1, v[2]/r)))
	phi := math.Atan2(v[1], v[0])
	return RealYlm(lmax, theta, phi, dst)
}

//ZIL returns i^l.
func ZIL(l int) complex128 {
	switch l % 4 {
	case 0:
		return 1
	case 1:
		return complex(0, 1)
	case 2:
		return -1
	}
	return complex(0, -1)
}
