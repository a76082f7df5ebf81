/*
 * sht.go, part of gopot.
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

/*Package sht implements the spherical harmonic transform between real spherical harmonic coefficients and
values on an angular grid. The grid is a product of Gauss-Legendre points in cos(theta) and uniform
points in phi, so the forward transform is exact for band-limited functions.

A Transform is immutable after construction, and can be used concurrently.*/
package sht

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/rmera/gopot/sf"
	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"
)

//Coverage selects the density of the angular grid.
type Coverage int

const (
	//CoverageMinimal uses the smallest grid that represents functions up to lmax exactly.
	CoverageMinimal Coverage = iota
	//CoverageDense doubles the grid in each direction, for products of two functions up to lmax.
	CoverageDense
)

//Tolerance is the largest deviation accepted by Check.
const Tolerance = 1e-10

//Transform holds the angular grid and the harmonics on it.
type Transform struct {
	lmax   int
	lmmax  int
	points [][3]float64 //unit vectors
	theta  []float64
	phi    []float64
	weight []float64
	//ylmBw is npts x lmmax: backward transform.
	ylmBw *mat.Dense
	//ylmFw is lmmax x npts: forward transform, weights included.
	ylmFw *mat.Dense
}

//New builds a transform up to lmax on a grid of the given coverage.
func New(lmax int, coverage Coverage) (*Transform, error) {
	if lmax < 0 {
		return nil, Error{fmt.Sprintf("invalid lmax %d", lmax), []string{"sht.New"}, true}
	}
	var nt, np int
	switch coverage {
	case CoverageMinimal:
		nt, np = lmax+1, 2*lmax+1
	case CoverageDense:
		nt, np = 2*lmax+1, 4*lmax+1
	default:
		return nil, Error{fmt.Sprintf("unknown coverage %d", coverage), []string{"sht.New"}, true}
	}
	x := make([]float64, nt)
	w := make([]float64, nt)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	T := &Transform{lmax: lmax, lmmax: sf.Lmmax(lmax)}
	npts := nt * np
	T.points = make([][3]float64, 0, npts)
	T.ylmBw = mat.NewDense(npts, T.lmmax, nil)
	T.ylmFw = mat.NewDense(T.lmmax, npts, nil)
	ylm := make([]float64, T.lmmax)
	for it := 0; it < nt; it++ {
		theta := math.Acos(x[it])
		for ip := 0; ip < np; ip++ {
			phi := 2 * math.Pi * float64(ip) / float64(np)
			wt := w[it] * 2 * math.Pi / float64(np)
			k := len(T.points)
			st := math.Sin(theta)
			T.points = append(T.points, [3]float64{st * math.Cos(phi), st * math.Sin(phi), x[it]})
			T.theta = append(T.theta, theta)
			T.phi = append(T.phi, phi)
			T.weight = append(T.weight, wt)
			ylm = sf.RealYlm(lmax, theta, phi, ylm)
			for lm := 0; lm < T.lmmax; lm++ {
				T.ylmBw.Set(k, lm, ylm[lm])
				T.ylmFw.Set(lm, k, ylm[lm]*wt)
			}
		}
	}
	return T, nil
}

//Lmax returns the maximum angular momentum of the transform.
func (T *Transform) Lmax() int { return T.lmax }

//Lmmax returns the number of lm channels.
func (T *Transform) Lmmax() int { return T.lmmax }

//NumPoints returns the number of points of the angular grid.
func (T *Transform) NumPoints() int { return len(T.points) }

//Point returns the unit vector of the i-th grid point.
func (T *Transform) Point(i int) [3]float64 { return T.points[i] }

//Weight returns the quadrature weight of the i-th grid point. The weights add up to 4 pi.
func (T *Transform) Weight(i int) float64 { return T.weight[i] }

func (T *Transform) checkLmmax(lmmax int, caller string) {
	if lmmax < 1 || lmmax > T.lmmax {
		panic(Error{fmt.Sprintf("lmmax %d out of range (max %d)", lmmax, T.lmmax), []string{caller}, true})
	}
}

//Backward computes the values on the grid of the function with the first lmmax coefficients given.
//dst is allocated if needed, and returned.
func (T *Transform) Backward(coeffs []float64, lmmax int, dst []float64) []float64 {
	T.checkLmmax(lmmax, "Transform.Backward")
	npts := len(T.points)
	if len(dst) < npts {
		dst = make([]float64, npts)
	}
	for k := 0; k < npts; k++ {
		row := T.ylmBw.RawRowView(k)
		s := 0.0
		for lm := 0; lm < lmmax; lm++ {
			s += row[lm] * coeffs[lm]
		}
		dst[k] = s
	}
	return dst
}

//Forward computes the first lmmax coefficients of the function with the values given on the grid.
//dst is allocated if needed, and returned.
func (T *Transform) Forward(values []float64, lmmax int, dst []float64) []float64 {
	T.checkLmmax(lmmax, "Transform.Forward")
	if len(dst) < lmmax {
		dst = make([]float64, lmmax)
	}
	for lm := 0; lm < lmmax; lm++ {
		row := T.ylmFw.RawRowView(lm)
		s := 0.0
		for k, v := range values[:len(T.points)] {
			s += row[k] * v
		}
		dst[lm] = s
	}
	return dst
}

//BackwardDense transforms a block of coefficients, lmmax rows by n radial points, to the
//angular grid. The result has one row per grid point and one column per radial point.
func (T *Transform) BackwardDense(coeffs mat.Matrix) *mat.Dense {
	lmmax, _ := coeffs.Dims()
	T.checkLmmax(lmmax, "Transform.BackwardDense")
	var ret mat.Dense
	ret.Mul(T.ylmBw.Slice(0, len(T.points), 0, lmmax), coeffs)
	return &ret
}

//ForwardDense transforms a block of values, one row per grid point, to lmmax rows of coefficients.
func (T *Transform) ForwardDense(values mat.Matrix, lmmax int) *mat.Dense {
	T.checkLmmax(lmmax, "Transform.ForwardDense")
	var ret mat.Dense
	ret.Mul(T.ylmFw.Slice(0, lmmax, 0, len(T.points)), values)
	return &ret
}

//Check transforms random coefficients to the grid and back, and returns an error
//if any channel deviates by more than Tolerance.
func (T *Transform) Check() error {
	rnd := rand.New(rand.NewSource(42))
	c := make([]float64, T.lmmax)
	for i := range c {
		c[i] = rnd.Float64()*2 - 1
	}
	v := T.Backward(c, T.lmmax, nil)
	c2 := T.Forward(v, T.lmmax, nil)
	lbylm := sf.LByLm(T.lmax)
	for lm := range c {
		if d := math.Abs(c[lm] - c2[lm]); d > Tolerance {
			return Error{fmt.Sprintf("backward-forward deviation %g at l=%d lm=%d", d, lbylm[lm], lm), []string{"Transform.Check"}, true}
		}
	}
	return nil
}
