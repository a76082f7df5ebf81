/*
 * spline.go, part of gopot.
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

package radial

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/interp"
)

//number of Gauss-Legendre points per interval. 5 points integrate exactly
//polynomials up to degree 9, which covers a product of two cubics times r^2 or r^3.
const nGauss = 5

var gaussX, gaussW = func() ([]float64, []float64) {
	x := make([]float64, nGauss)
	w := make([]float64, nGauss)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	return x, w
}()

//Spline is a natural cubic spline on a radial grid. The values are set by the caller,
//then Interpolate must be called before the spline can be evaluated or integrated.
//A Spline is not safe for concurrent modification.
type Spline struct {
	grid   *Grid
	values []float64
	fit    interp.NaturalCubic
	ready  bool
}

//NewSpline returns a zero spline on the grid g.
func NewSpline(g *Grid) *Spline {
	return &Spline{grid: g, values: make([]float64, g.Len())}
}

//NewSplineFrom returns a spline through the given values, already interpolated.
func NewSplineFrom(g *Grid, values []float64) (*Spline, error) {
	if len(values) != g.Len() {
		return nil, fmt.Errorf("radial.NewSplineFrom: %d values for a grid of %d points", len(values), g.Len())
	}
	s := NewSpline(g)
	copy(s.values, values)
	return s, s.Interpolate()
}

//Grid returns the grid of the spline.
func (S *Spline) Grid() *Grid { return S.grid }

//Values returns the values at the grid points. Modifying them invalidates
//the interpolation until Interpolate is called again.
func (S *Spline) Values() []float64 {
	S.ready = false
	return S.values
}

//Set sets the value at the i-th grid point.
func (S *Spline) Set(i int, v float64) {
	S.ready = false
	S.values[i] = v
}

//Interpolate computes the spline coefficients.
func (S *Spline) Interpolate() error {
	if err := S.fit.Fit(S.grid.r, S.values); err != nil {
		return fmt.Errorf("radial.Spline.Interpolate: %w", err)
	}
	S.ready = true
	return nil
}

//At evaluates the spline at r. Outside the grid, the spline is extrapolated as a constant.
func (S *Spline) At(r float64) float64 {
	S.check()
	return S.fit.Predict(r)
}

func (S *Spline) check() {
	if !S.ready {
		panic("radial.Spline: used before Interpolate")
	}
}

//Integrate returns the integral of S*other*r^m over the grid.
func (S *Spline) Integrate(other *Spline, m int) float64 {
	S.check()
	other.check()
	if !S.grid.Same(other.grid) {
		panic("radial.Spline.Integrate: splines on different grids")
	}
	r := S.grid.r
	sum := 0.0
	for i := 0; i < len(r)-1; i++ {
		a, h := r[i], r[i+1]-r[i]
		for k, x := range gaussX {
			x = a + h*x
			sum += h * gaussW[k] * S.fit.Predict(x) * other.fit.Predict(x) * pow(x, m)
		}
	}
	return sum
}

//Integral returns the integral of S*r^m over the grid.
func (S *Spline) Integral(m int) float64 {
	c := S.Cumulative(m, nil)
	return c[len(c)-1]
}

//Cumulative puts in dst (allocated if needed) the running integral of S*r^m from the
//first grid point to each grid point, and returns it.
func (S *Spline) Cumulative(m int, dst []float64) []float64 {
	S.check()
	r := S.grid.r
	if len(dst) < len(r) {
		dst = make([]float64, len(r))
	}
	dst[0] = 0
	for i := 0; i < len(r)-1; i++ {
		a, h := r[i], r[i+1]-r[i]
		s := 0.0
		for k, x := range gaussX {
			x = a + h*x
			s += h * gaussW[k] * S.fit.Predict(x) * pow(x, m)
		}
		dst[i+1] = dst[i] + s
	}
	return dst
}

func pow(x float64, m int) float64 {
	switch m {
	case 0:
		return 1
	case 1:
		return x
	case 2:
		return x * x
	case 3:
		return x * x * x
	}
	return math.Pow(x, float64(m))
}
