/*
 * grid.go, part of gopot.
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

/*Package radial implements radial grids inside atomic spheres, and cubic splines defined on them,
with the integrals needed to build matrix elements.*/
package radial

import (
	"fmt"
	"math"
)

//Grid is a strictly increasing set of radial points. The last point is the sphere radius.
type Grid struct {
	r []float64
}

//NewExponentialGrid returns a grid of n points r_i = r0*(R/r0)^(i/(n-1)).
func NewExponentialGrid(n int, r0, R float64) *Grid {
	if n < 2 || r0 <= 0 || R <= r0 {
		panic(fmt.Sprintf("radial.NewExponentialGrid: invalid parameters n=%d r0=%v R=%v", n, r0, R))
	}
	g := &Grid{r: make([]float64, n)}
	for i := range g.r {
		g.r[i] = r0 * math.Pow(R/r0, float64(i)/float64(n-1))
	}
	g.r[n-1] = R
	return g
}

//NewLinearGrid returns a grid of n evenly spaced points between r0 and R.
func NewLinearGrid(n int, r0, R float64) *Grid {
	if n < 2 || R <= r0 {
		panic(fmt.Sprintf("radial.NewLinearGrid: invalid parameters n=%d r0=%v R=%v", n, r0, R))
	}
	g := &Grid{r: make([]float64, n)}
	for i := range g.r {
		g.r[i] = r0 + (R-r0)*float64(i)/float64(n-1)
	}
	return g
}

//NewGrid builds a grid from the given points, which are copied. It returns an error
//if the points are not strictly increasing.
func NewGrid(points []float64) (*Grid, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("radial.NewGrid: at least 2 points needed, got %d", len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i] <= points[i-1] {
			return nil, fmt.Errorf("radial.NewGrid: points not strictly increasing at %d", i)
		}
	}
	return &Grid{r: append([]float64(nil), points...)}, nil
}

//Len returns the number of points.
func (G *Grid) Len() int { return len(G.r) }

//At returns the i-th point.
func (G *Grid) At(i int) float64 { return G.r[i] }

//First returns the first point.
func (G *Grid) First() float64 { return G.r[0] }

//Last returns the last point, i.e. the sphere radius.
func (G *Grid) Last() float64 { return G.r[len(G.r)-1] }

//Same reports whether G and H have the same points.
func (G *Grid) Same(H *Grid) bool {
	if G == H {
		return true
	}
	if G == nil || H == nil || len(G.r) != len(H.r) {
		return false
	}
	for i, r := range G.r {
		if H.r[i] != r {
			return false
		}
	}
	return true
}

//Points returns the underlying points. They must not be modified.
func (G *Grid) Points() []float64 { return G.r }
