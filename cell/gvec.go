/*
 * gvec.go, part of gopot.
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

package cell

import (
	"math"
	"sort"

	"github.com/rmera/gopot/comm"
)

//Gvec is the set of reciprocal lattice vectors with |G| <= gmax, sorted by length, so G=0 is
//the first vector. The list is split in contiguous blocks over the ranks of a process group, and
//rank 0 always owns G=0. The Miller indices are fixed at construction, the cartesian
//coordinates follow the lattice through Update.
type Gvec struct {
	uc      *UnitCell
	gmax    float64
	millers [][3]int
	cart    [][3]float64
	length  []float64
	dims    [3]int
	fftIdx  []int
	spl     comm.Splindex
	version int
}

//goodSize returns the smallest n' >= n whose only prime factors are 2, 3 and 5.
func goodSize(n int) int {
	for ; ; n++ {
		m := n
		for _, p := range []int{2, 3, 5} {
			for m%p == 0 {
				m /= p
			}
		}
		if m == 1 {
			return n
		}
	}
}

//NewGvec builds the reciprocal vectors of uc with length up to gmax, distributed over c.
func NewGvec(uc *UnitCell, gmax float64, c comm.Communicator) *Gvec {
	G := &Gvec{uc: uc, gmax: gmax}
	var nmax [3]int
	for i := 0; i < 3; i++ {
		a := uc.lattice[i]
		la := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
		nmax[i] = int(math.Ceil(gmax*la/(2*math.Pi))) + 1
		G.dims[i] = goodSize(2*nmax[i] + 1)
	}
	b := uc.recip
	for m0 := -nmax[0]; m0 <= nmax[0]; m0++ {
		for m1 := -nmax[1]; m1 <= nmax[1]; m1++ {
			for m2 := -nmax[2]; m2 <= nmax[2]; m2++ {
				var g [3]float64
				for x := 0; x < 3; x++ {
					g[x] = float64(m0)*b[0][x] + float64(m1)*b[1][x] + float64(m2)*b[2][x]
				}
				if math.Sqrt(g[0]*g[0]+g[1]*g[1]+g[2]*g[2]) <= gmax {
					G.millers = append(G.millers, [3]int{m0, m1, m2})
				}
			}
		}
	}
	G.cart = make([][3]float64, len(G.millers))
	G.length = make([]float64, len(G.millers))
	G.Update()
	//stable order: by length, then by Miller indices.
	idx := make([]int, len(G.millers))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		li, lj := G.length[idx[i]], G.length[idx[j]]
		if math.Abs(li-lj) > 1e-10 {
			return li < lj
		}
		mi, mj := G.millers[idx[i]], G.millers[idx[j]]
		for x := 0; x < 3; x++ {
			if mi[x] != mj[x] {
				return mi[x] < mj[x]
			}
		}
		return false
	})
	m := make([][3]int, len(idx))
	for i, k := range idx {
		m[i] = G.millers[k]
	}
	G.millers = m
	G.Update()
	G.fftIdx = make([]int, len(G.millers))
	for i, mi := range G.millers {
		G.fftIdx[i] = G.BoxIndex(mi)
	}
	G.spl = comm.Split(len(G.millers), c)
	return G
}

//Update recomputes the cartesian coordinates after a change of the lattice.
func (G *Gvec) Update() {
	b := G.uc.recip
	for i, m := range G.millers {
		var g [3]float64
		for x := 0; x < 3; x++ {
			g[x] = float64(m[0])*b[0][x] + float64(m[1])*b[1][x] + float64(m[2])*b[2][x]
		}
		G.cart[i] = g
		G.length[i] = math.Sqrt(g[0]*g[0] + g[1]*g[1] + g[2]*g[2])
	}
	G.version = G.uc.version
}

//Stale returns true if the lattice changed since the last Update.
func (G *Gvec) Stale() bool { return G.version != G.uc.version }

//UnitCell returns the cell of the vectors.
func (G *Gvec) UnitCell() *UnitCell { return G.uc }

//Num returns the total number of vectors.
func (G *Gvec) Num() int { return len(G.millers) }

//Count returns the number of vectors owned by this rank.
func (G *Gvec) Count() int { return G.spl.LocalSize() }

//Offset returns the global index of the first local vector.
func (G *Gvec) Offset() int { return G.spl.Offset() }

//Split returns the partition of the vectors over the ranks.
func (G *Gvec) Split() comm.Splindex { return G.spl }

//Miller returns the Miller indices of the vector ig (global index).
func (G *Gvec) Miller(ig int) [3]int { return G.millers[ig] }

//Cart returns the cartesian coordinates of the vector ig (global index).
func (G *Gvec) Cart(ig int) [3]float64 { return G.cart[ig] }

//Length returns the length of the vector ig (global index).
func (G *Gvec) Length(ig int) float64 { return G.length[ig] }

//Gmax returns the cutoff.
func (G *Gvec) Gmax() float64 { return G.gmax }

//FFTDims returns the dimensions of the FFT box that holds all the vectors.
func (G *Gvec) FFTDims() [3]int { return G.dims }

//FFTIndex returns the position of the vector ig (global index) in the FFT box.
func (G *Gvec) FFTIndex(ig int) int { return G.fftIdx[ig] }

//BoxIndex returns the linear index in the FFT box of the given Miller indices.
//Negative indices wrap around. The first dimension runs fastest.
func (G *Gvec) BoxIndex(m [3]int) int {
	var i [3]int
	for x := 0; x < 3; x++ {
		i[x] = ((m[x] % G.dims[x]) + G.dims[x]) % G.dims[x]
	}
	return i[0] + G.dims[0]*(i[1]+G.dims[1]*i[2])
}

//Phase returns exp(-i G.tau) for the vector ig and the atom ia.
func (G *Gvec) Phase(ig, ia int) complex128 {
	p := G.uc.Atoms[ia].Position
	m := G.millers[ig]
	arg := 2 * math.Pi * (float64(m[0])*p[0] + float64(m[1])*p[1] + float64(m[2])*p[2])
	return complex(math.Cos(arg), -math.Sin(arg))
}
