/*
 * fft.go, part of gopot.
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

package field

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/dsp/fourier"
)

//FFT performs 3D transforms on a box replicated on every rank. The box is stored with the
//first dimension running fastest. The transform is done as 1D transforms along each axis,
//spread over goroutines.
type FFT struct {
	dims    [3]int
	recip   [3][3]float64
	threads int
}

//NewFFT returns an FFT for a box of the given dimensions. recip contains the reciprocal lattice
//vectors (one per row), used for derivatives. threads bounds the number of goroutines.
func NewFFT(dims [3]int, recip [3][3]float64, threads int) *FFT {
	if threads < 1 {
		threads = 1
	}
	return &FFT{dims: dims, recip: recip, threads: threads}
}

//Dims returns the dimensions of the box.
func (F *FFT) Dims() [3]int { return F.dims }

//Size returns the number of points of the box.
func (F *FFT) Size() int { return F.dims[0] * F.dims[1] * F.dims[2] }

//SetReciprocal updates the reciprocal vectors after a lattice change.
func (F *FFT) SetReciprocal(recip [3][3]float64) { F.recip = recip }

//Transform transforms box in place. With dir=+1 it computes f(r) = sum_G c(G) exp(iGr), with dir=-1 it
//computes sum_r f(r) exp(-iGr). Neither direction is normalized.
func (F *FFT) Transform(box []complex128, dir int) {
	if len(box) != F.Size() {
		panic("field.FFT.Transform: wrong box size")
	}
	for axis := 0; axis < 3; axis++ {
		F.axis(box, axis, dir)
	}
}

//axis transforms all the lines along one axis.
func (F *FFT) axis(box []complex128, axis, dir int) {
	n := F.dims[axis]
	if n == 1 {
		return
	}
	stride := 1
	for a := 0; a < axis; a++ {
		stride *= F.dims[a]
	}
	nlines := F.Size() / n
	//line l is determined by the indices before (l % stride) and after the axis.
	start := func(l int) int {
		lo := l % stride
		hi := l / stride
		return lo + hi*stride*n
	}
	nw := F.threads
	if nw > nlines {
		nw = nlines
	}
	var eg errgroup.Group
	for w := 0; w < nw; w++ {
		l0 := w * nlines / nw
		l1 := (w + 1) * nlines / nw
		eg.Go(func() error {
			plan := fourier.NewCmplxFFT(n)
			line := make([]complex128, n)
			for l := l0; l < l1; l++ {
				s := start(l)
				for i := 0; i < n; i++ {
					line[i] = box[s+i*stride]
				}
				if dir > 0 {
					plan.Sequence(line, line)
				} else {
					plan.Coefficients(line, line)
				}
				for i := 0; i < n; i++ {
					box[s+i*stride] = line[i]
				}
			}
			return nil
		})
	}
	eg.Wait()
}

//freq returns the signed frequency of index i along a dimension of size n. The
//Nyquist frequency of an even n is returned as 0, so derivatives of real functions stay real.
func freq(i, n int) int {
	if 2*i == n {
		return 0
	}
	if i > n/2 {
		return i - n
	}
	return i
}

//gcart returns the cartesian reciprocal vector at the box point idx.
func (F *FFT) gcart(idx int) [3]float64 {
	d := F.dims
	i0 := idx % d[0]
	i1 := (idx / d[0]) % d[1]
	i2 := idx / (d[0] * d[1])
	m := [3]float64{float64(freq(i0, d[0])), float64(freq(i1, d[1])), float64(freq(i2, d[2]))}
	var g [3]float64
	for x := 0; x < 3; x++ {
		g[x] = m[0]*F.recip[0][x] + m[1]*F.recip[1][x] + m[2]*F.recip[2][x]
	}
	return g
}

//Gradient returns the cartesian gradient of the periodic function f given on the box,
//computed in reciprocal space.
func (F *FFT) Gradient(f []float64) [3][]float64 {
	N := F.Size()
	c := make([]complex128, N)
	for i, v := range f {
		c[i] = complex(v, 0)
	}
	F.Transform(c, -1)
	var ret [3][]float64
	tmp := make([]complex128, N)
	for x := 0; x < 3; x++ {
		for i := range c {
			g := F.gcart(i)
			tmp[i] = c[i] * complex(0, g[x]/float64(N))
		}
		F.Transform(tmp, +1)
		ret[x] = make([]float64, N)
		for i := range tmp {
			ret[x][i] = real(tmp[i])
		}
	}
	return ret
}

//Divergence returns the divergence of the periodic vector field v given on the box.
func (F *FFT) Divergence(v [3][]float64) []float64 {
	N := F.Size()
	acc := make([]complex128, N)
	c := make([]complex128, N)
	for x := 0; x < 3; x++ {
		for i, val := range v[x] {
			c[i] = complex(val, 0)
		}
		F.Transform(c, -1)
		for i := range c {
			g := F.gcart(i)
			acc[i] += c[i] * complex(0, g[x]/float64(N))
		}
	}
	F.Transform(acc, +1)
	ret := make([]float64, N)
	for i := range acc {
		ret[i] = real(acc[i])
	}
	return ret
}

//Norm2 returns |v|^2 at every point of the box.
func Norm2(v [3][]float64) []float64 {
	ret := make([]float64, len(v[0]))
	for i := range ret {
		ret[i] = v[0][i]*v[0][i] + v[1][i]*v[1][i] + v[2][i]*v[2][i]
	}
	return ret
}

//Dot returns u.v at every point of the box.
func Dot(u, v [3][]float64) []float64 {
	ret := make([]float64, len(u[0]))
	for i := range ret {
		ret[i] = u[0][i]*v[0][i] + u[1][i]*v[1][i] + u[2][i]*v[2][i]
	}
	return ret
}

//MaxAbs returns the largest absolute value in x.
func MaxAbs(x []float64) float64 {
	m := 0.0
	for _, v := range x {
		m = math.Max(m, math.Abs(v))
	}
	return m
}
