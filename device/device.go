/*
 * device.go, part of gopot.
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

/*Package device abstracts the processing unit on which the dense contractions of the non-local
operators run. Host runs them directly with gonum's BLAS. Accelerator splits every product in
column blocks run by a pool of goroutines, and keeps its own resident copy of the operator arenas,
which is the staging model an offload backend needs.*/
package device

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

//Device runs complex matrix products.
type Device interface {
	Name() string
	//Zgemm computes c = alpha*op(a)*op(b) + beta*c.
	Zgemm(tA, tB blas.Transpose, alpha complex128, a, b cblas128.General, beta complex128, c cblas128.General)
	//Resident returns a copy of buf in memory owned by the device, or buf itself
	//when the device works on host memory.
	Resident(buf []complex128) []complex128
}

//For returns the device for the processing unit name: "cpu" (or empty) and "accelerator".
func For(name string, workers int) (Device, error) {
	switch strings.ToLower(name) {
	case "", "cpu", "host":
		return Host{}, nil
	case "accelerator", "gpu":
		return &Accelerator{Workers: workers}, nil
	}
	return nil, fmt.Errorf("device: unknown processing unit %q", name)
}

//Host runs the products directly.
type Host struct{}

func (Host) Name() string { return "cpu" }

func (Host) Zgemm(tA, tB blas.Transpose, alpha complex128, a, b cblas128.General, beta complex128, c cblas128.General) {
	if c.Rows == 0 || c.Cols == 0 {
		return
	}
	cblas128.Gemm(tA, tB, alpha, a, b, beta, c)
}

func (Host) Resident(buf []complex128) []complex128 { return buf }

//Accelerator runs each product as independent column blocks of the result on
//a pool of Workers goroutines.
type Accelerator struct {
	Workers int
}

func (A *Accelerator) Name() string { return "accelerator" }

func (A *Accelerator) Resident(buf []complex128) []complex128 {
	return append([]complex128(nil), buf...)
}

func (A *Accelerator) Zgemm(tA, tB blas.Transpose, alpha complex128, a, b cblas128.General, beta complex128, c cblas128.General) {
	n := c.Cols
	if c.Rows == 0 || n == 0 {
		return
	}
	w := A.Workers
	if w < 1 {
		w = 1
	}
	if w > n {
		w = n
	}
	var eg errgroup.Group
	for k := 0; k < w; k++ {
		c0 := k * n / w
		c1 := (k + 1) * n / w
		if c1 == c0 {
			continue
		}
		eg.Go(func() error {
			cblas128.Gemm(tA, tB, alpha, a, columns(b, tB, c0, c1), beta, columns(c, blas.NoTrans, c0, c1))
			return nil
		})
	}
	eg.Wait()
}

//columns returns the view of g that produces the columns c0...c1-1 of op(g).
func columns(g cblas128.General, t blas.Transpose, c0, c1 int) cblas128.General {
	if t == blas.NoTrans {
		return cblas128.General{Rows: g.Rows, Cols: c1 - c0, Stride: g.Stride, Data: g.Data[c0:]}
	}
	//op(g) columns are rows of g
	return cblas128.General{Rows: c1 - c0, Cols: g.Cols, Stride: g.Stride, Data: g.Data[c0*g.Stride:]}
}
