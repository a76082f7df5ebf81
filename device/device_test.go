/*
 * device_test.go, part of gopot.
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

package device

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
)

func randGeneral(r, c int, rnd *rand.Rand) cblas128.General {
	g := cblas128.General{Rows: r, Cols: c, Stride: c, Data: make([]complex128, r*c)}
	for i := range g.Data {
		g.Data[i] = complex(rnd.NormFloat64(), rnd.NormFloat64())
	}
	return g
}

func TestAcceleratorMatchesHost(Te *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for _, tB := range []blas.Transpose{blas.NoTrans, blas.ConjTrans} {
		m, k, n := 9, 6, 13
		a := randGeneral(m, k, rnd)
		var b cblas128.General
		if tB == blas.NoTrans {
			b = randGeneral(k, n, rnd)
		} else {
			b = randGeneral(n, k, rnd)
		}
		c0 := randGeneral(m, n, rnd)
		c1 := cblas128.General{Rows: m, Cols: n, Stride: n, Data: append([]complex128(nil), c0.Data...)}
		Host{}.Zgemm(blas.NoTrans, tB, 1.5, a, b, 0.5, c0)
		acc, err := For("accelerator", 4)
		if err != nil {
			Te.Fatal(err)
		}
		acc.Zgemm(blas.NoTrans, tB, 1.5, a, b, 0.5, c1)
		for i := range c0.Data {
			if cmplx.Abs(c0.Data[i]-c1.Data[i]) > 1e-12 {
				Te.Fatalf("transpose %c: element %d differs: %v %v", tB, i, c0.Data[i], c1.Data[i])
			}
		}
	}
}

func TestResident(Te *testing.T) {
	buf := []complex128{1, 2, 3}
	acc := &Accelerator{Workers: 2}
	r := acc.Resident(buf)
	buf[0] = 5
	if r[0] != 1 {
		Te.Error("accelerator copy shares memory with the host buffer")
	}
	if h := (Host{}).Resident(buf); &h[0] != &buf[0] {
		Te.Error("host copy does not share memory")
	}
	if _, err := For("tpu", 1); err == nil {
		Te.Error("unknown processing unit accepted")
	}
}
