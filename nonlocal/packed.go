/*
 * packed.go, part of gopot.
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

package nonlocal

import (
	"fmt"

	"gonum.org/v1/gonum/blas/cblas128"
)

//Packed is an arena of square per-atom blocks, one arena per spin channel. The block of atom ia in
//channel ch starts at ch*Size()+Offset(ia), and is stored row-major.
type Packed struct {
	nchan   int
	nbf     []int
	offsets []int
	size    int
	data    []complex128
}

func newPacked(nbf []int, nchan int) *Packed {
	P := &Packed{nchan: nchan, nbf: append([]int(nil), nbf...), offsets: make([]int, len(nbf))}
	for ia, n := range nbf {
		P.offsets[ia] = P.size
		P.size += n * n
	}
	P.data = make([]complex128, P.size*nchan)
	return P
}

//Size returns the size of one channel of the arena: the sum of the per-atom block sizes.
func (P *Packed) Size() int { return P.size }

//NumChannels returns the number of spin channels.
func (P *Packed) NumChannels() int { return P.nchan }

//NumAtoms returns the number of atoms.
func (P *Packed) NumAtoms() int { return len(P.nbf) }

//Offset returns the offset of the block of atom ia within a channel.
func (P *Packed) Offset(ia int) int { return P.offsets[ia] }

//BlockSize returns the number of rows (and columns) of the block of atom ia.
func (P *Packed) BlockSize(ia int) int { return P.nbf[ia] }

//Data returns the whole arena.
func (P *Packed) Data() []complex128 { return P.data }

func (P *Packed) idx(xi1, xi2, ch, ia int) int {
	n := P.nbf[ia]
	if xi1 < 0 || xi1 >= n || xi2 < 0 || xi2 >= n || ch < 0 || ch >= P.nchan {
		panic(fmt.Sprintf("nonlocal.Packed: element (%d,%d) of channel %d out of range for atom %d (block %d, %d channels)", xi1, xi2, ch, ia, n, P.nchan))
	}
	return ch*P.size + P.offsets[ia] + xi1*n + xi2
}

//Value returns the element (xi1, xi2) of channel ch of the block of atom ia.
func (P *Packed) Value(xi1, xi2, ch, ia int) complex128 {
	return P.data[P.idx(xi1, xi2, ch, ia)]
}

func (P *Packed) set(xi1, xi2, ch, ia int, v complex128) {
	P.data[P.idx(xi1, xi2, ch, ia)] = v
}

//block returns the block of atom ia in channel ch, as a view on data.
func (P *Packed) block(data []complex128, ch, ia int) cblas128.General {
	n := P.nbf[ia]
	o := ch*P.size + P.offsets[ia]
	return cblas128.General{Rows: n, Cols: n, Stride: n, Data: data[o : o+n*n]}
}
