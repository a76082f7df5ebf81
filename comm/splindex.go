/*
 * splindex.go, part of gopot.
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

package comm

//Splindex is a block partition of the indices 0...n-1 over the ranks of a group.
//Rank r owns the contiguous block [r*b, min(n, (r+1)*b)), with b = ceil(n/size),
//so the lowest indices always belong to rank 0.
type Splindex struct {
	n, size, rank int
	block         int
}

//NewSplindex returns the partition of n indices for the given rank of a group of size ranks.
func NewSplindex(n, size, rank int) Splindex {
	if size < 1 {
		size = 1
	}
	b := (n + size - 1) / size
	return Splindex{n: n, size: size, rank: rank, block: b}
}

//Split is a shortcut for NewSplindex(n, c.Size(), c.Rank()).
func Split(n int, c Communicator) Splindex {
	return NewSplindex(n, c.Size(), c.Rank())
}

//Global returns the total number of indices.
func (S Splindex) Global() int { return S.n }

//Offset returns the first index owned by the rank.
func (S Splindex) Offset() int { return S.OffsetOf(S.rank) }

//OffsetOf returns the first index owned by rank r.
func (S Splindex) OffsetOf(r int) int {
	o := r * S.block
	if o > S.n {
		o = S.n
	}
	return o
}

//LocalSize returns the number of indices owned by the rank.
func (S Splindex) LocalSize() int { return S.LocalSizeOf(S.rank) }

//LocalSizeOf returns the number of indices owned by rank r.
func (S Splindex) LocalSizeOf(r int) int {
	return S.OffsetOf(r+1) - S.OffsetOf(r)
}

//GlobalIndex returns the global index of the local index iloc.
func (S Splindex) GlobalIndex(iloc int) int { return S.Offset() + iloc }

//Owner returns the rank owning the global index i.
func (S Splindex) Owner(i int) int {
	if S.block == 0 {
		return 0
	}
	return i / S.block
}

//IsLocal returns true if the global index i belongs to the rank.
func (S Splindex) IsLocal(i int) bool {
	o := S.Offset()
	return i >= o && i < o+S.LocalSize()
}
