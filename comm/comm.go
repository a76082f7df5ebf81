/*
 * comm.go, part of gopot.
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

/*Package comm provides the process group used for distributed reductions.

A Communicator is a member of a group of cooperating ranks. All the collective
operations are blocking, and every rank of the group must call them, in the same order.
A rank that skips a collective deadlocks the rest of the group: there are no timeouts.

The package ships a serial communicator, Self, and an in-process group, NewGroup, where
every rank is a goroutine. Reductions in a group sum the contributions in rank order, so
the result does not depend on which rank finished first.
*/
package comm

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

//Communicator is the interface of a member of a process group.
type Communicator interface {
	//Rank returns the index of this member in the group.
	Rank() int
	//Size returns the number of members in the group.
	Size() int
	//Barrier blocks until all the members have called it.
	Barrier()
	//AllReduce sums buf element-wise over the group, in place.
	AllReduce(buf []float64)
	//AllReduceComplex is AllReduce for complex buffers.
	AllReduceComplex(buf []complex128)
	//Bcast copies the buffer of rank root to all the other members.
	Bcast(buf []float64, root int)
}

//Self returns a communicator for a group of one rank.
func Self() Communicator {
	return self{}
}

type self struct{}

func (self) Rank() int { return 0 }
func (self) Size() int { return 1 }
func (self) Barrier() {}
func (self) AllReduce([]float64) {}
func (self) AllReduceComplex([]complex128) {}
func (self) Bcast([]float64, int) {}

//group is the shared state of an in-process group.
type group struct {
	n       int
	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	gen     int
	slots   [][]float64
	cslots  [][]complex128
}

func (g *group) barrier() {
	g.mu.Lock()
	gen := g.gen
	g.arrived++
	if g.arrived == g.n {
		g.arrived = 0
		g.gen++
		g.cond.Broadcast()
	} else {
		for gen == g.gen {
			g.cond.Wait()
		}
	}
	g.mu.Unlock()
}

//member is one rank of an in-process group.
type member struct {
	g    *group
	rank int
}

//NewGroup returns n communicators forming one group. Each of them must be
//used by a different goroutine.
func NewGroup(n int) []Communicator {
	if n < 1 {
		panic("comm.NewGroup: a group needs at least one rank")
	}
	g := &group{n: n, slots: make([][]float64, n), cslots: make([][]complex128, n)}
	g.cond = sync.NewCond(&g.mu)
	ret := make([]Communicator, n)
	for i := range ret {
		ret[i] = &member{g: g, rank: i}
	}
	return ret
}

func (M *member) Rank() int { return M.rank }
func (M *member) Size() int { return M.g.n }
func (M *member) Barrier()  { M.g.barrier() }

func (M *member) AllReduce(buf []float64) {
	g := M.g
	g.slots[M.rank] = append([]float64(nil), buf...)
	g.barrier()
	for i := range buf {
		s := 0.0
		for r := 0; r < g.n; r++ {
			s += g.slots[r][i]
		}
		buf[i] = s
	}
	g.barrier()
}

func (M *member) AllReduceComplex(buf []complex128) {
	g := M.g
	g.cslots[M.rank] = append([]complex128(nil), buf...)
	g.barrier()
	for i := range buf {
		var s complex128
		for r := 0; r < g.n; r++ {
			s += g.cslots[r][i]
		}
		buf[i] = s
	}
	g.barrier()
}

func (M *member) Bcast(buf []float64, root int) {
	g := M.g
	if M.rank == root {
		g.slots[root] = append([]float64(nil), buf...)
	}
	g.barrier()
	if M.rank != root {
		copy(buf, g.slots[root])
	}
	g.barrier()
}

//Run executes f on every rank of a new in-process group of n ranks, each in its own
//goroutine, and waits for all of them. It returns the first error produced.
func Run(n int, f func(c Communicator) error) error {
	comms := NewGroup(n)
	var eg errgroup.Group
	for _, c := range comms {
		c := c
		eg.Go(func() error { return f(c) })
	}
	return eg.Wait()
}
