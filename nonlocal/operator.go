/*
 * operator.go, part of gopot.
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

/*Package nonlocal contains the non-local operators of the pseudopotential Hamiltonian: D (the
screened non-local coefficients), Q (the augmentation overlap), and U (the Hubbard correction),
stored as packed per-atom blocks, and their application to wave functions through beta projectors.*/
package nonlocal

import (
	"fmt"

	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/device"
	"github.com/rmera/gopot/hubbard"
	"gonum.org/v1/gonum/mat"
)

//Kind tells which operator an Operator represents.
type Kind int

const (
	D Kind = iota
	Q
	U
)

func (K Kind) String() string {
	switch K {
	case D:
		return "D"
	case Q:
		return "Q"
	case U:
		return "U"
	}
	return fmt.Sprintf("Kind(%d)", int(K))
}

//DSource gives the non-local coefficients of each atom. DMatrix returns numMagDims+1
//real nbf x nbf matrices: the scalar part, then the z (and x, y) magnetic parts.
type DSource interface {
	DMatrix(ia int) []*mat.Dense
}

//Operator is one of the non-local operators, with its packed arena and the device copy of it.
type Operator struct {
	kind     Kind
	uc       *cell.UnitCell
	dev      device.Device
	nmag     int
	nchan    int
	packed   *Packed
	resident []complex128
	sizes    func() []int
	fill     func(*Packed) error
}

//spin channels of the arena
func numChannels(nmag int) int {
	return hubbard.NumComponents(nmag)
}

//basisSizes returns the sizes of the blocks of the atoms of uc, as given by size for each type.
func basisSizes(uc *cell.UnitCell, size func(*cell.AtomType) int) func() []int {
	return func() []int {
		nbf := make([]int, uc.NumAtoms())
		for ia, a := range uc.Atoms {
			nbf[ia] = size(a.Type)
		}
		return nbf
	}
}

func newOperator(kind Kind, uc *cell.UnitCell, nmag int, nchan int, sizes func() []int, dev device.Device, fill func(*Packed) error) (*Operator, error) {
	if nmag != 0 && nmag != 1 && nmag != 3 {
		return nil, fmt.Errorf("nonlocal: %d magnetic dimensions, expected 0, 1 or 3", nmag)
	}
	if dev == nil {
		dev = device.Host{}
	}
	O := &Operator{kind: kind, uc: uc, dev: dev, nmag: nmag, nchan: nchan, sizes: sizes, fill: fill}
	if err := O.Rebuild(); err != nil {
		return nil, err
	}
	return O, nil
}

//NewD returns the D operator with the coefficients given by src.
func NewD(uc *cell.UnitCell, src DSource, numMagDims int, dev device.Device) (*Operator, error) {
	fill := func(P *Packed) error {
		for ia := range uc.Atoms {
			n := P.BlockSize(ia)
			if n == 0 {
				continue
			}
			d := src.DMatrix(ia)
			if len(d) != numMagDims+1 {
				return fmt.Errorf("nonlocal.NewD: %d components for atom %d, expected %d", len(d), ia, numMagDims+1)
			}
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					d0 := d[0].At(i, j)
					switch numMagDims {
					case 0:
						P.set(i, j, 0, ia, complex(d0, 0))
					case 1:
						dz := d[1].At(i, j)
						P.set(i, j, 0, ia, complex(d0+dz, 0))
						P.set(i, j, 1, ia, complex(d0-dz, 0))
					case 3:
						dz, dx, dy := d[1].At(i, j), d[2].At(i, j), d[3].At(i, j)
						P.set(i, j, 0, ia, complex(d0+dz, 0))
						P.set(i, j, 1, ia, complex(d0-dz, 0))
						P.set(i, j, 2, ia, complex(dx, -dy))
						P.set(i, j, 3, ia, complex(dx, dy))
					}
				}
			}
		}
		return nil
	}
	return newOperator(D, uc, numMagDims, numChannels(numMagDims), basisSizes(uc, (*cell.AtomType).MTBasisSize), dev, fill)
}

//NewQ returns the augmentation overlap operator. It is spin-independent, and zero for the
//atoms whose type has no augmentation charge.
func NewQ(uc *cell.UnitCell, dev device.Device) (*Operator, error) {
	fill := func(P *Packed) error {
		for ia, a := range uc.Atoms {
			if a.Type.Aug == nil {
				continue
			}
			n := P.BlockSize(ia)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					P.set(i, j, 0, ia, complex(a.Type.Aug.Q0(i, j), 0))
				}
			}
		}
		return nil
	}
	return newOperator(Q, uc, 0, 1, basisSizes(uc, (*cell.AtomType).MTBasisSize), dev, fill)
}

//NewU returns the Hubbard operator for the potential matrices in pot.
func NewU(uc *cell.UnitCell, pot *hubbard.Matrix, dev device.Device) (*Operator, error) {
	nmag := pot.NumMagDims()
	fill := func(P *Packed) error {
		if pot.NumAtoms() != uc.NumAtoms() {
			return fmt.Errorf("nonlocal.NewU: potential for %d atoms, the cell has %d", pot.NumAtoms(), uc.NumAtoms())
		}
		for ia := range uc.Atoms {
			v := pot.Local(ia)
			n := P.BlockSize(ia)
			if v == nil || n == 0 {
				continue
			}
			for ch := range v {
				for i := 0; i < n; i++ {
					for j := 0; j < n; j++ {
						P.set(i, j, ch, ia, v[ch].At(i, j))
					}
				}
			}
		}
		return nil
	}
	return newOperator(U, uc, nmag, numChannels(nmag), basisSizes(uc, (*cell.AtomType).NumHubbardOrbitals), dev, fill)
}

//Kind returns the kind of the operator.
func (O *Operator) Kind() Kind { return O.kind }

//NumMagDims returns the number of magnetic dimensions of the operator.
func (O *Operator) NumMagDims() int { return O.nmag }

//IsDiag reports whether the operator has no spin off-diagonal blocks.
func (O *Operator) IsDiag() bool { return O.packed.NumChannels() < 4 }

//Packed returns the host arena.
func (O *Operator) Packed() *Packed { return O.packed }

//Value returns the element (xi1, xi2) of the spin channel ch for atom ia.
func (O *Operator) Value(xi1, xi2, ch, ia int) complex128 {
	return O.packed.Value(xi1, xi2, ch, ia)
}

//Rebuild allocates a new arena for the current basis sizes of the atoms, fills it from its
//source and refreshes the device copy.
func (O *Operator) Rebuild() error {
	P := newPacked(O.sizes(), O.nchan)
	if err := O.fill(P); err != nil {
		return err
	}
	O.packed = P
	O.resident = O.dev.Resident(P.data)
	return nil
}

//channel returns the arena channel that acts on the spin block ispnBlock
//(0: up-up, 1: down-down, 2: up-down, 3: down-up), and false if the block is zero.
func (O *Operator) channel(ispnBlock int) (int, bool) {
	if ispnBlock < 0 || ispnBlock > 3 {
		panic(fmt.Sprintf("nonlocal: spin block %d out of range", ispnBlock))
	}
	switch O.packed.NumChannels() {
	case 1:
		return 0, ispnBlock < 2
	case 2:
		return ispnBlock, ispnBlock < 2
	}
	return ispnBlock, true
}
