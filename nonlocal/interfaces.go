/*
 * interfaces.go, part of gopot.
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

	"github.com/rmera/gopot/cell"
	"gonum.org/v1/gonum/mat"
)

//ChunkAtom is one atom of a chunk of beta projectors.
type ChunkAtom struct {
	Atom    int
	Offset  int //first projector of the atom within the chunk
	NumBeta int
}

//Chunk is a group of atoms whose beta projectors are generated and contracted together.
type Chunk struct {
	NumBeta int
	Atoms   []ChunkAtom
}

//BetaProjectors gives the plane-wave coefficients of the beta projectors, chunk by chunk.
type BetaProjectors interface {
	//NumGk returns the number of plane waves.
	NumGk() int
	NumChunks() int
	Chunk(ichunk int) Chunk
	//Coeffs returns the coefficients of the projectors of a chunk, NumGk rows by Chunk(ichunk).NumBeta columns.
	//Implementations are expected to cache the last generated chunk.
	Coeffs(ichunk int) *mat.CDense
}

//WaveFunctions is a set of wave functions in the plane-wave basis.
type WaveFunctions interface {
	//NumSpins returns the number of spinor components stored.
	NumSpins() int
	//PW returns the coefficients of spinor component ispn, one row per plane wave, one column per wave function.
	PW(ispn int) *mat.CDense
}

//Wavefunctions is a plain in-memory WaveFunctions.
type Wavefunctions struct {
	pw []*mat.CDense
}

//NewWavefunctions returns nwf zero wave functions with ngk plane waves and nspins spinor components.
func NewWavefunctions(ngk, nwf, nspins int) *Wavefunctions {
	W := &Wavefunctions{pw: make([]*mat.CDense, nspins)}
	for i := range W.pw {
		W.pw[i] = mat.NewCDense(ngk, nwf, nil)
	}
	return W
}

func (W *Wavefunctions) NumSpins() int { return len(W.pw) }
func (W *Wavefunctions) PW(ispn int) *mat.CDense { return W.pw[ispn] }

//Chunks groups the atoms of uc with projectors in chunks of at most maxBeta projectors.
//An atom is never split between chunks.
func Chunks(uc *cell.UnitCell, maxBeta int) []Chunk {
	var ret []Chunk
	var cur Chunk
	for ia, a := range uc.Atoms {
		nb := a.Type.MTBasisSize()
		if nb == 0 {
			continue
		}
		if cur.NumBeta > 0 && cur.NumBeta+nb > maxBeta {
			ret = append(ret, cur)
			cur = Chunk{}
		}
		cur.Atoms = append(cur.Atoms, ChunkAtom{Atom: ia, Offset: cur.NumBeta, NumBeta: nb})
		cur.NumBeta += nb
	}
	if cur.NumBeta > 0 {
		ret = append(ret, cur)
	}
	return ret
}

//HubbardChunk returns the layout of the Hubbard orbitals of uc as a single chunk.
func HubbardChunk(uc *cell.UnitCell) Chunk {
	var c Chunk
	for ia, a := range uc.Atoms {
		nb := a.Type.NumHubbardOrbitals()
		if nb == 0 {
			continue
		}
		c.Atoms = append(c.Atoms, ChunkAtom{Atom: ia, Offset: c.NumBeta, NumBeta: nb})
		c.NumBeta += nb
	}
	return c
}

//BetaSet is a BetaProjectors with precomputed coefficients.
type BetaSet struct {
	ngk    int
	chunks []Chunk
	coeffs []*mat.CDense
}

//NewBetaSet returns a set with the given chunks and coefficients, one matrix per chunk.
func NewBetaSet(ngk int, chunks []Chunk, coeffs []*mat.CDense) (*BetaSet, error) {
	if len(chunks) != len(coeffs) {
		return nil, fmt.Errorf("nonlocal.NewBetaSet: %d chunks, %d coefficient matrices", len(chunks), len(coeffs))
	}
	for i, c := range coeffs {
		if r, cc := c.Dims(); r != ngk || cc != chunks[i].NumBeta {
			return nil, fmt.Errorf("nonlocal.NewBetaSet: chunk %d coefficients are %dx%d, expected %dx%d", i, r, cc, ngk, chunks[i].NumBeta)
		}
	}
	return &BetaSet{ngk: ngk, chunks: chunks, coeffs: coeffs}, nil
}

func (B *BetaSet) NumGk() int { return B.ngk }
func (B *BetaSet) NumChunks() int { return len(B.chunks) }
func (B *BetaSet) Chunk(i int) Chunk { return B.chunks[i] }
func (B *BetaSet) Coeffs(i int) *mat.CDense { return B.coeffs[i] }
