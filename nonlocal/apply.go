/*
 * apply.go, part of gopot.
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

	"github.com/rmera/gopot/device"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/cblas128"
	"gonum.org/v1/gonum/mat"
)

//rows returns the rows r0 to r0+n-1 of g.
func rows(g cblas128.General, r0, n int) cblas128.General {
	if n == 0 {
		return cblas128.General{Cols: g.Cols, Stride: g.Stride}
	}
	return cblas128.General{Rows: n, Cols: g.Cols, Stride: g.Stride, Data: g.Data[r0*g.Stride : (r0+n-1)*g.Stride+g.Cols]}
}

//cols returns the columns c0 to c0+n-1 of g.
func cols(g cblas128.General, c0, n int) cblas128.General {
	if n == 0 || g.Rows == 0 {
		return cblas128.General{Rows: g.Rows, Stride: g.Stride}
	}
	return cblas128.General{Rows: g.Rows, Cols: n, Stride: g.Stride, Data: g.Data[c0 : (g.Rows-1)*g.Stride+c0+n]}
}

//Device returns the device the operator runs on.
func (O *Operator) Device() device.Device { return O.dev }

//Apply adds the operator's spin block ispnBlock, contracted with the projections betaPhi of the
//wave functions idx0 to idx0+n-1 on the beta projectors of chunk ichunk, to the same wave functions
//of opPhi. The output goes to the spinor component ispnBlock&1 of opPhi (or to the only one).
//Blocks that are zero for the operator are skipped.
func (O *Operator) Apply(ichunk, ispnBlock int, opPhi WaveFunctions, idx0, n int, beta BetaProjectors, betaPhi *mat.CDense) {
	if n == 0 || betaPhi == nil {
		return
	}
	ch, ok := O.channel(ispnBlock)
	if !ok {
		return
	}
	chunk := beta.Chunk(ichunk)
	O.apply(ch, ispnBlock, chunk.Atoms, chunk.NumBeta, beta.Coeffs(ichunk).RawCMatrix(), opPhi, idx0, n, betaPhi.RawCMatrix())
}

//ApplyAtom is like Apply, but only the block of atom ia, which must belong to chunk ichunk, is applied.
func (O *Operator) ApplyAtom(ichunk, ia, ispnBlock int, opPhi WaveFunctions, idx0, n int, beta BetaProjectors, betaPhi *mat.CDense) {
	if n == 0 || betaPhi == nil {
		return
	}
	ch, ok := O.channel(ispnBlock)
	if !ok {
		return
	}
	chunk := beta.Chunk(ichunk)
	for _, ca := range chunk.Atoms {
		if ca.Atom != ia {
			continue
		}
		one := []ChunkAtom{{Atom: ia, NumBeta: ca.NumBeta}}
		coeffs := cols(beta.Coeffs(ichunk).RawCMatrix(), ca.Offset, ca.NumBeta)
		O.apply(ch, ispnBlock, one, ca.NumBeta, coeffs, opPhi, idx0, n, rows(betaPhi.RawCMatrix(), ca.Offset, ca.NumBeta))
		return
	}
	panic(fmt.Sprintf("nonlocal: atom %d is not in chunk %d", ia, ichunk))
}

func (O *Operator) apply(ch, ispnBlock int, atoms []ChunkAtom, nbeta int, coeffs cblas128.General, opPhi WaveFunctions, idx0, n int, bp cblas128.General) {
	if nbeta == 0 {
		return
	}
	if bp.Rows != nbeta || bp.Cols != n {
		panic(fmt.Sprintf("nonlocal: projections are %dx%d, expected %dx%d", bp.Rows, bp.Cols, nbeta, n))
	}
	work := cblas128.General{Rows: nbeta, Cols: n, Stride: n, Data: make([]complex128, nbeta*n)}
	for _, ca := range atoms {
		if ca.NumBeta != O.packed.BlockSize(ca.Atom) {
			panic(fmt.Sprintf("nonlocal: atom %d has %d projectors in the chunk, %d in the %v operator", ca.Atom, ca.NumBeta, O.packed.BlockSize(ca.Atom), O.kind))
		}
		if ca.NumBeta == 0 {
			continue
		}
		O.dev.Zgemm(blas.NoTrans, blas.NoTrans, 1, O.packed.block(O.resident, ch, ca.Atom), rows(bp, ca.Offset, ca.NumBeta), 0, rows(work, ca.Offset, ca.NumBeta))
	}
	jspn := ispnBlock & 1
	if opPhi.NumSpins() == 1 {
		jspn = 0
	}
	out := cols(opPhi.PW(jspn).RawCMatrix(), idx0, n)
	O.dev.Zgemm(blas.NoTrans, blas.NoTrans, 1, coeffs, work, 1, out)
}

//InnerProduct returns the projections <beta|phi> of the wave functions idx0 to idx0+n-1 of the
//spinor component ispn of phi on the projectors of chunk ichunk, or nil if there is nothing to project.
func InnerProduct(dev device.Device, beta BetaProjectors, ichunk int, phi WaveFunctions, ispn, idx0, n int) *mat.CDense {
	chunk := beta.Chunk(ichunk)
	if chunk.NumBeta == 0 || n == 0 {
		return nil
	}
	if dev == nil {
		dev = device.Host{}
	}
	ret := mat.NewCDense(chunk.NumBeta, n, nil)
	dev.Zgemm(blas.ConjTrans, blas.NoTrans, 1, beta.Coeffs(ichunk).RawCMatrix(), cols(phi.PW(ispn).RawCMatrix(), idx0, n), 0, ret.RawCMatrix())
	return ret
}

//spinBlocks returns the spin blocks to apply, each with the spinor component of phi it acts on.
//A non-negative spin means phi holds only the bands of that spin, in a single component.
func spinBlocks(spin, nspinor int) [][2]int {
	switch {
	case spin >= 0:
		if nspinor != 1 {
			panic(fmt.Sprintf("nonlocal: spin %d requested for wave functions with %d components", spin, nspinor))
		}
		return [][2]int{{spin, 0}}
	case nspinor == 1:
		return [][2]int{{0, 0}}
	}
	return [][2]int{{0, 0}, {1, 1}, {2, 1}, {3, 0}}
}

//ApplyDQ adds D|phi> to hphi and Q|phi> to sphi for the wave functions idx0 to idx0+n-1.
//Either operator can be nil. For spin >= 0 phi holds the bands of that spin only; for
//spin < 0 phi holds all its spinor components, and the off-diagonal blocks are applied.
func ApplyDQ(spin int, beta BetaProjectors, phi WaveFunctions, idx0, n int, d *Operator, hphi WaveFunctions, q *Operator, sphi WaveFunctions) {
	var dev device.Device
	switch {
	case d != nil:
		dev = d.dev
	case q != nil:
		dev = q.dev
	default:
		return
	}
	blocks := spinBlocks(spin, phi.NumSpins())
	for ichunk := 0; ichunk < beta.NumChunks(); ichunk++ {
		bp := make([]*mat.CDense, phi.NumSpins())
		for s := range bp {
			bp[s] = InnerProduct(dev, beta, ichunk, phi, s, idx0, n)
		}
		for _, b := range blocks {
			if d != nil {
				d.Apply(ichunk, b[0], hphi, idx0, n, beta, bp[b[1]])
			}
			if q != nil {
				q.Apply(ichunk, b[0], sphi, idx0, n, beta, bp[b[1]])
			}
		}
	}
}

//ApplyS adds Q|phi> to sphi. The caller is expected to have copied phi into sphi beforehand.
func ApplyS(spin int, beta BetaProjectors, phi WaveFunctions, idx0, n int, q *Operator, sphi WaveFunctions) {
	ApplyDQ(spin, beta, phi, idx0, n, nil, nil, q, sphi)
}

//ApplyU adds the Hubbard correction U|phi> to hphi. hub contains the plane-wave coefficients of
//the Hubbard orbitals of all the atoms, in the order given by HubbardChunk.
func ApplyU(spin int, hub *mat.CDense, phi WaveFunctions, idx0, n int, u *Operator, hphi WaveFunctions) {
	if u == nil {
		return
	}
	chunk := HubbardChunk(u.uc)
	if chunk.NumBeta == 0 {
		return
	}
	ngk, _ := hub.Dims()
	set, err := NewBetaSet(ngk, []Chunk{chunk}, []*mat.CDense{hub})
	if err != nil {
		panic(err.Error())
	}
	ApplyDQ(spin, set, phi, idx0, n, u, hphi, nil, nil)
}
