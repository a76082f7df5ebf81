/*
 * field.go, part of gopot.
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

/*Package field implements scalar fields with two global representations, the Fourier coefficients on
the local slice of reciprocal vectors (PW) and the values on the real-space FFT box (RG), plus an
optional local one: the lm expansion inside each atomic sphere (MT).

The views are not kept consistent automatically. Every view carries a freshness tag: writing to a
view through one of the Mut methods marks the other global view stale, and reading a stale view
panics. FFTTransform re-synchronizes the global views, and SyncMT collects the sphere expansions of
all the atoms on every rank.*/
package field

import (
	"fmt"

	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/comm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//View identifies one representation of a field.
type View uint8

const (
	PW View = 1 << iota
	RG
	MT
)

func (V View) String() string {
	s := ""
	for _, v := range []struct {
		v View
		n string
	}{{PW, "PW"}, {RG, "RG"}, {MT, "MT"}} {
		if V&v.v != 0 {
			if s != "" {
				s += "|"
			}
			s += v.n
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

//Field is a scalar field with PW, RG and, optionally, MT views.
type Field struct {
	gv    *cell.Gvec
	fft   *FFT
	comm  comm.Communicator
	atoms comm.Splindex
	lmmax int
	pw    []complex128
	rg    []float64
	mt    []*mat.Dense
	stale View
	box   []complex128
}

//New returns a zero field. If lmmax > 0, the field has an MT view with lmmax channels for
//every atom of the cell. The atoms are split over the ranks of c as for the local MT work.
func New(gv *cell.Gvec, fft *FFT, c comm.Communicator, lmmax int) *Field {
	F := &Field{gv: gv, fft: fft, comm: c, lmmax: lmmax}
	F.pw = make([]complex128, gv.Count())
	F.rg = make([]float64, fft.Size())
	uc := gv.UnitCell()
	F.atoms = comm.Split(uc.NumAtoms(), c)
	if lmmax > 0 {
		F.mt = make([]*mat.Dense, uc.NumAtoms())
		for ia, a := range uc.Atoms {
			F.mt[ia] = mat.NewDense(lmmax, a.Type.NumMTPoints(), nil)
		}
	}
	return F
}

func (F *Field) fresh(v View, caller string) {
	if F.stale&v != 0 {
		panic(Error{fmt.Sprintf("%s view read while stale (stale views: %s)", v, F.stale), []string{caller}, true})
	}
}

//Zero sets all the views to zero. All views are fresh afterwards.
func (F *Field) Zero() {
	for i := range F.pw {
		F.pw[i] = 0
	}
	for i := range F.rg {
		F.rg[i] = 0
	}
	for _, m := range F.mt {
		m.Zero()
	}
	F.stale = 0
}

//Stale returns the views that are currently stale.
func (F *Field) Stale() View { return F.stale }

//HasMT returns true if the field has an MT view.
func (F *Field) HasMT() bool { return F.mt != nil }

//Lmmax returns the number of lm channels of the MT view.
func (F *Field) Lmmax() int { return F.lmmax }

//Atoms returns the partition of the atoms over the ranks.
func (F *Field) Atoms() comm.Splindex { return F.atoms }

//PW returns the Fourier coefficients on the local reciprocal vectors, for reading.
func (F *Field) PW() []complex128 {
	F.fresh(PW, "Field.PW")
	return F.pw
}

//MutPW returns the Fourier coefficients for writing. The RG view becomes stale. If the
//PW view was stale, the caller must overwrite it completely.
func (F *Field) MutPW() []complex128 {
	F.stale = (F.stale | RG) &^ PW
	return F.pw
}

//RG returns the values on the FFT box, for reading.
func (F *Field) RG() []float64 {
	F.fresh(RG, "Field.RG")
	return F.rg
}

//MutRG returns the values on the FFT box for writing. The PW view becomes stale. If the
//RG view was stale, the caller must overwrite it completely.
func (F *Field) MutRG() []float64 {
	F.stale = (F.stale | PW) &^ RG
	return F.rg
}

//MT returns the lm expansion inside the sphere of atom ia, for reading. Atoms that are
//not local to this rank can only be read after SyncMT.
func (F *Field) MT(ia int) *mat.Dense {
	if !F.atoms.IsLocal(ia) {
		F.fresh(MT, "Field.MT")
	}
	return F.mt[ia]
}

//MutMT returns the lm expansion of the local atom ia for writing. The copies of
//this atom on the other ranks become stale, until SyncMT is called.
func (F *Field) MutMT(ia int) *mat.Dense {
	if !F.atoms.IsLocal(ia) {
		panic(Error{fmt.Sprintf("atom %d is not local", ia), []string{"Field.MutMT"}, true})
	}
	F.stale |= MT
	return F.mt[ia]
}

//FFTTransform synchronizes the global views. With dir=-1 the PW view is computed from the RG one,
//with dir=+1 the RG view is computed from the PW one. The pw to rg direction is a collective
//operation over the process group.
func (F *Field) FFTTransform(dir int) {
	if F.box == nil {
		F.box = make([]complex128, F.fft.Size())
	}
	box := F.box
	switch {
	case dir < 0:
		F.fresh(RG, "Field.FFTTransform")
		for i, v := range F.rg {
			box[i] = complex(v, 0)
		}
		F.fft.Transform(box, -1)
		norm := complex(1/float64(len(box)), 0)
		off := F.gv.Offset()
		for igloc := range F.pw {
			F.pw[igloc] = box[F.gv.FFTIndex(off+igloc)] * norm
		}
		F.stale &^= PW
	default:
		F.fresh(PW, "Field.FFTTransform")
		for i := range box {
			box[i] = 0
		}
		off := F.gv.Offset()
		for igloc, c := range F.pw {
			box[F.gv.FFTIndex(off+igloc)] = c
		}
		if F.comm.Size() > 1 {
			F.comm.AllReduceComplex(box)
		}
		F.fft.Transform(box, +1)
		for i := range F.rg {
			F.rg[i] = real(box[i])
		}
		F.stale &^= RG
	}
}

//SyncMT copies the MT view of every atom from its owner rank to all ranks. It is a
//collective operation over the process group.
func (F *Field) SyncMT() {
	if F.mt == nil {
		return
	}
	if F.comm.Size() > 1 {
		n := 0
		for _, m := range F.mt {
			n += len(m.RawMatrix().Data)
		}
		buf := make([]float64, n)
		off := 0
		for ia, m := range F.mt {
			d := m.RawMatrix().Data
			if F.atoms.IsLocal(ia) {
				copy(buf[off:], d)
			}
			off += len(d)
		}
		F.comm.AllReduce(buf)
		off = 0
		for _, m := range F.mt {
			d := m.RawMatrix().Data
			copy(d, buf[off:off+len(d)])
			off += len(d)
		}
	}
	F.stale &^= MT
}

//Add adds G to F, view by view. Only fresh views of G are added, and the
//corresponding views of F become stale if G's are stale.
func (F *Field) Add(G *Field) {
	if G.stale&PW == 0 && F.stale&PW == 0 {
		for i, c := range G.pw {
			F.pw[i] += c
		}
	} else {
		F.stale |= PW
	}
	if G.stale&RG == 0 && F.stale&RG == 0 {
		floats.Add(F.rg, G.rg)
	} else {
		F.stale |= RG
	}
	if F.mt != nil && G.mt != nil {
		both := F.stale&MT == 0 && G.stale&MT == 0
		for ia := range F.mt {
			if both || F.atoms.IsLocal(ia) {
				F.mt[ia].Add(F.mt[ia], G.mt[ia])
			}
		}
		if !both {
			F.stale |= MT
		}
	}
}

//CopyFrom makes F a copy of G, freshness tags included.
func (F *Field) CopyFrom(G *Field) {
	copy(F.pw, G.pw)
	copy(F.rg, G.rg)
	for ia := range F.mt {
		F.mt[ia].Copy(G.mt[ia])
	}
	F.stale = G.stale
}

//Scale multiplies all the views by a.
func (F *Field) Scale(a float64) {
	for i := range F.pw {
		F.pw[i] *= complex(a, 0)
	}
	floats.Scale(a, F.rg)
	for _, m := range F.mt {
		m.Scale(a, m)
	}
}

//Gvec returns the reciprocal vectors of the field.
func (F *Field) Gvec() *cell.Gvec { return F.gv }

//FFT returns the transform of the field.
func (F *Field) FFT() *FFT { return F.fft }
