/*
 * potential_test.go, part of gopot.
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

package pot

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/comm"
	"github.com/rmera/gopot/field"
	"github.com/rmera/gopot/radial"
	"github.com/rmera/gopot/xc"
	"gonum.org/v1/gonum/mat"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

//gaussianCell is a cubic cell with one atom at the origin, with a sphere of radius 3.
func gaussianCell(Te *testing.T) *cell.UnitCell {
	uc, err := cell.NewUnitCell([3][3]float64{{8, 0, 0}, {0, 8, 0}, {0, 0, 8}})
	if err != nil {
		Te.Fatal(err)
	}
	t := uc.AddAtomType(&cell.AtomType{Label: "He", Zn: 2, MTRadius: 3, Grid: radial.NewExponentialGrid(3000, 1e-6, 3),
		IndexR: []cell.RadialIndex{{L: 0, Order: 0}}})
	if _, err := uc.AddAtom(t.ID, [3]float64{}); err != nil {
		Te.Fatal(err)
	}
	if err := uc.Initialize(); err != nil {
		Te.Fatal(err)
	}
	return uc
}

//ppCell is a cubic cell with two atoms of a type with four beta projectors, augmentation
//charges and a Hubbard channel.
func ppCell(Te *testing.T) *cell.UnitCell {
	uc, err := cell.NewUnitCell([3][3]float64{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}})
	if err != nil {
		Te.Fatal(err)
	}
	q := mat.NewSymDense(4, []float64{
		0.5, 0.1, 0, 0,
		0.1, 0.3, 0, 0,
		0, 0, 0.2, 0.05,
		0, 0, 0.05, 0.4})
	dion := mat.NewDense(4, 4, []float64{
		1, 0.2, 0, 0,
		0.2, -0.5, 0, 0,
		0, 0, 0.7, 0,
		0, 0, 0, 0.7})
	t := uc.AddAtomType(&cell.AtomType{Label: "A", Zn: 8, Zv: 6, Grid: radial.NewExponentialGrid(300, 1e-5, 1.4),
		IndexR:  []cell.RadialIndex{{L: 0, Order: 0}, {L: 1, Order: 0}},
		Aug:     cell.GaussianAugmentation{Q: mat.DenseCopyOf(q), Beta: 3},
		DIon:    dion,
		Hubbard: &cell.HubbardChannel{L: 1, U: 0.2},
	})
	t.LocalFormFactor = func(g float64) float64 {
		return -6 * math.Exp(-g*g/4)
	}
	for _, p := range [][3]float64{{0, 0, 0}, {0.5, 0.25, 0.1}} {
		if _, err := uc.AddAtom(t.ID, p); err != nil {
			Te.Fatal(err)
		}
	}
	if err := uc.Initialize(); err != nil {
		Te.Fatal(err)
	}
	return uc
}

func testOptions(mode Mode) *Options {
	o := DefaultOptions()
	o.Mode = mode
	o.LmaxRho, o.LmaxPot = 2, 2
	o.Threads = 2
	o.Logger = quiet
	return o
}

//localIndex returns the local index of the vector with Miller indices m, or -1.
func localIndex(gv *cell.Gvec, m [3]int) int {
	for ig := 0; ig < gv.Count(); ig++ {
		if gv.Miller(gv.Offset()+ig) == m {
			return ig
		}
	}
	return -1
}

//constSource sets the potential and the magnetic field to constants.
type constSource struct{ v, b float64 }

func (s constSource) Populate(p *Potential, d Density) error {
	set := func(f *field.Field, x float64) {
		pw := f.MutPW()
		if p.gv.Offset() == 0 {
			pw[0] = complex(x, 0)
		}
		f.FFTTransform(+1)
	}
	set(p.EffectivePotential(), s.v)
	for j := 0; j < p.Options().NumMagDims; j++ {
		set(p.EffectiveMagneticField(j), s.b)
	}
	return nil
}

//gga is a fake functional with a constant derivative with respect to sigma.
type gga struct{ c float64 }

func (g *gga) Label() string { return "test-gga" }
func (g *gga) IsGGA() bool { return true }
func (g *gga) IsVdW() bool { return false }
func (g *gga) SetDensThreshold(float64) {}
func (g *gga) UpdateUnitCell([3][3]float64) {}
func (g *gga) Evaluate(in *xc.Input, out *xc.Output) error {
	for i := range in.Up {
		out.VSigmaUU[i] += g.c
	}
	return nil
}

func TestNewErrors(Te *testing.T) {
	uc := gaussianCell(Te)
	gv := cell.NewGvec(uc, 3, comm.Self())
	if _, err := New(nil, gv, nil, nil, testOptions(Augmented)); err == nil {
		Te.Error("nil cell accepted")
	}
	other := gaussianCell(Te)
	if _, err := New(other, gv, nil, nil, testOptions(Augmented)); err == nil {
		Te.Error("vectors of another cell accepted")
	}
	if _, err := New(uc, gv, nil, []xc.Functional{&gga{1}}, testOptions(Augmented)); err == nil {
		Te.Error("GGA accepted in the augmented mode")
	}
	o := testOptions(Augmented)
	o.NumMagDims = 2
	if _, err := New(uc, gv, nil, nil, o); err == nil {
		Te.Error("2 magnetic dimensions accepted")
	}
	o = testOptions(Augmented)
	o.ProcessingUnit = "abacus"
	if _, err := New(uc, gv, nil, nil, o); err == nil {
		Te.Error("unknown processing unit accepted")
	}
	uc.AddAtomType(&cell.AtomType{Label: "Ne", Zn: 10, Grid: radial.NewExponentialGrid(100, 1e-5, 2)})
	_, err := New(uc, gv, nil, nil, testOptions(Augmented))
	if err == nil {
		Te.Error("uninitialized cell accepted")
	}
	fmt.Println("expected error:", err)
}

func TestNewLayout(Te *testing.T) {
	uc := gaussianCell(Te)
	gv := cell.NewGvec(uc, 3, comm.Self())
	o := testOptions(Augmented)
	o.SHTLmax = 4
	o.NumMagDims = 3
	o.Relativity = IORA
	p, err := New(uc, gv, nil, nil, o)
	if err != nil {
		Te.Fatal(err)
	}
	if p.SHT().Lmax() != 4 || p.EffectivePotential().Lmmax() != 9 {
		Te.Error("wrong expansion orders", p.SHT().Lmax(), p.EffectivePotential().Lmmax())
	}
	if p.LocalPotential() != nil || p.DVeff() != nil {
		Te.Error("pseudopotential buffers in the augmented mode")
	}
	if len(p.VeffPW()) != gv.Num() || len(p.RmInvPW()) != gv.Num() || len(p.Rm2InvPW()) != gv.Num() {
		Te.Error("wrong relativity buffers")
	}
	if p.sbesselMom[0][0][0] != 9 {
		Te.Error("wrong G=0 moment", p.sbesselMom[0][0][0])
	}
	if _, err := p.NonLocalD(); err == nil {
		Te.Error("D operator in the augmented mode")
	}
	uc2 := ppCell(Te)
	pp, err := New(uc2, cell.NewGvec(uc2, 4, comm.Self()), nil, nil, testOptions(Pseudopotential))
	if err != nil {
		Te.Fatal(err)
	}
	if pp.EffectivePotential().HasMT() || pp.SHT().Lmax() != 2 {
		Te.Error("wrong pseudopotential layout")
	}
	if len(pp.DMatrix(1)) != 1 || pp.HubbardPotential() != nil {
		Te.Error("wrong D matrices or unexpected Hubbard potential")
	}
}

func TestBuffersFor(Te *testing.T) {
	if b := buffersFor(NonRelativistic); !b.veff || b.rmInv || b.rm2Inv {
		Te.Error("non-relativistic", b)
	}
	if b := buffersFor(ZORA); !b.veff || !b.rmInv || b.rm2Inv {
		Te.Error("zora", b)
	}
	if b := buffersFor(IORA); !b.veff || !b.rmInv || !b.rm2Inv {
		Te.Error("iora", b)
	}
}
