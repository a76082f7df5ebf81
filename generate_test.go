/*
 * generate_test.go, part of gopot.
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
	"bytes"
	"log/slog"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/checkpoint"
	"github.com/rmera/gopot/comm"
	"github.com/rmera/gopot/field"
	"github.com/rmera/gopot/hubbard"
	"github.com/rmera/gopot/sf"
	"github.com/rmera/gopot/xc"
	"gonum.org/v1/gonum/mat"
)

//smoothDensity puts in d a uniform density plus a cosine along the first lattice vector.
func smoothDensity(Te *testing.T, p *Potential, d *FixedDensity, rho0, a float64) {
	pw := d.Rho().MutPW()
	if p.gv.Offset() == 0 {
		pw[0] = complex(rho0, 0)
	}
	for _, m := range [][3]int{{1, 0, 0}, {-1, 0, 0}} {
		if ig := localIndex(p.gv, m); ig >= 0 {
			pw[ig] = complex(a/2, 0)
		}
	}
	d.Rho().FFTTransform(+1)
}

func TestGenerateIdempotent(Te *testing.T) {
	uc := ppCell(Te)
	funcs, err := xc.NewList([]string{"XC_LDA_X"})
	if err != nil {
		Te.Fatal(err)
	}
	var logs bytes.Buffer
	o := testOptions(Pseudopotential)
	o.PrintHash = true
	o.CheckpointDir = filepath.Join(Te.TempDir(), "ckp")
	o.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	p, err := New(uc, cell.NewGvec(uc, 4, comm.Self()), nil, funcs, o)
	if err != nil {
		Te.Fatal(err)
	}
	d := p.NewDensity()
	smoothDensity(Te, p, d, 0.05, 0.02)
	if err := p.Generate(d, false, false); err != nil {
		Te.Fatal(err)
	}
	h1 := checkpoint.HashComplex(p.EffectivePotential().PW())
	if err := p.Generate(d, false, false); err != nil {
		Te.Fatal(err)
	}
	if h2 := checkpoint.HashComplex(p.EffectivePotential().PW()); h1 != h2 {
		Te.Error("two generations from the same density differ")
	}
	if field.MaxAbs(realParts(p.DVeff())) != 0 {
		Te.Error("the potential changed in the second generation")
	}
	if n := strings.Count(logs.String(), "msg=checkpoint"); n != 6 {
		Te.Error("expected 6 checkpoint lines, got", n)
	}
	files, err := os.ReadDir(o.CheckpointDir)
	if err != nil {
		Te.Fatal(err)
	}
	if len(files) != 6 {
		Te.Fatal("expected 6 snapshots, got", len(files))
	}
	s, err := checkpoint.Read(filepath.Join(o.CheckpointDir, files[5].Name()))
	if err != nil {
		Te.Fatal(err)
	}
	if s.Label != "V(G)" || s.Header["view"] != "pw" || checkpoint.HashComplex(s.Values) != h1 {
		Te.Error("wrong last snapshot", s.Label, s.Header)
	}
}

func realParts(x []complex128) []float64 {
	ret := make([]float64, 2*len(x))
	for i, v := range x {
		ret[2*i], ret[2*i+1] = real(v), imag(v)
	}
	return ret
}

//counter is a Symmetrizer that leaves the fields unchanged, and counts its calls.
type counter struct{ n, nmag int }

func (c *counter) Symmetrize(veff *field.Field, beff []*field.Field) error {
	c.n++
	c.nmag = len(beff)
	veff.MutPW()
	return nil
}

func TestSymmetrize(Te *testing.T) {
	uc := ppCell(Te)
	gv := cell.NewGvec(uc, 4, comm.Self())
	o := testOptions(Pseudopotential)
	o.NumMagDims = 1
	p, err := New(uc, gv, nil, nil, o, WithSource(constSource{v: 0.1, b: 0.01}))
	if err != nil {
		Te.Fatal(err)
	}
	d := p.NewDensity()
	if err := p.Generate(d, true, true); err == nil {
		Te.Error("symmetrization without a symmetrizer accepted")
	}
	sym := &counter{}
	p, err = New(uc, gv, nil, nil, o, WithSource(constSource{v: 0.1, b: 0.01}), WithSymmetrizer(sym))
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.Generate(d, true, true); err != nil {
		Te.Fatal(err)
	}
	if sym.n != 1 || sym.nmag != 1 {
		Te.Error("wrong symmetrizer calls", sym.n, sym.nmag)
	}
	if p.EffectivePotential().Stale() != 0 || math.Abs(p.EffectivePotential().RG()[7]-0.1) > 1e-14 {
		Te.Error("box values not recomputed after the symmetrization")
	}
	if err := p.Generate(d, true, false); err != nil {
		Te.Fatal(err)
	}
	if p.EffectivePotential().Stale()&field.RG == 0 {
		Te.Error("box values recomputed without transformToRG")
	}
}

//TestDMatrix uses a constant potential and magnetic field, for which D_ij = V0 Q_ij.
func TestDMatrix(Te *testing.T) {
	uc := ppCell(Te)
	gv := cell.NewGvec(uc, 4, comm.Self())
	o := testOptions(Pseudopotential)
	o.NumMagDims = 1
	v0, b0 := -0.3, 0.05
	p, err := New(uc, gv, nil, nil, o, WithSource(constSource{v: v0, b: b0}))
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.Generate(p.NewDensity(), false, false); err != nil {
		Te.Fatal(err)
	}
	t := uc.Types[0]
	for ia := range uc.Atoms {
		d := p.DMatrix(ia)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				q := t.Aug.Q0(i, j)
				if e := v0*q + t.DIon.At(i, j); math.Abs(d[0].At(i, j)-e) > 1e-12 {
					Te.Errorf("atom %d D0(%d,%d)=%v, expected %v", ia, i, j, d[0].At(i, j), e)
				}
				if e := b0 * q; math.Abs(d[1].At(i, j)-e) > 1e-12 {
					Te.Errorf("atom %d Dz(%d,%d)=%v, expected %v", ia, i, j, d[1].At(i, j), e)
				}
			}
		}
	}
	if p.DVeff()[0] != complex(v0, 0) {
		Te.Error("wrong change of the potential", p.DVeff()[0])
	}
	op, err := p.NonLocalD()
	if err != nil {
		Te.Fatal(err)
	}
	if v, e := op.Value(1, 0, 1, 1), complex(p.DMatrix(1)[0].At(1, 0)-p.DMatrix(1)[1].At(1, 0), 0); cmplx.Abs(v-e) > 1e-14 {
		Te.Error("wrong down-down channel", v, e)
	}
}

type onsite struct{ called bool }

func (o *onsite) Generate(p *Potential, d Density) error {
	o.called = true
	p.DMatrix(0)[0].Set(0, 0, 42)
	return nil
}

func TestHubbardAndAux(Te *testing.T) {
	uc := ppCell(Te)
	gv := cell.NewGvec(uc, 4, comm.Self())
	o := testOptions(Pseudopotential)
	o.HubbardCorrection = true
	o.ReduceAuxBF = 0.5
	oc := &onsite{}
	p, err := New(uc, gv, nil, nil, o, WithSource(constSource{v: 0.1}), WithOnSite(oc))
	if err != nil {
		Te.Fatal(err)
	}
	if p.AuxBF(2, 1) != 1 {
		Te.Error("auxiliary field not initialized", p.AuxBF(2, 1))
	}
	d := p.NewDensity()
	occ := hubbard.NewMatrix(uc, 0)
	for ia := range uc.Atoms {
		for i := 0; i < 3; i++ {
			occ.Local(ia)[0].Set(i, i, 0.5)
		}
	}
	d.SetOccupationMatrix(occ)
	for k := 0; k < 2; k++ {
		if err := p.Generate(d, false, false); err != nil {
			Te.Fatal(err)
		}
	}
	if p.AuxBF(0, 0) != 0.25 {
		Te.Error("wrong auxiliary field decay", p.AuxBF(0, 0))
	}
	if !oc.called || p.DMatrix(0)[0].At(0, 0) != 42 {
		Te.Error("on-site correction not applied")
	}
	//two atoms, each with 0.5*0.2*2*(0.75-0.1875)
	if math.Abs(p.HubbardEnergy()-0.225) > 1e-12 {
		Te.Error("wrong Hubbard energy", p.HubbardEnergy())
	}
	if v := p.HubbardPotential().Local(1)[0].At(2, 2); cmplx.Abs(v-0.05) > 1e-14 {
		Te.Error("wrong Hubbard potential", v)
	}
	u, err := p.NonLocalU()
	if err != nil {
		Te.Fatal(err)
	}
	if u.Kind().String() != "U" {
		Te.Error("wrong kind", u.Kind())
	}
}

func TestRelativityBuffers(Te *testing.T) {
	uc := gaussianCell(Te)
	gv := cell.NewGvec(uc, 3, comm.Self())
	o := testOptions(Augmented)
	o.Relativity = IORA
	v0 := -0.5
	p, err := New(uc, gv, nil, nil, o, WithSource(constSource{v: v0}))
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.Generate(p.NewDensity(), false, false); err != nil {
		Te.Fatal(err)
	}
	a := 0.5 / (speedOfLight * speedOfLight)
	m := 1 - a*v0
	exp := [][]complex128{p.VeffPW(), p.RmInvPW(), p.Rm2InvPW()}
	for k, v := range []float64{v0, a / m, 1 / (m * m)} {
		if cmplx.Abs(exp[k][0]-complex(v, 0)) > 1e-14 {
			Te.Error("wrong G=0 coefficient", k, exp[k][0], v)
		}
		for ig := 1; ig < gv.Num(); ig++ {
			if cmplx.Abs(exp[k][ig]) > 1e-14 {
				Te.Error("non-zero coefficient", k, ig, exp[k][ig])
				break
			}
		}
	}
}

//TestGGA uses a functional with a constant derivative c with respect to sigma, for which
//v = -2 c lap(rho).
func TestGGA(Te *testing.T) {
	uc := ppCell(Te)
	gv := cell.NewGvec(uc, 4, comm.Self())
	c := 0.3
	p, err := New(uc, gv, nil, []xc.Functional{&gga{c}}, testOptions(Pseudopotential))
	if err != nil {
		Te.Fatal(err)
	}
	if !p.IsGradientCorrection() {
		Te.Error("GGA not detected")
	}
	d := p.NewDensity()
	rho0, A := 0.05, 0.02
	smoothDensity(Te, p, d, rho0, A)
	if err := p.xc(d, false); err != nil {
		Te.Fatal(err)
	}
	g := 2 * math.Pi / 5
	dims := gv.FFTDims()
	v := p.XCPotential().RG()
	for i := range v {
		x := float64(i%dims[0]) / float64(dims[0])
		exp := 2 * c * g * g * A * math.Cos(2*math.Pi*x)
		if math.Abs(v[i]-exp) > 1e-12 {
			Te.Fatal("wrong potential at", i, v[i], exp)
		}
	}
	if vs := p.VSigma(); len(vs) != 1 || vs[0][3] != c {
		Te.Error("wrong vsigma")
	}
}

//TestMagneticXC checks that a collinear magnetization along -z gives a field along -z with
//the size of (v_up - v_dn)/2, and that the MT and box paths agree.
func TestMagneticXC(Te *testing.T) {
	uc := gaussianCell(Te)
	gv := cell.NewGvec(uc, 3, comm.Self())
	funcs, err := xc.NewList([]string{"XC_LDA_X"})
	if err != nil {
		Te.Fatal(err)
	}
	o := testOptions(Augmented)
	o.NumMagDims = 1
	p, err := New(uc, gv, nil, funcs, o)
	if err != nil {
		Te.Fatal(err)
	}
	d := p.NewDensity()
	rho, mz := 0.1, -0.04
	set := func(f *field.Field, v float64) {
		f.MutPW()[0] = complex(v, 0)
		f.FFTTransform(+1)
		mt := f.MutMT(0)
		for ir := 0; ir < uc.Types[0].Grid.Len(); ir++ {
			mt.Set(0, ir, v/sf.Y00)
		}
	}
	set(d.Rho(), rho)
	set(d.Magnetization(0), mz)
	if err := p.xc(d, false); err != nil {
		Te.Fatal(err)
	}
	in := &xc.Input{Up: []float64{(rho + math.Abs(mz)) / 2}, Dn: []float64{(rho - math.Abs(mz)) / 2}}
	out := xc.NewOutput(1, true, false)
	if err := funcs[0].Evaluate(in, out); err != nil {
		Te.Fatal(err)
	}
	bz := -0.5 * (out.VUp[0] - out.VDn[0])
	vxc := 0.5 * (out.VUp[0] + out.VDn[0])
	if b := p.EffectiveMagneticField(0).RG()[11]; math.Abs(b-bz) > 1e-12 {
		Te.Error("wrong box field", b, bz)
	}
	if v := p.XCPotential().RG()[3]; math.Abs(v-vxc) > 1e-12 {
		Te.Error("wrong box potential", v, vxc)
	}
	bmt := p.EffectiveMagneticField(0).MT(0)
	vmt := p.XCPotential().MT(0)
	if math.Abs(bmt.At(0, 100)*sf.Y00-bz) > 1e-10 || math.Abs(vmt.At(0, 100)*sf.Y00-vxc) > 1e-10 {
		Te.Error("wrong sphere values", bmt.At(0, 100)*sf.Y00, vmt.At(0, 100)*sf.Y00)
	}
	if math.Abs(mat.Sum(bmt.Slice(1, 9, 0, 3000))) > 1e-10 {
		Te.Error("non-spherical field from a spherical magnetization")
	}
}

func TestAtomicPotential(Te *testing.T) {
	uc := gaussianCell(Te)
	gv := cell.NewGvec(uc, 3, comm.Self())
	nr := uc.Types[0].Grid.Len()
	rf := mat.NewDense(nr, 1, nil)
	for i, r := range uc.Types[0].Grid.Points() {
		rf.Set(i, 0, r*math.Exp(-r))
	}
	uc.Classes[0].RadialFunctions = rf
	o := testOptions(Augmented)
	o.NumMagDims = 1
	p, err := New(uc, gv, nil, nil, o, WithSource(constSource{v: 0.2, b: 0.1}))
	if err != nil {
		Te.Fatal(err)
	}
	if err := p.GenerateRadialIntegrals(); err == nil {
		Te.Error("radial integrals without atomic potential")
	}
	if err := p.Generate(p.NewDensity(), false, false); err != nil {
		Te.Fatal(err)
	}
	//the source only sets the plane-wave part; put something in the spheres too.
	p.EffectivePotential().MutMT(0).Set(0, 10, 3)
	p.EffectivePotential().SyncMT()
	if err := p.UpdateAtomicPotential(); err != nil {
		Te.Fatal(err)
	}
	if v := uc.Classes[0].SphericalPotential(); len(v) != nr || math.Abs(v[10]-3*sf.Y00) > 1e-15 {
		Te.Error("wrong spherical potential")
	}
	if err := p.GenerateRadialIntegrals(); err != nil {
		Te.Fatal(err)
	}
	a := uc.Atoms[0]
	if a.HRadialIntegrals() == nil || a.BRadialIntegrals(0) == nil || a.HRadialIntegrals().Lmmax() != 9 {
		Te.Error("radial integrals not stored")
	}
}
