/*
 * potential.go, part of gopot.
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
	"log/slog"
	"math"

	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/checkpoint"
	"github.com/rmera/gopot/comm"
	"github.com/rmera/gopot/device"
	"github.com/rmera/gopot/field"
	"github.com/rmera/gopot/hubbard"
	"github.com/rmera/gopot/nonlocal"
	"github.com/rmera/gopot/sf"
	"github.com/rmera/gopot/sht"
	"github.com/rmera/gopot/xc"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

//gZero is the length below which a reciprocal vector is taken as G=0.
const gZero = 1e-10

//Potential holds the effective potential and magnetic field of a crystal, and the
//pieces they are built from.
type Potential struct {
	uc   *cell.UnitCell
	gv   *cell.Gvec
	fft  *field.FFT
	comm comm.Communicator
	o    Options
	log  *slog.Logger
	dev  device.Device

	sht      *sht.Transform
	lmax     int
	lmmaxRho int
	lmmaxPot int
	funcs    []xc.Functional

	veff    *field.Field
	beff    [3]*field.Field
	hartree *field.Field
	xcPot   *field.Field
	xcEps   *field.Field
	vsigma  [][]float64
	local   *field.Field //pseudopotential mode
	dveff   []complex128 //pseudopotential mode
	vhEl    []float64
	ewald   float64

	//tables for the pseudo-charge Poisson solver, on the local G vectors.
	gvecYlm       [][]float64
	sbesselMT     [][][]float64 //[type][ig][l]
	sbesselMom    [][][]float64 //[type][ig][l]
	gammaFactorsR [][]float64   //[type][l]

	dmtrx [][]*mat.Dense //[atom][component]
	auxBF [][3]float64

	veffPW   []complex128
	rmInvPW  []complex128
	rm2InvPW []complex128

	hub       *hubbard.Matrix
	hubEnergy float64

	source    Source
	sym       Symmetrizer
	hubSolver HubbardSolver
	onsite    OnSiteCorrection
	ckp       *checkpoint.Writer
}

//New builds a potential for the unit cell uc, with the reciprocal vectors gv distributed over c.
//funcs are the exchange-correlation functionals. If o is nil, DefaultOptions are used.
//The tables that depend on the lattice are computed before returning.
func New(uc *cell.UnitCell, gv *cell.Gvec, c comm.Communicator, funcs []xc.Functional, o *Options, opts ...Option) (*Potential, error) {
	if uc == nil || gv == nil || gv.Num() == 0 {
		return nil, Error{"unit cell or reciprocal vectors missing", []string{"New"}, true}
	}
	if !uc.Initialized() {
		return nil, Error{"the unit cell is not initialized", []string{"New"}, true}
	}
	if gv.UnitCell() != uc {
		return nil, Error{"the reciprocal vectors belong to another unit cell", []string{"New"}, true}
	}
	if o == nil {
		o = DefaultOptions()
	}
	if err := o.validate(); err != nil {
		return nil, errDecorate(err, "New")
	}
	if c == nil {
		c = comm.Self()
	}
	p := &Potential{uc: uc, gv: gv, comm: c, o: *o, log: o.logger(), funcs: funcs, source: solver{}}
	if p.o.Threads < 1 {
		p.o.Threads = 1
	}
	p.fft = field.NewFFT(gv.FFTDims(), uc.Reciprocal(), p.o.Threads)
	var err error
	if p.dev, err = device.For(p.o.ProcessingUnit, p.o.Threads); err != nil {
		return nil, Error{err.Error(), []string{"New"}, true}
	}
	augmented := p.o.Mode == Augmented
	if augmented && p.IsGradientCorrection() {
		return nil, Error{"gradient-corrected functionals are not supported inside the atomic spheres", []string{"New"}, true}
	}
	p.lmax = 2 * uc.LmaxBasis()
	if augmented {
		p.lmax = max(p.o.LmaxRho, p.o.LmaxPot)
	}
	p.lmax = max(p.lmax, p.o.SHTLmax)
	if p.sht, err = sht.New(p.lmax, p.o.SHTCoverage); err != nil {
		return nil, errDecorate(err, "New")
	}
	if p.o.Verification >= 1 {
		if err := p.sht.Check(); err != nil {
			return nil, Error{"spherical transform check failed: " + err.Error(), []string{"New"}, true}
		}
	}
	for _, f := range funcs {
		if p.o.XCDensThreshold > 0 {
			f.SetDensThreshold(p.o.XCDensThreshold)
		}
	}
	if augmented {
		p.lmmaxRho = sf.Lmmax(p.o.LmaxRho)
		p.lmmaxPot = sf.Lmmax(p.o.LmaxPot)
	}
	newField := func() *field.Field { return field.New(gv, p.fft, c, p.lmmaxPot) }
	p.veff = newField()
	for j := range p.beff {
		p.beff[j] = newField()
	}
	p.hartree = newField()
	p.xcPot = newField()
	p.xcEps = newField()
	if p.IsGradientCorrection() {
		nsigma := 1
		if p.o.NumMagDims > 0 {
			nsigma = 3
		}
		p.vsigma = make([][]float64, nsigma)
		for i := range p.vsigma {
			p.vsigma[i] = make([]float64, p.fft.Size())
		}
	}
	p.vhEl = make([]float64, uc.NumAtoms())
	if augmented {
		b := buffersFor(p.o.Relativity)
		p.veffPW = make([]complex128, gv.Num())
		if b.rmInv {
			p.rmInvPW = make([]complex128, gv.Num())
		}
		if b.rm2Inv {
			p.rm2InvPW = make([]complex128, gv.Num())
		}
	} else {
		p.local = field.New(gv, p.fft, c, 0)
		p.dveff = make([]complex128, gv.Count())
		p.dmtrx = make([][]*mat.Dense, uc.NumAtoms())
		for ia, a := range uc.Atoms {
			nbf := a.Type.MTBasisSize()
			p.dmtrx[ia] = make([]*mat.Dense, p.o.NumMagDims+1)
			for s := range p.dmtrx[ia] {
				p.dmtrx[ia][s] = mat.NewDense(max(nbf, 1), max(nbf, 1), nil)
			}
		}
	}
	p.auxBF = make([][3]float64, uc.NumAtoms())
	if p.o.ReduceAuxBF > 0 && p.o.ReduceAuxBF < 1 {
		for ia := range p.auxBF {
			p.auxBF[ia] = [3]float64{1, 1, 1}
		}
	}
	if p.o.HubbardCorrection {
		p.hub = hubbard.NewMatrix(uc, p.o.NumMagDims)
		p.hubSolver = hubbard.Dudarev{}
	}
	if p.o.CheckpointDir != "" && c.Rank() == 0 {
		if p.ckp, err = checkpoint.NewWriter(p.o.CheckpointDir); err != nil {
			return nil, errDecorate(err, "New")
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.Update(); err != nil {
		return nil, errDecorate(err, "New")
	}
	p.log.Debug("potential created", "mode", p.o.Mode, "lmax", p.lmax, "ngvec", gv.Num(),
		"fft", fmt.Sprint(gv.FFTDims()), "device", p.dev.Name(), "rank", c.Rank())
	return p, nil
}

//Update recomputes everything that depends on the lattice: the reciprocal vectors,
//the tables of the Poisson solver or, in the pseudopotential mode, the local potential
//and the Ewald energy. It must be called, by all the ranks, after the lattice changes.
func (p *Potential) Update() error {
	if p.gv.Stale() {
		p.gv.Update()
	}
	p.fft.SetReciprocal(p.uc.Reciprocal())
	if p.o.Mode == Pseudopotential {
		p.generateLocalPotential()
		p.ewald = p.ewaldEnergy()
	} else {
		if err := p.updateTables(); err != nil {
			return errDecorate(err, "Update")
		}
	}
	for _, f := range p.funcs {
		if f.IsVdW() {
			f.UpdateUnitCell(p.uc.Lattice())
		}
	}
	return nil
}

//updateTables builds the spherical harmonics and Bessel functions of the local G vectors
//used by the pseudo-charge Poisson solver.
func (p *Potential) updateTables() error {
	lmax := max(p.o.LmaxRho, p.o.LmaxPot)
	n := p.o.PseudoDensityOrder
	ng := p.gv.Count()
	off := p.gv.Offset()
	p.gvecYlm = make([][]float64, ng)
	for ig := range p.gvecYlm {
		p.gvecYlm[ig] = sf.RealYlmCart(lmax, p.gv.Cart(off+ig), nil)
	}
	ntypes := len(p.uc.Types)
	p.sbesselMT = make([][][]float64, ntypes)
	p.sbesselMom = make([][][]float64, ntypes)
	p.gammaFactorsR = make([][]float64, ntypes)
	var eg errgroup.Group
	eg.SetLimit(p.o.Threads)
	for it, t := range p.uc.Types {
		it, t := it, t
		eg.Go(func() error {
			R := t.MTRadius
			jl := make([][]float64, ng)
			mom := make([][]float64, ng)
			for ig := 0; ig < ng; ig++ {
				g := p.gv.Length(off + ig)
				jl[ig] = sf.SphericalBesselJ(lmax+n+1, g*R, nil)
				mom[ig] = make([]float64, p.o.LmaxRho+1)
				if g < gZero {
					mom[ig][0] = R * R * R / 3
					continue
				}
				for l := 0; l <= p.o.LmaxRho; l++ {
					mom[ig][l] = math.Pow(R, float64(l+2)) * jl[ig][l+1] / g
				}
			}
			gf := make([]float64, p.o.LmaxRho+1)
			for l := range gf {
				gf[l] = sf.GammaFactorR(l, n, R)
			}
			p.sbesselMT[it] = jl
			p.sbesselMom[it] = mom
			p.gammaFactorsR[it] = gf
			return nil
		})
	}
	return eg.Wait()
}

//IsGradientCorrection returns true if any of the functionals is a GGA or a vdW one.
func (p *Potential) IsGradientCorrection() bool {
	for _, f := range p.funcs {
		if f.IsGGA() || f.IsVdW() {
			return true
		}
	}
	return false
}

//typeIndex returns the position of the type of atom ia in the list of types of the cell.
func (p *Potential) typeIndex(ia int) int {
	t := p.uc.Atoms[ia].Type
	for it, u := range p.uc.Types {
		if u == t {
			return it
		}
	}
	panic(Error{fmt.Sprintf("type of atom %d not in the unit cell", ia), []string{"typeIndex"}, true})
}

//Options returns a copy of the options of the potential.
func (p *Potential) Options() Options { return p.o }

//SHT returns the spherical transform used for the exchange-correlation inside the spheres.
func (p *Potential) SHT() *sht.Transform { return p.sht }

//FFT returns the transform of the FFT box of the potential.
func (p *Potential) FFT() *field.FFT { return p.fft }

//EffectivePotential returns the effective potential.
func (p *Potential) EffectivePotential() *field.Field { return p.veff }

//EffectiveMagneticField returns the component i (0: z, 1: x, 2: y) of the effective magnetic field.
func (p *Potential) EffectiveMagneticField(i int) *field.Field { return p.beff[i] }

//HartreePotential returns the Hartree potential of the last generation.
func (p *Potential) HartreePotential() *field.Field { return p.hartree }

//XCPotential returns the exchange-correlation potential of the last generation.
func (p *Potential) XCPotential() *field.Field { return p.xcPot }

//XCEnergyDensity returns the exchange-correlation energy per particle of the last generation.
func (p *Potential) XCEnergyDensity() *field.Field { return p.xcEps }

//VSigma returns the derivatives of the energy density with respect to the
//contracted gradients, on the FFT box. It is nil for LDA functionals.
func (p *Potential) VSigma() [][]float64 { return p.vsigma }

//LocalPotential returns the local ionic potential. It is nil in the augmented mode.
func (p *Potential) LocalPotential() *field.Field { return p.local }

//DVeff returns the change of the plane-wave coefficients of the potential in the last generation,
//on the local G vectors. It is nil in the augmented mode.
func (p *Potential) DVeff() []complex128 { return p.dveff }

//DMatrix returns the non-local coefficients of atom ia: numMagDims+1 matrices.
func (p *Potential) DMatrix(ia int) []*mat.Dense { return p.dmtrx[ia] }

//HubbardPotential returns the Hubbard potential, or nil if there is no Hubbard correction.
func (p *Potential) HubbardPotential() *hubbard.Matrix { return p.hub }

//HubbardEnergy returns the Hubbard energy of the last generation.
func (p *Potential) HubbardEnergy() float64 { return p.hubEnergy }

//AuxBF returns the component x of the auxiliary constraining field of atom ia.
func (p *Potential) AuxBF(x, ia int) float64 { return p.auxBF[ia][x] }

//SetAuxBF sets the component x of the auxiliary constraining field of atom ia.
func (p *Potential) SetAuxBF(x, ia int, v float64) { p.auxBF[ia][x] = v }

//EwaldEnergy returns the ion-ion energy (pseudopotential mode).
func (p *Potential) EwaldEnergy() float64 { return p.ewald }

//VhEl returns the electronic Hartree potential at the nucleus of atom ia (augmented mode).
func (p *Potential) VhEl(ia int) float64 { return p.vhEl[ia] }

//VeffPW returns the plane-wave coefficients of the potential on all the G vectors (augmented mode).
func (p *Potential) VeffPW() []complex128 { return p.veffPW }

//RmInvPW returns the plane-wave coefficients of the ZORA factor, or nil if not needed.
func (p *Potential) RmInvPW() []complex128 { return p.rmInvPW }

//Rm2InvPW returns the plane-wave coefficients of 1/M^2, or nil if not needed.
func (p *Potential) Rm2InvPW() []complex128 { return p.rm2InvPW }

//NonLocalD returns the D operator built from the current D matrices, on the device of the potential.
func (p *Potential) NonLocalD() (*nonlocal.Operator, error) {
	if p.o.Mode != Pseudopotential {
		return nil, Error{"no D matrices in the augmented mode", []string{"NonLocalD"}, false}
	}
	op, err := nonlocal.NewD(p.uc, p, p.o.NumMagDims, p.dev)
	if err != nil {
		return nil, errDecorate(err, "NonLocalD")
	}
	return op, nil
}

//NonLocalU returns the Hubbard operator built from the current Hubbard potential.
func (p *Potential) NonLocalU() (*nonlocal.Operator, error) {
	if p.hub == nil {
		return nil, Error{"no Hubbard correction", []string{"NonLocalU"}, false}
	}
	op, err := nonlocal.NewU(p.uc, p.hub, p.dev)
	if err != nil {
		return nil, errDecorate(err, "NonLocalU")
	}
	return op, nil
}
