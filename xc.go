/*
 * xc.go, part of gopot.
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
	"math"

	"github.com/rmera/gopot/field"
	"github.com/rmera/gopot/xc"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//magThreshold is the magnetization below which no exchange-correlation field is produced.
const magThreshold = 1e-14

//xc puts in xcPot and xcEps the exchange-correlation potential and energy density of d,
//and adds the exchange-correlation magnetic field to beff. With addCore, the frozen-core
//density is added on the FFT box.
func (p *Potential) xc(d Density, addCore bool) error {
	if p.o.Mode == Augmented {
		if err := p.xcMT(d); err != nil {
			return errDecorate(err, "xc")
		}
	}
	if err := p.xcRG(d, addCore); err != nil {
		return errDecorate(err, "xc")
	}
	return nil
}

func sub(x []float64, a, b int) []float64 {
	if x == nil {
		return nil
	}
	return x[a:b]
}

//evaluate runs all the functionals on in, split in chunks over goroutines.
func (p *Potential) evaluate(in *xc.Input, out *xc.Output) error {
	n := in.Len()
	nchunk := min(p.o.Threads, max(n, 1))
	var eg errgroup.Group
	for k := 0; k < nchunk; k++ {
		a, b := k*n/nchunk, (k+1)*n/nchunk
		if a == b {
			continue
		}
		eg.Go(func() error {
			ci := &xc.Input{Up: sub(in.Up, a, b), Dn: sub(in.Dn, a, b), SigmaUU: sub(in.SigmaUU, a, b),
				SigmaUD: sub(in.SigmaUD, a, b), SigmaDD: sub(in.SigmaDD, a, b)}
			co := &xc.Output{VUp: sub(out.VUp, a, b), VDn: sub(out.VDn, a, b), Eps: sub(out.Eps, a, b),
				VSigmaUU: sub(out.VSigmaUU, a, b), VSigmaUD: sub(out.VSigmaUD, a, b), VSigmaDD: sub(out.VSigmaDD, a, b)}
			for _, f := range p.funcs {
				if err := f.Evaluate(ci, co); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

//spinDensities returns rho_up and rho_dn = (rho +- |m|)/2, and |m|.
func spinDensities(rho []float64, mag [][]float64) (up, dn, mabs []float64) {
	n := len(rho)
	up, dn, mabs = make([]float64, n), make([]float64, n), make([]float64, n)
	for i, r := range rho {
		m := 0.0
		for _, mj := range mag {
			m += mj[i] * mj[i]
		}
		m = math.Sqrt(m)
		mabs[i] = m
		up[i] = 0.5 * (r + m)
		dn[i] = 0.5 * (r - m)
	}
	return up, dn, mabs
}

//xcRG computes the exchange-correlation potential on the FFT box.
func (p *Potential) xcRG(d Density, addCore bool) error {
	nmag := p.o.NumMagDims
	n := p.fft.Size()
	rho := append([]float64(nil), d.Rho().RG()...)
	if core := d.RhoCore(); addCore && core != nil {
		if len(core) != n {
			return Error{"the core density does not match the FFT box", []string{"xcRG"}, true}
		}
		floats.Add(rho, core)
	}
	polarized := nmag > 0
	gga := p.IsGradientCorrection()
	in := &xc.Input{Up: rho}
	var mag [][]float64
	var mabs []float64
	if polarized {
		mag = make([][]float64, nmag)
		for j := range mag {
			mag[j] = d.Magnetization(j).RG()
		}
		in.Up, in.Dn, mabs = spinDensities(rho, mag)
	}
	var gUp, gDn [3][]float64
	if gga {
		gUp = p.fft.Gradient(in.Up)
		in.SigmaUU = field.Norm2(gUp)
		if polarized {
			gDn = p.fft.Gradient(in.Dn)
			in.SigmaUD = field.Dot(gUp, gDn)
			in.SigmaDD = field.Norm2(gDn)
		}
	}
	out := xc.NewOutput(n, polarized, gga)
	if err := p.evaluate(in, out); err != nil {
		return errDecorate(err, "xcRG")
	}
	if gga {
		p.gradientCorrection(out, gUp, gDn)
	}
	copy(p.xcEps.MutRG(), out.Eps)
	vxc := p.xcPot.MutRG()
	if !polarized {
		copy(vxc, out.VUp)
		return nil
	}
	b := make([][]float64, nmag)
	for j := range b {
		b[j] = p.beff[j].MutRG()
	}
	for i := range vxc {
		vxc[i] = 0.5 * (out.VUp[i] + out.VDn[i])
		if mabs[i] < magThreshold {
			continue
		}
		bxc := 0.5 * (out.VUp[i] - out.VDn[i])
		for j := range b {
			b[j][i] += bxc * mag[j][i] / mabs[i]
		}
	}
	return nil
}

//gradientCorrection subtracts from the potentials in out the divergence terms of the GGA,
//and keeps the VSigma.
func (p *Potential) gradientCorrection(out *xc.Output, gUp, gDn [3][]float64) {
	n := len(out.VUp)
	if out.VDn == nil {
		var w [3][]float64
		for x := range w {
			w[x] = make([]float64, n)
			for i := range w[x] {
				w[x][i] = 2 * out.VSigmaUU[i] * gUp[x][i]
			}
		}
		floats.Sub(out.VUp, p.fft.Divergence(w))
		copy(p.vsigma[0], out.VSigmaUU)
		return
	}
	var wu, wd [3][]float64
	for x := 0; x < 3; x++ {
		wu[x] = make([]float64, n)
		wd[x] = make([]float64, n)
		for i := 0; i < n; i++ {
			wu[x][i] = 2*out.VSigmaUU[i]*gUp[x][i] + out.VSigmaUD[i]*gDn[x][i]
			wd[x][i] = 2*out.VSigmaDD[i]*gDn[x][i] + out.VSigmaUD[i]*gUp[x][i]
		}
	}
	floats.Sub(out.VUp, p.fft.Divergence(wu))
	floats.Sub(out.VDn, p.fft.Divergence(wd))
	copy(p.vsigma[0], out.VSigmaUU)
	copy(p.vsigma[1], out.VSigmaUD)
	copy(p.vsigma[2], out.VSigmaDD)
}

//xcMT computes the exchange-correlation potential inside the spheres of the local atoms,
//on the angular grid of the spherical transform.
func (p *Potential) xcMT(d Density) error {
	rho := d.Rho()
	if !rho.HasMT() {
		return Error{"the density has no MT view", []string{"xcMT"}, true}
	}
	nmag := p.o.NumMagDims
	atoms := p.veff.Atoms()
	var eg errgroup.Group
	eg.SetLimit(p.o.Threads)
	for iloc := 0; iloc < atoms.LocalSize(); iloc++ {
		ia := atoms.GlobalIndex(iloc)
		//the mutable views are taken here, as MutMT is not safe for concurrent use.
		vx := p.xcPot.MutMT(ia)
		ex := p.xcEps.MutMT(ia)
		bx := make([]*mat.Dense, nmag)
		mags := make([]*mat.Dense, nmag)
		for j := 0; j < nmag; j++ {
			bx[j] = p.beff[j].MutMT(ia)
			mags[j] = d.Magnetization(j).MT(ia)
		}
		rmt := rho.MT(ia)
		eg.Go(func() error {
			return p.xcAtom(rmt, mags, vx, ex, bx)
		})
	}
	if err := eg.Wait(); err != nil {
		return errDecorate(err, "xcMT")
	}
	return nil
}

//toGrid transforms the lm expansion m (up to the order of the transform) to the angular grid.
func (p *Potential) toGrid(m *mat.Dense) []float64 {
	lmmax, nr := m.Dims()
	lmmax = min(lmmax, p.sht.Lmmax())
	v := p.sht.BackwardDense(m.Slice(0, lmmax, 0, nr))
	return v.RawMatrix().Data
}

//fromGrid puts in dst the lm expansion of the values on the angular grid.
func (p *Potential) fromGrid(values []float64, nr int, dst *mat.Dense, add bool) {
	lmmax, _ := dst.Dims()
	c := p.sht.ForwardDense(mat.NewDense(p.sht.NumPoints(), nr, values), lmmax)
	if add {
		dst.Add(dst, c)
		return
	}
	dst.Copy(c)
}

func (p *Potential) xcAtom(rmt *mat.Dense, mags []*mat.Dense, vx, ex *mat.Dense, bx []*mat.Dense) error {
	_, nr := rmt.Dims()
	rho := p.toGrid(rmt)
	polarized := len(mags) > 0
	in := &xc.Input{Up: rho}
	var mag [][]float64
	var mabs []float64
	if polarized {
		mag = make([][]float64, len(mags))
		for j, m := range mags {
			mag[j] = p.toGrid(m)
		}
		in.Up, in.Dn, mabs = spinDensities(rho, mag)
	}
	out := xc.NewOutput(len(rho), polarized, false)
	for _, f := range p.funcs {
		if err := f.Evaluate(in, out); err != nil {
			return err
		}
	}
	p.fromGrid(out.Eps, nr, ex, false)
	if !polarized {
		p.fromGrid(out.VUp, nr, vx, false)
		return nil
	}
	v := make([]float64, len(rho))
	b := make([][]float64, len(mag))
	for j := range b {
		b[j] = make([]float64, len(rho))
	}
	for i := range v {
		v[i] = 0.5 * (out.VUp[i] + out.VDn[i])
		if mabs[i] < magThreshold {
			continue
		}
		bxc := 0.5 * (out.VUp[i] - out.VDn[i])
		for j := range b {
			b[j][i] = bxc * mag[j][i] / mabs[i]
		}
	}
	p.fromGrid(v, nr, vx, false)
	for j := range b {
		p.fromGrid(b[j], nr, bx[j], true)
	}
	return nil
}
