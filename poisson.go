/*
 * poisson.go, part of gopot.
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
	"math/cmplx"

	"github.com/rmera/gopot/field"
	"github.com/rmera/gopot/radial"
	"github.com/rmera/gopot/sf"
	"golang.org/x/sync/errgroup"
)

//poisson puts in the Hartree field the solution of the Poisson equation for rho.
//In the augmented mode the nuclear charges are included, and the electronic part
//of the potential at each nucleus is stored in vhEl.
func (p *Potential) poisson(rho *field.Field) error {
	if p.o.Mode == Pseudopotential {
		p.poissonPW(rho.PW())
		return nil
	}
	if err := p.poissonAugmented(rho); err != nil {
		return errDecorate(err, "poisson")
	}
	return nil
}

//hartreePW sets V(G) = 4 pi rho(G)/G^2, and V(0) = 0.
func (p *Potential) hartreePW(rho []complex128) []complex128 {
	v := p.hartree.MutPW()
	off := p.gv.Offset()
	for ig := range v {
		g := p.gv.Length(off + ig)
		if g < gZero {
			v[ig] = 0
			continue
		}
		v[ig] = rho[ig] * complex(sf.FourPi/(g*g), 0)
	}
	return v
}

func (p *Potential) poissonPW(rho []complex128) {
	p.hartreePW(rho)
	p.hartree.FFTTransform(+1)
}

func (p *Potential) poissonAugmented(rho *field.Field) error {
	if !rho.HasMT() {
		return Error{"the density has no MT view", []string{"poissonAugmented"}, true}
	}
	lmmaxRho := min(rho.Lmmax(), p.lmmaxRho)
	natoms := p.uc.NumAtoms()
	atoms := rho.Atoms()

	//true multipoles of the spheres, nuclei included.
	qmt := make([]float64, natoms*lmmaxRho)
	lbylm := sf.LByLm(sf.Lmax(lmmaxRho))
	for iloc := 0; iloc < atoms.LocalSize(); iloc++ {
		ia := atoms.GlobalIndex(iloc)
		t := p.uc.Atoms[ia].Type
		mt := rho.MT(ia)
		for lm := 0; lm < lmmaxRho; lm++ {
			q, err := moment(t.Grid, mt.RawRowView(lm), lbylm[lm])
			if err != nil {
				return errDecorate(err, "poissonAugmented")
			}
			qmt[ia*lmmaxRho+lm] = q
		}
		qmt[ia*lmmaxRho] -= float64(t.Zn) * sf.Y00
	}
	p.comm.AllReduce(qmt)

	//the same multipoles, for the plane-wave density continued inside the spheres.
	pw := rho.PW()
	qit := p.interstitialMultipoles(pw, lmmaxRho)
	for i := range qit {
		qit[i] = qmt[i] - qit[i]
	}
	dq := qit

	//the pseudo-density has the plane-wave part of rho outside the spheres and the true
	//multipoles inside them.
	rhoPs := make([]complex128, len(pw))
	copy(rhoPs, pw)
	p.addPseudoDensity(rhoPs, dq, lmmaxRho)
	vpw := p.hartreePW(rhoPs)

	vlmR := p.boundaryValues(vpw)

	//Dirichlet problem in each sphere.
	lbylm = sf.LByLm(sf.Lmax(p.lmmaxPot))
	for ia := range p.vhEl {
		p.vhEl[ia] = 0
	}
	for iloc := 0; iloc < atoms.LocalSize(); iloc++ {
		ia := atoms.GlobalIndex(iloc)
		t := p.uc.Atoms[ia].Type
		vmt := p.hartree.MutMT(ia)
		rmt := rho.MT(ia)
		for lm := 0; lm < p.lmmaxPot; lm++ {
			var r []float64
			if lm < lmmaxRho {
				r = rmt.RawRowView(lm)
			}
			zn := 0.0
			if lm == 0 {
				zn = float64(t.Zn)
			}
			v0, err := radialHartree(t.Grid, r, lbylm[lm], zn, vlmR[ia*p.lmmaxPot+lm], vmt.RawRowView(lm))
			if err != nil {
				return errDecorate(err, "poissonAugmented")
			}
			if lm == 0 {
				p.vhEl[ia] = v0 * sf.Y00
			}
		}
	}
	p.comm.AllReduce(p.vhEl)
	p.hartree.FFTTransform(+1)
	return nil
}

//moment returns the integral of f(r) r^(l+2) over the radial grid. The part between
//the origin and the first point is added assuming f is constant there.
func moment(g *radial.Grid, f []float64, l int) (float64, error) {
	s, err := radial.NewSplineFrom(g, f)
	if err != nil {
		return 0, err
	}
	r0 := g.First()
	return s.Integral(l+2) + f[0]*math.Pow(r0, float64(l+3))/float64(l+3), nil
}

//interstitialMultipoles returns, for every atom and lm, the multipole of the plane-wave
//density over the sphere. The sum over the local G vectors is reduced over the ranks.
func (p *Potential) interstitialMultipoles(pw []complex128, lmmax int) []float64 {
	natoms := p.uc.NumAtoms()
	q := make([]float64, natoms*lmmax)
	lbylm := sf.LByLm(sf.Lmax(lmmax))
	off := p.gv.Offset()
	var eg errgroup.Group
	eg.SetLimit(p.o.Threads)
	for ia := 0; ia < natoms; ia++ {
		ia := ia
		eg.Go(func() error {
			mom := p.sbesselMom[p.typeIndex(ia)]
			qa := q[ia*lmmax : (ia+1)*lmmax]
			for ig, c := range pw {
				z := complex(sf.FourPi, 0) * c * cmplx.Conj(p.gv.Phase(off+ig, ia))
				ylm := p.gvecYlm[ig]
				for lm := range qa {
					l := lbylm[lm]
					qa[lm] += real(sf.ZIL(l)*z) * ylm[lm] * mom[ig][l]
				}
			}
			return nil
		})
	}
	eg.Wait()
	p.comm.AllReduce(q)
	return q
}

//addPseudoDensity adds to rho the plane-wave coefficients of the smooth charges
//r^l (1-r^2/R^2)^n that carry the multipoles dq inside each sphere.
func (p *Potential) addPseudoDensity(rho []complex128, dq []float64, lmmax int) {
	n := p.o.PseudoDensityOrder
	omega := p.uc.Omega()
	lbylm := sf.LByLm(sf.Lmax(lmmax))
	pow2 := math.Ldexp(1, n+1)
	off := p.gv.Offset()
	var eg errgroup.Group
	eg.SetLimit(p.o.Threads)
	chunk := max(1, (len(rho)+p.o.Threads-1)/p.o.Threads)
	for i0 := 0; i0 < len(rho); i0 += chunk {
		i0 := i0
		i1 := min(i0+chunk, len(rho))
		eg.Go(func() error {
			for ig := i0; ig < i1; ig++ {
				g := p.gv.Length(off + ig)
				if g < gZero {
					for ia := 0; ia < p.uc.NumAtoms(); ia++ {
						rho[ig] += complex(math.Sqrt(sf.FourPi)*dq[ia*lmmax]/omega, 0)
					}
					continue
				}
				ylm := p.gvecYlm[ig]
				for ia, a := range p.uc.Atoms {
					it := p.typeIndex(ia)
					x := g * a.Type.MTRadius
					jl := p.sbesselMT[it][ig]
					gf := p.gammaFactorsR[it]
					var s complex128
					for lm := 0; lm < lmmax; lm++ {
						l := lbylm[lm]
						f := dq[ia*lmmax+lm] * ylm[lm] * pow2 * gf[l] * jl[l+n+1] / math.Pow(x, float64(n+1))
						s += cmplx.Conj(sf.ZIL(l)) * complex(f, 0)
					}
					rho[ig] += complex(sf.FourPi/omega, 0) * p.gv.Phase(off+ig, ia) * s
				}
			}
			return nil
		})
	}
	eg.Wait()
}

//boundaryValues returns the lm expansion of the plane-wave potential v on the surface
//of each sphere.
func (p *Potential) boundaryValues(v []complex128) []float64 {
	natoms := p.uc.NumAtoms()
	lmmax := p.lmmaxPot
	ret := make([]float64, natoms*lmmax)
	lbylm := sf.LByLm(sf.Lmax(lmmax))
	off := p.gv.Offset()
	var eg errgroup.Group
	eg.SetLimit(p.o.Threads)
	for ia := 0; ia < natoms; ia++ {
		ia := ia
		eg.Go(func() error {
			jl := p.sbesselMT[p.typeIndex(ia)]
			va := ret[ia*lmmax : (ia+1)*lmmax]
			for ig, c := range v {
				z := complex(sf.FourPi, 0) * c * cmplx.Conj(p.gv.Phase(off+ig, ia))
				ylm := p.gvecYlm[ig]
				for lm := range va {
					l := lbylm[lm]
					va[lm] += real(sf.ZIL(l)*z) * jl[ig][l] * ylm[lm]
				}
			}
			return nil
		})
	}
	eg.Wait()
	p.comm.AllReduce(ret)
	return ret
}

//radialHartree solves the radial Poisson equation of channel l inside a sphere, for the density
//rho (nil for zero density) and, for l=0, the point charge zn at the origin. vR is the value of
//the potential on the sphere. The potential is put in dst. For l=0, the electronic potential at
//the origin is returned.
func radialHartree(g *radial.Grid, rho []float64, l int, zn, vR float64, dst []float64) (float64, error) {
	r := g.Points()
	n := len(r)
	R := r[n-1]
	fl := float64(l)
	k := sf.FourPi / (2*fl + 1)
	var in, out []float64
	head := 0.0
	if rho != nil {
		s, err := radial.NewSplineFrom(g, rho)
		if err != nil {
			return 0, err
		}
		in = s.Cumulative(l+2, nil)
		out = s.Cumulative(1-l, nil)
		head = rho[0] * math.Pow(r[0], fl+3) / (fl + 3)
	}
	vpart := func(i int) float64 {
		if rho == nil {
			return 0
		}
		x := r[i]
		return k * (math.Pow(x, -fl-1)*(head+in[i]) + math.Pow(x, fl)*(out[n-1]-out[i]))
	}
	vnuc := func(x float64) float64 {
		if l != 0 || zn == 0 {
			return 0
		}
		return -zn * math.Sqrt(sf.FourPi) / x
	}
	a := vR - vpart(n-1) - vnuc(R)
	for i, x := range r {
		dst[i] = vpart(i) + vnuc(x) + a*math.Pow(x/R, fl)
	}
	if l != 0 {
		return 0, nil
	}
	v0 := a
	if rho != nil {
		v0 += k * (out[n-1] + rho[0]*r[0]*r[0]/2)
	}
	return v0, nil
}
