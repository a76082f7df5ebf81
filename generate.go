/*
 * generate.go, part of gopot.
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
	"strconv"

	"github.com/rmera/gopot/checkpoint"
	"github.com/rmera/gopot/field"
)

//Generate builds the effective potential and magnetic field from the density d.
//With useSymmetry, the result is symmetrized by the Symmetrizer set with WithSymmetrizer and,
//if transformToRG, the FFT box values are recomputed from the symmetrized coefficients.
//In the pseudopotential mode the change of the potential and the D matrices are also updated.
//Generate is a collective operation.
func (p *Potential) Generate(d Density, useSymmetry, transformToRG bool) error {
	pp := p.o.Mode == Pseudopotential
	if pp {
		copy(p.dveff, p.veff.PW())
	}
	p.zero()
	if err := p.source.Populate(p, d); err != nil {
		return errDecorate(err, "Generate")
	}
	if useSymmetry {
		if p.sym == nil {
			return Error{"symmetrization requested, but no symmetrizer was given", []string{"Generate"}, true}
		}
		if err := p.sym.Symmetrize(p.veff, p.magnetic()); err != nil {
			return errDecorate(err, "Generate")
		}
		if transformToRG {
			p.veff.FFTTransform(+1)
			for _, b := range p.magnetic() {
				b.FFTTransform(+1)
			}
		}
	}
	if pp {
		pw := p.veff.PW()
		for i, v := range pw {
			p.dveff[i] = v - p.dveff[i]
		}
	}
	p.checkpoint("V(G)", p.veff, true)
	if pp {
		p.generateDMatrix()
		if p.onsite != nil {
			if err := p.onsite.Generate(p, d); err != nil {
				return errDecorate(err, "Generate")
			}
		}
	} else {
		p.generatePWCoeffs()
	}
	if p.hub != nil {
		if occ := d.OccupationMatrix(); occ != nil {
			e, err := p.hubSolver.Generate(p.uc, occ, p.hub)
			if err != nil {
				return errDecorate(err, "Generate")
			}
			p.hubEnergy = e
		}
	}
	if f := p.o.ReduceAuxBF; f > 0 && f < 1 {
		for ia := range p.auxBF {
			for x := range p.auxBF[ia] {
				p.auxBF[ia][x] *= f
			}
		}
	}
	return nil
}

//zero sets the potential and the magnetic field to zero.
func (p *Potential) zero() {
	p.veff.Zero()
	for _, b := range p.beff {
		b.Zero()
	}
}

//magnetic returns the components of the magnetic field in use.
func (p *Potential) magnetic() []*field.Field {
	return p.beff[:p.o.NumMagDims]
}

//solver is the default Source: Hartree plus exchange-correlation, plus the
//local ionic potential in the pseudopotential mode.
type solver struct{}

func (solver) Populate(p *Potential, d Density) error {
	if err := p.poisson(d.Rho()); err != nil {
		return errDecorate(err, "solver.Populate")
	}
	p.veff.Add(p.hartree)
	p.checkpoint("Vha", p.veff, false)
	pp := p.o.Mode == Pseudopotential
	if pp {
		p.veff.Add(p.local)
	}
	if err := p.xc(d, pp); err != nil {
		return errDecorate(err, "solver.Populate")
	}
	p.veff.Add(p.xcPot)
	p.checkpoint("Vha+Vxc", p.veff, false)
	if !pp {
		p.veff.SyncMT()
		for _, b := range p.magnetic() {
			b.SyncMT()
		}
	}
	p.veff.FFTTransform(-1)
	for _, b := range p.magnetic() {
		b.FFTTransform(-1)
	}
	return nil
}

//checkpoint logs the hash of the PW (pw=true) or RG view of f and, on the first rank,
//writes a snapshot of it if a checkpoint directory was given.
func (p *Potential) checkpoint(label string, f *field.Field, pw bool) {
	if !p.o.PrintHash && p.ckp == nil {
		return
	}
	var h uint64
	var values []complex128
	view := "rg"
	if pw {
		view = "pw"
		values = f.PW()
		h = checkpoint.HashComplex(values)
	} else {
		rg := f.RG()
		h = checkpoint.HashFloat64(rg)
		values = make([]complex128, len(rg))
		for i, v := range rg {
			values[i] = complex(v, 0)
		}
	}
	hash := fmt.Sprintf("%016x", h)
	if p.o.PrintHash {
		p.log.Info("checkpoint", "label", label, "hash", hash, "rank", p.comm.Rank())
	}
	if p.ckp == nil {
		return
	}
	s := &checkpoint.Snapshot{Label: label, Values: values, Header: map[string]string{
		"view":  view,
		"hash":  hash,
		"rank":  strconv.Itoa(p.comm.Rank()),
		"omega": strconv.FormatFloat(p.uc.Omega(), 'g', -1, 64),
	}}
	name, err := p.ckp.Write(s)
	if err != nil {
		p.log.Warn("can't write checkpoint", "label", label, "error", err)
		return
	}
	p.log.Debug("checkpoint written", "file", name)
}
