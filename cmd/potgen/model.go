/*
 * model.go, part of gopot.
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

package main

import (
	"fmt"
	"math"

	"github.com/rmera/gopot"
	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/radial"
	"github.com/rmera/gopot/sf"
)

//model is a small system the potential can be generated for.
type model struct {
	name    string
	lattice float64 //side of the cubic cell
	z       int
	alpha   float64 //exponent of the gaussian electron density
}

//cell builds the unit cell of the model. The "atom" model is one atom whose sphere
//holds a gaussian electron density. The "ions" model is a simple cubic lattice of ions with
//a gaussian local potential, screened by a uniform electron gas.
func (m model) cell() (*cell.UnitCell, error) {
	a := m.lattice
	uc, err := cell.NewUnitCell([3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}})
	if err != nil {
		return nil, err
	}
	R := 0.375 * a
	t := &cell.AtomType{Label: m.name, Zn: m.z, Zv: float64(m.z), MTRadius: R,
		Grid: radial.NewExponentialGrid(1500, 1e-6, R)}
	switch m.name {
	case "atom":
		t.IndexR = []cell.RadialIndex{{L: 0, Order: 0}, {L: 1, Order: 0}}
	case "ions":
		zv, rc := float64(m.z), 0.5
		t.LocalFormFactor = func(g float64) float64 {
			if g < 1e-10 {
				return 0
			}
			return -4 * math.Pi * zv * math.Exp(-g*g*rc*rc/4) / (g * g)
		}
	default:
		return nil, fmt.Errorf("unknown model %q", m.name)
	}
	uc.AddAtomType(t)
	if _, err := uc.AddAtom(t.ID, [3]float64{}); err != nil {
		return nil, err
	}
	return uc, uc.Initialize()
}

//density fills d with the electron density of the model.
func (m model) density(p *pot.Potential, uc *cell.UnitCell, d *pot.FixedDensity) {
	rho := d.Rho()
	if m.name == "ions" {
		pw := rho.MutPW()
		if p.EffectivePotential().Gvec().Offset() == 0 {
			pw[0] = complex(float64(m.z)/uc.Omega(), 0)
		}
		rho.FFTTransform(+1)
		return
	}
	atoms := rho.Atoms()
	for iloc := 0; iloc < atoms.LocalSize(); iloc++ {
		ia := atoms.GlobalIndex(iloc)
		mt := rho.MutMT(ia)
		for i, r := range uc.Atoms[ia].Type.Grid.Points() {
			mt.Set(0, i, float64(m.z)*math.Pow(m.alpha/math.Pi, 1.5)*math.Exp(-m.alpha*r*r)/sf.Y00)
		}
	}
	rho.SyncMT()
}
