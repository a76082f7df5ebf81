/*
 * main.go, part of gopot.
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

/*Command potgen generates the effective potential of small model systems over a group of
in-process ranks, and reports a summary of the result. The spherical potential of the
atom model can also be plotted.*/
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/rmera/gopot"
	"github.com/rmera/gopot/cell"
	"github.com/rmera/gopot/checkpoint"
	"github.com/rmera/gopot/comm"
	"github.com/rmera/gopot/potplot"
	"github.com/rmera/gopot/sf"
	"github.com/rmera/gopot/xc"
	"github.com/spf13/cobra"
)

var (
	configFile string
	modelName  string
	lattice    float64
	charge     int
	alpha      float64
	gmax       float64
	ranks      int
	plotFile   string
	verbose    bool
)

//summary is what rank 0 reports after a generation.
type summary struct {
	Model  string
	Hash   string
	VhEl   float64
	Ewald  float64
	Vmin   float64
	NumG   int
	Plot   string
	NumMag int
}

func (s summary) write(w io.Writer) {
	fmt.Fprintf(w, "model %s: %d reciprocal vectors, %d magnetic dimensions\n", s.Model, s.NumG, s.NumMag)
	fmt.Fprintf(w, "V(G) hash:       %s\n", s.Hash)
	fmt.Fprintf(w, "min V(r):        %.8f\n", s.Vmin)
	if s.Model == "atom" {
		fmt.Fprintf(w, "V_H,el(nucleus): %.8f\n", s.VhEl)
	} else {
		fmt.Fprintf(w, "Ewald energy:    %.8f\n", s.Ewald)
	}
	if s.Plot != "" {
		fmt.Fprintf(w, "plot written to %s\n", s.Plot)
	}
}

//run generates the potential of m with the options o on n ranks.
func run(m model, o *pot.Options, n int, gmax float64, plot string) (summary, error) {
	if _, err := xc.NewList(o.XCFunctionals); err != nil {
		return summary{}, err
	}
	if m.name == "ions" {
		o.Mode = pot.Pseudopotential
	} else {
		o.Mode = pot.Augmented
	}
	var ret summary
	err := comm.Run(n, func(c comm.Communicator) error {
		//each rank has its own copy of the cell and the functionals.
		uc, err := m.cell()
		if err != nil {
			return err
		}
		fs, err := xc.NewList(o.XCFunctionals)
		if err != nil {
			return err
		}
		ro := *o
		p, err := pot.New(uc, cell.NewGvec(uc, gmax, c), c, fs, &ro)
		if err != nil {
			return err
		}
		d := p.NewDensity()
		m.density(p, uc, d)
		if err := p.Generate(d, false, true); err != nil {
			return err
		}
		if c.Rank() != 0 {
			return nil
		}
		v := p.EffectivePotential()
		ret = summary{Model: m.name, NumG: v.Gvec().Num(), NumMag: o.NumMagDims, Ewald: p.EwaldEnergy(),
			Hash: fmt.Sprintf("%016x", checkpoint.HashComplex(v.PW()))}
		ret.Vmin = v.RG()[0]
		for _, x := range v.RG() {
			ret.Vmin = min(ret.Vmin, x)
		}
		if m.name == "atom" {
			ret.VhEl = p.VhEl(0)
			if plot != "" {
				return plotAtom(p, uc, plot, &ret)
			}
		}
		return nil
	})
	return ret, err
}

func plotAtom(p *pot.Potential, uc *cell.UnitCell, name string, s *summary) error {
	r := uc.Types[0].Grid.Points()
	curves, err := potplot.Channels(r, p.HartreePotential().MT(0), []int{0}, sf.Y00)
	if err != nil {
		return err
	}
	curves[0].Label = "Hartree"
	veff, err := potplot.Channels(r, p.EffectivePotential().MT(0), []int{0}, sf.Y00)
	if err != nil {
		return err
	}
	veff[0].Label = "effective"
	if err := potplot.Radial(append(curves, veff...), "Spherical potential", name, 20); err != nil {
		return err
	}
	s.Plot = name
	return nil
}

func options() (*pot.Options, error) {
	o := pot.DefaultOptions()
	if configFile != "" {
		var err error
		if o, err = pot.LoadOptions(configFile); err != nil {
			return nil, err
		}
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
		o.PrintHash = true
	}
	o.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return o, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "potgen",
		Short: "Generate effective potentials of model systems",
	}
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Generate the potential of a model system and report it",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := options()
			if err != nil {
				return err
			}
			m := model{name: modelName, lattice: lattice, z: charge, alpha: alpha}
			s, err := run(m, o, ranks, gmax, plotFile)
			if err != nil {
				return err
			}
			s.write(cmd.OutOrStdout())
			return nil
		},
	}
	f := gen.Flags()
	f.StringVarP(&configFile, "config", "c", "", "yaml file with the options of the potential")
	f.StringVarP(&modelName, "model", "m", "atom", "model system: atom or ions")
	f.Float64Var(&lattice, "lattice", 8, "side of the cubic cell (bohr)")
	f.IntVar(&charge, "z", 2, "nuclear (atom) or ionic (ions) charge")
	f.Float64Var(&alpha, "alpha", 5, "exponent of the gaussian density of the atom model")
	f.Float64Var(&gmax, "gmax", 4, "plane-wave cutoff (1/bohr)")
	f.IntVarP(&ranks, "ranks", "n", 1, "number of in-process ranks")
	f.StringVarP(&plotFile, "plot", "p", "", "file for the plot of the potential in the sphere (atom model)")
	f.BoolVarP(&verbose, "verbose", "v", false, "debug logging and checkpoint hashes")
	root.AddCommand(gen)
	root.AddCommand(&cobra.Command{
		Use:   "functionals",
		Short: "List the available exchange-correlation functionals",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(xc.Labels(), "\n"))
		},
	})
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
