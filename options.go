/*
 * options.go, part of gopot.
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
	"os"
	"strings"

	"github.com/rmera/gopot/sht"
	"gopkg.in/yaml.v3"
)

//Mode is the discretization of the potential.
type Mode int

const (
	//Augmented: lm expansions inside atomic spheres plus plane waves.
	Augmented Mode = iota
	//Pseudopotential: plane waves only, plus a local ionic potential and non-local D matrices.
	Pseudopotential
)

func (M Mode) String() string {
	switch M {
	case Augmented:
		return "augmented"
	case Pseudopotential:
		return "pseudopotential"
	}
	return fmt.Sprintf("Mode(%d)", int(M))
}

func (M Mode) MarshalText() ([]byte, error) { return []byte(M.String()), nil }

func (M *Mode) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "augmented", "full_potential", "fp":
		*M = Augmented
	case "pseudopotential", "pp":
		*M = Pseudopotential
	default:
		return fmt.Errorf("unknown mode %q", string(b))
	}
	return nil
}

//Relativity is the treatment of the valence electrons.
type Relativity int

const (
	NonRelativistic Relativity = iota
	//ZORA needs the plane-wave coefficients of 1/M.
	ZORA
	//IORA needs those of 1/M and 1/M^2.
	IORA
)

func (R Relativity) String() string {
	switch R {
	case NonRelativistic:
		return "none"
	case ZORA:
		return "zora"
	case IORA:
		return "iora"
	}
	return fmt.Sprintf("Relativity(%d)", int(R))
}

func (R Relativity) MarshalText() ([]byte, error) { return []byte(R.String()), nil }

func (R *Relativity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "none", "":
		*R = NonRelativistic
	case "zora":
		*R = ZORA
	case "iora":
		*R = IORA
	default:
		return fmt.Errorf("unknown relativity %q", string(b))
	}
	return nil
}

//Options contains the parameters of a potential.
type Options struct {
	Mode    Mode `yaml:"mode"`
	LmaxRho int  `yaml:"lmax_rho"`
	LmaxPot int  `yaml:"lmax_pot"`
	//SHTLmax is a lower bound for the order of the spherical transform.
	SHTLmax     int          `yaml:"sht_lmax"`
	SHTCoverage sht.Coverage `yaml:"sht_coverage"`
	//PseudoDensityOrder is the order n of the smooth pseudo-charge, r^l (1-r^2/R^2)^n.
	PseudoDensityOrder int `yaml:"pseudo_density_order"`
	//NumMagDims is 0 (no magnetism), 1 (collinear) or 3 (non-collinear).
	NumMagDims    int        `yaml:"num_mag_dims"`
	Relativity    Relativity `yaml:"valence_relativity"`
	XCFunctionals []string   `yaml:"xc_functionals"`
	//XCDensThreshold is passed to the functionals when positive.
	XCDensThreshold float64 `yaml:"xc_dens_tre"`
	//ReduceAuxBF is the factor applied to the auxiliary constraining field after each
	//generation. It is only used when 0 < ReduceAuxBF < 1.
	ReduceAuxBF       float64 `yaml:"reduce_aux_bf"`
	HubbardCorrection bool    `yaml:"hubbard_correction"`
	//Verification >= 1 runs the self-check of the spherical transform at construction.
	Verification int `yaml:"verification"`
	//PrintHash logs content hashes of the potential at the checkpoints of a generation.
	PrintHash bool `yaml:"print_hash"`
	//CheckpointDir, if not empty, gets compressed snapshots of the potential at the checkpoints.
	CheckpointDir  string       `yaml:"checkpoint_dir"`
	Verbosity      int          `yaml:"verbosity"`
	Threads        int          `yaml:"threads"`
	ProcessingUnit string       `yaml:"processing_unit"`
	Logger         *slog.Logger `yaml:"-"`
}

//DefaultOptions returns the default options: an unpolarized augmented potential with lmax 8.
func DefaultOptions() *Options {
	return &Options{
		Mode:               Augmented,
		LmaxRho:            8,
		LmaxPot:            8,
		SHTLmax:            -1,
		SHTCoverage:        sht.CoverageMinimal,
		PseudoDensityOrder: 9,
		XCFunctionals:      []string{"XC_LDA_X"},
		Verification:       1,
		Threads:            4,
		ProcessingUnit:     "cpu",
	}
}

//LoadOptions reads options from a yaml file. The fields not in the file keep their default values.
func LoadOptions(name string) (*Options, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, Error{err.Error(), []string{"LoadOptions"}, true}
	}
	o := DefaultOptions()
	if err := yaml.Unmarshal(b, o); err != nil {
		return nil, Error{fmt.Sprintf("can't parse %s: %s", name, err.Error()), []string{"LoadOptions"}, true}
	}
	if err := o.validate(); err != nil {
		return nil, errDecorate(err, "LoadOptions")
	}
	return o, nil
}

func (o *Options) validate() error {
	switch o.NumMagDims {
	case 0, 1, 3:
	default:
		return Error{fmt.Sprintf("num_mag_dims must be 0, 1 or 3, not %d", o.NumMagDims), []string{"validate"}, true}
	}
	if o.LmaxRho < 0 || o.LmaxPot < 0 {
		return Error{"negative lmax", []string{"validate"}, true}
	}
	if o.PseudoDensityOrder < 0 {
		return Error{"negative pseudo-density order", []string{"validate"}, true}
	}
	return nil
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

//Option sets one of the collaborators of a potential.
type Option func(*Potential)

//WithSource replaces the internal solver (Hartree plus XC) with s.
func WithSource(s Source) Option {
	return func(p *Potential) { p.source = s }
}

//WithSymmetrizer sets the symmetrization used when Generate is asked to symmetrize.
func WithSymmetrizer(s Symmetrizer) Option {
	return func(p *Potential) { p.sym = s }
}

//WithHubbard sets the solver of the on-site correction. The default is hubbard.Dudarev.
func WithHubbard(h HubbardSolver) Option {
	return func(p *Potential) { p.hubSolver = h }
}

//WithOnSite sets the on-site (PAW-like) contribution to the D matrices.
func WithOnSite(o OnSiteCorrection) Option {
	return func(p *Potential) { p.onsite = o }
}
