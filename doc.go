/*
 * doc.go, part of gopot.
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

/*Package pot is the main package of the gopot library. It converts an electron density into the
effective potential of a self-consistent field calculation, and prepares what the Hamiltonian
needs from it.

	**gopot Capabilities**

    Solves the Poisson equation for a density given as plane waves plus lm expansions inside
	atomic spheres (pseudo-charge method), or as plane waves only.

    Evaluates exchange-correlation functionals on the FFT box and, in the augmented mode,
	on the angular grids of the spheres, for unpolarized, collinear and non-collinear magnetism.

    Adds the local ionic potential and computes the Ewald energy, in the pseudopotential mode.

    Builds the non-local D matrices by integrating the potential with the augmentation charges,
	and the Hubbard potential from the occupation matrices.

    Hands the spherical and non-spherical potentials over to the atoms, and assembles the radial
	integrals of the Hamiltonian.

The numeric building blocks live in sub-packages: sf (special functions), radial (grids and
splines), sht (spherical transforms), field (fields with plane-wave, real-space and sphere views),
xc (functionals), radint (radial integrals), nonlocal (packed D, Q and U operators), and comm
(process groups).

Many functions in the sub-packages panic instead of returning errors, when the error can
only come from a bug in the calling code (wrong dimensions, reading a stale view of a field).
Functions that depend on external input return errors of the Error types of each package.*/
package pot
