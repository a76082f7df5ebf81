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

/*Package sf contains the special functions needed by the potential code: the (l,m)
index helpers, real spherical harmonics, spherical Bessel functions and the Gamma-factor
products used by the pseudo-charge Poisson solver.

Real spherical harmonics are ordered with lm = l*l + l + m, m = -l...l. The functions
with m>0 carry cos(m*phi), those with m<0 carry sin(|m|*phi). They are orthonormal over the
unit sphere, and the addition theorem (and hence the Rayleigh expansion of a plane wave)
holds for them exactly as for the complex ones.
*/
package sf
