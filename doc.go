/*
 * doc.go, part of goXtal.
 *
 * Copyright 2025 mfaundezaatacademicosdotutadotcl
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
 * goXtal is developed at Universidad de Tarapaca (UTA)
 *
 */

/*Package xtal is the main package of the goXtal library. It provides unit-cell,
symmetry, atom-site and geometry structures for small-molecule crystallography,
built on top of the cif subpackage, which reads and writes CIF/STAR files.


	**goXtal Capabilities**


    Reads/writes CIF files, including gzip- and zstd-compressed ones
	(the latter via the cif subpackage).

    Parses numeric values with standard uncertainties, e.g. 8.7379(2).

    Builds the unit-cell matrix from cell parameters and back, computes
	cell volumes, metric tensors, and converts between fractional and
	cartesian coordinates.

    Parses and applies symmetry operations in Jones-faithful notation
	("1/2-x, 1/2+y, -z") and symmetry codes such as "3_655".

    Validates a structure against its own geometry tables: every published
	bond distance, angle and torsion is recomputed from the coordinates and
	compared within a tolerance.

    Assigns bonds from covalent radii, including bonds to symmetry images.

    Expands the asymmetric unit to the full cell contents, merging atoms
	on special positions.

    Structures can be turned into gonum graphs (xtalgraph subpackage),
	plotted as cell projections (xtalplot) and JSON encoded for interchange
	with other programs (xtaljson).


Coordinates follow the row-vector convention: the unit-cell matrix has the
lattice vectors as rows, and a cartesian position is obtained as frac*M.
This matches the lower-triangular cell construction used by most
crystallographic codes.*/
package xtal
