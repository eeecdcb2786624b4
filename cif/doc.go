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

/*Package cif reads and writes CIF (Crystallographic Information File)
files, the STAR-derived format used to deposit small-molecule crystal
structures.

The package works at the syntactic level: a Document is a list of data
blocks, each holding scalar tag-value items and loop_ tables of string
fields. Quoting ('...', "..." and multi-line ; text fields) is removed
on reading and reinstated as needed on writing, so the values
themselves survive a read-write-read cycle unchanged. Interpretation
of the values (numbers, uncertainties, symmetry operations) belongs to
the parent xtal package.

Errors carry the 1-based line number and, where it applies, the tag
involved.

ReadFile and WriteFile handle gzip- and zstd-compressed files
transparently, keyed on the .gz and .zst filename extensions.*/
package cif
