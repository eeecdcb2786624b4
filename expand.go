/*
 * expand.go, part of goXtal.
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

package xtal

import "math"

//mergeDist is the cartesian distance, in Angstrom, under which two
//symmetry images count as the same atom on a special position.
const mergeDist = 0.1

//CellSite is one atom of the full unit-cell contents: a symmetry image
//of an asymmetric-unit site, folded into the [0,1) cell.
type CellSite struct {
	Label  string
	Symbol string
	Frac   [3]float64
	Op     int //1-based index of the generating operation
}

//Expand applies every symmetry operation to every site and returns
//the full contents of one unit cell, folded into [0,1). Images that
//land on each other (atoms on special positions) are merged, keeping
//the image generated by the lowest-numbered operation.
func (st *Structure) Expand() []*CellSite {
	if st == nil {
		panic(ErrNilStructure)
	}
	var out []*CellSite
	for _, s := range st.Sites {
		var images []*CellSite
		for iop, op := range st.SpaceGroup.Ops {
			f := fold(op.Apply(s.Frac()))
			dup := false
			for _, prev := range images {
				if st.sameFoldedPos(prev.Frac, f) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			images = append(images, &CellSite{Label: s.Label, Symbol: s.Symbol, Frac: f, Op: iop + 1})
		}
		out = append(out, images...)
	}
	return out
}

//Multiplicity returns the number of distinct images a position has in
//the cell: the general multiplicity of the group for a general
//position, fewer on a special position.
func (st *Structure) Multiplicity(s *Site) int {
	var images [][3]float64
	for _, op := range st.SpaceGroup.Ops {
		f := fold(op.Apply(s.Frac()))
		dup := false
		for _, prev := range images {
			if st.sameFoldedPos(prev, f) {
				dup = true
				break
			}
		}
		if !dup {
			images = append(images, f)
		}
	}
	return len(images)
}

//fold brings fractional coordinates into [0, 1).
func fold(f [3]float64) [3]float64 {
	for i := 0; i < 3; i++ {
		f[i] -= math.Floor(f[i])
		if f[i] >= 1 { //guards against -1e-17 folding to 1.0
			f[i]--
		}
	}
	return f
}

//sameFoldedPos compares two folded positions, treating coordinates
//near 0 and near 1 as neighbors.
func (st *Structure) sameFoldedPos(a, b [3]float64) bool {
	var d [3]float64
	for i := 0; i < 3; i++ {
		d[i] = a[i] - b[i]
		for d[i] > 0.5 {
			d[i]--
		}
		for d[i] < -0.5 {
			d[i]++
		}
	}
	c := st.Cell.Cart(d)
	return norm3(c) < mergeDist
}

//ComputedZ returns the number of formula units the expanded cell
//contains. When a formula sum is deposited it divides the expanded
//count of each non-hydrogen element by the formula count for that
//element (hydrogens are excluded as they are not always located).
//Without a formula it falls back to the count of asymmetric units in
//the cell, which equals Z only when the formula unit and the
//asymmetric unit coincide.
func (st *Structure) ComputedZ() int {
	if len(st.Sites) == 0 {
		return 0
	}
	exp := st.Expand()
	formula := parseFormulaSum(st.Chemical.FormulaSum)
	for sym, n := range formula {
		if sym == "H" || sym == "D" || n == 0 {
			continue
		}
		have := 0
		for _, cs := range exp {
			if cs.Symbol == sym {
				have++
			}
		}
		return int(math.Round(float64(have) / float64(n)))
	}
	return len(exp) / len(st.Sites)
}

//parseFormulaSum reads a _chemical_formula_sum value such as
//"C16 H14 S4" into element counts. An element with no trailing number
//counts once. Malformed input gives a nil map.
func parseFormulaSum(s string) map[string]int {
	out := make(map[string]int)
	i := 0
	for i < len(s) {
		if s[i] == ' ' {
			i++
			continue
		}
		if !isLetter(s[i]) {
			return nil
		}
		j := i + 1
		if j < len(s) && isLetter(s[j]) && s[j] >= 'a' {
			j++
		}
		sym := s[i:j]
		i = j
		n := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			n = n*10 + int(s[i]-'0')
			i++
		}
		if n == 0 {
			n = 1
		}
		out[sym] += n
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

//Density returns the X-ray density in g/cm3. When the formula weight
//and Z are deposited it uses those, matching the published
//_exptl_crystal_density_diffrn even when some hydrogens were not
//located; otherwise it sums the masses of the expanded cell contents.
func (st *Structure) Density() float64 {
	const amuPerCc = 1.66053907 // 1 amu/A^3 in g/cm3
	v := st.Cell.ComputedVolume()
	if st.Chemical.Weight.Known() && st.Cell.FormulaUnitsZ > 0 {
		return float64(st.Cell.FormulaUnitsZ) * st.Chemical.Weight.V * amuPerCc / v
	}
	mass := 0.0
	for _, cs := range st.Expand() {
		mass += symbolMass[cs.Symbol]
	}
	return mass * amuPerCc / v
}
