/*
 * expand_test.go, part of goXtal.
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

import (
	"math"
	"testing"
)

//TestExpand fills the cell. Every atom of the reference entry sits on
//a general position, so each of the 16 sites gives 4 images.
func TestExpand(Te *testing.T) {
	st := readTestStructure(Te)
	cellSites := st.Expand()
	if len(cellSites) != 64 {
		Te.Errorf("expanded to %d sites, want 64", len(cellSites))
	}
	for _, cs := range cellSites {
		for i := 0; i < 3; i++ {
			if cs.Frac[i] < 0 || cs.Frac[i] >= 1 {
				Te.Errorf("%s image (op %d) not folded: %v", cs.Label, cs.Op, cs.Frac)
			}
		}
	}
	perLabel := map[string]int{}
	for _, cs := range cellSites {
		perLabel[cs.Label]++
	}
	for lab, n := range perLabel {
		if n != 4 {
			Te.Errorf("%s has %d images, want 4", lab, n)
		}
	}
}

//TestExpandSpecialPosition puts an atom on the inversion center at the
//origin, where the four operations of P 1 21/a 1 give only two
//distinct images.
func TestExpandSpecialPosition(Te *testing.T) {
	st := readTestStructure(Te)
	origin := &Site{Label: "Na1", Symbol: "Na",
		X: Val{}, Y: Val{}, Z: Val{}, Occupancy: Val{V: 1}}
	if m := st.Multiplicity(origin); m != 2 {
		Te.Errorf("Multiplicity at the origin = %d, want 2", m)
	}
	general := st.Site("C5")
	if m := st.Multiplicity(general); m != 4 {
		Te.Errorf("Multiplicity of a general position = %d, want 4", m)
	}
}

func TestComputedZ(Te *testing.T) {
	st := readTestStructure(Te)
	//the molecule sits on an inversion center: the asymmetric unit is
	//half a formula unit, so the image count alone would give 4
	if z := st.ComputedZ(); z != 2 {
		Te.Errorf("ComputedZ() = %d, want 2", z)
	}
	st.Chemical.FormulaSum = ""
	if z := st.ComputedZ(); z != 4 {
		Te.Errorf("ComputedZ() without a formula = %d, want 4 asymmetric units", z)
	}
}

func TestParseFormulaSum(Te *testing.T) {
	f := parseFormulaSum("C16 H14 S4")
	if f["C"] != 16 || f["H"] != 14 || f["S"] != 4 {
		Te.Errorf("parseFormulaSum = %v", f)
	}
	f = parseFormulaSum("C2 H6 O")
	if f["O"] != 1 {
		Te.Errorf("bare element count = %d, want 1", f["O"])
	}
	if parseFormulaSum("2C") != nil {
		Te.Error("parseFormulaSum accepted a leading digit")
	}
	if parseFormulaSum("") != nil {
		Te.Error("parseFormulaSum accepted an empty formula")
	}
}

//TestDensity compares against the deposited density, which was
//computed from the full formula even though two hydrogens were not
//located in the refinement.
func TestDensity(Te *testing.T) {
	st := readTestStructure(Te)
	if d := st.Density(); math.Abs(d-1.493) > 0.002 {
		Te.Errorf("Density() = %.4f, want 1.493", d)
	}
	//without the deposited formula weight the located atoms give a
	//slightly lower value
	st.Chemical.Weight = Unknown()
	d := st.Density()
	if d >= 1.493 || d < 1.45 {
		Te.Errorf("mass-summed density = %.4f, want a bit under 1.493", d)
	}
}
