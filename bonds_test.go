/*
 * bonds_test.go, part of goXtal.
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
	"fmt"
	"math"
	"testing"
)

//TestAssignBonds derives bonds from the covalent radii alone and
//expects to recover exactly the published table, including the one
//bond that crosses the inversion center to a symmetry image.
func TestAssignBonds(Te *testing.T) {
	st := readTestStructure(Te)
	bonds, err := AssignBonds(st)
	if err != nil {
		Te.Fatal(err)
	}
	for _, b := range bonds {
		fmt.Println("derived:", b)
	}
	if len(bonds) != 18 {
		Te.Errorf("derived %d bonds, want 18", len(bonds))
	}
	var bridge *Bond
	for _, b := range bonds {
		if b.Label1 == "C1" && b.Label2 == "C1" {
			bridge = b
		}
	}
	if bridge == nil {
		Te.Fatal("AssignBonds missed the C1-C1 bridge")
	}
	if bridge.Sym2.Op != 3 || bridge.Sym2.Shift != [3]int{1, 0, 0} {
		Te.Errorf("bridge code %v, want 3_655", bridge.Sym2)
	}
	if math.Abs(bridge.Dist.V-1.5400) > 0.001 {
		Te.Errorf("bridge distance %.4f, want 1.5400", bridge.Dist.V)
	}
	//every hydrogen rides on exactly one carbon
	for _, s := range st.Sites {
		if s.Symbol != "H" {
			continue
		}
		n := 0
		for _, b := range bonds {
			if b.Label1 == s.Label || b.Label2 == s.Label {
				n++
			}
		}
		if n != 1 {
			Te.Errorf("%s has %d bonds, want 1", s.Label, n)
		}
	}
}

func TestAssignBondsUnknownElement(Te *testing.T) {
	st := readTestStructure(Te)
	st.Sites[0].Symbol = "Xq"
	if _, err := AssignBonds(st); err == nil {
		Te.Error("AssignBonds accepted an element with no covalent radius")
	}
}

//TestCheckBondTable verifies every published bond against the derived
//list, then shortens a published distance and expects a report.
func TestCheckBondTable(Te *testing.T) {
	st := readTestStructure(Te)
	missing, err := st.CheckBondTable()
	if err != nil {
		Te.Fatal(err)
	}
	if len(missing) != 0 {
		Te.Errorf("clean entry, but %d published bonds not reproduced: %v", len(missing), missing)
	}
	st.Bonds[0].Dist.V -= 0.2
	missing, err = st.CheckBondTable()
	if err != nil {
		Te.Fatal(err)
	}
	if len(missing) != 1 {
		Te.Errorf("one broken bond, %d reports: %v", len(missing), missing)
	}
}
