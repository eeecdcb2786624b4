/*
 * plot_test.go, part of goXtal.
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

package xtalplot

import (
	"os"
	"testing"

	xtal "github.com/mfaundez/goxtal"
	"github.com/mfaundez/goxtal/cif"
)

func readTestStructure(Te *testing.T) *xtal.Structure {
	doc, err := cif.ReadFile("../test/bdte.cif")
	if err != nil {
		Te.Fatal(err)
	}
	st, err := xtal.StructureFromBlock(doc.First())
	if err != nil {
		Te.Fatal(err)
	}
	return st
}

func TestPlaneFromString(Te *testing.T) {
	for _, c := range []struct {
		in   string
		want Plane
	}{{"ab", AB}, {"ac", AC}, {"bc", BC}, {"cb", BC}} {
		p, err := PlaneFromString(c.in)
		if err != nil {
			Te.Error(err)
		}
		if p != c.want {
			Te.Errorf("PlaneFromString(%q) = %v", c.in, p)
		}
	}
	if _, err := PlaneFromString("xy"); err == nil {
		Te.Error("PlaneFromString accepted xy")
	}
}

//TestSiteXYs checks that the plot draws the whole cell contents, not
//just the asymmetric unit.
func TestSiteXYs(Te *testing.T) {
	st := readTestStructure(Te)
	byElement := siteXYs(st, AB)
	total := 0
	for _, pts := range byElement {
		total += len(pts)
	}
	if want := len(st.Expand()); total != want {
		Te.Errorf("plot draws %d sites, the cell holds %d", total, want)
	}
	if total <= len(st.Sites) {
		Te.Errorf("plot draws %d sites, no more than the asymmetric unit (%d)", total, len(st.Sites))
	}
	for _, el := range []string{"S", "C", "H"} {
		if len(byElement[el]) == 0 {
			Te.Errorf("no %s sites in the projection", el)
		}
	}
}

//TestCellPlot draws the three projections of the reference cell and
//writes one of them out.
func TestCellPlot(Te *testing.T) {
	st := readTestStructure(Te)
	for _, plane := range []Plane{AB, AC, BC} {
		if _, err := CellPlot(st, plane); err != nil {
			Te.Errorf("%v projection: %v", plane, err)
		}
	}
	const out = "../test/bdte_ab.png"
	if err := Save(st, AB, out); err != nil {
		Te.Fatal(err)
	}
	fi, err := os.Stat(out)
	if err != nil {
		Te.Fatal(err)
	}
	if fi.Size() == 0 {
		Te.Error("empty plot file")
	}
}
