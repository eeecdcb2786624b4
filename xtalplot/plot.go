/*
 * plot.go, part of goXtal.
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

//Package xtalplot draws 2D projections of crystal structures: the
//unit-cell contents projected on a cartesian coordinate plane, with
//the cell outline, the bonds and one color per element.
package xtalplot

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	xtal "github.com/mfaundez/goxtal"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//Plane selects the projection: the cartesian plane closest to the
//named cell face.
type Plane int

const (
	AB Plane = iota //project on x, y
	AC              //project on x, z
	BC              //project on y, z
)

func (p Plane) String() string {
	switch p {
	case AB:
		return "ab"
	case AC:
		return "ac"
	case BC:
		return "bc"
	}
	return "??"
}

//PlaneFromString parses "ab", "ac" or "bc".
func PlaneFromString(s string) (Plane, error) {
	switch s {
	case "ab", "ba":
		return AB, nil
	case "ac", "ca":
		return AC, nil
	case "bc", "cb":
		return BC, nil
	}
	return AB, fmt.Errorf("xtalplot: unknown plane %q, want ab, ac or bc", s)
}

func (p Plane) project(c [3]float64) (x, y float64) {
	switch p {
	case AB:
		return c[0], c[1]
	case AC:
		return c[0], c[2]
	default:
		return c[1], c[2]
	}
}

//CellPlot builds the projection plot without saving it, so callers
//can tweak titles or add plotters before writing the file.
func CellPlot(st *xtal.Structure, plane Plane) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	if st.Chemical.FormulaSum != "" {
		p.Title.Text = fmt.Sprintf("%s (%s), %s projection", st.Name, st.Chemical.FormulaSum, plane)
	} else {
		p.Title.Text = fmt.Sprintf("%s, %s projection", st.Name, plane)
	}
	p.X.Label.Text = "A"
	p.Y.Label.Text = "A"
	if err := addCellOutline(p, st, plane); err != nil {
		return nil, err
	}
	if err := addBonds(p, st, plane); err != nil {
		return nil, err
	}
	if err := addSites(p, st, plane); err != nil {
		return nil, err
	}
	return p, nil
}

//Save renders the projection and writes it to a file. The format
//follows the extension: .png, .svg, .pdf and the other formats
//gonum/plot supports.
func Save(st *xtal.Structure, plane Plane, filename string) error {
	p, err := CellPlot(st, plane)
	if err != nil {
		return err
	}
	return p.Save(14*vg.Centimeter, 14*vg.Centimeter, filename)
}

//addCellOutline draws the projected edges of the unit cell box.
func addCellOutline(p *plot.Plot, st *xtal.Structure, plane Plane) error {
	corners := [][3]float64{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1},
		{1, 1, 0}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
	}
	edges := [][2]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 4}, {1, 5}, {2, 4},
		{2, 6}, {3, 5}, {3, 6}, {4, 7}, {5, 7}, {6, 7},
	}
	for _, e := range edges {
		xy := make(plotter.XYs, 2)
		for k, ci := range e {
			x, y := plane.project(st.Cell.Cart(corners[ci]))
			xy[k].X = x
			xy[k].Y = y
		}
		ln, err := plotter.NewLine(xy)
		if err != nil {
			return err
		}
		ln.LineStyle.Color = color.Gray{Y: 170}
		p.Add(ln)
	}
	return nil
}

//addBonds draws the bond lines for every symmetry copy in the cell,
//one bond per published table row and operation. Atom 1 of each copy
//is folded into the cell and atom 2 stays attached to it, so bonds
//crossing a cell face stick out instead of wrapping around.
func addBonds(p *plot.Plot, st *xtal.Structure, plane Plane) error {
	for _, b := range st.Bonds {
		s1 := st.Site(b.Label1)
		s2 := st.Site(b.Label2)
		if s1 == nil || s2 == nil {
			continue //CheckReferences complains elsewhere; don't fail a drawing for it
		}
		f2, err := st.SpaceGroup.ApplyCode(b.Sym2, s2.Frac())
		if err != nil {
			return err
		}
		for _, op := range st.SpaceGroup.Ops {
			g1 := op.Apply(s1.Frac())
			g2 := op.Apply(f2)
			for i := 0; i < 3; i++ {
				off := math.Floor(g1[i])
				g1[i] -= off
				g2[i] -= off
			}
			xy := make(plotter.XYs, 2)
			xy[0].X, xy[0].Y = plane.project(st.Cell.Cart(g1))
			xy[1].X, xy[1].Y = plane.project(st.Cell.Cart(g2))
			ln, err := plotter.NewLine(xy)
			if err != nil {
				return err
			}
			ln.LineStyle.Width = vg.Points(0.7)
			p.Add(ln)
		}
	}
	return nil
}

//siteXYs projects the expanded cell contents, grouped by element.
func siteXYs(st *xtal.Structure, plane Plane) map[string]plotter.XYs {
	byElement := make(map[string]plotter.XYs)
	for _, s := range st.Expand() {
		x, y := plane.project(st.Cell.Cart(s.Frac))
		byElement[s.Symbol] = append(byElement[s.Symbol], plotter.XY{X: x, Y: y})
	}
	return byElement
}

//addSites draws the expanded cell contents, one scatter per element so
//the legend stays readable.
func addSites(p *plot.Plot, st *xtal.Structure, plane Plane) error {
	byElement := siteXYs(st, plane)
	elements := make([]string, 0, len(byElement))
	for el := range byElement {
		elements = append(elements, el)
	}
	sort.Strings(elements)
	for key, el := range elements {
		sc, err := plotter.NewScatter(byElement[el])
		if err != nil {
			return err
		}
		r, g, b := colors(key, len(elements))
		sc.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 255}
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add(el, sc)
	}
	return nil
}

//takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, pp, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	pp = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r = v
		g = t
		b = pp
	case 1:
		r = q
		g = v
		b = pp
	case 2:
		r = pp
		g = v
		b = t
	case 3:
		r = pp
		g = q
		b = v
	case 4:
		r = t
		g = pp
		b = v
	default: //case 5
		r = v
		g = pp
		b = q
	}
	r = r * conversion
	g = g * conversion
	b = b * conversion
	return uint8(r), uint8(g), uint8(b)
}

func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64(key)*norm + 20.0
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	return iHVS2RGB(h, 1.0, 1.0)
}
