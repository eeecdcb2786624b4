/*
 * cell.go, part of goXtal.
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

	"gonum.org/v1/gonum/mat"
)

const deg2rad = math.Pi / 180

//Cell is a crystallographic unit cell. Lengths are in Angstrom,
//angles in degrees. Volume holds the deposited value, if any;
//ComputedVolume always recomputes from the parameters.
type Cell struct {
	A, B, C            Val
	Alpha, Beta, Gamma Val
	Volume             Val
	FormulaUnitsZ      int
	MeasurementTemp    Val
	MeasReflnsUsed     int
	MeasThetaMin       Val
	MeasThetaMax       Val
}

//NewCell builds a Cell from plain parameters, without uncertainties.
func NewCell(a, b, c, alpha, beta, gamma float64) *Cell {
	return &Cell{
		A: Val{V: a}, B: Val{V: b}, C: Val{V: c},
		Alpha: Val{V: alpha}, Beta: Val{V: beta}, Gamma: Val{V: gamma},
	}
}

//Matrix returns the cell matrix in the lower-triangular convention:
//the rows are the lattice vectors a, b, c, with a along the cartesian
//x axis and b in the xy plane. A cartesian position is frac*M (row
//vector times matrix).
func (cell *Cell) Matrix() *mat.Dense {
	if cell == nil {
		panic(ErrNilCell)
	}
	a, b, c := cell.A.V, cell.B.V, cell.C.V
	ca := math.Cos(cell.Alpha.V * deg2rad)
	cb := math.Cos(cell.Beta.V * deg2rad)
	cg := math.Cos(cell.Gamma.V * deg2rad)
	sg := math.Sin(cell.Gamma.V * deg2rad)
	c1 := c * cb
	c2 := c * (ca - cb*cg) / sg
	c3sq := c*c - c1*c1 - c2*c2
	if c3sq <= 0 {
		panic(PanicMsg("goXtal: cell angles do not define a proper cell"))
	}
	return mat.NewDense(3, 3, []float64{
		a, 0, 0,
		b * cg, b * sg, 0,
		c1, c2, math.Sqrt(c3sq),
	})
}

//CellFromMatrix recovers the six cell parameters from a cell matrix
//whose rows are the lattice vectors. It is the inverse of Matrix up to
//an overall rotation.
func CellFromMatrix(m *mat.Dense) *Cell {
	va := m.RawRowView(0)
	vb := m.RawRowView(1)
	vc := m.RawRowView(2)
	norm := func(v []float64) float64 {
		return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	}
	dot := func(u, v []float64) float64 {
		return u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
	}
	a, b, c := norm(va), norm(vb), norm(vc)
	alpha := math.Acos(dot(vb, vc)/(b*c)) / deg2rad
	beta := math.Acos(dot(va, vc)/(a*c)) / deg2rad
	gamma := math.Acos(dot(va, vb)/(a*b)) / deg2rad
	return NewCell(a, b, c, alpha, beta, gamma)
}

//ComputedVolume returns the cell volume in cubic Angstrom, computed
//from the cell parameters (not the deposited _cell_volume value).
func (cell *Cell) ComputedVolume() float64 {
	return mat.Det(cell.Matrix())
}

//Metric returns the metric tensor G = M*M^T, so that the dot product
//of two direct-space vectors in fractional coordinates is u*G*v.
func (cell *Cell) Metric() *mat.Dense {
	m := cell.Matrix()
	g := mat.NewDense(3, 3, nil)
	g.Mul(m, m.T())
	return g
}

//Cart converts a fractional position to cartesian.
func (cell *Cell) Cart(frac [3]float64) [3]float64 {
	m := cell.Matrix()
	return cart(m, frac)
}

func cart(m *mat.Dense, frac [3]float64) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = frac[0]*m.At(0, j) + frac[1]*m.At(1, j) + frac[2]*m.At(2, j)
	}
	return out
}

//Frac converts a cartesian position to fractional.
func (cell *Cell) Frac(c [3]float64) [3]float64 {
	m := cell.Matrix()
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		panic(ErrSingularMatrix)
	}
	return cart(&inv, c)
}

//Distance returns the cartesian distance between two fractional
//positions, without considering periodic images.
func (cell *Cell) Distance(f1, f2 [3]float64) float64 {
	c1 := cell.Cart(f1)
	c2 := cell.Cart(f2)
	dx := c1[0] - c2[0]
	dy := c1[1] - c2[1]
	dz := c1[2] - c2[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

//reciprocalLengths returns the lengths of the reciprocal lattice
//vectors a*, b*, c*. With row lattice vectors they are the column
//norms of the inverse cell matrix.
func (cell *Cell) reciprocalLengths() [3]float64 {
	m := cell.Matrix()
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		panic(ErrSingularMatrix)
	}
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = math.Sqrt(inv.At(0, j)*inv.At(0, j) +
			inv.At(1, j)*inv.At(1, j) + inv.At(2, j)*inv.At(2, j))
	}
	return out
}
