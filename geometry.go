/*
 * geometry.go, part of goXtal.
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

	"github.com/mfaundez/goxtal/cif"
)

const appzero float64 = 0.0000001 //used to correct floating point errors

type vec3 = [3]float64

func sub3(a, b vec3) vec3 {
	return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot3(a, b vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross3(a, b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm3(a vec3) float64 {
	return math.Sqrt(dot3(a, a))
}

//VecAngle returns the angle between two cartesian vectors, in radians.
func VecAngle(v1, v2 vec3) float64 {
	argument := dot3(v1, v2) / (norm3(v1) * norm3(v2))
	//Take care of floating point math errors
	if math.Abs(argument-1) <= appzero {
		argument = 1
	} else if math.Abs(argument+1) <= appzero {
		argument = -1
	}
	angle := math.Acos(argument)
	if math.Abs(angle) <= appzero {
		return 0.00
	}
	return angle
}

//Dihedral returns the dihedral angle defined by the four cartesian
//points, in radians, in the IUPAC sign convention.
func Dihedral(a, b, c, d vec3) float64 {
	bma := sub3(b, a)
	cmb := sub3(c, b)
	dmc := sub3(d, c)
	var bmascaled vec3
	s := norm3(cmb)
	for i := 0; i < 3; i++ {
		bmascaled[i] = bma[i] * s
	}
	first := dot3(bmascaled, cross3(cmb, dmc))
	second := dot3(cross3(bma, cmb), cross3(cmb, dmc))
	return math.Atan2(first, second)
}

//Bond is one row of the published bond table: the distance between
//atom 1 and the image of atom 2 under Sym2.
type Bond struct {
	Label1, Label2 string
	Sym2           SymCode
	Dist           Val
	Publ           bool
	Line           int
}

func (b *Bond) String() string {
	if b.Sym2.IsIdentity() {
		return fmt.Sprintf("%s-%s %s", b.Label1, b.Label2, b.Dist)
	}
	return fmt.Sprintf("%s-%s(%s) %s", b.Label1, b.Label2, b.Sym2, b.Dist)
}

//Angle is one row of the published angle table: the angle at atom 2
//between the images of atoms 1 and 3, in degrees.
type Angle struct {
	Label1, Label2, Label3 string
	Sym1, Sym3             SymCode
	Value                  Val
	Publ                   bool
	Line                   int
}

//Torsion is one row of the published torsion table, in degrees.
type Torsion struct {
	Label1, Label2, Label3, Label4 string
	Sym1, Sym2, Sym3, Sym4         SymCode
	Value                          Val
	Publ                           bool
	Line                           int
}

//geometryFromBlock reads the geom_bond, geom_angle and geom_torsion
//loops, all optional.
func geometryFromBlock(b *cif.Block) ([]*Bond, []*Angle, []*Torsion, error) {
	var bonds []*Bond
	var angles []*Angle
	var torsions []*Torsion
	if l := b.Loop("_geom_bond_atom_site_label_1"); l != nil {
		for i := range l.Rows {
			bd := &Bond{Line: l.RowLine[i]}
			bd.Label1, _ = l.Field(i, "_geom_bond_atom_site_label_1")
			bd.Label2, _ = l.Field(i, "_geom_bond_atom_site_label_2")
			var err error
			if bd.Dist, err = loopVal(l, i, "_geom_bond_distance"); err != nil {
				return nil, nil, nil, errDecorate(err, "geometryFromBlock")
			}
			if bd.Sym2, err = loopCode(l, i, "_geom_bond_site_symmetry_2"); err != nil {
				return nil, nil, nil, errDecorate(err, "geometryFromBlock")
			}
			bd.Publ = loopFlag(l, i, "_geom_bond_publ_flag")
			bonds = append(bonds, bd)
		}
	}
	if l := b.Loop("_geom_angle_atom_site_label_1"); l != nil {
		for i := range l.Rows {
			an := &Angle{Line: l.RowLine[i]}
			an.Label1, _ = l.Field(i, "_geom_angle_atom_site_label_1")
			an.Label2, _ = l.Field(i, "_geom_angle_atom_site_label_2")
			an.Label3, _ = l.Field(i, "_geom_angle_atom_site_label_3")
			var err error
			if an.Value, err = loopVal(l, i, "_geom_angle"); err != nil {
				return nil, nil, nil, errDecorate(err, "geometryFromBlock")
			}
			if an.Sym1, err = loopCode(l, i, "_geom_angle_site_symmetry_1"); err != nil {
				return nil, nil, nil, errDecorate(err, "geometryFromBlock")
			}
			if an.Sym3, err = loopCode(l, i, "_geom_angle_site_symmetry_3"); err != nil {
				return nil, nil, nil, errDecorate(err, "geometryFromBlock")
			}
			an.Publ = loopFlag(l, i, "_geom_angle_publ_flag")
			angles = append(angles, an)
		}
	}
	if l := b.Loop("_geom_torsion_atom_site_label_1"); l != nil {
		for i := range l.Rows {
			to := &Torsion{Line: l.RowLine[i]}
			to.Label1, _ = l.Field(i, "_geom_torsion_atom_site_label_1")
			to.Label2, _ = l.Field(i, "_geom_torsion_atom_site_label_2")
			to.Label3, _ = l.Field(i, "_geom_torsion_atom_site_label_3")
			to.Label4, _ = l.Field(i, "_geom_torsion_atom_site_label_4")
			var err error
			if to.Value, err = loopVal(l, i, "_geom_torsion"); err != nil {
				return nil, nil, nil, errDecorate(err, "geometryFromBlock")
			}
			for _, t := range []struct {
				tag string
				dst *SymCode
			}{
				{"_geom_torsion_site_symmetry_1", &to.Sym1},
				{"_geom_torsion_site_symmetry_2", &to.Sym2},
				{"_geom_torsion_site_symmetry_3", &to.Sym3},
				{"_geom_torsion_site_symmetry_4", &to.Sym4},
			} {
				if *t.dst, err = loopCode(l, i, t.tag); err != nil {
					return nil, nil, nil, errDecorate(err, "geometryFromBlock")
				}
			}
			to.Publ = loopFlag(l, i, "_geom_torsion_publ_flag")
			torsions = append(torsions, to)
		}
	}
	return bonds, angles, torsions, nil
}

func loopCode(l *cif.Loop, row int, tag string) (SymCode, error) {
	s, ok := l.Field(row, tag)
	if !ok {
		return IdentityCode(), nil
	}
	sc, err := ParseSymCode(s)
	if err != nil {
		return sc, cerrf("line %d: %s: %v", l.RowLine[row], tag, err)
	}
	return sc, nil
}

func loopFlag(l *cif.Loop, row int, tag string) bool {
	s, _ := l.Field(row, tag)
	return s == "yes" || s == "y"
}

//sitePos returns the cartesian position of the image of the labeled
//site under the given symmetry code.
func (st *Structure) sitePos(label string, sc SymCode) (vec3, error) {
	s := st.Site(label)
	if s == nil {
		return vec3{}, cerrf("sitePos: unknown atom label %s", label)
	}
	f, err := st.SpaceGroup.ApplyCode(sc, s.Frac())
	if err != nil {
		return vec3{}, errDecorate(err, "sitePos "+label)
	}
	return st.Cell.Cart(f), nil
}

//BondLength recomputes a bond-table entry from the coordinates, in
//Angstrom.
func (st *Structure) BondLength(b *Bond) (float64, error) {
	p1, err := st.sitePos(b.Label1, IdentityCode())
	if err != nil {
		return 0, errDecorate(err, "BondLength")
	}
	p2, err := st.sitePos(b.Label2, b.Sym2)
	if err != nil {
		return 0, errDecorate(err, "BondLength")
	}
	return norm3(sub3(p2, p1)), nil
}

//AngleValue recomputes an angle-table entry, in degrees.
func (st *Structure) AngleValue(a *Angle) (float64, error) {
	p1, err := st.sitePos(a.Label1, a.Sym1)
	if err != nil {
		return 0, errDecorate(err, "AngleValue")
	}
	p2, err := st.sitePos(a.Label2, IdentityCode())
	if err != nil {
		return 0, errDecorate(err, "AngleValue")
	}
	p3, err := st.sitePos(a.Label3, a.Sym3)
	if err != nil {
		return 0, errDecorate(err, "AngleValue")
	}
	return VecAngle(sub3(p1, p2), sub3(p3, p2)) / deg2rad, nil
}

//TorsionValue recomputes a torsion-table entry, in degrees.
func (st *Structure) TorsionValue(t *Torsion) (float64, error) {
	pos := make([]vec3, 4)
	for i, lc := range []struct {
		label string
		code  SymCode
	}{
		{t.Label1, t.Sym1}, {t.Label2, t.Sym2}, {t.Label3, t.Sym3}, {t.Label4, t.Sym4},
	} {
		var err error
		if pos[i], err = st.sitePos(lc.label, lc.code); err != nil {
			return 0, errDecorate(err, "TorsionValue")
		}
	}
	return Dihedral(pos[0], pos[1], pos[2], pos[3]) / deg2rad, nil
}

//GeomMismatch is one geometry-table entry whose recomputed value
//disagrees with the published one.
type GeomMismatch struct {
	Desc      string
	Line      int
	Published float64
	Computed  float64
}

func (m GeomMismatch) String() string {
	return fmt.Sprintf("line %d: %s: published %.4f, computed %.4f", m.Line, m.Desc, m.Published, m.Computed)
}

//VerifyGeometry recomputes every bond, angle and torsion of the
//published geometry tables from the cell, the symmetry operations and
//the site coordinates, and collects the entries that deviate more than
//dtol Angstrom (bonds) or atol degrees (angles and torsions). Torsions
//compare modulo 360 so that -180 and 180 agree.
func (st *Structure) VerifyGeometry(dtol, atol float64) ([]GeomMismatch, error) {
	var mm []GeomMismatch
	for _, b := range st.Bonds {
		d, err := st.BondLength(b)
		if err != nil {
			return nil, errDecorate(err, "VerifyGeometry")
		}
		if math.Abs(d-b.Dist.V) > dtol {
			mm = append(mm, GeomMismatch{b.String(), b.Line, b.Dist.V, d})
		}
	}
	for _, a := range st.Angles {
		v, err := st.AngleValue(a)
		if err != nil {
			return nil, errDecorate(err, "VerifyGeometry")
		}
		if math.Abs(v-a.Value.V) > atol {
			desc := fmt.Sprintf("%s-%s-%s", a.Label1, a.Label2, a.Label3)
			mm = append(mm, GeomMismatch{desc, a.Line, a.Value.V, v})
		}
	}
	for _, t := range st.Torsions {
		v, err := st.TorsionValue(t)
		if err != nil {
			return nil, errDecorate(err, "VerifyGeometry")
		}
		diff := math.Mod(v-t.Value.V, 360)
		if diff > 180 {
			diff -= 360
		} else if diff < -180 {
			diff += 360
		}
		if math.Abs(diff) > atol {
			desc := fmt.Sprintf("%s-%s-%s-%s", t.Label1, t.Label2, t.Label3, t.Label4)
			mm = append(mm, GeomMismatch{desc, t.Line, t.Value.V, v})
		}
	}
	return mm, nil
}
