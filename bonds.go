/*
 * bonds.go, part of goXtal.
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
	"sort"
)

//constants from DOI:10.1186/1758-2946-3-33
const (
	tooclose = 0.63
	bondtol  = 0.45
)

//AssignBonds derives a bond list from the site coordinates with a
//simple covalent-radius distance criterium, similar to that described
//in DOI:10.1186/1758-2946-3-33. Unlike the published bond table, the
//result covers every contact the criterium finds, including bonds to
//symmetry images of the asymmetric unit (those carry a non-identity
//symmetry code). Distances are exact; the Dist values carry no
//uncertainty.
func AssignBonds(st *Structure) ([]*Bond, error) {
	if st == nil {
		panic(ErrNilStructure)
	}
	carts := make([][3]float64, len(st.Sites))
	covs := make([]float64, len(st.Sites))
	for i, s := range st.Sites {
		carts[i] = st.Cell.Cart(s.Frac())
		covs[i] = symbolCovrad[s.Symbol]
		if covs[i] == 0 {
			return nil, cerrf("AssignBonds: couldn't find the covalent radii for %s (%s)", s.Symbol, s.Label)
		}
	}
	var bonds []*Bond
	perSite := make(map[string][]*Bond)
	for i, s1 := range st.Sites {
		for j, s2 := range st.Sites {
			if j < i {
				continue //the j==i case still matters: an atom can bond its own image
			}
			for _, img := range st.images(s2.Frac(), carts[i], covs[i]+covs[j]+bondtol) {
				if i == j && img.code.IsIdentity() {
					continue
				}
				d := norm3(sub3(img.cart, carts[i]))
				if d >= covs[i]+covs[j]+bondtol || d <= tooclose {
					continue
				}
				//each contact appears once, from the atom that comes first
				b := &Bond{
					Label1: s1.Label,
					Label2: s2.Label,
					Sym2:   img.code,
					Dist:   Val{V: d},
				}
				bonds = append(bonds, b)
				perSite[s1.Label] = append(perSite[s1.Label], b)
				//a bond to the site's own image uses one valence per site
				if s1.Label != s2.Label {
					perSite[s2.Label] = append(perSite[s2.Label], b)
				}
			}
		}
	}
	//Now we check that no atom has too many bonds, dropping the longest.
	drop := make(map[*Bond]bool)
	for _, s := range st.Sites {
		max := symbolMaxBonds[s.Symbol]
		if max == 0 { //means there is not a specified number of bonds for this atom
			continue
		}
		bs := perSite[s.Label]
		sort.Slice(bs, func(i, j int) bool { return bs[i].Dist.V < bs[j].Dist.V })
		kept := 0
		for _, b := range bs {
			if drop[b] {
				continue
			}
			if kept >= max {
				drop[b] = true
				continue
			}
			kept++
		}
	}
	out := bonds[:0]
	for _, b := range bonds {
		if !drop[b] {
			out = append(out, b)
		}
	}
	return out, nil
}

//image is one symmetry-plus-lattice copy of a site.
type image struct {
	cart [3]float64
	code SymCode
}

//images returns every symmetry image of the fractional position f
//whose cartesian position lies within maxdist of the point center.
//Lattice translations of up to one cell in each direction are
//considered, which covers any bonding distance in normal cells.
func (st *Structure) images(f [3]float64, center [3]float64, maxdist float64) []image {
	var out []image
	for iop, op := range st.SpaceGroup.Ops {
		base := op.Apply(f)
		//fold near the origin so the -1..1 shift window always suffices
		var off [3]int
		for k := 0; k < 3; k++ {
			n := math.Floor(base[k])
			base[k] -= n
			off[k] = -int(n) //pos = op(f) - n + d, so the code shift is d - n
		}
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					pos := [3]float64{base[0] + float64(dx), base[1] + float64(dy), base[2] + float64(dz)}
					c := st.Cell.Cart(pos)
					if norm3(sub3(c, center)) > maxdist {
						continue
					}
					code := SymCode{Op: iop + 1, Shift: [3]int{off[0] + dx, off[1] + dy, off[2] + dz}}
					out = append(out, image{cart: c, code: code})
				}
			}
		}
	}
	return out
}

//CheckBondTable compares the published bond table against the bonds
//AssignBonds derives, and returns a description of every published
//bond the distance criterium does not reproduce. A clean structure
//returns nil.
func (st *Structure) CheckBondTable() ([]string, error) {
	derived, err := AssignBonds(st)
	if err != nil {
		return nil, errDecorate(err, "CheckBondTable")
	}
	type key struct {
		l1, l2 string
	}
	have := make(map[key][]*Bond)
	for _, b := range derived {
		have[key{b.Label1, b.Label2}] = append(have[key{b.Label1, b.Label2}], b)
		have[key{b.Label2, b.Label1}] = append(have[key{b.Label2, b.Label1}], b)
	}
	var missing []string
	for _, b := range st.Bonds {
		found := false
		for _, d := range have[key{b.Label1, b.Label2}] {
			if math.Abs(d.Dist.V-b.Dist.V) < 0.01 {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, fmt.Sprintf("published bond not reproduced: %s", b))
		}
	}
	return missing, nil
}
