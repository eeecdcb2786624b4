/*
 * value.go, part of goXtal.
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
	"strconv"
	"strings"
)

//Val is a measured quantity with an optional standard uncertainty,
//as deposited in CIF numeric fields: 8.7379(2) means V=8.7379 and
//SU=0.0002. A Val without a parenthesized part has SU 0.
type Val struct {
	V  float64
	SU float64
}

//Known reports whether the value was actually given, i.e. the field
//was not the CIF placeholder "?" or ".".
func (v Val) Known() bool {
	return !math.IsNaN(v.V)
}

//Unknown is the Val for the CIF placeholders "?" and ".".
func Unknown() Val {
	return Val{V: math.NaN()}
}

//ParseVal parses a CIF numeric field, with or without a standard
//uncertainty in parentheses. The uncertainty digits scale with the
//last decimal place of the main number: 12.5(11) parses to 12.5 with
//SU 1.1, and 150(2) to 150 with SU 2.
func ParseVal(s string) (Val, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "?" || s == "." {
		return Unknown(), cerrf("ParseVal: no numeric value in %q", s)
	}
	body := s
	var sudigits string
	if i := strings.IndexByte(s, '('); i >= 0 {
		if !strings.HasSuffix(s, ")") {
			return Unknown(), cerrf("ParseVal: unbalanced parenthesis in %q", s)
		}
		body = s[:i]
		sudigits = s[i+1 : len(s)-1]
	}
	v, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return Unknown(), cerrf("ParseVal: %q: %v", s, err)
	}
	if sudigits == "" {
		return Val{V: v}, nil
	}
	su, err := strconv.ParseFloat(sudigits, 64)
	if err != nil || su < 0 {
		return Unknown(), cerrf("ParseVal: bad uncertainty in %q", s)
	}
	//the su counts in units of the last decimal place of the body.
	dec := 0
	if j := strings.IndexByte(body, '.'); j >= 0 {
		for _, r := range body[j+1:] {
			if r >= '0' && r <= '9' {
				dec++
			} else {
				break //an exponent marker ends the mantissa
			}
		}
	}
	scale := math.Pow(10, -float64(dec))
	if k := strings.IndexAny(body, "eE"); k >= 0 {
		exp, err := strconv.Atoi(body[k+1:])
		if err != nil {
			return Unknown(), cerrf("ParseVal: bad exponent in %q", s)
		}
		scale *= math.Pow(10, float64(exp))
	}
	return Val{V: v, SU: su * scale}, nil
}

//String renders the value back in CIF notation. The number of decimals
//is chosen so that the uncertainty becomes an integer in the last
//place, so ParseVal(v.String()) recovers v.
func (v Val) String() string {
	if !v.Known() {
		return "?"
	}
	if v.SU == 0 {
		return strconv.FormatFloat(v.V, 'g', -1, 64)
	}
	//scale until the su is an integer in the last printed place, so
	//12.5(11) keeps both digits rather than collapsing to 12(1)
	dec := 0
	su := v.SU
	for dec < 12 && (su < 0.95 || math.Abs(su-math.Round(su)) > 1e-6*su) {
		su *= 10
		dec++
	}
	return fmt.Sprintf("%.*f(%d)", dec, v.V, int(math.Round(su)))
}
