/*
 * symmetry.go, part of goXtal.
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
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//SymOp is a symmetry operation in fractional space: x' = x*R + t,
//with x a row vector. R holds only -1, 0 and 1 entries for the space
//groups this library deals with; t holds fractions of the cell.
type SymOp struct {
	R *mat.Dense
	T [3]float64
}

//Identity returns the identity operation x, y, z.
func Identity() SymOp {
	return SymOp{R: mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})}
}

//ParseSymOp parses a symmetry operation in Jones-faithful notation,
//e.g. "1/2-x, 1/2+y, -z". Case and blanks are ignored. Each of the
//three comma-separated terms must mention at least one of x, y, z.
func ParseSymOp(s string) (SymOp, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return SymOp{}, cerrf("ParseSymOp: %q: want 3 comma-separated terms, got %d", s, len(parts))
	}
	op := SymOp{R: mat.NewDense(3, 3, nil)}
	for j, part := range parts {
		coef, trans, err := parseSymTerm(part)
		if err != nil {
			return SymOp{}, errDecorate(err, "ParseSymOp "+s)
		}
		for i := 0; i < 3; i++ {
			op.R.Set(i, j, coef[i])
		}
		op.T[j] = trans
	}
	return op, nil
}

//parseSymTerm parses one component like "1/2-x" or "y-1/4" into the
//coefficients of x, y, z and the translation part.
func parseSymTerm(s string) (coef [3]float64, trans float64, err error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if s == "" {
		return coef, 0, cerrf("empty symmetry term")
	}
	sign := 1.0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '+':
			sign = 1
			i++
		case c == '-':
			sign = -1
			i++
		case c == 'x':
			coef[0] += sign
			sign = 1
			i++
		case c == 'y':
			coef[1] += sign
			sign = 1
			i++
		case c == 'z':
			coef[2] += sign
			sign = 1
			i++
		case c >= '0' && c <= '9' || c == '.':
			j := i
			for j < len(s) && (s[j] >= '0' && s[j] <= '9' || s[j] == '.' || s[j] == '/') {
				j++
			}
			f, err := parseFraction(s[i:j])
			if err != nil {
				return coef, 0, err
			}
			trans += sign * f
			sign = 1
			i = j
		default:
			return coef, 0, cerrf("unexpected character %q in symmetry term %q", c, s)
		}
	}
	if coef[0] == 0 && coef[1] == 0 && coef[2] == 0 {
		return coef, 0, cerrf("symmetry term %q mentions none of x, y, z", s)
	}
	return coef, trans, nil
}

func parseFraction(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, cerrf("bad fraction %q", s)
		}
		return n / d, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, cerrf("bad number %q", s)
	}
	return f, nil
}

//Apply transforms a fractional position by the operation.
func (op SymOp) Apply(f [3]float64) [3]float64 {
	var out [3]float64
	for j := 0; j < 3; j++ {
		out[j] = f[0]*op.R.At(0, j) + f[1]*op.R.At(1, j) + f[2]*op.R.At(2, j) + op.T[j]
	}
	return out
}

//String renders the operation back in Jones-faithful notation, with
//the translation first when present, as in "1/2-x, 1/2+y, -z".
//ParseSymOp(op.String()) recovers op.
func (op SymOp) String() string {
	axes := [3]byte{'x', 'y', 'z'}
	terms := make([]string, 3)
	for j := 0; j < 3; j++ {
		var b strings.Builder
		if t := op.T[j]; t != 0 {
			b.WriteString(fractionString(t))
		}
		for i := 0; i < 3; i++ {
			switch c := op.R.At(i, j); {
			case c > 0:
				if b.Len() > 0 {
					b.WriteByte('+')
				}
				b.WriteByte(axes[i])
			case c < 0:
				b.WriteByte('-')
				b.WriteByte(axes[i])
			}
		}
		terms[j] = b.String()
	}
	return strings.Join(terms, ", ")
}

//fractionString writes a translation as a signed cell fraction with
//the smallest denominator among those that occur in space-group
//operations. The sign and magnitude are kept as deposited, so the
//rendered operation is the same affine map, not just the same map
//modulo lattice translations.
func fractionString(t float64) string {
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	for _, den := range []int{1, 2, 3, 4, 6} {
		n := t * float64(den)
		if diff := n - float64(int(n+0.5)); diff < 1e-9 && diff > -1e-9 {
			if den == 1 {
				return sign + strconv.Itoa(int(n+0.5))
			}
			return fmt.Sprintf("%s%d/%d", sign, int(n+0.5), den)
		}
	}
	return sign + strconv.FormatFloat(t, 'g', -1, 64)
}

//IsIdentity reports whether the operation leaves every position fixed.
func (op SymOp) IsIdentity() bool {
	if op.T != [3]float64{} {
		return false
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if op.R.At(i, j) != want {
				return false
			}
		}
	}
	return true
}

//SpaceGroup holds a space group as deposited: its Hermann-Mauguin and
//Hall symbols, IT number, and the full list of symmetry operations.
//Ops[0] is expected to be the identity, following CIF convention.
type SpaceGroup struct {
	NameHM string
	Hall   string
	Number int
	Ops    []SymOp
}

//SymCode is a CIF symmetry code such as "3_655": operation 3 (1-based)
//followed by a lattice translation of (6-5, 5-5, 5-5) = (1, 0, 0)
//cells. The bare code "." is the identity.
type SymCode struct {
	Op    int
	Shift [3]int
}

//IdentityCode is the symmetry code for an atom at its own deposited
//position ("." in CIF geometry loops).
func IdentityCode() SymCode {
	return SymCode{Op: 1}
}

//IsIdentity reports whether the code is operation 1 with no shift.
func (sc SymCode) IsIdentity() bool {
	return sc.Op == 1 && sc.Shift == [3]int{}
}

//ParseSymCode parses a CIF symmetry code: ".", "3" or "3_655".
func ParseSymCode(s string) (SymCode, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return IdentityCode(), nil
	}
	opstr, shift, underscore := strings.Cut(s, "_")
	op, err := strconv.Atoi(opstr)
	if err != nil || op < 1 {
		return SymCode{}, cerrf("ParseSymCode: bad operation number in %q", s)
	}
	sc := SymCode{Op: op}
	if !underscore {
		return sc, nil
	}
	if len(shift) != 3 {
		return SymCode{}, cerrf("ParseSymCode: want 3 translation digits in %q", s)
	}
	for i := 0; i < 3; i++ {
		if shift[i] < '0' || shift[i] > '9' {
			return SymCode{}, cerrf("ParseSymCode: bad translation digit %q in %q", shift[i], s)
		}
		sc.Shift[i] = int(shift[i]-'0') - 5
	}
	return sc, nil
}

//String renders the code back in CIF notation. The identity renders
//as ".".
func (sc SymCode) String() string {
	if sc.IsIdentity() {
		return "."
	}
	if sc.Shift == [3]int{} {
		return strconv.Itoa(sc.Op)
	}
	return fmt.Sprintf("%d_%d%d%d", sc.Op, sc.Shift[0]+5, sc.Shift[1]+5, sc.Shift[2]+5)
}

//ApplyCode transforms a fractional position by the coded operation
//plus lattice translation. It errs if the operation number exceeds
//the group's operation list.
func (sg *SpaceGroup) ApplyCode(sc SymCode, f [3]float64) ([3]float64, error) {
	if sg == nil {
		panic(ErrNilSpaceGroup)
	}
	if sc.Op < 1 || sc.Op > len(sg.Ops) {
		return f, cerrf("ApplyCode: operation %d out of range (group has %d)", sc.Op, len(sg.Ops))
	}
	out := sg.Ops[sc.Op-1].Apply(f)
	for i := 0; i < 3; i++ {
		out[i] += float64(sc.Shift[i])
	}
	return out, nil
}
