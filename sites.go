/*
 * sites.go, part of goXtal.
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
	"strconv"
	"strings"

	"github.com/mfaundez/goxtal/cif"
	"gonum.org/v1/gonum/mat"
)

//Site is one row of the atom-site table: an atom of the asymmetric
//unit in fractional coordinates.
type Site struct {
	Label     string
	Symbol    string
	X, Y, Z   Val
	UisoOrEq  Val
	ADPType   string //"Uani", "Uiso", ...
	Occupancy Val
	CalcFlag  string //"d" for refined positions, "calc" for riding ones
	Line      int    //input line of the row, for error reporting
}

//Frac returns the fractional coordinates as plain floats.
func (s *Site) Frac() [3]float64 {
	return [3]float64{s.X.V, s.Y.V, s.Z.V}
}

//ADP is one row of the anisotropic displacement table, the U tensor
//in the reciprocal-axes basis, in square Angstrom.
type ADP struct {
	Label                        string
	U11, U22, U33, U23, U13, U12 Val
}

//Tensor returns U as a symmetric matrix.
func (a *ADP) Tensor() *mat.SymDense {
	return mat.NewSymDense(3, []float64{
		a.U11.V, a.U12.V, a.U13.V,
		a.U12.V, a.U22.V, a.U23.V,
		a.U13.V, a.U23.V, a.U33.V,
	})
}

//Ueq returns the equivalent isotropic displacement parameter,
//Ueq = (1/3) sum_ij Uij ai* aj* (ai.aj), which is what the deposited
//_atom_site_U_iso_or_equiv holds for anisotropic atoms.
func (a *ADP) Ueq(cell *Cell) float64 {
	if cell == nil {
		panic(ErrNilCell)
	}
	u := a.Tensor()
	rec := cell.reciprocalLengths()
	g := cell.Metric()
	sum := 0.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum += u.At(i, j) * rec[i] * rec[j] * g.At(i, j)
		}
	}
	return sum / 3
}

//Chemical identifies the compound.
type Chemical struct {
	FormulaMoiety string
	FormulaSum    string
	Name          string
	Weight        Val
}

//Experimental holds the data-collection items this library carries
//through: enough to identify the experiment, not to re-reduce it.
type Experimental struct {
	Radiation     string
	Wavelength    Val
	Temperature   Val
	DensityDiffrn Val
	AbsorptCoeff  Val
	ReflnsNumber  int
	ReflnsRint    Val
	ThetaMin      Val
	ThetaMax      Val
}

//Refinement holds the refinement summary statistics.
type Refinement struct {
	RFactorGt        Val
	WRFactorRef      Val
	GoodnessOfFit    Val
	Parameters       int
	Reflns           int
	WeightingDetails string
	ScatteringFor    []ScatteringSource
}

//ScatteringSource records where the scattering factors of one element
//came from.
type ScatteringSource struct {
	Symbol string
	Source string
}

//Audit holds deposition bookkeeping: where the entry came from and
//the papers it belongs to.
type Audit struct {
	CreationMethod string
	UpdateRecord   string
	DepositionCode string
	JournalDOI     string
	Citations      []Citation
}

//Citation is one row of the citation loop.
type Citation struct {
	ID   string
	DOI  string
	Year int
}

//Structure is a complete small-molecule crystal structure as
//deposited: cell, symmetry, sites, displacement parameters and the
//published geometry tables.
type Structure struct {
	Name       string
	Cell       *Cell
	SpaceGroup *SpaceGroup
	Sites      []*Site
	ADPs       []*ADP
	Bonds      []*Bond
	Angles     []*Angle
	Torsions   []*Torsion
	Chemical   Chemical
	Exptl      Experimental
	Refine     Refinement
	Audit      Audit
}

//Site returns the site with the given label, or nil.
func (st *Structure) Site(label string) *Site {
	for _, s := range st.Sites {
		if s.Label == label {
			return s
		}
	}
	return nil
}

//Mass returns the total mass of the asymmetric unit, in amu. Sites
//whose element is unknown contribute zero.
func (st *Structure) Mass() float64 {
	m := 0.0
	for _, s := range st.Sites {
		m += symbolMass[s.Symbol] * occOrOne(s)
	}
	return m
}

func occOrOne(s *Site) float64 {
	if s.Occupancy.Known() {
		return s.Occupancy.V
	}
	return 1
}

//StructureFromBlock interprets one CIF data block as a crystal
//structure. The cell parameters, the symmetry-operation loop and the
//atom-site loop are mandatory; everything else is carried through
//when present. The returned structure has already passed
//CheckReferences.
func StructureFromBlock(b *cif.Block) (*Structure, error) {
	if b == nil {
		return nil, cerrf("StructureFromBlock: nil block")
	}
	st := &Structure{Name: b.Name}
	var err error
	if st.Cell, err = cellFromBlock(b); err != nil {
		return nil, errDecorate(err, "StructureFromBlock")
	}
	if st.SpaceGroup, err = spaceGroupFromBlock(b); err != nil {
		return nil, errDecorate(err, "StructureFromBlock")
	}
	if st.Sites, err = sitesFromBlock(b); err != nil {
		return nil, errDecorate(err, "StructureFromBlock")
	}
	if st.ADPs, err = adpsFromBlock(b); err != nil {
		return nil, errDecorate(err, "StructureFromBlock")
	}
	if st.Bonds, st.Angles, st.Torsions, err = geometryFromBlock(b); err != nil {
		return nil, errDecorate(err, "StructureFromBlock")
	}
	st.Chemical = chemicalFromBlock(b)
	st.Exptl = exptlFromBlock(b)
	st.Refine = refineFromBlock(b)
	st.Audit = auditFromBlock(b)
	if err = st.CheckReferences(); err != nil {
		return nil, errDecorate(err, "StructureFromBlock")
	}
	return st, nil
}

//blockVal parses a scalar tag as a Val; missing tags and the "?"/"."
//placeholders come back as Unknown without error.
func blockVal(b *cif.Block, tag string) Val {
	s, ok := b.Get(tag)
	if !ok || s == "?" || s == "." {
		return Unknown()
	}
	v, err := ParseVal(s)
	if err != nil {
		return Unknown()
	}
	return v
}

//requiredVal is blockVal for tags that must be present and numeric.
func requiredVal(b *cif.Block, tag string) (Val, error) {
	s, ok := b.Get(tag)
	if !ok {
		return Unknown(), cerrf("missing required tag %s", tag)
	}
	v, err := ParseVal(s)
	if err != nil {
		return Unknown(), errDecorate(err, "tag "+tag)
	}
	return v, nil
}

func blockInt(b *cif.Block, tag string) int {
	s, ok := b.Get(tag)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func blockString(b *cif.Block, tag string) string {
	s, _ := b.Get(tag)
	if s == "?" || s == "." {
		return ""
	}
	return s
}

func cellFromBlock(b *cif.Block) (*Cell, error) {
	cell := new(Cell)
	var err error
	for _, t := range []struct {
		tag string
		dst *Val
	}{
		{"_cell_length_a", &cell.A},
		{"_cell_length_b", &cell.B},
		{"_cell_length_c", &cell.C},
		{"_cell_angle_alpha", &cell.Alpha},
		{"_cell_angle_beta", &cell.Beta},
		{"_cell_angle_gamma", &cell.Gamma},
	} {
		if *t.dst, err = requiredVal(b, t.tag); err != nil {
			return nil, errDecorate(err, "cellFromBlock")
		}
	}
	cell.Volume = blockVal(b, "_cell_volume")
	cell.FormulaUnitsZ = blockInt(b, "_cell_formula_units_Z")
	cell.MeasurementTemp = blockVal(b, "_cell_measurement_temperature")
	cell.MeasReflnsUsed = blockInt(b, "_cell_measurement_reflns_used")
	cell.MeasThetaMin = blockVal(b, "_cell_measurement_theta_min")
	cell.MeasThetaMax = blockVal(b, "_cell_measurement_theta_max")
	return cell, nil
}

func spaceGroupFromBlock(b *cif.Block) (*SpaceGroup, error) {
	sg := &SpaceGroup{
		Number: blockInt(b, "_space_group_IT_number"),
		Hall:   blockString(b, "_space_group_name_Hall"),
	}
	sg.NameHM = blockString(b, "_space_group_name_H-M_alt")
	if sg.NameHM == "" {
		sg.NameHM = blockString(b, "_symmetry_space_group_name_H-M")
	}
	l := b.Loop("_space_group_symop_operation_xyz")
	tag := "_space_group_symop_operation_xyz"
	if l == nil {
		//pre-2000 deposits use the symmetry_ names
		l = b.Loop("_symmetry_equiv_pos_as_xyz")
		tag = "_symmetry_equiv_pos_as_xyz"
	}
	if l == nil {
		return nil, cerrf("spaceGroupFromBlock: no symmetry operation loop")
	}
	for i, s := range l.Column(tag) {
		op, err := ParseSymOp(s)
		if err != nil {
			return nil, errDecorate(err, "spaceGroupFromBlock row "+strconv.Itoa(i+1))
		}
		sg.Ops = append(sg.Ops, op)
	}
	if !sg.Ops[0].IsIdentity() {
		return nil, cerrf("spaceGroupFromBlock: first symmetry operation is %q, not the identity", sg.Ops[0])
	}
	return sg, nil
}

func sitesFromBlock(b *cif.Block) ([]*Site, error) {
	l := b.Loop("_atom_site_label")
	if l == nil {
		return nil, cerrf("sitesFromBlock: no atom site loop")
	}
	seen := make(map[string]int, len(l.Rows))
	sites := make([]*Site, 0, len(l.Rows))
	for i := range l.Rows {
		s := &Site{Line: l.RowLine[i]}
		s.Label, _ = l.Field(i, "_atom_site_label")
		if prev, dup := seen[s.Label]; dup {
			return nil, cerrf("sitesFromBlock: duplicate atom label %s on line %d (first on line %d)",
				s.Label, s.Line, prev)
		}
		seen[s.Label] = s.Line
		s.Symbol, _ = l.Field(i, "_atom_site_type_symbol")
		if s.Symbol == "" || s.Symbol == "?" || s.Symbol == "." {
			s.Symbol = symbolFromLabel(s.Label)
		}
		var err error
		if s.X, err = loopVal(l, i, "_atom_site_fract_x"); err != nil {
			return nil, err
		}
		if s.Y, err = loopVal(l, i, "_atom_site_fract_y"); err != nil {
			return nil, err
		}
		if s.Z, err = loopVal(l, i, "_atom_site_fract_z"); err != nil {
			return nil, err
		}
		s.UisoOrEq, _ = optLoopVal(l, i, "_atom_site_U_iso_or_equiv")
		s.ADPType, _ = l.Field(i, "_atom_site_adp_type")
		s.Occupancy, _ = optLoopVal(l, i, "_atom_site_occupancy")
		s.CalcFlag, _ = l.Field(i, "_atom_site_calc_flag")
		sites = append(sites, s)
	}
	return sites, nil
}

//loopVal parses a mandatory numeric loop field, reporting the row's
//line on failure.
func loopVal(l *cif.Loop, row int, tag string) (Val, error) {
	s, ok := l.Field(row, tag)
	if !ok {
		return Unknown(), cerrf("line %d: missing loop tag %s", l.Line, tag)
	}
	v, err := ParseVal(s)
	if err != nil {
		return Unknown(), cerrf("line %d: %s: %v", l.RowLine[row], tag, err)
	}
	return v, nil
}

//optLoopVal is loopVal for fields that may be absent or "?"/".".
func optLoopVal(l *cif.Loop, row int, tag string) (Val, bool) {
	s, ok := l.Field(row, tag)
	if !ok || s == "?" || s == "." {
		return Unknown(), false
	}
	v, err := ParseVal(s)
	if err != nil {
		return Unknown(), false
	}
	return v, true
}

func adpsFromBlock(b *cif.Block) ([]*ADP, error) {
	l := b.Loop("_atom_site_aniso_label")
	if l == nil {
		return nil, nil
	}
	adps := make([]*ADP, 0, len(l.Rows))
	for i := range l.Rows {
		a := new(ADP)
		a.Label, _ = l.Field(i, "_atom_site_aniso_label")
		var err error
		for _, t := range []struct {
			tag string
			dst *Val
		}{
			{"_atom_site_aniso_U_11", &a.U11},
			{"_atom_site_aniso_U_22", &a.U22},
			{"_atom_site_aniso_U_33", &a.U33},
			{"_atom_site_aniso_U_23", &a.U23},
			{"_atom_site_aniso_U_13", &a.U13},
			{"_atom_site_aniso_U_12", &a.U12},
		} {
			if *t.dst, err = loopVal(l, i, t.tag); err != nil {
				return nil, errDecorate(err, "adpsFromBlock")
			}
		}
		adps = append(adps, a)
	}
	return adps, nil
}

func chemicalFromBlock(b *cif.Block) Chemical {
	return Chemical{
		FormulaMoiety: blockString(b, "_chemical_formula_moiety"),
		FormulaSum:    blockString(b, "_chemical_formula_sum"),
		Name:          strings.TrimSpace(blockString(b, "_chemical_name_systematic")),
		Weight:        blockVal(b, "_chemical_formula_weight"),
	}
}

func exptlFromBlock(b *cif.Block) Experimental {
	return Experimental{
		Radiation:     blockString(b, "_diffrn_radiation_type"),
		Wavelength:    blockVal(b, "_diffrn_radiation_wavelength"),
		Temperature:   blockVal(b, "_diffrn_ambient_temperature"),
		DensityDiffrn: blockVal(b, "_exptl_crystal_density_diffrn"),
		AbsorptCoeff:  blockVal(b, "_exptl_absorpt_coefficient_mu"),
		ReflnsNumber:  blockInt(b, "_diffrn_reflns_number"),
		ReflnsRint:    blockVal(b, "_diffrn_reflns_av_R_equivalents"),
		ThetaMin:      blockVal(b, "_diffrn_reflns_theta_min"),
		ThetaMax:      blockVal(b, "_diffrn_reflns_theta_max"),
	}
}

func refineFromBlock(b *cif.Block) Refinement {
	r := Refinement{
		RFactorGt:        blockVal(b, "_refine_ls_R_factor_gt"),
		WRFactorRef:      blockVal(b, "_refine_ls_wR_factor_ref"),
		GoodnessOfFit:    blockVal(b, "_refine_ls_goodness_of_fit_ref"),
		Parameters:       blockInt(b, "_refine_ls_number_parameters"),
		Reflns:           blockInt(b, "_refine_ls_number_reflns"),
		WeightingDetails: blockString(b, "_refine_ls_weighting_details"),
	}
	if l := b.Loop("_atom_type_symbol"); l != nil {
		for i := range l.Rows {
			sym, _ := l.Field(i, "_atom_type_symbol")
			src, _ := l.Field(i, "_atom_type_scat_source")
			r.ScatteringFor = append(r.ScatteringFor, ScatteringSource{Symbol: sym, Source: src})
		}
	}
	return r
}

func auditFromBlock(b *cif.Block) Audit {
	a := Audit{
		CreationMethod: blockString(b, "_audit_creation_method"),
		UpdateRecord:   strings.TrimSpace(blockString(b, "_audit_update_record")),
		DepositionCode: blockString(b, "_database_code_depnum_ccdc_archive"),
		JournalDOI:     blockString(b, "_journal_doi"),
	}
	if l := b.Loop("_citation_id"); l != nil {
		for i := range l.Rows {
			var c Citation
			c.ID, _ = l.Field(i, "_citation_id")
			c.DOI, _ = l.Field(i, "_citation_doi")
			if y, ok := l.Field(i, "_citation_year"); ok {
				c.Year, _ = strconv.Atoi(y)
			}
			a.Citations = append(a.Citations, c)
		}
	}
	return a
}

//CheckReferences verifies the referential integrity of the block: every
//label in the anisotropic and geometry tables must name a site of the
//atom-site list, and every symmetry code must point into the
//space group's operation list.
func (st *Structure) CheckReferences() error {
	labels := make(map[string]bool, len(st.Sites))
	for _, s := range st.Sites {
		labels[s.Label] = true
	}
	nops := len(st.SpaceGroup.Ops)
	check := func(label, table string) error {
		if !labels[label] {
			return cerrf("CheckReferences: %s refers to unknown atom label %s", table, label)
		}
		return nil
	}
	checkCode := func(sc SymCode, table string) error {
		if sc.Op < 1 || sc.Op > nops {
			return cerrf("CheckReferences: %s uses symmetry operation %d, but the group has %d",
				table, sc.Op, nops)
		}
		return nil
	}
	for _, a := range st.ADPs {
		if err := check(a.Label, "anisotropic ADP table"); err != nil {
			return err
		}
	}
	for _, bd := range st.Bonds {
		for _, lb := range []string{bd.Label1, bd.Label2} {
			if err := check(lb, "bond table"); err != nil {
				return err
			}
		}
		if err := checkCode(bd.Sym2, "bond table"); err != nil {
			return err
		}
	}
	for _, an := range st.Angles {
		for _, lb := range []string{an.Label1, an.Label2, an.Label3} {
			if err := check(lb, "angle table"); err != nil {
				return err
			}
		}
		for _, sc := range []SymCode{an.Sym1, an.Sym3} {
			if err := checkCode(sc, "angle table"); err != nil {
				return err
			}
		}
	}
	for _, to := range st.Torsions {
		for _, lb := range []string{to.Label1, to.Label2, to.Label3, to.Label4} {
			if err := check(lb, "torsion table"); err != nil {
				return err
			}
		}
		for _, sc := range []SymCode{to.Sym1, to.Sym2, to.Sym3, to.Sym4} {
			if err := checkCode(sc, "torsion table"); err != nil {
				return err
			}
		}
	}
	return nil
}
