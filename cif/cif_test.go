/*
 * cif_test.go, part of goXtal.
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

package cif

import (
	"bytes"
	"strings"
	"testing"
)

func readFixture(Te *testing.T) *Document {
	doc, err := ReadFile("../test/bdte.cif")
	if err != nil {
		Te.Fatal(err)
	}
	return doc
}

func TestReadFixture(Te *testing.T) {
	doc := readFixture(Te)
	if len(doc.Blocks) != 1 {
		Te.Fatalf("got %d blocks, want 1", len(doc.Blocks))
	}
	b := doc.First()
	if b.Name != "bdte" {
		Te.Errorf("block name %q, want bdte", b.Name)
	}
	if doc.Block("bdte") != b || doc.Block("nope") != nil {
		Te.Error("Block() lookup broken")
	}
	if v, ok := b.Get("_cell_length_a"); !ok || v != "8.7379(2)" {
		Te.Errorf("_cell_length_a = %q, %v", v, ok)
	}
	//tags are case-insensitive
	if v, ok := b.Get("_CELL_LENGTH_A"); !ok || v != "8.7379(2)" {
		Te.Errorf("case-insensitive get = %q, %v", v, ok)
	}
	if v, _ := b.Get("_chemical_formula_sum"); v != "C16 H14 S4" {
		Te.Errorf("quoted value = %q", v)
	}
	if _, ok := b.Get("_no_such_tag"); ok {
		Te.Error("Get invented a tag")
	}
	it := b.Item("_cell_volume")
	if it == nil || it.Line != 49 {
		Te.Errorf("Item(_cell_volume) = %+v, want line 49", it)
	}
}

func TestTextFields(Te *testing.T) {
	b := readFixture(Te).First()
	v, ok := b.Get("_audit_update_record")
	if !ok {
		Te.Fatal("_audit_update_record missing")
	}
	want := "2019-03-14 deposited with the CCDC.\n2019-05-02 downloaded from the CCDC."
	if v != want {
		Te.Errorf("text field = %q, want %q", v, want)
	}
	if v, _ := b.Get("_chemical_name_systematic"); v != "1,2-bis(1,3-benzodithiol-2-yl)ethane" {
		Te.Errorf("single-line text field = %q", v)
	}
	if v, _ := b.Get("_refine_ls_weighting_details"); !strings.Contains(v, "where P=(Fo^2^+2Fc^2^)/3") {
		Te.Errorf("weighting details = %q", v)
	}
}

func TestLoops(Te *testing.T) {
	b := readFixture(Te).First()
	l := b.Loop("_atom_site_label")
	if l == nil {
		Te.Fatal("atom site loop missing")
	}
	if len(l.Tags) != 10 || len(l.Rows) != 16 {
		Te.Errorf("atom site loop: %d tags, %d rows", len(l.Tags), len(l.Rows))
	}
	if !l.Has("_atom_site_fract_x") || l.Has("_geom_bond_distance") {
		Te.Error("Has() broken")
	}
	if f, ok := l.Field(0, "_atom_site_label"); !ok || f != "S1" {
		Te.Errorf("Field(0) = %q, %v", f, ok)
	}
	if _, ok := l.Field(99, "_atom_site_label"); ok {
		Te.Error("Field accepted a row beyond the table")
	}
	col := l.Column("_atom_site_type_symbol")
	if len(col) != 16 || col[2] != "C" || col[15] != "H" {
		Te.Errorf("Column = %v", col)
	}
	if len(l.RowLine) != 16 || l.RowLine[0] != 102 {
		Te.Errorf("RowLine[0] = %d, want 102", l.RowLine[0])
	}
	ops := b.Loop("_space_group_symop_operation_xyz")
	if ops == nil || len(ops.Rows) != 4 {
		Te.Fatal("symmetry loop missing or wrong")
	}
	if f, _ := ops.Field(1, "_space_group_symop_operation_xyz"); f != "1/2-x, 1/2+y, -z" {
		Te.Errorf("quoted loop field = %q", f)
	}
	if b.Loop("_geom_torsion") == nil {
		Te.Error("torsion loop missing")
	}
}

//TestRoundTrip writes the parsed fixture back out and parses the
//output again; blocks, tags, values and loop contents must survive.
func TestRoundTrip(Te *testing.T) {
	doc := readFixture(Te)
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		Te.Fatal(err)
	}
	back, err := Read(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	b1, b2 := doc.First(), back.First()
	if b1.Name != b2.Name {
		Te.Errorf("block name %q -> %q", b1.Name, b2.Name)
	}
	if len(b1.Items) != len(b2.Items) {
		Te.Fatalf("%d items -> %d", len(b1.Items), len(b2.Items))
	}
	for i, it := range b1.Items {
		got := b2.Items[i]
		if it.Tag != got.Tag || it.Value != got.Value {
			Te.Errorf("item %d: %q=%q -> %q=%q", i, it.Tag, it.Value, got.Tag, got.Value)
		}
	}
	if len(b1.Loops) != len(b2.Loops) {
		Te.Fatalf("%d loops -> %d", len(b1.Loops), len(b2.Loops))
	}
	for i, l := range b1.Loops {
		got := b2.Loops[i]
		if len(l.Tags) != len(got.Tags) || len(l.Rows) != len(got.Rows) {
			Te.Errorf("loop %d shape changed", i)
			continue
		}
		for r := range l.Rows {
			for c := range l.Rows[r] {
				if l.Rows[r][c] != got.Rows[r][c] {
					Te.Errorf("loop %d row %d field %d: %q -> %q",
						i, r, c, l.Rows[r][c], got.Rows[r][c])
				}
			}
		}
	}
}

func TestCompressedFiles(Te *testing.T) {
	doc := readFixture(Te)
	for _, name := range []string{"../test/bdte_rt.cif.gz", "../test/bdte_rt.cif.zst"} {
		if err := doc.WriteFile(name); err != nil {
			Te.Fatal(err)
		}
		back, err := ReadFile(name)
		if err != nil {
			Te.Fatal(err)
		}
		if v, _ := back.First().Get("_cell_length_a"); v != "8.7379(2)" {
			Te.Errorf("%s: _cell_length_a = %q after round trip", name, v)
		}
	}
}

//Syntax errors must carry the offending line and, when known, the tag.

func TestDuplicateTag(Te *testing.T) {
	in := "data_x\n_tag_a 1\n_tag_b 2\n_tag_a 3\n"
	_, err := Read(strings.NewReader(in))
	if err == nil {
		Te.Fatal("duplicate tag accepted")
	}
	e, ok := err.(*Error)
	if !ok {
		Te.Fatalf("error type %T", err)
	}
	if e.Line != 4 || e.Tag != "_tag_a" {
		Te.Errorf("error at line %d tag %q, want line 4 _tag_a", e.Line, e.Tag)
	}
	if !strings.Contains(e.Error(), "line 2") {
		Te.Errorf("error does not name the first occurrence: %v", e)
	}
}

func TestIncompleteLoopRow(Te *testing.T) {
	in := "data_x\nloop_\n_a\n_b\n1 2\n3\n"
	_, err := Read(strings.NewReader(in))
	if err == nil {
		Te.Fatal("incomplete loop row accepted")
	}
	e := err.(*Error)
	if e.Line != 6 || e.Tag != "_b" {
		Te.Errorf("error at line %d tag %q, want line 6 _b", e.Line, e.Tag)
	}
}

func TestSyntaxErrors(Te *testing.T) {
	cases := []struct {
		name, in string
	}{
		{"stray value", "data_x\n_a 1\nstray\n"},
		{"tag without value", "data_x\n_a\n_b 1\n"},
		{"tag outside block", "_a 1\n"},
		{"loop outside block", "loop_\n_a\n1\n"},
		{"empty loop header", "data_x\nloop_\n1 2\n"},
		{"loop without rows", "data_x\nloop_\n_a\n_b\n"},
		{"duplicate loop tag", "data_x\nloop_\n_a\n_a\n1 2\n"},
		{"loop tag already scalar", "data_x\n_a 1\nloop_\n_a\n2\n"},
		{"scalar tag already in loop", "data_x\nloop_\n_a\n1\n_a 2\n"},
		{"unterminated quote", "data_x\n_a 'oops\n"},
		{"unterminated text field", "data_x\n_a\n;\nnever closed\n"},
		{"text after closing semicolon", "data_x\n_a\n;\nbody\n; trailing\n"},
		{"no data block", "# just a comment\n"},
	}
	for _, c := range cases {
		if _, err := Read(strings.NewReader(c.in)); err == nil {
			Te.Errorf("%s: accepted %q", c.name, c.in)
		}
	}
}

//Quoted strings may hold the other quote character, and the closing
//quote only counts before whitespace or the end of the line.
func TestQuoting(Te *testing.T) {
	in := "data_x\n_a 'it''s fine'\n_b 'a \"b\" c'\n_c .\n"
	doc, err := Read(strings.NewReader(in))
	if err != nil {
		Te.Fatal(err)
	}
	b := doc.First()
	if v, _ := b.Get("_a"); v != "it''s fine" {
		Te.Errorf("_a = %q", v)
	}
	if v, _ := b.Get("_b"); v != `a "b" c` {
		Te.Errorf("_b = %q", v)
	}
	if v, _ := b.Get("_c"); v != "." {
		Te.Errorf("placeholder = %q", v)
	}
}

//A written document must re-quote values that would otherwise read
//back as syntax: blanks, quotes, leading underscores, keywords.
func TestWriteQuoting(Te *testing.T) {
	doc := &Document{Blocks: []*Block{{Name: "q", byTag: map[string]*Item{}}}}
	b := doc.Blocks[0]
	values := map[string]string{
		"_plain":     "bare",
		"_blank":     "two words",
		"_empty":     "",
		"_keyword":   "loop_",
		"_taglike":   "_not_a_tag",
		"_squote":    "it's",
		"_dquote":    `say "hi"`,
		"_both":      `it's "quoted"`,
		"_multiline": "first\nsecond",
	}
	for tag, v := range values {
		if err := b.addItem(&Item{Tag: tag, Value: v}); err != nil {
			Te.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		Te.Fatal(err)
	}
	back, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		Te.Fatalf("%v\noutput was:\n%s", err, buf.String())
	}
	for tag, want := range values {
		if got, _ := back.First().Get(tag); got != want {
			Te.Errorf("%s: %q -> %q", tag, want, got)
		}
	}
}

//A multi-line value with a line starting with ';' would read back as
//the text-field terminator, so Write must refuse it instead of
//emitting a file that cannot be parsed.
func TestWriteUnrepresentableTextField(Te *testing.T) {
	doc := &Document{Blocks: []*Block{{Name: "q", byTag: map[string]*Item{}}}}
	b := doc.Blocks[0]
	if err := b.addItem(&Item{Tag: "_bad", Value: "first\n;second"}); err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	err := doc.Write(&buf)
	if err == nil {
		Te.Fatal("Write accepted a text field with an embedded ';' line")
	}
	cerr, ok := err.(*Error)
	if !ok {
		Te.Fatalf("error has type %T, want *cif.Error", err)
	}
	if cerr.Tag != "_bad" {
		Te.Errorf("error names tag %q, want _bad", cerr.Tag)
	}

	loopdoc := &Document{Blocks: []*Block{{Name: "q", byTag: map[string]*Item{}}}}
	lb := loopdoc.Blocks[0]
	l := &Loop{Tags: []string{"_a", "_b"}, Rows: [][]string{{"ok", ";starts with it"}, {"x", "y\n;z"}}, RowLine: []int{0, 0}}
	lb.Loops = append(lb.Loops, l)
	buf.Reset()
	if err := loopdoc.Write(&buf); err == nil {
		Te.Fatal("Write accepted a loop cell with an embedded ';' line")
	}
}
