/*
 * cif.go, part of goXtal.
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
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//Document is a parsed CIF file: one or more data blocks in file order.
type Document struct {
	Blocks []*Block
}

//Block is one data_ block: scalar items and loop tables, in file order.
type Block struct {
	Name  string
	Items []*Item
	Loops []*Loop
	byTag map[string]*Item
}

//Item is a scalar tag-value pair. Value is the unquoted field text;
//the CIF placeholders "?" and "." are passed through as such. Line is
//where the tag appeared in the input.
type Item struct {
	Tag   string
	Value string
	Line  int
}

//Loop is a loop_ table. Rows all have len(Tags) fields. RowLine holds
//the input line where each row starts; Line is the loop_ keyword's line.
type Loop struct {
	Tags    []string
	Rows    [][]string
	Line    int
	RowLine []int
	col     map[string]int
}

//Block returns the block with the given data name, or nil.
func (d *Document) Block(name string) *Block {
	for _, b := range d.Blocks {
		if b.Name == name {
			return b
		}
	}
	return nil
}

//First returns the first block of the document, or nil for an empty one.
func (d *Document) First() *Block {
	if len(d.Blocks) == 0 {
		return nil
	}
	return d.Blocks[0]
}

//Get returns the value of a scalar item and whether the tag is present.
//Tags compare case-insensitively, as the format prescribes.
func (b *Block) Get(tag string) (string, bool) {
	it, ok := b.byTag[strings.ToLower(tag)]
	if !ok {
		return "", false
	}
	return it.Value, true
}

//Item returns the scalar item for a tag, or nil.
func (b *Block) Item(tag string) *Item {
	return b.byTag[strings.ToLower(tag)]
}

//Loop returns the loop that declares the given tag, or nil.
func (b *Block) Loop(tag string) *Loop {
	tag = strings.ToLower(tag)
	for _, l := range b.Loops {
		if _, ok := l.col[tag]; ok {
			return l
		}
	}
	return nil
}

//Has reports whether the loop declares the given tag.
func (l *Loop) Has(tag string) bool {
	_, ok := l.col[strings.ToLower(tag)]
	return ok
}

//Field returns the field of the given row under the given tag.
func (l *Loop) Field(row int, tag string) (string, bool) {
	i, ok := l.col[strings.ToLower(tag)]
	if !ok || row < 0 || row >= len(l.Rows) {
		return "", false
	}
	return l.Rows[row][i], true
}

//Column returns all fields under the given tag, in row order, or nil
//if the loop does not declare the tag.
func (l *Loop) Column(tag string) []string {
	i, ok := l.col[strings.ToLower(tag)]
	if !ok {
		return nil
	}
	out := make([]string, len(l.Rows))
	for r, row := range l.Rows {
		out[r] = row[i]
	}
	return out
}

//Read parses a CIF document from r. Parsing stops at the first syntax
//error, which carries the offending line number and, when known, tag.
func Read(r io.Reader) (*Document, error) {
	p := &parser{rd: bufio.NewReader(r)}
	doc := new(Document)
	var blk *Block
	for {
		tok, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		low := strings.ToLower(tok.text)
		switch {
		case !tok.quoted && strings.HasPrefix(low, "data_"):
			blk = &Block{Name: tok.text[len("data_"):], byTag: make(map[string]*Item)}
			doc.Blocks = append(doc.Blocks, blk)
		case !tok.quoted && low == "loop_":
			if blk == nil {
				return nil, errorf(tok.line, "", "loop_ outside any data block")
			}
			if err := p.parseLoop(blk, tok.line); err != nil {
				return nil, err
			}
		case !tok.quoted && strings.HasPrefix(tok.text, "_"):
			if blk == nil {
				return nil, errorf(tok.line, tok.text, "tag outside any data block")
			}
			val, err := p.next()
			if err == io.EOF {
				return nil, errorf(tok.line, tok.text, "tag without a value")
			}
			if err != nil {
				return nil, err
			}
			if !val.quoted && isReserved(val.text) {
				return nil, errorf(tok.line, tok.text, "tag without a value")
			}
			if err := blk.addItem(&Item{Tag: tok.text, Value: val.text, Line: tok.line}); err != nil {
				return nil, err
			}
		default:
			return nil, errorf(tok.line, "", "stray value %q outside any loop", tok.text)
		}
	}
	if len(doc.Blocks) == 0 {
		return nil, errorf(0, "", "no data block found")
	}
	return doc, nil
}

//addItem registers a scalar item, rejecting duplicate tags within the
//block, including tags already declared by a loop.
func (b *Block) addItem(it *Item) error {
	key := strings.ToLower(it.Tag)
	if prev, ok := b.byTag[key]; ok {
		return errorf(it.Line, it.Tag, "duplicate tag (first on line %d)", prev.Line)
	}
	if l := b.Loop(it.Tag); l != nil {
		return errorf(it.Line, it.Tag, "tag already declared in the loop on line %d", l.Line)
	}
	b.byTag[key] = it
	b.Items = append(b.Items, it)
	return nil
}

//parseLoop reads the tag header and then rows of fields until the next
//keyword or tag. The number of fields must divide evenly into rows.
func (p *parser) parseLoop(blk *Block, line int) error {
	l := &Loop{Line: line, col: make(map[string]int)}
	for {
		tok, err := p.next()
		if err == io.EOF {
			return errorf(line, "", "unterminated loop_ header")
		}
		if err != nil {
			return err
		}
		if tok.quoted || !strings.HasPrefix(tok.text, "_") {
			p.pushBack(tok)
			break
		}
		key := strings.ToLower(tok.text)
		if _, dup := l.col[key]; dup {
			return errorf(tok.line, tok.text, "duplicate tag in loop header")
		}
		if _, dup := blk.byTag[key]; dup {
			return errorf(tok.line, tok.text, "tag already given as a scalar item")
		}
		if prev := blk.Loop(tok.text); prev != nil {
			return errorf(tok.line, tok.text, "tag already declared in the loop on line %d", prev.Line)
		}
		l.col[key] = len(l.Tags)
		l.Tags = append(l.Tags, tok.text)
	}
	if len(l.Tags) == 0 {
		return errorf(line, "", "loop_ with no tags")
	}
	var fields []string
	var firstline int
	for {
		tok, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if !tok.quoted && isReserved(tok.text) {
			p.pushBack(tok)
			break
		}
		if len(fields) == 0 {
			firstline = tok.line
		}
		fields = append(fields, tok.text)
		if len(fields) == len(l.Tags) {
			l.Rows = append(l.Rows, fields)
			l.RowLine = append(l.RowLine, firstline)
			fields = nil
		}
	}
	if len(fields) != 0 {
		return errorf(firstline, l.Tags[len(fields)],
			"incomplete loop row: got %d of %d fields", len(fields), len(l.Tags))
	}
	if len(l.Rows) == 0 {
		return errorf(line, "", "loop_ with no rows")
	}
	blk.Loops = append(blk.Loops, l)
	return nil
}

//isReserved reports whether an unquoted token opens a new construct
//rather than being a loop field.
func isReserved(s string) bool {
	if strings.HasPrefix(s, "_") {
		return true
	}
	low := strings.ToLower(s)
	return low == "loop_" || strings.HasPrefix(low, "data_") ||
		strings.HasPrefix(low, "save_") || low == "stop_" || low == "global_"
}

//ReadFile reads a CIF document from a file. Files ending in .gz or
//.zst are decompressed on the fly.
func ReadFile(name string) (*Document, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	}
	doc, err := Read(r)
	return doc, errDecorate(err, "ReadFile "+name)
}

//The tokenizer. CIF is line oriented only for comments and text
//fields, so tokens are produced a line at a time.

type token struct {
	text   string
	line   int
	quoted bool //quoted or text-field values never act as keywords
}

type parser struct {
	rd      *bufio.Reader
	line    int
	pending []token
	pushed  *token
}

func (p *parser) pushBack(t *token) {
	p.pushed = t
}

//next returns the next token in the input, reading more lines as
//needed. It returns io.EOF, and no token, at the end of the input.
func (p *parser) next() (*token, error) {
	if t := p.pushed; t != nil {
		p.pushed = nil
		return t, nil
	}
	for {
		if len(p.pending) > 0 {
			t := p.pending[0]
			p.pending = p.pending[1:]
			return &t, nil
		}
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(line, ";") {
			t, err := p.readTextField(line)
			if err != nil {
				return nil, err
			}
			return t, nil
		}
		if err := p.splitLine(line); err != nil {
			return nil, err
		}
	}
}

//readLine returns the next input line without its newline, keeping
//the line counter current. io.EOF is only returned with no text left.
func (p *parser) readLine() (string, error) {
	line, err := p.rd.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	p.line++
	return strings.TrimRight(line, "\r\n"), nil
}

//readTextField consumes a multi-line ; field. The opening line's text
//after the semicolon is part of the value; the field runs until a line
//that starts with a semicolon.
func (p *parser) readTextField(first string) (*token, error) {
	start := p.line
	var b strings.Builder
	b.WriteString(first[1:])
	for {
		line, err := p.readLine()
		if err == io.EOF {
			return nil, errorf(start, "", "unterminated text field")
		}
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(line, ";") {
			rest := strings.TrimSpace(line[1:])
			if rest != "" {
				return nil, errorf(p.line, "", "text after closing semicolon")
			}
			break
		}
		b.WriteByte('\n')
		b.WriteString(line)
	}
	text := b.String()
	//a field that starts right after the ; keeps no leading newline
	text = strings.TrimPrefix(text, "\n")
	return &token{text: text, line: start, quoted: true}, nil
}

//splitLine tokenizes one line into p.pending, honoring quotes and
//dropping comments.
func (p *parser) splitLine(line string) error {
	i := 0
	n := len(line)
	for i < n {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '#':
			return nil //comment runs to the end of the line
		case c == '\'' || c == '"':
			//closing quote must be followed by whitespace or EOL
			j := i + 1
			for {
				k := strings.IndexByte(line[j:], c)
				if k < 0 {
					return errorf(p.line, "", "unterminated quoted string")
				}
				j += k + 1
				if j >= n || line[j] == ' ' || line[j] == '\t' {
					break
				}
			}
			p.pending = append(p.pending, token{text: line[i+1 : j-1], line: p.line, quoted: true})
			i = j
		default:
			j := i
			for j < n && line[j] != ' ' && line[j] != '\t' {
				j++
			}
			p.pending = append(p.pending, token{text: line[i:j], line: p.line})
			i = j
		}
	}
	return nil
}
