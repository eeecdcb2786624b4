/*
 * write.go, part of goXtal.
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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//Write writes the document as CIF text. Values are requoted as needed
//(bare, '...', "..." or a multi-line ; field), so reading the output
//back yields the same blocks, tags and values.
func (d *Document) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, b := range d.Blocks {
		if i > 0 {
			bw.WriteByte('\n')
		}
		if err := b.write(bw); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func (b *Block) write(w *bufio.Writer) error {
	fmt.Fprintf(w, "data_%s\n\n", b.Name)
	for _, it := range b.Items {
		q, multiline := quote(it.Value)
		if multiline {
			body, ok := textBody(it.Value)
			if !ok {
				return errorf(0, it.Tag, "value has a line starting with ';', no text field can hold it")
			}
			fmt.Fprintf(w, "%s\n;%s\n;\n", it.Tag, body)
			continue
		}
		if len(it.Tag) > 33 {
			fmt.Fprintf(w, "%s %s\n", it.Tag, q)
		} else {
			fmt.Fprintf(w, "%-33s %s\n", it.Tag, q)
		}
	}
	for _, l := range b.Loops {
		w.WriteByte('\n')
		if err := l.write(w); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loop) write(w *bufio.Writer) error {
	w.WriteString("loop_\n")
	for _, t := range l.Tags {
		w.WriteString(t)
		w.WriteByte('\n')
	}
	for _, row := range l.Rows {
		for i, f := range row {
			q, multiline := quote(f)
			if multiline {
				body, ok := textBody(f)
				if !ok {
					tag := ""
					if i < len(l.Tags) {
						tag = l.Tags[i]
					}
					return errorf(0, tag, "value has a line starting with ';', no text field can hold it")
				}
				//a multi-line field forces its own lines within the row
				if i > 0 {
					w.WriteByte('\n')
				}
				fmt.Fprintf(w, ";%s\n;\n", body)
				continue
			}
			if i > 0 {
				w.WriteByte(' ')
			}
			w.WriteString(q)
		}
		w.WriteByte('\n')
	}
	return nil
}

//textBody renders a value for a ; text field, the value starting on
//the line after the opening semicolon. A value with a line that begins
//with ';' cannot be held by a text field (it would read back as the
//terminator); textBody reports it as unwritable.
func textBody(v string) (string, bool) {
	for _, line := range strings.Split(v, "\n") {
		if strings.HasPrefix(line, ";") {
			return "", false
		}
	}
	return "\n" + v, true
}

//quote returns the field as it should appear in the output, and
//whether it needs a multi-line text field instead.
func quote(v string) (string, bool) {
	if strings.ContainsRune(v, '\n') ||
		(strings.Contains(v, "'") && strings.Contains(v, `"`)) {
		return "", true
	}
	if !needsQuotes(v) {
		return v, false
	}
	if !strings.Contains(v, "'") {
		return "'" + v + "'", false
	}
	return `"` + v + `"`, false
}

//needsQuotes reports whether a single-line value cannot be written
//bare: empty values, embedded blanks, leading quote or comment
//characters, and anything that would read back as a tag or keyword.
func needsQuotes(v string) bool {
	if v == "" {
		return true
	}
	if strings.ContainsAny(v, " \t'\"") {
		return true
	}
	switch v[0] {
	case '_', '#', '$', '[', ']', ';':
		return true
	}
	return isReserved(v)
}

//WriteFile writes the document to a file, compressing with gzip or
//zstd when the name ends in .gz or .zst.
func (d *Document) WriteFile(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz := gzip.NewWriter(f)
		if err := d.Write(gz); err != nil {
			gz.Close()
			return err
		}
		return gz.Close()
	case strings.HasSuffix(name, ".zst"):
		zw, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		if err := d.Write(zw); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	}
	return d.Write(f)
}
