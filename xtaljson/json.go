/*
 * json.go, part of goXtal.
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

//Package xtaljson encodes structures as a stream of JSON lines so
//external programs (visualizers, scripts) can consume goXtal data
//without linking against it, and sends their replies back.
package xtaljson

import (
	"bufio"
	"encoding/json"
	"io"

	xtal "github.com/mfaundez/goxtal"
)

//Header is the first JSON line of a stream: the cell, the symmetry
//operations in Jones-faithful notation, and the site count.
type Header struct {
	Name       string
	A, B, C    float64
	Alpha      float64
	Beta       float64
	Gamma      float64
	SpaceGroup string
	Symops     []string
	Sites      int
}

//Site is a ready-to-serialize container for one atom site. Cart
//carries the cartesian coordinates so consumers need no cell math.
type Site struct {
	Label  string
	Symbol string
	Frac   []float64
	Cart   []float64
	Ueq    float64
}

//An easily JSON-serializable error type.
type Error struct {
	deco     []string
	IsError  bool   //If this is false (no error) all the other fields are at their zero-values.
	Function string //which go function gave the error
	Message  string //the error itself
}

//Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (e *Error) Decorate(dec string) []string {
	if dec != "" {
		e.deco = append(e.deco, dec)
	}
	return e.deco
}

//NewError takes an error and the function it came from, and builds a
//json-marshal-able error.
func NewError(function string, err error) *Error {
	return &Error{IsError: true, Function: function, Message: err.Error()}
}

//Send encodes the structure to out, one JSON document per line: the
//header, then each site.
func Send(st *xtal.Structure, out io.Writer) *Error {
	const funcname = "Send"
	enc := json.NewEncoder(out)
	h := &Header{
		Name:       st.Name,
		A:          st.Cell.A.V,
		B:          st.Cell.B.V,
		C:          st.Cell.C.V,
		Alpha:      st.Cell.Alpha.V,
		Beta:       st.Cell.Beta.V,
		Gamma:      st.Cell.Gamma.V,
		SpaceGroup: st.SpaceGroup.NameHM,
		Sites:      len(st.Sites),
	}
	for _, op := range st.SpaceGroup.Ops {
		h.Symops = append(h.Symops, op.String())
	}
	if err := enc.Encode(h); err != nil {
		return NewError(funcname, err)
	}
	for _, s := range st.Sites {
		c := st.Cell.Cart(s.Frac())
		j := &Site{
			Label:  s.Label,
			Symbol: s.Symbol,
			Frac:   []float64{s.X.V, s.Y.V, s.Z.V},
			Cart:   c[:],
		}
		if s.UisoOrEq.Known() {
			j.Ueq = s.UisoOrEq.V
		}
		if err := enc.Encode(j); err != nil {
			return NewError(funcname, err)
		}
	}
	return nil
}

//Decode reads back a stream produced by Send. It returns the header
//and the sites; values with uncertainties are not recoverable from
//JSON, so the coordinates come back as plain values.
func Decode(in *bufio.Reader) (*Header, []*Site, *Error) {
	const funcname = "Decode"
	line, err := in.ReadBytes('\n')
	if err != nil {
		return nil, nil, NewError(funcname, err)
	}
	h := new(Header)
	if err := json.Unmarshal(line, h); err != nil {
		return nil, nil, NewError(funcname, err)
	}
	sites := make([]*Site, 0, h.Sites)
	for i := 0; i < h.Sites; i++ {
		line, err := in.ReadBytes('\n')
		if err != nil {
			break
		}
		s := new(Site)
		if err := json.Unmarshal(line, s); err != nil {
			return nil, nil, NewError(funcname, err)
		}
		sites = append(sites, s)
	}
	return h, sites, nil
}
