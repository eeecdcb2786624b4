/*
 * errors.go, part of goXtal.
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

import "fmt"

//Error is the concrete error type of the cif package. Line is the
//1-based line in the input where the problem was found (0 if it does
//not apply); Tag is the data name involved, if any.
type Error struct {
	message string
	Line    int
	Tag     string
	deco    []string
}

func (err *Error) Error() string {
	switch {
	case err.Line > 0 && err.Tag != "":
		return fmt.Sprintf("cif: line %d: %s: %s", err.Line, err.Tag, err.message)
	case err.Line > 0:
		return fmt.Sprintf("cif: line %d: %s", err.Line, err.message)
	case err.Tag != "":
		return fmt.Sprintf("cif: %s: %s", err.Tag, err.message)
	}
	return "cif: " + err.message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice. If dec is empty, it only returns the current decoration.
func (err *Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored.
//Syntax errors always are.
func (err *Error) Critical() bool { return true }

func errorf(line int, tag, format string, a ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, a...), Line: line, Tag: tag}
}

type errorInt interface {
	Error() string
	Decorate(string) []string
}

//errDecorate decorates err with the caller's name if it implements the
//library's error interface, and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(errorInt); ok {
		err2.Decorate(caller)
		return err2
	}
	return err
}
