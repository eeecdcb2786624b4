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

package xtal

import "fmt"

//Error is the interface for errors that all packages in this library implement. The Decorate
//method allows to add and retrieve info from the error, without changing its type or wrapping
//it around something else.
type Error interface {
	Error() string
	Decorate(string) []string
	Critical() bool
}

//CError is the concrete error type of the xtal package.
type CError struct {
	msg  string
	deco []string
}

func (err CError) Error() string { return err.msg }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice. If dec is empty, it only returns the current decoration.
func (err CError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns whether the error is critical or can be ignored. Errors
//from this package are always critical.
func (err CError) Critical() bool { return true }

type errorInt interface {
	Error() string
	Decorate(string) []string
}

//errDecorate asserts that err implements the package error interface, decorates
//it with the caller's name and returns it. A nil err returns nil.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	err2, ok := err.(errorInt)
	if !ok {
		return CError{err.Error(), []string{caller}}
	}
	err2.Decorate(caller)
	return err2
}

//PanicMsg is a message used for panics caused by programmer errors,
//even though it does satisfy the error interface. For recoverable
//conditions use CError.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }

const (
	ErrNilCell        = PanicMsg("goXtal: nil unit cell")
	ErrNilSpaceGroup  = PanicMsg("goXtal: nil space group")
	ErrNilStructure   = PanicMsg("goXtal: nil structure")
	ErrSingularMatrix = PanicMsg("goXtal: singular cell matrix")
)

//small helper to build one-line errors in the package's error type.
func cerrf(format string, a ...interface{}) CError {
	return CError{msg: fmt.Sprintf(format, a...)}
}
