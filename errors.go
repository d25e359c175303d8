/*
 * errors.go, part of orbplot.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
 */

package orbplot

import (
	"errors"
	"fmt"
	"strings"
)

//Kinds of error. Every Error wraps one of them, so they can be
//checked with errors.Is. All of them stop the run.
var (
	ErrConfig       = errors.New("configuration error")
	ErrPrecondition = errors.New("fatal precondition")
	ErrFormat       = errors.New("wrong format")
	ErrIO           = errors.New("I/O error")
)

//Error is the error type for the package.
type Error struct {
	message  string
	filename string //the file that has problems, or empty string if none.
	deco     []string
	kind     error
	cause    error //the error from another package that caused this one, if any.
}

func newError(kind error, caller, format string, a ...interface{}) Error {
	return Error{message: fmt.Sprintf(format, a...), deco: []string{caller}, kind: kind}
}

func (err Error) Error() string {
	var b strings.Builder
	b.WriteString("orbplot: ")
	b.WriteString(err.kind.Error())
	if err.filename != "" {
		b.WriteString(" in " + err.filename)
	}
	b.WriteString(": " + err.message)
	if len(err.deco) > 0 {
		//deepest caller first
		b.WriteString(" (" + strings.Join(err.deco, " < ") + ")")
	}
	return b.String()
}

//Decorate adds new information to the error
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//FileName returns the file associated to the error, if any.
func (err Error) FileName() string { return err.filename }

//Critical returns true, no error in orbplot can be ignored.
func (err Error) Critical() bool { return true }

//Unwrap returns the kind of the error and, if present, its cause.
func (err Error) Unwrap() []error {
	if err.cause != nil {
		return []error{err.kind, err.cause}
	}
	return []error{err.kind}
}

//errDecorate adds caller to the decorations of err if it is an Error.
//Other errors are wrapped in an Error of kind kind.
func errDecorate(err error, caller string, kind error) error {
	if err == nil {
		return nil
	}
	var e Error
	if errors.As(err, &e) {
		e.deco = append(e.deco, caller)
		return e
	}
	return Error{message: err.Error(), deco: []string{caller}, kind: kind, cause: err}
}

//errFile is like errDecorate, and also records the file involved.
func errFile(err error, caller, name string, kind error) error {
	e := errDecorate(err, caller, kind).(Error)
	if e.filename == "" {
		e.filename = name
	}
	return e
}
