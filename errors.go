/*
 * errors.go, part of res2desc.
 *
 * Copyright 2026 The res2desc Authors
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

package res2desc

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every error returned by this module can be matched against
// one of these with errors.Is.
var (
	ErrParse           = errors.New("parse error")
	ErrAdapterProtocol = errors.New("ill-formed external output")
	ErrCompute         = errors.New("descriptor computation failed")
	ErrConfig          = errors.New("invalid configuration")
	ErrMismatch        = errors.New("metadata and descriptors do not match")
	ErrIO              = errors.New("input/output error")
)

// Error is the error type used by all packages in the module. Besides the
// message it keeps a decoration trail (the functions the error went through,
// innermost first) and whether it is critical.
type Error struct {
	kind     error
	message  string
	deco     []string
	critical bool
	cause    error
}

// NewError returns a critical Error of the given kind, decorated with caller.
func NewError(kind error, message string, caller string) *Error {
	return &Error{kind: kind, message: message, deco: []string{caller}, critical: true}
}

// WrapError is NewError with an underlying cause, which errors.Unwrap returns.
func WrapError(kind error, cause error, message string, caller string) *Error {
	E := NewError(kind, message, caller)
	E.cause = cause
	return E
}

func (E *Error) Error() string {
	msg := E.kind.Error()
	if E.message != "" {
		msg += ": " + E.message
	}
	if E.cause != nil {
		msg += ": " + E.cause.Error()
	}
	return msg
}

// Decorate adds deco to the decoration trail and returns the trail.
// An empty deco just returns the current trail.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Trail returns the decorations as a single string, outermost last.
func (E *Error) Trail() string {
	return strings.Join(E.deco, " <- ")
}

// Critical returns true if the run cannot go on after this error.
func (E *Error) Critical() bool { return E.critical }

// Is matches the error against its kind.
func (E *Error) Is(target error) bool {
	return target == E.kind
}

func (E *Error) Unwrap() error {
	return E.cause
}

// Decorate adds caller to the trail of err if it is an *Error, and returns err.
// Other errors are wrapped into an Error of the given kind.
func Decorate(err error, kind error, caller string) error {
	if err == nil {
		return nil
	}
	var E *Error
	if errors.As(err, &E) {
		E.Decorate(caller)
		return err
	}
	return WrapError(kind, err, "", caller)
}

// Errorf is a shortcut for NewError with a formatted message.
func Errorf(kind error, caller string, format string, args ...interface{}) *Error {
	return NewError(kind, fmt.Sprintf(format, args...), caller)
}
