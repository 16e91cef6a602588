// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package readerr defines the error taxonomy shared by splits, field
// selection and record readers.
//
// Every failure is fatal to the call that produced it. Callers classify with
// errors.Is against the sentinels below; a missing optional field is never an
// error.
package readerr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation is returned when a split kind is not supported by
	// a reader, or a split does not implement an operation such as Length.
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrIllegalState is returned when a reader is used before Initialize.
	ErrIllegalState = errors.New("illegal state")

	// ErrNoSuchElement is returned when Next is called on an exhausted reader.
	ErrNoSuchElement = errors.New("no such element")

	// ErrConfigurationMismatch is returned when a field path resolves to a
	// value that is not a scalar, i.e. the document does not match the
	// declared selection.
	ErrConfigurationMismatch = errors.New("configuration mismatch")

	// ErrDecodeFailure is returned when raw bytes cannot be opened, read or
	// decoded.
	ErrDecodeFailure = errors.New("decode failure")
)

// ReadError carries the operation and source location of a failed read
// alongside its classification.
type ReadError struct {
	Op       string
	Location string
	Kind     error
	Err      error
}

func (e *ReadError) Error() string {
	switch {
	case e.Location != "" && e.Err != nil:
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Location, e.Kind, e.Err)
	case e.Location != "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the classification of this error.
func (e *ReadError) Is(target error) bool {
	return e.Kind == target
}

// Decode wraps err as a decode failure at location.
func Decode(op, location string, err error) error {
	return &ReadError{Op: op, Location: location, Kind: ErrDecodeFailure, Err: err}
}

// Unsupported returns an unsupported-operation error for op.
func Unsupported(op, detail string) error {
	if detail == "" {
		return &ReadError{Op: op, Kind: ErrUnsupportedOperation}
	}
	return &ReadError{Op: op, Kind: ErrUnsupportedOperation, Err: errors.New(detail)}
}

// IllegalState returns an illegal-state error for op.
func IllegalState(op, detail string) error {
	return &ReadError{Op: op, Kind: ErrIllegalState, Err: errors.New(detail)}
}

// NoSuchElement returns an exhausted-iteration error for op.
func NoSuchElement(op string) error {
	return &ReadError{Op: op, Kind: ErrNoSuchElement}
}

// Mismatch returns a configuration-mismatch error at location.
func Mismatch(op, location string, err error) error {
	return &ReadError{Op: op, Location: location, Kind: ErrConfigurationMismatch, Err: err}
}
