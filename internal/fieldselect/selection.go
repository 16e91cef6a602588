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

// Package fieldselect declares which nested paths to pull out of a decoded
// document, in what output order, and what to emit when a path is absent.
//
// Documents may reorder keys, omit optional fields or nest values
// arbitrarily. A path that cannot be followed yields its fallback value. A
// path that reaches a list or map at its last segment means the document does
// not match the selection and is reported as readerr.ErrConfigurationMismatch.
package fieldselect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cardinalhq/recordkit/internal/record"
)

// DefaultMissingValue is the fallback for fields added without one.
var DefaultMissingValue = record.Text("")

// FieldPath is a sequence of keys descending into nested maps.
type FieldPath []string

func (p FieldPath) String() string {
	return strings.Join(p, ".")
}

// ParsePath splits a dotted path such as "a.b.c".
func ParsePath(dotted string) FieldPath {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// Selection is an ordered list of field paths with one fallback value each.
// It is immutable and safe to share between readers.
type Selection struct {
	paths     []FieldPath
	fallbacks []record.Value
}

// Len is the number of declared fields.
func (s *Selection) Len() int {
	return len(s.paths)
}

// Path returns a copy of the i-th path.
func (s *Selection) Path(i int) FieldPath {
	return append(FieldPath(nil), s.paths[i]...)
}

// Fallback returns the value emitted when the i-th path is missing.
func (s *Selection) Fallback(i int) record.Value {
	return s.fallbacks[i]
}

// Paths returns copies of all paths in declaration order.
func (s *Selection) Paths() []FieldPath {
	out := make([]FieldPath, len(s.paths))
	for i := range s.paths {
		out[i] = s.Path(i)
	}
	return out
}

// Builder accumulates fields for a Selection.
type Builder struct {
	paths     []FieldPath
	fallbacks []record.Value
	errs      []error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddField appends a field whose fallback is DefaultMissingValue.
func (b *Builder) AddField(path ...string) *Builder {
	return b.AddFieldWithDefault(DefaultMissingValue, path...)
}

// AddFieldWithDefault appends a field with an explicit fallback.
func (b *Builder) AddFieldWithDefault(fallback record.Value, path ...string) *Builder {
	if len(path) == 0 {
		b.errs = append(b.errs, fmt.Errorf("field %d: empty path", len(b.paths)))
		return b
	}
	for _, seg := range path {
		if seg == "" {
			b.errs = append(b.errs, fmt.Errorf("field %d: empty segment in path %q", len(b.paths), strings.Join(path, ".")))
			return b
		}
	}
	b.paths = append(b.paths, append(FieldPath(nil), path...))
	b.fallbacks = append(b.fallbacks, fallback)
	return b
}

// Build returns the Selection, or every error recorded while adding fields.
func (b *Builder) Build() (*Selection, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("invalid field selection: %w", errors.Join(b.errs...))
	}
	return &Selection{
		paths:     append([]FieldPath(nil), b.paths...),
		fallbacks: append([]record.Value(nil), b.fallbacks...),
	}, nil
}
