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

// Package label derives record labels from source locations.
//
// A Generator is a pure function of the location; it never sees document
// content. Position decides where in an output record the label lands.
package label

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cardinalhq/recordkit/internal/readerr"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/split"
)

// Generator maps a source location to a label value.
type Generator interface {
	LabelFor(loc split.Location) (record.Value, error)
}

// Func adapts a plain function to Generator.
type Func func(loc split.Location) (record.Value, error)

func (f Func) LabelFor(loc split.Location) (record.Value, error) {
	return f(loc)
}

// Position is a 0-based index among the extracted fields, or Last.
type Position int

// Last places the label after all extracted fields.
const Last Position = -1

// Validate rejects negative positions other than Last.
func (p Position) Validate() error {
	if p < Last {
		return fmt.Errorf("label position %d: must be >= 0 or %d", int(p), int(Last))
	}
	return nil
}

// IsTrailing reports whether the label goes after all of n fields.
func (p Position) IsTrailing(n int) bool {
	return p == Last || int(p) >= n
}

// ParentDir labels a location with the name of its immediate parent
// directory, as used for per-class image trees.
type ParentDir struct{}

func (ParentDir) LabelFor(loc split.Location) (record.Value, error) {
	return record.Text(loc.ParentName()), nil
}

// Pattern labels a location with one token of its base file name, after
// splitting on Separator. The extension is dropped first.
type Pattern struct {
	Separator string
	Index     int
}

func (p Pattern) LabelFor(loc split.Location) (record.Value, error) {
	base := loc.Base()
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	tokens := strings.Split(base, p.Separator)
	if p.Index < 0 || p.Index >= len(tokens) {
		return record.Value{}, readerr.Mismatch("pattern label", loc.String(),
			fmt.Errorf("token %d of %q split by %q does not exist", p.Index, base, p.Separator))
	}
	return record.Text(tokens[p.Index]), nil
}

// Indexed converts the text label of Inner into its position in Labels,
// giving an integer class id.
type Indexed struct {
	Inner  Generator
	Labels []string
}

func (g Indexed) LabelFor(loc split.Location) (record.Value, error) {
	v, err := g.Inner.LabelFor(loc)
	if err != nil {
		return record.Value{}, err
	}
	name, ok := v.AsText()
	if !ok {
		return record.Value{}, readerr.Mismatch("indexed label", loc.String(),
			fmt.Errorf("inner label is %s, not text", v.Kind()))
	}
	idx := slices.Index(g.Labels, name)
	if idx < 0 {
		return record.Value{}, readerr.Mismatch("indexed label", loc.String(),
			fmt.Errorf("label %q is not one of %v", name, g.Labels))
	}
	return record.Int(int64(idx)), nil
}
