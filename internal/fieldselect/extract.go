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

package fieldselect

import (
	"fmt"

	"github.com/cardinalhq/recordkit/internal/docvalue"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/readerr"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/split"
)

// Extractor turns one decoded document into one output record: the selected
// fields in declaration order, plus the label at its configured position when
// a generator is set.
type Extractor struct {
	selection *Selection
	labels    label.Generator
	position  label.Position
}

// NewExtractor validates position. A nil generator disables labeling
// regardless of position.
func NewExtractor(sel *Selection, gen label.Generator, position label.Position) (*Extractor, error) {
	if sel == nil {
		return nil, fmt.Errorf("field selection is required")
	}
	if err := position.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{selection: sel, labels: gen, position: position}, nil
}

// Width is the length of every record produced.
func (e *Extractor) Width() int {
	if e.labels != nil {
		return e.selection.Len() + 1
	}
	return e.selection.Len()
}

// Extract builds the record for doc read from loc.
func (e *Extractor) Extract(loc split.Location, doc docvalue.Value) (record.Record, error) {
	n := e.selection.Len()
	out := make(record.Record, 0, e.Width())

	for i := range n {
		if e.labels != nil && int(e.position) == i {
			lv, err := e.label(loc)
			if err != nil {
				return nil, err
			}
			out = append(out, lv)
		}

		text, found, err := Resolve(doc, e.selection.paths[i])
		if err != nil {
			return nil, readerr.Mismatch("extract", loc.String(), err)
		}
		if found {
			out = append(out, record.Text(text))
		} else {
			out = append(out, e.selection.fallbacks[i])
		}
	}

	if e.labels != nil && e.position.IsTrailing(n) {
		lv, err := e.label(loc)
		if err != nil {
			return nil, err
		}
		out = append(out, lv)
	}

	return out, nil
}

func (e *Extractor) label(loc split.Location) (record.Value, error) {
	lv, err := e.labels.LabelFor(loc)
	if err != nil {
		return record.Value{}, fmt.Errorf("label for %s: %w", loc, err)
	}
	return lv, nil
}
