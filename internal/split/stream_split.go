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

package split

import (
	"iter"
	"slices"

	"github.com/cardinalhq/recordkit/internal/readerr"
)

// StreamSplit is a forward-only split backed by a location sequence. Its
// size is not known before reading, so Length is unsupported.
type StreamSplit struct {
	seq     iter.Seq[Location]
	drained bool
}

var _ InputSplit = (*StreamSplit)(nil)

// NewStreamSplit wraps seq. If seq is single-use, only the first call to
// Locations or All observes its elements.
func NewStreamSplit(seq iter.Seq[Location]) *StreamSplit {
	return &StreamSplit{seq: seq}
}

func (s *StreamSplit) Length() (int64, error) {
	return 0, readerr.Unsupported("length", "stream split has no addressable length")
}

// Locations drains the sequence. A second call fails with ErrIllegalState.
func (s *StreamSplit) Locations() ([]Location, error) {
	if s.drained {
		return nil, readerr.IllegalState("locations", "stream split already drained")
	}
	s.drained = true
	return slices.Collect(s.seq), nil
}

// All exposes the underlying sequence for forward access.
func (s *StreamSplit) All() iter.Seq[Location] {
	return s.seq
}
