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

// Package split provides InputSplit implementations: ordered, read-only
// collections of source locations handed to record readers.
package split

import (
	"github.com/cardinalhq/recordkit/internal/readerr"
)

// InputSplit is an ordered collection of source locations.
// Implementations are read-only after construction and may be shared by
// several readers.
type InputSplit interface {
	// Length returns the number of locations. Forward-only splits return an
	// error wrapping readerr.ErrUnsupportedOperation.
	Length() (int64, error)

	// Locations returns the locations in split order. The returned slice is
	// owned by the caller.
	Locations() ([]Location, error)
}

// CollectionSplit wraps an externally supplied set of locations, in the
// order they were provided.
type CollectionSplit struct {
	locations []Location
}

var _ InputSplit = (*CollectionSplit)(nil)

// NewCollectionSplit copies locs; later changes to locs are not observed.
func NewCollectionSplit(locs []Location) *CollectionSplit {
	return &CollectionSplit{locations: append([]Location(nil), locs...)}
}

// NewCollectionSplitFromStrings parses each URI and builds a CollectionSplit.
func NewCollectionSplitFromStrings(uris ...string) (*CollectionSplit, error) {
	locs := make([]Location, 0, len(uris))
	for _, raw := range uris {
		loc, err := ParseLocation(raw)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return &CollectionSplit{locations: locs}, nil
}

func (s *CollectionSplit) Length() (int64, error) {
	return int64(len(s.locations)), nil
}

func (s *CollectionSplit) Locations() ([]Location, error) {
	return append([]Location(nil), s.locations...), nil
}

// MarshalBinary is not supported; splits are not persisted.
func (s *CollectionSplit) MarshalBinary() ([]byte, error) {
	return nil, readerr.Unsupported("marshal collection split", "")
}

// UnmarshalBinary is not supported; splits are not persisted.
func (s *CollectionSplit) UnmarshalBinary([]byte) error {
	return readerr.Unsupported("unmarshal collection split", "")
}
