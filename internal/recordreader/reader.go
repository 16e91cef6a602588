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

// Package recordreader turns the locations of an input split into records.
//
// Single-record readers (DocumentReader, ImageReader) produce one record per
// location. Sequence readers (FrameReader, JSONLinesReader, ParquetReader)
// produce an ordered list of records per location. Every reader walks its
// split with an iteration.Cursor, opens each location through a
// source.Opener, and also accepts raw bytes directly through Record or
// SequenceRecord so callers that already hold a stream get identical output.
//
// Readers are not safe for concurrent use.
package recordreader

import (
	"context"
	"io"

	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/split"
)

// Reader is the lifecycle shared by both reader shapes.
type Reader interface {
	// Initialize binds the reader to a split and positions it before the
	// first location.
	Initialize(ctx context.Context, s split.InputSplit) error
	HasNext() bool
	// Reset rewinds to the first location, reshuffling when enabled.
	Reset() error
	Close() error
}

// RecordReader produces one record per location.
type RecordReader interface {
	Reader
	Next(ctx context.Context) (record.Record, error)
	Record(ctx context.Context, loc split.Location, r io.Reader) (record.Record, error)
}

// SequenceRecordReader produces an ordered list of records per location.
type SequenceRecordReader interface {
	Reader
	NextSequence(ctx context.Context) ([]record.Record, error)
	SequenceRecord(ctx context.Context, loc split.Location, r io.Reader) ([]record.Record, error)
}

var (
	_ RecordReader         = (*DocumentReader)(nil)
	_ RecordReader         = (*ImageReader)(nil)
	_ SequenceRecordReader = (*FrameReader)(nil)
	_ SequenceRecordReader = (*JSONLinesReader)(nil)
	_ SequenceRecordReader = (*ParquetReader)(nil)
)
