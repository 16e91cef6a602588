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

package recordreader

import (
	"context"
	"fmt"
	"io"

	"github.com/cardinalhq/recordkit/internal/decoder"
	"github.com/cardinalhq/recordkit/internal/fieldselect"
	"github.com/cardinalhq/recordkit/internal/iteration"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/readerr"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/source"
	"github.com/cardinalhq/recordkit/internal/split"
)

// DocumentOptions configures a DocumentReader.
type DocumentOptions struct {
	// Selection names the fields to extract. Required.
	Selection *fieldselect.Selection
	// Label is optional. When set, its value is inserted at LabelPosition.
	Label         label.Generator
	LabelPosition label.Position
	// Decoder is used for every location. When nil the decoder is chosen
	// from each location's file extension.
	Decoder   decoder.Document
	Iteration iteration.Options
	// Opener resolves locations to bytes. Defaults to source.NewMux().
	Opener source.Opener
}

// DocumentReader reads one structured document per location and extracts a
// fixed-width record from it.
type DocumentReader struct {
	base
	extractor *fieldselect.Extractor
	decoder   decoder.Document
}

// NewDocumentReader validates opts and returns a reader ready for Initialize.
func NewDocumentReader(opts DocumentOptions) (*DocumentReader, error) {
	ex, err := fieldselect.NewExtractor(opts.Selection, opts.Label, opts.LabelPosition)
	if err != nil {
		return nil, err
	}
	return &DocumentReader{
		base:      newBase("document", opts.Opener, opts.Iteration),
		extractor: ex,
		decoder:   opts.Decoder,
	}, nil
}

// Initialize binds the reader to s. File splits are rejected: document
// collections are enumerated explicitly with a CollectionSplit or
// StreamSplit.
func (r *DocumentReader) Initialize(ctx context.Context, s split.InputSplit) error {
	if _, ok := s.(*split.FileSplit); ok {
		return readerr.Unsupported("initialize document reader", "file splits are not supported, use a collection split")
	}
	return r.initialize(ctx, s)
}

// Width is the number of values in every record this reader emits.
func (r *DocumentReader) Width() int {
	return r.extractor.Width()
}

func (r *DocumentReader) Next(ctx context.Context) (record.Record, error) {
	return fromNext(ctx, &r.base, "next document", func(loc split.Location, body io.Reader) (record.Record, error) {
		return r.Record(ctx, loc, body)
	})
}

// Record decodes body as the document at loc and extracts a record from it.
func (r *DocumentReader) Record(ctx context.Context, loc split.Location, body io.Reader) (record.Record, error) {
	dec := r.decoder
	if dec == nil {
		var err error
		if dec, err = decoder.ForExtension(loc.Base()); err != nil {
			return nil, readerr.Unsupported("decode "+loc.String(), err.Error())
		}
	}

	doc, err := dec.Decode(body)
	if err != nil {
		return nil, r.decodeFailed(ctx, "decode document", loc, err)
	}
	rec, err := r.extractor.Extract(loc, doc)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", loc, err)
	}
	r.emitted(ctx, 1)
	return rec, nil
}
