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
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/cardinalhq/recordkit/internal/decoder"
	"github.com/cardinalhq/recordkit/internal/fieldselect"
	"github.com/cardinalhq/recordkit/internal/iteration"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/source"
	"github.com/cardinalhq/recordkit/internal/split"
)

// maxLineSize bounds a single JSON line.
const maxLineSize = 4 * 1024 * 1024

// LinesOptions configures a JSONLinesReader.
type LinesOptions struct {
	Selection     *fieldselect.Selection
	Label         label.Generator
	LabelPosition label.Position
	Iteration     iteration.Options
	Opener        source.Opener
}

// JSONLinesReader reads one JSON object per line and emits one record per
// non-empty line, in file order.
type JSONLinesReader struct {
	base
	extractor *fieldselect.Extractor
}

func NewJSONLinesReader(opts LinesOptions) (*JSONLinesReader, error) {
	ex, err := fieldselect.NewExtractor(opts.Selection, opts.Label, opts.LabelPosition)
	if err != nil {
		return nil, err
	}
	return &JSONLinesReader{
		base:      newBase("jsonlines", opts.Opener, opts.Iteration),
		extractor: ex,
	}, nil
}

func (r *JSONLinesReader) Initialize(ctx context.Context, s split.InputSplit) error {
	return r.initialize(ctx, s)
}

func (r *JSONLinesReader) NextSequence(ctx context.Context) ([]record.Record, error) {
	return fromNext(ctx, &r.base, "next lines", func(loc split.Location, body io.Reader) ([]record.Record, error) {
		return r.SequenceRecord(ctx, loc, body)
	})
}

func (r *JSONLinesReader) SequenceRecord(ctx context.Context, loc split.Location, body io.Reader) ([]record.Record, error) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var seq []record.Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		doc, err := decoder.JSON{}.Decode(bytes.NewReader(line))
		if err != nil {
			return nil, r.decodeFailed(ctx, fmt.Sprintf("decode line %d", lineNo), loc, err)
		}
		rec, err := r.extractor.Extract(loc, doc)
		if err != nil {
			return nil, fmt.Errorf("extracting %s line %d: %w", loc, lineNo, err)
		}
		seq = append(seq, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, r.decodeFailed(ctx, fmt.Sprintf("scan after line %d", lineNo), loc, err)
	}
	r.emitted(ctx, len(seq))
	return seq, nil
}
