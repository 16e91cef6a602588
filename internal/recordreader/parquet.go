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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"

	"github.com/cardinalhq/recordkit/internal/docvalue"
	"github.com/cardinalhq/recordkit/internal/fieldselect"
	"github.com/cardinalhq/recordkit/internal/iteration"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/source"
	"github.com/cardinalhq/recordkit/internal/split"
)

const parquetBatchSize = 1000

// ParquetOptions configures a ParquetReader.
type ParquetOptions struct {
	Selection     *fieldselect.Selection
	Label         label.Generator
	LabelPosition label.Position
	Iteration     iteration.Options
	Opener        source.Opener
}

// ParquetReader emits one record per row of each parquet file. Null
// columns are treated as missing fields and take their fallback value.
type ParquetReader struct {
	base
	extractor *fieldselect.Extractor
}

func NewParquetReader(opts ParquetOptions) (*ParquetReader, error) {
	ex, err := fieldselect.NewExtractor(opts.Selection, opts.Label, opts.LabelPosition)
	if err != nil {
		return nil, err
	}
	return &ParquetReader{
		base:      newBase("parquet", opts.Opener, opts.Iteration),
		extractor: ex,
	}, nil
}

func (r *ParquetReader) Initialize(ctx context.Context, s split.InputSplit) error {
	return r.initialize(ctx, s)
}

func (r *ParquetReader) NextSequence(ctx context.Context) ([]record.Record, error) {
	return fromNext(ctx, &r.base, "next parquet", func(loc split.Location, body io.Reader) ([]record.Record, error) {
		return r.SequenceRecord(ctx, loc, body)
	})
}

// SequenceRecord buffers body in memory, since parquet footers are read
// through io.ReaderAt.
func (r *ParquetReader) SequenceRecord(ctx context.Context, loc split.Location, body io.Reader) ([]record.Record, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, r.decodeFailed(ctx, "read parquet", loc, err)
	}
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, r.decodeFailed(ctx, "open parquet", loc, err)
	}
	pfr := parquet.NewGenericReader[map[string]any](pf, pf.Schema())
	defer func() { _ = pfr.Close() }()

	seq := make([]record.Record, 0, pf.NumRows())
	buf := make([]map[string]any, parquetBatchSize)
	for {
		for i := range buf {
			buf[i] = make(map[string]any)
		}
		n, err := pfr.Read(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, r.decodeFailed(ctx, "read parquet rows", loc, err)
		}
		for i := range n {
			rec, rerr := r.row(loc, buf[i])
			if rerr != nil {
				return nil, fmt.Errorf("extracting %s row %d: %w", loc, len(seq), rerr)
			}
			seq = append(seq, rec)
		}
		if n == 0 || errors.Is(err, io.EOF) {
			break
		}
	}
	r.emitted(ctx, len(seq))
	return seq, nil
}

func (r *ParquetReader) row(loc split.Location, row map[string]any) (record.Record, error) {
	for k, v := range row {
		if v == nil {
			delete(row, k)
		}
	}
	doc, err := docvalue.FromAny(row)
	if err != nil {
		return nil, err
	}
	return r.extractor.Extract(loc, doc)
}
