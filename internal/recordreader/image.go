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
	"github.com/cardinalhq/recordkit/internal/iteration"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/source"
	"github.com/cardinalhq/recordkit/internal/split"
)

// ImageOptions configures an ImageReader. Zero Height or Width keeps each
// image's native size; zero Channels means 3.
type ImageOptions struct {
	Height   int
	Width    int
	Channels int
	// Label, when set, is appended after the pixel array.
	Label     label.Generator
	Decoder   decoder.Image
	Iteration iteration.Options
	Opener    source.Opener
}

// ImageReader emits one record per image: the pixel array with shape
// [height, width, channels], followed by the label when one is configured.
type ImageReader struct {
	base
	opts ImageOptions
}

func NewImageReader(opts ImageOptions) (*ImageReader, error) {
	if opts.Channels == 0 {
		opts.Channels = 3
	}
	if opts.Channels != 1 && opts.Channels != 3 && opts.Channels != 4 {
		return nil, fmt.Errorf("image channels must be 1, 3 or 4, got %d", opts.Channels)
	}
	if opts.Height < 0 || opts.Width < 0 {
		return nil, fmt.Errorf("image size must not be negative, got %dx%d", opts.Height, opts.Width)
	}
	if opts.Decoder == nil {
		opts.Decoder = decoder.StdImage{}
	}
	return &ImageReader{
		base: newBase("image", opts.Opener, opts.Iteration),
		opts: opts,
	}, nil
}

// Initialize binds the reader to any split kind.
func (r *ImageReader) Initialize(ctx context.Context, s split.InputSplit) error {
	return r.initialize(ctx, s)
}

func (r *ImageReader) Next(ctx context.Context) (record.Record, error) {
	return fromNext(ctx, &r.base, "next image", func(loc split.Location, body io.Reader) (record.Record, error) {
		return r.Record(ctx, loc, body)
	})
}

func (r *ImageReader) Record(ctx context.Context, loc split.Location, body io.Reader) (record.Record, error) {
	img, err := r.opts.Decoder.Decode(body)
	if err != nil {
		return nil, r.decodeFailed(ctx, "decode image", loc, err)
	}
	px, err := decoder.Rasterize(img, r.opts.Height, r.opts.Width, r.opts.Channels)
	if err != nil {
		return nil, r.decodeFailed(ctx, "rasterize image", loc, err)
	}

	rec := record.Record{record.Array(px.Data, px.Height, px.Width, px.Channels)}
	if r.opts.Label != nil {
		v, err := r.opts.Label.LabelFor(loc)
		if err != nil {
			return nil, fmt.Errorf("label for %s: %w", loc, err)
		}
		rec = append(rec, v)
	}
	r.emitted(ctx, 1)
	return rec, nil
}
