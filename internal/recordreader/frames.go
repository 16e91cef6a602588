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
	"image"
	"io"

	"github.com/cardinalhq/recordkit/internal/decoder"
	"github.com/cardinalhq/recordkit/internal/iteration"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/source"
	"github.com/cardinalhq/recordkit/internal/split"
)

// FrameOptions configures a FrameReader.
type FrameOptions struct {
	// StartFrame is the 0-based index of the first frame emitted.
	StartFrame int
	// TotalFrames caps the number of frames emitted. Zero means all
	// remaining frames; a cap past the end is truncated.
	TotalFrames int
	// Rows and Columns resize each frame. Zero keeps the native size.
	Rows    int
	Columns int
	// Ravel emits each frame as one Array value. Otherwise each frame is
	// rows*columns*3 Double values.
	Ravel bool
	// Label, when set, is appended to every frame record.
	Label     label.Generator
	Decoder   decoder.Frames
	Iteration iteration.Options
	Opener    source.Opener
}

// FrameReader reads an animated image per location and emits its frames,
// in decoder order, as a sequence of RGB records.
type FrameReader struct {
	base
	opts FrameOptions
}

func NewFrameReader(opts FrameOptions) (*FrameReader, error) {
	if opts.StartFrame < 0 || opts.TotalFrames < 0 {
		return nil, fmt.Errorf("frame range must not be negative (start %d, total %d)", opts.StartFrame, opts.TotalFrames)
	}
	if opts.Rows < 0 || opts.Columns < 0 {
		return nil, fmt.Errorf("frame size must not be negative, got %dx%d", opts.Rows, opts.Columns)
	}
	if opts.Decoder == nil {
		opts.Decoder = decoder.GIF{}
	}
	return &FrameReader{
		base: newBase("frames", opts.Opener, opts.Iteration),
		opts: opts,
	}, nil
}

func (r *FrameReader) Initialize(ctx context.Context, s split.InputSplit) error {
	return r.initialize(ctx, s)
}

func (r *FrameReader) NextSequence(ctx context.Context) ([]record.Record, error) {
	return fromNext(ctx, &r.base, "next frames", func(loc split.Location, body io.Reader) ([]record.Record, error) {
		return r.SequenceRecord(ctx, loc, body)
	})
}

func (r *FrameReader) SequenceRecord(ctx context.Context, loc split.Location, body io.Reader) ([]record.Record, error) {
	frames, err := r.opts.Decoder.Decode(body)
	if err != nil {
		return nil, r.decodeFailed(ctx, "decode frames", loc, err)
	}
	frames = r.window(frames)

	var lbl *record.Value
	if r.opts.Label != nil {
		v, err := r.opts.Label.LabelFor(loc)
		if err != nil {
			return nil, fmt.Errorf("label for %s: %w", loc, err)
		}
		lbl = &v
	}

	seq := make([]record.Record, 0, len(frames))
	for i, frame := range frames {
		px, err := decoder.Rasterize(frame, r.opts.Rows, r.opts.Columns, 3)
		if err != nil {
			return nil, r.decodeFailed(ctx, fmt.Sprintf("rasterize frame %d", r.opts.StartFrame+i), loc, err)
		}
		var rec record.Record
		if r.opts.Ravel {
			rec = record.Record{record.Array(px.Data)}
		} else {
			rec = make(record.Record, 0, len(px.Data)+1)
			for _, d := range px.Data {
				rec = append(rec, record.Double(d))
			}
		}
		if lbl != nil {
			rec = append(rec, *lbl)
		}
		seq = append(seq, rec)
	}
	r.emitted(ctx, len(seq))
	return seq, nil
}

func (r *FrameReader) window(frames []image.Image) []image.Image {
	if r.opts.StartFrame >= len(frames) {
		return nil
	}
	frames = frames[r.opts.StartFrame:]
	if r.opts.TotalFrames > 0 && r.opts.TotalFrames < len(frames) {
		frames = frames[:r.opts.TotalFrames]
	}
	return frames
}
