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
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/cardinalhq/recordkit/internal/iteration"
	"github.com/cardinalhq/recordkit/internal/logctx"
	"github.com/cardinalhq/recordkit/internal/readerr"
	"github.com/cardinalhq/recordkit/internal/source"
	"github.com/cardinalhq/recordkit/internal/split"
	"github.com/cardinalhq/recordkit/internal/telemetry"
)

// base holds the traversal state every reader shares.
type base struct {
	name   string
	opener source.Opener
	iter   iteration.Options
	cursor *iteration.Cursor[split.Location]
	logger *slog.Logger
	closed bool
}

func newBase(name string, opener source.Opener, iter iteration.Options) base {
	if opener == nil {
		opener = source.NewMux()
	}
	return base{name: name, opener: opener, iter: iter}
}

func (b *base) initialize(ctx context.Context, s split.InputSplit) error {
	if s == nil {
		return readerr.IllegalState("initialize "+b.name, "nil split")
	}
	locs, err := s.Locations()
	if err != nil {
		return fmt.Errorf("listing split locations: %w", err)
	}
	b.cursor = iteration.NewCursor(locs, b.iter)
	b.closed = false
	b.logger = logctx.FromContext(ctx).With(slog.String("reader", b.name))
	b.logger.Debug("reader initialized",
		slog.Int("locations", len(locs)),
		slog.Bool("shuffle", b.iter.Shuffle),
		slog.Int64("seed", b.iter.Seed),
	)
	return nil
}

func (b *base) HasNext() bool {
	return b.cursor != nil && !b.closed && b.cursor.HasNext()
}

func (b *base) Reset() error {
	if b.cursor == nil {
		return readerr.IllegalState("reset "+b.name, "reader not initialized")
	}
	if b.closed {
		return readerr.IllegalState("reset "+b.name, "reader closed")
	}
	b.cursor.Reset()
	telemetry.Resets.Add(context.Background(), 1, telemetry.ReaderAttr(b.name))
	b.logger.Debug("reader reset",
		slog.Int("shuffles", b.cursor.Shuffles()),
		slog.String("policy", b.iter.Policy.String()),
	)
	return nil
}

// Close releases the traversal. No stream outlives a single Next call, so
// there is nothing else to release.
func (b *base) Close() error {
	b.closed = true
	return nil
}

func (b *base) advance(op string) (split.Location, error) {
	if b.cursor == nil {
		return split.Location{}, readerr.IllegalState(op, "reader not initialized")
	}
	if b.closed {
		return split.Location{}, readerr.IllegalState(op, "reader closed")
	}
	loc, ok := b.cursor.Next()
	if !ok {
		return split.Location{}, readerr.NoSuchElement(op)
	}
	return loc, nil
}

func (b *base) open(ctx context.Context, op string, loc split.Location) (io.ReadCloser, error) {
	rc, err := b.opener.Open(ctx, loc)
	if err != nil {
		telemetry.DecodeFailures.Add(ctx, 1, telemetry.ReaderAttr(b.name))
		var re *readerr.ReadError
		if errors.As(err, &re) {
			return nil, err
		}
		return nil, readerr.Decode(op, loc.String(), err)
	}
	return rc, nil
}

func (b *base) decodeFailed(ctx context.Context, op string, loc split.Location, err error) error {
	telemetry.DecodeFailures.Add(ctx, 1, telemetry.ReaderAttr(b.name))
	return readerr.Decode(op, loc.String(), err)
}

func (b *base) emitted(ctx context.Context, n int) {
	telemetry.RecordsOut.Add(ctx, int64(n), telemetry.ReaderAttr(b.name))
}

// fromNext advances the cursor, opens the location and hands the stream to
// fn. The stream is closed on every path; a close failure is reported
// alongside any error from fn.
func fromNext[T any](ctx context.Context, b *base, op string, fn func(split.Location, io.Reader) (T, error)) (out T, err error) {
	loc, err := b.advance(op)
	if err != nil {
		return out, err
	}
	rc, err := b.open(ctx, op, loc)
	if err != nil {
		return out, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil {
			err = multierror.Append(err, fmt.Errorf("closing %s: %w", loc, cerr)).ErrorOrNil()
		}
	}()
	return fn(loc, rc)
}
