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

// Package source resolves locations to raw byte streams.
//
// A Mux dispatches on the location scheme: file, s3, gs (through the S3
// interoperability endpoint) and azblob. Remote clients are created on first
// use so purely local runs never load cloud credentials.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cardinalhq/recordkit/internal/readerr"
	"github.com/cardinalhq/recordkit/internal/split"
	"github.com/cardinalhq/recordkit/internal/telemetry"
)

// Opener returns the raw bytes behind a location. The caller must close the
// returned stream.
type Opener interface {
	Open(ctx context.Context, loc split.Location) (io.ReadCloser, error)
}

// OpenerFunc adapts a plain function to Opener.
type OpenerFunc func(ctx context.Context, loc split.Location) (io.ReadCloser, error)

func (f OpenerFunc) Open(ctx context.Context, loc split.Location) (io.ReadCloser, error) {
	return f(ctx, loc)
}

// Files opens file:// locations from the local filesystem.
type Files struct{}

func (Files) Open(_ context.Context, loc split.Location) (io.ReadCloser, error) {
	if loc.Scheme() != "file" {
		return nil, fmt.Errorf("files opener cannot open %s", loc)
	}
	f, err := os.Open(loc.FilePath())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", loc, err)
	}
	return f, nil
}

// Mux routes each location to the opener registered for its scheme.
type Mux struct {
	mu      sync.RWMutex
	openers map[string]Opener
}

// NewMux returns a Mux with the file scheme registered.
func NewMux() *Mux {
	return &Mux{openers: map[string]Opener{"file": Files{}}}
}

// Register sets the opener for scheme, replacing any previous one.
func (m *Mux) Register(scheme string, o Opener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.openers[scheme] = o
}

func (m *Mux) Open(ctx context.Context, loc split.Location) (io.ReadCloser, error) {
	scheme := loc.Scheme()
	m.mu.RLock()
	o, ok := m.openers[scheme]
	m.mu.RUnlock()
	if !ok {
		return nil, readerr.Unsupported("open "+loc.String(), fmt.Sprintf("no opener for scheme %q", scheme))
	}

	rc, err := o.Open(ctx, loc)
	if err != nil {
		telemetry.SourceOpenFails.Add(ctx, 1, telemetry.SchemeAttr(scheme))
		return nil, err
	}
	telemetry.SourceOpens.Add(ctx, 1, telemetry.SchemeAttr(scheme))
	return &countingReadCloser{rc: rc, ctx: ctx, scheme: scheme}, nil
}

type countingReadCloser struct {
	rc     io.ReadCloser
	ctx    context.Context
	scheme string
	n      int64
	closed bool
}

func (c *countingReadCloser) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReadCloser) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	telemetry.SourceBytes.Add(c.ctx, c.n, telemetry.SchemeAttr(c.scheme))
	return c.rc.Close()
}

// lazy builds its opener once, on the first Open.
type lazy struct {
	once   sync.Once
	build  func(ctx context.Context) (Opener, error)
	opener Opener
	err    error
}

func (l *lazy) Open(ctx context.Context, loc split.Location) (io.ReadCloser, error) {
	l.once.Do(func() {
		l.opener, l.err = l.build(context.WithoutCancel(ctx))
	})
	if l.err != nil {
		return nil, l.err
	}
	return l.opener.Open(ctx, loc)
}

// Lazy defers construction of an opener until it is first needed. A
// construction error is returned by every Open. The build does not observe
// cancellation of the triggering Open's context.
func Lazy(build func(ctx context.Context) (Opener, error)) Opener {
	return &lazy{build: build}
}
