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
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/readerr"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/split"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// framesGIF builds a w x h GIF whose frame i is filled with palette[i].
func framesGIF(t *testing.T, w, h int, palette color.Palette) []byte {
	t.Helper()
	g := &gif.GIF{Config: image.Config{Width: w, Height: h, ColorModel: palette}}
	for i := range palette {
		frame := image.NewPaletted(image.Rect(0, 0, w, h), palette)
		for y := range h {
			for x := range w {
				frame.SetColorIndex(x, y, uint8(i))
			}
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 1)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	return buf.Bytes()
}

var rgb = color.Palette{
	color.RGBA{R: 255, A: 255},
	color.RGBA{G: 255, A: 255},
	color.RGBA{B: 255, A: 255},
}

func TestImageReaderFileSplitWithLabels(t *testing.T) {
	root := t.TempDir()
	for _, p := range []struct {
		dir string
		c   color.Color
	}{{"cat", color.RGBA{R: 255, A: 255}}, {"dog", color.RGBA{B: 255, A: 255}}} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, p.dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, p.dir, "1.png"), solidPNG(t, 4, 4, p.c), 0o644))
	}
	fsplit, err := split.NewFileSplit(root, split.WithExtensions("png"))
	require.NoError(t, err)

	r, err := NewImageReader(ImageOptions{
		Height: 2, Width: 2, Channels: 3,
		Label: label.Indexed{Inner: label.ParentDir{}, Labels: []string{"cat", "dog"}},
	})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), fsplit))

	got := drain(t, r)
	require.Len(t, got, 2)
	for i, want := range [][]float64{{255, 0, 0}, {0, 0, 255}} {
		require.Len(t, got[i], 2)
		data, shape, ok := got[i][0].AsArray()
		require.True(t, ok)
		assert.Equal(t, []int{2, 2, 3}, shape)
		assert.Equal(t, want, data[:3])
		assert.Equal(t, record.Int(int64(i)), got[i][1])
	}
}

func TestImageReaderNoLabel(t *testing.T) {
	store := newMemStore()
	loc := store.put("mem://imgs/a.png", string(solidPNG(t, 3, 3, color.Gray{Y: 128})))
	r, err := NewImageReader(ImageOptions{Channels: 1, Opener: store})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), split.NewCollectionSplit([]split.Location{loc})))

	rec, err := r.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, rec, 1)
	data, shape, ok := rec[0].AsArray()
	require.True(t, ok)
	assert.Equal(t, []int{3, 3, 1}, shape)
	assert.Len(t, data, 9)
}

func TestImageReaderRejectsChannels(t *testing.T) {
	_, err := NewImageReader(ImageOptions{Channels: 2})
	assert.Error(t, err)
}

func TestImageReaderDecodeFailure(t *testing.T) {
	store := newMemStore()
	loc := store.put("mem://imgs/bad.png", "not a png")
	r, err := NewImageReader(ImageOptions{Opener: store})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), split.NewCollectionSplit([]split.Location{loc})))

	_, err = r.Next(context.Background())
	assert.ErrorIs(t, err, readerr.ErrDecodeFailure)
	assert.Zero(t, store.open)
}

func TestFrameReaderWindowAndRavel(t *testing.T) {
	store := newMemStore()
	data := framesGIF(t, 3, 2, rgb)
	loc := store.put("mem://clips/fire/a.gif", string(data))

	r, err := NewFrameReader(FrameOptions{
		StartFrame:  1,
		TotalFrames: 500,
		Ravel:       true,
		Label:       label.ParentDir{},
		Opener:      store,
	})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), split.NewCollectionSplit([]split.Location{loc})))
	require.True(t, r.HasNext())

	seq, err := r.NextSequence(context.Background())
	require.NoError(t, err)
	require.Len(t, seq, 2)
	for i, want := range [][]float64{{0, 255, 0}, {0, 0, 255}} {
		require.Len(t, seq[i], 2)
		arr, shape, ok := seq[i][0].AsArray()
		require.True(t, ok)
		assert.Equal(t, []int{3 * 2 * 3}, shape)
		assert.Equal(t, want, arr[:3])
		assert.Equal(t, record.Text("fire"), seq[i][1])
	}
	assert.False(t, r.HasNext())

	viaBytes, err := r.SequenceRecord(context.Background(), loc, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, seq, viaBytes)
}

func TestFrameReaderUnraveledResized(t *testing.T) {
	store := newMemStore()
	loc := store.put("mem://clips/a.gif", string(framesGIF(t, 4, 4, rgb)))

	r, err := NewFrameReader(FrameOptions{TotalFrames: 1, Rows: 2, Columns: 1, Opener: store})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), split.NewCollectionSplit([]split.Location{loc})))

	seq, err := r.NextSequence(context.Background())
	require.NoError(t, err)
	require.Len(t, seq, 1)
	require.Len(t, seq[0], 2*1*3)
	assert.Equal(t, record.Double(255), seq[0][0])
	assert.Equal(t, record.Double(0), seq[0][1])
}

func TestFrameReaderStartPastEnd(t *testing.T) {
	store := newMemStore()
	loc := store.put("mem://clips/a.gif", string(framesGIF(t, 2, 2, rgb)))
	r, err := NewFrameReader(FrameOptions{StartFrame: 10, Opener: store})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), split.NewCollectionSplit([]split.Location{loc})))

	seq, err := r.NextSequence(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestFrameReaderRejectsNegativeRange(t *testing.T) {
	_, err := NewFrameReader(FrameOptions{StartFrame: -1})
	assert.Error(t, err)
}
