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

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/recordkit/internal/fieldselect"
	"github.com/cardinalhq/recordkit/internal/iteration"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/record"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recordkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Reader.Shuffle)
	assert.Equal(t, int(label.Last), cfg.Reader.LabelPosition)
	assert.Equal(t, "advance", cfg.Reader.Reshuffle)
	assert.Equal(t, 3, cfg.Image.Channels)
	assert.True(t, cfg.Frames.Ravel)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
reader:
  shuffle: true
  seed: 42
  reshuffle: replay
  label_position: 1
  fields:
    - path: [a]
      missing: MISSING_A
    - path: [b, c]
      missing: MISSING_BC
    - field: d.e
    - path: [x.y]
image:
  height: 28
  width: 28
  channels: 1
frames:
  start_frame: 160
  total_frames: 500
  rows: 80
  columns: 46
  ravel: false
source:
  s3:
    region: us-west-2
    path_style: true
  azure:
    endpoint: https://acct.blob.core.windows.net/
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	opts, err := cfg.Reader.Iteration()
	require.NoError(t, err)
	assert.Equal(t, iteration.Options{Shuffle: true, Seed: 42, Policy: iteration.ReshuffleReplay}, opts)

	pos, err := cfg.Reader.Position()
	require.NoError(t, err)
	assert.Equal(t, label.Position(1), pos)

	sel, err := cfg.Reader.Selection()
	require.NoError(t, err)
	require.Equal(t, 4, sel.Len())
	assert.Equal(t, fieldselect.FieldPath{"a"}, sel.Path(0))
	assert.Equal(t, fieldselect.FieldPath{"b", "c"}, sel.Path(1))
	assert.Equal(t, fieldselect.FieldPath{"d", "e"}, sel.Path(2))
	assert.Equal(t, fieldselect.FieldPath{"x.y"}, sel.Path(3))
	assert.Equal(t, record.Text("MISSING_A"), sel.Fallback(0))
	assert.Equal(t, record.Text("MISSING_BC"), sel.Fallback(1))
	assert.Equal(t, fieldselect.DefaultMissingValue, sel.Fallback(2))

	assert.Equal(t, ImageConfig{Height: 28, Width: 28, Channels: 1}, cfg.Image)
	assert.Equal(t, FramesConfig{StartFrame: 160, TotalFrames: 500, Rows: 80, Columns: 46}, cfg.Frames)
	assert.Equal(t, "us-west-2", cfg.Source.S3.Region)
	assert.True(t, cfg.Source.S3.PathStyle)
	assert.Equal(t, "https://acct.blob.core.windows.net/", cfg.Source.Azure.Endpoint)

	lvl, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "reader:\n  seed: 1\n")
	t.Setenv("RECORDKIT_READER_SEED", "9")
	t.Setenv("RECORDKIT_READER_SHUFFLE", "true")
	t.Setenv("RECORDKIT_SOURCE_S3_ENDPOINT", "http://localhost:9000")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(9), cfg.Reader.Seed)
	assert.True(t, cfg.Reader.Shuffle)
	assert.Equal(t, "http://localhost:9000", cfg.Source.S3.Endpoint)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSeedKeyOverridesSeed(t *testing.T) {
	rc := ReaderConfig{Seed: 1, SeedKey: "epoch-1"}
	opts, err := rc.Iteration()
	require.NoError(t, err)
	assert.Equal(t, iteration.SeedFromString("epoch-1"), opts.Seed)
}

func TestReaderConfigRejects(t *testing.T) {
	_, err := ReaderConfig{Reshuffle: "sometimes"}.Iteration()
	assert.Error(t, err)

	_, err = ReaderConfig{LabelPosition: -2}.Position()
	assert.Error(t, err)

	_, err = ReaderConfig{Fields: []FieldConfig{{Path: []string{"a", ""}}}}.Selection()
	assert.Error(t, err)

	_, err = ReaderConfig{Fields: []FieldConfig{{Field: "a.b", Path: []string{"a"}}}}.Selection()
	assert.ErrorContains(t, err, "not both")

	_, err = ReaderConfig{Fields: []FieldConfig{{}}}.Selection()
	assert.ErrorContains(t, err, "reader.fields[0]")

	_, err = LogConfig{Level: "loud"}.SlogLevel()
	assert.Error(t, err)
}
