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

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	"github.com/cardinalhq/recordkit/config"
)

// setupLogging installs the default logger: text on stderr, plus a JSON
// copy in cfg.File when set. The returned func closes the file.
func setupLogging(cfg config.LogConfig, stderr io.Writer) (func() error, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv("DEBUG") != "" || os.Getenv("RECORDKIT_DEBUG") != "" {
		opts.Level = slog.LevelDebug
	}

	text := slog.NewTextHandler(stderr, opts)
	if cfg.File == "" {
		slog.SetDefault(slog.New(text))
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
	}
	slog.SetDefault(slog.New(slogmulti.Fanout(
		text,
		slog.NewJSONHandler(f, opts),
	)))
	return f.Close, nil
}
