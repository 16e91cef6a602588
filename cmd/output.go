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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/recordkit/internal/logctx"
	"github.com/cardinalhq/recordkit/internal/recordreader"
	"github.com/cardinalhq/recordkit/internal/split"
)

// runReader initializes r on s and prints every output as one JSON line:
// a record as an array of values, a sequence as an array of records.
func runReader(c *cobra.Command, r recordreader.Reader, s split.InputSplit) error {
	epochs, err := c.Flags().GetInt("epochs")
	if err != nil {
		return err
	}
	ctx, runID := runContext(c)
	logger := logctx.FromContext(ctx)

	if err := r.Initialize(ctx, s); err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	start := time.Now()
	n, err := writeOutputs(ctx, c.OutOrStdout(), r, epochs)
	if err != nil {
		logger.Error("Run failed", slog.Int("outputs", n), slog.Any("error", err))
		return err
	}
	logger.Info("Run complete",
		slog.String("run_id", runID),
		slog.Int("outputs", n),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func writeOutputs(ctx context.Context, w io.Writer, r recordreader.Reader, epochs int) (int, error) {
	if epochs < 1 {
		return 0, fmt.Errorf("epochs must be at least 1, got %d", epochs)
	}
	enc := json.NewEncoder(w)
	n := 0
	for epoch := range epochs {
		if epoch > 0 {
			if err := r.Reset(); err != nil {
				return n, err
			}
		}
		for out, err := range recordreader.All(ctx, r) {
			if err != nil {
				return n, err
			}
			if err := ctx.Err(); err != nil {
				return n, err
			}
			var v any = out.Records
			if out.Shape == recordreader.Single {
				v = out.Records[0]
			}
			if err := enc.Encode(v); err != nil {
				return n, fmt.Errorf("writing output: %w", err)
			}
			n++
		}
	}
	return n, nil
}
