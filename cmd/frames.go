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
	"github.com/spf13/cobra"

	"github.com/cardinalhq/recordkit/internal/recordreader"
	"github.com/cardinalhq/recordkit/internal/source"
)

func init() {
	cmd := &cobra.Command{
		Use:   "frames [locations...]",
		Short: "Emit the frames of each animated GIF as a sequence of records",
		RunE:  runFrames,
	}
	addInputFlags(cmd)
	addLabelFlags(cmd)
	cmd.Flags().Int("start-frame", 0, "First frame to emit")
	cmd.Flags().Int("total-frames", 0, "Maximum frames to emit, 0 for all")
	cmd.Flags().Int("rows", 0, "Resize frames to this many rows, 0 keeps the size")
	cmd.Flags().Int("columns", 0, "Resize frames to this many columns, 0 keeps the size")
	cmd.Flags().Bool("ravel", true, "Emit each frame as one array instead of one value per channel")
	rootCmd.AddCommand(cmd)
}

func runFrames(c *cobra.Command, args []string) error {
	fc := appConfig.Frames
	for name, dst := range map[string]*int{
		"start-frame":  &fc.StartFrame,
		"total-frames": &fc.TotalFrames,
		"rows":         &fc.Rows,
		"columns":      &fc.Columns,
	} {
		if !c.Flags().Changed(name) {
			continue
		}
		v, err := c.Flags().GetInt(name)
		if err != nil {
			return err
		}
		*dst = v
	}
	if c.Flags().Changed("ravel") {
		v, err := c.Flags().GetBool("ravel")
		if err != nil {
			return err
		}
		fc.Ravel = v
	}

	gen, err := labelFromFlags(c)
	if err != nil {
		return err
	}
	iterOpts, err := appConfig.Reader.Iteration()
	if err != nil {
		return err
	}
	s, err := buildSplit(c, args)
	if err != nil {
		return err
	}

	r, err := recordreader.NewFrameReader(recordreader.FrameOptions{
		StartFrame:  fc.StartFrame,
		TotalFrames: fc.TotalFrames,
		Rows:        fc.Rows,
		Columns:     fc.Columns,
		Ravel:       fc.Ravel,
		Label:       gen,
		Iteration:   iterOpts,
		Opener:      source.NewMuxFromConfig(appConfig.Source),
	})
	if err != nil {
		return err
	}
	return runReader(c, r, s)
}
