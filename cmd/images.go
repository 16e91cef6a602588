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
		Use:   "images [locations...]",
		Short: "Emit one pixel array per image, with an optional label",
		RunE:  runImages,
	}
	addInputFlags(cmd)
	addLabelFlags(cmd)
	cmd.Flags().Int("height", 0, "Output height in pixels (default from config, 0 keeps the image size)")
	cmd.Flags().Int("width", 0, "Output width in pixels (default from config, 0 keeps the image size)")
	cmd.Flags().Int("channels", 0, "Channels: 1, 3 or 4 (default from config)")
	rootCmd.AddCommand(cmd)
}

func runImages(c *cobra.Command, args []string) error {
	imgCfg := appConfig.Image
	for name, dst := range map[string]*int{
		"height":   &imgCfg.Height,
		"width":    &imgCfg.Width,
		"channels": &imgCfg.Channels,
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

	r, err := recordreader.NewImageReader(recordreader.ImageOptions{
		Height:    imgCfg.Height,
		Width:     imgCfg.Width,
		Channels:  imgCfg.Channels,
		Label:     gen,
		Iteration: iterOpts,
		Opener:    source.NewMuxFromConfig(appConfig.Source),
	})
	if err != nil {
		return err
	}
	return runReader(c, r, s)
}
