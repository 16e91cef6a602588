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
	lines := &cobra.Command{
		Use:   "lines [locations...]",
		Short: "Extract one record per line of JSON lines files",
		RunE: func(c *cobra.Command, args []string) error {
			return runTabular(c, args, func(o tabularOptions) (recordreader.Reader, error) {
				return recordreader.NewJSONLinesReader(recordreader.LinesOptions(o))
			})
		},
	}
	parquet := &cobra.Command{
		Use:   "parquet [locations...]",
		Short: "Extract one record per row of parquet files",
		RunE: func(c *cobra.Command, args []string) error {
			return runTabular(c, args, func(o tabularOptions) (recordreader.Reader, error) {
				return recordreader.NewParquetReader(recordreader.ParquetOptions(o))
			})
		},
	}
	for _, cmd := range []*cobra.Command{lines, parquet} {
		addInputFlags(cmd)
		addFieldFlags(cmd)
		addLabelFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
}

// tabularOptions has the same shape as the line and parquet reader options.
type tabularOptions recordreader.LinesOptions

func runTabular(c *cobra.Command, args []string, build func(tabularOptions) (recordreader.Reader, error)) error {
	sel, pos, err := selectionFromFlags(c, appConfig)
	if err != nil {
		return err
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

	r, err := build(tabularOptions{
		Selection:     sel,
		Label:         gen,
		LabelPosition: pos,
		Iteration:     iterOpts,
		Opener:        source.NewMuxFromConfig(appConfig.Source),
	})
	if err != nil {
		return err
	}
	return runReader(c, r, s)
}
