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

	"github.com/spf13/cobra"

	"github.com/cardinalhq/recordkit/internal/iteration"
)

func init() {
	cmd := &cobra.Command{
		Use:   "locations [locations...]",
		Short: "Print the locations of the input in traversal order",
		Long:  "Print the locations of the input in the order a reader would visit them, honoring --shuffle and --seed.",
		RunE:  runLocations,
	}
	addInputFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runLocations(c *cobra.Command, args []string) error {
	epochs, err := c.Flags().GetInt("epochs")
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
	locs, err := s.Locations()
	if err != nil {
		return err
	}

	cursor := iteration.NewCursor(locs, iterOpts)
	out := c.OutOrStdout()
	for epoch := range max(epochs, 1) {
		if epoch > 0 {
			cursor.Reset()
		}
		for loc, ok := cursor.Next(); ok; loc, ok = cursor.Next() {
			if _, err := fmt.Fprintln(out, loc.String()); err != nil {
				return err
			}
		}
	}
	return nil
}
