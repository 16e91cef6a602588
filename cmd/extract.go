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

	"github.com/cardinalhq/recordkit/internal/decoder"
	"github.com/cardinalhq/recordkit/internal/recordreader"
	"github.com/cardinalhq/recordkit/internal/source"
)

var documentFormats = map[string]decoder.Document{
	"json": decoder.JSON{},
	"yaml": decoder.YAML{},
	"xml":  decoder.XML{},
	"cbor": decoder.CBOR{},
}

func init() {
	cmd := &cobra.Command{
		Use:   "extract [locations...]",
		Short: "Extract one record per JSON, YAML, XML or CBOR document",
		RunE:  runExtract,
	}
	addInputFlags(cmd)
	addFieldFlags(cmd)
	addLabelFlags(cmd)
	cmd.Flags().String("format", "", "Decode every document as json, yaml, xml or cbor instead of by extension")
	rootCmd.AddCommand(cmd)
}

func runExtract(c *cobra.Command, args []string) error {
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

	var dec decoder.Document
	format, err := c.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format != "" {
		var ok bool
		if dec, ok = documentFormats[format]; !ok {
			return fmt.Errorf("unknown document format %q", format)
		}
	}

	s, err := buildSplit(c, args)
	if err != nil {
		return err
	}
	if s, err = asCollection(s); err != nil {
		return err
	}

	r, err := recordreader.NewDocumentReader(recordreader.DocumentOptions{
		Selection:     sel,
		Label:         gen,
		LabelPosition: pos,
		Decoder:       dec,
		Iteration:     iterOpts,
		Opener:        source.NewMuxFromConfig(appConfig.Source),
	})
	if err != nil {
		return err
	}
	return runReader(c, r, s)
}
