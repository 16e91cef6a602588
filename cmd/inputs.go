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
	"bufio"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/recordkit/config"
	"github.com/cardinalhq/recordkit/internal/fieldselect"
	"github.com/cardinalhq/recordkit/internal/label"
	"github.com/cardinalhq/recordkit/internal/record"
	"github.com/cardinalhq/recordkit/internal/split"
)

func addInputFlags(c *cobra.Command) {
	c.Flags().StringSlice("ext", nil, "Only include files with these extensions when walking a directory")
	c.Flags().Bool("recursive", true, "Descend into subdirectories when walking a directory")
	c.Flags().Bool("stdin", false, "Read locations from stdin, one per line")
	c.Flags().Int("epochs", 1, "Passes over the input; the reader is reset between passes")
}

// parseLocation accepts a URI or a local path.
func parseLocation(arg string) (split.Location, error) {
	if strings.Contains(arg, "://") {
		return split.ParseLocation(arg)
	}
	return split.LocationFromPath(arg)
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}

// buildSplit turns the command arguments into a split. A single local
// directory becomes a FileSplit; anything else is collected in argument
// order, with directories expanded in place.
func buildSplit(c *cobra.Command, args []string) (split.InputSplit, error) {
	fromStdin, err := c.Flags().GetBool("stdin")
	if err != nil {
		return nil, err
	}
	exts, err := c.Flags().GetStringSlice("ext")
	if err != nil {
		return nil, err
	}
	recursive, err := c.Flags().GetBool("recursive")
	if err != nil {
		return nil, err
	}

	if fromStdin {
		if len(args) > 0 {
			return nil, fmt.Errorf("--stdin does not take location arguments")
		}
		return split.NewStreamSplit(stdinLocations(c)), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("no locations given")
	}

	fileOpts := []split.FileSplitOption{split.WithRecursive(recursive)}
	if len(exts) > 0 {
		fileOpts = append(fileOpts, split.WithExtensions(exts...))
	}
	if len(args) == 1 && isDir(args[0]) {
		return split.NewFileSplit(args[0], fileOpts...)
	}

	var locs []split.Location
	for _, arg := range args {
		if isDir(arg) {
			fs, err := split.NewFileSplit(arg, fileOpts...)
			if err != nil {
				return nil, err
			}
			dirLocs, err := fs.Locations()
			if err != nil {
				return nil, err
			}
			locs = append(locs, dirLocs...)
			continue
		}
		loc, err := parseLocation(arg)
		if err != nil {
			return nil, err
		}
		locs = append(locs, loc)
	}
	return split.NewCollectionSplit(locs), nil
}

const maxLocationLine = 1 << 20

// stdinLocations yields one location per non-blank line. A read error ends
// the sequence early and is logged.
func stdinLocations(c *cobra.Command) iter.Seq[split.Location] {
	in := c.InOrStdin()
	return func(yield func(split.Location) bool) {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLocationLine)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			loc, err := parseLocation(line)
			if err != nil {
				slog.Warn("Skipping unparseable location", slog.String("line", line), slog.Any("error", err))
				continue
			}
			if !yield(loc) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			slog.Error("Reading locations from stdin failed", slog.Any("error", err))
		}
	}
}

// asCollection materializes a FileSplit for readers that only take
// enumerated collections.
func asCollection(s split.InputSplit) (split.InputSplit, error) {
	fs, ok := s.(*split.FileSplit)
	if !ok {
		return s, nil
	}
	locs, err := fs.Locations()
	if err != nil {
		return nil, err
	}
	return split.NewCollectionSplit(locs), nil
}

func addFieldFlags(c *cobra.Command) {
	c.Flags().StringArray("field", nil, "Field to extract as a dotted path, optionally path=missing-value (repeatable)")
	c.Flags().Int("label-position", int(label.Last), "Index at which the label is inserted; -1 appends it")
}

// selectionFromFlags builds the field selection from --field, falling back
// to the config file.
func selectionFromFlags(c *cobra.Command, cfg *config.Config) (*fieldselect.Selection, label.Position, error) {
	fields, err := c.Flags().GetStringArray("field")
	if err != nil {
		return nil, 0, err
	}
	pos := label.Position(cfg.Reader.LabelPosition)
	if c.Flags().Changed("label-position") {
		p, err := c.Flags().GetInt("label-position")
		if err != nil {
			return nil, 0, err
		}
		pos = label.Position(p)
	}
	if err := pos.Validate(); err != nil {
		return nil, 0, err
	}

	if len(fields) == 0 {
		sel, err := cfg.Reader.Selection()
		return sel, pos, err
	}
	sel, err := parseFieldFlags(fields)
	return sel, pos, err
}

func parseFieldFlags(fields []string) (*fieldselect.Selection, error) {
	b := fieldselect.NewBuilder()
	for _, f := range fields {
		path, missing, hasMissing := strings.Cut(f, "=")
		if hasMissing {
			b.AddFieldWithDefault(record.Text(missing), fieldselect.ParsePath(path)...)
		} else {
			b.AddField(fieldselect.ParsePath(path)...)
		}
	}
	return b.Build()
}

func addLabelFlags(c *cobra.Command) {
	c.Flags().String("label", "", "Label source: parent (directory name) or pattern (file name token)")
	c.Flags().String("label-separator", "_", "Separator for --label pattern")
	c.Flags().Int("label-index", 0, "Token index for --label pattern")
	c.Flags().StringSlice("labels", nil, "Known labels; when set the label is emitted as its index in this list")
}

func labelFromFlags(c *cobra.Command) (label.Generator, error) {
	kind, err := c.Flags().GetString("label")
	if err != nil {
		return nil, err
	}
	var gen label.Generator
	switch kind {
	case "":
		return nil, nil
	case "parent":
		gen = label.ParentDir{}
	case "pattern":
		sep, err := c.Flags().GetString("label-separator")
		if err != nil {
			return nil, err
		}
		idx, err := c.Flags().GetInt("label-index")
		if err != nil {
			return nil, err
		}
		gen = label.Pattern{Separator: sep, Index: idx}
	default:
		return nil, fmt.Errorf("unknown label source %q", kind)
	}

	labels, err := c.Flags().GetStringSlice("labels")
	if err != nil {
		return nil, err
	}
	if len(labels) > 0 {
		gen = label.Indexed{Inner: gen, Labels: labels}
	}
	return gen, nil
}
