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

package split

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// FileSplit enumerates files under a local filesystem root. Walk order is
// lexical, so repeated calls see the same order for an unchanged tree.
type FileSplit struct {
	root       string
	extensions mapset.Set[string]
	recursive  bool
}

var _ InputSplit = (*FileSplit)(nil)

// FileSplitOption configures a FileSplit.
type FileSplitOption func(*FileSplit)

// WithExtensions keeps only files whose extension (case-insensitive, with or
// without the leading dot) is in exts.
func WithExtensions(exts ...string) FileSplitOption {
	return func(s *FileSplit) {
		for _, e := range exts {
			e = strings.ToLower(e)
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			s.extensions.Add(e)
		}
	}
}

// WithRecursive controls whether subdirectories are walked. Default true.
func WithRecursive(recursive bool) FileSplitOption {
	return func(s *FileSplit) {
		s.recursive = recursive
	}
}

// NewFileSplit creates a split rooted at a file or directory.
func NewFileSplit(root string, opts ...FileSplitOption) (*FileSplit, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("absolute path for %q: %w", root, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("file split root: %w", err)
	}

	s := &FileSplit{
		root:       abs,
		extensions: mapset.NewThreadUnsafeSet[string](),
		recursive:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute root path.
func (s *FileSplit) Root() string {
	return s.root
}

func (s *FileSplit) Length() (int64, error) {
	locs, err := s.Locations()
	if err != nil {
		return 0, err
	}
	return int64(len(locs)), nil
}

func (s *FileSplit) Locations() ([]Location, error) {
	var locs []Location
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.root && !s.recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !s.accepts(p) {
			return nil
		}
		loc, err := LocationFromPath(p)
		if err != nil {
			return err
		}
		locs = append(locs, loc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	return locs, nil
}

func (s *FileSplit) accepts(p string) bool {
	if s.extensions.Cardinality() == 0 {
		return true
	}
	return s.extensions.Contains(strings.ToLower(filepath.Ext(p)))
}
