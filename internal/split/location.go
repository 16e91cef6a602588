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
	"net/url"
	"path"
	"path/filepath"
)

// Location identifies one input document or media file by URI.
// The zero value is an empty location. A Location is immutable.
type Location struct {
	u *url.URL
}

// ParseLocation parses raw as an absolute URI. A scheme is required.
func ParseLocation(raw string) (Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("parse location %q: %w", raw, err)
	}
	if u.Scheme == "" {
		return Location{}, fmt.Errorf("parse location %q: missing scheme", raw)
	}
	return Location{u: u}, nil
}

// MustParseLocation is like ParseLocation but panics on error.
func MustParseLocation(raw string) Location {
	loc, err := ParseLocation(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

// LocationFromPath returns a file:// location for the absolute form of p.
func LocationFromPath(p string) (Location, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return Location{}, fmt.Errorf("absolute path for %q: %w", p, err)
	}
	return Location{u: &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}}, nil
}

func (l Location) String() string {
	if l.u == nil {
		return ""
	}
	return l.u.String()
}

// IsZero reports whether l is the empty location.
func (l Location) IsZero() bool {
	return l.u == nil
}

func (l Location) Scheme() string {
	if l.u == nil {
		return ""
	}
	return l.u.Scheme
}

// Host is the authority of the URI. For bucket-style schemes (s3, gs,
// azblob) it names the bucket or container.
func (l Location) Host() string {
	if l.u == nil {
		return ""
	}
	return l.u.Host
}

// Path is the slash-separated path of the URI.
func (l Location) Path() string {
	if l.u == nil {
		return ""
	}
	if l.u.Path == "" && l.u.Opaque != "" {
		return l.u.Opaque
	}
	return l.u.Path
}

// Key is Path without its leading slash, the object key for bucket schemes.
func (l Location) Key() string {
	p := l.Path()
	if len(p) > 0 && p[0] == '/' {
		return p[1:]
	}
	return p
}

// FilePath is the local filesystem form of Path.
func (l Location) FilePath() string {
	return filepath.FromSlash(l.Path())
}

// Base is the last element of Path.
func (l Location) Base() string {
	p := l.Path()
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// ParentName is the name of the directory immediately containing the
// location, or "" when there is none.
func (l Location) ParentName() string {
	p := l.Path()
	if p == "" {
		return ""
	}
	dir := path.Dir(p)
	if dir == "/" || dir == "." {
		return ""
	}
	return path.Base(dir)
}

// Equal reports whether two locations denote the same URI.
func (l Location) Equal(other Location) bool {
	return l.String() == other.String()
}
