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

package fieldselect

import (
	"fmt"

	"github.com/cardinalhq/recordkit/internal/docvalue"
	"github.com/cardinalhq/recordkit/internal/readerr"
)

// MismatchError reports a path whose last segment holds a non-scalar value.
type MismatchError struct {
	Path  FieldPath
	Found docvalue.Kind
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("path %s resolves to %s, expected text or number", e.Path, e.Found)
}

func (e *MismatchError) Is(target error) bool {
	return target == readerr.ErrConfigurationMismatch
}

// Resolve walks path through doc. It returns the scalar text and true when
// every segment is present, false when any segment is missing, and a
// *MismatchError when the final value is not text or a number.
func Resolve(doc docvalue.Value, path FieldPath) (string, bool, error) {
	if len(path) == 0 {
		return "", false, nil
	}

	cur := doc
	last := len(path) - 1
	for _, key := range path[:last] {
		next, ok := cur.Lookup(key)
		if !ok || next.Kind() != docvalue.KindMap {
			return "", false, nil
		}
		cur = next
	}

	leaf, ok := cur.Lookup(path[last])
	if !ok {
		return "", false, nil
	}

	switch leaf.Kind() {
	case docvalue.KindText:
		s, _ := leaf.Text()
		return s, true, nil
	case docvalue.KindNumber:
		s, _ := leaf.NumberText()
		return s, true, nil
	default:
		return "", false, &MismatchError{Path: path, Found: leaf.Kind()}
	}
}
