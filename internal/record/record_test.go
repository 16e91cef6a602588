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

package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAccessors(t *testing.T) {
	s, ok := Text("cat").AsText()
	assert.True(t, ok)
	assert.Equal(t, "cat", s)

	_, ok = Int(3).AsText()
	assert.False(t, ok)

	i, ok := Int(3).AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(3), i)

	f, ok := Double(0.5).AsDouble()
	assert.True(t, ok)
	assert.Equal(t, 0.5, f)

	data, shape, ok := Array([]float64{1, 2, 3, 4, 5, 6}, 2, 3).AsArray()
	assert.True(t, ok)
	assert.Equal(t, []int{2, 3}, shape)
	assert.Len(t, data, 6)

	assert.True(t, Null().IsNull())
	assert.True(t, Value{}.IsNull())
}

func TestArrayDefaultShape(t *testing.T) {
	v := Array([]float64{1, 2, 3})
	_, shape, _ := v.AsArray()
	assert.Equal(t, []int{3}, shape)
	assert.Equal(t, 3, v.Len())
}

func TestRecordJSON(t *testing.T) {
	rec := Record{Text("5"), Int(1), Double(0.25), Array([]float64{1, 2}), Null()}
	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `["5", 1, 0.25, [1, 2], null]`, string(b))
}

func TestRecordString(t *testing.T) {
	rec := Record{Text("5"), Text("cat"), Text("x")}
	assert.Equal(t, "[5, cat, x]", rec.String())
}
