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

package docvalue

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberCanonicalText(t *testing.T) {
	tests := []struct {
		in   Value
		want string
	}{
		{Int(5), "5"},
		{Int(-12), "-12"},
		{Uint(18446744073709551615), "18446744073709551615"},
		{Float(2.5), "2.5"},
		{Float(5), "5"},
		{Float(0.1), "0.1"},
		{Float(1e21), "1e+21"},
		{Float(1e-7), "1e-07"},
	}
	for _, tt := range tests {
		got, ok := tt.in.NumberText()
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestNumberLiteral(t *testing.T) {
	v, err := NumberLiteral("42")
	require.NoError(t, err)
	s, _ := v.NumberText()
	assert.Equal(t, "42", s)

	v, err = NumberLiteral("3.250")
	require.NoError(t, err)
	s, _ = v.NumberText()
	assert.Equal(t, "3.25", s)

	v, err = NumberLiteral("-123456789012345678901234567890")
	require.NoError(t, err)
	s, _ = v.NumberText()
	assert.Equal(t, "-123456789012345678901234567890", s)

	_, err = NumberLiteral("abc")
	assert.Error(t, err)
}

func TestFromAnyNested(t *testing.T) {
	in := map[string]any{
		"a": "5",
		"b": map[string]any{"c": json.Number("7")},
		"l": []any{1, "x", nil, true},
		"y": map[any]any{"k": 1.5, 3: "three"},
	}

	v, err := FromAny(in)
	require.NoError(t, err)
	assert.Equal(t, KindMap, v.Kind())
	assert.Equal(t, 4, v.Len())

	a, ok := v.Lookup("a")
	require.True(t, ok)
	s, isText := a.Text()
	assert.True(t, isText)
	assert.Equal(t, "5", s)

	b, _ := v.Lookup("b")
	c, ok := b.Lookup("c")
	require.True(t, ok)
	n, isNum := c.NumberText()
	assert.True(t, isNum)
	assert.Equal(t, "7", n)

	l, _ := v.Lookup("l")
	assert.Equal(t, KindList, l.Kind())
	assert.Equal(t, 4, l.Len())
	third, ok := l.Index(2)
	require.True(t, ok)
	assert.Equal(t, KindNull, third.Kind())
	_, ok = l.Index(4)
	assert.False(t, ok)

	y, _ := v.Lookup("y")
	three, ok := y.Lookup("3")
	require.True(t, ok)
	assert.Equal(t, "three", three.String())
}

func TestFromAnyTime(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v, err := FromAny(ts)
	require.NoError(t, err)
	s, _ := v.Text()
	assert.Equal(t, "2024-03-01T12:00:00Z", s)
}

func TestFromAnyBigInt(t *testing.T) {
	b, ok := new(big.Int).SetString("98765432109876543210987654321", 10)
	require.True(t, ok)
	v, err := FromAny(b)
	require.NoError(t, err)
	s, ok := v.NumberText()
	require.True(t, ok)
	assert.Equal(t, "98765432109876543210987654321", s)
}

func TestFromAnyUnsupported(t *testing.T) {
	_, err := FromAny(map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestLookupOnNonMap(t *testing.T) {
	_, ok := Text("x").Lookup("a")
	assert.False(t, ok)
	assert.Equal(t, 0, Text("x").Len())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "map", KindMap.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
