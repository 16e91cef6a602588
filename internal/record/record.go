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

// Package record defines the output side of extraction: typed values and the
// flat records readers emit.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the variant tag of an output Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindInt
	KindDouble
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one field of an output record.
type Value struct {
	kind  Kind
	text  string
	i     int64
	f     float64
	data  []float64
	shape []int
}

// Null is the empty value. It is also the zero Value.
func Null() Value {
	return Value{}
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

func Double(f float64) Value {
	return Value{kind: KindDouble, f: f}
}

// Array holds a flattened numeric buffer, such as pixels, with its shape.
// Array takes ownership of data and shape.
func Array(data []float64, shape ...int) Value {
	if len(shape) == 0 {
		shape = []int{len(data)}
	}
	return Value{kind: KindArray, data: data, shape: shape}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsText returns the string of a Text value.
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

func (v Value) AsDouble() (float64, bool) {
	return v.f, v.kind == KindDouble
}

// AsArray returns the buffer and shape of an Array value. The slices are
// shared with the value and must not be modified.
func (v Value) AsArray() ([]float64, []int, bool) {
	return v.data, v.shape, v.kind == KindArray
}

// Len is the number of elements of an Array and 1 for any other non-null
// value.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.data)
	case KindNull:
		return 0
	default:
		return 1
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindArray:
		return fmt.Sprintf("array%v", v.shape)
	default:
		return ""
	}
}

// MarshalJSON renders text as a string, numbers as numbers, arrays as
// number lists and null as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindInt:
		return json.Marshal(v.i)
	case KindDouble:
		return json.Marshal(v.f)
	case KindArray:
		return json.Marshal(v.data)
	default:
		return []byte("null"), nil
	}
}

// Record is one output row: extracted values plus an optional label.
type Record []Value

func (r Record) String() string {
	parts := make([]string, len(r))
	for i, v := range r {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
