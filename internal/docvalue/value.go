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

// Package docvalue is the generic key-value tree produced by document
// decoders. A Value is a tagged variant; path resolution switches on Kind
// instead of inspecting dynamic Go types.
package docvalue

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Kind is the variant tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindMap
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindMap:
		return "map"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one node of a decoded document.
// Numbers are held in their canonical text form.
type Value struct {
	kind  Kind
	text  string
	b     bool
	items map[string]Value
	list  []Value
}

// Null returns the null value. It is also the zero Value.
func Null() Value {
	return Value{}
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

func Uint(u uint64) Value {
	return Value{kind: KindNumber, text: strconv.FormatUint(u, 10)}
}

func Float(f float64) Value {
	return Value{kind: KindNumber, text: FormatFloat(f)}
}

// NumberLiteral parses a decimal literal, as produced by json.Number, into a
// Number in canonical form. Integers wider than 64 bits keep every digit.
func NumberLiteral(lit string) (Value, error) {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return Int(i), nil
	}
	if u, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return Uint(u), nil
	}
	if b, ok := new(big.Int).SetString(lit, 10); ok {
		return Value{kind: KindNumber, text: b.String()}, nil
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number literal %q: %w", lit, err)
	}
	return Float(f), nil
}

// Map takes ownership of items.
func Map(items map[string]Value) Value {
	if items == nil {
		items = map[string]Value{}
	}
	return Value{kind: KindMap, items: items}
}

// List takes ownership of items.
func List(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the string of a Text value.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// NumberText returns the canonical text of a Number value.
func (v Value) NumberText() (string, bool) {
	return v.text, v.kind == KindNumber
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Lookup returns the child stored under key. It reports false when v is not
// a Map or the key is absent.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	child, ok := v.items[key]
	return child, ok
}

// Keys returns the keys of a Map in unspecified order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.items))
	for k := range v.items {
		keys = append(keys, k)
	}
	return keys
}

// Len is the number of children of a Map or List.
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return len(v.items)
	case KindList:
		return len(v.list)
	default:
		return 0
	}
}

// Index returns the i-th element of a List.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.list) {
		return Value{}, false
	}
	return v.list[i], true
}

// String renders scalars as text and containers as a short description.
func (v Value) String() string {
	switch v.kind {
	case KindText, KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNull:
		return "null"
	case KindMap:
		return fmt.Sprintf("map[%d keys]", len(v.items))
	case KindList:
		return fmt.Sprintf("list[%d items]", len(v.list))
	default:
		return v.kind.String()
	}
}

// FormatFloat renders f the way numbers appear in JSON text: integral values
// without a fraction, plain decimals in the common range and exponent form
// outside it.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
