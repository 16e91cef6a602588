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
	"fmt"
	"math/big"
	"time"
)

// FromAny converts the generic output of a decoding library into a Value.
// Supported inputs are nil, strings, booleans, json.Number, Go integer and
// float types, big.Int, []byte, time.Time, map[string]any, map[any]any and []any,
// nested arbitrarily.
func FromAny(in any) (Value, error) {
	switch v := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case string:
		return Text(v), nil
	case []byte:
		return Text(string(v)), nil
	case bool:
		return Bool(v), nil
	case json.Number:
		return NumberLiteral(v.String())
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Uint(uint64(v)), nil
	case uint8:
		return Uint(uint64(v)), nil
	case uint16:
		return Uint(uint64(v)), nil
	case uint32:
		return Uint(uint64(v)), nil
	case uint64:
		return Uint(v), nil
	case big.Int:
		return Value{kind: KindNumber, text: v.String()}, nil
	case *big.Int:
		if v == nil {
			return Null(), nil
		}
		return Value{kind: KindNumber, text: v.String()}, nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case time.Time:
		return Text(v.Format(time.RFC3339Nano)), nil
	case map[string]any:
		items := make(map[string]Value, len(v))
		for k, child := range v {
			cv, err := FromAny(child)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			items[k] = cv
		}
		return Map(items), nil
	case map[any]any:
		items := make(map[string]Value, len(v))
		for k, child := range v {
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			cv, err := FromAny(child)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", key, err)
			}
			items[key] = cv
		}
		return Map(items), nil
	case []any:
		list := make([]Value, len(v))
		for i, child := range v {
			cv, err := FromAny(child)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			list[i] = cv
		}
		return List(list...), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", in)
	}
}
