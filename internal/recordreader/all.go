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

package recordreader

import (
	"context"
	"fmt"
	"iter"

	"github.com/cardinalhq/recordkit/internal/readerr"
	"github.com/cardinalhq/recordkit/internal/record"
)

// Shape says whether an Output came from a single-record or a sequence
// reader.
type Shape int

const (
	Single Shape = iota
	Sequence
)

func (s Shape) String() string {
	switch s {
	case Single:
		return "single"
	case Sequence:
		return "sequence"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Output is what one location produced. A Single output holds exactly one
// record.
type Output struct {
	Shape   Shape
	Records []record.Record
}

// All pulls every remaining location from r, whichever shape it is. The
// sequence stops after the first error, which is yielded with a zero
// Output.
func All(ctx context.Context, r Reader) iter.Seq2[Output, error] {
	return func(yield func(Output, error) bool) {
		var next func() (Output, error)
		switch rr := r.(type) {
		case RecordReader:
			next = func() (Output, error) {
				rec, err := rr.Next(ctx)
				if err != nil {
					return Output{}, err
				}
				return Output{Shape: Single, Records: []record.Record{rec}}, nil
			}
		case SequenceRecordReader:
			next = func() (Output, error) {
				seq, err := rr.NextSequence(ctx)
				if err != nil {
					return Output{}, err
				}
				return Output{Shape: Sequence, Records: seq}, nil
			}
		default:
			yield(Output{}, readerr.Unsupported("iterate", fmt.Sprintf("%T is neither a record nor a sequence reader", r)))
			return
		}

		for r.HasNext() {
			out, err := next()
			if !yield(out, err) || err != nil {
				return
			}
		}
	}
}
