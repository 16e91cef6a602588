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

// Package iteration owns the traversal state shared by all record readers:
// a cursor over an ordered slice and an optional seeded permutation of it.
package iteration

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ReshufflePolicy decides what Reset does to a shuffled order.
type ReshufflePolicy int

const (
	// ReshuffleAdvance permutes the current order again with the same
	// generator, so successive resets produce different orders.
	ReshuffleAdvance ReshufflePolicy = iota
	// ReshuffleReplay rebuilds the generator from the seed, so every reset
	// reproduces the order seen after construction.
	ReshuffleReplay
)

func (p ReshufflePolicy) String() string {
	switch p {
	case ReshuffleAdvance:
		return "advance"
	case ReshuffleReplay:
		return "replay"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseReshufflePolicy accepts "advance", "replay" or "" (advance).
func ParseReshufflePolicy(s string) (ReshufflePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "advance":
		return ReshuffleAdvance, nil
	case "replay":
		return ReshuffleReplay, nil
	default:
		return 0, fmt.Errorf("unknown reshuffle policy %q", s)
	}
}

// Options configures a Cursor.
type Options struct {
	Shuffle bool
	Seed    int64
	Policy  ReshufflePolicy
}

// SeedFromString derives a stable seed from a key, for configurations that
// name a run instead of choosing a number.
func SeedFromString(key string) int64 {
	return int64(xxhash.Sum64String(key))
}

func newRand(seed int64) *rand.Rand {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// Cursor walks a traversal order one item at a time.
// It is not safe for concurrent use.
type Cursor[T any] struct {
	original []T
	order    []T
	pos      int
	opts     Options
	rng      *rand.Rand
	shuffles int
}

// NewCursor copies items and, when shuffling, permutes them immediately.
func NewCursor[T any](items []T, opts Options) *Cursor[T] {
	c := &Cursor[T]{
		original: append([]T(nil), items...),
		order:    append([]T(nil), items...),
		opts:     opts,
	}
	if opts.Shuffle {
		c.rng = newRand(opts.Seed)
		c.shuffle()
	}
	return c
}

func (c *Cursor[T]) shuffle() {
	c.rng.Shuffle(len(c.order), func(i, j int) {
		c.order[i], c.order[j] = c.order[j], c.order[i]
	})
	c.shuffles++
}

// Len is the number of items in the traversal.
func (c *Cursor[T]) Len() int {
	return len(c.order)
}

// Position is the 0-based index of the next item.
func (c *Cursor[T]) Position() int {
	return c.pos
}

func (c *Cursor[T]) HasNext() bool {
	return c.pos < len(c.order)
}

// Next returns the item under the cursor and advances. It reports false when
// the traversal is exhausted.
func (c *Cursor[T]) Next() (T, bool) {
	if c.pos >= len(c.order) {
		var zero T
		return zero, false
	}
	item := c.order[c.pos]
	c.pos++
	return item, true
}

// Reset rewinds to the first item and applies the reshuffle policy.
func (c *Cursor[T]) Reset() {
	c.pos = 0
	if !c.opts.Shuffle {
		return
	}
	if c.opts.Policy == ReshuffleReplay {
		c.rng = newRand(c.opts.Seed)
		copy(c.order, c.original)
	}
	c.shuffle()
}

// Order returns a copy of the current traversal order.
func (c *Cursor[T]) Order() []T {
	return append([]T(nil), c.order...)
}

// Shuffles counts the permutations applied since construction.
func (c *Cursor[T]) Shuffles() int {
	return c.shuffles
}
