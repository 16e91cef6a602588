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

// Package idgen makes sortable run identifiers.
package idgen

import (
	crand "crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RunIDs issues ULIDs that sort in creation order, even within one
// millisecond.
type RunIDs struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewRunIDs() *RunIDs {
	return &RunIDs{entropy: ulid.Monotonic(crand.Reader, 0)}
}

// Make returns a new id stamped with t.
func (g *RunIDs) Make(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

var defaultRunIDs = NewRunIDs()

// NewRunID returns a run id stamped with the current time.
func NewRunID() string {
	return defaultRunIDs.Make(time.Now())
}
