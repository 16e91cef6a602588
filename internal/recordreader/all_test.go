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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/recordkit/internal/readerr"
	"github.com/cardinalhq/recordkit/internal/split"
)

func TestAllSingle(t *testing.T) {
	store := newMemStore()
	r, err := NewDocumentReader(DocumentOptions{Selection: abSelection(t), Opener: store})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), scenarioSplit(store)))

	n := 0
	for out, err := range All(context.Background(), r) {
		require.NoError(t, err)
		assert.Equal(t, Single, out.Shape)
		assert.Len(t, out.Records, 1)
		n++
	}
	assert.Equal(t, 3, n)
}

func TestAllSequence(t *testing.T) {
	store := newMemStore()
	loc := store.put("mem://clips/a.gif", string(framesGIF(t, 2, 2, rgb)))
	r, err := NewFrameReader(FrameOptions{Ravel: true, Opener: store})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), split.NewCollectionSplit([]split.Location{loc, loc})))

	var outs []Output
	for out, err := range All(context.Background(), r) {
		require.NoError(t, err)
		outs = append(outs, out)
	}
	require.Len(t, outs, 2)
	for _, out := range outs {
		assert.Equal(t, Sequence, out.Shape)
		assert.Len(t, out.Records, 3)
	}
}

func TestAllStopsAtFirstError(t *testing.T) {
	store := newMemStore()
	good := store.put("mem://docs/1.json", `{"a": "1"}`)
	bad := store.put("mem://docs/2.json", `nope`)
	r, err := NewDocumentReader(DocumentOptions{Selection: abSelection(t), Opener: store})
	require.NoError(t, err)
	require.NoError(t, r.Initialize(context.Background(), split.NewCollectionSplit([]split.Location{good, bad, good})))

	var errs []error
	calls := 0
	for _, err := range All(context.Background(), r) {
		calls++
		if err != nil {
			errs = append(errs, err)
		}
	}
	assert.Equal(t, 2, calls)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], readerr.ErrDecodeFailure)
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "single", Single.String())
	assert.Equal(t, "sequence", Sequence.String())
}
