// Copyright © 2024 Wei Shen <shenwei356@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package wfa

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinates(t *testing.T) {
	qlen, tlen := 7, 5
	central := qlen
	for k := -qlen; k <= tlen; k++ {
		i := ShiftedIndex(k, central)
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, qlen+tlen+1)
		assert.Equal(t, k, UnshiftedDiagonal(i, central))
	}

	for v := 0; v <= qlen; v++ {
		for h := 0; h <= tlen; h++ {
			k := K(h, v)
			offset := int32(h)
			assert.Equal(t, v, V(k, offset))
			assert.Equal(t, h, H(k, offset))
		}
	}
}

func TestWaveFront(t *testing.T) {
	wf := NewWaveFront(-2, 3)
	defer RecycleWaveFront(wf)

	assert.False(t, wf.HasValid())
	for k := -2; k <= 3; k++ {
		assert.Equal(t, OffsetNull, wf.Get(k))
	}

	wf.Set(-1, 4)
	wf.Set(2, 10)
	wf.Set(10, 1) // out of range, ignored
	assert.True(t, wf.HasValid())
	assert.Equal(t, int32(4), wf.Get(-1))
	assert.Equal(t, int32(10), wf.Get(2))
	assert.Equal(t, OffsetNull, wf.Get(10))
	assert.Equal(t, OffsetNull, wf.Get(-3))

	// the sentinel stays invalid after small increments
	assert.Less(t, OffsetNull+1, int32(0))

	wf.Narrow(0, 5)
	assert.Equal(t, 0, wf.Lo)
	assert.Equal(t, 3, wf.Hi)
	assert.Equal(t, OffsetNull, wf.Get(-1))
	assert.Equal(t, int32(10), wf.Get(2))
	assert.Equal(t, "k range: [0, 3]. k(2):10", wf.String())

	var null *WaveFront
	assert.Equal(t, OffsetNull, null.Get(0))
	assert.False(t, null.HasValid())
	assert.Equal(t, "null", null.String())
}

func TestStore(t *testing.T) {
	st := NewStore(4, 6)
	defer RecycleStore(st)

	assert.Equal(t, 11, st.Diagonals)
	assert.Equal(t, 4, st.CentralDiagonal)
	assert.Equal(t, -4, st.MinDiagonal)
	assert.Equal(t, 6, st.MaxDiagonal)
	assert.Equal(t, 1, st.Len())

	set, ok := st.Get(0)
	require.True(t, ok)
	assert.Equal(t, int32(0), set.M.Get(0))
	assert.Nil(t, set.I)
	assert.Nil(t, set.D)

	_, ok = st.Get(-1)
	assert.False(t, ok)
	_, ok = st.Get(5)
	assert.False(t, ok)
	assert.Nil(t, st.M(5))

	st.Ensure(5)
	assert.Equal(t, 6, st.Len())
	_, ok = st.Get(5)
	assert.False(t, ok) // sparse

	set = st.Alloc(3, -1, 1)
	set.M.Set(0, 2)
	set.I.Set(1, 2)
	got, ok := st.Get(3)
	require.True(t, ok)
	assert.Equal(t, int32(2), got.M.Get(0))
	assert.Equal(t, int32(2), st.I(3).Get(1))
	assert.Equal(t, OffsetNull, st.D(3).Get(0))

	var buf bytes.Buffer
	st.Print(&buf)
	assert.Contains(t, buf.String(), "M0: k[0, 0]: k(0):0")
	assert.Contains(t, buf.String(), "M3: k[-1, 1]: k(0):2")
	assert.Contains(t, buf.String(), "I3: k[-1, 1]: k(1):2")

	st.Drop(3)
	_, ok = st.Get(3)
	assert.False(t, ok)
}
