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
	"fmt"
	"math"
	"sync"
)

// OffsetNull marks an unreachable diagonal.
// It stays negative after adding small deltas, so OffsetNull+1 is still invalid.
const OffsetNull int32 = math.MinInt32 >> 1

// OFFSETS_BASE_SIZE is the base capacity of the offset slice.
const OFFSETS_BASE_SIZE = 256

// WaveFront is a list of offsets for diagonals in [Lo, Hi].
//
// Offsets[0] is the offset of the diagonal "base", which is the Lo value
// at allocation. Reduction only narrows Lo and Hi, so the index of a
// diagonal never changes.
type WaveFront struct {
	Lo, Hi int // Lowest and Highest k.

	base    int
	Offsets []int32
}

var poolWaveFront = &sync.Pool{New: func() interface{} {
	wf := WaveFront{
		Offsets: make([]int32, 0, OFFSETS_BASE_SIZE),
	}
	return &wf
}}

// NewWaveFront creates a WaveFront covering diagonals [lo, hi],
// all offsets are OffsetNull.
// If you do not need it, do not forget to use RecycleWaveFront() to recycle it.
func NewWaveFront(lo, hi int) *WaveFront {
	wf := poolWaveFront.Get().(*WaveFront)
	wf.Lo, wf.Hi, wf.base = lo, hi, lo

	n := hi - lo + 1
	if n < 0 {
		n = 0
	}
	if cap(wf.Offsets) < n {
		wf.Offsets = make([]int32, n)
	} else {
		wf.Offsets = wf.Offsets[:n]
	}
	for i := range wf.Offsets {
		wf.Offsets[i] = OffsetNull
	}
	return wf
}

// RecycleWaveFront recycles a WaveFront.
func RecycleWaveFront(wf *WaveFront) {
	if wf != nil {
		poolWaveFront.Put(wf)
	}
}

// Get returns the offset of diagonal k, OffsetNull for diagonals out of range.
// It is safe to call it on a nil WaveFront.
func (wf *WaveFront) Get(k int) int32 {
	if wf == nil || k < wf.Lo || k > wf.Hi {
		return OffsetNull
	}
	return wf.Offsets[k-wf.base]
}

// Set sets the offset of diagonal k, diagonals out of range are ignored.
func (wf *WaveFront) Set(k int, offset int32) {
	if k < wf.Lo || k > wf.Hi {
		return
	}
	wf.Offsets[k-wf.base] = offset
}

// Narrow shrinks the diagonal range, it never extends it.
func (wf *WaveFront) Narrow(lo, hi int) {
	if wf == nil {
		return
	}
	wf.Lo = max(wf.Lo, lo)
	wf.Hi = min(wf.Hi, hi)
}

// HasValid tells if any diagonal is reachable.
func (wf *WaveFront) HasValid() bool {
	if wf == nil {
		return false
	}
	for k := wf.Lo; k <= wf.Hi; k++ {
		if wf.Offsets[k-wf.base] >= 0 {
			return true
		}
	}
	return false
}

// String lists all the valid offsets.
func (wf *WaveFront) String() string {
	if wf == nil {
		return "null"
	}
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("k range: [%d, %d].", wf.Lo, wf.Hi))
	var offset int32
	for k := wf.Lo; k <= wf.Hi; k++ {
		offset = wf.Get(k)
		if offset >= 0 {
			buf.WriteString(fmt.Sprintf(" k(%d):%d", k, offset))
		}
	}
	return buf.String()
}

// WaveFrontSet is the three wavefronts sharing one score.
// A nil wavefront means no diagonal is reachable.
type WaveFrontSet struct {
	M, I, D *WaveFront
}

func recycleWaveFrontSet(set *WaveFrontSet) {
	if set == nil {
		return
	}
	RecycleWaveFront(set.M)
	RecycleWaveFront(set.I)
	RecycleWaveFront(set.D)
	set.M, set.I, set.D = nil, nil, nil
}
