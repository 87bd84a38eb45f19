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

import "math"

// reduce drops the diagonals at both ends of M[s] which are too far
// from the end cell, compared to the closest diagonal.
// The distance of a diagonal is max(qlen - v, tlen - h).
// I[s] and D[s] are clamped to the new range of M[s].
func (algn *Aligner) reduce(s int) {
	set, ok := algn.st.Get(s)
	if !ok {
		return
	}
	M := set.M
	if M.Hi-M.Lo+1 < algn.ad.MinWFLen {
		return
	}

	st := algn.st
	qlen, tlen := algn.qlen, algn.tlen
	central := st.CentralDiagonal

	if cap(algn.dists) < st.Diagonals {
		algn.dists = make([]int, st.Diagonals)
	} else {
		algn.dists = algn.dists[:st.Diagonals]
	}
	dists := algn.dists

	minDist := math.MaxInt
	var offset int32
	var d int
	for k := M.Lo; k <= M.Hi; k++ {
		offset = M.Get(k)
		if offset < 0 {
			d = math.MaxInt
		} else {
			d = max(qlen-V(k, offset), tlen-H(k, offset))
			minDist = min(minDist, d)
		}
		dists[ShiftedIndex(k, central)] = d
	}
	if minDist == math.MaxInt {
		return
	}

	threshold := minDist + algn.ad.MaxDistDiff
	lo, hi := M.Lo, M.Hi
	for lo < hi && dists[ShiftedIndex(lo, central)] > threshold {
		lo++
	}
	for hi > lo && dists[ShiftedIndex(hi, central)] > threshold {
		hi--
	}
	if lo == M.Lo && hi == M.Hi {
		return
	}

	M.Narrow(lo, hi)
	set.I.Narrow(lo, hi)
	set.D.Narrow(lo, hi)
}
