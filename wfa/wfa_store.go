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
	"fmt"
	"io"
	"sync"
)

const STORE_BASE_SIZE = 128

// Store is the list of wavefront sets for different scores.
// To support fast access, we use a list indexed by score,
// the nil data means there's no reachable cell for a given score.
type Store struct {
	QLen, TLen int

	Diagonals       int // number of possible diagonals
	CentralDiagonal int // shifted index of diagonal 0
	MinDiagonal     int
	MaxDiagonal     int

	sets []*WaveFrontSet
}

var poolStore = &sync.Pool{New: func() interface{} {
	st := Store{
		sets: make([]*WaveFrontSet, 0, STORE_BASE_SIZE),
	}
	return &st
}}

// NewStore returns a Store from the object pool,
// with score 0 seeded with a M wavefront on diagonal 0 and offset 0.
func NewStore(qlen, tlen int) *Store {
	st := poolStore.Get().(*Store)
	st.clear()

	st.QLen, st.TLen = qlen, tlen
	st.Diagonals = qlen + tlen + 1
	st.CentralDiagonal = qlen
	st.MinDiagonal = -qlen
	st.MaxDiagonal = tlen

	wf := NewWaveFront(0, 0)
	wf.Set(0, 0)
	st.sets = append(st.sets, &WaveFrontSet{M: wf})
	return st
}

// RecycleStore recycles a Store and all its wavefronts.
func RecycleStore(st *Store) {
	if st != nil {
		st.clear()
		poolStore.Put(st)
	}
}

func (st *Store) clear() {
	for i, set := range st.sets {
		if set != nil {
			recycleWaveFrontSet(set)
			st.sets[i] = nil
		}
	}
	st.sets = st.sets[:0]
}

// Len returns the number of materialized score slots.
func (st *Store) Len() int { return len(st.sets) }

// Ensure grows the store so that Len() > s.
func (st *Store) Ensure(s int) {
	for len(st.sets) <= s {
		st.sets = append(st.sets, nil)
	}
}

// Get returns the wavefront set of score s.
// It returns false for negative scores and scores with no reachable cell.
func (st *Store) Get(s int) (*WaveFrontSet, bool) {
	if s < 0 || s >= len(st.sets) || st.sets[s] == nil {
		return nil, false
	}
	return st.sets[s], true
}

// Alloc allocates M, I, D wavefronts covering [lo, hi] for score s.
// An existing set is replaced.
func (st *Store) Alloc(s, lo, hi int) *WaveFrontSet {
	st.Ensure(s)
	if st.sets[s] != nil {
		recycleWaveFrontSet(st.sets[s])
	}
	set := &WaveFrontSet{
		M: NewWaveFront(lo, hi),
		I: NewWaveFront(lo, hi),
		D: NewWaveFront(lo, hi),
	}
	st.sets[s] = set
	return set
}

// Drop removes the wavefront set of score s.
func (st *Store) Drop(s int) {
	if s < 0 || s >= len(st.sets) || st.sets[s] == nil {
		return
	}
	recycleWaveFrontSet(st.sets[s])
	st.sets[s] = nil
}

// M returns the M wavefront of score s, or nil.
func (st *Store) M(s int) *WaveFront {
	if s < 0 || s >= len(st.sets) || st.sets[s] == nil {
		return nil
	}
	return st.sets[s].M
}

// I returns the I wavefront of score s, or nil.
func (st *Store) I(s int) *WaveFront {
	if s < 0 || s >= len(st.sets) || st.sets[s] == nil {
		return nil
	}
	return st.sets[s].I
}

// D returns the D wavefront of score s, or nil.
func (st *Store) D(s int) *WaveFront {
	if s < 0 || s >= len(st.sets) || st.sets[s] == nil {
		return nil
	}
	return st.sets[s].D
}

// Print lists the offsets of all scores.
func (st *Store) Print(wtr io.Writer) {
	for s, set := range st.sets {
		if set == nil {
			continue
		}
		for _, c := range []struct {
			name string
			wf   *WaveFront
		}{{"M", set.M}, {"I", set.I}, {"D", set.D}} {
			if c.wf == nil {
				continue
			}
			fmt.Fprintf(wtr, "%s%d: k[%d, %d]:", c.name, s, c.wf.Lo, c.wf.Hi)
			for k := c.wf.Lo; k <= c.wf.Hi; k++ {
				if offset := c.wf.Get(k); offset >= 0 {
					fmt.Fprintf(wtr, " k(%d):%d", k, offset)
				}
			}
			fmt.Fprintln(wtr)
		}
	}
}
