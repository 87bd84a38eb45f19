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

// Package index stores match intervals of PAF records in interval trees,
// one tree per sequence, and finds the records overlapping a region.
package index

import (
	"github.com/pkg/errors"
	"github.com/rdleal/intervalst/interval"
	"github.com/shenwei356/wfilter/paf"
)

// ErrNotBuilt means Build() has not been called.
var ErrNotBuilt = errors.New("index: not built")

// Index is a build-once, query-many interval index.
// Payloads are PAF record indexes.
//
// Intervals are half-open. The trees store closed intervals, so [s, e) is
// stored as [2s, 2e-1], and a query [a, b) is searched as [2a, 2b-1],
// which overlap if and only if the half-open intervals overlap.
type Index struct {
	pending map[string]map[paf.Interval][]int
	trees   map[string]*interval.SearchTree[[]int, int]

	n     int // number of intervals
	built bool
}

// New returns an empty Index.
func New() *Index {
	return &Index{
		pending: make(map[string]map[paf.Interval][]int, 8),
	}
}

// Add adds an interval of a sequence with a payload.
// Empty intervals are ignored.
func (idx *Index) Add(name string, iv paf.Interval, payload int) error {
	if idx.built {
		return errors.New("index: can not add intervals after building")
	}
	if iv.End <= iv.Begin {
		return nil
	}
	m, ok := idx.pending[name]
	if !ok {
		m = make(map[paf.Interval][]int, 64)
		idx.pending[name] = m
	}
	// identical intervals share one tree node
	m[iv] = append(m[iv], payload)
	idx.n++
	return nil
}

func cmpFn(x, y int) int { return x - y }

// Build builds the interval trees.
func (idx *Index) Build() error {
	if idx.built {
		return nil
	}
	idx.trees = make(map[string]*interval.SearchTree[[]int, int], len(idx.pending))
	var err error
	for name, m := range idx.pending {
		tree := interval.NewSearchTree[[]int, int](cmpFn)
		for iv, payloads := range m {
			if err = tree.Insert(iv.Begin<<1, iv.End<<1-1, payloads); err != nil {
				return errors.Wrapf(err, "index: insert %s [%d, %d)", name, iv.Begin, iv.End)
			}
		}
		idx.trees[name] = tree
	}
	idx.pending = nil
	idx.built = true
	return nil
}

// Built tells if Build() has been called.
func (idx *Index) Built() bool { return idx.built }

// Len returns the number of intervals.
func (idx *Index) Len() int { return idx.n }

// NumSeqs returns the number of sequences.
func (idx *Index) NumSeqs() int {
	if idx.built {
		return len(idx.trees)
	}
	return len(idx.pending)
}

// Query returns the payloads of intervals overlapping [begin, end) on a sequence.
// A payload appears once for each overlapping interval.
// It is safe for concurrent use after Build().
func (idx *Index) Query(name string, begin, end int) ([]int, error) {
	if !idx.built {
		return nil, ErrNotBuilt
	}
	if end <= begin {
		return nil, nil
	}
	tree, ok := idx.trees[name]
	if !ok {
		return nil, nil
	}
	groups, ok := tree.AllIntersections(begin<<1, end<<1-1)
	if !ok {
		return nil, nil
	}
	var n int
	for _, g := range groups {
		n += len(g)
	}
	payloads := make([]int, 0, n)
	for _, g := range groups {
		payloads = append(payloads, g...)
	}
	return payloads, nil
}

// QueryCount returns the number of intervals overlapping [begin, end) on a sequence.
func (idx *Index) QueryCount(name string, begin, end int) (int, error) {
	payloads, err := idx.Query(name, begin, end)
	return len(payloads), err
}

// Overlaps tells if any interval overlaps [begin, end) on a sequence.
func (idx *Index) Overlaps(name string, begin, end int) bool {
	if !idx.built || end <= begin {
		return false
	}
	tree, ok := idx.trees[name]
	if !ok {
		return false
	}
	_, ok = tree.AnyIntersection(begin<<1, end<<1-1)
	return ok
}
