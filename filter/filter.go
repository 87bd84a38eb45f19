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

// Package filter realigns target/query sequence pairs with WFA and keeps
// the PAF records whose match intervals overlap the runs of exact matches
// of the new alignments.
package filter

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shenwei356/go-logging"
	"github.com/shenwei356/wfilter/index"
	"github.com/shenwei356/wfilter/paf"
	"github.com/shenwei356/wfilter/wfa"
	"github.com/twotwotwo/sorts/sortutil"
)

// PairSet records which queries are aligned to which targets in a PAF file.
type PairSet map[string]map[string]struct{}

// PairsFromPAF collects the target-query pairs of PAF records.
func PairsFromPAF(records []*paf.Record) PairSet {
	ps := make(PairSet, 8)
	var m map[string]struct{}
	var ok bool
	for _, r := range records {
		if m, ok = ps[r.Target]; !ok {
			m = make(map[string]struct{}, 8)
			ps[r.Target] = m
		}
		m[r.Query] = struct{}{}
	}
	return ps
}

// Has tells if the pair exists.
func (ps PairSet) Has(target, query string) bool {
	_, ok := ps[target][query]
	return ok
}

// PairResult is the outcome of aligning one pair.
type PairResult struct {
	Target, Query string

	Abandoned bool
	Score     int    // -1 for abandoned pairs
	CIGAR     string // empty for abandoned pairs

	QueryHits  int // PAF records hit on the query
	TargetHits int // PAF records hit on the target

	Elapsed time.Duration
}

// Filter aligns every target-query pair and collects the PAF records
// overlapping the matches.
type Filter struct {
	Penalties wfa.Penalties
	Strategy  wfa.PenaltiesStrategy
	Reduction *wfa.AdaptiveReductionOption // nil for disabling adaptive reduction
	MaxScore  int                          // 0 for the automatic score cap

	Threads int // 0 for all CPUs

	// Pairs limits the pairs to align, nil for all pairs.
	Pairs PairSet

	// Log receives warnings and debug messages, nil for silence.
	Log *logging.Logger

	// OnPair is called after each pair, concurrently from workers.
	OnPair func(*PairResult)
}

// Result is the merged result of all pairs.
type Result struct {
	Pairs     int // aligned pairs, including abandoned ones
	Abandoned int

	QueryHits  map[int]struct{} // PAF record indexes hit on queries
	TargetHits map[int]struct{} // PAF record indexes hit on targets
}

// Kept returns the sorted union of the query and target hits.
func (r *Result) Kept() []int {
	all := make(map[int]struct{}, len(r.QueryHits)+len(r.TargetHits))
	for i := range r.QueryHits {
		all[i] = struct{}{}
	}
	for i := range r.TargetHits {
		all[i] = struct{}{}
	}
	kept := make([]int, 0, len(all))
	for i := range all {
		kept = append(kept, i)
	}
	sortutil.Ints(kept)
	return kept
}

// hits of one pair, sent to the collector.
type pairHits struct {
	abandoned bool
	q, t      map[int]struct{}
}

// Run aligns all target-query pairs, with the match runs queried in
// qIdx (query coordinates) and tIdx (target coordinates).
//
// Abandoned pairs are skipped. Invalid penalties, engine errors and
// cancellation of ctx stop the run.
func (f *Filter) Run(ctx context.Context, targets, queries []*Sequence,
	qIdx, tIdx *index.Index) (*Result, error) {
	if qIdx == nil || tIdx == nil || !qIdx.Built() || !tIdx.Built() {
		return nil, index.ErrNotBuilt
	}

	opt := &wfa.Options{
		Strategy: f.Strategy,
		MaxScore: f.MaxScore,
	}
	// checking the configuration before any alignment
	algn, err := f.newAligner(opt)
	if err != nil {
		return nil, err
	}
	wfa.RecycleAligner(algn)

	threads := f.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	result := &Result{
		QueryHits:  make(map[int]struct{}, 1024),
		TargetHits: make(map[int]struct{}, 1024),
	}

	ch := make(chan *pairHits, threads)
	done := make(chan int)
	go func() {
		for h := range ch {
			result.Pairs++
			if h.abandoned {
				result.Abandoned++
				continue
			}
			for i := range h.q {
				result.QueryHits[i] = struct{}{}
			}
			for i := range h.t {
				result.TargetHits[i] = struct{}{}
			}
		}
		done <- 1
	}()

	parent := ctx
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var errOnce sync.Once
	var firstErr error
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	var wg sync.WaitGroup             // ensure all jobs done
	tokens := make(chan int, threads) // control the max concurrency number
LOOP:
	for _, t := range targets {
		for _, q := range queries {
			if f.Pairs != nil && !f.Pairs.Has(t.ID, q.ID) {
				continue
			}
			if ctx.Err() != nil {
				break LOOP
			}

			tokens <- 1
			wg.Add(1)
			go func(t, q *Sequence) {
				defer func() {
					wg.Done()
					<-tokens
				}()

				h, err := f.alignPair(ctx, opt, t, q, qIdx, tIdx)
				if err != nil {
					fail(err)
					return
				}
				ch <- h
			}(t, q)
		}
	}
	wg.Wait()
	close(ch)
	<-done

	if firstErr != nil {
		return nil, firstErr
	}
	if err = parent.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *Filter) newAligner(opt *wfa.Options) (*wfa.Aligner, error) {
	algn, err := wfa.New(&f.Penalties, opt)
	if err != nil {
		return nil, err
	}
	if f.Reduction != nil {
		if err = algn.AdaptiveReduction(f.Reduction); err != nil {
			wfa.RecycleAligner(algn)
			return nil, err
		}
	}
	return algn, nil
}

// alignPair aligns one pair with an aligner from the pool.
func (f *Filter) alignPair(ctx context.Context, opt *wfa.Options, t, q *Sequence,
	qIdx, tIdx *index.Index) (*pairHits, error) {
	startTime := time.Now()

	algn, err := f.newAligner(opt)
	if err != nil {
		return nil, err
	}
	defer wfa.RecycleAligner(algn)

	h := &pairHits{
		q: make(map[int]struct{}, 8),
		t: make(map[int]struct{}, 8),
	}

	qs, ts := q.Seq, t.Seq
	match := func(i, j int) bool { return qs[i] == ts[j] }

	var hits []int
	report := func(qBegin, qEnd, tBegin, tEnd int) {
		// the indexes are built, no errors
		hits, _ = qIdx.Query(q.ID, qBegin, qEnd)
		for _, i := range hits {
			h.q[i] = struct{}{}
		}
		hits, _ = tIdx.Query(t.ID, tBegin, tEnd)
		for _, i := range hits {
			h.t[i] = struct{}{}
		}
	}

	pr := &PairResult{Target: t.ID, Query: q.ID, Score: -1}

	res, err := algn.AlignFunc(ctx, len(qs), len(ts), match, report)
	if err != nil {
		if !errors.Is(err, wfa.ErrAbandoned) {
			return nil, errors.Wrapf(err, "align %s (query) to %s (target)", q.ID, t.ID)
		}
		if f.Log != nil {
			f.Log.Warningf("skipping pair %s (query) - %s (target): %s", q.ID, t.ID, err)
		}
		h.abandoned = true
		h.q, h.t = nil, nil
		pr.Abandoned = true
	} else {
		pr.Score = res.Score
		pr.CIGAR = res.CIGAR()
		pr.QueryHits = len(h.q)
		pr.TargetHits = len(h.t)
		wfa.RecycleAlignmentResult(res)

		if f.Log != nil {
			f.Log.Debugf("%s (query) - %s (target): score: %d, hits on query/target: %d/%d",
				q.ID, t.ID, pr.Score, pr.QueryHits, pr.TargetHits)
		}
	}

	pr.Elapsed = time.Since(startTime)
	if f.OnPair != nil {
		f.OnPair(pr)
	}
	return h, nil
}
