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
	"context"
	"math"
	"sync"

	"github.com/pkg/errors"
)

// MatchFunc tells if query[v] matches target[h].
// The aligner only calls it with v < len(query) and h < len(target).
type MatchFunc func(v, h int) bool

// ReportFunc receives a run of exact matches found in backtrace,
// as 0-based half-open intervals on the query and the target.
// Runs are reported from the end of the alignment to the start.
type ReportFunc func(qBegin, qEnd, tBegin, tEnd int)

// Options contains the options of an Aligner.
type Options struct {
	// Strategy to turn the input penalties into wavefront penalties.
	Strategy PenaltiesStrategy

	// MaxScore is the score cap, 0 for an automatic one.
	// Alignments exceeding the cap are abandoned with ErrAbandoned.
	MaxScore int

	// SaveMatrix records the DP cells visited, for Plot().
	SaveMatrix bool
}

// DefaultOptions is the default option.
var DefaultOptions = &Options{
	Strategy: MatchZero,
}

// AdaptiveReductionOption contains the parameters for adaptive reduction.
type AdaptiveReductionOption struct {
	MinWFLen    int // minimum wavefront length to trigger the reduction
	MaxDistDiff int // maximum distance difference to the closest diagonal
}

// DefaultAdaptiveOption provides a default option with parameters from the official repo.
var DefaultAdaptiveOption = &AdaptiveReductionOption{
	MinWFLen:    10,
	MaxDistDiff: 50,
}

// Aligner is the object for aligning,
// which can apply to multiple pairs of query and target sequences.
// And it's from a object pool, in case a large number of alignment are needed.
// An Aligner must not be shared between goroutines.
type Aligner struct {
	p   *Penalties // input penalties
	wp  Penalties  // penalties used in wavefronts, Match == 0
	opt *Options
	ad  *AdaptiveReductionOption // nil for disabled

	qlen, tlen int
	match      MatchFunc

	st *Store

	dists  []int       // for reduction, indexed by the shifted diagonal
	matrix *[]*[]int32 // visited cells: score<<wfaTypeBits | type, -1 for not visited
}

// object pool of aligners.
var poolAligner = &sync.Pool{New: func() interface{} {
	algn := Aligner{
		dists: make([]int, 0, 128),
	}
	return &algn
}}

// New returns a new Aligner from the object pool.
// Nil penalties or options mean the default ones.
func New(p *Penalties, opt *Options) (*Aligner, error) {
	if p == nil {
		p = &DefaultPenalties
	}
	if opt == nil {
		opt = DefaultOptions
	}
	wp, err := NormalizePenalties(*p, opt.Strategy)
	if err != nil {
		return nil, err
	}
	if opt.MaxScore < 0 {
		return nil, errors.Errorf("wfa: negative max score: %d", opt.MaxScore)
	}

	algn := poolAligner.Get().(*Aligner)
	algn.p = p
	algn.wp = wp
	algn.opt = opt
	algn.ad = nil
	return algn, nil
}

// RecycleAligner recycles an Aligner object.
func RecycleAligner(algn *Aligner) {
	if algn == nil {
		return
	}
	if algn.st != nil {
		RecycleStore(algn.st)
		algn.st = nil
	}
	if algn.matrix != nil {
		recycleMatrix(algn.matrix)
		algn.matrix = nil
	}
	algn.match = nil
	poolAligner.Put(algn)
}

// AdaptiveReduction sets the adaptive reduction parameters, nil for disabling it.
// The alignment might not be optimal with the reduction.
func (algn *Aligner) AdaptiveReduction(ad *AdaptiveReductionOption) error {
	if ad == nil {
		algn.ad = nil
		return nil
	}
	if ad.MinWFLen < 1 {
		return errors.Errorf("wfa: the minimum wavefront length should be positive: %d", ad.MinWFLen)
	}
	if ad.MaxDistDiff < 0 {
		return errors.Errorf("wfa: the maximum distance difference should not be negative: %d", ad.MaxDistDiff)
	}
	algn.ad = ad
	return nil
}

// Penalties returns the penalties used in wavefronts.
func (algn *Aligner) Penalties() Penalties { return algn.wp }

// Store returns the wavefronts of the last alignment, for diagnostics.
func (algn *Aligner) Store() *Store { return algn.st }

// reset resets the internal data before alignment.
func (algn *Aligner) reset(qlen, tlen int, match MatchFunc) {
	algn.qlen, algn.tlen = qlen, tlen
	algn.match = match

	if algn.st != nil {
		RecycleStore(algn.st)
	}
	algn.st = NewStore(qlen, tlen)

	if algn.matrix != nil {
		recycleMatrix(algn.matrix)
		algn.matrix = nil
	}
	if algn.opt.SaveMatrix {
		algn.matrix = newMatrix(qlen+1, tlen+1)
		algn.saveCell(0, 0, 0, 0)
	}
}

// Align performs global alignment for two sequences.
// Do not forget to recycle the result with RecycleAlignmentResult().
func (algn *Aligner) Align(q, t []byte) (*AlignmentResult, error) {
	return algn.AlignFunc(context.Background(), len(q), len(t),
		func(v, h int) bool { return q[v] == t[h] }, nil)
}

// AlignFunc performs global alignment for two sequences of given lengths,
// with a custom match function. Runs of exact matches are passed to report
// in backtrace, it could be nil.
// The context is checked once per score.
func (algn *Aligner) AlignFunc(ctx context.Context, qlen, tlen int,
	match MatchFunc, report ReportFunc) (*AlignmentResult, error) {
	if qlen < 0 || tlen < 0 {
		return nil, errors.Errorf("wfa: negative sequence length: %d, %d", qlen, tlen)
	}
	if match == nil {
		return nil, errors.New("wfa: nil match function")
	}

	algn.reset(qlen, tlen, match)
	st := algn.st

	aK := tlen - qlen
	aOffset := int32(tlen)
	maxScore := algn.scoreCap()

	var s int
	var wf *WaveFront
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if wf = st.M(s); wf != nil {
			algn.extend(s)

			if wf.Get(aK) >= aOffset {
				break
			}
		}

		s++
		if s > maxScore {
			return nil, errors.Wrapf(ErrAbandoned, "score %d exceeds the cap %d (query: %d bp, target: %d bp)",
				s, maxScore, qlen, tlen)
		}

		algn.next(s)
	}

	return algn.backtrace(s, report)
}

// scoreCap returns the maximum score to try.
// Without a user cap, it's the score of aligning with mismatches
// and one gap, which is an upper bound of the optimal score.
func (algn *Aligner) scoreCap() int {
	if algn.opt.MaxScore > 0 {
		return algn.opt.MaxScore
	}
	p := &algn.wp
	q, t := algn.qlen, algn.tlen
	upper := min(q, t) * p.Mismatch
	if q != t {
		d := t - q
		if d < 0 {
			d = -d
		}
		upper += p.GapOpen + d*p.GapExt
	}
	if algn.ad != nil {
		upper = upper<<1 + 1
	}
	return upper
}

// extend refers to the WF_EXTEND method.
func (algn *Aligner) extend(s int) {
	wf := algn.st.M(s)
	qlen, tlen := algn.qlen, algn.tlen
	match := algn.match
	saveMatrix := algn.matrix != nil

	var offset int32
	var v, h int
	for k := wf.Lo; k <= wf.Hi; k++ {
		offset = wf.Get(k)
		if offset < 0 {
			continue
		}
		h = H(k, offset)
		v = V(k, offset)
		for v < qlen && h < tlen && match(v, h) {
			v++
			h++
			if saveMatrix {
				algn.saveCell(v, h, s, wfaMatch)
			}
		}
		wf.Set(k, int32(h))
	}
}

// insC returns the offset after consuming one target base, or OffsetNull
// if the source is unreachable or the cell is outside the matrix.
func (algn *Aligner) insC(offset int32) int32 {
	if offset < 0 || int(offset)+1 > algn.tlen {
		return OffsetNull
	}
	return offset + 1
}

// delC returns the offset on diagonal k after consuming one query base.
func (algn *Aligner) delC(offset int32, k int) int32 {
	if offset < 0 || int(offset)-k > algn.qlen {
		return OffsetNull
	}
	return offset
}

// misC returns the offset on diagonal k after a mismatch.
func (algn *Aligner) misC(offset int32, k int) int32 {
	if offset < 0 || int(offset)+1 > algn.tlen || int(offset)+1-k > algn.qlen {
		return OffsetNull
	}
	return offset + 1
}

// next refers to the WF_NEXT method.
//
//	I[s][k] = max(M[s-o-e][k-1], I[s-e][k-1]) + 1
//	D[s][k] = max(M[s-o-e][k+1], D[s-e][k+1])
//	M[s][k] = max(M[s-x][k] + 1, I[s][k], D[s][k])
func (algn *Aligner) next(s int) {
	st := algn.st
	p := &algn.wp

	mMis := st.M(s - p.Mismatch)
	mGap := st.M(s - p.GapOpen - p.GapExt)
	iExt := st.I(s - p.GapExt)
	dExt := st.D(s - p.GapExt)

	lo, hi := math.MaxInt, math.MinInt
	for _, wf := range [...]*WaveFront{mMis, mGap, iExt, dExt} {
		if wf == nil {
			continue
		}
		lo = min(lo, wf.Lo)
		hi = max(hi, wf.Hi)
	}
	if lo > hi { // no source
		return
	}
	lo = max(lo-1, st.MinDiagonal)
	hi = min(hi+1, st.MaxDiagonal)

	set := st.Alloc(s, lo, hi)
	saveMatrix := algn.matrix != nil

	var insOpen, insExt, delOpen, delExt, mis int32
	var ins, del, m int32
	var _type uint32
	for k := lo; k <= hi; k++ {
		insOpen = algn.insC(mGap.Get(k - 1))
		insExt = algn.insC(iExt.Get(k - 1))
		ins = max(insOpen, insExt)
		set.I.Set(k, ins)

		delOpen = algn.delC(mGap.Get(k+1), k)
		delExt = algn.delC(dExt.Get(k+1), k)
		del = max(delOpen, delExt)
		set.D.Set(k, del)

		mis = algn.misC(mMis.Get(k), k)
		m = max(mis, ins, del)
		set.M.Set(k, m)

		if saveMatrix && m >= 0 {
			switch m { // the same priority as in backtrace
			case delExt:
				_type = wfaDeleteExt
			case delOpen:
				_type = wfaDeleteOpen
			case insExt:
				_type = wfaInsertExt
			case insOpen:
				_type = wfaInsertOpen
			default:
				_type = wfaMismatch
			}
			algn.saveCell(V(k, m), H(k, m), s, _type)
		}
	}

	// only keep wavefronts with reachable diagonals
	if !set.I.HasValid() {
		RecycleWaveFront(set.I)
		set.I = nil
	}
	if !set.D.HasValid() {
		RecycleWaveFront(set.D)
		set.D = nil
	}
	if !set.M.HasValid() {
		st.Drop(s)
		return
	}

	if algn.ad != nil {
		algn.reduce(s)
	}
}
