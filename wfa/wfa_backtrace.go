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

var stateNames = []string{"M", "I", "D"}

// backtrace walks from the end cell at the given score back to the start.
//
// Wavefront I consumes target bases and D consumes query bases, so in the CIGAR,
// which follows the SAM convention, a step from I is written as 'D' and
// a step from D is written as 'I'.
//
// When several predecessors reach the same offset, the priority is:
// deletion-extend, deletion-open, insertion-extend, insertion-open, mismatch.
func (algn *Aligner) backtrace(score int, report ReportFunc) (*AlignmentResult, error) {
	st := algn.st
	p := &algn.wp
	x, oe, e := p.Mismatch, p.GapOpen+p.GapExt, p.GapExt

	cigar := NewAlignmentResult()
	cigar.Score = score

	s := score
	k := algn.tlen - algn.qlen
	offset := st.M(s).Get(k)
	state := stateM
	v, h := V(k, offset), H(k, offset)

	var delExt, delOpen, insExt, insOpen, mis, mx int32
	for v > 0 && h > 0 && s > 0 {
		delExt, delOpen, insExt, insOpen, mis = OffsetNull, OffsetNull, OffsetNull, OffsetNull, OffsetNull

		if state != stateI {
			delExt = algn.delC(st.D(s-e).Get(k+1), k)
			delOpen = algn.delC(st.M(s-oe).Get(k+1), k)
		}
		if state != stateD {
			insExt = algn.insC(st.I(s - e).Get(k - 1))
			insOpen = algn.insC(st.M(s - oe).Get(k - 1))
		}
		if state == stateM {
			mis = algn.misC(st.M(s-x).Get(k), k)
		}

		mx = max(delExt, delOpen, insExt, insOpen, mis)
		if mx < 0 {
			RecycleAlignmentResult(cigar)
			return nil, &InternalError{Score: s, K: k, Offset: offset, State: stateNames[state]}
		}

		if state == stateM && offset > mx { // a run of matches
			if report != nil {
				report(V(k, mx), V(k, offset), H(k, mx), H(k, offset))
			}
			cigar.AddN(opMatch, uint32(offset-mx))
			offset = mx
		}

		switch mx {
		case delExt:
			cigar.Add(opIns)
			s -= e
			k++
			state = stateD
		case delOpen:
			cigar.Add(opIns)
			s -= oe
			k++
			state = stateM
		case insExt:
			cigar.Add(opDel)
			s -= e
			k--
			offset--
			state = stateI
		case insOpen:
			cigar.Add(opDel)
			s -= oe
			k--
			offset--
			state = stateM
		default:
			cigar.Add(opMismatch)
			s -= x
			offset--
		}

		v, h = V(k, offset), H(k, offset)
	}

	if s == 0 { // on diagonal 0, only matches left
		if offset > 0 {
			if report != nil {
				report(0, V(k, offset), 0, H(k, offset))
			}
			cigar.AddN(opMatch, uint32(offset))
		}
	} else {
		if v > 0 {
			cigar.AddN(opIns, uint32(v))
		}
		if h > 0 {
			cigar.AddN(opDel, uint32(h))
		}
	}

	cigar.process()
	cigar.BaseScore = cigar.ScoreWith(*algn.p)
	return cigar, nil
}
