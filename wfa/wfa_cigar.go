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
	"strconv"
	"sync"
)

// AlignmentResult represent a AlignmentResult structure.
type AlignmentResult struct {
	Ops []*CIGARRecord

	Score     int // Alignment score, computed with the wavefront penalties
	BaseScore int // Alignment score computed with the input penalties

	TBegin, TEnd int // 1-based location of the alignment in target seq, no including flanking gaps
	QBegin, QEnd int // 1-based location of the alignment in query seq, no including flanking gaps

	// Stats of the aligned region, no including flanking gaps
	AlignLen   uint32
	Matches    uint32
	Mismatches uint32
	Gaps       uint32
	GapRegions uint32

	proccessed bool
}

// CIGARRecord records the operation and the number.
type CIGARRecord struct {
	N  uint32
	Op byte
}

// NewAlignmentResult returns a new AlignmentResult from the object pool.
func NewAlignmentResult() *AlignmentResult {
	cigar := poolCIGAR.Get().(*AlignmentResult)
	cigar.reset()
	return cigar
}

// reset resets a AlignmentResult.
func (cigar *AlignmentResult) reset() {
	for _, r := range cigar.Ops {
		poolCIGARRecord.Put(r)
	}
	cigar.Ops = cigar.Ops[:0]
	cigar.Score = 0
	cigar.BaseScore = 0
	cigar.proccessed = false

	cigar.TBegin, cigar.TEnd = 0, 0
	cigar.QBegin, cigar.QEnd = 0, 0

	cigar.AlignLen = 0
	cigar.Matches = 0
	cigar.Mismatches = 0
	cigar.Gaps = 0
	cigar.GapRegions = 0
}

// RecycleAlignmentResult recycles an AlignmentResult object.
func RecycleAlignmentResult(cigar *AlignmentResult) {
	if cigar != nil {
		poolCIGAR.Put(cigar)
	}
}

// object pool of a CIGAR.
var poolCIGAR = &sync.Pool{New: func() interface{} {
	cigar := AlignmentResult{
		Ops: make([]*CIGARRecord, 0, 128),
	}
	return &cigar
}}

// object pool of CIGARRecord.
var poolCIGARRecord = &sync.Pool{New: func() interface{} {
	return &CIGARRecord{}
}}

// Add adds a new record in backtrace.
func (cigar *AlignmentResult) Add(op byte) {
	cigar.AddN(op, 1)
}

// AddN adds a new record in backtrace and set its number as n.
// It merges with the last record if they have the same operation.
func (cigar *AlignmentResult) AddN(op byte, n uint32) {
	if n == 0 {
		return
	}
	if l := len(cigar.Ops); l > 0 && cigar.Ops[l-1].Op == op {
		cigar.Ops[l-1].N += n
		return
	}
	r := poolCIGARRecord.Get().(*CIGARRecord)
	r.Op = op
	r.N = n
	cigar.Ops = append(cigar.Ops, r)
}

// process reverses the operations recorded in backtrace,
// merges adjacent operations of the same type, and counts the stats.
func (cigar *AlignmentResult) process() {
	if cigar.proccessed {
		return
	}
	cigar.proccessed = true

	s := &cigar.Ops
	if len(*s) == 0 {
		return
	}

	// reverse the order of all operations.
	var i, j int
	for i, j = 0, len(*s)-1; i < j; i, j = i+1, j-1 {
		(*s)[i], (*s)[j] = (*s)[j], (*s)[i]
	}

	// merge operations of the same type.
	j = 0
	for i = 1; i < len(*s); i++ {
		if (*s)[i].Op == (*s)[j].Op {
			(*s)[j].N += (*s)[i].N
			poolCIGARRecord.Put((*s)[i])
			continue
		}
		j++
		(*s)[j] = (*s)[i]
	}
	*s = (*s)[:j+1]

	// the aligned region, no including flanking gaps
	begin, end := -1, -1
	var op *CIGARRecord
	for i, op = range *s {
		if op.Op == opMatch || op.Op == opMismatch {
			if begin < 0 {
				begin = i
			}
			end = i
		}
	}
	if begin < 0 {
		return
	}

	var v, h uint32
	for i = 0; i < begin; i++ {
		op = (*s)[i]
		switch op.Op {
		case opIns:
			v += op.N
		case opDel:
			h += op.N
		}
	}
	cigar.QBegin, cigar.TBegin = int(v)+1, int(h)+1

	var alen, matches, mismatches, gaps, gapRegions uint32
	for i = begin; i <= end; i++ {
		op = (*s)[i]
		alen += op.N
		switch op.Op {
		case opMatch:
			matches += op.N
			v += op.N
			h += op.N
		case opMismatch:
			mismatches += op.N
			v += op.N
			h += op.N
		case opIns:
			gaps += op.N
			gapRegions++
			v += op.N
		case opDel:
			gaps += op.N
			gapRegions++
			h += op.N
		}
	}
	cigar.QEnd, cigar.TEnd = int(v), int(h)

	cigar.AlignLen = alen
	cigar.Matches = matches
	cigar.Mismatches = mismatches
	cigar.Gaps = gaps
	cigar.GapRegions = gapRegions
}

// ScoreWith computes the alignment score from the operations with given penalties.
func (cigar *AlignmentResult) ScoreWith(p Penalties) int {
	cigar.process()
	var score int
	for _, op := range cigar.Ops {
		switch op.Op {
		case opMatch:
			score += int(op.N) * p.Match
		case opMismatch:
			score += int(op.N) * p.Mismatch
		case opIns, opDel:
			score += p.GapOpen + int(op.N)*p.GapExt
		}
	}
	return score
}

// QueryLen returns the number of query bases consumed by the operations.
func (cigar *AlignmentResult) QueryLen() int {
	cigar.process()
	var n int
	for _, op := range cigar.Ops {
		if op.Op != opDel {
			n += int(op.N)
		}
	}
	return n
}

// TargetLen returns the number of target bases consumed by the operations.
func (cigar *AlignmentResult) TargetLen() int {
	cigar.process()
	var n int
	for _, op := range cigar.Ops {
		if op.Op != opIns {
			n += int(op.N)
		}
	}
	return n
}

// CIGAR returns the CIGAR string.
func (cigar *AlignmentResult) CIGAR() string {
	cigar.process()
	buf := poolBytesBuffer.Get().(*bytes.Buffer)
	buf.Reset()

	for _, op := range cigar.Ops {
		buf.WriteString(strconv.Itoa(int(op.N)))
		buf.WriteByte(op.Op)
	}

	text := buf.String()
	poolBytesBuffer.Put(buf)
	return text
}

// RunLengthEncode encodes a string of operations, e.g., "MMMXMM" -> "3M1X2M".
func RunLengthEncode(ops []byte) string {
	if len(ops) == 0 {
		return ""
	}
	buf := poolBytesBuffer.Get().(*bytes.Buffer)
	buf.Reset()

	var n int
	pre := ops[0]
	for _, op := range ops {
		if op == pre {
			n++
			continue
		}
		buf.WriteString(strconv.Itoa(n))
		buf.WriteByte(pre)
		pre, n = op, 1
	}
	buf.WriteString(strconv.Itoa(n))
	buf.WriteByte(pre)

	text := buf.String()
	poolBytesBuffer.Put(buf)
	return text
}

// AlignmentText returns the formated alignment text for Query, Alignment, and Target.
// Do not forget to recycle them with RecycleAlignmentText().
func (cigar *AlignmentResult) AlignmentText(q, t *[]byte) (*[]byte, *[]byte, *[]byte) {
	cigar.process()

	Q := poolBytes.Get().(*[]byte)
	A := poolBytes.Get().(*[]byte)
	T := poolBytes.Get().(*[]byte)

	var h, v int
	var i uint32

	for _, op := range cigar.Ops {
		switch op.Op {
		case opMatch:
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, (*q)[v])
				*A = append(*A, '|')
				*T = append(*T, (*t)[h])
				v++
				h++
			}
		case opMismatch:
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, (*q)[v])
				*A = append(*A, ' ')
				*T = append(*T, (*t)[h])
				v++
				h++
			}
		case opIns:
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, (*q)[v])
				*A = append(*A, ' ')
				*T = append(*T, '-')
				v++
			}
		case opDel:
			for i = 0; i < op.N; i++ {
				*Q = append(*Q, '-')
				*A = append(*A, ' ')
				*T = append(*T, (*t)[h])
				h++
			}
		}
	}

	return Q, A, T
}

var poolBytesBuffer = &sync.Pool{New: func() interface{} {
	buf := make([]byte, 0, 1024)
	return bytes.NewBuffer(buf)
}}

var poolBytes = &sync.Pool{New: func() interface{} {
	buf := make([]byte, 0, 1024)
	return &buf
}}

// RecycleAlignmentText recycle alignment text.
func RecycleAlignmentText(Q, A, T *[]byte) {
	if Q != nil {
		*Q = (*Q)[:0]
		poolBytes.Put(Q)
	}
	if A != nil {
		*A = (*A)[:0]
		poolBytes.Put(A)
	}
	if T != nil {
		*T = (*T)[:0]
		poolBytes.Put(T)
	}
}
