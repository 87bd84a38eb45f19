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

package paf

import (
	"math"

	"github.com/pkg/errors"
)

var (
	ErrEmptyCIGAR        = errors.New("paf: empty CIGAR")
	ErrInvalidCIGAROp    = errors.New("paf: unexpected CIGAR operation")
	ErrInvalidCIGAR      = errors.New("paf: invalid CIGAR")
	ErrCIGARSpanMismatch = errors.New("paf: CIGAR does not match the alignment span")
)

// CIGAROp is one CIGAR operation.
// Only M, =, X, I and D are accepted. I consumes the query and D consumes the target.
type CIGAROp struct {
	N  int
	Op byte
}

// ParseCIGAR parses a CIGAR string.
func ParseCIGAR(s string) ([]CIGAROp, error) {
	if s == "" {
		return nil, ErrEmptyCIGAR
	}
	ops := make([]CIGAROp, 0, 8)
	var n int
	var hasN bool
	var c byte
	for i := 0; i < len(s); i++ {
		c = s[i]
		switch {
		case c >= '0' && c <= '9':
			n = n*10 + int(c-'0')
			if n > math.MaxInt32 {
				return nil, errors.Wrapf(ErrInvalidCIGAR, "operation length too large at position %d: %s", i, s)
			}
			hasN = true
		case c == 'M' || c == '=' || c == 'X' || c == 'I' || c == 'D':
			if !hasN {
				return nil, errors.Wrapf(ErrInvalidCIGAR, "missing length before '%c' at position %d: %s", c, i, s)
			}
			ops = append(ops, CIGAROp{N: n, Op: c})
			n, hasN = 0, false
		default:
			return nil, errors.Wrapf(ErrInvalidCIGAROp, "'%c' at position %d", c, i)
		}
	}
	if hasN {
		return nil, errors.Wrapf(ErrInvalidCIGAR, "trailing number: %s", s)
	}
	return ops, nil
}

// Interval is a 0-based half-open interval.
type Interval struct {
	Begin, End int
}

// Len returns the length.
func (i Interval) Len() int { return i.End - i.Begin }

// MatchIntervals computes the intervals of M/= runs of a CIGAR
// on the query or target, which spans [start, end).
//
// X advances both sequences. I advances the query only and D advances
// the target only. On the reverse strand, the query coordinates go
// downward from end.
func MatchIntervals(seqType SeqType, strand Strand, start, end int, cigar string) ([]Interval, error) {
	ops, err := ParseCIGAR(cigar)
	if err != nil {
		return nil, err
	}

	reverse := seqType == Query && strand == Reverse

	cursor := start
	if reverse {
		cursor = end
	}

	intervals := make([]Interval, 0, len(ops))
	var consumed bool
	for _, op := range ops {
		switch op.Op {
		case 'M', '=':
			if reverse {
				intervals = append(intervals, Interval{cursor - op.N, cursor})
			} else {
				intervals = append(intervals, Interval{cursor, cursor + op.N})
			}
			consumed = true
		case 'X':
			consumed = true
		case 'I':
			consumed = seqType == Query
		case 'D':
			consumed = seqType == Target
		}
		if !consumed {
			continue
		}
		if reverse {
			cursor -= op.N
		} else {
			cursor += op.N
		}
	}

	if reverse {
		if cursor != start {
			return nil, errors.Wrapf(ErrCIGARSpanMismatch, "%s span [%d, %d), %d bases left",
				seqType, start, end, cursor-start)
		}
	} else if cursor != end {
		return nil, errors.Wrapf(ErrCIGARSpanMismatch, "%s span [%d, %d), CIGAR ends at %d",
			seqType, start, end, cursor)
	}

	return intervals, nil
}
