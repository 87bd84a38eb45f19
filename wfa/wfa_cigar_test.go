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
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunLengthEncode(t *testing.T) {
	assert.Equal(t, "", RunLengthEncode(nil))
	assert.Equal(t, "3M1X2M", RunLengthEncode([]byte("MMMXMM")))
	assert.Equal(t, "2D6M1X10M", RunLengthEncode([]byte("DDMMMMMMXMMMMMMMMMM")))
	assert.Equal(t, "1I", RunLengthEncode([]byte("I")))
}

// expandCIGAR expands a CIGAR string like "3M1X" into operations.
func expandCIGAR(t *testing.T, cigar string) []byte {
	ops := make([]byte, 0, len(cigar))
	var j int
	for i := 0; i < len(cigar); i++ {
		c := cigar[i]
		if c >= '0' && c <= '9' {
			continue
		}
		n, err := strconv.Atoi(cigar[j:i])
		if err != nil {
			t.Fatalf("invalid CIGAR %q: %s", cigar, err)
		}
		for ; n > 0; n-- {
			ops = append(ops, c)
		}
		j = i + 1
	}
	return ops
}

func TestRunLengthEncodeIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	alphabet := []byte("MXID")

	var ops []byte
	for i := 0; i < 1000; i++ {
		ops = ops[:0]
		for n := r.Intn(51); n > 0; n-- {
			ops = append(ops, alphabet[r.Intn(len(alphabet))])
		}

		rle := RunLengthEncode(ops)
		expanded := expandCIGAR(t, rle)
		assert.Equal(t, string(ops), string(expanded))
		assert.Equal(t, rle, RunLengthEncode(expanded))
	}
}

func TestAlignmentResultProcess(t *testing.T) {
	// operations are added in backtrace order, from the end to the start.
	cigar := NewAlignmentResult()
	for _, op := range []byte("MMMMMMMMMMXMMMMMMDD") {
		cigar.Add(op)
	}
	assert.Equal(t, "2D6M1X10M", cigar.CIGAR())
	// processing twice changes nothing
	assert.Equal(t, "2D6M1X10M", cigar.CIGAR())

	assert.Equal(t, 17, cigar.QueryLen())
	assert.Equal(t, 19, cigar.TargetLen())
	assert.Equal(t, 1, cigar.QBegin)
	assert.Equal(t, 17, cigar.QEnd)
	assert.Equal(t, 3, cigar.TBegin)
	assert.Equal(t, 19, cigar.TEnd)
	assert.Equal(t, uint32(17), cigar.AlignLen)
	assert.Equal(t, uint32(16), cigar.Matches)
	assert.Equal(t, uint32(1), cigar.Mismatches)

	assert.Equal(t, 4+6+2*2, cigar.ScoreWith(DefaultPenalties))
	assert.Equal(t, -16+4+6+2*2, cigar.ScoreWith(Penalties{Match: -1, Mismatch: 4, GapOpen: 6, GapExt: 2}))
	RecycleAlignmentResult(cigar)

	cigar = NewAlignmentResult()
	assert.Equal(t, "", cigar.CIGAR())
	assert.Equal(t, 0, cigar.ScoreWith(DefaultPenalties))
	assert.Equal(t, 0, cigar.QBegin)
	RecycleAlignmentResult(cigar)

	cigar = NewAlignmentResult()
	cigar.AddN('M', 3)
	cigar.AddN('M', 0)
	cigar.AddN('M', 2)
	cigar.AddN('I', 1)
	assert.Equal(t, "1I5M", cigar.CIGAR())
	RecycleAlignmentResult(cigar)
}
