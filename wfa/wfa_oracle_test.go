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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gotoh computes the optimal gap-affine score with the quadratic DP.
func gotoh(q, t []byte, p Penalties) int {
	const inf = 1 << 40
	n, m := len(q), len(t)
	newMat := func() [][]int {
		mat := make([][]int, n+1)
		for i := range mat {
			mat[i] = make([]int, m+1)
			for j := range mat[i] {
				mat[i][j] = inf
			}
		}
		return mat
	}
	M, I, D := newMat(), newMat(), newMat() // I consumes t, D consumes q
	M[0][0] = 0
	var best int
	for i := 0; i <= n; i++ {
		for j := 0; j <= m; j++ {
			if i == 0 && j == 0 {
				continue
			}
			if j > 0 {
				I[i][j] = min(M[i][j-1]+p.GapOpen+p.GapExt, I[i][j-1]+p.GapExt)
			}
			if i > 0 {
				D[i][j] = min(M[i-1][j]+p.GapOpen+p.GapExt, D[i-1][j]+p.GapExt)
			}
			best = min(I[i][j], D[i][j])
			if i > 0 && j > 0 {
				if q[i-1] == t[j-1] {
					best = min(best, M[i-1][j-1])
				} else {
					best = min(best, M[i-1][j-1]+p.Mismatch)
				}
			}
			M[i][j] = best
		}
	}
	return M[n][m]
}

// checkCIGAR checks that the operations consume both sequences exactly,
// M are exact matches, and X are mismatches.
func checkCIGAR(t *testing.T, q, tt []byte, cigar *AlignmentResult) {
	var v, h int
	for _, op := range cigar.Ops {
		n := int(op.N)
		switch op.Op {
		case opMatch:
			for i := 0; i < n; i++ {
				require.Equal(t, q[v+i], tt[h+i], "%s %s %s", q, tt, cigar.CIGAR())
			}
			v += n
			h += n
		case opMismatch:
			for i := 0; i < n; i++ {
				require.NotEqual(t, q[v+i], tt[h+i], "%s %s %s", q, tt, cigar.CIGAR())
			}
			v += n
			h += n
		case opIns:
			v += n
		case opDel:
			h += n
		default:
			t.Fatalf("unexpected operation: %c", op.Op)
		}
	}
	require.Equal(t, len(q), v)
	require.Equal(t, len(tt), h)
}

func randSeq(r *rand.Rand, n int) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = "ACGT"[r.Intn(4)]
	}
	return s
}

func TestOptimalScore(t *testing.T) {
	r := rand.New(rand.NewSource(11))

	for i := 0; i < 500; i++ {
		p := Penalties{
			Mismatch: 1 + r.Intn(6),
			GapOpen:  1 + r.Intn(8),
			GapExt:   1 + r.Intn(4),
		}
		q := randSeq(r, r.Intn(40))
		tt := randSeq(r, r.Intn(40))

		algn, err := New(&p, nil)
		require.NoError(t, err)

		var matched int
		cigar, err := algn.AlignFunc(context.Background(), len(q), len(tt),
			func(v, h int) bool { return q[v] == tt[h] },
			func(qb, qe, tb, te int) {
				require.Equal(t, qe-qb, te-tb)
				require.Equal(t, string(q[qb:qe]), string(tt[tb:te]))
				matched += qe - qb
			})
		require.NoError(t, err)

		require.Equal(t, gotoh(q, tt, p), cigar.Score, "%s %s %s", q, tt, p)
		assert.Equal(t, cigar.Score, cigar.ScoreWith(p))
		assert.Equal(t, int(cigar.Matches), matched)
		checkCIGAR(t, q, tt, cigar)

		RecycleAlignmentResult(cigar)
		RecycleAligner(algn)
	}
}

func TestAdaptiveReduction(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	for _, ad := range []*AdaptiveReductionOption{DefaultAdaptiveOption, {MinWFLen: 5, MaxDistDiff: 2}} {
		algn, err := New(nil, nil)
		require.NoError(t, err)
		require.NoError(t, algn.AdaptiveReduction(ad))

		for i := 0; i < 200; i++ {
			q := randSeq(r, 20+r.Intn(60))
			tt := randSeq(r, 20+r.Intn(60))

			cigar, err := algn.Align(q, tt)
			require.NoError(t, err)

			checkCIGAR(t, q, tt, cigar)
			assert.Equal(t, cigar.Score, cigar.ScoreWith(DefaultPenalties))
			assert.GreaterOrEqual(t, cigar.Score, gotoh(q, tt, DefaultPenalties))

			RecycleAlignmentResult(cigar)
		}
		RecycleAligner(algn)
	}
}

func TestAdaptiveReductionKeepsSimilarAlignment(t *testing.T) {
	algn, err := New(nil, nil)
	require.NoError(t, err)
	defer RecycleAligner(algn)
	require.NoError(t, algn.AdaptiveReduction(DefaultAdaptiveOption))

	q := []byte("AGCTAGTGTCAATGGCTACTTTTCAGGTCCT")
	tt := []byte("AACTAAGTGTCGGTGGCTACTATATATCAGGTCCT")
	cigar, err := algn.Align(q, tt)
	require.NoError(t, err)
	defer RecycleAlignmentResult(cigar)

	assert.Equal(t, 36, cigar.Score)
	assert.Equal(t, "1M1X3M1D5M2X8M1X1M3D9M", cigar.CIGAR())
}
