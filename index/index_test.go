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

package index

import (
	"sort"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/shenwei356/wfilter/paf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPAF = "qry\t330243\t0\t330243\t+\ttgt\t330243\t0\t330243\t330243\t330243\t60\tNM:i:0\tms:i:660486\tAS:i:660486\tnn:i:0\ttp:A:P\tcm:i:62290\ts1:i:329202\ts2:i:262341\tde:f:0\trl:i:2730\tcg:Z:330243M\n" +
	"qry\t329347\t41052\t324759\t+\ttgt\t283680\t0\t283680\t283613\t283736\t0\tNM:i:123\tms:i:566760\tAS:i:566760\tnn:i:0\ttp:A:S\tcm:i:53397\ts1:i:282348\tde:f:0.0003\trl:i:2765\tcg:Z:15M1I158M1I24M1I169M1I1147M1I24M1I851M1I13M1I3900M1D25M1I874M4I10847M3D4400M1I1494M1D4041M1I8577M14I1340M2D21138M2I7776M6D3563M2I83120M10D5541M2D27729M1I2M13I49698M1I5030M2I17541M1D22531M1I187M1D458M1D80M1I75M1I266M1I48M1I269M1I460M1D240M\n"

func readRecords(t *testing.T, text string) []*paf.Record {
	r := paf.NewReaderFromIO(strings.NewReader(text))
	var records []*paf.Record
	for r.Next() {
		records = append(records, r.Record())
	}
	require.NoError(t, r.Err())
	return records
}

func TestIndexPAF(t *testing.T) {
	records := readRecords(t, testPAF)
	qIdx, tIdx, stats, err := FromPAF(records)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Records)
	assert.Equal(t, 0, stats.NoCIGAR)
	assert.Equal(t, 38, stats.QueryIvs)
	assert.Equal(t, 38, stats.TargetIvs)
	assert.Equal(t, qIdx.Len(), tIdx.Len())

	// should apply to all of them
	n, err := qIdx.QueryCount("qry", 0, 330243)
	require.NoError(t, err)
	assert.Equal(t, 38, n)

	// the first match in the second alignment plus the first alignment which covers everything
	n, err = qIdx.QueryCount("qry", 41052, 41067)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	payloads, err := qIdx.Query("qry", 41052, 41067)
	require.NoError(t, err)
	sort.Ints(payloads)
	assert.Equal(t, []int{0, 1}, payloads)

	// the base between the first two match runs on the query is an insertion
	payloads, err = qIdx.Query("qry", 41067, 41068)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, payloads)

	// target coordinates
	payloads, err = tIdx.Query("tgt", 15, 16)
	require.NoError(t, err)
	sort.Ints(payloads)
	assert.Equal(t, []int{0, 1}, payloads)

	// unknown sequence
	payloads, err = tIdx.Query("qry", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}

func TestIndexHalfOpen(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Add("s", paf.Interval{Begin: 10, End: 20}, 1))
	require.NoError(t, idx.Add("s", paf.Interval{Begin: 10, End: 20}, 2)) // identical interval
	require.NoError(t, idx.Add("s", paf.Interval{Begin: 20, End: 30}, 3))
	require.NoError(t, idx.Add("s", paf.Interval{Begin: 5, End: 5}, 4)) // empty, ignored
	assert.Equal(t, 3, idx.Len())

	_, err := idx.Query("s", 0, 10)
	assert.True(t, errors.Is(err, ErrNotBuilt))

	require.NoError(t, idx.Build())
	assert.Error(t, idx.Add("s", paf.Interval{Begin: 1, End: 2}, 5))
	assert.Equal(t, 1, idx.NumSeqs())

	query := func(b, e int) []int {
		payloads, err := idx.Query("s", b, e)
		require.NoError(t, err)
		sort.Ints(payloads)
		return payloads
	}

	assert.Empty(t, query(0, 10)) // touching the start only
	assert.Equal(t, []int{1, 2}, query(9, 11))
	assert.Equal(t, []int{1, 2}, query(19, 20))
	assert.Equal(t, []int{3}, query(20, 21)) // touching the end only
	assert.Equal(t, []int{1, 2, 3}, query(15, 25))
	assert.Empty(t, query(30, 40))
	assert.Empty(t, query(15, 15))

	assert.True(t, idx.Overlaps("s", 29, 30))
	assert.False(t, idx.Overlaps("s", 30, 31))
	assert.False(t, idx.Overlaps("x", 0, 100))
}

func TestIndexPAFErrors(t *testing.T) {
	records := readRecords(t, "q\t10\t0\t10\t+\tt\t10\t0\t10\t10\t10\t60\n"+
		"q\t10\t0\t10\t+\tt\t10\t0\t10\t10\t10\t60\tcg:Z:5M\n")
	_, _, stats, err := FromPAF(records[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NoCIGAR)

	_, _, _, err = FromPAF(records)
	assert.True(t, errors.Is(err, paf.ErrCIGARSpanMismatch))
}
