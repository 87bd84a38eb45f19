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
	"github.com/pkg/errors"
	"github.com/shenwei356/wfilter/paf"
)

// Stats summarizes the indexing of PAF records.
type Stats struct {
	Records   int // all records
	NoCIGAR   int // records without a CIGAR, not indexed
	QueryIvs  int // intervals on queries
	TargetIvs int // intervals on targets
}

// FromPAF indexes the match intervals of PAF records on queries and targets.
// The payloads are the record indexes.
func FromPAF(records []*paf.Record) (*Index, *Index, Stats, error) {
	qIdx, tIdx := New(), New()
	var stats Stats

	var ivs []paf.Interval
	var err error
	for _, r := range records {
		stats.Records++
		if r.CIGAR == "" {
			stats.NoCIGAR++
			continue
		}

		for _, c := range []struct {
			seqType paf.SeqType
			idx     *Index
			n       *int
		}{
			{paf.Query, qIdx, &stats.QueryIvs},
			{paf.Target, tIdx, &stats.TargetIvs},
		} {
			name, start, end := r.Location(c.seqType)
			ivs, err = paf.MatchIntervals(c.seqType, r.Strand, start, end, r.CIGAR)
			if err != nil {
				return nil, nil, stats, errors.Wrapf(err, "record at line %d", r.Line)
			}
			for _, iv := range ivs {
				if err = c.idx.Add(name, iv, r.Index); err != nil {
					return nil, nil, stats, err
				}
			}
			*c.n += len(ivs)
		}
	}

	if err = qIdx.Build(); err != nil {
		return nil, nil, stats, err
	}
	if err = tIdx.Build(); err != nil {
		return nil, nil, stats, err
	}
	return qIdx, tIdx, stats, nil
}
