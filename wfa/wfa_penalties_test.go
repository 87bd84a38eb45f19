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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPenaltiesValidate(t *testing.T) {
	assert.NoError(t, DefaultPenalties.Validate())
	assert.NoError(t, Penalties{Match: -2, Mismatch: 1, GapOpen: 1, GapExt: 1}.Validate())

	for _, p := range []Penalties{
		{Match: 1, Mismatch: 4, GapOpen: 6, GapExt: 2},
		{Match: 0, Mismatch: 0, GapOpen: 6, GapExt: 2},
		{Match: 0, Mismatch: 4, GapOpen: -1, GapExt: 2},
		{Match: 0, Mismatch: 4, GapOpen: 6, GapExt: 0},
	} {
		err := p.Validate()
		require.Error(t, err, p.String())
		assert.True(t, errors.Is(err, ErrInvalidPenalties))
	}
}

func TestNormalizePenalties(t *testing.T) {
	cases := []struct {
		p        Penalties
		strategy PenaltiesStrategy
		expected Penalties
	}{
		// zero match always uses MatchZero
		{DefaultPenalties, OddPairPenalties, DefaultPenalties},
		{Penalties{-1, 4, 6, 2}, MatchZero, Penalties{0, 4, 6, 2}},
		{Penalties{-1, 4, 6, 2}, ForceZeroMatch, Penalties{0, 4, 6, 2}},
		{Penalties{-1, 4, 6, 2}, ShiftedPenalties, Penalties{0, 5, 7, 3}},
		// 5, 7, 3 are all odd
		{Penalties{-1, 4, 6, 2}, OddPairPenalties, Penalties{0, 5, 7, 3}},
		// 6, 7, 4: majority even
		{Penalties{-2, 4, 5, 2}, OddPairPenalties, Penalties{0, 6, 8, 4}},
		// 5, 7, 4: majority odd
		{Penalties{-1, 4, 6, 3}, OddPairPenalties, Penalties{0, 5, 7, 5}},
	}
	for _, c := range cases {
		w, err := NormalizePenalties(c.p, c.strategy)
		require.NoError(t, err)
		assert.Equal(t, c.expected, w, "%s %s", c.p, c.strategy)
	}

	_, err := NormalizePenalties(Penalties{1, 4, 6, 2}, ShiftedPenalties)
	assert.True(t, errors.Is(err, ErrInvalidPenalties))

	_, err = NormalizePenalties(Penalties{-1, 4, 6, 2}, PenaltiesStrategy(9))
	assert.True(t, errors.Is(err, ErrInvalidPenalties))
}

func TestParsePenaltiesStrategy(t *testing.T) {
	for _, s := range []PenaltiesStrategy{MatchZero, ForceZeroMatch, ShiftedPenalties, OddPairPenalties} {
		got, err := ParsePenaltiesStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := ParsePenaltiesStrategy(" Odd-Pair ")
	require.NoError(t, err)
	assert.Equal(t, OddPairPenalties, got)

	_, err = ParsePenaltiesStrategy("nope")
	assert.Error(t, err)
	assert.Equal(t, "PenaltiesStrategy(9)", PenaltiesStrategy(9).String())
}
