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
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Penalties contains the gap-affine penalties.
// Match should be <= 0, the others should be > 0.
type Penalties struct {
	Match    int
	Mismatch int
	GapOpen  int
	GapExt   int
}

// DefaultPenalties is from the paper.
var DefaultPenalties = Penalties{
	Match:    0,
	Mismatch: 4,
	GapOpen:  6,
	GapExt:   2,
}

func (p Penalties) String() string {
	return fmt.Sprintf("M=%d,X=%d,O=%d,E=%d", p.Match, p.Mismatch, p.GapOpen, p.GapExt)
}

// ErrInvalidPenalties means the penalties can not be used for alignment.
var ErrInvalidPenalties = errors.New("wfa: invalid penalties")

// Validate checks the signs of the penalties.
func (p Penalties) Validate() error {
	if p.Match > 0 {
		return errors.Wrapf(ErrInvalidPenalties,
			"match score must be negative or zero (M=%d)", p.Match)
	}
	if p.Mismatch <= 0 || p.GapOpen <= 0 || p.GapExt <= 0 {
		return errors.Wrapf(ErrInvalidPenalties,
			"mismatch/gap scores must be strictly positive (X=%d,O=%d,E=%d)",
			p.Mismatch, p.GapOpen, p.GapExt)
	}
	return nil
}

// PenaltiesStrategy decides how the input penalties are turned into
// the penalties used by the wavefronts, where the match score is always 0.
type PenaltiesStrategy int

const (
	// MatchZero ignores the match score.
	MatchZero PenaltiesStrategy = iota
	// ForceZeroMatch sets the match score to 0, same as MatchZero.
	ForceZeroMatch
	// ShiftedPenalties subtracts the match score from the other penalties.
	ShiftedPenalties
	// OddPairPenalties shifts the penalties and then makes them all odd or all even,
	// following the majority.
	OddPairPenalties
)

var penaltiesStrategyNames = []string{"match-zero", "force-zero-match", "shifted", "odd-pair"}

func (ps PenaltiesStrategy) String() string {
	if ps < 0 || int(ps) >= len(penaltiesStrategyNames) {
		return fmt.Sprintf("PenaltiesStrategy(%d)", int(ps))
	}
	return penaltiesStrategyNames[ps]
}

// ParsePenaltiesStrategy parses the name of a strategy.
func ParsePenaltiesStrategy(s string) (PenaltiesStrategy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range penaltiesStrategyNames {
		if s == name {
			return PenaltiesStrategy(i), nil
		}
	}
	return MatchZero, errors.Errorf("unknown penalties strategy: %s, available: %s",
		s, strings.Join(penaltiesStrategyNames, ", "))
}

// NormalizePenalties validates the base penalties and
// returns the penalties used in wavefront computation.
// Penalties with a zero match score always use MatchZero.
func NormalizePenalties(p Penalties, strategy PenaltiesStrategy) (Penalties, error) {
	if err := p.Validate(); err != nil {
		return p, err
	}

	if p.Match == 0 {
		strategy = MatchZero
	}

	w := p
	w.Match = 0

	switch strategy {
	case MatchZero, ForceZeroMatch:
	case ShiftedPenalties, OddPairPenalties:
		w.Mismatch -= p.Match
		w.GapOpen -= p.Match
		w.GapExt -= p.Match

		if strategy == OddPairPenalties {
			xEven := w.Mismatch%2 == 0
			oEven := w.GapOpen%2 == 0
			eEven := w.GapExt%2 == 0

			var even int
			for _, b := range []bool{xEven, oEven, eEven} {
				if b {
					even++
				}
			}

			if 3-even > even { // all to odd
				if xEven {
					w.Mismatch++
				}
				if oEven {
					w.GapOpen++
				}
				if eEven {
					w.GapExt++
				}
			} else { // all to even
				if !xEven {
					w.Mismatch++
				}
				if !oEven {
					w.GapOpen++
				}
				if !eEven {
					w.GapExt++
				}
			}
		}
	default:
		return p, errors.Wrapf(ErrInvalidPenalties, "unknown penalties strategy: %d", int(strategy))
	}

	return w, nil
}
