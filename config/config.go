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

// Package config reads the TOML configuration of wfilter.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"
	"github.com/shenwei356/wfilter/wfa"
)

// DefaultFile is read when no config file is given, and it could be absent.
const DefaultFile = "~/.wfilter.toml"

// Penalties are the alignment penalties.
// Matches is a score, zero or negative. The others are positive costs.
type Penalties struct {
	Mismatch  int    `toml:"mismatch"`
	Matches   int    `toml:"matches"`
	GapOpen   int    `toml:"gap_open"`
	GapExtend int    `toml:"gap_extend"`
	Strategy  string `toml:"strategy"`
}

// Reduction controls the adaptive reduction of wavefronts.
type Reduction struct {
	Adaptive             bool `toml:"adaptive"`
	MinWavefrontLength   int  `toml:"min_wavefront_length"`
	MaxDistanceThreshold int  `toml:"max_distance_threshold"`
}

// Runtime contains the options not affecting alignments.
type Runtime struct {
	Threads  int `toml:"threads"`   // 0 for all CPUs
	MaxScore int `toml:"max_score"` // 0 for the automatic cap
}

// Config is the whole configuration.
type Config struct {
	Penalties Penalties `toml:"penalties"`
	Reduction Reduction `toml:"reduction"`
	Runtime   Runtime   `toml:"runtime"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Penalties: Penalties{
			Mismatch:  wfa.DefaultPenalties.Mismatch,
			Matches:   wfa.DefaultPenalties.Match,
			GapOpen:   wfa.DefaultPenalties.GapOpen,
			GapExtend: wfa.DefaultPenalties.GapExt,
			Strategy:  wfa.MatchZero.String(),
		},
		Reduction: Reduction{
			MinWavefrontLength:   wfa.DefaultAdaptiveOption.MinWFLen,
			MaxDistanceThreshold: wfa.DefaultAdaptiveOption.MaxDistDiff,
		},
	}
}

// Load reads a config file on top of the default values.
// An empty file name means DefaultFile, which is allowed to be missing.
func Load(file string) (*Config, error) {
	cfg := Default()

	optional := file == ""
	if optional {
		file = DefaultFile
	}

	file, err := homedir.Expand(file)
	if err != nil {
		return nil, errors.Wrapf(err, "expand path: %s", file)
	}

	existed, err := pathutil.Exists(file)
	if err != nil {
		return nil, errors.Wrapf(err, "check config file: %s", file)
	}
	if !existed {
		if optional {
			return cfg, nil
		}
		return nil, errors.Errorf("config file not found: %s", file)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file: %s", file)
	}
	if err = cfg.decode(data); err != nil {
		return nil, errors.Wrapf(err, "parse config file: %s", file)
	}
	return cfg, nil
}

// Parse parses TOML data on top of the default values.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) decode(data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks all the values.
func (cfg *Config) Validate() error {
	strategy, err := cfg.Strategy()
	if err != nil {
		return err
	}
	if _, err = wfa.NormalizePenalties(cfg.WFAPenalties(), strategy); err != nil {
		return err
	}
	if cfg.Reduction.MinWavefrontLength < 1 {
		return errors.Errorf("min_wavefront_length should be positive: %d", cfg.Reduction.MinWavefrontLength)
	}
	if cfg.Reduction.MaxDistanceThreshold < 0 {
		return errors.Errorf("max_distance_threshold should not be negative: %d", cfg.Reduction.MaxDistanceThreshold)
	}
	if cfg.Runtime.Threads < 0 {
		return errors.Errorf("threads should not be negative: %d", cfg.Runtime.Threads)
	}
	if cfg.Runtime.MaxScore < 0 {
		return errors.Errorf("max_score should not be negative: %d", cfg.Runtime.MaxScore)
	}
	return nil
}

// WFAPenalties returns the penalties for the aligner.
func (cfg *Config) WFAPenalties() wfa.Penalties {
	return wfa.Penalties{
		Match:    cfg.Penalties.Matches,
		Mismatch: cfg.Penalties.Mismatch,
		GapOpen:  cfg.Penalties.GapOpen,
		GapExt:   cfg.Penalties.GapExtend,
	}
}

// Strategy returns the penalties strategy, the default one for an empty name.
func (cfg *Config) Strategy() (wfa.PenaltiesStrategy, error) {
	if cfg.Penalties.Strategy == "" {
		return wfa.MatchZero, nil
	}
	return wfa.ParsePenaltiesStrategy(cfg.Penalties.Strategy)
}

// AdaptiveOption returns the reduction option, nil if it's disabled.
func (cfg *Config) AdaptiveOption() *wfa.AdaptiveReductionOption {
	if !cfg.Reduction.Adaptive {
		return nil
	}
	return &wfa.AdaptiveReductionOption{
		MinWFLen:    cfg.Reduction.MinWavefrontLength,
		MaxDistDiff: cfg.Reduction.MaxDistanceThreshold,
	}
}

// Write writes the configuration in TOML.
func (cfg *Config) Write(w io.Writer) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(false)
	return enc.Encode(cfg)
}
