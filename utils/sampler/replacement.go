// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import "errors"

var ErrInsufficientLength = errors.New("insufficient sample range")

// Replacement samples values with replacement in the provided range. Because
// draws are independent, the same value may appear multiple times in one
// sample; callers that weight results by multiplicity rely on this.
type Replacement interface {
	// Initialize prepares the sampler to draw values in [0, length). Draws
	// are taken from [source]; passing nil selects the package's global
	// generator.
	Initialize(source Source, length uint64)

	Sample(count int) ([]uint64, error)
}

// NewReplacement returns a new sampler
func NewReplacement() Replacement {
	return &uniformReplacement{}
}

type uniformReplacement struct {
	rng    *rng
	length uint64
}

func (s *uniformReplacement) Initialize(source Source, length uint64) {
	if source == nil {
		s.rng = globalRNG
	} else {
		s.rng = &rng{rng: source}
	}
	s.length = length
}

func (s *uniformReplacement) Sample(count int) ([]uint64, error) {
	if s.length == 0 {
		return nil, ErrInsufficientLength
	}

	results := make([]uint64, count)
	for i := 0; i < count; i++ {
		results[i] = s.rng.Uint64Inclusive(s.length - 1)
	}
	return results, nil
}
