// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReplacementEmptyRange(t *testing.T) {
	require := require.New(t)

	s := NewReplacement()
	s.Initialize(NewSource(0), 0)

	_, err := s.Sample(1)
	require.ErrorIs(err, ErrInsufficientLength)
}

func TestReplacementInRange(t *testing.T) {
	require := require.New(t)

	s := NewReplacement()
	s.Initialize(NewSource(1), 7)

	draws, err := s.Sample(1000)
	require.NoError(err)
	require.Len(draws, 1000)
	for _, draw := range draws {
		require.Less(draw, uint64(7))
	}
}

func TestReplacementDeterministicWithSeed(t *testing.T) {
	require := require.New(t)

	a := NewReplacement()
	a.Initialize(NewSource(42), 21)
	b := NewReplacement()
	b.Initialize(NewSource(42), 21)

	drawsA, err := a.Sample(100)
	require.NoError(err)
	drawsB, err := b.Sample(100)
	require.NoError(err)
	require.Equal(drawsA, drawsB)
}

func TestReplacementAllowsDuplicates(t *testing.T) {
	require := require.New(t)

	s := NewReplacement()
	s.Initialize(NewSource(3), 2)

	draws, err := s.Sample(100)
	require.NoError(err)

	seen := make(map[uint64]int)
	for _, draw := range draws {
		seen[draw]++
	}
	// 100 draws over a range of 2 must repeat values.
	require.Greater(seen[0], 1)
	require.Greater(seen[1], 1)
}

// With n values and s draws with replacement, the expected number of
// distinct values drawn is n*(1-(1-1/n)^s).
func TestReplacementDistinctValueExpectation(t *testing.T) {
	require := require.New(t)

	const (
		n      = 10
		sample = 21
		trials = 2000
	)

	s := NewReplacement()
	s.Initialize(NewSource(1337), n)

	totalDistinct := 0
	for i := 0; i < trials; i++ {
		draws, err := s.Sample(sample)
		require.NoError(err)

		distinct := make(map[uint64]struct{}, n)
		for _, draw := range draws {
			distinct[draw] = struct{}{}
		}
		totalDistinct += len(distinct)
	}

	expected := n * (1 - math.Pow(1-1./n, sample))
	mean := float64(totalDistinct) / trials
	require.InDelta(expected, mean, 0.15)
}
