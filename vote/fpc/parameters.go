// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package fpc

import (
	"errors"
	"fmt"
	"time"
)

var (
	// DefaultParameters holds the protocol parameters the reference FPC
	// deployment runs with.
	DefaultParameters = Parameters{
		FirstRoundLowerBound:       0.67,
		FirstRoundUpperBound:       0.67,
		SubsequentRoundsLowerBound: 0.5,
		SubsequentRoundsUpperBound: 0.67,
		QuerySampleSize:            21,
		FinalizationThreshold:      10,
		CoolingOffPeriod:           0,
		MaxRoundsPerVote:           0,
		MaxQueryAttempts:           3,
		QueryTimeout:               6500 * time.Millisecond,
		FixedEndingRounds:          0,
		FixedEndingThreshold:       0.5,
		MinOpinionsReceived:        1,
	}

	ErrParametersInvalid = errors.New("fpc parameters invalid")
)

// Parameters required for running an FPC voter
type Parameters struct {
	// FirstRoundLowerBound and FirstRoundUpperBound delimit the range the
	// opinion forming threshold is drawn from the first time an object is
	// voted on.
	FirstRoundLowerBound float64 `json:"firstRoundLowerBound"`
	FirstRoundUpperBound float64 `json:"firstRoundUpperBound"`

	// SubsequentRoundsLowerBound and SubsequentRoundsUpperBound delimit the
	// threshold range for every round after the first.
	SubsequentRoundsLowerBound float64 `json:"subsequentRoundsLowerBound"`
	SubsequentRoundsUpperBound float64 `json:"subsequentRoundsUpperBound"`

	// QuerySampleSize is the number of opinions to sample per object per
	// round. Peers are drawn with replacement, so fewer than QuerySampleSize
	// distinct peers may be queried.
	QuerySampleSize int `json:"querySampleSize"`

	// FinalizationThreshold is the number of consecutive rounds an opinion
	// must be held before it is final.
	FinalizationThreshold int `json:"finalizationThreshold"`

	// CoolingOffPeriod is the number of additional rounds to wait after the
	// finalization threshold is reached.
	CoolingOffPeriod int `json:"coolingOffPeriod"`

	// MaxRoundsPerVote aborts a vote with a Failed event after this many
	// rounds without finalization. 0 means votes run for as long as it
	// takes.
	MaxRoundsPerVote int `json:"maxRoundsPerVote"`

	// MaxQueryAttempts is the number of times a single peer is queried
	// within one round before its contribution is dropped.
	MaxQueryAttempts int `json:"maxQueryAttempts"`

	// QueryTimeout bounds a single query attempt.
	QueryTimeout time.Duration `json:"queryTimeout"`

	// FixedEndingRounds is the number of rounds directly preceding
	// finalization that use FixedEndingThreshold instead of a random draw.
	// 0 disables fixed ending rounds.
	FixedEndingRounds int `json:"fixedEndingRounds"`

	// FixedEndingThreshold is the threshold used during fixed ending rounds.
	FixedEndingThreshold float64 `json:"fixedEndingThreshold"`

	// MinOpinionsReceived is the number of opinions a round must collect for
	// an object for the tally to be applied. Below it the object keeps its
	// previous opinion.
	MinOpinionsReceived int `json:"minOpinionsReceived"`
}

// Verify returns nil if the parameters describe a valid voter configuration
func (p Parameters) Verify() error {
	switch {
	case p.FirstRoundLowerBound < 0 || p.FirstRoundUpperBound > 1:
		return fmt.Errorf("%w: first round bounds = [%f, %f]: fails the condition 0 <= lower <= upper <= 1",
			ErrParametersInvalid, p.FirstRoundLowerBound, p.FirstRoundUpperBound)
	case p.FirstRoundLowerBound > p.FirstRoundUpperBound:
		return fmt.Errorf("%w: first round bounds = [%f, %f]: fails the condition lower <= upper",
			ErrParametersInvalid, p.FirstRoundLowerBound, p.FirstRoundUpperBound)
	case p.SubsequentRoundsLowerBound < 0 || p.SubsequentRoundsUpperBound > 1:
		return fmt.Errorf("%w: subsequent round bounds = [%f, %f]: fails the condition 0 <= lower <= upper <= 1",
			ErrParametersInvalid, p.SubsequentRoundsLowerBound, p.SubsequentRoundsUpperBound)
	case p.SubsequentRoundsLowerBound > p.SubsequentRoundsUpperBound:
		return fmt.Errorf("%w: subsequent round bounds = [%f, %f]: fails the condition lower <= upper",
			ErrParametersInvalid, p.SubsequentRoundsLowerBound, p.SubsequentRoundsUpperBound)
	case p.QuerySampleSize <= 0:
		return fmt.Errorf("%w: query sample size = %d: fails the condition query sample size > 0",
			ErrParametersInvalid, p.QuerySampleSize)
	case p.FinalizationThreshold <= 0:
		return fmt.Errorf("%w: finalization threshold = %d: fails the condition finalization threshold > 0",
			ErrParametersInvalid, p.FinalizationThreshold)
	case p.CoolingOffPeriod < 0:
		return fmt.Errorf("%w: cooling off period = %d: fails the condition cooling off period >= 0",
			ErrParametersInvalid, p.CoolingOffPeriod)
	case p.MaxRoundsPerVote < 0:
		return fmt.Errorf("%w: max rounds per vote = %d: fails the condition max rounds per vote >= 0",
			ErrParametersInvalid, p.MaxRoundsPerVote)
	case p.MaxQueryAttempts <= 0:
		return fmt.Errorf("%w: max query attempts = %d: fails the condition max query attempts > 0",
			ErrParametersInvalid, p.MaxQueryAttempts)
	case p.QueryTimeout <= 0:
		return fmt.Errorf("%w: query timeout = %s: fails the condition query timeout > 0",
			ErrParametersInvalid, p.QueryTimeout)
	case p.FixedEndingRounds < 0 || p.FixedEndingRounds > p.FinalizationThreshold:
		return fmt.Errorf("%w: fixed ending rounds = %d: fails the condition 0 <= fixed ending rounds <= finalization threshold (%d)",
			ErrParametersInvalid, p.FixedEndingRounds, p.FinalizationThreshold)
	case p.FixedEndingThreshold < 0 || p.FixedEndingThreshold > 1:
		return fmt.Errorf("%w: fixed ending threshold = %f: fails the condition 0 <= fixed ending threshold <= 1",
			ErrParametersInvalid, p.FixedEndingThreshold)
	case p.MinOpinionsReceived <= 0:
		return fmt.Errorf("%w: min opinions received = %d: fails the condition min opinions received > 0",
			ErrParametersInvalid, p.MinOpinionsReceived)
	default:
		return nil
	}
}
