// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"errors"

	"github.com/tanglekit/fpcvote/ids"
)

var (
	// ErrVoteOngoing is returned when a vote is requested for an object that
	// is already being voted on.
	ErrVoteOngoing = errors.New("vote already ongoing")

	// ErrInvalidOpinion is returned when a vote is requested with an initial
	// opinion that can't seed a vote.
	ErrInvalidOpinion = errors.New("invalid initial opinion")

	// ErrNoOpinionGivers is returned by a round that found no opinion givers
	// to sample from.
	ErrNoOpinionGivers = errors.New("no opinion givers available")

	errUnknownOpinion = errors.New("unknown opinion")
)

// Rand supplies the uniform randomness a voting round consumes, both for
// threshold draws and committee sampling. *math/rand.Rand implements it.
type Rand interface {
	// Float64 returns a number in [0, 1).
	Float64() float64

	// Uint64 returns a number in [0, MaxUint64].
	Uint64() uint64
}

// Voter is the surface a consensus component drives votes through.
type Voter interface {
	// Vote submits the object for voting, seeded with the node's own initial
	// opinion. The object participates starting with the next round.
	Vote(id ids.ID, objectType ObjectType, initial Opinion) error

	// IntermediateOpinion returns the current opinion of an ongoing vote.
	IntermediateOpinion(id ids.ID, objectType ObjectType) (Opinion, bool)

	// Round executes one voting round over all active votes, drawing all
	// randomness from [rand].
	Round(rand Rand) error
}
