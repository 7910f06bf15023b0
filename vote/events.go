// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import "time"

// Event is emitted by a voter while voting proceeds. The concrete types are
// RoundExecuted, Finalized and Failed.
//
// Terminal events for round k are always published after the RoundExecuted
// event of round k, so consumers can use the round marker as a barrier.
type Event interface {
	event()
}

// RoundExecuted reports the outcome of one voting round.
type RoundExecuted struct {
	// Round is the sequence number of the executed round, starting at 1.
	Round uint64

	// Duration is the wall-clock time the round took.
	Duration time.Duration

	// ActiveContexts is the number of contexts that participated in the
	// round, including the ones that finalized or failed during it.
	ActiveContexts int

	// QueriedPeers is the number of distinct opinion givers the round
	// queried.
	QueriedPeers int

	// FailedQueries is the number of sampled givers that exhausted their
	// query attempts without a usable response.
	FailedQueries int

	// Finalized and Failed are the number of contexts the round settled.
	Finalized int
	Failed    int

	// QueriedOpinions traces the opinions every responding giver
	// contributed.
	QueriedOpinions []QueriedOpinions
}

// Finalized reports that a vote settled on an opinion. It is emitted exactly
// once per voting object.
type Finalized struct {
	Object  Object
	Opinion Opinion

	// Context is a snapshot of the finalized voting context.
	Context Context
}

// Failed reports that a vote exceeded the configured maximum number of
// rounds without finalizing.
type Failed struct {
	Object      Object
	LastOpinion Opinion

	// Context is a snapshot of the failed voting context.
	Context Context
}

func (RoundExecuted) event() {}

func (Finalized) event() {}

func (Failed) event() {}
