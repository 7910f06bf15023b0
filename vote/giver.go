// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"context"

	"github.com/tanglekit/fpcvote/ids"
)

// OpinionGiver answers opinion queries for a remote peer. Implementations
// wrap whatever transport reaches the peer; the voter only relies on this
// contract.
type OpinionGiver interface {
	// Query returns the peer's opinions on [objectIDs], all of which are of
	// type [objectType]. The response must parallel the request: the opinion
	// at index i belongs to objectIDs[i], and a position the peer can't
	// answer must hold Unknown rather than be omitted. A response of the
	// wrong length is discarded by the caller.
	Query(ctx context.Context, objectIDs []ids.ID, objectType ObjectType) (Opinions, error)

	// ID returns a stable identifier for the peer behind this giver.
	ID() ids.NodeID
}

// OpinionGiverFunc returns the opinion givers that may be sampled for the
// next round. It is invoked freshly every round so that peer churn is
// observed.
type OpinionGiverFunc func() ([]OpinionGiver, error)

// QueryIDs is the snapshot of object IDs to query in a round, partitioned by
// object type.
type QueryIDs struct {
	ConflictIDs  []ids.ID
	TimestampIDs []ids.ID
}

// Empty reports whether there is nothing to query.
func (q QueryIDs) Empty() bool {
	return len(q.ConflictIDs) == 0 && len(q.TimestampIDs) == 0
}

// QueriedOpinions records the opinions one giver returned during a round.
type QueriedOpinions struct {
	OpinionGiverID ids.NodeID `json:"opinionGiverID"`

	// Opinions per queried object.
	Opinions map[Object]Opinion `json:"opinions"`

	// TimesCounted is the weight this giver's opinions carried in the round's
	// tally. Committee selection samples with replacement, so a giver drawn
	// multiple times counts multiple times.
	TimesCounted uint32 `json:"timesCounted"`
}
