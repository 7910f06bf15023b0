// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package votetest provides opinion giver test doubles.
package votetest

import (
	"context"
	"sync"

	"github.com/tanglekit/fpcvote/ids"
	"github.com/tanglekit/fpcvote/vote"
)

var _ vote.OpinionGiver = (*Giver)(nil)

// Giver is a scripted opinion giver. Unless QueryF or Err override it, the
// giver answers every object of its n-th query of an object type with
// Script[n], repeating the last scripted opinion once the script runs out.
// The script only advances when the giver is queried, so a giver that is not
// sampled in a round answers from where it left off in a later round.
type Giver struct {
	NodeID ids.NodeID

	// Err, when set, fails every query.
	Err error

	// QueryF, when set, replaces the scripted behaviour entirely.
	QueryF func(ctx context.Context, objectIDs []ids.ID, objectType vote.ObjectType) (vote.Opinions, error)

	// Script holds the opinion to return per query of an object type.
	Script []vote.Opinion

	lock sync.Mutex
	// rounds counts the queries answered so far, per object type, so that
	// the conflict and timestamp batches of one round advance the script
	// independently.
	rounds map[vote.ObjectType]int
}

// NewGiver returns a giver answering with [script] under a random node ID.
func NewGiver(script ...vote.Opinion) *Giver {
	return &Giver{
		NodeID: ids.GenerateTestNodeID(),
		Script: script,
	}
}

func (g *Giver) Query(ctx context.Context, objectIDs []ids.ID, objectType vote.ObjectType) (vote.Opinions, error) {
	if g.QueryF != nil {
		return g.QueryF(ctx, objectIDs, objectType)
	}
	if g.Err != nil {
		return nil, g.Err
	}

	g.lock.Lock()
	if g.rounds == nil {
		g.rounds = make(map[vote.ObjectType]int)
	}
	round := g.rounds[objectType]
	g.rounds[objectType]++
	g.lock.Unlock()

	opinion := vote.Unknown
	if len(g.Script) > 0 {
		if round >= len(g.Script) {
			round = len(g.Script) - 1
		}
		opinion = g.Script[round]
	}

	opinions := make(vote.Opinions, len(objectIDs))
	for i := range opinions {
		opinions[i] = opinion
	}
	return opinions, nil
}

func (g *Giver) ID() ids.NodeID {
	return g.NodeID
}

// GiverFunc returns an opinion giver function handing out [givers] every
// round.
func GiverFunc(givers ...*Giver) vote.OpinionGiverFunc {
	asGivers := make([]vote.OpinionGiver, len(givers))
	for i, giver := range givers {
		asGivers[i] = giver
	}
	return func() ([]vote.OpinionGiver, error) {
		return asGivers, nil
	}
}

// NewGivers returns [count] givers that all answer with [script].
func NewGivers(count int, script ...vote.Opinion) []*Giver {
	givers := make([]*Giver, count)
	for i := range givers {
		givers[i] = NewGiver(script...)
	}
	return givers
}
