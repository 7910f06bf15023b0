// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package fpc

import (
	"fmt"
	"sync"

	"github.com/tanglekit/fpcvote/vote"
)

// registry owns the voting contexts. Contexts submitted through Enqueue wait
// in a pending queue until the next round admits them, so that a vote
// submitted while a round is in flight never joins that round.
//
// Every critical section only copies or updates in-memory data; the lock is
// never held across a query.
type registry struct {
	lock sync.RWMutex

	// pending holds the contexts waiting to join the next round, in
	// submission order.
	pending    []*vote.Context
	pendingSet map[vote.Object]struct{}

	// active holds the contexts participating in rounds.
	active map[vote.Object]*vote.Context
}

func newRegistry() *registry {
	return &registry{
		pendingSet: make(map[vote.Object]struct{}),
		active:     make(map[vote.Object]*vote.Context),
	}
}

// Enqueue adds a new voting context to the pending queue.
func (r *registry) Enqueue(object vote.Object, initial vote.Opinion) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.pendingSet[object]; ok {
		return fmt.Errorf("%w: %s", vote.ErrVoteOngoing, object)
	}
	if _, ok := r.active[object]; ok {
		return fmt.Errorf("%w: %s", vote.ErrVoteOngoing, object)
	}

	r.pending = append(r.pending, vote.NewContext(object, initial))
	r.pendingSet[object] = struct{}{}
	return nil
}

// Admit moves all pending contexts into the active set and returns how many
// were admitted.
func (r *registry) Admit() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	admitted := len(r.pending)
	for _, ctx := range r.pending {
		r.active[ctx.Object()] = ctx
		delete(r.pendingSet, ctx.Object())
	}
	r.pending = nil
	return admitted
}

// Snapshot returns the IDs of all active contexts, partitioned by object
// type.
func (r *registry) Snapshot() vote.QueryIDs {
	r.lock.RLock()
	defer r.lock.RUnlock()

	queryIDs := vote.QueryIDs{}
	for object := range r.active {
		switch object.Type {
		case vote.Conflict:
			queryIDs.ConflictIDs = append(queryIDs.ConflictIDs, object.ID)
		case vote.Timestamp:
			queryIDs.TimestampIDs = append(queryIDs.TimestampIDs, object.ID)
		}
	}
	return queryIDs
}

// ApplyRound appends the opinion [form] produces to every active context.
// The callback runs under the registry lock and must not block.
func (r *registry) ApplyRound(form func(*vote.Context) vote.Opinion) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, ctx := range r.active {
		ctx.AddOpinion(form(ctx))
	}
}

// Reap removes every context that finalized or exceeded [maxRounds] and
// returns the events to emit for them, exactly one per removed context.
func (r *registry) Reap(coolingOffPeriod, finalizationThreshold, maxRounds int) []vote.Event {
	r.lock.Lock()
	defer r.lock.Unlock()

	var events []vote.Event
	for object, ctx := range r.active {
		if ctx.Finalized(uint32(coolingOffPeriod), uint32(finalizationThreshold)) {
			events = append(events, vote.Finalized{
				Object:  object,
				Opinion: ctx.LastOpinion(),
				Context: *ctx.Clone(),
			})
			delete(r.active, object)
			continue
		}
		if maxRounds > 0 && ctx.VotedRounds() >= maxRounds {
			events = append(events, vote.Failed{
				Object:      object,
				LastOpinion: ctx.LastOpinion(),
				Context:     *ctx.Clone(),
			})
			delete(r.active, object)
		}
	}
	return events
}

// Status returns a copy of the context voting on [object].
func (r *registry) Status(object vote.Object) (vote.Context, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if ctx, ok := r.active[object]; ok {
		return *ctx.Clone(), true
	}
	for _, ctx := range r.pending {
		if ctx.Object() == object {
			return *ctx.Clone(), true
		}
	}
	return vote.Context{}, false
}

// IntermediateOpinion returns the current opinion of the context voting on
// [object].
func (r *registry) IntermediateOpinion(object vote.Object) (vote.Opinion, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if ctx, ok := r.active[object]; ok {
		return ctx.LastOpinion(), true
	}
	for _, ctx := range r.pending {
		if ctx.Object() == object {
			return ctx.LastOpinion(), true
		}
	}
	return vote.Unknown, false
}

// ActiveLen returns the number of contexts participating in rounds.
func (r *registry) ActiveLen() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.active)
}

// PendingLen returns the number of contexts waiting to be admitted.
func (r *registry) PendingLen() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.pending)
}
