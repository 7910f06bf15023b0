// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package fpc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanglekit/fpcvote/ids"
	"github.com/tanglekit/fpcvote/vote"
)

func TestRegistryEnqueue(t *testing.T) {
	require := require.New(t)

	reg := newRegistry()
	object := vote.Object{ID: ids.GenerateTestID(), Type: vote.Conflict}

	require.NoError(reg.Enqueue(object, vote.Like))
	require.ErrorIs(reg.Enqueue(object, vote.Like), vote.ErrVoteOngoing)
	require.Equal(1, reg.PendingLen())
	require.Zero(reg.ActiveLen())

	// Pending contexts are visible to lookups.
	opinion, ok := reg.IntermediateOpinion(object)
	require.True(ok)
	require.Equal(vote.Like, opinion)

	require.Equal(1, reg.Admit())
	require.Zero(reg.PendingLen())
	require.Equal(1, reg.ActiveLen())

	// Still a duplicate after admission.
	require.ErrorIs(reg.Enqueue(object, vote.Dislike), vote.ErrVoteOngoing)
}

func TestRegistrySnapshotPartitionsByType(t *testing.T) {
	require := require.New(t)

	reg := newRegistry()
	conflict := vote.Object{ID: ids.GenerateTestID(), Type: vote.Conflict}
	timestamp := vote.Object{ID: ids.GenerateTestID(), Type: vote.Timestamp}

	require.NoError(reg.Enqueue(conflict, vote.Like))
	require.NoError(reg.Enqueue(timestamp, vote.Dislike))

	// Nothing is active before admission.
	require.True(reg.Snapshot().Empty())

	reg.Admit()
	snapshot := reg.Snapshot()
	require.Equal([]ids.ID{conflict.ID}, snapshot.ConflictIDs)
	require.Equal([]ids.ID{timestamp.ID}, snapshot.TimestampIDs)
}

func TestRegistryApplyRound(t *testing.T) {
	require := require.New(t)

	reg := newRegistry()
	object := vote.Object{ID: ids.GenerateTestID(), Type: vote.Conflict}
	require.NoError(reg.Enqueue(object, vote.Like))
	reg.Admit()

	reg.ApplyRound(func(*vote.Context) vote.Opinion {
		return vote.Dislike
	})

	status, ok := reg.Status(object)
	require.True(ok)
	require.Equal(vote.Opinions{vote.Like, vote.Dislike}, status.Opinions())
	require.Equal(uint32(1), status.Rounds())
}

func TestRegistryReapFinalized(t *testing.T) {
	require := require.New(t)

	reg := newRegistry()
	object := vote.Object{ID: ids.GenerateTestID(), Type: vote.Conflict}
	require.NoError(reg.Enqueue(object, vote.Like))
	reg.Admit()

	require.Empty(reg.Reap(0, 2, 0))

	reg.ApplyRound(func(*vote.Context) vote.Opinion {
		return vote.Like
	})

	events := reg.Reap(0, 2, 0)
	require.Len(events, 1)
	finalized := events[0].(vote.Finalized)
	require.Equal(object, finalized.Object)
	require.Equal(vote.Like, finalized.Opinion)

	// The context is gone and is reaped exactly once.
	require.Zero(reg.ActiveLen())
	require.Empty(reg.Reap(0, 2, 0))

	// The object may be voted on again now.
	require.NoError(reg.Enqueue(object, vote.Dislike))
}

func TestRegistryReapFailed(t *testing.T) {
	require := require.New(t)

	reg := newRegistry()
	object := vote.Object{ID: ids.GenerateTestID(), Type: vote.Timestamp}
	require.NoError(reg.Enqueue(object, vote.Like))
	reg.Admit()

	opinion := vote.Like
	for i := 0; i < 3; i++ {
		// Alternating opinions never finalize.
		if opinion == vote.Like {
			opinion = vote.Dislike
		} else {
			opinion = vote.Like
		}
		applied := opinion
		reg.ApplyRound(func(*vote.Context) vote.Opinion {
			return applied
		})
	}

	events := reg.Reap(0, 10, 3)
	require.Len(events, 1)
	failed := events[0].(vote.Failed)
	require.Equal(object, failed.Object)
	require.Equal(3, failed.Context.VotedRounds())
	require.Zero(reg.ActiveLen())
}

func TestRegistryStatusMissing(t *testing.T) {
	require := require.New(t)

	reg := newRegistry()
	object := vote.Object{ID: ids.GenerateTestID(), Type: vote.Conflict}

	_, ok := reg.Status(object)
	require.False(ok)

	_, ok = reg.IntermediateOpinion(object)
	require.False(ok)
}
