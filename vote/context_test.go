// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanglekit/fpcvote/ids"
)

// trailingRun returns the length of the maximal trailing run of equal
// opinions.
func trailingRun(opinions Opinions) uint32 {
	run := uint32(1)
	for i := len(opinions) - 2; i >= 0; i-- {
		if opinions[i] != opinions[len(opinions)-1] {
			break
		}
		run++
	}
	return run
}

func TestContextRoundsMatchTrailingRun(t *testing.T) {
	require := require.New(t)

	ctx := NewContext(Object{ID: ids.GenerateTestID(), Type: Conflict}, Like)
	require.Equal(uint32(1), ctx.Rounds())
	require.True(ctx.IsNew())
	require.Zero(ctx.VotedRounds())

	for _, opinion := range []Opinion{
		Like, Like, Dislike, Dislike, Dislike, Like, Dislike, Dislike,
	} {
		ctx.AddOpinion(opinion)
		require.Equal(opinion, ctx.LastOpinion())
		require.Equal(trailingRun(ctx.Opinions()), ctx.Rounds())
		require.False(ctx.IsNew())
	}

	require.Equal(8, ctx.VotedRounds())
	require.Len(ctx.Opinions(), 9)
}

func TestContextRoundsResetOnFlip(t *testing.T) {
	require := require.New(t)

	ctx := NewContext(Object{ID: ids.GenerateTestID(), Type: Timestamp}, Like)
	ctx.AddOpinion(Like)
	ctx.AddOpinion(Like)
	require.Equal(uint32(3), ctx.Rounds())

	ctx.AddOpinion(Dislike)
	require.Equal(uint32(1), ctx.Rounds())
}

func TestContextFinalized(t *testing.T) {
	require := require.New(t)

	ctx := NewContext(Object{ID: ids.GenerateTestID(), Type: Conflict}, Like)
	require.False(ctx.Finalized(0, 2))

	ctx.AddOpinion(Like)
	require.True(ctx.Finalized(0, 2))
	require.False(ctx.Finalized(1, 2))

	ctx.AddOpinion(Like)
	require.True(ctx.Finalized(1, 2))

	// A flip discards all progress towards finalization.
	ctx.AddOpinion(Dislike)
	require.False(ctx.Finalized(0, 2))
}

func TestContextClone(t *testing.T) {
	require := require.New(t)

	ctx := NewContext(Object{ID: ids.GenerateTestID(), Type: Conflict}, Like)
	ctx.AddOpinion(Dislike)

	clone := ctx.Clone()
	require.Equal(ctx.Object(), clone.Object())
	require.Equal(ctx.Opinions(), clone.Opinions())
	require.Equal(ctx.Rounds(), clone.Rounds())

	ctx.AddOpinion(Like)
	require.Len(clone.Opinions(), 2)
	require.Equal(Dislike, clone.LastOpinion())
}
