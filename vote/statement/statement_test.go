// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package statement

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tanglekit/fpcvote/ids"
	"github.com/tanglekit/fpcvote/utils/wrappers"
	"github.com/tanglekit/fpcvote/vote"
)

func TestStatementRoundTrip(t *testing.T) {
	require := require.New(t)

	s := New(
		[]Conflict{
			{TransactionID: ids.GenerateTestID(), Opinion: vote.Like, Round: 1},
			{TransactionID: ids.GenerateTestID(), Opinion: vote.Dislike, Round: 3},
		},
		[]Timestamp{
			{MessageID: ids.GenerateTestID(), Opinion: vote.Like, Round: 2},
		},
	)

	bytes, err := s.Bytes()
	require.NoError(err)

	parsed, err := Parse(bytes)
	require.NoError(err)
	require.Equal(s, parsed)
}

func TestStatementEmptyRoundTrip(t *testing.T) {
	require := require.New(t)

	s := New(nil, nil)
	bytes, err := s.Bytes()
	require.NoError(err)

	parsed, err := Parse(bytes)
	require.NoError(err)
	require.Equal(Version, parsed.Version)
	require.Empty(parsed.Conflicts)
	require.Empty(parsed.Timestamps)
}

func TestStatementRejectsInvalidOpinion(t *testing.T) {
	require := require.New(t)

	s := New(
		[]Conflict{{TransactionID: ids.GenerateTestID(), Opinion: vote.Opinion(0x42)}},
		nil,
	)
	_, err := s.Bytes()
	require.Error(err)

	// The same opinion smuggled into the wire form is rejected on parse.
	valid := New(
		[]Conflict{{TransactionID: ids.GenerateTestID(), Opinion: vote.Like}},
		nil,
	)
	bytes, err := valid.Bytes()
	require.NoError(err)

	// The opinion byte sits right after the version, the conflict count and
	// the transaction ID.
	bytes[wrappers.ByteLen+wrappers.IntLen+ids.IDLen] = 0x42
	_, err = Parse(bytes)
	require.Error(err)
}

func TestStatementRejectsTrailingBytes(t *testing.T) {
	require := require.New(t)

	s := New(
		[]Conflict{{TransactionID: ids.GenerateTestID(), Opinion: vote.Like}},
		nil,
	)
	bytes, err := s.Bytes()
	require.NoError(err)

	_, err = Parse(append(bytes, 0x00))
	require.ErrorIs(err, errTrailingBytes)
}

func TestStatementRejectsTruncated(t *testing.T) {
	require := require.New(t)

	s := New(
		[]Conflict{{TransactionID: ids.GenerateTestID(), Opinion: vote.Like}},
		[]Timestamp{{MessageID: ids.GenerateTestID(), Opinion: vote.Dislike}},
	)
	bytes, err := s.Bytes()
	require.NoError(err)

	for i := 0; i < len(bytes); i++ {
		_, err := Parse(bytes[:i])
		require.Error(err)
	}
}

func TestStatementRejectsHugeEntryCount(t *testing.T) {
	require := require.New(t)

	p := wrappers.Packer{MaxSize: 64}
	p.PackByte(Version)
	p.PackInt(MaxEntries + 1)
	require.False(p.Errored())

	_, err := Parse(p.Bytes)
	require.ErrorIs(err, errTooManyEntries)
}

func TestStatementTooManyEntries(t *testing.T) {
	require := require.New(t)

	conflicts := make([]Conflict, MaxEntries+1)
	for i := range conflicts {
		conflicts[i] = Conflict{Opinion: vote.Like}
	}
	_, err := New(conflicts, nil).Bytes()
	require.ErrorIs(err, errTooManyEntries)
}
