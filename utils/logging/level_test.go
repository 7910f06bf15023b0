// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, level := range []Level{Verbo, Debug, Trace, Info, Warn, Error, Fatal, Off} {
		parsed, err := ToLevel(level.String())
		require.NoError(err)
		require.Equal(level, parsed)
	}
}

func TestToLevelCaseInsensitive(t *testing.T) {
	require := require.New(t)

	level, err := ToLevel("info")
	require.NoError(err)
	require.Equal(Info, level)
}

func TestToLevelUnknown(t *testing.T) {
	require := require.New(t)

	_, err := ToLevel("loud")
	require.ErrorIs(err, ErrUnknownLevel)
}

func TestLevelJSON(t *testing.T) {
	require := require.New(t)

	b, err := json.Marshal(Debug)
	require.NoError(err)
	require.Equal(`"DEBUG"`, string(b))

	var level Level
	require.NoError(json.Unmarshal(b, &level))
	require.Equal(Debug, level)
}

func TestLevelOrdering(t *testing.T) {
	require := require.New(t)

	// A logger configured at some level emits everything at or above it;
	// the numbering must reflect that.
	require.Less(Verbo, Debug)
	require.Less(Debug, Trace)
	require.Less(Trace, Info)
	require.Less(Info, Warn)
	require.Less(Warn, Error)
	require.Less(Error, Fatal)
	require.Less(Fatal, Off)
}
