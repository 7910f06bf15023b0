// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChanSinkPublish(t *testing.T) {
	require := require.New(t)

	sink := NewChanSink(2)
	require.NoError(sink.Publish(RoundExecuted{Round: 1}))
	require.NoError(sink.Publish(RoundExecuted{Round: 2}))

	// The buffer is full now; the publisher must not block.
	require.ErrorIs(sink.Publish(RoundExecuted{Round: 3}), ErrSinkFull)

	event := <-sink.Events()
	require.Equal(uint64(1), event.(RoundExecuted).Round)

	// Space was freed.
	require.NoError(sink.Publish(RoundExecuted{Round: 4}))
}

func TestChanSinkClose(t *testing.T) {
	require := require.New(t)

	sink := NewChanSink(1)
	require.NoError(sink.Publish(RoundExecuted{Round: 1}))

	sink.Close()
	require.ErrorIs(sink.Publish(RoundExecuted{Round: 2}), ErrSinkClosed)

	// Closing twice must not panic.
	sink.Close()

	// The buffered event is still delivered before the channel reports
	// closure.
	event, ok := <-sink.Events()
	require.True(ok)
	require.Equal(uint64(1), event.(RoundExecuted).Round)

	_, ok = <-sink.Events()
	require.False(ok)
}

func TestSinkFunc(t *testing.T) {
	require := require.New(t)

	var published []Event
	sink := SinkFunc(func(event Event) error {
		published = append(published, event)
		return nil
	})

	require.NoError(sink.Publish(Finalized{Opinion: Like}))
	require.Len(published, 1)
}
