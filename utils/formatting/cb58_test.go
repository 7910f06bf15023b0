// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package formatting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeCB58RoundTrip(t *testing.T) {
	require := require.New(t)

	payload := []byte{0x00, 0x01, 0x02, 0xff}
	str, err := EncodeCB58(payload)
	require.NoError(err)

	decoded, err := DecodeCB58(str)
	require.NoError(err)
	require.Equal(payload, decoded)
}

func TestDecodeCB58EmptyString(t *testing.T) {
	require := require.New(t)

	decoded, err := DecodeCB58("")
	require.NoError(err)
	require.Empty(decoded)
}

func TestDecodeCB58BadChecksum(t *testing.T) {
	require := require.New(t)

	str, err := EncodeCB58([]byte{0x01, 0x02, 0x03})
	require.NoError(err)

	// Flipping a character breaks the checksum.
	mutated := []byte(str)
	if mutated[0] == '2' {
		mutated[0] = '3'
	} else {
		mutated[0] = '2'
	}
	_, err = DecodeCB58(string(mutated))
	require.Error(err)
}

func TestDecodeCB58MissingChecksum(t *testing.T) {
	require := require.New(t)

	_, err := DecodeCB58("2")
	require.ErrorIs(err, errMissingChecksum)
}
