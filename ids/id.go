// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/tanglekit/fpcvote/utils/formatting"
	"github.com/tanglekit/fpcvote/utils/hashing"
)

const IDLen = 32

var (
	// Empty is a useful all zero value
	Empty = ID{}

	errWrongIDLen    = errors.New("insufficient ID length")
	errMissingQuotes = errors.New("first and last characters should be quotes")

	nullStr = "null"
)

// ID wraps a 32 byte hash used as an identifier
type ID [IDLen]byte

// ToID attempts to convert a byte slice into an id
func ToID(bytes []byte) (ID, error) {
	hash, err := hashing.ToHash256(bytes)
	return ID(hash), err
}

// FromString is the inverse of ID.String()
func FromString(idStr string) (ID, error) {
	b, err := formatting.DecodeCB58(idStr)
	if err != nil {
		return ID{}, err
	}
	return ToID(b)
}

func (id ID) MarshalJSON() ([]byte, error) {
	str, err := formatting.EncodeCB58(id[:])
	if err != nil {
		return nil, err
	}
	return []byte("\"" + str + "\""), nil
}

func (id *ID) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == nullStr { // If "null", do nothing
		return nil
	}
	if len(str) < 2 {
		return errWrongIDLen
	}

	lastIndex := len(str) - 1
	if str[0] != '"' || str[lastIndex] != '"' {
		return errMissingQuotes
	}

	var err error
	*id, err = FromString(str[1:lastIndex])
	return err
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	var err error
	*id, err = FromString(string(text))
	return err
}

// Prefix this id to create a more selective id. This can be used to store
// multiple values under the same key. For example:
// prefix1(id) -> confidence
// prefix2(id) -> vertex
// This will return a new id and not modify the original id.
func (id ID) Prefix(prefixes ...uint64) ID {
	packedBytes := make([]byte, len(prefixes)*8+IDLen)
	for i, prefix := range prefixes {
		binary.BigEndian.PutUint64(packedBytes[i*8:], prefix)
	}
	copy(packedBytes[len(prefixes)*8:], id[:])

	return ID(hashing.ComputeHash256Array(packedBytes))
}

// Bytes returns the 32 byte hash as a slice. It is assumed this slice is not
// modified.
func (id ID) Bytes() []byte {
	return id[:]
}

// Hex returns a hex encoded string of this id.
func (id ID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id ID) String() string {
	// We assume that the maximum size of a byte slice that
	// can be encoded is enough
	str, _ := formatting.EncodeCB58(id[:])
	return str
}

func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

// GenerateTestID returns a new ID that should only be used for testing
func GenerateTestID() ID {
	var id ID
	if _, err := rand.Read(id[:]); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %w", err))
	}
	return id
}
