// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package ids

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/tanglekit/fpcvote/utils/formatting"
)

const (
	NodeIDPrefix = "NodeID-"
	NodeIDLen    = 20
)

var (
	EmptyNodeID = NodeID{}

	errWrongNodeIDLen = errors.New("insufficient NodeID length")
)

// NodeID wraps a 20 byte hash used to identify a peer
type NodeID [NodeIDLen]byte

// ToNodeID attempts to convert a byte slice into a node id
func ToNodeID(bytes []byte) (NodeID, error) {
	nodeID := NodeID{}
	if len(bytes) != NodeIDLen {
		return nodeID, fmt.Errorf("%w: expected %d bytes but got %d",
			errWrongNodeIDLen, NodeIDLen, len(bytes))
	}
	copy(nodeID[:], bytes)
	return nodeID, nil
}

// Any modification to Bytes will be lost since id is passed-by-value
// Directly access NodeID[:] if you need to modify the NodeID
func (id NodeID) Bytes() []byte {
	return id[:]
}

func (id NodeID) String() string {
	// We assume that the maximum size of a byte slice that
	// can be encoded is enough
	str, _ := formatting.EncodeCB58(id[:])
	return NodeIDPrefix + str
}

// NodeIDFromString is the inverse of NodeID.String()
func NodeIDFromString(nodeIDStr string) (NodeID, error) {
	if !strings.HasPrefix(nodeIDStr, NodeIDPrefix) {
		return NodeID{}, fmt.Errorf("ID: %s is missing the prefix: %s", nodeIDStr, NodeIDPrefix)
	}
	b, err := formatting.DecodeCB58(strings.TrimPrefix(nodeIDStr, NodeIDPrefix))
	if err != nil {
		return NodeID{}, err
	}
	return ToNodeID(b)
}

func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte("\"" + id.String() + "\""), nil
}

func (id *NodeID) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == nullStr { // If "null", do nothing
		return nil
	}
	if len(str) <= 2+len(NodeIDPrefix) {
		return fmt.Errorf("%w: expected to be > %d", errWrongNodeIDLen, 2+len(NodeIDPrefix))
	}

	lastIndex := len(str) - 1
	if str[0] != '"' || str[lastIndex] != '"' {
		return errMissingQuotes
	}

	var err error
	*id, err = NodeIDFromString(str[1:lastIndex])
	return err
}

func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *NodeID) UnmarshalText(text []byte) error {
	return id.UnmarshalJSON(text)
}

func (id NodeID) Compare(other NodeID) int {
	return bytes.Compare(id[:], other[:])
}

// GenerateTestNodeID returns a new NodeID that should only be used for testing
func GenerateTestNodeID() NodeID {
	var id NodeID
	if _, err := rand.Read(id[:]); err != nil {
		panic(fmt.Errorf("failed to read random bytes: %w", err))
	}
	return id
}
