// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"fmt"

	"github.com/tanglekit/fpcvote/ids"
)

// ObjectType tags a voting object so that a queried peer knows which of its
// internal opinion sets to consult.
type ObjectType byte

const (
	// Conflict is a disputed transaction.
	Conflict ObjectType = iota
	// Timestamp is the logical time of a message.
	Timestamp
)

func (t ObjectType) String() string {
	switch t {
	case Conflict:
		return "conflict"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("invalid object type (%d)", t)
	}
}

// Object identifies a voting object. Votes are keyed by the full Object, so
// a conflict and a timestamp with byte-identical IDs vote independently.
type Object struct {
	ID   ids.ID
	Type ObjectType
}

func (o Object) String() string {
	return fmt.Sprintf("%s %s", o.Type, o.ID)
}
