// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import "fmt"

// Opinion is the stance a node takes on a voting object.
type Opinion byte

const (
	// Like means the node endorses the voting object.
	Like Opinion = 1 << iota
	// Dislike means the node rejects the voting object.
	Dislike
	// Unknown means the node has no opinion on the voting object. It only
	// ever appears in query responses; it is never a final opinion.
	Unknown
)

// Verify returns an error if this is not a known opinion.
func (o Opinion) Verify() error {
	switch o {
	case Like, Dislike, Unknown:
		return nil
	default:
		return fmt.Errorf("%w: %#02x", errUnknownOpinion, byte(o))
	}
}

func (o Opinion) String() string {
	switch o {
	case Like:
		return "like"
	case Dislike:
		return "dislike"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("invalid opinion (%#02x)", byte(o))
	}
}

// Opinions is an ordered collection of opinions. When held by a Context,
// element i is the opinion at the end of round i, with element 0 being the
// initial opinion.
type Opinions []Opinion
