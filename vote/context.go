// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package vote

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// Context tracks the opinions formed about a single voting object across
// rounds.
type Context struct {
	object Object

	// Append-only list of opinions. The first entry is the initial opinion
	// the context was created with; entry i is the opinion at the end of
	// round i.
	opinions Opinions

	// rounds counts the consecutive rounds for which the current opinion has
	// been held, the initial opinion included. It is reset to 1 whenever a
	// round produces a different opinion than the previous one.
	rounds uint32
}

// NewContext returns a context holding [initial] as its current opinion.
func NewContext(object Object, initial Opinion) *Context {
	return &Context{
		object:   object,
		opinions: Opinions{initial},
		rounds:   1,
	}
}

func (c *Context) Object() Object {
	return c.object
}

// Opinions returns the opinions formed so far. The returned slice must not be
// modified.
func (c *Context) Opinions() Opinions {
	return c.opinions
}

// LastOpinion returns the current opinion.
func (c *Context) LastOpinion() Opinion {
	return c.opinions[len(c.opinions)-1]
}

// Rounds returns the length of the trailing run of equal opinions.
func (c *Context) Rounds() uint32 {
	return c.rounds
}

// VotedRounds returns the number of voting rounds this context has
// participated in. The initial opinion doesn't count as a round.
func (c *Context) VotedRounds() int {
	return len(c.opinions) - 1
}

// IsNew reports whether the context has not yet participated in a round.
func (c *Context) IsNew() bool {
	return len(c.opinions) == 1
}

// AddOpinion records the opinion formed by a round and updates the
// consecutive round counter.
func (c *Context) AddOpinion(opinion Opinion) {
	if opinion == c.LastOpinion() {
		c.rounds++
	} else {
		c.rounds = 1
	}
	c.opinions = append(c.opinions, opinion)
}

// Finalized reports whether the current opinion has been held long enough to
// be declared final. An Unknown opinion never finalizes.
func (c *Context) Finalized(coolingOffPeriod, finalizationThreshold uint32) bool {
	return c.rounds >= coolingOffPeriod+finalizationThreshold &&
		c.LastOpinion() != Unknown
}

// Clone returns a deep copy of this context.
func (c *Context) Clone() *Context {
	return &Context{
		object:   c.object,
		opinions: slices.Clone(c.opinions),
		rounds:   c.rounds,
	}
}

func (c *Context) String() string {
	return fmt.Sprintf("Context(%s, Opinion = %s, Rounds = %d)",
		c.object, c.LastOpinion(), c.rounds)
}
