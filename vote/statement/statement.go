// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package statement implements the payload a node attaches to its messages
// to announce the opinions it formed during a voting round.
package statement

import (
	"errors"
	"fmt"

	"github.com/tanglekit/fpcvote/ids"
	"github.com/tanglekit/fpcvote/utils/wrappers"
	"github.com/tanglekit/fpcvote/vote"
)

const (
	// Version is the version of the statement payload format produced by
	// this package.
	Version byte = 0

	// MaxEntries bounds the number of conflicts and timestamps a single
	// statement may carry.
	MaxEntries = 4096

	entryLen = ids.IDLen + 2*wrappers.ByteLen

	maxStatementLen = wrappers.ByteLen + // version
		2*wrappers.IntLen + // entry counts
		2*MaxEntries*entryLen
)

var (
	errTooManyEntries = errors.New("too many statement entries")
	errTrailingBytes  = errors.New("trailing bytes after statement")
	errFailedPacking  = errors.New("failed packing statement")
)

// Conflict is a vote on a conflicting transaction in a given round.
type Conflict struct {
	// TransactionID is the ID of the conflicting transaction.
	TransactionID ids.ID `json:"transactionID"`

	// Opinion is the node's opinion in the given round.
	Opinion vote.Opinion `json:"opinion"`

	// Round is the voting round the opinion was formed in.
	Round uint8 `json:"round"`
}

// Timestamp is a vote on a message's timestamp in a given round.
type Timestamp struct {
	// MessageID is the ID of the message whose timestamp is voted on.
	MessageID ids.ID `json:"messageID"`

	// Opinion is the node's opinion in the given round.
	Opinion vote.Opinion `json:"opinion"`

	// Round is the voting round the opinion was formed in.
	Round uint8 `json:"round"`
}

// Statement carries the opinions a node formed on conflicts and timestamps,
// to be gossiped to its neighbors.
type Statement struct {
	Version    byte        `json:"version"`
	Conflicts  []Conflict  `json:"conflicts"`
	Timestamps []Timestamp `json:"timestamps"`
}

// New returns a statement over [conflicts] and [timestamps] in the current
// payload version.
func New(conflicts []Conflict, timestamps []Timestamp) *Statement {
	return &Statement{
		Version:    Version,
		Conflicts:  conflicts,
		Timestamps: timestamps,
	}
}

// Verify returns nil if the statement is well formed.
func (s *Statement) Verify() error {
	if len(s.Conflicts) > MaxEntries || len(s.Timestamps) > MaxEntries {
		return fmt.Errorf("%w: %d conflicts, %d timestamps, limit %d",
			errTooManyEntries, len(s.Conflicts), len(s.Timestamps), MaxEntries)
	}
	for _, conflict := range s.Conflicts {
		if err := conflict.Opinion.Verify(); err != nil {
			return fmt.Errorf("conflict %s: %w", conflict.TransactionID, err)
		}
	}
	for _, timestamp := range s.Timestamps {
		if err := timestamp.Opinion.Verify(); err != nil {
			return fmt.Errorf("timestamp %s: %w", timestamp.MessageID, err)
		}
	}
	return nil
}

// Bytes returns the binary representation of this statement.
func (s *Statement) Bytes() ([]byte, error) {
	if err := s.Verify(); err != nil {
		return nil, err
	}

	p := wrappers.Packer{
		MaxSize: maxStatementLen,
		Bytes:   make([]byte, 0, wrappers.ByteLen+2*wrappers.IntLen+(len(s.Conflicts)+len(s.Timestamps))*entryLen),
	}

	p.PackByte(s.Version)
	p.PackInt(uint32(len(s.Conflicts)))
	for _, conflict := range s.Conflicts {
		p.PackFixedBytes(conflict.TransactionID.Bytes())
		p.PackByte(byte(conflict.Opinion))
		p.PackByte(conflict.Round)
	}
	p.PackInt(uint32(len(s.Timestamps)))
	for _, timestamp := range s.Timestamps {
		p.PackFixedBytes(timestamp.MessageID.Bytes())
		p.PackByte(byte(timestamp.Opinion))
		p.PackByte(timestamp.Round)
	}

	if p.Errored() {
		return nil, fmt.Errorf("%w: %s", errFailedPacking, p.Err)
	}
	return p.Bytes, nil
}

// Parse is the inverse of Bytes. It rejects malformed and oversized
// statements as well as trailing bytes.
func Parse(bytes []byte) (*Statement, error) {
	p := wrappers.Packer{Bytes: bytes}

	s := &Statement{
		Version: p.UnpackByte(),
	}

	numConflicts := p.UnpackInt()
	if numConflicts > MaxEntries {
		return nil, fmt.Errorf("%w: %d conflicts, limit %d",
			errTooManyEntries, numConflicts, MaxEntries)
	}
	for i := uint32(0); i < numConflicts && !p.Errored(); i++ {
		conflict := Conflict{}
		copy(conflict.TransactionID[:], p.UnpackFixedBytes(ids.IDLen))
		conflict.Opinion = vote.Opinion(p.UnpackByte())
		conflict.Round = p.UnpackByte()
		s.Conflicts = append(s.Conflicts, conflict)
	}

	numTimestamps := p.UnpackInt()
	if numTimestamps > MaxEntries {
		return nil, fmt.Errorf("%w: %d timestamps, limit %d",
			errTooManyEntries, numTimestamps, MaxEntries)
	}
	for i := uint32(0); i < numTimestamps && !p.Errored(); i++ {
		timestamp := Timestamp{}
		copy(timestamp.MessageID[:], p.UnpackFixedBytes(ids.IDLen))
		timestamp.Opinion = vote.Opinion(p.UnpackByte())
		timestamp.Round = p.UnpackByte()
		s.Timestamps = append(s.Timestamps, timestamp)
	}

	if p.Errored() {
		return nil, p.Err
	}
	if p.Offset != len(bytes) {
		return nil, errTrailingBytes
	}
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}
