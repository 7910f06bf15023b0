// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import "io"

var _ io.WriteCloser = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) {
	return len(p), nil
}

func (discard) Close() error {
	return nil
}

// NewTestLogger returns a logger configured at [level] that throws away
// everything written to it. Unlike NoLog, entries at or above [level] still
// run through the whole encoding pipeline.
func NewTestLogger(level Level) Logger {
	return NewLogger("test", NewWrappedCore(level, discard{}, ConsoleEncoder()))
}
