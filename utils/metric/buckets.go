// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package metric

var (
	// MillisecondsBuckets is used to create a histogram of millisecond
	// durations
	MillisecondsBuckets = []float64{
		10,    // 10 ms
		100,   // 100 ms
		250,   // 250 ms
		500,   // 500 ms
		1000,  // 1 s
		2500,  // 2.5 s
		5000,  // 5 s
		10000, // 10 s
		25000, // 25 s
		50000, // 50 s
	}
)
