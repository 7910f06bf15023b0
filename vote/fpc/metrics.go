// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

package fpc

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tanglekit/fpcvote/utils/metric"
	"github.com/tanglekit/fpcvote/utils/wrappers"
)

type metrics struct {
	numRounds        prometheus.Counter
	roundDuration    prometheus.Histogram
	numPendingVotes  prometheus.Gauge
	numActiveVotes   prometheus.Gauge
	numFinalized     prometheus.Counter
	numFailed        prometheus.Counter
	numQueriedPeers  prometheus.Counter
	numFailedQueries prometheus.Counter
	numDroppedEvents prometheus.Counter
}

func newMetrics(namespace string, reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		numRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds",
			Help:      "Number of executed voting rounds",
		}),
		roundDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_duration",
			Help:      "Length of time a voting round took in milliseconds",
			Buckets:   metric.MillisecondsBuckets,
		}),
		numPendingVotes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "votes_pending",
			Help:      "Number of votes waiting to join the next round",
		}),
		numActiveVotes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "votes_active",
			Help:      "Number of votes participating in rounds",
		}),
		numFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_finalized",
			Help:      "Number of votes that finalized",
		}),
		numFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_failed",
			Help:      "Number of votes that exceeded the round limit",
		}),
		numQueriedPeers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queried_peers",
			Help:      "Number of distinct peers queried for opinions",
		}),
		numFailedQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_queries",
			Help:      "Number of sampled peers that didn't produce a usable response",
		}),
		numDroppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_events",
			Help:      "Number of events dropped because the event sink was full",
		}),
	}

	if reg == nil {
		return m, nil
	}

	errs := wrappers.Errs{}
	errs.Add(
		reg.Register(m.numRounds),
		reg.Register(m.roundDuration),
		reg.Register(m.numPendingVotes),
		reg.Register(m.numActiveVotes),
		reg.Register(m.numFinalized),
		reg.Register(m.numFailed),
		reg.Register(m.numQueriedPeers),
		reg.Register(m.numFailedQueries),
		reg.Register(m.numDroppedEvents),
	)
	return m, errs.Err
}
