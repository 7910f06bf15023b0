// Copyright (C) 2021-2024, Tanglekit contributors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fpc implements a Fast Probabilistic Consensus voter. The voter
// repeatedly queries a random committee of peers for their opinions on the
// objects being voted on, compares the fraction of likes against a random
// threshold and finalizes an opinion once it has been held for enough
// consecutive rounds.
package fpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tanglekit/fpcvote/ids"
	"github.com/tanglekit/fpcvote/utils/logging"
	"github.com/tanglekit/fpcvote/utils/sampler"
	"github.com/tanglekit/fpcvote/utils/timer/mockable"
	"github.com/tanglekit/fpcvote/vote"
)

var (
	_ vote.Voter = (*FPC)(nil)

	errNoOpinionGiverFunc = errors.New("opinion giver function is required")
	errNoEventSink        = errors.New("event sink is required")
	errUnexpectedResponse = errors.New("unexpected query response")
)

// Config wires an FPC voter into its host.
type Config struct {
	Params Parameters

	// Log defaults to a no-op logger.
	Log logging.Logger

	// Namespace and Registerer configure the metrics. A nil Registerer
	// leaves the metrics unregistered.
	Namespace  string
	Registerer prometheus.Registerer

	// OpinionGivers supplies the peers that may be sampled, freshly per
	// round.
	OpinionGivers vote.OpinionGiverFunc

	// Events receives the voter's event stream.
	Events vote.EventSink
}

// FPC is a Fast Probabilistic Consensus voter.
//
// Vote and IntermediateOpinion may be called concurrently with a running
// round; a vote submitted while a round is in flight joins the next round.
// Round itself must be driven by a single caller.
type FPC struct {
	params        Parameters
	log           logging.Logger
	metrics       *metrics
	opinionGivers vote.OpinionGiverFunc
	events        vote.EventSink

	clock     mockable.Clock
	committee sampler.Replacement
	reg       *registry

	// round numbers the executed rounds, starting at 1.
	round uint64

	// emitting is lowered for good once the event sink reports closure.
	emitting atomic.Bool
}

// New returns an FPC voter described by [config].
func New(config Config) (*FPC, error) {
	if err := config.Params.Verify(); err != nil {
		return nil, err
	}
	if config.OpinionGivers == nil {
		return nil, errNoOpinionGiverFunc
	}
	if config.Events == nil {
		return nil, errNoEventSink
	}

	log := config.Log
	if log == nil {
		log = logging.NoLog
	}

	m, err := newMetrics(config.Namespace, config.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	f := &FPC{
		params:        config.Params,
		log:           log,
		metrics:       m,
		opinionGivers: config.OpinionGivers,
		events:        config.Events,
		committee:     sampler.NewReplacement(),
		reg:           newRegistry(),
	}
	f.emitting.Store(true)
	return f, nil
}

// Vote submits [id] for voting. The object participates starting with the
// next round.
func (f *FPC) Vote(id ids.ID, objectType vote.ObjectType, initial vote.Opinion) error {
	if initial != vote.Like && initial != vote.Dislike {
		return fmt.Errorf("%w: %s", vote.ErrInvalidOpinion, initial)
	}

	object := vote.Object{ID: id, Type: objectType}
	if err := f.reg.Enqueue(object, initial); err != nil {
		return err
	}

	f.metrics.numPendingVotes.Set(float64(f.reg.PendingLen()))
	f.log.Debug("queued vote",
		zap.Stringer("object", object),
		zap.Stringer("initialOpinion", initial),
	)
	return nil
}

// IntermediateOpinion returns the current opinion of the ongoing vote on
// [id].
func (f *FPC) IntermediateOpinion(id ids.ID, objectType vote.ObjectType) (vote.Opinion, bool) {
	return f.reg.IntermediateOpinion(vote.Object{ID: id, Type: objectType})
}

// Status returns a snapshot of the ongoing vote on [id].
func (f *FPC) Status(id ids.ID, objectType vote.ObjectType) (vote.Context, bool) {
	return f.reg.Status(vote.Object{ID: id, Type: objectType})
}

// Round executes one voting round: it admits pending votes, queries a fresh
// committee for every active vote, forms new opinions against per-object
// random thresholds and settles the votes that finalized or ran out of
// rounds.
//
// All randomness consumed during the round is drawn from [rand].
func (f *FPC) Round(rand vote.Rand) error {
	start := f.clock.Time()

	admitted := f.reg.Admit()
	f.metrics.numPendingVotes.Set(float64(f.reg.PendingLen()))
	if admitted > 0 {
		f.log.Debug("admitted pending votes", zap.Int("numAdmitted", admitted))
	}

	queryIDs := f.reg.Snapshot()
	numActive := f.reg.ActiveLen()
	f.metrics.numActiveVotes.Set(float64(numActive))

	var (
		queriedOpinions []vote.QueriedOpinions
		queriedPeers    int
		failedQueries   int
	)
	if !queryIDs.Empty() {
		givers, err := f.opinionGivers()
		if err != nil {
			return fmt.Errorf("failed to retrieve opinion givers: %w", err)
		}
		if len(givers) == 0 {
			return vote.ErrNoOpinionGivers
		}

		counts := f.sampleCommittee(rand, len(givers))
		for _, count := range counts {
			if count > 0 {
				queriedPeers++
			}
		}

		var tallies map[vote.Object]*tally
		tallies, queriedOpinions, failedQueries = f.queryOpinions(givers, counts, queryIDs)

		f.reg.ApplyRound(func(ctx *vote.Context) vote.Opinion {
			t, ok := tallies[ctx.Object()]
			if !ok || t.total < f.params.MinOpinionsReceived {
				// Nobody answered for this object: the previous opinion
				// carries forward.
				return ctx.LastOpinion()
			}

			eta := float64(t.likes) / float64(t.total)
			if eta > f.drawThreshold(rand, ctx) {
				return vote.Like
			}
			return vote.Dislike
		})
	}

	events := f.reg.Reap(
		f.params.CoolingOffPeriod,
		f.params.FinalizationThreshold,
		f.params.MaxRoundsPerVote,
	)
	numFinalized := 0
	numFailed := 0
	for _, event := range events {
		switch event.(type) {
		case vote.Finalized:
			numFinalized++
		case vote.Failed:
			numFailed++
		}
	}

	f.round++
	duration := f.clock.Since(start)

	f.metrics.numRounds.Inc()
	f.metrics.roundDuration.Observe(float64(duration.Milliseconds()))
	f.metrics.numActiveVotes.Set(float64(f.reg.ActiveLen()))
	f.metrics.numQueriedPeers.Add(float64(queriedPeers))
	f.metrics.numFailedQueries.Add(float64(failedQueries))
	f.metrics.numFinalized.Add(float64(numFinalized))
	f.metrics.numFailed.Add(float64(numFailed))

	// The round marker is published before the round's terminal events so
	// that consumers can use it as a barrier.
	f.emit(vote.RoundExecuted{
		Round:           f.round,
		Duration:        duration,
		ActiveContexts:  numActive,
		QueriedPeers:    queriedPeers,
		FailedQueries:   failedQueries,
		Finalized:       numFinalized,
		Failed:          numFailed,
		QueriedOpinions: queriedOpinions,
	})
	for _, event := range events {
		f.emit(event)
	}

	f.log.Debug("executed voting round",
		zap.Uint64("round", f.round),
		zap.Duration("duration", duration),
		zap.Int("numActive", numActive),
		zap.Int("numQueriedPeers", queriedPeers),
		zap.Int("numFailedQueries", failedQueries),
		zap.Int("numFinalized", numFinalized),
		zap.Int("numFailed", numFailed),
	)
	return nil
}

// sampleCommittee draws the round's committee with replacement and returns
// how many times each giver was drawn.
func (f *FPC) sampleCommittee(rand vote.Rand, numGivers int) []uint32 {
	f.committee.Initialize(rand, uint64(numGivers))

	// Sample never errors with a non-empty range.
	draws, _ := f.committee.Sample(f.params.QuerySampleSize)

	counts := make([]uint32, numGivers)
	for _, draw := range draws {
		counts[draw]++
	}
	return counts
}

type tally struct {
	likes int
	total int
}

// queryOpinions queries every sampled giver, one call per non-empty object
// type batch, all in parallel. It returns the per-object tallies weighted by
// how often each giver was drawn, the trace of collected opinions and the
// number of givers that failed to answer.
func (f *FPC) queryOpinions(
	givers []vote.OpinionGiver,
	counts []uint32,
	queryIDs vote.QueryIDs,
) (map[vote.Object]*tally, []vote.QueriedOpinions, int) {
	var (
		lock            sync.Mutex
		tallies         = make(map[vote.Object]*tally)
		queriedOpinions []vote.QueriedOpinions
		failedQueries   int
	)

	eg := new(errgroup.Group)
	for i, giver := range givers {
		count := counts[i]
		if count == 0 {
			continue
		}
		giver := giver

		eg.Go(func() error {
			opinions, err := f.queryGiver(giver, queryIDs)

			lock.Lock()
			defer lock.Unlock()

			if err != nil {
				failedQueries++
				f.log.Debug("opinion query failed",
					zap.Stringer("giverID", giver.ID()),
					zap.Error(err),
				)
				return nil
			}

			for object, opinion := range opinions {
				if opinion == vote.Unknown {
					continue
				}
				t, ok := tallies[object]
				if !ok {
					t = &tally{}
					tallies[object] = t
				}
				t.total += int(count)
				if opinion == vote.Like {
					t.likes += int(count)
				}
			}
			queriedOpinions = append(queriedOpinions, vote.QueriedOpinions{
				OpinionGiverID: giver.ID(),
				Opinions:       opinions,
				TimesCounted:   count,
			})
			return nil
		})
	}
	_ = eg.Wait()

	return tallies, queriedOpinions, failedQueries
}

// queryGiver collects one giver's opinions on all queried objects. A giver
// that fails any batch contributes nothing for the round.
func (f *FPC) queryGiver(giver vote.OpinionGiver, queryIDs vote.QueryIDs) (map[vote.Object]vote.Opinion, error) {
	opinions := make(map[vote.Object]vote.Opinion, len(queryIDs.ConflictIDs)+len(queryIDs.TimestampIDs))

	if len(queryIDs.ConflictIDs) > 0 {
		batch, err := f.queryWithRetry(giver, queryIDs.ConflictIDs, vote.Conflict)
		if err != nil {
			return nil, err
		}
		for i, id := range queryIDs.ConflictIDs {
			opinions[vote.Object{ID: id, Type: vote.Conflict}] = batch[i]
		}
	}
	if len(queryIDs.TimestampIDs) > 0 {
		batch, err := f.queryWithRetry(giver, queryIDs.TimestampIDs, vote.Timestamp)
		if err != nil {
			return nil, err
		}
		for i, id := range queryIDs.TimestampIDs {
			opinions[vote.Object{ID: id, Type: vote.Timestamp}] = batch[i]
		}
	}
	return opinions, nil
}

// queryWithRetry issues one batch query, retrying transient failures up to
// the configured number of attempts. Each attempt is bounded by the query
// timeout so a stuck peer can't stall the round.
func (f *FPC) queryWithRetry(
	giver vote.OpinionGiver,
	objectIDs []ids.ID,
	objectType vote.ObjectType,
) (vote.Opinions, error) {
	var lastErr error
	for attempt := 0; attempt < f.params.MaxQueryAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), f.params.QueryTimeout)
		opinions, err := giver.Query(ctx, objectIDs, objectType)
		cancel()

		switch {
		case err != nil:
			lastErr = err
		case len(opinions) != len(objectIDs):
			lastErr = fmt.Errorf("%w: expected %d opinions but got %d",
				errUnexpectedResponse, len(objectIDs), len(opinions))
		default:
			return opinions, nil
		}
	}
	return nil, lastErr
}

// drawThreshold draws the opinion forming threshold for one object. Every
// object gets an independent draw every round.
func (f *FPC) drawThreshold(rand vote.Rand, ctx *vote.Context) float64 {
	var lower, upper float64
	switch {
	case ctx.IsNew():
		lower = f.params.FirstRoundLowerBound
		upper = f.params.FirstRoundUpperBound
	case f.params.FixedEndingRounds > 0 &&
		int(ctx.Rounds()) >= f.params.CoolingOffPeriod+f.params.FinalizationThreshold-f.params.FixedEndingRounds:
		return f.params.FixedEndingThreshold
	default:
		lower = f.params.SubsequentRoundsLowerBound
		upper = f.params.SubsequentRoundsUpperBound
	}
	return lower + rand.Float64()*(upper-lower)
}

func (f *FPC) emit(event vote.Event) {
	if !f.emitting.Load() {
		return
	}
	switch err := f.events.Publish(event); {
	case err == nil:
	case errors.Is(err, vote.ErrSinkClosed):
		f.emitting.Store(false)
		f.log.Warn("event sink closed, discarding all further events",
			zap.Error(err),
		)
	default:
		f.metrics.numDroppedEvents.Inc()
		f.log.Debug("dropped event",
			zap.Error(err),
		)
	}
}

// RoundsExecuted returns the number of rounds this voter has executed.
func (f *FPC) RoundsExecuted() uint64 {
	return f.round
}
