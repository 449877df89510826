package simulator

import (
	"context"
	"errors"

	"k8s.io/utils/clock"
)

// Admitter accepts arrivals; *ServiceSystem is the only production implementation.
type Admitter interface {
	Admit(ev *ArrivalEvent) Admission
}

// SourceStats counts the outcomes of the arrivals emitted by a source.
type SourceStats struct {
	Emitted  int
	Accepted int
	Rejected int
}

// RequestSource emits numbered arrivals into an Admitter, paced by a sampler.
type RequestSource struct {
	target Admitter
	pacing DurationSampler
	clock  clock.Clock
}

func NewRequestSource(target Admitter, pacing DurationSampler, c clock.Clock) (*RequestSource, error) {
	if target == nil {
		return nil, errors.New("request source needs a target")
	}
	if pacing == nil {
		return nil, ErrNilSampler
	}
	if c == nil {
		c = clock.RealClock{}
	}
	return &RequestSource{target: target, pacing: pacing, clock: c}, nil
}

// Emit delivers one arrival synchronously and returns the admission decision.
func (rs *RequestSource) Emit(id int) Admission {
	return rs.target.Admit(&ArrivalEvent{RequestID: id})
}

// Run emits requests 1..n, waiting one pacing sample between consecutive
// arrivals. It stops early when ctx is cancelled.
func (rs *RequestSource) Run(ctx context.Context, n int) (SourceStats, error) {
	var stats SourceStats
	for id := 1; id <= n; id++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		a := rs.Emit(id)
		stats.Emitted++
		switch a.Decision {
		case DecisionAccepted:
			stats.Accepted++
		case DecisionRejected:
			stats.Rejected++
		}
		if id == n {
			break
		}
		t := rs.clock.NewTimer(rs.pacing.Next())
		select {
		case <-ctx.Done():
			t.Stop()
			return stats, ctx.Err()
		case <-t.C():
		}
	}
	return stats, nil
}
