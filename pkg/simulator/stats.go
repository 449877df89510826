package simulator

import (
	"fmt"
	"time"

	"github.com/llm-d-incubation/loss-simulator/pkg/analyzer"
)

// Snapshot holds the counters and time accumulators of a service system.
// Times are in seconds of wall-clock time.
type Snapshot struct {
	ChannelCount       int       `json:"channelCount"`
	TotalRequests      int       `json:"totalRequests"`
	ProcessedRequests  int       `json:"processedRequests"`
	RejectedRequests   int       `json:"rejectedRequests"`
	BusyTime           float64   `json:"busyTime"`           // summed over channels
	IdleTime           float64   `json:"idleTime"`           // time with no busy channel
	TotalOperationTime float64   `json:"totalOperationTime"` // from creation to the latest arrival or completion
	ChannelBusyTime    []float64 `json:"channelBusyTime"`    // per channel, sums to BusyTime
}

// Consistent reports whether every request was either processed or rejected.
func (s Snapshot) Consistent() bool {
	return s.TotalRequests == s.ProcessedRequests+s.RejectedRequests
}

// Empirical estimates the loss system measures observed in the snapshot.
// Ratios with a zero denominator are reported as zero.
func (s Snapshot) Empirical(arrivalRate float64) analyzer.Metrics {
	var m analyzer.Metrics
	if s.TotalOperationTime > 0 {
		m.IdleProb = s.IdleTime / s.TotalOperationTime
		m.AvgBusy = s.BusyTime / s.TotalOperationTime
	}
	if s.TotalRequests > 0 {
		m.RejectProb = float64(s.RejectedRequests) / float64(s.TotalRequests)
		m.RelThroughput = float64(s.ProcessedRequests) / float64(s.TotalRequests)
	}
	m.AbsThroughput = arrivalRate * m.RelThroughput
	return m
}

func (s Snapshot) String() string {
	return fmt.Sprintf("{total=%d, processed=%d, rejected=%d, busy=%.3fs, idle=%.3fs, span=%.3fs}",
		s.TotalRequests, s.ProcessedRequests, s.RejectedRequests, s.BusyTime, s.IdleTime, s.TotalOperationTime)
}

// Statistics aggregator. Not safe for concurrent use: every call happens under
// the ServiceSystem lock.
type statistics struct {
	start      time.Time // creation of the system
	checkpoint time.Time // latest arrival or completion

	total     int
	processed int
	rejected  int

	busy        time.Duration
	idle        time.Duration
	span        time.Duration
	channelBusy []time.Duration
}

func newStatistics(channels int, start time.Time) *statistics {
	return &statistics{
		start:       start,
		checkpoint:  start,
		channelBusy: make([]time.Duration, channels),
	}
}

// recordArrival counts an arrival; when no channel was busy the gap since the
// previous checkpoint is idle time.
func (s *statistics) recordArrival(now time.Time, systemIdle bool) {
	s.total++
	if systemIdle {
		s.idle += nonNegative(now.Sub(s.checkpoint))
	}
	s.advance(now)
}

func (s *statistics) recordAdmission() {
	s.processed++
}

func (s *statistics) recordRejection() {
	s.rejected++
}

// recordRelease accumulates the occupation of one channel.
func (s *statistics) recordRelease(index int, since, now time.Time) time.Duration {
	d := nonNegative(now.Sub(since))
	s.busy += d
	s.channelBusy[index] += d
	s.advance(now)
	return d
}

// advance moves the checkpoint and operation span forward, never backward
func (s *statistics) advance(now time.Time) {
	if now.After(s.checkpoint) {
		s.checkpoint = now
	}
	if span := s.checkpoint.Sub(s.start); span > s.span {
		s.span = span
	}
}

func (s *statistics) snapshot() Snapshot {
	perChannel := make([]float64, len(s.channelBusy))
	for i, d := range s.channelBusy {
		perChannel[i] = d.Seconds()
	}
	return Snapshot{
		ChannelCount:       len(s.channelBusy),
		TotalRequests:      s.total,
		ProcessedRequests:  s.processed,
		RejectedRequests:   s.rejected,
		BusyTime:           s.busy.Seconds(),
		IdleTime:           s.idle.Seconds(),
		TotalOperationTime: s.span.Seconds(),
		ChannelBusyTime:    perChannel,
	}
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
