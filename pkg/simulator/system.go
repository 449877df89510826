package simulator

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"k8s.io/utils/clock"

	"github.com/llm-d-incubation/loss-simulator/internal/logger"
)

var (
	// ErrInvalidChannels is returned when a system is built without channels.
	ErrInvalidChannels = errors.New("channel count must be > 0")
	// ErrNilSampler is returned when a system is built without a service sampler.
	ErrNilSampler = errors.New("service sampler is required")
)

// ArrivalEvent notifies the system of one request.
type ArrivalEvent struct {
	RequestID int
}

// Admission is the decision taken for one arrival.
type Admission struct {
	RequestID int
	Decision  Decision
	Channel   int // zero-based channel index, -1 unless accepted
}

// ServiceSystem is a loss system: c channels, no waiting room.
//
// Every mutation of channel state and statistics happens under one mutex, so
// arrivals and completions are totally ordered. Each accepted request is served
// by its own goroutine that waits for the sampled service time and then
// releases its channel. A ServiceSystem serves exactly one trial.
type ServiceSystem struct {
	mu      sync.Mutex
	pool    *channelPool
	stats   *statistics
	service DurationSampler

	clock    clock.Clock
	observer Observer

	// published copy of pool.busyCount() for lock-free drain polling
	busy atomic.Int32
}

// Option configures a ServiceSystem.
type Option func(*ServiceSystem)

// WithClock replaces the wall clock, e.g. with a fake clock in tests.
func WithClock(c clock.Clock) Option {
	return func(s *ServiceSystem) {
		s.clock = c
	}
}

// WithObserver registers an observer of admissions and completions.
func WithObserver(o Observer) Option {
	return func(s *ServiceSystem) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewServiceSystem creates an idle system with zeroed statistics.
func NewServiceSystem(channels int, service DurationSampler, opts ...Option) (*ServiceSystem, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChannels, channels)
	}
	if service == nil {
		return nil, ErrNilSampler
	}
	s := &ServiceSystem{
		pool:     newChannelPool(channels),
		service:  service,
		clock:    clock.RealClock{},
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stats = newStatistics(channels, s.clock.Now())
	return s, nil
}

// Admit decides the fate of one arrival. An accepted request occupies the
// lowest-index idle channel until its service time elapses; a rejected request
// is lost. A nil event is ignored. Admit returns once the decision is taken and
// never waits for service completion.
func (s *ServiceSystem) Admit(ev *ArrivalEvent) Admission {
	if ev == nil {
		return Admission{Decision: DecisionIgnored, Channel: -1}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.stats.recordArrival(now, s.pool.busyCount() == 0)
	logger.Log.Debugw("Request arrived", "request", ev.RequestID)

	index, ok := s.pool.tryAcquireFirstIdle(now)
	if !ok {
		s.stats.recordRejection()
		logger.Log.Infow("Request rejected", "request", ev.RequestID, "busyChannels", s.pool.busyCount())
		s.observer.ObserveDecision(DecisionRejected)
		return Admission{RequestID: ev.RequestID, Decision: DecisionRejected, Channel: -1}
	}

	s.stats.recordAdmission()
	s.publishBusy()

	d := s.service.Next()
	timer := s.clock.NewTimer(d)
	go s.serve(ev.RequestID, index, timer)

	logger.Log.Infow("Request accepted", "request", ev.RequestID, "channel", index+1, "serviceTime", d)
	s.observer.ObserveDecision(DecisionAccepted)
	return Admission{RequestID: ev.RequestID, Decision: DecisionAccepted, Channel: index}
}

// serve waits for the service time of one request and releases its channel.
func (s *ServiceSystem) serve(requestID, index int, timer clock.Timer) {
	<-timer.C()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	since, ok := s.pool.release(index)
	if !ok {
		logger.Log.Errorw("Completion for idle channel", "request", requestID, "channel", index+1)
		return
	}
	busy := s.stats.recordRelease(index, since, now)
	s.publishBusy()

	logger.Log.Debugw("Request processed", "request", requestID, "channel", index+1, "busyTime", busy)
	s.observer.ObserveServiceTime(busy)
}

// publishBusy must be called with the lock held after every occupancy change.
func (s *ServiceSystem) publishBusy() {
	n := s.pool.busyCount()
	s.busy.Store(int32(n))
	s.observer.ObserveBusyChannels(n)
}

// BusyChannels is the number of busy channels. It does not take the lock and
// may be stale; it is meant for polling until the system drains.
func (s *ServiceSystem) BusyChannels() int {
	return int(s.busy.Load())
}

// Channels is the configured channel count.
func (s *ServiceSystem) Channels() int {
	return s.pool.size()
}

// ChannelBusy reports whether the channel at index is occupied.
func (s *ServiceSystem) ChannelBusy(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.isBusy(index)
}

// Snapshot copies the current statistics. Values are final only once the
// system has drained.
func (s *ServiceSystem) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.snapshot()
}
