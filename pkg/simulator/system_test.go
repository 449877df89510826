package simulator

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/llm-d-incubation/loss-simulator/internal/logger"
)

// recordingObserver keeps the peak busy count seen across all notifications.
type recordingObserver struct {
	mu       sync.Mutex
	peakBusy int
	samples  int
}

func (o *recordingObserver) ObserveDecision(Decision)         {}
func (o *recordingObserver) ObserveServiceTime(time.Duration) {}
func (o *recordingObserver) ObserveBusyChannels(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.samples++
	if n > o.peakBusy {
		o.peakBusy = n
	}
}

func (o *recordingObserver) peak() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.peakBusy, o.samples
}

var _ = Describe("ServiceSystem", func() {
	var (
		start     time.Time
		fakeClock *testingclock.FakeClock
		service   *DeterministicSampler
	)

	// completes advances the fake clock and waits for the released channels.
	completes := func(sys *ServiceSystem, d time.Duration, busyAfter int) {
		fakeClock.Step(d)
		Eventually(sys.BusyChannels).Should(Equal(busyAfter))
	}

	BeforeEach(func() {
		logger.Log = zap.NewNop().Sugar()
		start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		fakeClock = testingclock.NewFakeClock(start)

		var err error
		service, err = NewDeterministicSampler(time.Second, 1)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("construction", func() {
		It("should reject a non-positive channel count", func() {
			_, err := NewServiceSystem(0, service)
			Expect(err).To(MatchError(ErrInvalidChannels))
		})

		It("should reject a missing service sampler", func() {
			_, err := NewServiceSystem(2, nil)
			Expect(err).To(MatchError(ErrNilSampler))
		})

		It("should start idle with zeroed statistics", func() {
			sys, err := NewServiceSystem(4, service, WithClock(fakeClock))
			Expect(err).NotTo(HaveOccurred())
			Expect(sys.Channels()).To(Equal(4))
			Expect(sys.BusyChannels()).To(BeZero())

			snap := sys.Snapshot()
			Expect(snap.ChannelCount).To(Equal(4))
			Expect(snap.TotalRequests).To(BeZero())
			Expect(snap.BusyTime).To(BeZero())
			Expect(snap.IdleTime).To(BeZero())
			Expect(snap.TotalOperationTime).To(BeZero())
			Expect(snap.ChannelBusyTime).To(HaveLen(4))
		})
	})

	Context("admission", func() {
		It("should assign the lowest-index idle channel", func() {
			sys, err := NewServiceSystem(3, service, WithClock(fakeClock))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 3; i++ {
				a := sys.Admit(&ArrivalEvent{RequestID: i + 1})
				Expect(a.Decision).To(Equal(DecisionAccepted))
				Expect(a.Channel).To(Equal(i))
				Expect(sys.ChannelBusy(i)).To(BeTrue())
			}
			Expect(sys.BusyChannels()).To(Equal(3))

			a := sys.Admit(&ArrivalEvent{RequestID: 4})
			Expect(a.Decision).To(Equal(DecisionRejected))
			Expect(a.Channel).To(Equal(-1))

			completes(sys, time.Second, 0)
			Expect(sys.Admit(&ArrivalEvent{RequestID: 5}).Channel).To(Equal(0))
		})

		It("should reject an arrival while the only channel is busy", func() {
			sys, err := NewServiceSystem(1, service, WithClock(fakeClock))
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.Admit(&ArrivalEvent{RequestID: 1}).Decision).To(Equal(DecisionAccepted))
			fakeClock.Step(500 * time.Millisecond)
			Expect(sys.Admit(&ArrivalEvent{RequestID: 2}).Decision).To(Equal(DecisionRejected))
			Expect(sys.BusyChannels()).To(Equal(1))

			completes(sys, 500*time.Millisecond, 0)

			snap := sys.Snapshot()
			Expect(snap.TotalRequests).To(Equal(2))
			Expect(snap.ProcessedRequests).To(Equal(1))
			Expect(snap.RejectedRequests).To(Equal(1))
			Expect(snap.Consistent()).To(BeTrue())
			Expect(snap.BusyTime).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("should ignore a nil arrival", func() {
			sys, err := NewServiceSystem(1, service, WithClock(fakeClock))
			Expect(err).NotTo(HaveOccurred())

			a := sys.Admit(nil)
			Expect(a.Decision).To(Equal(DecisionIgnored))
			Expect(sys.Snapshot().TotalRequests).To(BeZero())
			Expect(fakeClock.HasWaiters()).To(BeFalse())
		})
	})

	Context("time accounting", func() {
		It("should accumulate idle time only while no channel is busy", func() {
			sys, err := NewServiceSystem(2, service, WithClock(fakeClock))
			Expect(err).NotTo(HaveOccurred())

			fakeClock.Step(2 * time.Second)
			sys.Admit(&ArrivalEvent{RequestID: 1})
			Expect(sys.Snapshot().IdleTime).To(BeNumerically("~", 2.0, 1e-9))

			completes(sys, time.Second, 0)

			fakeClock.Step(3 * time.Second)
			sys.Admit(&ArrivalEvent{RequestID: 2})
			completes(sys, time.Second, 0)

			snap := sys.Snapshot()
			Expect(snap.IdleTime).To(BeNumerically("~", 5.0, 1e-9))
			Expect(snap.BusyTime).To(BeNumerically("~", 2.0, 1e-9))
			Expect(snap.TotalOperationTime).To(BeNumerically("~", 7.0, 1e-9))
			Expect(snap.ChannelBusyTime).To(Equal([]float64{2, 0}))
		})

		It("should not count idle time for an arrival while another channel is busy", func() {
			sys, err := NewServiceSystem(2, service, WithClock(fakeClock))
			Expect(err).NotTo(HaveOccurred())

			Expect(sys.Admit(&ArrivalEvent{RequestID: 1}).Channel).To(Equal(0))
			fakeClock.Step(500 * time.Millisecond)
			Expect(sys.Admit(&ArrivalEvent{RequestID: 2}).Channel).To(Equal(1))

			completes(sys, 500*time.Millisecond, 1)
			Expect(sys.ChannelBusy(0)).To(BeFalse())
			Expect(sys.ChannelBusy(1)).To(BeTrue())

			completes(sys, 500*time.Millisecond, 0)

			snap := sys.Snapshot()
			Expect(snap.IdleTime).To(BeZero())
			Expect(snap.BusyTime).To(BeNumerically("~", 2.0, 1e-9))
			Expect(snap.TotalOperationTime).To(BeNumerically("~", 1.5, 1e-9))
			for _, busy := range snap.ChannelBusyTime {
				Expect(busy).To(BeNumerically("<=", snap.TotalOperationTime))
			}
		})
	})

	Context("observer", func() {
		var mockCtrl *gomock.Controller

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should report decisions, occupancy and service times", func() {
			observer := NewMockObserver(mockCtrl)
			sys, err := NewServiceSystem(1, service, WithClock(fakeClock), WithObserver(observer))
			Expect(err).NotTo(HaveOccurred())

			gomock.InOrder(
				observer.EXPECT().ObserveBusyChannels(1),
				observer.EXPECT().ObserveDecision(DecisionAccepted),
				observer.EXPECT().ObserveDecision(DecisionRejected),
				observer.EXPECT().ObserveBusyChannels(0),
				observer.EXPECT().ObserveServiceTime(time.Second),
			)

			sys.Admit(&ArrivalEvent{RequestID: 1})
			sys.Admit(&ArrivalEvent{RequestID: 2})
			completes(sys, time.Second, 0)

			// the completion notifies the observer before releasing the lock
			Expect(sys.Snapshot().ProcessedRequests).To(Equal(1))
		})
	})

	Context("wall-clock scenario", func() {
		It("should keep statistics consistent under concurrent completions", func() {
			const (
				channels = 5
				requests = 25
				unit     = 5 * time.Millisecond
			)
			serviceSampler, err := NewDeterministicSampler(unit, 1)
			Expect(err).NotTo(HaveOccurred())
			arrivals, err := NewDeterministicSampler(unit, 10)
			Expect(err).NotTo(HaveOccurred())

			observer := &recordingObserver{}
			sys, err := NewServiceSystem(channels, serviceSampler, WithObserver(observer))
			Expect(err).NotTo(HaveOccurred())
			source, err := NewRequestSource(sys, arrivals, nil)
			Expect(err).NotTo(HaveOccurred())

			stats, err := source.Run(context.Background(), requests)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Emitted).To(Equal(requests))

			Eventually(sys.BusyChannels).WithTimeout(5 * time.Second).Should(BeZero())

			snap := sys.Snapshot()
			Expect(snap.TotalRequests).To(Equal(requests))
			Expect(snap.ProcessedRequests).To(BeNumerically("<=", requests))
			Expect(snap.ProcessedRequests).To(Equal(stats.Accepted))
			Expect(snap.Consistent()).To(BeTrue())
			Expect(snap.IdleTime).To(BeNumerically("<=", snap.TotalOperationTime))
			Expect(snap.BusyTime).To(BeNumerically("<=", channels*snap.TotalOperationTime+1e-9))
			for _, busy := range snap.ChannelBusyTime {
				Expect(busy).To(BeNumerically("<=", snap.TotalOperationTime+1e-9))
			}

			peak, samples := observer.peak()
			Expect(samples).To(BeNumerically(">", 0))
			Expect(peak).To(BeNumerically("<=", channels))
		})
	})
})
