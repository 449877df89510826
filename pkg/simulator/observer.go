package simulator

import "time"

// Decision is the outcome of one admission attempt.
type Decision int

const (
	// DecisionIgnored is returned for a malformed (nil) arrival.
	DecisionIgnored Decision = iota
	// DecisionAccepted means the request was assigned a channel.
	DecisionAccepted
	// DecisionRejected means every channel was busy; the request is lost.
	DecisionRejected
)

func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	default:
		return "ignored"
	}
}

// Observer receives simulation events, e.g. to export metrics.
// Calls are made while the system lock is held and must not call back into the system.
type Observer interface {
	// ObserveDecision is called once per non-ignored arrival.
	ObserveDecision(d Decision)
	// ObserveBusyChannels is called whenever the number of busy channels changes.
	ObserveBusyChannels(n int)
	// ObserveServiceTime is called on every completion with the channel occupation time.
	ObserveServiceTime(d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveDecision(Decision)         {}
func (noopObserver) ObserveBusyChannels(int)          {}
func (noopObserver) ObserveServiceTime(time.Duration) {}
