package analyzer

import "fmt"

// performance measures of a loss system
type Metrics struct {
	IdleProb      float64 // probability that all channels are idle (P0)
	RejectProb    float64 // probability that an arrival is rejected (Pn)
	RelThroughput float64 // fraction of arrivals served (Q)
	AbsThroughput float64 // served requests per unit time (A)
	AvgBusy       float64 // average number of busy channels (k)
}

// traffic intensity (offered load) of a single-channel service rate
func TrafficIntensity(lambda, mu float64) float64 {
	if mu <= 0 {
		return 0
	}
	return lambda / mu
}

// IdleProbability is the reciprocal of the truncated sum of rho^i/i! for i = 0..c.
// Terms are accumulated as a running product so large c does not overflow a factorial.
func IdleProbability(rho float64, c int) float64 {
	sum := 1.0
	term := 1.0
	for i := 1; i <= c; i++ {
		term *= rho / float64(i)
		sum += term
	}
	return 1 / sum
}

// RejectionProbability is rho^c/c! times the idle probability (Erlang-B blocking).
func RejectionProbability(rho float64, c int, idleProb float64) float64 {
	term := 1.0
	for i := 1; i <= c; i++ {
		term *= rho / float64(i)
	}
	return term * idleProb
}

func RelativeThroughput(rejectProb float64) float64 {
	return 1 - rejectProb
}

func AbsoluteThroughput(lambda, relThroughput float64) float64 {
	return lambda * relThroughput
}

func AvgBusyChannels(rho, relThroughput float64) float64 {
	return rho * relThroughput
}

// Evaluate all loss system measures for arrival rate lambda, service rate mu and c channels
func Evaluate(lambda, mu float64, c int) Metrics {
	rho := TrafficIntensity(lambda, mu)
	idle := IdleProbability(rho, c)
	reject := RejectionProbability(rho, c, idle)
	rel := RelativeThroughput(reject)
	return Metrics{
		IdleProb:      idle,
		RejectProb:    reject,
		RelThroughput: rel,
		AbsThroughput: AbsoluteThroughput(lambda, rel),
		AvgBusy:       AvgBusyChannels(rho, rel),
	}
}

// ErlangB computes the blocking probability with the recursion
// B(0) = 1, B(k) = rho*B(k-1) / (k + rho*B(k-1)).
// It is numerically stable for large c and agrees with RejectionProbability.
func ErlangB(rho float64, c int) float64 {
	b := 1.0
	for k := 1; k <= c; k++ {
		b = rho * b / (float64(k) + rho*b)
	}
	return b
}

func (mt Metrics) String() string {
	return fmt.Sprintf("{P0=%.4f, Pn=%.4f, Q=%.4f, A=%.4f, k=%.4f}",
		mt.IdleProb, mt.RejectProb, mt.RelThroughput, mt.AbsThroughput, mt.AvgBusy)
}
