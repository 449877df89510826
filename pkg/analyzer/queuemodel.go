package analyzer

import (
	"bytes"
	"fmt"
)

// M/M/c/c loss system (Erlang loss model): c identical channels, no waiting room
type ErlangLossModel struct {
	lambda float64 // arrival rate
	mu     float64 // service rate of a single channel
	rho    float64 // traffic intensity (offered load in Erlangs)
	c      int     // number of channels

	p       []float64 // state probabilities, p[i] = Probability[exactly i busy channels]
	metrics Metrics   // performance measures
	isValid bool      // validity of input data
}

func NewErlangLossModel(c int) *ErlangLossModel {
	size := 1
	if c > 0 {
		size = c + 1
	}
	return &ErlangLossModel{
		c: c,
		p: make([]float64, size),
	}
}

// Solve queueing model given arrival and service rates
func (m *ErlangLossModel) Solve(lambda float64, mu float64) {
	m.lambda = lambda
	m.mu = mu
	m.metrics = Metrics{}
	if (lambda < 0) || (mu <= 0) || (m.c < 1) {
		m.rho = 0
		m.isValid = false
		return
	}
	m.rho = TrafficIntensity(lambda, mu)
	m.isValid = true
	m.computeStatistics()
}

// Evaluate performance measures of queueing model
func (m *ErlangLossModel) computeStatistics() {
	m.computeProbabilities()
	m.metrics = Evaluate(m.lambda, m.mu, m.c)
}

// Compute state probabilities (truncated Poisson distribution)
func (m *ErlangLossModel) computeProbabilities() {
	p0 := IdleProbability(m.rho, m.c)
	term := 1.0
	m.p[0] = p0
	for i := 1; i <= m.c; i++ {
		term *= m.rho / float64(i)
		m.p[i] = term * p0
	}
}

func (m *ErlangLossModel) IsValid() bool {
	return m.isValid
}

func (m *ErlangLossModel) GetLambda() float64 {
	return m.lambda
}

func (m *ErlangLossModel) GetMu() float64 {
	return m.mu
}

func (m *ErlangLossModel) GetRho() float64 {
	return m.rho
}

func (m *ErlangLossModel) GetChannels() int {
	return m.c
}

func (m *ErlangLossModel) GetProbabilities() []float64 {
	return m.p
}

func (m *ErlangLossModel) GetMetrics() Metrics {
	return m.metrics
}

func (m *ErlangLossModel) GetIdleProb() float64 {
	return m.metrics.IdleProb
}

func (m *ErlangLossModel) GetRejectProb() float64 {
	return m.metrics.RejectProb
}

func (m *ErlangLossModel) GetRelThroughput() float64 {
	return m.metrics.RelThroughput
}

func (m *ErlangLossModel) GetAbsThroughput() float64 {
	return m.metrics.AbsThroughput
}

func (m *ErlangLossModel) GetAvgBusyChannels() float64 {
	return m.metrics.AvgBusy
}

func (m *ErlangLossModel) String() string {
	var b bytes.Buffer
	b.WriteString("ErlangLossModel: ")
	fmt.Fprintf(&b, "isValid=%v; ", m.isValid)
	fmt.Fprintf(&b, "lambda=%v; mu=%v; rho=%v; c=%d; ", m.lambda, m.mu, m.rho, m.c)
	if m.isValid {
		fmt.Fprintf(&b, "P0=%v; Pn=%v; Q=%v; ", m.metrics.IdleProb, m.metrics.RejectProb, m.metrics.RelThroughput)
		fmt.Fprintf(&b, "A=%v; k=%v; ", m.metrics.AbsThroughput, m.metrics.AvgBusy)
	}
	return b.String()
}
