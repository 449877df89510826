package analyzer

import (
	"math"
	"testing"
)

func TestSingleChannelClosedForm(t *testing.T) {
	for _, rho := range []float64{0, 0.1, 0.5, 1, 2.5, 10, 100} {
		idle := IdleProbability(rho, 1)
		reject := RejectionProbability(rho, 1, idle)

		if want := 1 / (1 + rho); math.Abs(idle-want) > 1e-12 {
			t.Errorf("rho=%v: IdleProbability = %v, want %v", rho, idle, want)
		}
		if want := rho / (1 + rho); math.Abs(reject-want) > 1e-12 {
			t.Errorf("rho=%v: RejectionProbability = %v, want %v", rho, reject, want)
		}
	}
}

func TestThroughputComplementsRejection(t *testing.T) {
	for c := 1; c <= 12; c++ {
		for _, rho := range []float64{0, 0.01, 0.3, 1, 4.2, 9.9, 25} {
			idle := IdleProbability(rho, c)
			reject := RejectionProbability(rho, c, idle)
			rel := RelativeThroughput(reject)
			if math.Abs(rel+reject-1) > 1e-12 {
				t.Errorf("c=%d rho=%v: Q + Pn = %v, want 1", c, rho, rel+reject)
			}
		}
	}
}

func TestRejectionMatchesErlangBRecursion(t *testing.T) {
	for c := 1; c <= 30; c++ {
		for _, rho := range []float64{0.2, 1, 5, 10, 20} {
			idle := IdleProbability(rho, c)
			got := RejectionProbability(rho, c, idle)
			want := ErlangB(rho, c)
			if !WithinTolerance(got, want, 1e-9) {
				t.Errorf("c=%d rho=%v: RejectionProbability = %v, ErlangB = %v", c, rho, got, want)
			}
		}
	}
}

func TestEvaluate_KnownValues(t *testing.T) {
	// c=5, lambda=10, mu=1: the top of the default sweep
	m := Evaluate(10, 1, 5)

	sum := 0.0
	term := 1.0
	for i := 0; i <= 5; i++ {
		if i > 0 {
			term = term * 10 / float64(i)
		}
		sum += term
	}
	wantIdle := 1 / sum
	wantReject := math.Pow(10, 5) / 120 * wantIdle

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"idle", m.IdleProb, wantIdle},
		{"reject", m.RejectProb, wantReject},
		{"relative throughput", m.RelThroughput, 1 - wantReject},
		{"absolute throughput", m.AbsThroughput, 10 * (1 - wantReject)},
		{"busy channels", m.AvgBusy, 10 * (1 - wantReject)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !WithinTolerance(tt.got, tt.want, 1e-12) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestTrafficIntensity(t *testing.T) {
	if got := TrafficIntensity(3, 1.5); got != 2 {
		t.Errorf("TrafficIntensity(3, 1.5) = %v, want 2", got)
	}
	if got := TrafficIntensity(3, 0); got != 0 {
		t.Errorf("TrafficIntensity(3, 0) = %v, want 0", got)
	}
}
