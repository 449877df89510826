package analyzer

import (
	"fmt"
)

// fraction of the blocking target accepted as a match by the sizing search
const SizingTolerance = 1e-6

// Analyzer of a loss system with a fixed number of channels
type LossAnalyzer struct {
	Channels    int     // number of channels (c > 0)
	ServiceRate float64 // service rate of one channel (mu > 0)
}

// create a new loss analyzer
func NewLossAnalyzer(channels int, serviceRate float64) (*LossAnalyzer, error) {
	la := &LossAnalyzer{Channels: channels, ServiceRate: serviceRate}
	if err := la.check(); err != nil {
		return nil, err
	}
	return la, nil
}

// evaluate performance metrics given arrival rate
func (la *LossAnalyzer) Analyze(arrivalRate float64) (*Metrics, error) {
	if arrivalRate < 0 {
		return nil, fmt.Errorf("invalid arrival rate %v", arrivalRate)
	}
	model := NewErlangLossModel(la.Channels)
	model.Solve(arrivalRate, la.ServiceRate)
	if !model.IsValid() {
		return nil, fmt.Errorf("invalid model %s", model)
	}
	metrics := model.GetMetrics()
	return &metrics, nil
}

// Size finds the largest arrival rate whose rejection probability does not exceed targetReject,
// and returns the metrics at that rate.
func (la *LossAnalyzer) Size(targetReject float64) (maxRate float64, metrics *Metrics, err error) {
	if targetReject <= 0 || targetReject >= 1 {
		return 0, nil, fmt.Errorf("invalid rejection target %v", targetReject)
	}

	// carried load rho*(1-Pn) never exceeds c, so Pn >= 1 - c/rho bounds the search from above
	lambdaMin := 0.0
	lambdaMax := la.ServiceRate * float64(la.Channels) / (1 - targetReject)

	eval := func(lambda float64) (float64, error) {
		m, err := la.Analyze(lambda)
		if err != nil {
			return 0, err
		}
		return m.RejectProb, nil
	}

	lambdaStar, ind, err := BinarySearch(lambdaMin, lambdaMax, targetReject, eval)
	if ind != 0 {
		err = fmt.Errorf("target is outside the bounded region")
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to calculate max arrival rate, target=%v, range=[%v, %v], ind=%d: %w",
			targetReject, lambdaMin, lambdaMax, ind, err)
	}
	if metrics, err = la.Analyze(lambdaStar); err != nil {
		return 0, nil, err
	}
	return lambdaStar, metrics, nil
}

// MinChannels returns the smallest channel count in [1, maxChannels] whose blocking probability
// at traffic intensity rho is at most targetReject.
func MinChannels(rho float64, targetReject float64, maxChannels int) (int, error) {
	if rho < 0 || targetReject <= 0 || targetReject >= 1 || maxChannels < 1 {
		return 0, fmt.Errorf("invalid sizing input: rho=%v, target=%v, maxChannels=%d", rho, targetReject, maxChannels)
	}
	b := 1.0
	for c := 1; c <= maxChannels; c++ {
		b = rho * b / (float64(c) + rho*b)
		if b <= targetReject*(1+SizingTolerance) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("blocking %v still above target %v with %d channels", b, targetReject, maxChannels)
}

// check validity of analyzer parameters
func (la *LossAnalyzer) check() error {
	if la.Channels <= 0 || la.ServiceRate <= 0 {
		return fmt.Errorf("invalid loss analyzer %s", la)
	}
	return nil
}

func (la *LossAnalyzer) String() string {
	return fmt.Sprintf("{channels=%d, mu=%.3f}", la.Channels, la.ServiceRate)
}
