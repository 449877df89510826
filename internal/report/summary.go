package report

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MetricError describes the absolute difference between the analytic and
// empirical values of one measure across rows.
type MetricError struct {
	Name   string  `json:"name"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Max    float64 `json:"max"`
	// arrival rate of the row with the largest error
	WorstArrivalRate float64 `json:"worstArrivalRate"`
}

// Summary aggregates the agreement between model and simulation over a sweep.
type Summary struct {
	Rows   int           `json:"rows"`
	Errors []MetricError `json:"errors"`
}

// Summarize computes per-measure error statistics. An empty input yields a
// summary with no errors.
func Summarize(rows []Row) Summary {
	s := Summary{Rows: len(rows)}
	if len(rows) == 0 {
		return s
	}
	for i, name := range MetricNames {
		diffs := make([]float64, len(rows))
		for j, r := range rows {
			diffs[j] = math.Abs(metricValues(r.Analytic)[i] - metricValues(r.Empirical)[i])
		}
		mean, std := stat.MeanStdDev(diffs, nil)
		if len(diffs) < 2 {
			std = 0
		}
		worst := floats.MaxIdx(diffs)
		s.Errors = append(s.Errors, MetricError{
			Name:             name,
			Mean:             mean,
			StdDev:           std,
			Max:              diffs[worst],
			WorstArrivalRate: rows[worst].ArrivalRate,
		})
	}
	return s
}

func (s Summary) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "Summary: rows=%d\n", s.Rows)
	for _, e := range s.Errors {
		fmt.Fprintf(&b, "%-2s mean=%.4f std=%.4f max=%.4f (lambda=%.1f)\n", e.Name, e.Mean, e.StdDev, e.Max, e.WorstArrivalRate)
	}
	return b.String()
}
