// Package report reads and writes the per-trial comparison rows of a sweep.
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/llm-d-incubation/loss-simulator/pkg/analyzer"
)

// ErrMalformedRow is returned when a line is not a comparison row.
var ErrMalformedRow = errors.New("malformed report row")

// number of whitespace-separated fields in a row
const rowFields = 12

// MetricNames lists the five measures in row order.
var MetricNames = []string{"P0", "Pn", "Q", "A", "k"}

// Row compares the analytic and empirical measures of one trial.
type Row struct {
	ArrivalRate float64          `json:"arrivalRate"`
	ServiceRate float64          `json:"serviceRate"`
	Analytic    analyzer.Metrics `json:"analytic"`
	Empirical   analyzer.Metrics `json:"empirical"`
}

// Format renders the row as one line without a trailing newline.
func (r Row) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.1f %.1f", r.ArrivalRate, r.ServiceRate)
	for _, v := range metricValues(r.Analytic) {
		fmt.Fprintf(&b, " %.4f", v)
	}
	for _, v := range metricValues(r.Empirical) {
		fmt.Fprintf(&b, " %.4f", v)
	}
	return b.String()
}

func (r Row) String() string {
	return r.Format()
}

// ParseRow reads a line written by Format. Decimal commas are accepted.
func ParseRow(line string) (Row, error) {
	fields := strings.Fields(line)
	if len(fields) != rowFields {
		return Row{}, fmt.Errorf("%w: got %d fields, want %d", ErrMalformedRow, len(fields), rowFields)
	}
	values := make([]float64, rowFields)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.ReplaceAll(f, ",", "."), 64)
		if err != nil {
			return Row{}, fmt.Errorf("%w: field %d: %w", ErrMalformedRow, i+1, err)
		}
		values[i] = v
	}
	return Row{
		ArrivalRate: values[0],
		ServiceRate: values[1],
		Analytic:    metricsFrom(values[2:7]),
		Empirical:   metricsFrom(values[7:12]),
	}, nil
}

func metricValues(m analyzer.Metrics) []float64 {
	return []float64{m.IdleProb, m.RejectProb, m.RelThroughput, m.AbsThroughput, m.AvgBusy}
}

func metricsFrom(v []float64) analyzer.Metrics {
	return analyzer.Metrics{
		IdleProb:      v[0],
		RejectProb:    v[1],
		RelThroughput: v[2],
		AbsThroughput: v[3],
		AvgBusy:       v[4],
	}
}
