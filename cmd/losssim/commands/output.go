package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/llm-d-incubation/loss-simulator/internal/report"
	"github.com/llm-d-incubation/loss-simulator/pkg/analyzer"
)

// absolute errors above this are highlighted
const errorHighlight = 0.05

var (
	good = color.New(color.FgGreen)
	warn = color.New(color.FgYellow)
	bad  = color.New(color.FgRed, color.Bold)
)

// printComparison lists the analytic and empirical value of each measure.
func printComparison(out io.Writer, analytic, empirical analyzer.Metrics) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MEASURE\tANALYTIC\tEMPIRICAL")
	a := []float64{analytic.IdleProb, analytic.RejectProb, analytic.RelThroughput, analytic.AbsThroughput, analytic.AvgBusy}
	e := []float64{empirical.IdleProb, empirical.RejectProb, empirical.RelThroughput, empirical.AbsThroughput, empirical.AvgBusy}
	for i, name := range report.MetricNames {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", name, a[i], e[i])
	}
	_ = w.Flush()
}

// printSummary prints one line per measure, colored by its largest error.
func printSummary(out io.Writer, s report.Summary) {
	fmt.Fprintf(out, "%d rows\n", s.Rows)
	for _, e := range s.Errors {
		c := good
		if e.Max > errorHighlight {
			c = bad
		}
		c.Fprintf(out, "%-2s mean=%.4f std=%.4f max=%.4f at lambda=%.1f\n",
			e.Name, e.Mean, e.StdDev, e.Max, e.WorstArrivalRate)
	}
}
