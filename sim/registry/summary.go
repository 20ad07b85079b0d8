package registry

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/waitlist-sim/waitlist-sim/sim"
)

// MetricStats reports distributional statistics for one summary metric across
// replicate results of a scenario.
type MetricStats struct {
	Mean   float64   `json:"mean"`
	StdDev float64   `json:"std"`
	Min    float64   `json:"min"`
	Max    float64   `json:"max"`
	Values []float64 `json:"values"`
}

// BatchSummary holds per-metric statistics across a batch of results.
type BatchSummary struct {
	Replicates             int         `json:"replicates"`
	WaitlistReduction      MetricStats `json:"waitlist_reduction"`
	LivesSaved             MetricStats `json:"lives_saved"`
	TotalTransplants       MetricStats `json:"total_transplants"`
	AlternativeTransplants MetricStats `json:"alternative_transplants"`
	PenetrationRate        MetricStats `json:"penetration_rate"`
}

// SummarizeBatch computes per-metric statistics across replicate runs of one
// scenario, e.g. the stored results of a sensitivity sweep. Safe for an empty
// batch (zero-value fields).
func SummarizeBatch(results []sim.SummaryMetrics) BatchSummary {
	summary := BatchSummary{Replicates: len(results)}
	if len(results) == 0 {
		return summary
	}
	summary.WaitlistReduction = metricStats(results, func(m sim.SummaryMetrics) float64 { return m.WaitlistReduction })
	summary.LivesSaved = metricStats(results, func(m sim.SummaryMetrics) float64 { return m.LivesSaved })
	summary.TotalTransplants = metricStats(results, func(m sim.SummaryMetrics) float64 { return m.TotalTransplants })
	summary.AlternativeTransplants = metricStats(results, func(m sim.SummaryMetrics) float64 { return m.AlternativeTransplants })
	summary.PenetrationRate = metricStats(results, func(m sim.SummaryMetrics) float64 { return m.PenetrationRate })
	return summary
}

func metricStats(results []sim.SummaryMetrics, get func(sim.SummaryMetrics) float64) MetricStats {
	values := make([]float64, len(results))
	for i, m := range results {
		values[i] = get(m)
	}

	s := MetricStats{
		Mean:   stat.Mean(values, nil),
		Min:    values[0],
		Max:    values[0],
		Values: values,
	}
	for _, v := range values[1:] {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	// StdDev is NaN for a single sample; report 0 instead.
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}
