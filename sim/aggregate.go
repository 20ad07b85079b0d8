package sim

import "fmt"

// YearRecord is one row of the comparative time series, sampled at whole
// years. Deaths* fields are incremental (deaths during the interval since the
// previous matched year); Transplants* fields are cumulative.
type YearRecord struct {
	Year int `json:"year"`

	WaitlistLow   float64 `json:"waitlist_low"`
	WaitlistHigh  float64 `json:"waitlist_high"`
	WaitlistTotal float64 `json:"waitlist_total"`

	DeathsLow   float64 `json:"deaths_low"`
	DeathsHigh  float64 `json:"deaths_high"`
	DeathsTotal float64 `json:"deaths_total"`

	TransplantsTotal       float64 `json:"transplants_total"`
	TransplantsAlternative float64 `json:"transplants_alternative"`

	// Comparative fields, meaningful only when the series carries a
	// counterfactual. Prevented* values are signed differences of yearly
	// death increments (counterfactual minus intervention): a negative
	// value surfaces a scenario that is worse than baseline.
	CounterfactualWaitlist float64 `json:"counterfactual_waitlist,omitempty"`
	PreventedLow           float64 `json:"prevented_low,omitempty"`
	PreventedHigh          float64 `json:"prevented_high,omitempty"`
	PreventedTotal         float64 `json:"prevented_total,omitempty"`
}

// TimeSeries is the yearly comparative series for one run. Years with no
// trajectory sample within AlignmentTolerance are absent from Years rather
// than zero-filled.
type TimeSeries struct {
	Years         []YearRecord `json:"years"`
	HasComparison bool         `json:"has_comparison"`
}

// SummaryMetrics are the horizon-level policy aggregates. The comparative
// fields (WaitlistReduction, LivesSaved) are zero and meaningless when
// HasComparison is false.
type SummaryMetrics struct {
	// WaitlistReduction is the counterfactual final waitlist minus the
	// intervention final waitlist, clamped at 0.
	WaitlistReduction float64 `json:"waitlist_reduction"`
	// LivesSaved is the sum of the signed yearly PreventedTotal values.
	LivesSaved             float64 `json:"lives_saved"`
	TotalTransplants       float64 `json:"total_transplants"`
	AlternativeTransplants float64 `json:"alternative_transplants"`
	// PenetrationRate is alternative recipients over all high-priority
	// recipients, in [0, 1]; 0 when nobody in the class was transplanted.
	PenetrationRate float64 `json:"penetration_rate"`
	HasComparison   bool    `json:"has_comparison"`
}

// Aggregate combines the two trajectories of a run into the yearly
// comparative series and the horizon summary.
//
// counterfactual may be nil when only an intervention dataset is available
// (precomputed data without a baseline): the comparative fields are omitted
// and everything else is still computed. Yearly sample points are aligned by
// nearest snapshot time within AlignmentTolerance; unmatched years are
// missing, never zero.
func Aggregate(counterfactual *Trajectory, intervention Trajectory, horizonYears int) (TimeSeries, SummaryMetrics, error) {
	if horizonYears <= 0 {
		return TimeSeries{}, SummaryMetrics{}, invalidParam("horizon_years", "must be a positive whole number of years, got %d", horizonYears)
	}
	if intervention.Len() == 0 {
		return TimeSeries{}, SummaryMetrics{}, fmt.Errorf("intervention trajectory is empty")
	}
	hasCF := counterfactual != nil && counterfactual.Len() > 0

	series := TimeSeries{HasComparison: hasCF}
	var prevIv, prevCf PopulationSnapshot
	havePrevIv := false
	// cfPrevMatched tracks whether the counterfactual aligned at the
	// previous emitted record, so prevented increments always compare
	// matching intervals.
	cfPrevMatched := false

	for year := 0; year <= horizonYears; year++ {
		iv, ok := intervention.Nearest(float64(year), AlignmentTolerance)
		if !ok {
			continue
		}

		rec := YearRecord{
			Year:                   year,
			WaitlistLow:            iv.WaitlistLow,
			WaitlistHigh:           iv.WaitlistHigh,
			WaitlistTotal:          iv.WaitlistTotal(),
			TransplantsTotal:       iv.TransplantsTotal(),
			TransplantsAlternative: iv.TransplantsHighAlternative,
		}
		if havePrevIv {
			rec.DeathsLow = iv.DeathsLow() - prevIv.DeathsLow()
			rec.DeathsHigh = iv.DeathsHigh() - prevIv.DeathsHigh()
			rec.DeathsTotal = rec.DeathsLow + rec.DeathsHigh
		}

		if hasCF {
			cf, ok := counterfactual.Nearest(float64(year), AlignmentTolerance)
			if ok {
				rec.CounterfactualWaitlist = cf.WaitlistTotal()
				if cfPrevMatched && havePrevIv {
					rec.PreventedLow = (cf.DeathsLow() - prevCf.DeathsLow()) - rec.DeathsLow
					rec.PreventedHigh = (cf.DeathsHigh() - prevCf.DeathsHigh()) - rec.DeathsHigh
					rec.PreventedTotal = rec.PreventedLow + rec.PreventedHigh
				}
				prevCf = cf
			}
			cfPrevMatched = ok
		}

		prevIv, havePrevIv = iv, true
		series.Years = append(series.Years, rec)
	}

	summary := summarize(counterfactual, intervention, series, hasCF)
	return series, summary, nil
}

func summarize(counterfactual *Trajectory, intervention Trajectory, series TimeSeries, hasCF bool) SummaryMetrics {
	final := intervention.Final()
	summary := SummaryMetrics{
		TotalTransplants:       final.TransplantsTotal(),
		AlternativeTransplants: final.TransplantsHighAlternative,
		PenetrationRate: safeRatio(final.TransplantsHighAlternative,
			final.TransplantsHighAlternative+final.TransplantsHighStandard),
		HasComparison: hasCF,
	}
	if !hasCF {
		return summary
	}

	reduction := counterfactual.Final().WaitlistTotal() - final.WaitlistTotal()
	if reduction < 0 {
		reduction = 0
	}
	summary.WaitlistReduction = reduction

	for _, rec := range series.Years {
		summary.LivesSaved += rec.PreventedTotal
	}
	return summary
}

// safeRatio guards the division against a zero or near-zero denominator,
// substituting 0 instead of propagating NaN.
func safeRatio(num, den float64) float64 {
	const eps = 1e-12
	if den < eps {
		return 0
	}
	return num / den
}
