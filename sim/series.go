package sim

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// AlignmentTolerance is the maximum gap, in years, between a requested yearly
// sample point and a trajectory snapshot for the two to be treated as the
// same point in time. Wider gaps are treated as missing data.
const AlignmentTolerance = 0.1

// Column extracts one numeric field from a snapshot, letting series helpers
// operate on any compartment or counter.
type Column func(PopulationSnapshot) float64

// ResampleColumn fits a piecewise-linear interpolant to one column of a
// trajectory and evaluates it at the requested times. It is used to bring
// irregularly sampled precomputed datasets onto the engine's regular grid;
// live trajectories never need it.
//
// Requested times outside the sampled range are clamped to the nearest
// endpoint value rather than extrapolated.
func ResampleColumn(t Trajectory, col Column, times []float64) ([]float64, error) {
	if t.Len() < 2 {
		return nil, fmt.Errorf("resample needs at least 2 snapshots, got %d", t.Len())
	}
	xs := make([]float64, t.Len())
	ys := make([]float64, t.Len())
	for i, s := range t.Snapshots {
		xs[i] = s.Time
		ys[i] = col(s)
		if i > 0 && xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("snapshot times must be strictly increasing: t[%d]=%v t[%d]=%v", i-1, xs[i-1], i, xs[i])
		}
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting interpolant: %w", err)
	}

	out := make([]float64, len(times))
	for i, at := range times {
		switch {
		case at <= xs[0]:
			out[i] = ys[0]
		case at >= xs[len(xs)-1]:
			out[i] = ys[len(ys)-1]
		default:
			out[i] = pl.Predict(at)
		}
	}
	return out, nil
}

// Regularize resamples a trajectory onto a fixed dt grid spanning its time
// range. Every snapshot field is interpolated independently; cumulative
// fields stay monotone because linear interpolation preserves monotonicity.
func Regularize(t Trajectory, dt float64) (Trajectory, error) {
	if dt <= 0 {
		return Trajectory{}, fmt.Errorf("dt must be positive, got %v", dt)
	}
	if t.Len() < 2 {
		return Trajectory{}, fmt.Errorf("regularize needs at least 2 snapshots, got %d", t.Len())
	}

	start := t.Snapshots[0].Time
	end := t.Snapshots[t.Len()-1].Time
	var times []float64
	for at := start; at <= end+dt/2; at += dt {
		times = append(times, at)
	}

	snapshots := make([]PopulationSnapshot, len(times))
	for i, at := range times {
		snapshots[i].Time = at
	}
	for _, f := range snapshotColumns {
		values, err := ResampleColumn(t, f.get, times)
		if err != nil {
			return Trajectory{}, err
		}
		for i, v := range values {
			f.set(&snapshots[i], v)
		}
	}
	return Trajectory{Snapshots: snapshots}, nil
}

// snapshotColumns enumerates the interpolatable snapshot fields (everything
// except Time).
var snapshotColumns = []struct {
	get Column
	set func(*PopulationSnapshot, float64)
}{
	{func(s PopulationSnapshot) float64 { return s.WaitlistLow }, func(s *PopulationSnapshot, v float64) { s.WaitlistLow = v }},
	{func(s PopulationSnapshot) float64 { return s.WaitlistHigh }, func(s *PopulationSnapshot, v float64) { s.WaitlistHigh = v }},
	{func(s PopulationSnapshot) float64 { return s.RecipientsLowStandard }, func(s *PopulationSnapshot, v float64) { s.RecipientsLowStandard = v }},
	{func(s PopulationSnapshot) float64 { return s.RecipientsHighStandard }, func(s *PopulationSnapshot, v float64) { s.RecipientsHighStandard = v }},
	{func(s PopulationSnapshot) float64 { return s.RecipientsHighAlternative }, func(s *PopulationSnapshot, v float64) { s.RecipientsHighAlternative = v }},
	{func(s PopulationSnapshot) float64 { return s.TransplantsLowStandard }, func(s *PopulationSnapshot, v float64) { s.TransplantsLowStandard = v }},
	{func(s PopulationSnapshot) float64 { return s.TransplantsHighStandard }, func(s *PopulationSnapshot, v float64) { s.TransplantsHighStandard = v }},
	{func(s PopulationSnapshot) float64 { return s.TransplantsHighAlternative }, func(s *PopulationSnapshot, v float64) { s.TransplantsHighAlternative = v }},
	{func(s PopulationSnapshot) float64 { return s.DeathsWaitlistLow }, func(s *PopulationSnapshot, v float64) { s.DeathsWaitlistLow = v }},
	{func(s PopulationSnapshot) float64 { return s.DeathsWaitlistHigh }, func(s *PopulationSnapshot, v float64) { s.DeathsWaitlistHigh = v }},
	{func(s PopulationSnapshot) float64 { return s.DeathsPostTransplantLow }, func(s *PopulationSnapshot, v float64) { s.DeathsPostTransplantLow = v }},
	{func(s PopulationSnapshot) float64 { return s.DeathsPostTransplantHigh }, func(s *PopulationSnapshot, v float64) { s.DeathsPostTransplantHigh = v }},
	{func(s PopulationSnapshot) float64 { return s.GraftFailuresStandard }, func(s *PopulationSnapshot, v float64) { s.GraftFailuresStandard = v }},
	{func(s PopulationSnapshot) float64 { return s.GraftFailuresAlternative }, func(s *PopulationSnapshot, v float64) { s.GraftFailuresAlternative = v }},
}
