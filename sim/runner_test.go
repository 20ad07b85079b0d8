package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_TrajectoryShape(t *testing.T) {
	p := validParams() // horizon 5
	result, err := Run(p)
	require.NoError(t, err)

	// 5 years at quarterly resolution: initial snapshot + 20 steps
	assert.Equal(t, 21, result.Counterfactual.Len())
	assert.Equal(t, 21, result.Intervention.Len())

	assert.Zero(t, result.Intervention.Snapshots[0].Time)
	assert.InDelta(t, 5.0, result.Intervention.Final().Time, 1e-9)

	// both scenarios start from the same initial state
	assert.Equal(t, result.Counterfactual.Snapshots[0], result.Intervention.Snapshots[0])
}

func TestRun_RejectsInvalidParameters(t *testing.T) {
	p := validParams()
	p.Threshold = ThresholdClass("unknown")

	result, err := Run(p)
	assert.Nil(t, result)

	var ipe *InvalidParameterError
	require.ErrorAs(t, err, &ipe)
}

func TestRun_ZeroSupplyEquivalence(t *testing.T) {
	p := validParams()
	p.Supply = AbsoluteSupply(0)

	result, err := Run(p)
	require.NoError(t, err)

	// with no alternative supply the intervention trajectory is identical
	// to the counterfactual at every step
	assert.Equal(t, result.Counterfactual.Snapshots, result.Intervention.Snapshots)
}

func TestRun_NonNegativityOverFullHorizon(t *testing.T) {
	p := validParams()
	p.HorizonYears = 20 // long enough for the high waitlist to drain completely
	p.Supply = BaselineSupply(3)

	result, err := Run(p)
	require.NoError(t, err)

	for _, s := range result.Intervention.Snapshots {
		assertNonNegative(t, s)
	}
	for _, s := range result.Counterfactual.Snapshots {
		assertNonNegative(t, s)
	}
}

func TestRun_ConservationOverFullHorizon(t *testing.T) {
	p := validParams()
	result, err := Run(p)
	require.NoError(t, err)

	rates := result.Rates
	for _, trajectory := range []Trajectory{result.Counterfactual, result.Intervention} {
		for i := 1; i < trajectory.Len(); i++ {
			prev, cur := trajectory.Snapshots[i-1], trajectory.Snapshots[i]
			assert.InDelta(t, rates.ArrivalLow*DefaultDT, cur.AccountLow()-prev.AccountLow(), 1e-6)
			assert.InDelta(t, rates.ArrivalHigh*DefaultDT, cur.AccountHigh()-prev.AccountHigh(), 1e-6)
		}
	}
}

func TestRun_BaselineScenarioSavesLives(t *testing.T) {
	// 85th-percentile tier, both multipliers 1, baseline supply, 5 years
	p := validParams()
	result, err := Run(p)
	require.NoError(t, err)

	_, summary, err := Aggregate(&result.Counterfactual, result.Intervention, p.HorizonYears)
	require.NoError(t, err)

	assert.Greater(t, summary.LivesSaved, 0.0)
	assert.GreaterOrEqual(t, summary.WaitlistReduction, 0.0)
	assert.Positive(t, summary.AlternativeTransplants)
	assert.Greater(t, summary.PenetrationRate, 0.0)
	assert.LessOrEqual(t, summary.PenetrationRate, 1.0)
}

func TestRun_NoInterventionMeansNoLivesSaved(t *testing.T) {
	p := validParams()
	p.GraftFailureMultiplier = 0
	p.MortalityMultiplier = 0
	p.Supply = AbsoluteSupply(0)

	result, err := Run(p)
	require.NoError(t, err)

	assert.Equal(t, result.Counterfactual.Snapshots, result.Intervention.Snapshots)

	_, summary, err := Aggregate(&result.Counterfactual, result.Intervention, p.HorizonYears)
	require.NoError(t, err)
	assert.Zero(t, summary.LivesSaved)
	assert.Zero(t, summary.WaitlistReduction)
	assert.Zero(t, summary.AlternativeTransplants)
	assert.Zero(t, summary.PenetrationRate)
}

func TestRun_DoubledSupplyDoublesAlternativeTransplants(t *testing.T) {
	// short horizon so the high waitlist never saturates the supply
	base := validParams()
	base.HorizonYears = 2

	doubled := base
	doubled.Supply = BaselineSupply(2)

	baseResult, err := Run(base)
	require.NoError(t, err)
	doubledResult, err := Run(doubled)
	require.NoError(t, err)

	baseAlt := baseResult.Intervention.Final().TransplantsHighAlternative
	doubledAlt := doubledResult.Intervention.Final().TransplantsHighAlternative
	require.Positive(t, baseAlt)
	assert.InDelta(t, 2.0, doubledAlt/baseAlt, 0.02)
}

func TestRun_PenetrationRateWithinBounds(t *testing.T) {
	for _, tc := range ThresholdClasses() {
		for _, scale := range []float64{0, 0.5, 1, 5} {
			p := validParams()
			p.Threshold = tc
			p.Supply = BaselineSupply(scale)

			result, err := Run(p)
			require.NoError(t, err)
			_, summary, err := Aggregate(&result.Counterfactual, result.Intervention, p.HorizonYears)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, summary.PenetrationRate, 0.0, "tier %s scale %v", tc, scale)
			assert.LessOrEqual(t, summary.PenetrationRate, 1.0, "tier %s scale %v", tc, scale)
		}
	}
}

func TestNewRunner_Defaults(t *testing.T) {
	r := NewRunner(nil, 0)
	require.NotNil(t, r)
	assert.Equal(t, DefaultDT, r.dt)
	assert.NotNil(t, r.resolver)
}

func TestTrajectory_Nearest(t *testing.T) {
	trajectory := Trajectory{Snapshots: []PopulationSnapshot{
		{Time: 0},
		{Time: 0.96, WaitlistLow: 7},
		{Time: 2.5, WaitlistLow: 9},
	}}

	s, ok := trajectory.Nearest(1.0, AlignmentTolerance)
	require.True(t, ok)
	assert.Equal(t, 7.0, s.WaitlistLow)

	// 2.5 is too far from year 2 and year 3
	_, ok = trajectory.Nearest(2.0, AlignmentTolerance)
	assert.False(t, ok)
	_, ok = trajectory.Nearest(3.0, AlignmentTolerance)
	assert.False(t, ok)

	_, ok = Trajectory{}.Nearest(0, AlignmentTolerance)
	assert.False(t, ok)
}
