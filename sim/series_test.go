package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleColumn_LinearInterpolation(t *testing.T) {
	trajectory := Trajectory{Snapshots: []PopulationSnapshot{
		{Time: 0, WaitlistLow: 100},
		{Time: 1, WaitlistLow: 80},
		{Time: 3, WaitlistLow: 40},
	}}
	col := func(s PopulationSnapshot) float64 { return s.WaitlistLow }

	values, err := ResampleColumn(trajectory, col, []float64{0, 0.5, 2, 3})
	require.NoError(t, err)
	require.Len(t, values, 4)
	assert.InDelta(t, 100, values[0], 1e-9)
	assert.InDelta(t, 90, values[1], 1e-9)
	assert.InDelta(t, 60, values[2], 1e-9)
	assert.InDelta(t, 40, values[3], 1e-9)
}

func TestResampleColumn_ClampsOutsideRange(t *testing.T) {
	trajectory := Trajectory{Snapshots: []PopulationSnapshot{
		{Time: 1, WaitlistLow: 10},
		{Time: 2, WaitlistLow: 20},
	}}
	col := func(s PopulationSnapshot) float64 { return s.WaitlistLow }

	values, err := ResampleColumn(trajectory, col, []float64{0, 5})
	require.NoError(t, err)
	assert.Equal(t, 10.0, values[0])
	assert.Equal(t, 20.0, values[1])
}

func TestResampleColumn_RejectsDegenerateInput(t *testing.T) {
	col := func(s PopulationSnapshot) float64 { return s.WaitlistLow }

	_, err := ResampleColumn(Trajectory{Snapshots: []PopulationSnapshot{{Time: 0}}}, col, []float64{0})
	assert.Error(t, err)

	unsorted := Trajectory{Snapshots: []PopulationSnapshot{{Time: 1}, {Time: 1}}}
	_, err = ResampleColumn(unsorted, col, []float64{1})
	assert.Error(t, err)
}

func TestRegularize_ProducesFixedGrid(t *testing.T) {
	irregular := Trajectory{Snapshots: []PopulationSnapshot{
		{Time: 0, WaitlistLow: 100, DeathsWaitlistLow: 0},
		{Time: 0.3, WaitlistLow: 94, DeathsWaitlistLow: 3},
		{Time: 1.1, WaitlistLow: 78, DeathsWaitlistLow: 11},
		{Time: 2, WaitlistLow: 60, DeathsWaitlistLow: 20},
	}}

	regular, err := Regularize(irregular, 0.25)
	require.NoError(t, err)

	require.Equal(t, 9, regular.Len()) // 0, 0.25, ..., 2.0
	for i, s := range regular.Snapshots {
		assert.InDelta(t, float64(i)*0.25, s.Time, 1e-9)
	}

	// endpoints are preserved exactly
	assert.InDelta(t, 100, regular.Snapshots[0].WaitlistLow, 1e-9)
	assert.InDelta(t, 60, regular.Final().WaitlistLow, 1e-9)

	// cumulative counters stay monotone through interpolation
	for i := 1; i < regular.Len(); i++ {
		assert.GreaterOrEqual(t, regular.Snapshots[i].DeathsWaitlistLow, regular.Snapshots[i-1].DeathsWaitlistLow)
	}
}

func TestRegularize_RoundTripOnRegularInput(t *testing.T) {
	p := validParams()
	p.HorizonYears = 2
	result, err := Run(p)
	require.NoError(t, err)

	regular, err := Regularize(result.Intervention, DefaultDT)
	require.NoError(t, err)

	require.Equal(t, result.Intervention.Len(), regular.Len())
	for i := range regular.Snapshots {
		assert.InDelta(t, result.Intervention.Snapshots[i].WaitlistHigh, regular.Snapshots[i].WaitlistHigh, 1e-6)
		assert.InDelta(t, result.Intervention.Snapshots[i].DeathsWaitlistHigh, regular.Snapshots[i].DeathsWaitlistHigh, 1e-6)
	}
}

func TestRegularize_RejectsBadInput(t *testing.T) {
	_, err := Regularize(Trajectory{}, 0.25)
	assert.Error(t, err)

	two := Trajectory{Snapshots: []PopulationSnapshot{{Time: 0}, {Time: 1}}}
	_, err = Regularize(two, 0)
	assert.Error(t, err)
}
