package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waitlist-sim/waitlist-sim/sim"
)

func testParams() sim.ScenarioParameters {
	return sim.ScenarioParameters{
		Threshold:              sim.Threshold85,
		GraftFailureMultiplier: 1.0,
		MortalityMultiplier:    1.0,
		Supply:                 sim.BaselineSupply(1.0),
		HorizonYears:           10,
	}
}

func openTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := Open(filepath.Join(t.TempDir(), "scenarios.json"))
	require.NoError(t, err)
	return reg
}

func TestOpen_MissingFileYieldsEmptyRegistry(t *testing.T) {
	reg := openTestRegistry(t)
	assert.Empty(t, reg.Names())
}

func TestSave_GeneratesNameFromFingerprint(t *testing.T) {
	reg := openTestRegistry(t)

	name, err := reg.Save("", testParams(), false)
	require.NoError(t, err)
	assert.Equal(t, "scenario-"+Fingerprint(testParams())[:8], name)

	got, ok := reg.Get(name)
	require.True(t, ok)
	assert.Equal(t, testParams(), got)
}

func TestSave_SameConfigKeepsExistingName(t *testing.T) {
	reg := openTestRegistry(t)

	first, err := reg.Save("baseline", testParams(), false)
	require.NoError(t, err)
	require.Equal(t, "baseline", first)

	// registering the identical configuration under a different name
	// returns the existing name instead of duplicating the entry
	second, err := reg.Save("copy", testParams(), false)
	require.NoError(t, err)
	assert.Equal(t, "baseline", second)
	assert.Equal(t, []string{"baseline"}, reg.Names())
}

func TestSave_NameConflictRequiresOverwrite(t *testing.T) {
	reg := openTestRegistry(t)

	_, err := reg.Save("baseline", testParams(), false)
	require.NoError(t, err)

	other := testParams()
	other.HorizonYears = 20
	_, err = reg.Save("baseline", other, false)
	require.ErrorIs(t, err, ErrNameTaken)

	name, err := reg.Save("baseline", other, true)
	require.NoError(t, err)
	assert.Equal(t, "baseline", name)

	got, ok := reg.Get("baseline")
	require.True(t, ok)
	assert.Equal(t, 20, got.HorizonYears)

	// the stale reverse mapping for the old configuration is gone
	_, ok = reg.NameFor(testParams())
	assert.False(t, ok)
}

func TestSave_RejectsInvalidParameters(t *testing.T) {
	reg := openTestRegistry(t)
	bad := testParams()
	bad.HorizonYears = 0

	_, err := reg.Save("bad", bad, false)
	var ipe *sim.InvalidParameterError
	require.ErrorAs(t, err, &ipe)
	assert.Empty(t, reg.Names())
}

func TestNameFor_ResolvesParameterTuple(t *testing.T) {
	reg := openTestRegistry(t)
	_, err := reg.Save("baseline", testParams(), false)
	require.NoError(t, err)

	name, ok := reg.NameFor(testParams())
	require.True(t, ok)
	assert.Equal(t, "baseline", name)

	other := testParams()
	other.MortalityMultiplier = 2
	_, ok = reg.NameFor(other)
	assert.False(t, ok)
}

func TestRegistry_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.json")
	reg, err := Open(path)
	require.NoError(t, err)
	_, err = reg.Save("baseline", testParams(), false)
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	got, ok := reopened.Get("baseline")
	require.True(t, ok)
	assert.Equal(t, testParams(), got)

	name, ok := reopened.NameFor(testParams())
	require.True(t, ok)
	assert.Equal(t, "baseline", name)
}

func TestFingerprint_DistinguishesFields(t *testing.T) {
	a := Fingerprint(testParams())

	p := testParams()
	p.GraftFailureMultiplier = 1.5
	assert.NotEqual(t, a, Fingerprint(p))

	assert.Equal(t, a, Fingerprint(testParams()))
}
