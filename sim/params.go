package sim

import "math"

// ThresholdClass selects which cPRA percentile tier divides the waitlist into
// the standard-priority and high-priority classes. The tier keys a fixed
// calibration table of baseline rates; it is categorical, not numeric.
type ThresholdClass string

const (
	// Threshold80 puts cPRA 80-100 patients in the high-priority class.
	Threshold80 ThresholdClass = "80"
	// Threshold85 puts cPRA 85-100 patients in the high-priority class.
	Threshold85 ThresholdClass = "85"
	// Threshold90 puts cPRA 90-100 patients in the high-priority class.
	Threshold90 ThresholdClass = "90"
	// Threshold95 puts cPRA 95-100 patients in the high-priority class.
	Threshold95 ThresholdClass = "95"
)

// ThresholdClasses lists the supported tiers in ascending order.
func ThresholdClasses() []ThresholdClass {
	return []ThresholdClass{Threshold80, Threshold85, Threshold90, Threshold95}
}

// Valid reports whether tc is one of the supported tiers.
func (tc ThresholdClass) Valid() bool {
	switch tc {
	case Threshold80, Threshold85, Threshold90, Threshold95:
		return true
	}
	return false
}

// SupplyLevel expresses the alternative-organ supply either as an absolute
// rate in organs/year or as a scale relative to the tier's baseline supply.
type SupplyLevel struct {
	OrgansPerYear float64 `json:"organs_per_year" yaml:"organs_per_year"`
	Scale         float64 `json:"scale" yaml:"scale"`
	Proportional  bool    `json:"proportional" yaml:"proportional"`
}

// AbsoluteSupply is a supply level of rate organs/year.
func AbsoluteSupply(rate float64) SupplyLevel {
	return SupplyLevel{OrgansPerYear: rate}
}

// BaselineSupply is a supply level of scale × the tier's baseline supply.
// BaselineSupply(1) reproduces the calibrated baseline; BaselineSupply(0)
// represents no intervention.
func BaselineSupply(scale float64) SupplyLevel {
	return SupplyLevel{Scale: scale, Proportional: true}
}

// ScenarioParameters are the complete inputs to one run. Immutable for the
// duration of the run; the engine holds no other state.
type ScenarioParameters struct {
	Threshold ThresholdClass `json:"threshold" yaml:"threshold"`

	// GraftFailureMultiplier scales the alternative-organ graft-failure
	// hazard relative to its calibrated baseline. 0 yields a hazard of
	// exactly 0.
	GraftFailureMultiplier float64 `json:"graft_failure_multiplier" yaml:"graft_failure_multiplier"`

	// MortalityMultiplier scales the alternative-organ post-transplant
	// death hazard relative to its calibrated baseline.
	MortalityMultiplier float64 `json:"mortality_multiplier" yaml:"mortality_multiplier"`

	Supply SupplyLevel `json:"supply" yaml:"supply"`

	// HorizonYears is the simulated duration in whole years.
	HorizonYears int `json:"horizon_years" yaml:"horizon_years"`
}

// Validate rejects unsupported or out-of-range inputs with an
// InvalidParameterError. Validation happens before rate resolution, so a run
// either proceeds with fully sane inputs or not at all.
func (p ScenarioParameters) Validate() error {
	if !p.Threshold.Valid() {
		return invalidParam("threshold", "unsupported tier %q (supported: 80, 85, 90, 95)", string(p.Threshold))
	}
	if err := validMultiplier("graft_failure_multiplier", p.GraftFailureMultiplier); err != nil {
		return err
	}
	if err := validMultiplier("mortality_multiplier", p.MortalityMultiplier); err != nil {
		return err
	}
	if p.Supply.Proportional {
		if p.Supply.Scale < 0 || math.IsNaN(p.Supply.Scale) || math.IsInf(p.Supply.Scale, 0) {
			return invalidParam("supply.scale", "must be a finite value >= 0, got %v", p.Supply.Scale)
		}
	} else if p.Supply.OrgansPerYear < 0 || math.IsNaN(p.Supply.OrgansPerYear) || math.IsInf(p.Supply.OrgansPerYear, 0) {
		return invalidParam("supply.organs_per_year", "must be a finite value >= 0, got %v", p.Supply.OrgansPerYear)
	}
	if p.HorizonYears <= 0 {
		return invalidParam("horizon_years", "must be a positive whole number of years, got %d", p.HorizonYears)
	}
	return nil
}

func validMultiplier(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return invalidParam(field, "must be a finite value >= 0, got %v", v)
	}
	return nil
}
