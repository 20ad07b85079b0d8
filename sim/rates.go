package sim

// RateTable holds the absolute flow rates for one scenario, resolved once by
// the Resolver and passed by value into every stepper call. There is no rate
// lookup during stepping.
//
// Arrival and allocation rates are in persons/year and organs/year; hazards
// are per-capita per year and are multiplied by the current compartment size
// each step.
type RateTable struct {
	ArrivalLow  float64 `json:"arrival_low" yaml:"arrival_low"`
	ArrivalHigh float64 `json:"arrival_high" yaml:"arrival_high"`

	// Standard-organ allocation capacity per class. Unused high-priority
	// capacity rolls over to the standard class within a step (see Step).
	AllocationLow  float64 `json:"allocation_low" yaml:"allocation_low"`
	AllocationHigh float64 `json:"allocation_high" yaml:"allocation_high"`

	WaitlistDeathLow  float64 `json:"waitlist_death_low" yaml:"waitlist_death_low"`
	WaitlistDeathHigh float64 `json:"waitlist_death_high" yaml:"waitlist_death_high"`

	PostTransplantDeathStandard    float64 `json:"post_transplant_death_standard" yaml:"post_transplant_death_standard"`
	PostTransplantDeathAlternative float64 `json:"post_transplant_death_alternative" yaml:"post_transplant_death_alternative"`

	GraftFailureStandard    float64 `json:"graft_failure_standard" yaml:"graft_failure_standard"`
	GraftFailureAlternative float64 `json:"graft_failure_alternative" yaml:"graft_failure_alternative"`

	// RelistFraction of graft failures returns to the class waitlist; the
	// remainder is counted as post-transplant deaths so that per-class
	// conservation holds exactly.
	RelistFraction float64 `json:"relist_fraction" yaml:"relist_fraction"`

	AlternativeSupply  float64 `json:"alternative_supply" yaml:"alternative_supply"`
	AcceptanceFraction float64 `json:"acceptance_fraction" yaml:"acceptance_fraction"`

	InitialWaitlistLow  float64 `json:"initial_waitlist_low" yaml:"initial_waitlist_low"`
	InitialWaitlistHigh float64 `json:"initial_waitlist_high" yaml:"initial_waitlist_high"`
}

// Baseline holds the calibration constants for one threshold tier. The
// alternative-organ hazards are the multiplier-1 baselines; Resolve scales
// them by the scenario multipliers.
type Baseline struct {
	ArrivalLow  float64 `yaml:"arrival_low"`
	ArrivalHigh float64 `yaml:"arrival_high"`

	AllocationLow  float64 `yaml:"allocation_low"`
	AllocationHigh float64 `yaml:"allocation_high"`

	WaitlistDeathLow  float64 `yaml:"waitlist_death_low"`
	WaitlistDeathHigh float64 `yaml:"waitlist_death_high"`

	PostTransplantDeathStandard float64 `yaml:"post_transplant_death_standard"`
	GraftFailureStandard        float64 `yaml:"graft_failure_standard"`

	AlternativeDeathHazard   float64 `yaml:"alternative_death_hazard"`
	AlternativeFailureHazard float64 `yaml:"alternative_failure_hazard"`

	RelistFraction float64 `yaml:"relist_fraction"`

	AlternativeSupply  float64 `yaml:"alternative_supply"`
	AcceptanceFraction float64 `yaml:"acceptance_fraction"`

	InitialWaitlistLow  float64 `yaml:"initial_waitlist_low"`
	InitialWaitlistHigh float64 `yaml:"initial_waitlist_high"`
}

// defaultBaselines are the built-in calibration tables, one per supported
// threshold tier. A higher tier means a smaller, sicker and harder-to-match
// high-priority class: fewer standard organs reach it and its waitlist
// mortality is higher.
var defaultBaselines = map[ThresholdClass]Baseline{
	Threshold80: {
		ArrivalLow: 2750, ArrivalHigh: 560,
		AllocationLow: 2450, AllocationHigh: 260,
		WaitlistDeathLow: 0.055, WaitlistDeathHigh: 0.115,
		PostTransplantDeathStandard: 0.028, GraftFailureStandard: 0.035,
		AlternativeDeathHazard: 0.045, AlternativeFailureHazard: 0.095,
		RelistFraction:    0.6,
		AlternativeSupply: 430, AcceptanceFraction: 0.85,
		InitialWaitlistLow: 8200, InitialWaitlistHigh: 2050,
	},
	Threshold85: {
		ArrivalLow: 2800, ArrivalHigh: 420,
		AllocationLow: 2600, AllocationHigh: 180,
		WaitlistDeathLow: 0.06, WaitlistDeathHigh: 0.13,
		PostTransplantDeathStandard: 0.03, GraftFailureStandard: 0.04,
		AlternativeDeathHazard: 0.04, AlternativeFailureHazard: 0.09,
		RelistFraction:    0.6,
		AlternativeSupply: 400, AcceptanceFraction: 0.85,
		InitialWaitlistLow: 8500, InitialWaitlistHigh: 1500,
	},
	Threshold90: {
		ArrivalLow: 2900, ArrivalHigh: 300,
		AllocationLow: 2700, AllocationHigh: 110,
		WaitlistDeathLow: 0.06, WaitlistDeathHigh: 0.14,
		PostTransplantDeathStandard: 0.03, GraftFailureStandard: 0.04,
		AlternativeDeathHazard: 0.042, AlternativeFailureHazard: 0.1,
		RelistFraction:    0.6,
		AlternativeSupply: 360, AcceptanceFraction: 0.85,
		InitialWaitlistLow: 8900, InitialWaitlistHigh: 1050,
	},
	Threshold95: {
		ArrivalLow: 2980, ArrivalHigh: 160,
		AllocationLow: 2760, AllocationHigh: 50,
		WaitlistDeathLow: 0.062, WaitlistDeathHigh: 0.15,
		PostTransplantDeathStandard: 0.03, GraftFailureStandard: 0.04,
		AlternativeDeathHazard: 0.045, AlternativeFailureHazard: 0.11,
		RelistFraction:    0.6,
		AlternativeSupply: 300, AcceptanceFraction: 0.85,
		InitialWaitlistLow: 9300, InitialWaitlistHigh: 560,
	},
}

// Resolver turns ScenarioParameters into an absolute RateTable. It owns a
// private copy of the baseline tables so that calibration overrides never
// leak between resolver instances.
type Resolver struct {
	baselines map[ThresholdClass]Baseline
}

// NewResolver constructs a Resolver with the built-in calibration tables.
func NewResolver() *Resolver {
	b := make(map[ThresholdClass]Baseline, len(defaultBaselines))
	for tc, base := range defaultBaselines {
		b[tc] = base
	}
	return &Resolver{baselines: b}
}

// SetBaseline replaces the calibration constants for one tier, typically from
// a calibration file loaded by the host.
func (r *Resolver) SetBaseline(tc ThresholdClass, b Baseline) {
	r.baselines[tc] = b
}

// Baseline returns the calibration constants for a tier.
func (r *Resolver) Baseline(tc ThresholdClass) (Baseline, bool) {
	b, ok := r.baselines[tc]
	return b, ok
}

// Resolve produces the RateTable for the given parameters. Unknown tiers and
// out-of-range inputs are rejected with InvalidParameterError; there is no
// silent fallback to a default tier. Pure function of its inputs.
func (r *Resolver) Resolve(p ScenarioParameters) (RateTable, error) {
	if err := p.Validate(); err != nil {
		return RateTable{}, err
	}
	base, ok := r.baselines[p.Threshold]
	if !ok {
		return RateTable{}, invalidParam("threshold", "no calibration table for tier %q", string(p.Threshold))
	}

	supply := p.Supply.OrgansPerYear
	if p.Supply.Proportional {
		supply = base.AlternativeSupply * p.Supply.Scale
	}

	return RateTable{
		ArrivalLow:  base.ArrivalLow,
		ArrivalHigh: base.ArrivalHigh,

		AllocationLow:  base.AllocationLow,
		AllocationHigh: base.AllocationHigh,

		WaitlistDeathLow:  base.WaitlistDeathLow,
		WaitlistDeathHigh: base.WaitlistDeathHigh,

		PostTransplantDeathStandard:    base.PostTransplantDeathStandard,
		PostTransplantDeathAlternative: base.AlternativeDeathHazard * p.MortalityMultiplier,

		GraftFailureStandard:    base.GraftFailureStandard,
		GraftFailureAlternative: base.AlternativeFailureHazard * p.GraftFailureMultiplier,

		RelistFraction: base.RelistFraction,

		AlternativeSupply:  supply,
		AcceptanceFraction: base.AcceptanceFraction,

		InitialWaitlistLow:  base.InitialWaitlistLow,
		InitialWaitlistHigh: base.InitialWaitlistHigh,
	}, nil
}
