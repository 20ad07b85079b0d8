package sim

// ScenarioPolicy selects the allocation variant for a trajectory. The
// counterfactual and intervention scenarios share one stepper and differ only
// through this value, so the two step paths cannot drift apart.
type ScenarioPolicy struct {
	// AlternativeEnabled activates alternative-organ allocation. When
	// false the alternative supply is ignored entirely, which is
	// equivalent to a supply of 0.
	AlternativeEnabled bool
}

// CounterfactualPolicy is the no-intervention variant: standard organs only.
func CounterfactualPolicy() ScenarioPolicy {
	return ScenarioPolicy{}
}

// InterventionPolicy is the variant with alternative-organ allocation active.
func InterventionPolicy() ScenarioPolicy {
	return ScenarioPolicy{AlternativeEnabled: true}
}
