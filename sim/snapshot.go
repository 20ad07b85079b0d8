package sim

// PopulationSnapshot is a point-in-time record of all compartment sizes.
//
// Waitlist and Recipients* fields are living populations and may rise or
// fall; Transplants*, Deaths* and GraftFailures* fields are cumulative
// counters and never decrease. All fields are >= 0 at every step; the stepper
// clamps every outflow to the current compartment size.
//
// Counts are fractional persons: the model is a discretized continuous-time
// compartmental system, not an event simulation.
type PopulationSnapshot struct {
	// Time in years since the start of the run.
	Time float64 `json:"time"`

	WaitlistLow  float64 `json:"waitlist_low"`
	WaitlistHigh float64 `json:"waitlist_high"`

	// Living recipient pools, tracked separately per class and organ
	// source so recipient-side hazards never need share-of-pool
	// apportionment.
	RecipientsLowStandard     float64 `json:"recipients_low_standard"`
	RecipientsHighStandard    float64 `json:"recipients_high_standard"`
	RecipientsHighAlternative float64 `json:"recipients_high_alternative"`

	// Cumulative transplant counts per class and organ source.
	TransplantsLowStandard     float64 `json:"transplants_low_standard"`
	TransplantsHighStandard    float64 `json:"transplants_high_standard"`
	TransplantsHighAlternative float64 `json:"transplants_high_alternative"`

	// Cumulative deaths split by cause and class. Post-transplant deaths
	// include the non-relisted share of graft failures.
	DeathsWaitlistLow        float64 `json:"deaths_waitlist_low"`
	DeathsWaitlistHigh       float64 `json:"deaths_waitlist_high"`
	DeathsPostTransplantLow  float64 `json:"deaths_post_transplant_low"`
	DeathsPostTransplantHigh float64 `json:"deaths_post_transplant_high"`

	// Cumulative graft failures per organ source.
	GraftFailuresStandard    float64 `json:"graft_failures_standard"`
	GraftFailuresAlternative float64 `json:"graft_failures_alternative"`
}

// initialSnapshot builds the shared starting state for both scenarios of a
// run from the tier's calibrated waitlist sizes.
func initialSnapshot(rates RateTable) PopulationSnapshot {
	return PopulationSnapshot{
		WaitlistLow:  rates.InitialWaitlistLow,
		WaitlistHigh: rates.InitialWaitlistHigh,
	}
}

// WaitlistTotal is the combined waitlist size across both classes.
func (s PopulationSnapshot) WaitlistTotal() float64 {
	return s.WaitlistLow + s.WaitlistHigh
}

// DeathsLow is the cumulative death count for the standard-priority class.
func (s PopulationSnapshot) DeathsLow() float64 {
	return s.DeathsWaitlistLow + s.DeathsPostTransplantLow
}

// DeathsHigh is the cumulative death count for the high-priority class.
func (s PopulationSnapshot) DeathsHigh() float64 {
	return s.DeathsWaitlistHigh + s.DeathsPostTransplantHigh
}

// DeathsTotal is the cumulative death count across classes and causes.
func (s PopulationSnapshot) DeathsTotal() float64 {
	return s.DeathsLow() + s.DeathsHigh()
}

// TransplantsTotal is the cumulative transplant count across classes and
// organ sources.
func (s PopulationSnapshot) TransplantsTotal() float64 {
	return s.TransplantsLowStandard + s.TransplantsHighStandard + s.TransplantsHighAlternative
}

// AccountLow is the conserved per-class total for the standard-priority
// class: waitlist + living recipients + cumulative deaths. Between
// consecutive steps it grows by exactly that step's arrivals.
func (s PopulationSnapshot) AccountLow() float64 {
	return s.WaitlistLow + s.RecipientsLowStandard + s.DeathsLow()
}

// AccountHigh is the conserved per-class total for the high-priority class.
func (s PopulationSnapshot) AccountHigh() float64 {
	return s.WaitlistHigh + s.RecipientsHighStandard + s.RecipientsHighAlternative + s.DeathsHigh()
}
