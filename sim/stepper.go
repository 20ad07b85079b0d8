package sim

import "math"

// Step advances one snapshot by dt years under the given rates and policy.
//
// The flow order is canonical and later flows read compartment sizes already
// updated by earlier ones:
//
//  1. arrivals join each class's waitlist
//  2. alternative-organ allocation (policy-enabled only) moves accepted
//     high-priority patients to the alternative recipient pool
//  3. standard-organ allocation, high-priority class first; capacity the
//     high class cannot use is added to the standard class in the same step
//  4. waitlist deaths
//  5. recipient-side hazards per pool: graft failure first, then
//     post-transplant death on the remaining pool; the relist fraction of
//     failures returns to the class waitlist and the rest is counted as
//     post-transplant deaths
//
// Every outflow is clamped to the current compartment size, so no compartment
// ever goes negative. Clamping is the only conflict-resolution rule.
func Step(s PopulationSnapshot, rates RateTable, policy ScenarioPolicy, dt float64) PopulationSnapshot {
	n := s
	n.Time = s.Time + dt

	// 1. arrivals
	n.WaitlistLow += rates.ArrivalLow * dt
	n.WaitlistHigh += rates.ArrivalHigh * dt

	// 2. alternative-organ allocation
	if policy.AlternativeEnabled {
		offered := rates.AlternativeSupply * dt
		accepted := math.Min(offered*rates.AcceptanceFraction, n.WaitlistHigh)
		n.WaitlistHigh -= accepted
		n.RecipientsHighAlternative += accepted
		n.TransplantsHighAlternative += accepted
	}

	// 3. standard-organ allocation; unused high-priority capacity rolls
	// over so unmet demand is never wasted
	capHigh := rates.AllocationHigh * dt
	capLow := rates.AllocationLow * dt
	allocHigh := math.Min(capHigh, n.WaitlistHigh)
	capLow += capHigh - allocHigh
	allocLow := math.Min(capLow, n.WaitlistLow)
	n.WaitlistHigh -= allocHigh
	n.RecipientsHighStandard += allocHigh
	n.TransplantsHighStandard += allocHigh
	n.WaitlistLow -= allocLow
	n.RecipientsLowStandard += allocLow
	n.TransplantsLowStandard += allocLow

	// 4. waitlist deaths
	dLow := math.Min(rates.WaitlistDeathLow*n.WaitlistLow*dt, n.WaitlistLow)
	n.WaitlistLow -= dLow
	n.DeathsWaitlistLow += dLow
	dHigh := math.Min(rates.WaitlistDeathHigh*n.WaitlistHigh*dt, n.WaitlistHigh)
	n.WaitlistHigh -= dHigh
	n.DeathsWaitlistHigh += dHigh

	// 5. recipient-side hazards, one pool at a time
	fail, death, relist := drainPool(&n.RecipientsLowStandard,
		rates.GraftFailureStandard, rates.PostTransplantDeathStandard, rates.RelistFraction, dt)
	n.WaitlistLow += relist
	n.GraftFailuresStandard += fail
	n.DeathsPostTransplantLow += death + (fail - relist)

	fail, death, relist = drainPool(&n.RecipientsHighStandard,
		rates.GraftFailureStandard, rates.PostTransplantDeathStandard, rates.RelistFraction, dt)
	n.WaitlistHigh += relist
	n.GraftFailuresStandard += fail
	n.DeathsPostTransplantHigh += death + (fail - relist)

	fail, death, relist = drainPool(&n.RecipientsHighAlternative,
		rates.GraftFailureAlternative, rates.PostTransplantDeathAlternative, rates.RelistFraction, dt)
	n.WaitlistHigh += relist
	n.GraftFailuresAlternative += fail
	n.DeathsPostTransplantHigh += death + (fail - relist)

	return n
}

// drainPool applies graft failure and then post-transplant death to one
// living recipient pool, each clamped to the remaining pool size. It returns
// the failure count, the death count and the relisted share of failures.
func drainPool(pool *float64, failHazard, deathHazard, relistFraction, dt float64) (fail, death, relist float64) {
	fail = math.Min(failHazard**pool*dt, *pool)
	*pool -= fail
	death = math.Min(deathHazard**pool*dt, *pool)
	*pool -= death
	relist = fail * relistFraction
	return fail, death, relist
}
