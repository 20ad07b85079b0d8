package sim

import "github.com/sirupsen/logrus"

// DefaultDT is the step size in years: quarterly resolution.
const DefaultDT = 0.25

// Trajectory is an ordered, time-indexed sequence of snapshots. Trajectories
// produced by the Runner are sampled on a fixed dt grid; trajectories loaded
// from a precomputed dataset may be irregular (see Nearest and series.go).
// Immutable after construction.
type Trajectory struct {
	Snapshots []PopulationSnapshot `json:"snapshots"`
}

// Len returns the number of snapshots, including the initial one at time 0.
func (t Trajectory) Len() int { return len(t.Snapshots) }

// Final returns the last snapshot. Zero value if the trajectory is empty.
func (t Trajectory) Final() PopulationSnapshot {
	if len(t.Snapshots) == 0 {
		return PopulationSnapshot{}
	}
	return t.Snapshots[len(t.Snapshots)-1]
}

// Nearest returns the snapshot whose time is closest to t, provided the gap
// is within tol years. Unmatched lookups report ok=false rather than
// fabricating a zero snapshot.
func (t Trajectory) Nearest(at, tol float64) (PopulationSnapshot, bool) {
	best := -1
	bestGap := tol
	for i, s := range t.Snapshots {
		gap := s.Time - at
		if gap < 0 {
			gap = -gap
		}
		if gap <= bestGap {
			best = i
			bestGap = gap
		}
	}
	if best < 0 {
		return PopulationSnapshot{}, false
	}
	return t.Snapshots[best], true
}

// RunResult bundles the two trajectories of one run with the inputs that
// produced them.
type RunResult struct {
	Params         ScenarioParameters `json:"params"`
	Rates          RateTable          `json:"rates"`
	Counterfactual Trajectory         `json:"counterfactual"`
	Intervention   Trajectory         `json:"intervention"`
}

// Runner advances both scenarios over the full horizon. The zero value is not
// usable; construct with NewRunner.
type Runner struct {
	resolver *Resolver
	dt       float64
}

// NewRunner builds a Runner. A nil resolver selects the built-in calibration
// tables; a non-positive dt selects DefaultDT.
func NewRunner(resolver *Resolver, dt float64) *Runner {
	if resolver == nil {
		resolver = NewResolver()
	}
	if dt <= 0 {
		dt = DefaultDT
	}
	return &Runner{resolver: resolver, dt: dt}
}

// Run validates and resolves the parameters, then produces the counterfactual
// and intervention trajectories. Both start from the same initial snapshot
// and share the stepper; the counterfactual simply has alternative-organ
// allocation disabled. The trajectories share no mutable state.
func (r *Runner) Run(params ScenarioParameters) (*RunResult, error) {
	rates, err := r.resolver.Resolve(params)
	if err != nil {
		return nil, err
	}

	steps := int(float64(params.HorizonYears)/r.dt + 0.5)
	logrus.Infof("running scenario tier=%s horizon=%dy steps=%d supply=%.1f/y",
		params.Threshold, params.HorizonYears, steps, rates.AlternativeSupply)

	result := &RunResult{
		Params:         params,
		Rates:          rates,
		Counterfactual: r.trajectory(rates, CounterfactualPolicy(), steps),
		Intervention:   r.trajectory(rates, InterventionPolicy(), steps),
	}

	logrus.Debugf("run complete: counterfactual waitlist=%.1f intervention waitlist=%.1f",
		result.Counterfactual.Final().WaitlistTotal(), result.Intervention.Final().WaitlistTotal())
	return result, nil
}

func (r *Runner) trajectory(rates RateTable, policy ScenarioPolicy, steps int) Trajectory {
	snapshots := make([]PopulationSnapshot, 0, steps+1)
	s := initialSnapshot(rates)
	snapshots = append(snapshots, s)
	for i := 0; i < steps; i++ {
		s = Step(s, rates, policy, r.dt)
		snapshots = append(snapshots, s)
	}
	return Trajectory{Snapshots: snapshots}
}

// Run is a convenience wrapper over NewRunner with the built-in calibration
// tables and the default quarterly step.
func Run(params ScenarioParameters) (*RunResult, error) {
	return NewRunner(nil, 0).Run(params)
}
