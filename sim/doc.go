// Package sim provides the deterministic compartmental waitlist simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - snapshot.go: PopulationSnapshot compartments and conservation accounting
//   - stepper.go: the single-step flow update and its canonical flow order
//   - runner.go: the trajectory loop that runs the counterfactual and
//     intervention scenarios over the full horizon
//
// # Architecture
//
// The engine is a pure function of its inputs: a ScenarioParameters value is
// validated, resolved into an absolute RateTable by the Resolver (rates.go),
// and advanced through HorizonYears/dt steps by the Runner. Both scenarios
// share one stepper; they differ only in the ScenarioPolicy value (policy.go)
// selecting whether alternative-organ allocation is active. The comparative
// layer (aggregate.go) differences the two trajectories into yearly series and
// horizon summary metrics, aligning sample points by nearest time within a
// tolerance so that irregularly sampled precomputed datasets are handled the
// same way as live quarterly trajectories (series.go).
//
// Supporting sub-packages:
//   - sim/registry/: named scenario configurations (name ↔ parameter mapping)
//   - sim/store/: SQLite-backed precomputed dataset retrieval
//
// No state survives a run; re-running with new parameters recomputes from the
// initial snapshot of the chosen threshold tier.
package sim
