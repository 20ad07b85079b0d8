package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/waitlist-sim/waitlist-sim/sim"
	"github.com/waitlist-sim/waitlist-sim/sim/store"
)

var (
	// CLI flags for the scenario under study
	threshold       string  // cPRA percentile tier splitting the waitlist classes
	graftMultiplier float64 // alternative-organ graft-failure hazard multiplier
	deathMultiplier float64 // alternative-organ post-transplant death hazard multiplier
	supplyAbsolute  float64 // alternative-organ supply in organs/year (-1 = use --supply-scale)
	supplyScale     float64 // alternative-organ supply relative to the tier baseline
	horizonYears    int     // simulated duration in whole years

	// CLI flags for the host environment
	logLevel        string // log verbosity level
	calibrationPath string // optional YAML calibration overrides
	outputPath      string // optional JSON results file
	datasetName     string // aggregate a precomputed dataset instead of running live
	saveDataset     string // store the run's trajectories under this dataset name
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "waitlist-sim",
	Short: "Compartmental organ-waitlist simulator for alternative-organ policy analysis",
}

// runCmd executes a run using parameters from CLI flags and reports the
// comparative series and summary metrics.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the counterfactual and intervention scenarios and compare them",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		params := scenarioFromFlags()

		if datasetName != "" {
			aggregatePrecomputed(datasetName, params.HorizonYears)
			return
		}

		runner := sim.NewRunner(resolverFromCalibration(calibrationPath), sim.DefaultDT)
		result, err := runner.Run(params)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}

		series, summary, err := sim.Aggregate(&result.Counterfactual, result.Intervention, params.HorizonYears)
		if err != nil {
			logrus.Fatalf("Aggregation failed: %v", err)
		}

		if saveDataset != "" {
			st, err := store.Open(envCfg.DataPath())
			if err != nil {
				logrus.Fatalf("Opening dataset store: %v", err)
			}
			defer func() { _ = st.Close() }()
			if err := st.PutResult(saveDataset, result); err != nil {
				logrus.Fatalf("Storing dataset %q: %v", saveDataset, err)
			}
			logrus.Infof("Stored trajectories as dataset %q", saveDataset)
		}

		report(params, series, summary)
	},
}

// aggregatePrecomputed loads a stored dataset, regularizes it onto the
// quarterly grid and aggregates it. The counterfactual half may be absent; in
// that case the comparative fields are omitted from the report.
func aggregatePrecomputed(name string, horizon int) {
	st, err := store.Open(envCfg.DataPath())
	if err != nil {
		logrus.Fatalf("Opening dataset store: %v", err)
	}
	defer func() { _ = st.Close() }()

	cf, iv, err := st.GetPair(name)
	if err != nil {
		logrus.Fatalf("Loading dataset %q: %v", name, err)
	}
	if cf == nil {
		logrus.Warnf("Dataset %q has no counterfactual; reporting without comparative metrics", name)
	}

	iv, err = sim.Regularize(iv, sim.DefaultDT)
	if err != nil {
		logrus.Fatalf("Regularizing intervention series: %v", err)
	}
	if cf != nil {
		regular, err := sim.Regularize(*cf, sim.DefaultDT)
		if err != nil {
			logrus.Fatalf("Regularizing counterfactual series: %v", err)
		}
		cf = &regular
	}

	series, summary, err := sim.Aggregate(cf, iv, horizon)
	if err != nil {
		logrus.Fatalf("Aggregation failed: %v", err)
	}
	report(scenarioFromFlags(), series, summary)
}

// scenarioFromFlags assembles ScenarioParameters from CLI flags. Validation
// happens inside the engine.
func scenarioFromFlags() sim.ScenarioParameters {
	supply := sim.BaselineSupply(supplyScale)
	if supplyAbsolute >= 0 {
		supply = sim.AbsoluteSupply(supplyAbsolute)
	}
	return sim.ScenarioParameters{
		Threshold:              sim.ThresholdClass(threshold),
		GraftFailureMultiplier: graftMultiplier,
		MortalityMultiplier:    deathMultiplier,
		Supply:                 supply,
		HorizonYears:           horizonYears,
	}
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	loadEnvConfig()

	runCmd.Flags().StringVar(&threshold, "threshold", "85", "cPRA percentile tier (80, 85, 90, 95)")
	runCmd.Flags().Float64Var(&graftMultiplier, "graft-failure-multiplier", 1.0, "Alternative-organ graft-failure hazard multiplier")
	runCmd.Flags().Float64Var(&deathMultiplier, "mortality-multiplier", 1.0, "Alternative-organ post-transplant death hazard multiplier")
	runCmd.Flags().Float64Var(&supplyAbsolute, "supply", -1, "Alternative-organ supply in organs/year (overrides --supply-scale when >= 0)")
	runCmd.Flags().Float64Var(&supplyScale, "supply-scale", 1.0, "Alternative-organ supply relative to the tier baseline")
	runCmd.Flags().IntVar(&horizonYears, "horizon", 10, "Simulated duration in whole years")

	runCmd.Flags().StringVar(&logLevel, "log", envCfg.LogLevel, "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&calibrationPath, "calibration", envCfg.CalibrationPath, "YAML file overriding baseline rate tables")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write results as JSON to this path")
	runCmd.Flags().StringVar(&datasetName, "dataset", "", "Aggregate this precomputed dataset instead of running live")
	runCmd.Flags().StringVar(&saveDataset, "save-dataset", "", "Store the run's trajectories under this dataset name")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
