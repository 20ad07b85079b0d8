package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/waitlist-sim/waitlist-sim/sim/registry"
)

var (
	scenarioName      string // name under which to register the scenario
	scenarioOverwrite bool   // replace an existing name/config mapping
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Manage the named scenario registry",
}

var scenariosListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		reg, err := registry.Open(envCfg.RegistryPath())
		if err != nil {
			logrus.Fatalf("Opening registry: %v", err)
		}
		names := reg.Names()
		if len(names) == 0 {
			fmt.Println("No scenarios registered.")
			return
		}
		for _, name := range names {
			p, _ := reg.Get(name)
			fmt.Printf("%-24s tier=%s graft=%.2f mortality=%.2f horizon=%dy\n",
				name, p.Threshold, p.GraftFailureMultiplier, p.MortalityMultiplier, p.HorizonYears)
		}
	},
}

var scenariosSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Register the scenario described by the run flags",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		reg, err := registry.Open(envCfg.RegistryPath())
		if err != nil {
			logrus.Fatalf("Opening registry: %v", err)
		}
		name, err := reg.Save(scenarioName, scenarioFromFlags(), scenarioOverwrite)
		if err != nil {
			logrus.Fatalf("Saving scenario: %v", err)
		}
		fmt.Printf("Scenario registered as %q\n", name)
	},
}

var scenariosResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Look up the registered name for the scenario described by the run flags",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		reg, err := registry.Open(envCfg.RegistryPath())
		if err != nil {
			logrus.Fatalf("Opening registry: %v", err)
		}
		name, ok := reg.NameFor(scenarioFromFlags())
		if !ok {
			fmt.Println("No registered scenario matches these parameters.")
			return
		}
		fmt.Println(name)
	},
}

func init() {
	for _, sub := range []*cobra.Command{scenariosSaveCmd, scenariosResolveCmd} {
		sub.Flags().StringVar(&threshold, "threshold", "85", "cPRA percentile tier (80, 85, 90, 95)")
		sub.Flags().Float64Var(&graftMultiplier, "graft-failure-multiplier", 1.0, "Alternative-organ graft-failure hazard multiplier")
		sub.Flags().Float64Var(&deathMultiplier, "mortality-multiplier", 1.0, "Alternative-organ post-transplant death hazard multiplier")
		sub.Flags().Float64Var(&supplyAbsolute, "supply", -1, "Alternative-organ supply in organs/year (overrides --supply-scale when >= 0)")
		sub.Flags().Float64Var(&supplyScale, "supply-scale", 1.0, "Alternative-organ supply relative to the tier baseline")
		sub.Flags().IntVar(&horizonYears, "horizon", 10, "Simulated duration in whole years")
		sub.Flags().StringVar(&logLevel, "log", envCfg.LogLevel, "Log level (trace, debug, info, warn, error, fatal, panic)")
	}
	scenariosSaveCmd.Flags().StringVar(&scenarioName, "name", "", "Scenario name (derived from the parameter hash when empty)")
	scenariosSaveCmd.Flags().BoolVar(&scenarioOverwrite, "overwrite", false, "Replace an existing name or configuration mapping")
	scenariosListCmd.Flags().StringVar(&logLevel, "log", envCfg.LogLevel, "Log level (trace, debug, info, warn, error, fatal, panic)")

	scenariosCmd.AddCommand(scenariosListCmd, scenariosSaveCmd, scenariosResolveCmd)
	rootCmd.AddCommand(scenariosCmd)
}
