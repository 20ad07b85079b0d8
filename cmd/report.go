package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	sim "github.com/waitlist-sim/waitlist-sim/sim"
)

// ResultsOutput is the JSON shape written by --output.
type ResultsOutput struct {
	Parameters sim.ScenarioParameters `json:"parameters"`
	Summary    sim.SummaryMetrics     `json:"summary"`
	Series     sim.TimeSeries         `json:"series"`
}

// report prints the summary metrics and yearly series, and writes the JSON
// results file when --output is set.
func report(params sim.ScenarioParameters, series sim.TimeSeries, summary sim.SummaryMetrics) {
	fmt.Println("=== Scenario Summary ===")
	fmt.Printf("Threshold Tier          : cPRA %s\n", params.Threshold)
	fmt.Printf("Horizon                 : %d years\n", params.HorizonYears)
	fmt.Printf("Total Transplants       : %.0f\n", summary.TotalTransplants)
	fmt.Printf("Alternative Transplants : %.0f\n", summary.AlternativeTransplants)
	fmt.Printf("Penetration Rate        : %.1f%%\n", summary.PenetrationRate*100)
	if summary.HasComparison {
		fmt.Printf("Waitlist Reduction      : %.0f\n", summary.WaitlistReduction)
		fmt.Printf("Lives Saved             : %.0f\n", summary.LivesSaved)
	} else {
		fmt.Println("Waitlist Reduction      : n/a (no counterfactual)")
		fmt.Println("Lives Saved             : n/a (no counterfactual)")
	}

	fmt.Println("\nYear  Waitlist  Deaths/yr  Prevented/yr  Alt Transplants")
	for _, rec := range series.Years {
		prevented := "      n/a"
		if series.HasComparison {
			prevented = fmt.Sprintf("%9.1f", rec.PreventedTotal)
		}
		fmt.Printf("%4d  %8.0f  %9.1f  %s  %15.0f\n",
			rec.Year, rec.WaitlistTotal, rec.DeathsTotal, prevented, rec.TransplantsAlternative)
	}

	if outputPath == "" {
		return
	}
	out := ResultsOutput{Parameters: params, Summary: summary, Series: series}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		logrus.Fatalf("Encoding results: %v", err)
	}
	if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
		logrus.Fatalf("Writing results to %s: %v", outputPath, err)
	}
	logrus.Infof("Wrote results to %s", outputPath)
}
