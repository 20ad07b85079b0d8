package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	sim "github.com/waitlist-sim/waitlist-sim/sim"
)

// CalibrationConfig represents the full calibration YAML structure. Tiers not
// present keep the built-in baselines.
type CalibrationConfig struct {
	Version string                  `yaml:"version"`
	Tiers   map[string]sim.Baseline `yaml:"tiers"`
}

// loadCalibrationConfig parses a calibration file into a CalibrationConfig.
// Uses strict field checking so a typo in a rate name fails loudly instead of
// silently keeping the built-in value.
func loadCalibrationConfig(path string) (CalibrationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CalibrationConfig{}, fmt.Errorf("reading calibration file: %w", err)
	}
	var cfg CalibrationConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return CalibrationConfig{}, fmt.Errorf("parsing calibration YAML %s: %w", path, err)
	}
	for tier := range cfg.Tiers {
		if !sim.ThresholdClass(tier).Valid() {
			return CalibrationConfig{}, fmt.Errorf("calibration file %s: unsupported tier %q", path, tier)
		}
	}
	return cfg, nil
}

// resolverFromCalibration builds a Resolver, applying overrides from the
// calibration file when one is configured. An empty path selects the built-in
// tables.
func resolverFromCalibration(path string) *sim.Resolver {
	resolver := sim.NewResolver()
	if path == "" {
		return resolver
	}
	cfg, err := loadCalibrationConfig(path)
	if err != nil {
		logrus.Fatalf("Loading calibration: %v", err)
	}
	for tier, baseline := range cfg.Tiers {
		resolver.SetBaseline(sim.ThresholdClass(tier), baseline)
	}
	logrus.Infof("Applied calibration overrides for %d tier(s) from %s", len(cfg.Tiers), path)
	return resolver
}
