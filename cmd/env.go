package cmd

import (
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
)

// EnvConfig seeds CLI flag defaults from the environment, so batch jobs can
// point every invocation at the same data directory without repeating flags.
type EnvConfig struct {
	DataDir         string `env:"WAITSIM_DATA_DIR" envDefault:"."`
	LogLevel        string `env:"WAITSIM_LOG" envDefault:"info"`
	CalibrationPath string `env:"WAITSIM_CALIBRATION"`
}

var envCfg EnvConfig

func loadEnvConfig() {
	if err := env.Parse(&envCfg); err != nil {
		logrus.Fatalf("Parsing environment configuration: %v", err)
	}
}

// DataPath is the location of the SQLite dataset store.
func (c EnvConfig) DataPath() string {
	return filepath.Join(c.DataDir, "datasets.db")
}

// RegistryPath is the location of the scenario registry file.
func (c EnvConfig) RegistryPath() string {
	return filepath.Join(c.DataDir, "scenarios.json")
}
