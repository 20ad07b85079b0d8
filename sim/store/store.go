// Package store persists and retrieves precomputed scenario trajectories in
// a local SQLite database, keyed by dataset name and scenario kind. It is the
// data-fetch collaborator of the engine: a host that has already computed (or
// downloaded) trajectories can feed them to the aggregator without re-running
// the simulation.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/waitlist-sim/waitlist-sim/sim"
)

// Scenario kinds stored per dataset.
const (
	ScenarioCounterfactual = "counterfactual"
	ScenarioIntervention   = "intervention"
)

// ErrNotFound is returned when a dataset has no stored trajectory for the
// requested scenario kind.
var ErrNotFound = errors.New("dataset not found")

// Store is a SQLite-backed dataset catalogue. Trajectories are stored as
// JSON blobs; the table is keyed by (name, scenario).
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary initializes) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS datasets (
		name TEXT NOT NULL,
		scenario TEXT NOT NULL,
		payload BLOB NOT NULL,
		PRIMARY KEY (name, scenario)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create datasets table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores or replaces one scenario trajectory of a dataset.
func (s *Store) Put(name, scenario string, t sim.Trajectory) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encoding trajectory: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO datasets (name, scenario, payload) VALUES (?, ?, ?)
		 ON CONFLICT(name, scenario) DO UPDATE SET payload = excluded.payload`,
		name, scenario, payload); err != nil {
		return fmt.Errorf("storing dataset %s/%s: %w", name, scenario, err)
	}
	return nil
}

// PutResult stores both trajectories of a run under one dataset name.
func (s *Store) PutResult(name string, result *sim.RunResult) error {
	if err := s.Put(name, ScenarioCounterfactual, result.Counterfactual); err != nil {
		return err
	}
	return s.Put(name, ScenarioIntervention, result.Intervention)
}

// Get retrieves one scenario trajectory of a dataset. A missing row reports
// ErrNotFound.
func (s *Store) Get(name, scenario string) (sim.Trajectory, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT payload FROM datasets WHERE name = ? AND scenario = ?`,
		name, scenario).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return sim.Trajectory{}, fmt.Errorf("%w: %s/%s", ErrNotFound, name, scenario)
	}
	if err != nil {
		return sim.Trajectory{}, fmt.Errorf("loading dataset %s/%s: %w", name, scenario, err)
	}
	var t sim.Trajectory
	if err := json.Unmarshal(payload, &t); err != nil {
		return sim.Trajectory{}, fmt.Errorf("decoding dataset %s/%s: %w", name, scenario, err)
	}
	return t, nil
}

// GetPair retrieves both scenarios of a dataset. A missing intervention is an
// error; a missing counterfactual is not — the pair is returned with a nil
// counterfactual and the caller aggregates in comparison-free mode.
func (s *Store) GetPair(name string) (counterfactual *sim.Trajectory, intervention sim.Trajectory, err error) {
	intervention, err = s.Get(name, ScenarioIntervention)
	if err != nil {
		return nil, sim.Trajectory{}, err
	}
	cf, err := s.Get(name, ScenarioCounterfactual)
	if errors.Is(err, ErrNotFound) {
		return nil, intervention, nil
	}
	if err != nil {
		return nil, sim.Trajectory{}, err
	}
	return &cf, intervention, nil
}

// Names lists all stored dataset names in sorted order.
func (s *Store) Names() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT name FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
