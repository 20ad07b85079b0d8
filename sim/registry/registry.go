// Package registry maintains named scenario configurations in a single JSON
// file with a bidirectional name ↔ parameters mapping. The reverse direction
// is keyed by a hash of the canonical parameter encoding, so a parameter
// tuple can be resolved to the name of its precomputed dataset without
// re-running the engine.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/waitlist-sim/waitlist-sim/sim"
)

// ErrNameTaken is returned by Save when the requested name already maps to a
// different configuration and overwrite was not requested.
var ErrNameTaken = errors.New("scenario name already taken")

// Registry is a file-backed scenario catalogue. Not safe for concurrent use;
// callers serialize access.
type Registry struct {
	path string
	data file
}

type file struct {
	NameToConfig map[string]sim.ScenarioParameters `json:"name_to_config"`
	ConfigToName map[string]string                 `json:"config_to_name"`
}

// Open loads the registry at path, creating an empty one in memory if the
// file does not exist yet. The file is only written by Save.
func Open(path string) (*Registry, error) {
	r := &Registry{
		path: path,
		data: file{
			NameToConfig: map[string]sim.ScenarioParameters{},
			ConfigToName: map[string]string{},
		},
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	if err := json.Unmarshal(raw, &r.data); err != nil {
		return nil, fmt.Errorf("decoding registry %s: %w", path, err)
	}
	if r.data.NameToConfig == nil {
		r.data.NameToConfig = map[string]sim.ScenarioParameters{}
	}
	if r.data.ConfigToName == nil {
		r.data.ConfigToName = map[string]string{}
	}
	return r, nil
}

// Fingerprint returns the canonical hash of a parameter tuple. Two
// ScenarioParameters values have equal fingerprints exactly when every field
// is equal.
func Fingerprint(p sim.ScenarioParameters) string {
	// json.Marshal on a struct emits fields in declaration order, so the
	// encoding is canonical.
	raw, err := json.Marshal(p)
	if err != nil {
		// ScenarioParameters holds only plain scalars; Marshal cannot
		// fail on it.
		panic(fmt.Sprintf("marshaling parameters: %v", err))
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Save records the configuration under name and persists the file.
//
// If the configuration already exists under another name, that name is
// returned unchanged unless overwrite is set. If the name already maps to a
// different configuration, Save fails with ErrNameTaken unless overwrite is
// set. An empty name derives one from the fingerprint.
func (r *Registry) Save(name string, p sim.ScenarioParameters, overwrite bool) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	hash := Fingerprint(p)
	if name == "" {
		name = "scenario-" + hash[:8]
	}

	if existing, ok := r.data.ConfigToName[hash]; ok {
		if existing == name {
			return name, nil
		}
		if !overwrite {
			return existing, nil
		}
	}
	if existing, ok := r.data.NameToConfig[name]; ok {
		existingHash := Fingerprint(existing)
		if existingHash == hash {
			return name, nil
		}
		if !overwrite {
			return "", fmt.Errorf("%w: %q", ErrNameTaken, name)
		}
		// Drop the stale reverse mapping unless some other name still
		// claims it.
		if r.data.ConfigToName[existingHash] == name {
			delete(r.data.ConfigToName, existingHash)
		}
	}

	r.data.NameToConfig[name] = p
	r.data.ConfigToName[hash] = name
	if err := r.flush(); err != nil {
		return "", err
	}
	return name, nil
}

// Get returns the configuration stored under name.
func (r *Registry) Get(name string) (sim.ScenarioParameters, bool) {
	p, ok := r.data.NameToConfig[name]
	return p, ok
}

// NameFor resolves a parameter tuple to its stored name, if any.
func (r *Registry) NameFor(p sim.ScenarioParameters) (string, bool) {
	name, ok := r.data.ConfigToName[Fingerprint(p)]
	return name, ok
}

// Names lists all stored scenario names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.data.NameToConfig))
	for name := range r.data.NameToConfig {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) flush() error {
	raw, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	return nil
}
