package harness

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/demoreplay/internal/replay"
)

//go:embed schema.cue
var schemaSource string

// Scenario is one demo replay and what it is expected to report.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the demo exercises.
	Description string `yaml:"description"`

	// Demo is the recorded input file, relative to the layout's demo dir.
	Demo string `yaml:"demo"`

	// IWAD overrides the base archive (default DOOM2.WAD).
	IWAD string `yaml:"iwad,omitempty"`

	// PWAD is an optional patch archive.
	PWAD string `yaml:"pwad,omitempty"`

	Expect Expectations `yaml:"expect"`
}

// Config returns the replay configuration for the scenario.
func (s *Scenario) Config() replay.Config {
	return replay.Config{Demo: s.Demo, IWAD: s.IWAD, PWAD: s.PWAD}
}

// Expectations lists the checks run against an Outcome. Nil fields are not
// checked.
type Expectations struct {
	ExitSuccess    *bool   `yaml:"exit_success,omitempty"`
	Pacifist       *bool   `yaml:"pacifist,omitempty"`
	Reality        *bool   `yaml:"reality,omitempty"`
	AlmostReality  *bool   `yaml:"almost_reality,omitempty"`
	HundredK       *bool   `yaml:"hundred_k,omitempty"`
	TysonWeapons   *bool   `yaml:"tyson_weapons,omitempty"`
	MissedMonsters *int    `yaml:"missed_monsters,omitempty"`
	MissedSecrets  *int    `yaml:"missed_secrets,omitempty"`
	Total          *string `yaml:"total,omitempty"`

	// Analysis compares raw analysis values by key. Numbers in YAML are
	// compared as their text.
	Analysis map[string]string `yaml:"analysis,omitempty"`
}

// empty reports whether no expectation is set.
func (e *Expectations) empty() bool {
	return e.ExitSuccess == nil &&
		e.Pacifist == nil &&
		e.Reality == nil &&
		e.AlmostReality == nil &&
		e.HundredK == nil &&
		e.TysonWeapons == nil &&
		e.MissedMonsters == nil &&
		e.MissedSecrets == nil &&
		e.Total == nil &&
		len(e.Analysis) == 0
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, fails the schema,
// contains unknown fields, or sets no expectation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return LoadScenarioBytes(path, data)
}

// LoadScenarioBytes parses a scenario from data. name is used in errors.
func LoadScenarioBytes(name string, data []byte) (*Scenario, error) {
	if err := checkSchema(name, data); err != nil {
		return nil, err
	}

	// Parse YAML with strict field validation
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// The CUE context is not safe for concurrent use; schemaMu guards it.
var (
	schemaMu   sync.Mutex
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

// scenarioSchema compiles the embedded schema once.
func scenarioSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compile scenario schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Scenario"))
		schemaErr = schemaDef.Err()
	})
	return schemaCtx, schemaDef, schemaErr
}

// checkSchema unifies the raw YAML document with #Scenario.
func checkSchema(name string, data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("invalid scenario: %s is empty", name)
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	ctx, def, err := scenarioSchema()
	if err != nil {
		return err
	}

	doc := ctx.Encode(raw)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema violation in %s: %w", name, err)
	}
	return nil
}

// validateScenario checks what the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Demo == "" {
		return errors.New("demo is required")
	}
	if s.Expect.empty() {
		return errors.New("expect must set at least one expectation")
	}
	return nil
}
