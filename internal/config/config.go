package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"flexmarket/internal/model"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Benchmark selects the built-in regression dataset; data_paths and
	// general are ignored when set.
	Benchmark bool `yaml:"benchmark"`

	General           GeneralConfig     `yaml:"general"`
	Options           OptionsConfig     `yaml:"options"`
	Solver            SolverConfig      `yaml:"solver"`
	DataPaths         DataPaths         `yaml:"data_paths"`
	ScenarioSelection ScenarioSelection `yaml:"scenario_selection"`
	Batch             BatchConfig       `yaml:"batch"`

	OutputDir string `yaml:"output_dir"`
}

// GeneralConfig sizes the index sets of a file-backed dataset. Counts act as
// caps on the loaded tables: a table with more rows than the count is
// truncated, fewer is an error.
type GeneralConfig struct {
	NumPeriods    int `yaml:"num_periods"`
	NumScenarios  int `yaml:"num_scenarios"`
	NumGenerators int `yaml:"num_generators"`
	NumTiers      int `yaml:"num_tiers"`
	NumStorage    int `yaml:"num_storage"`
}

// OptionsConfig carries the market-wide flexibility parameters.
type OptionsConfig struct {
	PenaltyUp        float64 `yaml:"penalty_up"`
	PenaltyDown      float64 `yaml:"penalty_down"`
	TieBreak         float64 `yaml:"tie_break"`
	DemandCostLinear float64 `yaml:"demand_cost_linear"`
	DemandCostQuad   float64 `yaml:"demand_cost_quadratic"`
	// Empty tier probability vectors default to the uniform ladder
	// (tier r exercises up with likelihood r/S, down with (S-r)/S).
	TierProbUp   []float64 `yaml:"tier_prob_up"`
	TierProbDown []float64 `yaml:"tier_prob_down"`
}

type SolverConfig struct {
	Name       string   `yaml:"name"`
	Executable string   `yaml:"executable"`
	Options    []string `yaml:"options"`
}

// DataPaths locate the CSV input tables for a file-backed run.
type DataPaths struct {
	Generators string `yaml:"generators"`
	Storage    string `yaml:"storage"`
	Demand     string `yaml:"demand"`
	Renewable  string `yaml:"renewable"`
	// RawSimulations optionally points at the raw weather-simulation table;
	// when set, batch runs draw fresh scenario files from it per replicate.
	RawSimulations string `yaml:"raw_simulations"`
}

// ScenarioSelection controls how batch replicates pick scenario columns from
// the raw simulation table.
type ScenarioSelection struct {
	// Criteria is "random" (sample without replacement) or "first".
	Criteria string `yaml:"criteria"`
	Seed     int64  `yaml:"seed"`
}

type BatchConfig struct {
	Runs int `yaml:"runs"`
	// Workers 0 means NumCPU-1, floored at 1.
	Workers int `yaml:"workers"`
}

// Load reads, defaults and validates a configuration file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config without defaults or validation. Useful for
// debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

// ApplyDefaults fills unset fields with the reference-case values.
func (c *Config) ApplyDefaults() {
	if c.Options.PenaltyUp == 0 {
		c.Options.PenaltyUp = 5000
	}
	if c.Options.PenaltyDown == 0 {
		c.Options.PenaltyDown = 5000
	}
	if c.Options.TieBreak == 0 {
		c.Options.TieBreak = 1e-3
	}
	if c.Options.DemandCostLinear == 0 {
		c.Options.DemandCostLinear = 500
	}
	if c.Solver.Name == "" {
		c.Solver.Name = "glpk"
	}
	if c.Solver.Executable == "" {
		c.Solver.Executable = "glpsol"
	}
	if c.ScenarioSelection.Criteria == "" {
		c.ScenarioSelection.Criteria = "random"
	}
	if c.Batch.Runs == 0 {
		c.Batch.Runs = 1
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if !c.Benchmark {
		if c.DataPaths.Generators == "" {
			return errors.New("data_paths.generators is required for file-backed runs")
		}
		if c.DataPaths.Demand == "" {
			return errors.New("data_paths.demand is required for file-backed runs")
		}
		if c.DataPaths.Renewable == "" && c.DataPaths.RawSimulations == "" {
			return errors.New("one of data_paths.renewable or data_paths.raw_simulations is required")
		}
		if c.General.NumPeriods <= 0 || c.General.NumScenarios <= 0 || c.General.NumTiers <= 0 {
			return errors.New("general.num_periods, num_scenarios and num_tiers must be > 0")
		}
	}
	switch c.ScenarioSelection.Criteria {
	case "random", "first":
	default:
		return fmt.Errorf("scenario_selection.criteria must be \"random\" or \"first\", got %q", c.ScenarioSelection.Criteria)
	}
	if c.Batch.Runs < 1 {
		return errors.New("batch.runs must be >= 1")
	}
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must be >= 0")
	}
	if len(c.Options.TierProbUp) != len(c.Options.TierProbDown) {
		return errors.New("options.tier_prob_up and tier_prob_down must have the same length")
	}
	return nil
}

// ToModelOptions converts the configured flexibility parameters, defaulting
// empty tier probability vectors to the uniform ladder for the given sizes.
func (c *Config) ToModelOptions(tiers, scenarios int) model.Options {
	opt := model.Options{
		PenaltyUp:        c.Options.PenaltyUp,
		PenaltyDown:      c.Options.PenaltyDown,
		TieBreak:         c.Options.TieBreak,
		DemandCostLinear: c.Options.DemandCostLinear,
		DemandCostQuad:   c.Options.DemandCostQuad,
		TierProbUp:       c.Options.TierProbUp,
		TierProbDown:     c.Options.TierProbDown,
	}
	if len(opt.TierProbUp) == 0 {
		opt.TierProbUp = model.LadderProbUp(tiers, scenarios)
	}
	if len(opt.TierProbDown) == 0 {
		opt.TierProbDown = model.LadderProbDown(tiers, scenarios)
	}
	return opt
}
