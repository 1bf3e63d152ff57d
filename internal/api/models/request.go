package models

import "flexmarket/internal/config"

// RunRequest configures a clearing run over the wire. The shape mirrors the
// YAML configuration file; absent sections fall back to the same defaults.
type RunRequest struct {
	Benchmark bool           `json:"benchmark"`
	General   GeneralPayload `json:"general"`
	Options   OptionsPayload `json:"options"`
	Solver    SolverPayload  `json:"solver"`
	DataPaths PathsPayload   `json:"data_paths"`

	// IncludeAwards adds the full award tables to the response.
	IncludeAwards bool `json:"include_awards"`
}

type GeneralPayload struct {
	NumPeriods    int `json:"num_periods"`
	NumScenarios  int `json:"num_scenarios"`
	NumGenerators int `json:"num_generators"`
	NumTiers      int `json:"num_tiers"`
	NumStorage    int `json:"num_storage"`
}

type OptionsPayload struct {
	PenaltyUp        float64   `json:"penalty_up"`
	PenaltyDown      float64   `json:"penalty_down"`
	TieBreak         float64   `json:"tie_break"`
	DemandCostLinear float64   `json:"demand_cost_linear"`
	DemandCostQuad   float64   `json:"demand_cost_quadratic"`
	TierProbUp       []float64 `json:"tier_prob_up"`
	TierProbDown     []float64 `json:"tier_prob_down"`
}

type SolverPayload struct {
	Name       string   `json:"name"`
	Executable string   `json:"executable"`
	Options    []string `json:"options"`
}

// PathsPayload names server-local CSV tables; the API is a front end to the
// same datasets the CLI reads.
type PathsPayload struct {
	Generators string `json:"generators"`
	Storage    string `json:"storage"`
	Demand     string `json:"demand"`
	Renewable  string `json:"renewable"`
}

// ToConfig converts the request into a defaulted, validated configuration.
func (r RunRequest) ToConfig() (*config.Config, error) {
	cfg := &config.Config{
		Benchmark: r.Benchmark,
		General: config.GeneralConfig{
			NumPeriods:    r.General.NumPeriods,
			NumScenarios:  r.General.NumScenarios,
			NumGenerators: r.General.NumGenerators,
			NumTiers:      r.General.NumTiers,
			NumStorage:    r.General.NumStorage,
		},
		Options: config.OptionsConfig{
			PenaltyUp:        r.Options.PenaltyUp,
			PenaltyDown:      r.Options.PenaltyDown,
			TieBreak:         r.Options.TieBreak,
			DemandCostLinear: r.Options.DemandCostLinear,
			DemandCostQuad:   r.Options.DemandCostQuad,
			TierProbUp:       r.Options.TierProbUp,
			TierProbDown:     r.Options.TierProbDown,
		},
		Solver: config.SolverConfig{
			Name:       r.Solver.Name,
			Executable: r.Solver.Executable,
			Options:    r.Solver.Options,
		},
		DataPaths: config.DataPaths{
			Generators: r.DataPaths.Generators,
			Storage:    r.DataPaths.Storage,
			Demand:     r.DataPaths.Demand,
			Renewable:  r.DataPaths.Renewable,
		},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
