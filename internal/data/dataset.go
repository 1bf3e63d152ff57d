package data

import (
	"fmt"

	"flexmarket/internal/config"
	"flexmarket/internal/model"
)

// BuildDataset assembles a validated model.Dataset from configuration:
// the built-in benchmark, or the CSV tables at cfg.DataPaths sized by
// cfg.General. The configured flexibility options apply in both cases.
func BuildDataset(cfg *config.Config) (*model.Dataset, error) {
	if cfg.Benchmark {
		ds := model.Benchmark()
		ds.Options = cfg.ToModelOptions(ds.Tiers, ds.Scenarios)
		if err := ds.Validate(); err != nil {
			return nil, fmt.Errorf("benchmark dataset: %w", err)
		}
		return ds, nil
	}

	g := cfg.General
	sellers, buyers, err := LoadGenerators(cfg.DataPaths.Generators, g.NumGenerators)
	if err != nil {
		return nil, fmt.Errorf("generators: %w", err)
	}
	storage, err := LoadStorage(cfg.DataPaths.Storage, g.NumStorage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	demand, err := LoadDemand(cfg.DataPaths.Demand, g.NumPeriods)
	if err != nil {
		return nil, fmt.Errorf("demand: %w", err)
	}
	renewable, err := LoadRenewable(cfg.DataPaths.Renewable, g.NumScenarios, g.NumPeriods)
	if err != nil {
		return nil, fmt.Errorf("renewable: %w", err)
	}

	ds := &model.Dataset{
		Periods:   g.NumPeriods,
		Scenarios: g.NumScenarios,
		Tiers:     g.NumTiers,
		Sellers:   sellers,
		Buyers:    buyers,
		Storage:   storage,
		Demand:    demand,
		Renewable: renewable,
		Options:   cfg.ToModelOptions(g.NumTiers, g.NumScenarios),
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return ds, nil
}
