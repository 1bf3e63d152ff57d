package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"flexmarket/internal/config"
	"flexmarket/internal/data"
	"flexmarket/internal/pipeline"
	"flexmarket/internal/report"
	"flexmarket/internal/solver"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "scenarios":
		cmdScenarios(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config config.yaml [--out output]")
	fmt.Println("  cli scenarios --config config.yaml --input data/simulations --out data/renewable.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run clears the day-ahead and real-time markets and writes result CSVs")
	fmt.Println("  - scenarios aggregates raw simulation CSVs into the renewable scenario table")
}

func newLogger() *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	return log
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outDir := fs.String("out", "", "Output directory (overrides config output_dir)")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	log := newLogger()
	defer log.Sync()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	// A raw-simulation source without a prepared scenario table means we
	// draw one here, same as a single-replicate batch.
	if !cfg.Benchmark && cfg.DataPaths.Renewable == "" {
		scenFile, cleanup, err := drawScenarios(cfg)
		if err != nil {
			log.Fatal("prepare scenarios", zap.Error(err))
		}
		defer cleanup()
		cfg.DataPaths.Renewable = scenFile
	}

	ds, err := data.BuildDataset(cfg)
	if err != nil {
		log.Fatal("build dataset", zap.Error(err))
	}

	backend, err := solver.New(cfg.Solver.Name, cfg.Solver.Executable, cfg.Solver.Options)
	if err != nil {
		log.Fatal("solver", zap.Error(err))
	}

	res, err := pipeline.New(backend, log).Run(context.Background(), ds)
	if err != nil {
		log.Fatal("clearing run", zap.Error(err))
	}

	if err := report.WriteAll(cfg.OutputDir, ds, res); err != nil {
		log.Fatal("write results", zap.Error(err))
	}
	log.Info("results written", zap.String("dir", cfg.OutputDir))
}

func drawScenarios(cfg *config.Config) (string, func(), error) {
	sims, err := data.AggregateSimulations(cfg.DataPaths.RawSimulations)
	if err != nil {
		return "", nil, err
	}
	chosen, err := sims.Select(cfg.General.NumScenarios,
		cfg.ScenarioSelection.Criteria, cfg.ScenarioSelection.Seed)
	if err != nil {
		return "", nil, err
	}

	f, err := os.CreateTemp("", "scenarios_*.csv")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	f.Close()
	cleanup := func() { os.Remove(path) }

	if err := sims.WriteScenarioCSV(path, chosen, cfg.General.NumPeriods); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func cmdScenarios(args []string) {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	inputDir := fs.String("input", "", "Directory of raw simulation CSVs")
	outPath := fs.String("out", "", "Output scenario CSV path")
	_ = fs.Parse(args)

	if *cfgPath == "" || *inputDir == "" || *outPath == "" {
		fmt.Println("--config, --input and --out are required")
		os.Exit(2)
	}

	log := newLogger()
	defer log.Sync()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	sims, err := data.AggregateSimulations(*inputDir)
	if err != nil {
		log.Fatal("aggregate simulations", zap.Error(err))
	}
	chosen, err := sims.Select(cfg.General.NumScenarios,
		cfg.ScenarioSelection.Criteria, cfg.ScenarioSelection.Seed)
	if err != nil {
		log.Fatal("select scenarios", zap.Error(err))
	}
	if err := sims.WriteScenarioCSV(*outPath, chosen, cfg.General.NumPeriods); err != nil {
		log.Fatal("write scenario table", zap.Error(err))
	}
	log.Info("scenario table written",
		zap.String("path", *outPath), zap.Ints("scenarios", chosen))
}
