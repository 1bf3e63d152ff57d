package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"flexmarket/internal/batch"
	"flexmarket/internal/config"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config")
	runs := flag.Int("runs", 0, "Override batch.runs")
	flag.Parse()

	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	if *runs > 0 {
		cfg.Batch.Runs = *runs
	}

	sum, err := batch.New(cfg, log).Run(context.Background())
	if err != nil {
		log.Fatal("batch", zap.Error(err))
	}

	log.Info("batch complete",
		zap.Int("runs", sum.Runs),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
		zap.Float64("da_objective_mean", sum.DAObjectiveMean),
		zap.Float64("da_objective_stddev", sum.DAObjectiveStdDev),
		zap.Float64("da_avg_price_mean", sum.DAAvgPriceMean))

	if sum.Failed > 0 {
		os.Exit(1)
	}
}
