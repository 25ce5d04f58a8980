// Command train fits the pricing model from a historical listings CSV and
// writes the resulting artifact for the serving process to load.
//
// Usage:
//
//	go run ./cmd/train -data listings.csv -out trained_model.json
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/abhijithns29/propchain/internal/artifact"
	"github.com/abhijithns29/propchain/internal/observability"
	"github.com/abhijithns29/propchain/internal/training"
)

func main() {
	dataPath := flag.String("data", "", "historical listings CSV (header must include price and all feature columns)")
	outPath := flag.String("out", "trained_model.json", "path for the model artifact")
	seed := flag.Int64("seed", 42, "seed for the train/test shuffle")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "usage: train -data listings.csv [-out trained_model.json]")
		os.Exit(2)
	}

	logger := observability.NewLogger(*logLevel, "text")

	ds, err := training.LoadCSV(*dataPath, logger)
	if err != nil {
		logger.Error("failed to load dataset", "path", *dataPath, "error", err)
		os.Exit(1)
	}
	logger.Info("dataset loaded", "rows", len(ds.X), "skipped", ds.Skipped)

	res, err := training.Fit(ds.FeatureNames, ds.X, ds.Y, *seed)
	if err != nil {
		logger.Error("training failed", "error", err)
		os.Exit(1)
	}
	logger.Info("model fitted",
		"train_r2", res.TrainR2,
		"test_r2", res.TestR2,
		"train_rows", res.TrainCount,
		"test_rows", res.TestCount,
	)

	if err := artifact.Save(*outPath, res.Snapshot); err != nil {
		logger.Error("failed to save artifact", "path", *outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("artifact written", "path", *outPath)
}
