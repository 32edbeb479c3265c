package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/ironsheep/coin-value/internal/config"
	"github.com/ironsheep/coin-value/internal/pipeline"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("coin-value %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("coin-value", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file (default ./"+config.DefaultConfigFile+" when present)")
	input := fs.String("input", "", "image to value, overrides input_path")
	output := fs.String("output", "", "output directory, overrides output_dir")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *input != "" {
		cfg.InputPath = *input
	}
	if *output != "" {
		cfg.OutputDir = *output
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})).
		With("run", uuid.NewString())
	logger.Debug("coin-value starting", "version", Version, "commit", GitCommit)

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return err
	}
	_, err = p.Run(os.Stdout)
	return err
}

func usage() {
	fmt.Println("coin-value - count and value coins in a photo")
	fmt.Println()
	fmt.Println("Usage: coin-value [-config file] [-input image] [-output dir]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config FILE     YAML configuration (default ./" + config.DefaultConfigFile + " when present)")
	fmt.Println("  -input IMAGE     Image to value (default data/coins_colombia.jpeg)")
	fmt.Println("  -output DIR      Output directory (default output/coin_amount)")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  COINVALUE_LOG_LEVEL=debug               Log every coin decision")
	fmt.Println("  COINVALUE_TOLERANCE=0.1                 Relative radius tolerance")
	fmt.Println("  COINVALUE_DETECTION__MIN_RADIUS=50      Nested keys use a double underscore")
	fmt.Println()
	fmt.Println("Writes " + config.DebugImageName + " and coins_valued.jpg to the output directory")
	fmt.Println("and prints the per-denomination counts and the total.")
}
