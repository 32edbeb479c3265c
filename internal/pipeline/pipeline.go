// Package pipeline runs one coin valuation: load the photo, find circles,
// classify them, save the labelled image and print the summary.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/ironsheep/coin-value/internal/coin"
	"github.com/ironsheep/coin-value/internal/config"
	"github.com/ironsheep/coin-value/internal/detection"
	"github.com/ironsheep/coin-value/internal/imaging"
	"github.com/ironsheep/coin-value/internal/report"
)

// Pipeline holds the components built from a configuration.
type Pipeline struct {
	cfg        *config.Config
	logger     *slog.Logger
	detector   *detection.Detector
	classifier *coin.Classifier
}

// Output describes a completed run.
type Output struct {
	Result       *coin.Result
	DebugPath    string
	LabeledPath  string
	CirclesFound int
}

// New builds a Pipeline from a validated configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	style, err := cfg.AnnotationStyle()
	if err != nil {
		return nil, fmt.Errorf("annotation style: %w", err)
	}
	table := cfg.Table()
	if err := table.Validate(); err != nil {
		return nil, err
	}

	detector := detection.New(cfg.Params(), style,
		detection.WithDebugPath(filepath.Join(cfg.OutputDir, config.DebugImageName)),
		detection.WithLogger(logger))

	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		detector:   detector,
		classifier: coin.NewClassifier(table, cfg.Tolerance, style),
	}, nil
}

// Run processes the configured input image and writes the summary to w.
//
// # Errors
//
//   - *imaging.ImageLoadError if the input cannot be read
//   - *imaging.PersistenceError if an output image cannot be written
func (p *Pipeline) Run(w io.Writer) (*Output, error) {
	img, err := imaging.Load(p.cfg.InputPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("image loaded",
		"path", p.cfg.InputPath,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	detected, err := p.detector.Detect(img)
	if err != nil {
		return nil, err
	}
	p.logger.Info("circles detected",
		"count", len(detected.Circles),
		"backend", detection.Backend)

	result := p.classifier.Classify(detected.Circles, detected.Base)
	for i, o := range result.Coins {
		if o.Matched() {
			d := result.Table[o.Match.Index]
			p.logger.Debug("coin matched",
				"index", i,
				"radius", o.Circle.Radius,
				"denomination", d.Name,
				"generation", o.Match.Generation.String(),
				"difference", o.Match.Difference)
			continue
		}
		p.logger.Debug("coin unmatched", "index", i, "radius", o.Circle.Radius)
	}

	labeled, err := report.Persist(result, p.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	p.logger.Info("labelled image saved", "path", labeled)

	if err := report.Print(w, result, p.cfg.Currency); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	p.logger.Info("valuation complete",
		"total", result.Total,
		"currency", p.cfg.Currency,
		"matched", result.Matched(),
		"unmatched", result.Unmatched())

	return &Output{
		Result:       result,
		DebugPath:    filepath.Join(p.cfg.OutputDir, config.DebugImageName),
		LabeledPath:  labeled,
		CirclesFound: len(detected.Circles),
	}, nil
}
