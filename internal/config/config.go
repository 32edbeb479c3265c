// Package config loads run settings for the coin pipeline.
//
// Defaults reproduce the built-in constants. A YAML file and COINVALUE_*
// environment variables may override any key; environment variables win.
// Nested keys use a double underscore, e.g. COINVALUE_DETECTION__MIN_RADIUS.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ironsheep/coin-value/internal/coin"
	"github.com/ironsheep/coin-value/internal/detection"
	"github.com/ironsheep/coin-value/internal/imaging"
)

const (
	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = "coinvalue.yaml"

	// EnvPrefix marks environment variables that override configuration.
	EnvPrefix = "COINVALUE_"

	// DebugImageName is the detection diagnostic written to the output directory.
	DebugImageName = "coins_detected.jpg"
)

// Config is the root configuration.
type Config struct {
	InputPath     string               `koanf:"input_path"`
	OutputDir     string               `koanf:"output_dir"`
	Currency      string               `koanf:"currency"`
	Tolerance     float64              `koanf:"tolerance"`
	LogLevel      string               `koanf:"log_level"`
	Detection     DetectionConfig      `koanf:"detection"`
	Style         StyleConfig          `koanf:"style"`
	Denominations []DenominationConfig `koanf:"denominations"`
}

// DetectionConfig mirrors detection.Params.
type DetectionConfig struct {
	DP           float64 `koanf:"dp"`
	MinDist      float64 `koanf:"min_dist"`
	CannyHigh    float64 `koanf:"canny_high"`
	AccThreshold int     `koanf:"acc_threshold"`
	MinRadius    int     `koanf:"min_radius"`
	MaxRadius    int     `koanf:"max_radius"`
	MedianKernel int     `koanf:"median_kernel"`
}

// StyleConfig mirrors imaging.Style with colours as hex strings.
type StyleConfig struct {
	MatchedColor       string  `koanf:"matched_color"`
	UnknownColor       string  `koanf:"unknown_color"`
	LabelColor         string  `koanf:"label_color"`
	DebugColor         string  `koanf:"debug_color"`
	DebugLabelColor    string  `koanf:"debug_label_color"`
	CircleThickness    int     `koanf:"circle_thickness"`
	FontScale          float64 `koanf:"font_scale"`
	FontThickness      int     `koanf:"font_thickness"`
	DebugFontScale     float64 `koanf:"debug_font_scale"`
	DebugFontThickness int     `koanf:"debug_font_thickness"`
}

// DenominationConfig mirrors coin.Denomination.
type DenominationConfig struct {
	Name      string  `koanf:"name"`
	Value     float64 `koanf:"value"`
	RadiusOld float64 `koanf:"radius_old"`
	RadiusNew float64 `koanf:"radius_new"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := detection.DefaultParams()
	s := imaging.DefaultStyle()

	table := coin.DefaultTable()
	denominations := make([]DenominationConfig, len(table))
	for i, d := range table {
		denominations[i] = DenominationConfig{
			Name:      d.Name,
			Value:     d.Value,
			RadiusOld: d.RadiusOld,
			RadiusNew: d.RadiusNew,
		}
	}

	return &Config{
		InputPath: "data/coins_colombia.jpeg",
		OutputDir: "output/coin_amount",
		Currency:  "COP",
		Tolerance: coin.DefaultTolerance,
		LogLevel:  "info",
		Detection: DetectionConfig{
			DP:           p.DP,
			MinDist:      p.MinDist,
			CannyHigh:    p.CannyHigh,
			AccThreshold: p.AccThreshold,
			MinRadius:    p.MinRadius,
			MaxRadius:    p.MaxRadius,
			MedianKernel: p.MedianKernel,
		},
		Style: StyleConfig{
			MatchedColor:       imaging.HexColor(s.Matched),
			UnknownColor:       imaging.HexColor(s.Unknown),
			LabelColor:         imaging.HexColor(s.Label),
			DebugColor:         imaging.HexColor(s.Debug),
			DebugLabelColor:    imaging.HexColor(s.DebugLabel),
			CircleThickness:    s.CircleThickness,
			FontScale:          s.FontScale,
			FontThickness:      s.FontThickness,
			DebugFontScale:     s.DebugFontScale,
			DebugFontThickness: s.DebugFontThickness,
		},
		Denominations: denominations,
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment, then validates it.
//
// An empty path reads DefaultConfigFile if it exists and skips the file
// otherwise. A non-empty path that cannot be read is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if k.Exists("denominations") {
		// A configured table replaces the default one entirely
		cfg.Denominations = nil
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps COINVALUE_DETECTION__MIN_RADIUS to detection.min_radius.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// Validate checks every section and reports all problems found.
func (c *Config) Validate() error {
	var errs []error

	if c.InputPath == "" {
		errs = append(errs, errors.New("input_path is required"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if c.Tolerance <= 0 || c.Tolerance >= 1 {
		errs = append(errs, fmt.Errorf("tolerance must be in (0, 1), got %v", c.Tolerance))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if err := c.Params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("detection: %w", err))
	}
	if _, err := c.AnnotationStyle(); err != nil {
		errs = append(errs, fmt.Errorf("style: %w", err))
	}
	if err := c.Style.validateSizes(); err != nil {
		errs = append(errs, fmt.Errorf("style: %w", err))
	}
	if err := c.Table().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// validateSizes rejects stroke and font sizes that would draw nothing.
func (s StyleConfig) validateSizes() error {
	var errs []error
	if s.FontScale <= 0 {
		errs = append(errs, fmt.Errorf("font_scale must be positive, got %v", s.FontScale))
	}
	if s.DebugFontScale <= 0 {
		errs = append(errs, fmt.Errorf("debug_font_scale must be positive, got %v", s.DebugFontScale))
	}
	if s.CircleThickness < 1 {
		errs = append(errs, fmt.Errorf("circle_thickness must be at least 1, got %d", s.CircleThickness))
	}
	if s.FontThickness < 1 {
		errs = append(errs, fmt.Errorf("font_thickness must be at least 1, got %d", s.FontThickness))
	}
	if s.DebugFontThickness < 1 {
		errs = append(errs, fmt.Errorf("debug_font_thickness must be at least 1, got %d", s.DebugFontThickness))
	}
	return errors.Join(errs...)
}

// Params returns the detection parameters.
func (c *Config) Params() detection.Params {
	return detection.Params{
		DP:           c.Detection.DP,
		MinDist:      c.Detection.MinDist,
		CannyHigh:    c.Detection.CannyHigh,
		AccThreshold: c.Detection.AccThreshold,
		MinRadius:    c.Detection.MinRadius,
		MaxRadius:    c.Detection.MaxRadius,
		MedianKernel: c.Detection.MedianKernel,
	}
}

// AnnotationStyle parses the style colours.
func (c *Config) AnnotationStyle() (imaging.Style, error) {
	s := imaging.Style{
		CircleThickness:    c.Style.CircleThickness,
		FontScale:          c.Style.FontScale,
		FontThickness:      c.Style.FontThickness,
		DebugFontScale:     c.Style.DebugFontScale,
		DebugFontThickness: c.Style.DebugFontThickness,
	}

	var err error
	if s.Matched, err = imaging.ParseColor(c.Style.MatchedColor); err != nil {
		return imaging.Style{}, fmt.Errorf("matched_color: %w", err)
	}
	if s.Unknown, err = imaging.ParseColor(c.Style.UnknownColor); err != nil {
		return imaging.Style{}, fmt.Errorf("unknown_color: %w", err)
	}
	if s.Label, err = imaging.ParseColor(c.Style.LabelColor); err != nil {
		return imaging.Style{}, fmt.Errorf("label_color: %w", err)
	}
	if s.Debug, err = imaging.ParseColor(c.Style.DebugColor); err != nil {
		return imaging.Style{}, fmt.Errorf("debug_color: %w", err)
	}
	if s.DebugLabel, err = imaging.ParseColor(c.Style.DebugLabelColor); err != nil {
		return imaging.Style{}, fmt.Errorf("debug_label_color: %w", err)
	}
	return s, nil
}

// Table returns the denomination table in configured order.
func (c *Config) Table() coin.Table {
	t := make(coin.Table, len(c.Denominations))
	for i, d := range c.Denominations {
		t[i] = coin.Denomination{
			Name:      d.Name,
			Value:     d.Value,
			RadiusOld: d.RadiusOld,
			RadiusNew: d.RadiusNew,
		}
	}
	return t
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
