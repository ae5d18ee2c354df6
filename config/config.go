package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrNoFeatures is returned when the configuration lists no feature descriptors.
var ErrNoFeatures = errors.New("no features specified in config")

// Feature types understood by the tracker.
const (
	FeatureRaw       = "raw"
	FeatureHistogram = "histogram"
)

// Kernel types used to compare feature vectors.
const (
	KernelLinear       = "linear"
	KernelGaussian     = "gaussian"
	KernelIntersection = "intersection"
	KernelChi2         = "chi2"
)

// Feature pairs a feature descriptor with the kernel used to score it.
type Feature struct {
	Type   string  `json:"type" yaml:"type"`
	Kernel string  `json:"kernel" yaml:"kernel"`
	Sigma  float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"` // gaussian kernel width
	Weight float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Config holds runtime configuration for the tracker and the session.
// Fields are loaded from a JSON or YAML file selected by extension.
type Config struct {
	QuietMode bool `json:"quietMode" yaml:"quietMode"`
	DebugMode bool `json:"debugMode" yaml:"debugMode"`

	// Frame geometry; zero keeps the native source size.
	FrameWidth  int `json:"frameWidth" yaml:"frameWidth"`
	FrameHeight int `json:"frameHeight" yaml:"frameHeight"`

	// Tracker search parameters
	SearchRadius int       `json:"searchRadius" yaml:"searchRadius"`
	SearchStride int       `json:"searchStride" yaml:"searchStride"`
	LearningRate float64   `json:"learningRate" yaml:"learningRate"`
	Features     []Feature `json:"features" yaml:"features"`

	// Directory receiving Debug() plots.
	DebugDir string `json:"debugDir" yaml:"debugDir"`
}

// DefaultConfig returns a Config populated with standard defaults. The
// feature list is left empty: callers must configure at least one.
func DefaultConfig() *Config {
	return &Config{
		QuietMode:    false,
		DebugMode:    false,
		FrameWidth:   0,
		FrameHeight:  0,
		SearchRadius: 30,
		SearchStride: 2,
		LearningRate: 0.1,
		DebugDir:     "debug",
	}
}

// DebugEnabled reports whether diagnostic output is permitted.
func (c *Config) DebugEnabled() bool {
	return c != nil && !c.QuietMode && c.DebugMode
}

// Validate clamps numeric values to safe ranges and rejects an empty or
// unknown feature list.
func (c *Config) Validate() error {
	if c.FrameWidth < 0 || c.FrameHeight < 0 || (c.FrameWidth == 0) != (c.FrameHeight == 0) {
		c.FrameWidth, c.FrameHeight = 0, 0
	}
	if c.SearchRadius <= 0 {
		c.SearchRadius = 30
	}
	if c.SearchStride <= 0 {
		c.SearchStride = 2
	}
	if c.SearchStride > c.SearchRadius {
		c.SearchStride = c.SearchRadius
	}
	if c.LearningRate < 0 || c.LearningRate > 1 {
		c.LearningRate = 0.1
	}
	if c.DebugDir == "" {
		c.DebugDir = "debug"
	}
	if len(c.Features) == 0 {
		return ErrNoFeatures
	}
	for i := range c.Features {
		f := &c.Features[i]
		f.Type = strings.ToLower(strings.TrimSpace(f.Type))
		f.Kernel = strings.ToLower(strings.TrimSpace(f.Kernel))
		switch f.Type {
		case FeatureRaw, FeatureHistogram:
		default:
			return errors.Errorf("feature %d: unknown type %q", i, f.Type)
		}
		switch f.Kernel {
		case "":
			f.Kernel = KernelLinear
		case KernelLinear, KernelGaussian, KernelIntersection, KernelChi2:
		default:
			return errors.Errorf("feature %d: unknown kernel %q", i, f.Kernel)
		}
		if f.Type == FeatureRaw && (f.Kernel == KernelIntersection || f.Kernel == KernelChi2) {
			return errors.Errorf("feature %d: kernel %q requires histogram features", i, f.Kernel)
		}
		if f.Kernel == KernelGaussian && f.Sigma <= 0 {
			f.Sigma = 0.2
		}
		if f.Weight <= 0 {
			f.Weight = 1
		}
	}
	return nil
}

// Load reads configuration from the given path. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON. The returned config is
// validated; ErrNoFeatures is returned (wrapped) when no feature is listed.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %s", path)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return cfg, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Save validates the configuration and writes it to the given path, using
// the format implied by its extension. Nothing is written when validation
// fails.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "save config")
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return os.WriteFile(path, data, 0o644)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
