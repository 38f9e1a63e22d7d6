package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/teschty/binviz/internal/fsutil"
)

// DefaultConfigPath is the path to the canonical viewer defaults file.
const DefaultConfigPath = "config/viewer.defaults.json"

const maxConfigFileSize = 1 * 1024 * 1024 // 1MB

// ViewerConfig holds the settings for the pipeline switches and the HTTP
// viewer. Every field is optional; the Get* methods supply defaults.
type ViewerConfig struct {
	// Pipeline params
	DropLastTriplet *bool `json:"drop_last_triplet,omitempty"`

	// Scatter page params
	MaxPoints   *int    `json:"max_points,omitempty"`
	ChartWidth  *string `json:"chart_width,omitempty"`
	ChartHeight *string `json:"chart_height,omitempty"`
	Theme       *string `json:"theme,omitempty"`
	AutoRotate  *bool   `json:"auto_rotate,omitempty"`

	// Histogram params
	HistogramBins *int `json:"histogram_bins,omitempty"`

	// Server params
	ShutdownTimeout *string `json:"shutdown_timeout,omitempty"` // duration string like "5s"
}

// EmptyViewerConfig returns a ViewerConfig with all fields set to nil.
func EmptyViewerConfig() *ViewerConfig {
	return &ViewerConfig{}
}

// LoadViewerConfig loads a ViewerConfig from a JSON file on disk.
func LoadViewerConfig(path string) (*ViewerConfig, error) {
	return LoadViewerConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadViewerConfigFS loads a ViewerConfig through fsys. The file must have a
// .json extension and be at most 1MB. Fields omitted from the JSON keep their
// defaults, so partial configs are safe.
func LoadViewerConfigFS(fsys fsutil.FileSystem, path string) (*ViewerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyViewerConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents. Panics if the file cannot
// be loaded; intended for test setup.
func MustLoadDefaultConfig() *ViewerConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath, // from internal/config/
		"../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadViewerConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *ViewerConfig) Validate() error {
	if c.MaxPoints != nil && *c.MaxPoints < 1 {
		return fmt.Errorf("max_points must be positive, got %d", *c.MaxPoints)
	}

	if c.HistogramBins != nil && (*c.HistogramBins < 1 || *c.HistogramBins > 4096) {
		return fmt.Errorf("histogram_bins must be between 1 and 4096, got %d", *c.HistogramBins)
	}

	if c.ShutdownTimeout != nil && *c.ShutdownTimeout != "" {
		d, err := time.ParseDuration(*c.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("invalid shutdown_timeout '%s': %w", *c.ShutdownTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("shutdown_timeout must be non-negative, got %s", d)
		}
	}

	if c.Theme != nil {
		switch *c.Theme {
		case "", "dark", "light", "white", "chalk", "essos", "infographic", "macarons",
			"purple-passion", "roma", "romantic", "shine", "vintage", "walden",
			"westeros", "wonderland":
		default:
			return fmt.Errorf("unknown theme %q", *c.Theme)
		}
	}

	return nil
}

// GetDropLastTriplet returns the drop_last_triplet value or the default.
func (c *ViewerConfig) GetDropLastTriplet() bool {
	if c.DropLastTriplet == nil {
		return false
	}
	return *c.DropLastTriplet
}

// GetMaxPoints returns the max_points value or the default.
func (c *ViewerConfig) GetMaxPoints() int {
	if c.MaxPoints == nil {
		return 50000
	}
	return *c.MaxPoints
}

// GetChartWidth returns the chart_width value or the default.
func (c *ViewerConfig) GetChartWidth() string {
	if c.ChartWidth == nil || *c.ChartWidth == "" {
		return "100%"
	}
	return *c.ChartWidth
}

// GetChartHeight returns the chart_height value or the default.
func (c *ViewerConfig) GetChartHeight() string {
	if c.ChartHeight == nil || *c.ChartHeight == "" {
		return "900px"
	}
	return *c.ChartHeight
}

// GetTheme returns the theme value or the default.
func (c *ViewerConfig) GetTheme() string {
	if c.Theme == nil || *c.Theme == "" {
		return "dark"
	}
	return *c.Theme
}

// GetAutoRotate returns the auto_rotate value or the default.
func (c *ViewerConfig) GetAutoRotate() bool {
	if c.AutoRotate == nil {
		return false
	}
	return *c.AutoRotate
}

// GetHistogramBins returns the histogram_bins value or the default.
func (c *ViewerConfig) GetHistogramBins() int {
	if c.HistogramBins == nil {
		return 32
	}
	return *c.HistogramBins
}

// GetShutdownTimeout parses and returns the ShutdownTimeout as a time.Duration.
func (c *ViewerConfig) GetShutdownTimeout() time.Duration {
	if c.ShutdownTimeout == nil || *c.ShutdownTimeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(*c.ShutdownTimeout)
	if err != nil {
		return 5 * time.Second // default on parse error
	}
	return d
}
