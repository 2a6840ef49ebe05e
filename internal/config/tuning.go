package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/planbiir/gstat/internal/smooth"
	"github.com/planbiir/gstat/internal/stats"
)

// Tuning holds optional overrides for the analysis and smoothing
// settings. Fields omitted from the JSON file keep their defaults.
type Tuning struct {
	// Aggregation thresholds
	ElevationThreshold *float64 `json:"elevation_threshold,omitempty"` // meters
	DistanceThreshold  *float64 `json:"distance_threshold,omitempty"`  // meters
	StoppedSpeed       *float64 `json:"stopped_speed,omitempty"`       // km/h
	MinStopDuration    *string  `json:"min_stop_duration,omitempty"`   // duration string like "30s"

	// Savitzky-Golay params
	WindowSize *int `json:"window_size,omitempty"`
	PolyOrder  *int `json:"poly_order,omitempty"`
}

const maxFileSize = 1 * 1024 * 1024 // 1MB

// LoadTuning loads a Tuning from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadTuning(path string) (*Tuning, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var t Tuning
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &t, nil
}

// Validate checks the thresholds that are set. Filter settings are only
// meaningful once merged with command line flags, so smooth.Config.Validate
// runs on the merged values instead.
func (t *Tuning) Validate() error {
	thresholds := []struct {
		name  string
		value *float64
	}{
		{"elevation_threshold", t.ElevationThreshold},
		{"distance_threshold", t.DistanceThreshold},
		{"stopped_speed", t.StoppedSpeed},
	}
	for _, th := range thresholds {
		if th.value != nil && *th.value < 0 {
			return fmt.Errorf("%s must not be negative, got %f", th.name, *th.value)
		}
	}

	if t.MinStopDuration != nil && *t.MinStopDuration != "" {
		d, err := time.ParseDuration(*t.MinStopDuration)
		if err != nil {
			return fmt.Errorf("invalid min_stop_duration '%s': %w", *t.MinStopDuration, err)
		}
		if d < 0 {
			return fmt.Errorf("min_stop_duration must not be negative, got %s", d)
		}
	}

	return nil
}

// Apply copies every set field into the given configs. Either config may
// be nil. The tuning must have passed Validate.
func (t *Tuning) Apply(statsCfg *stats.Config, smoothCfg *smooth.Config) {
	if statsCfg != nil {
		if t.ElevationThreshold != nil {
			statsCfg.ElevationThreshold = *t.ElevationThreshold
		}
		if t.DistanceThreshold != nil {
			statsCfg.DistanceThreshold = *t.DistanceThreshold
		}
		if t.StoppedSpeed != nil {
			statsCfg.StoppedSpeed = *t.StoppedSpeed
		}
		if t.MinStopDuration != nil && *t.MinStopDuration != "" {
			if d, err := time.ParseDuration(*t.MinStopDuration); err == nil {
				statsCfg.MinStopDuration = d
			}
		}
	}
	if smoothCfg != nil {
		if t.WindowSize != nil {
			smoothCfg.WindowSize = *t.WindowSize
		}
		if t.PolyOrder != nil {
			smoothCfg.PolyOrder = *t.PolyOrder
		}
	}
}
