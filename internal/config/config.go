package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"SafeMap-App/internal/domain/model"
)

// weightTolerance is how far the configured weights may drift from 1.0.
const weightTolerance = 1e-6

// DecayParams describes the linear decay curve for one POI type: subscore
// 100 up to IdealM, dropping linearly to Floor at MaxM, Floor beyond.
type DecayParams struct {
	IdealM float64 `yaml:"ideal_m"`
	MaxM   float64 `yaml:"max_m"`
	Floor  float64 `yaml:"floor"`
}

// ScoringConfig is the immutable scoring model configuration. It is loaded
// once at startup and passed explicitly; ModelVersion must change whenever
// weights or decay parameters change, because it is the only cache
// invalidation trigger.
type ScoringConfig struct {
	ModelVersion    string                        `yaml:"model_version"`
	Weights         map[model.POIType]float64     `yaml:"weights"`
	Decay           map[model.POIType]DecayParams `yaml:"decay"`
	SearchHorizonM  float64                       `yaml:"search_horizon_m"`
	MaxGridCells    int                           `yaml:"max_grid_cells"`
	GridResolutions map[int]int                   `yaml:"grid_resolutions"`
}

// DefaultScoringConfig mirrors the shipped scoring_config.yaml.
func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		ModelVersion: "v1.0",
		Weights: map[model.POIType]float64{
			model.POITypeFire:     0.40,
			model.POITypeHospital: 0.35,
			model.POITypePolice:   0.25,
		},
		Decay: map[model.POIType]DecayParams{
			model.POITypeFire:     {IdealM: 250, MaxM: 8000, Floor: 0},
			model.POITypeHospital: {IdealM: 500, MaxM: 15000, Floor: 0},
			model.POITypePolice:   {IdealM: 400, MaxM: 12000, Floor: 0},
		},
		SearchHorizonM: 50000,
		MaxGridCells:   5000,
		GridResolutions: map[int]int{
			5:  10000,
			6:  5000,
			7:  2500,
			8:  2000,
			9:  1000,
			10: 500,
			11: 500,
			12: 250,
			13: 250,
			14: 100,
		},
	}
}

// LoadScoringConfig reads the YAML scoring configuration from path, falling
// back to defaults when the file does not exist. The result is validated.
func LoadScoringConfig(path string) (*ScoringConfig, error) {
	cfg := DefaultScoringConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading scoring config %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing scoring config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on a configuration the scoring engine cannot use.
func (c *ScoringConfig) Validate() error {
	if c.ModelVersion == "" {
		return &model.ConfigError{Field: "model_version", Message: "must not be empty"}
	}
	if len(c.Weights) == 0 {
		return &model.ConfigError{Field: "weights", Message: "at least one POI type must be configured"}
	}

	sum := 0.0
	for t, w := range c.Weights {
		if w < 0 {
			return &model.ConfigError{Field: "weights." + string(t), Message: "must be non-negative"}
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return &model.ConfigError{
			Field:   "weights",
			Message: fmt.Sprintf("must sum to 1.0, got %.8f", sum),
		}
	}

	for t := range c.Weights {
		d, ok := c.Decay[t]
		if !ok {
			return &model.ConfigError{Field: "decay." + string(t), Message: "missing decay parameters for weighted POI type"}
		}
		if d.IdealM < 0 {
			return &model.ConfigError{Field: "decay." + string(t) + ".ideal_m", Message: "must be non-negative"}
		}
		if d.MaxM <= d.IdealM {
			return &model.ConfigError{Field: "decay." + string(t) + ".max_m", Message: "must be greater than ideal_m"}
		}
		if d.Floor < 0 || d.Floor >= 100 {
			return &model.ConfigError{Field: "decay." + string(t) + ".floor", Message: "must be in [0,100)"}
		}
	}

	if c.SearchHorizonM <= 0 {
		return &model.ConfigError{Field: "search_horizon_m", Message: "must be positive"}
	}
	if c.MaxGridCells <= 0 {
		return &model.ConfigError{Field: "max_grid_cells", Message: "must be positive"}
	}
	return nil
}

// Types returns the configured POI types in canonical order: the well-known
// ordering first, then any additional configured types alphabetically.
func (c *ScoringConfig) Types() []model.POIType {
	var types []model.POIType
	seen := make(map[model.POIType]bool)
	for _, t := range model.AllPOITypes() {
		if _, ok := c.Weights[t]; ok {
			types = append(types, t)
			seen[t] = true
		}
	}
	var extra []model.POIType
	for t := range c.Weights {
		if !seen[t] {
			extra = append(extra, t)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(types, extra...)
}

// ResolutionForZoom maps a map zoom level to a grid resolution, clamping to
// the nearest configured zoom when the exact level is absent.
func (c *ScoringConfig) ResolutionForZoom(zoom int) int {
	if res, ok := c.GridResolutions[zoom]; ok {
		return res
	}
	best, bestDiff := 0, math.MaxInt
	for z, res := range c.GridResolutions {
		diff := z - zoom
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff || (diff == bestDiff && res > best) {
			best, bestDiff = res, diff
		}
	}
	if best == 0 {
		return 500
	}
	return best
}

// AppConfig holds the process-level settings read from the environment.
type AppConfig struct {
	Port              string
	CORSOrigins       []string
	DBBackend         string // "postgres" (default) or "supabase"
	CacheBackend      string // "postgres" (default), "redis" or "firestore"
	ScoringConfigPath string
}

// LoadAppConfig reads application settings from environment variables.
func LoadAppConfig() *AppConfig {
	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		DBBackend:         getenvDefault("DB_BACKEND", "postgres"),
		CacheBackend:      getenvDefault("CACHE_BACKEND", "postgres"),
		ScoringConfigPath: getenvDefault("SCORING_CONFIG_PATH", "config/scoring_config.yaml"),
	}
	origins := getenvDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	return cfg
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
