package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/claude/rowsight/internal/scoring"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Auth      AuthConfig      `yaml:"auth"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// AnalysisConfig is the full tunable policy of the pipeline: smoothing,
// repetition detection, and every scoring band, fall-off, and weight. All
// values are hand-tuned constants, not learned.
type AnalysisConfig struct {
	SmoothWindow    int     `yaml:"smooth_window" json:"smooth_window"`
	MinFramesPerRep int     `yaml:"min_frames_per_rep" json:"min_frames_per_rep"`
	Prominence      float64 `yaml:"prominence" json:"prominence"`

	Elbow scoring.ElbowConfig `yaml:"elbow" json:"elbow"`
	Trunk scoring.TrunkConfig `yaml:"trunk" json:"trunk"`
}

// DefaultAnalysis returns the shipped analysis policy for a lateral rowing
// video at typical consumer frame rates.
func DefaultAnalysis() AnalysisConfig {
	return AnalysisConfig{
		SmoothWindow:    5,
		MinFramesPerRep: 15,
		Prominence:      0.02,
		Elbow:           scoring.DefaultElbow(),
		Trunk:           scoring.DefaultTrunk(),
	}
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable
// overrides. Analysis values absent from the file fall back to
// DefaultAnalysis.
//
// Env vars use the prefix ROWSIGHT_ and underscore-separated paths:
//
//	ROWSIGHT_SERVER_HOST, ROWSIGHT_SERVER_PORT,
//	ROWSIGHT_DB_HOST, ROWSIGHT_DB_PORT, ROWSIGHT_DB_NAME,
//	ROWSIGHT_DB_USER, ROWSIGHT_DB_PASSWORD, ROWSIGHT_DB_SSLMODE,
//	ROWSIGHT_AUTH_API_KEY
func Load(path string) (*Config, error) {
	cfg := &Config{Analysis: DefaultAnalysis()}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ROWSIGHT_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("ROWSIGHT_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ROWSIGHT_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("ROWSIGHT_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("ROWSIGHT_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("ROWSIGHT_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("ROWSIGHT_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("ROWSIGHT_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("ROWSIGHT_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	return c.Analysis.Validate()
}

// Validate rejects analysis values that would corrupt the pipeline: a
// non-positive fall-off divides by zero or inverts the scoring direction,
// and non-positive detection parameters are meaningless. The scoring
// functions assume these hold; this is the single guard point.
func (a AnalysisConfig) Validate() error {
	if a.SmoothWindow < 1 {
		return fmt.Errorf("analysis.smooth_window must be >= 1")
	}
	if a.MinFramesPerRep < 1 {
		return fmt.Errorf("analysis.min_frames_per_rep must be >= 1")
	}
	if a.Prominence < 0 {
		return fmt.Errorf("analysis.prominence must be >= 0")
	}

	falloffs := []struct {
		name  string
		value float64
	}{
		{"elbow.amp_falloff", a.Elbow.AmpFalloff},
		{"elbow.min_falloff", a.Elbow.MinFalloff},
		{"elbow.proxy_falloff", a.Elbow.ProxyFalloff},
		{"trunk.variation_falloff", a.Trunk.VariationFalloff},
		{"trunk.mean_falloff", a.Trunk.MeanFalloff},
		{"trunk.std_falloff", a.Trunk.StdFalloff},
		{"trunk.max_falloff", a.Trunk.MaxFalloff},
	}
	for _, f := range falloffs {
		if f.value <= 0 {
			return fmt.Errorf("analysis.%s must be positive", f.name)
		}
	}

	if a.Elbow.WeightAmp < 0 || a.Elbow.WeightMin < 0 || a.Elbow.ProxyWeight < 0 {
		return fmt.Errorf("analysis.elbow weights must be non-negative")
	}
	if a.Trunk.WeightPosture < 0 || a.Trunk.WeightStability < 0 || a.Trunk.WeightPeak < 0 {
		return fmt.Errorf("analysis.trunk weights must be non-negative")
	}
	return nil
}
