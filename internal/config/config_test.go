package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
database:
  host: "localhost"
  port: 5432
  name: "rowsight"
  user: "rowsight"
  password: "secret"
  sslmode: "disable"
auth:
  api_key: "test-key-123"
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadValid verifies that a well-formed YAML config loads with all fields
// populated and the analysis policy falling back to defaults.
func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "rowsight" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "rowsight")
	}
	if cfg.Auth.APIKey != "test-key-123" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "test-key-123")
	}

	def := DefaultAnalysis()
	if cfg.Analysis.SmoothWindow != def.SmoothWindow {
		t.Errorf("analysis.smooth_window = %d, want default %d", cfg.Analysis.SmoothWindow, def.SmoothWindow)
	}
	if cfg.Analysis.Elbow.AmpGoodMin != def.Elbow.AmpGoodMin {
		t.Errorf("analysis.elbow.amp_good_min = %v, want default %v",
			cfg.Analysis.Elbow.AmpGoodMin, def.Elbow.AmpGoodMin)
	}
}

// TestEnvOverride verifies that ROWSIGHT_ env vars take precedence over YAML
// values, so production deployments can override config via environment.
func TestEnvOverride(t *testing.T) {
	t.Setenv("ROWSIGHT_DB_HOST", "override-host")
	t.Setenv("ROWSIGHT_DB_PORT", "9999")
	t.Setenv("ROWSIGHT_AUTH_API_KEY", "env-key")

	cfg, err := Load(writeTemp(t, validYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "override-host" {
		t.Errorf("database.host = %q, want %q", cfg.Database.Host, "override-host")
	}
	if cfg.Database.Port != 9999 {
		t.Errorf("database.port = %d, want 9999", cfg.Database.Port)
	}
	if cfg.Auth.APIKey != "env-key" {
		t.Errorf("auth.api_key = %q, want %q", cfg.Auth.APIKey, "env-key")
	}
	// Unchanged fields keep YAML values.
	if cfg.Database.Name != "rowsight" {
		t.Errorf("database.name = %q, want %q", cfg.Database.Name, "rowsight")
	}
}

// TestAnalysisOverride verifies that analysis tunables in the YAML replace
// the defaults without disturbing the rest of the policy.
func TestAnalysisOverride(t *testing.T) {
	yaml := validYAML + `
analysis:
  smooth_window: 9
  prominence: 0.05
  elbow:
    amp_good_min: 70
    amp_good_max: 110
    amp_falloff: 40
    min_target: 50
    min_tolerance: 10
    min_falloff: 20
    weight_amp: 0.5
    weight_min: 0.5
    proxy_falloff: 0.2
  trunk:
    variation_good_max: 40
    variation_falloff: 25
    mean_good_min: 150
    mean_good_max: 180
    mean_falloff: 40
    std_good_max: 15
    std_falloff: 12
    max_target: 160
    max_tolerance: 10
    max_falloff: 20
    weight_posture: 0.7
    weight_stability: 0.3
    weight_peak: 0.25
`
	cfg, err := Load(writeTemp(t, yaml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.SmoothWindow != 9 {
		t.Errorf("smooth_window = %d, want 9", cfg.Analysis.SmoothWindow)
	}
	if cfg.Analysis.Elbow.AmpGoodMin != 70 {
		t.Errorf("elbow.amp_good_min = %v, want 70", cfg.Analysis.Elbow.AmpGoodMin)
	}
	if cfg.Analysis.Trunk.WeightPeak != 0.25 {
		t.Errorf("trunk.weight_peak = %v, want 0.25", cfg.Analysis.Trunk.WeightPeak)
	}
	// min_frames_per_rep was omitted; the default must survive.
	if cfg.Analysis.MinFramesPerRep != DefaultAnalysis().MinFramesPerRep {
		t.Errorf("min_frames_per_rep = %d, want default", cfg.Analysis.MinFramesPerRep)
	}
}

// TestMissingRequired verifies that missing required fields are rejected.
func TestMissingRequired(t *testing.T) {
	noKey := strings.Replace(validYAML, `api_key: "test-key-123"`, `api_key: ""`, 1)
	if _, err := Load(writeTemp(t, noKey)); err == nil {
		t.Error("expected error for missing api_key")
	}
}

// TestAnalysisValidation verifies that degenerate fall-offs are rejected at
// load time; a zero fall-off would divide by zero inside scoring.
func TestAnalysisValidation(t *testing.T) {
	yaml := validYAML + `
analysis:
  elbow:
    amp_falloff: 0
`
	_, err := Load(writeTemp(t, yaml))
	if err == nil {
		t.Fatal("expected error for zero fall-off")
	}
	if !strings.Contains(err.Error(), "amp_falloff") {
		t.Errorf("error = %v, want mention of amp_falloff", err)
	}
}
