package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aneslog/aneslog-backend/internal/autonomy"
	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write policy file: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(testLogger(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("default port: got %s", cfg.Port)
	}
	if cfg.MasteryRepeatThreshold != autonomy.DefaultMasteryRepeatThreshold {
		t.Fatalf("default repeat threshold: got %d", cfg.MasteryRepeatThreshold)
	}
	if cfg.Policy.Simple != autonomy.DefaultSimpleParams {
		t.Fatalf("default simple params: got %+v", cfg.Policy.Simple)
	}
}

func TestLoadConfig_PolicyFileOverlay(t *testing.T) {
	path := writePolicyFile(t, `
complex:
  p0: 0.30
  p1: 0.12
  alpha: 0.05
  beta: 0.20
categories:
  Regional blocks:
    p0: 0.25
    p1: 0.08
    alpha: 0.05
    beta: 0.20
`)
	t.Setenv("AUTONOMY_POLICY_FILE", path)

	cfg, err := LoadConfig(testLogger(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	// Omitted simple section keeps its default.
	if cfg.Policy.Simple != autonomy.DefaultSimpleParams {
		t.Fatalf("simple params must keep default, got %+v", cfg.Policy.Simple)
	}
	if cfg.Policy.Complex.P1 != 0.12 {
		t.Fatalf("complex override lost, got %+v", cfg.Policy.Complex)
	}
	got := cfg.Policy.ParamsFor(domain.ComplexitySimple, "Regional blocks")
	if got.P1 != 0.08 {
		t.Fatalf("category override lost, got %+v", got)
	}
}

func TestLoadConfig_RejectsInvalidPolicy(t *testing.T) {
	path := writePolicyFile(t, `
simple:
  p0: 0.10
  p1: 0.30
  alpha: 0.05
  beta: 0.20
`)
	t.Setenv("AUTONOMY_POLICY_FILE", path)

	if _, err := LoadConfig(testLogger(t)); err == nil {
		t.Fatalf("p1 >= p0 policy must fail startup")
	}
}

func TestLoadConfig_RejectsBadRepeatThreshold(t *testing.T) {
	t.Setenv("MASTERY_REPEAT_THRESHOLD", "0")
	if _, err := LoadConfig(testLogger(t)); err == nil {
		t.Fatalf("zero repeat threshold must fail startup")
	}
}
