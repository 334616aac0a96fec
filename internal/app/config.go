package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aneslog/aneslog-backend/internal/autonomy"
	"github.com/aneslog/aneslog-backend/internal/platform/envutil"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type Config struct {
	Port                   string
	CORSAllowedOrigins     []string
	MasteryRepeatThreshold int
	Policy                 autonomy.PolicyTable
}

// LoadConfig reads the environment and the optional CUSUM policy file.
// Bad CUSUM parameters are a startup failure, never a silent fallback.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:                   envutil.Get("PORT", "8080", log),
		MasteryRepeatThreshold: envutil.GetInt("MASTERY_REPEAT_THRESHOLD", autonomy.DefaultMasteryRepeatThreshold, log),
		Policy:                 autonomy.DefaultPolicyTable(),
	}
	if cfg.MasteryRepeatThreshold < 1 {
		return Config{}, fmt.Errorf("MASTERY_REPEAT_THRESHOLD must be >= 1, got %d", cfg.MasteryRepeatThreshold)
	}

	if raw := envutil.Get("CORS_ALLOWED_ORIGINS", "", log); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
			}
		}
	}

	if path := envutil.Get("AUTONOMY_POLICY_FILE", "", log); path != "" {
		policy, err := loadPolicyFile(path, cfg.Policy)
		if err != nil {
			return Config{}, fmt.Errorf("load policy file %s: %w", path, err)
		}
		cfg.Policy = policy
	}
	if err := cfg.Policy.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid cusum policy: %w", err)
	}
	return cfg, nil
}

type paramsYAML struct {
	P0    float64 `yaml:"p0"`
	P1    float64 `yaml:"p1"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

func (p paramsYAML) toParams() autonomy.Params {
	return autonomy.Params{P0: p.P0, P1: p.P1, Alpha: p.Alpha, Beta: p.Beta}
}

type policyYAML struct {
	Simple     *paramsYAML           `yaml:"simple"`
	Complex    *paramsYAML           `yaml:"complex"`
	Categories map[string]paramsYAML `yaml:"categories"`
}

// loadPolicyFile overlays the YAML policy on top of the published defaults:
// omitted sections keep their default parameters.
func loadPolicyFile(path string, base autonomy.PolicyTable) (autonomy.PolicyTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return autonomy.PolicyTable{}, err
	}
	var file policyYAML
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return autonomy.PolicyTable{}, err
	}

	out := base
	if file.Simple != nil {
		out.Simple = file.Simple.toParams()
	}
	if file.Complex != nil {
		out.Complex = file.Complex.toParams()
	}
	if len(file.Categories) > 0 {
		out.Categories = make(map[string]autonomy.Params, len(file.Categories))
		for name, p := range file.Categories {
			out.Categories[name] = p.toParams()
		}
	}
	return out, nil
}
