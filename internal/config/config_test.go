package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: "from-file"
compliance:
  expansions_pipeline_id: "782785325"
  holidays:
    2025: ["2025-09-01"]
approvers:
  teams: ["Revenue"]
`)
	t.Setenv("RLDGUARD_JWT_SECRET", "from-env")
	t.Setenv("HUBSPOT_ACCESS_TOKEN", "pat-123")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Fatalf("expected env override, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.HubSpot.AccessToken != "pat-123" {
		t.Fatalf("expected token from env, got %q", cfg.HubSpot.AccessToken)
	}
	if cfg.Server.Port != 8080 || cfg.HubSpot.BaseURL != "https://api.hubapi.com" {
		t.Fatalf("defaults not applied: %+v", cfg.Server)
	}
	if cfg.Compliance.MinLeadDays != 28 || cfg.Compliance.Timezone != "America/New_York" {
		t.Fatalf("compliance defaults not applied: %+v", cfg.Compliance)
	}

	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if rules.Holidays.Len() != 1 || rules.ExpansionsPipeline != "782785325" {
		t.Fatalf("unexpected rules: %+v", rules)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"jwt_secret": `server: {port: 9000}`,
		"holidays": `
auth: {jwt_secret: "x"}
compliance:
  holidays:
    2025: ["2026-01-01"]
`,
		"chat_id": `
auth: {jwt_secret: "x"}
telegram: {bot_token: "t"}
`,
	}
	for want, body := range cases {
		t.Run(want, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			if err == nil || !strings.Contains(err.Error(), want) {
				t.Fatalf("expected %s error, got %v", want, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestShippedConfigParses(t *testing.T) {
	t.Setenv("RLDGUARD_JWT_SECRET", "test")
	cfg, err := LoadConfig("../../config/config.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rules, err := cfg.Rules()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if len(rules.Holidays.Years()) != 3 {
		t.Fatalf("expected three holiday years, got %v", rules.Holidays.Years())
	}
}
