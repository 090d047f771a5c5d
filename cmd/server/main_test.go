package main

import (
	"testing"
)

func TestParseFlagsDefaults(t *testing.T) {
	overrides, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}

	if overrides.ConfigFile != "" || overrides.EnvFile != "" {
		t.Fatalf("expected no config or env file, got %+v", overrides)
	}
	if overrides.Port != nil || overrides.GinMode != nil || overrides.MetricsAddr != nil {
		t.Fatalf("expected unset flags to stay nil, got %+v", overrides)
	}
	if overrides.RateLimitRPS != nil || overrides.RateLimitBurst != nil {
		t.Fatalf("expected rate limit overrides to stay nil")
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	overrides, err := parseFlags([]string{
		"--config", "site.yaml",
		"--env-file", ".env.local",
		"--port", "9000",
		"--gin-mode", "debug",
		"--templates-dir", "web/templates",
		"--metrics-addr", ":9100",
		"--rate-limit-rps", "0",
		"--rate-limit-burst", "7",
	})
	if err != nil {
		t.Fatalf("parseFlags returned error: %v", err)
	}

	if overrides.ConfigFile != "site.yaml" || overrides.EnvFile != ".env.local" {
		t.Fatalf("unexpected file flags: %+v", overrides)
	}
	if overrides.Port == nil || *overrides.Port != "9000" {
		t.Fatalf("expected port override 9000")
	}
	if overrides.GinMode == nil || *overrides.GinMode != "debug" {
		t.Fatalf("expected gin mode override debug")
	}
	if overrides.TemplatesDir == nil || *overrides.TemplatesDir != "web/templates" {
		t.Fatalf("expected templates dir override")
	}
	if overrides.MetricsAddr == nil || *overrides.MetricsAddr != ":9100" {
		t.Fatalf("expected metrics addr override")
	}
	if overrides.RateLimitRPS == nil || *overrides.RateLimitRPS != 0 {
		t.Fatalf("expected explicit zero rps to be kept")
	}
	if overrides.RateLimitBurst == nil || *overrides.RateLimitBurst != 7 {
		t.Fatalf("expected burst override 7")
	}
}

func TestParseFlagsRejectsUnknownGinMode(t *testing.T) {
	if _, err := parseFlags([]string{"--gin-mode", "turbo"}); err == nil {
		t.Fatalf("expected error for unknown gin mode")
	}
}

func TestParseFlagsRejectsUnknownFlag(t *testing.T) {
	if _, err := parseFlags([]string{"--no-such-flag", "1"}); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}
