package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveStringPrecedence(t *testing.T) {
	cfgVal := "from-config"

	t.Setenv("SLEUTH_TEST_RESOLVE", "from-env")

	if got := resolveString("from-flag", "SLEUTH_TEST_RESOLVE", &cfgVal, "default"); got != "from-flag" {
		t.Errorf("flag should win: got %q", got)
	}
	if got := resolveString("", "SLEUTH_TEST_RESOLVE", &cfgVal, "default"); got != "from-env" {
		t.Errorf("env should win over config: got %q", got)
	}

	os.Unsetenv("SLEUTH_TEST_RESOLVE")
	if got := resolveString("", "SLEUTH_TEST_RESOLVE", &cfgVal, "default"); got != "from-config" {
		t.Errorf("config should win over default: got %q", got)
	}
	if got := resolveString("", "SLEUTH_TEST_RESOLVE", nil, "default"); got != "default" {
		t.Errorf("expected default, got %q", got)
	}

	empty := ""
	if got := resolveString("", "", &empty, "default"); got != "default" {
		t.Errorf("empty config value should fall through: got %q", got)
	}
}

func TestChildEnv(t *testing.T) {
	env := childEnv("acme/widgets", "42", "run-1")
	if env["GITHUB_REPOSITORY"] != "acme/widgets" {
		t.Errorf("GITHUB_REPOSITORY = %q", env["GITHUB_REPOSITORY"])
	}
	if env["SLEUTH_ISSUE"] != "42" {
		t.Errorf("SLEUTH_ISSUE = %q", env["SLEUTH_ISSUE"])
	}
	if env["SLEUTH_RUN_ID"] != "run-1" {
		t.Errorf("SLEUTH_RUN_ID = %q", env["SLEUTH_RUN_ID"])
	}

	env = childEnv("", "", "run-2")
	if _, ok := env["GITHUB_REPOSITORY"]; ok {
		t.Error("GITHUB_REPOSITORY should be absent without a repo")
	}
	if _, ok := env["SLEUTH_ISSUE"]; ok {
		t.Error("SLEUTH_ISSUE should be absent without an issue")
	}
}

func TestReadOptionalFile(t *testing.T) {
	if got, err := readOptionalFile(""); err != nil || got != "" {
		t.Errorf("empty path: got %q, err %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "changes.diff")
	if err := os.WriteFile(path, []byte("-a\n+b\n"), 0644); err != nil {
		t.Fatalf("failed to write diff: %v", err)
	}
	got, err := readOptionalFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "-a\n+b\n" {
		t.Errorf("got %q", got)
	}

	if _, err := readOptionalFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigSkip(t *testing.T) {
	cfg, warnings, err := loadConfig(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
	if cfg.Agent != nil {
		t.Errorf("skipped load should yield empty config")
	}
}

func TestLoadConfigReadsWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	content := "agent: codex\n"
	if err := os.WriteFile(filepath.Join(dir, ".sleuth.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(orig)

	cfg, _, err := loadConfig(false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agent == nil || *cfg.Agent != "codex" {
		t.Errorf("expected agent codex from config file")
	}
}
