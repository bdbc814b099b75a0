package main

import (
	"os"

	"github.com/probelabs/sleuth/internal/config"
)

// resolveString picks a setting with precedence: flag > environment >
// config file > default.
func resolveString(flagVal, envVar string, cfgVal *string, def string) string {
	if flagVal != "" {
		return flagVal
	}
	if envVar != "" {
		if v := os.Getenv(envVar); v != "" {
			return v
		}
	}
	if cfgVal != nil && *cfgVal != "" {
		return *cfgVal
	}
	return def
}

// childEnv builds the caller overlay for the agent process: repository and
// issue coordinates plus the run identifier, so tools the agent shells out to
// (gh in particular) resolve the same repository the investigation targets.
func childEnv(repo, issue, runID string) map[string]string {
	env := map[string]string{"SLEUTH_RUN_ID": runID}
	if repo != "" {
		env["GITHUB_REPOSITORY"] = repo
	}
	if issue != "" {
		env["SLEUTH_ISSUE"] = issue
	}
	return env
}

// readOptionalFile reads path, treating the empty path as "not provided".
func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// loadConfig reads .sleuth.yaml from the current directory unless disabled,
// returning an empty config when skipped or absent.
func loadConfig(skip bool) (*config.Config, []string, error) {
	if skip {
		return &config.Config{}, nil, nil
	}
	result, err := config.LoadFromDirWithWarnings(".")
	if err != nil {
		return nil, nil, err
	}
	return result.Config, result.Warnings, nil
}
