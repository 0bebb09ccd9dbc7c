package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds shellweave CLI configuration.
// Priority: env vars > settings.json > defaults.
type Config struct {
	LogLevel string `json:"log_level"`
	Indent   string `json:"indent"`
	OutPath  string `json:"out_path"`
}

func defaultConfig() Config {
	return Config{
		LogLevel: "info",
		Indent:   "    ",
	}
}

func shellweaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shellweave"
	}
	return filepath.Join(home, ".shellweave")
}

func settingsPath() string {
	return filepath.Join(shellweaveDir(), "settings.json")
}

func loadConfig() Config {
	cfg := defaultConfig()

	// Layer 2: settings.json (ignore if missing).
	if data, err := os.ReadFile(settingsPath()); err == nil {
		_ = json.Unmarshal(data, &cfg)
	}

	// Layer 3: env vars override.
	if v := os.Getenv("SHELLWEAVE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SHELLWEAVE_INDENT"); v != "" {
		cfg.Indent = v
	}
	if v := os.Getenv("SHELLWEAVE_OUT"); v != "" {
		cfg.OutPath = v
	}

	return cfg
}
