package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "    ", cfg.Indent)
	assert.Equal(t, "", cfg.OutPath)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SHELLWEAVE_LOG_LEVEL", "debug")
	t.Setenv("SHELLWEAVE_INDENT", "\t")
	t.Setenv("SHELLWEAVE_OUT", "/tmp/out.ps1")

	cfg := loadConfig()
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "\t", cfg.Indent)
	assert.Equal(t, "/tmp/out.ps1", cfg.OutPath)
}
