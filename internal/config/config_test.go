package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"initializr/internal/config"
	"initializr/internal/metadata"
)

// writeSettings writes content to a settings.yaml under a temp dir.
func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.ServiceURLs{metadata.DefaultServiceURL}, cfg.ServiceURL)
	assert.Equal(t, config.ScopeGlobal, cfg.LastUsed.Scope)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Editor.InsertSpaces)
}

func TestLoadServiceURLScalarOrList(t *testing.T) {
	scalar := writeSettings(t, "serviceUrl: https://start.example.com/\n")
	cfg, err := config.Load(scalar)
	require.NoError(t, err)
	assert.Equal(t, config.ServiceURLs{"https://start.example.com/"}, cfg.ServiceURL)

	list := writeSettings(t, "serviceUrl:\n  - https://a.example.com/\n  - https://b.example.com/\n")
	cfg, err = config.Load(list)
	require.NoError(t, err)
	assert.Equal(t, config.ServiceURLs{"https://a.example.com/", "https://b.example.com/"}, cfg.ServiceURL)

	empty := writeSettings(t, "serviceUrl: []\n")
	cfg, err = config.Load(empty)
	require.NoError(t, err)
	assert.Equal(t, config.ServiceURLs{metadata.DefaultServiceURL}, cfg.ServiceURL)
}

func TestLoadFullFile(t *testing.T) {
	path := writeSettings(t, `
defaults:
  language: kotlin
  javaVersion: "21"
  groupId: com.acme
  packaging: war
  dependencies: [web, actuator]
lastUsed:
  scope: bootVersion
editor:
  insertSpaces: true
  tabSize: 2
logLevel: debug
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kotlin", cfg.Defaults.Language)
	assert.Equal(t, "21", cfg.Defaults.JavaVersion)
	assert.Equal(t, "com.acme", cfg.Defaults.GroupID)
	assert.Equal(t, "war", cfg.Defaults.Packaging)
	assert.Equal(t, []string{"web", "actuator"}, cfg.Defaults.Dependencies)
	assert.Equal(t, config.ScopeBootVersion, cfg.LastUsed.Scope)
	assert.Equal(t, config.Editor{InsertSpaces: true, TabSize: 2}, cfg.Editor)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INITIALIZR_SERVICE_URL", "https://a.example.com/, https://b.example.com/")
	t.Setenv("INITIALIZR_LOG_LEVEL", "info")
	t.Setenv("INITIALIZR_DEFAULT_LANGUAGE", "groovy")
	t.Setenv("INITIALIZR_EDITOR_TAB_SIZE", "3")

	cfg, err := config.Load(writeSettings(t, "logLevel: error\n"))
	require.NoError(t, err)
	assert.Equal(t, config.ServiceURLs{"https://a.example.com/", "https://b.example.com/"}, cfg.ServiceURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "groovy", cfg.Defaults.Language)
	assert.Equal(t, config.Editor{InsertSpaces: true, TabSize: 3}, cfg.Editor)
}

func TestValidateRejects(t *testing.T) {
	tests := map[string]string{
		"relative url":  "serviceUrl: start.spring.io\n",
		"bad scope":     "lastUsed:\n  scope: project\n",
		"bad log level": "logLevel: loud\n",
		"negative tab":  "editor:\n  tabSize: -1\n",
		"map url":       "serviceUrl:\n  a: b\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeSettings(t, content))
			assert.Error(t, err)
		})
	}
}
