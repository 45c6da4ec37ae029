package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treykane/cli-notes-suggest/internal/config"
)

func TestResolveConfigAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"people_file": "/srv/team.json", "log_level": "warn"}`), 0o600))

	cfg, err := resolveConfig(flags{config: cfgPath}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/srv/team.json", cfg.PeopleFile)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.Document)

	people := filepath.Join(dir, "people.json")
	doc := filepath.Join(dir, "note.md")
	cfg, err = resolveConfig(flags{config: cfgPath, people: people, logLevel: "debug"}, []string{doc})
	require.NoError(t, err)
	assert.Equal(t, people, cfg.PeopleFile)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, doc, cfg.Document)
}

func TestResolveConfigMissingExplicitFile(t *testing.T) {
	_, err := resolveConfig(flags{config: filepath.Join(t.TempDir(), "missing.json")}, nil)
	require.ErrorIs(t, err, config.ErrNotConfigured)
}

func TestRootCmdRejectsExtraArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"a.md", "b.md"})
	cmd.SetOut(new(discard))
	cmd.SetErr(new(discard))
	require.Error(t, cmd.Execute())
}

func TestRootCmdFlags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"config", "people", "log-level"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "c", cmd.Flags().Lookup("config").Shorthand)
}

func TestSetupLoggingOpensLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "logs", "suggest.log")

	closer, err := setupLogging(cfg)
	require.NoError(t, err)
	log.Info("hello from test")
	require.NoError(t, closer.Close())
	t.Cleanup(func() { setupLogging(config.Default()) })

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), "component=cli")
}

func TestProgramOptions(t *testing.T) {
	opts := programOptions(context.Background())
	require.Len(t, opts, 3)
	for _, opt := range opts {
		assert.NotNil(t, opt)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
