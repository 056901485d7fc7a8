package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roblaszczak/go-cleanarch/cleanarch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, "modules", cfg.Root)
	assert.True(t, cfg.IgnoreTests)
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gocleanarch.yml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1\nroot: modules\nallow_violations:\n  - infrastructure/source\naliases:\n  application: [services]\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"infrastructure/source"}, cfg.AllowedViolations)

	aliases := layerAliases(cfg)
	assert.Equal(t, cleanarch.LayerApplication, aliases["services"])
	assert.Equal(t, cleanarch.LayerInterfaces, aliases["presentation"])
	_, hasDefault := aliases["application"]
	assert.False(t, hasDefault)
}

func TestFilterValidationErrors(t *testing.T) {
	t.Parallel()

	cfg := &config{
		SharedModules:     []string{"shared"},
		AllowedViolations: []string{"infrastructure/source"},
	}
	errs := []error{
		errors.New("cannot import between directory and shared modules"),
		errors.New("services imports modules/directory/infrastructure/source"),
		errors.New("domain imports presentation"),
	}

	got := filterValidationErrors(errs, cfg)
	require.Len(t, got, 1)
	assert.Equal(t, "domain imports presentation", got[0].Error())
	assert.Nil(t, filterValidationErrors([]error{}, cfg))
}
