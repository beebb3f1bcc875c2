package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRepoConfig_MissingFileIsNotAnError(t *testing.T) {
	rawYAML, warnings, err := LoadRepoConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, rawYAML)
	assert.Empty(t, warnings)
}

func TestLoadRepoConfig_ValidFile(t *testing.T) {
	dir := t.TempDir()
	content := "strictness: high\ncustom_instructions:\n  - prefer early returns\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".grepiku.yml"), []byte(content), 0o644))

	rawYAML, warnings, err := LoadRepoConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, content, rawYAML)
	assert.Empty(t, warnings)
}

func TestLoadRepoConfig_InvalidYAMLWarnsWithoutFailing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".grepiku.yml"), []byte("strictness: [unterminated"), 0o644))

	rawYAML, warnings, err := LoadRepoConfig(dir)
	require.NoError(t, err)
	assert.Empty(t, rawYAML)
	require.Len(t, warnings, 1)
}
