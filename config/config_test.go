package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seekr/search"
)

func TestLoadEnginesEmptyPath(t *testing.T) {
	cfg, err := LoadEngines("", "key")
	require.NoError(t, err)
	assert.Equal(t, "key", cfg.SerpAPIKey)
	assert.Empty(t, cfg.Order)
	assert.Empty(t, cfg.Disabled)
}

func TestLoadEnginesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engines.yaml")
	data := `
disabled:
  - google
order:
  text:
    - brave
    - duckduckgo
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadEngines(path, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"google"}, cfg.Disabled)
	assert.Equal(t, []string{"brave", "duckduckgo"}, cfg.Order[search.CategoryText])
}

func TestLoadEnginesBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engines.yaml")
	require.NoError(t, os.WriteFile(path, []byte("disabled: [unclosed"), 0o644))

	_, err := LoadEngines(path, "")
	assert.Error(t, err)
}
