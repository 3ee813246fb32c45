package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bidon15/anchorkit/anchoring"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Schema.URL)
	assert.Equal(t, 15*time.Second, cfg.Schema.Timeout)
	assert.False(t, cfg.Schema.Reload)

	art := cfg.Artifact.Artifact()
	assert.Equal(t, uint32(0), art.RuntimeID)
	assert.Equal(t, anchoring.ArtifactName, art.Name)
	assert.Equal(t, anchoring.DefaultVersion, art.Version)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anchorctl.yaml")
	data := []byte(`
schema:
  url: http://registry.internal:9000
  timeout: 3s
  reload: true
artifact:
  runtime: 2
  name: exonum-btc-anchoring
  version: 1.1.0
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://registry.internal:9000", cfg.Schema.URL)
	assert.Equal(t, 3*time.Second, cfg.Schema.Timeout)
	assert.True(t, cfg.Schema.Reload)
	assert.Equal(t, "2:exonum-btc-anchoring:1.1.0", cfg.Artifact.Artifact().String())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("ANCHORCTL_SCHEMA_URL", "http://localhost:8000")
	t.Setenv("ANCHORCTL_SCHEMA_RELOAD", "true")
	t.Setenv("ANCHORCTL_ARTIFACT_VERSION", "2.0.0")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Schema.URL)
	assert.True(t, cfg.Schema.Reload)
	assert.Equal(t, "2.0.0", cfg.Artifact.Version)
}

func TestLoad_MissingPinnedFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
