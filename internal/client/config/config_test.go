package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", cfg.ServerBaseURL)
	assert.Equal(t, "skinform.db", cfg.DatabasePath)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionMaxAge)
}

func TestParseJson_OverlaysValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"server_base_url":"https://api.example.com","session_max_age":"48h"}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"client", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "https://api.example.com", cfg.ServerBaseURL)
	assert.Equal(t, 48*time.Hour, cfg.SessionMaxAge)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "skinform.db", cfg.DatabasePath)
}

func TestJsonConfig_UnmarshalDuration(t *testing.T) {
	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(`{"session_max_age":"72h"}`), &jc))
	assert.Equal(t, 72*time.Hour, jc.SessionMaxAge.Duration)
}

func TestParseFlags_Overrides(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"client", "-a", "http://10.0.0.5:9000", "-d", "/tmp/s.db"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, "http://10.0.0.5:9000", cfg.ServerBaseURL)
	assert.Equal(t, "/tmp/s.db", cfg.DatabasePath)
}
