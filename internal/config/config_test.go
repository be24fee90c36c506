package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, 0.8, cfg.Analysis.Power)
	assert.True(t, cfg.Analysis.TwoTailed)
	assert.Equal(t, "./pagesplit.db", cfg.Store.Path)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)

	tc, err := cfg.TestConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.05, tc.Alpha)
	assert.True(t, tc.TwoTailed)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagesplit.yaml")
	content := `
analysis:
  alpha: 0.01
  power: 0.9
  two_tailed: false
store:
  path: /tmp/runs.db
server:
  port: 9090
  read_timeout: 2s
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.Equal(t, 0.9, cfg.Analysis.Power)
	assert.False(t, cfg.Analysis.TwoTailed)
	assert.Equal(t, "/tmp/runs.db", cfg.Store.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_Env(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PAGESPLIT_ANALYSIS_ALPHA", "0.1")
	t.Setenv("PAGESPLIT_STORE_PATH", "env.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.1, cfg.Analysis.Alpha)
	assert.Equal(t, "env.db", cfg.Store.Path)
}

func TestLoad_InvalidAlpha(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  alpha: 1.5\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Alpha")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  format: xml\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
