package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/capitals/internal/worldtime"
	"github.com/mesh-intelligence/capitals/pkg/types"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
}

func TestLoadCreatesDefaultFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Equal(t, types.DefaultFileName, raw["db_file"])
	timeAPI, ok := raw["time_api"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, worldtime.DefaultBaseURL, timeAPI["base_url"])
	assert.Equal(t, "10s", timeAPI["timeout"])
	assert.EqualValues(t, 5, timeAPI["requests_per_second"])
	assert.EqualValues(t, 5, timeAPI["burst"])
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
data_dir: /srv/capitals
db_file: other.db
time_api:
  base_url: http://localhost:9000
  timeout: 2s
clock:
  tick: 500ms
log:
  level: debug
  format: json
`)

	s, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/srv/capitals", s.DataDir)
	assert.Equal(t, "other.db", s.DBFile)
	assert.Equal(t, "http://localhost:9000", s.TimeAPI.BaseURL)
	assert.Equal(t, 2*time.Second, s.TimeAPI.Timeout)
	assert.Equal(t, worldtime.DefaultBurst, s.TimeAPI.Burst, "unset keys keep defaults")
	assert.Equal(t, 500*time.Millisecond, s.Clock.Tick)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "log:\n  level: warn\n")
	t.Setenv("CAPITALS_LOG_LEVEL", "error")
	t.Setenv("CAPITALS_TIME_API_TIMEOUT", "3s")
	t.Setenv("CAPITALS_DB_FILE", "env.db")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", s.Log.Level)
	assert.Equal(t, 3*time.Second, s.TimeAPI.Timeout)
	assert.Equal(t, "env.db", s.DBFile)
}

func TestLoadDataDirIgnoresEnv(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "data_dir: /from/file\n")
	t.Setenv("CAPITALS_DATA_DIR", "/from/env")

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "/from/file", s.DataDir)
}

func TestLoadKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	body := "db_file: mine.db\n"
	writeConfig(t, dir, body)

	_, err := Load(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"zero timeout", "time_api:\n  timeout: 0s\n", ErrInvalidTimeout},
		{"negative rate", "time_api:\n  requests_per_second: -1\n", ErrInvalidRate},
		{"zero burst", "time_api:\n  burst: 0\n", ErrInvalidBurst},
		{"zero tick", "clock:\n  tick: 0s\n", ErrInvalidTick},
		{"bad format", "log:\n  format: xml\n", ErrInvalidLogFormat},
		{"empty base url", "time_api:\n  base_url: \"\"\n", ErrInvalidBaseURL},
		{"db file with path", "db_file: ../x.db\n", types.ErrFileNameInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)

			_, err := Load(dir)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "log: [unterminated\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSettingsConversions(t *testing.T) {
	s := Defaults()
	s.DBFile = "x.db"

	assert.Equal(t, types.Config{Backend: types.BackendSQLite, DataDir: "/d", FileName: "x.db"}, s.StoreConfig("/d"))

	wt := s.WorldTime()
	assert.Equal(t, worldtime.DefaultBaseURL, wt.BaseURL)
	assert.Equal(t, worldtime.DefaultTimeout, wt.Timeout)
	assert.Equal(t, worldtime.DefaultRequestsPerSecond, wt.RequestsPerSecond)
	assert.Equal(t, worldtime.DefaultBurst, wt.Burst)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "CAPITALS_DOTENV_TEST_VALUE"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))
}

func TestLoadDotEnvKeepsEnvironment(t *testing.T) {
	const key = "CAPITALS_DOTENV_TEST_KEEP"
	t.Setenv(key, "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
