package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFilePath(t *testing.T) {
	sessionStart := time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC)

	tests := []struct {
		name          string
		logsDir       string
		extensionName string
		want          string
	}{
		{
			name:          "basic path",
			logsDir:       "racelogs",
			extensionName: "racesim",
			want:          filepath.Join("racelogs", "racesim.20260212_213836.log"),
		},
		{
			name:          "relative path with dot",
			logsDir:       "./racelogs",
			extensionName: "racesim",
			want:          filepath.Join(".", "racelogs", "racesim.20260212_213836.log"),
		},
		{
			name:          "absolute path",
			logsDir:       filepath.Join("/var", "log", "racesim"),
			extensionName: "racesim",
			want:          filepath.Join("/var", "log", "racesim", "racesim.20260212_213836.log"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LogFilePath(tt.logsDir, tt.extensionName, sessionStart)
			assert.Equal(t, tt.want, got)
		})
	}
}

func touchSessions(t *testing.T, dir string, starts ...time.Time) {
	t.Helper()
	for _, s := range starts {
		require.NoError(t, os.WriteFile(LogFilePath(dir, "racesim", s), []byte("x\n"), 0o644))
	}
}

func TestPruneSessionLogs(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	touchSessions(t, dir, day, day.Add(time.Hour), day.Add(48*time.Hour))
	// neither belongs to the session rotation
	require.NoError(t, os.WriteFile(filepath.Join(dir, "racesim.otel.jsonl"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "racesim.notes.log"), nil, 0o644))

	removed, err := PruneSessionLogs(dir, "racesim", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{
		LogFilePath(dir, "racesim", day),
		LogFilePath(dir, "racesim", day.Add(time.Hour)),
	}, removed)

	assert.FileExists(t, LogFilePath(dir, "racesim", day.Add(48*time.Hour)))
	assert.FileExists(t, filepath.Join(dir, "racesim.otel.jsonl"))
	assert.FileExists(t, filepath.Join(dir, "racesim.notes.log"))

	removed, err = PruneSessionLogs(dir, "racesim", 5)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestOpenSessionLog(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "racelogs")
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	f, err := OpenSessionLog(dir, "racesim", start, 0)
	require.NoError(t, err)
	_, err = f.WriteString("first\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// reopening the same session appends
	f, err = OpenSessionLog(dir, "racesim", start, 0)
	require.NoError(t, err)
	_, err = f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(LogFilePath(dir, "racesim", start))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(data))
}

func TestOpenSessionLog_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	touchSessions(t, dir, day, day.Add(time.Hour), day.Add(2*time.Hour))

	f, err := OpenSessionLog(dir, "racesim", day.Add(3*time.Hour), 2)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "racesim.*.log"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		LogFilePath(dir, "racesim", day.Add(2*time.Hour)),
		LogFilePath(dir, "racesim", day.Add(3*time.Hour)),
	}, matches)
}
