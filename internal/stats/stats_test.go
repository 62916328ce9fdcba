package stats

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridline/racesim/internal/config"
	"github.com/gridline/racesim/internal/overlay"
)

const statsJSON = `{
  "drivers": {"Ada Vance": {"skillDry": 92, "consistency": 88, "races": 40}},
  "teams": {"Falcon": {"reliability": 71, "races": 40}}
}`

func TestNew(t *testing.T) {
	c := New("http://localhost:5000/", "secret123", 0)

	require.NotNil(t, c)
	assert.Equal(t, "http://localhost:5000", c.baseURL)
	assert.Equal(t, "secret123", c.apiKey)
	assert.Equal(t, 30*time.Second, c.httpClient.Timeout)

	c = New("http://localhost:5000", "", 2*time.Second)
	assert.Equal(t, 2*time.Second, c.httpClient.Timeout)
}

func TestHealthcheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthcheck", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, New(server.URL, "", time.Second).Healthcheck(context.Background()))
}

func TestHealthcheck_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := New(server.URL, "", time.Second).Healthcheck(context.Background())
	assert.ErrorContains(t, err, "status 500")
}

func TestFetch(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/healthcheck" {
			w.WriteHeader(http.StatusOK)
			return
		}
		assert.Equal(t, "/stats", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(statsJSON))
	}))
	defer server.Close()

	s, err := New(server.URL, "key", time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/healthcheck", "/stats"}, paths)

	assert.Equal(t, 92.0, s.Drivers["Ada Vance"].SkillDry)
	assert.Equal(t, 40, s.Drivers["Ada Vance"].Races)
	assert.Equal(t, 71.0, s.Teams["Falcon"].Reliability)
}

func TestFetch_UnhealthySkipsStats(t *testing.T) {
	statsHit := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stats" {
			statsHit = true
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := New(server.URL, "", time.Second).Fetch(context.Background())
	assert.ErrorContains(t, err, "healthcheck returned status 503")
	assert.False(t, statsHit)
}

func TestFetch_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := New(server.URL, "", time.Second).Fetch(context.Background())
	assert.ErrorContains(t, err, "decode")
}

func TestFetch_ServerDown(t *testing.T) {
	_, err := New("http://localhost:59999", "", time.Second).Fetch(context.Background())
	assert.Error(t, err)
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "stats.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(statsJSON), 0644))
	s, err := FileProvider{Path: jsonPath}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 88.0, s.Drivers["Ada Vance"].Consistency)

	yamlPath := filepath.Join(dir, "stats.yaml")
	yamlData := "drivers:\n  Ada Vance:\n    skillWet: 75\nteams:\n  Harbor:\n    power: 83\n"
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlData), 0644))
	s, err = FileProvider{Path: yamlPath}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 75.0, s.Drivers["Ada Vance"].SkillWet)
	assert.Equal(t, 83.0, s.Teams["Harbor"].Power)

	_, err = FileProvider{Path: filepath.Join(dir, "missing.yaml")}.Fetch(context.Background())
	assert.Error(t, err)
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func TestLoad_Success(t *testing.T) {
	logger, buf := newTestLogger()
	p := ProviderFunc(func(ctx context.Context) (*overlay.Stats, error) {
		return &overlay.Stats{Drivers: map[string]overlay.DriverStats{"Ada Vance": {}}}, nil
	})

	s := Load(context.Background(), p, time.Second, logger)
	require.NotNil(t, s)
	assert.Contains(t, buf.String(), "Statistics loaded")
}

func TestLoad_ErrorFallsBack(t *testing.T) {
	logger, buf := newTestLogger()
	p := ProviderFunc(func(ctx context.Context) (*overlay.Stats, error) {
		return nil, errors.New("boom")
	})

	assert.Nil(t, Load(context.Background(), p, time.Second, logger))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoad_Timeout(t *testing.T) {
	logger, buf := newTestLogger()
	p := ProviderFunc(func(ctx context.Context) (*overlay.Stats, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	start := time.Now()
	assert.Nil(t, Load(context.Background(), p, 20*time.Millisecond, logger))
	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, buf.String(), "deadline exceeded")
}

func TestLoad_SlowServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	logger, _ := newTestLogger()
	assert.Nil(t, Load(context.Background(), New(server.URL, "", 0), 50*time.Millisecond, logger))
}

func TestLoad_EmptyAndNil(t *testing.T) {
	logger, buf := newTestLogger()
	p := ProviderFunc(func(ctx context.Context) (*overlay.Stats, error) {
		return &overlay.Stats{}, nil
	})

	assert.Nil(t, Load(context.Background(), p, 0, logger))
	assert.Contains(t, buf.String(), "Statistics empty")
	assert.Nil(t, Load(context.Background(), nil, 0, logger))
}

func TestFromConfig(t *testing.T) {
	p, err := FromConfig(config.StatsConfig{})
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = FromConfig(config.StatsConfig{Enabled: true, Source: "http", URL: "http://stats.local", Timeout: time.Second})
	require.NoError(t, err)
	assert.IsType(t, &Client{}, p)

	p, err = FromConfig(config.StatsConfig{Enabled: true, Source: "file", File: "stats.yaml"})
	require.NoError(t, err)
	assert.Equal(t, FileProvider{Path: "stats.yaml"}, p)

	_, err = FromConfig(config.StatsConfig{Enabled: true, Source: "file"})
	assert.Error(t, err)

	_, err = FromConfig(config.StatsConfig{Enabled: true, Source: "carrier pigeon"})
	assert.ErrorContains(t, err, "unknown stats source")
}
