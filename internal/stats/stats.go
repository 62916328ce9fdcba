// Package stats provides the external statistics consumed by the overlay.
// Statistics are optional: every failure degrades to "no statistics".
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gridline/racesim/internal/config"
	"github.com/gridline/racesim/internal/overlay"
)

// Provider fetches one statistics snapshot.
type Provider interface {
	Fetch(ctx context.Context) (*overlay.Stats, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (*overlay.Stats, error)

func (f ProviderFunc) Fetch(ctx context.Context) (*overlay.Stats, error) { return f(ctx) }

// FromConfig builds the configured provider, or returns nil when statistics
// are disabled.
func FromConfig(cfg config.StatsConfig) (Provider, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Source {
	case "", "http":
		return New(cfg.URL, cfg.APIKey, cfg.Timeout), nil
	case "file":
		if cfg.File == "" {
			return nil, fmt.Errorf("stats source is file but no stats file is configured")
		}
		return FileProvider{Path: cfg.File}, nil
	default:
		return nil, fmt.Errorf("unknown stats source: %s", cfg.Source)
	}
}

// Load fetches statistics from p with the given timeout. Any failure is logged
// and yields nil, which the overlay treats as a pass-through.
func Load(ctx context.Context, p Provider, timeout time.Duration, logger *slog.Logger) *overlay.Stats {
	if p == nil {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	s, err := p.Fetch(ctx)
	if err != nil {
		logger.Warn("Statistics unavailable, using base attributes",
			"provider", fmt.Sprint(p), "error", err, "elapsed", time.Since(start))
		return nil
	}
	if !s.Available() {
		logger.Warn("Statistics empty, using base attributes", "provider", fmt.Sprint(p))
		return nil
	}
	logger.Info("Statistics loaded",
		"provider", fmt.Sprint(p), "drivers", len(s.Drivers), "teams", len(s.Teams), "elapsed", time.Since(start))
	return s
}
