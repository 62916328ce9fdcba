package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gridline/racesim/internal/cache"
	"github.com/gridline/racesim/internal/config"
	"github.com/gridline/racesim/internal/logging"
	intOtel "github.com/gridline/racesim/internal/otel"
	"github.com/gridline/racesim/internal/roster"
	"github.com/gridline/racesim/internal/stats"
	"github.com/gridline/racesim/internal/storage"
	"github.com/gridline/racesim/internal/telemetry"
	"github.com/gridline/racesim/internal/weekend"
	"github.com/gridline/racesim/pkg/core"
)

// Version and BuildDate can be set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

const appName = "racesim"

// flag name -> config key
var flagKeys = map[string]string{
	"track":     "sim.track",
	"seed":      "sim.seed",
	"weather":   "sim.weather",
	"season":    "sim.season",
	"laps":      "sim.laps",
	"roster":    "sim.rosterFile",
	"storage":   "storage.type",
	"stats":     "stats.enabled",
	"stats-url": "stats.url",
	"log-level": "logLevel",
	"logs-dir":  "logsDir",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(appName, pflag.ContinueOnError)
	fs.String("config", ".", "directory containing "+config.FileName)
	fs.Bool("version", false, "print version and exit")

	fs.StringP("track", "t", "", "circuit or country to race at (default: next event on the calendar)")
	fs.Uint64P("seed", "s", 0, "random seed, 0 for a fresh one")
	fs.StringP("weather", "w", "", "force the weather: dry, wet or mixed")
	fs.Bool("season", false, "race the full calendar and print the championship")
	fs.Bool("laps", false, "print the lap chart")
	fs.String("roster", "", "YAML roster file replacing the built-in season")
	fs.String("storage", "", "results store: memory or sqlite")
	fs.Bool("stats", false, "blend external driver and team statistics")
	fs.String("stats-url", "", "statistics service base URL")
	fs.String("log-level", "", "debug, info, warn or error")
	fs.String("logs-dir", "", "directory for log files")
	return fs
}

func bindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := viper.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet()
	fs.SetOutput(out)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if v, _ := fs.GetBool("version"); v {
		fmt.Fprintf(out, "%s %s (built %s)\n", appName, Version, BuildDate)
		return nil
	}

	configDir, _ := fs.GetString("config")
	if err := config.Load(configDir); err != nil {
		return err
	}
	if err := bindFlags(fs); err != nil {
		return err
	}

	sessionStart := time.Now()
	logger, closeLogs, err := setupLogging(ctx, sessionStart)
	if err != nil {
		return err
	}
	defer closeLogs()

	rc := weekend.NewRaceContext()
	logger.Logger().Info("Starting up", "version", Version, "buildDate", BuildDate, "config", configDir)

	svc, closeSvc, err := buildService(ctx, logger, rc, sessionStart)
	if err != nil {
		logger.Logger().Error("Startup failed", "error", err)
		return err
	}
	defer closeSvc()

	simCfg := config.GetSimConfig()
	condition := core.Condition(simCfg.Weather)

	if simCfg.Season {
		season, err := svc.RunSeason(ctx, simCfg.Seed, condition)
		if err != nil {
			return err
		}
		renderSeason(out, season)
		return nil
	}

	rep, err := svc.Run(ctx, weekend.Request{Track: simCfg.Track, Weather: condition, Seed: simCfg.Seed})
	if err != nil {
		return err
	}
	renderRace(out, rep, simCfg.Laps)
	return nil
}

type logSession struct {
	manager *logging.SlogManager
	context *contextSlot
}

func (s *logSession) Logger() *slog.Logger { return s.manager.Logger() }

// contextSlot lets logging be set up before the race context exists.
type contextSlot struct {
	rc *weekend.RaceContext
}

func (c *contextSlot) Attrs() []slog.Attr {
	if c.rc == nil {
		return nil
	}
	return c.rc.Attrs()
}

func setupLogging(ctx context.Context, sessionStart time.Time) (*logSession, func(), error) {
	logsDir := config.GetString("logsDir")
	logFile, err := logging.OpenSessionLog(logsDir, appName, sessionStart, config.GetInt("logsKeep"))
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){func() { _ = logFile.Close() }}

	var otelFile *os.File
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		otelFile, err = os.OpenFile(filepath.Join(logsDir, appName+".otel.jsonl"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening otel log file: %w", err)
		}
		closers = append(closers, func() { _ = otelFile.Close() })
	}
	var otelWriter io.Writer
	if otelFile != nil {
		otelWriter = otelFile
	}
	provider, err := intOtel.New(ctx, intOtel.FromConfig(otelCfg, otelWriter))
	if err != nil {
		return nil, nil, err
	}

	slot := &contextSlot{}
	opts := []logging.Option{logging.WithContext(slot.Attrs)}

	graylog := config.GetGraylogConfig()
	var gelfErr error
	if graylog.Enabled {
		gw, err := logging.NewGELFWriter(graylog.Address, appName)
		if err != nil {
			gelfErr = err
		} else {
			opts = append(opts, logging.WithGELF(gw))
			closers = append(closers, func() { _ = gw.Close() })
		}
	}

	m := logging.NewSlogManager()
	m.Setup(logFile, config.GetString("logLevel"), provider.LoggerProvider(), opts...)
	if gelfErr != nil {
		m.Logger().Warn("Graylog unavailable, continuing without it", "error", gelfErr)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Flush(shutdownCtx)
		_ = provider.Shutdown(shutdownCtx)
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return &logSession{manager: m, context: slot}, cleanup, nil
}

func buildService(ctx context.Context, logs *logSession, rc *weekend.RaceContext, sessionStart time.Time) (*weekend.Service, func(), error) {
	logger := logs.Logger()
	logs.context.rc = rc
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	simCfg := config.GetSimConfig()
	r := roster.Default()
	if simCfg.RosterFile != "" {
		loaded, err := roster.LoadFile(simCfg.RosterFile)
		if err != nil {
			return nil, nil, err
		}
		r = loaded
		logger.Info("Loaded roster", "path", simCfg.RosterFile, "drivers", len(r.Drivers), "circuits", len(r.Circuits))
	}

	store, err := storage.NewBackend(config.GetStorageConfig())
	if err != nil {
		return nil, nil, err
	}
	if err := store.Init(); err != nil {
		return nil, nil, fmt.Errorf("initializing results store: %w", err)
	}
	closers = append(closers, func() { _ = store.Close() })

	statsCfg := config.GetStatsConfig()
	provider, err := stats.FromConfig(statsCfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	var statsProvider stats.Provider
	if provider != nil {
		statsProvider = cache.NewStatsCache(provider)
		logger.Info("Statistics enabled", "source", fmt.Sprint(provider))
	}

	var sink *telemetry.Sink
	influxCfg := config.GetInfluxConfig()
	if influxCfg.Enabled {
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
			Level(zerolog.WarnLevel).
			With().Timestamp().Str("component", "telemetry").Logger()
		if influxCfg.BackupDir == "" {
			influxCfg.BackupDir = config.GetString("logsDir")
		}
		mgr := telemetry.NewManager(influxCfg, zl)
		if err := mgr.Connect(ctx); err != nil {
			logger.Warn("Lap telemetry disabled", "error", err)
		} else {
			sink = telemetry.NewSink(mgr, influxCfg.BatchSize)
			closers = append(closers, func() {
				if err := mgr.Close(); err != nil {
					logger.Warn("Closing lap telemetry", "error", err)
				}
			})
		}
	}

	svc, err := weekend.New(weekend.Deps{
		Roster:       r,
		Store:        store,
		Stats:        statsProvider,
		StatsTimeout: statsCfg.Timeout,
		Telemetry:    sink,
		Logger:       logger,
		Context:      rc,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	logger.Debug("Weekend service ready", "storage", fmt.Sprintf("%T", store), "session", sessionStart.Format(time.RFC3339))
	return svc, cleanup, nil
}
