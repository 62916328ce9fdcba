package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "racesim.cfg.json"

// SimConfig holds simulation settings
type SimConfig struct {
	Seed       uint64 `json:"seed" mapstructure:"seed"` // 0 draws from the process-wide generator
	RosterFile string `json:"rosterFile" mapstructure:"rosterFile"`
	Weather    string `json:"weather" mapstructure:"weather"` // forced condition, empty to generate
	Track      string `json:"track" mapstructure:"track"`
	Season     bool   `json:"season" mapstructure:"season"`
	Laps       bool   `json:"laps" mapstructure:"laps"` // print the lap chart
}

// StatsConfig holds external statistics settings
type StatsConfig struct {
	Enabled bool          `json:"enabled" mapstructure:"enabled"`
	Source  string        `json:"source" mapstructure:"source"` // "http" or "file"
	URL     string        `json:"url" mapstructure:"url"`
	APIKey  string        `json:"apiKey" mapstructure:"apiKey"`
	File    string        `json:"file" mapstructure:"file"`
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
}

// SQLiteConfig holds in-memory SQLite results store settings
type SQLiteConfig struct {
	Name string `json:"name" mapstructure:"name"` // shared-cache database name, empty for a unique one
}

// StorageConfig holds results store settings
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"` // "memory" or "sqlite"
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// InfluxConfig holds lap telemetry export settings
type InfluxConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Host      string `json:"host" mapstructure:"host"`
	Port      string `json:"port" mapstructure:"port"`
	Protocol  string `json:"protocol" mapstructure:"protocol"`
	Token     string `json:"token" mapstructure:"token"`
	Org       string `json:"org" mapstructure:"org"`
	Bucket    string `json:"bucket" mapstructure:"bucket"`
	BackupDir string `json:"backupDir" mapstructure:"backupDir"`
	BatchSize int    `json:"batchSize" mapstructure:"batchSize"`
}

// GraylogConfig holds GELF log shipping settings
type GraylogConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Address string `json:"address" mapstructure:"address"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./racelogs")
	viper.SetDefault("logsKeep", 20)

	viper.SetDefault("sim.seed", 0)
	viper.SetDefault("sim.rosterFile", "")
	viper.SetDefault("sim.weather", "")
	viper.SetDefault("sim.track", "")
	viper.SetDefault("sim.season", false)
	viper.SetDefault("sim.laps", false)

	viper.SetDefault("stats.enabled", false)
	viper.SetDefault("stats.source", "http")
	viper.SetDefault("stats.url", "http://localhost:5000")
	viper.SetDefault("stats.apiKey", "")
	viper.SetDefault("stats.file", "")
	viper.SetDefault("stats.timeout", "5s")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.sqlite.name", "")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "racesim")
	viper.SetDefault("influx.bucket", "laps")
	viper.SetDefault("influx.backupDir", "./racelogs")
	viper.SetDefault("influx.batchSize", 500)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "racesim")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file. A missing file
// leaves the defaults in place.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetSimConfig returns the simulation settings.
func GetSimConfig() SimConfig {
	return SimConfig{
		Seed:       viper.GetUint64("sim.seed"),
		RosterFile: viper.GetString("sim.rosterFile"),
		Weather:    viper.GetString("sim.weather"),
		Track:      viper.GetString("sim.track"),
		Season:     viper.GetBool("sim.season"),
		Laps:       viper.GetBool("sim.laps"),
	}
}

// GetStatsConfig returns the external statistics settings.
func GetStatsConfig() StatsConfig {
	return StatsConfig{
		Enabled: viper.GetBool("stats.enabled"),
		Source:  viper.GetString("stats.source"),
		URL:     viper.GetString("stats.url"),
		APIKey:  viper.GetString("stats.apiKey"),
		File:    viper.GetString("stats.file"),
		Timeout: viper.GetDuration("stats.timeout"),
	}
}

// GetStorageConfig returns the results store settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		SQLite: SQLiteConfig{
			Name: viper.GetString("storage.sqlite.name"),
		},
	}
}

// GetInfluxConfig returns the lap telemetry settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:   viper.GetBool("influx.enabled"),
		Host:      viper.GetString("influx.host"),
		Port:      viper.GetString("influx.port"),
		Protocol:  viper.GetString("influx.protocol"),
		Token:     viper.GetString("influx.token"),
		Org:       viper.GetString("influx.org"),
		Bucket:    viper.GetString("influx.bucket"),
		BackupDir: viper.GetString("influx.backupDir"),
		BatchSize: viper.GetInt("influx.batchSize"),
	}
}

// GetGraylogConfig returns the GELF settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
