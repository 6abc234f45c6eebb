/*
config.go - Server configuration

PURPOSE:
  Loads the settings cmd/server needs. Later sources override earlier ones:

    defaults  <-  .env file  <-  environment  <-  command-line flags

  A missing .env file is not an error. Every invalid value is reported,
  not just the first.

KEYS:
  PORT                           HTTP port                  8080
  DB_PATH                        SQLite path or :memory:    tours.db
  APP_ENV                        development | production   development
  LOG_FORMAT                     json | console             json
  BASE_CURRENCY                  Currency for demo configs  EUR
  FEATURE_SEASONAL_PRICING       Seasons and modifiers      true
  FEATURE_RESOURCE_AVAILABILITY  Overlap and hours checks   true
  MONITOR_INTERVAL               Availability sweep period  1h
  MONITOR_HORIZON_DAYS           Days ahead to sweep        14

SEE ALSO:
  - cmd/server/main.go: Consumer
*/
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/tour-engine/generic"
)

// Config holds all server settings.
type Config struct {
	Port               int
	DBPath             string
	AppEnv             string
	LogFormat          string
	BaseCurrency       generic.Currency
	Features           generic.Features
	MonitorInterval    time.Duration
	MonitorHorizonDays int
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Port:               8080,
		DBPath:             "tours.db",
		AppEnv:             "development",
		LogFormat:          "json",
		BaseCurrency:       "EUR",
		Features:           generic.AllFeatures(),
		MonitorInterval:    time.Hour,
		MonitorHorizonDays: 14,
	}
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool { return c.AppEnv == "production" }

// Load reads .env from the working directory, then the environment, then
// args (typically os.Args[1:]).
func Load(args []string) (Config, error) {
	return LoadFrom(".env", args)
}

// LoadFrom is Load with an explicit dotenv path.
func LoadFrom(envFile string, args []string) (Config, error) {
	// godotenv.Load never overrides variables already set in the environment.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := Default()
	var errs []error

	if v, ok := lookup("PORT"); ok {
		cfg.Port = parseInt("PORT", v, cfg.Port, &errs)
	}
	if v, ok := lookup("DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := lookup("APP_ENV"); ok {
		cfg.AppEnv = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := lookup("BASE_CURRENCY"); ok {
		cfg.BaseCurrency = generic.Currency(v)
	}
	if v, ok := lookup("FEATURE_SEASONAL_PRICING"); ok {
		cfg.Features.SeasonalPricing = parseBool("FEATURE_SEASONAL_PRICING", v, cfg.Features.SeasonalPricing, &errs)
	}
	if v, ok := lookup("FEATURE_RESOURCE_AVAILABILITY"); ok {
		cfg.Features.ResourceAvailability = parseBool("FEATURE_RESOURCE_AVAILABILITY", v, cfg.Features.ResourceAvailability, &errs)
	}
	if v, ok := lookup("MONITOR_INTERVAL"); ok {
		cfg.MonitorInterval = parseDuration("MONITOR_INTERVAL", v, cfg.MonitorInterval, &errs)
	}
	if v, ok := lookup("MONITOR_HORIZON_DAYS"); ok {
		cfg.MonitorHorizonDays = parseInt("MONITOR_HORIZON_DAYS", v, cfg.MonitorHorizonDays, &errs)
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.IntVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path (\":memory:\" for in-memory)")
	fs.StringVar(&cfg.AppEnv, "env", cfg.AppEnv, "Application environment")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or console")
	fs.DurationVar(&cfg.MonitorInterval, "monitor-interval", cfg.MonitorInterval, "Availability sweep interval")
	fs.IntVar(&cfg.MonitorHorizonDays, "monitor-horizon", cfg.MonitorHorizonDays, "Days ahead to sweep")
	if err := fs.Parse(args); err != nil {
		errs = append(errs, err)
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func (c Config) validate() []error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path must not be empty"))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("log format %q must be json or console", c.LogFormat))
	}
	if len(c.BaseCurrency) != 3 {
		errs = append(errs, fmt.Errorf("base currency %q must be a 3-letter code", c.BaseCurrency))
	}
	if c.MonitorInterval <= 0 {
		errs = append(errs, errors.New("monitor interval must be positive"))
	}
	if c.MonitorHorizonDays < 0 {
		errs = append(errs, errors.New("monitor horizon must not be negative"))
	}
	return errs
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// The parse helpers record the error and return the fallback.

func parseInt(key, v string, fallback int, errs *[]error) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return fallback
	}
	return n
}

func parseBool(key, v string, fallback bool, errs *[]error) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return fallback
	}
	return b
}

func parseDuration(key, v string, fallback time.Duration, errs *[]error) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s %q: %w", key, v, err))
		return fallback
	}
	return d
}
