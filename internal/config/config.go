package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keeps runtime settings for the organizer.
type Config struct {
	// Env is one of development, staging, production.
	Env string
	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel      string
	TelegramToken string
	// DatabaseURL is a SQLite DSN or file path.
	DatabaseURL string
	// ReportInterval repeats the report every N hours; 0 disables it.
	ReportInterval time.Duration
	// ReportTime sends the report once a day at HH:MM; "off" disables it.
	ReportTime string
	// Timezone is the default IANA zone for users who have not set one.
	Timezone string
}

var errMissingToken = errors.New("TELEGRAM_TOKEN is required")

// keys maps config-file keys to the environment variables that override them.
var keys = map[string]string{
	"app_env":               "APP_ENV",
	"log_level":             "LOG_LEVEL",
	"telegram_token":        "TELEGRAM_TOKEN",
	"database_url":          "DATABASE_URL",
	"report_interval_hours": "REPORT_INTERVAL_HOURS",
	"report_time":           "REPORT_TIME",
	"timezone":              "TIMEZONE",
}

// Load reads configuration from the optional file at path and from
// environment variables, which take precedence. Defaults fill the rest and the
// result is validated.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("database_url", "daily_organizer.db")
	v.SetDefault("report_interval_hours", "0")
	v.SetDefault("report_time", "09:00")
	v.SetDefault("timezone", "Local")

	for key, env := range keys {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	interval, err := parseInterval(strings.TrimSpace(v.GetString("report_interval_hours")))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:            strings.TrimSpace(v.GetString("app_env")),
		LogLevel:       strings.TrimSpace(v.GetString("log_level")),
		TelegramToken:  strings.TrimSpace(v.GetString("telegram_token")),
		DatabaseURL:    strings.TrimSpace(v.GetString("database_url")),
		ReportInterval: interval,
		ReportTime:     strings.TrimSpace(v.GetString("report_time")),
		Timezone:       strings.TrimSpace(v.GetString("timezone")),
	}
	if strings.EqualFold(cfg.ReportTime, "off") {
		cfg.ReportTime = ""
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "daily_organizer.db"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks settings needed by every command.
func (c Config) Validate() error {
	switch c.Env {
	case "development", "staging", "production":
	default:
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.ReportTime != "" {
		if _, _, err := ParseClock(c.ReportTime); err != nil {
			return fmt.Errorf("REPORT_TIME: %w", err)
		}
	}
	if c.ReportInterval < 0 {
		return fmt.Errorf("REPORT_INTERVAL_HOURS must not be negative, got %s", c.ReportInterval)
	}
	return nil
}

// ValidateBot checks what serving the bot needs on top of a loaded Config.
func (c Config) ValidateBot() error {
	if c.TelegramToken == "" {
		return errMissingToken
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// parseInterval reads REPORT_INTERVAL_HOURS. Blank or 0 disables interval
// reports.
func parseInterval(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(hours) || hours < 0 || hours > math.MaxInt64/float64(time.Hour) {
		return 0, fmt.Errorf("REPORT_INTERVAL_HOURS %q must be a non-negative number of hours", raw)
	}
	return time.Duration(hours * float64(time.Hour)), nil
}

// ParseClock reads a wall-clock time written as HH:MM.
func ParseClock(s string) (hour, minute int, err error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err = strconv.Atoi(hh)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(mm)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}
