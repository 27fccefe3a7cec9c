package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"huntersledger/internal/ics"
	"huntersledger/internal/invite"
)

const (
	defaultListen          = "127.0.0.1:8080"
	defaultLogLevel        = "info"
	defaultTimezone        = invite.DefaultZone
	defaultDurationMinutes = int(invite.DefaultDuration / time.Minute)
	defaultReminderMinutes = int(ics.DefaultReminderLead / time.Minute)
	defaultLocation        = invite.DefaultLocation
	defaultProductID       = ics.DefaultProductID
	defaultUIDDomain       = ics.DefaultUIDDomain
	defaultNotes           = invite.DefaultNotes
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration. It is loaded once at
// startup and not mutated afterwards.
type Config struct {
	// Listen is the HTTP listen address for the invite API.
	Listen string `yaml:"listen" json:"listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Timezone is the IANA region used when a request gives no timezone or
	// an unknown one (e.g. "Europe/London").
	Timezone string `yaml:"default_timezone" json:"default_timezone"`

	// DurationMinutes is the wall-clock length of every session.
	DurationMinutes int `yaml:"duration_minutes" json:"duration_minutes"`

	// ReminderMinutes is how long before the start the alarm fires.
	ReminderMinutes int `yaml:"reminder_minutes" json:"reminder_minutes"`

	// AlarmText overrides the reminder text. Empty means it is derived
	// from ReminderMinutes.
	AlarmText string `yaml:"alarm_text,omitempty" json:"alarm_text,omitempty"`

	Location     string `yaml:"location" json:"location"`
	ProductID    string `yaml:"product_id" json:"product_id"`
	UIDDomain    string `yaml:"uid_domain" json:"uid_domain"`
	DefaultNotes string `yaml:"default_notes" json:"default_notes"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:          defaultListen,
		LogLevel:        defaultLogLevel,
		Timezone:        defaultTimezone,
		DurationMinutes: defaultDurationMinutes,
		ReminderMinutes: defaultReminderMinutes,
		Location:        defaultLocation,
		ProductID:       defaultProductID,
		UIDDomain:       defaultUIDDomain,
		DefaultNotes:    defaultNotes,
	}
}

// Normalize fills in missing/zero values so that partially-filled configs
// still behave correctly.
func (c *Config) Normalize() {
	d := DefaultConfig()
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.DurationMinutes <= 0 {
		c.DurationMinutes = d.DurationMinutes
	}
	if c.ReminderMinutes <= 0 {
		c.ReminderMinutes = d.ReminderMinutes
	}
	if c.Location == "" {
		c.Location = d.Location
	}
	if c.ProductID == "" {
		c.ProductID = d.ProductID
	}
	if c.UIDDomain == "" {
		c.UIDDomain = d.UIDDomain
	}
	if c.DefaultNotes == "" {
		c.DefaultNotes = d.DefaultNotes
	}
}

// Duration returns DurationMinutes as a time.Duration.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

// ReminderLead returns ReminderMinutes as a time.Duration.
func (c *Config) ReminderLead() time.Duration {
	return time.Duration(c.ReminderMinutes) * time.Minute
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600 perms,
// creating the parent directory (0700) if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".huntersledger-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
