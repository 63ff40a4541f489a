package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string       `toml:"-"`
	Store    StoreConfig    `toml:"store"`
	Compass  CompassConfig  `toml:"compass"`
	Calendar CalendarConfig `toml:"calendar"`
	Log      LogConfig      `toml:"log"`
}

// StoreConfig holds settings for task storage from [store] section.
type StoreConfig struct {
	Type      string `toml:"type,omitempty"`      // "json" (default), "sqlite" or "git"
	Namespace string `toml:"namespace,omitempty"` // Ref namespace for the git store (default: "tdg")
}

// CompassConfig holds Compass Check settings from [compass] section.
// Fields are ordered to minimize memory padding.
type CompassConfig struct {
	Steps                     []string `toml:"steps,omitempty"`                        // Declared step sequence (empty = default)
	Platform                  string   `toml:"platform,omitempty"`                     // "desktop" (default) or "mobile"
	Timezone                  string   `toml:"timezone,omitempty"`                     // IANA zone for day boundaries (empty = local)
	DueWindowDays             int      `toml:"due_window_days,omitempty"`              // Due-date step window
	ClassificationMinAgeHours int      `toml:"classification_min_age_hours,omitempty"` // Energy/effort step grace period
}

// CalendarConfig holds calendar settings from [calendar] section.
type CalendarConfig struct {
	DefaultDuration string `toml:"default_duration,omitempty"` // Duration of scheduled events (e.g. "30m")
	Enabled         bool   `toml:"enabled"`                    // Whether calendar access is granted
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// Store types.
const (
	StoreTypeJSON   = "json"
	StoreTypeSQLite = "sqlite"
	StoreTypeGit    = "git"
)

// Platforms.
const (
	PlatformDesktop = "desktop"
	PlatformMobile  = "mobile"
)

// Default configuration values.
const (
	DefaultLogLevel                  = "info"
	DefaultStoreType                 = StoreTypeJSON
	DefaultGitNamespace              = "tdg"
	DefaultDueWindowDays             = 3
	DefaultClassificationMinAgeHours = 55
	DefaultEventDuration             = 30 * time.Minute
)

// Directory and file names.
const (
	AppDirName       = "three-daily-goals" // Directory name under XDG dirs
	ConfigFileName   = "config.toml"       // Config file name
	PrefsFileName    = "preferences.yaml"  // Preferences file name
	CalendarFileName = "calendar.json"     // Local calendar file name
	TasksJSONName    = "tasks.json"        // JSON store file name
	TasksSQLiteName  = "tasks.db"          // SQLite store file name
	TasksGitDirName  = "sync"              // Git store repository directory
	LogsDirName      = "logs"              // Log directory
)

// DataConfigPath returns the config path inside the data directory.
func DataConfigPath(dataDir string) string {
	return filepath.Join(dataDir, ConfigFileName)
}

// GlobalConfigDir returns the global config directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppDirName)
}

// GlobalLogPath returns the path of the global log file.
func GlobalLogPath(dataDir string) string {
	return filepath.Join(dataDir, LogsDirName, "tdg.log")
}

// TaskLogPath returns the path of a task's log file.
func TaskLogPath(dataDir string, taskID int) string {
	return filepath.Join(dataDir, LogsDirName, fmt.Sprintf("task-%d.log", taskID))
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Type:      DefaultStoreType,
			Namespace: DefaultGitNamespace,
		},
		Compass: CompassConfig{
			Platform:                  PlatformDesktop,
			DueWindowDays:             DefaultDueWindowDays,
			ClassificationMinAgeHours: DefaultClassificationMinAgeHours,
		},
		Calendar: CalendarConfig{
			Enabled:         true,
			DefaultDuration: DefaultEventDuration.String(),
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// EventDuration returns the parsed default event duration.
func (c *Config) EventDuration() time.Duration {
	d, err := time.ParseDuration(c.Calendar.DefaultDuration)
	if err != nil || d <= 0 {
		return DefaultEventDuration
	}
	return d
}

// IsDesktop reports whether the configured platform is the desktop variant.
func (c *Config) IsDesktop() bool {
	return !strings.EqualFold(c.Compass.Platform, PlatformMobile)
}

// Location returns the configured time zone, or time.Local.
func (c *Config) Location() *time.Location {
	if c.Compass.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Compass.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// templateData holds all data for rendering the config template.
type templateData struct {
	StoreType                 string
	LogLevel                  string
	Platform                  string
	DefaultDuration           string
	Steps                     string
	DueWindowDays             int
	ClassificationMinAgeHours int
}

// RenderConfigTemplate renders the commented config template for cfg.
// stepIDs is the default step sequence.
func RenderConfigTemplate(cfg *Config, stepIDs []string) string {
	quoted := make([]string, len(stepIDs))
	for i, id := range stepIDs {
		quoted[i] = fmt.Sprintf("%q", id)
	}

	data := templateData{
		StoreType:                 cfg.Store.Type,
		LogLevel:                  cfg.Log.Level,
		Platform:                  cfg.Compass.Platform,
		DefaultDuration:           cfg.Calendar.DefaultDuration,
		Steps:                     strings.Join(quoted, ", "),
		DueWindowDays:             cfg.Compass.DueWindowDays,
		ClassificationMinAgeHours: cfg.Compass.ClassificationMinAgeHours,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}
	return buf.String()
}
