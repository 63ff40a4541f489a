// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the data directory
	globalConfDir string // Path to global config directory (e.g., ~/.config/three-daily-goals)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Merge order: default <- global <- data directory.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	paths := []string{domain.DataConfigPath(l.dataDir)}
	if l.globalConfDir != "" {
		paths = append([]string{filepath.Join(l.globalConfDir, domain.ConfigFileName)}, paths...)
	}

	for _, path := range paths {
		raw, err := readRaw(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		cfg.Warnings = append(cfg.Warnings, applyRaw(cfg, raw)...)
	}
	return cfg, nil
}

// LoadGlobal returns only the global configuration applied over the defaults.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	raw, err := readRaw(filepath.Join(l.globalConfDir, domain.ConfigFileName))
	if err != nil {
		return nil, err
	}
	cfg := domain.NewDefaultConfig()
	cfg.Warnings = applyRaw(cfg, raw)
	return cfg, nil
}

// readRaw parses a TOML file into a generic map.
func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// applyRaw copies recognized keys onto cfg and returns warnings for the rest.
// Keys that are absent leave the existing value untouched.
func applyRaw(cfg *domain.Config, raw map[string]any) []string {
	var warnings []string
	unknown := func(section, key string) {
		warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, key))
	}
	invalid := func(section, key string, v any) {
		warnings = append(warnings, fmt.Sprintf("invalid value for [%s] %s: %v", section, key, v))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}

		switch section {
		case "store":
			for k, v := range m {
				switch k {
				case "type":
					s, ok := v.(string)
					if !ok || !validStoreType(s) {
						invalid(section, k, v)
						continue
					}
					cfg.Store.Type = s
				case "namespace":
					if s, ok := v.(string); ok && s != "" {
						cfg.Store.Namespace = s
					}
				default:
					unknown(section, k)
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						cfg.Log.Level = s
					}
				default:
					unknown(section, k)
				}
			}
		case "compass":
			for k, v := range m {
				switch k {
				case "steps":
					steps, ok := toStrings(v)
					if !ok {
						invalid(section, k, v)
						continue
					}
					cfg.Compass.Steps = steps
				case "platform":
					if s, ok := v.(string); ok {
						cfg.Compass.Platform = s
					}
				case "timezone":
					if s, ok := v.(string); ok {
						cfg.Compass.Timezone = s
					}
				case "due_window_days":
					n, ok := toInt(v)
					if !ok || n < 0 {
						invalid(section, k, v)
						continue
					}
					cfg.Compass.DueWindowDays = n
				case "classification_min_age_hours":
					n, ok := toInt(v)
					if !ok || n < 0 {
						invalid(section, k, v)
						continue
					}
					cfg.Compass.ClassificationMinAgeHours = n
				default:
					unknown(section, k)
				}
			}
		case "calendar":
			for k, v := range m {
				switch k {
				case "enabled":
					if b, ok := v.(bool); ok {
						cfg.Calendar.Enabled = b
					}
				case "default_duration":
					if s, ok := v.(string); ok {
						cfg.Calendar.DefaultDuration = s
					}
				default:
					unknown(section, k)
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	return warnings
}

func validStoreType(s string) bool {
	switch s {
	case domain.StoreTypeJSON, domain.StoreTypeSQLite, domain.StoreTypeGit:
		return true
	}
	return false
}

// toInt accepts the integer types go-toml decodes into.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func toStrings(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
