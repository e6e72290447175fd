// Package config resolves where the store lives and how the CLI talks.
//
// Sources, lowest priority first:
//  1. Defaults
//  2. User config file (todolist/config.toml under os.UserConfigDir)
//  3. Project config file (.todolist.toml in the current directory)
//  4. File named by TODOLIST_CONFIG
//  5. Environment variables (TODOLIST_DB, TODOLIST_LOG_LEVEL, TODOLIST_THEME)
//  6. CLI flags
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/camrohlof/todolist/internal/store"
)

const (
	DefaultLogLevel = "warn"
	DefaultTheme    = "classic"

	userConfigDir     = "todolist"
	userConfigFile    = "config.toml"
	projectConfigFile = ".todolist.toml"
	envConfig         = "TODOLIST_CONFIG"
	envDB             = "TODOLIST_DB"
	envLogLevel       = "TODOLIST_LOG_LEVEL"
	envTheme          = "TODOLIST_THEME"
)

// Config holds the resolved settings.
type Config struct {
	DBPath   string `toml:"db_path"`
	LogLevel string `toml:"log_level"`
	Theme    string `toml:"theme"`
}

// Overrides carries flag values. Empty fields were not set on the command line.
type Overrides struct {
	DBPath   string
	LogLevel string
	Theme    string
}

// Load builds the configuration from every source and applies overrides last.
func Load(o Overrides) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}
	if p := os.Getenv(envConfig); p != "" {
		if err := loadConfigFile(cfg, expandPath(p)); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", p, err)
		}
	}

	loadFromEnv(cfg)
	applyOverrides(cfg, o)

	if err := finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DBPath = store.DataFileName
	cfg.LogLevel = DefaultLogLevel
	cfg.Theme = DefaultTheme
}

// loadConfigFile decodes path over cfg. Keys missing from the file keep the
// value they already had; unknown keys are rejected.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv(envDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(envTheme); v != "" {
		cfg.Theme = v
	}
}

func applyOverrides(cfg *Config, o Overrides) {
	if o.DBPath != "" {
		cfg.DBPath = o.DBPath
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Theme != "" {
		cfg.Theme = o.Theme
	}
}

func finalize(cfg *Config) error {
	cfg.DBPath = expandPath(strings.TrimSpace(cfg.DBPath))
	if cfg.DBPath == "" {
		return errors.New("config: db_path is empty")
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	return nil
}

func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return existingFile(filepath.Join(dir, userConfigDir, userConfigFile))
}

func findProjectConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return existingFile(filepath.Join(wd, projectConfigFile))
}

func existingFile(p string) string {
	info, err := os.Stat(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return p // let the decoder report it
		}
		return ""
	}
	if info.IsDir() {
		return ""
	}
	return p
}

// expandPath expands environment variables and a leading ~.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
