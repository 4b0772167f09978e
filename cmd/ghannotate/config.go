package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

const configFileName = "ghannotate.toml"

type toolConfig struct {
	Annotate annotateConfig `toml:"annotate"`
	Summary  summaryConfig  `toml:"summary"`
}

type annotateConfig struct {
	AllowWarnings bool     `toml:"allow_warnings"`
	Exclude       []string `toml:"exclude"`
	State         string   `toml:"state"`
}

type summaryConfig struct {
	Path string `toml:"path"`
}

// loadedConfig is a parsed config file; defined records which keys it set.
type loadedConfig struct {
	Path    string
	Config  toolConfig
	defined func(key ...string) bool
}

func (c *loadedConfig) has(key ...string) bool {
	return c != nil && c.defined(key...)
}

// resolve makes a path from the config file relative to its directory.
func (c *loadedConfig) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}

func findConfigFile(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadConfig(path string) (*loadedConfig, error) {
	var cfg toolConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return &loadedConfig{Path: path, Config: cfg, defined: meta.IsDefined}, nil
}

// settings is the effective configuration of one invocation.
type settings struct {
	cargo         string
	allowWarnings bool
	summaryPath   string
	exclude       []string
	statePath     string
	ui            uiMode
	timings       bool
	configPath    string
}

// resolveSettings merges flags, the config file and the environment. An
// explicitly set flag wins over the config file, which wins over the
// environment.
func resolveSettings(fs *pflag.FlagSet, getenv func(string) string, cwd string) (settings, error) {
	var s settings

	configFlag, err := fs.GetString("config")
	if err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg *loadedConfig
	if configFlag != "" {
		cfg, err = loadConfig(configFlag)
		if err != nil {
			return s, err
		}
	} else {
		path, ok, err := findConfigFile(cwd)
		if err != nil {
			return s, err
		}
		if ok {
			if cfg, err = loadConfig(path); err != nil {
				return s, err
			}
		}
	}
	if cfg != nil {
		s.configPath = cfg.Path
	}

	if s.cargo, err = fs.GetString("cargo"); err != nil {
		return s, fmt.Errorf("failed to get cargo flag: %w", err)
	}
	if s.cargo == "" {
		s.cargo = getenv("CARGO")
	}
	if s.cargo == "" {
		s.cargo = "cargo"
	}

	if s.allowWarnings, err = fs.GetBool("allow-warnings"); err != nil {
		return s, fmt.Errorf("failed to get allow-warnings flag: %w", err)
	}
	if !fs.Changed("allow-warnings") && cfg.has("annotate", "allow_warnings") {
		s.allowWarnings = cfg.Config.Annotate.AllowWarnings
	}

	if s.summaryPath, err = fs.GetString("summary"); err != nil {
		return s, fmt.Errorf("failed to get summary flag: %w", err)
	}
	if !fs.Changed("summary") {
		switch {
		case cfg.has("summary", "path") && cfg.Config.Summary.Path != "":
			s.summaryPath = cfg.resolve(cfg.Config.Summary.Path)
		default:
			s.summaryPath = getenv("GITHUB_STEP_SUMMARY")
		}
	}

	if s.exclude, err = fs.GetStringSlice("exclude"); err != nil {
		return s, fmt.Errorf("failed to get exclude flag: %w", err)
	}
	if !fs.Changed("exclude") && cfg.has("annotate", "exclude") {
		s.exclude = cfg.Config.Annotate.Exclude
	}

	if s.statePath, err = fs.GetString("state"); err != nil {
		return s, fmt.Errorf("failed to get state flag: %w", err)
	}
	if !fs.Changed("state") && cfg.has("annotate", "state") {
		s.statePath = cfg.resolve(cfg.Config.Annotate.State)
	}

	uiValue, err := fs.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}

	if s.timings, err = fs.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return s, nil
}
