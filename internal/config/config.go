// Package config loads session-finder settings from
// ~/.config/session-finder/config.toml, falling back to defaults when the
// file is absent.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ProjectsRoot string `toml:"projects_root"`
	RipgrepPath  string `toml:"ripgrep_path"`
	Finder       string `toml:"finder"`    // "ripgrep" or "sqlite"
	TopTerms     int    `toml:"top_terms"` // terms kept per session summary
	MinTermLen   int    `toml:"min_term_len"`
	Workers      int    `toml:"workers"` // 0 = one per CPU
}

func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ProjectsRoot: filepath.Join(home, ".claude", "projects"),
		Finder:       "ripgrep",
		TopTerms:     50,
		MinTermLen:   3,
	}

	cfgPath := filepath.Join(home, ".config", "session-finder", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	cfg.ProjectsRoot = expandHome(cfg.ProjectsRoot, home)

	switch cfg.Finder {
	case "ripgrep", "sqlite":
	default:
		return nil, fmt.Errorf("config: unknown finder %q (want ripgrep or sqlite)", cfg.Finder)
	}

	return cfg, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
