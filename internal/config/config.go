// Package config reads the optional per-project config.toml. Every key is
// optional; defaults apply and file values only override keys the file
// actually defines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"montage-cli/internal/model"
)

const fileName = "config.toml"

type Config struct {
	// SnapThresholdMs is the snap window in timeline milliseconds.
	SnapThresholdMs int64
	// WebAddr is the listen address of the snapshot server.
	WebAddr string
	// LogPath, when set, enables the structured debug log.
	LogPath string
	// Theme selects the TUI color theme.
	Theme string
}

type fileConfig struct {
	SnapThresholdMs int64  `toml:"snap_threshold_ms"`
	WebAddr         string `toml:"web_addr"`
	LogPath         string `toml:"log_path"`
	Theme           string `toml:"theme"`
}

func Default() Config {
	return Config{
		SnapThresholdMs: model.SnapThresholdMs,
		WebAddr:         "127.0.0.1:7878",
		Theme:           "default",
	}
}

// Load reads <dir>/config.toml on top of the defaults. A missing file is not
// an error; a present but invalid one is.
func Load(dir string) (Config, error) {
	cfg := Default()
	path := filepath.Join(dir, fileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("snap_threshold_ms") {
		if raw.SnapThresholdMs <= 0 {
			return Config{}, fmt.Errorf("config %s: snap_threshold_ms must be positive, got %d", path, raw.SnapThresholdMs)
		}
		cfg.SnapThresholdMs = raw.SnapThresholdMs
	}
	if meta.IsDefined("web_addr") {
		addr := strings.TrimSpace(raw.WebAddr)
		if addr == "" {
			return Config{}, fmt.Errorf("config %s: web_addr must not be blank", path)
		}
		cfg.WebAddr = addr
	}
	if meta.IsDefined("log_path") {
		cfg.LogPath = strings.TrimSpace(raw.LogPath)
	}
	if meta.IsDefined("theme") {
		cfg.Theme = strings.TrimSpace(raw.Theme)
	}
	return cfg, nil
}
