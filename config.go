package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

type Config struct {
	Patterns []string `json:"patterns"`
	Exclude  []string `json:"exclude"`
	Confirm  *bool    `json:"confirm"`
}

func resolveConfigPath(root, explicit string) (string, bool, error) {
	if explicit != "" {
		return explicit, true, nil
	}
	for _, candidate := range defaultConfigPaths(root) {
		if fileExists(candidate) {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

func loadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func defaultConfigPaths(root string) []string {
	paths := []string{}
	if root != "" {
		paths = append(paths, filepath.Join(root, ".dupekill.json"))
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "dupekill", "config.json"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "dupekill", "config.json"))
	}
	return paths
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func normalizeConfig(cfg Config) (Config, error) {
	if _, err := enabledPatterns(cfg.Patterns); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	for _, glob := range cfg.Exclude {
		if _, err := path.Match(glob, "probe"); err != nil {
			return Config{}, fmt.Errorf("config: bad exclude pattern %q", glob)
		}
	}
	return cfg, nil
}
