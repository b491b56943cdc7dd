package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"patterns": ["macos", "browser"], "exclude": ["*.bak"], "confirm": false}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(cfg.Patterns) != 2 || cfg.Patterns[0] != "macos" {
		t.Errorf("Patterns = %v; want [macos browser]", cfg.Patterns)
	}
	if len(cfg.Exclude) != 1 || cfg.Exclude[0] != "*.bak" {
		t.Errorf("Exclude = %v; want [*.bak]", cfg.Exclude)
	}
	if cfg.Confirm == nil || *cfg.Confirm {
		t.Errorf("Confirm = %v; want false", cfg.Confirm)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestNormalizeConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{Patterns: []string{"windows"}, Exclude: []string{"*.tmp"}},
		},
		{
			name:    "unknown pattern",
			cfg:     Config{Patterns: []string{"kde"}},
			wantErr: "kde",
		},
		{
			name:    "bad exclude glob",
			cfg:     Config{Exclude: []string{"["}},
			wantErr: "exclude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := normalizeConfig(tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("normalizeConfig: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v; want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()

	// Explicit paths win without existence checks.
	path, ok, err := resolveConfigPath(dir, "/somewhere/custom.json")
	if err != nil || !ok || path != "/somewhere/custom.json" {
		t.Fatalf("explicit: path=%q ok=%v err=%v", path, ok, err)
	}

	// A root dotfile is picked up automatically.
	dotfile := filepath.Join(dir, ".dupekill.json")
	if err := os.WriteFile(dotfile, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	path, ok, err = resolveConfigPath(dir, "")
	if err != nil || !ok || path != dotfile {
		t.Fatalf("dotfile: path=%q ok=%v err=%v", path, ok, err)
	}
}

func TestParseNameList(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"macos", []string{"macos"}},
		{"macos,browser", []string{"macos", "browser"}},
		{" macos , browser ,", []string{"macos", "browser"}},
		{",,", []string{}},
	}

	for _, tt := range tests {
		got := parseNameList(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("parseNameList(%q) = %v; want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseNameList(%q) = %v; want %v", tt.raw, got, tt.want)
				break
			}
		}
	}
}
