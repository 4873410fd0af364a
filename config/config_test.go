package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir()) // no config file

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ASRModel != "small" || cfg.Language != "auto" {
		t.Errorf("defaults = model %q, language %q", cfg.ASRModel, cfg.Language)
	}
	if cfg.MaxChunkSeconds != 30 || cfg.OverlapSeconds != 1.0 {
		t.Errorf("chunking defaults = %v/%v", cfg.MaxChunkSeconds, cfg.OverlapSeconds)
	}
	if cfg.ExportsDir != filepath.Join(cfg.DataDir, "exports") {
		t.Errorf("exports dir = %q, want under data dir", cfg.ExportsDir)
	}
	if cfg.DBPath() != filepath.Join(cfg.DataDir, "scribe.sqlite") {
		t.Errorf("db path = %q", cfg.DBPath())
	}
}

func TestLoadFromFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, "scribe")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := `
data_dir = "/var/lib/scribe"
asr_model = "medium"
workers = 4
srt_max_line_chars = 32
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/var/lib/scribe" {
		t.Errorf("data dir = %q", cfg.DataDir)
	}
	if cfg.ASRModel != "medium" || cfg.Workers != 4 || cfg.SRTMaxLineChars != 32 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	// Unset file keys keep their defaults.
	if cfg.Language != "auto" {
		t.Errorf("language = %q, want default auto", cfg.Language)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	dir := filepath.Join(xdg, "scribe")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`asr_model = "medium"`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SCRIBE_ASR_MODEL", "large")
	t.Setenv("SCRIBE_WORKERS", "8")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ASRModel != "large" {
		t.Errorf("asr model = %q, want env override", cfg.ASRModel)
	}
	if cfg.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Workers)
	}
}

func TestEnsureDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SCRIBE_DATA_DIR", filepath.Join(t.TempDir(), "scribe-data"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}
	for _, dir := range []string{cfg.DataDir, cfg.ExportsDir, cfg.TempDir} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("dir %q not created: %v", dir, err)
		}
	}
}
