// Package config loads application settings from an optional TOML file
// with SCRIBE_* environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds everything the pipeline and front ends need. Zero values
// are filled from defaults in Load.
type Config struct {
	DataDir    string
	DBFilename string
	ExportsDir string
	TempDir    string
	PromptsDir string

	ASRCommand  string // external transcription helper
	ASRModel    string // small|medium|large
	ASRFallback string // optional secondary helper tried when the primary fails
	Device      string // auto|cpu|cuda
	Language    string

	SummarizerCommand string // external LLM helper; empty routes to the extractive fallback
	SummaryModel      string

	MaxChunkSeconds float64
	MinSilenceGap   float64
	OverlapSeconds  float64
	Workers         int
	MaxRetries      int

	SRTMaxCueSeconds float64
	SRTMaxLineChars  int
}

type fileConfig struct {
	DataDir    string `toml:"data_dir"`
	DBFilename string `toml:"db_filename"`
	ExportsDir string `toml:"exports_dir"`
	TempDir    string `toml:"temp_dir"`
	PromptsDir string `toml:"prompts_dir"`

	ASRCommand  string `toml:"asr_command"`
	ASRModel    string `toml:"asr_model"`
	ASRFallback string `toml:"asr_fallback_command"`
	Device      string `toml:"device"`
	Language    string `toml:"language"`

	SummarizerCommand string `toml:"summarizer_command"`
	SummaryModel      string `toml:"summary_model"`

	MaxChunkSeconds float64 `toml:"max_chunk_seconds"`
	MinSilenceGap   float64 `toml:"min_silence_gap_seconds"`
	OverlapSeconds  float64 `toml:"overlap_seconds"`
	Workers         int     `toml:"workers"`
	MaxRetries      int     `toml:"max_retries"`

	SRTMaxCueSeconds float64 `toml:"srt_max_cue_seconds"`
	SRTMaxLineChars  int     `toml:"srt_max_line_chars"`
}

// Load reads the config file when present, applies environment
// overrides, and fills defaults.
func Load() (*Config, error) {
	cfg := defaults()

	if path := FilePath(); path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err == nil {
			applyFile(cfg, fc)
		}
	}
	applyEnvOverrides(cfg)

	if cfg.ExportsDir == "" {
		cfg.ExportsDir = filepath.Join(cfg.DataDir, "exports")
	}
	if cfg.TempDir == "" {
		cfg.TempDir = filepath.Join(cfg.DataDir, "tmp")
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		DataDir:         defaultDataDir(),
		DBFilename:      "scribe.sqlite",
		ASRCommand:      "scribe-whisper",
		ASRModel:        "small",
		Device:          "auto",
		Language:        "auto",
		MaxChunkSeconds: 30,
		MinSilenceGap:   0.5,
		OverlapSeconds:  1.0,
		Workers:         2,
		MaxRetries:      2,
		SRTMaxLineChars: 42,
	}
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.DataDir != "" {
		cfg.DataDir = expandTilde(fc.DataDir)
	}
	if fc.DBFilename != "" {
		cfg.DBFilename = fc.DBFilename
	}
	if fc.ExportsDir != "" {
		cfg.ExportsDir = expandTilde(fc.ExportsDir)
	}
	if fc.TempDir != "" {
		cfg.TempDir = expandTilde(fc.TempDir)
	}
	if fc.PromptsDir != "" {
		cfg.PromptsDir = expandTilde(fc.PromptsDir)
	}
	if fc.ASRCommand != "" {
		cfg.ASRCommand = fc.ASRCommand
	}
	if fc.ASRModel != "" {
		cfg.ASRModel = fc.ASRModel
	}
	if fc.ASRFallback != "" {
		cfg.ASRFallback = fc.ASRFallback
	}
	if fc.Device != "" {
		cfg.Device = fc.Device
	}
	if fc.Language != "" {
		cfg.Language = fc.Language
	}
	if fc.SummarizerCommand != "" {
		cfg.SummarizerCommand = fc.SummarizerCommand
	}
	if fc.SummaryModel != "" {
		cfg.SummaryModel = fc.SummaryModel
	}
	if fc.MaxChunkSeconds > 0 {
		cfg.MaxChunkSeconds = fc.MaxChunkSeconds
	}
	if fc.MinSilenceGap > 0 {
		cfg.MinSilenceGap = fc.MinSilenceGap
	}
	if fc.OverlapSeconds > 0 {
		cfg.OverlapSeconds = fc.OverlapSeconds
	}
	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if fc.MaxRetries > 0 {
		cfg.MaxRetries = fc.MaxRetries
	}
	if fc.SRTMaxCueSeconds > 0 {
		cfg.SRTMaxCueSeconds = fc.SRTMaxCueSeconds
	}
	if fc.SRTMaxLineChars > 0 {
		cfg.SRTMaxLineChars = fc.SRTMaxLineChars
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCRIBE_DATA_DIR"); v != "" {
		cfg.DataDir = expandTilde(v)
	}
	if v := os.Getenv("SCRIBE_EXPORTS_DIR"); v != "" {
		cfg.ExportsDir = expandTilde(v)
	}
	if v := os.Getenv("SCRIBE_ASR_COMMAND"); v != "" {
		cfg.ASRCommand = v
	}
	if v := os.Getenv("SCRIBE_ASR_MODEL"); v != "" {
		cfg.ASRModel = v
	}
	if v := os.Getenv("SCRIBE_DEVICE"); v != "" {
		cfg.Device = v
	}
	if v := os.Getenv("SCRIBE_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("SCRIBE_SUMMARIZER_COMMAND"); v != "" {
		cfg.SummarizerCommand = v
	}
	if v := os.Getenv("SCRIBE_SUMMARY_MODEL"); v != "" {
		cfg.SummaryModel = v
	}
	if v := os.Getenv("SCRIBE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
}

// DBPath is where the SQLite database lives.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBFilename)
}

// EnsureDirs creates the writable directories the pipeline expects.
func (c *Config) EnsureDirs() error {
	for _, dir := range []string{c.DataDir, c.ExportsDir, c.TempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// FilePath locates the config file, or returns "" when none exists.
func FilePath() string {
	var configDir string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configDir = filepath.Join(xdg, "scribe")
	} else if home, err := os.UserHomeDir(); err == nil {
		configDir = filepath.Join(home, ".config", "scribe")
	} else {
		return ""
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".scribe")
	}
	return filepath.Join(".", ".scribe")
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
