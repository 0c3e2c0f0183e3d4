package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// Config represents the aigate configuration.
type Config struct {
	Provider         string        `json:"provider"`
	Model            string        `json:"model"`
	Format           string        `json:"format"`
	RulesFile        string        `json:"rulesFile,omitempty"`
	MaxBatchBytes    int           `json:"maxBatchBytes"`
	MaxFilesPerBatch int           `json:"maxFilesPerBatch"`
	ScoreScale       float64       `json:"scoreScale"`
	Exclude          []string      `json:"exclude,omitempty"`
	WebhookURL       string        `json:"webhookUrl,omitempty"`
	Cache            CacheConfig   `json:"cache"`
	Privacy          PrivacyConfig `json:"privacy"`
}

// CacheConfig controls verdict caching behavior.
type CacheConfig struct {
	Enabled    bool   `json:"enabled"`
	Dir        string `json:"dir,omitempty"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// PrivacyConfig controls redaction of batch payloads.
type PrivacyConfig struct {
	RedactSecrets bool `json:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider:         "openai",
		Model:            "gpt-4o-mini",
		Format:           "text",
		MaxBatchBytes:    60000,
		MaxFilesPerBatch: 10,
		ScoreScale:       1,
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 86400,
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for aigate.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "aigate"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "aigate"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "aigate"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "aigate"), nil
	default:
		return filepath.Join(home, ".config", "aigate"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil
// error if the file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides. The overrides map comes from CLI flags (only non-zero values
// should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.RulesFile != "" {
		dst.RulesFile = src.RulesFile
	}
	if src.MaxBatchBytes > 0 {
		dst.MaxBatchBytes = src.MaxBatchBytes
	}
	if src.MaxFilesPerBatch > 0 {
		dst.MaxFilesPerBatch = src.MaxFilesPerBatch
	}
	if src.ScoreScale > 0 {
		dst.ScoreScale = src.ScoreScale
	}
	if len(src.Exclude) > 0 {
		dst.Exclude = src.Exclude
	}
	if src.WebhookURL != "" {
		dst.WebhookURL = src.WebhookURL
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	if src.Cache.TTLSeconds > 0 {
		dst.Cache.TTLSeconds = src.Cache.TTLSeconds
	}
	// JSON cannot distinguish false from unset for bools, so the file can
	// only turn caching on, not off. Use AIGATE_NO_CACHE for that.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("AIGATE_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("AIGATE_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("AIGATE_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("AIGATE_RULES"); v != "" {
		cfg.RulesFile = v
	}
	if v := os.Getenv("AIGATE_WEBHOOK_URL"); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv("AIGATE_MAX_BATCH_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxBatchBytes = n
		}
	}
	if v := os.Getenv("AIGATE_MAX_FILES_PER_BATCH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFilesPerBatch = n
		}
	}
	if v := os.Getenv("AIGATE_SCORE_SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ScoreScale = f
		}
	}
	if os.Getenv("AIGATE_NO_CACHE") != "" {
		cfg.Cache.Enabled = false
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["rulesFile"]; ok && v != "" {
		cfg.RulesFile = v
	}
	if v, ok := overrides["webhookUrl"]; ok && v != "" {
		cfg.WebhookURL = v
	}
	if v, ok := overrides["maxBatchBytes"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxBatchBytes = n
		}
	}
	if v, ok := overrides["maxFilesPerBatch"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxFilesPerBatch = n
		}
	}
	if v, ok := overrides["scoreScale"]; ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ScoreScale = f
		}
	}
}

// SetField sets a single config field by key name. Returns error if key is
// unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = value
	case "rulesFile":
		cfg.RulesFile = value
	case "webhookUrl":
		cfg.WebhookURL = value
	case "maxBatchBytes":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxBatchBytes must be an integer: %w", err)
		}
		cfg.MaxBatchBytes = n
	case "maxFilesPerBatch":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("maxFilesPerBatch must be an integer: %w", err)
		}
		cfg.MaxFilesPerBatch = n
	case "scoreScale":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("scoreScale must be a number: %w", err)
		}
		cfg.ScoreScale = f
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
