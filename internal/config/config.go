package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"questions/internal/apperrors"
)

// TokenizerConfig selects and configures the tokenizer implementation.
type TokenizerConfig struct {
	Type      string `yaml:"type"`
	MinLength int    `yaml:"min_length"`
}

// SegmenterConfig configures how documents are split into sentences.
type SegmenterConfig struct {
	Type          string `yaml:"type"`
	SplitPassages bool   `yaml:"split_passages"`
}

// RankingConfig holds how many files and sentences a query returns.
type RankingConfig struct {
	FileMatches     int `yaml:"file_matches"`
	SentenceMatches int `yaml:"sentence_matches"`
}

// CorpusConfig controls which files are read from the corpus directory.
type CorpusConfig struct {
	// Extensions limits the corpus to these file extensions. Empty reads
	// every regular, non-hidden file.
	Extensions []string `yaml:"extensions,omitempty"`
	Workers    int      `yaml:"workers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Segmenter SegmenterConfig `yaml:"segmenter"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			if err := applyEnvOverrides(cfg); err != nil {
				return nil, err
			}
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "", err, path)
	}
	applyConfigDefaults(cfg)
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault tries ./questions.yaml first, then ~/.config/questions/config.yaml.
// If neither exists, it returns defaults without writing anything.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "questions.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := DefaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultUserConfigPath returns ~/.config/questions/config.yaml.
func DefaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "questions", "config.yaml"), nil
}

// Default returns a fresh default configuration.
func Default() *AppConfig { return defaultConfig() }

// Validate rejects settings the pipeline cannot run with.
func (c *AppConfig) Validate() error {
	if c.Ranking.FileMatches <= 0 {
		return apperrors.Newf(apperrors.ErrConfiguration, "", "ranking.file_matches must be positive, got %d", c.Ranking.FileMatches)
	}
	if c.Ranking.SentenceMatches <= 0 {
		return apperrors.Newf(apperrors.ErrConfiguration, "", "ranking.sentence_matches must be positive, got %d", c.Ranking.SentenceMatches)
	}
	switch c.Tokenizer.Type {
	case "bleve", "regexp":
	default:
		return apperrors.Newf(apperrors.ErrConfiguration, "", "unknown tokenizer: %s", c.Tokenizer.Type)
	}
	switch c.Segmenter.Type {
	case "punkt", "regexp":
	default:
		return apperrors.Newf(apperrors.ErrConfiguration, "", "unknown segmenter: %s", c.Segmenter.Type)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return apperrors.New(apperrors.ErrConfiguration, "", "metrics.addr is required when metrics are enabled")
	}
	return nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Tokenizer: TokenizerConfig{Type: "bleve", MinLength: 1},
		Segmenter: SegmenterConfig{Type: "punkt", SplitPassages: true},
		Ranking:   RankingConfig{FileMatches: 1, SentenceMatches: 1},
		Corpus:    CorpusConfig{Workers: 4},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Metrics:   MetricsConfig{Addr: ":9090"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Tokenizer.Type == "" {
		cfg.Tokenizer.Type = "bleve"
	}
	if cfg.Tokenizer.MinLength == 0 {
		cfg.Tokenizer.MinLength = 1
	}
	if cfg.Segmenter.Type == "" {
		cfg.Segmenter.Type = "punkt"
	}
	if cfg.Corpus.Workers == 0 {
		cfg.Corpus.Workers = 4
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

func applyEnvOverrides(cfg *AppConfig) error {
	if err := envInt("QUESTIONS_FILE_MATCHES", &cfg.Ranking.FileMatches); err != nil {
		return err
	}
	if err := envInt("QUESTIONS_SENTENCE_MATCHES", &cfg.Ranking.SentenceMatches); err != nil {
		return err
	}
	if v := os.Getenv("QUESTIONS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("QUESTIONS_METRICS_ADDR"); v != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = v
	}
	return nil
}

// envInt sets dst from the integer in key when the variable is set.
func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrConfiguration, "", err, key)
	}
	*dst = n
	return nil
}

func (c *AppConfig) String() string {
	return fmt.Sprintf("tokenizer=%s segmenter=%s files=%d sentences=%d",
		c.Tokenizer.Type, c.Segmenter.Type, c.Ranking.FileMatches, c.Ranking.SentenceMatches)
}
