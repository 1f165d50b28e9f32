package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerly/internal/record"
)

// FileName is the config file at the root of a books directory.
const FileName = "ledgerly.yaml"

// EnvPrefix prefixes every environment override, e.g. LEDGERLY_PARSE_POLICY.
const EnvPrefix = "LEDGERLY_"

// Config represents ledgerly.yaml.
type Config struct {
	Books      BooksConfig      `yaml:"books"`
	Parsing    ParsingConfig    `yaml:"parsing"`
	Logging    LoggingConfig    `yaml:"logging"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Git        GitConfig        `yaml:"git"`
}

// BooksConfig locates the text stores, relative to the books directory.
type BooksConfig struct {
	Journal      string `yaml:"journal" env:"JOURNAL"`
	Ledger       string `yaml:"ledger" env:"LEDGER"`
	TrialBalance string `yaml:"trial_balance" env:"TRIAL_BALANCE"`
	RunLog       string `yaml:"run_log" env:"RUN_LOG"`
}

// ParsingConfig selects how malformed lines are treated.
type ParsingConfig struct {
	Policy string `yaml:"policy" env:"PARSE_POLICY"` // "lenient" or "strict"
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"` // "text" or "json"
}

// ClassifierConfig points at the keyword rules used by `record`.
type ClassifierConfig struct {
	Rules string `yaml:"rules" env:"CLASSIFIER_RULES"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit" env:"GIT_AUTO_COMMIT"`
	AuthorName  string `yaml:"author_name" env:"GIT_AUTHOR_NAME"`
	AuthorEmail string `yaml:"author_email" env:"GIT_AUTHOR_EMAIL"`
}

// Paths are the absolute locations of the books files.
type Paths struct {
	Root         string
	Journal      string
	Ledger       string
	TrialBalance string
	RunLog       string
	Rules        string
}

// Load reads a ledgerly.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadDir loads the configuration of a books directory: ledgerly.yaml if
// present (defaults otherwise), then .env, then LEDGERLY_* variables.
func LoadDir(root string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := Load(filepath.Join(root, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new books directory.
func Default() *Config {
	return &Config{
		Books: BooksConfig{
			Journal:      "journal.txt",
			Ledger:       "ledger.txt",
			TrialBalance: "trial_balance.txt",
			RunLog:       filepath.Join("logs", "rebuild-log.csv"),
		},
		Parsing: ParsingConfig{
			Policy: string(record.Lenient),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Classifier: ClassifierConfig{
			Rules: filepath.Join("rules", "classification-rules.yaml"),
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Ledgerly",
			AuthorEmail: "books@ledgerly.local",
		},
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := record.ParsePolicy(c.Parsing.Policy); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid config: unknown log format %q", c.Logging.Format)
	}
	if c.Books.Journal == "" || c.Books.Ledger == "" || c.Books.TrialBalance == "" {
		return errors.New("invalid config: books paths must not be empty")
	}
	return nil
}

// Policy returns the parse policy, defaulting to lenient.
func (c *Config) Policy() record.Policy {
	p, err := record.ParsePolicy(c.Parsing.Policy)
	if err != nil {
		return record.Lenient
	}
	return p
}

// Paths resolves the configured files against root.
func (c *Config) Paths(root string) Paths {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	return Paths{
		Root:         root,
		Journal:      resolve(c.Books.Journal),
		Ledger:       resolve(c.Books.Ledger),
		TrialBalance: resolve(c.Books.TrialBalance),
		RunLog:       resolve(c.Books.RunLog),
		Rules:        resolve(c.Classifier.Rules),
	}
}
