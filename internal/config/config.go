package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rshade/bundlekit/internal/batch"
	"github.com/rshade/bundlekit/internal/logging"
)

// DefaultFileName is loaded from the working directory when no explicit
// config path is given and the file exists.
const DefaultFileName = "bundlekit.yaml"

// Environment overrides for the logging section.
const (
	EnvLogLevel  = "BUNDLEKIT_LOG_LEVEL"
	EnvLogFormat = "BUNDLEKIT_LOG_FORMAT"
	EnvLogFile   = "BUNDLEKIT_LOG_FILE"
)

// Config is the complete bundlekit configuration.
type Config struct {
	Organize OrganizeConfig `yaml:"organize"`
	Verify   VerifyConfig   `yaml:"verify"`
	Repair   RepairConfig   `yaml:"repair"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// OrganizeConfig holds the organize command's layout.
type OrganizeConfig struct {
	SourceRoot    string   `yaml:"source_root"`
	ReferenceRoot string   `yaml:"reference_root"`
	TargetRoot    string   `yaml:"target_root"`
	Include       []string `yaml:"include"`
	BatchSize     int      `yaml:"batch_size"`
}

// VerifyConfig holds the verify command's layout and report settings.
type VerifyConfig struct {
	SourceRoot       string   `yaml:"source_root"`
	TargetDir        string   `yaml:"target_dir"`
	ReportPath       string   `yaml:"report_path"`
	Extensions       []string `yaml:"extensions"`
	ListLimit        int      `yaml:"list_limit"`
	ProgressInterval int      `yaml:"progress_interval"`
}

// RepairConfig holds comment repair tuning.
type RepairConfig struct {
	Lookback int `yaml:"lookback"`
}

// LoggingConfig mirrors logging.Config in YAML form.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ToLoggingConfig converts the YAML section to a logging.Config.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		File:   lc.File,
	}
}

// Default returns the built-in layout of the bundle migration workspace.
func Default() *Config {
	return &Config{
		Organize: OrganizeConfig{
			SourceRoot:    "src",
			ReferenceRoot: "sources",
			TargetRoot:    "src2/js",
			Include:       []string{"**/*.ts"},
			BatchSize:     batch.DefaultBatchSize,
		},
		Verify: VerifyConfig{
			SourceRoot:       "src",
			TargetDir:        "src2/js",
			ReportPath:       "verification_report.txt",
			Extensions:       []string{".ts", ".js"},
			ListLimit:        50,
			ProgressInterval: 100,
		},
		Repair: RepairConfig{
			Lookback: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatConsole,
		},
	}
}

// Load builds a Config from defaults, then the YAML file at path (or
// DefaultFileName in the working directory when path is empty and that file
// exists), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if unmarshalErr := yaml.Unmarshal(data, cfg); unmarshalErr != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, unmarshalErr)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// No config file in the working directory: defaults apply.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg.applyEnv(os.LookupEnv)

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok {
		c.Logging.File = v
	}
}

// Validate checks the values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	var errs []error

	if c.Organize.BatchSize < batch.MinBatchSize || c.Organize.BatchSize > batch.MaxBatchSize {
		errs = append(errs, fmt.Errorf("organize.batch_size: %w: got %d",
			batch.ErrInvalidBatchSize, c.Organize.BatchSize))
	}
	if len(c.Organize.Include) == 0 {
		errs = append(errs, errors.New("organize.include must list at least one pattern"))
	}
	if len(c.Verify.Extensions) == 0 {
		errs = append(errs, errors.New("verify.extensions must list at least one extension"))
	}
	if c.Verify.ListLimit < 0 {
		errs = append(errs, fmt.Errorf("verify.list_limit must be >= 0, got %d", c.Verify.ListLimit))
	}
	if c.Verify.ProgressInterval < 1 {
		errs = append(errs, fmt.Errorf("verify.progress_interval must be >= 1, got %d", c.Verify.ProgressInterval))
	}
	if c.Repair.Lookback < 1 {
		errs = append(errs, fmt.Errorf("repair.lookback must be >= 1, got %d", c.Repair.Lookback))
	}
	switch c.Logging.Format {
	case logging.FormatConsole, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("logging.format must be %q or %q, got %q",
			logging.FormatConsole, logging.FormatJSON, c.Logging.Format))
	}

	return errors.Join(errs...)
}

// Save writes c to path as YAML, creating parent directories as needed.
// The file is written to a temporary name first and then renamed into place.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0o750); mkdirErr != nil {
			return fmt.Errorf("creating config directory: %w", mkdirErr)
		}
	}

	tmpPath := path + ".tmp"
	if writeErr := os.WriteFile(tmpPath, data, 0o644); writeErr != nil {
		return fmt.Errorf("writing config temp file: %w", writeErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming config file: %w", renameErr)
	}
	return nil
}
