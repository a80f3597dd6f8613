package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
)

// Defaults match the default file layout of the preprocess command.
const (
	DefaultInput     = "data_raw.csv"
	DefaultTarget    = "encoded_label"
	DefaultTransform = "preprocessing/pipeline.bin"
	DefaultHeader    = "preprocessing/column_headers.csv"
	DefaultOutputDir = "preprocessing/data_preprocessing"
	DefaultTestRatio = 0.3
	DefaultSeed      = 42
)

// ErrInvalidConfig is wrapped by every validation failure of Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting of a preprocessing run.
type Config struct {
	Input     string            `mapstructure:"input"`
	Target    string            `mapstructure:"target"`
	Transform string            `mapstructure:"transform"`
	Header    string            `mapstructure:"header"`
	OutputDir string            `mapstructure:"output_dir"`
	Labels    string            `mapstructure:"labels"`
	TestRatio float64           `mapstructure:"test_ratio"`
	Seed      int64             `mapstructure:"seed"`
	Plot      bool              `mapstructure:"plot"`
	Schema    map[string]string `mapstructure:"schema"`
	Log       Log               `mapstructure:"log"`
}

// Log is the logging section of the configuration.
type Log struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Setup prepares v to read the environment (TABPREP_*) and the optional
// config file, then applies the defaults.
func Setup(v *viper.Viper, cfgFile string) error {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("tabprep")
	v.AutomaticEnv()
	applyDefaults(v)

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read configuration file %s: %w", cfgFile, err)
	}
	return nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("input", DefaultInput)
	v.SetDefault("target", DefaultTarget)
	v.SetDefault("transform", DefaultTransform)
	v.SetDefault("header", DefaultHeader)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("labels", "")
	v.SetDefault("test_ratio", DefaultTestRatio)
	v.SetDefault("seed", DefaultSeed)
	v.SetDefault("plot", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	applyDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errm error
	if c.Target == "" {
		errm = multierror.Append(errm, fmt.Errorf("%w: target is empty", ErrInvalidConfig))
	}
	if c.Transform == "" {
		errm = multierror.Append(errm, fmt.Errorf("%w: transform path is empty", ErrInvalidConfig))
	}
	if c.Header == "" {
		errm = multierror.Append(errm, fmt.Errorf("%w: header path is empty", ErrInvalidConfig))
	}
	if c.OutputDir == "" {
		errm = multierror.Append(errm, fmt.Errorf("%w: output directory is empty", ErrInvalidConfig))
	}
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		errm = multierror.Append(errm, fmt.Errorf("%w: test_ratio must be in (0, 1), got %v", ErrInvalidConfig, c.TestRatio))
	}
	return errm
}
