package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hclifford823/icecore-resampler-2018version/internal/classify"
)

// Global configuration structure.
type Global struct {
	// DataDir is where bare input filenames are resolved.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// OutputDir is the root of the emitted artifact tree.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`

	// Synonym tokens recognized as a prefix or suffix of a column name,
	// case-sensitive.
	DepthSynonyms []string `mapstructure:"depth_synonyms" yaml:"depth_synonyms"`
	AgeSynonyms   []string `mapstructure:"age_synonyms" yaml:"age_synonyms"`

	// TrimSparseTail truncates output past a run of 5 consecutive empty bins.
	TrimSparseTail bool `mapstructure:"trim_sparse_tail" yaml:"trim_sparse_tail"`
	// LogPlots emits an extra log-scale PDF per pair.
	LogPlots bool `mapstructure:"log_plots" yaml:"log_plots"`
}

// Synonyms assembles the classifier synonym sets from config.
func (c *Global) Synonyms() classify.Synonyms {
	syn := classify.DefaultSynonyms()
	if len(c.DepthSynonyms) > 0 {
		syn[classify.Depth] = c.DepthSynonyms
	}
	if len(c.AgeSynonyms) > 0 {
		syn[classify.Year] = c.AgeSynonyms
	}
	return syn
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.icecore-resample/config.yaml, creating the
// directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".icecore-resample")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RESAMPLE")
	v.AutomaticEnv()

	v.SetDefault("data_dir", "data")
	v.SetDefault("output_dir", "output_files")
	v.SetDefault("depth_synonyms", []string{})
	v.SetDefault("age_synonyms", []string{})
	v.SetDefault("trim_sparse_tail", false)
	v.SetDefault("log_plots", true)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".icecore-resample")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
