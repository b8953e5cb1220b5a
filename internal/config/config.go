package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultConfigName is the config file looked up in the working directory
// when none is given explicitly.
const DefaultConfigName = ".lcovdiff"

// Config holds the settings of one lcovdiff run.
type Config struct {
	CoverageFile string `mapstructure:"coverage_file"`

	// ChangedFiles, when non-empty, is the diff and git is not consulted.
	ChangedFiles []string `mapstructure:"changed_files"`
	// Diff restricts the report to files changed relative to the base branch.
	Diff bool `mapstructure:"diff"`

	GitHead        string   `mapstructure:"git_head"`
	GitBase        string   `mapstructure:"git_base"`
	BaseCandidates []string `mapstructure:"base_candidates"`
	Repo           string   `mapstructure:"repo"`

	Output   string `mapstructure:"output"`
	Format   string `mapstructure:"format"`
	Color    bool   `mapstructure:"color"`
	LogLevel string `mapstructure:"log_level"`
}

// RestrictToDiff reports whether the report should cover only changed files.
func (c *Config) RestrictToDiff() bool {
	return c.Diff || len(c.ChangedFiles) > 0
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.CoverageFile == "" {
		return errors.New("coverage file is required (--coverage-file or coverage_file)")
	}
	if c.GitHead == "" {
		return errors.New("git head revision must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("coverage_file", "")
	v.SetDefault("changed_files", []string{})
	v.SetDefault("diff", false)
	v.SetDefault("git_base", "")
	v.SetDefault("repo", "")
	v.SetDefault("output", "")
	v.SetDefault("git_head", "HEAD")
	v.SetDefault("base_candidates", []string{"main", "master", "trunk"})
	v.SetDefault("format", "text")
	v.SetDefault("color", true)
	v.SetDefault("log_level", "info")
}

// Load resolves the configuration from, in increasing precedence: defaults,
// the config file, environment variables and flags the user set.
//
// configFile may be empty, in which case .lcovdiff.yaml in the working
// directory is read if it exists.
func Load(flags *pflag.FlagSet, configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("LCOVDIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// CI systems export the pull request refs under these names.
	if err := v.BindEnv("git_head", "LCOVDIFF_GIT_HEAD", "GITHUB_HEAD_REF"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("git_base", "LCOVDIFF_GIT_BASE", "GITHUB_BASE_REF"); err != nil {
		return nil, err
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
		})
		if bindErr != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	return &cfg, nil
}
