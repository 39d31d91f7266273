// Package config loads github-dow settings from flags, environment and an optional file.
package config

import (
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrMissingToken     = errors.New("GITHUB_TOKEN environment variable is not set")
	ErrInvalidPerPage   = errors.New("per_page must be between 1 and 100")
	ErrInvalidAttempts  = errors.New("retry_attempts must be positive")
	ErrInvalidTimezone  = errors.New("unknown timezone")
	ErrInvalidSleepTime = errors.New("rate_limit_sleep must be positive")
)

const (
	envPrefix             = "GHDOW"
	defaultPerPage        = 100
	maxPerPage            = 100
	defaultRetryAttempts  = 3
	defaultTimezone       = "Local"
	defaultRateLimitSleep = time.Hour
)

// Config holds all configuration for a github-dow run.
type Config struct {
	Token               string        `mapstructure:"token"`
	BaseURL             string        `mapstructure:"base_url"`
	GraphQLURL          string        `mapstructure:"graphql_url"`
	PerPage             int           `mapstructure:"per_page"`
	Timezone            string        `mapstructure:"timezone"`
	RetryAttempts       int           `mapstructure:"retry_attempts"`
	RateLimitSleep      time.Duration `mapstructure:"rate_limit_sleep"`
	IncludePullRequests bool          `mapstructure:"include_pull_requests"`
	Verbose             bool          `mapstructure:"verbose"`
}

// Load reads configuration. Precedence, highest first: flags, environment
// (GHDOW_*, plus GITHUB_TOKEN for the token), the file at configPath, defaults.
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", configPath)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("token", envPrefix+"_TOKEN", "GITHUB_TOKEN"); err != nil {
		return Config{}, errors.Wrap(err, "bind token env")
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("per_page", defaultPerPage)
	v.SetDefault("timezone", defaultTimezone)
	v.SetDefault("retry_attempts", defaultRetryAttempts)
	v.SetDefault("rate_limit_sleep", defaultRateLimitSleep.String())
	v.SetDefault("include_pull_requests", false)
	v.SetDefault("verbose", false)
}

// bindFlags maps dashed flag names onto underscored keys.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = errors.Wrapf(err, "bind flag %s", f.Name)
		}
	})
	return bindErr
}

// Validate checks the configuration for values the gateway cannot use.
func (c Config) Validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.PerPage < 1 || c.PerPage > maxPerPage {
		return errors.Wrapf(ErrInvalidPerPage, "got %d", c.PerPage)
	}
	if c.RetryAttempts < 1 {
		return errors.Wrapf(ErrInvalidAttempts, "got %d", c.RetryAttempts)
	}
	if c.RateLimitSleep <= 0 {
		return errors.Wrapf(ErrInvalidSleepTime, "got %s", c.RateLimitSleep)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == defaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.WithDetails(errors.Wrapf(ErrInvalidTimezone, "%q: %v", c.Timezone, err), "timezone", c.Timezone)
	}
	return loc, nil
}
