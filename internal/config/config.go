// Package config loads and validates the risk engine's configuration: the
// server reads environment variables, the CLI reads a YAML file through
// viper with environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the CLI configuration.
type Config struct {
	Pricing PricingConfig `mapstructure:"pricing"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type PricingConfig struct {
	// BinomialSteps is the lattice resolution for binomial valuations.
	BinomialSteps int `mapstructure:"binomial_steps"`
	// RiskFreeRate is the default rate when a scenario omits one.
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`
	// Calendar names the trading calendar for expiry-date conversion.
	Calendar string `mapstructure:"calendar"`
}

type OutputConfig struct {
	Pretty bool `mapstructure:"pretty"`
}

type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
}

// Load reads the CLI configuration from the given path, or from
// ./configs/default.yaml and ./default.yaml when the path is empty.
// Missing files fall back to defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("pricing.binomial_steps", 500)
	v.SetDefault("pricing.risk_free_rate", 0.05)
	v.SetDefault("pricing.calendar", "XNYS")
	v.SetDefault("output.pretty", true)
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("RISKENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the pricing limits.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}
	validateBinomialSteps(errs, c.Pricing.BinomialSteps)
	if errs.HasErrors() {
		return errs
	}
	return nil
}
