// Package config handles the loading and parsing of the application's configuration.
// It uses the Viper library to read from a YAML file and environment variables.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Settings defines the overall configuration structure for xsscan.
// It mirrors the structure of the xsscan.yaml file and is populated by Viper.
type Settings struct {
	Target    TargetConfig    `mapstructure:"target"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Reporting ReportingConfig `mapstructure:"reporting"`
	AI        AIConfig        `mapstructure:"ai"`
	Log       LogConfig       `mapstructure:"log"`
}

// TargetConfig holds the configuration related to the scan target.
type TargetConfig struct {
	URL    string            `mapstructure:"url"`
	Method string            `mapstructure:"method"`
	Params map[string]string `mapstructure:"params"`
}

// ScannerConfig contains settings for the scanner's behavior, like worker
// count and timeouts.
type ScannerConfig struct {
	Workers   int    `mapstructure:"workers"`
	Timeout   int    `mapstructure:"timeout"`
	VerifyTLS bool   `mapstructure:"verify_tls"`
	UserAgent string `mapstructure:"user_agent"`
}

// ReportingConfig defines where and in which formats results are written.
type ReportingConfig struct {
	Path    string   `mapstructure:"path"`
	Formats []string `mapstructure:"formats"`
}

// AIConfig holds settings for the optional AI payload generation module.
// BaseURL allows pointing at any OpenAI-compatible gateway.
type AIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LoadConfig reads configuration from a file in the given path and unmarshals
// it into a Settings struct. A missing config file is not an error: the
// defaults apply and the CLI flags take over.
func LoadConfig(path string) (config Settings, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("xsscan")
	viper.SetConfigType("yaml")

	viper.SetDefault("target.method", "GET")
	viper.SetDefault("scanner.workers", 5)
	viper.SetDefault("scanner.timeout", 15)
	viper.SetDefault("scanner.verify_tls", false)
	viper.SetDefault("reporting.path", "reports")
	viper.SetDefault("reporting.formats", []string{"html", "json"})
	viper.SetDefault("ai.model", "gpt-4o-mini")
	viper.SetDefault("log.level", "info")

	viper.SetEnvPrefix("xsscan")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err = viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}
