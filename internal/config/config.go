// Package config defines the site configuration and includes functions for
// loading it from YAML files and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/ai-business-solutions/internal/forecast"
	"github.com/iwvelando/ai-business-solutions/pkg/constants"
	"github.com/iwvelando/ai-business-solutions/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for the site.
type Configuration struct {
	Logging LoggingConfig              `yaml:"logging,omitempty"`
	Output  OutputConfig               `yaml:"output,omitempty"`
	Site    SiteConfig                 `yaml:"site,omitempty"`
	Demo    DemoConfig                 `yaml:"demo,omitempty"`
	History []forecast.HistoricalPoint `yaml:"history,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// SiteConfig holds the branding rendered on the landing page.
type SiteConfig struct {
	CompanyName string `yaml:"companyName,omitempty"`
	Tagline     string `yaml:"tagline,omitempty"`
}

// DemoConfig holds the forecast widget settings.
type DemoConfig struct {
	Delay      time.Duration `yaml:"delay,omitempty"`      // artificial latency before a result is shown
	Seed       uint64        `yaml:"seed,omitempty"`       // 0 draws jitter from an unseeded source
	SessionTTL time.Duration `yaml:"sessionTTL,omitempty"` // idle sessions are dropped after this
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("site.companyName", constants.DefaultCompanyName)
	v.SetDefault("site.tagline", constants.DefaultTagline)
	v.SetDefault("demo.delay", constants.DefaultDemoDelay)
	v.SetDefault("demo.seed", 0)
	v.SetDefault("demo.sessionTTL", constants.DefaultSessionTTL)
	return v
}

// Default returns the configuration used when no file is present.
func Default() *Configuration {
	conf, err := decode(newViper())
	if err != nil {
		// Defaults are static; decoding them cannot fail.
		panic(err)
	}
	return conf
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Environment variables prefixed with AIBS_ override
// file values, e.g. AIBS_DEMO_DELAY=500ms.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationIfExists is LoadConfiguration, except that a missing file
// yields the defaults with environment overrides applied.
func LoadConfigurationIfExists(configPath string) (*Configuration, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return decode(newViper())
	}
	return LoadConfiguration(configPath)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if len(configuration.History) == 0 {
		configuration.History = forecast.DefaultHistory()
	}
	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	periods := make([]string, 0, len(c.History))
	values := make([]float64, 0, len(c.History))
	for _, point := range c.History {
		periods = append(periods, point.Period)
		values = append(values, point.Actual)
	}
	warnings = append(warnings, validation.ValidateHistory(periods, values)...)
	warnings = append(warnings, validation.ValidateDemoTimings(c.Demo.Delay, c.Demo.SessionTTL)...)

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
