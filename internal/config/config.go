// Package config loads application settings from a file, the environment
// and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the application reads.
const EnvPrefix = "RESUME_TAILOR"

// Config is the application configuration.
type Config struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	Template    string `mapstructure:"template" validate:"required"`
	OutputDir   string `mapstructure:"output_dir" validate:"required"`
	UseBrowser  bool   `mapstructure:"use_browser"`
	DatabaseURL string `mapstructure:"database_url" validate:"omitempty,url"`

	Server ServerConfig `mapstructure:"server"`
	S3     S3Config     `mapstructure:"s3"`
	AMQP   AMQPConfig   `mapstructure:"amqp"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port      int     `mapstructure:"port" validate:"gte=1,lte=65535"`
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"` // requests per second per client
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`
}

// S3Config configures PDF export to an S3-compatible bucket. Export is
// disabled when Bucket is empty.
type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region" validate:"required_with=Bucket"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"access_key_id" validate:"required_with=SecretAccessKey"`
	SecretAccessKey string `mapstructure:"secret_access_key" validate:"required_with=AccessKeyID"`
}

// Enabled reports whether S3 export is configured.
func (c S3Config) Enabled() bool { return c.Bucket != "" }

// AMQPConfig configures the render worker.
type AMQPConfig struct {
	URL      string `mapstructure:"url" validate:"omitempty,url"`
	Queue    string `mapstructure:"queue" validate:"required_with=URL"`
	Exchange string `mapstructure:"exchange" validate:"required_with=URL"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Template:  "modern",
		OutputDir: ".",
		Server:    ServerConfig{Port: 8080, RateLimit: 2, RateBurst: 5},
		S3:        S3Config{Region: "us-east-1", Prefix: "resumes"},
		AMQP:      AMQPConfig{Queue: "render_jobs", Exchange: "generation_updates"},
	}
}

// New returns a viper instance preloaded with defaults and bound to the
// environment. Callers may bind command-line flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()

	defaults := map[string]any{
		"api_key":              "",
		"model":                "",
		"template":             d.Template,
		"output_dir":           d.OutputDir,
		"use_browser":          false,
		"database_url":         "",
		"server.port":          d.Server.Port,
		"server.rate_limit":    d.Server.RateLimit,
		"server.rate_burst":    d.Server.RateBurst,
		"s3.bucket":            "",
		"s3.region":            d.S3.Region,
		"s3.endpoint":          "",
		"s3.prefix":            d.S3.Prefix,
		"s3.access_key_id":     "",
		"s3.secret_access_key": "",
		"amqp.url":             "",
		"amqp.queue":           d.AMQP.Queue,
		"amqp.exchange":        d.AMQP.Exchange,
		"log.json":             false,
		"log.debug":            false,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional names win only when the prefixed variable is unset.
	_ = v.BindEnv("api_key", EnvPrefix+"_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("amqp.url", EnvPrefix+"_AMQP_URL", "AMQP_URL")
	return v
}

// Load reads the optional config file at path into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// LoadConfig loads configuration from the file at path (optional), the
// environment and defaults.
func LoadConfig(path string) (*Config, error) {
	return Load(New(), path)
}

var validate = validator.New()

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. Booleans cannot distinguish unset from false and are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Model, defaults.Model)
	fill(&result.Template, defaults.Template)
	fill(&result.OutputDir, defaults.OutputDir)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.S3.Bucket, defaults.S3.Bucket)
	fill(&result.S3.Region, defaults.S3.Region)
	fill(&result.S3.Endpoint, defaults.S3.Endpoint)
	fill(&result.S3.Prefix, defaults.S3.Prefix)
	fill(&result.AMQP.URL, defaults.AMQP.URL)
	fill(&result.AMQP.Queue, defaults.AMQP.Queue)
	fill(&result.AMQP.Exchange, defaults.AMQP.Exchange)

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.RateLimit == 0 {
		result.Server.RateLimit = defaults.Server.RateLimit
	}
	if result.Server.RateBurst == 0 {
		result.Server.RateBurst = defaults.Server.RateBurst
	}
	return result
}
