// Package config loads the platform configuration shared by all service
// binaries.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (FITNESS_*)
//  2. Configuration file (YAML)
//  3. Default values
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	activitystore "github.com/swaran21/fitness-AI-backend/internal/activities/store"
	advisorstore "github.com/swaran21/fitness-AI-backend/internal/advisor/store"
	"github.com/swaran21/fitness-AI-backend/internal/gateway"
	"github.com/swaran21/fitness-AI-backend/internal/logger"
	userstore "github.com/swaran21/fitness-AI-backend/internal/users/store"
)

// Config is the platform configuration. Each binary reads its own section;
// sections for other services are ignored, so one file can drive a whole
// deployment.
type Config struct {
	// Logging controls log output behavior for the process.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Gateway contains the API gateway configuration.
	Gateway GatewayConfig `mapstructure:"gateway" yaml:"gateway"`

	// UserService contains the user service configuration.
	UserService UserServiceConfig `mapstructure:"user_service" yaml:"user_service"`

	// ActivityService contains the activity service configuration.
	ActivityService ActivityServiceConfig `mapstructure:"activity_service" yaml:"activity_service"`

	// AIService contains the AI service configuration.
	AIService AIServiceConfig `mapstructure:"ai_service" yaml:"ai_service"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARN or ERROR.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is the log output format: text or json.
	Format string `mapstructure:"format" yaml:"format"`

	// Output is where logs are written: stdout, stderr, or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// GatewayConfig contains the gateway section.
type GatewayConfig struct {
	gateway.Config `mapstructure:",squash" yaml:",inline"`

	// TokenSecret is the HS256 secret for verifying bearer tokens at the
	// edge. When empty the gateway decodes claims without verification,
	// for deployments where a fronting proxy already verified them.
	TokenSecret string `mapstructure:"token_secret" yaml:"token_secret"`
}

// UserServiceConfig contains the user service section.
type UserServiceConfig struct {
	Port     int              `mapstructure:"port" yaml:"port"`
	Database userstore.Config `mapstructure:"database" yaml:"database"`
}

// ActivityServiceConfig contains the activity service section.
type ActivityServiceConfig struct {
	Port     int                  `mapstructure:"port" yaml:"port"`
	Database activitystore.Config `mapstructure:"database" yaml:"database"`

	// UserServiceURL is the user service base URL for identity validation.
	UserServiceURL string `mapstructure:"user_service_url" yaml:"user_service_url"`

	// AIServiceURL is the AI service base URL for recommendation dispatch.
	// Empty disables dispatch.
	AIServiceURL string `mapstructure:"ai_service_url" yaml:"ai_service_url"`
}

// AIServiceConfig contains the AI service section.
type AIServiceConfig struct {
	Port     int                 `mapstructure:"port" yaml:"port"`
	Database advisorstore.Config `mapstructure:"database" yaml:"database"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "INFO"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}

	c.Gateway.Config.ApplyDefaults()

	if c.UserService.Port == 0 {
		c.UserService.Port = 8081
	}
	c.UserService.Database.ApplyDefaults()

	if c.ActivityService.Port == 0 {
		c.ActivityService.Port = 8082
	}
	c.ActivityService.Database.ApplyDefaults()
	if c.ActivityService.UserServiceURL == "" {
		c.ActivityService.UserServiceURL = "http://localhost:8081"
	}

	if c.AIService.Port == 0 {
		c.AIService.Port = 8083
	}
	c.AIService.Database.ApplyDefaults()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToUpper(c.Logging.Level) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}
	if err := c.UserService.Database.Validate(); err != nil {
		return fmt.Errorf("user service database: %w", err)
	}
	return nil
}

// LoggerConfig converts the logging section for logger.Init.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	}
}

// Load loads configuration from file, environment, and defaults.
// configPath may be empty, in which case only environment variables and
// defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("FITNESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					return nil, fmt.Errorf("failed to read config file: %w", err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Save writes the configuration to the given path in YAML format.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file may carry the token secret and database passwords.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// durationDecodeHook converts strings like "30s" or "5m" to time.Duration.
func durationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return time.ParseDuration(v)
		case int:
			return time.Duration(v), nil
		case int64:
			return time.Duration(v), nil
		case float64:
			return time.Duration(v), nil
		default:
			return data, nil
		}
	}
}
