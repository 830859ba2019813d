package events

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment overrides of the events file, e.g.
// URLPREVIEW_EVENTS_KAFKA_BROKERS.
const EnvPrefix = "URLPREVIEW_EVENTS_"

// DefaultChannel is the Redis channel prefix and Kafka topic used when none is
// configured.
const DefaultChannel = "interfaces"

// Config selects where registry changes are published.
type Config struct {
	Sinks SinksConfig `yaml:"sinks"`
	Retry RetryConfig `yaml:"retry"`
}

type SinksConfig struct {
	Webhook WebhookConfig `yaml:"webhook" envPrefix:"WEBHOOK_"`
	Redis   RedisConfig   `yaml:"redis" envPrefix:"REDIS_"`
	Kafka   KafkaConfig   `yaml:"kafka" envPrefix:"KAFKA_"`
}

type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts" env:"RETRY_MAX_ATTEMPTS"`
	InitialDelay time.Duration `yaml:"initial_delay" env:"RETRY_INITIAL_DELAY"`
}

// LoadConfig reads the YAML file at path, applies URLPREVIEW_EVENTS_*
// overrides and fills defaults. An empty path starts from the zero value.
func LoadConfig(path string) (Config, error) {
	var c Config
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return c, err
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return c, err
		}
	}
	if err := env.ParseWithOptions(&c, env.Options{Prefix: EnvPrefix}); err != nil {
		return c, err
	}
	c.setDefaults()
	return c, c.Validate()
}

func (c *Config) setDefaults() {
	if c.Sinks.Webhook.Timeout <= 0 {
		c.Sinks.Webhook.Timeout = 5 * time.Second
	}
	if c.Sinks.Redis.Channel == "" {
		c.Sinks.Redis.Channel = DefaultChannel
	}
	if c.Sinks.Kafka.Topic == "" {
		c.Sinks.Kafka.Topic = DefaultChannel
	}
}

// Validate reports enabled sinks that miss their address.
func (c Config) Validate() error {
	var errs []error
	if c.Sinks.Webhook.Enabled && c.Sinks.Webhook.Endpoint == "" {
		errs = append(errs, errors.New("events: webhook sink enabled without endpoint"))
	}
	if c.Sinks.Redis.Enabled && c.Sinks.Redis.DSN == "" {
		errs = append(errs, errors.New("events: redis sink enabled without dsn"))
	}
	if c.Sinks.Kafka.Enabled && len(c.Sinks.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("events: kafka sink enabled without brokers"))
	}
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, errors.New("events: retry.max_attempts must not be negative"))
	}
	return errors.Join(errs...)
}
