package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures RedisSink.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	DSN     string `yaml:"dsn" env:"DSN"`
	Channel string `yaml:"channel" env:"CHANNEL"`
}

// RedisSink publishes each event on "<channel>:<event name>", so consumers
// can PSUBSCRIBE to "<channel>:*" or to a single kind of change.
type RedisSink struct {
	Client  *redis.Client
	Channel string
}

// NewRedisSink returns a RedisSink, or nil when the sink is disabled.
func NewRedisSink(c RedisConfig) (*RedisSink, error) {
	if !c.Enabled || c.DSN == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(c.DSN)
	if err != nil {
		return nil, err
	}
	ch := c.Channel
	if ch == "" {
		ch = DefaultChannel
	}
	return &RedisSink{Client: redis.NewClient(opt), Channel: ch}, nil
}

// ChannelFor returns the channel e is published on.
func (s *RedisSink) ChannelFor(e Event) string {
	return s.Channel + ":" + e.Name
}

func (s *RedisSink) Emit(ctx context.Context, e Event) error {
	if s == nil || s.Client == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.Client.Publish(ctx, s.ChannelFor(e), data).Err()
}

// Close releases the connection pool.
func (s *RedisSink) Close() error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Close()
}
