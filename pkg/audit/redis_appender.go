package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisAppenderConfig - конфигурация Redis appender
type RedisAppenderConfig struct {
	Address  string `yaml:"address" koanf:"address"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db"`

	// Prefix namespaces the keys. Default "cgm:audit".
	Prefix string `yaml:"prefix" koanf:"prefix"`

	// MaxEntries caps each list. Default 1000.
	MaxEntries int64 `yaml:"max_entries" koanf:"max_entries"`

	// Publish also sends every entry to the <prefix> channel.
	Publish bool `yaml:"publish" koanf:"publish"`
}

// RedisAppender keeps the most recent actions in capped Redis lists, one for
// everything and one per entity, for the history dialog:
//
//	LPUSH cgm:audit          <JSON>
//	LPUSH cgm:audit:<entity> <JSON>
//	PUBLISH cgm:audit        <JSON>   (optional)
type RedisAppender struct {
	client *redis.Client
	config RedisAppenderConfig
}

// NewRedisAppender creates an appender on its own client.
func NewRedisAppender(config RedisAppenderConfig) *RedisAppender {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	return NewRedisAppenderWithClient(client, config)
}

// NewRedisAppenderWithClient creates an appender on an existing client.
func NewRedisAppenderWithClient(client *redis.Client, config RedisAppenderConfig) *RedisAppender {
	if config.Prefix == "" {
		config.Prefix = "cgm:audit"
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = 1000
	}
	return &RedisAppender{client: client, config: config}
}

func (ra *RedisAppender) key(entity string) string {
	if entity == "" {
		return ra.config.Prefix
	}
	return ra.config.Prefix + ":" + entity
}

// Append pushes entry to both lists and trims them in one pipeline.
func (ra *RedisAppender) Append(ctx context.Context, entry *Entry) error {
	payload, err := entry.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal entry: %w", err)
	}

	_, err = ra.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range []string{ra.key(""), ra.key(entry.Entity)} {
			pipe.LPush(ctx, k, payload)
			pipe.LTrim(ctx, k, 0, ra.config.MaxEntries-1)
		}
		if ra.config.Publish {
			pipe.Publish(ctx, ra.config.Prefix, payload)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis audit append failed: %w", err)
	}
	return nil
}

// History reads the entity list when q.Entity is set, the global list
// otherwise. Lists are newest first already.
func (ra *RedisAppender) History(ctx context.Context, q Query) ([]*Entry, error) {
	raw, err := ra.client.LRange(ctx, ra.key(q.Entity), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis LRANGE failed: %w", err)
	}

	out := make([]*Entry, 0, min(len(raw), q.limit()))
	for _, s := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			continue
		}
		if q.Match(&e) {
			out = append(out, &e)
			if len(out) == q.limit() {
				break
			}
		}
	}
	return out, nil
}

// Close закрывает соединение с Redis
func (ra *RedisAppender) Close() error {
	return ra.client.Close()
}
