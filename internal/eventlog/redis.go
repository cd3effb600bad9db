package eventlog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/ircbot/ircclient/ircprotocol"
)

const redisDialTimeout = 5 * time.Second

type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	XRevRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
	Close() error
}

// RedisSink appends events to a capped Redis stream.
type RedisSink struct {
	client streamClient
	stream string
	maxLen int64
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Stream   string
	MaxLen   int64
}

// NewRedisSink connects and pings the server before returning.
func NewRedisSink(ctx context.Context, opts RedisOptions) (*RedisSink, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrapf(err, "connect redis %s", opts.Addr)
	}
	return newRedisSink(rdb, opts.Stream, opts.MaxLen), nil
}

func newRedisSink(client streamClient, stream string, maxLen int64) *RedisSink {
	return &RedisSink{client: client, stream: stream, maxLen: maxLen}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Write(ctx context.Context, event ircprotocol.Event) error {
	err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		MaxLen: s.maxLen,
		Approx: true,
		Values: Fields(event),
	}).Err()
	if err != nil {
		return errors.Wrapf(err, "xadd %s", s.stream)
	}
	return nil
}

// Recent returns up to count stored events, oldest first, formatted as
// "[timestamp] TYPE sender: message".
func (s *RedisSink) Recent(ctx context.Context, count int64) ([]string, error) {
	msgs, err := s.client.XRevRangeN(ctx, s.stream, "+", "-", count).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.stream)
	}
	history := make([]string, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		v := msgs[i].Values
		line := fmt.Sprintf("[%v] %v %v", v["timestamp"], v["type"], v["sender"])
		if msg, ok := v["message"].(string); ok && msg != "" {
			line += ": " + msg
		}
		history = append(history, line)
	}
	return history, nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
