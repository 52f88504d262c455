package app

import (
	"context"
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"tourbook/internal/config"
)

// NewRedisClient connects to Redis and verifies the connection. When a
// New Relic application is supplied every command is reported as a
// datastore segment, so idempotency-key checks and route cache reads
// show up individually in traces.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, nrApp *newrelic.Application) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if nrApp != nil {
		client.AddHook(redisTraceHook{})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// redisTraceHook implements redis.Hook. It attaches a segment to the
// transaction found on the command's context, if any; outside a
// transaction the segment is inert.
type redisTraceHook struct{}

func (redisTraceHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (redisTraceHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		seg := startRedisSegment(ctx, cmd.Name())
		defer seg.End()
		return next(ctx, cmd)
	}
}

func (redisTraceHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		seg := startRedisSegment(ctx, "pipeline")
		defer seg.End()
		return next(ctx, cmds)
	}
}

// startRedisSegment may return nil; (*DatastoreSegment).End is a
// no-op on a nil receiver.
func startRedisSegment(ctx context.Context, operation string) *newrelic.DatastoreSegment {
	txn := newrelic.FromContext(ctx)
	if txn == nil {
		return nil
	}
	return &newrelic.DatastoreSegment{
		StartTime: txn.StartSegmentNow(),
		Product:   newrelic.DatastoreRedis,
		Operation: operation,
	}
}
