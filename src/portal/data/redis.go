package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	streamEscalations = "grievance.escalations"
	summaryKey        = "reports:summary"
	summaryTTL        = 60 * time.Second
)

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// PublishEscalation appends an escalation event to the stream consumed by
// out-of-process watchers (ops dashboards, chat bridges).
func PublishEscalation(ctx context.Context, rdb *redis.Client, payload map[string]interface{}) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamEscalations,
		Values: payload,
	}).Result()
	return err
}

// Events adapts the Redis client to the escalation workflow's publisher.
type Events struct {
	RDB *redis.Client
}

func (e Events) PublishEscalation(ctx context.Context, payload map[string]interface{}) error {
	return PublishEscalation(ctx, e.RDB, payload)
}

// GetCachedSummary returns the cached summary JSON, or "" when absent.
func GetCachedSummary(ctx context.Context, rdb *redis.Client) string {
	v, err := rdb.Get(ctx, summaryKey).Result()
	if err != nil {
		return ""
	}
	return v
}

func SetCachedSummary(ctx context.Context, rdb *redis.Client, body string) {
	if err := rdb.Set(ctx, summaryKey, body, summaryTTL).Err(); err != nil {
		log.Printf("redis: cache summary: %v", err)
	}
}
