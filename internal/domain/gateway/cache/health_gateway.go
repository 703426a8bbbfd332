package cache

import (
	"context"

	"go-ingest/internal/domain/model"
	"go-ingest/pkg/redis"
)

type HealthGateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

// RedisHealthGateway reports the Redis connection used for locks and lookups
type RedisHealthGateway struct {
	client *redis.Client
}

func NewRedisHealthGateway(client *redis.Client) *RedisHealthGateway {
	return &RedisHealthGateway{client: client}
}

func (gateway *RedisHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	check := gateway.client.HealthCheck(ctx)

	details := make(map[string]string, len(check.Details)+len(check.LockStatus))
	for key, value := range check.Details {
		details[key] = value
	}
	for name, held := range check.LockStatus {
		if held {
			details["lock_"+name] = "held"
		}
	}

	status := model.StatusDown
	if check.Status == redis.StatusUp {
		status = model.StatusUp
	}
	return model.ComponentHealthStatus{Status: status, Details: details}
}
