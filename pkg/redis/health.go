package redis

import (
	"context"
	"strconv"
	"time"
)

// RedisHealthCheck represents the health check response for Redis
type RedisHealthCheck struct {
	Status     HealthStatus      `json:"status"`
	Details    map[string]string `json:"details"`
	LockStatus map[string]bool   `json:"lock_status,omitempty"`
}

// HealthCheck pings the server and reports pool statistics along with the locks held by this process.
func (c *Client) HealthCheck(ctx context.Context) RedisHealthCheck {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	details := map[string]string{
		"addr":     c.config.Addr(),
		"database": strconv.Itoa(c.config.Database),
	}

	status := StatusUp
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		status = StatusDown
		details["error"] = err.Error()
	}

	stats := c.rdb.PoolStats()
	details["total_conns"] = strconv.FormatUint(uint64(stats.TotalConns), 10)
	details["idle_conns"] = strconv.FormatUint(uint64(stats.IdleConns), 10)

	return RedisHealthCheck{
		Status:     status,
		Details:    details,
		LockStatus: GetLockStatus(),
	}
}
