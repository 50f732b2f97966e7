package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenRedis connects the session store's Redis and verifies the connection
// up front so a bad address fails at startup, not at first login.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
