package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()

// Connect returns a Redis client for the given address, or nil when no
// address is configured. Callers treat a nil client as "caching disabled".
func Connect(addr string) *redis.Client {
	if addr == "" {
		log.Println("REDIS_ADDR not set, order caching disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})

	if _, err := rdb.Ping(Ctx).Result(); err != nil {
		log.Printf("Failed to connect Redis at %s: %v (caching disabled)", addr, err)
		return nil
	}

	log.Println("Redis connected")
	return rdb
}
