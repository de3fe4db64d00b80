package utils

import (
	"context"
	"log"
	"time"

	"hireloop/config"

	"github.com/go-redis/redis/v8"
)

var (
	// GeoClient backs the broadcast geo index over open instant requests.
	GeoClient *redis.Client
	// RateClient backs the fixed-window rate limiter.
	RateClient *redis.Client
)

func newRedisClient(db int) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (db %d): %v", db, err)
	}
	return client
}

// InitRedis initializes the Redis clients used by the service.
func InitRedis() {
	GeoClient = newRedisClient(config.AppConfig.RedisGeoDB)
	RateClient = newRedisClient(config.AppConfig.RedisRateDB)
}

// GetGeoClient returns the Redis client backing the geo index.
func GetGeoClient() *redis.Client {
	if GeoClient == nil {
		GeoClient = newRedisClient(config.AppConfig.RedisGeoDB)
	}
	return GeoClient
}

// GetRateClient returns the Redis client backing the rate limiter.
func GetRateClient() *redis.Client {
	if RateClient == nil {
		RateClient = newRedisClient(config.AppConfig.RedisRateDB)
	}
	return RateClient
}
