package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimitService handles rate limiting using Redis
type RateLimitService struct {
	client *redis.Client
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(redisURL string) (*RateLimitService, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RateLimitService{client: client}, nil
}

// Client exposes the underlying Redis client for sharing with the catalog
// cache
func (s *RateLimitService) Client() *redis.Client {
	return s.client
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed        bool
	DailyUsed      int
	DailyLimit     int
	MonthlyUsed    int
	MonthlyLimit   int
	RetryAfterSecs int
}

// CheckAndIncrement checks if the request is within rate limits and increments counters
func (s *RateLimitService) CheckAndIncrement(ctx context.Context, pharmacyID uuid.UUID, dailyLimit, monthlyLimit int) (*RateLimitResult, error) {
	now := time.Now()
	dailyKey := fmt.Sprintf("ratelimit:daily:%s:%s", pharmacyID.String(), now.Format("2006-01-02"))
	monthlyKey := fmt.Sprintf("ratelimit:monthly:%s:%s", pharmacyID.String(), now.Format("2006-01"))

	// Get current counts
	dailyCount, err := s.client.Get(ctx, dailyKey).Int()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	monthlyCount, err := s.client.Get(ctx, monthlyKey).Int()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	result := &RateLimitResult{
		DailyUsed:    dailyCount,
		DailyLimit:   dailyLimit,
		MonthlyUsed:  monthlyCount,
		MonthlyLimit: monthlyLimit,
	}

	if dailyLimit > 0 && dailyCount >= dailyLimit {
		result.Allowed = false
		result.RetryAfterSecs = secondsUntilMidnight(now)
		return result, nil
	}

	if monthlyLimit > 0 && monthlyCount >= monthlyLimit {
		result.Allowed = false
		result.RetryAfterSecs = secondsUntilNextMonth(now)
		return result, nil
	}

	// Increment counters with expiry set on first use
	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, dailyKey)
	pipe.Expire(ctx, dailyKey, 48*time.Hour)
	pipe.Incr(ctx, monthlyKey)
	pipe.Expire(ctx, monthlyKey, 32*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	result.Allowed = true
	result.DailyUsed = dailyCount + 1
	result.MonthlyUsed = monthlyCount + 1
	return result, nil
}

func secondsUntilMidnight(now time.Time) int {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return int(time.Until(midnight).Seconds())
}

func secondsUntilNextMonth(now time.Time) int {
	next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	return int(time.Until(next).Seconds())
}
