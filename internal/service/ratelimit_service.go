package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitService handles rate limiting using Redis
type RateLimitService struct {
	client       *redis.Client
	dailyLimit   int
	monthlyLimit int
	now          func() time.Time
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(redisURL string, dailyLimit, monthlyLimit int) (*RateLimitService, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RateLimitService{
		client:       client,
		dailyLimit:   dailyLimit,
		monthlyLimit: monthlyLimit,
		now:          time.Now,
	}, nil
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

func (s *RateLimitService) keys(ownerID string, now time.Time) (daily, monthly string) {
	daily = fmt.Sprintf("ratelimit:daily:%s:%s", ownerID, now.Format("2006-01-02"))
	monthly = fmt.Sprintf("ratelimit:monthly:%s:%s", ownerID, now.Format("2006-01"))
	return daily, monthly
}

// CheckAndIncrement checks if the request is within rate limits and increments counters
func (s *RateLimitService) CheckAndIncrement(ctx context.Context, ownerID string) (*RateLimitResult, error) {
	now := s.now()
	dailyKey, monthlyKey := s.keys(ownerID, now)

	dailyCount, err := s.client.Get(ctx, dailyKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	monthlyCount, err := s.client.Get(ctx, monthlyKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	result := &RateLimitResult{
		DailyUsed:    dailyCount,
		DailyLimit:   s.dailyLimit,
		MonthlyUsed:  monthlyCount,
		MonthlyLimit: s.monthlyLimit,
	}

	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	nextMonth := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())

	if dailyCount >= s.dailyLimit {
		result.RetryAfterSecs = int(tomorrow.Sub(now).Seconds())
		return result, nil
	}

	if monthlyCount >= s.monthlyLimit {
		result.RetryAfterSecs = int(nextMonth.Sub(now).Seconds())
		return result, nil
	}

	pipe := s.client.Pipeline()

	// Daily counter with expiry at end of day
	pipe.Incr(ctx, dailyKey)
	pipe.ExpireAt(ctx, dailyKey, tomorrow)

	// Monthly counter with expiry at end of month
	pipe.Incr(ctx, monthlyKey)
	pipe.ExpireAt(ctx, monthlyKey, nextMonth)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	result.Allowed = true
	result.DailyUsed++
	result.MonthlyUsed++

	return result, nil
}

// Usage gets current usage without incrementing
func (s *RateLimitService) Usage(ctx context.Context, ownerID string) (daily int, monthly int, err error) {
	dailyKey, monthlyKey := s.keys(ownerID, s.now())

	daily, err = s.client.Get(ctx, dailyKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, err
	}

	monthly, err = s.client.Get(ctx, monthlyKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, err
	}

	return daily, monthly, nil
}

// Limits returns the configured daily and monthly limits
func (s *RateLimitService) Limits() (daily, monthly int) {
	return s.dailyLimit, s.monthlyLimit
}

// Ping checks the Redis connection
func (s *RateLimitService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RateLimitService) Close() error {
	return s.client.Close()
}
