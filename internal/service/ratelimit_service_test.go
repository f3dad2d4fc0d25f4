package service

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestRateLimitService(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	svc, err := NewRateLimitService(redisURL, 2, 10)
	if err != nil {
		t.Fatalf("NewRateLimitService failed: %v", err)
	}
	defer svc.Close()

	ctx := context.Background()
	owner := uuid.NewString()

	for i := 1; i <= 2; i++ {
		result, err := svc.CheckAndIncrement(ctx, owner)
		if err != nil {
			t.Fatalf("CheckAndIncrement failed: %v", err)
		}
		if !result.Allowed {
			t.Fatalf("request %d not allowed", i)
		}
		if result.DailyUsed != i {
			t.Errorf("DailyUsed = %d, want %d", result.DailyUsed, i)
		}
	}

	result, err := svc.CheckAndIncrement(ctx, owner)
	if err != nil {
		t.Fatalf("CheckAndIncrement failed: %v", err)
	}
	if result.Allowed {
		t.Error("third request allowed, want daily limit hit")
	}
	if result.RetryAfterSecs <= 0 {
		t.Errorf("RetryAfterSecs = %d, want > 0", result.RetryAfterSecs)
	}

	daily, monthly, err := svc.Usage(ctx, owner)
	if err != nil {
		t.Fatalf("Usage failed: %v", err)
	}
	if daily != 2 || monthly != 2 {
		t.Errorf("Usage = %d/%d, want 2/2", daily, monthly)
	}
}
