package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SarangTandel5112/care-connects/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const keyDocumentUploadClinic = "document:upload:clinic:%s"

// UploadLimiter throttles document uploads per clinic. A nil limiter (rate
// limiting disabled or Redis not configured) allows everything.
type UploadLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewUploadLimiter(cfg config.Config) (*UploadLimiter, error) {
	if !cfg.UploadRateLimitEnabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("upload rate limit requires REDIS_ADDR")
	}
	if cfg.UploadRatePerSecond <= 0 || cfg.UploadBurst <= 0 {
		return nil, errors.New("upload rate limit rate and burst must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
	})

	return &UploadLimiter{
		bucket: NewTokenBucket(client),
		rate:   cfg.UploadRatePerSecond,
		burst:  cfg.UploadBurst,
	}, nil
}

// AllowUpload takes one token from the clinic's bucket.
func (l *UploadLimiter) AllowUpload(ctx context.Context, clinicID string) (*Result, error) {
	if l == nil || l.bucket == nil {
		return &Result{Allowed: true}, nil
	}
	key := fmt.Sprintf(keyDocumentUploadClinic, clinicID)
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
