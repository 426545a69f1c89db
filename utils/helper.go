package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/opskitchen/stockroom_backend/config"
)

var ErrorDuplicateValue = errors.New("duplicate value")

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

// TenantLock obtains a short redis lock scoped to (lockType, tenantId) and returns
// a release func the caller must defer. It serializes posting entry points across
// instances before the database transaction (and its row locks) take over.
func TenantLock(ctx context.Context, tenantId string, lockType string, moduleName string, functionName string) (func(), error) {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		// Redis is optional in tests and one-shot commands; the DB row lock still
		// guarantees correctness, so fall through instead of failing.
		return func() {}, nil
	}
	lockKey := fmt.Sprintf("%s:%s", lockType, tenantId)
	// Retry instead of failing fast: a blocked caller should go on to observe
	// the posted state (and fail on that), not on lock contention.
	opts := &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 300),
	}
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, opts)
	if err == redislock.ErrNotObtained {
		config.LogError(logger, moduleName, functionName, "Could not obtain lock for tenantId", tenantId, err)
		return nil, errors.New("could not obtain lock for tenantId")
	} else if err != nil {
		config.LogError(logger, moduleName, functionName, "Error obtaining lock for tenantId", tenantId, err)
		return nil, err
	}

	return func() { _ = lock.Release(ctx) }, nil
}
