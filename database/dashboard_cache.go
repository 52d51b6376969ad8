package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Brutalvik/smartai-shopping-sub000/models"
)

// DashboardCache caches the raw lists a seller dashboard is computed from.
// Keys embed a per-seller version so one INCR invalidates every list for
// that seller without scanning.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDashboardCache(client *redis.Client, ttl time.Duration) *DashboardCache {
	return &DashboardCache{client: client, ttl: ttl}
}

func versionKey(sellerID string) string {
	return "dashboard:version:" + sellerID
}

func listKey(version int64, sellerID string, kind models.DashboardKind) string {
	return fmt.Sprintf("dashboard:v%d:%s:%s", version, sellerID, kind)
}

func (c *DashboardCache) version(ctx context.Context, sellerID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(sellerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Get loads the cached list for kind into dest. It reports false on a miss
// and always returns the version it read, which the caller hands back to Set
// after fetching so a write that races an invalidation lands under a dead key.
func (c *DashboardCache) Get(ctx context.Context, sellerID string, kind models.DashboardKind, dest interface{}) (int64, bool, error) {
	v, err := c.version(ctx, sellerID)
	if err != nil {
		return 0, false, err
	}
	data, err := c.client.Get(ctx, listKey(v, sellerID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return v, false, err
	}
	return v, true, nil
}

// Set stores value under version, the one Get returned before the fetch.
func (c *DashboardCache) Set(ctx context.Context, sellerID string, kind models.DashboardKind, version int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(version, sellerID, kind), data, c.ttl).Err()
}

// SetAsync is Set on a background context; failures are only logged.
func (c *DashboardCache) SetAsync(sellerID string, kind models.DashboardKind, version int64, value interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Set(ctx, sellerID, kind, version, value); err != nil {
			zap.L().Warn("failed to cache dashboard list",
				zap.String("seller_id", sellerID),
				zap.String("kind", string(kind)),
				zap.Int64("version", version),
				zap.Error(err),
			)
		}
	}()
}

// Invalidate bumps the seller's version. Entries under older versions expire
// on their own.
func (c *DashboardCache) Invalidate(ctx context.Context, sellerID string) error {
	v, err := c.client.Incr(ctx, versionKey(sellerID)).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate dashboard cache: %w", err)
	}
	zap.L().Debug("dashboard cache invalidated", zap.String("seller_id", sellerID), zap.Int64("version", v))
	return nil
}
