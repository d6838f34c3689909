package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const likedSetKeyFormat = "liked_set_v1:%d"

// likedSetTTL bounds staleness if an invalidation is ever lost.
const likedSetTTL = 10 * time.Minute

// LikedSetCache caches the set of restaurant ids a user has liked.
type LikedSetCache struct {
	client Client
}

func NewLikedSetCache(client Client) *LikedSetCache {
	return &LikedSetCache{client: client}
}

// Get returns the cached id set, or ErrMiss.
func (c *LikedSetCache) Get(ctx context.Context, userID uint) ([]uint, error) {
	raw, err := c.client.Get(ctx, fmt.Sprintf(likedSetKeyFormat, userID))
	if err != nil {
		return nil, err
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("cache: corrupt liked set for user %d: %w", userID, err)
	}
	return ids, nil
}

// Put stores the id set for the user.
func (c *LikedSetCache) Put(ctx context.Context, userID uint, ids []uint) error {
	if ids == nil {
		ids = []uint{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("cache: marshal liked set for user %d: %w", userID, err)
	}
	return c.client.Set(ctx, fmt.Sprintf(likedSetKeyFormat, userID), string(data), likedSetTTL)
}

// Invalidate drops the cached set after a toggle.
func (c *LikedSetCache) Invalidate(ctx context.Context, userID uint) error {
	return c.client.Del(ctx, fmt.Sprintf(likedSetKeyFormat, userID))
}
