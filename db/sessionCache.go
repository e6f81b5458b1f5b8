package db

import (
	"context"
	"time"

	"tutor/models"

	cache "github.com/patrickmn/go-cache"
)

// CacheSessionStore keeps sessions in process memory. It is used when no
// Redis URL is configured and by tests.
type CacheSessionStore struct {
	cache *cache.Cache
}

func NewCacheSessionStore(defaultTTL, cleanupInterval time.Duration) *CacheSessionStore {
	return &CacheSessionStore{cache: cache.New(defaultTTL, cleanupInterval)}
}

func (c *CacheSessionStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	v, ok := c.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	// Stored values are private copies; hand out another copy.
	return v.(*models.Session).Clone(), nil
}

func (c *CacheSessionStore) PutSession(ctx context.Context, session *models.Session, ttl time.Duration) error {
	c.cache.Set(session.ID, session.Clone(), ttl)
	return nil
}

func (c *CacheSessionStore) DeleteSession(ctx context.Context, id string) error {
	c.cache.Delete(id)
	return nil
}

func (c *CacheSessionStore) Count() int {
	return c.cache.ItemCount()
}
