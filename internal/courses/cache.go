package courses

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avelasquez/courseapi/internal/models"
)

const (
	cacheTTL     = time.Minute
	listCacheKey = "courses:all"
)

// commands is the slice of the redis API the cache uses. *redis.Client
// satisfies it; tests substitute an in-memory double.
type commands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache is a read-through Redis cache for course reads, invalidated on every
// mutation. A nil *Cache is a no-op, so the server runs without Redis.
type Cache struct {
	rdb commands
}

func NewCache(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// GetList returns the cached course list, if present.
func (c *Cache) GetList(ctx context.Context) ([]models.CourseDetail, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var courses []models.CourseDetail
	if err := json.Unmarshal(raw, &courses); err != nil {
		return nil, false
	}
	return courses, true
}

func (c *Cache) SetList(ctx context.Context, courses []models.CourseDetail) {
	if c == nil {
		return
	}
	if raw, err := json.Marshal(courses); err == nil {
		c.rdb.Set(ctx, listCacheKey, raw, cacheTTL)
	}
}

// GetCourse returns the cached course detail, if present.
func (c *Cache) GetCourse(ctx context.Context, id string) (*models.CourseDetail, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, "course:"+id).Bytes()
	if err != nil {
		return nil, false
	}
	var course models.CourseDetail
	if err := json.Unmarshal(raw, &course); err != nil {
		return nil, false
	}
	return &course, true
}

func (c *Cache) SetCourse(ctx context.Context, course *models.CourseDetail) {
	if c == nil {
		return
	}
	if raw, err := json.Marshal(course); err == nil {
		c.rdb.Set(ctx, "course:"+course.ID, raw, cacheTTL)
	}
}

// Invalidate drops the list entry and, when id is set, the detail entry.
func (c *Cache) Invalidate(ctx context.Context, id string) {
	if c == nil {
		return
	}
	keys := []string{listCacheKey}
	if id != "" {
		keys = append(keys, "course:"+id)
	}
	c.rdb.Del(ctx, keys...)
}
