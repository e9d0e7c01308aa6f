package repository

import (
	"bizdiag_backend/internal/model"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const contentCachePrefix = "content:search:"

// ContentQuery matches published items whose title or descriptions contain
// any of the keywords.
type ContentQuery struct {
	Keywords []string
	// EasiestFirst orders by ascending difficulty before recency.
	EasiestFirst bool
	Limit        int
}

func (q ContentQuery) cacheKey() string {
	return fmt.Sprintf("%s%t:%d:%s", contentCachePrefix, q.EasiestFirst, q.Limit,
		strings.ToLower(strings.Join(q.Keywords, "|")))
}

type ContentRepository struct {
	DB    *gorm.DB
	cache jsonCache
}

func NewContentRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *ContentRepository {
	return &ContentRepository{DB: db, cache: jsonCache{rdb: rdb, ttl: ttl}}
}

func (r *ContentRepository) Create(ctx context.Context, item *model.ContentItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *ContentRepository) Search(ctx context.Context, q ContentQuery) ([]model.ContentItem, error) {
	key := q.cacheKey()
	var items []model.ContentItem
	if r.cache.get(ctx, key, &items) {
		return items, nil
	}

	query := r.DB.WithContext(ctx).Model(&model.ContentItem{}).
		Where("status = ?", model.ContentPublished)

	conds := make([]string, 0, len(q.Keywords))
	args := make([]interface{}, 0, len(q.Keywords)*3)
	for _, kw := range q.Keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		like := "%" + kw + "%"
		conds = append(conds, "(title LIKE ? OR short_description LIKE ? OR description LIKE ?)")
		args = append(args, like, like, like)
	}
	if len(conds) > 0 {
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	if q.EasiestFirst {
		query = query.Order("difficulty ASC").Order("created_at DESC").Order("id DESC")
	} else {
		query = query.Order("created_at DESC").Order("id DESC")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	r.cache.set(ctx, key, items)
	return items, nil
}
