package repository

import (
	"bizdiag_backend/internal/model"
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const templateCachePrefix = "diagnostic:template:"

type TemplateRepository struct {
	DB    *gorm.DB
	cache jsonCache
}

func NewTemplateRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *TemplateRepository {
	return &TemplateRepository{DB: db, cache: jsonCache{rdb: rdb, ttl: ttl}}
}

func orderedAreas(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC, id ASC")
}

func (r *TemplateRepository) withTree(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Preload("Areas", orderedAreas).
		Preload("Areas.Questions", orderedAreas)
}

// FindByID returns the template with its ordered areas and questions.
func (r *TemplateRepository) FindByID(ctx context.Context, id uint) (*model.DiagnosticTemplate, error) {
	key := fmt.Sprintf("%sid:%d", templateCachePrefix, id)
	var tpl model.DiagnosticTemplate
	if r.cache.get(ctx, key, &tpl) {
		return &tpl, nil
	}
	if err := r.withTree(ctx).First(&tpl, id).Error; err != nil {
		return nil, err
	}
	r.cache.set(ctx, key, &tpl)
	return &tpl, nil
}

func (r *TemplateRepository) FindBySlug(ctx context.Context, slug string) (*model.DiagnosticTemplate, error) {
	key := templateCachePrefix + "slug:" + slug
	var tpl model.DiagnosticTemplate
	if r.cache.get(ctx, key, &tpl) {
		return &tpl, nil
	}
	if err := r.withTree(ctx).Where("slug = ?", slug).First(&tpl).Error; err != nil {
		return nil, err
	}
	r.cache.set(ctx, key, &tpl)
	return &tpl, nil
}

// ListActive returns active templates with their areas and questions.
func (r *TemplateRepository) ListActive(ctx context.Context) ([]model.DiagnosticTemplate, error) {
	var tpls []model.DiagnosticTemplate
	err := r.withTree(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&tpls).Error
	return tpls, err
}
