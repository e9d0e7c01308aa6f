package repository

import (
	"bizdiag_backend/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

// Upsert replaces the stored bundle of the session, if any.
func (r *RecommendationRepository) Upsert(ctx context.Context, rec *model.DiagnosticRecommendation) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"bundle", "strong_areas", "improvement_areas", "updated_at"}),
	}).Create(rec).Error
}

func (r *RecommendationRepository) FindBySession(ctx context.Context, sessionID string) (*model.DiagnosticRecommendation, error) {
	var rec model.DiagnosticRecommendation
	if err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
