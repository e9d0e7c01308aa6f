package repository

import (
	"bizdiag_backend/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStaleStatus is returned when a status transition finds the session no
// longer in the expected state.
var ErrStaleStatus = errors.New("session status changed concurrently")

type SessionFilter struct {
	Status     model.SessionStatus
	TemplateID uint
}

// SessionCompletion holds the values written when a session is finalized.
type SessionCompletion struct {
	OverallScore  float64
	MaturityLevel model.MaturityLevel
	AreaResults   []model.AreaResult
	FinishedAt    time.Time
}

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *model.DiagnosticSession) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*model.DiagnosticSession, error) {
	var s model.DiagnosticSession
	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByUser returns the user's sessions newest first, each with its template
// header (no areas).
func (r *SessionRepository) ListByUser(ctx context.Context, userID uint, filter SessionFilter) ([]model.DiagnosticSession, error) {
	var sessions []model.DiagnosticSession
	query := r.DB.WithContext(ctx).
		Preload("Template").
		Where("user_id = ?", userID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TemplateID > 0 {
		query = query.Where("template_id = ?", filter.TemplateID)
	}
	err := query.Order("started_at DESC, created_at DESC").Find(&sessions).Error
	return sessions, err
}

func upsertResponse(tx *gorm.DB, resp *model.DiagnosticResponse) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"numeric_value", "text_value", "answered_at", "updated_at"}),
	}).Create(resp).Error
}

// UpsertResponse keeps one row per (session, question); the last write wins.
func (r *SessionRepository) UpsertResponse(ctx context.Context, resp *model.DiagnosticResponse) error {
	return upsertResponse(r.DB.WithContext(ctx), resp)
}

func (r *SessionRepository) UpsertResponses(ctx context.Context, responses []model.DiagnosticResponse) error {
	if len(responses) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range responses {
			if err := upsertResponse(tx, &responses[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SessionRepository) ListResponses(ctx context.Context, sessionID string) ([]model.DiagnosticResponse, error) {
	var responses []model.DiagnosticResponse
	err := r.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("question_id ASC").
		Find(&responses).Error
	return responses, err
}

func (r *SessionRepository) CountResponses(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.DiagnosticResponse{}).
		Where("session_id = ?", sessionID).
		Count(&n).Error
	return n, err
}

// Complete moves an in-progress session to completed and stores its scores.
// Zero affected rows means another caller already finalized or cancelled it.
func (r *SessionRepository) Complete(ctx context.Context, id string, c SessionCompletion) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.DiagnosticSession{}).
			Where("id = ? AND status = ?", id, model.SessionInProgress).
			Updates(map[string]interface{}{
				"status":         model.SessionCompleted,
				"overall_score":  c.OverallScore,
				"maturity_level": c.MaturityLevel,
				"area_results":   datatypes.NewJSONType(c.AreaResults),
				"finished_at":    c.FinishedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		return nil
	})
}

// Cancel moves an in-progress session to cancelled.
func (r *SessionRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&model.DiagnosticSession{}).
		Where("id = ? AND status = ?", id, model.SessionInProgress).
		Updates(map[string]interface{}{
			"status":      model.SessionCancelled,
			"finished_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
