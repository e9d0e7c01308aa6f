package service

import (
	"bizdiag_backend/internal/model"
	"bizdiag_backend/internal/repository"
	"context"
	"time"
)

// The interfaces below are satisfied by the gorm repositories. Services
// depend on them so tests can swap single collaborators.

type TemplateStore interface {
	FindByID(ctx context.Context, id uint) (*model.DiagnosticTemplate, error)
	FindBySlug(ctx context.Context, slug string) (*model.DiagnosticTemplate, error)
	ListActive(ctx context.Context) ([]model.DiagnosticTemplate, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *model.DiagnosticSession) error
	FindByID(ctx context.Context, id string) (*model.DiagnosticSession, error)
	ListByUser(ctx context.Context, userID uint, filter repository.SessionFilter) ([]model.DiagnosticSession, error)
	UpsertResponse(ctx context.Context, resp *model.DiagnosticResponse) error
	UpsertResponses(ctx context.Context, responses []model.DiagnosticResponse) error
	ListResponses(ctx context.Context, sessionID string) ([]model.DiagnosticResponse, error)
	CountResponses(ctx context.Context, sessionID string) (int64, error)
	Complete(ctx context.Context, id string, c repository.SessionCompletion) error
	Cancel(ctx context.Context, id string, at time.Time) error
}

type RecommendationStore interface {
	Upsert(ctx context.Context, rec *model.DiagnosticRecommendation) error
	FindBySession(ctx context.Context, sessionID string) (*model.DiagnosticRecommendation, error)
}

type ContentSearcher interface {
	Search(ctx context.Context, q repository.ContentQuery) ([]model.ContentItem, error)
}

// ActivityRecorder must not block or fail the caller.
type ActivityRecorder interface {
	Record(userID uint, action string, payload map[string]interface{})
}

var (
	_ TemplateStore       = (*repository.TemplateRepository)(nil)
	_ SessionStore        = (*repository.SessionRepository)(nil)
	_ RecommendationStore = (*repository.RecommendationRepository)(nil)
	_ ContentSearcher     = (*repository.ContentRepository)(nil)
	_ ActivityRecorder    = (*ActivityService)(nil)
)
