package repository

import (
	"bizdiag_backend/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteIsConditional(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	s := newSession(t, db, 1, 1, time.Now())

	completion := SessionCompletion{
		OverallScore:  72.5,
		MaturityLevel: model.MaturityIntermediate,
		AreaResults: []model.AreaResult{
			{AreaID: 1, AreaName: "Finance", Weight: 100, RawScore: 7.25, MaxScore: 10, Percentage: 72.5},
		},
		FinishedAt: time.Now(),
	}
	require.NoError(t, repo.Complete(ctx, s.ID, completion))
	assert.ErrorIs(t, repo.Complete(ctx, s.ID, completion), ErrStaleStatus)
	assert.ErrorIs(t, repo.Cancel(ctx, s.ID, time.Now()), ErrStaleStatus)

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, got.Status)
	require.NotNil(t, got.OverallScore)
	assert.Equal(t, 72.5, *got.OverallScore)
	assert.Equal(t, model.MaturityIntermediate, got.MaturityLevel)
	require.Len(t, got.AreaResults.Data(), 1)
	assert.Equal(t, "Finance", got.AreaResults.Data()[0].AreaName)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	s := newSession(t, db, 1, 1, time.Now())

	require.NoError(t, repo.Cancel(ctx, s.ID, time.Now()))
	assert.ErrorIs(t, repo.Complete(ctx, s.ID, SessionCompletion{FinishedAt: time.Now()}), ErrStaleStatus)

	got, err := repo.FindByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionCancelled, got.Status)
	assert.NotNil(t, got.FinishedAt)
}

func TestUpsertResponseLastWriteWins(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	s := newSession(t, db, 1, 1, time.Now())

	require.NoError(t, repo.UpsertResponse(ctx, &model.DiagnosticResponse{
		SessionID: s.ID, QuestionID: 10, NumericValue: 1, AnsweredAt: time.Now(),
	}))
	note := "updated"
	require.NoError(t, repo.UpsertResponse(ctx, &model.DiagnosticResponse{
		SessionID: s.ID, QuestionID: 10, NumericValue: 4, TextValue: &note, AnsweredAt: time.Now(),
	}))

	responses, err := repo.ListResponses(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, 4.0, responses[0].NumericValue)
	require.NotNil(t, responses[0].TextValue)
	assert.Equal(t, "updated", *responses[0].TextValue)
}

func TestUpsertResponses(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	s := newSession(t, db, 1, 1, time.Now())
	other := newSession(t, db, 1, 1, time.Now())

	now := time.Now()
	require.NoError(t, repo.UpsertResponses(ctx, []model.DiagnosticResponse{
		{SessionID: s.ID, QuestionID: 3, NumericValue: 3, AnsweredAt: now},
		{SessionID: s.ID, QuestionID: 1, NumericValue: 1, AnsweredAt: now},
		{SessionID: other.ID, QuestionID: 1, NumericValue: 5, AnsweredAt: now},
	}))
	require.NoError(t, repo.UpsertResponses(ctx, nil))

	n, err := repo.CountResponses(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	responses, err := repo.ListResponses(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, uint(1), responses[0].QuestionID)
	assert.Equal(t, uint(3), responses[1].QuestionID)
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	tpl := &model.DiagnosticTemplate{Name: "Quick check", Slug: "quick-check", IsActive: true}
	require.NoError(t, db.Create(tpl).Error)

	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	older := newSession(t, db, 1, tpl.ID, base)
	newer := newSession(t, db, 1, tpl.ID, base.Add(24*time.Hour))
	newSession(t, db, 2, tpl.ID, base)
	require.NoError(t, repo.Cancel(ctx, older.ID, base.Add(time.Hour)))

	all, err := repo.ListByUser(ctx, 1, SessionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, newer.ID, all[0].ID)
	require.NotNil(t, all[0].Template)
	assert.Equal(t, "Quick check", all[0].Template.Name)

	cancelled, err := repo.ListByUser(ctx, 1, SessionFilter{Status: model.SessionCancelled})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, older.ID, cancelled[0].ID)

	none, err := repo.ListByUser(ctx, 1, SessionFilter{TemplateID: tpl.ID + 1})
	require.NoError(t, err)
	assert.Empty(t, none)
}
