package repository

import (
	"bizdiag_backend/internal/model"
	"bizdiag_backend/pkg/database"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTemplateTreeIsOrdered(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewTemplateRepository(db, nil, 0)

	tpl := &model.DiagnosticTemplate{
		Name:     "Ordered",
		Slug:     "ordered",
		IsActive: true,
		Areas: []model.DiagnosticArea{
			{Name: "Second", Weight: 50, Order: 2, Questions: []model.DiagnosticQuestion{
				{Prompt: "b2", Type: model.QuestionScored, Weight: 1, ScaleMax: 5, Order: 2},
				{Prompt: "b1", Type: model.QuestionScored, Weight: 1, ScaleMax: 5, Order: 1},
			}},
			{Name: "First", Weight: 50, Order: 1, Questions: []model.DiagnosticQuestion{
				{Prompt: "a1", Type: model.QuestionScored, Weight: 1, ScaleMax: 5, Order: 1},
			}},
		},
	}
	require.NoError(t, db.Create(tpl).Error)

	got, err := repo.FindByID(ctx, tpl.ID)
	require.NoError(t, err)
	require.Len(t, got.Areas, 2)
	assert.Equal(t, "First", got.Areas[0].Name)
	assert.Equal(t, "Second", got.Areas[1].Name)
	require.Len(t, got.Areas[1].Questions, 2)
	assert.Equal(t, "b1", got.Areas[1].Questions[0].Prompt)
	assert.Equal(t, 3, got.QuestionCount())

	bySlug, err := repo.FindBySlug(ctx, "ordered")
	require.NoError(t, err)
	assert.Equal(t, tpl.ID, bySlug.ID)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestListActiveTemplates(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	require.NoError(t, database.Seed(db))
	require.NoError(t, db.Create(&model.DiagnosticTemplate{Name: "Retired", Slug: "retired", IsActive: false}).Error)

	tpls, err := NewTemplateRepository(db, nil, 0).ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, tpls, 1)
	assert.Equal(t, database.DefaultTemplateSlug, tpls[0].Slug)
	assert.Len(t, tpls[0].Areas, 5)
}
