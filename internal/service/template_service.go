package service

import (
	"bizdiag_backend/internal/model"
	"bizdiag_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type TemplateService struct {
	Store TemplateStore
}

func NewTemplateService(store TemplateStore) *TemplateService {
	return &TemplateService{Store: store}
}

type TemplateSummary struct {
	ID               uint     `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Description      string   `json:"description"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	AreaCount        int      `json:"area_count"`
	QuestionCount    int      `json:"question_count"`
	AreaNames        []string `json:"area_names"`
}

func (s *TemplateService) ListTemplates(ctx context.Context) ([]TemplateSummary, error) {
	tpls, err := s.Store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TemplateSummary, 0, len(tpls))
	for i := range tpls {
		t := &tpls[i]
		names := make([]string, 0, len(t.Areas))
		for _, a := range t.Areas {
			names = append(names, a.Name)
		}
		out = append(out, TemplateSummary{
			ID:               t.ID,
			Name:             t.Name,
			Slug:             t.Slug,
			Description:      t.Description,
			EstimatedMinutes: t.EstimatedMinutes,
			AreaCount:        len(t.Areas),
			QuestionCount:    t.QuestionCount(),
			AreaNames:        names,
		})
	}
	return out, nil
}

func (s *TemplateService) GetTemplate(ctx context.Context, id uint) (*model.DiagnosticTemplate, error) {
	tpl, err := s.Store.FindByID(ctx, id)
	return tpl, translateTemplateErr(err)
}

func (s *TemplateService) GetTemplateBySlug(ctx context.Context, slug string) (*model.DiagnosticTemplate, error) {
	tpl, err := s.Store.FindBySlug(ctx, slug)
	return tpl, translateTemplateErr(err)
}

func translateTemplateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrTemplateNotFound
	}
	return err
}
