package service

import (
	"bizdiag_backend/internal/model"
	"bizdiag_backend/internal/repository"
	"bizdiag_backend/internal/util"
	"bizdiag_backend/pkg/logger"
	"bizdiag_backend/pkg/monitoring"
	"bizdiag_backend/pkg/tracing"
	"context"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecommendationLimits bounds content matching and plan size.
type RecommendationLimits struct {
	ContentPerArea     int
	ContentFallback    int
	PlanAreasPerLevel  int
	PlanContentPerStep int
}

var DefaultRecommendationLimits = RecommendationLimits{
	ContentPerArea:     5,
	ContentFallback:    3,
	PlanAreasPerLevel:  2,
	PlanContentPerStep: 2,
}

type RecommendationService struct {
	Store      RecommendationStore
	Sessions   SessionStore
	Templates  TemplateStore
	Content    ContentSearcher
	Catalog    *CatalogHolder
	Classifier *MaturityClassifier
	Limits     RecommendationLimits
	now        func() time.Time
}

func NewRecommendationService(
	store RecommendationStore,
	sessions SessionStore,
	templates TemplateStore,
	content ContentSearcher,
	catalog *CatalogHolder,
	classifier *MaturityClassifier,
	limits RecommendationLimits,
) *RecommendationService {
	return &RecommendationService{
		Store:      store,
		Sessions:   sessions,
		Templates:  templates,
		Content:    content,
		Catalog:    catalog,
		Classifier: classifier,
		Limits:     limits,
		now:        time.Now,
	}
}

// Generate builds the bundle of a completed session and stores it, replacing
// any earlier one.
func (s *RecommendationService) Generate(ctx context.Context, sessionID string) (bundle *model.RecommendationBundle, err error) {
	ctx, span := tracing.Start(ctx, "RecommendationService.Generate", attribute.String("session_id", sessionID))
	defer func() { tracing.End(span, err) }()

	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.Status != model.SessionCompleted {
		return nil, util.ErrSessionNotCompleted
	}

	// Declaration order breaks ties between equal percentages. If the
	// template is gone the stored result order is used as is.
	var order map[uint]int
	if tpl, terr := s.Templates.FindByID(ctx, session.TemplateID); terr == nil {
		order = make(map[uint]int, len(tpl.Areas))
		for i, a := range tpl.Areas {
			order[a.ID] = i
		}
	} else {
		logger.Log.Warn("Template unavailable while generating recommendations",
			zap.Uint("template_id", session.TemplateID), zap.Error(terr))
	}

	bundle = s.Build(ctx, session, order)

	rec := &model.DiagnosticRecommendation{
		SessionID:        session.ID,
		Bundle:           datatypes.NewJSONType(*bundle),
		StrongAreas:      datatypes.NewJSONType(areaNames(bundle.Strong)),
		ImprovementAreas: datatypes.NewJSONType(append(areaNames(bundle.Critical), areaNames(bundle.Improvable)...)),
	}
	if err := s.Store.Upsert(ctx, rec); err != nil {
		return nil, util.Wrap(util.KindDependency, "store recommendations", err)
	}

	monitoring.RecommendationsGenerated.Inc()
	return bundle, nil
}

// Get returns the stored bundle, generating it first for a completed session
// that has none.
func (s *RecommendationService) Get(ctx context.Context, sessionID string) (*model.RecommendationBundle, error) {
	rec, err := s.Store.FindBySession(ctx, sessionID)
	if err == nil {
		bundle := rec.Bundle.Data()
		return &bundle, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.Generate(ctx, sessionID)
}

// Build turns the area results of a completed session into a bundle. It does
// not persist anything. order maps area ids to template declaration order
// and may be nil.
func (s *RecommendationService) Build(ctx context.Context, session *model.DiagnosticSession, order map[uint]int) *model.RecommendationBundle {
	catalog := s.Catalog.Load()
	results := session.AreaResults.Data()

	var critical, improvable, strong []model.AreaResult
	for _, r := range results {
		_, priority := s.Classifier.Classify(r.Percentage)
		switch priority {
		case model.PriorityCritical:
			critical = append(critical, r)
		case model.PriorityImprovable:
			improvable = append(improvable, r)
		case model.PriorityStrong:
			strong = append(strong, r)
		}
	}
	sortByPercentage(critical, order)
	sortByPercentage(improvable, order)

	bundle := &model.RecommendationBundle{
		SessionID:   session.ID,
		Critical:    make([]model.AreaRecommendation, 0, len(critical)),
		Improvable:  make([]model.AreaRecommendation, 0, len(improvable)),
		Strong:      make([]model.AreaRecommendation, 0, len(strong)),
		GeneratedAt: s.now(),
	}
	for _, r := range critical {
		bundle.Critical = append(bundle.Critical, s.areaRecommendation(ctx, catalog, r, model.PriorityCritical))
	}
	for _, r := range improvable {
		bundle.Improvable = append(bundle.Improvable, s.areaRecommendation(ctx, catalog, r, model.PriorityImprovable))
	}
	for _, r := range strong {
		bundle.Strong = append(bundle.Strong, model.AreaRecommendation{
			AreaID:        r.AreaID,
			AreaName:      r.AreaName,
			Percentage:    r.Percentage,
			MaturityLevel: r.MaturityLevel,
			Priority:      model.PriorityStrong,
			Message:       catalog.MessageFor(r.AreaName, model.PriorityStrong, r.Percentage),
		})
	}

	bundle.ActionPlan = s.actionPlan(catalog, bundle)
	bundle.Summary = s.summary(catalog, session, bundle)
	return bundle
}

func sortByPercentage(results []model.AreaResult, order map[uint]int) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Percentage != results[j].Percentage {
			return results[i].Percentage < results[j].Percentage
		}
		if order == nil {
			return false
		}
		return order[results[i].AreaID] < order[results[j].AreaID]
	})
}

func (s *RecommendationService) areaRecommendation(ctx context.Context, catalog *RecommendationCatalog, r model.AreaResult, priority model.Priority) model.AreaRecommendation {
	return model.AreaRecommendation{
		AreaID:         r.AreaID,
		AreaName:       r.AreaName,
		Percentage:     r.Percentage,
		MaturityLevel:  r.MaturityLevel,
		Priority:       priority,
		Message:        catalog.MessageFor(r.AreaName, priority, r.Percentage),
		Actions:        catalog.ActionsFor(r.AreaName, priority),
		MatchedContent: s.matchContent(ctx, catalog, r.AreaName, priority),
	}
}

// matchContent never fails: a catalog error degrades to no content.
func (s *RecommendationService) matchContent(ctx context.Context, catalog *RecommendationCatalog, area string, priority model.Priority) []model.ContentRef {
	items, err := s.Content.Search(ctx, repository.ContentQuery{
		Keywords:     catalog.KeywordsFor(area),
		EasiestFirst: priority == model.PriorityCritical,
		Limit:        s.Limits.ContentPerArea,
	})
	if err != nil {
		logger.Log.Warn("Content search failed", zap.String("area", area), zap.Error(err))
		return []model.ContentRef{}
	}

	if len(items) == 0 {
		monitoring.ContentFallbacks.Inc()
		items, err = s.Content.Search(ctx, repository.ContentQuery{
			Keywords: catalog.FallbackKeywords,
			Limit:    s.Limits.ContentFallback,
		})
		if err != nil {
			logger.Log.Warn("Fallback content search failed", zap.String("area", area), zap.Error(err))
			return []model.ContentRef{}
		}
	}

	refs := make([]model.ContentRef, 0, len(items))
	for i := range items {
		refs = append(refs, items[i].Ref())
	}
	return refs
}

func (s *RecommendationService) actionPlan(catalog *RecommendationCatalog, bundle *model.RecommendationBundle) []model.ActionPlanStep {
	plan := make([]model.ActionPlanStep, 0, 2*max(s.Limits.PlanAreasPerLevel, 0)+1)

	addSteps := func(recs []model.AreaRecommendation, priority model.Priority, timeframe string, level model.PlanPriority) {
		for i, rec := range recs {
			if i >= s.Limits.PlanAreasPerLevel {
				return
			}
			plan = append(plan, model.ActionPlanStep{
				StepNo:           len(plan) + 1,
				Timeframe:        timeframe,
				Area:             rec.AreaName,
				Priority:         level,
				ActionText:       catalog.PlanAction(priority, rec.AreaName, rec.Actions),
				SuggestedContent: firstContent(rec.MatchedContent, s.Limits.PlanContentPerStep),
			})
		}
	}
	addSteps(bundle.Critical, model.PriorityCritical, util.TimeframeImmediate, model.PlanHigh)
	addSteps(bundle.Improvable, model.PriorityImprovable, util.TimeframeShortTerm, model.PlanMedium)

	if len(bundle.Strong) > 0 {
		plan = append(plan, model.ActionPlanStep{
			StepNo:           len(plan) + 1,
			Timeframe:        util.TimeframeMediumTerm,
			Area:             catalog.Plan.MaintenanceArea,
			Priority:         model.PlanLow,
			ActionText:       catalog.Plan.MaintenanceAction,
			SuggestedContent: []model.ContentRef{},
		})
	}
	return plan
}

func firstContent(refs []model.ContentRef, n int) []model.ContentRef {
	if n < 0 {
		n = 0
	}
	if len(refs) < n {
		n = len(refs)
	}
	return append([]model.ContentRef{}, refs[:n]...)
}

func (s *RecommendationService) summary(catalog *RecommendationCatalog, session *model.DiagnosticSession, bundle *model.RecommendationBundle) model.RecommendationSummary {
	var overall float64
	if session.OverallScore != nil {
		overall = *session.OverallScore
	}
	level := session.MaturityLevel
	if level == "" {
		level = s.Classifier.Level(overall)
	}
	text := catalog.SummaryFor(level)
	return model.RecommendationSummary{
		OverallScore:    overall,
		MaturityLevel:   level,
		Message:         text.Message,
		GeneralAction:   text.Action,
		CriticalCount:   len(bundle.Critical),
		ImprovableCount: len(bundle.Improvable),
		StrongCount:     len(bundle.Strong),
	}
}

func areaNames(recs []model.AreaRecommendation) []string {
	names := make([]string, 0, len(recs))
	for _, r := range recs {
		names = append(names, r.AreaName)
	}
	return names
}
