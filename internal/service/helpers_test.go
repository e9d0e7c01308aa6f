package service

import (
	"bizdiag_backend/internal/model"
	"bizdiag_backend/internal/repository"
	"bizdiag_backend/pkg/database"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type fakeActivity struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeActivity) Record(userID uint, action string, payload map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
}

func (f *fakeActivity) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.actions...)
}

type fakeContent struct {
	mu     sync.Mutex
	calls  []repository.ContentQuery
	search func(q repository.ContentQuery) ([]model.ContentItem, error)
}

func (f *fakeContent) Search(ctx context.Context, q repository.ContentQuery) ([]model.ContentItem, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	f.mu.Unlock()
	if f.search == nil {
		return nil, nil
	}
	return f.search(q)
}

type failingRecommendationStore struct{}

func (failingRecommendationStore) Upsert(ctx context.Context, rec *model.DiagnosticRecommendation) error {
	return errors.New("disk full")
}

func (failingRecommendationStore) FindBySession(ctx context.Context, sessionID string) (*model.DiagnosticRecommendation, error) {
	return nil, gorm.ErrRecordNotFound
}

type harness struct {
	db             *gorm.DB
	templates      *repository.TemplateRepository
	sessions       *repository.SessionRepository
	recs           *repository.RecommendationRepository
	activity       *fakeActivity
	recommendation *RecommendationService
	diagnostic     *DiagnosticService
}

// newHarness wires the services over an in-memory database. content may be
// nil, in which case the seeded content catalog is searched.
func newHarness(t *testing.T, content ContentSearcher) *harness {
	t.Helper()
	db := newTestDB(t)

	if content == nil {
		require.NoError(t, database.Seed(db))
		content = repository.NewContentRepository(db, nil, 0)
	}

	catalog, err := DefaultRecommendationCatalog()
	require.NoError(t, err)

	h := &harness{
		db:        db,
		templates: repository.NewTemplateRepository(db, nil, 0),
		sessions:  repository.NewSessionRepository(db),
		recs:      repository.NewRecommendationRepository(db),
		activity:  &fakeActivity{},
	}
	classifier := NewMaturityClassifier(DefaultThresholds)
	h.recommendation = NewRecommendationService(h.recs, h.sessions, h.templates, content,
		NewCatalogHolder(catalog), classifier, DefaultRecommendationLimits)
	h.diagnostic = NewDiagnosticService(h.templates, h.sessions, h.recommendation, h.activity, classifier)
	return h
}

type areaDef struct {
	name      string
	weight    float64
	questions int
}

// createTemplate stores a template whose questions are scored, weight 1 and
// scale 0..5.
func (h *harness) createTemplate(t *testing.T, areas ...areaDef) *model.DiagnosticTemplate {
	t.Helper()
	tpl := &model.DiagnosticTemplate{
		Name:     "Test template",
		Slug:     "test-" + uuid.NewString(),
		IsActive: true,
	}
	for i, a := range areas {
		area := model.DiagnosticArea{Name: a.name, Weight: a.weight, Order: i + 1}
		for j := 0; j < a.questions; j++ {
			area.Questions = append(area.Questions, model.DiagnosticQuestion{
				Prompt:   fmt.Sprintf("%s question %d", a.name, j+1),
				Type:     model.QuestionScored,
				Weight:   1,
				ScaleMax: 5,
				Order:    j + 1,
			})
		}
		tpl.Areas = append(tpl.Areas, area)
	}
	require.NoError(t, h.db.Create(tpl).Error)
	return tpl
}

// completedSession stores a finalized session with the given area results,
// bypassing scoring.
func (h *harness) completedSession(t *testing.T, userID uint, tpl *model.DiagnosticTemplate, overall float64, results []model.AreaResult) *model.DiagnosticSession {
	t.Helper()
	finished := time.Now()
	level := NewMaturityClassifier(DefaultThresholds).Level(overall)
	s := &model.DiagnosticSession{
		UserID:        userID,
		TemplateID:    tpl.ID,
		Status:        model.SessionCompleted,
		StartedAt:     finished.Add(-time.Hour),
		FinishedAt:    &finished,
		OverallScore:  &overall,
		MaturityLevel: level,
		AreaResults:   datatypes.NewJSONType(results),
	}
	require.NoError(t, h.sessions.Create(context.Background(), s))
	return s
}

func floatPtr(v float64) *float64 {
	return &v
}

func stringPtr(s string) *string {
	return &s
}
