package app

import (
	"bizdiag_backend/internal/config"
	"bizdiag_backend/internal/util"
	"bizdiag_backend/pkg/database"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-test-secret-test-secret"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t   *testing.T
	app *App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0", Mode: "test"},
		JWT:    config.JWTConfig{Secret: testSecret},
		Diagnostic: config.DiagnosticConfig{
			Thresholds:         config.ThresholdConfig{Basic: 40, Intermediate: 60, Advanced: 80},
			ContentPerArea:     5,
			ContentFallback:    3,
			PlanAreasPerLevel:  2,
			PlanContentPerStep: 2,
		},
	}
	app, err := assemble(cfg, db, nil)
	require.NoError(t, err)
	t.Cleanup(app.services.activity.Wait)
	return &testServer{t: t, app: app}
}

func (s *testServer) do(method, path string, userID uint, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		token, err := util.GenerateJWT(userID, "", testSecret, time.Hour)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

type templateView struct {
	ID    uint   `json:"id"`
	Slug  string `json:"slug"`
	Areas []struct {
		Name      string `json:"name"`
		Questions []struct {
			ID   uint   `json:"id"`
			Type string `json:"type"`
		} `json:"questions"`
	} `json:"areas"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(http.MethodGet, "/api/health", 0, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"cache":"disabled"`)
}

func TestRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	code, _ := s.do(http.MethodGet, "/api/diagnostics/templates", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodPost, "/api/sessions", 0, gin.H{"template_id": 1})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestDiagnosticFlow(t *testing.T) {
	s := newTestServer(t)
	const owner uint = 11

	code, env := s.do(http.MethodGet, "/api/diagnostics/templates/slug/"+database.DefaultTemplateSlug, owner, nil)
	require.Equal(t, http.StatusOK, code)
	var tpl templateView
	decode(t, env, &tpl)
	require.Len(t, tpl.Areas, 5)

	code, env = s.do(http.MethodPost, "/api/sessions", owner, gin.H{"template_id": tpl.ID})
	require.Equal(t, http.StatusCreated, code)
	var started struct {
		Session struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"session"`
	}
	decode(t, env, &started)
	id := started.Session.ID
	require.NotEmpty(t, id)
	assert.Equal(t, "in_progress", started.Session.Status)

	// answer every scored question with the top value except Finance
	var answers []gin.H
	for _, area := range tpl.Areas {
		value := 5.0
		if area.Name == "Finance" {
			value = 1
		}
		for _, q := range area.Questions {
			if q.Type == "free_text" {
				answers = append(answers, gin.H{"question_id": q.ID, "text_value": "cash flow"})
				continue
			}
			answers = append(answers, gin.H{"question_id": q.ID, "numeric_value": value})
		}
	}
	answers = append(answers, gin.H{"question_id": 99999, "numeric_value": 1})

	code, env = s.do(http.MethodPost, "/api/sessions/"+id+"/responses/batch", owner, gin.H{"responses": answers})
	require.Equal(t, http.StatusOK, code)
	var batch struct {
		Saved  int `json:"saved"`
		Errors []struct {
			QuestionID uint `json:"question_id"`
		} `json:"errors"`
		Progress struct {
			Complete bool `json:"complete"`
		} `json:"progress"`
	}
	decode(t, env, &batch)
	assert.Equal(t, 16, batch.Saved)
	require.Len(t, batch.Errors, 1)
	assert.Equal(t, uint(99999), batch.Errors[0].QuestionID)
	assert.True(t, batch.Progress.Complete)

	code, _ = s.do(http.MethodPost, "/api/sessions/"+id+"/responses", owner,
		gin.H{"question_id": tpl.Areas[1].Questions[0].ID, "numeric_value": 7})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/api/sessions/"+id, owner+1, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env = s.do(http.MethodPost, "/api/sessions/"+id+"/finalize", owner, nil)
	require.Equal(t, http.StatusOK, code)
	var finalized struct {
		OverallScore    float64 `json:"overall_score"`
		MaturityLevel   string  `json:"maturity_level"`
		Recommendations struct {
			Critical []struct {
				AreaName string `json:"area_name"`
			} `json:"critical"`
		} `json:"recommendations"`
	}
	decode(t, env, &finalized)
	assert.Equal(t, 84.0, finalized.OverallScore)
	assert.Equal(t, "advanced", finalized.MaturityLevel)
	require.Len(t, finalized.Recommendations.Critical, 1)
	assert.Equal(t, "Finance", finalized.Recommendations.Critical[0].AreaName)

	code, env = s.do(http.MethodPost, "/api/sessions/"+id+"/finalize", owner, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, util.ErrSessionNotActive.Error(), env.Message)

	code, env = s.do(http.MethodGet, "/api/sessions/"+id+"/recommendations", owner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"action_plan"`)

	code, env = s.do(http.MethodGet, "/api/sessions/compare?a="+id+"&b="+id, owner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"overall_diff":0`)

	code, env = s.do(http.MethodGet, "/api/sessions?status=completed", owner, nil)
	require.Equal(t, http.StatusOK, code)
	var listed []struct {
		ID string `json:"id"`
	}
	decode(t, env, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)

	s.app.services.activity.Wait()
	code, env = s.do(http.MethodGet, "/api/activity", owner, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "diagnostic.finalized")
}

func TestRecommendationsBeforeFinalize(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(http.MethodGet, "/api/diagnostics/templates", 1, nil)
	require.Equal(t, http.StatusOK, code)
	var tpls []templateView
	decode(t, env, &tpls)
	require.NotEmpty(t, tpls)

	code, env = s.do(http.MethodPost, "/api/sessions", 1, gin.H{"template_id": tpls[0].ID})
	require.Equal(t, http.StatusCreated, code)
	var started struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	decode(t, env, &started)

	code, _ = s.do(http.MethodGet, "/api/sessions/"+started.Session.ID+"/recommendations", 1, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodDelete, "/api/sessions/"+started.Session.ID, 1, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodPost, "/api/sessions/"+started.Session.ID+"/finalize", 1, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodGet, "/api/sessions/compare?a="+started.Session.ID, 1, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/sessions", 1, gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBatchReportsItemWithoutQuestionID(t *testing.T) {
	s := newTestServer(t)
	const owner uint = 21

	code, env := s.do(http.MethodGet, "/api/diagnostics/templates/slug/"+database.DefaultTemplateSlug, owner, nil)
	require.Equal(t, http.StatusOK, code)
	var tpl templateView
	decode(t, env, &tpl)
	require.NotEmpty(t, tpl.Areas)

	var questionID uint
	for _, q := range tpl.Areas[0].Questions {
		if q.Type != "free_text" {
			questionID = q.ID
			break
		}
	}
	require.NotZero(t, questionID)

	code, env = s.do(http.MethodPost, "/api/sessions", owner, gin.H{"template_id": tpl.ID})
	require.Equal(t, http.StatusCreated, code)
	var started struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	decode(t, env, &started)

	answers := []gin.H{
		{"question_id": questionID, "numeric_value": 3},
		{"numeric_value": 2},
	}
	code, env = s.do(http.MethodPost, "/api/sessions/"+started.Session.ID+"/responses/batch", owner, gin.H{"responses": answers})
	require.Equal(t, http.StatusOK, code)
	var batch struct {
		Saved  int `json:"saved"`
		Errors []struct {
			QuestionID uint   `json:"question_id"`
			Error      string `json:"error"`
		} `json:"errors"`
		Progress struct {
			Answered int `json:"answered"`
		} `json:"progress"`
	}
	decode(t, env, &batch)
	assert.Equal(t, 1, batch.Saved)
	require.Len(t, batch.Errors, 1)
	assert.Zero(t, batch.Errors[0].QuestionID)
	assert.Contains(t, batch.Errors[0].Error, "question_id is required")
	assert.Equal(t, 1, batch.Progress.Answered)

	code, _ = s.do(http.MethodPost, "/api/sessions/"+started.Session.ID+"/responses", owner, gin.H{"numeric_value": 2})
	assert.Equal(t, http.StatusBadRequest, code)
}
