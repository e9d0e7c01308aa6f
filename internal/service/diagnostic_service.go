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
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DiagnosticService struct {
	Templates       TemplateStore
	Sessions        SessionStore
	Recommendations *RecommendationService
	Activity        ActivityRecorder
	Classifier      *MaturityClassifier
	now             func() time.Time
}

func NewDiagnosticService(
	templates TemplateStore,
	sessions SessionStore,
	recommendations *RecommendationService,
	activity ActivityRecorder,
	classifier *MaturityClassifier,
) *DiagnosticService {
	return &DiagnosticService{
		Templates:       templates,
		Sessions:        sessions,
		Recommendations: recommendations,
		Activity:        activity,
		Classifier:      classifier,
		now:             time.Now,
	}
}

type StartSessionRequest struct {
	TemplateID        uint  `json:"template_id" binding:"required"`
	BusinessProfileID *uint `json:"business_profile_id"`
}

type StartSessionResult struct {
	Session *model.DiagnosticSession `json:"session"`
	Areas   []model.DiagnosticArea   `json:"areas"`
}

type ResponseInput struct {
	QuestionID   uint     `json:"question_id"`
	NumericValue *float64 `json:"numeric_value"`
	TextValue    *string  `json:"text_value"`
}

type BatchResponseRequest struct {
	Responses []ResponseInput `json:"responses" binding:"required,min=1"`
}

type Progress struct {
	Answered   int     `json:"answered"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Complete   bool    `json:"complete"`
}

type ResponseError struct {
	QuestionID uint   `json:"question_id"`
	Error      string `json:"error"`
}

type BatchResult struct {
	Saved    int             `json:"saved"`
	Errors   []ResponseError `json:"errors"`
	Progress Progress        `json:"progress"`
}

type SessionDetail struct {
	Session   *model.DiagnosticSession   `json:"session"`
	Responses []model.DiagnosticResponse `json:"responses"`
	Progress  Progress                   `json:"progress"`
}

type SessionSummary struct {
	ID            string              `json:"id"`
	TemplateID    uint                `json:"template_id"`
	TemplateName  string              `json:"template_name"`
	Status        model.SessionStatus `json:"status"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    *time.Time          `json:"finished_at,omitempty"`
	OverallScore  *float64            `json:"overall_score,omitempty"`
	MaturityLevel model.MaturityLevel `json:"maturity_level,omitempty"`
}

type FinalizeResult struct {
	SessionID       string                      `json:"session_id"`
	OverallScore    float64                     `json:"overall_score"`
	MaturityLevel   model.MaturityLevel         `json:"maturity_level"`
	AreaResults     []model.AreaResult          `json:"area_results"`
	Recommendations *model.RecommendationBundle `json:"recommendations,omitempty"`
}

type AreaComparison struct {
	AreaID   uint    `json:"area_id"`
	AreaName string  `json:"area_name"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Diff     float64 `json:"diff"`
}

type SessionComparison struct {
	CurrentSessionID  string           `json:"current_session_id"`
	PreviousSessionID string           `json:"previous_session_id"`
	CurrentScore      float64          `json:"current_score"`
	PreviousScore     float64          `json:"previous_score"`
	OverallDiff       float64          `json:"overall_diff"`
	RelativeChange    float64          `json:"relative_change"`
	Areas             []AreaComparison `json:"areas"`
}

// ownedSession loads a session of userID. Sessions of other users are
// reported as missing.
func (s *DiagnosticService) ownedSession(ctx context.Context, userID uint, sessionID string) (*model.DiagnosticSession, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

func (s *DiagnosticService) template(ctx context.Context, id uint) (*model.DiagnosticTemplate, error) {
	tpl, err := s.Templates.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTemplateNotFound
		}
		return nil, err
	}
	return tpl, nil
}

func (s *DiagnosticService) StartSession(ctx context.Context, userID uint, req StartSessionRequest) (*StartSessionResult, error) {
	tpl, err := s.template(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.IsActive {
		return nil, util.ErrTemplateInactive
	}

	session := &model.DiagnosticSession{
		UserID:            userID,
		TemplateID:        tpl.ID,
		BusinessProfileID: req.BusinessProfileID,
		Status:            model.SessionInProgress,
		StartedAt:         s.now(),
		AreaResults:       datatypes.NewJSONType([]model.AreaResult{}),
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	monitoring.SessionsStarted.Inc()
	s.Activity.Record(userID, model.ActivityDiagnosticStarted, map[string]interface{}{
		"session_id":  session.ID,
		"template_id": tpl.ID,
	})

	return &StartSessionResult{Session: session, Areas: tpl.Areas}, nil
}

// validateResponse checks one input against the template and builds the row.
func (s *DiagnosticService) validateResponse(tpl *model.DiagnosticTemplate, sessionID string, in ResponseInput) (*model.DiagnosticResponse, error) {
	if in.QuestionID == 0 {
		return nil, fmt.Errorf("%w: question_id is required", util.ErrQuestionNotInTemplate)
	}
	q, ok := tpl.FindQuestion(in.QuestionID)
	if !ok {
		return nil, fmt.Errorf("%w: question %d", util.ErrQuestionNotInTemplate, in.QuestionID)
	}

	var value float64
	if q.IsScored() {
		if in.NumericValue == nil {
			return nil, fmt.Errorf("%w: question %d requires numeric_value", util.ErrInvalidResponseValue, q.ID)
		}
		value = *in.NumericValue
		if value < 0 || value > q.ScaleMax {
			return nil, fmt.Errorf("%w: question %d accepts 0..%v, got %v", util.ErrInvalidResponseValue, q.ID, q.ScaleMax, value)
		}
	} else if in.NumericValue != nil {
		value = *in.NumericValue
	}

	return &model.DiagnosticResponse{
		SessionID:    sessionID,
		QuestionID:   q.ID,
		NumericValue: value,
		TextValue:    in.TextValue,
		AnsweredAt:   s.now(),
	}, nil
}

func (s *DiagnosticService) activeSession(ctx context.Context, userID uint, sessionID string) (*model.DiagnosticSession, *model.DiagnosticTemplate, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != model.SessionInProgress {
		return nil, nil, util.ErrSessionNotActive
	}
	tpl, err := s.template(ctx, session.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	return session, tpl, nil
}

// SubmitResponse stores or replaces the answer to one question. Scores are
// only computed on Finalize.
func (s *DiagnosticService) SubmitResponse(ctx context.Context, userID uint, sessionID string, in ResponseInput) (*Progress, error) {
	session, tpl, err := s.activeSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	resp, err := s.validateResponse(tpl, session.ID, in)
	if err != nil {
		return nil, err
	}
	if err := s.Sessions.UpsertResponse(ctx, resp); err != nil {
		return nil, err
	}
	return s.progress(ctx, session.ID, tpl)
}

// SubmitResponses saves every valid item in one transaction and reports the
// invalid ones instead of failing the whole batch.
func (s *DiagnosticService) SubmitResponses(ctx context.Context, userID uint, sessionID string, inputs []ResponseInput) (*BatchResult, error) {
	session, tpl, err := s.activeSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	result := &BatchResult{Errors: []ResponseError{}}
	valid := make([]model.DiagnosticResponse, 0, len(inputs))
	seen := make(map[uint]int, len(inputs))
	for _, in := range inputs {
		resp, err := s.validateResponse(tpl, session.ID, in)
		if err != nil {
			result.Errors = append(result.Errors, ResponseError{QuestionID: in.QuestionID, Error: err.Error()})
			continue
		}
		// a repeated question inside one batch keeps its last value
		if idx, dup := seen[resp.QuestionID]; dup {
			valid[idx] = *resp
			continue
		}
		seen[resp.QuestionID] = len(valid)
		valid = append(valid, *resp)
	}

	if err := s.Sessions.UpsertResponses(ctx, valid); err != nil {
		return nil, err
	}
	result.Saved = len(valid)

	progress, err := s.progress(ctx, session.ID, tpl)
	if err != nil {
		return nil, err
	}
	result.Progress = *progress
	return result, nil
}

func (s *DiagnosticService) GetProgress(ctx context.Context, userID uint, sessionID string) (*Progress, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.template(ctx, session.TemplateID)
	if err != nil {
		return nil, err
	}
	return s.progress(ctx, session.ID, tpl)
}

func (s *DiagnosticService) progress(ctx context.Context, sessionID string, tpl *model.DiagnosticTemplate) (*Progress, error) {
	answered, err := s.Sessions.CountResponses(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return computeProgress(int(answered), tpl.QuestionCount()), nil
}

func computeProgress(answered, total int) *Progress {
	p := &Progress{Answered: answered, Total: total}
	if total > 0 {
		p.Percentage = util.Round2(float64(answered) * 100 / float64(total))
	}
	p.Complete = total > 0 && answered >= total
	return p
}

// Finalize scores the session and moves it to completed exactly once.
// Recommendations are generated afterwards; a failure there is logged and
// leaves the session completed.
func (s *DiagnosticService) Finalize(ctx context.Context, userID uint, sessionID string) (result *FinalizeResult, err error) {
	ctx, span := tracing.Start(ctx, "DiagnosticService.Finalize", attribute.String("session_id", sessionID))
	defer func() { tracing.End(span, err) }()

	session, tpl, err := s.activeSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	responses, err := s.Sessions.ListResponses(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	score := ScoreSession(tpl, responses, s.Classifier)
	completion := repository.SessionCompletion{
		OverallScore:  score.OverallScore,
		MaturityLevel: score.MaturityLevel,
		AreaResults:   score.AreaResults,
		FinishedAt:    s.now(),
	}
	if err := s.Sessions.Complete(ctx, session.ID, completion); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, util.ErrSessionNotActive
		}
		return nil, err
	}

	monitoring.SessionsFinalized.WithLabelValues(string(score.MaturityLevel)).Inc()
	s.Activity.Record(userID, model.ActivityDiagnosticFinalized, map[string]interface{}{
		"session_id":     session.ID,
		"overall_score":  score.OverallScore,
		"maturity_level": string(score.MaturityLevel),
	})
	logger.Log.Info("Diagnostic finalized",
		zap.String("session_id", session.ID),
		zap.Uint("user_id", userID),
		zap.Float64("overall_score", score.OverallScore),
		zap.String("maturity_level", string(score.MaturityLevel)))

	result = &FinalizeResult{
		SessionID:     session.ID,
		OverallScore:  score.OverallScore,
		MaturityLevel: score.MaturityLevel,
		AreaResults:   score.AreaResults,
	}

	if s.Recommendations != nil {
		bundle, rerr := s.Recommendations.Generate(ctx, session.ID)
		if rerr != nil {
			logger.Log.Error("Failed to generate recommendations after finalize",
				zap.String("session_id", session.ID), zap.Error(rerr))
		} else {
			result.Recommendations = bundle
		}
	}
	return result, nil
}

// CancelSession abandons an in-progress session.
func (s *DiagnosticService) CancelSession(ctx context.Context, userID uint, sessionID string) error {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionInProgress {
		return util.ErrSessionNotActive
	}
	if err := s.Sessions.Cancel(ctx, session.ID, s.now()); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return util.ErrSessionNotActive
		}
		return err
	}

	s.Activity.Record(userID, model.ActivityDiagnosticCancelled, map[string]interface{}{
		"session_id": session.ID,
	})
	return nil
}

func (s *DiagnosticService) GetSession(ctx context.Context, userID uint, sessionID string) (*SessionDetail, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.template(ctx, session.TemplateID)
	if err != nil {
		return nil, err
	}
	responses, err := s.Sessions.ListResponses(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	session.Template = tpl

	return &SessionDetail{
		Session:   session,
		Responses: responses,
		Progress:  *computeProgress(len(responses), tpl.QuestionCount()),
	}, nil
}

func (s *DiagnosticService) ListSessions(ctx context.Context, userID uint, filter repository.SessionFilter) ([]SessionSummary, error) {
	sessions, err := s.Sessions.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(sessions))
	if err := copier.Copy(&summaries, &sessions); err != nil {
		return nil, err
	}
	for i := range summaries {
		if i < len(sessions) && sessions[i].Template != nil {
			summaries[i].TemplateName = sessions[i].Template.Name
		}
	}
	return summaries, nil
}

// RecommendationBundle returns the session's stored bundle, generating it when
// regenerate is set or nothing is stored yet.
func (s *DiagnosticService) RecommendationBundle(ctx context.Context, userID uint, sessionID string, regenerate bool) (*model.RecommendationBundle, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionCompleted {
		return nil, util.ErrSessionNotCompleted
	}
	if regenerate {
		return s.Recommendations.Generate(ctx, session.ID)
	}
	return s.Recommendations.Get(ctx, session.ID)
}

// Compare diffs two completed sessions; current is the later one by
// convention, but any order is accepted.
func (s *DiagnosticService) Compare(ctx context.Context, userID uint, currentID, previousID string) (*SessionComparison, error) {
	current, err := s.completedSession(ctx, userID, currentID)
	if err != nil {
		return nil, err
	}
	previous, err := s.completedSession(ctx, userID, previousID)
	if err != nil {
		return nil, err
	}
	return CompareResults(current, previous), nil
}

func (s *DiagnosticService) completedSession(ctx context.Context, userID uint, id string) (*model.DiagnosticSession, error) {
	session, err := s.ownedSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionCompleted {
		return nil, util.ErrSessionNotCompleted
	}
	return session, nil
}

// CompareResults diffs overall and per-area percentages. Areas missing from
// either session are skipped.
func CompareResults(current, previous *model.DiagnosticSession) *SessionComparison {
	var cur, prev float64
	if current.OverallScore != nil {
		cur = *current.OverallScore
	}
	if previous.OverallScore != nil {
		prev = *previous.OverallScore
	}

	diff := util.Round2(cur - prev)
	cmp := &SessionComparison{
		CurrentSessionID:  current.ID,
		PreviousSessionID: previous.ID,
		CurrentScore:      cur,
		PreviousScore:     prev,
		OverallDiff:       diff,
		Areas:             []AreaComparison{},
	}
	if prev > 0 {
		cmp.RelativeChange = util.Round2(diff * 100 / prev)
	}

	previousByArea := make(map[uint]model.AreaResult)
	for _, r := range previous.AreaResults.Data() {
		previousByArea[r.AreaID] = r
	}
	for _, r := range current.AreaResults.Data() {
		p, ok := previousByArea[r.AreaID]
		if !ok {
			continue
		}
		cmp.Areas = append(cmp.Areas, AreaComparison{
			AreaID:   r.AreaID,
			AreaName: r.AreaName,
			Current:  r.Percentage,
			Previous: p.Percentage,
			Diff:     util.Round2(r.Percentage - p.Percentage),
		})
	}
	return cmp
}
