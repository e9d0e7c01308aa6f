package model

import (
	"time"

	"gorm.io/datatypes"
)

type PlanPriority string

const (
	PlanHigh   PlanPriority = "HIGH"
	PlanMedium PlanPriority = "MEDIUM"
	PlanLow    PlanPriority = "LOW"
)

// ContentRef is the part of a content item embedded into a recommendation.
type ContentRef struct {
	ID               uint    `json:"id"`
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	Difficulty       int     `json:"difficulty"`
	DurationHours    float64 `json:"duration_hours"`
}

type AreaRecommendation struct {
	AreaID         uint          `json:"area_id"`
	AreaName       string        `json:"area_name"`
	Percentage     float64       `json:"percentage"`
	MaturityLevel  MaturityLevel `json:"maturity_level"`
	Priority       Priority      `json:"priority"`
	Message        string        `json:"message"`
	Actions        []string      `json:"actions,omitempty"`
	MatchedContent []ContentRef  `json:"matched_content,omitempty"`
}

type ActionPlanStep struct {
	StepNo           int          `json:"step_no"`
	Timeframe        string       `json:"timeframe"`
	Area             string       `json:"area"`
	Priority         PlanPriority `json:"priority"`
	ActionText       string       `json:"action_text"`
	SuggestedContent []ContentRef `json:"suggested_content"`
}

type RecommendationSummary struct {
	OverallScore    float64       `json:"overall_score"`
	MaturityLevel   MaturityLevel `json:"maturity_level"`
	Message         string        `json:"message"`
	GeneralAction   string        `json:"general_action"`
	CriticalCount   int           `json:"critical_count"`
	ImprovableCount int           `json:"improvable_count"`
	StrongCount     int           `json:"strong_count"`
}

// swagger:model
type RecommendationBundle struct {
	SessionID   string                `json:"session_id"`
	Summary     RecommendationSummary `json:"summary"`
	Critical    []AreaRecommendation  `json:"critical"`
	Improvable  []AreaRecommendation  `json:"improvable"`
	Strong      []AreaRecommendation  `json:"strong"`
	ActionPlan  []ActionPlanStep      `json:"action_plan"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// DiagnosticRecommendation stores the latest bundle of a session together
// with the flat area name lists used by listings.
type DiagnosticRecommendation struct {
	BaseModel
	SessionID        string                                   `gorm:"type:varchar(36);uniqueIndex;not null" json:"session_id"`
	Bundle           datatypes.JSONType[RecommendationBundle] `json:"bundle"`
	StrongAreas      datatypes.JSONType[[]string]             `json:"strong_areas"`
	ImprovementAreas datatypes.JSONType[[]string]             `json:"improvement_areas"`
}
