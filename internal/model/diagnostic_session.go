package model

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionCancelled  SessionStatus = "cancelled"
)

type MaturityLevel string

const (
	MaturityInitial      MaturityLevel = "initial"
	MaturityBasic        MaturityLevel = "basic"
	MaturityIntermediate MaturityLevel = "intermediate"
	MaturityAdvanced     MaturityLevel = "advanced"
)

type Priority string

const (
	PriorityCritical   Priority = "critical"
	PriorityImprovable Priority = "improvable"
	PriorityGood       Priority = "good"
	PriorityStrong     Priority = "strong"
)

// AreaResult is the score of one area at finalization time.
type AreaResult struct {
	AreaID        uint          `json:"area_id"`
	AreaName      string        `json:"area_name"`
	Weight        float64       `json:"weight"`
	RawScore      float64       `json:"raw_score"`
	MaxScore      float64       `json:"max_score"`
	Percentage    float64       `json:"percentage"`
	MaturityLevel MaturityLevel `json:"maturity_level"`
}

// swagger:model
type DiagnosticSession struct {
	UUIDBase
	UserID            uint                             `gorm:"index;not null" json:"user_id"`
	TemplateID        uint                             `gorm:"index;not null" json:"template_id"`
	Template          *DiagnosticTemplate              `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	BusinessProfileID *uint                            `gorm:"index" json:"business_profile_id,omitempty"`
	Status            SessionStatus                    `gorm:"size:20;index;not null" json:"status"`
	StartedAt         time.Time                        `gorm:"not null" json:"started_at"`
	FinishedAt        *time.Time                       `json:"finished_at,omitempty"`
	OverallScore      *float64                         `json:"overall_score,omitempty"`
	MaturityLevel     MaturityLevel                    `gorm:"size:20" json:"maturity_level,omitempty"`
	AreaResults       datatypes.JSONType[[]AreaResult] `json:"area_results"`
}

// swagger:model
type DiagnosticResponse struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_session_question" json:"session_id"`
	QuestionID   uint      `gorm:"not null;uniqueIndex:idx_session_question" json:"question_id"`
	NumericValue float64   `json:"numeric_value"`
	TextValue    *string   `gorm:"type:text" json:"text_value,omitempty"`
	AnsweredAt   time.Time `json:"answered_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
