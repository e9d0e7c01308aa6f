package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActivityDiagnosticStarted   = "diagnostic.started"
	ActivityDiagnosticFinalized = "diagnostic.finalized"
	ActivityDiagnosticCancelled = "diagnostic.cancelled"
)

type ActivityLog struct {
	ID        uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint              `gorm:"index;not null" json:"user_id"`
	Action    string            `gorm:"size:100;index;not null" json:"action"`
	Payload   datatypes.JSONMap `json:"payload"`
	CreatedAt time.Time         `json:"created_at"`
}
