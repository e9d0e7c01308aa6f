package repository

import (
	"bizdiag_backend/internal/model"
	"bizdiag_backend/pkg/database"
	"fmt"
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

func newSession(t *testing.T, db *gorm.DB, userID uint, templateID uint, startedAt time.Time) *model.DiagnosticSession {
	t.Helper()
	s := &model.DiagnosticSession{
		UserID:      userID,
		TemplateID:  templateID,
		Status:      model.SessionInProgress,
		StartedAt:   startedAt,
		AreaResults: datatypes.NewJSONType([]model.AreaResult{}),
	}
	require.NoError(t, db.Create(s).Error)
	return s
}
