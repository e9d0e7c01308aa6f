package database

import (
	"bizdiag_backend/internal/config"
	"bizdiag_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.Server.Mode == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	if err := Seed(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.DiagnosticTemplate{},
		&model.DiagnosticArea{},
		&model.DiagnosticQuestion{},
		&model.DiagnosticSession{},
		&model.DiagnosticResponse{},
		&model.DiagnosticRecommendation{},
		&model.ContentItem{},
		&model.ActivityLog{},
	)
}
