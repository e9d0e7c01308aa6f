package service

import (
	"bizdiag_backend/internal/model"
	"bizdiag_backend/internal/repository"
	"bizdiag_backend/pkg/logger"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const activityWriteTimeout = 5 * time.Second

type ActivityService struct {
	Repo *repository.ActivityRepository
	wg   sync.WaitGroup
}

func NewActivityService(repo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{Repo: repo}
}

// Record writes the activity row in the background. Failures are only logged.
func (s *ActivityService) Record(userID uint, action string, payload map[string]interface{}) {
	entry := &model.ActivityLog{
		UserID:  userID,
		Action:  action,
		Payload: datatypes.JSONMap(payload),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Activity recording panicked", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), activityWriteTimeout)
		defer cancel()
		if err := s.Repo.Create(ctx, entry); err != nil {
			logger.Log.Warn("Failed to record activity",
				zap.Uint("user_id", userID),
				zap.String("action", action),
				zap.Error(err))
		}
	}()
}

// Wait blocks until pending writes finish. Called on shutdown.
func (s *ActivityService) Wait() {
	s.wg.Wait()
}

func (s *ActivityService) Recent(ctx context.Context, userID uint, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}
