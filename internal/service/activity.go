package service

import (
	"context"
	"log"

	"curalink-backend/internal/model"
	"curalink-backend/internal/repository"
)

// ActivityService records notable user actions for the admin feed. Recording
// is best-effort; a storage error never fails the action that produced it.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

func (s *ActivityService) Record(ctx context.Context, userID, eventType, detail string) {
	if err := s.activityRepo.Insert(ctx, userID, eventType, detail); err != nil {
		log.Printf("[Activity] record %s failed: %v", eventType, err)
	}
}

func (s *ActivityService) Recent(ctx context.Context, eventType string, limit int) ([]model.ActivityEvent, error) {
	return s.activityRepo.ListByType(ctx, eventType, limit)
}

func (s *ActivityService) Count(ctx context.Context, eventType string) (int, error) {
	return s.activityRepo.CountByType(ctx, eventType)
}
