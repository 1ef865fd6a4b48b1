package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"curalink-backend/internal/model"
	"curalink-backend/internal/repository"

	"github.com/jackc/pgx/v5"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	profileRepo *repository.ProfileRepository
}

func NewProfileService(profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	p, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) GetConditions(ctx context.Context, userID string) ([]model.Condition, error) {
	return s.profileRepo.ListConditions(ctx, userID)
}

// CompleteOnboarding applies the one-time profile update (location, bio) and
// bulk-inserts the condition interest tags.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, userID string, req *model.OnboardingRequest) error {
	if err := s.profileRepo.Update(ctx, userID, strings.TrimSpace(req.Location), strings.TrimSpace(req.Bio)); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	var names []string
	for _, c := range req.Conditions {
		if c = strings.TrimSpace(c); c != "" {
			names = append(names, c)
		}
	}
	if err := s.profileRepo.InsertConditions(ctx, userID, names); err != nil {
		return fmt.Errorf("insert conditions: %w", err)
	}
	return nil
}
