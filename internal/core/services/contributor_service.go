package services

import (
	"context"
	"errors"
	"log"

	"agritoken-exchange/internal/adapters/persistence/models"
	"agritoken-exchange/internal/adapters/persistence/repositories"
	"agritoken-exchange/internal/core/domain"

	"gorm.io/gorm"
)

// ContributorService exposes the contributor rate registry and the
// matcher applicants browse before applying.
type ContributorService struct {
	userRepo repositories.UserRepository
	rateRepo repositories.RateRepository
}

// NewContributorService creates a new contributor service
func NewContributorService(
	userRepo repositories.UserRepository,
	rateRepo repositories.RateRepository,
) *ContributorService {
	return &ContributorService{
		userRepo: userRepo,
		rateRepo: rateRepo,
	}
}

// SetRate overwrites (or inserts) the single active rate row for a
// contributor. Rate must be in [0, 20].
func (s *ContributorService) SetRate(ctx context.Context, contributorUsername string, rate float64) error {
	if rate < 0 || rate > 20 {
		return domain.ErrRateOutOfRange
	}

	user, err := s.userRepo.GetByUsername(ctx, contributorUsername)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrContributorNotFound
		}
		return err
	}
	if user.Role != string(domain.RoleContributor) {
		return domain.ErrContributorNotFound
	}

	if err := s.rateRepo.Upsert(ctx, &models.ContributorRate{
		ContributorUsername: contributorUsername,
		PreferredRate:       rate,
	}); err != nil {
		return err
	}

	log.Printf("✅ Rate updated for contributor %s: %.2f%%", contributorUsername, rate)
	return nil
}

// ListContributors returns all contributors with an active rate, ordered by
// username. An empty platform yields an empty slice, not an error.
func (s *ContributorService) ListContributors(ctx context.Context) ([]*models.ContributorListing, error) {
	return s.rateRepo.ListContributors(ctx)
}

// SelectContributor resolves a contributor choice to their offered rate
func (s *ContributorService) SelectContributor(ctx context.Context, username string) (*domain.ContributorRate, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContributorNotFound
		}
		return nil, err
	}
	if user.Role != string(domain.RoleContributor) {
		return nil, domain.ErrContributorNotFound
	}

	rate, err := s.rateRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrContributorNotFound
		}
		return nil, err
	}
	return &domain.ContributorRate{
		ContributorUsername: rate.ContributorUsername,
		PreferredRate:       rate.PreferredRate,
	}, nil
}
