package repositories

import (
	"context"

	"agritoken-exchange/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// rateRepository implements RateRepository interface
type rateRepository struct {
	db *gorm.DB
}

// NewRateRepository creates a new contributor rate repository
func NewRateRepository(db *gorm.DB) RateRepository {
	return &rateRepository{db: db}
}

// Upsert inserts or overwrites the single active rate row for a contributor.
// The conflict target is the unique contributor_username index.
func (r *rateRepository) Upsert(ctx context.Context, rate *models.ContributorRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "contributor_username"}},
			DoUpdates: clause.AssignmentColumns([]string{"preferred_rate", "updated_at"}),
		}).
		Create(rate).Error
}

// GetByUsername gets the active rate for a contributor
func (r *rateRepository) GetByUsername(ctx context.Context, username string) (*models.ContributorRate, error) {
	var rate models.ContributorRate
	err := r.db.WithContext(ctx).
		Where("contributor_username = ?", username).
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// ListContributors joins contributor users with their rates, ordered by
// username so repeated calls return identical sequences.
func (r *rateRepository) ListContributors(ctx context.Context) ([]*models.ContributorListing, error) {
	listings := make([]*models.ContributorListing, 0)
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.username AS contributor_username, contributor_profiles.interests, contributor_profiles.agreement, contributor_rates.preferred_rate").
		Joins("JOIN contributor_rates ON contributor_rates.contributor_username = users.username").
		Joins("LEFT JOIN contributor_profiles ON contributor_profiles.user_id = users.id").
		Where("users.role = ?", "CONTRIBUTOR").
		Order("users.username ASC").
		Scan(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
