package repositories

import (
	"context"
	"time"

	"agritoken-exchange/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface. Registration writes the
// user row and its role profile in one transaction so a validation or
// constraint failure persists nothing.
type UserRepository interface {
	CreateFarmer(ctx context.Context, user *models.User, profile *models.FarmerProfile) error
	CreateContributor(ctx context.Context, user *models.User, profile *models.ContributorProfile, rate *models.ContributorRate) error
	CreateAdmin(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// RateRepository defines contributor rate repository interface
type RateRepository interface {
	Upsert(ctx context.Context, rate *models.ContributorRate) error
	GetByUsername(ctx context.Context, username string) (*models.ContributorRate, error)
	ListContributors(ctx context.Context) ([]*models.ContributorListing, error)
}

// LoanRepository defines loan ledger repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.LoanApplication) error
	GetByID(ctx context.Context, id uint) (*models.LoanApplication, error)
	ListPending(ctx context.Context) ([]*models.LoanApplication, error)
	ListByApplicant(ctx context.Context, username string) ([]*models.LoanApplication, error)
	DecideIfPending(ctx context.Context, id uint, status, decidedBy string, decidedAt time.Time) (int64, error)
}
