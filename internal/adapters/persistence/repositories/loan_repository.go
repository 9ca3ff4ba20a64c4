package repositories

import (
	"context"
	"time"

	"agritoken-exchange/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanRepository implements LoanRepository interface
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan ledger repository
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

// Create appends a new loan application to the ledger
func (r *loanRepository) Create(ctx context.Context, loan *models.LoanApplication) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan application by ID
func (r *loanRepository) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	var loan models.LoanApplication
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListPending lists all pending applications ordered by id ascending
func (r *loanRepository) ListPending(ctx context.Context) ([]*models.LoanApplication, error) {
	loans := make([]*models.LoanApplication, 0)
	err := r.db.WithContext(ctx).
		Where("status = ?", models.LoanStatusPending).
		Order("id ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// ListByApplicant lists all applications submitted by a user, newest first
func (r *loanRepository) ListByApplicant(ctx context.Context, username string) ([]*models.LoanApplication, error) {
	loans := make([]*models.LoanApplication, 0)
	err := r.db.WithContext(ctx).
		Where("applicant_username = ?", username).
		Order("created_at DESC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

// DecideIfPending atomically sets the terminal status of a pending
// application. The conditional WHERE makes concurrent adjudications of the
// same loan resolve to exactly one winner; losers see zero rows affected.
func (r *loanRepository) DecideIfPending(ctx context.Context, id uint, status, decidedBy string, decidedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.LoanApplication{}).
		Where("id = ? AND status = ?", id, models.LoanStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": decidedAt,
		})
	return res.RowsAffected, res.Error
}
