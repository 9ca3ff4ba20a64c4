package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"agritoken-exchange/internal/adapters/persistence/models"
	"agritoken-exchange/internal/adapters/persistence/repositories"
	"agritoken-exchange/internal/core/domain"
	"agritoken-exchange/internal/pkg/emi"

	"gorm.io/gorm"
)

// Loan service errors
var (
	ErrInvalidDecision = errors.New("decision must be Approved or Rejected")
)

// LoanService handles the loan ledger and the adjudication workflow
type LoanService struct {
	loanRepo           repositories.LoanRepository
	contributorService *ContributorService
}

// NewLoanService creates a new loan service
func NewLoanService(
	loanRepo repositories.LoanRepository,
	contributorService *ContributorService,
) *LoanService {
	return &LoanService{
		loanRepo:           loanRepo,
		contributorService: contributorService,
	}
}

// SubmitInput represents a loan application submission
type SubmitInput struct {
	Purpose             string  `json:"purpose"`
	Amount              float64 `json:"amount"`
	RepaymentPeriod     string  `json:"repayment_period"`
	ContributorUsername string  `json:"contributor_username"`
	AnnualIncome        float64 `json:"annual_income"`
	ExistingLoans       float64 `json:"existing_loans"`
	Collateral          string  `json:"collateral"`
}

// Submit validates and appends a Pending application to the ledger. The
// chosen contributor's current rate is locked onto the application for
// downstream EMI display.
func (s *LoanService) Submit(ctx context.Context, applicantUsername string, input *SubmitInput) (*models.LoanApplication, error) {
	if strings.TrimSpace(input.Purpose) == "" {
		return nil, fmt.Errorf("%w: purpose is required", domain.ErrValidation)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than 0", domain.ErrValidation)
	}

	termMonths, err := emi.TermMonths(input.RepaymentPeriod)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	rate, err := s.contributorService.SelectContributor(ctx, input.ContributorUsername)
	if err != nil {
		return nil, err
	}

	loan := &models.LoanApplication{
		ApplicantUsername:   applicantUsername,
		Purpose:             input.Purpose,
		Amount:              input.Amount,
		TermMonths:          termMonths,
		ContributorUsername: input.ContributorUsername,
		InterestRate:        rate.PreferredRate,
		AnnualIncome:        input.AnnualIncome,
		ExistingLoans:       input.ExistingLoans,
		Collateral:          input.Collateral,
		Status:              models.LoanStatusPending,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	log.Printf("✅ Loan application #%d submitted by %s (%.2f over %d months at %.2f%%)",
		loan.ID, applicantUsername, loan.Amount, loan.TermMonths, loan.InterestRate)

	return loan, nil
}

// EstimateInput represents an EMI estimator request
type EstimateInput struct {
	Amount          float64 `json:"amount"`
	AnnualRate      float64 `json:"annual_rate"`
	RepaymentPeriod string  `json:"repayment_period"`
}

// Estimate computes the monthly installment for the estimator widget
func (s *LoanService) Estimate(input *EstimateInput) (float64, error) {
	termMonths, err := emi.TermMonths(input.RepaymentPeriod)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrOutOfRange, err)
	}
	installment, err := emi.Compute(input.Amount, input.AnnualRate, termMonths)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", domain.ErrOutOfRange, err)
	}
	return installment, nil
}

// GetByID gets a loan application by ID
func (s *LoanService) GetByID(ctx context.Context, id uint) (*models.LoanApplication, error) {
	loan, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// ListPending lists pending applications for admin review, id ascending
func (s *LoanService) ListPending(ctx context.Context) ([]*models.LoanApplication, error) {
	return s.loanRepo.ListPending(ctx)
}

// ListMine lists a farmer's own applications
func (s *LoanService) ListMine(ctx context.Context, applicantUsername string) ([]*models.LoanApplication, error) {
	return s.loanRepo.ListByApplicant(ctx, applicantUsername)
}

// Adjudicate transitions a Pending application to Approved or Rejected.
// Only admins may adjudicate; the transition is a conditional update so a
// concurrent second decision sees the loan already decided.
func (s *LoanService) Adjudicate(ctx context.Context, loanID uint, decision domain.LoanStatus, actorUsername, actorRole string) (*models.LoanApplication, error) {
	if actorRole != string(domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}

	// The only legal transitions end in a terminal state
	if !decision.Terminal() {
		return nil, ErrInvalidDecision
	}

	rows, err := s.loanRepo.DecideIfPending(ctx, loanID, string(decision), actorUsername, time.Now())
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		// Either the loan does not exist or it is already terminal.
		if _, err := s.loanRepo.GetByID(ctx, loanID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrLoanNotFound
			}
			return nil, err
		}
		return nil, domain.ErrInvalidTransition
	}

	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Loan #%d %s by %s", loanID, decision, actorUsername)
	return loan, nil
}
