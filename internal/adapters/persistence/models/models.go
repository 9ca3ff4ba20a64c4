package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table. Role-specific fields live in the
// profile tables, not here.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FullName  string    `gorm:"size:100;not null" json:"full_name"`
	Phone     string    `gorm:"size:20;not null" json:"phone"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	FarmerProfile      *FarmerProfile      `gorm:"foreignKey:UserID" json:"farmer_profile,omitempty"`
	ContributorProfile *ContributorProfile `gorm:"foreignKey:UserID" json:"contributor_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// FarmerProfile represents farmer_profiles table (1:1 with users, FARMER role)
type FarmerProfile struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Age           int    `gorm:"not null" json:"age"`
	Gender        string `gorm:"size:10;not null" json:"gender"`
	Address       string `gorm:"type:text;not null" json:"address"`
	LandProof     string `gorm:"size:255;not null" json:"land_proof"`
	BankDetails   string `gorm:"size:100;not null" json:"bank_details"`
	FarmingType   string `gorm:"size:100;not null" json:"farming_type"`
	CreditHistory string `gorm:"type:text;not null" json:"credit_history"`
}

func (FarmerProfile) TableName() string {
	return "farmer_profiles"
}

// ContributorProfile represents contributor_profiles table (1:1 with users, CONTRIBUTOR role)
type ContributorProfile struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	UserID          uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Email           string `gorm:"size:100;not null" json:"email"`
	VerificationDoc string `gorm:"size:255;not null" json:"verification_doc"`
	Interests       string `gorm:"type:text" json:"interests"`
	Agreement       bool   `gorm:"not null" json:"agreement"`
}

func (ContributorProfile) TableName() string {
	return "contributor_profiles"
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Contributor Rates
// ============================================================

// ContributorRate represents contributor_rates table. The unique index on
// contributor_username keeps at most one active rate per contributor.
type ContributorRate struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	ContributorUsername string    `gorm:"uniqueIndex;size:50;not null" json:"contributor_username"`
	PreferredRate       float64   `gorm:"type:decimal(5,2);not null" json:"preferred_rate"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ContributorRate) TableName() string {
	return "contributor_rates"
}

// ContributorListing is the join of a contributor user with their rate,
// as offered to applicants for selection.
type ContributorListing struct {
	ContributorUsername string  `json:"contributor_username"`
	Interests           string  `json:"interests"`
	Agreement           bool    `json:"agreement"`
	PreferredRate       float64 `json:"preferred_rate"`
}

// ============================================================
// Loan Ledger
// ============================================================

// Loan statuses
const (
	LoanStatusPending  = "Pending"
	LoanStatusApproved = "Approved"
	LoanStatusRejected = "Rejected"
)

// LoanApplication represents loan_history table
type LoanApplication struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	ApplicantUsername   string     `gorm:"size:50;not null;index" json:"applicant_username"`
	Purpose             string     `gorm:"type:text;not null" json:"purpose"`
	Amount              float64    `gorm:"type:decimal(15,2);not null" json:"amount"`
	TermMonths          int        `gorm:"not null" json:"term_months"`
	ContributorUsername string     `gorm:"size:50;not null" json:"contributor_username"`
	InterestRate        float64    `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	AnnualIncome        float64    `gorm:"type:decimal(15,2)" json:"annual_income"`
	ExistingLoans       float64    `gorm:"type:decimal(15,2)" json:"existing_loans"`
	Collateral          string     `gorm:"type:text" json:"collateral"`
	Status              string     `gorm:"size:20;not null;default:'Pending';index" json:"status"`
	DecidedBy           *string    `gorm:"size:50" json:"decided_by"`
	DecidedAt           *time.Time `json:"decided_at"`
	CreatedAt           time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (LoanApplication) TableName() string {
	return "loan_history"
}

// LoanResponse DTO
type LoanResponse struct {
	ID                  uint       `json:"id"`
	ApplicantUsername   string     `json:"applicant_username"`
	Purpose             string     `json:"purpose"`
	Amount              float64    `json:"amount"`
	TermMonths          int        `json:"term_months"`
	ContributorUsername string     `json:"contributor_username"`
	InterestRate        float64    `json:"interest_rate"`
	MonthlyInstallment  float64    `json:"monthly_installment,omitempty"`
	Status              string     `json:"status"`
	DecidedBy           *string    `json:"decided_by,omitempty"`
	DecidedAt           *time.Time `json:"decided_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (l *LoanApplication) ToResponse() *LoanResponse {
	return &LoanResponse{
		ID:                  l.ID,
		ApplicantUsername:   l.ApplicantUsername,
		Purpose:             l.Purpose,
		Amount:              l.Amount,
		TermMonths:          l.TermMonths,
		ContributorUsername: l.ContributorUsername,
		InterestRate:        l.InterestRate,
		Status:              l.Status,
		DecidedBy:           l.DecidedBy,
		DecidedAt:           l.DecidedAt,
		CreatedAt:           l.CreatedAt,
	}
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&FarmerProfile{},
		&ContributorProfile{},
		&RefreshToken{},
		&ContributorRate{},
		&LoanApplication{},
	)
}
