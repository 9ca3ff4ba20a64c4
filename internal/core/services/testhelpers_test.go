package services

import (
	"context"
	"fmt"
	"testing"

	"agritoken-exchange/internal/adapters/persistence/models"
	"agritoken-exchange/internal/adapters/persistence/repositories"
	"agritoken-exchange/internal/config"
	"agritoken-exchange/internal/core/domain"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "secret-pass-123"

// setupTestDB opens a fresh in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive for the whole
	// test and serializes concurrent writers.
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

func newTestAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)
}

func newTestContributorService(db *gorm.DB) *ContributorService {
	return NewContributorService(
		repositories.NewUserRepository(db),
		repositories.NewRateRepository(db),
	)
}

func newTestLoanService(db *gorm.DB) *LoanService {
	return NewLoanService(
		repositories.NewLoanRepository(db),
		newTestContributorService(db),
	)
}

func farmerInput(username string) *RegisterInput {
	return &RegisterInput{
		Role:     string(domain.RoleFarmer),
		FullName: "Test Farmer",
		Username: username,
		Password: testPassword,
		Phone:    "5550001111",
		Farmer: &FarmerInput{
			Age:           35,
			Gender:        "male",
			Address:       "12 Paddy Lane",
			LandProof:     "deed-4812.pdf",
			BankDetails:   "AGRI-000112",
			FarmingType:   "rice",
			CreditHistory: "no defaults",
		},
	}
}

func contributorInput(username string, rate float64) *RegisterInput {
	return &RegisterInput{
		Role:     string(domain.RoleContributor),
		FullName: "Test Contributor",
		Username: username,
		Password: testPassword,
		Phone:    "5550002222",
		Contributor: &ContributorInput{
			Email:           fmt.Sprintf("%s@example.com", username),
			VerificationDoc: "kyc-77.pdf",
			Interests:       "rice, dairy",
			Agreement:       true,
			PreferredRate:   rate,
		},
	}
}

func adminInput(username string) *RegisterInput {
	return &RegisterInput{
		Role:     string(domain.RoleAdmin),
		FullName: "Test Admin",
		Username: username,
		Password: testPassword,
		Phone:    "5550003333",
	}
}

// mustRegister registers a user or fails the test.
func mustRegister(t *testing.T, auth *AuthService, input *RegisterInput) *models.UserResponse {
	t.Helper()
	user, err := auth.Register(context.Background(), input)
	if err != nil {
		t.Fatalf("register %s: %v", input.Username, err)
	}
	return user
}
