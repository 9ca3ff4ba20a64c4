package services

import (
	"context"
	"errors"
	"testing"

	"agritoken-exchange/internal/adapters/persistence/models"
	"agritoken-exchange/internal/adapters/persistence/repositories"
	"agritoken-exchange/internal/core/domain"
)

// racingUserRepository reports every username as free, so the unique index
// is the only duplicate guard — the situation when two registrations race
// past the existence check.
type racingUserRepository struct {
	repositories.UserRepository
}

func (r *racingUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func TestRegisterAndLoginFarmer(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	ctx := context.Background()

	user := mustRegister(t, auth, farmerInput("ravi"))
	if user.Role != string(domain.RoleFarmer) {
		t.Errorf("expected role FARMER, got %s", user.Role)
	}

	resp, err := auth.Login(ctx, &LoginInput{Username: "ravi", Password: testPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if resp.User.Username != "ravi" {
		t.Errorf("expected username ravi, got %s", resp.User.Username)
	}

	// Registration persisted the role profile, not just the user row
	var profiles int64
	if err := db.Model(&models.FarmerProfile{}).Where("user_id = ?", user.ID).Count(&profiles).Error; err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if profiles != 1 {
		t.Errorf("expected 1 farmer profile, got %d", profiles)
	}
}

func TestRegisterContributorSeedsRate(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)

	mustRegister(t, auth, contributorInput("meera", 9.5))

	var rate models.ContributorRate
	if err := db.Where("contributor_username = ?", "meera").First(&rate).Error; err != nil {
		t.Fatalf("rate row not created: %v", err)
	}
	if rate.PreferredRate != 9.5 {
		t.Errorf("expected preferred rate 9.5, got %v", rate.PreferredRate)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	ctx := context.Background()

	mustRegister(t, auth, farmerInput("ravi"))

	if _, err := auth.Login(ctx, &LoginInput{Username: "ravi", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)

	if _, err := auth.Login(context.Background(), &LoginInput{Username: "ghost", Password: testPassword}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	ctx := context.Background()

	mustRegister(t, auth, farmerInput("ravi"))

	// Same username, different role: still rejected
	if _, err := auth.Register(ctx, contributorInput("ravi", 8)); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}

	var users int64
	if err := db.Model(&models.User{}).Where("username = ?", "ravi").Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Errorf("expected 1 user row after duplicate registration, got %d", users)
	}
}

func TestRegisterDuplicateRaceHitsUniqueIndex(t *testing.T) {
	db := setupTestDB(t)
	auth := NewAuthService(
		&racingUserRepository{repositories.NewUserRepository(db)},
		repositories.NewRefreshTokenRepository(db),
		testConfig(),
	)
	ctx := context.Background()

	mustRegister(t, auth, farmerInput("ravi"))

	// The existence check passed for both writers; the loser must still get
	// the duplicate error, translated from the unique-index violation.
	if _, err := auth.Register(ctx, farmerInput("ravi")); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken from the unique index, got %v", err)
	}

	var users int64
	if err := db.Model(&models.User{}).Where("username = ?", "ravi").Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 1 {
		t.Errorf("expected 1 user row after the race, got %d", users)
	}
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		input   *RegisterInput
		wantErr error
	}{
		{
			name:    "unknown role",
			input:   &RegisterInput{Role: "BANKER", FullName: "X", Username: "x", Password: testPassword, Phone: "1"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "weak password",
			input:   farmerInput("weak"),
			mutate:  func(in *RegisterInput) { in.Password = "short" },
			wantErr: ErrWeakPassword,
		},
		{
			name:    "missing full name",
			input:   farmerInput("noname"),
			mutate:  func(in *RegisterInput) { in.FullName = "  " },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "farmer under age",
			input:   farmerInput("young"),
			mutate:  func(in *RegisterInput) { in.Farmer.Age = 17 },
			wantErr: domain.ErrOutOfRange,
		},
		{
			name:    "farmer over age",
			input:   farmerInput("old"),
			mutate:  func(in *RegisterInput) { in.Farmer.Age = 101 },
			wantErr: domain.ErrOutOfRange,
		},
		{
			name:    "farmer profile missing",
			input:   farmerInput("noprofile"),
			mutate:  func(in *RegisterInput) { in.Farmer = nil },
			wantErr: domain.ErrValidation,
		},
		{
			name:    "contributor without agreement",
			input:   contributorInput("holdout", 8),
			mutate:  func(in *RegisterInput) { in.Contributor.Agreement = false },
			wantErr: ErrAgreementRequired,
		},
		{
			name:    "contributor rate too high",
			input:   contributorInput("greedy", 8),
			mutate:  func(in *RegisterInput) { in.Contributor.PreferredRate = 20.5 },
			wantErr: domain.ErrRateOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.mutate != nil {
				tt.mutate(tt.input)
			}
			if _, err := auth.Register(ctx, tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	// Nothing was persisted by the failed attempts
	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if users != 0 {
		t.Errorf("expected no users after failed registrations, got %d", users)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	ctx := context.Background()

	mustRegister(t, auth, farmerInput("ravi"))
	login, err := auth.Login(ctx, &LoginInput{Username: "ravi", Password: testPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := auth.RefreshToken(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Error("expected a new refresh token after rotation")
	}

	// The consumed token is revoked and cannot be replayed
	if _, err := auth.RefreshToken(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken on replay, got %v", err)
	}

	// The rotated token still works
	if _, err := auth.RefreshToken(ctx, refreshed.RefreshToken); err != nil {
		t.Errorf("rotated token should refresh, got %v", err)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	ctx := context.Background()

	mustRegister(t, auth, farmerInput("ravi"))
	login, err := auth.Login(ctx, &LoginInput{Username: "ravi", Password: testPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := auth.Logout(ctx, login.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.RefreshToken(ctx, login.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken after logout, got %v", err)
	}
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	ctx := context.Background()

	user := mustRegister(t, auth, farmerInput("ravi"))

	first, err := auth.Login(ctx, &LoginInput{Username: "ravi", Password: testPassword})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, err := auth.Login(ctx, &LoginInput{Username: "ravi", Password: testPassword})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	if err := auth.LogoutAll(ctx, user.ID); err != nil {
		t.Fatalf("logout all: %v", err)
	}

	for _, token := range []string{first.RefreshToken, second.RefreshToken} {
		if _, err := auth.RefreshToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken after logout-all, got %v", err)
		}
	}
}

func TestValidateAccessToken(t *testing.T) {
	db := setupTestDB(t)
	auth := newTestAuthService(db)
	ctx := context.Background()

	mustRegister(t, auth, adminInput("root"))
	login, err := auth.Login(ctx, &LoginInput{Username: "root", Password: testPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := auth.ValidateAccessToken(login.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Username != "root" || claims.Role != string(domain.RoleAdmin) {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := auth.ValidateAccessToken("not-a-token"); err == nil {
		t.Error("expected error for a malformed token")
	}
}
