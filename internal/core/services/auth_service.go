package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"agritoken-exchange/internal/adapters/persistence/models"
	"agritoken-exchange/internal/adapters/persistence/repositories"
	"agritoken-exchange/internal/config"
	"agritoken-exchange/internal/core/domain"
	"agritoken-exchange/internal/pkg/jwt"
	"agritoken-exchange/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidCredentials = domain.ErrInvalidCredentials
	ErrUsernameTaken      = domain.ErrDuplicateUsername
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAgreementRequired  = errors.New("terms and compliance agreement is required")
)

// AuthService handles registration and login business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// FarmerInput holds the farmer-only registration fields
type FarmerInput struct {
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	Address       string `json:"address"`
	LandProof     string `json:"land_proof"`
	BankDetails   string `json:"bank_details"`
	FarmingType   string `json:"farming_type"`
	CreditHistory string `json:"credit_history"`
}

// ContributorInput holds the contributor-only registration fields
type ContributorInput struct {
	Email           string  `json:"email"`
	VerificationDoc string  `json:"verification_doc"`
	Interests       string  `json:"interests"`
	Agreement       bool    `json:"agreement"`
	PreferredRate   float64 `json:"preferred_rate"`
}

// RegisterInput represents registration input. Exactly one of Farmer or
// Contributor is set, matching the declared role.
type RegisterInput struct {
	Role        string            `json:"role"`
	FullName    string            `json:"full_name"`
	Username    string            `json:"username"`
	Password    string            `json:"password"`
	Phone       string            `json:"phone"`
	Farmer      *FarmerInput      `json:"farmer,omitempty"`
	Contributor *ContributorInput `json:"contributor,omitempty"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new user with the role-specific profile. All
// validation happens before any write; a failed registration persists
// nothing.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	role := domain.Role(input.Role)
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be FARMER, CONTRIBUTOR or ADMIN", domain.ErrValidation)
	}

	if err := validateCommonFields(input); err != nil {
		return nil, err
	}
	if err := validateRoleFields(role, input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: input.Username,
		Password: hashedPassword,
		FullName: input.FullName,
		Phone:    input.Phone,
		Role:     string(role),
	}

	switch role {
	case domain.RoleFarmer:
		profile := &models.FarmerProfile{
			Age:           input.Farmer.Age,
			Gender:        input.Farmer.Gender,
			Address:       input.Farmer.Address,
			LandProof:     input.Farmer.LandProof,
			BankDetails:   input.Farmer.BankDetails,
			FarmingType:   input.Farmer.FarmingType,
			CreditHistory: input.Farmer.CreditHistory,
		}
		err = s.userRepo.CreateFarmer(ctx, user, profile)

	case domain.RoleContributor:
		profile := &models.ContributorProfile{
			Email:           input.Contributor.Email,
			VerificationDoc: input.Contributor.VerificationDoc,
			Interests:       input.Contributor.Interests,
			Agreement:       input.Contributor.Agreement,
		}
		rate := &models.ContributorRate{
			PreferredRate: input.Contributor.PreferredRate,
		}
		err = s.userRepo.CreateContributor(ctx, user, profile, rate)

	case domain.RoleAdmin:
		err = s.userRepo.CreateAdmin(ctx, user)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	log.Printf("✅ User registered: %s [%s]", user.Username, user.Role)
	return user.ToResponse(), nil
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrInvalidToken
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	// Token rotation: revoke the old one before issuing a new pair
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return err
	}

	log.Printf("✅ User logged out")
	return nil
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, userID); err != nil {
		return err
	}

	log.Printf("✅ All sessions revoked for user ID: %d", userID)
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// validateCommonFields checks the fields every role must supply
func validateCommonFields(input *RegisterInput) error {
	for field, value := range map[string]string{
		"full_name": input.FullName,
		"username":  input.Username,
		"phone":     input.Phone,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
		}
	}
	if !password.Validate(input.Password) {
		return ErrWeakPassword
	}
	return nil
}

// validateRoleFields checks the role-mandated payload
func validateRoleFields(role domain.Role, input *RegisterInput) error {
	switch role {
	case domain.RoleFarmer:
		f := input.Farmer
		if f == nil {
			return fmt.Errorf("%w: farmer profile is required", domain.ErrValidation)
		}
		if f.Age < 18 || f.Age > 100 {
			return fmt.Errorf("%w: age must be between 18 and 100", domain.ErrOutOfRange)
		}
		for field, value := range map[string]string{
			"gender":         f.Gender,
			"address":        f.Address,
			"land_proof":     f.LandProof,
			"bank_details":   f.BankDetails,
			"farming_type":   f.FarmingType,
			"credit_history": f.CreditHistory,
		} {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
			}
		}

	case domain.RoleContributor:
		c := input.Contributor
		if c == nil {
			return fmt.Errorf("%w: contributor profile is required", domain.ErrValidation)
		}
		if !c.Agreement {
			return ErrAgreementRequired
		}
		if c.PreferredRate < 0 || c.PreferredRate > 20 {
			return domain.ErrRateOutOfRange
		}
		for field, value := range map[string]string{
			"email":            c.Email,
			"verification_doc": c.VerificationDoc,
			"interests":        c.Interests,
		} {
			if strings.TrimSpace(value) == "" {
				return fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
			}
		}
	}
	return nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID uint, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	expiresAt := jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays)

	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
	}

	return s.refreshTokenRepo.Create(ctx, token)
}
