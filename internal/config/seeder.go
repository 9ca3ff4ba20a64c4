package config

import (
	"context"
	"log"

	"agritoken-exchange/internal/adapters/persistence/models"
	"agritoken-exchange/internal/adapters/persistence/repositories"
	"agritoken-exchange/internal/core/domain"
	"agritoken-exchange/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	userRepo repositories.UserRepository
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{userRepo: repositories.NewUserRepository(db)}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds a default admin user for development.
// In production, create admins through a secure process.
func (s *Seeder) seedAdminUser() error {
	ctx := context.Background()

	count, err := s.userRepo.CountByRole(ctx, string(domain.RoleAdmin))
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Password: hashedPassword,
		FullName: "Platform Administrator",
		Phone:    "0000000000",
		Role:     string(domain.RoleAdmin),
	}

	if err := s.userRepo.CreateAdmin(ctx, admin); err != nil {
		return err
	}

	log.Println("🌱 Seeded default admin user (username: admin)")
	return nil
}
