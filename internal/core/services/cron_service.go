package services

import (
	"context"
	"log"

	"agritoken-exchange/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	scheduler        *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository) *CronService {
	return &CronService{
		refreshTokenRepo: refreshTokenRepo,
		scheduler:        cron.New(),
	}
}

// Start schedules the maintenance jobs
func (s *CronService) Start() {
	// Purge expired refresh tokens daily at 03:00
	s.scheduler.AddFunc("0 3 * * *", s.purgeExpiredTokens)
	s.scheduler.Start()
	log.Println("🚀 Cron service started (token cleanup daily at 03:00)")
}

// Stop stops the scheduler
func (s *CronService) Stop() {
	s.scheduler.Stop()
	log.Println("🛑 Cron service stopped")
}

func (s *CronService) purgeExpiredTokens() {
	deleted, err := s.refreshTokenRepo.DeleteExpired(context.Background())
	if err != nil {
		log.Printf("⚠️ Token cleanup failed: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("🧹 Removed %d expired refresh tokens", deleted)
	}
}
