package services

import (
	"context"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/repositories"
	"github.com/s-puig/ecommerce-demo/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	cron             *cron.Cron
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewCronService creates a new cron service
func NewCronService(db *gorm.DB) *CronService {
	return &CronService{
		cron:             cron.New(),
		refreshTokenRepo: repositories.NewRefreshTokenRepository(db),
	}
}

// Start registers and launches all scheduled jobs
func (s *CronService) Start() {
	// Purge expired/revoked refresh tokens nightly at 03:00
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeRefreshTokens); err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("failed to register refresh token purge job")
	}

	s.cron.Start()
	log := logger.Get()
	log.Info().Msg("cron service started")
}

// Stop halts the scheduler; running jobs finish first
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log := logger.Get()
	log.Info().Msg("cron service stopped")
}

func (s *CronService) purgeRefreshTokens() {
	removed, err := s.refreshTokenRepo.DeleteExpired(context.Background())
	if err != nil {
		log := logger.Get()
		log.Error().Err(err).Msg("refresh token purge failed")
		return
	}
	if removed > 0 {
		log := logger.Get()
		log.Info().Int64("removed", removed).Msg("purged expired refresh tokens")
	}
}
