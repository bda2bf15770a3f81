package config

import (
	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/logger"
	"github.com/s-puig/ecommerce-demo/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	if err := s.seedAdministrator(); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Msg("administrator seeder skipped")
	}
	return nil
}

// seedAdministrator seeds a default administrator account.
// Development convenience only; production admins are created through a
// secure process.
func (s *Seeder) seedAdministrator() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleAdministrator)).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "admin",
		Email:    "admin@ecommerce-demo.local",
		Password: hashed,
		Role:     string(domain.RoleAdministrator),
		Active:   true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log := logger.Get()
	log.Info().Str("email", admin.Email).Msg("seeded default administrator")
	return nil
}
