package repositories

import (
	"context"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"gorm.io/gorm"
)

// UserRepository defines user repository interface. Every lookup takes an
// explicit visibility flag set; Save and SoftDelete are version-guarded and
// return domain.ErrConcurrentModification on a stale version.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint, flags visibility.FlagSet) (*models.User, error)
	FindByEmail(ctx context.Context, email string, flags visibility.FlagSet) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, user *models.User) error
	List(ctx context.Context, flags visibility.FlagSet, offset, limit int) ([]*models.User, int64, error)
	WithTx(tx *gorm.DB) UserRepository
}

// ProductRepository defines product repository interface
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uint, flags visibility.FlagSet) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, product *models.Product) error
	List(ctx context.Context, flags visibility.FlagSet, offset, limit int) ([]*models.Product, int64, error)
	ListByOwner(ctx context.Context, ownerID uint, flags visibility.FlagSet) ([]*models.Product, error)
	WithTx(tx *gorm.DB) ProductRepository
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
	WithTx(tx *gorm.DB) RefreshTokenRepository
}
