package repositories

import (
	"context"
	"time"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"gorm.io/gorm"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID gets a user by ID under the given visibility flags
func (r *userRepository) FindByID(ctx context.Context, id uint, flags visibility.FlagSet) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Scopes(visibility.Scope(flags)).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail gets a user by email under the given visibility flags
func (r *userRepository) FindByEmail(ctx context.Context, email string, flags visibility.FlagSet) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Scopes(visibility.Scope(flags)).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks if an email is taken, regardless of visibility
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Save persists the mutable fields of an already-loaded user under the
// version guard. A stale version yields ErrConcurrentModification.
func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]interface{}{
			"name":     user.Name,
			"email":    user.Email,
			"password": user.Password,
			"role":     user.Role,
			"active":   user.Active,
			"version":  user.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentModification
	}
	user.Version++
	return nil
}

// SoftDelete marks a user as deleted. Terminal, never cleared.
func (r *userRepository) SoftDelete(ctx context.Context, user *models.User) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND version = ?", user.ID, user.Version).
		Updates(map[string]interface{}{
			"deleted_at": &now,
			"version":    user.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentModification
	}
	user.DeletedAt = &now
	user.Version++
	return nil
}

// List lists users under the given visibility flags with pagination
func (r *userRepository) List(ctx context.Context, flags visibility.FlagSet, offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := r.db.WithContext(ctx).Model(&models.User{}).Scopes(visibility.Scope(flags))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("id").Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
