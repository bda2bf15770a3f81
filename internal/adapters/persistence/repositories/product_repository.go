package repositories

import (
	"context"
	"time"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"gorm.io/gorm"
)

// productRepository implements ProductRepository interface
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

// Create creates a new product
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID gets a product by ID under the given visibility flags
func (r *productRepository) FindByID(ctx context.Context, id uint, flags visibility.FlagSet) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Scopes(visibility.Scope(flags)).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Save persists the mutable fields of an already-loaded product. The write
// is guarded by the version the record was read at; if another writer got
// there first no row matches and ErrConcurrentModification is returned.
func (r *productRepository) Save(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"active":      product.Active,
			"version":     product.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentModification
	}
	product.Version++
	return nil
}

// SoftDelete marks a product as deleted. This is the only writer of
// deleted_at; the transition is terminal. Same version guard as Save.
func (r *productRepository) SoftDelete(ctx context.Context, product *models.Product) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]interface{}{
			"deleted_at": &now,
			"version":    product.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrentModification
	}
	product.DeletedAt = &now
	product.Version++
	return nil
}

// List lists products under the given visibility flags with pagination
func (r *productRepository) List(ctx context.Context, flags visibility.FlagSet, offset, limit int) ([]*models.Product, int64, error) {
	var products []*models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(visibility.Scope(flags))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Offset(offset).Limit(limit).Order("id").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListByOwner lists all products owned by a user under the given flags
func (r *productRepository) ListByOwner(ctx context.Context, ownerID uint, flags visibility.FlagSet) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Scopes(visibility.Scope(flags)).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
