package services

import (
	"context"
	"errors"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/repositories"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/logger"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"gorm.io/gorm"
)

// ProductService owns the product lifecycle: filtered lookups, creation
// with owner resolution, partial updates and soft deletion. Every mutation
// re-resolves the record under the caller's visibility flags inside a
// transaction, then persists under the optimistic version guard.
type ProductService struct {
	db          *gorm.DB
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
}

// NewProductService creates a new product service
func NewProductService(
	db *gorm.DB,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
) *ProductService {
	return &ProductService{
		db:          db,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// CreateProductInput represents product creation input
type CreateProductInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	OwnerID     uint   `json:"owner_id" validate:"required,min=1"`
	Active      *bool  `json:"active"`
}

// UpdateProductInput represents partial product update input. Only fields
// explicitly present overwrite the stored record.
type UpdateProductInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// FindByID retrieves a product by ID using the default visibility flags
func (s *ProductService) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.FindByIDWith(ctx, id, visibility.DefaultFlags())
}

// FindByIDWith retrieves a product by ID under explicit visibility flags.
// A record that is absent or filtered out yields domain.ErrNotFound.
func (s *ProductService) FindByIDWith(ctx context.Context, id uint, flags visibility.FlagSet) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id, flags)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create creates a new product. The owning user must resolve under the
// default visibility flags, otherwise domain.ErrOwnerNotFound is returned.
func (s *ProductService) Create(ctx context.Context, input *CreateProductInput) (*models.Product, error) {
	var product *models.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		userRepo := s.userRepo.WithTx(tx)

		if _, err := userRepo.FindByID(ctx, input.OwnerID, visibility.DefaultFlags()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrOwnerNotFound
			}
			return err
		}

		active := true
		if input.Active != nil {
			active = *input.Active
		}

		product = &models.Product{
			OwnerID:     input.OwnerID,
			Name:        input.Name,
			Description: input.Description,
			Active:      active,
		}

		return s.productRepo.WithTx(tx).Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Info().Uint("product_id", product.ID).Uint("owner_id", product.OwnerID).Msg("product created")
	return product, nil
}

// UpdateByID updates a product using the default visibility flags
func (s *ProductService) UpdateByID(ctx context.Context, id uint, input *UpdateProductInput) (*models.Product, error) {
	return s.UpdateByIDWith(ctx, id, input, visibility.DefaultFlags())
}

// UpdateByIDWith applies a partial update to a product. The record is
// re-resolved under the same flags the caller read with, so an update can
// never touch a record that is invisible under the active filter. A persist
// that observes a stale version fails with ErrConcurrentModification; the
// caller retries with a fresh read.
func (s *ProductService) UpdateByIDWith(ctx context.Context, id uint, input *UpdateProductInput, flags visibility.FlagSet) (*models.Product, error) {
	var product *models.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		p, err := repo.FindByID(ctx, id, flags)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if input.Name != nil {
			p.Name = *input.Name
		}
		if input.Description != nil {
			p.Description = *input.Description
		}
		if input.Active != nil {
			p.Active = *input.Active
		}

		if err := repo.Save(ctx, p); err != nil {
			return err
		}

		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteByID soft-deletes a product. The default delete filter excludes
// records that are already deleted, so a second delete resolves to
// ErrNotFound.
func (s *ProductService) DeleteByID(ctx context.Context, id uint) error {
	return s.DeleteByIDWith(ctx, id, visibility.DeleteFlags())
}

// DeleteByIDWith soft-deletes a product under explicit visibility flags.
// The row is never physically removed.
func (s *ProductService) DeleteByIDWith(ctx context.Context, id uint, flags visibility.FlagSet) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		p, err := repo.FindByID(ctx, id, flags)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		return repo.SoftDelete(ctx, p)
	})
	if err != nil {
		return err
	}

	log := logger.Get()
	log.Info().Uint("product_id", id).Msg("product soft-deleted")
	return nil
}

// Save persists an already-loaded product under the version guard. Callers
// are expected to have resolved the record through a filtered lookup first.
func (s *ProductService) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// List lists products under explicit visibility flags with pagination
func (s *ProductService) List(ctx context.Context, flags visibility.FlagSet, offset, limit int) ([]*models.Product, int64, error) {
	return s.productRepo.List(ctx, flags, offset, limit)
}

// ListByOwner lists every product owned by a user under explicit visibility
// flags
func (s *ProductService) ListByOwner(ctx context.Context, ownerID uint, flags visibility.FlagSet) ([]*models.Product, error) {
	return s.productRepo.ListByOwner(ctx, ownerID, flags)
}
