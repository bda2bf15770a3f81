package services

import (
	"context"
	"errors"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/repositories"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/logger"
	"github.com/s-puig/ecommerce-demo/internal/pkg/password"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"gorm.io/gorm"
)

// UserService handles user management business logic. Users follow the same
// record lifecycle as products: filtered lookups, version-guarded writes
// and terminal soft deletion.
type UserService struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, userRepo repositories.UserRepository) *UserService {
	return &UserService{
		db:       db,
		userRepo: userRepo,
	}
}

// CreateUserInput represents user creation input
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"-"`
}

// UpdateUserInput represents partial user update input
type UpdateUserInput struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Active   *bool   `json:"active"`
	Role     *string `json:"role" validate:"omitempty,oneof=CUSTOMER ADMINISTRATOR"`
}

// FindByID retrieves a user by ID using the default visibility flags
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.FindByIDWith(ctx, id, visibility.DefaultFlags())
}

// FindByIDWith retrieves a user by ID under explicit visibility flags
func (s *UserService) FindByIDWith(ctx context.Context, id uint, flags visibility.FlagSet) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id, flags)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Create creates a new user with a hashed password
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = string(domain.RoleCustomer)
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
		Role:     role,
		Active:   true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Info().Uint("user_id", user.ID).Str("email", user.Email).Msg("user created")
	return user, nil
}

// UpdateByID updates a user using the default visibility flags
func (s *UserService) UpdateByID(ctx context.Context, id uint, input *UpdateUserInput) (*models.User, error) {
	return s.UpdateByIDWith(ctx, id, input, visibility.DefaultFlags())
}

// UpdateByIDWith applies a partial update to a user under explicit
// visibility flags, re-resolving first and persisting under the version
// guard.
func (s *UserService) UpdateByIDWith(ctx context.Context, id uint, input *UpdateUserInput, flags visibility.FlagSet) (*models.User, error) {
	var user *models.User

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.userRepo.WithTx(tx)

		u, err := repo.FindByID(ctx, id, flags)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		if input.Name != nil {
			u.Name = *input.Name
		}
		if input.Email != nil && *input.Email != u.Email {
			taken, err := repo.ExistsByEmail(ctx, *input.Email)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrUserAlreadyExists
			}
			u.Email = *input.Email
		}
		if input.Password != nil {
			hashed, err := password.Hash(*input.Password)
			if err != nil {
				return err
			}
			u.Password = hashed
		}
		if input.Active != nil {
			u.Active = *input.Active
		}
		if input.Role != nil {
			u.Role = *input.Role
		}

		if err := repo.Save(ctx, u); err != nil {
			return err
		}

		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteByID soft-deletes a user; a second delete resolves to ErrNotFound
func (s *UserService) DeleteByID(ctx context.Context, id uint) error {
	return s.DeleteByIDWith(ctx, id, visibility.DeleteFlags())
}

// DeleteByIDWith soft-deletes a user under explicit visibility flags
func (s *UserService) DeleteByIDWith(ctx context.Context, id uint, flags visibility.FlagSet) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.userRepo.WithTx(tx)

		u, err := repo.FindByID(ctx, id, flags)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		return repo.SoftDelete(ctx, u)
	})
	if err != nil {
		return err
	}

	log := logger.Get()
	log.Info().Uint("user_id", id).Msg("user soft-deleted")
	return nil
}

// List lists users under explicit visibility flags with pagination
func (s *UserService) List(ctx context.Context, flags visibility.FlagSet, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, flags, offset, limit)
}
