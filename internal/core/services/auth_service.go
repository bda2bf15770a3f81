package services

import (
	"context"
	"errors"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/repositories"
	"github.com/s-puig/ecommerce-demo/internal/config"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/jwt"
	"github.com/s-puig/ecommerce-demo/internal/pkg/logger"
	"github.com/s-puig/ecommerce-demo/internal/pkg/password"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	db               *gorm.DB
	userService      *UserService
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	db *gorm.DB,
	userService *UserService,
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		db:               db,
		userService:      userService,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new customer account and issues a token pair
func (s *AuthService) Register(ctx context.Context, input *CreateUserInput) (*AuthResponse, error) {
	input.Role = string(domain.RoleCustomer)

	user, err := s.userService.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(ctx, s.refreshTokenRepo, user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// Lookup ignores the active filter so that an inactive account can be
	// reported distinctly from a wrong password.
	user, err := s.userRepo.FindByEmail(ctx, input.Email, visibility.NewFlagSet(visibility.ExcludeDeleted))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, domain.ErrUserInactive
	}

	tokens, err := s.generateTokens(ctx, s.refreshTokenRepo, user)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Info().Uint("user_id", user.ID).Msg("user logged in")

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates a refresh token and issues a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, domain.ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID, visibility.DefaultFlags())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	// Token rotation: the presented token is single-use. Revoking it and
	// storing the replacement commit together, so a storage failure cannot
	// leave the user without any valid refresh token.
	var tokens *domain.TokenPair
	err = s.db.Transaction(func(tx *gorm.DB) error {
		tokenRepo := s.refreshTokenRepo.WithTx(tx)

		if err := tokenRepo.Revoke(ctx, storedToken.ID); err != nil {
			return err
		}

		pair, err := s.generateTokens(ctx, tokenRepo, user)
		if err != nil {
			return err
		}

		tokens = pair
		return nil
	})
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	log.Debug().Uint("user_id", user.ID).Msg("token refreshed")

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash)
}

// LogoutAll revokes all refresh tokens for a user
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	return s.refreshTokenRepo.RevokeAllByUserID(ctx, userID)
}

// generateTokens builds a token pair and stores the refresh token hash
// through the given repository, which may be transaction-bound
func (s *AuthService) generateTokens(ctx context.Context, tokenRepo repositories.RefreshTokenRepository, user *models.User) (*domain.TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(user.ID, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.NewString()
	refreshToken, err := jwt.GenerateRefreshToken(user.ID, tokenID, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	stored := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := tokenRepo.Create(ctx, stored); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
