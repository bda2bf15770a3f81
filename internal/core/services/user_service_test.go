package services

import (
	"context"
	"testing"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/repositories"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/password"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewUserService(db, repositories.NewUserRepository(db)), db
}

func TestUserCreate(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, string(domain.RoleCustomer), user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "password123", user.Password)
	assert.True(t, password.Verify("password123", user.Password))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreateUserInput{Name: "Alice Again", Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
}

func TestUserUpdatePartial(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	updated, err := svc.UpdateByID(ctx, user.ID, &UpdateUserInput{Name: ptr("Alicia")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.Name)
	assert.Equal(t, "alice@example.com", updated.Email)
	assert.Equal(t, 1, updated.Version)
}

func TestUserUpdateEmailTaken(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	bob, err := svc.Create(ctx, &CreateUserInput{Name: "Bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.UpdateByID(ctx, bob.ID, &UpdateUserInput{Email: ptr("alice@example.com")})
	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)

	// Re-submitting the current email is not a conflict
	updated, err := svc.UpdateByID(ctx, bob.ID, &UpdateUserInput{Email: ptr("bob@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", updated.Email)
}

func TestUserDeactivateThenUpdate(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.UpdateByID(ctx, user.ID, &UpdateUserInput{Active: ptr(false)})
	require.NoError(t, err)

	// Now hidden from the default flags
	_, err = svc.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.UpdateByID(ctx, user.ID, &UpdateUserInput{Name: ptr("Alicia")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Reactivation needs a filter that can still see the record
	updated, err := svc.UpdateByIDWith(ctx, user.ID, &UpdateUserInput{Active: ptr(true)}, visibility.DeleteFlags())
	require.NoError(t, err)
	assert.True(t, updated.Active)

	_, err = svc.FindByID(ctx, user.ID)
	require.NoError(t, err)
}

func TestUserDelete(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, &CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByID(ctx, user.ID))

	_, err = svc.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.DeleteByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deletion is terminal: even a widened update cannot resurrect the row
	// because deleted_at has no writer that clears it
	_, err = svc.UpdateByIDWith(ctx, user.ID, &UpdateUserInput{Active: ptr(true)}, visibility.NewFlagSet())
	require.NoError(t, err)
	_, err = svc.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserList(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, &CreateUserInput{Name: "Alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &CreateUserInput{Name: "Bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByID(ctx, alice.ID))

	users, total, err := svc.List(ctx, visibility.DefaultFlags(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "Bob", users[0].Name)
}
