package services

import (
	"context"
	"testing"
	"time"

	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/repositories"
	"github.com/s-puig/ecommerce-demo/internal/core/domain"
	"github.com/s-puig/ecommerce-demo/internal/pkg/visibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProductService(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewProductService(db, repositories.NewProductRepository(db), repositories.NewUserRepository(db)), db
}

func TestProductCreate(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	product, err := svc.Create(ctx, &CreateProductInput{
		Name:        "Widget",
		Description: "A widget",
		OwnerID:     owner.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, owner.ID, product.OwnerID)
	assert.True(t, product.Active)
	assert.Equal(t, 0, product.Version)
	assert.Nil(t, product.DeletedAt)
}

func TestProductCreateOwnerMissing(t *testing.T) {
	svc, _ := newProductService(t)

	_, err := svc.Create(context.Background(), &CreateProductInput{
		Name:    "Widget",
		OwnerID: 9999,
	})
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
}

func TestProductCreateOwnerFilteredOut(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()

	// Inactive owner does not resolve under the default flags
	inactive := seedUser(t, db, "inactive@example.com", false)
	_, err := svc.Create(ctx, &CreateProductInput{Name: "Widget", OwnerID: inactive.ID})
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)

	// Neither does a soft-deleted one
	gone := seedUser(t, db, "gone@example.com", true)
	now := time.Now()
	require.NoError(t, db.Model(gone).Update("deleted_at", &now).Error)
	_, err = svc.Create(ctx, &CreateProductInput{Name: "Widget", OwnerID: gone.ID})
	assert.ErrorIs(t, err, domain.ErrOwnerNotFound)
}

func TestProductFindByIDVisibility(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	product, err := svc.Create(ctx, &CreateProductInput{
		Name:    "Widget",
		OwnerID: owner.ID,
		Active:  ptr(false),
	})
	require.NoError(t, err)

	// Hidden under the default flags
	_, err = svc.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Visible when the active filter is dropped
	found, err := svc.FindByIDWith(ctx, product.ID, visibility.NewFlagSet(visibility.ExcludeDeleted))
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	// And under the empty set
	found, err = svc.FindByIDWith(ctx, product.ID, visibility.NewFlagSet())
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)
}

func TestProductUpdatePartial(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	product, err := svc.Create(ctx, &CreateProductInput{
		Name:        "Widget",
		Description: "Original",
		OwnerID:     owner.ID,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateByID(ctx, product.ID, &UpdateProductInput{
		Name: ptr("Gadget"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gadget", updated.Name)
	assert.Equal(t, "Original", updated.Description)
	assert.Equal(t, 1, updated.Version)

	// An explicit empty description does overwrite
	updated, err = svc.UpdateByID(ctx, product.ID, &UpdateProductInput{
		Description: ptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gadget", updated.Name)
	assert.Equal(t, "", updated.Description)
	assert.Equal(t, 2, updated.Version)
}

func TestProductUpdateHiddenRecord(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	product, err := svc.Create(ctx, &CreateProductInput{
		Name:    "Widget",
		OwnerID: owner.ID,
		Active:  ptr(false),
	})
	require.NoError(t, err)

	// Invisible under the default flags, so the update cannot resolve it
	_, err = svc.UpdateByID(ctx, product.ID, &UpdateProductInput{Name: ptr("Gadget")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The same update under a wider filter succeeds
	updated, err := svc.UpdateByIDWith(ctx, product.ID, &UpdateProductInput{Name: ptr("Gadget")}, visibility.NewFlagSet())
	require.NoError(t, err)
	assert.Equal(t, "Gadget", updated.Name)
}

func TestProductDelete(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	product, err := svc.Create(ctx, &CreateProductInput{Name: "Widget", OwnerID: owner.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByID(ctx, product.ID))

	// Gone from default lookups
	_, err = svc.FindByID(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The row itself survives with deleted_at set
	var raw models.Product
	require.NoError(t, db.First(&raw, product.ID).Error)
	assert.NotNil(t, raw.DeletedAt)

	// A second delete resolves nothing
	err = svc.DeleteByID(ctx, product.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductDeleteInactive(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	// Inactive records may still be deleted
	product, err := svc.Create(ctx, &CreateProductInput{
		Name:    "Widget",
		OwnerID: owner.ID,
		Active:  ptr(false),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByID(ctx, product.ID))
}

func TestProductSaveStaleVersion(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	product, err := svc.Create(ctx, &CreateProductInput{Name: "Widget", OwnerID: owner.ID})
	require.NoError(t, err)

	// Two copies loaded at the same version
	first, err := svc.FindByID(ctx, product.ID)
	require.NoError(t, err)
	second, err := svc.FindByID(ctx, product.ID)
	require.NoError(t, err)

	first.Name = "First"
	_, err = svc.Save(ctx, first)
	require.NoError(t, err)

	// The second copy observed a version that no longer exists
	second.Name = "Second"
	_, err = svc.Save(ctx, second)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	// Retry after a fresh read succeeds
	fresh, err := svc.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", fresh.Name)

	fresh.Name = "Second"
	_, err = svc.Save(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Version)
}

func TestProductDeleteStaleVersion(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	product, err := svc.Create(ctx, &CreateProductInput{Name: "Widget", OwnerID: owner.ID})
	require.NoError(t, err)

	// Bump the version behind the caller's back
	_, err = svc.UpdateByID(ctx, product.ID, &UpdateProductInput{Name: ptr("Gadget")})
	require.NoError(t, err)

	// Deleting through the service re-resolves, so it still succeeds
	require.NoError(t, svc.DeleteByID(ctx, product.ID))
}

func TestProductList(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", true)

	for _, in := range []*CreateProductInput{
		{Name: "Visible", OwnerID: owner.ID},
		{Name: "Inactive", OwnerID: owner.ID, Active: ptr(false)},
		{Name: "Doomed", OwnerID: owner.ID},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	var doomed models.Product
	require.NoError(t, db.Where("name = ?", "Doomed").First(&doomed).Error)
	require.NoError(t, svc.DeleteByID(ctx, doomed.ID))

	items, total, err := svc.List(ctx, visibility.DefaultFlags(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Visible", items[0].Name)

	// The empty set lists everything, deleted rows included
	items, total, err = svc.List(ctx, visibility.NewFlagSet(), 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 3)
}

func TestProductListByOwner(t *testing.T) {
	svc, db := newProductService(t)
	ctx := context.Background()
	alice := seedUser(t, db, "alice@example.com", true)
	bob := seedUser(t, db, "bob@example.com", true)

	for _, in := range []*CreateProductInput{
		{Name: "Alice A", OwnerID: alice.ID},
		{Name: "Alice B", OwnerID: alice.ID, Active: ptr(false)},
		{Name: "Bob A", OwnerID: bob.ID},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	products, err := svc.ListByOwner(ctx, alice.ID, visibility.DefaultFlags())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Alice A", products[0].Name)

	products, err = svc.ListByOwner(ctx, alice.ID, visibility.NewFlagSet())
	require.NoError(t, err)
	assert.Len(t, products, 2)

	products, err = svc.ListByOwner(ctx, bob.ID, visibility.DefaultFlags())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Bob A", products[0].Name)
}
