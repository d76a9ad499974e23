package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaladDann/SIGECOB/internal/domain"
	"github.com/SaladDann/SIGECOB/internal/models"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/internal/testdb"
)

func ptr[T any](v T) *T { return &v }

func TestCatalog_CreatePatchDiscontinue(t *testing.T) {
	db := testdb.Open(t)
	sink := &recordingSink{}
	events := &recordingPublisher{}
	svc := &CatalogService{Repo: repo.New(db), Effects: &Effects{Audit: sink, Events: events}}
	ctx := context.Background()

	p, err := svc.Create(ctx, admin, CreateProductInput{
		Name:     " Lamp ",
		Price:    decimal.RequireFromString("12.30"),
		Stock:    0,
		Category: "home",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, domain.ProductOutOfStock, p.Status)

	p, err = svc.Patch(ctx, admin, p.ID, PatchProductInput{Stock: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, domain.ProductAvailable, p.Status)

	_, err = svc.Patch(ctx, admin, p.ID, PatchProductInput{Price: ptr(decimal.NewFromInt(-1))})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Patch(ctx, admin, p.ID, PatchProductInput{Status: ptr("Sold")})
	require.ErrorIs(t, err, domain.ErrValidation)

	p, err = svc.Discontinue(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductDiscontinued, p.Status)

	p, err = svc.Patch(ctx, admin, p.ID, PatchProductInput{Stock: ptr(3)})
	require.NoError(t, err)
	assert.Equal(t, domain.ProductDiscontinued, p.Status)

	_, err = svc.Discontinue(ctx, admin, 999)
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, []string{"PRODUCT_CREATED", "PRODUCT_UPDATED", "PRODUCT_DISCONTINUED", "PRODUCT_UPDATED"}, sink.Actions())
	require.Len(t, events.events, 4)
	assert.Equal(t, "product_discontinued", events.events[2]["type"])
}

func TestCatalog_PatchKeepsUnitsSoldDuringEdit(t *testing.T) {
	db := testdb.Open(t)
	svc := &CatalogService{Repo: repo.New(db)}
	ctx := context.Background()

	u := testdb.SeedUser(t, db, "buyer@example.com", domain.RoleUser)
	p := testdb.SeedProduct(t, db, "Kettle", "20.00", 5)
	testdb.PutInCart(t, db, u.ID, p, 3)

	// a checkout commits right after the edit has read the product
	var sold *CheckoutResult
	svc.afterProductLock = func(ctx context.Context, tx *repo.GormRepo) {
		res, err := (&OrderService{Repo: tx}).Checkout(ctx, checkoutInput(u.ID))
		require.NoError(t, err)
		sold = res
	}

	got, err := svc.Patch(ctx, admin, p.ID, PatchProductInput{Price: ptr(decimal.RequireFromString("25.00"))})
	require.NoError(t, err)
	require.NotNil(t, sold)
	assert.Equal(t, 3, sold.Order.Items[0].Quantity)

	assert.Equal(t, 2, got.Stock)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, domain.ProductAvailable, got.Status)

	var stored models.Product
	require.NoError(t, db.First(&stored, p.ID).Error)
	assert.Equal(t, 2, stored.Stock)
	assert.EqualValues(t, 1, testdb.Count(t, db, &models.Order{}))
}

func TestCatalog_PatchWritesOnlyProvidedFields(t *testing.T) {
	db := testdb.Open(t)
	svc := &CatalogService{Repo: repo.New(db)}
	ctx := context.Background()

	p := testdb.SeedProduct(t, db, "Mug", "4.00", 4)
	svc.afterProductLock = func(ctx context.Context, tx *repo.GormRepo) {
		require.NoError(t, tx.UpdateProductFields(ctx, p.ID, map[string]any{"description": "set elsewhere"}))
	}

	got, err := svc.Patch(ctx, admin, p.ID, PatchProductInput{Category: ptr(" kitchen ")})
	require.NoError(t, err)
	assert.Equal(t, "kitchen", got.Category)
	assert.Equal(t, "set elsewhere", got.Description)
	assert.Equal(t, 4, got.Stock)

	_, err = svc.Patch(ctx, admin, 999, PatchProductInput{Category: ptr("x")})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_CreateRejections(t *testing.T) {
	db := testdb.Open(t)
	svc := &CatalogService{Repo: repo.New(db)}
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, CreateProductInput{Price: decimal.NewFromInt(1)})
	require.ErrorIs(t, err, domain.ErrMissingField)

	_, err = svc.Create(ctx, admin, CreateProductInput{Name: "Neg", Price: decimal.NewFromInt(1), Stock: -1})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Create(ctx, admin, CreateProductInput{Name: "Dup", Price: decimal.NewFromInt(1), Stock: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, CreateProductInput{Name: "Dup", Price: decimal.NewFromInt(2), Stock: 1})
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestCatalog_ListAndGet(t *testing.T) {
	db := testdb.Open(t)
	svc := &CatalogService{Repo: repo.New(db)}
	ctx := context.Background()

	for _, name := range []string{"Red Chair", "Blue Chair", "Table"} {
		testdb.SeedProduct(t, db, name, "10.00", 1)
	}

	total, items, err := svc.List(ctx, repo.ProductFilter{Name: "chair"}, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Red Chair", items[0].Name)

	got, err := svc.Get(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Red Chair", got.Name)

	_, err = svc.Get(ctx, 404)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
