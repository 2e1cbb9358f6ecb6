package store

import (
	"context"
	"testing"
	"time"

	"github.com/example/storefront/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Catalog Tests
// ============================================

func TestMemoryRepository_Seed(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, Seed(ctx, repo))
	require.NoError(t, Seed(ctx, repo))

	products, err := repo.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(DemoProducts()))
	assert.Equal(t, "prod1", products[0].ID)

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(DemoCategories()))

	faqs, err := repo.ListFAQs(ctx)
	require.NoError(t, err)
	assert.Len(t, faqs, len(DemoFAQs()))
}

func TestMemoryRepository_GetProduct(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.SaveProduct(ctx, model.Product{ID: "p1", Name: "Tee", Price: decimal.NewFromInt(10)}))

	p, err := repo.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Tee", p.Name)

	_, err = repo.GetProduct(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMemoryRepository_SaveReplacesInPlace(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.SaveCategory(ctx, model.Category{ID: "c1", Name: "Tops"}))
	require.NoError(t, repo.SaveCategory(ctx, model.Category{ID: "c2", Name: "Bottoms"}))
	require.NoError(t, repo.SaveCategory(ctx, model.Category{ID: "c1", Name: "Shirts"}))

	categories, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: "c1", Name: "Shirts"}, {ID: "c2", Name: "Bottoms"}}, categories)

	c, err := repo.GetCategory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Shirts", c.Name)

	_, err = repo.GetCategory(ctx, "c9")
	assert.True(t, errors.Is(err, ErrNotFound))
}

// ============================================
// User Tests
// ============================================

func TestMemoryRepository_Users(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	user := UserRecord{
		User:         model.User{ID: "u1", Name: "Ada", Email: "Ada@Example.com", Role: model.RoleViewer},
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}

	require.NoError(t, repo.CreateUser(ctx, user))

	dup := user
	dup.ID = "u2"
	dup.Email = "ada@example.com"
	assert.True(t, errors.Is(repo.CreateUser(ctx, dup), ErrEmailTaken))

	found, err := repo.GetUserByEmail(ctx, "ADA@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = repo.GetUserByEmail(ctx, "nobody@example.com")
	assert.True(t, errors.Is(err, ErrNotFound))

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, "u1", at))
	found, err = repo.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, found.LastLogin)
	assert.True(t, at.Equal(*found.LastLogin))

	assert.True(t, errors.Is(repo.UpdateLastLogin(ctx, "u9", at), ErrNotFound))
	_, err = repo.GetUser(ctx, "u9")
	assert.True(t, errors.Is(err, ErrNotFound))
}

// ============================================
// Order Tests
// ============================================

func TestMemoryRepository_Orders(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.CreateOrder(ctx, model.Order{ID: "o1", CustomerID: "u1", OrderDate: base}))
	require.NoError(t, repo.CreateOrder(ctx, model.Order{ID: "o2", CustomerID: "u2", OrderDate: base.Add(time.Hour)}))
	require.NoError(t, repo.CreateOrder(ctx, model.Order{ID: "o3", CustomerID: "u1", OrderDate: base.Add(2 * time.Hour)}))

	mine, err := repo.ListOrders(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"o3", "o1"}, orderIDs(mine))

	all, err := repo.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"o3", "o2", "o1"}, orderIDs(all))

	none, err := repo.ListOrders(ctx, "u9")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func orderIDs(orders []model.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return ids
}

func TestRepositoriesSatisfyInterface(t *testing.T) {
	var _ Repository = NewMemoryRepository()
	var _ Repository = (*PostgresRepository)(nil)
}
