package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/example/storefront/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPostgres connects to TEST_DATABASE_URL or skips.
func newTestPostgres(t *testing.T) *PostgresRepository {
	t.Helper()
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := ConnectPostgres(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewPostgresRepository(db, nil)
	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestPostgresRepository_Catalog(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, repo))

	p, err := repo.GetProduct(ctx, "prod1")
	require.NoError(t, err)
	assert.Equal(t, "Classic White Tee", p.Name)
	assert.Equal(t, "Tops", p.CategoryName)
	assert.Equal(t, []string{"S", "M", "L", "XL"}, p.AvailableSizes)
	assert.True(t, decimal.RequireFromString("29.99").Equal(p.Price))

	_, err = repo.GetProduct(ctx, "does-not-exist")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPostgresRepository_UsersAndOrders(t *testing.T) {
	repo := newTestPostgres(t)
	ctx := context.Background()
	id := uuid.New().String()
	email := id + "@example.com"

	require.NoError(t, repo.CreateUser(ctx, UserRecord{
		User:         model.User{ID: id, Name: "Ada", Email: email, Role: model.RoleViewer},
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}))
	err := repo.CreateUser(ctx, UserRecord{
		User:         model.User{ID: uuid.New().String(), Name: "Ada", Email: email, Role: model.RoleViewer},
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	})
	assert.True(t, errors.Is(err, ErrEmailTaken))

	order := model.Order{
		ID:           uuid.New().String(),
		CustomerID:   id,
		CustomerInfo: model.CustomerInfo{Name: "Ada", Email: email, ShippingAddress: "1 Loop Rd"},
		Items:        []model.OrderItem{{ProductID: "prod1", ProductName: "Classic White Tee", Quantity: 2, Price: decimal.RequireFromString("29.99")}},
		TotalAmount:  decimal.RequireFromString("59.98"),
		Status:       model.StatusPending,
		OrderDate:    time.Now().UTC(),
	}
	require.NoError(t, repo.CreateOrder(ctx, order))

	orders, err := repo.ListOrders(ctx, id)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "1 Loop Rd", orders[0].CustomerInfo.ShippingAddress)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.True(t, order.TotalAmount.Equal(orders[0].TotalAmount))
}
