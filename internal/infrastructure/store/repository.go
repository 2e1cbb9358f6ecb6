package store

import (
	"context"
	"time"

	"github.com/example/storefront/internal/model"
	"github.com/pkg/errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// UserRecord is a stored account. The password hash never leaves the gateway.
type UserRecord struct {
	model.User
	PasswordHash string
	CreatedAt    time.Time
}

// Repository is the development gateway's data layer.
type Repository interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SaveProduct(ctx context.Context, p model.Product) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	SaveCategory(ctx context.Context, c model.Category) error

	ListFAQs(ctx context.Context) ([]model.FAQ, error)
	SaveFAQ(ctx context.Context, f model.FAQ) error

	CreateUser(ctx context.Context, u UserRecord) error
	GetUser(ctx context.Context, id string) (*UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	CreateOrder(ctx context.Context, o model.Order) error
	// ListOrders returns orders newest first. An empty customerID lists all.
	ListOrders(ctx context.Context, customerID string) ([]model.Order, error)
}
