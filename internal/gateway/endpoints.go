package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/storefront/internal/model"
	"github.com/pkg/errors"
)

// Paths as served by the backend. Single-resource product and category
// lookups live outside the /api prefix.
const (
	pathProducts   = "/api/products"
	pathProduct    = "/products/"
	pathCategories = "/api/categories"
	pathCategory   = "/categories/"
	pathFAQs       = "/api/faqs"
	pathOrders     = "/api/orders"
	pathSignUp     = "/api/auth/signup"
	pathSignIn     = "/api/auth/signin"
	pathMe         = "/api/auth/me"
)

// Products

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.call(ctx, http.MethodGet, pathProducts, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns nil without error when the gateway answers 204.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var product *model.Product
	if err := c.call(ctx, http.MethodGet, pathProduct+url.PathEscape(id), nil, &product); err != nil {
		return nil, err
	}
	return product, nil
}

// Categories

func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.call(ctx, http.MethodGet, pathCategories, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var category *model.Category
	if err := c.call(ctx, http.MethodGet, pathCategory+url.PathEscape(id), nil, &category); err != nil {
		return nil, err
	}
	return category, nil
}

// FAQs

func (c *Client) ListFAQs(ctx context.Context) ([]model.FAQ, error) {
	var faqs []model.FAQ
	if err := c.call(ctx, http.MethodGet, pathFAQs, nil, &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}

// Orders

func (c *Client) CreateOrder(ctx context.Context, payload model.OrderPayload) (*model.Order, error) {
	var order *model.Order
	if err := c.call(ctx, http.MethodPost, pathOrders, payload, &order); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &ProtocolError{URL: c.baseURL + pathOrders, Err: errors.New("no order returned")}
	}
	return order, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.call(ctx, http.MethodGet, pathOrders, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Auth

func (c *Client) SignUp(ctx context.Context, payload model.SignUpPayload) (*model.AuthResponse, error) {
	var resp *model.AuthResponse
	if err := c.call(ctx, http.MethodPost, pathSignUp, payload, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) SignIn(ctx context.Context, payload model.SignInPayload) (*model.AuthResponse, error) {
	var resp *model.AuthResponse
	if err := c.call(ctx, http.MethodPost, pathSignIn, payload, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Me fetches the profile of the account the stored token belongs to.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user *model.User
	if err := c.call(ctx, http.MethodGet, pathMe, nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *Client) call(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := c.Request(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return &ProtocolError{URL: c.baseURL + endpoint, Err: err}
	}
	return nil
}
