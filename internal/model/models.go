// Package model holds the JSON types exchanged with the gateway.
//
// Importing model sets decimal.MarshalJSONWithoutQuotes for the whole
// process, so every decimal.Decimal, in any package, encodes as a bare JSON
// number ("price":19.99) rather than a string. The gateway sends and expects
// numbers; both binaries and all their tests import model, so the encoding is
// the same everywhere.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry as returned by the gateway. Clients treat it as
// immutable; cart lines keep a snapshot of it.
type Product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	CategoryID     string          `json:"categoryId"`
	CategoryName   string          `json:"categoryName,omitempty"`
	AvailableSizes []string        `json:"availableSizes"`
	Stock          int             `json:"stock"`
	SKU            string          `json:"sku,omitempty"`
}

// HasSize reports whether size is one of the product's available sizes.
func (p Product) HasSize(size string) bool {
	for _, s := range p.AvailableSizes {
		if s == size {
			return true
		}
	}
	return false
}

// Category groups products
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// FAQ is a frequently asked question entry
type FAQ struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
	IsActive bool   `json:"isActive"`
	Order    int    `json:"order"`
}

// User is the client's cached copy of the signed-in account.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	AvatarURL *string    `json:"avatarUrl,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// CustomerInfo is the customer snapshot carried by an order.
type CustomerInfo struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone,omitempty"`
	ShippingAddress string `json:"shippingAddress"`
	BillingAddress  string `json:"billingAddress,omitempty"`
}

// OrderItem is one ordered (product, size) line with its price at order time.
type OrderItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	SelectedSize string          `json:"selectedSize,omitempty"`
}

// Subtotal returns price × quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a submitted order. Only Status changes after creation, and only
// on the server.
type Order struct {
	ID           string          `json:"id"`
	CustomerInfo CustomerInfo    `json:"customerInfo"`
	Items        []OrderItem     `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       OrderStatus     `json:"status"`
	OrderDate    time.Time       `json:"orderDate"`
	Notes        string          `json:"notes,omitempty"`
	CustomerID   string          `json:"customerId,omitempty"`
}

// OrderPayload is the create-order request body.
type OrderPayload struct {
	CustomerInfo CustomerInfo    `json:"customerInfo"`
	Items        []OrderItem     `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	CustomerID   string          `json:"customerId,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// SignInPayload is the sign-in request body
type SignInPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpPayload is the sign-up request body. AvatarURL is sent as an explicit
// null when unset.
type SignUpPayload struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      Role    `json:"role,omitempty"`
	AvatarURL *string `json:"avatarUrl"`
}

// AuthResponse is the flat body returned by sign-in and sign-up.
type AuthResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Token     string     `json:"token"`
	AvatarURL *string    `json:"avatarUrl,omitempty"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// User extracts the account fields of the response.
func (r AuthResponse) User() User {
	return User{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      r.Role,
		AvatarURL: r.AvatarURL,
		LastLogin: r.LastLogin,
	}
}
