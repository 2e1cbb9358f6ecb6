// Package checkout turns the cart into an order for the signed-in user.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// OrdersRoute is where the user lands after a successful order.
	OrdersRoute  = "/account/orders"
	DefaultNotes = "Online web order"
	shortIDLen   = 6
)

var (
	ErrAuthenticationRequired  = errors.New("sign in to place an order")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrShippingAddressRequired = errors.New("shipping address is required")
	ErrNoOrderReturned         = errors.New("order service returned no order")
)

type Session interface {
	IsAuthenticated() bool
	User() *model.User
}

type Cart interface {
	Items() []cart.LineItem
	Clear()
}

type OrderService interface {
	CreateOrder(ctx context.Context, payload model.OrderPayload) (*model.Order, error)
}

type Notifier interface {
	Notify(n Notification)
}

// Navigator moves the user between views.
type Navigator interface {
	PromptAuthentication()
	Navigate(route string)
}

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// Notification is a short message shown to the user
type Notification struct {
	Kind    Kind
	Title   string
	Message string
}

// Request carries what the user enters at checkout.
type Request struct {
	ShippingAddress string
	BillingAddress  string
	Phone           string
	Notes           string
}

type Flow struct {
	session  Session
	cart     Cart
	orders   OrderService
	notifier Notifier
	nav      Navigator
	logger   *zap.Logger
}

func New(session Session, c Cart, orders OrderService, notifier Notifier, nav Navigator, logger *zap.Logger) *Flow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Flow{
		session:  session,
		cart:     c,
		orders:   orders,
		notifier: notifier,
		nav:      nav,
		logger:   logger.Named("checkout"),
	}
}

// PlaceOrder submits the cart as an order. Nothing is sent unless the user is
// signed in, the cart has items and a shipping address is given. The cart is
// cleared only after the gateway accepts the order.
func (f *Flow) PlaceOrder(ctx context.Context, req Request) (*model.Order, error) {
	user := f.session.User()
	if !f.session.IsAuthenticated() || user == nil {
		f.nav.PromptAuthentication()
		f.notifier.Notify(Notification{
			Kind:    KindInfo,
			Title:   "Authentication Required",
			Message: "Please sign in or create an account to complete your purchase.",
		})
		return nil, ErrAuthenticationRequired
	}

	lines := f.cart.Items()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return nil, ErrShippingAddressRequired
	}

	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		notes = DefaultNotes
	}

	items := OrderItems(lines)
	payload := model.OrderPayload{
		CustomerInfo: model.CustomerInfo{
			Name:            user.Name,
			Email:           user.Email,
			Phone:           strings.TrimSpace(req.Phone),
			ShippingAddress: address,
			BillingAddress:  strings.TrimSpace(req.BillingAddress),
		},
		Items:       items,
		TotalAmount: OrderTotal(items),
		CustomerID:  user.ID,
		Notes:       notes,
	}

	order, err := f.orders.CreateOrder(ctx, payload)
	if err == nil && order == nil {
		err = ErrNoOrderReturned
	}
	if err != nil {
		f.logger.Warn("order failed", zap.String("user_id", user.ID), zap.Error(err))
		f.notifier.Notify(Notification{
			Kind:    KindFailure,
			Title:   "Order Failed",
			Message: err.Error(),
		})
		return nil, err
	}

	f.cart.Clear()
	f.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("total", payload.TotalAmount.StringFixed(2)),
	)
	f.notifier.Notify(Notification{
		Kind:    KindSuccess,
		Title:   "Order Placed!",
		Message: fmt.Sprintf("Your order #%s has been placed successfully.", ShortOrderID(order.ID)),
	})
	f.nav.Navigate(OrdersRoute)
	return order, nil
}

// OrderTotal sums price × quantity over items.
func OrderTotal(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// OrderItems snapshots cart lines into order lines.
func OrderItems(lines []cart.LineItem) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, model.OrderItem{
			ProductID:    line.Product.ID,
			ProductName:  line.Product.Name,
			Quantity:     line.Quantity,
			Price:        line.Product.Price,
			SelectedSize: line.SelectedSize,
		})
	}
	return items
}

// ShortOrderID returns the last six characters of id, or id if shorter.
func ShortOrderID(id string) string {
	r := []rune(id)
	if len(r) <= shortIDLen {
		return id
	}
	return string(r[len(r)-shortIDLen:])
}
