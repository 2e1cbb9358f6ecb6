package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/storefront/internal/api/middleware"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderHandlers creates and lists orders for signed-in users.
type OrderHandlers struct {
	repo   store.Repository
	events kafka.Publisher
	logger *zap.Logger
	now    func() time.Time
}

func NewOrderHandlers(repo store.Repository, events kafka.Publisher, logger *zap.Logger) *OrderHandlers {
	if events == nil {
		events = kafka.NopPublisher{}
	}
	return &OrderHandlers{
		repo:   repo,
		events: events,
		logger: logger.Named("api"),
		now:    time.Now,
	}
}

// validationError is a 400 whose message is shown to the shopper.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// CreateOrder stores an order for the caller with status Pending.
func (h *OrderHandlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetUserFromContext(r.Context())

	var req model.OrderPayload
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.validate(r, &req); err != nil {
		var verr *validationError
		if errors.As(err, &verr) {
			respondError(w, verr.msg, http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to validate order", zap.Error(err))
		respondError(w, "Failed to place order", http.StatusInternalServerError)
		return
	}

	info := req.CustomerInfo
	info.ShippingAddress = strings.TrimSpace(info.ShippingAddress)
	if strings.TrimSpace(info.Email) == "" {
		info.Email = claims.Email
	}

	order := model.Order{
		ID:           uuid.New().String(),
		CustomerInfo: info,
		Items:        req.Items,
		TotalAmount:  req.TotalAmount,
		Status:       model.StatusPending,
		OrderDate:    h.now().UTC(),
		Notes:        req.Notes,
		CustomerID:   claims.UserID,
	}
	if err := h.repo.CreateOrder(r.Context(), order); err != nil {
		h.logger.Error("failed to store order", zap.Error(err))
		respondError(w, "Failed to place order", http.StatusInternalServerError)
		return
	}

	h.publishPlaced(r, order)
	h.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("customer_id", order.CustomerID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)
	respondJSON(w, http.StatusCreated, order)
}

func (h *OrderHandlers) validate(r *http.Request, req *model.OrderPayload) error {
	if strings.TrimSpace(req.CustomerInfo.ShippingAddress) == "" {
		return invalid("Shipping address is required")
	}
	if len(req.Items) == 0 {
		return invalid("Order must contain at least one item")
	}

	total := decimal.Zero
	for _, item := range req.Items {
		if item.ProductID == "" {
			return invalid("Each item needs a productId")
		}
		if item.Quantity <= 0 {
			return invalid("Quantity for %s must be positive", item.ProductID)
		}
		if item.Price.IsNegative() {
			return invalid("Price for %s cannot be negative", item.ProductID)
		}

		product, err := h.repo.GetProduct(r.Context(), item.ProductID)
		if errors.Is(err, store.ErrNotFound) {
			return invalid("Product %s not found", item.ProductID)
		}
		if err != nil {
			return err
		}
		if len(product.AvailableSizes) > 0 && !product.HasSize(item.SelectedSize) {
			return invalid("Size %q is not available for %s", item.SelectedSize, product.Name)
		}
		if item.Quantity > product.Stock {
			return invalid("Insufficient stock for %s", product.Name)
		}
		total = total.Add(item.Subtotal())
	}

	if !total.Equal(req.TotalAmount) {
		return invalid("Total amount %s does not match items (%s)", req.TotalAmount.String(), total.String())
	}
	return nil
}

// publishPlaced emits OrderPlaced. The order is already stored, so a
// publish failure is only logged.
func (h *OrderHandlers) publishPlaced(r *http.Request, order model.Order) {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	event := kafka.OrderPlaced{
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		Email:       order.CustomerInfo.Email,
		TotalAmount: order.TotalAmount,
		ItemCount:   count,
		PlacedAt:    order.OrderDate,
	}
	if err := h.events.Publish(r.Context(), order.ID, event); err != nil {
		h.logger.Warn("failed to publish order event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// ListOrders returns the caller's orders, or every order for an Admin.
func (h *OrderHandlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetUserFromContext(r.Context())

	customerID := claims.UserID
	if isAdmin(claims) {
		customerID = ""
	}

	orders, err := h.repo.ListOrders(r.Context(), customerID)
	if err != nil {
		h.logger.Error("failed to list orders", zap.Error(err))
		respondError(w, "Failed to fetch orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func isAdmin(claims *auth.Claims) bool {
	return claims != nil && claims.Role == model.RoleAdmin
}
