// Package cart is the client-side shopping cart: a reducer over line items,
// persisted to durable storage after every transition.
package cart

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/storage"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidProduct  = errors.New("product id is required")
	ErrUnknownSize     = errors.New("size is not available for this product")
)

type Store struct {
	mu     sync.Mutex
	items  []LineItem
	kv     storage.Store
	logger *zap.Logger
}

// New creates a cart and loads any saved items. A missing or unreadable
// saved cart starts empty.
func New(kv storage.Store, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		items:  []LineItem{},
		kv:     kv,
		logger: logger.Named("cart"),
	}
	s.Dispatch(LoadCart(s.loadSaved()))
	return s
}

func (s *Store) loadSaved() []LineItem {
	raw, ok, err := s.kv.Get(storage.KeyCartItems)
	if err != nil {
		s.logger.Warn("failed to read saved cart; starting empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("saved cart is corrupt; discarding it", zap.Error(err))
		if err := s.kv.Remove(storage.KeyCartItems); err != nil {
			s.logger.Warn("failed to remove corrupt cart", zap.Error(err))
		}
		return nil
	}
	return items
}

// Dispatch applies action and persists the resulting items. Transitions are
// applied one at a time. Persistence failures are logged, not returned.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = Reduce(s.items, action)
	s.persist()
	s.logger.Debug("cart updated",
		zap.String("action", string(action.Type)),
		zap.Int("lines", len(s.items)),
	)
}

func (s *Store) persist() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.kv.Set(storage.KeyCartItems, string(data)); err != nil {
		s.logger.Error("failed to save cart", zap.Error(err))
	}
}

// AddItem validates and adds quantity units of product in size. Adding an
// existing (product, size) line increases its quantity.
func (s *Store) AddItem(product model.Product, quantity int, size string) error {
	if strings.TrimSpace(product.ID) == "" {
		return ErrInvalidProduct
	}
	if quantity <= 0 {
		return errors.Wrapf(ErrInvalidQuantity, "got %d", quantity)
	}
	if len(product.AvailableSizes) > 0 && !product.HasSize(size) {
		return errors.Wrapf(ErrUnknownSize, "%q not in %v", size, product.AvailableSizes)
	}
	s.Dispatch(AddItem(product, quantity, size))
	return nil
}

func (s *Store) RemoveItem(productID, size string) {
	s.Dispatch(RemoveItem(productID, size))
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *Store) UpdateQuantity(productID, size string, quantity int) {
	s.Dispatch(UpdateQuantity(productID, size, quantity))
}

func (s *Store) Clear() {
	s.Dispatch(ClearCart())
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

// TotalItems is the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of price × quantity over all lines, using each
// line's snapshotted price.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}
