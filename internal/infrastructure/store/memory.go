package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/example/storefront/internal/model"
)

// MemoryRepository keeps everything in maps. Listings come back in insertion
// order except orders, which are newest first.
type MemoryRepository struct {
	mu sync.RWMutex

	products     map[string]model.Product
	productOrder []string

	categories    map[string]model.Category
	categoryOrder []string

	faqs     map[string]model.FAQ
	faqOrder []string

	users   map[string]UserRecord
	byEmail map[string]string // lowercased email -> user id

	orders []model.Order
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		products:   make(map[string]model.Product),
		categories: make(map[string]model.Category),
		faqs:       make(map[string]model.FAQ),
		users:      make(map[string]UserRecord),
		byEmail:    make(map[string]string),
	}
}

func (m *MemoryRepository) ListProducts(ctx context.Context) ([]model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Product, 0, len(m.productOrder))
	for _, id := range m.productOrder {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *MemoryRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// SaveProduct inserts or replaces a product.
func (m *MemoryRepository) SaveProduct(ctx context.Context, p model.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[p.ID]; !exists {
		m.productOrder = append(m.productOrder, p.ID)
	}
	m.products[p.ID] = p
	return nil
}

func (m *MemoryRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Category, 0, len(m.categoryOrder))
	for _, id := range m.categoryOrder {
		out = append(out, m.categories[id])
	}
	return out, nil
}

func (m *MemoryRepository) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *MemoryRepository) SaveCategory(ctx context.Context, c model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.categories[c.ID]; !exists {
		m.categoryOrder = append(m.categoryOrder, c.ID)
	}
	m.categories[c.ID] = c
	return nil
}

func (m *MemoryRepository) ListFAQs(ctx context.Context) ([]model.FAQ, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.FAQ, 0, len(m.faqOrder))
	for _, id := range m.faqOrder {
		out = append(out, m.faqs[id])
	}
	return out, nil
}

func (m *MemoryRepository) SaveFAQ(ctx context.Context, f model.FAQ) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.faqs[f.ID]; !exists {
		m.faqOrder = append(m.faqOrder, f.ID)
	}
	m.faqs[f.ID] = f
	return nil
}

func (m *MemoryRepository) CreateUser(ctx context.Context, u UserRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, taken := m.byEmail[key]; taken {
		return ErrEmailTaken
	}
	m.users[u.ID] = u
	m.byEmail[key] = u.ID
	return nil
}

func (m *MemoryRepository) GetUser(ctx context.Context, id string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// GetUserByEmail matches email case-insensitively.
func (m *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	u := m.users[id]
	return &u, nil
}

func (m *MemoryRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = &at
	m.users[id] = u
	return nil
}

func (m *MemoryRepository) CreateOrder(ctx context.Context, o model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.orders = append(m.orders, o)
	return nil
}

func (m *MemoryRepository) ListOrders(ctx context.Context, customerID string) ([]model.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if customerID == "" || o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	return out, nil
}
