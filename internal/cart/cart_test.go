package cart

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/storage"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func tee() model.Product {
	return model.Product{ID: "p1", Name: "Linen Tee", Price: decimal.RequireFromString("19.99"), AvailableSizes: []string{"S", "M", "L"}}
}

func canvasCap() model.Product {
	return model.Product{ID: "p2", Name: "Canvas Cap", Price: decimal.NewFromInt(15)}
}

// failingStore fails every operation.
type failingStore struct{}

func (failingStore) Get(string) (string, bool, error) { return "", false, errors.New("disk gone") }
func (failingStore) Set(string, string) error         { return errors.New("disk gone") }
func (failingStore) Remove(string) error              { return errors.New("disk gone") }

type lineKey struct {
	ID       string
	Size     string
	Quantity int
	Price    string
}

func keys(items []LineItem) []lineKey {
	out := make([]lineKey, 0, len(items))
	for _, item := range items {
		out = append(out, lineKey{item.Product.ID, item.SelectedSize, item.Quantity, item.Product.Price.String()})
	}
	return out
}

// ============================================
// Reduce Tests
// ============================================

func TestReduce_AddMergesSameKey(t *testing.T) {
	var items []LineItem
	for _, q := range []int{2, 3, 1, 4} {
		items = Reduce(items, AddItem(tee(), q, "M"))
	}

	require.Len(t, items, 1)
	assert.Equal(t, 10, items[0].Quantity)
}

func TestReduce_AddDifferentSizeAppends(t *testing.T) {
	items := Reduce(nil, AddItem(tee(), 1, "M"))
	items = Reduce(items, AddItem(canvasCap(), 1, ""))
	items = Reduce(items, AddItem(tee(), 2, "L"))

	assert.Equal(t, []lineKey{
		{"p1", "M", 1, "19.99"},
		{"p2", "", 1, "15"},
		{"p1", "L", 2, "19.99"},
	}, keys(items))
}

func TestReduce_AddNonPositiveQuantityIsNoop(t *testing.T) {
	items := Reduce(nil, AddItem(tee(), 2, "M"))

	assert.Equal(t, keys(items), keys(Reduce(items, AddItem(tee(), 0, "M"))))
	assert.Equal(t, keys(items), keys(Reduce(items, AddItem(canvasCap(), -1, ""))))
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	items := Reduce(nil, AddItem(tee(), 2, "M"))
	before := keys(items)

	_ = Reduce(items, AddItem(tee(), 3, "M"))
	_ = Reduce(items, UpdateQuantity("p1", "M", 9))
	_ = Reduce(items, RemoveItem("p1", "M"))
	_ = Reduce(items, ClearCart())

	assert.Equal(t, before, keys(items))
}

func TestReduce_Remove(t *testing.T) {
	items := Reduce(nil, AddItem(tee(), 1, "M"))
	items = Reduce(items, AddItem(tee(), 1, "L"))

	items = Reduce(items, RemoveItem("p1", "M"))
	assert.Equal(t, []lineKey{{"p1", "L", 1, "19.99"}}, keys(items))

	items = Reduce(items, RemoveItem("p1", "XL"))
	assert.Equal(t, []lineKey{{"p1", "L", 1, "19.99"}}, keys(items))
}

func TestReduce_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		expected []lineKey
	}{
		{"set", 7, []lineKey{{"p1", "M", 7, "19.99"}, {"p2", "", 1, "15"}}},
		{"zero removes", 0, []lineKey{{"p2", "", 1, "15"}}},
		{"negative clamps and removes", -5, []lineKey{{"p2", "", 1, "15"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Reduce(nil, AddItem(tee(), 2, "M"))
			items = Reduce(items, AddItem(canvasCap(), 1, ""))

			items = Reduce(items, UpdateQuantity("p1", "M", tt.quantity))

			assert.Equal(t, tt.expected, keys(items))
		})
	}
}

func TestReduce_UpdateQuantityUnknownLineIsNoop(t *testing.T) {
	items := Reduce(nil, AddItem(tee(), 2, "M"))

	items = Reduce(items, UpdateQuantity("p1", "S", 4))

	assert.Equal(t, []lineKey{{"p1", "M", 2, "19.99"}}, keys(items))
}

func TestReduce_ClearAndLoad(t *testing.T) {
	items := Reduce(nil, AddItem(tee(), 2, "M"))

	assert.Empty(t, Reduce(items, ClearCart()))

	loaded := Reduce(items, LoadCart([]LineItem{
		{Product: canvasCap(), Quantity: 3},
		{Product: tee(), Quantity: 0, SelectedSize: "S"},
		{Product: tee(), Quantity: -2, SelectedSize: "L"},
	}))
	assert.Equal(t, []lineKey{{"p2", "", 3, "15"}}, keys(loaded))
}

// ============================================
// Store Tests
// ============================================

func TestStore_ScenarioMergedAdd(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)

	require.NoError(t, s.AddItem(tee(), 2, "M"))
	require.NoError(t, s.AddItem(tee(), 3, "M"))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 5, s.Items()[0].Quantity)
	assert.Equal(t, 5, s.TotalItems())
}

func TestStore_Totals(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)

	require.NoError(t, s.AddItem(tee(), 2, "M"))
	require.NoError(t, s.AddItem(canvasCap(), 3, ""))
	assert.Equal(t, 5, s.TotalItems())
	assert.True(t, decimal.RequireFromString("84.98").Equal(s.TotalPrice()), s.TotalPrice().String())

	s.UpdateQuantity("p2", "", 1)
	assert.Equal(t, 3, s.TotalItems())
	assert.True(t, decimal.RequireFromString("54.98").Equal(s.TotalPrice()), s.TotalPrice().String())

	s.RemoveItem("p1", "M")
	assert.Equal(t, 1, s.TotalItems())
	assert.True(t, decimal.NewFromInt(15).Equal(s.TotalPrice()))
}

func TestStore_ClearYieldsEmptyTotals(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)
	require.NoError(t, s.AddItem(tee(), 2, "M"))

	s.Clear()

	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Items())
	assert.Zero(t, s.TotalItems())
	assert.True(t, s.TotalPrice().IsZero())
}

func TestStore_AddItemValidation(t *testing.T) {
	tests := []struct {
		name     string
		product  model.Product
		quantity int
		size     string
		expected error
	}{
		{"missing product id", model.Product{Name: "x"}, 1, "", ErrInvalidProduct},
		{"zero quantity", tee(), 0, "M", ErrInvalidQuantity},
		{"negative quantity", tee(), -1, "M", ErrInvalidQuantity},
		{"unknown size", tee(), 1, "XXL", ErrUnknownSize},
		{"missing size", tee(), 1, "", ErrUnknownSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(storage.NewMemoryStore(), nil)

			err := s.AddItem(tt.product, tt.quantity, tt.size)

			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
			assert.True(t, s.IsEmpty())
		})
	}
}

func TestStore_SizelessProductAcceptsAnySize(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)

	require.NoError(t, s.AddItem(canvasCap(), 1, ""))
	require.NoError(t, s.AddItem(canvasCap(), 1, "One Size"))

	assert.Equal(t, 2, s.Len())
}

func TestStore_ItemsIsACopy(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)
	require.NoError(t, s.AddItem(tee(), 2, "M"))

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, s.Items()[0].Quantity)
}

// ============================================
// Persistence Tests
// ============================================

func TestStore_PersistsEveryTransition(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := New(kv, nil)

	require.NoError(t, s.AddItem(tee(), 2, "M"))
	raw, ok, err := kv.Get(storage.KeyCartItems)
	require.NoError(t, err)
	require.True(t, ok)

	var saved []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &saved))
	require.Len(t, saved, 1)
	assert.Equal(t, float64(2), saved[0]["quantity"])
	assert.Equal(t, "M", saved[0]["selectedSize"])
	product := saved[0]["product"].(map[string]any)
	assert.Equal(t, "p1", product["id"])
	assert.Equal(t, 19.99, product["price"])

	s.Clear()
	raw, _, _ = kv.Get(storage.KeyCartItems)
	assert.JSONEq(t, `[]`, raw)
}

func TestStore_RoundTripAcrossRestart(t *testing.T) {
	kv := storage.NewMemoryStore()
	s := New(kv, nil)
	require.NoError(t, s.AddItem(tee(), 2, "M"))
	require.NoError(t, s.AddItem(canvasCap(), 1, ""))
	require.NoError(t, s.AddItem(tee(), 1, "S"))
	require.NoError(t, s.AddItem(tee(), 4, "M"))

	restarted := New(kv, nil)

	assert.Equal(t, keys(s.Items()), keys(restarted.Items()))
	assert.Equal(t, "Linen Tee", restarted.Items()[0].Product.Name)
	assert.Equal(t, []string{"S", "M", "L"}, restarted.Items()[0].Product.AvailableSizes)
	assert.True(t, s.TotalPrice().Equal(restarted.TotalPrice()))
}

func TestNew_CorruptSavedCartStartsEmpty(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "[{"},
		{"wrong shape", `{"items":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryStore()
			require.NoError(t, kv.Set(storage.KeyCartItems, tt.value))

			s := New(kv, nil)

			assert.True(t, s.IsEmpty())
			raw, _, _ := kv.Get(storage.KeyCartItems)
			assert.JSONEq(t, `[]`, raw)
		})
	}
}

func TestNew_SavedNonPositiveLinesAreDropped(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(storage.KeyCartItems,
		`[{"product":{"id":"p1","price":10},"quantity":0,"selectedSize":"M"},{"product":{"id":"p2","price":5},"quantity":2,"selectedSize":""}]`))

	s := New(kv, nil)

	assert.Equal(t, []lineKey{{"p2", "", 2, "5"}}, keys(s.Items()))
}

func TestNew_SavedDuplicateLinesAreMerged(t *testing.T) {
	kv := storage.NewMemoryStore()
	require.NoError(t, kv.Set(storage.KeyCartItems,
		`[{"product":{"id":"p1","price":10},"quantity":2,"selectedSize":"M"},`+
			`{"product":{"id":"p2","price":5},"quantity":1,"selectedSize":""},`+
			`{"product":{"id":"p1","price":10},"quantity":3,"selectedSize":"M"}]`))

	s := New(kv, nil)

	assert.Equal(t, []lineKey{{"p1", "M", 5, "10"}, {"p2", "", 1, "5"}}, keys(s.Items()))
	assert.Equal(t, 6, s.TotalItems())

	s.UpdateQuantity("p1", "M", 4)

	assert.Equal(t, []lineKey{{"p1", "M", 4, "10"}, {"p2", "", 1, "5"}}, keys(s.Items()))
	assert.Equal(t, 5, s.TotalItems())
}

func TestStore_StorageFailuresAreTolerated(t *testing.T) {
	s := New(failingStore{}, nil)

	require.NoError(t, s.AddItem(tee(), 1, "M"))
	s.UpdateQuantity("p1", "M", 3)

	assert.Equal(t, 3, s.TotalItems())
}

// ============================================
// Concurrency Tests
// ============================================

func TestStore_ConcurrentAddsAreSerialized(t *testing.T) {
	s := New(storage.NewMemoryStore(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddItem(tee(), 1, "M")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 50, s.TotalItems())
}
