// Package catalog filters and sorts the product list on the client.
package catalog

import (
	"slices"
	"strings"

	"github.com/example/storefront/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// SortKey orders filtered products
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
)

// AllCategories disables category filtering.
const AllCategories = "all"

var ErrUnknownSortKey = errors.New("unknown sort key")

var minPriceCeiling = decimal.NewFromInt(100)

func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(s); k {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortPriceAsc, SortPriceDesc, SortNameAsc:
		return k, nil
	}
	return "", errors.Wrapf(ErrUnknownSortKey, "%q", s)
}

// Criteria selects and orders products. Zero values disable a filter.
type Criteria struct {
	// Query matches name or description, case-insensitively.
	Query      string
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Size       string
	Sort       SortKey
}

// Filter returns the products matching c in the order given by c.Sort. The
// input is not modified. Sorts are stable, so ties keep their input order.
// Name sorting compares bytes, so "Banana" sorts before "apple".
func Filter(products []model.Product, c Criteria) []model.Product {
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		if c.CategoryID != "" && c.CategoryID != AllCategories && p.CategoryID != c.CategoryID {
			continue
		}
		if c.MinPrice != nil && p.Price.LessThan(*c.MinPrice) {
			continue
		}
		if c.MaxPrice != nil && p.Price.GreaterThan(*c.MaxPrice) {
			continue
		}
		if c.Size != "" && !p.HasSize(c.Size) {
			continue
		}
		out = append(out, p)
	}

	switch c.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b model.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b model.Product) int { return b.Price.Cmp(a.Price) })
	case SortNameAsc:
		slices.SortStableFunc(out, func(a, b model.Product) int { return strings.Compare(a.Name, b.Name) })
	}
	return out
}

// PriceCeiling is the upper bound for a price range control: the highest
// product price, but never below 100.
func PriceCeiling(products []model.Product) decimal.Decimal {
	ceiling := minPriceCeiling
	for _, p := range products {
		if p.Price.GreaterThan(ceiling) {
			ceiling = p.Price
		}
	}
	return ceiling
}
