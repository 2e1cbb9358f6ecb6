package catalog

import (
	"context"

	"github.com/example/storefront/internal/model"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Source is the part of the gateway client the catalog reads from.
type Source interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// Catalog is the full product and category listing.
type Catalog struct {
	Products   []model.Product
	Categories []model.Category
}

// Load fetches products and categories concurrently. Either failure fails
// the load and cancels the other request.
func Load(ctx context.Context, src Source) (*Catalog, error) {
	g, ctx := errgroup.WithContext(ctx)

	var products []model.Product
	var categories []model.Category
	g.Go(func() error {
		var err error
		products, err = src.ListProducts(ctx)
		return errors.Wrap(err, "failed to load products")
	})
	g.Go(func() error {
		var err error
		categories, err = src.ListCategories(ctx)
		return errors.Wrap(err, "failed to load categories")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Catalog{Products: products, Categories: categories}, nil
}

func (c *Catalog) CategoryByID(id string) (model.Category, bool) {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return model.Category{}, false
}

// Filter applies criteria to the catalog's products.
func (c *Catalog) Filter(criteria Criteria) []model.Product {
	return Filter(c.Products, criteria)
}

// CategoryName resolves a product's category name, preferring the name the
// gateway already attached.
func (c *Catalog) CategoryName(p model.Product) string {
	if p.CategoryName != "" {
		return p.CategoryName
	}
	if cat, ok := c.CategoryByID(p.CategoryID); ok {
		return cat.Name
	}
	return ""
}
