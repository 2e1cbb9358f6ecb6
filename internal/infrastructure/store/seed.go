package store

import (
	"context"

	"github.com/example/storefront/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const placeholderImage = "https://placehold.co/600x800.png"

// DemoCategories is the catalog structure loaded by Seed.
func DemoCategories() []model.Category {
	return []model.Category{
		{ID: "cat1", Name: "New Arrivals", Slug: "new-arrivals", ImageURL: "https://placehold.co/800x400.png"},
		{ID: "cat2", Name: "Tops", Slug: "tops", ImageURL: "https://placehold.co/800x400.png"},
		{ID: "cat3", Name: "Bottoms", Slug: "bottoms", ImageURL: "https://placehold.co/800x400.png"},
		{ID: "cat4", Name: "Dresses", Slug: "dresses", ImageURL: "https://placehold.co/800x400.png"},
		{ID: "cat5", Name: "Outerwear", Slug: "outerwear", ImageURL: "https://placehold.co/800x400.png"},
	}
}

func DemoProducts() []model.Product {
	return []model.Product{
		{
			ID: "prod1", Name: "Classic White Tee",
			Description: "A timeless white t-shirt in 100% premium cotton. Perfect for layering or wearing on its own.",
			Price:       decimal.RequireFromString("29.99"), ImageURL: placeholderImage,
			CategoryID: "cat2", AvailableSizes: []string{"S", "M", "L", "XL"}, Stock: 100, SKU: "TOP-WHT-001",
		},
		{
			ID: "prod2", Name: "Slim Fit Denim Jeans",
			Description: "Modern slim silhouette in stretch denim for ease of movement.",
			Price:       decimal.RequireFromString("79.99"), ImageURL: placeholderImage,
			CategoryID: "cat3", AvailableSizes: []string{"28", "30", "32", "34", "36"}, Stock: 75, SKU: "BTM-DNM-002",
		},
		{
			ID: "prod3", Name: "Linen Button-Down Shirt",
			Description: "Breathable linen shirt for warm days.",
			Price:       decimal.RequireFromString("54.50"), ImageURL: placeholderImage,
			CategoryID: "cat2", AvailableSizes: []string{"S", "M", "L"}, Stock: 40, SKU: "TOP-LIN-003",
		},
		{
			ID: "prod4", Name: "Floral Midi Dress",
			Description: "Light floral print with a flowing midi cut.",
			Price:       decimal.RequireFromString("89.00"), ImageURL: placeholderImage,
			CategoryID: "cat4", AvailableSizes: []string{"XS", "S", "M", "L"}, Stock: 30, SKU: "DRS-FLR-004",
		},
		{
			ID: "prod5", Name: "Wool Overcoat",
			Description: "Tailored wool blend coat for cold weather.",
			Price:       decimal.RequireFromString("229.00"), ImageURL: placeholderImage,
			CategoryID: "cat5", AvailableSizes: []string{"M", "L", "XL"}, Stock: 12, SKU: "OUT-WOL-005",
		},
		{
			ID: "prod6", Name: "Canvas Tote Bag",
			Description: "Sturdy everyday tote in natural canvas.",
			Price:       decimal.RequireFromString("24.00"), ImageURL: placeholderImage,
			CategoryID: "cat1", Stock: 60, SKU: "NEW-TOT-006",
		},
	}
}

func DemoFAQs() []model.FAQ {
	return []model.FAQ{
		{ID: "faq1", Question: "How long does shipping take?", Answer: "Orders ship within 2 business days and arrive in 3-7 days.", Category: "Shipping", IsActive: true, Order: 1},
		{ID: "faq2", Question: "Can I return an item?", Answer: "Unworn items can be returned within 30 days of delivery.", Category: "Returns", IsActive: true, Order: 2},
		{ID: "faq3", Question: "Do you ship internationally?", Answer: "Not yet. We currently ship within the country only.", Category: "Shipping", IsActive: false, Order: 3},
		{ID: "faq4", Question: "How do I find my size?", Answer: "Each product page lists the sizes in stock. Most items fit true to size.", Category: "Sizing", IsActive: true, Order: 0},
	}
}

// Seed loads the demo catalog into repo. Existing entries with the same ids
// are replaced.
func Seed(ctx context.Context, repo Repository) error {
	for _, c := range DemoCategories() {
		if err := repo.SaveCategory(ctx, c); err != nil {
			return errors.Wrap(err, "seed categories")
		}
	}
	for _, p := range DemoProducts() {
		if err := repo.SaveProduct(ctx, p); err != nil {
			return errors.Wrap(err, "seed products")
		}
	}
	for _, f := range DemoFAQs() {
		if err := repo.SaveFAQ(ctx, f); err != nil {
			return errors.Wrap(err, "seed faqs")
		}
	}
	return nil
}
