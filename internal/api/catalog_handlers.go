package api

import (
	"net/http"
	"sort"

	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/model"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CatalogHandlers serves products, categories and FAQs.
type CatalogHandlers struct {
	repo   store.Repository
	logger *zap.Logger
}

func NewCatalogHandlers(repo store.Repository, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{repo: repo, logger: logger.Named("api")}
}

func (h *CatalogHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		respondError(w, "Failed to fetch products", http.StatusInternalServerError)
		return
	}
	names := h.categoryNames(r)
	for i := range products {
		if products[i].CategoryName == "" {
			products[i].CategoryName = names[products[i].CategoryID]
		}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.repo.GetProduct(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get product", zap.String("id", id), zap.Error(err))
		respondError(w, "Failed to fetch product", http.StatusInternalServerError)
		return
	}
	if product.CategoryName == "" {
		product.CategoryName = h.categoryNames(r)[product.CategoryID]
	}
	respondJSON(w, http.StatusOK, product)
}

func (h *CatalogHandlers) categoryNames(r *http.Request) map[string]string {
	names := make(map[string]string)
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.logger.Warn("failed to load category names", zap.Error(err))
		return names
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

func (h *CatalogHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		respondError(w, "Failed to fetch categories", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// GetCategory looks a category up by id, then by slug.
func (h *CatalogHandlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	category, err := h.repo.GetCategory(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		category, err = h.categoryBySlug(r, id)
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, "Category not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to get category", zap.String("id", id), zap.Error(err))
		respondError(w, "Failed to fetch category", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (h *CatalogHandlers) categoryBySlug(r *http.Request, slug string) (*model.Category, error) {
	categories, err := h.repo.ListCategories(r.Context())
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

// ListFAQs returns active FAQs ordered by their position.
func (h *CatalogHandlers) ListFAQs(w http.ResponseWriter, r *http.Request) {
	faqs, err := h.repo.ListFAQs(r.Context())
	if err != nil {
		h.logger.Error("failed to list faqs", zap.Error(err))
		respondError(w, "Failed to fetch FAQs", http.StatusInternalServerError)
		return
	}

	active := make([]model.FAQ, 0, len(faqs))
	for _, f := range faqs {
		if f.IsActive {
			active = append(active, f)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].Order < active[j].Order })
	respondJSON(w, http.StatusOK, active)
}
