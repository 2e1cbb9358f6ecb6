package main

import (
	"context"
	"fmt"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	filterQuery    string
	filterCategory string
	filterMin      string
	filterMax      string
	filterSize     string
	filterSort     string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Browse products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products, optionally filtered and sorted",
	Long: `Loads the catalog and filters it locally.

Sort keys: relevance (default), price-asc, price-desc, name-asc.

Example:
  storefront products list --category cat2 --max 60 --sort price-asc`,
	Args: cobra.NoArgs,
	RunE: withApp(runProductsList),
}

var productsGetCmd = &cobra.Command{
	Use:   "get [product-id]",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runProductsGet),
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Browse categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCategoriesList),
}

var categoriesGetCmd = &cobra.Command{
	Use:   "get [category-id]",
	Short: "Show one category",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCategoriesGet),
}

var faqsCmd = &cobra.Command{
	Use:   "faqs",
	Short: "Show frequently asked questions",
	Args:  cobra.NoArgs,
	RunE:  withApp(runFAQs),
}

func init() {
	f := productsListCmd.Flags()
	f.StringVarP(&filterQuery, "query", "q", "", "Match name or description")
	f.StringVar(&filterCategory, "category", catalog.AllCategories, "Category id")
	f.StringVar(&filterMin, "min", "", "Minimum price")
	f.StringVar(&filterMax, "max", "", "Maximum price")
	f.StringVar(&filterSize, "size", "", "Only products available in this size")
	f.StringVar(&filterSort, "sort", string(catalog.SortRelevance), "Sort key")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsGetCmd)
	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesGetCmd)

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(faqsCmd)
}

func buildCriteria() (catalog.Criteria, error) {
	sortKey, err := catalog.ParseSortKey(filterSort)
	if err != nil {
		return catalog.Criteria{}, err
	}
	c := catalog.Criteria{
		Query:      filterQuery,
		CategoryID: filterCategory,
		Size:       filterSize,
		Sort:       sortKey,
	}
	if c.MinPrice, err = parsePrice("min", filterMin); err != nil {
		return catalog.Criteria{}, err
	}
	if c.MaxPrice, err = parsePrice("max", filterMax); err != nil {
		return catalog.Criteria{}, err
	}
	return c, nil
}

func parsePrice(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --%s", name)
	}
	return &d, nil
}

func runProductsList(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	criteria, err := buildCriteria()
	if err != nil {
		return err
	}
	cat, err := catalog.Load(ctx, a.client)
	if err != nil {
		return err
	}

	products := cat.Filter(criteria)
	out := cmd.OutOrStdout()
	if len(products) == 0 {
		fmt.Fprintln(out, "No products match.")
		return nil
	}
	printProducts(out, cat, products)
	fmt.Fprintf(out, "\n%d of %d products (prices up to %s)\n",
		len(products), len(cat.Products), money(catalog.PriceCeiling(cat.Products)))
	return nil
}

func runProductsGet(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	product, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	if product == nil {
		return errors.Errorf("product %s not found", args[0])
	}
	printProduct(cmd.OutOrStdout(), *product)
	return nil
}

func runCategoriesList(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	categories, err := a.client.ListCategories(ctx)
	if err != nil {
		return err
	}
	printCategories(cmd.OutOrStdout(), categories)
	return nil
}

func runCategoriesGet(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	category, err := a.client.GetCategory(ctx, args[0])
	if err != nil {
		return err
	}
	if category == nil {
		return errors.Errorf("category %s not found", args[0])
	}
	printCategories(cmd.OutOrStdout(), []model.Category{*category})
	return nil
}

func runFAQs(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	faqs, err := a.client.ListFAQs(ctx)
	if err != nil {
		return err
	}
	printFAQs(cmd.OutOrStdout(), faqs)
	return nil
}
