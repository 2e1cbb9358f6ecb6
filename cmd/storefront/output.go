package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/example/storefront/internal/cart"
	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/model"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func sizeSuffix(size string) string {
	if size == "" {
		return ""
	}
	return " (" + size + ")"
}

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printProducts(out io.Writer, cat *catalog.Catalog, products []model.Product) {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tSIZES\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			p.ID, p.Name, cat.CategoryName(p), money(p.Price), strings.Join(p.AvailableSizes, ","), p.Stock)
	}
	tw.Flush()
}

func printProduct(out io.Writer, p model.Product) {
	tw := newTable(out)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Price:\t%s\n", money(p.Price))
	if p.CategoryName != "" {
		fmt.Fprintf(tw, "Category:\t%s\n", p.CategoryName)
	} else {
		fmt.Fprintf(tw, "Category:\t%s\n", p.CategoryID)
	}
	if len(p.AvailableSizes) > 0 {
		fmt.Fprintf(tw, "Sizes:\t%s\n", strings.Join(p.AvailableSizes, ", "))
	}
	fmt.Fprintf(tw, "Stock:\t%d\n", p.Stock)
	if p.SKU != "" {
		fmt.Fprintf(tw, "SKU:\t%s\n", p.SKU)
	}
	tw.Flush()
	if p.Description != "" {
		fmt.Fprintf(out, "\n%s\n", p.Description)
	}
}

func printCategories(out io.Writer, categories []model.Category) {
	tw := newTable(out)
	fmt.Fprintln(tw, "ID\tNAME\tSLUG")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Slug)
	}
	tw.Flush()
}

func printFAQs(out io.Writer, faqs []model.FAQ) {
	if len(faqs) == 0 {
		fmt.Fprintln(out, "No FAQs yet.")
		return
	}
	for i, f := range faqs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "Q: %s\nA: %s\n", f.Question, f.Answer)
	}
}

func printCart(out io.Writer, c *cart.Store) {
	if c.IsEmpty() {
		fmt.Fprintln(out, "Your cart is empty.")
		return
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tSIZE\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range c.Items() {
		subtotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			item.Product.ID, item.Product.Name, item.SelectedSize, item.Quantity,
			money(item.Product.Price), money(subtotal))
	}
	tw.Flush()
	fmt.Fprintf(out, "\n%d items, total %s\n", c.TotalItems(), money(c.TotalPrice()))
}

func printUser(out io.Writer, u model.User) {
	tw := newTable(out)
	fmt.Fprintf(tw, "ID:\t%s\n", u.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	if u.LastLogin != nil {
		fmt.Fprintf(tw, "Last login:\t%s\n", u.LastLogin.Local().Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func printOrders(out io.Writer, orders []model.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(out, "No orders yet.")
		return
	}
	tw := newTable(out)
	fmt.Fprintln(tw, "ORDER\tDATE\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		count := 0
		for _, item := range o.Items {
			count += item.Quantity
		}
		fmt.Fprintf(tw, "#%s\t%s\t%s\t%d\t%s\n",
			checkout.ShortOrderID(o.ID), o.OrderDate.Local().Format("2006-01-02"), o.Status, count, money(o.TotalAmount))
	}
	tw.Flush()
}
