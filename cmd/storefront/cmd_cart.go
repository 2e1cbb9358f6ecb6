package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	cartSize       string
	cartQuantity   int
	updateQuantity int
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and edit the local cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart lines and totals",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCartShow),
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add a product to the cart",
	Long: `Fetches the product and adds it to the cart. Adding the same product
and size again increases the quantity.

Example:
  storefront cart add prod1 --size M --qty 2`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runCartAdd),
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [product-id]",
	Short: "Remove a product line",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runCartRemove),
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update [product-id] --qty N",
	Short: "Set a line's quantity; 0 or less removes it",
	Long: `Sets the quantity of the (product, size) line. A quantity of zero or
less removes the line.

Example:
  storefront cart update prod1 --size M --qty 3
  storefront cart update prod1 --size M --qty -1`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runCartUpdate),
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE:  withApp(runCartClear),
}

func init() {
	for _, c := range []*cobra.Command{cartAddCmd, cartRemoveCmd, cartUpdateCmd} {
		c.Flags().StringVarP(&cartSize, "size", "s", "", "Selected size")
	}
	cartAddCmd.Flags().IntVarP(&cartQuantity, "qty", "n", 1, "Quantity to add")
	cartUpdateCmd.Flags().IntVarP(&updateQuantity, "qty", "n", 0, "New quantity")
	_ = cartUpdateCmd.MarkFlagRequired("qty")

	cartCmd.AddCommand(cartShowCmd)
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartClearCmd)
	rootCmd.AddCommand(cartCmd)
}

func runCartShow(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	printCart(cmd.OutOrStdout(), a.cart)
	return nil
}

func runCartAdd(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	product, err := a.client.GetProduct(ctx, args[0])
	if err != nil {
		return err
	}
	if product == nil {
		return errors.Errorf("product %s not found", args[0])
	}
	if err := a.cart.AddItem(*product, cartQuantity, cartSize); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %d × %s%s to the cart.\n", cartQuantity, product.Name, sizeSuffix(cartSize))
	printCart(cmd.OutOrStdout(), a.cart)
	return nil
}

func runCartRemove(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	a.cart.RemoveItem(args[0], cartSize)
	printCart(cmd.OutOrStdout(), a.cart)
	return nil
}

func runCartUpdate(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	a.cart.UpdateQuantity(args[0], cartSize, updateQuantity)
	printCart(cmd.OutOrStdout(), a.cart)
	return nil
}

func runCartClear(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	a.cart.Clear()
	fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared.")
	return nil
}
