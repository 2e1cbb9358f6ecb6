package main

import (
	"context"
	"fmt"
	"io"

	"github.com/example/storefront/internal/checkout"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	shipAddress    string
	billingAddress string
	phone          string
	notes          string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the cart",
	Long: `Submits the cart as an order for the signed-in account. The cart is
cleared once the order is accepted.

Example:
  storefront checkout --address "1 Main St, Springfield" --phone 555-0100`,
	Args: cobra.NoArgs,
	RunE: withApp(runCheckout),
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	Args:  cobra.NoArgs,
	RunE:  withApp(runOrders),
}

func init() {
	checkoutCmd.Flags().StringVar(&shipAddress, "address", "", "Shipping address")
	checkoutCmd.Flags().StringVar(&billingAddress, "billing", "", "Billing address")
	checkoutCmd.Flags().StringVar(&phone, "phone", "", "Contact phone")
	checkoutCmd.Flags().StringVar(&notes, "notes", "", "Order notes")

	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(ordersCmd)
}

// cliNotifier prints checkout notifications.
type cliNotifier struct {
	out io.Writer
}

func (n cliNotifier) Notify(note checkout.Notification) {
	fmt.Fprintf(n.out, "[%s] %s: %s\n", note.Kind, note.Title, note.Message)
}

// cliNavigator maps checkout navigation onto commands: the orders route
// prints the order list.
type cliNavigator struct {
	ctx context.Context
	out io.Writer
	app *app
}

func (n cliNavigator) PromptAuthentication() {
	fmt.Fprintln(n.out, "Run `storefront auth login` or `storefront auth signup` first.")
}

func (n cliNavigator) Navigate(route string) {
	if route != checkout.OrdersRoute {
		fmt.Fprintf(n.out, "-> %s\n", route)
		return
	}
	orders, err := n.app.client.ListOrders(n.ctx)
	if err != nil {
		fmt.Fprintf(n.out, "Could not load orders: %v\n", err)
		return
	}
	printOrders(n.out, orders)
}

func runCheckout(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	out := cmd.OutOrStdout()
	flow := checkout.New(
		a.session,
		a.cart,
		a.client,
		cliNotifier{out: cmd.ErrOrStderr()},
		cliNavigator{ctx: ctx, out: out, app: a},
		logger,
	)

	_, err := flow.PlaceOrder(ctx, checkout.Request{
		ShippingAddress: shipAddress,
		BillingAddress:  billingAddress,
		Phone:           phone,
		Notes:           notes,
	})
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return errors.New("your cart is empty")
	case errors.Is(err, checkout.ErrShippingAddressRequired):
		return errors.New("--address is required")
	}
	return err
}

func runOrders(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	if !a.session.IsAuthenticated() {
		return errors.New("not signed in")
	}
	orders, err := a.client.ListOrders(ctx)
	if err != nil {
		return err
	}
	printOrders(cmd.OutOrStdout(), orders)
	return nil
}
