package main

import (
	"context"
	"fmt"

	"github.com/example/storefront/internal/gateway"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	authName     string
	authEmail    string
	authPassword string
)

// authCmd manages the signed-in session
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign up and sign out",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAuthLogin),
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAuthSignup),
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAuthLogout),
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  withApp(runAuthWhoami),
}

func init() {
	for _, c := range []*cobra.Command{authLoginCmd, authSignupCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	authSignupCmd.Flags().StringVar(&authName, "name", "", "Display name")
	_ = authSignupCmd.MarkFlagRequired("name")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	user, err := a.session.Login(ctx, authEmail, authPassword)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>.\n", user.Name, user.Email)
	return nil
}

func runAuthSignup(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	user, err := a.session.Signup(ctx, authName, authEmail, authPassword)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! Your account has been created.\n", user.Name)
	return nil
}

func runAuthLogout(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	a.session.Logout()
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

// runAuthWhoami refreshes the account from the gateway. When the gateway
// cannot be reached the cached account is shown instead.
func runAuthWhoami(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
	out := cmd.OutOrStdout()
	if !a.session.IsAuthenticated() {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}

	user, err := a.session.Refresh(ctx)
	switch {
	case err == nil:
	case gateway.IsUnauthorized(err):
		return errors.New("session expired; sign in again")
	default:
		logger.Warn("failed to refresh account", zap.Error(err))
		user = a.session.User()
	}
	printUser(out, *user)
	return nil
}
