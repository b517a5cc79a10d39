package main

import (
	"fmt"
	"time"

	"github.com/darc-project/darc/internal/auth"
	"github.com/darc-project/darc/internal/storage"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and store its token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		var accounts *auth.Client
		stop, err := startApp(cmd.Context(), &accounts)
		if err != nil {
			return err
		}
		defer stop()

		token, err := accounts.Signup(cmd.Context(), auth.SignupRequest{Username: username, Email: email, Password: password})
		if err != nil {
			return err
		}
		if token == "" {
			pterm.Success.Println("Signed up. Log in with `darc login`.")
			return nil
		}
		pterm.Success.Println("Signed up. Token stored; log in with `darc login`.")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		var accounts *auth.Client
		stop, err := startApp(cmd.Context(), &accounts)
		if err != nil {
			return err
		}
		defer stop()

		if _, err := accounts.Login(cmd.Context(), auth.LoginRequest{Username: username, Password: password}); err != nil {
			return err
		}
		pterm.Success.Println("Logged in.")
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show the stored token and its claims",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var store *storage.Store
		stop, err := startApp(cmd.Context(), &store)
		if err != nil {
			return err
		}
		defer stop()

		token, err := store.Token()
		if err != nil {
			return err
		}
		if token == "" {
			pterm.Warning.Println("No token stored. Run `darc signup` or `darc login` first.")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)

		claims, err := auth.InspectToken(token)
		if err != nil {
			pterm.Info.Println("Token is not a JWT; no claims to show.")
			return nil
		}
		rows := pterm.TableData{{"Claim", "Value"}}
		if claims.Subject != "" {
			rows = append(rows, []string{"sub", claims.Subject})
		}
		if !claims.IssuedAt.IsZero() {
			rows = append(rows, []string{"iat", claims.IssuedAt.Format(time.RFC3339)})
		}
		if !claims.ExpiresAt.IsZero() {
			exp := claims.ExpiresAt.Format(time.RFC3339)
			if claims.Expired(time.Now()) {
				exp += " (expired)"
			}
			rows = append(rows, []string{"exp", exp})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var store *storage.Store
		stop, err := startApp(cmd.Context(), &store)
		if err != nil {
			return err
		}
		defer stop()

		if err := store.RemoveItem(storage.TokenKey); err != nil {
			return err
		}
		pterm.Success.Println("Token removed.")
		return nil
	},
}

func init() {
	signupCmd.Flags().StringP("username", "u", "", "Username")
	signupCmd.Flags().StringP("email", "e", "", "Email")
	signupCmd.Flags().StringP("password", "p", "", "Password")
	_ = signupCmd.MarkFlagRequired("username")
	_ = signupCmd.MarkFlagRequired("email")
	_ = signupCmd.MarkFlagRequired("password")

	loginCmd.Flags().StringP("username", "u", "", "Username")
	loginCmd.Flags().StringP("password", "p", "", "Password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
}
