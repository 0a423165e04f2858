package command

import (
	"context"
	"fmt"

	"yamdb/cmd/cli/authentication"
	"yamdb/internal/http-api/dto"

	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Sign up with a username and email, then exchange the mailed confirmation code for a token.`,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Request a confirmation code by email",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.SignupRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(false)
		if err != nil {
			return err
		}
		resp, err := c.Signup(ctx, req)
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		success(cmd.OutOrStdout(), "Confirmation code sent to %s", resp.Email)
		fmt.Fprintf(cmd.OutOrStdout(), "Run: yamdb auth token -u %s -c <code>\n", resp.Username)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Exchange a confirmation code for an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req dto.TokenRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.ConfirmationCode, _ = cmd.Flags().GetString("code")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(false)
		if err != nil {
			return err
		}
		resp, err := c.ObtainToken(ctx, req)
		if err != nil {
			return fmt.Errorf("token request failed: %w", err)
		}

		if err := authentication.StoreToken(&authentication.StoredCredentials{
			AccessToken: resp.Token,
			Username:    req.Username,
		}); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		success(cmd.OutOrStdout(), "Logged in as %s", req.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authentication.DeleteToken(); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the profile the stored token belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		c, err := newClient(true)
		if err != nil {
			return err
		}
		me, err := c.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s\n", me.Username, me.Email, me.Role)
		return nil
	},
}

func init() {
	authCmd.AddCommand(signupCmd, tokenCmd, logoutCmd, whoamiCmd)

	signupCmd.Flags().StringP("username", "u", "", "username for the new account")
	signupCmd.Flags().StringP("email", "e", "", "email the code is sent to")
	signupCmd.MarkFlagRequired("username")
	signupCmd.MarkFlagRequired("email")

	tokenCmd.Flags().StringP("username", "u", "", "account username")
	tokenCmd.Flags().StringP("code", "c", "", "confirmation code from the email")
	tokenCmd.MarkFlagRequired("username")
	tokenCmd.MarkFlagRequired("code")
}
