package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/photoshare/internal/client"
)

func (c *cli) registerCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := c.credentials(email, password)
			if err != nil {
				return err
			}
			if err := c.api.Register(cmd.Context(), email, password); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Registered %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted without echo when omitted)")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password, err := c.credentials(email, password)
			if err != nil {
				return err
			}
			session, err := c.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := client.SaveToken(c.tokenFile, session.Token); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Logged in as %s until %s\n", session.Email, session.ExpiresAt.Local().Format("15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted without echo when omitted)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.ClearToken(c.tokenFile); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Logged out")
			return nil
		},
	}
}
