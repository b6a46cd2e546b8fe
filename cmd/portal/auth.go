package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/pkg/token"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the session",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := cli.auth.Login(cmd.Context(), portal.LoginRequest{
			Email:    loginEmail,
			Password: loginPassword,
		})
		if err != nil {
			return err
		}
		fmt.Printf("logged in as %s (%s)\n", resp.User.Email, cli.sessions.UserRole())
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := cli.auth.Register(cmd.Context(), portal.RegisterRequest{
			FullName: registerName,
			Email:    registerEmail,
			Password: registerPassword,
		})
		if err != nil {
			return err
		}
		fmt.Printf("registered %s, you are now signed in\n", resp.User.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the persisted session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli.auth.Logout(cmd.Context())
		fmt.Println("logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := cli.sessions.Snapshot()
		if !snap.IsAuthenticated || snap.User == nil {
			fmt.Println("not logged in")
			return nil
		}

		fmt.Printf("logged in as %s (%s)\n", snap.User.Email, snap.User.Role)
		remaining := token.TimeUntilExpiry(snap.Token)
		fmt.Printf("token expires in %s\n", remaining.Round(time.Second))
		if token.IsExpiringSoon(snap.Token, cli.cfg.Portal.ExpirySoonThreshold) {
			fmt.Println("token is expiring soon, log in again to refresh it")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVarP(&registerName, "name", "n", "", "Full name")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Account email")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "Account password")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")
}
