package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/codeup/statio-portal/internal/api"
	"github.com/codeup/statio-portal/internal/guard"
	"github.com/codeup/statio-portal/internal/portal"
	"github.com/codeup/statio-portal/internal/session"
	"github.com/codeup/statio-portal/pkg/config"
	"github.com/codeup/statio-portal/pkg/enums"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/storage"
)

// app wires the shared client stack once per invocation. Commands reach it
// through the package-level cli set by the root PersistentPreRunE.
type app struct {
	cfg      *config.Config
	logg     *logger.Logger
	sessions *session.Store
	auth     *portal.AuthService
	user     *portal.UserService
	admin    *portal.AdminService
}

var cli *app

var rootCmd = &cobra.Command{
	Use:           "portal",
	Short:         "Statio parking portal client",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cli, err = newApp(cmd.Context())
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logg := logger.New(logger.Options{
		ServiceName: "portal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      os.Stderr,
	})

	store, err := storage.NewFile(cfg.Portal.StateDir)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(session.Params{Storage: store, Logger: logg})

	client := api.New(api.Params{
		BaseURL:   cfg.Portal.BaseURL,
		Timeout:   cfg.Portal.RequestTimeout,
		Storage:   store,
		Sessions:  sessions,
		Navigator: terminalNavigator{},
		Logger:    logg,
	})

	sessions.InitAuth(ctx)

	return &app{
		cfg:      cfg,
		logg:     logg,
		sessions: sessions,
		auth:     portal.NewAuthService(client, sessions, logg),
		user:     portal.NewUserService(client),
		admin:    portal.NewAdminService(client),
	}, nil
}

// terminalNavigator maps redirect decisions onto CLI hints.
type terminalNavigator struct{}

func (terminalNavigator) AtLogin() bool { return false }

func (terminalNavigator) ToLogin() {
	fmt.Fprintln(os.Stderr, "session expired, run 'portal login' to sign in again")
}

func (terminalNavigator) ToHome(role enums.Role) {
	fmt.Fprintf(os.Stderr, "your role is %s, use its own commands instead\n", role)
}

// requireRole runs the same authorization check a guarded view would before a
// command touches the API.
func (a *app) requireRole(ctx context.Context, roles ...enums.Role) error {
	g := guard.New(guard.Params{
		Session:   a.sessions,
		Allowed:   roles,
		Navigator: terminalNavigator{},
		Logger:    a.logg,
	})
	switch g.Check(ctx) {
	case guard.Allow:
		return nil
	case guard.RedirectLogin:
		return errors.New("not logged in")
	default:
		return errors.New("not authorized")
	}
}

func printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(spotsCmd)
	rootCmd.AddCommand(reserveCmd)
	rootCmd.AddCommand(reservationsCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(checkInCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(feeCmd)
	rootCmd.AddCommand(checkOutCmd)
	rootCmd.AddCommand(billsCmd)
	rootCmd.AddCommand(adminCmd)
}
