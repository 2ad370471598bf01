// Package cli implements the portal terminal client. Its command tree
// mirrors the portal's screens: public commands, the student dashboard and
// the admin dashboard, the latter two behind the authorization gate.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/authz"
	"github.com/nsda/portal/internal/config"
	"github.com/nsda/portal/internal/logger"
	"github.com/nsda/portal/internal/service"
	"github.com/nsda/portal/internal/session"
	"github.com/nsda/portal/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var (
	// ErrNotLoggedIn is returned by guarded commands without a session.
	ErrNotLoggedIn = errors.New("not logged in: run `portal login`")
	// ErrAccessDenied is returned by guarded commands when the role does not fit.
	ErrAccessDenied = errors.New("access denied")
)

// Execute runs the CLI.
func Execute() int {
	rootCmd, a := newRoot()
	defer a.close()

	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) {
				errObj["http_status"] = apiErr.Status
			}
			_ = PrintJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// app is the state shared by every command of one invocation. The session,
// client and services are built on first use so that commands like version
// never touch storage.
type app struct {
	host     string
	output   string
	profile  string
	logLevel string

	cfg   *config.Config
	log   zerolog.Logger
	store *session.Store
	api   *apiclient.Client
	svc   *service.Services
	gate  *authz.Gate
	stdin *bufio.Reader

	ready   bool
	closers []func() error
}

func newRootCmd() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *app) {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "portal",
		Short:         "NSDA learning portal client",
		Long:          "Command-line client for the NSDA learning portal: tasks, announcements, attendance and the admin dashboard.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				// Config file is optional
				cfg = emptyUserConfig()
			}

			p := cfg.ActiveProfile(a.profile)

			// Apply precedence: flag > env > profile > default.
			// An empty host falls back to config.Load in ensure.
			if !cmd.Flags().Changed("host") && os.Getenv("PORTAL_API_URL") == "" {
				a.host = p.Host
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("PORTAL_OUTPUT"); v != "" {
					a.output = v
				} else if p.Output != "" {
					a.output = p.Output
				}
				_ = cmd.Root().PersistentFlags().Set("output", a.output)
			}
			if !cmd.Flags().Changed("log-level") {
				if v := os.Getenv("LOG_LEVEL"); v != "" {
					a.logLevel = v
				}
			}

			return validateOutputFormat(a.output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.host, "host", "", "Portal API base URL (default $PORTAL_API_URL or http://localhost:8080/api)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "Output format (table, json)")
	rootCmd.PersistentFlags().StringVarP(&a.profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level written to stderr")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd(a))
	rootCmd.AddCommand(newSignupCmd(a))
	rootCmd.AddCommand(newLogoutCmd(a))
	rootCmd.AddCommand(newWhoamiCmd(a))
	rootCmd.AddCommand(newDashboardCmd(a))
	rootCmd.AddCommand(newAdminCmd(a))

	return rootCmd, a
}

// ensure builds the session store, API client, services and gate.
func (a *app) ensure(cmd *cobra.Command) error {
	if a.ready {
		return nil
	}
	ctx := cmd.Context()

	a.cfg = config.Load()
	a.log = logger.SetupWriter(cmd.ErrOrStderr(), a.logLevel, a.cfg.LogFormat)
	if a.host == "" {
		a.host = a.cfg.APIURL
	}

	kv, err := a.openStorage(cmd)
	if err != nil {
		return err
	}

	a.store = session.NewStore(kv, a.log)
	if err := a.store.Restore(ctx); err != nil {
		a.log.Warn().Err(err).Msg("Could not restore session, continuing signed out")
	}

	store, log := a.store, a.log
	a.api = apiclient.New(a.host, a.store,
		apiclient.WithTimeout(a.cfg.RequestTimeout),
		apiclient.WithLogger(a.log),
		apiclient.WithUnauthorizedHandler(func(ctx context.Context) {
			if store.IsAuthenticated() {
				log.Warn().Msg("Session rejected by the backend, signing out")
				_ = store.Logout(ctx)
			}
		}),
	)
	a.svc = service.New(a.api, a.store)
	a.gate = authz.NewGate(a.store, func(msg string) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), msg)
	}, a.log)

	a.ready = true
	return nil
}

func (a *app) openStorage(cmd *cobra.Command) (storage.KV, error) {
	switch a.cfg.SessionBackend {
	case config.SessionBackendFile, "":
		return storage.NewFileStore(a.cfg.StateDir), nil
	case config.SessionBackendRedis:
		rdb, err := storage.NewRedisClient(cmd.Context(), a.cfg.RedisURL, a.log)
		if err != nil {
			return nil, fmt.Errorf("open session storage: %w", err)
		}
		a.closers = append(a.closers, rdb.Close)
		namespace := a.profile
		if namespace == "" {
			namespace = "default"
		}
		return storage.NewRedisStore(rdb, namespace), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q: use %s or %s",
			a.cfg.SessionBackend, config.SessionBackendFile, config.SessionBackendRedis)
	}
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
}

// run wraps a command body that needs the client but no particular session.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.ensure(cmd); err != nil {
			return err
		}
		return fn(cmd, args)
	}
}

// guarded wraps a command body behind the authorization gate for path. The
// body runs only when the gate admits the session.
func (a *app) guarded(path string, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.ensure(cmd); err != nil {
			return err
		}
		d, err := a.gate.EnterPath(path, func() error { return fn(cmd, args) })
		if err != nil {
			return err
		}
		switch d.State {
		case authz.Unauthenticated:
			return ErrNotLoggedIn
		case authz.WrongRole:
			return fmt.Errorf("%w: redirected to %s", ErrAccessDenied, d.Redirect)
		}
		return nil
	}
}
