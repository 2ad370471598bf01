package cli

import (
	"fmt"
	"io"

	"github.com/nsda/portal/internal/authz"
	"github.com/nsda/portal/internal/model"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long:  "Sign in with email and password. The password is read from the terminal without echo, or from the first line of stdin when piped.",
		Example: `  portal login --email ada@example.com
  echo "$PASSWORD" | portal login --email ada@example.com`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			addr, err := a.prompt(cmd, "Email: ", email)
			if err != nil {
				return err
			}
			password, err := a.readSecret(cmd, "Password: ")
			if err != nil {
				return err
			}

			user, err := a.svc.Auth.Login(cmd.Context(), addr, password)
			if err != nil {
				return err
			}

			landing := authz.LandingFor(user.Role)
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(cmd.OutOrStdout(), map[string]any{"user": user, "landing": landing})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s). Landing page: %s\n", user.Name, user.Role, landing)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	return cmd
}

func newSignupCmd(a *app) *cobra.Command {
	var form model.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a student account",
		Long:  "Create an account. The password and its confirmation are prompted; a mismatch is reported before anything is sent.",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			var err error
			if form.Name, err = a.prompt(cmd, "Name: ", form.Name); err != nil {
				return err
			}
			if form.Email, err = a.prompt(cmd, "Email: ", form.Email); err != nil {
				return err
			}
			if form.Password, err = a.readSecret(cmd, "Password: "); err != nil {
				return err
			}
			if form.ConfirmPassword, err = a.readSecret(cmd, "Confirm password: "); err != nil {
				return err
			}

			if err := a.svc.Auth.Register(cmd.Context(), form); err != nil {
				return err
			}
			return printOK(cmd, "Account created. Run `portal login` to sign in.", map[string]string{"email": form.Email})
		}),
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Full name (prompted when omitted)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Account email (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			if err := a.svc.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			return printOK(cmd, "Signed out.", nil)
		}),
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, _ []string) error {
			s := a.store.Snapshot()
			if !s.Authenticated() {
				return ErrNotLoggedIn
			}
			u := s.User
			landing := authz.LandingFor(u.Role)
			return render(cmd, map[string]any{"user": u, "landing": landing}, func(w io.Writer) {
				PrintDetail(w, map[string]string{
					"id":      u.ID,
					"name":    u.Name,
					"email":   orDash(u.Email),
					"role":    u.Role.String(),
					"track":   orDash(u.Track),
					"landing": landing,
				})
			})
		}),
	}
}
