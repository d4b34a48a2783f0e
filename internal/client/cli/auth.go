package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/spf13/cobra"
)

type identityFlags struct {
	name   string
	gender string
	phone  string
	email  string
}

func (f *identityFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.gender, "gender", "", "gender")
	cmd.Flags().StringVar(&f.phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.email, "email", "", "email address (empty to clear on update)")
}

// loginArg returns the login id from args, prompting when absent.
func (a *App) loginArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, "Login id", a.out)
}

func newRegisterCmd(app func() *App) *cobra.Command {
	var f identityFlags
	cmd := &cobra.Command{
		Use:   "register [login-id]",
		Short: "Create a new identity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			loginID, err := a.loginArg(args)
			if err != nil {
				return err
			}
			if f.phone == "" {
				if f.phone, err = getSimpleText(a.reader, "Phone", a.out); err != nil {
					return err
				}
			}
			password, err := getPassword(a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			return a.call(cmd.Context(), func(ctx context.Context) error {
				id, err := a.client.Register(ctx, &api.RegisterRequest{
					LoginID:     loginID,
					Password:    string(password),
					DisplayName: f.name,
					Gender:      f.gender,
					Phone:       f.phone,
					Email:       f.email,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Registered %s (%s)\n", id.LoginID, id.OwnerKey)
				return nil
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newLoginCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login [login-id]",
		Short: "Start a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			loginID, err := a.loginArg(args)
			if err != nil {
				return err
			}
			password, err := getPassword(a.out)
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			return a.call(cmd.Context(), func(ctx context.Context) error {
				resp, err := a.client.Login(ctx, loginID, password)
				if err != nil {
					return err
				}
				name := resp.DisplayName
				if name == "" {
					name = resp.LoginID
				}
				fmt.Fprintf(a.out, "Logged in as %s\n", name)
				return nil
			})
		},
	}
}

func newRefreshCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Get a new access token for the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			return a.call(cmd.Context(), func(ctx context.Context) error {
				if err := a.client.Refresh(ctx); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Access token refreshed")
				return nil
			})
		},
	}
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			return a.call(cmd.Context(), func(ctx context.Context) error {
				if err := a.client.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(a.out, "Logged out")
				return nil
			})
		},
	}
}

func newMeCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the identity of the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			return a.call(cmd.Context(), func(ctx context.Context) error {
				id, err := a.client.Me(ctx)
				if err != nil {
					return err
				}
				printIdentity(a.out, id)
				return nil
			})
		},
	}
}
