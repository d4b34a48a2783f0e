package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/spf13/cobra"
)

func printIdentity(w io.Writer, id *api.Identity) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "owner key:\t%s\n", id.OwnerKey)
	fmt.Fprintf(tw, "login id:\t%s\n", id.LoginID)
	fmt.Fprintf(tw, "name:\t%s\n", id.DisplayName)
	fmt.Fprintf(tw, "gender:\t%s\n", id.Gender)
	fmt.Fprintf(tw, "phone:\t%s\n", id.Phone)
	fmt.Fprintf(tw, "email:\t%s\n", id.Email)
	_ = tw.Flush()
}

func newUsersCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage identities",
	}
	cmd.AddCommand(newUsersListCmd(app))
	cmd.AddCommand(newUsersGetCmd(app))
	cmd.AddCommand(newUsersUpdateCmd(app))
	cmd.AddCommand(newUsersDeleteCmd(app))
	return cmd
}

func newUsersListCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all identities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			return a.call(cmd.Context(), func(ctx context.Context) error {
				list, err := a.client.ListIdentities(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "OWNER KEY\tLOGIN ID\tNAME\tPHONE\tEMAIL")
				for _, id := range list {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id.OwnerKey, id.LoginID, id.DisplayName, id.Phone, id.Email)
				}
				return tw.Flush()
			})
		},
	}
}

func newUsersGetCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <owner-key>",
		Short: "Show one identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			return a.call(cmd.Context(), func(ctx context.Context) error {
				id, err := a.client.GetIdentity(ctx, args[0])
				if err != nil {
					return err
				}
				printIdentity(a.out, id)
				return nil
			})
		},
	}
}

// newUsersUpdateCmd changes only the fields given as flags; the rest are
// sent back as currently stored.
func newUsersUpdateCmd(app func() *App) *cobra.Command {
	var f identityFlags
	cmd := &cobra.Command{
		Use:   "update <owner-key>",
		Short: "Update your own identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			return a.call(cmd.Context(), func(ctx context.Context) error {
				current, err := a.client.GetIdentity(ctx, args[0])
				if err != nil {
					return err
				}
				req := &api.UpdateIdentityRequest{
					OwnerKey:    args[0],
					DisplayName: current.DisplayName,
					Gender:      current.Gender,
					Phone:       current.Phone,
					Email:       current.Email,
				}
				flags := cmd.Flags()
				if flags.Changed("name") {
					req.DisplayName = f.name
				}
				if flags.Changed("gender") {
					req.Gender = f.gender
				}
				if flags.Changed("phone") {
					req.Phone = f.phone
				}
				if flags.Changed("email") {
					req.Email = f.email
				}

				id, err := a.client.UpdateIdentity(ctx, req)
				if err != nil {
					return err
				}
				printIdentity(a.out, id)
				return nil
			})
		},
	}
	f.bind(cmd)
	return cmd
}

func newUsersDeleteCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <owner-key>",
		Short: "Delete your own identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			return a.call(cmd.Context(), func(ctx context.Context) error {
				if err := a.client.DeleteIdentity(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
