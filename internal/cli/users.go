package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"multab/internal/app"
	"multab/internal/transport/term"
)

func newUsersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage profiles",
	}
	cmd.AddCommand(newUsersListCmd(opts))
	cmd.AddCommand(newUsersActionCmd(opts, "add <name>", "Create a profile and make it current",
		func(name string) app.Event { return app.CreateUser{Name: name} }))
	cmd.AddCommand(newUsersActionCmd(opts, "switch <name>", "Make an existing profile current",
		func(name string) app.Event { return app.SelectUser{Name: name} }))
	cmd.AddCommand(newUsersActionCmd(opts, "rename <new-name>", "Rename the current profile",
		func(name string) app.Event { return app.RenameCurrent{Name: name} }))
	return cmd
}

func newUsersListCmd(opts *options) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List profiles; the current one is starred",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer e.close()

			repo := e.repository()
			dir := repo.LoadDirectory(ctx)
			out := cmd.OutOrStdout()
			if !stats {
				term.Renderer{}.Users(out, dir)
				return nil
			}

			recs, err := repo.Profiles(ctx, dir.AllUsers)
			if err != nil {
				return err
			}
			for _, rec := range recs {
				mark := " "
				if rec.Name == dir.CurrentUser {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %-20s %s\n", mark, rec.Name, term.SummaryLine(rec.Summary()))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "show per-profile statistics")
	return cmd
}

func newUsersActionCmd(opts *options, use, short string, event func(string) app.Event) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer e.close()

			if err := e.dispatch(ctx, event(args[0])); err != nil {
				return err
			}
			dir := e.repository().LoadDirectory(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "current user: %s\n", dir.CurrentUser)
			return nil
		},
	}
}
