package cli

import (
	"github.com/spf13/cobra"

	"multab/internal/app"
	"multab/internal/transport/term"
)

func newTableCmd(opts *options) *cobra.Command {
	var user string
	var noColor bool
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print a user's table colored by accuracy",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer e.close()

			repo := e.repository()
			if user == "" {
				user = repo.LoadDirectory(ctx).CurrentUser
			}
			rec := repo.LoadUser(ctx, user)

			r := term.Renderer{Color: e.cfg.Color() && !noColor}
			out := cmd.OutOrStdout()
			r.Grid(out, &rec, app.RoundView{})
			r.Summary(out, &rec)
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "profile to show (default: current user)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	return cmd
}
