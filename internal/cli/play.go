package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"multab/internal/transport/term"
)

// newPlayCmd starts the interactive trainer.
func newPlayCmd(opts *options) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Practice interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := setup(ctx, opts)
			if err != nil {
				return err
			}
			defer e.close()

			color := e.cfg.Color() && !noColor
			p := term.NewPresenter(e.runtime(), cmd.InOrStdin(), cmd.OutOrStdout(), color, e.log)
			return p.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable ANSI colors")
	return cmd
}
