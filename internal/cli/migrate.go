package cli

import (
	"context"

	"github.com/spf13/cobra"

	"multab/internal/infra/sqlite"
)

// newMigrateCmd applies the SQLite schema migrations.
func newMigrateCmd(opts *options) *cobra.Command {
	var rollback bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run SQLite store migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), opts, rollback)
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last migration group")
	return cmd
}

func runMigrations(ctx context.Context, opts *options, rollback bool) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	dir, err := dataDir(cfg)
	if err != nil {
		return err
	}
	path := cfg.SQLitePath(dir)

	db, err := sqlite.OpenDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	run, verb := sqlite.Migrate, "applied"
	if rollback {
		run, verb = sqlite.Rollback, "rolled back"
	}
	group, err := run(ctx, db)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.WithField("path", path).Infof("no migrations %s", verb)
		return nil
	}
	log.WithField("path", path).Infof("migrations %s: %s", verb, group)
	return nil
}
