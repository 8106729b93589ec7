package migrations

import (
	"context"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

const createProfilesSQL = `
CREATE TABLE IF NOT EXISTS profiles (
    name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS score_cells (
    profile TEXT NOT NULL,
    "row" INTEGER NOT NULL,
    "col" INTEGER NOT NULL,
    tries INTEGER NOT NULL DEFAULT 0,
    correct INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (profile, "row", "col")
);

CREATE TABLE IF NOT EXISTS directory_users (
    position INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS directory_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    "current_user" TEXT NOT NULL
);
`

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, createProfilesSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `
DROP TABLE IF EXISTS directory_state;
DROP TABLE IF EXISTS directory_users;
DROP TABLE IF EXISTS score_cells;
DROP TABLE IF EXISTS profiles;
`)
			return err
		},
	)
}
