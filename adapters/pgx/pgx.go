// Package pgx implements core.Storage on top of PostgreSQL via a pgx
// connection pool. Username uniqueness and the combined credential
// update both lean on the database: the unique index rejects concurrent
// duplicate inserts, and every update here is a single statement, so the
// reset path can never be observed half-applied.
package pgx

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/linkvault-app/linkvault/adapters/pgx/migrations"
	"github.com/linkvault-app/linkvault/core"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ core.Storage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}

// RunMigrations applies the embedded goose migrations. Runs over a
// short-lived database/sql connection since goose does not speak
// pgxpool.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
