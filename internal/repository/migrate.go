package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/repository/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// gooseUp and gooseDown are seams for tests.
var (
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.UpContext(ctx, db, dir)
	}
	gooseDown = func(ctx context.Context, db *sql.DB, dir string) error {
		return goose.DownContext(ctx, db, dir)
	}
)

// MigrateUp applies all pending embedded migrations.
func MigrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	return runMigrations(ctx, pool, gooseUp)
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	return runMigrations(ctx, pool, gooseDown)
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, run func(context.Context, *sql.DB, string) error) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := run(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
