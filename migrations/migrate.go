// Package migrations applies the embedded schema files in lexical order.
package migrations

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"concert-ticket-api/internal/pkg/errs"
)

//go:embed *.sql
var files embed.FS

// advisoryLockKey serializes concurrent migrators across instances.
const advisoryLockKey = int64(7245001)

// Apply runs every pending migration inside a session-level advisory lock.
func Apply(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return errs.Wrap(err, "acquire migration connection")
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockKey); err != nil {
		return errs.Wrap(err, "acquire migration lock")
	}
	defer func() {
		_, _ = conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockKey)
	}()

	if _, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`); err != nil {
		return errs.Wrap(err, "ensure schema_migrations")
	}

	names, err := pendingVersions(ctx, conn)
	if err != nil {
		return err
	}

	for _, name := range names {
		sql, err := files.ReadFile(name)
		if err != nil {
			return errs.Wrap(err, "read migration "+name)
		}
		tx, err := conn.Begin(ctx)
		if err != nil {
			return errs.Wrap(err, "begin migration tx")
		}
		if _, err := tx.Exec(ctx, string(sql)); err != nil {
			_ = tx.Rollback(ctx)
			return errs.Wrap(err, "apply migration "+name)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
			_ = tx.Rollback(ctx)
			return errs.Wrap(err, "record migration "+name)
		}
		if err := tx.Commit(ctx); err != nil {
			return errs.Wrap(err, "commit migration "+name)
		}
		logger.Info("migration applied", "version", name)
	}
	return nil
}

func pendingVersions(ctx context.Context, conn *pgxpool.Conn) ([]string, error) {
	applied := make(map[string]struct{})
	rows, err := conn.Query(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, errs.Wrap(err, "list applied migrations")
	}
	defer rows.Close()
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, errs.Wrap(err, "scan migration version")
		}
		applied[v] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(err, "iterate migration versions")
	}

	entries, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, errs.Wrap(err, "glob migration files")
	}
	sort.Strings(entries)

	pending := make([]string, 0, len(entries))
	for _, name := range entries {
		if _, ok := applied[name]; !ok {
			pending = append(pending, name)
		}
	}
	return pending, nil
}
