package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/jhoicas/shopify-profit-api/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica las migraciones embebidas pendientes. sql-migrate trabaja sobre *sql.DB,
// así que se abre un *sql.DB prestado del pool de pgx.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	src := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationsFS,
		Root:       "migrations",
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	type result struct {
		n   int
		err error
	}
	done := make(chan result, 1)
	go func() {
		n, err := migrate.Exec(db, "postgres", src, migrate.Up)
		done <- result{n: n, err: err}
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("migraciones: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return fmt.Errorf("migraciones: %w", res.err)
		}
		log.Info().Int("aplicadas", res.n).Msg("migraciones al día")
		return nil
	}
}
