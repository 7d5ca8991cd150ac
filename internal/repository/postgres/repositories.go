package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgExecutor abstracts the pgx surface repositories need, so they run against
// a pool, a transaction, or a mock interchangeably.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles all PostgreSQL-backed repositories.
type Repositories struct {
	Profiles *ProfileRepository
	Runs     *RunRepository
}

// NewRepositories wires every repository against the shared pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Profiles: NewProfileRepository(pool),
		Runs:     NewRunRepository(pool),
	}
}
