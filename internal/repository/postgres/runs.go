package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/port"
	"github.com/ludaimi/passforge/internal/repository"
)

// RunRepository implements port.RunRepository using PostgreSQL.
type RunRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRunRepository wires a PostgreSQL-backed provisioning run repository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var runColumns = []string{
	"id",
	"profile_id",
	"profile_name",
	"identities",
	"requested_by",
	"created_at",
}

// Create inserts a run audit record.
func (r *RunRepository) Create(ctx context.Context, run domain.ProvisioningRun) error {
	query := r.builder.Insert("passforge.provisioning_runs").
		Columns(runColumns...).
		Values(
			run.ID,
			run.ProfileID,
			run.ProfileName,
			run.Identities,
			run.RequestedBy,
			run.CreatedAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert run sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// GetByID retrieves a run audit record by identifier.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.ProvisioningRun, error) {
	stmt, args, err := r.builder.
		Select(runColumns...).
		From("passforge.provisioning_runs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select run sql: %w", err)
	}

	var run domain.ProvisioningRun
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&run.ID,
		&run.ProfileID,
		&run.ProfileName,
		&run.Identities,
		&run.RequestedBy,
		&run.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select run: %w", err)
	}

	return &run, nil
}

// ListByProfile returns the most recent runs for a profile.
func (r *RunRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]domain.ProvisioningRun, error) {
	if limit <= 0 {
		limit = 50
	}

	stmt, args, err := r.builder.
		Select(runColumns...).
		From("passforge.provisioning_runs").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list runs sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ProvisioningRun
	for rows.Next() {
		var run domain.ProvisioningRun
		if err := rows.Scan(
			&run.ID,
			&run.ProfileID,
			&run.ProfileName,
			&run.Identities,
			&run.RequestedBy,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}

var _ port.RunRepository = (*RunRepository)(nil)
