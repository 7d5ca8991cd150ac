package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ludaimi/passforge/internal/core/domain"
	"github.com/ludaimi/passforge/internal/core/port"
	"github.com/ludaimi/passforge/internal/repository"
)

// ProfileRepository implements port.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewProfileRepository wires a PostgreSQL-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ProfileRepository) WithTx(tx pgx.Tx) *ProfileRepository {
	if tx == nil {
		return r
	}
	return &ProfileRepository{
		pool:    r.pool,
		exec:    tx,
		builder: r.builder,
	}
}

var profileColumns = []string{
	"id",
	"name",
	"description",
	"rules",
	"min_length",
	"max_length",
	"excluded_patterns",
	"case_sensitive_patterns",
	"created_at",
	"updated_at",
}

// Create inserts a new profile row.
func (r *ProfileRepository) Create(ctx context.Context, profile domain.Profile) error {
	rules, err := json.Marshal(profile.Rules)
	if err != nil {
		return fmt.Errorf("marshal profile rules: %w", err)
	}

	query := r.builder.Insert("passforge.profiles").
		Columns(profileColumns...).
		Values(
			profile.ID,
			profile.Name,
			profile.Description,
			rules,
			profile.MinLength,
			profile.MaxLength,
			profile.ExcludedPatterns,
			profile.CaseSensitivePatterns,
			profile.CreatedAt,
			profile.UpdatedAt,
		)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert profile sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

// GetByID retrieves a profile by identifier.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a profile by its unique name.
func (r *ProfileRepository) GetByName(ctx context.Context, name string) (*domain.Profile, error) {
	return r.getBy(ctx, squirrel.Eq{"name": name})
}

func (r *ProfileRepository) getBy(ctx context.Context, where squirrel.Eq) (*domain.Profile, error) {
	stmt, args, err := r.builder.
		Select(profileColumns...).
		From("passforge.profiles").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select profile sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select profile: %w", err)
	}

	return profile, nil
}

// List returns all profiles ordered by name.
func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	stmt, args, err := r.builder.
		Select(profileColumns...).
		From("passforge.profiles").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list profiles sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}

// Update rewrites the mutable fields of an existing profile.
func (r *ProfileRepository) Update(ctx context.Context, profile domain.Profile) error {
	rules, err := json.Marshal(profile.Rules)
	if err != nil {
		return fmt.Errorf("marshal profile rules: %w", err)
	}

	stmt, args, err := r.builder.
		Update("passforge.profiles").
		Set("name", profile.Name).
		Set("description", profile.Description).
		Set("rules", rules).
		Set("min_length", profile.MinLength).
		Set("max_length", profile.MaxLength).
		Set("excluded_patterns", profile.ExcludedPatterns).
		Set("case_sensitive_patterns", profile.CaseSensitivePatterns).
		Set("updated_at", profile.UpdatedAt).
		Where(squirrel.Eq{"id": profile.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update profile sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a profile by identifier.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("passforge.profiles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete profile sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var (
		profile  domain.Profile
		rawRules []byte
	)

	if err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Description,
		&rawRules,
		&profile.MinLength,
		&profile.MaxLength,
		&profile.ExcludedPatterns,
		&profile.CaseSensitivePatterns,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(rawRules) > 0 {
		if err := json.Unmarshal(rawRules, &profile.Rules); err != nil {
			return nil, fmt.Errorf("unmarshal profile rules: %w", err)
		}
	}

	return &profile, nil
}

var _ port.ProfileRepository = (*ProfileRepository)(nil)
