package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"regwatch/internal/regulation/models"
	"regwatch/pkg/domain"
	"regwatch/pkg/platform/sentinel"
)

// PostgresStore persists regulations in PostgreSQL. Display order is newest
// first by dateCreated, id as tiebreaker so pagination stays stable.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing connection pool.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS regulations (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL,
	type         TEXT NOT NULL DEFAULT '',
	date_created TIMESTAMPTZ NOT NULL,
	reference    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS regulations_status_idx ON regulations (status);
`

// Migrate creates the regulations table. Idempotent; demo deployments and
// integration tests call it on startup.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate regulations schema: %w", err)
	}
	return nil
}

const listFilter = `($1 = '' OR status = $1)
	AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')`

func (s *PostgresStore) List(ctx context.Context, q models.ListQuery) ([]domain.Regulation, int, error) {
	q = q.Normalize()

	var total int
	countSQL := "SELECT count(*) FROM regulations WHERE " + listFilter
	if err := s.pool.QueryRow(ctx, countSQL, q.Status, q.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count regulations: %w", err)
	}

	pageSQL := `SELECT id, title, description, status, type, date_created, reference
		FROM regulations WHERE ` + listFilter + `
		ORDER BY date_created DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := s.pool.Query(ctx, pageSQL, q.Status, q.Search, q.Limit, q.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list regulations: %w", err)
	}
	defer rows.Close()

	var regs []domain.Regulation
	for rows.Next() {
		var reg domain.Regulation
		if err := rows.Scan(&reg.ID, &reg.Title, &reg.Description, &reg.Status, &reg.Type, &reg.DateCreated, &reg.Reference); err != nil {
			return nil, 0, fmt.Errorf("scan regulation: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate regulations: %w", err)
	}
	return regs, total, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (domain.Regulation, error) {
	var reg domain.Regulation
	err := s.pool.QueryRow(ctx,
		`SELECT id, title, description, status, type, date_created, reference
		FROM regulations WHERE id = $1`, id,
	).Scan(&reg.ID, &reg.Title, &reg.Description, &reg.Status, &reg.Type, &reg.DateCreated, &reg.Reference)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Regulation{}, sentinel.ErrNotFound
		}
		return domain.Regulation{}, fmt.Errorf("get regulation: %w", err)
	}
	return reg, nil
}

func (s *PostgresStore) Create(ctx context.Context, reg domain.Regulation) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO regulations (id, title, description, status, type, date_created, reference)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reg.ID, reg.Title, reg.Description, reg.Status, reg.Type, reg.DateCreated, reg.Reference,
	)
	if err != nil {
		return fmt.Errorf("create regulation: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus, _ string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE regulations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update regulation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context) (domain.StatusCounts, error) {
	rows, err := s.pool.Query(ctx, `SELECT status, count(*) FROM regulations GROUP BY status`)
	if err != nil {
		return domain.StatusCounts{}, fmt.Errorf("count regulations by status: %w", err)
	}
	defer rows.Close()

	counts := domain.StatusCounts{ByStatus: make(map[domain.ReviewStatus]int)}
	for rows.Next() {
		var status domain.ReviewStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return domain.StatusCounts{}, fmt.Errorf("scan status count: %w", err)
		}
		counts.ByStatus[status] = n
		counts.Total += n
	}
	if err := rows.Err(); err != nil {
		return domain.StatusCounts{}, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}
