package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"sudsy/internal/sentinel"
	"sudsy/internal/tenant/models"
	id "sudsy/pkg/domain"
	"sudsy/pkg/platform/tx"
)

// Postgres persists tenants in PostgreSQL. Uniqueness of slug and custom
// domain is enforced by database constraints.
type Postgres struct {
	db *sql.DB
}

// NewPostgres creates a PostgreSQL-backed tenant store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const tenantColumns = `id, slug, name, custom_domain, status, created_at, updated_at`

func (s *Postgres) CreateIfSlugAvailable(ctx context.Context, t *models.Tenant) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO tenants (id, slug, name, custom_domain, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID.String(), t.Slug, t.Name, t.CustomDomain, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tenant slug must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, tenantID.String())
	return scanTenant(row)
}

func (s *Postgres) FindBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug)
	return scanTenant(row)
}

func (s *Postgres) FindByCustomDomain(ctx context.Context, domain string) (*models.Tenant, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE custom_domain = $1`, domain)
	return scanTenant(row)
}

func (s *Postgres) Update(ctx context.Context, t *models.Tenant) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE tenants SET name = $2, status = $3, updated_at = $4
		WHERE id = $1`,
		t.ID.String(), t.Name, t.Status, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update tenant: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) SetCustomDomain(ctx context.Context, tenantID id.TenantID, domain string) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE tenants SET custom_domain = $2, updated_at = now()
		WHERE id = $1`,
		tenantID.String(), domain,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("custom domain must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("set custom domain: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) ClearCustomDomain(ctx context.Context, tenantID id.TenantID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE tenants SET custom_domain = NULL, updated_at = now()
		WHERE id = $1`,
		tenantID.String(),
	)
	if err != nil {
		return fmt.Errorf("clear custom domain: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var n int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM tenants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tenants: %w", err)
	}
	return n, nil
}

func scanTenant(row *sql.Row) (*models.Tenant, error) {
	var (
		t     models.Tenant
		rawID string
	)
	err := row.Scan(&rawID, &t.Slug, &t.Name, &t.CustomDomain, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	tenantID, err := id.ParseTenantID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan tenant id: %w", err)
	}
	t.ID = tenantID
	return &t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
