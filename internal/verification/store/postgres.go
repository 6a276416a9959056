package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"sudsy/internal/sentinel"
	"sudsy/internal/verification/models"
	id "sudsy/pkg/domain"
	"sudsy/pkg/platform/tx"
)

// Postgres persists domain claims in PostgreSQL, keyed by the unique domain
// column.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const claimColumns = `domain, tenant_id, verification_token, cname_target, status,
	verification_method, check_count, last_checked_at, failure_reason, verified_at,
	created_at, updated_at`

func (s *Postgres) Upsert(ctx context.Context, claim *models.DomainVerification) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO domain_verifications
			(domain, tenant_id, verification_token, cname_target, status,
			 verification_method, check_count, last_checked_at, failure_reason, verified_at,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (domain) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			verification_token = EXCLUDED.verification_token,
			cname_target = EXCLUDED.cname_target,
			status = EXCLUDED.status,
			verification_method = EXCLUDED.verification_method,
			check_count = EXCLUDED.check_count,
			last_checked_at = EXCLUDED.last_checked_at,
			failure_reason = EXCLUDED.failure_reason,
			verified_at = EXCLUDED.verified_at,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`,
		claim.Domain, claim.TenantID.String(), claim.Token, claim.CNAMETarget, claim.Status,
		nullString(string(claim.Method)), claim.CheckCount, claim.LastCheckedAt,
		nullString(claim.FailureReason), claim.VerifiedAt, claim.CreatedAt, claim.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("claim domain must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("upsert claim: %w", err)
	}
	return nil
}

func (s *Postgres) FindByDomain(ctx context.Context, domain string) (*models.DomainVerification, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+claimColumns+` FROM domain_verifications WHERE domain = $1`, domain)
	return scanClaim(row)
}

func (s *Postgres) FindByTenant(ctx context.Context, tenantID id.TenantID) (*models.DomainVerification, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+claimColumns+` FROM domain_verifications
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT 1`, tenantID.String())
	return scanClaim(row)
}

func (s *Postgres) Update(ctx context.Context, claim *models.DomainVerification) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE domain_verifications SET
			status = $2, verification_method = $3, check_count = $4,
			last_checked_at = $5, failure_reason = $6, verified_at = $7, updated_at = $8
		WHERE domain = $1`,
		claim.Domain, claim.Status, nullString(string(claim.Method)), claim.CheckCount,
		claim.LastCheckedAt, nullString(claim.FailureReason), claim.VerifiedAt, claim.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update claim: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, domain string) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM domain_verifications WHERE domain = $1`, domain)
	if err != nil {
		return fmt.Errorf("delete claim: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) ListPending(ctx context.Context, limit, maxChecks int) ([]*models.DomainVerification, error) {
	q := tx.QuerierFrom(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+claimColumns+` FROM domain_verifications
		WHERE status = 'pending' AND check_count < $2
		ORDER BY created_at ASC
		LIMIT $1`, limit, maxChecks)
	if err != nil {
		return nil, fmt.Errorf("list pending claims: %w", err)
	}
	defer rows.Close()

	var out []*models.DomainVerification
	for rows.Next() {
		claim, err := scanClaimRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, claim)
	}
	return out, rows.Err()
}

func (s *Postgres) CountPending(ctx context.Context, maxChecks int) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT count(*) FROM domain_verifications
		WHERE status = 'pending' AND check_count < $1`, maxChecks).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending claims: %w", err)
	}
	return n, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanClaim(row *sql.Row) (*models.DomainVerification, error) {
	claim, err := scanClaimRows(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return claim, err
}

func scanClaimRows(row scannable) (*models.DomainVerification, error) {
	var (
		c             models.DomainVerification
		rawTenantID   string
		method        sql.NullString
		failureReason sql.NullString
	)
	err := row.Scan(&c.Domain, &rawTenantID, &c.Token, &c.CNAMETarget, &c.Status,
		&method, &c.CheckCount, &c.LastCheckedAt, &failureReason, &c.VerifiedAt,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	tenantID, err := id.ParseTenantID(rawTenantID)
	if err != nil {
		return nil, fmt.Errorf("scan claim tenant id: %w", err)
	}
	c.TenantID = tenantID
	c.Method = models.Method(method.String)
	c.FailureReason = failureReason.String
	return &c, nil
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

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
