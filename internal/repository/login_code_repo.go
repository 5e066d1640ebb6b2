package repository

import (
	"context"
	"time"

	"tryhup-api/internal/domain"
)

// LoginCodeRepository persiste los códigos de acceso de un solo uso.
type LoginCodeRepository interface {
	// LockEmail serializa emisión y verificación por email hasta el fin de la transacción.
	LockEmail(ctx context.Context, email string) error
	InvalidateUnused(ctx context.Context, email string) (int64, error)
	Create(ctx context.Context, code domain.LoginCode) error
	LatestValid(ctx context.Context, email string, now time.Time) (domain.LoginCode, error)
	MarkUsed(ctx context.Context, id string) error
}

type PgLoginCodeRepository struct {
	db DB
}

func NewPgLoginCodeRepository(db DB) *PgLoginCodeRepository {
	return &PgLoginCodeRepository{db: db}
}

func (r *PgLoginCodeRepository) LockEmail(ctx context.Context, email string) error {
	_, err := conn(ctx, r.db).Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "login_code:"+email)
	return err
}

func (r *PgLoginCodeRepository) InvalidateUnused(ctx context.Context, email string) (int64, error) {
	const query = `UPDATE login_codes SET used = TRUE WHERE email = $1 AND used = FALSE`
	tag, err := conn(ctx, r.db).Exec(ctx, query, email)
	if err != nil {
		return 0, translateErr(err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgLoginCodeRepository) Create(ctx context.Context, code domain.LoginCode) error {
	const query = `
		INSERT INTO login_codes (id, email, code_hash, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := conn(ctx, r.db).Exec(ctx, query,
		code.ID,
		code.Email,
		code.CodeHash,
		code.ExpiresAt,
		code.Used,
		code.CreatedAt,
	)
	return translateErr(err)
}

func (r *PgLoginCodeRepository) LatestValid(ctx context.Context, email string, now time.Time) (domain.LoginCode, error) {
	const query = `
		SELECT id, email, code_hash, expires_at, used, created_at
		FROM login_codes
		WHERE email = $1 AND used = FALSE AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`
	var c domain.LoginCode
	err := conn(ctx, r.db).QueryRow(ctx, query, email, now).Scan(
		&c.ID,
		&c.Email,
		&c.CodeHash,
		&c.ExpiresAt,
		&c.Used,
		&c.CreatedAt,
	)
	if err != nil {
		return domain.LoginCode{}, translateErr(err)
	}
	return c, nil
}

func (r *PgLoginCodeRepository) MarkUsed(ctx context.Context, id string) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE login_codes SET used = TRUE WHERE id = $1 AND used = FALSE`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
