package repository

import (
	"context"

	"tryhup-api/internal/domain"
)

type VerificationRepository interface {
	Create(ctx context.Context, v domain.VerificationRequest) error
	GetByID(ctx context.Context, id string) (domain.VerificationRequest, error)
	GetByIDForUpdate(ctx context.Context, id string) (domain.VerificationRequest, error)
	GetByUserID(ctx context.Context, userID string) (domain.VerificationRequest, error)
	UpdateReview(ctx context.Context, v domain.VerificationRequest) error
	ListByStatus(ctx context.Context, status domain.VerificationStatus) ([]domain.VerificationRequest, error)
}

type PgVerificationRepository struct {
	db DB
}

func NewPgVerificationRepository(db DB) *PgVerificationRepository {
	return &PgVerificationRepository{db: db}
}

const verificationColumns = `id, user_id, category, degree_title, professional_register,
	identity_document_path, degree_document_path, register_document_path,
	status, admin_note, created_at, reviewed_at`

func (r *PgVerificationRepository) Create(ctx context.Context, v domain.VerificationRequest) error {
	const query = `
		INSERT INTO creator_verifications (` + verificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := conn(ctx, r.db).Exec(ctx, query,
		v.ID,
		v.UserID,
		v.Category,
		v.DegreeTitle,
		v.ProfessionalRegister,
		v.IdentityDocumentPath,
		v.DegreeDocumentPath,
		v.RegisterDocumentPath,
		string(v.Status),
		v.AdminNote,
		v.CreatedAt,
		v.ReviewedAt,
	)
	return translateErr(err)
}

func (r *PgVerificationRepository) GetByID(ctx context.Context, id string) (domain.VerificationRequest, error) {
	return r.getOne(ctx, `SELECT `+verificationColumns+` FROM creator_verifications WHERE id = $1`, id)
}

func (r *PgVerificationRepository) GetByIDForUpdate(ctx context.Context, id string) (domain.VerificationRequest, error) {
	return r.getOne(ctx, `SELECT `+verificationColumns+` FROM creator_verifications WHERE id = $1 FOR UPDATE`, id)
}

func (r *PgVerificationRepository) GetByUserID(ctx context.Context, userID string) (domain.VerificationRequest, error) {
	return r.getOne(ctx, `SELECT `+verificationColumns+` FROM creator_verifications WHERE user_id = $1`, userID)
}

// UpdateReview persiste el resultado de una revisión. Solo actualiza filas
// que siguen en pending, de modo que una carrera perdida no pisa un estado final.
func (r *PgVerificationRepository) UpdateReview(ctx context.Context, v domain.VerificationRequest) error {
	const query = `
		UPDATE creator_verifications
		SET status = $2, admin_note = $3, reviewed_at = $4
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := conn(ctx, r.db).Exec(ctx, query, v.ID, string(v.Status), v.AdminNote, v.ReviewedAt)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

func (r *PgVerificationRepository) ListByStatus(ctx context.Context, status domain.VerificationStatus) ([]domain.VerificationRequest, error) {
	query := `SELECT ` + verificationColumns + ` FROM creator_verifications WHERE status = $1 ORDER BY created_at ASC`
	rows, err := conn(ctx, r.db).Query(ctx, query, string(status))
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []domain.VerificationRequest
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PgVerificationRepository) getOne(ctx context.Context, query string, arg any) (domain.VerificationRequest, error) {
	v, err := scanVerification(conn(ctx, r.db).QueryRow(ctx, query, arg))
	if err != nil {
		return domain.VerificationRequest{}, translateErr(err)
	}
	return v, nil
}

func scanVerification(row scanner) (domain.VerificationRequest, error) {
	var (
		v      domain.VerificationRequest
		status string
	)
	if err := row.Scan(
		&v.ID,
		&v.UserID,
		&v.Category,
		&v.DegreeTitle,
		&v.ProfessionalRegister,
		&v.IdentityDocumentPath,
		&v.DegreeDocumentPath,
		&v.RegisterDocumentPath,
		&status,
		&v.AdminNote,
		&v.CreatedAt,
		&v.ReviewedAt,
	); err != nil {
		return domain.VerificationRequest{}, err
	}
	parsed, err := domain.ParseVerificationStatus(status)
	if err != nil {
		return domain.VerificationRequest{}, err
	}
	v.Status = parsed
	return v, nil
}
