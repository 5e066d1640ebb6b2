package repository

import (
	"context"

	"tryhup-api/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) error
	GetByID(ctx context.Context, id string) (domain.Comment, error)
	ListApprovedByContent(ctx context.Context, contentID string) ([]domain.Comment, error)
	ListByFilter(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, error)
	// SetReview es el override administrativo; el veredicto del scorer no se toca aquí.
	SetReview(ctx context.Context, id string, approved, flagged bool) (domain.Comment, error)
}

type PgCommentRepository struct {
	db DB
}

func NewPgCommentRepository(db DB) *PgCommentRepository {
	return &PgCommentRepository{db: db}
}

const commentColumns = `id, content_id, user_id, text, parent_id, is_approved, is_flagged,
	moderation_score, moderation_note, created_at`

func (r *PgCommentRepository) Create(ctx context.Context, c domain.Comment) error {
	const query = `
		INSERT INTO comments (` + commentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := conn(ctx, r.db).Exec(ctx, query,
		c.ID,
		c.ContentID,
		c.AuthorID,
		c.Body,
		c.ParentID,
		c.IsApproved,
		c.IsFlagged,
		c.ModerationScore,
		c.ModerationNote,
		c.CreatedAt,
	)
	return translateErr(err)
}

func (r *PgCommentRepository) GetByID(ctx context.Context, id string) (domain.Comment, error) {
	c, err := scanComment(conn(ctx, r.db).QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		return domain.Comment{}, translateErr(err)
	}
	return c, nil
}

func (r *PgCommentRepository) ListApprovedByContent(ctx context.Context, contentID string) ([]domain.Comment, error) {
	return r.list(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE content_id = $1 AND is_approved ORDER BY created_at ASC`,
		contentID)
}

func (r *PgCommentRepository) ListByFilter(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, error) {
	var where string
	switch filter {
	case domain.CommentFilterApproved:
		where = `is_approved`
	case domain.CommentFilterFlagged:
		where = `is_flagged`
	case domain.CommentFilterPending:
		where = `NOT is_approved`
	default:
		return nil, domain.ErrInvalidInput
	}
	return r.list(ctx, `SELECT `+commentColumns+` FROM comments WHERE `+where+` ORDER BY created_at DESC`)
}

func (r *PgCommentRepository) SetReview(ctx context.Context, id string, approved, flagged bool) (domain.Comment, error) {
	const query = `
		UPDATE comments SET is_approved = $2, is_flagged = $3
		WHERE id = $1
		RETURNING ` + commentColumns
	c, err := scanComment(conn(ctx, r.db).QueryRow(ctx, query, id, approved, flagged))
	if err != nil {
		return domain.Comment{}, translateErr(err)
	}
	return c, nil
}

func (r *PgCommentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Comment, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make([]domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanComment(row scanner) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.ID,
		&c.ContentID,
		&c.AuthorID,
		&c.Body,
		&c.ParentID,
		&c.IsApproved,
		&c.IsFlagged,
		&c.ModerationScore,
		&c.ModerationNote,
		&c.CreatedAt,
	)
	return c, err
}
