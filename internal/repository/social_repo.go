package repository

import (
	"context"

	"tryhup-api/internal/domain"
)

// FollowRepository guarda las aristas de seguimiento.
type FollowRepository interface {
	Create(ctx context.Context, follow domain.Follow) error
	Delete(ctx context.Context, followerID, followeeID string) error
	ListFollowers(ctx context.Context, userID string) ([]domain.User, error)
	ListFollowing(ctx context.Context, userID string) ([]domain.User, error)
	Counts(ctx context.Context, userID string) (domain.SocialCounts, error)
}

// LikeRepository guarda los likes. El número de likes de un contenido se
// deriva contando filas, no hay contador desnormalizado.
type LikeRepository interface {
	Create(ctx context.Context, like domain.Like) error
	Delete(ctx context.Context, userID, contentID string) error
}

type PgFollowRepository struct {
	db DB
}

func NewPgFollowRepository(db DB) *PgFollowRepository {
	return &PgFollowRepository{db: db}
}

func (r *PgFollowRepository) Create(ctx context.Context, f domain.Follow) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`INSERT INTO follows (follower_id, following_id, created_at) VALUES ($1, $2, $3)`,
		f.FollowerID, f.FolloweeID, f.CreatedAt)
	return translateErr(err)
}

func (r *PgFollowRepository) Delete(ctx context.Context, followerID, followeeID string) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`, followerID, followeeID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgFollowRepository) ListFollowers(ctx context.Context, userID string) ([]domain.User, error) {
	return r.listUsers(ctx, `
		SELECT `+prefixed("u.", userColumns)+`
		FROM users u JOIN follows f ON f.follower_id = u.id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC`, userID)
}

func (r *PgFollowRepository) ListFollowing(ctx context.Context, userID string) ([]domain.User, error) {
	return r.listUsers(ctx, `
		SELECT `+prefixed("u.", userColumns)+`
		FROM users u JOIN follows f ON f.following_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC`, userID)
}

func (r *PgFollowRepository) Counts(ctx context.Context, userID string) (domain.SocialCounts, error) {
	const query = `
		SELECT
			(SELECT count(*) FROM follows WHERE following_id = $1),
			(SELECT count(*) FROM follows WHERE follower_id = $1)
	`
	var c domain.SocialCounts
	if err := conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(&c.Followers, &c.Following); err != nil {
		return domain.SocialCounts{}, translateErr(err)
	}
	return c, nil
}

func (r *PgFollowRepository) listUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type PgLikeRepository struct {
	db DB
}

func NewPgLikeRepository(db DB) *PgLikeRepository {
	return &PgLikeRepository{db: db}
}

func (r *PgLikeRepository) Create(ctx context.Context, l domain.Like) error {
	_, err := conn(ctx, r.db).Exec(ctx,
		`INSERT INTO likes (user_id, content_id, created_at) VALUES ($1, $2, $3)`,
		l.UserID, l.ContentID, l.CreatedAt)
	return translateErr(err)
}

func (r *PgLikeRepository) Delete(ctx context.Context, userID, contentID string) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND content_id = $2`, userID, contentID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
