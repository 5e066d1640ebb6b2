package repository

import (
	"context"
	"strconv"

	"tryhup-api/internal/domain"
)

// ContentRepository cubre el almacén de contenidos y las consultas del feed.
type ContentRepository interface {
	Create(ctx context.Context, content domain.Content) error
	GetByID(ctx context.Context, id string) (domain.Content, error)
	GetByIDForUpdate(ctx context.Context, id string) (domain.Content, error)
	UpdateRating(ctx context.Context, id string, avg float64, count int) error
	SetApproved(ctx context.Context, id string, approved bool) error
	List(ctx context.Context, approved *bool) ([]domain.Content, error)

	// FollowingPage devuelve contenido aprobado de los usuarios que sigue el
	// viewer, más reciente primero, y el total sin paginar.
	FollowingPage(ctx context.Context, viewerID string, limit, offset int) ([]domain.Content, int, error)
	// DiscoveryPage devuelve contenido aprobado de usuarios no seguidos,
	// ordenado por growth index, rating y desempate derivado de seed.
	DiscoveryPage(ctx context.Context, viewerID string, seed int64, limit, offset int) ([]domain.Content, int, error)
}

type PgContentRepository struct {
	db DB
}

func NewPgContentRepository(db DB) *PgContentRepository {
	return &PgContentRepository{db: db}
}

const contentColumns = `c.id, c.owner_id, c.media_type, c.media_url, c.creator_description, c.category,
	c.approved, c.rating_avg, c.rating_count, c.growth_index, c.growth_percentage,
	(SELECT count(*) FROM likes l WHERE l.content_id = c.id), c.created_at`

const notFollowedByViewer = `NOT EXISTS (
		SELECT 1 FROM follows f WHERE f.follower_id = $1 AND f.following_id = c.owner_id
	)`

func (r *PgContentRepository) Create(ctx context.Context, content domain.Content) error {
	const query = `
		INSERT INTO contents (id, owner_id, media_type, media_url, creator_description, category,
			approved, rating_avg, rating_count, growth_index, growth_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := conn(ctx, r.db).Exec(ctx, query,
		content.ID,
		content.OwnerID,
		string(content.MediaType),
		content.MediaURL,
		content.Description,
		content.Category,
		content.Approved,
		content.RatingAvg,
		content.RatingCount,
		content.GrowthIndex,
		content.GrowthPercentage,
		content.CreatedAt,
	)
	return translateErr(err)
}

func (r *PgContentRepository) GetByID(ctx context.Context, id string) (domain.Content, error) {
	return r.getOne(ctx, `SELECT `+contentColumns+` FROM contents c WHERE c.id = $1`, id)
}

func (r *PgContentRepository) GetByIDForUpdate(ctx context.Context, id string) (domain.Content, error) {
	return r.getOne(ctx, `SELECT `+contentColumns+` FROM contents c WHERE c.id = $1 FOR UPDATE OF c`, id)
}

func (r *PgContentRepository) UpdateRating(ctx context.Context, id string, avg float64, count int) error {
	tag, err := conn(ctx, r.db).Exec(ctx,
		`UPDATE contents SET rating_avg = $2, rating_count = $3 WHERE id = $1`, id, avg, count)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgContentRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE contents SET approved = $2 WHERE id = $1`, id, approved)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgContentRepository) List(ctx context.Context, approved *bool) ([]domain.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents c`
	var args []any
	if approved != nil {
		query += ` WHERE c.approved = $1`
		args = append(args, *approved)
	}
	query += ` ORDER BY c.created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *PgContentRepository) FollowingPage(ctx context.Context, viewerID string, limit, offset int) ([]domain.Content, int, error) {
	const where = `
		FROM contents c
		JOIN follows f ON f.following_id = c.owner_id AND f.follower_id = $1
		WHERE c.approved
	`
	var total int
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT count(*) `+where, viewerID).Scan(&total); err != nil {
		return nil, 0, translateErr(err)
	}
	items, err := r.list(ctx,
		`SELECT `+contentColumns+where+` ORDER BY c.created_at DESC, c.id LIMIT $2 OFFSET $3`,
		viewerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PgContentRepository) DiscoveryPage(ctx context.Context, viewerID string, seed int64, limit, offset int) ([]domain.Content, int, error) {
	where := ` FROM contents c WHERE c.approved AND ` + notFollowedByViewer
	var total int
	if err := conn(ctx, r.db).QueryRow(ctx, `SELECT count(*)`+where, viewerID).Scan(&total); err != nil {
		return nil, 0, translateErr(err)
	}
	// El desempate replica domain.DiscoveryTieBreak.
	query := `SELECT ` + contentColumns + where + `
		ORDER BY c.growth_index DESC,
			CASE WHEN c.rating_count > 0 THEN c.rating_avg ELSE 0 END DESC,
			md5($2 || ':' || c.id)
		LIMIT $3 OFFSET $4`
	items, err := r.list(ctx, query, viewerID, strconv.FormatInt(seed, 10), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PgContentRepository) getOne(ctx context.Context, query string, arg any) (domain.Content, error) {
	c, err := scanContent(conn(ctx, r.db).QueryRow(ctx, query, arg))
	if err != nil {
		return domain.Content{}, translateErr(err)
	}
	return c, nil
}

func (r *PgContentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Content, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	items := make([]domain.Content, 0)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func scanContent(row scanner) (domain.Content, error) {
	var (
		c         domain.Content
		mediaType string
	)
	if err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&mediaType,
		&c.MediaURL,
		&c.Description,
		&c.Category,
		&c.Approved,
		&c.RatingAvg,
		&c.RatingCount,
		&c.GrowthIndex,
		&c.GrowthPercentage,
		&c.LikeCount,
		&c.CreatedAt,
	); err != nil {
		return domain.Content{}, err
	}
	c.MediaType = domain.MediaType(mediaType)
	return c, nil
}
