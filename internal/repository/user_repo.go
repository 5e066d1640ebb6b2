package repository

import (
	"context"

	"tryhup-api/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByIDForUpdate(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByHandle(ctx context.Context, handle string) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

// PgUserRepository implementa UserRepository sobre Postgres.
type PgUserRepository struct {
	db DB
}

func NewPgUserRepository(db DB) *PgUserRepository {
	return &PgUserRepository{db: db}
}

const userColumns = `id, email, username, display_name, bio_description, profile_image_url,
	role, is_creator, is_creator_verified, is_active, created_at`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, username, display_name, bio_description, profile_image_url,
			role, is_creator, is_creator_verified, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := conn(ctx, r.db).Exec(ctx, query,
		user.ID,
		user.Email,
		user.Handle,
		user.DisplayName,
		user.Bio,
		user.ProfileImageURL,
		string(user.Role),
		user.IsCreator,
		user.IsCreatorVerified,
		user.IsActive,
		user.CreatedAt,
	)
	return translateErr(err)
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PgUserRepository) GetByIDForUpdate(ctx context.Context, id string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PgUserRepository) GetByHandle(ctx context.Context, handle string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, handle)
}

func (r *PgUserRepository) Update(ctx context.Context, user domain.User) error {
	const query = `
		UPDATE users
		SET username = $2, display_name = $3, bio_description = $4, profile_image_url = $5,
			role = $6, is_creator = $7, is_creator_verified = $8, is_active = $9
		WHERE id = $1
	`
	tag, err := conn(ctx, r.db).Exec(ctx, query,
		user.ID,
		user.Handle,
		user.DisplayName,
		user.Bio,
		user.ProfileImageURL,
		string(user.Role),
		user.IsCreator,
		user.IsCreatorVerified,
		user.IsActive,
	)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	u, err := scanUser(conn(ctx, r.db).QueryRow(ctx, query, arg))
	if err != nil {
		return domain.User{}, translateErr(err)
	}
	return u, nil
}

func scanUser(row scanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Handle,
		&u.DisplayName,
		&u.Bio,
		&u.ProfileImageURL,
		&role,
		&u.IsCreator,
		&u.IsCreatorVerified,
		&u.IsActive,
		&u.CreatedAt,
	); err != nil {
		return domain.User{}, err
	}
	parsed, err := domain.ParseRole(role)
	if err != nil {
		return domain.User{}, err
	}
	u.Role = parsed
	return u, nil
}
