package repository

import (
	"context"

	"github.com/bryllupspakken/backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgAdminUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgAdminUserRepository returns a PostgreSQL-backed AdminUserRepository.
func NewPgAdminUserRepository(pool *pgxpool.Pool) AdminUserRepository {
	return &pgAdminUserRepository{pool: pool}
}

const adminUserColumns = `id, email, name, password_hash, created_at, updated_at`

func (r *pgAdminUserRepository) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	return r.findOne(ctx, `SELECT `+adminUserColumns+` FROM admin_users WHERE id = $1`, id)
}

// FindByEmail matches case-insensitively.
func (r *pgAdminUserRepository) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	return r.findOne(ctx, `SELECT `+adminUserColumns+` FROM admin_users WHERE lower(email) = lower($1)`, email)
}

func (r *pgAdminUserRepository) findOne(ctx context.Context, query string, arg any) (*model.AdminUser, error) {
	u := &model.AdminUser{}
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, isNoRows(err)
	}
	return u, nil
}

// Create inserts u and fills in id and timestamps.
func (r *pgAdminUserRepository) Create(ctx context.Context, u *model.AdminUser) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO admin_users (email, name, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.Name, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *pgAdminUserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
