package admin

import (
	"context"
	"database/sql"
	"errors"

	"sudhamrit-be/internal/db"
)

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash string) (Admin, error)
	ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (Admin, error)
	FindByID(ctx context.Context, id uint) (Admin, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash string) (Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admins (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, password_hash, created_at
	`, name, email, passwordHash).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if db.IsUniqueViolation(err) {
		return Admin{}, ErrAdminExists
	}
	return a, err
}

func (r *repository) ExistsByNameOrEmail(ctx context.Context, name, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM admins WHERE name = $1 OR lower(email) = lower($2))`,
		name, email,
	).Scan(&exists)
	return exists, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM admins WHERE lower(email) = lower($1)`,
		email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrAdminNotFound
	}
	return a, err
}

func (r *repository) FindByID(ctx context.Context, id uint) (Admin, error) {
	var a Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM admins WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrAdminNotFound
	}
	return a, err
}
