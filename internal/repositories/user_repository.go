package repositories

import (
	"context"

	intdb "backoffice/internal/db"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
)

type UserRepository struct {
	DB intdb.DBTX
}

// GetByLogin finds a user by email or username.
func (r UserRepository) GetByLogin(ctx context.Context, login string) (models.User, error) {
	db, err := conn(r.DB)
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	err = db.QueryRowContext(ctx, `
		SELECT id, name, username, email, password_hash, role, status, created_at
		FROM users
		WHERE email = ? OR username = ?
		LIMIT 1`, login, login).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt,
	)
	if err != nil {
		return models.User{}, notFound("user", err)
	}
	return u, nil
}

func (r UserRepository) Exists(ctx context.Context, email, username string) (bool, error) {
	db, err := conn(r.DB)
	if err != nil {
		return false, err
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`, email, username).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r UserRepository) Insert(ctx context.Context, u models.User) (int64, error) {
	db, err := conn(r.DB)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, `
		INSERT INTO users (name, username, email, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, ?)`, u.Name, u.Username, u.Email, u.PasswordHash, u.Role, u.Status)
	if err != nil {
		if intdb.IsDuplicateKey(err) {
			return 0, domain.ConflictError{Resource: "user", Msg: "email or username already registered", Err: err}
		}
		return 0, err
	}
	return res.LastInsertId()
}
