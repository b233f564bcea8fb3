// internal/auth/repository.go

package auth

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
        INSERT INTO users (username, display_name, email, gender, password_hash)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		user.Username, user.DisplayName, user.Email, user.Gender, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == "23505" {
		switch pqErr.Constraint {
		case "users_email_key":
			return ErrEmailAlreadyExists
		default:
			return ErrUsernameAlreadyExists
		}
	}

	return err
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `
        SELECT id, username, display_name, email, gender, password_hash,
               is_admin, is_online, last_active, created_at
        FROM users
        WHERE id = $1
    `

	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `
        SELECT id, username, display_name, email, gender, password_hash,
               is_admin, is_online, last_active, created_at
        FROM users
        WHERE LOWER(email) = LOWER($1)
    `

	err := r.db.GetContext(ctx, &user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
