// internal/directory/repository.go
// Read-only user lookups, plus the activity markers the messaging
// module writes after an authorized send.

package directory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var ErrUserNotFound = errors.New("user not found")

// Directory is the lookup capability injected into the matching and
// messaging services. Implementations must treat GetByIDs as best-effort:
// missing ids are simply absent from the returned map, never an error.
type Directory interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetByIDs(ctx context.Context, userIDs []int64) (map[int64]*Info, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	UpdateLastActive(ctx context.Context, userID int64) error
	SetOnline(ctx context.Context, userID int64, online bool) error
}

type postgresDirectory struct {
	db *sqlx.DB
}

// NewPostgresDirectory creates a directory backed by the users table
func NewPostgresDirectory(db *sqlx.DB) Directory {
	return &postgresDirectory{db: db}
}

func (d *postgresDirectory) GetByID(ctx context.Context, userID int64) (*User, error) {
	var user User
	query := `
        SELECT id, username, display_name, email, phone, gender, profile_picture,
               is_online, last_active, created_at
        FROM users
        WHERE id = $1
    `

	err := d.db.GetContext(ctx, &user, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (d *postgresDirectory) GetByIDs(ctx context.Context, userIDs []int64) (map[int64]*Info, error) {
	result := make(map[int64]*Info, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	query := `
        SELECT id, username, display_name, gender, profile_picture, is_online
        FROM users
        WHERE id = ANY($1)
    `

	var infos []*Info
	if err := d.db.SelectContext(ctx, &infos, query, pq.Array(userIDs)); err != nil {
		return nil, err
	}

	// Ids with no row are simply absent; callers treat that as a
	// deleted account.
	for _, info := range infos {
		result[info.ID] = info
	}

	return result, nil
}

func (d *postgresDirectory) Exists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`

	err := d.db.GetContext(ctx, &exists, query, userID)
	return exists, err
}

func (d *postgresDirectory) UpdateLastActive(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_active = $2 WHERE id = $1`

	_, err := d.db.ExecContext(ctx, query, userID, time.Now())
	return err
}

func (d *postgresDirectory) SetOnline(ctx context.Context, userID int64, online bool) error {
	query := `UPDATE users SET is_online = $2, last_active = $3 WHERE id = $1`

	_, err := d.db.ExecContext(ctx, query, userID, online, time.Now())
	return err
}
