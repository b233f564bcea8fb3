// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code raised by the
// (user_id, matched_user_id) unique constraint. Duplicate likes are
// detected this way rather than by a pre-check, so a racing existence
// check can never slip a second row in.
const uniqueViolation = "23505"

// MatchEntry is one row of a matched-users query before directory
// hydration.
type MatchEntry struct {
	OtherID       int64     `db:"other_id"`
	Score         float64   `db:"score"`
	MatchedAt     time.Time `db:"matched_at"`
	InitiatedByMe bool      `db:"initiated_by_me"`
}

type Repository interface {
	// Like Store
	CreateRecord(ctx context.Context, record *Record) error
	GetRecord(ctx context.Context, userID, matchedUserID int64) (*Record, error)
	UpdateStatus(ctx context.Context, userID, matchedUserID int64, status string) error
	DeleteRecord(ctx context.Context, userID, matchedUserID int64) error
	HasActiveLike(ctx context.Context, likerID, likedID int64) (bool, error)

	// Match Resolver reads
	ListOutgoingActive(ctx context.Context, userID int64) ([]*Record, error)
	ListMatchedStrict(ctx context.Context, userID int64) ([]*MatchEntry, error)
	ListMatchedEither(ctx context.Context, userID int64) ([]*MatchEntry, error)
	ArePairActive(ctx context.Context, userA, userB int64) (bool, error)
	CountLikedMe(ctx context.Context, userID int64) (int64, error)

	// Admin
	ForceStatus(ctx context.Context, userID, matchedUserID int64, status string) error
	DeleteUserRecords(ctx context.Context, userID int64) (int64, []int64, error)
	CollectStats(ctx context.Context) (*Stats, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// Like Store methods

func (r *postgresRepository) CreateRecord(ctx context.Context, record *Record) error {
	query := `
        INSERT INTO match_records (user_id, matched_user_id, status, score)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `

	err := r.db.QueryRowxContext(
		ctx, query,
		record.UserID, record.MatchedUserID, record.Status, record.Score,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == uniqueViolation {
		return ErrAlreadyLiked
	}

	return err
}

func (r *postgresRepository) GetRecord(ctx context.Context, userID, matchedUserID int64) (*Record, error) {
	var record Record
	query := `
        SELECT id, user_id, matched_user_id, status, score, created_at, updated_at
        FROM match_records
        WHERE user_id = $1 AND matched_user_id = $2
    `

	err := r.db.GetContext(ctx, &record, query, userID, matchedUserID)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, userID, matchedUserID int64, status string) error {
	query := `
        UPDATE match_records
        SET status = $3, updated_at = CURRENT_TIMESTAMP
        WHERE user_id = $1 AND matched_user_id = $2
    `

	result, err := r.db.ExecContext(ctx, query, userID, matchedUserID, status)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *postgresRepository) DeleteRecord(ctx context.Context, userID, matchedUserID int64) error {
	query := `
        DELETE FROM match_records
        WHERE user_id = $1 AND matched_user_id = $2
    `

	result, err := r.db.ExecContext(ctx, query, userID, matchedUserID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *postgresRepository) HasActiveLike(ctx context.Context, likerID, likedID int64) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM match_records
            WHERE user_id = $1 AND matched_user_id = $2
                  AND status IN ('pending', 'accepted')
        )
    `

	err := r.db.GetContext(ctx, &exists, query, likerID, likedID)
	return exists, err
}

// Match Resolver methods

func (r *postgresRepository) ListOutgoingActive(ctx context.Context, userID int64) ([]*Record, error) {
	var records []*Record
	query := `
        SELECT id, user_id, matched_user_id, status, score, created_at, updated_at
        FROM match_records
        WHERE user_id = $1 AND status IN ('pending', 'accepted')
        ORDER BY created_at DESC
    `

	err := r.db.SelectContext(ctx, &records, query, userID)
	return records, err
}

// ListMatchedStrict returns pairs where both directional records are
// accepted. initiated_by_me compares creation order of the two rows.
func (r *postgresRepository) ListMatchedStrict(ctx context.Context, userID int64) ([]*MatchEntry, error) {
	var entries []*MatchEntry
	query := `
        SELECT r.matched_user_id AS other_id,
               r.score,
               GREATEST(r.updated_at, r2.updated_at) AS matched_at,
               (r.created_at <= r2.created_at) AS initiated_by_me
        FROM match_records r
        JOIN match_records r2
             ON r2.user_id = r.matched_user_id AND r2.matched_user_id = r.user_id
        WHERE r.user_id = $1 AND r.status = 'accepted' AND r2.status = 'accepted'
        ORDER BY matched_at DESC
    `

	err := r.db.SelectContext(ctx, &entries, query, userID)
	return entries, err
}

// ListMatchedEither is the permissive variant: an accepted record in
// either direction is enough for the pair to appear.
func (r *postgresRepository) ListMatchedEither(ctx context.Context, userID int64) ([]*MatchEntry, error) {
	var entries []*MatchEntry
	query := `
        SELECT other_id, score, matched_at, initiated_by_me FROM (
            SELECT DISTINCT ON (other_id) * FROM (
                SELECT matched_user_id AS other_id, score, updated_at AS matched_at,
                       TRUE AS initiated_by_me
                FROM match_records
                WHERE user_id = $1 AND status = 'accepted'
                UNION ALL
                SELECT user_id AS other_id, score, updated_at AS matched_at,
                       FALSE AS initiated_by_me
                FROM match_records
                WHERE matched_user_id = $1 AND status = 'accepted'
            ) directions
            ORDER BY other_id, matched_at DESC
        ) deduped
        ORDER BY matched_at DESC
    `

	err := r.db.SelectContext(ctx, &entries, query, userID)
	return entries, err
}

func (r *postgresRepository) ArePairActive(ctx context.Context, userA, userB int64) (bool, error) {
	var mutual bool
	query := `
        SELECT EXISTS(
            SELECT 1 FROM match_records
            WHERE user_id = $1 AND matched_user_id = $2
                  AND status IN ('pending', 'accepted')
        ) AND EXISTS(
            SELECT 1 FROM match_records
            WHERE user_id = $2 AND matched_user_id = $1
                  AND status IN ('pending', 'accepted')
        )
    `

	err := r.db.GetContext(ctx, &mutual, query, userA, userB)
	return mutual, err
}

func (r *postgresRepository) CountLikedMe(ctx context.Context, userID int64) (int64, error) {
	var count int64
	query := `
        SELECT COUNT(*) FROM match_records
        WHERE matched_user_id = $1 AND status IN ('pending', 'accepted')
    `

	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

// Admin methods

func (r *postgresRepository) ForceStatus(ctx context.Context, userID, matchedUserID int64, status string) error {
	query := `
        INSERT INTO match_records (user_id, matched_user_id, status, score)
        VALUES ($1, $2, $3, 0)
        ON CONFLICT (user_id, matched_user_id)
        DO UPDATE SET status = $3, updated_at = CURRENT_TIMESTAMP
    `

	_, err := r.db.ExecContext(ctx, query, userID, matchedUserID, status)
	return err
}

// DeleteUserRecords removes every record involving the user and returns
// the removed count plus the other users whose incoming likes were
// deleted, so their liked-me caches can be invalidated too.
func (r *postgresRepository) DeleteUserRecords(ctx context.Context, userID int64) (int64, []int64, error) {
	query := `
        DELETE FROM match_records
        WHERE user_id = $1 OR matched_user_id = $1
        RETURNING user_id, matched_user_id
    `

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	var removed int64
	seen := make(map[int64]bool)
	var others []int64
	for rows.Next() {
		var uid, mid int64
		if err := rows.Scan(&uid, &mid); err != nil {
			return 0, nil, err
		}
		removed++
		if uid == userID && !seen[mid] {
			seen[mid] = true
			others = append(others, mid)
		}
	}

	return removed, others, rows.Err()
}

func (r *postgresRepository) CollectStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	query := `
        SELECT
            COUNT(*) AS total,
            COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending,
            COUNT(CASE WHEN status = 'rejected' THEN 1 END) AS rejected,
            (SELECT COUNT(*) / 2 FROM match_records r
             JOIN match_records r2
                  ON r2.user_id = r.matched_user_id AND r2.matched_user_id = r.user_id
             WHERE r.status = 'accepted' AND r2.status = 'accepted') AS accepted_pairs
        FROM match_records
    `

	err := r.db.QueryRowxContext(ctx, query).Scan(
		&stats.TotalRecords,
		&stats.PendingRecords,
		&stats.RejectedCount,
		&stats.AcceptedPairs,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
