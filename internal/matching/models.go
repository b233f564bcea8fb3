// internal/matching/models.go

package matching

import (
	"time"

	"github.com/adeolasoneye/mingle-backend/internal/directory"
)

// Record status values. A directed record moves
// pending -> accepted (reverse like, respond, or admin override) or
// pending -> rejected (respond or admin). Both outcomes are terminal
// for that directed edge.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Record is one directed relationship-intent row: UserID has expressed
// interest in MatchedUserID. Mutuality is never stored; it is derived
// from the presence of both directional rows on every read.
type Record struct {
	ID            int64     `json:"id" db:"id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	MatchedUserID int64     `json:"matched_user_id" db:"matched_user_id"`
	Status        string    `json:"status" db:"status"`
	Score         float64   `json:"score" db:"score"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Active reports whether the record still expresses interest
func (r *Record) Active() bool {
	return r.Status == StatusPending || r.Status == StatusAccepted
}

// LikedUser is one entry of the liked-by-me list, hydrated against the
// user directory.
type LikedUser struct {
	User    *directory.Info `json:"user"`
	Status  string          `json:"status"`
	Score   float64         `json:"score"`
	LikedAt time.Time       `json:"liked_at"`
}

// MatchedUser is one entry of the matched-users list
type MatchedUser struct {
	User          *directory.Info `json:"user"`
	Score         float64         `json:"score"`
	MatchedAt     time.Time       `json:"matched_at"`
	InitiatedByMe bool            `json:"initiated_by_me"`
}

// PairStatus is the combined two-direction view returned by CheckStatus
type PairStatus struct {
	HasLiked    bool    `json:"has_liked"`
	IsMatched   bool    `json:"is_matched"`
	MyStatus    *string `json:"my_status"`
	TheirStatus *string `json:"their_status"`
}

// Stats aggregates record counters for the admin surface
type Stats struct {
	TotalRecords   int64     `json:"total_records"`
	PendingRecords int64     `json:"pending_records"`
	AcceptedPairs  int64     `json:"accepted_pairs"`
	RejectedCount  int64     `json:"rejected_count"`
	CollectedAt    time.Time `json:"collected_at"`
}
